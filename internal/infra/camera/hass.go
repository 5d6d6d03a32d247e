package camera

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const snapshotHTTPTimeout = 10 * time.Second

// Client captures snapshots through the Home Assistant camera proxy API,
// authenticated with the supervisor token.
type Client struct {
	baseURL    string
	token      string
	entity     string
	httpClient *http.Client
	logger     *logrus.Logger
}

func NewClient(baseURL, token, entity string, logger *logrus.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		entity:     entity,
		httpClient: &http.Client{Timeout: snapshotHTTPTimeout},
		logger:     logger,
	}
}

// Snapshot fetches the current still image for the configured camera entity.
func (c *Client) Snapshot(ctx context.Context) ([]byte, error) {
	url := fmt.Sprintf("%s/api/camera_proxy/%s", c.baseURL, c.entity)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build camera snapshot request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch camera snapshot: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("camera API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	image, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read camera snapshot body: %w", err)
	}
	if len(image) == 0 {
		return nil, fmt.Errorf("camera API returned an empty image for %s", c.entity)
	}

	c.logger.WithFields(logrus.Fields{"entity": c.entity, "bytes": len(image)}).Debug("camera snapshot captured")
	return image, nil
}
