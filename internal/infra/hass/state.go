package hass

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"trashminder/internal/domain/detection"

	"github.com/sirupsen/logrus"
)

// EntityID is the binary sensor other Home Assistant automations can watch.
const EntityID = "binary_sensor.trashminder_trash_bin_present"

const stateHTTPTimeout = 10 * time.Second

// StateClient mirrors the monitor's latest verdict into a Home Assistant
// entity via the states API. Only the current state is published; nothing
// is recorded over time.
type StateClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *logrus.Logger
}

func NewStateClient(baseURL, token string, logger *logrus.Logger) *StateClient {
	return &StateClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: stateHTTPTimeout},
		logger:     logger,
	}
}

type entityState struct {
	State      string           `json:"state"`
	Attributes entityAttributes `json:"attributes"`
}

type entityAttributes struct {
	FriendlyName string `json:"friendly_name"`
	DeviceClass  string `json:"device_class"`
	Icon         string `json:"icon"`
	LastChecked  string `json:"last_checked"`
	Confidence   string `json:"confidence,omitempty"`
	Description  string `json:"description"`
	Detected     bool   `json:"detected"`
}

// ReportResult publishes the verdict of a completed check.
func (c *StateClient) ReportResult(ctx context.Context, result detection.Result) error {
	state, icon := "off", "mdi:trash-can-outline"
	if result.BinAtCurb {
		state, icon = "on", "mdi:trash-can"
	}
	return c.setState(ctx, entityState{
		State: state,
		Attributes: entityAttributes{
			FriendlyName: "Trash Bin at Curb",
			DeviceClass:  "presence",
			Icon:         icon,
			LastChecked:  time.Now().Format("2006-01-02 15:04:05"),
			Confidence:   string(result.Confidence),
			Description:  result.Description,
			Detected:     result.BinAtCurb,
		},
	})
}

// ReportCleared resets the entity to "off" with a note such as
// "Monitoring started" or "Monitoring window ended".
func (c *StateClient) ReportCleared(ctx context.Context, note string) error {
	return c.setState(ctx, entityState{
		State: "off",
		Attributes: entityAttributes{
			FriendlyName: "Trash Bin at Curb",
			DeviceClass:  "presence",
			Icon:         "mdi:trash-can-outline",
			LastChecked:  time.Now().Format("2006-01-02 15:04:05"),
			Description:  note,
		},
	})
}

func (c *StateClient) setState(ctx context.Context, state entityState) error {
	body, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode entity state: %w", err)
	}

	url := fmt.Sprintf("%s/api/states/%s", c.baseURL, EntityID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build entity state request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("update entity state: %w", err)
	}
	defer resp.Body.Close()

	// 200 for an updated entity, 201 when Home Assistant creates it.
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("states API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	c.logger.WithFields(logrus.Fields{"entity": EntityID, "state": state.State}).Debug("entity state published")
	return nil
}
