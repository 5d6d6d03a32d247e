package vision

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"trashminder/internal/domain/detection"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
)

// detectionPrompt steers the model toward bins on this property only;
// bins across the street at neighboring houses are a common false positive.
const detectionPrompt = `Analyze this image and determine if there is a trash bin/garbage can positioned for pickup on THIS property (the side of the street where the camera is located).

IMPORTANT: Only detect bins that are:
- On the SAME side of the street as the camera (not across the street)
- In the foreground/near side of the image (not on neighboring properties across the street)
- Positioned at or near the curb/street edge for collection
- Clearly intended for pickup from THIS property

Look for:
- Wheeled garbage bins or trash cans on our property's curb
- Bins positioned at the street edge in front of this house
- Typical residential waste containers ready for collection

Do NOT count bins that are:
- Across the street at other properties
- On neighboring properties
- In the background on the opposite side of the street

Return a JSON response indicating whether a trash bin from THIS property is positioned for pickup.`

const verdictSchema = `{
	"type": "object",
	"properties": {
		"trash_bin_present": {
			"type": "boolean",
			"description": "True if a trash bin from THIS property (not across the street) is positioned at the curb for pickup, False otherwise"
		},
		"confidence": {
			"type": "string",
			"enum": ["high", "medium", "low"],
			"description": "Confidence level of the detection"
		},
		"description": {
			"type": "string",
			"description": "Brief description of what was observed"
		}
	},
	"required": ["trash_bin_present", "confidence", "description"],
	"additionalProperties": false
}`

// Classifier asks GPT-4o whether a snapshot shows the trash bin at the
// curb, constraining the response with a strict JSON schema.
type Classifier struct {
	client *openai.Client
	model  string
	logger *logrus.Logger
}

func NewClassifier(apiKey string, logger *logrus.Logger) *Classifier {
	return &Classifier{
		client: openai.NewClient(apiKey),
		model:  openai.GPT4o,
		logger: logger,
	}
}

type verdict struct {
	TrashBinPresent bool   `json:"trash_bin_present"`
	Confidence      string `json:"confidence"`
	Description     string `json:"description"`
}

// Classify sends the image to the vision model and decodes its verdict.
func (c *Classifier) Classify(ctx context.Context, image []byte) (detection.Result, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: detectionPrompt,
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL: "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(image),
						},
					},
				},
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "trash_bin_detection",
				Schema: json.RawMessage(verdictSchema),
				Strict: true,
			},
		},
		MaxTokens: 100,
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return detection.Result{}, fmt.Errorf("vision request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return detection.Result{}, fmt.Errorf("vision response contained no choices")
	}

	result, err := parseVerdict(resp.Choices[0].Message.Content)
	if err != nil {
		return detection.Result{}, err
	}
	c.logger.WithFields(logrus.Fields{
		"bin_at_curb": result.BinAtCurb,
		"confidence":  result.Confidence,
	}).Debug("vision verdict decoded")
	return result, nil
}

func parseVerdict(content string) (detection.Result, error) {
	var v verdict
	if err := json.Unmarshal([]byte(content), &v); err != nil {
		return detection.Result{}, fmt.Errorf("decode vision verdict: %w", err)
	}
	confidence := detection.Confidence(v.Confidence)
	if !confidence.Valid() {
		return detection.Result{}, fmt.Errorf("vision verdict has unknown confidence %q", v.Confidence)
	}
	return detection.Result{
		BinAtCurb:   v.TrashBinPresent,
		Confidence:  confidence,
		Description: v.Description,
	}, nil
}
