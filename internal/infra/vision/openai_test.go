package vision

import (
	"encoding/json"
	"testing"

	"trashminder/internal/domain/detection"
)

func TestParseVerdict(t *testing.T) {
	result, err := parseVerdict(`{"trash_bin_present": false, "confidence": "high", "description": "No bin visible near the curb"}`)
	if err != nil {
		t.Fatalf("parse verdict: %v", err)
	}
	if result.BinAtCurb {
		t.Fatal("expected bin_at_curb false")
	}
	if result.Confidence != detection.ConfidenceHigh {
		t.Fatalf("confidence = %q, want high", result.Confidence)
	}
	if result.Description != "No bin visible near the curb" {
		t.Fatalf("description = %q", result.Description)
	}
}

func TestParseVerdictRejectsMalformedJSON(t *testing.T) {
	if _, err := parseVerdict(`the bin is probably there`); err == nil {
		t.Fatal("expected error for non-JSON content")
	}
}

func TestParseVerdictRejectsUnknownConfidence(t *testing.T) {
	if _, err := parseVerdict(`{"trash_bin_present": true, "confidence": "certain", "description": "x"}`); err == nil {
		t.Fatal("expected error for confidence outside the schema enum")
	}
}

func TestVerdictSchemaIsValidJSON(t *testing.T) {
	var schema map[string]any
	if err := json.Unmarshal([]byte(verdictSchema), &schema); err != nil {
		t.Fatalf("verdict schema is not valid JSON: %v", err)
	}
	required, ok := schema["required"].([]any)
	if !ok || len(required) != 3 {
		t.Fatalf("verdict schema should require all three fields, got %v", schema["required"])
	}
}
