package detection

import "context"

// Confidence is the classifier's self-reported certainty.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Valid reports whether c is one of the known confidence levels.
func (c Confidence) Valid() bool {
	switch c {
	case ConfidenceHigh, ConfidenceMedium, ConfidenceLow:
		return true
	}
	return false
}

// Result is the verdict produced by one classification pass over a camera
// snapshot. It is consumed immediately by the monitor loop and never stored.
type Result struct {
	BinAtCurb   bool
	Confidence  Confidence
	Description string
}

// Camera captures a still image of the monitored area.
type Camera interface {
	Snapshot(ctx context.Context) ([]byte, error)
}

// Classifier decides whether a snapshot shows the bin placed at the curb.
type Classifier interface {
	Classify(ctx context.Context, image []byte) (Result, error)
}

// Notifier delivers a human-readable alert, optionally with the snapshot
// attached. Implementations decouple the monitor loop from the transport.
// NotifyTest carries wiring-check messages, which transports may deliver
// with lower urgency than a real alert.
type Notifier interface {
	Notify(ctx context.Context, message string, image []byte) error
	NotifyTest(ctx context.Context, message string, image []byte) error
}

// StateReporter publishes the current detection state to an external
// surface (e.g. a Home Assistant entity) so other systems can observe the
// monitor. Only the latest state is kept; there is no history.
type StateReporter interface {
	// ReportResult publishes the verdict of the check that just completed.
	ReportResult(ctx context.Context, result Result) error
	// ReportCleared resets the state to "not detected" with a note about
	// why, e.g. when the monitoring window opens or closes.
	ReportCleared(ctx context.Context, note string) error
}
