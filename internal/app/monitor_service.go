package app

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"trashminder/internal/domain/detection"
	"trashminder/internal/domain/schedule"

	"github.com/sirupsen/logrus"
)

// Per-stage timeouts for the external collaborators. A hang in one call
// must not delay the loop past the next scheduled wake-up indefinitely;
// a timeout is treated like any other per-tick failure.
const (
	snapshotTimeout = 30 * time.Second
	classifyTimeout = 2 * time.Minute
	notifyTimeout   = 30 * time.Second
	reportTimeout   = 10 * time.Second
)

// MonitorService is the single long-running control loop. Outside the
// monitoring window it sleeps until the window next opens; inside it, each
// wake-up runs one capture -> classify -> notify pass and then re-arms the
// timer with a fresh poll delay. Collaborator failures are logged and
// swallowed at the tick boundary so the loop never dies mid-window.
type MonitorService struct {
	window     schedule.Window
	testMode   bool
	camera     detection.Camera
	classifier detection.Classifier
	notifier   detection.Notifier
	reporter   detection.StateReporter
	clock      Clock
	rng        *rand.Rand
	logger     *logrus.Logger
}

func NewMonitorService(
	window schedule.Window,
	testMode bool,
	camera detection.Camera,
	classifier detection.Classifier,
	notifier detection.Notifier,
	reporter detection.StateReporter,
	clock Clock,
	rng *rand.Rand,
	logger *logrus.Logger,
) *MonitorService {
	return &MonitorService{
		window:     window,
		testMode:   testMode,
		camera:     camera,
		classifier: classifier,
		notifier:   notifier,
		reporter:   reporter,
		clock:      clock,
		rng:        rng,
		logger:     logger,
	}
}

// Run drives the monitor until ctx is cancelled and returns ctx's error.
// At most one check pipeline is ever in flight: the next delay is computed
// after the previous check completes, so closely spaced wake-ups cannot
// produce overlapping checks.
func (s *MonitorService) Run(ctx context.Context) error {
	s.logger.WithFields(logrus.Fields{
		"window":    s.window.String(),
		"test_mode": s.testMode,
	}).Info("monitor loop starting")
	s.reportCleared(ctx, "No check performed yet")

	active := false
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		now := s.clock.Now()
		if !s.window.Contains(now) {
			if active {
				active = false
				s.reportCleared(ctx, "Monitoring window ended")
			}
			idle := s.window.UntilStart(now)
			s.logger.WithField("sleep", idle.String()).Info("outside monitoring window, sleeping until next window start")
			if err := s.clock.Sleep(ctx, idle); err != nil {
				return err
			}
			continue
		}

		if !active {
			active = true
			s.reportCleared(ctx, "Monitoring started")
		}
		s.runCheck(ctx)

		if !s.window.Contains(s.clock.Now()) {
			// Window closed while the check was running.
			continue
		}
		delay := schedule.NextPollDelay(s.testMode, s.rng)
		s.logger.WithField("delay", delay.String()).Debug("next check scheduled")
		if err := s.clock.Sleep(ctx, delay); err != nil {
			return err
		}
	}
}

// runCheck performs one capture -> classify -> notify pass. It never
// returns an error: every failure is terminal for this tick only.
func (s *MonitorService) runCheck(ctx context.Context) {
	s.logger.Info("starting trash bin check")

	snapCtx, cancel := context.WithTimeout(ctx, snapshotTimeout)
	image, err := s.camera.Snapshot(snapCtx)
	cancel()
	if err != nil {
		s.logger.WithError(err).Warn("snapshot failed, skipping this check")
		return
	}

	classifyCtx, cancel := context.WithTimeout(ctx, classifyTimeout)
	result, err := s.classifier.Classify(classifyCtx, image)
	cancel()
	if err != nil {
		// Inconclusive tick: no verdict means no notification either way.
		s.logger.WithError(err).Warn("classification failed, treating check as inconclusive")
		return
	}

	s.logger.WithFields(logrus.Fields{
		"bin_at_curb": result.BinAtCurb,
		"confidence":  result.Confidence,
		"description": result.Description,
	}).Info("classification complete")
	s.reportResult(ctx, result)

	switch {
	case !result.BinAtCurb:
		// A miss is a real alert even in test mode.
		s.sendAlert(ctx, s.missMessage(result), image)
	case s.testMode:
		// Test mode notifies on success too, so the operator can verify
		// the end-to-end wiring without waiting for a real miss.
		s.sendTest(ctx, s.testMessage(result), image)
	default:
		s.logger.Info("trash bin detected near the street, nothing to do")
	}
}

func (s *MonitorService) sendAlert(ctx context.Context, message string, image []byte) {
	notifyCtx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()
	if err := s.notifier.Notify(notifyCtx, message, image); err != nil {
		s.logger.WithError(err).Error("notification failed")
		return
	}
	s.logger.Info("notification sent")
}

func (s *MonitorService) sendTest(ctx context.Context, message string, image []byte) {
	notifyCtx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()
	if err := s.notifier.NotifyTest(notifyCtx, message, image); err != nil {
		s.logger.WithError(err).Error("test notification failed")
		return
	}
	s.logger.Info("test notification sent")
}

// reportResult and reportCleared mirror the monitor's state to the
// external reporter. Publishing failures are logged and swallowed like any
// other collaborator failure.
func (s *MonitorService) reportResult(ctx context.Context, result detection.Result) {
	reportCtx, cancel := context.WithTimeout(ctx, reportTimeout)
	defer cancel()
	if err := s.reporter.ReportResult(reportCtx, result); err != nil {
		s.logger.WithError(err).Warn("could not publish detection state")
	}
}

func (s *MonitorService) reportCleared(ctx context.Context, note string) {
	reportCtx, cancel := context.WithTimeout(ctx, reportTimeout)
	defer cancel()
	if err := s.reporter.ReportCleared(reportCtx, note); err != nil {
		s.logger.WithError(err).Warn("could not publish detection state")
	}
}

func (s *MonitorService) missMessage(r detection.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Trash bin not detected near the street as of %s.\n\n", s.clock.Now().Format("3:04 PM"))
	fmt.Fprintf(&b, "AI Analysis: %s\n", r.Description)
	fmt.Fprintf(&b, "Confidence: %s\n\n", titleCase(string(r.Confidence)))
	b.WriteString("Don't forget to put it out for pickup!")
	return b.String()
}

func (s *MonitorService) testMessage(r detection.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "TEST MODE: Trash bin detected at %s.\n\n", s.clock.Now().Format("3:04 PM"))
	fmt.Fprintf(&b, "AI Analysis: %s\n", r.Description)
	fmt.Fprintf(&b, "Confidence: %s\n\n", titleCase(string(r.Confidence)))
	b.WriteString("This is a test notification with the camera image attached.")
	return b.String()
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
