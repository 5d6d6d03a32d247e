package notify

import (
	"bytes"
	"context"
	"fmt"

	"github.com/gregdel/pushover"
	"github.com/sirupsen/logrus"
)

const (
	reminderTitle = "🗑️ Trash Bin Reminder"
	testTitle     = "🧪 TrashMinder Test"
)

// PushoverNotifier delivers alerts through the Pushover API with the camera
// snapshot attached. Real alerts go out high priority under the reminder
// title; wiring-check sends use the test title at normal priority.
type PushoverNotifier struct {
	app       *pushover.Pushover
	recipient *pushover.Recipient
	logger    *logrus.Logger
}

func NewPushoverNotifier(apiToken, userKey string, logger *logrus.Logger) *PushoverNotifier {
	return &PushoverNotifier{
		app:       pushover.New(apiToken),
		recipient: pushover.NewRecipient(userKey),
		logger:    logger,
	}
}

// Notify sends a real alert.
func (n *PushoverNotifier) Notify(ctx context.Context, message string, image []byte) error {
	return n.send(message, image, reminderTitle, pushover.PriorityHigh)
}

// NotifyTest sends a wiring-check message.
func (n *PushoverNotifier) NotifyTest(ctx context.Context, message string, image []byte) error {
	return n.send(message, image, testTitle, pushover.PriorityNormal)
}

// send attaches the image when one is provided. The pushover client
// carries no context support; the HTTP round trip is bounded by the
// library's own request handling and the caller's timeout only gates entry.
func (n *PushoverNotifier) send(message string, image []byte, title string, priority int) error {
	msg := pushover.NewMessageWithTitle(message, title)
	msg.Priority = priority
	msg.Sound = pushover.SoundPushover

	if len(image) > 0 {
		if err := msg.AddAttachment(bytes.NewReader(image)); err != nil {
			n.logger.WithError(err).Warn("could not attach snapshot, sending notification without it")
		}
	}

	resp, err := n.app.SendMessage(msg, n.recipient)
	if err != nil {
		return fmt.Errorf("send pushover notification: %w", err)
	}
	n.logger.WithField("request_id", resp.ID).Debug("pushover notification delivered")
	return nil
}
