package contact

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/BTreeMap/CyberCore/internal/models"
	"github.com/BTreeMap/CyberCore/internal/twiliosms"
)

// ErrMissingRecipient is returned when no owner number is configured for SMS delivery.
var ErrMissingRecipient = errors.New("contact: SMS recipient is required")

// TwilioSubmitter delivers each submission as a single SMS to the site owner.
type TwilioSubmitter struct {
	sender twiliosms.Sender
	to     string
}

// NewTwilioSubmitter creates a TwilioSubmitter sending to the owner number to.
func NewTwilioSubmitter(sender twiliosms.Sender, to string) (*TwilioSubmitter, error) {
	if sender == nil {
		return nil, fmt.Errorf("contact: SMS sender is required")
	}
	if strings.TrimSpace(to) == "" {
		return nil, ErrMissingRecipient
	}
	return &TwilioSubmitter{sender: sender, to: to}, nil
}

// Submit sends the formatted submission once.
func (t *TwilioSubmitter) Submit(ctx context.Context, s models.Submission) error {
	if err := t.sender.SendMessage(ctx, t.to, FormatSMS(s)); err != nil {
		slog.Error("TwilioSubmitter.Submit: send failed", "error", err)
		return fmt.Errorf("failed to deliver submission by SMS: %w", err)
	}
	slog.Info("Submission delivered by SMS", "to", t.to)
	return nil
}

// FormatSMS renders a submission as a short plain-text message.
func FormatSMS(s models.Submission) string {
	var b strings.Builder
	fmt.Fprintf(&b, "New contact request (%s)\n", s.Timestamp)
	fmt.Fprintf(&b, "Name: %s\n", s.Name)
	fmt.Fprintf(&b, "Phone: %s", s.Phone)
	if msg := strings.TrimSpace(s.Message); msg != "" {
		fmt.Fprintf(&b, "\nMessage: %s", msg)
	}
	return b.String()
}
