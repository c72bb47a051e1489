package notification

import (
	"context"
	"log/slog"
)

// ConsoleSender logs verification codes instead of sending email. Intended for
// local development where no email provider is configured.
type ConsoleSender struct{}

// NewConsoleSender returns a sender that writes codes to the process log.
func NewConsoleSender() *ConsoleSender {
	return &ConsoleSender{}
}

// Send logs the code. Never fails.
func (s *ConsoleSender) Send(ctx context.Context, email, code string) error {
	slog.InfoContext(ctx, "verification email (console mode)", "to", email, "code", code)
	return nil
}
