package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v2"
)

// ResendSender sends verification emails via the Resend API.
type ResendSender struct {
	client *resend.Client
	from   string
}

// NewResendSender returns a sender that delivers through Resend using the
// given API key and From address.
func NewResendSender(apiKey, from string) *ResendSender {
	return &ResendSender{
		client: resend.NewClient(apiKey),
		from:   from,
	}
}

// Send emails the verification code to the given address.
func (s *ResendSender) Send(ctx context.Context, email, code string) error {
	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{email},
		Subject: "Verify your Coffee Shop account",
		Text:    fmt.Sprintf("Your verification code is: %s\n\nThis code will expire in 24 hours.\n", code),
	}
	_, err := s.client.Emails.SendWithContext(ctx, params)
	if err == nil {
		slog.InfoContext(ctx, "verification email sent", "to", email)
	}
	return err
}
