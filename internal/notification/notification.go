// Package notification delivers verification codes to account email addresses.
package notification

import "context"

// Sender delivers a verification code to an email address. Delivery is
// best-effort: the lifecycle manager logs failures but does not roll back
// signup on a failed send.
type Sender interface {
	Send(ctx context.Context, email, code string) error
}
