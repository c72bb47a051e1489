package notification

import (
	"context"
	"sync"
)

// Recorder is a Sender test double that captures sent codes in memory.
type Recorder struct {
	mu   sync.Mutex
	sent map[string]string // email -> last code
	err  error
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{sent: make(map[string]string)}
}

// Send records the code for the email. Returns the configured error, if any.
func (r *Recorder) Send(ctx context.Context, email, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.sent[email] = code
	return nil
}

// LastCode returns the most recent code sent to email and whether one exists.
func (r *Recorder) LastCode(email string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.sent[email]
	return c, ok
}

// FailWith makes subsequent Send calls return err.
func (r *Recorder) FailWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}
