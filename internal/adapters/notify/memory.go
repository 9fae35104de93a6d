package notify

import (
	"context"
	"sync"
)

// Sent is one recorded delivery.
type Sent struct {
	Recipient      string
	Subject        string
	Body           string
	AttachmentPath string
}

// Recorder is an in-memory Notifier for tests.
type Recorder struct {
	mu   sync.Mutex
	sent []Sent
	fail error
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

// FailWith makes every subsequent Notify return err.
func (r *Recorder) FailWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fail = err
}

func (r *Recorder) Notify(ctx context.Context, recipient, subject, body, attachmentPath string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return r.fail
	}
	r.sent = append(r.sent, Sent{
		Recipient:      recipient,
		Subject:        subject,
		Body:           body,
		AttachmentPath: attachmentPath,
	})
	return nil
}

func (r *Recorder) Sent() []Sent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Sent, len(r.sent))
	copy(out, r.sent)
	return out
}
