package mailer

import (
	"context"
	"sync"
	"time"
)

const mockFrom = "noreply@mindcare.test"

// Mock renders every email the way SMTPMailer would and keeps it instead
// of delivering. Err, when set, is returned after recording.
type Mock struct {
	mu       sync.Mutex
	Sent     []Email
	Messages []string // rendered MIME, parallel to Sent
	Err      error
}

func (m *Mock) Send(ctx context.Context, e Email) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if e.From == "" {
		e.From = mockFrom
	}
	msg, err := buildMessage(e, "mindcare.test", time.Now())
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, e)
	m.Messages = append(m.Messages, msg)
	return m.Err
}

// Recipients lists the envelope recipients of every recorded email in order.
func (m *Mock) Recipients() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, e := range m.Sent {
		out = append(out, e.AllRecipients()...)
	}
	return out
}
