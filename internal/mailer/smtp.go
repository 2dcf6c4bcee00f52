package mailer

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"time"

	"github.com/markjakearzadon/mindcare-gobackend/internal/config"
)

type SMTPMailer struct {
	cfg  config.SMTPConfig
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, send: smtp.SendMail}
}

// Send delivers e with STARTTLS and PLAIN auth when credentials are set.
func (m *SMTPMailer) Send(ctx context.Context, e Email) error {
	if e.From == "" {
		e.From = m.cfg.From
	}
	if e.FromName == "" {
		e.FromName = m.cfg.FromName
	}

	domain := m.cfg.Host
	if domain == "" {
		domain = "local"
	}
	raw, err := buildMessage(e, domain, time.Now())
	if err != nil {
		return err
	}

	var auth smtp.Auth
	if m.cfg.User != "" && m.cfg.Pass != "" {
		auth = smtp.PlainAuth("", m.cfg.User, m.cfg.Pass, m.cfg.Host)
	}

	addr := net.JoinHostPort(m.cfg.Host, m.cfg.Port)
	done := make(chan error, 1)
	go func() {
		done <- m.send(addr, auth, e.From, e.AllRecipients(), []byte(raw))
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("smtp send: %w", ctx.Err())
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp send: %w", err)
		}
		return nil
	}
}
