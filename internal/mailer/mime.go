package mailer

import (
	"fmt"
	"mime"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

func buildMessage(e Email, domain string, now time.Time) (string, error) {
	if e.From == "" {
		return "", fmt.Errorf("mailer: from address is required")
	}
	if len(e.To) == 0 {
		return "", fmt.Errorf("mailer: at least one recipient is required")
	}

	from := (&mail.Address{Name: e.FromName, Address: e.From}).String()

	var b strings.Builder
	header := func(k, v string) {
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(v)
		b.WriteString("\r\n")
	}
	header("From", from)
	header("To", strings.Join(e.To, ", "))
	if len(e.Cc) > 0 {
		header("Cc", strings.Join(e.Cc, ", "))
	}
	header("Subject", mime.QEncoding.Encode("utf-8", e.Subject))
	header("Date", now.Format(time.RFC1123Z))
	header("Message-ID", fmt.Sprintf("<%s@%s>", uuid.NewString(), domain))
	header("MIME-Version", "1.0")
	header("Content-Type", `text/plain; charset="utf-8"`)
	header("Content-Transfer-Encoding", "8bit")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(e.TextBody, "\n", "\r\n"))
	return b.String(), nil
}
