package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/campushub/backend/internal/model"
)

// Mailer delivers a composed notification. Implemented over SMTP in
// production and faked in tests.
type Mailer interface {
	Send(ctx context.Context, n *model.Notification) error
}

// SMTPMailer sends HTML mail through a plain-auth SMTP relay.
type SMTPMailer struct {
	host   string
	port   int
	user   string
	pass   string
	sender string
}

// NewSMTPMailer constructs an SMTPMailer. user may be empty for relays
// without authentication.
func NewSMTPMailer(host string, port int, user, pass, sender string) *SMTPMailer {
	return &SMTPMailer{host: host, port: port, user: user, pass: pass, sender: sender}
}

// Send delivers n. The context is accepted for interface symmetry; the
// net/smtp dial itself is bounded by the relay's TCP timeouts.
func (m *SMTPMailer) Send(ctx context.Context, n *model.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.host == "" {
		return fmt.Errorf("smtp host not configured")
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", m.sender)
	fmt.Fprintf(&msg, "To: %s\r\n", n.Recipient)
	fmt.Fprintf(&msg, "Subject: %s\r\n", n.Subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(n.HTMLBody)

	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	var a smtp.Auth
	if m.user != "" {
		a = smtp.PlainAuth("", m.user, m.pass, m.host)
	}
	if err := smtp.SendMail(addr, a, m.sender, []string{n.Recipient}, []byte(msg.String())); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
