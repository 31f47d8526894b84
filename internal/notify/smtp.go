package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/goliatone/alumni-api/internal/auth"
)

// SMTPNotifier delivers mail through a plain SMTP relay.
type SMTPNotifier struct {
	addr   string
	auth   smtp.Auth
	from   string
	logger auth.Logger
	// send is swappable for tests
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

var _ Notifier = (*SMTPNotifier)(nil)

type SMTPOption func(*SMTPNotifier)

func WithSMTPLogger(logger auth.Logger) SMTPOption {
	return func(n *SMTPNotifier) {
		if logger != nil {
			n.logger = logger
		}
	}
}

func WithSendFunc(send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error) SMTPOption {
	return func(n *SMTPNotifier) {
		if send != nil {
			n.send = send
		}
	}
}

// NewSMTPNotifier configures a relay client. Host and port identify the
// relay; username may be empty for relays that accept unauthenticated mail.
func NewSMTPNotifier(host string, port int, username, password, from string, opts ...SMTPOption) *SMTPNotifier {
	n := &SMTPNotifier{
		addr:   fmt.Sprintf("%s:%d", host, port),
		from:   from,
		logger: auth.DefaultLogger(),
		send:   smtp.SendMail,
	}

	if username != "" {
		n.auth = smtp.PlainAuth("", username, password, host)
	}

	for _, opt := range opts {
		opt(n)
	}

	return n
}

func (n *SMTPNotifier) SendCredentials(ctx context.Context, to, name, password string) error {
	body := fmt.Sprintf(
		"Hello %s,\r\n\r\n"+
			"Your alumni account has been approved.\r\n"+
			"You can now log in with this temporary password: %s\r\n\r\n"+
			"Please change it after your first login.\r\n",
		name, password,
	)

	return n.mail(ctx, []string{to}, "Your alumni account is approved", body)
}

func (n *SMTPNotifier) SendBroadcast(ctx context.Context, to []string, subject, body string) error {
	if len(to) == 0 {
		return nil
	}
	return n.mail(ctx, to, subject, body)
}

func (n *SMTPNotifier) mail(ctx context.Context, to []string, subject, body string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	msg := strings.Join([]string{
		"From: " + n.from,
		"To: " + strings.Join(to, ", "),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=utf-8",
		"",
		body,
	}, "\r\n")

	if err := n.send(n.addr, n.auth, n.from, to, []byte(msg)); err != nil {
		n.logger.Error("smtp delivery failed", "recipients", len(to), "error", err)
		return err
	}

	return nil
}
