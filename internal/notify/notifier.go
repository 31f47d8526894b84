// Package notify delivers transactional mail: the approval credential
// message and admin broadcasts.
package notify

import (
	"context"

	"github.com/goliatone/alumni-api/internal/auth"
)

// Notifier sends mail. Implementations must be safe for concurrent use;
// callers treat delivery as best effort and never roll back on failure.
type Notifier interface {
	// SendCredentials mails the generated password to a freshly approved account.
	SendCredentials(ctx context.Context, to, name, password string) error
	// SendBroadcast mails the same subject and body to every recipient.
	SendBroadcast(ctx context.Context, to []string, subject, body string) error
}

// LogNotifier writes the would-be messages to the logger. It backs local
// development where no SMTP relay is configured.
type LogNotifier struct {
	logger auth.Logger
}

var _ Notifier = (*LogNotifier)(nil)

func NewLogNotifier(logger auth.Logger) *LogNotifier {
	if logger == nil {
		logger = auth.DefaultLogger()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) SendCredentials(ctx context.Context, to, name, password string) error {
	n.logger.Info("credentials mail (not sent)", "to", to, "name", name)
	return nil
}

func (n *LogNotifier) SendBroadcast(ctx context.Context, to []string, subject, body string) error {
	n.logger.Info("broadcast mail (not sent)", "recipients", len(to), "subject", subject)
	return nil
}
