package approval

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/alumni-api/internal/auth"
	"github.com/goliatone/alumni-api/internal/notify"
	"github.com/goliatone/alumni-api/internal/repository"
)

// BroadcastMessage mails every verified account, optionally narrowed to a
// batch or branch.
type BroadcastMessage struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
	Batch   int    `json:"batch"`
	Branch  string `json:"branch"`
}

func (e BroadcastMessage) Type() string { return "admin.broadcast" }

func (e BroadcastMessage) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Subject, validation.Required, validation.Length(1, 200)),
		validation.Field(&e.Body, validation.Required),
	)
}

type BroadcastHandler struct {
	repo     repository.Manager
	notifier notify.Notifier
	logger   auth.Logger
}

func NewBroadcastHandler(repo repository.Manager, notifier notify.Notifier) *BroadcastHandler {
	return &BroadcastHandler{
		repo:     repo,
		notifier: notifier,
		logger:   auth.DefaultLogger(),
	}
}

func (h *BroadcastHandler) WithLogger(logger auth.Logger) *BroadcastHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

// Execute resolves the recipient list and sends. It returns the number of
// addresses targeted; a zero count is not an error.
func (h *BroadcastHandler) Execute(ctx context.Context, event BroadcastMessage) (int, error) {
	if err := event.Validate(); err != nil {
		return 0, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid broadcast payload").
			WithCode(goerrors.CodeBadRequest)
	}

	users, err := h.repo.Users().ListVerified(ctx, event.Batch, event.Branch)
	if err != nil {
		return 0, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to resolve recipients")
	}

	to := make([]string, 0, len(users))
	for _, u := range users {
		if u.Email != "" {
			to = append(to, u.Email)
		}
	}

	if len(to) == 0 {
		return 0, nil
	}

	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	if err := h.notifier.SendBroadcast(ctx, to, event.Subject, event.Body); err != nil {
		return 0, goerrors.Wrap(err, goerrors.CategoryInternal, "broadcast delivery failed")
	}

	h.logger.Info("broadcast sent", "recipients", len(to), "subject", event.Subject)

	return len(to), nil
}
