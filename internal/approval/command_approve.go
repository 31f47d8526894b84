package approval

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"

	"github.com/goliatone/alumni-api/internal/auth"
	"github.com/goliatone/alumni-api/internal/model"
	"github.com/goliatone/alumni-api/internal/notify"
	"github.com/goliatone/alumni-api/internal/repository"
)

type ApproveUserMessage struct {
	Email string `json:"email"`
}

func (e ApproveUserMessage) Type() string { return "user.approve" }

func (e ApproveUserMessage) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Email, validation.Required, is.Email),
	)
}

type ApproveUserHandler struct {
	repo     repository.Manager
	machine  *StateMachine
	notifier notify.Notifier
	logger   auth.Logger
	// newPassword is swappable for tests
	newPassword func() string
}

func NewApproveUserHandler(repo repository.Manager, machine *StateMachine, notifier notify.Notifier) *ApproveUserHandler {
	return &ApproveUserHandler{
		repo:        repo,
		machine:     machine,
		notifier:    notifier,
		logger:      auth.DefaultLogger(),
		newPassword: auth.TemporaryPassword,
	}
}

func (h *ApproveUserHandler) WithLogger(logger auth.Logger) *ApproveUserHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *ApproveUserHandler) WithPasswordGenerator(gen func() string) *ApproveUserHandler {
	if gen != nil {
		h.newPassword = gen
	}
	return h
}

// Execute flips the account to verified with a freshly generated credential
// and mails it to the owner. Mail delivery runs after the commit and never
// rolls the approval back.
func (h *ApproveUserHandler) Execute(ctx context.Context, event ApproveUserMessage) (*model.User, error) {
	if err := event.Validate(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid approval payload").
			WithCode(goerrors.CodeBadRequest)
	}

	user, err := h.repo.Users().GetByEmail(ctx, event.Email)
	if err != nil {
		return nil, err
	}

	if err := h.machine.EnsureTransition(user, StatusVerified); err != nil {
		return nil, err
	}

	password := h.newPassword()

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash generated password")
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	var approved *model.User
	err = h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		approved, err = h.repo.Users().Approve(ctx, tx, event.Email, hash)
		return err
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return nil, richErr
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "approval transaction failed")
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second*30)
		defer cancel()

		if err := h.notifier.SendCredentials(ctx, approved.Email, approved.Name, password); err != nil {
			h.logger.Error("failed to mail credentials", "email", approved.Email, "error", err)
		}
	}()

	h.logger.Info("approved account", "email", approved.Email)

	return approved, nil
}
