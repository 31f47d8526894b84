package approval

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"

	"github.com/goliatone/alumni-api/internal/auth"
	"github.com/goliatone/alumni-api/internal/repository"
)

type RejectUserMessage struct {
	Email string `json:"email"`
}

func (e RejectUserMessage) Type() string { return "user.reject" }

func (e RejectUserMessage) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Email, validation.Required, is.Email),
	)
}

type RejectUserHandler struct {
	repo    repository.Manager
	machine *StateMachine
	logger  auth.Logger
}

func NewRejectUserHandler(repo repository.Manager, machine *StateMachine) *RejectUserHandler {
	return &RejectUserHandler{
		repo:    repo,
		machine: machine,
		logger:  auth.DefaultLogger(),
	}
}

func (h *RejectUserHandler) WithLogger(logger auth.Logger) *RejectUserHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

// Execute removes a pending registration. The delete is permanent; the
// address becomes free to register again.
func (h *RejectUserHandler) Execute(ctx context.Context, event RejectUserMessage) error {
	if err := event.Validate(); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid rejection payload").
			WithCode(goerrors.CodeBadRequest)
	}

	user, err := h.repo.Users().GetByEmail(ctx, event.Email)
	if err != nil {
		return err
	}

	if err := h.machine.EnsureTransition(user, StatusRemoved); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err = h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return h.repo.Users().DeleteByEmail(ctx, tx, event.Email)
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "rejection transaction failed")
	}

	h.logger.Info("rejected registration", "email", event.Email)

	return nil
}
