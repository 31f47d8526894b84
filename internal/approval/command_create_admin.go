package approval

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/uptrace/bun"

	"github.com/goliatone/alumni-api/internal/auth"
	"github.com/goliatone/alumni-api/internal/model"
	"github.com/goliatone/alumni-api/internal/repository"
)

type CreateAdminMessage struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (e CreateAdminMessage) Type() string { return "admin.create" }

func (e CreateAdminMessage) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&e.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&e.Password, validation.Required, validation.Length(8, 100)),
	)
}

type CreateAdminHandler struct {
	repo   repository.Manager
	logger auth.Logger
}

func NewCreateAdminHandler(repo repository.Manager) *CreateAdminHandler {
	return &CreateAdminHandler{
		repo:   repo,
		logger: auth.DefaultLogger(),
	}
}

func (h *CreateAdminHandler) WithLogger(logger auth.Logger) *CreateAdminHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

// Execute creates an admin account. Admins skip the approval queue: the
// record is verified immediately and the given password is final.
func (h *CreateAdminHandler) Execute(ctx context.Context, event CreateAdminMessage) (*model.User, error) {
	if err := event.Validate(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid admin payload").
			WithCode(goerrors.CodeBadRequest)
	}

	if _, err := h.repo.Users().GetByEmail(ctx, event.Email); err == nil {
		return nil, ErrDuplicateEmail.WithMetadata(map[string]any{"email": event.Email})
	} else if !goerrors.IsNotFound(err) {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check for existing account")
	}

	user := &model.User{}
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		hash, err := auth.HashPassword(event.Password)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
		}

		user.Role = auth.RoleAdmin
		user.Name = event.Name
		user.Email = event.Email
		user.PasswordHash = hash
		user.IsVerified = true

		if id, err := hashid.NewUUID(event.Email); err == nil {
			user.ID = id
		}

		if user, err = h.repo.Users().CreateTx(ctx, tx, user); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryConflict, "could not create admin").
				WithCode(goerrors.CodeConflict)
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return nil, richErr
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "admin creation transaction failed")
	}

	h.logger.Info("created admin account", "email", user.Email)

	return user, nil
}
