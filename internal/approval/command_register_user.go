package approval

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/nyaruka/phonenumbers"
	"github.com/uptrace/bun"

	"github.com/goliatone/alumni-api/internal/auth"
	"github.com/goliatone/alumni-api/internal/model"
	"github.com/goliatone/alumni-api/internal/repository"
)

// earliestBatch is the founding year of the institute; no graduate predates it.
const earliestBatch = 2006

const textCodeDuplicateEmail = "DUPLICATE_EMAIL"

// ErrDuplicateEmail is returned when the address already has an account,
// pending or verified.
var ErrDuplicateEmail = goerrors.New("an account with this email already exists", goerrors.CategoryConflict).
	WithTextCode(textCodeDuplicateEmail).
	WithCode(goerrors.CodeBadRequest)

type RegisterUserMessage struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Batch    int    `json:"batch"`
	Branch   string `json:"branch"`
	RollNo   string `json:"roll_no"`
}

func (e RegisterUserMessage) Type() string { return "user.register" }

// Validate will validate the payload. The batch window accepts anyone from
// the founding year through students graduating four years out.
func (e RegisterUserMessage) Validate() error {
	maxBatch := time.Now().Year() + 4

	return validation.ValidateStruct(&e,
		validation.Field(&e.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&e.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&e.Phone, validation.Required, validation.By(validPhone)),
		validation.Field(&e.Password, validation.Required, validation.Length(8, 100)),
		validation.Field(&e.Batch, validation.Required, validation.Min(earliestBatch), validation.Max(maxBatch)),
		validation.Field(&e.Branch, validation.Required, validation.Length(2, 100)),
		validation.Field(&e.RollNo, validation.Required, validation.Length(1, 50)),
	)
}

func validPhone(value any) error {
	raw, _ := value.(string)

	num, err := phonenumbers.Parse(raw, "IN")
	if err != nil {
		return err
	}

	if !phonenumbers.IsValidNumber(num) {
		return goerrors.New("invalid phone number", goerrors.CategoryValidation)
	}

	return nil
}

type RegisterUserHandler struct {
	repo   repository.Manager
	logger auth.Logger
}

func NewRegisterUserHandler(repo repository.Manager) *RegisterUserHandler {
	return &RegisterUserHandler{
		repo:   repo,
		logger: auth.DefaultLogger(),
	}
}

func (h *RegisterUserHandler) WithLogger(logger auth.Logger) *RegisterUserHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

// Execute creates a pending account. The registration password is stored but
// only becomes usable once an admin approves the account, and approval
// replaces it with a generated credential.
func (h *RegisterUserHandler) Execute(ctx context.Context, event RegisterUserMessage) (*model.User, error) {
	select {
	case <-ctx.Done():
		return nil, goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during user registration",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *RegisterUserHandler) execute(ctx context.Context, event RegisterUserMessage) (*model.User, error) {
	if err := event.Validate(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid registration payload").
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

		user.Role = auth.RoleUser
		user.Name = event.Name
		user.Email = event.Email
		user.Phone = event.Phone
		user.PasswordHash = hash
		user.IsVerified = false
		user.Batch = event.Batch
		user.Branch = event.Branch
		user.RollNo = event.RollNo

		if id, err := hashid.NewUUID(event.Email); err == nil {
			user.ID = id
		}

		if user, err = h.repo.Users().CreateTx(ctx, tx, user); err != nil {
			// the unique index backstops the duplicate check above
			return goerrors.Wrap(err, goerrors.CategoryConflict, "could not create user").
				WithCode(goerrors.CodeConflict)
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return nil, richErr
		}

		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "user registration transaction failed")
	}

	h.logger.Info("registered pending account", "email", user.Email)

	return user, nil
}
