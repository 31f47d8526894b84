package repository

import (
	"context"
	"database/sql"
	"time"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/alumni-api/internal/model"
)

// approveUserSQL flips the verification flag and installs the freshly
// generated credential in one statement.
var approveUserSQL = `UPDATE "users" AS "usr"
SET
	"is_verified" = TRUE,
	"password_hash" = ?,
	"updated_at" = CURRENT_TIMESTAMP
WHERE
	"usr"."email" = ?
RETURNING *;`

var resetPasswordSQL = `UPDATE "users" AS "usr"
SET
	"password_hash" = ?,
	"updated_at" = CURRENT_TIMESTAMP
WHERE
	"usr"."id" = ?
RETURNING *;`

type Users interface {
	repository.Repository[*model.User]

	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*model.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)

	ListPending(ctx context.Context) ([]*model.User, error)
	ListVerified(ctx context.Context, batch int, branch string) ([]*model.User, error)

	Approve(ctx context.Context, tx bun.IDB, email, passwordHash string) (*model.User, error)
	DeleteByEmail(ctx context.Context, tx bun.IDB, email string) error
	ResetPassword(ctx context.Context, id uuid.UUID, passwordHash string) error

	TrackAttemptedLogin(ctx context.Context, user *model.User) error
	TrackSuccessfulLogin(ctx context.Context, user *model.User) error
}

type users struct {
	repository.Repository[*model.User]
	db *bun.DB
}

var _ Users = (*users)(nil)

func NewUsersRepository(db *bun.DB) Users {
	repo := repository.NewRepository[*model.User](db, repository.ModelHandlers[*model.User]{
		NewRecord: func() *model.User { return &model.User{} },
		GetID: func(u *model.User) uuid.UUID {
			if u == nil {
				return uuid.Nil
			}
			return u.ID
		},
		SetID: func(u *model.User, id uuid.UUID) {
			if u != nil {
				u.ID = id
			}
		},
		GetIdentifier: func() string {
			return "email"
		},
	})

	return &users{
		Repository: repo,
		db:         db,
	}
}

func (a *users) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return a.GetByEmailTx(ctx, a.db, email)
}

func (a *users) GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*model.User, error) {
	record := &model.User{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.email = ?", email).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if goerrors.Is(err, sql.ErrNoRows) {
			return nil, notFound("user", map[string]any{"email": email})
		}
		return nil, err
	}

	return record, nil
}

func (a *users) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	record := &model.User{}
	err := a.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if goerrors.Is(err, sql.ErrNoRows) {
			return nil, notFound("user", map[string]any{"id": id.String()})
		}
		return nil, err
	}

	return record, nil
}

func (a *users) ListPending(ctx context.Context) ([]*model.User, error) {
	records := []*model.User{}
	err := a.db.NewSelect().
		Model(&records).
		Where("?TableAlias.is_verified = ?", false).
		Order("created_at ASC").
		Scan(ctx)

	return records, err
}

func (a *users) ListVerified(ctx context.Context, batch int, branch string) ([]*model.User, error) {
	records := []*model.User{}
	q := a.db.NewSelect().
		Model(&records).
		Where("?TableAlias.is_verified = ?", true)

	if batch > 0 {
		q = q.Where("?TableAlias.batch = ?", batch)
	}

	if branch != "" {
		q = q.Where("?TableAlias.branch = ?", branch)
	}

	err := q.Order("batch DESC").Scan(ctx)

	return records, err
}

func (a *users) Approve(ctx context.Context, tx bun.IDB, email, passwordHash string) (*model.User, error) {
	record := &model.User{}
	err := tx.NewRaw(approveUserSQL, passwordHash, email).Scan(ctx, record)
	if err != nil {
		if goerrors.Is(err, sql.ErrNoRows) {
			return nil, notFound("user", map[string]any{"email": email})
		}
		return nil, err
	}

	return record, nil
}

func (a *users) DeleteByEmail(ctx context.Context, tx bun.IDB, email string) error {
	res, err := tx.NewDelete().
		Model((*model.User)(nil)).
		Where("email = ?", email).
		Exec(ctx)

	if err != nil {
		return err
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return notFound("user", map[string]any{"email": email})
	}

	return nil
}

func (a *users) ResetPassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	record := &model.User{}
	err := a.db.NewRaw(resetPasswordSQL, passwordHash, id).Scan(ctx, record)
	if err != nil {
		if goerrors.Is(err, sql.ErrNoRows) {
			return notFound("user", map[string]any{"id": id.String()})
		}
		return err
	}

	return nil
}

func (a *users) TrackSuccessfulLogin(ctx context.Context, user *model.User) error {
	loggedInAt := time.Now()
	_, err := a.db.NewRaw(`
		UPDATE "users" AS "usr"
		SET
			"loggedin_at" = ?,
			"login_attempt_at" = NULL,
			"login_attempts" = 0
		WHERE
			("usr".id = ?);
	`, loggedInAt, user.ID).Exec(ctx)

	return err
}

func (a *users) TrackAttemptedLogin(ctx context.Context, user *model.User) error {
	now := time.Now()
	_, err := a.db.NewRaw(`
		UPDATE "users" AS "usr"
		SET
			"login_attempt_at" = ?,
			"login_attempts" = ?
		WHERE
			("usr".id = ?);
	`, now, user.LoginAttempts+1, user.ID).Exec(ctx)

	return err
}

func notFound(entity string, meta map[string]any) error {
	return goerrors.New(entity+" not found", goerrors.CategoryNotFound).
		WithTextCode("NOT_FOUND").
		WithCode(goerrors.CodeNotFound).
		WithMetadata(meta)
}
