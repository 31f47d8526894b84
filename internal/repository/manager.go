// Package repository wires the bun models to the database. Each store
// exposes CRUD through go-repository-bun plus the handful of raw queries
// the domain needs.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/uptrace/bun"

	"github.com/goliatone/alumni-api/internal/model"
)

// Manager exposes all repositories and the transaction runner.
type Manager interface {
	Validate() error
	MustValidate()
	RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error

	Users() Users
	Alumni() Alumni
	News() Content[model.News]
	Events() Content[model.Event]
	Posts() Content[model.Post]
	Photos() Content[model.Photo]
	Feedback() Content[model.Feedback]
}

type mngr struct {
	db       *bun.DB
	users    Users
	alumni   Alumni
	news     Content[model.News]
	events   Content[model.Event]
	posts    Content[model.Post]
	photos   Content[model.Photo]
	feedback Content[model.Feedback]
}

func NewManager(db *bun.DB) Manager {
	return &mngr{
		db:       db,
		users:    NewUsersRepository(db),
		alumni:   NewAlumniRepository(db),
		news:     NewNewsRepository(db),
		events:   NewEventsRepository(db),
		posts:    NewPostsRepository(db),
		photos:   NewPhotosRepository(db),
		feedback: NewFeedbackRepository(db),
	}
}

func (m *mngr) Validate() error {
	if m.users == nil {
		return errors.New("repository users should be initialized")
	}

	if m.alumni == nil {
		return errors.New("repository alumni should be initialized")
	}

	if m.news == nil || m.events == nil || m.posts == nil || m.photos == nil || m.feedback == nil {
		return errors.New("content repositories should be initialized")
	}

	return nil
}

func (m *mngr) MustValidate() {
	if err := m.Validate(); err != nil {
		log.Panic(err)
	}
}

func (m *mngr) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return m.db.RunInTx(ctx, opts, f)
	}
}

func (m *mngr) Users() Users   { return m.users }
func (m *mngr) Alumni() Alumni { return m.alumni }

func (m *mngr) News() Content[model.News]         { return m.news }
func (m *mngr) Events() Content[model.Event]      { return m.events }
func (m *mngr) Posts() Content[model.Post]        { return m.posts }
func (m *mngr) Photos() Content[model.Photo]      { return m.photos }
func (m *mngr) Feedback() Content[model.Feedback] { return m.feedback }
