package repository

import (
	"context"
	"database/sql"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/alumni-api/internal/model"
)

// Content is the shared shape of the site content repositories: news,
// events, posts, photos, and feedback all get full CRUD plus a
// newest-first listing.
type Content[T any] interface {
	repository.Repository[*T]

	ListAll(ctx context.Context) ([]*T, error)
	Find(ctx context.Context, id uuid.UUID) (*T, error)
	Remove(ctx context.Context, id uuid.UUID) error
}

type content[T any] struct {
	repository.Repository[*T]
	db      *bun.DB
	orderBy string
	entity  string
}

func newContentRepository[T any](db *bun.DB, entity, orderBy string, handlers repository.ModelHandlers[*T]) Content[T] {
	return &content[T]{
		Repository: repository.NewRepository[*T](db, handlers),
		db:         db,
		orderBy:    orderBy,
		entity:     entity,
	}
}

func (r *content[T]) ListAll(ctx context.Context) ([]*T, error) {
	records := []*T{}
	err := r.db.NewSelect().
		Model(&records).
		Order(r.orderBy).
		Scan(ctx)

	return records, err
}

func (r *content[T]) Remove(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.NewDelete().
		Model((*T)(nil)).
		Where("id = ?", id).
		Exec(ctx)

	if err != nil {
		return err
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return notFound(r.entity, map[string]any{"id": id.String()})
	}

	return nil
}

func (r *content[T]) Find(ctx context.Context, id uuid.UUID) (*T, error) {
	record := new(T)
	err := r.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if goerrors.Is(err, sql.ErrNoRows) {
			return nil, notFound(r.entity, map[string]any{"id": id.String()})
		}
		return nil, err
	}

	return record, nil
}

func NewNewsRepository(db *bun.DB) Content[model.News] {
	return newContentRepository(db, "news", "posted_at DESC", repository.ModelHandlers[*model.News]{
		NewRecord: func() *model.News { return &model.News{} },
		GetID: func(r *model.News) uuid.UUID {
			if r == nil {
				return uuid.Nil
			}
			return r.ID
		},
		SetID: func(r *model.News, id uuid.UUID) {
			r.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
	})
}

func NewEventsRepository(db *bun.DB) Content[model.Event] {
	return newContentRepository(db, "event", "posted_at DESC", repository.ModelHandlers[*model.Event]{
		NewRecord: func() *model.Event { return &model.Event{} },
		GetID: func(r *model.Event) uuid.UUID {
			if r == nil {
				return uuid.Nil
			}
			return r.ID
		},
		SetID: func(r *model.Event, id uuid.UUID) {
			r.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
	})
}

func NewPostsRepository(db *bun.DB) Content[model.Post] {
	return newContentRepository(db, "post", "created_at DESC", repository.ModelHandlers[*model.Post]{
		NewRecord: func() *model.Post { return &model.Post{} },
		GetID: func(r *model.Post) uuid.UUID {
			if r == nil {
				return uuid.Nil
			}
			return r.ID
		},
		SetID: func(r *model.Post, id uuid.UUID) {
			r.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
	})
}

func NewPhotosRepository(db *bun.DB) Content[model.Photo] {
	return newContentRepository(db, "photo", "created_at DESC", repository.ModelHandlers[*model.Photo]{
		NewRecord: func() *model.Photo { return &model.Photo{} },
		GetID: func(r *model.Photo) uuid.UUID {
			if r == nil {
				return uuid.Nil
			}
			return r.ID
		},
		SetID: func(r *model.Photo, id uuid.UUID) {
			r.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
	})
}

func NewFeedbackRepository(db *bun.DB) Content[model.Feedback] {
	return newContentRepository(db, "feedback", "created_at DESC", repository.ModelHandlers[*model.Feedback]{
		NewRecord: func() *model.Feedback { return &model.Feedback{} },
		GetID: func(r *model.Feedback) uuid.UUID {
			if r == nil {
				return uuid.Nil
			}
			return r.ID
		},
		SetID: func(r *model.Feedback, id uuid.UUID) {
			r.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
	})
}
