package repository

import (
	"context"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/alumni-api/internal/model"
)

type Alumni interface {
	repository.Repository[*model.AlumniRecord]

	ListByCohort(ctx context.Context, batch int, branch string) ([]*model.AlumniRecord, error)
	BulkInsertTx(ctx context.Context, tx bun.IDB, records []*model.AlumniRecord) error
}

type alumni struct {
	repository.Repository[*model.AlumniRecord]
	db *bun.DB
}

var _ Alumni = (*alumni)(nil)

func NewAlumniRepository(db *bun.DB) Alumni {
	repo := repository.NewRepository[*model.AlumniRecord](db, repository.ModelHandlers[*model.AlumniRecord]{
		NewRecord: func() *model.AlumniRecord { return &model.AlumniRecord{} },
		GetID: func(r *model.AlumniRecord) uuid.UUID {
			if r == nil {
				return uuid.Nil
			}
			return r.ID
		},
		SetID: func(r *model.AlumniRecord, id uuid.UUID) {
			if r != nil {
				r.ID = id
			}
		},
		GetIdentifier: func() string {
			return "roll_no"
		},
	})

	return &alumni{
		Repository: repo,
		db:         db,
	}
}

func (a *alumni) ListByCohort(ctx context.Context, batch int, branch string) ([]*model.AlumniRecord, error) {
	records := []*model.AlumniRecord{}
	q := a.db.NewSelect().Model(&records)

	if batch > 0 {
		q = q.Where("?TableAlias.batch = ?", batch)
	}

	if branch != "" {
		q = q.Where("?TableAlias.branch = ?", branch)
	}

	err := q.Order("batch DESC", "roll_no ASC").Scan(ctx)

	return records, err
}

// BulkInsertTx writes every record or none. The roll_no unique index makes a
// duplicate row fail the whole batch, which is what the import flow wants.
func (a *alumni) BulkInsertTx(ctx context.Context, tx bun.IDB, records []*model.AlumniRecord) error {
	if len(records) == 0 {
		return nil
	}

	for _, record := range records {
		if record.ID == uuid.Nil {
			record.ID = uuid.New()
		}
	}

	_, err := tx.NewInsert().Model(&records).Exec(ctx)
	return err
}
