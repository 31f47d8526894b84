package approval

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"

	"github.com/goliatone/alumni-api/internal/auth"
	"github.com/goliatone/alumni-api/internal/model"
	"github.com/goliatone/alumni-api/internal/repository"
)

type BulkImportMessage struct {
	Records []*model.AlumniRecord
}

func (e BulkImportMessage) Type() string { return "alumni.bulk_import" }

type BulkImportHandler struct {
	repo   repository.Manager
	logger auth.Logger
}

func NewBulkImportHandler(repo repository.Manager) *BulkImportHandler {
	return &BulkImportHandler{
		repo:   repo,
		logger: auth.DefaultLogger(),
	}
}

func (h *BulkImportHandler) WithLogger(logger auth.Logger) *BulkImportHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

// Execute inserts the whole batch or nothing. A duplicate roll number
// anywhere in the batch aborts the import.
func (h *BulkImportHandler) Execute(ctx context.Context, event BulkImportMessage) (int, error) {
	if len(event.Records) == 0 {
		return 0, goerrors.New("import contains no records", goerrors.CategoryValidation).
			WithCode(goerrors.CodeBadRequest)
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*30)
	defer cancel()

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return h.repo.Alumni().BulkInsertTx(ctx, tx, event.Records)
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return 0, richErr
		}
		// duplicate roll numbers land here via the unique index; the row
		// failure rejects the upload rather than signalling a server conflict
		return 0, goerrors.Wrap(err, goerrors.CategoryConflict, "bulk import failed, no records were added").
			WithCode(goerrors.CodeBadRequest)
	}

	h.logger.Info("imported alumni records", "count", len(event.Records))

	return len(event.Records), nil
}
