package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

// LocalStore writes media to a directory on disk. It backs development and
// single-node deployments where the app serves uploads itself.
type LocalStore struct {
	root string
	// urlPrefix is the route the directory is mounted under, e.g. /uploads
	urlPrefix string
}

var _ MediaStore = (*LocalStore)(nil)

func NewLocalStore(root, urlPrefix string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create upload directory")
	}

	return &LocalStore{
		root:      root,
		urlPrefix: strings.TrimRight(urlPrefix, "/"),
	}, nil
}

func (s *LocalStore) Save(ctx context.Context, folder, filename, contentType string, r io.Reader) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	key := objectKey(folder, filename)
	dest := filepath.Join(s.root, filepath.FromSlash(key))

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create media folder")
	}

	f, err := os.Create(dest)
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create media file")
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(dest)
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to write media file")
	}

	return s.urlPrefix + "/" + key, nil
}
