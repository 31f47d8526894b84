// Package storage persists uploaded media (profile photos, gallery images)
// and hands back a public URL for the stored object.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"
)

// MediaStore saves an upload under a generated key and returns its URL.
type MediaStore interface {
	Save(ctx context.Context, folder, filename, contentType string, r io.Reader) (string, error)
}

// objectKey buckets uploads by date so listings stay manageable.
func objectKey(folder, filename string) string {
	d := time.Now()
	return fmt.Sprintf("%s/%d/%02d/%v%s", folder, d.Year(), d.Month(), uuid.New(), path.Ext(filename))
}
