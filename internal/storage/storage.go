package storage

import (
	"context"
	"io"
	"path/filepath"

	"github.com/google/uuid"

	"posadmin/internal/model"
)

// Package storage abstracts the binary asset backend behind a small
// capability set. Two interchangeable implementations exist: an
// S3-compatible object store (MinIO) and the local filesystem, selected by
// configuration at startup.

// Upload carries one incoming file through the write path.
type Upload struct {
	Reader      io.Reader
	Filename    string
	ContentType string
	// Size is the exact byte count when known, -1 otherwise.
	Size int64
}

// AssetStore is the capability set consumed by the lifecycle coordinators.
//
// Save generates a collision-resistant key, so concurrent uploads of the
// same filename into one container never overwrite each other.
//
// Replace writes the new asset first and removes the previous one only
// after the write succeeded: a failed write leaves the previous asset
// untouched, a failed delete-old leaves a harmless orphan (logged, not
// retried).
//
// Remove is idempotent; deleting an absent asset is not an error.
type AssetStore interface {
	Save(ctx context.Context, container string, up Upload) (model.AssetRef, error)
	Replace(ctx context.Context, container string, up Upload, prev model.AssetRef) (model.AssetRef, error)
	Remove(ctx context.Context, ref model.AssetRef) error
}

// newKey builds a fresh object key from a random identifier plus the
// original file extension.
func newKey(filename string) string {
	return uuid.New().String() + filepath.Ext(filename)
}
