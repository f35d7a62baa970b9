package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"time"

	"posadmin/internal/config"
	"posadmin/internal/model"
)

// localStore implements AssetStore on the local filesystem. Containers map
// to subdirectories of the configured base directory. Intended for
// single-node and development deployments.
type localStore struct {
	base string
}

// NewLocal creates the filesystem asset store, ensuring the base directory
// exists.
func NewLocal(cfg config.StorageConfig) (AssetStore, error) {
	if cfg.LocalDir == "" {
		return nil, fmt.Errorf("local storage dir is required")
	}
	if err := os.MkdirAll(cfg.LocalDir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &localStore{base: cfg.LocalDir}, nil
}

func (l *localStore) path(ref model.AssetRef) string {
	return filepath.Join(l.base, ref.Container, ref.Key)
}

func (l *localStore) Save(ctx context.Context, container string, up Upload) (model.AssetRef, error) {
	if err := ctx.Err(); err != nil {
		return model.AssetRef{}, err
	}

	ref := model.AssetRef{Container: container, Key: newKey(up.Filename)}
	if err := os.MkdirAll(filepath.Join(l.base, container), 0o755); err != nil {
		return model.AssetRef{}, fmt.Errorf("create container dir: %w", err)
	}

	f, err := os.Create(l.path(ref))
	if err != nil {
		return model.AssetRef{}, fmt.Errorf("create asset file: %w", err)
	}
	if _, err := io.Copy(f, up.Reader); err != nil {
		f.Close()
		// Drop the partial write so no ref ever points at torn bytes.
		_ = os.Remove(l.path(ref))
		return model.AssetRef{}, fmt.Errorf("write asset file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(l.path(ref))
		return model.AssetRef{}, fmt.Errorf("close asset file: %w", err)
	}
	return ref, nil
}

func (l *localStore) Replace(ctx context.Context, container string, up Upload, prev model.AssetRef) (model.AssetRef, error) {
	ref, err := l.Save(ctx, container, up)
	if err != nil {
		return model.AssetRef{}, err
	}
	if prev.Key != "" {
		if err := l.Remove(ctx, prev); err != nil {
			logOrphan(prev, err)
		}
	}
	return ref, nil
}

func (l *localStore) Remove(ctx context.Context, ref model.AssetRef) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Remove(l.path(ref)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove asset file: %w", err)
	}
	return nil
}

// logOrphan records an asset left behind by a failed delete-old during
// Replace. Orphans are accepted, not retried.
func logOrphan(ref model.AssetRef, err error) {
	entry := map[string]any{
		"ts":        time.Now().UTC().Format(time.RFC3339Nano),
		"level":     "warn",
		"msg":       "asset_orphaned",
		"container": ref.Container,
		"key":       ref.Key,
		"error":     err.Error(),
	}
	if b, jerr := json.Marshal(entry); jerr == nil {
		log.SetFlags(0)
		log.Println(string(b))
	}
}
