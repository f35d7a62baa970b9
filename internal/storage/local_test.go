package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"posadmin/internal/config"
	"posadmin/internal/model"
)

func newTestStore(t *testing.T) AssetStore {
	t.Helper()
	store, err := NewLocal(config.StorageConfig{LocalDir: t.TempDir()})
	require.NoError(t, err)
	return store
}

func upload(content string) Upload {
	return Upload{
		Reader:      strings.NewReader(content),
		Filename:    "avatar.png",
		ContentType: "image/png",
		Size:        int64(len(content)),
	}
}

func TestLocalSave(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	ref, err := store.Save(ctx, "users", upload("img-bytes"))
	require.NoError(t, err)

	assert.Equal(t, "users", ref.Container)
	assert.True(t, strings.HasSuffix(ref.Key, ".png"))

	data, err := os.ReadFile(filepath.Join(store.(*localStore).base, ref.Container, ref.Key))
	require.NoError(t, err)
	assert.Equal(t, "img-bytes", string(data))
}

func TestLocalSave_IdenticalInputsGetDistinctRefs(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	a, err := store.Save(ctx, "users", upload("same"))
	require.NoError(t, err)
	b, err := store.Save(ctx, "users", upload("same"))
	require.NoError(t, err)

	assert.NotEqual(t, a.Key, b.Key)
}

func TestLocalReplace(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := store.(*localStore).base

	prev, err := store.Save(ctx, "users", upload("old"))
	require.NoError(t, err)

	next, err := store.Replace(ctx, "users", upload("new"), prev)
	require.NoError(t, err)
	assert.NotEqual(t, prev.Key, next.Key)

	// New asset present, previous gone.
	_, err = os.Stat(filepath.Join(base, next.Container, next.Key))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(base, prev.Container, prev.Key))
	assert.True(t, os.IsNotExist(err))
}

func TestLocalReplace_FailedWriteLeavesPreviousUntouched(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := store.(*localStore).base

	prev, err := store.Save(ctx, "users", upload("old"))
	require.NoError(t, err)

	bad := Upload{Reader: failingReader{}, Filename: "avatar.png", Size: -1}
	_, err = store.Replace(ctx, "users", bad, prev)
	require.Error(t, err)

	data, readErr := os.ReadFile(filepath.Join(base, prev.Container, prev.Key))
	require.NoError(t, readErr)
	assert.Equal(t, "old", string(data))
}

func TestLocalRemove_AbsentTargetIsNotAnError(t *testing.T) {
	store := newTestStore(t)

	err := store.Remove(context.Background(), model.AssetRef{Container: "users", Key: "never-existed.png"})

	assert.NoError(t, err)
}

func TestLocalSave_CancelledContext(t *testing.T) {
	store := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Save(ctx, "users", upload("img"))

	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewKeyPreservesExtension(t *testing.T) {
	key := newKey("profile photo.JPEG")

	assert.True(t, strings.HasSuffix(key, ".JPEG"))
	assert.NotEqual(t, key, newKey("profile photo.JPEG"))
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, assert.AnError }
