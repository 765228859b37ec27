package blob

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	info, err := store.Put(ctx, "signatures/uav-1/a.png", strings.NewReader("png-bytes"), PutOptions{
		ContentType: "image/png",
		Metadata:    map[string]string{"uav_id": "uav-1"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(9), info.Size)
	assert.NotEmpty(t, info.ETag)

	_, err = store.Put(ctx, "signatures/uav-1/a.png", strings.NewReader("again"), PutOptions{})
	assert.ErrorIs(t, err, ErrExists)

	_, err = store.Put(ctx, "signatures/uav-1/b.png", strings.NewReader("more"), PutOptions{ContentType: "image/png"})
	require.NoError(t, err)
	_, err = store.Put(ctx, "other/c.png", strings.NewReader("x"), PutOptions{})
	require.NoError(t, err)

	got, rc, err := store.Get(ctx, "signatures/uav-1/a.png")
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(body))
	assert.Equal(t, "image/png", got.ContentType)
	assert.Equal(t, "uav-1", got.Metadata["uav_id"])

	listed, err := store.List(ctx, "signatures/uav-1/")
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "signatures/uav-1/a.png", listed[0].Key)
	assert.Equal(t, "signatures/uav-1/b.png", listed[1].Key)

	deleted, err := store.Delete(ctx, "signatures/uav-1/a.png")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = store.Delete(ctx, "signatures/uav-1/a.png")
	require.NoError(t, err)
	assert.False(t, deleted)

	_, _, err = store.Get(ctx, "signatures/uav-1/a.png")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestFSStore(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	require.NoError(t, err)
	exerciseStore(t, store)
}

func TestSanitizeKeyRejectsTraversal(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"", "  ", "../escape", "/abs/path", "a/../../b"} {
		_, err := store.Put(context.Background(), key, strings.NewReader("x"), PutOptions{})
		assert.Error(t, err, key)
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	store, err := Open(ctx, Config{Driver: "none"})
	require.NoError(t, err)
	assert.Nil(t, store)

	store, err = Open(ctx, Config{Driver: "memory"})
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, store.Driver())

	store, err = Open(ctx, Config{Driver: "fs", FSRoot: t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, DriverFilesystem, store.Driver())

	_, err = Open(ctx, Config{Driver: "gcs"})
	assert.Error(t, err)
}
