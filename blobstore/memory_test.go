package blobstore

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, err := store.Open(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	data := []byte("hello gems")
	require.NoError(t, store.Put(ctx, "a/1", data))
	data[0] = 'X'

	got, err := ReadAll(ctx, store, "a/1")
	require.NoError(t, err)
	assert.Equal(t, "hello gems", string(got), "Put copies its input")

	w, err := store.Create(ctx, "a/2")
	require.NoError(t, err)
	_, err = w.Write([]byte("streamed"))
	require.NoError(t, err)
	require.NoError(t, w.Sync())

	_, err = store.Open(ctx, "a/2")
	assert.ErrorIs(t, err, ErrNotFound, "not visible before Close")
	require.NoError(t, w.Close())

	require.NoError(t, store.Put(ctx, "b/1", nil))

	names, err := store.List(ctx, "a/")
	require.NoError(t, err)
	assert.Equal(t, []string{"a/1", "a/2"}, names)

	b, err := store.Open(ctx, "a/2")
	require.NoError(t, err)
	buf := make([]byte, 16)
	n, err := b.ReadAt(ctx, buf, 0)
	assert.Equal(t, 8, n)
	assert.ErrorIs(t, err, io.EOF)
	_, err = b.ReadRange(ctx, 8, 1)
	assert.ErrorIs(t, err, io.EOF)
	require.NoError(t, b.Close())

	require.NoError(t, store.Delete(ctx, "a/1"))
	names, err = store.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"a/2", "b/1"}, names)
}

func TestMemoryStore_PutIfAbsent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	var cp ConditionalPutter = store
	require.NoError(t, cp.PutIfAbsent(ctx, "v1", []byte("a")))
	assert.True(t, errors.Is(cp.PutIfAbsent(ctx, "v1", []byte("b")), ErrConflict))
}

func TestView_PropagatesCallbackError(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Put(ctx, "x", []byte("1")))

	errBoom := errors.New("boom")
	err := View(ctx, store, "x", func([]byte) error { return errBoom })
	assert.ErrorIs(t, err, errBoom)
}
