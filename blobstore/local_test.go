package blobstore

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vfs "github.com/hupe1980/gemgo/internal/fs"
)

func TestLocalBlobStore_Lifecycle(t *testing.T) {
	tmpDir := t.TempDir()
	store := NewLocalStore(tmpDir)

	ctx := context.Background()

	blobName := "decks/hsk1.json"
	data := []byte(`[{"sides":{"0":"我们"},"unknown_facets":["我","们"]}]`)

	w, err := store.Create(ctx, blobName)
	require.NoError(t, err)

	n, err := w.Write(data)
	require.NoError(t, err)
	require.Equal(t, len(data), n)
	require.NoError(t, w.Close())

	_, err = os.Stat(filepath.Join(tmpDir, "decks", "hsk1.json"))
	require.NoError(t, err)

	blob, err := store.Open(ctx, blobName)
	require.NoError(t, err)
	defer blob.Close()

	require.Equal(t, int64(len(data)), blob.Size())

	buf := make([]byte, 8)
	n, err = blob.ReadAt(ctx, buf, 2)
	require.NoError(t, err)
	require.Equal(t, 8, n)
	require.Equal(t, `"sides":`, string(buf))

	rangeReader, err := blob.ReadRange(ctx, 3, 5)
	require.NoError(t, err)
	rangeContent, err := io.ReadAll(rangeReader)
	require.NoError(t, err)
	require.NoError(t, rangeReader.Close())
	require.Equal(t, "sides", string(rangeContent))

	require.NoError(t, store.Put(ctx, "orders/CURRENT", []byte("orders/a.json")))

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	require.Equal(t, []string{blobName, "orders/CURRENT"}, names)

	names, err = store.List(ctx, "orders/")
	require.NoError(t, err)
	require.Equal(t, []string{"orders/CURRENT"}, names)

	require.NoError(t, store.Delete(ctx, blobName))
	require.NoError(t, store.Delete(ctx, blobName), "deleting twice is not an error")

	_, err = store.Open(ctx, blobName)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestLocalBlobStore_ReadRange_Boundaries(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	ctx := context.Background()

	data := []byte("0123456789")
	require.NoError(t, store.Put(ctx, "boundary.bin", data))

	blob, err := store.Open(ctx, "boundary.bin")
	require.NoError(t, err)
	defer blob.Close()

	r, err := blob.ReadRange(ctx, 0, 10)
	require.NoError(t, err)
	content, _ := io.ReadAll(r)
	r.Close()
	require.True(t, bytes.Equal(data, content))

	// Request 5 bytes starting at 8; only 2 are available.
	r, err = blob.ReadRange(ctx, 8, 5)
	require.NoError(t, err)
	content, err = io.ReadAll(r)
	require.NoError(t, err)
	require.Equal(t, "89", string(content))
	r.Close()

	_, err = blob.ReadRange(ctx, 20, 5)
	require.ErrorIs(t, err, io.EOF)
}

func TestLocalBlobStore_PutIfAbsent(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	ctx := context.Background()

	require.NoError(t, store.PutIfAbsent(ctx, "orders/v1", []byte("a")))
	require.ErrorIs(t, store.PutIfAbsent(ctx, "orders/v1", []byte("b")), ErrConflict)

	got, err := ReadAll(ctx, store, "orders/v1")
	require.NoError(t, err)
	assert.Equal(t, "a", string(got))

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"orders/v1"}, names, "temp files are cleaned up")
}

func TestLocalBlobStore_ListMissingRoot(t *testing.T) {
	store := NewLocalStore(filepath.Join(t.TempDir(), "absent"))
	names, err := store.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestView_Mappable(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, "empty.json", nil))
	require.NoError(t, store.Put(ctx, "deck.json", []byte("[]")))

	var got string
	require.NoError(t, View(ctx, store, "deck.json", func(data []byte) error {
		got = string(data)
		return nil
	}))
	assert.Equal(t, "[]", got)

	data, err := ReadAll(ctx, store, "empty.json")
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestLocalBlobStore_Faults(t *testing.T) {
	dir := t.TempDir()
	ffs := vfs.NewFaultyFS(nil)
	ffs.AddRule("broken.json", vfs.Fault{FailAfterBytes: 2})
	ffs.AddRule("unsynced.json", vfs.Fault{FailAfterBytes: -1, FailOnSync: true})
	ffs.AddRule("CURRENT", vfs.Fault{FailAfterBytes: -1, FailOnRename: true})

	store := NewLocalStore(dir, WithFileSystem(ffs))
	ctx := context.Background()

	assert.ErrorIs(t, store.Put(ctx, "broken.json", []byte("[{}]")), vfs.ErrInjected)
	assert.ErrorIs(t, store.Put(ctx, "unsynced.json", []byte("[]")), vfs.ErrInjected)

	// The pointer written before the fault survives a failed replace.
	require.NoError(t, NewLocalStore(dir).Put(ctx, "CURRENT", []byte("orders/a.json")))
	assert.ErrorIs(t, store.Put(ctx, "CURRENT", []byte("orders/b.json")), vfs.ErrInjected)

	got, err := ReadAll(ctx, store, "CURRENT")
	require.NoError(t, err)
	assert.Equal(t, "orders/a.json", string(got))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "no partial blobs or temp files remain")
	assert.Equal(t, "CURRENT", entries[0].Name())
}
