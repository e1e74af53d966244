package fs

import (
	"errors"
	iofs "io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalFS(t *testing.T) {
	tmp := t.TempDir()
	lfs := LocalFS{}

	dir := filepath.Join(tmp, "decks")
	require.NoError(t, lfs.MkdirAll(dir, 0o755))

	fpath := filepath.Join(dir, "a.json")
	f, err := lfs.OpenFile(fpath, os.O_CREATE|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.Write([]byte("[]"))
	require.NoError(t, err)
	require.NoError(t, f.Sync())
	require.NoError(t, f.Close())

	// Link refuses to replace an existing file.
	linked := filepath.Join(dir, "b.json")
	require.NoError(t, lfs.Link(fpath, linked))
	assert.ErrorIs(t, lfs.Link(fpath, linked), iofs.ErrExist)

	renamed := filepath.Join(dir, "c.json")
	require.NoError(t, lfs.Rename(fpath, renamed))

	var seen []string
	require.NoError(t, lfs.WalkDir(tmp, func(p string, d iofs.DirEntry, err error) error {
		if err == nil && !d.IsDir() {
			seen = append(seen, d.Name())
		}
		return err
	}))
	assert.ElementsMatch(t, []string{"b.json", "c.json"}, seen)

	require.NoError(t, lfs.Remove(renamed))
	_, err = os.Stat(renamed)
	assert.ErrorIs(t, err, iofs.ErrNotExist)
}

func TestFaultyFS(t *testing.T) {
	tmp := t.TempDir()
	errDisk := errors.New("disk full")

	ffs := NewFaultyFS(nil)
	ffs.AddRule("limited", Fault{FailAfterBytes: 4, Err: errDisk})
	ffs.AddRule("nosync", Fault{FailAfterBytes: -1, FailOnSync: true})
	ffs.AddRule("noclose", Fault{FailAfterBytes: -1, FailOnClose: true})
	ffs.AddRule("CURRENT", Fault{FailAfterBytes: -1, FailOnRename: true})

	open := func(name string) File {
		f, err := ffs.OpenFile(filepath.Join(tmp, name), os.O_CREATE|os.O_WRONLY, 0o644)
		require.NoError(t, err)
		return f
	}

	t.Run("Write", func(t *testing.T) {
		f := open("limited")
		defer f.Close()

		_, err := f.Write([]byte("abc"))
		require.NoError(t, err)
		_, err = f.Write([]byte("de"))
		assert.ErrorIs(t, err, errDisk)
		assert.Equal(t, int64(3), ffs.Written())
	})

	t.Run("Sync", func(t *testing.T) {
		f := open("nosync")
		defer f.Close()
		assert.ErrorIs(t, f.Sync(), ErrInjected)
	})

	t.Run("Close", func(t *testing.T) {
		assert.ErrorIs(t, open("noclose").Close(), ErrInjected)
	})

	t.Run("Rename", func(t *testing.T) {
		f := open("tmp")
		require.NoError(t, f.Close())
		err := ffs.Rename(filepath.Join(tmp, "tmp"), filepath.Join(tmp, "CURRENT"))
		assert.ErrorIs(t, err, ErrInjected)
		require.NoError(t, ffs.Rename(filepath.Join(tmp, "tmp"), filepath.Join(tmp, "other")))
	})

	t.Run("Passthrough", func(t *testing.T) {
		f := open("plain")
		_, err := f.Write([]byte("hello world"))
		require.NoError(t, err)
		require.NoError(t, f.Sync())
		require.NoError(t, f.Close())
	})
}
