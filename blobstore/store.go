package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrNotFound is returned when a blob does not exist.
//
// Implementations should return an error that satisfies `errors.Is(err, ErrNotFound)`.
// The default maps to `os.ErrNotExist`.
var ErrNotFound = os.ErrNotExist

// ErrConflict is returned by conditional writes that lost a race.
var ErrConflict = errors.New("blobstore: conflicting write")

// BlobStore is an abstraction over a flat namespace of blobs (decks, order
// documents and pointer files).
type BlobStore interface {
	// Open opens a blob for reading.
	Open(ctx context.Context, name string) (Blob, error)
	// Create creates a blob for streaming writes. The blob becomes visible on Close.
	Create(ctx context.Context, name string) (WritableBlob, error)
	// Put writes a blob atomically, replacing any previous content.
	Put(ctx context.Context, name string, data []byte) error
	// Delete removes a blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, name string) error
	// List returns the sorted names of all blobs with the given prefix.
	List(ctx context.Context, prefix string) ([]string, error)
}

// Blob is a read-only handle to a data blob.
type Blob interface {
	io.Closer
	// ReadAt reads len(p) bytes starting at off.
	ReadAt(ctx context.Context, p []byte, off int64) (int, error)
	// ReadRange returns a reader for length bytes starting at off.
	// It returns io.EOF if off is at or past the end of the blob.
	ReadRange(ctx context.Context, off, length int64) (io.ReadCloser, error)
	// Size returns the size of the blob in bytes.
	Size() int64
}

// WritableBlob is a blob being written.
type WritableBlob interface {
	io.WriteCloser
	// Sync flushes buffered data to durable storage where supported.
	Sync() error
}

// ConditionalPutter is an optional interface for stores that can write a
// blob only when its name is still free. Commit pointers rely on it.
type ConditionalPutter interface {
	// PutIfAbsent returns ErrConflict if name already exists.
	PutIfAbsent(ctx context.Context, name string, data []byte) error
}

// Mappable is an optional interface for Blobs that support memory mapping.
type Mappable interface {
	// Bytes returns the underlying byte slice.
	// The slice is valid until the Blob is closed.
	Bytes() ([]byte, error)
}

// View opens name and passes its full contents to fn.
//
// Mappable blobs are handed over without copying, so fn must not retain data
// after it returns.
func View(ctx context.Context, st BlobStore, name string, fn func(data []byte) error) (err error) {
	b, err := st.Open(ctx, name)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := b.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if m, ok := b.(Mappable); ok {
		data, err := m.Bytes()
		if err != nil {
			return err
		}
		return fn(data)
	}

	data, err := readBlob(ctx, b)
	if err != nil {
		return err
	}
	return fn(data)
}

// ReadAll returns a copy of the full contents of name.
func ReadAll(ctx context.Context, st BlobStore, name string) ([]byte, error) {
	var out []byte
	err := View(ctx, st, name, func(data []byte) error {
		out = make([]byte, len(data))
		copy(out, data)
		return nil
	})
	return out, err
}

func readBlob(ctx context.Context, b Blob) ([]byte, error) {
	size := b.Size()
	if size == 0 {
		return nil, nil
	}

	r, err := b.ReadRange(ctx, 0, size)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	data := make([]byte, size)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, fmt.Errorf("blobstore: short read: %w", err)
	}
	return data, nil
}
