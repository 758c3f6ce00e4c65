package blobstore

import (
	"context"
	"io"
	"os"
)

// ErrNotFound is returned when a blob does not exist. It is os.ErrNotExist,
// so errors.Is(err, fs.ErrNotExist) also holds.
var ErrNotFound = os.ErrNotExist

// BlobStore holds immutable blobs such as dumped tries and archives.
// Implementations must be safe for concurrent use.
type BlobStore interface {
	Open(ctx context.Context, name string) (Blob, error)
	Create(ctx context.Context, name string) (WritableBlob, error)
	// Put writes a whole blob atomically.
	Put(ctx context.Context, name string, data []byte) error
	Delete(ctx context.Context, name string) error
	// List returns the names starting with prefix in ascending order.
	List(ctx context.Context, prefix string) ([]string, error)
}

// Blob is a read-only handle to a stored blob.
type Blob interface {
	io.Closer
	ReadAt(ctx context.Context, p []byte, off int64) (int, error)
	Size() int64
	// ReadRange streams length bytes starting at off. Ranges past the end are
	// clipped.
	ReadRange(ctx context.Context, off, length int64) (io.ReadCloser, error)
}

// WritableBlob receives a streamed blob. Data becomes visible on Close.
type WritableBlob interface {
	io.WriteCloser
	Sync() error
}

// Abortable is implemented by writable blobs that can discard a partial
// upload. After Abort nothing becomes visible and Close must not be called.
type Abortable interface {
	Abort() error
}

// Mappable is implemented by blobs backed by a memory mapping.
type Mappable interface {
	// Bytes returns the mapped content, valid until the blob is closed.
	Bytes() ([]byte, error)
}
