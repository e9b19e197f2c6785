// Package store abstracts the durable object store holding the source
// documents. The store is a flat namespace keyed by filename; writes are
// overwrite-semantics (last write wins). There is no derived-data
// persistence: analytics always recomputes from the raw documents.
package store

import (
	"context"
	"time"
)

// ObjectInfo describes one stored object.
type ObjectInfo struct {
	Name      string
	CreatedAt time.Time
	Size      int64
}

// ObjectStore is the minimal contract the pipeline needs from blob storage.
type ObjectStore interface {
	// List enumerates all objects in the container.
	List(ctx context.Context) ([]ObjectInfo, error)
	// Get fetches one object's bytes.
	Get(ctx context.Context, name string) ([]byte, error)
	// Put stores an object, overwriting any existing one under that name.
	Put(ctx context.Context, name string, data []byte) error
	// Exists reports whether the container exists.
	Exists(ctx context.Context) (bool, error)
	// Create creates the container. Creating an existing container is not
	// an error.
	Create(ctx context.Context) error
}
