package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a requested document does not exist.
var ErrNotFound = errors.New("document not found")

// Snapshot is a full copy of a document's current field values. Absent fields
// are simply missing keys; Exists is false when the document was deleted or
// never written.
type Snapshot struct {
	Path   string
	Exists bool
	Data   map[string]interface{}
}

// String returns the raw string value of a field, or "" when the field is
// absent or not a string.
func (s Snapshot) String(field string) string {
	v, ok := s.Data[field].(string)
	if !ok {
		return ""
	}
	return v
}

// Watcher delivers document snapshots in the order the store emits them.
// Snapshots is closed after Stop or on a transport error; Err reports the
// terminal error, if any, once the channel is closed.
type Watcher interface {
	Snapshots() <-chan Snapshot
	Err() error
	Stop()
}

// DocumentStore is the hosted document database boundary. Paths are
// "collection/docID" (subcollections nest the same way).
type DocumentStore interface {
	Get(ctx context.Context, path string) (Snapshot, error)
	Set(ctx context.Context, path string, data map[string]interface{}) error
	Update(ctx context.Context, path string, fields map[string]interface{}) error
	Delete(ctx context.Context, path string) error
	Watch(ctx context.Context, path string) (Watcher, error)
}
