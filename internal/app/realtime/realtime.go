// internal/app/realtime/realtime.go

// Package realtime abstracts the push-style document store the sync layer
// is built on. A subscription delivers full snapshots, never deltas: a
// document watch pushes {exists, fields} on attach and on every change,
// and a query watch pushes the complete matching result set whenever any
// matching (or no-longer-matching) document changes.
package realtime

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Snapshot is the payload of a document subscription push.
type Snapshot struct {
	Exists bool
	Fields bson.M
}

// Decode unmarshals the snapshot fields into v.
func (s Snapshot) Decode(v interface{}) error {
	raw, err := bson.Marshal(s.Fields)
	if err != nil {
		return err
	}
	return bson.Unmarshal(raw, v)
}

// Document is one element of a query subscription push.
type Document struct {
	ID     interface{}
	Fields bson.M
}

// Decode unmarshals the document fields into v.
func (d Document) Decode(v interface{}) error {
	raw, err := bson.Marshal(d.Fields)
	if err != nil {
		return err
	}
	return bson.Unmarshal(raw, v)
}

// DocumentHandler receives document snapshots. Handlers run to completion
// before the next push for the same subscription is delivered.
type DocumentHandler func(Snapshot)

// QueryHandler receives the full matching set on every push.
type QueryHandler func([]Document)

// CancelFunc closes a subscription. Safe to call more than once.
type CancelFunc func()

// Source is the read/subscribe half of the document store.
//
// Both watch calls deliver an initial push synchronously with current
// state before returning, then push on every subsequent change until the
// context is done or the CancelFunc is called. Errors after attach are
// logged by the implementation and degrade to an absent/empty push; they
// never panic the subscriber.
type Source interface {
	WatchDocument(ctx context.Context, collection string, id interface{}, fn DocumentHandler) (CancelFunc, error)
	WatchQuery(ctx context.Context, collection string, filter bson.M, fn QueryHandler) (CancelFunc, error)
}

// Writer is the mutation half of the document store. The typed stores
// are the production write path; Writer exists so tests and generic
// tooling can drive a Source implementation without mongo.
type Writer interface {
	// WriteDocument sets fields on a document, creating it if absent.
	// With merge=false the document is replaced wholesale.
	WriteDocument(ctx context.Context, collection string, id interface{}, fields bson.M, merge bool) error
	// CreateDocument inserts a document with a generated id.
	CreateDocument(ctx context.Context, collection string, fields bson.M) (primitive.ObjectID, error)
	DeleteDocument(ctx context.Context, collection string, id interface{}) error
	// IncrementField applies a field-level atomic increment.
	IncrementField(ctx context.Context, collection string, id interface{}, field string, delta int64) error
}

// Store combines both halves.
type Store interface {
	Source
	Writer
}
