// internal/app/realtime/memsource.go
package realtime

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemSource is an in-memory Store for tests. Writes notify watchers of
// the touched collection synchronously, so a test can write and assert
// immediately afterward without sleeping. Handler callbacks run outside
// the internal lock, so a handler may open or cancel subscriptions.
type MemSource struct {
	mu    sync.Mutex
	colls map[string]map[string]bson.M
	subs  map[string]map[int]func()
	next  int
}

func NewMemSource() *MemSource {
	return &MemSource{
		colls: make(map[string]map[string]bson.M),
		subs:  make(map[string]map[int]func()),
	}
}

// key normalizes the two id shapes the data model uses (ObjectID and the
// admin-set string id) into a map key.
func key(id interface{}) string {
	switch v := id.(type) {
	case primitive.ObjectID:
		return v.Hex()
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}

func clone(fields bson.M) bson.M {
	raw, err := bson.Marshal(fields)
	if err != nil {
		return bson.M{}
	}
	var out bson.M
	if err := bson.Unmarshal(raw, &out); err != nil {
		return bson.M{}
	}
	return out
}

// matches supports the filter shapes the sync layer actually issues:
// field equality and {"$in": [...]}.
func matches(fields bson.M, filter bson.M) bool {
	for field, want := range filter {
		got, ok := fields[field]
		if !ok {
			return false
		}
		if cond, isCond := want.(bson.M); isCond {
			in, hasIn := cond["$in"]
			if !hasIn {
				return false
			}
			found := false
			for _, candidate := range toSlice(in) {
				if sameValue(got, candidate) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
			continue
		}
		if !sameValue(got, want) {
			return false
		}
	}
	return true
}

func sameValue(a, b interface{}) bool {
	return fmt.Sprintf("%v", a) == fmt.Sprintf("%v", b)
}

func toSlice(v interface{}) []interface{} {
	switch s := v.(type) {
	case []interface{}:
		return s
	case bson.A:
		return []interface{}(s)
	case []primitive.ObjectID:
		out := make([]interface{}, len(s))
		for i, id := range s {
			out[i] = id
		}
		return out
	default:
		return nil
	}
}

func (m *MemSource) WatchDocument(ctx context.Context, collection string, id interface{}, fn DocumentHandler) (CancelFunc, error) {
	push := func() {
		m.mu.Lock()
		fields, ok := m.colls[collection][key(id)]
		var snap Snapshot
		if ok {
			snap = Snapshot{Exists: true, Fields: clone(fields)}
		}
		m.mu.Unlock()
		fn(snap)
	}

	m.mu.Lock()
	token := m.subscribe(collection, push)
	m.mu.Unlock()

	push()
	return func() { m.unsubscribe(collection, token) }, nil
}

func (m *MemSource) WatchQuery(ctx context.Context, collection string, filter bson.M, fn QueryHandler) (CancelFunc, error) {
	push := func() {
		m.mu.Lock()
		docs := m.query(collection, filter)
		m.mu.Unlock()
		fn(docs)
	}

	m.mu.Lock()
	token := m.subscribe(collection, push)
	m.mu.Unlock()

	push()
	return func() { m.unsubscribe(collection, token) }, nil
}

// query runs under mu. Results are ordered by id for determinism.
func (m *MemSource) query(collection string, filter bson.M) []Document {
	keys := make([]string, 0, len(m.colls[collection]))
	for k, fields := range m.colls[collection] {
		if matches(fields, filter) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var docs []Document
	for _, k := range keys {
		fields := clone(m.colls[collection][k])
		docs = append(docs, Document{ID: fields["_id"], Fields: fields})
	}
	return docs
}

// subscribe runs under mu.
func (m *MemSource) subscribe(collection string, push func()) int {
	if m.subs[collection] == nil {
		m.subs[collection] = make(map[int]func())
	}
	m.next++
	m.subs[collection][m.next] = push
	return m.next
}

func (m *MemSource) unsubscribe(collection string, token int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.subs[collection], token)
}

// notify invokes the pushes registered for a collection, outside the
// lock and in stable token order. Subscriptions cancelled between the
// snapshot of the list and the call are skipped.
func (m *MemSource) notify(collection string) {
	m.mu.Lock()
	tokens := make([]int, 0, len(m.subs[collection]))
	for t := range m.subs[collection] {
		tokens = append(tokens, t)
	}
	sort.Ints(tokens)
	pushes := make([]func(), 0, len(tokens))
	for _, t := range tokens {
		token := t
		pushes = append(pushes, func() {
			m.mu.Lock()
			push, ok := m.subs[collection][token]
			m.mu.Unlock()
			if ok {
				push()
			}
		})
	}
	m.mu.Unlock()

	for _, p := range pushes {
		p()
	}
}

func (m *MemSource) WriteDocument(ctx context.Context, collection string, id interface{}, fields bson.M, merge bool) error {
	m.mu.Lock()
	if m.colls[collection] == nil {
		m.colls[collection] = make(map[string]bson.M)
	}
	k := key(id)
	doc, exists := m.colls[collection][k]
	if !merge || !exists {
		doc = bson.M{}
	}
	for f, v := range fields {
		doc[f] = v
	}
	doc["_id"] = id
	m.colls[collection][k] = doc
	m.mu.Unlock()

	m.notify(collection)
	return nil
}

func (m *MemSource) CreateDocument(ctx context.Context, collection string, fields bson.M) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	if err := m.WriteDocument(ctx, collection, id, fields, false); err != nil {
		return primitive.NilObjectID, err
	}
	return id, nil
}

func (m *MemSource) DeleteDocument(ctx context.Context, collection string, id interface{}) error {
	m.mu.Lock()
	delete(m.colls[collection], key(id))
	m.mu.Unlock()

	m.notify(collection)
	return nil
}

func (m *MemSource) IncrementField(ctx context.Context, collection string, id interface{}, field string, delta int64) error {
	m.mu.Lock()
	doc, ok := m.colls[collection][key(id)]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("memsource: %s/%s not found", collection, key(id))
	}
	var cur int64
	switch v := doc[field].(type) {
	case int64:
		cur = v
	case int32:
		cur = int64(v)
	case int:
		cur = int64(v)
	}
	doc[field] = cur + delta
	m.mu.Unlock()

	m.notify(collection)
	return nil
}
