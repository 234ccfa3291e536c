package docstore

import (
	"context"
	"encoding/json"
	"slices"
	"strings"
	"sync"

	"cafe-site/internal/model"
)

// MemoryAdapter is an in-process Adapter. Deliveries happen synchronously on
// the goroutine that caused them, which keeps tests deterministic.
type MemoryAdapter struct {
	mu       sync.Mutex
	data     map[string]map[string]json.RawMessage
	writeErr error

	// feedMu orders snapshot reads with their delivery so listeners only ever
	// see newer snapshots.
	feedMu sync.Mutex
	reg    *registry
}

// NewMemoryAdapter creates an empty in-memory store.
func NewMemoryAdapter() *MemoryAdapter {
	return &MemoryAdapter{
		data: make(map[string]map[string]json.RawMessage),
		reg:  newRegistry(),
	}
}

// Subscribe implements Adapter. The current snapshot is delivered before it returns.
func (a *MemoryAdapter) Subscribe(collection string, onChange SnapshotFunc, onError ErrorFunc) Unsubscribe {
	sub := newCollectionSub(collection, onChange, onError)
	a.reg.add(sub)

	a.feedMu.Lock()
	sub.deliver(a.snapshot(collection))
	a.feedMu.Unlock()

	return a.reg.unsubscriber(sub)
}

// SubscribeSingleton implements Adapter.
func (a *MemoryAdapter) SubscribeSingleton(key string, onChange DocumentFunc, onError ErrorFunc) Unsubscribe {
	collection, id, err := ParseKey(key)
	if err != nil {
		if onError != nil {
			onError(&model.SubscriptionError{Collection: key, Err: err})
		}
		return func() {}
	}

	sub := newSingletonSub(collection, id, onChange, onError)
	a.reg.add(sub)

	a.feedMu.Lock()
	sub.deliver(a.snapshot(collection))
	a.feedMu.Unlock()

	return a.reg.unsubscriber(sub)
}

// Write implements Adapter.
func (a *MemoryAdapter) Write(ctx context.Context, collection, id string, data json.RawMessage) error {
	if err := a.check(ctx, "write", collection, id); err != nil {
		return err
	}

	a.mu.Lock()
	if a.data[collection] == nil {
		a.data[collection] = make(map[string]json.RawMessage)
	}
	a.data[collection][id] = slices.Clone(data)
	a.mu.Unlock()

	a.publish(collection)
	return nil
}

// Remove implements Adapter.
func (a *MemoryAdapter) Remove(ctx context.Context, collection, id string) error {
	if err := a.check(ctx, "remove", collection, id); err != nil {
		return err
	}

	a.mu.Lock()
	delete(a.data[collection], id)
	a.mu.Unlock()

	a.publish(collection)
	return nil
}

// WriteSingleton implements Adapter.
func (a *MemoryAdapter) WriteSingleton(ctx context.Context, key string, data json.RawMessage) error {
	collection, id, err := ParseKey(key)
	if err != nil {
		return &model.PersistenceError{Op: "write", Collection: key, Err: err}
	}
	return a.Write(ctx, collection, id, data)
}

// FailWrites makes every following Write and Remove fail with err. A nil err
// restores normal operation.
func (a *MemoryAdapter) FailWrites(err error) {
	a.mu.Lock()
	a.writeErr = err
	a.mu.Unlock()
}

// EmitError reports err to every listener of collection, as a broken remote
// listener would.
func (a *MemoryAdapter) EmitError(collection string, err error) {
	for _, sub := range a.reg.forCollection(collection) {
		sub.fail(err)
	}
}

// Get returns a stored document body.
func (a *MemoryAdapter) Get(collection, id string) (json.RawMessage, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	data, ok := a.data[collection][id]
	return data, ok
}

// Subscribers returns the number of live subscriptions.
func (a *MemoryAdapter) Subscribers() int {
	return a.reg.len()
}

func (a *MemoryAdapter) check(ctx context.Context, op, collection, id string) error {
	if err := ctx.Err(); err != nil {
		return &model.PersistenceError{Op: op, Collection: collection, ID: id, Err: err}
	}

	a.mu.Lock()
	writeErr := a.writeErr
	a.mu.Unlock()

	if writeErr != nil {
		return &model.PersistenceError{Op: op, Collection: collection, ID: id, Err: writeErr}
	}
	return nil
}

func (a *MemoryAdapter) publish(collection string) {
	a.feedMu.Lock()
	defer a.feedMu.Unlock()

	docs := a.snapshot(collection)
	for _, sub := range a.reg.forCollection(collection) {
		sub.deliver(docs)
	}
}

// snapshot returns the collection sorted by id.
func (a *MemoryAdapter) snapshot(collection string) []Document {
	a.mu.Lock()
	defer a.mu.Unlock()

	docs := make([]Document, 0, len(a.data[collection]))
	for id, data := range a.data[collection] {
		docs = append(docs, Document{ID: id, Data: slices.Clone(data)})
	}
	slices.SortFunc(docs, func(x, y Document) int { return strings.Compare(x.ID, y.ID) })
	return docs
}

var _ Adapter = (*MemoryAdapter)(nil)
