package store

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"cafe-site/internal/docstore"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// mockAdapter records subscription callbacks so tests can push snapshots, and
// mocks writes with testify.
type mockAdapter struct {
	mock.Mock

	mu           sync.Mutex
	collections  map[string]docstore.SnapshotFunc
	singletons   map[string]docstore.DocumentFunc
	errHandlers  map[string]docstore.ErrorFunc
	unsubscribed map[string]bool
}

func newMockAdapter() *mockAdapter {
	return &mockAdapter{
		collections:  make(map[string]docstore.SnapshotFunc),
		singletons:   make(map[string]docstore.DocumentFunc),
		errHandlers:  make(map[string]docstore.ErrorFunc),
		unsubscribed: make(map[string]bool),
	}
}

func (m *mockAdapter) Subscribe(collection string, onChange docstore.SnapshotFunc, onError docstore.ErrorFunc) docstore.Unsubscribe {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.collections[collection] = onChange
	m.errHandlers[collection] = onError
	return m.unsubscriber(collection)
}

func (m *mockAdapter) SubscribeSingleton(key string, onChange docstore.DocumentFunc, onError docstore.ErrorFunc) docstore.Unsubscribe {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.singletons[key] = onChange
	m.errHandlers[key] = onError
	return m.unsubscriber(key)
}

func (m *mockAdapter) unsubscriber(name string) docstore.Unsubscribe {
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.unsubscribed[name] = true
	}
}

func (m *mockAdapter) Write(ctx context.Context, collection, id string, data json.RawMessage) error {
	args := m.Called(ctx, collection, id, data)
	return args.Error(0)
}

func (m *mockAdapter) Remove(ctx context.Context, collection, id string) error {
	args := m.Called(ctx, collection, id)
	return args.Error(0)
}

func (m *mockAdapter) WriteSingleton(ctx context.Context, key string, data json.RawMessage) error {
	args := m.Called(ctx, key, data)
	return args.Error(0)
}

// push delivers a raw snapshot to the store's subscription on collection.
func (m *mockAdapter) push(t *testing.T, collection string, docs ...docstore.Document) {
	t.Helper()

	m.mu.Lock()
	fn := m.collections[collection]
	m.mu.Unlock()

	require.NotNil(t, fn, "no subscription for %s", collection)
	if docs == nil {
		docs = []docstore.Document{}
	}
	fn(docs)
}

func (m *mockAdapter) pushDocument(t *testing.T, key string, doc *docstore.Document) {
	t.Helper()

	m.mu.Lock()
	fn := m.singletons[key]
	m.mu.Unlock()

	require.NotNil(t, fn, "no subscription for %s", key)
	fn(doc)
}

func (m *mockAdapter) fail(t *testing.T, name string, err error) {
	t.Helper()

	m.mu.Lock()
	fn := m.errHandlers[name]
	m.mu.Unlock()

	require.NotNil(t, fn, "no subscription for %s", name)
	fn(err)
}

func (m *mockAdapter) isUnsubscribed(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.unsubscribed[name]
}

// doc encodes v as a stored document.
func doc(t *testing.T, id string, v any) docstore.Document {
	t.Helper()

	data, err := docstore.Encode(v)
	require.NoError(t, err)
	return docstore.Document{ID: id, Data: data}
}
