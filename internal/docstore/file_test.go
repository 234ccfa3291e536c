package docstore

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"cafe-site/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder collects deliveries from adapter goroutines.
type recorder struct {
	mu        sync.Mutex
	snapshots [][]Document
	errs      []error
}

func (r *recorder) onChange(docs []Document) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshots = append(r.snapshots, docs)
}

func (r *recorder) onError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
}

func (r *recorder) last() []Document {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.snapshots) == 0 {
		return nil
	}
	return r.snapshots[len(r.snapshots)-1]
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.snapshots)
}

func (r *recorder) firstErr() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.errs) == 0 {
		return nil
	}
	return r.errs[0]
}

func (r *recorder) errCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.errs)
}

func newTestFileAdapter(t *testing.T) (*FileAdapter, string) {
	t.Helper()

	dir := t.TempDir()
	a, err := NewFileAdapter(dir, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	return a, dir
}

func ids(docs []Document) []string {
	out := make([]string, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.ID)
	}
	return out
}

func TestFileAdapter_MissingFileIsEmptyCollection(t *testing.T) {
	a, _ := newTestFileAdapter(t)

	rec := &recorder{}
	unsubscribe := a.Subscribe("menuItems", rec.onChange, rec.onError)
	defer unsubscribe()

	require.Equal(t, 1, rec.count())
	assert.Empty(t, rec.last())
	assert.NotNil(t, rec.last())
	assert.Equal(t, 0, rec.errCount())
}

func TestFileAdapter_WritePersistsAndNotifies(t *testing.T) {
	a, dir := newTestFileAdapter(t)
	ctx := context.Background()

	rec := &recorder{}
	unsubscribe := a.Subscribe("categories", rec.onChange, rec.onError)
	defer unsubscribe()

	require.NoError(t, a.Write(ctx, "categories", "coffee", json.RawMessage(`{"name":"Coffee"}`)))
	require.NoError(t, a.Write(ctx, "categories", "tea", json.RawMessage(`{"name":"Tea"}`)))

	require.Eventually(t, func() bool {
		return assert.ObjectsAreEqual([]string{"coffee", "tea"}, ids(rec.last()))
	}, 5*time.Second, 10*time.Millisecond)

	raw, err := os.ReadFile(filepath.Join(dir, "categories.json"))
	require.NoError(t, err)

	var stored map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &stored))
	assert.JSONEq(t, `{"name":"Tea"}`, string(stored["tea"]))

	require.NoError(t, a.Remove(ctx, "categories", "coffee"))
	require.Eventually(t, func() bool {
		return assert.ObjectsAreEqual([]string{"tea"}, ids(rec.last()))
	}, 5*time.Second, 10*time.Millisecond)
}

func TestFileAdapter_ExternalEditIsPushed(t *testing.T) {
	a, dir := newTestFileAdapter(t)

	rec := &recorder{}
	unsubscribe := a.Subscribe("menuItems", rec.onChange, rec.onError)
	defer unsubscribe()

	body := `{"latte":{"name":"Latte","price":4.5}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "menuItems.json"), []byte(body), 0o644))

	require.Eventually(t, func() bool {
		return assert.ObjectsAreEqual([]string{"latte"}, ids(rec.last()))
	}, 5*time.Second, 10*time.Millisecond)

	item, err := Decode[model.MenuItem](rec.last()[0])
	require.NoError(t, err)
	assert.Equal(t, "Latte", item.Name)
}

func TestFileAdapter_CorruptFileReportsSubscriptionError(t *testing.T) {
	a, dir := newTestFileAdapter(t)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "reservations.json"), []byte(`{not json`), 0o644))

	rec := &recorder{}
	unsubscribe := a.Subscribe("reservations", rec.onChange, rec.onError)
	defer unsubscribe()

	assert.Equal(t, 0, rec.count())
	require.Equal(t, 1, rec.errCount())

	var subErr *model.SubscriptionError
	assert.ErrorAs(t, rec.firstErr(), &subErr)
}

func TestFileAdapter_Singleton(t *testing.T) {
	a, _ := newTestFileAdapter(t)
	ctx := context.Background()

	var mu sync.Mutex
	var docs []*Document
	unsubscribe := a.SubscribeSingleton("config/business", func(doc *Document) {
		mu.Lock()
		defer mu.Unlock()
		docs = append(docs, doc)
	}, nil)
	defer unsubscribe()

	require.NoError(t, a.WriteSingleton(ctx, "config/business", json.RawMessage(`{"name":"KAIRO"}`)))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(docs) >= 2 && docs[len(docs)-1] != nil
	}, 5*time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Nil(t, docs[0])
	assert.Equal(t, "business", docs[len(docs)-1].ID)
}

func TestFileAdapter_UnsubscribeStopsDelivery(t *testing.T) {
	a, _ := newTestFileAdapter(t)
	ctx := context.Background()

	rec := &recorder{}
	unsubscribe := a.Subscribe("categories", rec.onChange, rec.onError)
	unsubscribe()

	require.NoError(t, a.Write(ctx, "categories", "coffee", json.RawMessage(`{}`)))
	time.Sleep(100 * time.Millisecond)

	assert.Equal(t, 1, rec.count())
}

func TestFileAdapter_InvalidCollection(t *testing.T) {
	a, _ := newTestFileAdapter(t)

	rec := &recorder{}
	unsubscribe := a.Subscribe("../escape", rec.onChange, rec.onError)
	unsubscribe()
	assert.Equal(t, 1, rec.errCount())

	err := a.Write(context.Background(), "../escape", "x", json.RawMessage(`{}`))
	var persistErr *model.PersistenceError
	assert.ErrorAs(t, err, &persistErr)
}
