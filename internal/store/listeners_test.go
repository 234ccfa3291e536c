package store

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"cafe-site/internal/docstore"
	"cafe-site/internal/fallback"
	"cafe-site/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_ListenersSeeIncreasingVersions(t *testing.T) {
	adapter := newMockAdapter()
	s := newTestStore(t, adapter)

	var versions []uint64
	unsubscribe := s.Subscribe(func(snap Snapshot) {
		versions = append(versions, snap.Version)
	})
	defer unsubscribe()

	adapter.push(t, MenuItemsCollection, doc(t, "a", latte))
	adapter.push(t, CategoriesCollection)
	adapter.pushDocument(t, ProfileKey, nil)

	require.Len(t, versions, 3)
	assert.Less(t, versions[0], versions[1])
	assert.Less(t, versions[1], versions[2])
	assert.Equal(t, s.Snapshot().Version, versions[2])
}

func TestStore_NoChangeNoNotification(t *testing.T) {
	adapter := newMockAdapter()
	s := newTestStore(t, adapter)

	adapter.push(t, CategoriesCollection)

	calls := 0
	unsubscribe := s.Subscribe(func(Snapshot) { calls++ })
	defer unsubscribe()

	// Already synced and still empty: nothing to tell.
	adapter.push(t, CategoriesCollection)
	assert.Equal(t, 0, calls)
}

func TestStore_UnsubscribeStopsNotifications(t *testing.T) {
	adapter := newMockAdapter()
	s := newTestStore(t, adapter)

	calls := 0
	unsubscribe := s.Subscribe(func(Snapshot) { calls++ })

	adapter.push(t, MenuItemsCollection, doc(t, "a", latte))
	unsubscribe()
	unsubscribe()
	adapter.push(t, MenuItemsCollection, doc(t, "b", latte))

	assert.Equal(t, 1, calls)
}

func TestStore_UnsubscribeWaitsForRunningListener(t *testing.T) {
	adapter := newMockAdapter()
	s := newTestStore(t, adapter)

	entered := make(chan struct{})
	release := make(chan struct{})
	var mu sync.Mutex
	calls := 0

	unsubscribe := s.Subscribe(func(Snapshot) {
		mu.Lock()
		calls++
		mu.Unlock()
		close(entered)
		<-release
	})

	go adapter.push(t, MenuItemsCollection, doc(t, "a", latte))
	<-entered

	done := make(chan struct{})
	go func() {
		unsubscribe()
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("unsubscribe returned while listener was running")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	<-done

	adapter.push(t, MenuItemsCollection, doc(t, "b", latte))
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, calls)
}

func TestStore_ListenersNeverGoBackInVersion(t *testing.T) {
	adapter := docstore.NewMemoryAdapter()
	s := New(adapter, fallback.Builtin(), zerolog.Nop())
	s.Start()
	defer func() { _ = s.Stop(context.Background()) }()

	var mu sync.Mutex
	var last uint64
	regressions := 0
	unsubscribe := s.Subscribe(func(snap Snapshot) {
		mu.Lock()
		defer mu.Unlock()
		if snap.Version <= last {
			regressions++
		}
		last = snap.Version
	})
	defer unsubscribe()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := string(rune('a' + i))
			s.AddCategory(model.Category{ID: id, Name: id})
			s.AddReservation(model.Reservation{ID: id, CreatedAt: time.Now()})
		}(i)
	}
	wg.Wait()
	drain(t, s)

	mu.Lock()
	defer mu.Unlock()
	assert.Zero(t, regressions)
	assert.Equal(t, s.Snapshot().Version, last)
}

func TestStore_WithMemoryAdapterConverges(t *testing.T) {
	adapter := docstore.NewMemoryAdapter()
	ctx := context.Background()

	require.NoError(t, adapter.Write(ctx, MenuItemsCollection, "a", json.RawMessage(`{"name":"Latte","price":3.5,"category":"cafe"}`)))
	require.NoError(t, adapter.WriteSingleton(ctx, ProfileKey, json.RawMessage(`{"name":"Remote"}`)))

	s := New(adapter, fallback.Builtin(), zerolog.Nop())
	s.Start()

	snap := s.Snapshot()
	assert.True(t, snap.Sync.Synced())
	require.Len(t, snap.MenuItems, 1)
	assert.Equal(t, "Latte", snap.MenuItems[0].Name)
	assert.Equal(t, fallback.Builtin().Categories, snap.Categories)
	assert.Equal(t, "Remote", snap.Profile.Name)

	s.AddReservation(model.Reservation{ID: "r1", Name: "Ana", Status: model.StatusPending, CreatedAt: time.Now().UTC()})
	drain(t, s)

	stored, ok := adapter.Get(ReservationsCollection, "r1")
	require.True(t, ok)
	assert.NotContains(t, string(stored), `"id"`)
	require.Len(t, s.Reservations(), 1)

	require.NoError(t, s.Stop(ctx))
	assert.Equal(t, 0, adapter.Subscribers())
}
