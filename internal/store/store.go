// Package store keeps the in-memory copy of the site content synchronized with
// the remote document store.
//
// Each collection starts out serving fallback content and switches to remote
// content once the remote store has delivered it. Mutations apply to the
// local copy immediately and are persisted in the background; a failed write
// is logged and never rolled back, the next remote snapshot is what corrects
// the local copy.
package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"cafe-site/internal/docstore"
	"cafe-site/internal/model"

	"github.com/rs/zerolog"
)

const defaultPersistTimeout = 10 * time.Second

// Option configures a Store.
type Option func(*Store)

// WithErrorHandler registers fn to receive every persistence and subscription
// error after it has been logged. fn runs on the goroutine that observed the
// error.
func WithErrorHandler(fn func(error)) Option {
	return func(s *Store) { s.onError = fn }
}

// WithPersistTimeout bounds each background write.
func WithPersistTimeout(d time.Duration) Option {
	return func(s *Store) { s.persistTimeout = d }
}

// Store is the synchronized collection store.
type Store struct {
	adapter  docstore.Adapter
	fallback model.Dataset
	logger   zerolog.Logger

	onError        func(error)
	persistTimeout time.Duration

	mu   sync.RWMutex
	snap Snapshot

	// notifyMu serialises listener notification; notified is the newest
	// version handed to listeners.
	notifyMu sync.Mutex
	notified uint64

	listenersMu sync.Mutex
	listeners   map[uint64]*listener
	nextID      uint64

	lifeMu  sync.Mutex
	started bool
	unsubs  []docstore.Unsubscribe

	ctx    context.Context
	cancel context.CancelFunc

	// pending counts background writes; idle is closed when it drops to zero.
	pendingMu sync.Mutex
	pending   int
	idle      chan struct{}
}

// New creates a store serving fallback until the remote store delivers content.
func New(adapter docstore.Adapter, fallback model.Dataset, logger zerolog.Logger, opts ...Option) *Store {
	ctx, cancel := context.WithCancel(context.Background())

	fallback = fallback.Clone()
	initial := fallback.Clone()
	if initial.Reservations == nil {
		initial.Reservations = []model.Reservation{}
	}
	sortReservations(initial.Reservations)

	s := &Store{
		adapter:        adapter,
		fallback:       fallback,
		logger:         logger.With().Str("component", "store").Logger(),
		persistTimeout: defaultPersistTimeout,
		snap: Snapshot{
			Version:      1,
			MenuItems:    initial.MenuItems,
			Categories:   initial.Categories,
			Reservations: initial.Reservations,
			Profile:      initial.Profile,
		},
		listeners: make(map[uint64]*listener),
		ctx:       ctx,
		cancel:    cancel,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start subscribes to every remote collection. Calling it twice is a no-op.
func (s *Store) Start() {
	s.lifeMu.Lock()
	defer s.lifeMu.Unlock()

	if s.started {
		return
	}
	s.started = true

	s.unsubs = []docstore.Unsubscribe{
		s.adapter.Subscribe(MenuItemsCollection, s.applyMenuItems, s.subscriptionFailed(MenuItemsCollection)),
		s.adapter.Subscribe(CategoriesCollection, s.applyCategories, s.subscriptionFailed(CategoriesCollection)),
		s.adapter.Subscribe(ReservationsCollection, s.applyReservations, s.subscriptionFailed(ReservationsCollection)),
		s.adapter.SubscribeSingleton(ProfileKey, s.applyProfile, s.subscriptionFailed(ProfileKey)),
	}

	s.logger.Info().Msg("store subscribed to remote collections")
}

// Stop cancels the remote subscriptions and waits for pending writes until
// ctx is done; writes still running then are cancelled.
func (s *Store) Stop(ctx context.Context) error {
	s.lifeMu.Lock()
	unsubs := s.unsubs
	s.unsubs = nil
	s.lifeMu.Unlock()

	for _, unsubscribe := range unsubs {
		unsubscribe()
	}

	err := s.Drain(ctx)
	s.cancel()

	if err != nil {
		s.logger.Warn().Err(err).Msg("store stopped with writes still pending")
		return err
	}

	s.logger.Info().Msg("store stopped")
	return nil
}

// Drain waits until no background write is in flight. It may run alongside
// mutations; writes issued meanwhile extend the wait.
func (s *Store) Drain(ctx context.Context) error {
	s.pendingMu.Lock()
	if s.pending == 0 {
		s.pendingMu.Unlock()
		return nil
	}
	idle := s.idle
	s.pendingMu.Unlock()

	select {
	case <-idle:
		return s.Drain(ctx)
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Snapshot returns the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// MenuItems returns the exposed menu items.
func (s *Store) MenuItems() []model.MenuItem {
	return s.Snapshot().MenuItems
}

// Categories returns the exposed categories.
func (s *Store) Categories() []model.Category {
	return s.Snapshot().Categories
}

// Reservations returns reservations, newest first.
func (s *Store) Reservations() []model.Reservation {
	return s.Snapshot().Reservations
}

// Profile returns the business profile.
func (s *Store) Profile() model.BusinessProfile {
	return s.Snapshot().Profile
}

// Sync returns the sync state of every collection.
func (s *Store) Sync() SyncStatus {
	return s.Snapshot().Sync
}

// update runs fn on a copy of the current snapshot. When fn reports a change
// the copy becomes the new version and listeners are notified.
func (s *Store) update(fn func(next *Snapshot) bool) Snapshot {
	s.mu.Lock()
	next := s.snap
	if !fn(&next) {
		s.mu.Unlock()
		return next
	}
	next.Version = s.snap.Version + 1
	s.snap = next
	s.mu.Unlock()

	s.notify(next)
	return next
}

// persist runs op in the background. Failures are logged and reported, the
// local state stays as it is.
func (s *Store) persist(op, collection, id string, fn func(ctx context.Context) error) {
	s.pendingMu.Lock()
	if s.pending == 0 {
		s.idle = make(chan struct{})
	}
	s.pending++
	s.pendingMu.Unlock()

	go func() {
		defer s.writeDone()

		ctx, cancel := context.WithTimeout(s.ctx, s.persistTimeout)
		defer cancel()

		err := fn(ctx)
		if err == nil {
			return
		}

		var perr *model.PersistenceError
		if !errors.As(err, &perr) {
			err = &model.PersistenceError{Op: op, Collection: collection, ID: id, Err: err}
		}

		s.logger.Error().
			Err(err).
			Str("op", op).
			Str("collection", collection).
			Str("id", id).
			Msg("failed to persist change, keeping local state")

		s.report(err)
	}()
}

func (s *Store) writeDone() {
	s.pendingMu.Lock()
	defer s.pendingMu.Unlock()

	s.pending--
	if s.pending == 0 {
		close(s.idle)
	}
}

func (s *Store) report(err error) {
	if s.onError != nil {
		s.onError(err)
	}
}
