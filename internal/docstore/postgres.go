package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"cafe-site/internal/database"
	"cafe-site/internal/model"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const (
	selectCollectionQuery = `SELECT id, data FROM documents WHERE collection = $1 ORDER BY id`

	upsertDocumentQuery = `
		INSERT INTO documents (collection, id, data, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (collection, id)
		DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()`

	deleteDocumentQuery = `DELETE FROM documents WHERE collection = $1 AND id = $2`
)

// PostgresAdapter keeps documents in the documents table and learns about
// changes through LISTEN on database.ChangeChannel. Each notification reloads
// the full collection it names for that collection's subscribers.
type PostgresAdapter struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger

	reg *registry

	fetchMu    sync.Mutex
	fetchLocks map[string]*sync.Mutex

	newBackOff func() backoff.BackOff

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// lifeMu orders goroutine registration with Close.
	lifeMu sync.Mutex
	closed bool

	startOnce sync.Once
}

// NewPostgresAdapter creates an adapter on pool. Call Start to begin listening;
// subscriptions made before Start still receive their initial snapshot.
func NewPostgresAdapter(pool *pgxpool.Pool, logger zerolog.Logger) *PostgresAdapter {
	ctx, cancel := context.WithCancel(context.Background())

	return &PostgresAdapter{
		pool:       pool,
		logger:     logger.With().Str("component", "postgres-adapter").Logger(),
		reg:        newRegistry(),
		fetchLocks: make(map[string]*sync.Mutex),
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 500 * time.Millisecond
			b.MaxInterval = 30 * time.Second
			b.MaxElapsedTime = 0
			return b
		},
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start opens the listener connection and starts the notification loop.
func (a *PostgresAdapter) Start(ctx context.Context) error {
	var err error
	a.startOnce.Do(func() {
		var conn *pgx.Conn
		conn, err = a.listen(ctx)
		if err != nil {
			err = fmt.Errorf("failed to start change listener: %w", err)
			return
		}

		a.lifeMu.Lock()
		if a.closed {
			a.lifeMu.Unlock()
			_ = conn.Close(context.Background())
			err = errors.New("adapter closed")
			return
		}
		a.wg.Add(1)
		a.lifeMu.Unlock()

		go a.listenLoop(conn)

		a.logger.Info().Str("channel", database.ChangeChannel).Msg("listening for document changes")
	})
	return err
}

// Close stops listening and waits for pending fetches. It does not close the pool.
func (a *PostgresAdapter) Close() {
	a.lifeMu.Lock()
	if a.closed {
		a.lifeMu.Unlock()
		return
	}
	a.closed = true
	a.lifeMu.Unlock()

	a.cancel()
	a.wg.Wait()
}

// Subscribe implements Adapter. The initial snapshot is loaded asynchronously.
func (a *PostgresAdapter) Subscribe(collection string, onChange SnapshotFunc, onError ErrorFunc) Unsubscribe {
	sub := newCollectionSub(collection, onChange, onError)
	a.reg.add(sub)
	a.refreshAsync(collection, sub)

	return a.reg.unsubscriber(sub)
}

// SubscribeSingleton implements Adapter.
func (a *PostgresAdapter) SubscribeSingleton(key string, onChange DocumentFunc, onError ErrorFunc) Unsubscribe {
	collection, id, err := ParseKey(key)
	if err != nil {
		if onError != nil {
			onError(&model.SubscriptionError{Collection: key, Err: err})
		}
		return func() {}
	}

	sub := newSingletonSub(collection, id, onChange, onError)
	a.reg.add(sub)
	a.refreshAsync(collection, sub)

	return a.reg.unsubscriber(sub)
}

// Write implements Adapter.
func (a *PostgresAdapter) Write(ctx context.Context, collection, id string, data json.RawMessage) error {
	if _, err := a.pool.Exec(ctx, upsertDocumentQuery, collection, id, []byte(data)); err != nil {
		a.logger.Error().Err(err).Str("collection", collection).Str("id", id).Msg("failed to write document")
		return &model.PersistenceError{Op: "write", Collection: collection, ID: id, Err: err}
	}
	return nil
}

// Remove implements Adapter.
func (a *PostgresAdapter) Remove(ctx context.Context, collection, id string) error {
	if _, err := a.pool.Exec(ctx, deleteDocumentQuery, collection, id); err != nil {
		a.logger.Error().Err(err).Str("collection", collection).Str("id", id).Msg("failed to remove document")
		return &model.PersistenceError{Op: "remove", Collection: collection, ID: id, Err: err}
	}
	return nil
}

// WriteSingleton implements Adapter.
func (a *PostgresAdapter) WriteSingleton(ctx context.Context, key string, data json.RawMessage) error {
	collection, id, err := ParseKey(key)
	if err != nil {
		return &model.PersistenceError{Op: "write", Collection: key, Err: err}
	}
	return a.Write(ctx, collection, id, data)
}

// listen takes a connection out of the pool for the lifetime of the listener.
func (a *PostgresAdapter) listen(ctx context.Context) (*pgx.Conn, error) {
	pooled, err := a.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire listener connection: %w", err)
	}
	conn := pooled.Hijack()

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{database.ChangeChannel}.Sanitize()); err != nil {
		_ = conn.Close(context.Background())
		return nil, fmt.Errorf("failed to listen on %s: %w", database.ChangeChannel, err)
	}
	return conn, nil
}

func (a *PostgresAdapter) listenLoop(conn *pgx.Conn) {
	defer a.wg.Done()
	defer func() {
		if conn != nil {
			_ = conn.Close(context.Background())
		}
	}()

	for {
		n, err := conn.WaitForNotification(a.ctx)
		if err == nil {
			a.refreshAsync(n.Payload, nil)
			continue
		}

		if a.ctx.Err() != nil {
			return
		}

		a.logger.Error().Err(err).Msg("change listener lost")
		_ = conn.Close(context.Background())
		conn = nil

		for _, sub := range a.reg.all() {
			sub.fail(err)
		}

		conn, err = a.reconnect()
		if err != nil {
			return
		}

		a.logger.Info().Msg("change listener reconnected")
		for _, collection := range a.reg.collections() {
			a.refreshAsync(collection, nil)
		}
	}
}

func (a *PostgresAdapter) reconnect() (*pgx.Conn, error) {
	var conn *pgx.Conn

	operation := func() error {
		c, err := a.listen(a.ctx)
		if err != nil {
			return err
		}
		conn = c
		return nil
	}

	notify := func(err error, next time.Duration) {
		a.logger.Warn().Err(err).Dur("retry_in", next).Msg("change listener reconnect failed")
	}

	if err := backoff.RetryNotify(operation, backoff.WithContext(a.newBackOff(), a.ctx), notify); err != nil {
		return nil, err
	}
	return conn, nil
}

func (a *PostgresAdapter) refreshAsync(collection string, only *subscription) {
	a.lifeMu.Lock()
	defer a.lifeMu.Unlock()
	if a.closed {
		return
	}

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.refresh(collection, only)
	}()
}

// refresh loads a collection and delivers it. Fetches of one collection are
// serialised so a later delivery never carries older content.
func (a *PostgresAdapter) refresh(collection string, only *subscription) {
	lock := a.fetchLock(collection)
	lock.Lock()
	defer lock.Unlock()

	subs := []*subscription{only}
	if only == nil {
		subs = a.reg.forCollection(collection)
		if len(subs) == 0 {
			return
		}
	}

	docs, err := a.fetch(a.ctx, collection)
	if err != nil {
		if errors.Is(err, context.Canceled) && a.ctx.Err() != nil {
			return
		}
		a.logger.Error().Err(err).Str("collection", collection).Msg("failed to load collection")
		for _, sub := range subs {
			sub.fail(err)
		}
		return
	}

	for _, sub := range subs {
		sub.deliver(docs)
	}
}

func (a *PostgresAdapter) fetch(ctx context.Context, collection string) ([]Document, error) {
	rows, err := a.pool.Query(ctx, selectCollectionQuery, collection)
	if err != nil {
		return nil, fmt.Errorf("failed to query collection %s: %w", collection, err)
	}
	defer rows.Close()

	docs := make([]Document, 0)
	for rows.Next() {
		var (
			id   string
			data []byte
		)
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, Document{ID: id, Data: json.RawMessage(data)})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating documents: %w", err)
	}

	return docs, nil
}

func (a *PostgresAdapter) fetchLock(collection string) *sync.Mutex {
	a.fetchMu.Lock()
	defer a.fetchMu.Unlock()

	lock, ok := a.fetchLocks[collection]
	if !ok {
		lock = &sync.Mutex{}
		a.fetchLocks[collection] = lock
	}
	return lock
}

var _ Adapter = (*PostgresAdapter)(nil)
