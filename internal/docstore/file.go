package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"cafe-site/internal/model"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// FileAdapter stores each collection as <dir>/<collection>.json, a JSON object
// keyed by document id. An fsnotify watcher pushes a fresh snapshot whenever a
// collection file changes, whether the change came from this process or from
// someone editing the file by hand.
type FileAdapter struct {
	dir     string
	watcher *fsnotify.Watcher
	logger  zerolog.Logger

	// mu guards read-modify-write of collection files.
	mu sync.Mutex
	// feedMu orders loads with their delivery.
	feedMu sync.Mutex
	reg    *registry

	done    chan struct{}
	wg      sync.WaitGroup
	closeMu sync.Mutex
	closed  bool
}

// NewFileAdapter creates the data directory if needed and starts watching it.
func NewFileAdapter(dir string, logger zerolog.Logger) (*FileAdapter, error) {
	logger = logger.With().Str("component", "file-adapter").Logger()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory %s: %w", dir, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch data directory %s: %w", dir, err)
	}

	a := &FileAdapter{
		dir:     dir,
		watcher: watcher,
		logger:  logger,
		reg:     newRegistry(),
		done:    make(chan struct{}),
	}

	a.wg.Add(1)
	go a.processEvents()

	logger.Info().Str("dir", dir).Msg("file adapter watching data directory")

	return a, nil
}

// Close stops the watcher. Subscriptions receive nothing afterwards.
func (a *FileAdapter) Close() error {
	a.closeMu.Lock()
	if a.closed {
		a.closeMu.Unlock()
		return nil
	}
	a.closed = true
	a.closeMu.Unlock()

	close(a.done)
	err := a.watcher.Close()
	a.wg.Wait()

	if err != nil {
		return fmt.Errorf("failed to close watcher: %w", err)
	}
	return nil
}

// Subscribe implements Adapter. The current snapshot is delivered before it returns.
func (a *FileAdapter) Subscribe(collection string, onChange SnapshotFunc, onError ErrorFunc) Unsubscribe {
	if !validName(collection) {
		if onError != nil {
			onError(&model.SubscriptionError{Collection: collection, Err: fmt.Errorf("invalid collection name")})
		}
		return func() {}
	}

	sub := newCollectionSub(collection, onChange, onError)
	a.reg.add(sub)
	a.refresh(collection, sub)

	return a.reg.unsubscriber(sub)
}

// SubscribeSingleton implements Adapter.
func (a *FileAdapter) SubscribeSingleton(key string, onChange DocumentFunc, onError ErrorFunc) Unsubscribe {
	collection, id, err := ParseKey(key)
	if err != nil {
		if onError != nil {
			onError(&model.SubscriptionError{Collection: key, Err: err})
		}
		return func() {}
	}

	sub := newSingletonSub(collection, id, onChange, onError)
	a.reg.add(sub)
	a.refresh(collection, sub)

	return a.reg.unsubscriber(sub)
}

// Write implements Adapter.
func (a *FileAdapter) Write(ctx context.Context, collection, id string, data json.RawMessage) error {
	return a.update(ctx, "write", collection, id, func(docs map[string]json.RawMessage) {
		docs[id] = data
	})
}

// Remove implements Adapter.
func (a *FileAdapter) Remove(ctx context.Context, collection, id string) error {
	return a.update(ctx, "remove", collection, id, func(docs map[string]json.RawMessage) {
		delete(docs, id)
	})
}

// WriteSingleton implements Adapter.
func (a *FileAdapter) WriteSingleton(ctx context.Context, key string, data json.RawMessage) error {
	collection, id, err := ParseKey(key)
	if err != nil {
		return &model.PersistenceError{Op: "write", Collection: key, Err: err}
	}
	return a.Write(ctx, collection, id, data)
}

func (a *FileAdapter) update(ctx context.Context, op, collection, id string, apply func(map[string]json.RawMessage)) error {
	fail := func(err error) error {
		a.logger.Error().Err(err).Str("op", op).Str("collection", collection).Str("id", id).Msg("file write failed")
		return &model.PersistenceError{Op: op, Collection: collection, ID: id, Err: err}
	}

	if err := ctx.Err(); err != nil {
		return fail(err)
	}
	if !validName(collection) || id == "" {
		return fail(fmt.Errorf("invalid collection or id"))
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	docs, err := a.readFile(collection)
	if err != nil {
		return fail(err)
	}

	apply(docs)

	if err := a.writeFile(collection, docs); err != nil {
		return fail(err)
	}
	return nil
}

// processEvents turns file system events into snapshot deliveries.
func (a *FileAdapter) processEvents() {
	defer a.wg.Done()

	for {
		select {
		case <-a.done:
			return

		case event, ok := <-a.watcher.Events:
			if !ok {
				return
			}

			collection, ok := a.collectionOf(event.Name)
			if !ok {
				continue
			}
			if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			a.refresh(collection, nil)

		case err, ok := <-a.watcher.Errors:
			if !ok {
				return
			}

			a.logger.Error().Err(err).Msg("file watcher error")
			for _, sub := range a.reg.all() {
				sub.fail(err)
			}
		}
	}
}

// refresh loads a collection and delivers it to only (when set) or to every
// subscriber of the collection.
func (a *FileAdapter) refresh(collection string, only *subscription) {
	a.feedMu.Lock()
	defer a.feedMu.Unlock()

	subs := []*subscription{only}
	if only == nil {
		subs = a.reg.forCollection(collection)
		if len(subs) == 0 {
			return
		}
	}

	a.mu.Lock()
	raw, err := a.readFile(collection)
	a.mu.Unlock()

	if err != nil {
		a.logger.Warn().Err(err).Str("collection", collection).Msg("failed to load collection file")
		for _, sub := range subs {
			sub.fail(err)
		}
		return
	}

	docs := make([]Document, 0, len(raw))
	for id, data := range raw {
		docs = append(docs, Document{ID: id, Data: data})
	}
	slices.SortFunc(docs, func(x, y Document) int { return strings.Compare(x.ID, y.ID) })

	for _, sub := range subs {
		sub.deliver(docs)
	}
}

func (a *FileAdapter) collectionOf(path string) (string, bool) {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") || !strings.HasSuffix(base, ".json") {
		return "", false
	}
	if filepath.Dir(path) != filepath.Clean(a.dir) {
		return "", false
	}
	return strings.TrimSuffix(base, ".json"), true
}

func (a *FileAdapter) path(collection string) string {
	return filepath.Join(a.dir, collection+".json")
}

// readFile returns the documents of a collection; a missing file is an empty collection.
func (a *FileAdapter) readFile(collection string) (map[string]json.RawMessage, error) {
	docs := make(map[string]json.RawMessage)

	data, err := os.ReadFile(a.path(collection))
	if errors.Is(err, os.ErrNotExist) {
		return docs, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", collection, err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return docs, nil
	}

	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", collection, err)
	}
	return docs, nil
}

// writeFile replaces a collection file atomically via a hidden temp file.
func (a *FileAdapter) writeFile(collection string, docs map[string]json.RawMessage) error {
	data, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", collection, err)
	}

	tmp, err := os.CreateTemp(a.dir, "."+collection+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), a.path(collection)); err != nil {
		return fmt.Errorf("failed to replace %s: %w", collection, err)
	}
	return nil
}

var _ Adapter = (*FileAdapter)(nil)
