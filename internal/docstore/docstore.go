// Package docstore bridges the content store and a push-capable document database.
//
// Every driver offers the same contract: subscriptions receive the full current
// content of a collection (or a single document) each time anything in it
// changes, and writes are plain upserts and deletes keyed by document id.
// Identifiers travel as document keys; Encode and Decode splice them out of and
// into entity JSON.
package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Document is one stored record: its key and its JSON body without the key.
type Document struct {
	ID   string
	Data json.RawMessage
}

// SnapshotFunc receives the full content of a collection. An empty collection
// is delivered as an empty slice.
type SnapshotFunc func(docs []Document)

// DocumentFunc receives a single document, or nil when it does not exist.
type DocumentFunc func(doc *Document)

// ErrorFunc receives listener failures, always as *model.SubscriptionError.
type ErrorFunc func(err error)

// Unsubscribe stops a subscription. It is idempotent, and once it returns no
// callback of that subscription is running or will run. It must not be called
// from inside the subscription's own callbacks.
type Unsubscribe func()

// Adapter is a remote document store with live listeners.
type Adapter interface {
	// Subscribe registers a live listener for a whole collection.
	Subscribe(collection string, onChange SnapshotFunc, onError ErrorFunc) Unsubscribe

	// SubscribeSingleton registers a live listener for the document addressed by
	// key ("collection/id").
	SubscribeSingleton(key string, onChange DocumentFunc, onError ErrorFunc) Unsubscribe

	// Write upserts a document. Failures are *model.PersistenceError.
	Write(ctx context.Context, collection, id string, data json.RawMessage) error

	// Remove deletes a document. Removing a missing document is not an error.
	Remove(ctx context.Context, collection, id string) error

	// WriteSingleton upserts the document addressed by key.
	WriteSingleton(ctx context.Context, key string, data json.RawMessage) error
}

// ParseKey splits a singleton key such as "config/business".
func ParseKey(key string) (collection, id string, err error) {
	collection, id, ok := strings.Cut(key, "/")
	if !ok || !validName(collection) || !validName(id) {
		return "", "", fmt.Errorf("invalid document key %q: want collection/id", key)
	}
	return collection, id, nil
}

// validName rejects names that cannot double as file names or contain separators.
func validName(name string) bool {
	if name == "" || name == "." || name == ".." || strings.HasPrefix(name, ".") {
		return false
	}
	return !strings.ContainsAny(name, `/\`)
}
