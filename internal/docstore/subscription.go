package docstore

import (
	"bytes"
	"slices"
	"sync"

	"cafe-site/internal/model"
)

// subscription is one registered listener. mu serialises deliveries and close,
// which is what makes Unsubscribe synchronous.
type subscription struct {
	id         uint64
	collection string
	docID      string // set for singleton subscriptions

	onSnapshot SnapshotFunc
	onDocument DocumentFunc
	onError    ErrorFunc

	mu        sync.Mutex
	closed    bool
	delivered bool
	last      []byte
}

func (s *subscription) deliver(docs []Document) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	if s.docID == "" {
		s.onSnapshot(slices.Clone(docs))
		return
	}

	var doc *Document
	for i := range docs {
		if docs[i].ID == s.docID {
			d := docs[i]
			doc = &d
			break
		}
	}

	// Changes elsewhere in the collection do not concern a singleton listener.
	var body []byte
	if doc != nil {
		body = doc.Data
	}
	if s.delivered && (doc == nil) == (s.last == nil) && bytes.Equal(body, s.last) {
		return
	}
	s.delivered = true
	s.last = nil
	if doc != nil {
		s.last = bytes.Clone(body)
	}

	s.onDocument(doc)
}

func (s *subscription) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.onError == nil {
		return
	}
	s.onError(&model.SubscriptionError{Collection: s.collection, Err: err})
}

func (s *subscription) close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

// registry tracks live subscriptions by collection.
type registry struct {
	mu     sync.Mutex
	nextID uint64
	subs   map[string]map[uint64]*subscription
}

func newRegistry() *registry {
	return &registry{subs: make(map[string]map[uint64]*subscription)}
}

func (r *registry) add(sub *subscription) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	sub.id = r.nextID
	if r.subs[sub.collection] == nil {
		r.subs[sub.collection] = make(map[uint64]*subscription)
	}
	r.subs[sub.collection][sub.id] = sub
}

func (r *registry) remove(sub *subscription) {
	r.mu.Lock()
	if set := r.subs[sub.collection]; set != nil {
		delete(set, sub.id)
		if len(set) == 0 {
			delete(r.subs, sub.collection)
		}
	}
	r.mu.Unlock()

	sub.close()
}

// unsubscriber returns the idempotent Unsubscribe handle for sub.
func (r *registry) unsubscriber(sub *subscription) Unsubscribe {
	var once sync.Once
	return func() {
		once.Do(func() { r.remove(sub) })
	}
}

func (r *registry) forCollection(collection string) []*subscription {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*subscription, 0, len(r.subs[collection]))
	for _, sub := range r.subs[collection] {
		out = append(out, sub)
	}
	return out
}

func (r *registry) collections() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, 0, len(r.subs))
	for c := range r.subs {
		out = append(out, c)
	}
	slices.Sort(out)
	return out
}

func (r *registry) all() []*subscription {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*subscription
	for _, set := range r.subs {
		for _, sub := range set {
			out = append(out, sub)
		}
	}
	return out
}

func (r *registry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, set := range r.subs {
		n += len(set)
	}
	return n
}

// newCollectionSub and newSingletonSub build subscriptions; singleton keys must
// already be validated.
func newCollectionSub(collection string, onChange SnapshotFunc, onError ErrorFunc) *subscription {
	return &subscription{collection: collection, onSnapshot: onChange, onError: onError}
}

func newSingletonSub(collection, id string, onChange DocumentFunc, onError ErrorFunc) *subscription {
	return &subscription{collection: collection, docID: id, onDocument: onChange, onError: onError}
}
