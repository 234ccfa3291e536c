package store

import "sync"

type listener struct {
	mu     sync.Mutex
	active bool
	fn     func(Snapshot)
}

func (l *listener) call(snap Snapshot) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.active {
		l.fn(snap)
	}
}

// Subscribe registers fn to receive every new snapshot. Calls are serialised
// and never go back in version; intermediate versions may be skipped when
// changes race. fn must not call store mutations synchronously. The returned
// function unregisters fn; once it returns fn is not running and will not be
// called again. It must not be called from inside fn.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	l := &listener{active: true, fn: fn}

	s.listenersMu.Lock()
	s.nextID++
	id := s.nextID
	s.listeners[id] = l
	s.listenersMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.listenersMu.Lock()
			delete(s.listeners, id)
			s.listenersMu.Unlock()

			l.mu.Lock()
			l.active = false
			l.mu.Unlock()
		})
	}
}

func (s *Store) notify(snap Snapshot) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	if snap.Version <= s.notified {
		return
	}
	s.notified = snap.Version

	s.listenersMu.Lock()
	ls := make([]*listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		ls = append(ls, l)
	}
	s.listenersMu.Unlock()

	for _, l := range ls {
		l.call(snap)
	}
}
