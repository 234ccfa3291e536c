// Package notify tells the café staff about new reservation requests.
package notify

import (
	"context"
	"fmt"
	"strings"

	"cafe-site/internal/model"
	"cafe-site/internal/store"

	"github.com/rs/zerolog"
)

const queueSize = 64

// Sender delivers a plain-text notification.
type Sender interface {
	Send(ctx context.Context, text string) error
}

// ReservationNotifier watches store snapshots and sends one message per newly
// seen pending reservation. Reservations present when the collection first
// syncs are considered known and never announced, except those submitted
// through this instance before the sync completed.
//
// Each instance keeps its own seen set, so exactly one API instance should
// run with notifications enabled.
type ReservationNotifier struct {
	sender Sender
	logger zerolog.Logger

	// baseline holds the fallback reservations, taken from the first unsynced
	// snapshot; early holds pending ids that appeared on top of it.
	baseline map[string]struct{}
	early    map[string]struct{}

	primed bool
	seen   map[string]struct{}
	queue  chan model.Reservation
}

// NewReservationNotifier creates a notifier. The store's current snapshot
// should be passed to Observe before the store starts, then Observe
// registered as a store listener and Run started for messages to go out.
func NewReservationNotifier(sender Sender, logger zerolog.Logger) *ReservationNotifier {
	return &ReservationNotifier{
		sender: sender,
		logger: logger.With().Str("component", "notify").Logger(),
		early:  make(map[string]struct{}),
		seen:   make(map[string]struct{}),
		queue:  make(chan model.Reservation, queueSize),
	}
}

// Observe is a store listener. Store listeners are called one at a time, so
// the notifier state needs no lock. It never blocks.
func (n *ReservationNotifier) Observe(snap store.Snapshot) {
	if snap.Sync.Reservations != store.Synced {
		n.observeUnsynced(snap.Reservations)
		return
	}

	if !n.primed {
		n.prime(snap.Reservations)
		return
	}

	// Oldest first, so messages arrive in submission order.
	for i := len(snap.Reservations) - 1; i >= 0; i-- {
		r := snap.Reservations[i]
		if _, ok := n.seen[r.ID]; ok {
			continue
		}
		n.seen[r.ID] = struct{}{}
		if r.Status == model.StatusPending {
			n.enqueue(r)
		}
	}
}

// observeUnsynced records submissions made before the remote load arrives.
func (n *ReservationNotifier) observeUnsynced(list []model.Reservation) {
	if n.baseline == nil {
		n.baseline = make(map[string]struct{}, len(list))
		for _, r := range list {
			n.baseline[r.ID] = struct{}{}
		}
		return
	}

	for _, r := range list {
		if _, ok := n.baseline[r.ID]; ok {
			continue
		}
		if r.Status == model.StatusPending {
			n.early[r.ID] = struct{}{}
		}
	}
}

func (n *ReservationNotifier) prime(list []model.Reservation) {
	for i := len(list) - 1; i >= 0; i-- {
		r := list[i]
		n.seen[r.ID] = struct{}{}
		if _, ok := n.early[r.ID]; ok && r.Status == model.StatusPending {
			n.enqueue(r)
		}
	}

	// Early submissions not yet in the remote load stay unseen and are
	// announced when they arrive.
	n.early = nil
	n.primed = true
	n.logger.Debug().Int("known", len(n.seen)).Msg("reservation notifier primed")
}

func (n *ReservationNotifier) enqueue(r model.Reservation) {
	select {
	case n.queue <- r:
	default:
		n.logger.Warn().Str("reservation_id", r.ID).Msg("notification queue full, dropping")
	}
}

// Run sends queued notifications until ctx is cancelled.
func (n *ReservationNotifier) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case r := <-n.queue:
			if err := n.sender.Send(ctx, FormatReservation(r)); err != nil {
				n.logger.Error().Err(err).Str("reservation_id", r.ID).Msg("failed to send reservation notification")
				continue
			}
			n.logger.Info().Str("reservation_id", r.ID).Msg("reservation notification sent")
		}
	}
}

// FormatReservation renders the staff message for a reservation.
func FormatReservation(r model.Reservation) string {
	var b strings.Builder
	b.WriteString("Nueva reserva\n")
	fmt.Fprintf(&b, "Nombre: %s\n", r.Name)
	fmt.Fprintf(&b, "Teléfono: %s\n", r.Phone)
	if r.Email != "" {
		fmt.Fprintf(&b, "Email: %s\n", r.Email)
	}
	fmt.Fprintf(&b, "Fecha: %s %s\n", r.Date, r.Time)
	fmt.Fprintf(&b, "Personas: %d", r.Guests)
	if r.Notes != "" {
		fmt.Fprintf(&b, "\nNotas: %s", r.Notes)
	}
	return b.String()
}
