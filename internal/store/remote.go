package store

import (
	"cafe-site/internal/docstore"
	"cafe-site/internal/fallback"
	"cafe-site/internal/model"
)

// applyMenuItems replaces the menu with a non-empty remote snapshot. An empty
// snapshot never blanks the menu.
func (s *Store) applyMenuItems(docs []docstore.Document) {
	items, errs := docstore.DecodeAll[model.MenuItem](docs)
	s.skipped(MenuItemsCollection, errs)

	s.update(func(next *Snapshot) bool {
		changed := next.Sync.MenuItems != Synced
		next.Sync.MenuItems = Synced
		if len(items) == 0 {
			return changed
		}
		next.MenuItems = items
		return true
	})
}

// applyCategories follows the same rule as applyMenuItems.
func (s *Store) applyCategories(docs []docstore.Document) {
	cats, errs := docstore.DecodeAll[model.Category](docs)
	s.skipped(CategoriesCollection, errs)

	s.update(func(next *Snapshot) bool {
		changed := next.Sync.Categories != Synced
		next.Sync.Categories = Synced
		if len(cats) == 0 {
			return changed
		}
		next.Categories = cats
		return true
	})
}

// applyReservations always takes the remote snapshot, empty or not.
func (s *Store) applyReservations(docs []docstore.Document) {
	list, errs := docstore.DecodeAll[model.Reservation](docs)
	s.skipped(ReservationsCollection, errs)
	sortReservations(list)

	s.update(func(next *Snapshot) bool {
		next.Sync.Reservations = Synced
		next.Reservations = list
		return true
	})
}

// applyProfile fills a stored profile from the fallback profile. A missing
// document leaves the current profile in place.
func (s *Store) applyProfile(doc *docstore.Document) {
	s.update(func(next *Snapshot) bool {
		changed := next.Sync.Profile != Synced
		next.Sync.Profile = Synced
		if doc == nil {
			return changed
		}
		next.Profile = fallback.FillProfile(doc.Data, s.fallback.Profile)
		return true
	})
}

func (s *Store) subscriptionFailed(collection string) docstore.ErrorFunc {
	return func(err error) {
		s.logger.Error().
			Err(err).
			Str("collection", collection).
			Msg("remote subscription failed, keeping last known state")
		s.report(err)
	}
}

func (s *Store) skipped(collection string, errs []error) {
	for _, err := range errs {
		s.logger.Warn().Err(err).Str("collection", collection).Msg("skipping undecodable document")
	}
}
