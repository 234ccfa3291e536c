package store

import (
	"slices"

	"cafe-site/internal/model"
)

// Names of the remote collections and the profile document.
const (
	MenuItemsCollection    = "menuItems"
	CategoriesCollection   = "categories"
	ReservationsCollection = "reservations"
	ProfileKey             = "config/business"
)

// SyncState tells whether a collection still shows fallback content.
type SyncState int

const (
	// Uninitialized means no remote snapshot has arrived yet.
	Uninitialized SyncState = iota
	// Synced means at least one remote snapshot has been applied.
	Synced
)

func (s SyncState) String() string {
	if s == Synced {
		return "synced"
	}
	return "uninitialized"
}

// MarshalText renders the state as its name.
func (s SyncState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// SyncStatus holds the state of every collection.
type SyncStatus struct {
	MenuItems    SyncState `json:"menuItems"`
	Categories   SyncState `json:"categories"`
	Reservations SyncState `json:"reservations"`
	Profile      SyncState `json:"profile"`
}

// Synced reports whether every collection has received a remote snapshot.
func (s SyncStatus) Synced() bool {
	return s.MenuItems == Synced && s.Categories == Synced && s.Reservations == Synced && s.Profile == Synced
}

// Snapshot is an immutable view of the store. Slices are shared between
// snapshots and must not be modified.
type Snapshot struct {
	Version      uint64                `json:"version"`
	MenuItems    []model.MenuItem      `json:"menuItems"`
	Categories   []model.Category      `json:"categories"`
	Reservations []model.Reservation   `json:"reservations"`
	Profile      model.BusinessProfile `json:"profile"`
	Sync         SyncStatus            `json:"sync"`
}

// MenuItem looks up a menu item by id.
func (s Snapshot) MenuItem(id string) (model.MenuItem, bool) {
	i := slices.IndexFunc(s.MenuItems, func(m model.MenuItem) bool { return m.ID == id })
	if i < 0 {
		return model.MenuItem{}, false
	}
	return s.MenuItems[i], true
}

// Category looks up a category by id.
func (s Snapshot) Category(id string) (model.Category, bool) {
	i := slices.IndexFunc(s.Categories, func(c model.Category) bool { return c.ID == id })
	if i < 0 {
		return model.Category{}, false
	}
	return s.Categories[i], true
}

// Reservation looks up a reservation by id.
func (s Snapshot) Reservation(id string) (model.Reservation, bool) {
	i := slices.IndexFunc(s.Reservations, func(r model.Reservation) bool { return r.ID == id })
	if i < 0 {
		return model.Reservation{}, false
	}
	return s.Reservations[i], true
}

// sortReservations orders newest first. Equal timestamps keep their order.
func sortReservations(list []model.Reservation) {
	slices.SortStableFunc(list, func(a, b model.Reservation) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
}

// replaceByID returns a copy of list with the element whose id matches
// replaced by v. found is false when no element matches; list is then
// returned unchanged.
func replaceByID[T any](list []T, v T, id func(T) string) (out []T, found bool) {
	i := slices.IndexFunc(list, func(x T) bool { return id(x) == id(v) })
	if i < 0 {
		return list, false
	}
	out = slices.Clone(list)
	out[i] = v
	return out, true
}

// removeByID returns a copy of list without the elements matching target.
func removeByID[T any](list []T, target string, id func(T) string) (out []T, found bool) {
	if !slices.ContainsFunc(list, func(x T) bool { return id(x) == target }) {
		return list, false
	}
	out = make([]T, 0, len(list)-1)
	for _, x := range list {
		if id(x) != target {
			out = append(out, x)
		}
	}
	return out, true
}

func menuItemID(m model.MenuItem) string { return m.ID }
func categoryID(c model.Category) string { return c.ID }
func reservationID(r model.Reservation) string { return r.ID }
