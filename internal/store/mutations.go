package store

import (
	"context"
	"slices"

	"cafe-site/internal/docstore"
	"cafe-site/internal/model"
)

// AddMenuItem appends item and persists it. The caller assigns item.ID.
func (s *Store) AddMenuItem(item model.MenuItem) {
	s.update(func(next *Snapshot) bool {
		next.MenuItems = append(slices.Clone(next.MenuItems), item)
		return true
	})
	s.write(MenuItemsCollection, item.ID, item)
}

// UpdateMenuItem replaces the item with the same id. An unknown id leaves the
// local menu untouched but is still written remotely.
func (s *Store) UpdateMenuItem(item model.MenuItem) {
	s.update(func(next *Snapshot) bool {
		var found bool
		next.MenuItems, found = replaceByID(next.MenuItems, item, menuItemID)
		return found
	})
	s.write(MenuItemsCollection, item.ID, item)
}

// DeleteMenuItem removes the item with id.
func (s *Store) DeleteMenuItem(id string) {
	s.update(func(next *Snapshot) bool {
		var found bool
		next.MenuItems, found = removeByID(next.MenuItems, id, menuItemID)
		return found
	})
	s.remove(MenuItemsCollection, id)
}

// AddCategory appends cat and persists it.
func (s *Store) AddCategory(cat model.Category) {
	s.update(func(next *Snapshot) bool {
		next.Categories = append(slices.Clone(next.Categories), cat)
		return true
	})
	s.write(CategoriesCollection, cat.ID, cat)
}

// UpdateCategory replaces the category with the same id.
func (s *Store) UpdateCategory(cat model.Category) {
	s.update(func(next *Snapshot) bool {
		var found bool
		next.Categories, found = replaceByID(next.Categories, cat, categoryID)
		return found
	})
	s.write(CategoriesCollection, cat.ID, cat)
}

// DeleteCategory removes the category with id. Menu items referring to it are
// left as they are.
func (s *Store) DeleteCategory(id string) {
	s.update(func(next *Snapshot) bool {
		var found bool
		next.Categories, found = removeByID(next.Categories, id, categoryID)
		return found
	})
	s.remove(CategoriesCollection, id)
}

// AddReservation inserts r keeping newest-first order and persists it.
func (s *Store) AddReservation(r model.Reservation) {
	s.update(func(next *Snapshot) bool {
		list := make([]model.Reservation, 0, len(next.Reservations)+1)
		list = append(list, r)
		list = append(list, next.Reservations...)
		sortReservations(list)
		next.Reservations = list
		return true
	})
	s.write(ReservationsCollection, r.ID, r)
}

// UpdateReservation replaces the reservation with the same id.
func (s *Store) UpdateReservation(r model.Reservation) {
	s.update(func(next *Snapshot) bool {
		list, found := replaceByID(next.Reservations, r, reservationID)
		if !found {
			return false
		}
		sortReservations(list)
		next.Reservations = list
		return true
	})
	s.write(ReservationsCollection, r.ID, r)
}

// DeleteReservation removes the reservation with id.
func (s *Store) DeleteReservation(id string) {
	s.update(func(next *Snapshot) bool {
		var found bool
		next.Reservations, found = removeByID(next.Reservations, id, reservationID)
		return found
	})
	s.remove(ReservationsCollection, id)
}

// UpdateProfile replaces the whole profile and persists it.
func (s *Store) UpdateProfile(p model.BusinessProfile) {
	p = p.Clone()
	s.update(func(next *Snapshot) bool {
		next.Profile = p
		return true
	})

	s.persist("write", ProfileKey, "", func(ctx context.Context) error {
		data, err := docstore.Encode(p)
		if err != nil {
			return err
		}
		return s.adapter.WriteSingleton(ctx, ProfileKey, data)
	})
}

func (s *Store) write(collection, id string, v any) {
	s.persist("write", collection, id, func(ctx context.Context) error {
		data, err := docstore.Encode(v)
		if err != nil {
			return err
		}
		return s.adapter.Write(ctx, collection, id, data)
	})
}

func (s *Store) remove(collection, id string) {
	s.persist("remove", collection, id, func(ctx context.Context) error {
		return s.adapter.Remove(ctx, collection, id)
	})
}
