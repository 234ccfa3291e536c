package service

import (
	"context"

	"cafe-site/internal/model"
	"cafe-site/internal/store"
)

// Store is the part of the synchronized store the services work on.
type Store interface {
	Snapshot() store.Snapshot

	AddMenuItem(item model.MenuItem)
	UpdateMenuItem(item model.MenuItem)
	DeleteMenuItem(id string)

	AddCategory(cat model.Category)
	UpdateCategory(cat model.Category)
	DeleteCategory(id string)

	AddReservation(r model.Reservation)
	UpdateReservation(r model.Reservation)
	DeleteReservation(id string)

	UpdateProfile(p model.BusinessProfile)
}

// MenuFilter narrows a menu listing. Zero values match everything.
type MenuFilter struct {
	Category    string
	PopularOnly bool
}

// MenuService defines operations on menu items.
type MenuService interface {
	// List returns menu items matching filter, in menu order.
	List(ctx context.Context, filter MenuFilter) []model.MenuItem

	// Create validates req and adds a new item with a generated ID.
	Create(ctx context.Context, req *model.MenuItemRequest) (*model.MenuItem, error)

	// Update replaces an existing item.
	Update(ctx context.Context, id string, req *model.MenuItemRequest) (*model.MenuItem, error)

	// Delete removes an item.
	Delete(ctx context.Context, id string) error
}

// CategoryService defines operations on menu categories.
type CategoryService interface {
	List(ctx context.Context) []model.Category
	Create(ctx context.Context, req *model.CategoryRequest) (*model.Category, error)
	Update(ctx context.Context, id string, req *model.CategoryRequest) (*model.Category, error)
	Delete(ctx context.Context, id string) error
}

// ReservationService defines operations on table reservations.
type ReservationService interface {
	// Submit validates a public reservation request and records it as pending.
	Submit(ctx context.Context, req *model.ReservationRequest) (*model.Reservation, error)

	// List returns reservations newest first, optionally only those with status.
	List(ctx context.Context, status model.ReservationStatus) ([]model.Reservation, error)

	// Stats counts reservations per status.
	Stats(ctx context.Context) model.ReservationStats

	// SetStatus moves a reservation to status. Any transition is allowed.
	SetStatus(ctx context.Context, id string, status model.ReservationStatus) (*model.Reservation, error)

	// Delete removes a reservation.
	Delete(ctx context.Context, id string) error
}

// SiteService exposes the business profile and whole-site views.
type SiteService interface {
	// Public returns everything the public site shows.
	Public(ctx context.Context) model.Site

	// Admin returns the full store snapshot, reservations and sync state included.
	Admin(ctx context.Context) store.Snapshot

	// Profile returns the business profile.
	Profile(ctx context.Context) model.BusinessProfile

	// UpdateProfile replaces the business profile. Features without an ID get one.
	UpdateProfile(ctx context.Context, p *model.BusinessProfile) (*model.BusinessProfile, error)
}
