package service

import (
	"cafe-site/internal/model"
	"cafe-site/internal/store"

	"github.com/stretchr/testify/mock"
)

// MockStore is a mock implementation of Store.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Snapshot() store.Snapshot {
	args := m.Called()
	return args.Get(0).(store.Snapshot)
}

func (m *MockStore) AddMenuItem(item model.MenuItem) { m.Called(item) }
func (m *MockStore) UpdateMenuItem(item model.MenuItem) { m.Called(item) }
func (m *MockStore) DeleteMenuItem(id string) { m.Called(id) }
func (m *MockStore) AddCategory(cat model.Category) { m.Called(cat) }
func (m *MockStore) UpdateCategory(cat model.Category) { m.Called(cat) }
func (m *MockStore) DeleteCategory(id string) { m.Called(id) }
func (m *MockStore) AddReservation(r model.Reservation) { m.Called(r) }
func (m *MockStore) UpdateReservation(r model.Reservation) { m.Called(r) }
func (m *MockStore) DeleteReservation(id string) { m.Called(id) }
func (m *MockStore) UpdateProfile(p model.BusinessProfile) { m.Called(p) }

func fixedID(id string) idFunc {
	return func(prefix string) string { return prefix + "-" + id }
}

func testSnapshot() store.Snapshot {
	return store.Snapshot{
		Version: 7,
		MenuItems: []model.MenuItem{
			{ID: "latte", Name: "Latte", Price: 65, Category: "cafe", Popular: true},
			{ID: "chai", Name: "Chai", Price: 60, Category: "te"},
			{ID: "espresso", Name: "Espresso", Price: 45, Category: "cafe"},
		},
		Categories: []model.Category{
			{ID: "cafe", Name: "Café"},
			{ID: "te", Name: "Té"},
		},
		Reservations: []model.Reservation{
			{ID: "res-3", Name: "C", Status: model.StatusPending},
			{ID: "res-2", Name: "B", Status: model.StatusConfirmed},
			{ID: "res-1", Name: "A", Status: model.StatusPending},
		},
		Profile: model.BusinessProfile{Name: "KAIRO"},
	}
}
