package handler

import (
	"context"

	"cafe-site/internal/model"
	"cafe-site/internal/service"
	"cafe-site/internal/store"

	"github.com/stretchr/testify/mock"
)

// MockMenuService is a mock implementation of MenuService.
type MockMenuService struct {
	mock.Mock
}

func (m *MockMenuService) List(ctx context.Context, filter service.MenuFilter) []model.MenuItem {
	args := m.Called(ctx, filter)
	return args.Get(0).([]model.MenuItem)
}

func (m *MockMenuService) Create(ctx context.Context, req *model.MenuItemRequest) (*model.MenuItem, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MenuItem), args.Error(1)
}

func (m *MockMenuService) Update(ctx context.Context, id string, req *model.MenuItemRequest) (*model.MenuItem, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MenuItem), args.Error(1)
}

func (m *MockMenuService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockCategoryService is a mock implementation of CategoryService.
type MockCategoryService struct {
	mock.Mock
}

func (m *MockCategoryService) List(ctx context.Context) []model.Category {
	args := m.Called(ctx)
	return args.Get(0).([]model.Category)
}

func (m *MockCategoryService) Create(ctx context.Context, req *model.CategoryRequest) (*model.Category, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Category), args.Error(1)
}

func (m *MockCategoryService) Update(ctx context.Context, id string, req *model.CategoryRequest) (*model.Category, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Category), args.Error(1)
}

func (m *MockCategoryService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockReservationService is a mock implementation of ReservationService.
type MockReservationService struct {
	mock.Mock
}

func (m *MockReservationService) Submit(ctx context.Context, req *model.ReservationRequest) (*model.Reservation, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Reservation), args.Error(1)
}

func (m *MockReservationService) List(ctx context.Context, status model.ReservationStatus) ([]model.Reservation, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Reservation), args.Error(1)
}

func (m *MockReservationService) Stats(ctx context.Context) model.ReservationStats {
	args := m.Called(ctx)
	return args.Get(0).(model.ReservationStats)
}

func (m *MockReservationService) SetStatus(ctx context.Context, id string, status model.ReservationStatus) (*model.Reservation, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Reservation), args.Error(1)
}

func (m *MockReservationService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockSiteService is a mock implementation of SiteService.
type MockSiteService struct {
	mock.Mock
}

func (m *MockSiteService) Public(ctx context.Context) model.Site {
	args := m.Called(ctx)
	return args.Get(0).(model.Site)
}

func (m *MockSiteService) Admin(ctx context.Context) store.Snapshot {
	args := m.Called(ctx)
	return args.Get(0).(store.Snapshot)
}

func (m *MockSiteService) Profile(ctx context.Context) model.BusinessProfile {
	args := m.Called(ctx)
	return args.Get(0).(model.BusinessProfile)
}

func (m *MockSiteService) UpdateProfile(ctx context.Context, p *model.BusinessProfile) (*model.BusinessProfile, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BusinessProfile), args.Error(1)
}
