package service

import (
	"context"
	"strings"

	"cafe-site/internal/model"

	"github.com/rs/zerolog"
)

// menuService implements MenuService.
type menuService struct {
	store  Store
	newID  idFunc
	logger zerolog.Logger
}

// NewMenuService creates a new menu service.
func NewMenuService(st Store, logger zerolog.Logger) MenuService {
	return &menuService{
		store:  st,
		newID:  NewID,
		logger: logger.With().Str("service", "menu").Logger(),
	}
}

// List returns menu items matching filter.
func (s *menuService) List(ctx context.Context, filter MenuFilter) []model.MenuItem {
	items := s.store.Snapshot().MenuItems

	out := make([]model.MenuItem, 0, len(items))
	for _, item := range items {
		if filter.Category != "" && item.Category != filter.Category {
			continue
		}
		if filter.PopularOnly && !item.Popular {
			continue
		}
		out = append(out, item)
	}
	return out
}

// Create adds a new menu item.
func (s *menuService) Create(ctx context.Context, req *model.MenuItemRequest) (*model.MenuItem, error) {
	if err := validateMenuItemRequest(req); err != nil {
		return nil, err
	}

	item := menuItemFromRequest(s.newID("item"), req)
	s.store.AddMenuItem(item)

	s.logger.Info().
		Str("item_id", item.ID).
		Str("category", item.Category).
		Msg("menu item created")

	return &item, nil
}

// Update replaces an existing menu item.
func (s *menuService) Update(ctx context.Context, id string, req *model.MenuItemRequest) (*model.MenuItem, error) {
	if _, ok := s.store.Snapshot().MenuItem(id); !ok {
		s.logger.Debug().Str("item_id", id).Msg("menu item not found")
		return nil, model.ErrMenuItemNotFound
	}

	if err := validateMenuItemRequest(req); err != nil {
		return nil, err
	}

	item := menuItemFromRequest(id, req)
	s.store.UpdateMenuItem(item)

	s.logger.Info().Str("item_id", id).Msg("menu item updated")

	return &item, nil
}

// Delete removes a menu item.
func (s *menuService) Delete(ctx context.Context, id string) error {
	if _, ok := s.store.Snapshot().MenuItem(id); !ok {
		s.logger.Debug().Str("item_id", id).Msg("menu item not found")
		return model.ErrMenuItemNotFound
	}

	s.store.DeleteMenuItem(id)
	s.logger.Info().Str("item_id", id).Msg("menu item deleted")

	return nil
}

func validateMenuItemRequest(req *model.MenuItemRequest) error {
	if req == nil {
		return model.NewDomainError(model.ErrCodeInvalidJSON, "Request body is required")
	}
	if strings.TrimSpace(req.Name) == "" {
		return model.NewValidationError("name", "is required")
	}
	if strings.TrimSpace(req.Category) == "" {
		return model.NewValidationError("category", "is required")
	}
	if req.Price < 0 {
		return model.ErrInvalidPrice
	}
	return nil
}

func menuItemFromRequest(id string, req *model.MenuItemRequest) model.MenuItem {
	return model.MenuItem{
		ID:          id,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Image:       req.Image,
		Popular:     req.Popular,
	}
}
