package service

import (
	"context"
	"strings"

	"cafe-site/internal/model"

	"github.com/rs/zerolog"
)

// categoryService implements CategoryService.
type categoryService struct {
	store  Store
	newID  idFunc
	logger zerolog.Logger
}

// NewCategoryService creates a new category service.
func NewCategoryService(st Store, logger zerolog.Logger) CategoryService {
	return &categoryService{
		store:  st,
		newID:  NewID,
		logger: logger.With().Str("service", "category").Logger(),
	}
}

// List returns every category in display order.
func (s *categoryService) List(ctx context.Context) []model.Category {
	return s.store.Snapshot().Categories
}

// Create adds a category. Its ID is the slug of its name, or a generated ID
// when the slug is empty or already taken.
func (s *categoryService) Create(ctx context.Context, req *model.CategoryRequest) (*model.Category, error) {
	if err := validateCategoryRequest(req); err != nil {
		return nil, err
	}

	id := Slug(req.Name)
	if _, taken := s.store.Snapshot().Category(id); id == "" || taken {
		id = s.newID("cat")
	}

	cat := model.Category{ID: id, Name: strings.TrimSpace(req.Name), Icon: req.Icon}
	s.store.AddCategory(cat)

	s.logger.Info().Str("category_id", id).Msg("category created")

	return &cat, nil
}

// Update renames a category or changes its icon.
func (s *categoryService) Update(ctx context.Context, id string, req *model.CategoryRequest) (*model.Category, error) {
	if _, ok := s.store.Snapshot().Category(id); !ok {
		return nil, model.ErrCategoryNotFound
	}

	if err := validateCategoryRequest(req); err != nil {
		return nil, err
	}

	cat := model.Category{ID: id, Name: strings.TrimSpace(req.Name), Icon: req.Icon}
	s.store.UpdateCategory(cat)

	s.logger.Info().Str("category_id", id).Msg("category updated")

	return &cat, nil
}

// Delete removes a category. Menu items in it keep their category ID.
func (s *categoryService) Delete(ctx context.Context, id string) error {
	if _, ok := s.store.Snapshot().Category(id); !ok {
		return model.ErrCategoryNotFound
	}

	s.store.DeleteCategory(id)
	s.logger.Info().Str("category_id", id).Msg("category deleted")

	return nil
}

func validateCategoryRequest(req *model.CategoryRequest) error {
	if req == nil {
		return model.NewDomainError(model.ErrCodeInvalidJSON, "Request body is required")
	}
	if strings.TrimSpace(req.Name) == "" {
		return model.NewValidationError("name", "is required")
	}
	return nil
}
