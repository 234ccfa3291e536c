package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cafe-site/internal/model"
	"cafe-site/internal/service"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMenuHandler_List(t *testing.T) {
	items := []model.MenuItem{{ID: "latte", Name: "Latte", Category: "cafe", Popular: true}}

	tests := []struct {
		name           string
		query          string
		filter         service.MenuFilter
		expectService  bool
		expectedStatus int
	}{
		{name: "no filter", query: "", filter: service.MenuFilter{}, expectService: true, expectedStatus: http.StatusOK},
		{name: "category", query: "?category=cafe", filter: service.MenuFilter{Category: "cafe"}, expectService: true, expectedStatus: http.StatusOK},
		{name: "popular", query: "?popular=true", filter: service.MenuFilter{PopularOnly: true}, expectService: true, expectedStatus: http.StatusOK},
		{name: "invalid popular", query: "?popular=maybe", expectService: false, expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			menu := new(MockMenuService)
			if tt.expectService {
				menu.On("List", mock.Anything, tt.filter).Return(items)
			}
			h := NewMenuHandler(menu, new(MockCategoryService), zerolog.Nop())

			req := httptest.NewRequest(http.MethodGet, "/api/menu"+tt.query, nil)
			rec := httptest.NewRecorder()
			h.List(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectService {
				var got []model.MenuItem
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
				assert.Equal(t, items, got)
			}
			menu.AssertExpectations(t)
		})
	}
}

func TestMenuHandler_Create(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		mockReturn     *model.MenuItem
		mockError      error
		expectService  bool
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "accepted",
			body:           `{"name":"Mocha","price":70,"category":"cafe"}`,
			mockReturn:     &model.MenuItem{ID: "item-1", Name: "Mocha", Price: 70, Category: "cafe"},
			expectService:  true,
			expectedStatus: http.StatusAccepted,
		},
		{
			name:           "invalid json",
			body:           `{"name":`,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   model.ErrCodeInvalidJSON,
		},
		{
			name:           "validation error",
			body:           `{"price":70}`,
			mockError:      model.NewValidationError("name", "is required"),
			expectService:  true,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   model.ErrCodeMissingField,
		},
		{
			name:           "unexpected error",
			body:           `{"name":"Mocha"}`,
			mockError:      errors.New("boom"),
			expectService:  true,
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   model.ErrCodeInternalError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			menu := new(MockMenuService)
			if tt.expectService {
				if tt.mockReturn != nil {
					menu.On("Create", mock.Anything, mock.AnythingOfType("*model.MenuItemRequest")).Return(tt.mockReturn, nil)
				} else {
					menu.On("Create", mock.Anything, mock.AnythingOfType("*model.MenuItemRequest")).Return(nil, tt.mockError)
				}
			}
			h := NewMenuHandler(menu, new(MockCategoryService), zerolog.Nop())

			req := httptest.NewRequest(http.MethodPost, "/api/admin/menu-items", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.Create(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedCode != "" {
				var errResp model.ErrorResponse
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&errResp))
				assert.Equal(t, tt.expectedCode, errResp.Error)
			}
			menu.AssertExpectations(t)
		})
	}
}

func TestMenuHandler_UpdateAndDelete(t *testing.T) {
	menu := new(MockMenuService)
	menu.On("Update", mock.Anything, "latte", &model.MenuItemRequest{Name: "Latte XL", Price: 80, Category: "cafe"}).
		Return(&model.MenuItem{ID: "latte", Name: "Latte XL", Price: 80, Category: "cafe"}, nil)
	menu.On("Update", mock.Anything, "ghost", mock.Anything).Return(nil, model.ErrMenuItemNotFound)
	menu.On("Delete", mock.Anything, "latte").Return(nil)
	menu.On("Delete", mock.Anything, "ghost").Return(model.ErrMenuItemNotFound)

	h := NewMenuHandler(menu, new(MockCategoryService), zerolog.Nop())

	do := func(method, id, body string, fn http.HandlerFunc) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, "/api/admin/menu-items/"+id, strings.NewReader(body))
		req.SetPathValue("id", id)
		rec := httptest.NewRecorder()
		fn(rec, req)
		return rec
	}

	rec := do(http.MethodPut, "latte", `{"name":"Latte XL","price":80,"category":"cafe"}`, h.Update)
	assert.Equal(t, http.StatusAccepted, rec.Code)
	var item model.MenuItem
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&item))
	assert.Equal(t, "Latte XL", item.Name)

	rec = do(http.MethodPut, "ghost", `{"name":"X","category":"cafe"}`, h.Update)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	assert.Equal(t, http.StatusAccepted, do(http.MethodDelete, "latte", "", h.Delete).Code)
	assert.Equal(t, http.StatusNotFound, do(http.MethodDelete, "ghost", "", h.Delete).Code)

	menu.AssertExpectations(t)
}

func TestMenuHandler_Categories(t *testing.T) {
	cats := new(MockCategoryService)
	cats.On("List", mock.Anything).Return([]model.Category{{ID: "cafe", Name: "Café"}})
	cats.On("Create", mock.Anything, &model.CategoryRequest{Name: "Tés", Icon: "leaf"}).Return(&model.Category{ID: "ts", Name: "Tés", Icon: "leaf"}, nil)
	cats.On("Update", mock.Anything, "cafe", &model.CategoryRequest{Name: "Coffee"}).Return(&model.Category{ID: "cafe", Name: "Coffee"}, nil)
	cats.On("Delete", mock.Anything, "ghost").Return(model.ErrCategoryNotFound)

	h := NewMenuHandler(new(MockMenuService), cats, zerolog.Nop())

	rec := httptest.NewRecorder()
	h.ListCategories(rec, httptest.NewRequest(http.MethodGet, "/api/categories", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"id":"cafe","name":"Café","icon":""}]`, rec.Body.String())

	rec = httptest.NewRecorder()
	h.CreateCategory(rec, httptest.NewRequest(http.MethodPost, "/api/admin/categories", strings.NewReader(`{"name":"Tés","icon":"leaf"}`)))
	assert.Equal(t, http.StatusAccepted, rec.Code)

	req := httptest.NewRequest(http.MethodPut, "/api/admin/categories/cafe", strings.NewReader(`{"name":"Coffee"}`))
	req.SetPathValue("id", "cafe")
	rec = httptest.NewRecorder()
	h.UpdateCategory(rec, req)
	assert.Equal(t, http.StatusAccepted, rec.Code)

	req = httptest.NewRequest(http.MethodDelete, "/api/admin/categories/ghost", nil)
	req.SetPathValue("id", "ghost")
	rec = httptest.NewRecorder()
	h.DeleteCategory(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	cats.AssertExpectations(t)
}
