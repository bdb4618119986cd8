package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matthewaubert/horizons-api/internal/api/shared"
	"github.com/matthewaubert/horizons-api/internal/domain"
	"github.com/matthewaubert/horizons-api/internal/service/slugger"
	"github.com/matthewaubert/horizons-api/internal/store"
)

func newCategoryRouter(categories *fakeCategoryStore) chi.Router {
	handler := NewCategoryHandler(categories, slugger.New())

	r := chi.NewRouter()
	r.Get("/categories", handler.List)
	r.Post("/categories", handler.Create)
	r.Get("/categories/{id}", handler.Get)
	r.Put("/categories/{id}", handler.Replace)
	r.Patch("/categories/{id}", handler.Update)
	r.Delete("/categories/{id}", handler.Delete)
	return r
}

func seedCategory(t *testing.T, categories *fakeCategoryStore, name, slug string) *domain.Category {
	t.Helper()

	category, err := domain.NewCategory(name)
	require.NoError(t, err)
	category.Slug = slug
	require.NoError(t, categories.Create(context.Background(), category))
	return category
}

func TestCreateCategory(t *testing.T) {
	t.Parallel()

	categories := &fakeCategoryStore{}
	r := newCategoryRouter(categories)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/categories",
		strings.NewReader(`{"name":"Science Fiction"}`))
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	stored, err := categories.GetByRef(context.Background(), store.ParseRef("science-fiction"))
	require.NoError(t, err)
	assert.Equal(t, "Science Fiction", stored.Name)
}

func TestCreateCategorySlugCollision(t *testing.T) {
	t.Parallel()

	categories := &fakeCategoryStore{}
	r := newCategoryRouter(categories)

	create := func(name string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/categories",
			strings.NewReader(`{"name":"`+name+`"}`))
		r.ServeHTTP(rec, req)
		return rec
	}

	require.Equal(t, http.StatusCreated, create("Tech").Code)

	// Distinct name, same transliterated form. The probe must step to a
	// suffixed slug instead of colliding.
	rec := create("Tech!")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	stored, err := categories.GetByRef(context.Background(), store.ParseRef("tech-1"))
	require.NoError(t, err)
	assert.Equal(t, "Tech!", stored.Name)
}

func TestCreateCategoryDuplicateName(t *testing.T) {
	t.Parallel()

	categories := &fakeCategoryStore{}
	seedCategory(t, categories, "Travel", "travel")
	r := newCategoryRouter(categories)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/categories",
		strings.NewReader(`{"name":"Travel"}`))
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)

	var env shared.Envelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	assert.False(t, env.Success)
	assert.Equal(t, "Name already exists", env.Message)
}

func TestGetCategoryByIDAndSlug(t *testing.T) {
	t.Parallel()

	categories := &fakeCategoryStore{}
	category := seedCategory(t, categories, "Travel", "travel")
	r := newCategoryRouter(categories)

	for _, segment := range []string{category.ID.Hex(), category.Slug} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/categories/"+segment, nil))

		require.Equal(t, http.StatusOK, rec.Code, "segment %q", segment)

		var env shared.Envelope
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
		data, ok := env.Data.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, category.ID.Hex(), data["id"], "segment %q", segment)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/categories/no-such-category", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateCategory(t *testing.T) {
	t.Parallel()

	t.Run("rename re-derives slug", func(t *testing.T) {
		t.Parallel()

		categories := &fakeCategoryStore{}
		category := seedCategory(t, categories, "Travel", "travel")
		r := newCategoryRouter(categories)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPatch, "/categories/"+category.ID.Hex(),
			strings.NewReader(`{"name":"World Travel"}`))
		r.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		stored, err := categories.GetByRef(context.Background(), store.RefForID(category.ID))
		require.NoError(t, err)
		assert.Equal(t, "World Travel", stored.Name)
		assert.Equal(t, "world-travel", stored.Slug)
	})

	t.Run("name case change keeps slug via self match", func(t *testing.T) {
		t.Parallel()

		categories := &fakeCategoryStore{}
		category := seedCategory(t, categories, "Travel", "travel")
		r := newCategoryRouter(categories)

		// The new name transliterates to the slug the category already
		// holds; re-derivation must not step to "travel-1".
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/categories/"+category.Slug,
			strings.NewReader(`{"name":"TRAVEL"}`))
		r.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		stored, err := categories.GetByRef(context.Background(), store.RefForID(category.ID))
		require.NoError(t, err)
		assert.Equal(t, "TRAVEL", stored.Name)
		assert.Equal(t, "travel", stored.Slug)
	})

	t.Run("unchanged name keeps slug on full replace", func(t *testing.T) {
		t.Parallel()

		categories := &fakeCategoryStore{}
		category := seedCategory(t, categories, "Travel", "travel")
		r := newCategoryRouter(categories)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/categories/"+category.ID.Hex(),
			strings.NewReader(`{"name":"Travel"}`))
		r.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		stored, err := categories.GetByRef(context.Background(), store.RefForID(category.ID))
		require.NoError(t, err)
		assert.Equal(t, "travel", stored.Slug)
	})
}

func TestDeleteCategory(t *testing.T) {
	t.Parallel()

	categories := &fakeCategoryStore{}
	category := seedCategory(t, categories, "Travel", "travel")
	r := newCategoryRouter(categories)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/categories/"+category.Slug, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/categories/"+category.ID.Hex(), nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
