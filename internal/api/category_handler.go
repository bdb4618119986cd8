package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/matthewaubert/horizons-api/internal/api/shared"
	"github.com/matthewaubert/horizons-api/internal/domain"
	"github.com/matthewaubert/horizons-api/internal/service/slugger"
	"github.com/matthewaubert/horizons-api/internal/store"
)

// CategoryHandler handles category CRUD API requests. Reads are public;
// writes are mounted behind the admin guard.
type CategoryHandler struct {
	categories store.CategoryStore
	slugs      *slugger.Generator
	validator  *validator.Validate
}

// NewCategoryHandler creates a new CategoryHandler with the given dependencies.
func NewCategoryHandler(categories store.CategoryStore, slugs *slugger.Generator) *CategoryHandler {
	return &CategoryHandler{
		categories: categories,
		slugs:      slugs,
		validator:  validator.New(),
	}
}

// List handles GET /categories.
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.List(r.Context(), parseListOptions(r))
	if err != nil {
		logError(r, "failed to list categories", err)
		respondError(w, r, http.StatusInternalServerError, "Failed to fetch categories")
		return
	}

	shared.RespondWithList(w, "Categories fetched from database", len(categories), categories)
}

// Get handles GET /categories/{id}, where {id} is an id or a slug.
func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	category, err := h.categories.GetByRef(r.Context(), pathRef(r, "id"))
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithData(w, http.StatusOK,
		fmt.Sprintf("Category '%s' fetched from database", category.Name), category)
}

// Create handles POST /categories. The slug is derived from the name.
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateCategoryRequest

	if err := DecodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		respondError(w, r, http.StatusBadRequest, "Validation error", validationDetails(err)...)
		return
	}

	category, err := domain.NewCategory(req.Name)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.createWithSlug(r.Context(), category); err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithData(w, http.StatusCreated,
		fmt.Sprintf("Category '%s' saved to database", category.Name), category)
}

// createWithSlug derives the category's slug and inserts the document,
// retrying generation once if a concurrent creation takes the slug first.
func (h *CategoryHandler) createWithSlug(ctx context.Context, category *domain.Category) error {
	for attempt := 0; attempt < 2; attempt++ {
		slug, err := h.slugs.Unique(ctx, category.Name, h.categories, primitive.NilObjectID)
		if err != nil {
			return err
		}
		category.Slug = slug

		err = h.categories.Create(ctx, category)
		if err == nil || !errors.Is(err, store.ErrSlugExists) {
			return err
		}
	}
	return slugger.ErrSlugConflict
}

// Replace handles PUT /categories/{id}.
func (h *CategoryHandler) Replace(w http.ResponseWriter, r *http.Request) {
	var req CreateCategoryRequest

	if err := DecodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		respondError(w, r, http.StatusBadRequest, "Validation error", validationDetails(err)...)
		return
	}

	h.applyAndRespond(w, r, &domain.CategoryUpdate{Name: &req.Name})
}

// Update handles PATCH /categories/{id} with the allow-listed partial field set.
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateCategoryRequest

	if err := DecodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		respondError(w, r, http.StatusBadRequest, "Validation error", validationDetails(err)...)
		return
	}

	h.applyAndRespond(w, r, &domain.CategoryUpdate{Name: req.Name})
}

// applyAndRespond applies the update to the addressed category, re-derives
// the slug when the name changed (excluding the category's own id so an
// unchanged name keeps its slug), persists and responds.
func (h *CategoryHandler) applyAndRespond(
	w http.ResponseWriter,
	r *http.Request,
	update *domain.CategoryUpdate,
) {
	category, err := h.categories.GetByRef(r.Context(), pathRef(r, "id"))
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	nameChanged := update.Apply(category)

	if nameChanged {
		slug, err := h.slugs.Unique(r.Context(), category.Name, h.categories, category.ID)
		if err != nil {
			respondWithMappedError(w, r, err)
			return
		}
		category.Slug = slug
	}

	if err := h.categories.Replace(r.Context(), category); err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithData(w, http.StatusOK,
		fmt.Sprintf("Category '%s' updated in database", category.Name), category)
}

// Delete handles DELETE /categories/{id}.
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ref := pathRef(r, "id")
	if err := h.categories.Delete(r.Context(), ref); err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithData(w, http.StatusOK,
		fmt.Sprintf("Category '%s' deleted from database", ref), nil)
}
