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

// PostHandler handles post CRUD API requests.
type PostHandler struct {
	posts      store.PostStore
	categories store.CategoryStore
	slugs      *slugger.Generator
	validator  *validator.Validate
}

// NewPostHandler creates a new PostHandler with the given dependencies.
func NewPostHandler(
	posts store.PostStore,
	categories store.CategoryStore,
	slugs *slugger.Generator,
) *PostHandler {
	return &PostHandler{
		posts:      posts,
		categories: categories,
		slugs:      slugs,
		validator:  validator.New(),
	}
}

// List handles GET /posts.
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.List(r.Context(), parseListOptions(r))
	if err != nil {
		logError(r, "failed to list posts", err)
		respondError(w, r, http.StatusInternalServerError, "Failed to fetch posts")
		return
	}

	shared.RespondWithList(w, "Posts fetched from database", len(posts), posts)
}

// Get handles GET /posts/{id}, where {id} is an id or a slug.
func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	post, err := h.posts.GetByRef(r.Context(), pathRef(r, "id"))
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithData(w, http.StatusOK,
		fmt.Sprintf("Post '%s' fetched from database", post.Title), post)
}

// Create handles POST /posts. The authenticated user becomes the immutable
// author; the slug is derived from the title.
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := getClaims(r)
	if !ok {
		respondError(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req CreatePostRequest

	if err := DecodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		respondError(w, r, http.StatusBadRequest, "Validation error", validationDetails(err)...)
		return
	}

	post, err := domain.NewPost(req.Title, req.Content, claims.UserID)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	post.IsPublished = req.IsPublished
	post.SetTags(req.Tags)
	post.DisplayImg = req.DisplayImg

	if req.Category != "" {
		categoryID, ok := h.resolveCategory(w, r, req.Category)
		if !ok {
			return
		}
		post.Category = categoryID
	}

	if err := h.createWithSlug(r.Context(), post); err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithData(w, http.StatusCreated,
		fmt.Sprintf("Post '%s' saved to database", post.Title), post)
}

// createWithSlug derives the post's slug and inserts the document, retrying
// generation once if a concurrent creation takes the slug first.
func (h *PostHandler) createWithSlug(ctx context.Context, post *domain.Post) error {
	for attempt := 0; attempt < 2; attempt++ {
		slug, err := h.slugs.Unique(ctx, post.Title, h.posts, primitive.NilObjectID)
		if err != nil {
			return err
		}
		post.Slug = slug

		err = h.posts.Create(ctx, post)
		if err == nil || !errors.Is(err, store.ErrSlugExists) {
			return err
		}
	}
	return slugger.ErrSlugConflict
}

// Replace handles PUT /posts/{id}. Authorship never transfers: the stored
// author edge is kept regardless of who performs the replacement.
func (h *PostHandler) Replace(w http.ResponseWriter, r *http.Request) {
	var req CreatePostRequest

	if err := DecodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		respondError(w, r, http.StatusBadRequest, "Validation error", validationDetails(err)...)
		return
	}

	existing, err := h.posts.GetByRef(r.Context(), pathRef(r, "id"))
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	tags := req.Tags
	update := domain.PostUpdate{
		Title:       &req.Title,
		Content:     &req.Content,
		IsPublished: &req.IsPublished,
		Tags:        &tags,
		DisplayImg:  req.DisplayImg,
	}
	if req.Category != "" {
		categoryID, ok := h.resolveCategory(w, r, req.Category)
		if !ok {
			return
		}
		update.Category = &categoryID
	}

	h.applyAndRespond(w, r, existing, &update)
}

// Update handles PATCH /posts/{id} with the allow-listed partial field set.
func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdatePostRequest

	if err := DecodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		respondError(w, r, http.StatusBadRequest, "Validation error", validationDetails(err)...)
		return
	}

	existing, err := h.posts.GetByRef(r.Context(), pathRef(r, "id"))
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	update := domain.PostUpdate{
		Title:       req.Title,
		Content:     req.Content,
		IsPublished: req.IsPublished,
		Tags:        req.Tags,
		DisplayImg:  req.DisplayImg,
	}
	if req.Category != nil {
		categoryID, ok := h.resolveCategory(w, r, *req.Category)
		if !ok {
			return
		}
		update.Category = &categoryID
	}

	h.applyAndRespond(w, r, existing, &update)
}

// applyAndRespond applies the update to the fetched post, re-derives the
// slug when the title changed (excluding the post's own id so an unchanged
// title keeps its slug), persists and responds.
func (h *PostHandler) applyAndRespond(
	w http.ResponseWriter,
	r *http.Request,
	post *domain.Post,
	update *domain.PostUpdate,
) {
	titleChanged := update.Apply(post)

	if titleChanged {
		slug, err := h.slugs.Unique(r.Context(), post.Title, h.posts, post.ID)
		if err != nil {
			respondWithMappedError(w, r, err)
			return
		}
		post.Slug = slug
	}

	if err := h.posts.Replace(r.Context(), post); err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithData(w, http.StatusOK,
		fmt.Sprintf("Post '%s' updated in database", post.Title), post)
}

// Delete handles DELETE /posts/{id}.
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ref := pathRef(r, "id")
	if err := h.posts.Delete(r.Context(), ref); err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithData(w, http.StatusOK,
		fmt.Sprintf("Post '%s' deleted from database", ref), nil)
}

// resolveCategory parses and existence-checks a category id from a request
// body, writing the error response itself when the id is unusable.
func (h *PostHandler) resolveCategory(
	w http.ResponseWriter,
	r *http.Request,
	raw string,
) (primitive.ObjectID, bool) {
	categoryID, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid category id: %s", raw))
		return primitive.NilObjectID, false
	}

	exists, err := h.categories.Exists(r.Context(), categoryID)
	if err != nil {
		logError(r, "failed to check category", err)
		respondError(w, r, http.StatusInternalServerError, "Failed to validate category")
		return primitive.NilObjectID, false
	}
	if !exists {
		respondError(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid category id: %s", raw))
		return primitive.NilObjectID, false
	}

	return categoryID, true
}
