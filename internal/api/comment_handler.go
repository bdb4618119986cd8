package api

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/matthewaubert/horizons-api/internal/api/shared"
	"github.com/matthewaubert/horizons-api/internal/domain"
	"github.com/matthewaubert/horizons-api/internal/store"
)

// CommentHandler handles comment CRUD API requests. Comments live under
// /posts/{postId}/comments; the parent segment follows the same dual
// id-or-slug contract and is normalized to its canonical id before any
// comment query, because the stored parent link is always by id.
type CommentHandler struct {
	comments  store.CommentStore
	posts     store.PostStore
	validator *validator.Validate
}

// NewCommentHandler creates a new CommentHandler with the given dependencies.
func NewCommentHandler(comments store.CommentStore, posts store.PostStore) *CommentHandler {
	return &CommentHandler{
		comments:  comments,
		posts:     posts,
		validator: validator.New(),
	}
}

// resolvePost normalizes the {postId} segment to the parent post's canonical
// id, writing a 404 itself when the post does not exist.
func (h *CommentHandler) resolvePost(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	ref := pathRef(r, "postId")
	if ref.IsID() {
		// Still verify existence so a comment route under a deleted post
		// is a 404, not an empty success.
		if _, err := h.posts.GetOwner(r.Context(), ref); err != nil {
			h.respondPostError(w, r, err)
			return primitive.NilObjectID, false
		}
		return ref.ID(), true
	}

	post, err := h.posts.GetByRef(r.Context(), ref)
	if err != nil {
		h.respondPostError(w, r, err)
		return primitive.NilObjectID, false
	}
	return post.ID, true
}

func (h *CommentHandler) respondPostError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, r, http.StatusNotFound, "Post not found")
		return
	}
	logError(r, "failed to resolve post", err)
	respondError(w, r, http.StatusInternalServerError, "Failed to resolve post")
}

// commentID parses the {id} segment. Comments have no slug, so anything but
// a canonical id addresses nothing.
func commentID(r *http.Request) (primitive.ObjectID, bool) {
	ref := pathRef(r, "id")
	if !ref.IsID() {
		return primitive.NilObjectID, false
	}
	return ref.ID(), true
}

// List handles GET /posts/{postId}/comments.
func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	postID, ok := h.resolvePost(w, r)
	if !ok {
		return
	}

	comments, err := h.comments.ListByPost(r.Context(), postID, parseListOptions(r))
	if err != nil {
		logError(r, "failed to list comments", err)
		respondError(w, r, http.StatusInternalServerError, "Failed to fetch comments")
		return
	}

	shared.RespondWithList(w, "Comments fetched from database", len(comments), comments)
}

// Get handles GET /posts/{postId}/comments/{id}.
func (h *CommentHandler) Get(w http.ResponseWriter, r *http.Request) {
	postID, ok := h.resolvePost(w, r)
	if !ok {
		return
	}

	id, ok := commentID(r)
	if !ok {
		respondError(w, r, http.StatusNotFound, "Comment not found")
		return
	}

	comment, err := h.comments.GetByID(r.Context(), id, postID)
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithData(w, http.StatusOK, "Comment fetched from database", comment)
}

// Create handles POST /posts/{postId}/comments. The authenticated user
// becomes the immutable author.
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := getClaims(r)
	if !ok {
		respondError(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	postID, ok := h.resolvePost(w, r)
	if !ok {
		return
	}

	var req CreateCommentRequest

	if err := DecodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		respondError(w, r, http.StatusBadRequest, "Validation error", validationDetails(err)...)
		return
	}

	comment, err := domain.NewComment(req.Text, claims.UserID, postID)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.comments.Create(r.Context(), comment); err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithData(w, http.StatusCreated, "Comment saved to database", comment)
}

// Replace handles PUT /posts/{postId}/comments/{id}. Authorship and the
// parent post never change.
func (h *CommentHandler) Replace(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, true)
}

// Update handles PATCH /posts/{postId}/comments/{id} with the allow-listed
// partial field set.
func (h *CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, false)
}

func (h *CommentHandler) update(w http.ResponseWriter, r *http.Request, full bool) {
	postID, ok := h.resolvePost(w, r)
	if !ok {
		return
	}

	id, ok := commentID(r)
	if !ok {
		respondError(w, r, http.StatusNotFound, "Comment not found")
		return
	}

	var update domain.CommentUpdate
	if full {
		var req CreateCommentRequest
		if err := DecodeJSON(r, &req); err != nil {
			respondError(w, r, http.StatusBadRequest, "Invalid request format")
			return
		}
		if err := h.validator.Struct(req); err != nil {
			respondError(w, r, http.StatusBadRequest, "Validation error", validationDetails(err)...)
			return
		}
		update.Text = &req.Text
	} else {
		var req UpdateCommentRequest
		if err := DecodeJSON(r, &req); err != nil {
			respondError(w, r, http.StatusBadRequest, "Invalid request format")
			return
		}
		if err := h.validator.Struct(req); err != nil {
			respondError(w, r, http.StatusBadRequest, "Validation error", validationDetails(err)...)
			return
		}
		update.Text = req.Text
	}

	comment, err := h.comments.GetByID(r.Context(), id, postID)
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	update.Apply(comment)

	if err := h.comments.Replace(r.Context(), comment); err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithData(w, http.StatusOK, "Comment updated in database", comment)
}

// Delete handles DELETE /posts/{postId}/comments/{id}.
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	postID, ok := h.resolvePost(w, r)
	if !ok {
		return
	}

	id, ok := commentID(r)
	if !ok {
		respondError(w, r, http.StatusNotFound, "Comment not found")
		return
	}

	if err := h.comments.Delete(r.Context(), id, postID); err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithData(w, http.StatusOK, "Comment deleted from database", nil)
}
