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
	"github.com/matthewaubert/horizons-api/internal/service/auth"
	"github.com/matthewaubert/horizons-api/internal/service/slugger"
	"github.com/matthewaubert/horizons-api/internal/store"
)

// UserHandler handles user CRUD API requests.
type UserHandler struct {
	users     store.UserStore
	tokens    auth.TokenService
	hasher    auth.PasswordHasher
	slugs     *slugger.Generator
	validator *validator.Validate
}

// NewUserHandler creates a new UserHandler with the given dependencies.
func NewUserHandler(
	users store.UserStore,
	tokens auth.TokenService,
	hasher auth.PasswordHasher,
	slugs *slugger.Generator,
) *UserHandler {
	return &UserHandler{
		users:     users,
		tokens:    tokens,
		hasher:    hasher,
		slugs:     slugs,
		validator: validator.New(),
	}
}

// List handles GET /users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context(), parseListOptions(r))
	if err != nil {
		logError(r, "failed to list users", err)
		respondError(w, r, http.StatusInternalServerError, "Failed to fetch users")
		return
	}

	shared.RespondWithList(w, "Users fetched from database", len(users), users)
}

// Get handles GET /users/{id}, where {id} is an id or a slug.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetByRef(r.Context(), pathRef(r, "id"))
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithData(w, http.StatusOK,
		fmt.Sprintf("User '%s' fetched from database", user.Username), user)
}

// Create handles POST /users (public signup). The slug is derived from the
// username and a fresh session token is issued so the client can proceed
// straight to verification.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest

	if err := DecodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		respondError(w, r, http.StatusBadRequest, "Validation error", validationDetails(err)...)
		return
	}

	hashed, err := h.hasher.Hash(req.Password)
	if err != nil {
		logError(r, "failed to hash password", err)
		respondError(w, r, http.StatusInternalServerError, "Failed to create user")
		return
	}

	user, err := domain.NewUser(req.FirstName, req.LastName, req.Username, req.Email, hashed)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.createWithSlug(r.Context(), user); err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	token, err := h.tokens.Issue(r.Context(), user)
	if err != nil {
		logError(r, "failed to issue token", err)
		respondError(w, r, http.StatusInternalServerError, "Failed to generate authentication token")
		return
	}

	shared.RespondWithJSON(w, http.StatusCreated, shared.Envelope{
		Success: true,
		Message: fmt.Sprintf("User '%s' saved to database", user.Username),
		Token:   token,
		Data:    user,
	})
}

// createWithSlug derives the user's slug and inserts the document. If a
// concurrent creation wins the slug between the probe and the insert, the
// unique index rejects the write and generation is retried once.
func (h *UserHandler) createWithSlug(ctx context.Context, user *domain.User) error {
	for attempt := 0; attempt < 2; attempt++ {
		slug, err := h.slugs.Unique(ctx, user.Username, h.users, primitive.NilObjectID)
		if err != nil {
			return err
		}
		user.Slug = slug

		err = h.users.Create(ctx, user)
		if err == nil || !errors.Is(err, store.ErrSlugExists) {
			return err
		}
	}
	return slugger.ErrSlugConflict
}

// Replace handles PUT /users/{id}. The route is guarded by RequireSelf, so
// the target is the caller themselves (or the caller is an admin). A fresh
// token is issued because the identity payload may have changed.
func (h *UserHandler) Replace(w http.ResponseWriter, r *http.Request) {
	var req ReplaceUserRequest

	if err := DecodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		respondError(w, r, http.StatusBadRequest, "Validation error", validationDetails(err)...)
		return
	}

	existing, err := h.users.GetByRef(r.Context(), pathRef(r, "id"))
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	update := domain.UserUpdate{
		FirstName: &req.FirstName,
		LastName:  &req.LastName,
		Username:  &req.Username,
		Email:     &req.Email,
	}
	if req.Password != "" {
		hashed, err := h.hasher.Hash(req.Password)
		if err != nil {
			logError(r, "failed to hash password", err)
			respondError(w, r, http.StatusInternalServerError, "Failed to update user")
			return
		}
		update.HashedPassword = &hashed
	}

	h.applyAndRespond(w, r, existing, &update)
}

// Update handles PATCH /users/{id} with the allow-listed partial field set.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateUserRequest

	if err := DecodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		respondError(w, r, http.StatusBadRequest, "Validation error", validationDetails(err)...)
		return
	}

	existing, err := h.users.GetByRef(r.Context(), pathRef(r, "id"))
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	update := domain.UserUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Username:  req.Username,
		Email:     req.Email,
	}
	if req.Password != nil {
		hashed, err := h.hasher.Hash(*req.Password)
		if err != nil {
			logError(r, "failed to hash password", err)
			respondError(w, r, http.StatusInternalServerError, "Failed to update user")
			return
		}
		update.HashedPassword = &hashed
	}

	h.applyAndRespond(w, r, existing, &update)
}

// applyAndRespond applies the update to the fetched user, re-derives the
// slug when the username changed (excluding the user's own id so an
// unchanged name keeps its slug), persists and responds with the updated
// document plus a reissued token.
func (h *UserHandler) applyAndRespond(
	w http.ResponseWriter,
	r *http.Request,
	user *domain.User,
	update *domain.UserUpdate,
) {
	usernameChanged := update.Apply(user)

	if usernameChanged {
		slug, err := h.slugs.Unique(r.Context(), user.Username, h.users, user.ID)
		if err != nil {
			respondWithMappedError(w, r, err)
			return
		}
		user.Slug = slug
	}

	if err := h.users.Replace(r.Context(), user); err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	token, err := h.tokens.Issue(r.Context(), user)
	if err != nil {
		logError(r, "failed to issue token", err)
		respondError(w, r, http.StatusInternalServerError, "Failed to generate authentication token")
		return
	}

	shared.RespondWithJSON(w, http.StatusOK, shared.Envelope{
		Success: true,
		Message: fmt.Sprintf("User '%s' updated in database", user.Username),
		Token:   token,
		Data:    user,
	})
}

// Delete handles DELETE /users/{id}.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ref := pathRef(r, "id")
	if err := h.users.Delete(r.Context(), ref); err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithData(w, http.StatusOK,
		fmt.Sprintf("User '%s' deleted from database", ref), nil)
}
