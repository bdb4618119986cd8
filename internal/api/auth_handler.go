package api

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/matthewaubert/horizons-api/internal/api/shared"
	"github.com/matthewaubert/horizons-api/internal/service/auth"
	"github.com/matthewaubert/horizons-api/internal/store"
)

// AuthHandler handles authentication-related API requests.
type AuthHandler struct {
	users     store.UserStore
	tokens    auth.TokenService
	passwords auth.PasswordVerifier
	validator *validator.Validate
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(
	users store.UserStore,
	tokens auth.TokenService,
	passwords auth.PasswordVerifier,
) *AuthHandler {
	return &AuthHandler{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		validator: validator.New(),
	}
}

// Login handles POST /login. A matching email and password yields a fresh
// session token; anything else is a uniform 401 so the response doesn't
// reveal whether the email exists.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	if err := DecodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		respondError(w, r, http.StatusBadRequest, "Validation error", validationDetails(err)...)
		return
	}

	user, err := h.users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			respondError(w, r, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		logError(r, "failed to get user by email", err)
		respondError(w, r, http.StatusInternalServerError, "Failed to authenticate user")
		return
	}

	if err := h.passwords.Compare(user.HashedPassword, req.Password); err != nil {
		respondError(w, r, http.StatusUnauthorized, "Invalid email or password")
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
		Message: "You are now authenticated",
		Token:   token,
	})
}
