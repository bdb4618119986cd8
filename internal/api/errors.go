package api

import (
	"errors"
	"net/http"

	"github.com/matthewaubert/horizons-api/internal/domain"
	"github.com/matthewaubert/horizons-api/internal/service/auth"
	"github.com/matthewaubert/horizons-api/internal/service/slugger"
	"github.com/matthewaubert/horizons-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to the HTTP status taxonomy.
// This keeps the guard/resolver propagation policy in one place: raw storage
// errors never reach the client with their own shape.
func MapErrorToStatusCode(err error) int {
	switch {
	// No credential presented
	case errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized

	// Credential presented but unusable, or insufficient privilege
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusForbidden

	// Addressed resource absent
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Uniqueness collisions, including an exhausted slug probe
	case errors.Is(err, store.ErrDuplicate),
		errors.Is(err, slugger.ErrSlugConflict):
		return http.StatusConflict

	// Malformed input
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrEmptySlugSource):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly message for the
// error. Internal detail stays in the logs.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrMissingToken):
		return "Unauthorized"

	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, domain.ErrUnauthorized):
		return "Forbidden"

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"
	case errors.Is(err, store.ErrPostNotFound):
		return "Post not found"
	case errors.Is(err, store.ErrCommentNotFound):
		return "Comment not found"
	case errors.Is(err, store.ErrCategoryNotFound):
		return "Category not found"
	case errors.Is(err, store.ErrNotFound):
		return "Resource not found"

	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"
	case errors.Is(err, store.ErrUsernameExists):
		return "Username already exists"
	case errors.Is(err, store.ErrNameExists):
		return "Name already exists"
	case errors.Is(err, store.ErrSlugExists),
		errors.Is(err, slugger.ErrSlugConflict):
		return "Could not assign a unique slug"
	case errors.Is(err, store.ErrDuplicate):
		return "Resource already exists"

	case errors.Is(err, domain.ErrEmptySlugSource):
		return "Name contains no usable characters"
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID):
		return "Invalid request data"

	default:
		return "An unexpected error occurred"
	}
}

// respondWithMappedError writes the taxonomy status and safe message for the
// given error, logging the original at an appropriate level.
func respondWithMappedError(w http.ResponseWriter, r *http.Request, err error) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)

	if status >= http.StatusInternalServerError {
		logError(r, "request failed", err)
	}

	respondError(w, r, status, message)
}
