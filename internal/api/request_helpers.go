package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/matthewaubert/horizons-api/internal/api/shared"
	"github.com/matthewaubert/horizons-api/internal/platform/logger"
	"github.com/matthewaubert/horizons-api/internal/service/auth"
	"github.com/matthewaubert/horizons-api/internal/store"
)

// DecodeJSON decodes the request body into dst.
func DecodeJSON(r *http.Request, dst interface{}) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

// getClaims extracts the authenticated claims placed in the context by the
// authentication middleware.
func getClaims(r *http.Request) (*auth.Claims, bool) {
	claims, ok := r.Context().Value(shared.ClaimsContextKey).(*auth.Claims)
	return claims, ok
}

// pathRef decodes the named path parameter under the dual id-or-slug
// contract.
func pathRef(r *http.Request, name string) store.Ref {
	return store.ParseRef(chi.URLParam(r, name))
}

// parseListOptions reads the offset/limit query parameters. Absent or
// malformed values fall back to zero (no offset, no limit).
func parseListOptions(r *http.Request) store.ListOptions {
	var opts store.ListOptions
	if v, err := strconv.ParseInt(r.URL.Query().Get("offset"), 10, 64); err == nil && v > 0 {
		opts.Offset = v
	}
	if v, err := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64); err == nil && v > 0 {
		opts.Limit = v
	}
	return opts
}

// respondError writes a denial envelope; thin alias kept so handler call
// sites stay short.
func respondError(w http.ResponseWriter, r *http.Request, status int, message string, details ...string) {
	shared.RespondWithError(w, r, status, message, details...)
}

// logError logs err against the request-scoped logger.
func logError(r *http.Request, msg string, err error) {
	logger.FromContext(r.Context()).Error(msg,
		"error", err,
		"path", r.URL.Path,
		"method", r.Method)
}

// validationDetails flattens a validator error into per-field messages for
// the errors list of the denial envelope.
func validationDetails(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{"Validation error"}
	}

	details := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			details = append(details, fmt.Sprintf("%s is required", fe.Field()))
		case "email":
			details = append(details, fmt.Sprintf("%s must be a valid email address", fe.Field()))
		case "min":
			details = append(details, fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param()))
		case "max":
			details = append(details, fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param()))
		default:
			details = append(details, fmt.Sprintf("%s is invalid", fe.Field()))
		}
	}
	return details
}
