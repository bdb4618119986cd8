package api

import (
	"fmt"
	"net/http"

	"github.com/matthewaubert/horizons-api/internal/api/shared"
	"github.com/matthewaubert/horizons-api/internal/service/auth"
	"github.com/matthewaubert/horizons-api/internal/service/mail"
	"github.com/matthewaubert/horizons-api/internal/store"
)

// VerificationHandler handles email verification API requests. Both
// operations act on the authenticated caller; the target comes from the
// token claims, never from the path.
type VerificationHandler struct {
	users  store.UserStore
	tokens auth.TokenService
	mailer mail.Mailer
}

// NewVerificationHandler creates a new VerificationHandler with the given
// dependencies.
func NewVerificationHandler(
	users store.UserStore,
	tokens auth.TokenService,
	mailer mail.Mailer,
) *VerificationHandler {
	return &VerificationHandler{
		users:  users,
		tokens: tokens,
		mailer: mailer,
	}
}

// Send handles POST /verification. It emails the caller a verification link
// carrying a freshly issued token.
func (h *VerificationHandler) Send(w http.ResponseWriter, r *http.Request) {
	claims, ok := getClaims(r)
	if !ok {
		respondError(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := h.users.GetByRef(r.Context(), store.RefForID(claims.UserID))
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	token, err := h.tokens.Issue(r.Context(), user)
	if err != nil {
		logError(r, "failed to issue verification token", err)
		respondError(w, r, http.StatusInternalServerError, "Failed to send verification email")
		return
	}

	if err := h.mailer.SendVerification(r.Context(), user, token); err != nil {
		logError(r, "failed to send verification email", err)
		respondError(w, r, http.StatusInternalServerError, "Failed to send verification email")
		return
	}

	shared.RespondWithData(w, http.StatusOK,
		fmt.Sprintf("Verification email sent to '%s'", user.Email), nil)
}

// Confirm handles PATCH /verification. It marks the caller verified and
// reissues the session token so the new flag is reflected in the claims.
func (h *VerificationHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	claims, ok := getClaims(r)
	if !ok {
		respondError(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := h.users.SetVerified(r.Context(), claims.UserID)
	if err != nil {
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
		Message: fmt.Sprintf("User '%s' is now verified", user.Username),
		Token:   token,
		Data:    user,
	})
}
