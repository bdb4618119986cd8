package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matthewaubert/horizons-api/internal/api/shared"
	"github.com/matthewaubert/horizons-api/internal/platform/logger"
	"github.com/matthewaubert/horizons-api/internal/service/auth"
	"github.com/matthewaubert/horizons-api/internal/store"
)

// AuthMiddleware provides the token-based guards for routes. Guards are
// chained in declaration order and each assumes Authenticate already ran;
// a denial short-circuits the rest of the chain.
type AuthMiddleware struct {
	tokens auth.TokenService
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(tokens auth.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Authenticate verifies the bearer token from the Authorization header and
// adds the decoded claims to the request context.
//
// A missing header is the only 401: no credential was presented at all. A
// credential that is present but malformed, unverifiable or expired is a
// 403: the caller identified itself and failed.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Unauthorized")
			return
		}

		// `Authorization: Bearer <token>`; anything after the first space is
		// the credential. A header without one fails verification below.
		var token string
		if parts := strings.SplitN(authHeader, " ", 2); len(parts) == 2 {
			token = parts[1]
		}

		claims, err := m.tokens.Verify(r.Context(), token)
		if err != nil {
			logger.FromContext(r.Context()).Debug("rejecting credential",
				"error", err,
				"path", r.URL.Path)
			shared.RespondWithError(w, r, http.StatusForbidden, "Forbidden", err.Error())
			return
		}

		ctx := context.WithValue(r.Context(), shared.ClaimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireVerified admits admins and verified users.
func (m *AuthMiddleware) RequireVerified(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := GetClaims(r)
		if !ok {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Unauthorized")
			return
		}

		if !claims.IsAdmin && !claims.IsVerified {
			shared.RespondWithError(w, r, http.StatusForbidden, "Forbidden")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireAdmin admits admins only.
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := GetClaims(r)
		if !ok {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Unauthorized")
			return
		}

		if !claims.IsAdmin {
			shared.RespondWithError(w, r, http.StatusForbidden, "Forbidden")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireSelf admits admins and requests whose `{id}` path segment (id or
// slug) references the authenticated user themselves.
func (m *AuthMiddleware) RequireSelf(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := GetClaims(r)
		if !ok {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Unauthorized")
			return
		}

		if !claims.IsAdmin && !refersToSelf(claims, chi.URLParam(r, "id")) {
			shared.RespondWithError(w, r, http.StatusForbidden, "Forbidden")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// refersToSelf reports whether the path segment addresses the claim's own
// user, under the dual id-or-slug contract.
func refersToSelf(claims *auth.Claims, pathSegment string) bool {
	ref := store.ParseRef(pathSegment)
	if ref.IsID() {
		return ref.ID() == claims.UserID
	}
	return ref.Slug() != "" && ref.Slug() == claims.Slug
}

// GetClaims extracts the verified token claims from the request context.
// Returns the claims and a boolean indicating if they were found.
func GetClaims(r *http.Request) (*auth.Claims, bool) {
	claims, ok := r.Context().Value(shared.ClaimsContextKey).(*auth.Claims)
	return claims, ok
}

// OwnershipMiddleware provides the resource-ownership guards. They are the
// only guards with an I/O suspension point: the owning edge of the targeted
// resource is fetched before the handler runs. They fail closed: an absent
// resource is a 404, distinct from the 403 of a resource that exists but
// belongs to someone else.
type OwnershipMiddleware struct {
	posts    store.PostStore
	comments store.CommentStore
}

// NewOwnershipMiddleware creates a new OwnershipMiddleware with the given
// dependencies.
func NewOwnershipMiddleware(posts store.PostStore, comments store.CommentStore) *OwnershipMiddleware {
	return &OwnershipMiddleware{posts: posts, comments: comments}
}

// RequirePostAuthor admits admins and the author of the post addressed by
// the `{id}` path segment.
func (m *OwnershipMiddleware) RequirePostAuthor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := GetClaims(r)
		if !ok {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Unauthorized")
			return
		}

		// Admins bypass the lookup entirely.
		if claims.IsAdmin {
			next.ServeHTTP(w, r)
			return
		}

		owner, err := m.posts.GetOwner(r.Context(), store.ParseRef(chi.URLParam(r, "id")))
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				shared.RespondWithError(w, r, http.StatusNotFound, "Post not found")
				return
			}
			logger.FromContext(r.Context()).Error("failed to fetch post owner", "error", err)
			shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to authorize request")
			return
		}

		if owner != claims.UserID {
			shared.RespondWithError(w, r, http.StatusForbidden, "Forbidden")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireCommentAuthor admits admins and the author of the comment addressed
// by the `{id}` path segment. Comments have no slug, so a segment that is
// not a canonical id can match nothing and is a 404.
func (m *OwnershipMiddleware) RequireCommentAuthor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := GetClaims(r)
		if !ok {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Unauthorized")
			return
		}

		if claims.IsAdmin {
			next.ServeHTTP(w, r)
			return
		}

		ref := store.ParseRef(chi.URLParam(r, "id"))
		if !ref.IsID() {
			shared.RespondWithError(w, r, http.StatusNotFound, "Comment not found")
			return
		}

		owner, err := m.comments.GetOwner(r.Context(), ref.ID())
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				shared.RespondWithError(w, r, http.StatusNotFound, "Comment not found")
				return
			}
			logger.FromContext(r.Context()).Error("failed to fetch comment owner", "error", err)
			shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to authorize request")
			return
		}

		if owner != claims.UserID {
			shared.RespondWithError(w, r, http.StatusForbidden, "Forbidden")
			return
		}

		next.ServeHTTP(w, r)
	})
}
