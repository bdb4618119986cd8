package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/matthewaubert/horizons-api/internal/api/shared"
	"github.com/matthewaubert/horizons-api/internal/domain"
	"github.com/matthewaubert/horizons-api/internal/service/auth"
	"github.com/matthewaubert/horizons-api/internal/store"
)

const testSecret = "test-jwt-secret-thats-at-least-32-chars"

// okHandler marks that the guard admitted the request.
func okHandler(t *testing.T, called *bool) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	})
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) shared.Envelope {
	t.Helper()
	var env shared.Envelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	return env
}

// withClaims simulates an upstream Authenticate by planting claims directly.
func withClaims(r *http.Request, claims *auth.Claims) *http.Request {
	ctx := context.WithValue(r.Context(), shared.ClaimsContextKey, claims)
	return r.WithContext(ctx)
}

// withURLParam attaches a chi route parameter to the request context.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	svc := auth.NewTestTokenService(testSecret, 24*time.Hour, time.Now)
	m := NewAuthMiddleware(svc)

	user := &domain.User{
		ID:         primitive.NewObjectID(),
		Username:   "frigga",
		Slug:       "frigga",
		IsVerified: true,
	}
	token, err := svc.Issue(context.Background(), user)
	require.NoError(t, err)

	t.Run("missing header is 401", func(t *testing.T) {
		t.Parallel()

		called := false
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)

		m.Authenticate(okHandler(t, &called)).ServeHTTP(rec, req)

		assert.False(t, called)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.False(t, env.Success)
		assert.Equal(t, "Unauthorized", env.Message)
	})

	t.Run("invalid token is 403", func(t *testing.T) {
		t.Parallel()

		called := false
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer not-a-real-token")

		m.Authenticate(okHandler(t, &called)).ServeHTTP(rec, req)

		assert.False(t, called)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.False(t, env.Success)
		assert.Equal(t, "Forbidden", env.Message)
		assert.NotEmpty(t, env.Errors)
	})

	t.Run("header without bearer scheme is 403", func(t *testing.T) {
		t.Parallel()

		called := false
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "garbage")

		m.Authenticate(okHandler(t, &called)).ServeHTTP(rec, req)

		assert.False(t, called)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("expired token is 403", func(t *testing.T) {
		t.Parallel()

		past := time.Now().Add(-48 * time.Hour)
		expiredSvc := auth.NewTestTokenService(testSecret, time.Hour, func() time.Time { return past })
		expired, err := expiredSvc.Issue(context.Background(), user)
		require.NoError(t, err)

		called := false
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+expired)

		m.Authenticate(okHandler(t, &called)).ServeHTTP(rec, req)

		assert.False(t, called)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("valid token admits and plants claims", func(t *testing.T) {
		t.Parallel()

		var gotClaims *auth.Claims
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotClaims, _ = GetClaims(r)
			w.WriteHeader(http.StatusOK)
		})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		m.Authenticate(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, gotClaims)
		assert.Equal(t, user.ID, gotClaims.UserID)
		assert.Equal(t, "frigga", gotClaims.Username)
	})
}

func TestRequireVerified(t *testing.T) {
	t.Parallel()

	m := NewAuthMiddleware(auth.NewTestTokenService(testSecret, 24*time.Hour, time.Now))

	tests := []struct {
		name       string
		claims     *auth.Claims
		wantStatus int
		wantNext   bool
	}{
		{
			name:       "verified user admitted",
			claims:     &auth.Claims{UserID: primitive.NewObjectID(), IsVerified: true},
			wantStatus: http.StatusOK,
			wantNext:   true,
		},
		{
			name:       "admin admitted even if unverified",
			claims:     &auth.Claims{UserID: primitive.NewObjectID(), IsAdmin: true},
			wantStatus: http.StatusOK,
			wantNext:   true,
		},
		{
			name:       "unverified user denied",
			claims:     &auth.Claims{UserID: primitive.NewObjectID()},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "no claims is 401",
			claims:     nil,
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			called := false
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/posts", nil)
			if tt.claims != nil {
				req = withClaims(req, tt.claims)
			}

			m.RequireVerified(okHandler(t, &called)).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantNext, called)
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	t.Parallel()

	m := NewAuthMiddleware(auth.NewTestTokenService(testSecret, 24*time.Hour, time.Now))

	tests := []struct {
		name       string
		claims     *auth.Claims
		wantStatus int
	}{
		{
			name:       "admin admitted",
			claims:     &auth.Claims{UserID: primitive.NewObjectID(), IsAdmin: true},
			wantStatus: http.StatusOK,
		},
		{
			name:       "verified non-admin denied",
			claims:     &auth.Claims{UserID: primitive.NewObjectID(), IsVerified: true},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "no claims is 401",
			claims:     nil,
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			called := false
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/categories", nil)
			if tt.claims != nil {
				req = withClaims(req, tt.claims)
			}

			m.RequireAdmin(okHandler(t, &called)).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestRequireSelf(t *testing.T) {
	t.Parallel()

	m := NewAuthMiddleware(auth.NewTestTokenService(testSecret, 24*time.Hour, time.Now))

	selfID := primitive.NewObjectID()
	self := &auth.Claims{UserID: selfID, Username: "loki", Slug: "loki"}
	admin := &auth.Claims{UserID: primitive.NewObjectID(), IsAdmin: true}

	tests := []struct {
		name       string
		claims     *auth.Claims
		segment    string
		wantStatus int
	}{
		{
			name:       "own id admitted",
			claims:     self,
			segment:    selfID.Hex(),
			wantStatus: http.StatusOK,
		},
		{
			name:       "own slug admitted",
			claims:     self,
			segment:    "loki",
			wantStatus: http.StatusOK,
		},
		{
			name:       "someone else's id denied",
			claims:     self,
			segment:    primitive.NewObjectID().Hex(),
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "someone else's slug denied",
			claims:     self,
			segment:    "thor",
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "admin admitted for any target",
			claims:     admin,
			segment:    selfID.Hex(),
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			called := false
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodDelete, "/users/"+tt.segment, nil)
			req = withClaims(req, tt.claims)
			req = withURLParam(req, "id", tt.segment)

			m.RequireSelf(okHandler(t, &called)).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestRequireSelfEmptySlugClaimNeverMatches(t *testing.T) {
	t.Parallel()

	m := NewAuthMiddleware(auth.NewTestTokenService(testSecret, 24*time.Hour, time.Now))

	// Claims with an empty slug must not match an empty path segment.
	claims := &auth.Claims{UserID: primitive.NewObjectID()}

	called := false
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/users/x", nil)
	req = withClaims(req, claims)
	req = withURLParam(req, "id", "")

	m.RequireSelf(okHandler(t, &called)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, called)
}

func TestRequirePostAuthor(t *testing.T) {
	t.Parallel()

	authorID := primitive.NewObjectID()
	postID := primitive.NewObjectID()

	posts := &fakePostStore{owners: map[string]primitive.ObjectID{
		postID.Hex(): authorID,
		"my-post":    authorID,
	}}
	m := NewOwnershipMiddleware(posts, &fakeCommentStore{})

	tests := []struct {
		name       string
		claims     *auth.Claims
		segment    string
		wantStatus int
	}{
		{
			name:       "author admitted by id",
			claims:     &auth.Claims{UserID: authorID},
			segment:    postID.Hex(),
			wantStatus: http.StatusOK,
		},
		{
			name:       "author admitted by slug",
			claims:     &auth.Claims{UserID: authorID},
			segment:    "my-post",
			wantStatus: http.StatusOK,
		},
		{
			name:       "non-author denied",
			claims:     &auth.Claims{UserID: primitive.NewObjectID()},
			segment:    postID.Hex(),
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "missing post is 404",
			claims:     &auth.Claims{UserID: authorID},
			segment:    "no-such-post",
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "admin bypasses the lookup",
			claims:     &auth.Claims{UserID: primitive.NewObjectID(), IsAdmin: true},
			segment:    "no-such-post",
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			called := false
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodDelete, "/posts/"+tt.segment, nil)
			req = withClaims(req, tt.claims)
			req = withURLParam(req, "id", tt.segment)

			m.RequirePostAuthor(okHandler(t, &called)).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestRequirePostAuthorStorageError(t *testing.T) {
	t.Parallel()

	m := NewOwnershipMiddleware(&fakePostStore{failing: true}, &fakeCommentStore{})

	called := false
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/posts/my-post", nil)
	req = withClaims(req, &auth.Claims{UserID: primitive.NewObjectID()})
	req = withURLParam(req, "id", "my-post")

	m.RequirePostAuthor(okHandler(t, &called)).ServeHTTP(rec, req)

	// Fail closed: an undecidable ownership check must not admit.
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.False(t, called)
}

func TestRequireCommentAuthor(t *testing.T) {
	t.Parallel()

	authorID := primitive.NewObjectID()
	commentID := primitive.NewObjectID()

	comments := &fakeCommentStore{owners: map[primitive.ObjectID]primitive.ObjectID{
		commentID: authorID,
	}}
	m := NewOwnershipMiddleware(&fakePostStore{}, comments)

	tests := []struct {
		name       string
		claims     *auth.Claims
		segment    string
		wantStatus int
	}{
		{
			name:       "author admitted",
			claims:     &auth.Claims{UserID: authorID},
			segment:    commentID.Hex(),
			wantStatus: http.StatusOK,
		},
		{
			name:       "non-author denied",
			claims:     &auth.Claims{UserID: primitive.NewObjectID()},
			segment:    commentID.Hex(),
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "missing comment is 404",
			claims:     &auth.Claims{UserID: authorID},
			segment:    primitive.NewObjectID().Hex(),
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "non-id segment is 404",
			claims:     &auth.Claims{UserID: authorID},
			segment:    "not-an-id",
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "admin bypasses the lookup",
			claims:     &auth.Claims{UserID: primitive.NewObjectID(), IsAdmin: true},
			segment:    "not-an-id",
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			called := false
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodDelete, "/comments/"+tt.segment, nil)
			req = withClaims(req, tt.claims)
			req = withURLParam(req, "id", tt.segment)

			m.RequireCommentAuthor(okHandler(t, &called)).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

var _ store.PostStore = (*fakePostStore)(nil)
var _ store.CommentStore = (*fakeCommentStore)(nil)
