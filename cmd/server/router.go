package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matthewaubert/horizons-api/internal/api"
	apimiddleware "github.com/matthewaubert/horizons-api/internal/api/middleware"
)

// setupRouter configures the application router with all routes and
// middleware. Guard chains run in declaration order; a denial
// short-circuits before the handler.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apimiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(app.users, app.tokens, app.hasher)
	userHandler := api.NewUserHandler(app.users, app.tokens, app.hasher, app.slugs)
	postHandler := api.NewPostHandler(app.posts, app.categories, app.slugs)
	commentHandler := api.NewCommentHandler(app.comments, app.posts)
	categoryHandler := api.NewCategoryHandler(app.categories, app.slugs)
	verificationHandler := api.NewVerificationHandler(app.users, app.tokens, app.mailer)

	authMiddleware := apimiddleware.NewAuthMiddleware(app.tokens)
	ownership := apimiddleware.NewOwnershipMiddleware(app.posts, app.comments)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", authHandler.Login)

		// Users. Reads and signup are public; mutation is self-or-admin.
		r.Get("/users", userHandler.List)
		r.Post("/users", userHandler.Create)
		r.Get("/users/{id}", userHandler.Get)
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Use(authMiddleware.RequireSelf)
			r.Put("/users/{id}", userHandler.Replace)
			r.Patch("/users/{id}", userHandler.Update)
			r.Delete("/users/{id}", userHandler.Delete)
		})

		// Posts. Reads are public; creation requires a verified account and
		// mutation requires authorship.
		r.Get("/posts", postHandler.List)
		r.Get("/posts/{id}", postHandler.Get)
		r.With(authMiddleware.Authenticate, authMiddleware.RequireVerified).
			Post("/posts", postHandler.Create)
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Use(ownership.RequirePostAuthor)
			r.Put("/posts/{id}", postHandler.Replace)
			r.Patch("/posts/{id}", postHandler.Update)
			r.Delete("/posts/{id}", postHandler.Delete)
		})

		// Comments, nested under their post.
		r.Get("/posts/{postId}/comments", commentHandler.List)
		r.Get("/posts/{postId}/comments/{id}", commentHandler.Get)
		r.With(authMiddleware.Authenticate, authMiddleware.RequireVerified).
			Post("/posts/{postId}/comments", commentHandler.Create)
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Use(ownership.RequireCommentAuthor)
			r.Put("/posts/{postId}/comments/{id}", commentHandler.Replace)
			r.Patch("/posts/{postId}/comments/{id}", commentHandler.Update)
			r.Delete("/posts/{postId}/comments/{id}", commentHandler.Delete)
		})

		// Categories. Reads are public; writes are admin-only.
		r.Get("/categories", categoryHandler.List)
		r.Get("/categories/{id}", categoryHandler.Get)
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Use(authMiddleware.RequireAdmin)
			r.Post("/categories", categoryHandler.Create)
			r.Put("/categories/{id}", categoryHandler.Replace)
			r.Patch("/categories/{id}", categoryHandler.Update)
			r.Delete("/categories/{id}", categoryHandler.Delete)
		})

		// Email verification for the authenticated caller.
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Post("/verification", verificationHandler.Send)
			r.Patch("/verification", verificationHandler.Confirm)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
