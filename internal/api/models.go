package api

import (
	"github.com/matthewaubert/horizons-api/internal/domain"
)

// Common request structures. PATCH bodies use pointer fields throughout: a
// nil pointer is "omitted", a pointer to a zero value is an explicit
// assignment. That distinction keeps "clear this field" expressible.

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// CreateUserRequest defines the payload for user signup. The slug is always
// derived from the username server-side, never accepted from the client.
type CreateUserRequest struct {
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName"  validate:"required,max=100"`
	Username  string `json:"username"  validate:"required,max=100"`
	Email     string `json:"email"     validate:"required,email,max=100"`
	Password  string `json:"password"  validate:"required,min=8,max=100"`
}

// ReplaceUserRequest defines the payload for a full user replacement (PUT).
type ReplaceUserRequest struct {
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName"  validate:"required,max=100"`
	Username  string `json:"username"  validate:"required,max=100"`
	Email     string `json:"email"     validate:"required,email,max=100"`
	Password  string `json:"password"  validate:"omitempty,min=8,max=100"`
}

// UpdateUserRequest defines the payload for a partial user update (PATCH).
type UpdateUserRequest struct {
	FirstName *string `json:"firstName" validate:"omitempty,min=1,max=100"`
	LastName  *string `json:"lastName"  validate:"omitempty,min=1,max=100"`
	Username  *string `json:"username"  validate:"omitempty,min=1,max=100"`
	Email     *string `json:"email"     validate:"omitempty,email,max=100"`
	Password  *string `json:"password"  validate:"omitempty,min=8,max=100"`
}

// CreatePostRequest defines the payload for post creation. Category is the
// hex id of an existing category.
type CreatePostRequest struct {
	Title       string               `json:"title"       validate:"required,max=100"`
	Content     string               `json:"content"     validate:"required"`
	IsPublished bool                 `json:"isPublished"`
	Category    string               `json:"category"    validate:"omitempty,len=24,hexadecimal"`
	Tags        []string             `json:"tags"`
	DisplayImg  *domain.DisplayImage `json:"displayImg"`
}

// UpdatePostRequest defines the payload for a partial post update (PATCH).
type UpdatePostRequest struct {
	Title       *string              `json:"title"       validate:"omitempty,min=1,max=100"`
	Content     *string              `json:"content"     validate:"omitempty,min=1"`
	IsPublished *bool                `json:"isPublished"`
	Category    *string              `json:"category"    validate:"omitempty,len=24,hexadecimal"`
	Tags        *[]string            `json:"tags"`
	DisplayImg  *domain.DisplayImage `json:"displayImg"`
}

// CreateCommentRequest defines the payload for comment creation.
type CreateCommentRequest struct {
	Text string `json:"text" validate:"required"`
}

// UpdateCommentRequest defines the payload for a partial comment update.
type UpdateCommentRequest struct {
	Text *string `json:"text" validate:"omitempty,min=1"`
}

// CreateCategoryRequest defines the payload for category creation.
type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// UpdateCategoryRequest defines the payload for a partial category update.
type UpdateCategoryRequest struct {
	Name *string `json:"name" validate:"omitempty,min=1,max=100"`
}
