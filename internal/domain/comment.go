package domain

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Common validation errors
var (
	ErrEmptyText         = errors.New("text cannot be empty")
	ErrEmptyCommentOwner = errors.New("comment must have an author")
	ErrEmptyCommentPost  = errors.New("comment must belong to a post")
)

// Comment represents a comment on a post. The post edge is always stored by
// canonical id, never by slug, so nested lookups resolve the parent first.
type Comment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"       json:"id"`
	Text      string             `bson:"text"                json:"text"`
	User      primitive.ObjectID `bson:"user"                json:"user"`
	Post      primitive.ObjectID `bson:"post"                json:"post"`
	CreatedAt time.Time          `bson:"createdAt,omitempty" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt,omitempty" json:"updatedAt"`
}

// NewComment creates a new Comment by the given author on the given post.
// Returns an error if validation fails.
func NewComment(text string, author, post primitive.ObjectID) (*Comment, error) {
	now := time.Now().UTC()
	comment := &Comment{
		ID:        primitive.NewObjectID(),
		Text:      text,
		User:      author,
		Post:      post,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := comment.Validate(); err != nil {
		return nil, err
	}

	return comment, nil
}

// Validate checks if the Comment has valid data.
func (c *Comment) Validate() error {
	if c.Text == "" {
		return ErrEmptyText
	}
	if c.User.IsZero() {
		return ErrEmptyCommentOwner
	}
	if c.Post.IsZero() {
		return ErrEmptyCommentPost
	}
	return nil
}

// CommentUpdate is the allow-listed field set for partial comment updates.
type CommentUpdate struct {
	Text *string
}

// Apply copies the provided fields onto the comment and bumps UpdatedAt.
func (u *CommentUpdate) Apply(comment *Comment) {
	if u.Text != nil {
		comment.Text = *u.Text
	}
	comment.UpdatedAt = time.Now().UTC()
}
