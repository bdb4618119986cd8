package domain

import (
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Common validation errors
var (
	ErrEmptyTitle     = errors.New("title cannot be empty")
	ErrEmptyContent   = errors.New("content cannot be empty")
	ErrEmptyPostOwner = errors.New("post must have an author")
)

// DisplayImage holds the cover image metadata for a post.
type DisplayImage struct {
	URL         string `bson:"url,omitempty"         json:"url,omitempty"`
	Attribution string `bson:"attribution,omitempty" json:"attribution,omitempty"`
	Source      string `bson:"source,omitempty"      json:"source,omitempty"`
}

// Post represents a blog post. The author edge is set once at creation and
// never reassigned; authorization decisions compare against it directly.
type Post struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"        json:"id"`
	Title       string             `bson:"title"                json:"title"`
	Slug        string             `bson:"slug"                 json:"slug"`
	Content     string             `bson:"content"              json:"content"`
	User        primitive.ObjectID `bson:"user"                 json:"user"`
	IsPublished bool               `bson:"isPublished"          json:"isPublished"`
	Category    primitive.ObjectID `bson:"category,omitempty"   json:"category,omitempty"`
	Tags        []string           `bson:"tags,omitempty"       json:"tags,omitempty"`
	DisplayImg  *DisplayImage      `bson:"displayImg,omitempty" json:"displayImg,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt,omitempty"  json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt,omitempty"  json:"updatedAt"`
}

// NewPost creates a new Post authored by the given user. Tags are lowercased
// to match how they are queried. The slug is assigned by the caller via the
// slug generator before the post is stored.
// Returns an error if validation fails.
func NewPost(title, content string, author primitive.ObjectID) (*Post, error) {
	now := time.Now().UTC()
	post := &Post{
		ID:        primitive.NewObjectID(),
		Title:     title,
		Content:   content,
		User:      author,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := post.Validate(); err != nil {
		return nil, err
	}

	return post, nil
}

// Validate checks if the Post has valid data.
func (p *Post) Validate() error {
	if p.Title == "" {
		return ErrEmptyTitle
	}
	if p.Content == "" {
		return ErrEmptyContent
	}
	if p.User.IsZero() {
		return ErrEmptyPostOwner
	}
	return nil
}

// SetTags lowercases and assigns the given tags.
func (p *Post) SetTags(tags []string) {
	if tags == nil {
		p.Tags = nil
		return
	}
	lowered := make([]string, len(tags))
	for i, tag := range tags {
		lowered[i] = strings.ToLower(tag)
	}
	p.Tags = lowered
}

// PostUpdate is the allow-listed field set for partial post updates.
// Nil means omitted; a pointer to a zero value is an explicit assignment
// (so IsPublished can be set back to false and Tags can be cleared).
type PostUpdate struct {
	Title       *string
	Content     *string
	IsPublished *bool
	Category    *primitive.ObjectID
	Tags        *[]string
	DisplayImg  *DisplayImage
}

// Apply copies the provided fields onto the post and bumps UpdatedAt.
// It reports whether the title changed, which callers use to decide whether
// the slug must be re-derived.
func (u *PostUpdate) Apply(post *Post) (titleChanged bool) {
	if u.Title != nil && *u.Title != post.Title {
		post.Title = *u.Title
		titleChanged = true
	}
	if u.Content != nil {
		post.Content = *u.Content
	}
	if u.IsPublished != nil {
		post.IsPublished = *u.IsPublished
	}
	if u.Category != nil {
		post.Category = *u.Category
	}
	if u.Tags != nil {
		post.SetTags(*u.Tags)
	}
	if u.DisplayImg != nil {
		post.DisplayImg = u.DisplayImg
	}
	post.UpdatedAt = time.Now().UTC()
	return titleChanged
}
