package domain

import (
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrEmptyName is returned when a category has no name.
var ErrEmptyName = errors.New("name cannot be empty")

// Category represents a post category. Both the name and the derived slug
// are unique within the collection.
type Category struct {
	ID   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name string             `bson:"name"          json:"name"`
	Slug string             `bson:"slug"          json:"slug"`
}

// NewCategory creates a new Category with the given name. The slug is
// assigned by the caller via the slug generator before the category is stored.
// Returns an error if validation fails.
func NewCategory(name string) (*Category, error) {
	category := &Category{
		ID:   primitive.NewObjectID(),
		Name: name,
	}

	if err := category.Validate(); err != nil {
		return nil, err
	}

	return category, nil
}

// Validate checks if the Category has valid data.
func (c *Category) Validate() error {
	if c.Name == "" {
		return ErrEmptyName
	}
	return nil
}

// CategoryUpdate is the allow-listed field set for partial category updates.
type CategoryUpdate struct {
	Name *string
}

// Apply copies the provided fields onto the category. It reports whether the
// name changed, which callers use to decide whether the slug must be
// re-derived.
func (u *CategoryUpdate) Apply(category *Category) (nameChanged bool) {
	if u.Name != nil && *u.Name != category.Name {
		category.Name = *u.Name
		nameChanged = true
	}
	return nameChanged
}
