package domain

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Common validation errors
var (
	ErrEmptyFirstName = errors.New("first name cannot be empty")
	ErrEmptyLastName  = errors.New("last name cannot be empty")
	ErrEmptyUsername  = errors.New("username cannot be empty")
	ErrEmptyEmail     = errors.New("email cannot be empty")
	ErrEmptyPassword  = errors.New("password cannot be empty")
)

// User represents a registered user of the Horizons blogging platform.
// The plaintext password never lives on the entity; callers hash it before
// the user is constructed or updated.
type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"       json:"id"`
	FirstName      string             `bson:"firstName"           json:"firstName"`
	LastName       string             `bson:"lastName"            json:"lastName"`
	Username       string             `bson:"username"            json:"username"`
	Slug           string             `bson:"slug"                json:"slug"`
	Email          string             `bson:"email"               json:"email"`
	HashedPassword string             `bson:"password"            json:"-"`
	IsVerified     bool               `bson:"isVerified"          json:"isVerified"`
	IsAdmin        bool               `bson:"isAdmin"             json:"isAdmin"`
	CreatedAt      time.Time          `bson:"createdAt,omitempty" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt,omitempty" json:"updatedAt"`
}

// NewUser creates a new unverified, non-admin User with the given identity
// fields and an already-hashed password. The slug is assigned by the caller
// via the slug generator before the user is stored.
// Returns an error if validation fails.
func NewUser(firstName, lastName, username, email, hashedPassword string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:             primitive.NewObjectID(),
		FirstName:      firstName,
		LastName:       lastName,
		Username:       username,
		Email:          email,
		HashedPassword: hashedPassword,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
// Returns an error if any required field is missing.
func (u *User) Validate() error {
	if u.FirstName == "" {
		return ErrEmptyFirstName
	}
	if u.LastName == "" {
		return ErrEmptyLastName
	}
	if u.Username == "" {
		return ErrEmptyUsername
	}
	if u.Email == "" {
		return ErrEmptyEmail
	}
	if u.HashedPassword == "" {
		return ErrEmptyPassword
	}
	return nil
}

// FullName returns the user's first and last name joined with a space.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// UserUpdate is the allow-listed field set for partial user updates.
// A nil pointer means the field was omitted from the request; a non-nil
// pointer to a zero value is an explicit assignment. This distinction is
// deliberate so a PATCH can clear a field without being mistaken for
// "not provided".
type UserUpdate struct {
	FirstName      *string
	LastName       *string
	Username       *string
	Email          *string
	HashedPassword *string
}

// Apply copies the provided fields onto the user and bumps UpdatedAt.
// It reports whether the username changed, which callers use to decide
// whether the slug must be re-derived.
func (u *UserUpdate) Apply(user *User) (usernameChanged bool) {
	if u.FirstName != nil {
		user.FirstName = *u.FirstName
	}
	if u.LastName != nil {
		user.LastName = *u.LastName
	}
	if u.Username != nil && *u.Username != user.Username {
		user.Username = *u.Username
		usernameChanged = true
	}
	if u.Email != nil {
		user.Email = *u.Email
	}
	if u.HashedPassword != nil {
		user.HashedPassword = *u.HashedPassword
	}
	user.UpdatedAt = time.Now().UTC()
	return usernameChanged
}
