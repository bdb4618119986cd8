// Package slugger derives unique, URL-safe slugs for named entities.
package slugger

import (
	"context"
	"errors"
	"fmt"

	gosimple "github.com/gosimple/slug"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/matthewaubert/horizons-api/internal/domain"
)

// ErrSlugConflict is returned when no free slug was found within the retry
// bound. The HTTP layer maps it to 409.
var ErrSlugConflict = errors.New("could not derive a unique slug")

// DefaultMaxAttempts bounds the numeric-suffix probe. The loop against the
// store is check-then-act with no exclusivity guarantee, so it must not run
// unbounded; the storage layer's unique index on slug is the final backstop.
const DefaultMaxAttempts = 100

// Lookup is the uniqueness probe a collection exposes to the generator.
// The found flag is false when no entity holds the slug.
type Lookup interface {
	FindIDBySlug(ctx context.Context, slug string) (primitive.ObjectID, bool, error)
}

// Generator derives unique slugs against a collection's Lookup.
type Generator struct {
	maxAttempts int
}

// New creates a Generator with the default retry bound.
func New() *Generator {
	return &Generator{maxAttempts: DefaultMaxAttempts}
}

// Unique transliterates source into a lowercase hyphenated slug and probes
// the collection until it finds a form no other entity holds, appending -1,
// -2, ... as needed. An entity whose id equals excludeID does not count as
// a collision, so re-saving an entity with an unchanged source keeps its
// slug. Pass the zero ObjectID for creations.
//
// Returns domain.ErrEmptySlugSource if source transliterates to nothing and
// ErrSlugConflict if the retry bound is exhausted.
func (g *Generator) Unique(
	ctx context.Context,
	source string,
	lookup Lookup,
	excludeID primitive.ObjectID,
) (string, error) {
	// e.g. "Söme stüff with áccènts!" => "some-stuff-with-accents"
	base := gosimple.Make(source)
	if base == "" {
		return "", fmt.Errorf("%w: %q", domain.ErrEmptySlugSource, source)
	}

	candidate := base
	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		holderID, found, err := lookup.FindIDBySlug(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("failed to probe slug %q: %w", candidate, err)
		}

		if !found || holderID == excludeID {
			return candidate, nil
		}

		candidate = fmt.Sprintf("%s-%d", base, attempt)
	}

	return "", fmt.Errorf("%w: exhausted %d candidates for %q", ErrSlugConflict, g.maxAttempts, base)
}
