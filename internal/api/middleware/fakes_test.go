package middleware

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/matthewaubert/horizons-api/internal/domain"
	"github.com/matthewaubert/horizons-api/internal/store"
)

// fakePostStore backs the ownership guard tests. Only the owner edge is
// modeled; owners maps a ref's string form to the author id.
type fakePostStore struct {
	owners  map[string]primitive.ObjectID
	failing bool
}

func (f *fakePostStore) GetOwner(_ context.Context, ref store.Ref) (primitive.ObjectID, error) {
	if f.failing {
		return primitive.NilObjectID, errors.New("storage unavailable")
	}
	owner, ok := f.owners[ref.String()]
	if !ok {
		return primitive.NilObjectID, store.ErrPostNotFound
	}
	return owner, nil
}

func (f *fakePostStore) Create(context.Context, *domain.Post) error { return nil }

func (f *fakePostStore) GetByRef(context.Context, store.Ref) (*domain.Post, error) {
	return nil, store.ErrPostNotFound
}

func (f *fakePostStore) List(context.Context, store.ListOptions) ([]*domain.Post, error) {
	return nil, nil
}

func (f *fakePostStore) Replace(context.Context, *domain.Post) error { return nil }

func (f *fakePostStore) Delete(context.Context, store.Ref) error { return nil }

func (f *fakePostStore) FindIDBySlug(context.Context, string) (primitive.ObjectID, bool, error) {
	return primitive.NilObjectID, false, nil
}

// fakeCommentStore backs the ownership guard tests.
type fakeCommentStore struct {
	owners map[primitive.ObjectID]primitive.ObjectID
}

func (f *fakeCommentStore) GetOwner(_ context.Context, id primitive.ObjectID) (primitive.ObjectID, error) {
	owner, ok := f.owners[id]
	if !ok {
		return primitive.NilObjectID, store.ErrCommentNotFound
	}
	return owner, nil
}

func (f *fakeCommentStore) Create(context.Context, *domain.Comment) error { return nil }

func (f *fakeCommentStore) GetByID(context.Context, primitive.ObjectID, primitive.ObjectID) (*domain.Comment, error) {
	return nil, store.ErrCommentNotFound
}

func (f *fakeCommentStore) ListByPost(context.Context, primitive.ObjectID, store.ListOptions) ([]*domain.Comment, error) {
	return nil, nil
}

func (f *fakeCommentStore) Replace(context.Context, *domain.Comment) error { return nil }

func (f *fakeCommentStore) Delete(context.Context, primitive.ObjectID, primitive.ObjectID) error {
	return nil
}
