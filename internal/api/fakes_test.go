package api

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/matthewaubert/horizons-api/internal/domain"
	"github.com/matthewaubert/horizons-api/internal/store"
)

// fakeUserStore is an in-memory UserStore with the same uniqueness rules as
// the real collection.
type fakeUserStore struct {
	users []*domain.User
}

var _ store.UserStore = (*fakeUserStore)(nil)

func (f *fakeUserStore) Create(_ context.Context, user *domain.User) error {
	for _, existing := range f.users {
		switch {
		case existing.Email == user.Email:
			return store.ErrEmailExists
		case existing.Username == user.Username:
			return store.ErrUsernameExists
		case existing.Slug == user.Slug:
			return store.ErrSlugExists
		}
	}
	clone := *user
	f.users = append(f.users, &clone)
	return nil
}

func (f *fakeUserStore) find(ref store.Ref) *domain.User {
	for _, user := range f.users {
		if ref.IsID() && user.ID == ref.ID() {
			return user
		}
		if !ref.IsID() && user.Slug == ref.Slug() {
			return user
		}
	}
	return nil
}

func (f *fakeUserStore) GetByRef(_ context.Context, ref store.Ref) (*domain.User, error) {
	if user := f.find(ref); user != nil {
		clone := *user
		return &clone, nil
	}
	return nil, store.ErrUserNotFound
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (f *fakeUserStore) List(_ context.Context, _ store.ListOptions) ([]*domain.User, error) {
	out := make([]*domain.User, len(f.users))
	for i, user := range f.users {
		clone := *user
		out[i] = &clone
	}
	return out, nil
}

func (f *fakeUserStore) Replace(_ context.Context, user *domain.User) error {
	for i, existing := range f.users {
		if existing.ID == user.ID {
			clone := *user
			f.users[i] = &clone
			return nil
		}
	}
	return store.ErrUserNotFound
}

func (f *fakeUserStore) SetVerified(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	if user := f.find(store.RefForID(id)); user != nil {
		user.IsVerified = true
		clone := *user
		return &clone, nil
	}
	return nil, store.ErrUserNotFound
}

func (f *fakeUserStore) Delete(_ context.Context, ref store.Ref) error {
	for i, user := range f.users {
		if (ref.IsID() && user.ID == ref.ID()) || (!ref.IsID() && user.Slug == ref.Slug()) {
			f.users = append(f.users[:i], f.users[i+1:]...)
			return nil
		}
	}
	return store.ErrUserNotFound
}

func (f *fakeUserStore) FindIDBySlug(_ context.Context, slug string) (primitive.ObjectID, bool, error) {
	for _, user := range f.users {
		if user.Slug == slug {
			return user.ID, true, nil
		}
	}
	return primitive.NilObjectID, false, nil
}

// fakePostStore is an in-memory PostStore.
type fakePostStore struct {
	posts []*domain.Post
}

var _ store.PostStore = (*fakePostStore)(nil)

func (f *fakePostStore) Create(_ context.Context, post *domain.Post) error {
	for _, existing := range f.posts {
		if existing.Slug == post.Slug {
			return store.ErrSlugExists
		}
	}
	clone := *post
	f.posts = append(f.posts, &clone)
	return nil
}

func (f *fakePostStore) find(ref store.Ref) *domain.Post {
	for _, post := range f.posts {
		if ref.IsID() && post.ID == ref.ID() {
			return post
		}
		if !ref.IsID() && post.Slug == ref.Slug() {
			return post
		}
	}
	return nil
}

func (f *fakePostStore) GetByRef(_ context.Context, ref store.Ref) (*domain.Post, error) {
	if post := f.find(ref); post != nil {
		clone := *post
		return &clone, nil
	}
	return nil, store.ErrPostNotFound
}

func (f *fakePostStore) List(_ context.Context, _ store.ListOptions) ([]*domain.Post, error) {
	out := make([]*domain.Post, len(f.posts))
	for i, post := range f.posts {
		clone := *post
		out[i] = &clone
	}
	return out, nil
}

func (f *fakePostStore) Replace(_ context.Context, post *domain.Post) error {
	for i, existing := range f.posts {
		if existing.ID == post.ID {
			clone := *post
			f.posts[i] = &clone
			return nil
		}
	}
	return store.ErrPostNotFound
}

func (f *fakePostStore) Delete(_ context.Context, ref store.Ref) error {
	for i, post := range f.posts {
		if (ref.IsID() && post.ID == ref.ID()) || (!ref.IsID() && post.Slug == ref.Slug()) {
			f.posts = append(f.posts[:i], f.posts[i+1:]...)
			return nil
		}
	}
	return store.ErrPostNotFound
}

func (f *fakePostStore) GetOwner(_ context.Context, ref store.Ref) (primitive.ObjectID, error) {
	if post := f.find(ref); post != nil {
		return post.User, nil
	}
	return primitive.NilObjectID, store.ErrPostNotFound
}

func (f *fakePostStore) FindIDBySlug(_ context.Context, slug string) (primitive.ObjectID, bool, error) {
	for _, post := range f.posts {
		if post.Slug == slug {
			return post.ID, true, nil
		}
	}
	return primitive.NilObjectID, false, nil
}

// fakeCommentStore is an in-memory CommentStore.
type fakeCommentStore struct {
	comments []*domain.Comment
}

var _ store.CommentStore = (*fakeCommentStore)(nil)

func (f *fakeCommentStore) Create(_ context.Context, comment *domain.Comment) error {
	clone := *comment
	f.comments = append(f.comments, &clone)
	return nil
}

func (f *fakeCommentStore) GetByID(_ context.Context, id, postID primitive.ObjectID) (*domain.Comment, error) {
	for _, comment := range f.comments {
		if comment.ID == id && comment.Post == postID {
			clone := *comment
			return &clone, nil
		}
	}
	return nil, store.ErrCommentNotFound
}

func (f *fakeCommentStore) ListByPost(_ context.Context, postID primitive.ObjectID, _ store.ListOptions) ([]*domain.Comment, error) {
	var out []*domain.Comment
	for _, comment := range f.comments {
		if comment.Post == postID {
			clone := *comment
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (f *fakeCommentStore) Replace(_ context.Context, comment *domain.Comment) error {
	for i, existing := range f.comments {
		if existing.ID == comment.ID {
			clone := *comment
			f.comments[i] = &clone
			return nil
		}
	}
	return store.ErrCommentNotFound
}

func (f *fakeCommentStore) Delete(_ context.Context, id, postID primitive.ObjectID) error {
	for i, comment := range f.comments {
		if comment.ID == id && comment.Post == postID {
			f.comments = append(f.comments[:i], f.comments[i+1:]...)
			return nil
		}
	}
	return store.ErrCommentNotFound
}

func (f *fakeCommentStore) GetOwner(_ context.Context, id primitive.ObjectID) (primitive.ObjectID, error) {
	for _, comment := range f.comments {
		if comment.ID == id {
			return comment.User, nil
		}
	}
	return primitive.NilObjectID, store.ErrCommentNotFound
}

// fakeCategoryStore is an in-memory CategoryStore with the same uniqueness
// rules as the real collection.
type fakeCategoryStore struct {
	categories []*domain.Category
}

var _ store.CategoryStore = (*fakeCategoryStore)(nil)

func (f *fakeCategoryStore) Create(_ context.Context, category *domain.Category) error {
	for _, existing := range f.categories {
		switch {
		case existing.Name == category.Name:
			return store.ErrNameExists
		case existing.Slug == category.Slug:
			return store.ErrSlugExists
		}
	}
	clone := *category
	f.categories = append(f.categories, &clone)
	return nil
}

func (f *fakeCategoryStore) find(ref store.Ref) *domain.Category {
	for _, category := range f.categories {
		if ref.IsID() && category.ID == ref.ID() {
			return category
		}
		if !ref.IsID() && category.Slug == ref.Slug() {
			return category
		}
	}
	return nil
}

func (f *fakeCategoryStore) GetByRef(_ context.Context, ref store.Ref) (*domain.Category, error) {
	if category := f.find(ref); category != nil {
		clone := *category
		return &clone, nil
	}
	return nil, store.ErrCategoryNotFound
}

func (f *fakeCategoryStore) List(_ context.Context, _ store.ListOptions) ([]*domain.Category, error) {
	out := make([]*domain.Category, len(f.categories))
	for i, category := range f.categories {
		clone := *category
		out[i] = &clone
	}
	return out, nil
}

func (f *fakeCategoryStore) Replace(_ context.Context, category *domain.Category) error {
	for i, existing := range f.categories {
		if existing.ID == category.ID {
			clone := *category
			f.categories[i] = &clone
			return nil
		}
	}
	return store.ErrCategoryNotFound
}

func (f *fakeCategoryStore) Delete(_ context.Context, ref store.Ref) error {
	for i, category := range f.categories {
		if (ref.IsID() && category.ID == ref.ID()) || (!ref.IsID() && category.Slug == ref.Slug()) {
			f.categories = append(f.categories[:i], f.categories[i+1:]...)
			return nil
		}
	}
	return store.ErrCategoryNotFound
}

func (f *fakeCategoryStore) Exists(_ context.Context, id primitive.ObjectID) (bool, error) {
	for _, category := range f.categories {
		if category.ID == id {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeCategoryStore) FindIDBySlug(_ context.Context, slug string) (primitive.ObjectID, bool, error) {
	for _, category := range f.categories {
		if category.Slug == slug {
			return category.ID, true, nil
		}
	}
	return primitive.NilObjectID, false, nil
}
