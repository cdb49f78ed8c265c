package service

// In-memory store fakes. They satisfy the same interfaces the Mongo
// repositories do, including returning mongo.ErrNoDocuments for misses, so
// the services are exercised against the error behavior they see in
// production.

import (
	"context"
	"strings"

	"devhub/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type fakeUserStore struct {
	users map[bson.ObjectID]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[bson.ObjectID]*models.User)}
}

func (s *fakeUserStore) New(_ context.Context, user *models.User) (*models.User, error) {
	if user.ID.IsZero() {
		user.ID = bson.NewObjectID()
	}
	stored := *user
	s.users[user.ID] = &stored
	return user, nil
}

func (s *fakeUserStore) FindByID(_ context.Context, id bson.ObjectID) (*models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	found := *user
	return &found, nil
}

func (s *fakeUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range s.users {
		if strings.EqualFold(user.Email, email) {
			found := *user
			return &found, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (s *fakeUserStore) FindByIDs(_ context.Context, ids []bson.ObjectID) ([]*models.User, error) {
	var found []*models.User
	for _, id := range ids {
		if user, ok := s.users[id]; ok {
			u := *user
			found = append(found, &u)
		}
	}
	return found, nil
}

func (s *fakeUserStore) SetConfirmed(_ context.Context, id bson.ObjectID) (*models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	user.Confirmed = true
	updated := *user
	return &updated, nil
}

func (s *fakeUserStore) Delete(_ context.Context, id bson.ObjectID) error {
	if _, ok := s.users[id]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(s.users, id)
	return nil
}

type fakeLockoutStore struct {
	failures map[string]int64
}

func newFakeLockoutStore() *fakeLockoutStore {
	return &fakeLockoutStore{failures: make(map[string]int64)}
}

func (s *fakeLockoutStore) RecordFailure(_ context.Context, email string) (int64, error) {
	s.failures[email]++
	return s.failures[email], nil
}

func (s *fakeLockoutStore) Failures(_ context.Context, email string) (int64, error) {
	return s.failures[email], nil
}

func (s *fakeLockoutStore) Reset(_ context.Context, email string) error {
	delete(s.failures, email)
	return nil
}

type fakeProfileStore struct {
	profiles map[bson.ObjectID]*models.Profile
	order    []bson.ObjectID
}

func newFakeProfileStore() *fakeProfileStore {
	return &fakeProfileStore{profiles: make(map[bson.ObjectID]*models.Profile)}
}

func (s *fakeProfileStore) FindByUserID(_ context.Context, userID bson.ObjectID) (*models.Profile, error) {
	profile, ok := s.profiles[userID]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	found := *profile
	return &found, nil
}

func (s *fakeProfileStore) Upsert(_ context.Context, profile *models.Profile) (*models.Profile, error) {
	existing, ok := s.profiles[profile.User]
	if ok {
		// Scalar fields replaced, sub-documents untouched.
		existing.Company = profile.Company
		existing.Website = profile.Website
		existing.Location = profile.Location
		existing.Status = profile.Status
		existing.Skills = profile.Skills
		existing.Bio = profile.Bio
		existing.GithubUsername = profile.GithubUsername
		existing.Social = profile.Social
		updated := *existing
		return &updated, nil
	}

	stored := *profile
	stored.ID = bson.NewObjectID()
	s.profiles[profile.User] = &stored
	s.order = append(s.order, profile.User)
	created := stored
	return &created, nil
}

func (s *fakeProfileStore) Save(_ context.Context, profile *models.Profile) (*models.Profile, error) {
	if _, ok := s.profiles[profile.User]; !ok {
		return nil, mongo.ErrNoDocuments
	}
	stored := *profile
	s.profiles[profile.User] = &stored
	saved := stored
	return &saved, nil
}

func (s *fakeProfileStore) FindAll(_ context.Context) ([]*models.Profile, error) {
	profiles := make([]*models.Profile, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		if profile, ok := s.profiles[s.order[i]]; ok {
			p := *profile
			profiles = append(profiles, &p)
		}
	}
	return profiles, nil
}

func (s *fakeProfileStore) DeleteByUserID(_ context.Context, userID bson.ObjectID) error {
	delete(s.profiles, userID)
	return nil
}

type fakePostStore struct {
	posts map[bson.ObjectID]*models.Post
	order []bson.ObjectID
}

func newFakePostStore() *fakePostStore {
	return &fakePostStore{posts: make(map[bson.ObjectID]*models.Post)}
}

func (s *fakePostStore) New(_ context.Context, post *models.Post) (*models.Post, error) {
	post.ID = bson.NewObjectID()
	if post.Likes == nil {
		post.Likes = []models.Like{}
	}
	if post.Comments == nil {
		post.Comments = []models.Comment{}
	}
	stored := *post
	s.posts[post.ID] = &stored
	s.order = append(s.order, post.ID)
	return post, nil
}

func (s *fakePostStore) FindByID(_ context.Context, id bson.ObjectID) (*models.Post, error) {
	post, ok := s.posts[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	found := *post
	return &found, nil
}

func (s *fakePostStore) FindAll(_ context.Context) ([]*models.Post, error) {
	posts := make([]*models.Post, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		if post, ok := s.posts[s.order[i]]; ok {
			p := *post
			posts = append(posts, &p)
		}
	}
	return posts, nil
}

func (s *fakePostStore) Save(_ context.Context, post *models.Post) (*models.Post, error) {
	if _, ok := s.posts[post.ID]; !ok {
		return nil, mongo.ErrNoDocuments
	}
	stored := *post
	s.posts[post.ID] = &stored
	saved := stored
	return &saved, nil
}

func (s *fakePostStore) Delete(_ context.Context, id bson.ObjectID) error {
	if _, ok := s.posts[id]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(s.posts, id)
	return nil
}

func (s *fakePostStore) DeleteByUser(_ context.Context, userID bson.ObjectID) error {
	for id, post := range s.posts {
		if post.User == userID {
			delete(s.posts, id)
		}
	}
	return nil
}
