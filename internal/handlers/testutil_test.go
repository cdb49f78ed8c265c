package handlers

// Test fixture: a full Fiber app wired with in-memory stores, so handler
// tests exercise routing, auth middleware, services and response shapes
// together without Mongo or Redis.

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"devhub/internal/config"
	"devhub/internal/models"
	"devhub/internal/service"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"golang.org/x/crypto/bcrypt"
)

// memStore backs every repository interface the services consume.
type memStore struct {
	users    map[bson.ObjectID]*models.User
	profiles map[bson.ObjectID]*models.Profile
	posts    map[bson.ObjectID]*models.Post
	postIDs  []bson.ObjectID
	failures map[string]int64
}

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[bson.ObjectID]*models.User),
		profiles: make(map[bson.ObjectID]*models.Profile),
		posts:    make(map[bson.ObjectID]*models.Post),
		failures: make(map[string]int64),
	}
}

func (m *memStore) New(_ context.Context, user *models.User) (*models.User, error) {
	user.ID = bson.NewObjectID()
	stored := *user
	m.users[user.ID] = &stored
	return user, nil
}

func (m *memStore) FindByID(_ context.Context, id bson.ObjectID) (*models.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	found := *user
	return &found, nil
}

func (m *memStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range m.users {
		if strings.EqualFold(user.Email, email) {
			found := *user
			return &found, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (m *memStore) FindByIDs(_ context.Context, ids []bson.ObjectID) ([]*models.User, error) {
	var found []*models.User
	for _, id := range ids {
		if user, ok := m.users[id]; ok {
			u := *user
			found = append(found, &u)
		}
	}
	return found, nil
}

func (m *memStore) SetConfirmed(_ context.Context, id bson.ObjectID) (*models.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	user.Confirmed = true
	updated := *user
	return &updated, nil
}

func (m *memStore) Delete(_ context.Context, id bson.ObjectID) error {
	if _, ok := m.users[id]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(m.users, id)
	return nil
}

func (m *memStore) RecordFailure(_ context.Context, email string) (int64, error) {
	m.failures[email]++
	return m.failures[email], nil
}

func (m *memStore) Failures(_ context.Context, email string) (int64, error) {
	return m.failures[email], nil
}

func (m *memStore) Reset(_ context.Context, email string) error {
	delete(m.failures, email)
	return nil
}

type memProfileStore struct{ m *memStore }

func (s memProfileStore) FindByUserID(_ context.Context, userID bson.ObjectID) (*models.Profile, error) {
	profile, ok := s.m.profiles[userID]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	found := *profile
	return &found, nil
}

func (s memProfileStore) Upsert(_ context.Context, profile *models.Profile) (*models.Profile, error) {
	if existing, ok := s.m.profiles[profile.User]; ok {
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
	stored.Date = time.Now()
	s.m.profiles[profile.User] = &stored
	created := stored
	return &created, nil
}

func (s memProfileStore) Save(_ context.Context, profile *models.Profile) (*models.Profile, error) {
	if _, ok := s.m.profiles[profile.User]; !ok {
		return nil, mongo.ErrNoDocuments
	}
	stored := *profile
	s.m.profiles[profile.User] = &stored
	saved := stored
	return &saved, nil
}

func (s memProfileStore) FindAll(_ context.Context) ([]*models.Profile, error) {
	profiles := make([]*models.Profile, 0, len(s.m.profiles))
	for _, profile := range s.m.profiles {
		p := *profile
		profiles = append(profiles, &p)
	}
	return profiles, nil
}

func (s memProfileStore) DeleteByUserID(_ context.Context, userID bson.ObjectID) error {
	delete(s.m.profiles, userID)
	return nil
}

type memPostStore struct{ m *memStore }

func (s memPostStore) New(_ context.Context, post *models.Post) (*models.Post, error) {
	post.ID = bson.NewObjectID()
	post.Date = time.Now()
	if post.Likes == nil {
		post.Likes = []models.Like{}
	}
	if post.Comments == nil {
		post.Comments = []models.Comment{}
	}
	stored := *post
	s.m.posts[post.ID] = &stored
	s.m.postIDs = append(s.m.postIDs, post.ID)
	return post, nil
}

func (s memPostStore) FindByID(_ context.Context, id bson.ObjectID) (*models.Post, error) {
	post, ok := s.m.posts[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	found := *post
	return &found, nil
}

func (s memPostStore) FindAll(_ context.Context) ([]*models.Post, error) {
	posts := make([]*models.Post, 0, len(s.m.postIDs))
	for i := len(s.m.postIDs) - 1; i >= 0; i-- {
		if post, ok := s.m.posts[s.m.postIDs[i]]; ok {
			p := *post
			posts = append(posts, &p)
		}
	}
	return posts, nil
}

func (s memPostStore) Save(_ context.Context, post *models.Post) (*models.Post, error) {
	if _, ok := s.m.posts[post.ID]; !ok {
		return nil, mongo.ErrNoDocuments
	}
	stored := *post
	s.m.posts[post.ID] = &stored
	saved := stored
	return &saved, nil
}

func (s memPostStore) Delete(_ context.Context, id bson.ObjectID) error {
	if _, ok := s.m.posts[id]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(s.m.posts, id)
	return nil
}

func (s memPostStore) DeleteByUser(_ context.Context, userID bson.ObjectID) error {
	for id, post := range s.m.posts {
		if post.User == userID {
			delete(s.m.posts, id)
		}
	}
	return nil
}

type testApp struct {
	app    *fiber.App
	store  *memStore
	tokens *service.TokenService
}

func newTestApp(t *testing.T, githubBaseURL string) *testApp {
	t.Helper()

	store := newMemStore()
	tokens := service.NewTokenService(config.TokenConfig{
		SessionSecret: "test-session-secret",
		EmailSecret:   "test-email-secret",
		SessionTTL:    time.Hour,
		ConfirmTTL:    time.Hour,
	})

	userService := service.NewUserService(store, store, tokens, nil, "http://localhost:3000")
	profileService := service.NewProfileService(memProfileStore{store}, store, memPostStore{store}, nil)
	postService := service.NewPostService(memPostStore{store}, store)
	githubService := service.NewGithubService(config.GitHubConfig{APIBaseURL: githubBaseURL})

	app := fiber.New()
	NewAuthHandler(userService, tokens).RegisterRoutes(app)
	NewProfileHandler(profileService, githubService, tokens).RegisterRoutes(app)
	NewPostHandler(postService, tokens).RegisterRoutes(app)

	return &testApp{app: app, store: store, tokens: tokens}
}

// seedUser inserts a confirmed account and returns its session token.
func (ta *testApp) seedUser(t *testing.T, name, email string) (*models.User, string) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	require.NoError(t, err)

	user, err := ta.store.New(context.Background(), &models.User{
		Name:      name,
		Email:     email,
		Avatar:    "https://www.gravatar.com/avatar/test",
		Password:  string(hash),
		Confirmed: true,
		Date:      time.Now(),
	})
	require.NoError(t, err)

	token, err := ta.tokens.IssueSession(user.ID.Hex())
	require.NoError(t, err)
	return user, token
}

func (ta *testApp) request(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("x-auth-token", token)
	}

	resp, err := ta.app.Test(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}
