// Package api is the typed HTTP client for the DevHub REST surface. The
// store's action layer drives it; nothing else performs network calls.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"devhub/internal/apperror"
	"devhub/internal/models"
)

// Error is a failed API call: the HTTP status plus the server's structured
// payload.
type Error struct {
	StatusCode int
	Msg        string                `json:"msg"`
	Fields     []apperror.FieldError `json:"errors"`
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("api: %d %s", e.StatusCode, e.Msg)
	}
	return fmt.Sprintf("api: status %d", e.StatusCode)
}

type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// SetToken installs the session token sent on subsequent requests. An empty
// token clears it.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("x-auth-token", token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := &Error{StatusCode: resp.StatusCode}
		// A decode failure leaves the bare status error.
		json.NewDecoder(resp.Body).Decode(apiErr)
		return apiErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

func (c *Client) Register(ctx context.Context, req models.RegisterRequest) error {
	return c.do(ctx, http.MethodPost, "/api/users", req, nil)
}

// Login returns the session token without installing it; the action layer
// decides when to adopt it.
func (c *Client) Login(ctx context.Context, req models.LoginRequest) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/auth", req, &out); err != nil {
		return "", err
	}
	return out.Token, nil
}

func (c *Client) ConfirmEmail(ctx context.Context, confirmToken string) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPut, "/api/users/confirm/"+confirmToken, nil, &out); err != nil {
		return "", err
	}
	return out.Token, nil
}

func (c *Client) CurrentUser(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, "/api/auth", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) MyProfile(ctx context.Context) (*models.ProfileView, error) {
	var profile models.ProfileView
	if err := c.do(ctx, http.MethodGet, "/api/profile/me", nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (c *Client) Profiles(ctx context.Context) ([]*models.ProfileView, error) {
	var profiles []*models.ProfileView
	if err := c.do(ctx, http.MethodGet, "/api/profile", nil, &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

func (c *Client) ProfileByUser(ctx context.Context, userID string) (*models.ProfileView, error) {
	var profile models.ProfileView
	if err := c.do(ctx, http.MethodGet, "/api/profile/user/"+userID, nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (c *Client) UpsertProfile(ctx context.Context, req models.UpsertProfileRequest) (*models.ProfileView, error) {
	var profile models.ProfileView
	if err := c.do(ctx, http.MethodPost, "/api/profile", req, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (c *Client) AddExperience(ctx context.Context, req models.ExperienceRequest) (*models.ProfileView, error) {
	var profile models.ProfileView
	if err := c.do(ctx, http.MethodPut, "/api/profile/experience", req, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (c *Client) DeleteExperience(ctx context.Context, entryID string) (*models.ProfileView, error) {
	var profile models.ProfileView
	if err := c.do(ctx, http.MethodDelete, "/api/profile/experience/"+entryID, nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (c *Client) AddEducation(ctx context.Context, req models.EducationRequest) (*models.ProfileView, error) {
	var profile models.ProfileView
	if err := c.do(ctx, http.MethodPut, "/api/profile/education", req, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (c *Client) DeleteEducation(ctx context.Context, entryID string) (*models.ProfileView, error) {
	var profile models.ProfileView
	if err := c.do(ctx, http.MethodDelete, "/api/profile/education/"+entryID, nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (c *Client) DeleteAccount(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/api/profile", nil, nil)
}

func (c *Client) GithubRepos(ctx context.Context, username string) ([]models.GithubRepo, error) {
	var repos []models.GithubRepo
	if err := c.do(ctx, http.MethodGet, "/api/profile/github/"+username, nil, &repos); err != nil {
		return nil, err
	}
	return repos, nil
}

func (c *Client) Posts(ctx context.Context) ([]*models.Post, error) {
	var posts []*models.Post
	if err := c.do(ctx, http.MethodGet, "/api/posts", nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (c *Client) Post(ctx context.Context, postID string) (*models.Post, error) {
	var post models.Post
	if err := c.do(ctx, http.MethodGet, "/api/posts/"+postID, nil, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (c *Client) CreatePost(ctx context.Context, req models.PostRequest) (*models.Post, error) {
	var post models.Post
	if err := c.do(ctx, http.MethodPost, "/api/posts", req, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (c *Client) DeletePost(ctx context.Context, postID string) error {
	return c.do(ctx, http.MethodDelete, "/api/posts/"+postID, nil, nil)
}

func (c *Client) LikePost(ctx context.Context, postID string) ([]models.Like, error) {
	var likes []models.Like
	if err := c.do(ctx, http.MethodPut, "/api/posts/like/"+postID, nil, &likes); err != nil {
		return nil, err
	}
	return likes, nil
}

func (c *Client) UnlikePost(ctx context.Context, postID string) ([]models.Like, error) {
	var likes []models.Like
	if err := c.do(ctx, http.MethodPut, "/api/posts/unlike/"+postID, nil, &likes); err != nil {
		return nil, err
	}
	return likes, nil
}

func (c *Client) AddComment(ctx context.Context, postID string, req models.CommentRequest) ([]models.Comment, error) {
	var comments []models.Comment
	if err := c.do(ctx, http.MethodPost, "/api/posts/comment/"+postID, req, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

func (c *Client) DeleteComment(ctx context.Context, postID, commentID string) ([]models.Comment, error) {
	var comments []models.Comment
	if err := c.do(ctx, http.MethodDelete, "/api/posts/comment/"+postID+"/"+commentID, nil, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}
