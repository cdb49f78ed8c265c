package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"devhub/internal/apperror"
	"devhub/internal/config"
	"devhub/internal/models"
)

// GithubService proxies the public repo listing for a GitHub username.
type GithubService struct {
	cfg    config.GitHubConfig
	client *http.Client
}

func NewGithubService(cfg config.GitHubConfig) *GithubService {
	return &GithubService{
		cfg: cfg,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Repos returns the user's five most recently created public repositories.
func (s *GithubService) Repos(ctx context.Context, username string) ([]models.GithubRepo, error) {
	url := fmt.Sprintf("%s/users/%s/repos?per_page=5&sort=created:asc", s.cfg.APIBaseURL, username)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, apperror.NewInternal("failed to build github request", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", "devhub")
	if s.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+s.cfg.Token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, apperror.NewUpstream("github lookup failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, apperror.NewNotFound("no github profile found")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apperror.NewUpstream(fmt.Sprintf("github lookup returned status %d", resp.StatusCode), nil)
	}

	var repos []models.GithubRepo
	if err := json.NewDecoder(resp.Body).Decode(&repos); err != nil {
		return nil, apperror.NewUpstream("failed to decode github response", err)
	}
	return repos, nil
}
