package models

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpsertProfileRequest is the flat form posted by the client. Skills arrives
// as a raw comma-separated string; the social fields are collected into the
// profile's social map, dropping unrecognized keys.
type UpsertProfileRequest struct {
	Company        string `json:"company"`
	Website        string `json:"website"`
	Location       string `json:"location"`
	Status         string `json:"status"`
	Skills         string `json:"skills"`
	Bio            string `json:"bio"`
	GithubUsername string `json:"githubusername"`
	Youtube        string `json:"youtube"`
	Twitter        string `json:"twitter"`
	Facebook       string `json:"facebook"`
	Linkedin       string `json:"linkedin"`
	Instagram      string `json:"instagram"`
}

// SocialLinks collects the flat social fields into a platform→URL map.
func (r *UpsertProfileRequest) SocialLinks() map[string]string {
	return map[string]string{
		"youtube":   r.Youtube,
		"twitter":   r.Twitter,
		"facebook":  r.Facebook,
		"linkedin":  r.Linkedin,
		"instagram": r.Instagram,
	}
}

type ExperienceRequest struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	From        string `json:"from"`
	To          string `json:"to"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

type EducationRequest struct {
	School       string `json:"school"`
	Degree       string `json:"degree"`
	FieldOfStudy string `json:"fieldofstudy"`
	From         string `json:"from"`
	To           string `json:"to"`
	Current      bool   `json:"current"`
	Description  string `json:"description"`
}

type PostRequest struct {
	Text string `json:"text"`
}

type CommentRequest struct {
	Text string `json:"text"`
}

// OwnerSummary is the denormalized owner name/avatar attached to profile
// reads, standing in for a join on every fetch.
type OwnerSummary struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// ProfileView is a profile with its owner summary, the shape returned by
// profile read endpoints.
type ProfileView struct {
	Profile
	Owner OwnerSummary `json:"owner"`
}

// GithubRepo is the subset of the GitHub repository listing surfaced by the
// proxy endpoint.
type GithubRepo struct {
	Name        string `json:"name"`
	HTMLURL     string `json:"html_url"`
	Description string `json:"description"`
	Stars       int    `json:"stargazers_count"`
	Watchers    int    `json:"watchers_count"`
	Forks       int    `json:"forks_count"`
}
