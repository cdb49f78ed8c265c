package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// RecognizedSocialPlatforms is the fixed set of social-link keys accepted on
// profile upsert. Anything else in the request is silently dropped.
var RecognizedSocialPlatforms = []string{"youtube", "twitter", "facebook", "linkedin", "instagram"}

type Experience struct {
	ID          bson.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Title       string        `json:"title" bson:"title"`
	Company     string        `json:"company" bson:"company"`
	Location    string        `json:"location,omitempty" bson:"location,omitempty"`
	From        time.Time     `json:"from" bson:"from"`
	To          *time.Time    `json:"to,omitempty" bson:"to,omitempty"`
	Current     bool          `json:"current" bson:"current"`
	Description string        `json:"description,omitempty" bson:"description,omitempty"`
}

type Education struct {
	ID           bson.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	School       string        `json:"school" bson:"school"`
	Degree       string        `json:"degree" bson:"degree"`
	FieldOfStudy string        `json:"fieldofstudy" bson:"fieldofstudy"`
	From         time.Time     `json:"from" bson:"from"`
	To           *time.Time    `json:"to,omitempty" bson:"to,omitempty"`
	Current      bool          `json:"current" bson:"current"`
	Description  string        `json:"description,omitempty" bson:"description,omitempty"`
}

// Profile is the one-per-user profile document. Experience and Education are
// ordered most-recent-first: additions prepend.
type Profile struct {
	ID             bson.ObjectID     `json:"id,omitempty" bson:"_id,omitempty"`
	User           bson.ObjectID     `json:"user" bson:"user"`
	Company        string            `json:"company,omitempty" bson:"company,omitempty"`
	Website        string            `json:"website,omitempty" bson:"website,omitempty"`
	Location       string            `json:"location,omitempty" bson:"location,omitempty"`
	Status         string            `json:"status" bson:"status"`
	Skills         []string          `json:"skills" bson:"skills"`
	Bio            string            `json:"bio,omitempty" bson:"bio,omitempty"`
	GithubUsername string            `json:"githubusername,omitempty" bson:"githubusername,omitempty"`
	Social         map[string]string `json:"social,omitempty" bson:"social,omitempty"`
	Experience     []Experience      `json:"experience" bson:"experience"`
	Education      []Education       `json:"education" bson:"education"`
	Date           time.Time         `json:"date" bson:"date"`
}

// AddExperience prepends the entry, assigning an id when missing.
func (p *Profile) AddExperience(exp Experience) {
	if exp.ID.IsZero() {
		exp.ID = bson.NewObjectID()
	}
	p.Experience = append([]Experience{exp}, p.Experience...)
}

// RemoveExperience removes the entry with the given id. Removal of an absent
// id is a no-op; the bool reports whether anything was removed.
func (p *Profile) RemoveExperience(id bson.ObjectID) bool {
	for i, exp := range p.Experience {
		if exp.ID == id {
			p.Experience = append(p.Experience[:i], p.Experience[i+1:]...)
			return true
		}
	}
	return false
}

// AddEducation prepends the entry, assigning an id when missing.
func (p *Profile) AddEducation(edu Education) {
	if edu.ID.IsZero() {
		edu.ID = bson.NewObjectID()
	}
	p.Education = append([]Education{edu}, p.Education...)
}

// RemoveEducation removes the entry with the given id, no-op when absent.
func (p *Profile) RemoveEducation(id bson.ObjectID) bool {
	for i, edu := range p.Education {
		if edu.ID == id {
			p.Education = append(p.Education[:i], p.Education[i+1:]...)
			return true
		}
	}
	return false
}

// ParseSkills splits a comma-separated skills string into an ordered list,
// trimming whitespace and dropping empty segments.
func ParseSkills(raw string) []string {
	parts := strings.Split(raw, ",")
	skills := make([]string, 0, len(parts))
	for _, part := range parts {
		if skill := strings.TrimSpace(part); skill != "" {
			skills = append(skills, skill)
		}
	}
	return skills
}

// FilterSocialLinks keeps only recognized platform keys with non-empty URLs.
func FilterSocialLinks(links map[string]string) map[string]string {
	filtered := make(map[string]string)
	for _, platform := range RecognizedSocialPlatforms {
		if url, ok := links[platform]; ok && url != "" {
			filtered[platform] = url
		}
	}
	if len(filtered) == 0 {
		return nil
	}
	return filtered
}
