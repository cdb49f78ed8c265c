package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"devhub/internal/apperror"
	"devhub/internal/event"
	"devhub/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type profileStore interface {
	FindByUserID(ctx context.Context, userID bson.ObjectID) (*models.Profile, error)
	Upsert(ctx context.Context, profile *models.Profile) (*models.Profile, error)
	Save(ctx context.Context, profile *models.Profile) (*models.Profile, error)
	FindAll(ctx context.Context) ([]*models.Profile, error)
	DeleteByUserID(ctx context.Context, userID bson.ObjectID) error
}

type profileUserStore interface {
	FindByID(ctx context.Context, id bson.ObjectID) (*models.User, error)
	FindByIDs(ctx context.Context, ids []bson.ObjectID) ([]*models.User, error)
	Delete(ctx context.Context, id bson.ObjectID) error
}

type profilePostStore interface {
	DeleteByUser(ctx context.Context, userID bson.ObjectID) error
}

// ProfileService implements the profile mutation workflow: upsert, the
// experience/education sub-document edits, and the account deletion cascade.
type ProfileService struct {
	profiles  profileStore
	users     profileUserStore
	posts     profilePostStore
	publisher event.Publisher
}

func NewProfileService(profiles profileStore, users profileUserStore, posts profilePostStore, publisher event.Publisher) *ProfileService {
	return &ProfileService{
		profiles:  profiles,
		users:     users,
		posts:     posts,
		publisher: publisher,
	}
}

// Me returns the caller's profile with owner summary.
func (s *ProfileService) Me(ctx context.Context, userID string) (*models.ProfileView, error) {
	id, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return nil, apperror.NewNotFound("profile not found")
	}
	return s.viewByUserID(ctx, id)
}

// ByUserID is the public profile fetch. A malformed id maps to NotFound,
// never to an internal error.
func (s *ProfileService) ByUserID(ctx context.Context, userID string) (*models.ProfileView, error) {
	id, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return nil, apperror.NewNotFound("profile not found")
	}
	return s.viewByUserID(ctx, id)
}

func (s *ProfileService) viewByUserID(ctx context.Context, userID bson.ObjectID) (*models.ProfileView, error) {
	profile, err := s.profiles.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.NewNotFound("profile not found")
		}
		return nil, apperror.NewInternal("failed to find profile", err)
	}
	return s.attachOwner(ctx, profile), nil
}

func (s *ProfileService) attachOwner(ctx context.Context, profile *models.Profile) *models.ProfileView {
	view := &models.ProfileView{Profile: *profile}
	owner, err := s.users.FindByID(ctx, profile.User)
	if err != nil {
		log.Printf("Failed to load owner for profile %s: %v", profile.ID.Hex(), err)
		return view
	}
	view.Owner = models.OwnerSummary{ID: owner.ID.Hex(), Name: owner.Name, Avatar: owner.Avatar}
	return view
}

// List returns every profile with its owner summary, one batched user
// lookup for the whole listing.
func (s *ProfileService) List(ctx context.Context) ([]*models.ProfileView, error) {
	profiles, err := s.profiles.FindAll(ctx)
	if err != nil {
		return nil, apperror.NewInternal("failed to list profiles", err)
	}

	ids := make([]bson.ObjectID, 0, len(profiles))
	for _, p := range profiles {
		ids = append(ids, p.User)
	}

	owners := make(map[bson.ObjectID]*models.User)
	if len(ids) > 0 {
		users, err := s.users.FindByIDs(ctx, ids)
		if err != nil {
			log.Printf("Failed to load profile owners: %v", err)
		} else {
			for _, u := range users {
				owners[u.ID] = u
			}
		}
	}

	views := make([]*models.ProfileView, 0, len(profiles))
	for _, p := range profiles {
		view := &models.ProfileView{Profile: *p}
		if owner, ok := owners[p.User]; ok {
			view.Owner = models.OwnerSummary{ID: owner.ID.Hex(), Name: owner.Name, Avatar: owner.Avatar}
		}
		views = append(views, view)
	}
	return views, nil
}

// Upsert creates or fully replaces the caller's profile scalar fields. The
// response shape does not distinguish create from update.
func (s *ProfileService) Upsert(ctx context.Context, userID string, req models.UpsertProfileRequest) (*models.ProfileView, error) {
	id, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return nil, apperror.NewNotFound("user not found")
	}

	var fields []apperror.FieldError
	if strings.TrimSpace(req.Status) == "" {
		fields = append(fields, apperror.FieldError{Field: "status", Message: "Status is required"})
	}
	if strings.TrimSpace(req.Skills) == "" {
		fields = append(fields, apperror.FieldError{Field: "skills", Message: "Skills is required"})
	}
	if len(fields) > 0 {
		return nil, apperror.NewValidation(fields...)
	}

	profile := &models.Profile{
		User:           id,
		Company:        req.Company,
		Website:        req.Website,
		Location:       req.Location,
		Status:         req.Status,
		Skills:         models.ParseSkills(req.Skills),
		Bio:            req.Bio,
		GithubUsername: req.GithubUsername,
		Social:         models.FilterSocialLinks(req.SocialLinks()),
	}

	updated, err := s.profiles.Upsert(ctx, profile)
	if err != nil {
		return nil, apperror.NewInternal("failed to upsert profile", err)
	}
	return s.attachOwner(ctx, updated), nil
}

// AddExperience prepends a new experience entry to the caller's profile.
// The profile must already exist.
func (s *ProfileService) AddExperience(ctx context.Context, userID string, req models.ExperienceRequest) (*models.ProfileView, error) {
	var fields []apperror.FieldError
	if strings.TrimSpace(req.Title) == "" {
		fields = append(fields, apperror.FieldError{Field: "title", Message: "Title is required"})
	}
	if strings.TrimSpace(req.Company) == "" {
		fields = append(fields, apperror.FieldError{Field: "company", Message: "Company is required"})
	}
	from, fromErr := parseDate(req.From)
	if fromErr != nil {
		fields = append(fields, fromFieldError(req.From))
	}
	if len(fields) > 0 {
		return nil, apperror.NewValidation(fields...)
	}

	to, err := parseOptionalDate(req.To)
	if err != nil {
		return nil, apperror.NewValidation(apperror.FieldError{Field: "to", Message: "To date is invalid"})
	}

	return s.mutateProfile(ctx, userID, func(profile *models.Profile) {
		profile.AddExperience(models.Experience{
			Title:       req.Title,
			Company:     req.Company,
			Location:    req.Location,
			From:        from,
			To:          to,
			Current:     req.Current,
			Description: req.Description,
		})
	})
}

// RemoveExperience removes an entry by id. An absent id is a no-op: the
// profile is returned unchanged.
func (s *ProfileService) RemoveExperience(ctx context.Context, userID, entryID string) (*models.ProfileView, error) {
	id, err := bson.ObjectIDFromHex(entryID)
	if err != nil {
		return nil, apperror.NewNotFound("experience entry not found")
	}
	return s.mutateProfile(ctx, userID, func(profile *models.Profile) {
		profile.RemoveExperience(id)
	})
}

// AddEducation prepends a new education entry to the caller's profile.
func (s *ProfileService) AddEducation(ctx context.Context, userID string, req models.EducationRequest) (*models.ProfileView, error) {
	var fields []apperror.FieldError
	if strings.TrimSpace(req.School) == "" {
		fields = append(fields, apperror.FieldError{Field: "school", Message: "School is required"})
	}
	if strings.TrimSpace(req.Degree) == "" {
		fields = append(fields, apperror.FieldError{Field: "degree", Message: "Degree is required"})
	}
	if strings.TrimSpace(req.FieldOfStudy) == "" {
		fields = append(fields, apperror.FieldError{Field: "fieldofstudy", Message: "Field of study is required"})
	}
	from, fromErr := parseDate(req.From)
	if fromErr != nil {
		fields = append(fields, fromFieldError(req.From))
	}
	if len(fields) > 0 {
		return nil, apperror.NewValidation(fields...)
	}

	to, err := parseOptionalDate(req.To)
	if err != nil {
		return nil, apperror.NewValidation(apperror.FieldError{Field: "to", Message: "To date is invalid"})
	}

	return s.mutateProfile(ctx, userID, func(profile *models.Profile) {
		profile.AddEducation(models.Education{
			School:       req.School,
			Degree:       req.Degree,
			FieldOfStudy: req.FieldOfStudy,
			From:         from,
			To:           to,
			Current:      req.Current,
			Description:  req.Description,
		})
	})
}

// RemoveEducation removes an entry by id, no-op when absent.
func (s *ProfileService) RemoveEducation(ctx context.Context, userID, entryID string) (*models.ProfileView, error) {
	id, err := bson.ObjectIDFromHex(entryID)
	if err != nil {
		return nil, apperror.NewNotFound("education entry not found")
	}
	return s.mutateProfile(ctx, userID, func(profile *models.Profile) {
		profile.RemoveEducation(id)
	})
}

// mutateProfile is the load-edit-save sequence for sub-document edits. The
// two steps are not atomic across concurrent requests; Mongo's per-document
// atomicity on the save is the accepted guarantee for single-owner
// documents.
func (s *ProfileService) mutateProfile(ctx context.Context, userID string, edit func(*models.Profile)) (*models.ProfileView, error) {
	id, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return nil, apperror.NewNotFound("profile not found")
	}

	profile, err := s.profiles.FindByUserID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.NewNotFound("profile not found")
		}
		return nil, apperror.NewInternal("failed to find profile", err)
	}

	edit(profile)

	saved, err := s.profiles.Save(ctx, profile)
	if err != nil {
		return nil, apperror.NewInternal("failed to save profile", err)
	}
	return s.attachOwner(ctx, saved), nil
}

// DeleteAccount cascades: posts first, then the profile, then the user
// record, so the identity outlives everything that references it.
func (s *ProfileService) DeleteAccount(ctx context.Context, userID string) error {
	id, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return apperror.NewNotFound("user not found")
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return apperror.NewNotFound("user not found")
		}
		return apperror.NewInternal("failed to find user", err)
	}

	if err := s.posts.DeleteByUser(ctx, id); err != nil {
		return apperror.NewInternal("failed to delete posts", err)
	}
	if err := s.profiles.DeleteByUserID(ctx, id); err != nil {
		return apperror.NewInternal("failed to delete profile", err)
	}
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return apperror.NewNotFound("user not found")
		}
		return apperror.NewInternal("failed to delete user", err)
	}

	if s.publisher != nil {
		if err := s.publisher.PublishUserDeleted(ctx, userID, user.Email); err != nil {
			log.Printf("Warning: Failed to publish user deleted event: %v", err)
		}
	}
	return nil
}

// fromFieldError distinguishes a missing from date from an unparseable one.
func fromFieldError(raw string) apperror.FieldError {
	if raw == "" {
		return apperror.FieldError{Field: "from", Message: "From date is required"}
	}
	return apperror.FieldError{Field: "from", Message: "From date is invalid"}
}

func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, errors.New("date is required")
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}

func parseOptionalDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := parseDate(raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
