package service

import (
	"context"
	"reflect"
	"testing"

	"devhub/internal/apperror"
	"devhub/internal/event"
	"devhub/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type profileFixture struct {
	svc      *ProfileService
	users    *fakeUserStore
	profiles *fakeProfileStore
	posts    *fakePostStore
	owner    *models.User
}

func newProfileFixture(t *testing.T) *profileFixture {
	t.Helper()
	users := newFakeUserStore()
	profiles := newFakeProfileStore()
	posts := newFakePostStore()
	owner := seedUser(t, users, "dev@example.com", "secret1", true)
	return &profileFixture{
		svc:      NewProfileService(profiles, users, posts, nil),
		users:    users,
		profiles: profiles,
		posts:    posts,
		owner:    owner,
	}
}

func (f *profileFixture) upsert(t *testing.T, req models.UpsertProfileRequest) *models.ProfileView {
	t.Helper()
	view, err := f.svc.Upsert(context.Background(), f.owner.ID.Hex(), req)
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	return view
}

func validProfileRequest() models.UpsertProfileRequest {
	return models.UpsertProfileRequest{
		Status:  "Developer",
		Skills:  "Go, MongoDB",
		Company: "Acme",
		Twitter: "https://twitter.com/dev",
		Youtube: "",
	}
}

func TestUpsertValidation(t *testing.T) {
	f := newProfileFixture(t)

	_, err := f.svc.Upsert(context.Background(), f.owner.ID.Hex(), models.UpsertProfileRequest{})
	if !apperror.IsType(err, apperror.Validation) {
		t.Fatalf("expected Validation, got %v", err)
	}
	appErr := apperror.From(err)
	if len(appErr.Fields) != 2 {
		t.Fatalf("expected status and skills errors, got %+v", appErr.Fields)
	}
}

func TestUpsertCreatesProfile(t *testing.T) {
	f := newProfileFixture(t)

	view := f.upsert(t, validProfileRequest())

	if !reflect.DeepEqual(view.Skills, []string{"Go", "MongoDB"}) {
		t.Errorf("skills = %v", view.Skills)
	}
	if view.Social["twitter"] != "https://twitter.com/dev" {
		t.Errorf("social = %v", view.Social)
	}
	if _, ok := view.Social["youtube"]; ok {
		t.Error("empty social link should be dropped")
	}
	if view.Owner.Name != "Test Dev" {
		t.Errorf("owner summary not attached: %+v", view.Owner)
	}
}

func TestUpsertPreservesSubDocuments(t *testing.T) {
	f := newProfileFixture(t)
	f.upsert(t, validProfileRequest())

	_, err := f.svc.AddExperience(context.Background(), f.owner.ID.Hex(), models.ExperienceRequest{
		Title: "Developer", Company: "Acme", From: "2020-01-01",
	})
	if err != nil {
		t.Fatalf("AddExperience: %v", err)
	}

	req := validProfileRequest()
	req.Status = "Senior Developer"
	view := f.upsert(t, req)

	if view.Status != "Senior Developer" {
		t.Errorf("status not replaced: %q", view.Status)
	}
	if len(view.Experience) != 1 {
		t.Errorf("upsert must not touch experience, got %d entries", len(view.Experience))
	}
}

func TestAddExperienceRequiresProfile(t *testing.T) {
	f := newProfileFixture(t)

	_, err := f.svc.AddExperience(context.Background(), f.owner.ID.Hex(), models.ExperienceRequest{
		Title: "Developer", Company: "Acme", From: "2020-01-01",
	})
	if !apperror.IsType(err, apperror.NotFound) {
		t.Fatalf("expected NotFound without a profile, got %v", err)
	}
}

func TestAddExperienceValidation(t *testing.T) {
	f := newProfileFixture(t)
	f.upsert(t, validProfileRequest())

	_, err := f.svc.AddExperience(context.Background(), f.owner.ID.Hex(), models.ExperienceRequest{})
	if !apperror.IsType(err, apperror.Validation) {
		t.Fatalf("expected Validation, got %v", err)
	}
	if fields := apperror.From(err).Fields; len(fields) != 3 {
		t.Errorf("expected title, company and from errors, got %+v", fields)
	}
}

func TestDateValidationMessages(t *testing.T) {
	f := newProfileFixture(t)
	f.upsert(t, validProfileRequest())

	tests := []struct {
		name string
		from string
		want string
	}{
		{"missing from", "", "From date is required"},
		{"unparseable from", "not-a-date", "From date is invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.AddExperience(context.Background(), f.owner.ID.Hex(), models.ExperienceRequest{
				Title: "Developer", Company: "Acme", From: tt.from,
			})
			if !apperror.IsType(err, apperror.Validation) {
				t.Fatalf("expected Validation, got %v", err)
			}
			fields := apperror.From(err).Fields
			if len(fields) != 1 || fields[0].Message != tt.want {
				t.Errorf("fields = %+v, want message %q", fields, tt.want)
			}

			_, err = f.svc.AddEducation(context.Background(), f.owner.ID.Hex(), models.EducationRequest{
				School: "State University", Degree: "BSc", FieldOfStudy: "CS", From: tt.from,
			})
			fields = apperror.From(err).Fields
			if len(fields) != 1 || fields[0].Message != tt.want {
				t.Errorf("education fields = %+v, want message %q", fields, tt.want)
			}
		})
	}
}

func TestExperienceAddRemoveRoundTrip(t *testing.T) {
	f := newProfileFixture(t)
	f.upsert(t, validProfileRequest())

	view, err := f.svc.AddExperience(context.Background(), f.owner.ID.Hex(), models.ExperienceRequest{
		Title: "Junior Developer", Company: "Acme", From: "2018-06-01", To: "2021-01-01",
	})
	if err != nil {
		t.Fatalf("AddExperience: %v", err)
	}
	view, err = f.svc.AddExperience(context.Background(), f.owner.ID.Hex(), models.ExperienceRequest{
		Title: "Senior Developer", Company: "Acme", From: "2021-01-01", Current: true,
	})
	if err != nil {
		t.Fatalf("AddExperience: %v", err)
	}

	if len(view.Experience) != 2 || view.Experience[0].Title != "Senior Developer" {
		t.Fatalf("entries not prepended: %+v", view.Experience)
	}

	removed, err := f.svc.RemoveExperience(context.Background(), f.owner.ID.Hex(), view.Experience[1].ID.Hex())
	if err != nil {
		t.Fatalf("RemoveExperience: %v", err)
	}
	if len(removed.Experience) != 1 || removed.Experience[0].Title != "Senior Developer" {
		t.Errorf("wrong entry removed: %+v", removed.Experience)
	}
}

func TestRemoveExperienceAbsentIDIsNoOp(t *testing.T) {
	f := newProfileFixture(t)
	f.upsert(t, validProfileRequest())
	f.svc.AddExperience(context.Background(), f.owner.ID.Hex(), models.ExperienceRequest{
		Title: "Developer", Company: "Acme", From: "2020-01-01",
	})

	view, err := f.svc.RemoveExperience(context.Background(), f.owner.ID.Hex(), bson.NewObjectID().Hex())
	if err != nil {
		t.Fatalf("removal of absent id should succeed, got %v", err)
	}
	if len(view.Experience) != 1 {
		t.Errorf("profile changed by no-op removal: %+v", view.Experience)
	}
}

func TestRemoveExperienceMalformedID(t *testing.T) {
	f := newProfileFixture(t)
	f.upsert(t, validProfileRequest())

	_, err := f.svc.RemoveExperience(context.Background(), f.owner.ID.Hex(), "not-a-hex-id")
	if !apperror.IsType(err, apperror.NotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestEducationAddRemoveRoundTrip(t *testing.T) {
	f := newProfileFixture(t)
	f.upsert(t, validProfileRequest())

	view, err := f.svc.AddEducation(context.Background(), f.owner.ID.Hex(), models.EducationRequest{
		School: "State University", Degree: "BSc", FieldOfStudy: "CS", From: "2014-09-01", To: "2018-06-01",
	})
	if err != nil {
		t.Fatalf("AddEducation: %v", err)
	}
	if len(view.Education) != 1 {
		t.Fatalf("education not added: %+v", view.Education)
	}

	removed, err := f.svc.RemoveEducation(context.Background(), f.owner.ID.Hex(), view.Education[0].ID.Hex())
	if err != nil {
		t.Fatalf("RemoveEducation: %v", err)
	}
	if len(removed.Education) != 0 {
		t.Errorf("education not removed: %+v", removed.Education)
	}
}

func TestByUserID(t *testing.T) {
	f := newProfileFixture(t)
	f.upsert(t, validProfileRequest())

	view, err := f.svc.ByUserID(context.Background(), f.owner.ID.Hex())
	if err != nil {
		t.Fatalf("ByUserID: %v", err)
	}
	if view.Owner.ID != f.owner.ID.Hex() {
		t.Errorf("owner id = %q", view.Owner.ID)
	}

	if _, err := f.svc.ByUserID(context.Background(), bson.NewObjectID().Hex()); !apperror.IsType(err, apperror.NotFound) {
		t.Errorf("unknown user should map to NotFound, got %v", err)
	}
	if _, err := f.svc.ByUserID(context.Background(), "garbage"); !apperror.IsType(err, apperror.NotFound) {
		t.Errorf("malformed id should map to NotFound, got %v", err)
	}
}

func TestListAttachesOwners(t *testing.T) {
	f := newProfileFixture(t)
	f.upsert(t, validProfileRequest())

	other := seedUser(t, f.users, "other@example.com", "secret1", true)
	if _, err := f.svc.Upsert(context.Background(), other.ID.Hex(), validProfileRequest()); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	views, err := f.svc.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("got %d profiles, want 2", len(views))
	}
	for _, v := range views {
		if v.Owner.Name == "" {
			t.Errorf("owner not attached for profile %s", v.User.Hex())
		}
	}
}

func TestDeleteAccountCascade(t *testing.T) {
	f := newProfileFixture(t)
	f.upsert(t, validProfileRequest())

	if _, err := f.posts.New(context.Background(), &models.Post{User: f.owner.ID, Text: "hello"}); err != nil {
		t.Fatalf("seed post: %v", err)
	}

	if err := f.svc.DeleteAccount(context.Background(), f.owner.ID.Hex()); err != nil {
		t.Fatalf("DeleteAccount: %v", err)
	}

	if _, err := f.users.FindByID(context.Background(), f.owner.ID); err == nil {
		t.Error("user record survived deletion")
	}
	if _, err := f.profiles.FindByUserID(context.Background(), f.owner.ID); err == nil {
		t.Error("profile survived deletion")
	}
	posts, _ := f.posts.FindAll(context.Background())
	if len(posts) != 0 {
		t.Errorf("posts survived deletion: %d left", len(posts))
	}
}

func TestDeleteAccountWithDisabledPublisher(t *testing.T) {
	f := newProfileFixture(t)
	f.upsert(t, validProfileRequest())
	svc := NewProfileService(f.profiles, f.users, f.posts, event.NewDisabledPublisher())

	if err := svc.DeleteAccount(context.Background(), f.owner.ID.Hex()); err != nil {
		t.Fatalf("DeleteAccount: %v", err)
	}
	if _, err := f.users.FindByID(context.Background(), f.owner.ID); err == nil {
		t.Error("user record survived deletion")
	}
}

func TestDeleteAccountUnknownUser(t *testing.T) {
	f := newProfileFixture(t)

	err := f.svc.DeleteAccount(context.Background(), bson.NewObjectID().Hex())
	if !apperror.IsType(err, apperror.NotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}
