package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"devhub/internal/apperror"
	"devhub/internal/event"
	"devhub/internal/models"
	"devhub/pkg/gravatar"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"golang.org/x/crypto/bcrypt"
)

const maxLoginFailures = 10

type userStore interface {
	New(ctx context.Context, user *models.User) (*models.User, error)
	FindByID(ctx context.Context, id bson.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	SetConfirmed(ctx context.Context, id bson.ObjectID) (*models.User, error)
	Delete(ctx context.Context, id bson.ObjectID) error
}

type lockoutStore interface {
	RecordFailure(ctx context.Context, email string) (int64, error)
	Failures(ctx context.Context, email string) (int64, error)
	Reset(ctx context.Context, email string) error
}

// UserService implements registration, login, email confirmation and the
// current-user lookup.
type UserService struct {
	users     userStore
	lockouts  lockoutStore
	tokens    *TokenService
	publisher event.Publisher
	publicURL string
}

func NewUserService(users userStore, lockouts lockoutStore, tokens *TokenService, publisher event.Publisher, publicURL string) *UserService {
	return &UserService{
		users:     users,
		lockouts:  lockouts,
		tokens:    tokens,
		publisher: publisher,
		publicURL: publicURL,
	}
}

// Register creates an unconfirmed account and publishes the registration
// event that drives the confirmation mail.
func (s *UserService) Register(ctx context.Context, req models.RegisterRequest) error {
	if appErr := validateRegister(req); appErr != nil {
		return appErr
	}

	existing, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return apperror.NewInternal("failed to check existing user", err)
	}
	if existing != nil {
		return apperror.NewConflict("user already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return apperror.NewInternal("failed to hash password", err)
	}

	user := &models.User{
		Name:     req.Name,
		Email:    req.Email,
		Avatar:   gravatar.URL(req.Email),
		Password: string(hash),
	}

	user, err = s.users.New(ctx, user)
	if err != nil {
		// The unique email index closes the check-then-insert window.
		if mongo.IsDuplicateKeyError(err) {
			return apperror.NewConflict("user already exists")
		}
		return apperror.NewInternal("failed to create user", err)
	}

	confirmToken, err := s.tokens.IssueConfirmation(user.ID.Hex())
	if err != nil {
		return apperror.NewInternal("failed to issue confirmation token", err)
	}
	confirmURL := fmt.Sprintf("%s/confirm/%s", s.publicURL, confirmToken)

	if s.publisher != nil {
		if err := s.publisher.PublishUserRegistered(ctx, user.ID.Hex(), user.Name, user.Email, confirmURL); err != nil {
			// Registration stands even when the mail event cannot be sent.
			log.Printf("Warning: Failed to publish user registered event: %v", err)
		}
	}

	return nil
}

// Login verifies credentials and returns a session token. Repeated failures
// inside the lockout window lock the account out temporarily.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", apperror.NewValidation(
			apperror.FieldError{Field: "email", Message: "Email is required"},
			apperror.FieldError{Field: "password", Message: "Password is required"},
		)
	}

	if s.lockouts != nil {
		failures, err := s.lockouts.Failures(ctx, email)
		if err != nil {
			log.Printf("Warning: failed to read login failures for %s: %v", email, err)
		} else if failures >= maxLoginFailures {
			return "", apperror.NewForbidden("account temporarily locked, try again later")
		}
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			s.recordFailure(ctx, email)
			return "", apperror.NewUnauthenticated("invalid credentials")
		}
		return "", apperror.NewInternal("failed to find user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		s.recordFailure(ctx, email)
		return "", apperror.NewUnauthenticated("invalid credentials")
	}

	if !user.Confirmed {
		return "", apperror.NewForbidden("email not confirmed")
	}

	if s.lockouts != nil {
		if err := s.lockouts.Reset(ctx, email); err != nil {
			log.Printf("Warning: failed to reset login failures for %s: %v", email, err)
		}
	}

	token, err := s.tokens.IssueSession(user.ID.Hex())
	if err != nil {
		return "", apperror.NewInternal("failed to issue session token", err)
	}
	return token, nil
}

func (s *UserService) recordFailure(ctx context.Context, email string) {
	if s.lockouts == nil {
		return
	}
	count, err := s.lockouts.RecordFailure(ctx, email)
	if err != nil {
		log.Printf("Warning: failed to record login failure for %s: %v", email, err)
		return
	}
	if count >= maxLoginFailures {
		log.Printf("User %s locked out after %d failed login attempts", email, count)
	}
}

// Confirm flips the confirmed flag for the user named by a valid
// confirmation token and returns a fresh session token.
func (s *UserService) Confirm(ctx context.Context, confirmToken string) (string, error) {
	userID, err := s.tokens.VerifyConfirmation(confirmToken)
	if err != nil {
		return "", err
	}

	id, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return "", apperror.NewUnauthenticated("invalid token")
	}

	if _, err := s.users.SetConfirmed(ctx, id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", apperror.NewNotFound("user not found")
		}
		return "", apperror.NewInternal("failed to confirm user", err)
	}

	token, err := s.tokens.IssueSession(userID)
	if err != nil {
		return "", apperror.NewInternal("failed to issue session token", err)
	}
	return token, nil
}

// Current returns the caller's user record.
func (s *UserService) Current(ctx context.Context, userID string) (*models.User, error) {
	id, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return nil, apperror.NewNotFound("user not found")
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.NewNotFound("user not found")
		}
		return nil, apperror.NewInternal("failed to find user", err)
	}
	return user, nil
}

func validateRegister(req models.RegisterRequest) *apperror.Error {
	var fields []apperror.FieldError
	if strings.TrimSpace(req.Name) == "" {
		fields = append(fields, apperror.FieldError{Field: "name", Message: "Name is required"})
	}
	if !isValidEmail(req.Email) {
		fields = append(fields, apperror.FieldError{Field: "email", Message: "Please enter a valid email"})
	}
	if len(req.Password) < 6 {
		fields = append(fields, apperror.FieldError{Field: "password", Message: "Please enter a password with 6 or more characters"})
	}
	if len(fields) > 0 {
		return apperror.NewValidation(fields...)
	}
	return nil
}

func isValidEmail(email string) bool {
	if len(email) < 3 {
		return false
	}
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return false
	}
	local, domain := parts[0], parts[1]
	if len(local) == 0 || len(domain) == 0 {
		return false
	}
	return strings.Contains(domain, ".")
}
