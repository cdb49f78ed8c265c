package service

import (
	"errors"
	"fmt"
	"time"

	"devhub/internal/apperror"
	"devhub/internal/config"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the token payload: the user id plus registered claims. The same
// shape is used for session tokens and email-confirmation tokens; they
// differ only in signing secret and lifetime.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"userId"`
}

// TokenService issues and verifies the two token kinds. Secrets are
// process-wide configuration; rotating one invalidates every outstanding
// token of that kind.
type TokenService struct {
	cfg config.TokenConfig
	now func() time.Time
}

func NewTokenService(cfg config.TokenConfig) *TokenService {
	return &TokenService{
		cfg: cfg,
		now: time.Now,
	}
}

// IssueSession signs a session token for the user.
func (s *TokenService) IssueSession(userID string) (string, error) {
	return s.issue(userID, s.cfg.SessionSecret, s.cfg.SessionTTL)
}

// IssueConfirmation signs an email-confirmation token for the user.
func (s *TokenService) IssueConfirmation(userID string) (string, error) {
	return s.issue(userID, s.cfg.EmailSecret, s.cfg.ConfirmTTL)
}

func (s *TokenService) issue(userID, secret string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Issuer:    "devhub",
		},
		UserID: userID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("error signing token: %w", err)
	}
	return tokenString, nil
}

// VerifySession recovers the user id from a session token.
func (s *TokenService) VerifySession(tokenString string) (string, error) {
	return s.verify(tokenString, s.cfg.SessionSecret)
}

// VerifyConfirmation recovers the user id from a confirmation token.
func (s *TokenService) VerifyConfirmation(tokenString string) (string, error) {
	return s.verify(tokenString, s.cfg.EmailSecret)
}

func (s *TokenService) verify(tokenString, secret string) (string, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(secret), nil
		},
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", apperror.NewUnauthenticated("token expired")
		}
		return "", apperror.NewUnauthenticated("invalid token")
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return "", apperror.NewUnauthenticated("invalid token claims")
	}

	return claims.UserID, nil
}
