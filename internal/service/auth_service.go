// Package service holds the business rules between HTTP handlers and repositories.
package service

import (
	"context"
	"strings"

	"recordhub/internal/auth"
	"recordhub/internal/models"
	"recordhub/internal/notifications"
	"recordhub/internal/observability"
	"recordhub/internal/repository"
	"recordhub/internal/validation"

	"go.opentelemetry.io/otel/attribute"
)

// TokenService signs bearer tokens for a user and resolves them back.
type TokenService interface {
	Issue(userID uint) (string, error)
	Verify(token string) (auth.Identity, error)
}

// AuthService registers users and exchanges credentials for tokens.
type AuthService struct {
	users  repository.UserRepository
	hasher auth.Hasher
	tokens TokenService
	events notifications.Publisher
}

// RegisterInput is the payload of a registration.
type RegisterInput struct {
	Email      string
	Password   string
	Name       string
	Phone      string
	Profession string
}

// AuthResult pairs a freshly issued token with its user.
type AuthResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// NewAuthService returns an AuthService. events may be nil.
func NewAuthService(
	users repository.UserRepository,
	hasher auth.Hasher,
	tokens TokenService,
	events notifications.Publisher,
) *AuthService {
	return &AuthService{users: users, hasher: hasher, tokens: tokens, events: events}
}

// Register creates a user and returns a token for it. The email is trimmed
// but otherwise stored as given; uniqueness is case-sensitive.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (res *AuthResult, err error) {
	ctx, span := observability.StartSpan(ctx, "AuthService.Register")
	defer func() {
		observability.AuthAttempts.WithLabelValues("register", observability.Outcome(err)).Inc()
		observability.EndSpan(span, err)
	}()

	email := strings.TrimSpace(in.Email)
	if err := validation.ValidateEmail(email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	var profile [3]string
	for i, f := range []struct{ name, value string }{
		{"name", in.Name},
		{"phone", in.Phone},
		{"profession", in.Profession},
	} {
		if profile[i], err = cleanText(f.name, f.value); err != nil {
			return nil, err
		}
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewDuplicateEmailError(email)
	}

	digest, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Name:       profile[0],
		Email:      email,
		Password:   digest,
		Phone:      profile[1],
		Profession: profile[2],
	}
	// A concurrent registration can still win between the lookup and the
	// insert; the unique index reports it as a duplicate.
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int64("user.id", int64(user.ID)))

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	s.publish(ctx, notifications.EventUserRegistered, map[string]any{"user_id": user.ID})
	return &AuthResult{Token: token, User: user}, nil
}

// Login verifies email and password and issues a new token. Unknown emails
// and wrong passwords fail identically.
func (s *AuthService) Login(ctx context.Context, email, password string) (res *AuthResult, err error) {
	ctx, span := observability.StartSpan(ctx, "AuthService.Login")
	defer func() {
		observability.AuthAttempts.WithLabelValues("login", observability.Outcome(err)).Inc()
		observability.EndSpan(span, err)
	}()

	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, models.NewValidationError("Email and password are required")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || !s.hasher.Verify(password, user.Password) {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &AuthResult{Token: token, User: user}, nil
}

// Verify resolves a bearer token to the caller's identity. It performs no
// store lookups; a deleted account's token verifies until it expires.
func (s *AuthService) Verify(token string) (identity auth.Identity, err error) {
	defer func() {
		observability.AuthAttempts.WithLabelValues("verify", observability.Outcome(err)).Inc()
	}()
	return s.tokens.Verify(token)
}

func (s *AuthService) publish(ctx context.Context, eventType string, payload any) {
	if s.events != nil {
		s.events.Publish(ctx, eventType, payload)
	}
}
