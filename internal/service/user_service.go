package service

import (
	"context"
	"errors"
	"strings"

	"recordhub/internal/models"
	"recordhub/internal/notifications"
	"recordhub/internal/observability"
	"recordhub/internal/repository"
	"recordhub/internal/search"
	"recordhub/internal/validation"

	"go.opentelemetry.io/otel/attribute"
)

// UserService reads, updates and deletes user accounts.
type UserService struct {
	users  repository.UserRepository
	events notifications.Publisher
}

// UpdateUserInput carries a profile update. Nil fields are left unchanged.
type UpdateUserInput struct {
	ActorID    uint
	UserID     uint
	Name       *string
	Email      *string
	Phone      *string
	Profession *string
}

// NewUserService returns a UserService. events may be nil.
func NewUserService(users repository.UserRepository, events notifications.Publisher) *UserService {
	return &UserService{users: users, events: events}
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx)
}

func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *UserService) Count(ctx context.Context) (int64, error) {
	return s.users.Count(ctx)
}

// Search matches query case-insensitively against name, email, phone and
// profession, ordered by name. A blank query is a validation error.
func (s *UserService) Search(ctx context.Context, query string) (users []models.User, err error) {
	ctx, span := observability.StartSpan(ctx, "UserService.Search")
	defer func() { observability.EndSpan(span, err) }()

	criteria, err := search.NewCriteria(query, repository.UserSearchFields...)
	if err != nil {
		return nil, searchError(err)
	}
	observability.SearchQueries.WithLabelValues("users").Inc()
	return s.users.Search(ctx, criteria)
}

// Update applies in to the caller's own profile.
func (s *UserService) Update(ctx context.Context, in UpdateUserInput) (user *models.User, err error) {
	ctx, span := observability.StartSpan(ctx, "UserService.Update",
		attribute.Int64("user.id", int64(in.UserID)))
	defer func() { observability.EndSpan(span, err) }()

	user, err = s.users.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if in.ActorID != in.UserID {
		return nil, models.NewForbiddenError("You can only update your own account")
	}

	if in.Email != nil {
		email := strings.TrimSpace(*in.Email)
		if err := validation.ValidateEmail(email); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		if email != user.Email {
			existing, err := s.users.GetByEmail(ctx, email)
			if err != nil {
				return nil, err
			}
			if existing != nil {
				return nil, models.NewDuplicateEmailError(email)
			}
			user.Email = email
		}
	}
	for _, f := range []struct {
		name  string
		value *string
		dst   *string
	}{
		{"name", in.Name, &user.Name},
		{"phone", in.Phone, &user.Phone},
		{"profession", in.Profession, &user.Profession},
	} {
		if f.value == nil {
			continue
		}
		if *f.dst, err = cleanText(f.name, *f.value); err != nil {
			return nil, err
		}
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes the caller's own account together with all of its posts.
func (s *UserService) Delete(ctx context.Context, actorID, userID uint) (err error) {
	ctx, span := observability.StartSpan(ctx, "UserService.Delete",
		attribute.Int64("user.id", int64(userID)))
	defer func() { observability.EndSpan(span, err) }()

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return err
	}
	if actorID != userID {
		return models.NewForbiddenError("You can only delete your own account")
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}

	if s.events != nil {
		s.events.Publish(ctx, notifications.EventUserDeleted, map[string]any{"user_id": userID})
	}
	return nil
}

// cleanText trims a free-text field and rejects markup as a validation error.
func cleanText(field, value string) (string, error) {
	out, err := validation.Text(field, value)
	if err != nil {
		return "", models.NewValidationError(err.Error())
	}
	return out, nil
}

func searchError(err error) error {
	if errors.Is(err, search.ErrEmptyQuery) {
		return models.NewValidationError("Search query is required")
	}
	return models.NewInternalError(err)
}
