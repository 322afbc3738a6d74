package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"recordhub/internal/models"
	"recordhub/internal/notifications"
	"recordhub/internal/observability"
	"recordhub/internal/repository"
	"recordhub/internal/search"
	"recordhub/internal/validation"

	"go.opentelemetry.io/otel/attribute"
)

const (
	maxTitleLen   = 300
	maxContentLen = 50000
)

// PostService creates, lists and searches posts.
type PostService struct {
	posts  repository.PostRepository
	users  repository.UserRepository
	events notifications.Publisher
}

// CreatePostInput is the payload of a new post. UserID comes from the
// authenticated identity, never from the request body.
type CreatePostInput struct {
	UserID     uint
	Title      string
	Content    string
	Category   string
	Phone      string
	Profession string
}

// NewPostService returns a PostService. events may be nil.
func NewPostService(
	posts repository.PostRepository,
	users repository.UserRepository,
	events notifications.Publisher,
) *PostService {
	return &PostService{posts: posts, users: users, events: events}
}

// Create validates and stores a post owned by in.UserID.
func (s *PostService) Create(ctx context.Context, in CreatePostInput) (post *models.Post, err error) {
	ctx, span := observability.StartSpan(ctx, "PostService.Create",
		attribute.Int64("user.id", int64(in.UserID)))
	defer func() { observability.EndSpan(span, err) }()

	var fields [5]string
	for i, f := range []struct{ name, value string }{
		{"title", in.Title},
		{"content", in.Content},
		{"category", in.Category},
		{"phone", in.Phone},
		{"profession", in.Profession},
	} {
		if fields[i], err = cleanText(f.name, f.value); err != nil {
			return nil, err
		}
	}
	post = &models.Post{
		UserID:     in.UserID,
		Title:      fields[0],
		Content:    fields[1],
		Category:   fields[2],
		Phone:      fields[3],
		Profession: fields[4],
	}

	if err := validation.Required("title", post.Title); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.Required("content", post.Content); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if utf8.RuneCountInString(post.Title) > maxTitleLen {
		return nil, models.NewValidationError("Title too long (max 300 characters)")
	}
	if utf8.RuneCountInString(post.Content) > maxContentLen {
		return nil, models.NewValidationError("Content too long (max 50000 characters)")
	}

	// Tokens outlive their accounts; a deleted owner cannot post.
	if _, err := s.users.GetByID(ctx, in.UserID); err != nil {
		if models.HasCode(err, models.CodeNotFound) {
			return nil, models.NewUnauthorizedError("Account no longer exists")
		}
		return nil, err
	}

	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}

	if s.events != nil {
		s.events.Publish(ctx, notifications.EventPostCreated, map[string]any{
			"post_id": post.ID,
			"user_id": post.UserID,
		})
	}
	return post, nil
}

// List returns all posts newest first, optionally narrowed to one category.
// The category is trimmed the same way the search facet is.
func (s *PostService) List(ctx context.Context, category string) ([]models.Post, error) {
	return s.posts.List(ctx, strings.TrimSpace(category))
}

// ListByOwner returns the posts of userID newest first. An unknown or
// deleted user simply has no posts.
func (s *PostService) ListByOwner(ctx context.Context, userID uint) ([]models.Post, error) {
	return s.posts.ListByOwner(ctx, userID)
}

// Search matches query case-insensitively against title, content, category
// and profession. A non-empty category must match exactly.
func (s *PostService) Search(ctx context.Context, query, category string) (posts []models.Post, err error) {
	ctx, span := observability.StartSpan(ctx, "PostService.Search")
	defer func() { observability.EndSpan(span, err) }()

	criteria, err := search.NewCriteria(query, repository.PostSearchFields...)
	if err != nil {
		return nil, searchError(err)
	}
	criteria = criteria.WithFacet(repository.PostCategoryColumn, category)

	observability.SearchQueries.WithLabelValues("posts").Inc()
	return s.posts.Search(ctx, criteria)
}
