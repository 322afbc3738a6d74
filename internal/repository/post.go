package repository

import (
	"context"

	"recordhub/internal/models"
	"recordhub/internal/observability"
	"recordhub/internal/search"

	"gorm.io/gorm"
)

// PostSearchFields are the post columns matched by a free-text search.
var PostSearchFields = []string{"title", "content", "category", "profession"}

// PostCategoryColumn is the column used for the exact-match category facet.
const PostCategoryColumn = "category"

// PostRepository defines persistence operations for posts. Posts are never
// updated and disappear only with their owner.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	List(ctx context.Context, category string) ([]models.Post, error)
	ListByOwner(ctx context.Context, userID uint) ([]models.Post, error)
	Search(ctx context.Context, criteria search.Criteria) ([]models.Post, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository returns a new PostRepository implementation.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	defer observability.TrackQuery("insert", "posts")()

	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func newestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC").Order("id DESC")
}

// List returns every post, newest first. A non-empty category keeps only
// posts whose category matches exactly.
func (r *postRepository) List(ctx context.Context, category string) ([]models.Post, error) {
	defer observability.TrackQuery("select", "posts")()

	q := r.db.WithContext(ctx).Scopes(newestFirst)
	if category != "" {
		q = q.Where(PostCategoryColumn+" = ?", category)
	}

	posts := []models.Post{}
	if err := q.Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) ListByOwner(ctx context.Context, userID uint) ([]models.Post, error) {
	defer observability.TrackQuery("select", "posts")()

	posts := []models.Post{}
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Scopes(newestFirst).
		Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) Search(ctx context.Context, criteria search.Criteria) ([]models.Post, error) {
	defer observability.TrackQuery("search", "posts")()

	posts := []models.Post{}
	if err := r.db.WithContext(ctx).
		Scopes(criteria.Scope(), newestFirst).
		Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}
