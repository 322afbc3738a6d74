package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"recordhub/internal/models"
	"recordhub/internal/search"
	"recordhub/internal/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedPosts(t *testing.T) (PostRepository, uint) {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	users := NewUserRepository(db)
	posts := NewPostRepository(db)
	ctx := context.Background()

	owner := createUser(t, users, "Owner", "owner@example.com", time.Time{})
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i, p := range []models.Post{
		{Title: "Go tips", Content: "Channels and goroutines", Category: "Tech", Profession: "Engineer"},
		{Title: "Bread", Content: "Sourdough basics", Category: "Food"},
		{Title: "Rust vs Go", Content: "A comparison", Category: "tech"},
	} {
		p := p
		p.UserID = owner.ID
		p.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, posts.Create(ctx, &p))
	}
	return posts, owner.ID
}

func TestPostRepository_ListNewestFirst(t *testing.T) {
	posts, _ := seedPosts(t)

	all, err := posts.List(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Rust vs Go", all[0].Title)
	assert.Equal(t, "Go tips", all[2].Title)
}

func TestPostRepository_ListCategoryIsExact(t *testing.T) {
	posts, _ := seedPosts(t)

	tech, err := posts.List(context.Background(), "Tech")
	require.NoError(t, err)
	require.Len(t, tech, 1)
	assert.Equal(t, "Go tips", tech[0].Title)
}

func TestPostRepository_ListByOwner(t *testing.T) {
	posts, owner := seedPosts(t)
	ctx := context.Background()

	owned, err := posts.ListByOwner(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, owned, 3)

	none, err := posts.ListByOwner(ctx, owner+100)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestPostRepository_Search(t *testing.T) {
	posts, _ := seedPosts(t)
	ctx := context.Background()

	c, err := search.NewCriteria("go", PostSearchFields...)
	require.NoError(t, err)
	got, err := posts.Search(ctx, c)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Rust vs Go", got[0].Title)
	assert.Equal(t, "Go tips", got[1].Title)

	got, err = posts.Search(ctx, c.WithFacet(PostCategoryColumn, "tech"))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Rust vs Go", got[0].Title)

	c, err = search.NewCriteria("engineer", PostSearchFields...)
	require.NoError(t, err)
	got, err = posts.Search(ctx, c)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Go tips", got[0].Title)
}

func TestPostRepository_Create_Mock(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "posts"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))
	mock.ExpectCommit()

	p := &models.Post{UserID: 1, Title: "t", Content: "c"}
	require.NoError(t, repo.Create(context.Background(), p))
	assert.Equal(t, uint(42), p.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
