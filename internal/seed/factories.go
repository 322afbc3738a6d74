package seed

import (
	"context"
	"fmt"
	"time"

	"recordhub/internal/auth"
	"recordhub/internal/models"
	"recordhub/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
)

// Categories are the post categories fake data is drawn from.
var Categories = []string{"Tech", "Health", "Food", "Travel", "Jobs", "News"}

// Options tunes a Factory.
type Options struct {
	// Seed makes output reproducible. Zero uses the current time.
	Seed int64
	// MaxDays spreads post creation times over this many days back.
	MaxDays int
}

// Factory builds fake users and posts and persists them through the
// repositories.
type Factory struct {
	users  repository.UserRepository
	posts  repository.PostRepository
	hasher auth.Hasher
	faker  *gofakeit.Faker
	opts   Options
	serial int
	// digest of DemoPassword, computed once
	digest string
}

// NewFactory returns a Factory writing through users and posts.
func NewFactory(users repository.UserRepository, posts repository.PostRepository, hasher auth.Hasher, opts Options) *Factory {
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	if opts.MaxDays <= 0 {
		opts.MaxDays = 90
	}
	return &Factory{
		users:  users,
		posts:  posts,
		hasher: hasher,
		faker:  gofakeit.New(opts.Seed),
		opts:   opts,
	}
}

// BuildUser returns an unsaved user. Emails carry a serial number so a
// single run never repeats one.
func (f *Factory) BuildUser(overrides ...func(*models.User)) *models.User {
	f.serial++
	user := &models.User{
		Name:       f.faker.Name(),
		Email:      fmt.Sprintf("%d.%s", f.serial, f.faker.Email()),
		Phone:      f.faker.Phone(),
		Profession: f.faker.JobTitle(),
	}
	for _, override := range overrides {
		override(user)
	}
	return user
}

// CreateUser builds and saves a user whose password is DemoPassword.
func (f *Factory) CreateUser(ctx context.Context, overrides ...func(*models.User)) (*models.User, error) {
	if f.digest == "" {
		digest, err := f.hasher.Hash(DemoPassword)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		f.digest = digest
	}

	user := f.BuildUser(overrides...)
	user.Password = f.digest
	if err := f.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// BuildPost returns an unsaved post owned by user.
func (f *Factory) BuildPost(user *models.User, overrides ...func(*models.Post)) *models.Post {
	back := time.Duration(f.faker.Number(0, f.opts.MaxDays*24*60)) * time.Minute
	post := &models.Post{
		UserID:     user.ID,
		Title:      f.faker.Sentence(5),
		Content:    f.faker.Paragraph(1, 3, 8, "\n"),
		Category:   f.faker.RandomString(Categories),
		Phone:      user.Phone,
		Profession: user.Profession,
		CreatedAt:  time.Now().Add(-back),
	}
	for _, override := range overrides {
		override(post)
	}
	return post
}

// CreatePost builds and saves a post owned by user.
func (f *Factory) CreatePost(ctx context.Context, user *models.User, overrides ...func(*models.Post)) (*models.Post, error) {
	post := f.BuildPost(user, overrides...)
	if err := f.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Result counts what Populate wrote.
type Result struct {
	Users int
	Posts int
}

// Populate creates numUsers users with postsPerUser posts each.
func (f *Factory) Populate(ctx context.Context, numUsers, postsPerUser int) (Result, error) {
	var res Result
	for i := 0; i < numUsers; i++ {
		user, err := f.CreateUser(ctx)
		if err != nil {
			return res, fmt.Errorf("create user: %w", err)
		}
		res.Users++

		for j := 0; j < postsPerUser; j++ {
			if _, err := f.CreatePost(ctx, user); err != nil {
				return res, fmt.Errorf("create post for user %d: %w", user.ID, err)
			}
			res.Posts++
		}
	}
	return res, nil
}
