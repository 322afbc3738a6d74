package service

import (
	"context"
	"sync"
	"testing"

	"recordhub/internal/auth"
	"recordhub/internal/models"
	"recordhub/internal/search"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	createFn     func(context.Context, *models.User) error
	getByIDFn    func(context.Context, uint) (*models.User, error)
	getByEmailFn func(context.Context, string) (*models.User, error)
	listFn       func(context.Context) ([]models.User, error)
	searchFn     func(context.Context, search.Criteria) ([]models.User, error)
	updateFn     func(context.Context, *models.User) error
	deleteFn     func(context.Context, uint) error
	countFn      func(context.Context) (int64, error)
}

func (s *userRepoStub) Create(ctx context.Context, u *models.User) error { return s.createFn(ctx, u) }
func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) List(ctx context.Context) ([]models.User, error) { return s.listFn(ctx) }
func (s *userRepoStub) Search(ctx context.Context, c search.Criteria) ([]models.User, error) {
	return s.searchFn(ctx, c)
}
func (s *userRepoStub) Update(ctx context.Context, u *models.User) error { return s.updateFn(ctx, u) }
func (s *userRepoStub) Delete(ctx context.Context, id uint) error        { return s.deleteFn(ctx, id) }
func (s *userRepoStub) Count(ctx context.Context) (int64, error)         { return s.countFn(ctx) }

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		createFn:     func(_ context.Context, u *models.User) error { u.ID = 1; return nil },
		getByIDFn:    func(_ context.Context, id uint) (*models.User, error) { return &models.User{ID: id}, nil },
		getByEmailFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		listFn:       func(_ context.Context) ([]models.User, error) { return []models.User{}, nil },
		searchFn:     func(_ context.Context, _ search.Criteria) ([]models.User, error) { return []models.User{}, nil },
		updateFn:     func(_ context.Context, _ *models.User) error { return nil },
		deleteFn:     func(_ context.Context, _ uint) error { return nil },
		countFn:      func(_ context.Context) (int64, error) { return 0, nil },
	}
}

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn      func(context.Context, *models.Post) error
	listFn        func(context.Context, string) ([]models.Post, error)
	listByOwnerFn func(context.Context, uint) ([]models.Post, error)
	searchFn      func(context.Context, search.Criteria) ([]models.Post, error)
}

func (s *postRepoStub) Create(ctx context.Context, p *models.Post) error { return s.createFn(ctx, p) }
func (s *postRepoStub) List(ctx context.Context, category string) ([]models.Post, error) {
	return s.listFn(ctx, category)
}
func (s *postRepoStub) ListByOwner(ctx context.Context, userID uint) ([]models.Post, error) {
	return s.listByOwnerFn(ctx, userID)
}
func (s *postRepoStub) Search(ctx context.Context, c search.Criteria) ([]models.Post, error) {
	return s.searchFn(ctx, c)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:      func(_ context.Context, p *models.Post) error { p.ID = 1; return nil },
		listFn:        func(_ context.Context, _ string) ([]models.Post, error) { return []models.Post{}, nil },
		listByOwnerFn: func(_ context.Context, _ uint) ([]models.Post, error) { return []models.Post{}, nil },
		searchFn:      func(_ context.Context, _ search.Criteria) ([]models.Post, error) { return []models.Post{}, nil },
	}
}

type publishedEvent struct {
	Type    string
	Payload any
}

// recordingPublisher captures published events.
type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *recordingPublisher) Publish(_ context.Context, eventType string, payload any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{Type: eventType, Payload: payload})
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

func testTokens(t *testing.T) *auth.TokenManager {
	t.Helper()
	m, err := auth.NewTokenManager(auth.TokenConfig{Secret: "service-test-secret-0123456789abcdef"})
	require.NoError(t, err)
	return m
}

func testHasher() auth.Hasher {
	return auth.NewBcryptHasher(bcrypt.MinCost)
}
