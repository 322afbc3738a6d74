package server

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"recordhub/internal/auth"
	"recordhub/internal/models"
	"recordhub/internal/search"
	"recordhub/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepository is a mock of the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) Search(ctx context.Context, c search.Criteria) ([]models.User, error) {
	args := m.Called(ctx, c)
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func newMockedAuthApp(t *testing.T, repo *MockUserRepository) (*fiber.App, *auth.TokenManager) {
	t.Helper()
	tokens, err := auth.NewTokenManager(auth.TokenConfig{Secret: testConfig().JWTSecret})
	require.NoError(t, err)

	s := &Server{
		config:      testConfig(),
		authService: service.NewAuthService(repo, auth.NewBcryptHasher(bcrypt.MinCost), tokens, nil),
	}
	app := fiber.New(fiber.Config{ErrorHandler: errorHandler})
	app.Post("/api/auth/register", s.Register)
	app.Post("/api/auth/login", s.Login)
	return app, tokens
}

func TestRegister(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("GetByEmail", mock.Anything, "a@x.com").Return(nil, nil)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).
		Run(func(args mock.Arguments) { args.Get(1).(*models.User).ID = 1 }).
		Return(nil)

	app, tokens := newMockedAuthApp(t, repo)

	status, body := doJSON(t, app, http.MethodPost, "/api/auth/register",
		map[string]string{"email": "a@x.com", "password": "pw", "name": "Ann"}, "")
	assert.Equal(t, http.StatusCreated, status)

	token, _ := body["token"].(string)
	identity, err := tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, uint(1), identity.UserID)

	user, ok := body["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Ann", user["name"])
	assert.NotContains(t, user, "password")
	repo.AssertExpectations(t)
}

func TestRegister_Duplicate(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("GetByEmail", mock.Anything, "a@x.com").Return(&models.User{ID: 3, Email: "a@x.com"}, nil)

	app, _ := newMockedAuthApp(t, repo)

	status, body := doJSON(t, app, http.MethodPost, "/api/auth/register",
		map[string]string{"email": "a@x.com", "password": "pw"}, "")
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, models.CodeDuplicateEmail, body["code"])
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegister_MissingFields(t *testing.T) {
	repo := new(MockUserRepository)
	app, _ := newMockedAuthApp(t, repo)

	status, body := doJSON(t, app, http.MethodPost, "/api/auth/register",
		map[string]string{"email": "a@x.com"}, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, models.CodeValidation, body["code"])
}

func TestLogin_StoreErrorIsHidden(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("GetByEmail", mock.Anything, "a@x.com").
		Return(nil, models.NewInternalError(errors.New("pq: connection refused to 10.0.0.5")))

	app, _ := newMockedAuthApp(t, repo)

	status, body := doJSON(t, app, http.MethodPost, "/api/auth/login",
		map[string]string{"email": "a@x.com", "password": "pw"}, "")
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Internal server error", body["error"])
}

func TestLogin_InvalidBody(t *testing.T) {
	repo := new(MockUserRepository)
	app, _ := newMockedAuthApp(t, repo)

	req := map[string]any{"email": 12}
	status, body := doJSON(t, app, http.MethodPost, "/api/auth/login", req, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, models.CodeValidation, body["code"])
}
