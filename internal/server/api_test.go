package server

import (
	"fmt"
	"net/http"
	"testing"

	"recordhub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func register(t *testing.T, s *Server, email, password, name string) (string, uint) {
	t.Helper()
	status, body := doJSON(t, s.App(), http.MethodPost, "/api/auth/register",
		map[string]string{"email": email, "password": password, "name": name}, "")
	require.Equal(t, http.StatusCreated, status, "register %s: %v", email, body)
	user := body["user"].(map[string]any)
	return body["token"].(string), idOf(t, user["id"])
}

func TestAPI_RegisterLoginFlow(t *testing.T) {
	s := newTestServer(t)
	app := s.App()

	token, id := register(t, s, "a@x.com", "pw", "Ann")
	assert.NotEmpty(t, token)

	status, body := doJSON(t, app, http.MethodPost, "/api/auth/login",
		map[string]string{"email": "a@x.com", "password": "pw"}, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, id, idOf(t, body["user"].(map[string]any)["id"]))
	assert.NotEqual(t, token, body["token"])

	status, body = doJSON(t, app, http.MethodPost, "/api/auth/login",
		map[string]string{"email": "a@x.com", "password": "wrong"}, "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, models.CodeUnauthorized, body["code"])

	status, _ = doJSON(t, app, http.MethodPost, "/api/auth/register",
		map[string]string{"email": "a@x.com", "password": "pw2"}, "")
	assert.Equal(t, http.StatusConflict, status)
}

func TestAPI_CreatePostGate(t *testing.T) {
	s := newTestServer(t)
	app := s.App()
	token, id := register(t, s, "a@x.com", "pw", "Ann")

	status, body := doJSON(t, app, http.MethodPost, "/api/posts",
		map[string]string{"content": "no title"}, token)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, models.CodeValidation, body["code"])

	status, _ = doJSON(t, app, http.MethodPost, "/api/posts",
		map[string]string{"title": "t", "content": "c"}, "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = doJSON(t, app, http.MethodPost, "/api/posts",
		map[string]string{"title": "t", "content": "c"}, "garbage.token.value")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body = doJSON(t, app, http.MethodGet, "/api/posts", nil, "")
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 0, body["count"], "rejected requests persist nothing")

	status, body = doJSON(t, app, http.MethodPost, "/api/posts",
		map[string]string{"title": "Hello", "content": "World", "category": "News"}, token)
	require.Equal(t, http.StatusCreated, status)
	assert.NotZero(t, idOf(t, body["post_id"]))
	assert.Equal(t, id, idOf(t, body["post"].(map[string]any)["user_id"]))
}

func TestAPI_Search(t *testing.T) {
	s := newTestServer(t)
	app := s.App()
	token, _ := register(t, s, "ann@example.com", "pw", "Ann Doctor")
	register(t, s, "bob@example.com", "pw", "Bob")

	for _, p := range []map[string]string{
		{"title": "Go tips", "content": "generics", "category": "Tech"},
		{"title": "Bread", "content": "sourdough", "category": "Food"},
	} {
		status, _ := doJSON(t, app, http.MethodPost, "/api/posts", p, token)
		require.Equal(t, http.StatusCreated, status)
	}

	status, body := doJSON(t, app, http.MethodGet, "/api/users/search?q=DOCTOR", nil, "")
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, body["count"])

	status, body = doJSON(t, app, http.MethodGet, "/api/users/search?q=", nil, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, models.CodeValidation, body["code"])

	status, body = doJSON(t, app, http.MethodGet, "/api/posts/search?q=GO", nil, "")
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, body["count"])

	status, body = doJSON(t, app, http.MethodGet, "/api/posts/search?q=go&category=Food", nil, "")
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 0, body["count"])

	status, _ = doJSON(t, app, http.MethodGet, "/api/posts/search?q=%20&category=Tech", nil, "")
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = doJSON(t, app, http.MethodGet, "/api/posts?category=Food", nil, "")
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, body["count"])
}

func TestAPI_DeleteUserCascades(t *testing.T) {
	s := newTestServer(t)
	app := s.App()
	token, id := register(t, s, "a@x.com", "pw", "Ann")
	otherToken, _ := register(t, s, "b@x.com", "pw", "Bob")

	status, _ := doJSON(t, app, http.MethodPost, "/api/posts",
		map[string]string{"title": "t", "content": "c"}, token)
	require.Equal(t, http.StatusCreated, status)

	userPath := fmt.Sprintf("/api/users/%d", id)

	status, _ = doJSON(t, app, http.MethodDelete, userPath, nil, "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body := doJSON(t, app, http.MethodDelete, userPath, nil, otherToken)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, models.CodeForbidden, body["code"])

	status, _ = doJSON(t, app, http.MethodDelete, userPath, nil, token)
	require.Equal(t, http.StatusOK, status)

	status, body = doJSON(t, app, http.MethodGet, userPath+"/posts", nil, "")
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 0, body["count"])

	status, _ = doJSON(t, app, http.MethodGet, userPath, nil, "")
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = doJSON(t, app, http.MethodDelete, userPath, nil, token)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = doJSON(t, app, http.MethodPost, "/api/posts",
		map[string]string{"title": "t", "content": "c"}, token)
	assert.Equal(t, http.StatusUnauthorized, status, "token of a deleted account cannot post")
}

func TestAPI_UpdateUser(t *testing.T) {
	s := newTestServer(t)
	app := s.App()
	token, id := register(t, s, "a@x.com", "pw", "Ann")
	register(t, s, "b@x.com", "pw", "Bob")
	userPath := fmt.Sprintf("/api/users/%d", id)

	status, body := doJSON(t, app, http.MethodPut, userPath,
		map[string]string{"profession": "Pilot"}, token)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Pilot", body["profession"])
	assert.Equal(t, "Ann", body["name"])

	status, _ = doJSON(t, app, http.MethodPut, userPath,
		map[string]string{"email": "b@x.com"}, token)
	assert.Equal(t, http.StatusConflict, status)

	status, _ = doJSON(t, app, http.MethodPut, "/api/users/abc",
		map[string]string{"name": "x"}, token)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestAPI_ListUsersAndHealth(t *testing.T) {
	s := newTestServer(t)
	app := s.App()
	register(t, s, "a@x.com", "pw", "Ann")
	register(t, s, "b@x.com", "pw", "Bob")

	status, body := doJSON(t, app, http.MethodGet, "/api/users", nil, "")
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 2, body["count"])

	status, body = doJSON(t, app, http.MethodGet, "/api/health", nil, "")
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 2, body["users"])

	status, _ = doJSON(t, app, http.MethodGet, "/health/live", nil, "")
	assert.Equal(t, http.StatusOK, status)

	status, body = doJSON(t, app, http.MethodGet, "/health/ready", nil, "")
	require.Equal(t, http.StatusOK, status)
	checks := body["checks"].(map[string]any)
	assert.Equal(t, "healthy", checks["database"])
	assert.Equal(t, "unavailable", checks["redis"])

	status, body = doJSON(t, app, http.MethodGet, "/api/nope", nil, "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, models.CodeNotFound, body["code"])
}
