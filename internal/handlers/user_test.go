package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/welcomedesk/userservice/internal/services"
	"github.com/welcomedesk/userservice/types"
)

// ---- in-memory collaborators ----

type memUserRepository struct {
	users  []types.User
	nextID int
	err    error
}

func (m *memUserRepository) GetByID(_ context.Context, id int) (types.User, bool, error) {
	if m.err != nil {
		return types.User{}, false, m.err
	}
	for _, u := range m.users {
		if u.ID == id {
			return u, true, nil
		}
	}
	return types.User{}, false, nil
}

func (m *memUserRepository) List(context.Context) ([]types.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]types.User, len(m.users))
	copy(out, m.users)
	return out, nil
}

func (m *memUserRepository) Create(_ context.Context, user types.User) (types.User, error) {
	if m.err != nil {
		return types.User{}, m.err
	}
	m.nextID++
	user.ID = m.nextID
	user.Email = strings.ToLower(user.Email)
	m.users = append(m.users, user)
	return user, nil
}

func (m *memUserRepository) Update(_ context.Context, user types.User) (types.User, error) {
	for i, u := range m.users {
		if u.ID == user.ID {
			m.users[i] = user
			return user, nil
		}
	}
	return types.User{}, errors.New("missing row")
}

type recordingEmail struct {
	ok   bool
	sent []string
	bulk [][]string
}

func (r *recordingEmail) SendWelcome(_ context.Context, address string) (bool, error) {
	r.sent = append(r.sent, address)
	return r.ok, nil
}

func (r *recordingEmail) SendBulkWelcome(_ context.Context, addresses []string) (bool, error) {
	r.bulk = append(r.bulk, addresses)
	return r.ok, nil
}

// ---- helpers ----

func newUserTestRouter(repo *memUserRepository, email *recordingEmail) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := services.NewUserService(repo, email)

	r := chi.NewRouter()
	r.Get("/healthz", Healthz)
	r.Route("/users", func(r chi.Router) {
		UserRouter(r, svc, logger)
	})
	return r
}

func doRequest(t *testing.T, h http.Handler, method, url string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, url, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

// ---- tests ----

func TestHealthz(t *testing.T) {
	w := doRequest(t, newUserTestRouter(&memUserRepository{}, &recordingEmail{}), http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode[map[string]string](t, w)["status"])
}

func TestCreateUser(t *testing.T) {
	repo := &memUserRepository{nextID: 1}
	email := &recordingEmail{ok: true}
	router := newUserTestRouter(repo, email)

	w := doRequest(t, router, http.MethodPost, "/users", UserRequest{Name: "Alice", Email: "Alice@Example.com"})
	require.Equal(t, http.StatusCreated, w.Code)

	user := decode[types.User](t, w)
	assert.Equal(t, 2, user.ID)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, []string{"alice@example.com"}, email.sent)
}

func TestCreateUserInvalidBody(t *testing.T) {
	repo := &memUserRepository{}
	w := doRequest(t, newUserTestRouter(repo, &recordingEmail{}), http.MethodPost, "/users", "{")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid request", decode[ErrorResponse](t, w).Error)
	assert.Empty(t, repo.users)
}

func TestGetUser(t *testing.T) {
	repo := &memUserRepository{users: []types.User{{ID: 1, Name: "John Doe", Email: "john@example.com"}}}
	router := newUserTestRouter(repo, &recordingEmail{})

	w := doRequest(t, router, http.MethodGet, "/users/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "John Doe", decode[types.User](t, w).Name)

	w = doRequest(t, router, http.MethodGet, "/users/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(t, router, http.MethodGet, "/users/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListUsers(t *testing.T) {
	repo := &memUserRepository{users: []types.User{
		{ID: 3, Name: "Charlie", Email: "charlie@example.com"},
		{ID: 1, Name: "Dana", Email: "dana@example.com"},
	}}

	w := doRequest(t, newUserTestRouter(repo, &recordingEmail{}), http.MethodGet, "/users", nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[UserListResponse](t, w)
	assert.Equal(t, 2, resp.Total)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, 3, resp.Items[0].ID)
	assert.Equal(t, 1, resp.Items[1].ID)
}

func TestListUsersEmpty(t *testing.T) {
	w := doRequest(t, newUserTestRouter(&memUserRepository{}, &recordingEmail{}), http.MethodGet, "/users", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"items":[],"total":0}`, w.Body.String())
}

func TestUpdateUser(t *testing.T) {
	repo := &memUserRepository{users: []types.User{{ID: 7, Name: "Old", Email: "old@example.com"}}}
	router := newUserTestRouter(repo, &recordingEmail{})

	w := doRequest(t, router, http.MethodPut, "/users/7", UserRequest{Name: "New", Email: "new@example.com"})
	require.Equal(t, http.StatusOK, w.Code)
	updated := decode[types.User](t, w)
	assert.Equal(t, 7, updated.ID)
	assert.Equal(t, "New", updated.Name)
	assert.Equal(t, "new@example.com", updated.Email)

	w = doRequest(t, router, http.MethodPut, "/users/9999", UserRequest{Name: "x", Email: "x@example.com"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(t, router, http.MethodPut, "/users/7", "not json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSendWelcomeEmails(t *testing.T) {
	repo := &memUserRepository{users: []types.User{
		{ID: 20, Email: "frank@example.com"},
		{ID: 21, Email: "grace@example.com"},
	}}
	email := &recordingEmail{ok: true}

	w := doRequest(t, newUserTestRouter(repo, email), http.MethodPost, "/users/welcome-emails", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[WelcomeEmailsResponse](t, w).Sent)
	assert.Equal(t, [][]string{{"frank@example.com", "grace@example.com"}}, email.bulk)
}

func TestCollaboratorErrorsMapTo500(t *testing.T) {
	repo := &memUserRepository{err: errors.New("connection refused")}
	router := newUserTestRouter(repo, &recordingEmail{})

	cases := []struct {
		method string
		url    string
		body   any
		msg    string
	}{
		{http.MethodGet, "/users", nil, "failed to list users"},
		{http.MethodGet, "/users/1", nil, "failed to fetch user"},
		{http.MethodPost, "/users", UserRequest{Name: "a", Email: "a@example.com"}, "failed to create user"},
		{http.MethodPut, "/users/1", UserRequest{Name: "a", Email: "a@example.com"}, "failed to update user"},
		{http.MethodPost, "/users/welcome-emails", nil, "failed to send welcome emails"},
	}

	for _, tc := range cases {
		t.Run(tc.method+" "+tc.url, func(t *testing.T) {
			w := doRequest(t, router, tc.method, tc.url, tc.body)
			assert.Equal(t, http.StatusInternalServerError, w.Code)
			assert.Equal(t, tc.msg, decode[ErrorResponse](t, w).Error)
		})
	}
}
