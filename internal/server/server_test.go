package server

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	repobun "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"github.com/goliatone/alumni-api/internal/auth"
	"github.com/goliatone/alumni-api/internal/config"
	"github.com/goliatone/alumni-api/internal/model"
	"github.com/goliatone/alumni-api/internal/notify"
	"github.com/goliatone/alumni-api/internal/repository"
	"github.com/goliatone/alumni-api/internal/visitors"
)

type fakeUsers struct {
	repository.Users

	byEmail map[string]*model.User
}

func (s *fakeUsers) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if u, ok := s.byEmail[email]; ok {
		return u, nil
	}
	return nil, goerrors.New("user not found", goerrors.CategoryNotFound).
		WithCode(goerrors.CodeNotFound)
}

func (s *fakeUsers) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	for _, u := range s.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, goerrors.New("user not found", goerrors.CategoryNotFound).
		WithCode(goerrors.CodeNotFound)
}

func (s *fakeUsers) CreateTx(ctx context.Context, tx bun.IDB, user *model.User, criteria ...repobun.InsertCriteria) (*model.User, error) {
	s.byEmail[user.Email] = user
	return user, nil
}

func (s *fakeUsers) ListPending(ctx context.Context) ([]*model.User, error) {
	out := []*model.User{}
	for _, u := range s.byEmail {
		if !u.IsVerified {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *fakeUsers) TrackAttemptedLogin(ctx context.Context, user *model.User) error  { return nil }
func (s *fakeUsers) TrackSuccessfulLogin(ctx context.Context, user *model.User) error { return nil }

type fakeManager struct {
	repository.Manager

	users *fakeUsers
}

func (m *fakeManager) Users() repository.Users { return m.users }

func (m *fakeManager) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	return f(ctx, bun.Tx{})
}

func testConfig() *config.Config {
	return &config.Config{
		Port:               "5000",
		AccessSecret:       "access-secret",
		RefreshSecret:      "refresh-secret",
		AccessTTL:          15 * time.Minute,
		RefreshTTL:         90 * 24 * time.Hour,
		Issuer:             "alumni-api",
		Transport:          config.TransportHeader,
		AccessCookieName:   "GCUACCTKN",
		RefreshCookieName:  "GCURFRSTKN",
		CORSAllowedOrigins: "*",
		RateLimitWindow:    time.Minute,
		RateLimitMax:       1000,
	}
}

func newTestServer(t *testing.T) (*Server, *fakeManager) {
	t.Helper()

	repo := &fakeManager{users: &fakeUsers{byEmail: map[string]*model.User{}}}
	cfg := testConfig()

	tokens := auth.NewTokenService(
		[]byte(cfg.AccessSecret),
		[]byte(cfg.RefreshSecret),
		cfg.AccessTTL,
		cfg.RefreshTTL,
		cfg.Issuer,
	)

	provider := repository.NewUserProvider(repo.Users())
	auther := auth.NewAuthenticator(provider, tokens)

	srv := New(Deps{
		Config:        cfg,
		Repo:          repo,
		Authenticator: auther,
		Notifier:      notify.NewLogNotifier(nil),
		Media:         nil,
		Visitors:      visitors.NewMemoryCounter(),
	})

	return srv, repo
}

func seedUser(repo *fakeManager, email, password string, verified bool, role auth.UserRole) *model.User {
	hash, _ := auth.HashPassword(password)

	user := &model.User{
		ID:           uuid.MustParse("11223344-5566-7788-99aa-bbccddeeff01"),
		Role:         role,
		Name:         "Seeded User",
		Email:        email,
		PasswordHash: hash,
		IsVerified:   verified,
		Batch:        2018,
		Branch:       "CSE",
	}

	repo.users.byEmail[email] = user

	return user
}

func postJSON(t *testing.T, app *fiber.App, path string, payload any, headers map[string]string) *http.Response {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()

	out := map[string]any{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestLogin_Success(t *testing.T) {
	srv, repo := newTestServer(t)
	seedUser(repo, "user@example.com", "password123", true, auth.RoleUser)

	resp := postJSON(t, srv.App(), "/api/auth/login", map[string]string{
		"email":    "user@example.com",
		"password": "password123",
	}, nil)

	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.NotEmpty(t, body["accessToken"])
	assert.NotNil(t, body["user"])

	// refresh token travels only as an HTTP-only cookie
	var refreshCookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == "GCURFRSTKN" {
			refreshCookie = c
		}
	}
	require.NotNil(t, refreshCookie)
	assert.True(t, refreshCookie.HttpOnly)
	assert.NotEmpty(t, refreshCookie.Value)
}

func TestLogin_UnverifiedAccountLooksLikeBadCredentials(t *testing.T) {
	srv, repo := newTestServer(t)
	seedUser(repo, "pending@example.com", "password123", false, auth.RoleUser)

	resp := postJSON(t, srv.App(), "/api/auth/login", map[string]string{
		"email":    "pending@example.com",
		"password": "password123",
	}, nil)

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "Invalid credentials", body["error"])
}

func TestLogin_UnknownAndWrongPasswordAreIdentical(t *testing.T) {
	srv, repo := newTestServer(t)
	seedUser(repo, "user@example.com", "password123", true, auth.RoleUser)

	wrongPwd := postJSON(t, srv.App(), "/api/auth/login", map[string]string{
		"email":    "user@example.com",
		"password": "wrong",
	}, nil)

	unknown := postJSON(t, srv.App(), "/api/auth/login", map[string]string{
		"email":    "ghost@example.com",
		"password": "password123",
	}, nil)

	assert.Equal(t, http.StatusBadRequest, wrongPwd.StatusCode)
	assert.Equal(t, http.StatusBadRequest, unknown.StatusCode)
	assert.Equal(t, decodeBody(t, wrongPwd)["error"], decodeBody(t, unknown)["error"])
}

func TestRefreshToken_MissingCookie(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh-token", nil)
	resp, err := srv.App().Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRefreshToken_RotatesCookie(t *testing.T) {
	srv, repo := newTestServer(t)
	seedUser(repo, "user@example.com", "password123", true, auth.RoleUser)

	login := postJSON(t, srv.App(), "/api/auth/login", map[string]string{
		"email":    "user@example.com",
		"password": "password123",
	}, nil)
	require.Equal(t, http.StatusOK, login.StatusCode)

	var refresh *http.Cookie
	for _, c := range login.Cookies() {
		if c.Name == "GCURFRSTKN" {
			refresh = c
		}
	}
	require.NotNil(t, refresh)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh-token", nil)
	req.AddCookie(refresh)

	resp, err := srv.App().Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.NotEmpty(t, body["accessToken"])
}

func TestLogout_IsIdempotent(t *testing.T) {
	srv, _ := newTestServer(t)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
		resp, err := srv.App().Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}
}

func TestCheckAuth(t *testing.T) {
	srv, repo := newTestServer(t)
	seedUser(repo, "user@example.com", "password123", true, auth.RoleUser)

	// without a token
	req := httptest.NewRequest(http.MethodGet, "/api/auth/check-auth", nil)
	resp, err := srv.App().Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// with one
	login := postJSON(t, srv.App(), "/api/auth/login", map[string]string{
		"email":    "user@example.com",
		"password": "password123",
	}, nil)
	token := decodeBody(t, login)["accessToken"].(string)

	req = httptest.NewRequest(http.MethodGet, "/api/auth/check-auth", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err = srv.App().Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, true, body["isAuthenticated"])
	assert.Equal(t, "user", body["role"])
}

func TestAdminRoutes_RequireAdminRole(t *testing.T) {
	srv, repo := newTestServer(t)
	seedUser(repo, "user@example.com", "password123", true, auth.RoleUser)

	login := postJSON(t, srv.App(), "/api/auth/login", map[string]string{
		"email":    "user@example.com",
		"password": "password123",
	}, nil)
	token := decodeBody(t, login)["accessToken"].(string)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/pending-users", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := srv.App().Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAdminRoutes_PendingUsers(t *testing.T) {
	srv, repo := newTestServer(t)
	seedUser(repo, "admin@example.com", "admin-secret", true, auth.RoleAdmin)

	pending := &model.User{Email: "pending@example.com", Name: "Pending"}
	repo.users.byEmail[pending.Email] = pending

	login := postJSON(t, srv.App(), "/api/auth/login", map[string]string{
		"email":    "admin@example.com",
		"password": "admin-secret",
	}, nil)
	token := decodeBody(t, login)["accessToken"].(string)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/pending-users", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := srv.App().Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	users := body["users"].([]any)
	require.Len(t, users, 1)
}

func TestCreateAdmin_RequiresSuperuser(t *testing.T) {
	srv, repo := newTestServer(t)
	seedUser(repo, "admin@example.com", "admin-secret", true, auth.RoleAdmin)

	login := postJSON(t, srv.App(), "/api/auth/login", map[string]string{
		"email":    "admin@example.com",
		"password": "admin-secret",
	}, nil)
	token := decodeBody(t, login)["accessToken"].(string)

	resp := postJSON(t, srv.App(), "/api/admin/create-admin", map[string]string{
		"name":     "Another Admin",
		"email":    "new-admin@example.com",
		"password": "admin-secret",
	}, map[string]string{"Authorization": "Bearer " + token})

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRegister_CreatesPendingAccount(t *testing.T) {
	srv, repo := newTestServer(t)

	resp := postJSON(t, srv.App(), "/api/auth/register", map[string]any{
		"name":     "Asha Verma",
		"email":    "asha@example.com",
		"phone":    "+919876543210",
		"password": "long-enough",
		"batch":    2018,
		"branch":   "CSE",
		"roll_no":  "CSE18-042",
	}, nil)

	require.Equal(t, http.StatusCreated, resp.StatusCode)

	created := repo.users.byEmail["asha@example.com"]
	require.NotNil(t, created)
	assert.False(t, created.IsVerified)

	// the pending account cannot log in yet
	login := postJSON(t, srv.App(), "/api/auth/login", map[string]string{
		"email":    "asha@example.com",
		"password": "long-enough",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, login.StatusCode)
}

func TestRegister_ValidationFailure(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.App(), "/api/auth/register", map[string]any{
		"name":     "Asha Verma",
		"email":    "asha@example.com",
		"phone":    "+919876543210",
		"password": "short",
		"batch":    2018,
		"branch":   "CSE",
		"roll_no":  "CSE18-042",
	}, nil)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
