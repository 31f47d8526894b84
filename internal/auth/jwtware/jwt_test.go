package jwtware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/alumni-api/internal/auth"
)

func newTokenService() *auth.TokenService {
	return auth.NewTokenService(
		[]byte("access-secret"),
		[]byte("refresh-secret"),
		15*time.Minute,
		90*24*time.Hour,
		"alumni-api",
	)
}

func newTestApp(cfg Config, handlers ...fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var richErr *goerrors.Error
			if goerrors.As(err, &richErr) {
				return c.Status(richErr.Code).JSON(fiber.Map{"error": richErr.Message})
			}
			return c.SendStatus(fiber.StatusInternalServerError)
		},
	})

	chain := append([]fiber.Handler{New(cfg)}, handlers...)
	chain = append(chain, func(c *fiber.Ctx) error {
		claims, _ := ClaimsFromCtx(c)
		return c.JSON(fiber.Map{"uid": claims.UserID(), "role": claims.Role()})
	})

	app.Get("/protected", chain...)

	return app
}

func issueToken(t *testing.T, role string) string {
	t.Helper()

	ts := newTokenService()
	raw, _, err := ts.IssueAccess(auth.NewIdentity("4f9e30a2-0001-4a6e-b7a3-0c5f6f1a2b3c", "Tester", "t@example.com", role))
	require.NoError(t, err)

	return raw
}

func TestMiddleware_MissingToken(t *testing.T) {
	app := newTestApp(Config{Verifier: newTokenService()})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/protected", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestMiddleware_MalformedToken(t *testing.T) {
	app := newTestApp(Config{Verifier: newTokenService()})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestMiddleware_ExpiredToken(t *testing.T) {
	past := auth.NewTokenService(
		[]byte("access-secret"),
		[]byte("refresh-secret"),
		15*time.Minute,
		90*24*time.Hour,
		"alumni-api",
		auth.WithTokenClock(func() time.Time { return time.Now().Add(-time.Hour) }),
	)

	raw, _, err := past.IssueAccess(auth.NewIdentity("id", "n", "e@example.com", auth.RoleUser))
	require.NoError(t, err)

	app := newTestApp(Config{Verifier: newTokenService()})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+raw)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestMiddleware_ValidHeaderToken(t *testing.T) {
	app := newTestApp(Config{Verifier: newTokenService()})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, auth.RoleUser))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMiddleware_CookieTransport(t *testing.T) {
	app := newTestApp(Config{
		Verifier:    newTokenService(),
		TokenLookup: "header:Authorization,cookie:GCUACCTKN",
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "GCUACCTKN", Value: issueToken(t, auth.RoleUser)})

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireRoles_AllowsListedRole(t *testing.T) {
	app := newTestApp(
		Config{Verifier: newTokenService()},
		RequireRoles(auth.AdminRoles...),
	)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, auth.RoleAdmin))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireRoles_RejectsOtherRoles(t *testing.T) {
	app := newTestApp(
		Config{Verifier: newTokenService()},
		RequireRoles(auth.AdminRoles...),
	)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, auth.RoleUser))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRequireRoles_SuperuserOnly(t *testing.T) {
	app := newTestApp(
		Config{Verifier: newTokenService()},
		RequireRoles(auth.RoleSuperuser),
	)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, auth.RoleAdmin))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestMiddleware_FilterSkips(t *testing.T) {
	app := fiber.New()
	app.Get("/open", New(Config{
		Verifier: newTokenService(),
		Filter:   func(c *fiber.Ctx) bool { return true },
	}), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/open", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
