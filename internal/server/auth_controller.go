package server

import (
	"time"

	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/alumni-api/internal/approval"
	"github.com/goliatone/alumni-api/internal/auth"
	"github.com/goliatone/alumni-api/internal/auth/jwtware"
	"github.com/goliatone/alumni-api/internal/config"
	"github.com/goliatone/alumni-api/internal/repository"
)

type AuthController struct {
	cfg      *config.Config
	auther   *auth.Auther
	register *approval.RegisterUserHandler
	users    repository.Users
	logger   auth.Logger
}

type LoginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a pending account. The caller cannot log in until an
// admin approves the registration.
func (ctrl *AuthController) Register(c *fiber.Ctx) error {
	payload := approval.RegisterUserMessage{}
	if err := c.BodyParser(&payload); err != nil {
		return badRequest("invalid request body")
	}

	user, err := ctrl.register.Execute(c.UserContext(), payload)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Registration received, pending approval",
		"user":    user.PublicInfo(),
	})
}

// Login exchanges credentials for a token pair. The refresh token travels as
// an HTTP-only cookie; the access token is returned in the body and, when
// cookie transport is enabled, as a second cookie.
func (ctrl *AuthController) Login(c *fiber.Ctx) error {
	payload := LoginPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return badRequest("invalid request body")
	}

	if payload.Email == "" || payload.Password == "" {
		return auth.ErrInvalidCredentials
	}

	pair, identity, err := ctrl.auther.Login(c.UserContext(), payload.Email, payload.Password)
	if err != nil {
		return err
	}

	user, err := ctrl.users.GetByEmail(c.UserContext(), identity.Email())
	if err != nil {
		return err
	}

	ctrl.setTokenCookies(c, pair)

	return c.JSON(fiber.Map{
		"accessToken": pair.AccessToken,
		"user":        user.PublicInfo(),
	})
}

// RefreshToken rotates the pair. The old refresh token stops being sent to
// the client, so losing the response means logging in again.
func (ctrl *AuthController) RefreshToken(c *fiber.Ctx) error {
	raw := c.Cookies(ctrl.cfg.RefreshCookieName)
	if raw == "" {
		return auth.ErrMissingToken
	}

	pair, err := ctrl.auther.Refresh(raw)
	if err != nil {
		ctrl.clearTokenCookies(c)
		return err
	}

	ctrl.setTokenCookies(c, pair)

	return c.JSON(fiber.Map{
		"accessToken": pair.AccessToken,
	})
}

// Logout clears the token cookies. It succeeds whether or not a session
// existed, so clients can always call it.
func (ctrl *AuthController) Logout(c *fiber.Ctx) error {
	ctrl.clearTokenCookies(c)

	return c.JSON(fiber.Map{
		"message": "Logged out",
	})
}

// CheckAuth reports the verified identity from the access token. The protect
// middleware rejects the request before this runs when the token is bad.
func (ctrl *AuthController) CheckAuth(c *fiber.Ctx) error {
	claims, ok := jwtware.ClaimsFromCtx(c)
	if !ok {
		return auth.ErrMissingToken
	}

	return c.JSON(fiber.Map{
		"isAuthenticated": true,
		"role":            claims.Role(),
	})
}

func (ctrl *AuthController) setTokenCookies(c *fiber.Ctx, pair *auth.TokenPair) {
	c.Cookie(&fiber.Cookie{
		Name:     ctrl.cfg.RefreshCookieName,
		Value:    pair.RefreshToken,
		Expires:  time.Unix(pair.RefreshExpiresAt, 0),
		HTTPOnly: true,
		Secure:   true,
		SameSite: fiber.CookieSameSiteStrictMode,
		Path:     "/",
	})

	if ctrl.cfg.UseCookieTransport() {
		c.Cookie(&fiber.Cookie{
			Name:     ctrl.cfg.AccessCookieName,
			Value:    pair.AccessToken,
			Expires:  time.Unix(pair.AccessExpiresAt, 0),
			HTTPOnly: true,
			Secure:   true,
			SameSite: fiber.CookieSameSiteStrictMode,
			Path:     "/",
		})
	}
}

func (ctrl *AuthController) clearTokenCookies(c *fiber.Ctx) {
	expired := time.Now().Add(-time.Hour)

	c.Cookie(&fiber.Cookie{
		Name:     ctrl.cfg.RefreshCookieName,
		Value:    "",
		Expires:  expired,
		HTTPOnly: true,
		Path:     "/",
	})
	c.Cookie(&fiber.Cookie{
		Name:     ctrl.cfg.AccessCookieName,
		Value:    "",
		Expires:  expired,
		HTTPOnly: true,
		Path:     "/",
	})
}

func badRequest(msg string) error {
	return goerrors.New(msg, goerrors.CategoryBadInput).
		WithCode(goerrors.CodeBadRequest)
}
