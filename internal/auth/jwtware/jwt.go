// Package jwtware gates protected routes: it extracts a token from the
// request, verifies it, and attaches the decoded identity to the request
// context. It never touches the credential store; the role is trusted from
// the claims until the next refresh.
package jwtware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/goliatone/alumni-api/internal/auth"
)

// TokenVerifier validates a raw token and returns structured claims.
// It mirrors auth.TokenService.VerifyAccess without importing the concrete type.
type TokenVerifier interface {
	VerifyAccess(raw string) (auth.AuthClaims, error)
}

// ContextKey is where validated claims are stored in fiber Locals.
const ContextKey = "identity"

type Config struct {
	// TokenLookup is a comma separated list of extractor specs, e.g.
	// "header:Authorization,cookie:GCUACCTKN".
	TokenLookup string
	AuthScheme  string
	Verifier    TokenVerifier
	// Filter skips the middleware when it returns true.
	Filter func(*fiber.Ctx) bool
	// ErrorHandler renders authentication failures. Defaults to returning
	// the error for the app-level handler to map.
	ErrorHandler fiber.ErrorHandler
}

// New builds the session middleware for the given config.
func New(config Config) fiber.Handler {
	cfg := withDefaults(config)
	extractors := getExtractors(cfg.TokenLookup, cfg.AuthScheme)

	return func(c *fiber.Ctx) error {
		if cfg.Filter != nil && cfg.Filter(c) {
			return c.Next()
		}

		raw := extractRawToken(c, extractors)
		if raw == "" {
			return cfg.ErrorHandler(c, auth.ErrMissingToken)
		}

		claims, err := cfg.Verifier.VerifyAccess(raw)
		if err != nil {
			return cfg.ErrorHandler(c, err)
		}

		c.Locals(ContextKey, claims)
		c.SetUserContext(auth.WithClaimsContext(c.UserContext(), claims))

		return c.Next()
	}
}

// RequireRoles is the authorization policy middleware factory. It must run
// after New has attached claims; it performs no store lookup.
func RequireRoles(roles ...auth.UserRole) fiber.Handler {
	allowed := make(map[auth.UserRole]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		claims, ok := ClaimsFromCtx(c)
		if !ok {
			return auth.ErrMissingToken
		}

		if _, ok := allowed[auth.UserRole(claims.Role())]; !ok {
			return auth.ErrForbidden.WithMetadata(map[string]any{
				"role": claims.Role(),
			})
		}

		return c.Next()
	}
}

// ClaimsFromCtx returns the claims New stored for this request.
func ClaimsFromCtx(c *fiber.Ctx) (auth.AuthClaims, bool) {
	claims, ok := c.Locals(ContextKey).(auth.AuthClaims)
	return claims, ok
}

func withDefaults(cfg Config) Config {
	if cfg.Verifier == nil {
		panic("jwtware: configuration requires a Verifier")
	}

	if cfg.TokenLookup == "" {
		cfg.TokenLookup = "header:" + fiber.HeaderAuthorization
	}

	if cfg.AuthScheme == "" {
		cfg.AuthScheme = "Bearer"
	}

	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(c *fiber.Ctx, err error) error {
			return err
		}
	}

	return cfg
}

type tokenExtractor func(c *fiber.Ctx) string

func extractRawToken(c *fiber.Ctx, extractors []tokenExtractor) string {
	for _, extract := range extractors {
		if raw := extract(c); raw != "" {
			return raw
		}
	}
	return ""
}

// getExtractors parses a lookup string such as
// "header:Authorization,cookie:token,query:auth_token".
func getExtractors(tokenLookup, authScheme string) []tokenExtractor {
	extractors := make([]tokenExtractor, 0)

	for _, rootPart := range strings.Split(tokenLookup, ",") {
		parts := strings.Split(strings.TrimSpace(rootPart), ":")
		if len(parts) != 2 {
			continue
		}

		name := strings.TrimSpace(parts[1])

		switch strings.TrimSpace(parts[0]) {
		case "header":
			extractors = append(extractors, fromHeader(name, authScheme))
		case "cookie":
			extractors = append(extractors, fromCookie(name))
		case "query":
			extractors = append(extractors, fromQuery(name))
		}
	}

	return extractors
}

func fromHeader(header, authScheme string) tokenExtractor {
	scheme := strings.TrimSpace(authScheme)
	return func(c *fiber.Ctx) string {
		a := c.Get(header)
		l := len(scheme)
		if len(a) > l+1 && strings.EqualFold(a[:l], scheme) {
			return strings.TrimSpace(a[l:])
		}
		return ""
	}
}

func fromCookie(name string) tokenExtractor {
	return func(c *fiber.Ctx) string {
		return c.Cookies(name)
	}
}

func fromQuery(param string) tokenExtractor {
	return func(c *fiber.Ctx) string {
		return c.Query(param)
	}
}
