package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// TokenKind distinguishes the two token families. Each kind is signed with
// its own secret, so a leaked access token can never be replayed against the
// refresh endpoint and vice versa.
type TokenKind string

const (
	KindAccess  TokenKind = "access"
	KindRefresh TokenKind = "refresh"
)

// TokenService issues and verifies the access/refresh token pair.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	issuer        string
	logger        Logger
	now           func() time.Time
}

// TokenServiceOption customizes TokenService construction.
type TokenServiceOption func(*TokenService)

// WithTokenClock injects a custom clock (useful for tests).
func WithTokenClock(clock func() time.Time) TokenServiceOption {
	return func(ts *TokenService) {
		if clock != nil {
			ts.now = clock
		}
	}
}

// WithTokenLogger overrides the default logger.
func WithTokenLogger(logger Logger) TokenServiceOption {
	return func(ts *TokenService) {
		if logger != nil {
			ts.logger = logger
		}
	}
}

// NewTokenService creates a TokenService with distinct secrets per token kind.
func NewTokenService(accessSecret, refreshSecret []byte, accessTTL, refreshTTL time.Duration, issuer string, opts ...TokenServiceOption) *TokenService {
	ts := &TokenService{
		accessSecret:  accessSecret,
		refreshSecret: refreshSecret,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		issuer:        issuer,
		logger:        defLogger{},
		now:           time.Now,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(ts)
		}
	}

	return ts
}

// IssueAccess signs a short-lived access token for the identity.
func (ts *TokenService) IssueAccess(identity Identity) (string, time.Time, error) {
	return ts.issue(identity, ts.accessSecret, ts.accessTTL)
}

// IssueRefresh signs a long-lived refresh token for the identity.
func (ts *TokenService) IssueRefresh(identity Identity) (string, time.Time, error) {
	return ts.issue(identity, ts.refreshSecret, ts.refreshTTL)
}

// AccessTTL exposes the configured access token lifetime.
func (ts *TokenService) AccessTTL() time.Duration { return ts.accessTTL }

// RefreshTTL exposes the configured refresh token lifetime.
func (ts *TokenService) RefreshTTL() time.Duration { return ts.refreshTTL }

func (ts *TokenService) issue(identity Identity, secret []byte, ttl time.Duration) (string, time.Time, error) {
	if identity == nil {
		return "", time.Time{}, goerrors.New("identity is required", goerrors.CategoryBadInput)
	}

	now := ts.now()
	expiresAt := now.Add(ttl)

	claims := &JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.issuer,
			Subject:   identity.ID(),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UID:      identity.ID(),
		UserRole: identity.Role(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(secret)
	if err != nil {
		return "", time.Time{}, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to sign JWT")
	}

	return signed, expiresAt, nil
}

// VerifyAccess parses and validates an access token, returning its claims.
func (ts *TokenService) VerifyAccess(raw string) (AuthClaims, error) {
	return ts.verify(raw, ts.accessSecret, ErrTokenExpired, ErrTokenMalformed)
}

// VerifyRefresh parses and validates a refresh token. Failures are reported
// with refresh-specific codes so clients can distinguish "log in again" from
// "retry later".
func (ts *TokenService) VerifyRefresh(raw string) (AuthClaims, error) {
	return ts.verify(raw, ts.refreshSecret, ErrRefreshExpired, ErrRefreshInvalid)
}

func (ts *TokenService) verify(raw string, secret []byte, expiredErr, malformedErr *goerrors.Error) (AuthClaims, error) {
	parserOptions := make([]jwt.ParserOption, 0, 2)
	if ts.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(ts.issuer))
	}
	parserOptions = append(parserOptions, jwt.WithTimeFunc(ts.now))

	token, err := jwt.ParseWithClaims(raw, &JWTClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			ts.logger.Error("token service encountered unexpected signing method", "alg", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	}, parserOptions...)

	if err != nil {
		if goerrors.Is(err, jwt.ErrTokenExpired) {
			return nil, expiredErr
		}
		return nil, goerrors.Wrap(err, malformedErr.Category, malformedErr.Message).
			WithTextCode(malformedErr.TextCode).
			WithCode(malformedErr.Code)
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}

	ts.logger.Error("token service could not decode or validate claims")
	return nil, malformedErr
}
