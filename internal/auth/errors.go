package auth

import (
	goerrors "github.com/goliatone/go-errors"
)

const (
	TextCodeInvalidCredentials = "INVALID_CREDENTIALS"
	TextCodeMissingToken       = "MISSING_TOKEN"
	TextCodeTokenExpired       = "TOKEN_EXPIRED"
	TextCodeTokenMalformed     = "TOKEN_MALFORMED"
	TextCodeRefreshExpired     = "REFRESH_EXPIRED"
	TextCodeRefreshInvalid     = "REFRESH_INVALID"
	TextCodeForbidden          = "FORBIDDEN"
)

// ErrInvalidCredentials covers wrong password, unknown email, and unverified
// accounts alike so callers cannot enumerate registered addresses.
var ErrInvalidCredentials = goerrors.New("Invalid credentials", goerrors.CategoryAuth).
	WithTextCode(TextCodeInvalidCredentials).
	WithCode(goerrors.CodeBadRequest)

// ErrMissingToken is returned when a protected route receives no token at all.
var ErrMissingToken = goerrors.New("Access Denied", goerrors.CategoryAuth).
	WithTextCode(TextCodeMissingToken).
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenExpired is returned for tokens past their TTL.
var ErrTokenExpired = goerrors.New("Token expired", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenMalformed is returned for tokens that fail signature or format checks.
var ErrTokenMalformed = goerrors.New("Invalid token", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(goerrors.CodeUnauthorized)

// ErrRefreshExpired tells the client to force a re-login.
var ErrRefreshExpired = goerrors.New("Refresh token expired", goerrors.CategoryAuth).
	WithTextCode(TextCodeRefreshExpired).
	WithCode(goerrors.CodeUnauthorized)

// ErrRefreshInvalid covers malformed or wrongly signed refresh tokens.
var ErrRefreshInvalid = goerrors.New("Invalid refresh token", goerrors.CategoryAuth).
	WithTextCode(TextCodeRefreshInvalid).
	WithCode(goerrors.CodeUnauthorized)

// ErrForbidden is returned when the identity is valid but the role is not allowed.
var ErrForbidden = goerrors.New("Access denied, insufficient role", goerrors.CategoryAuthz).
	WithTextCode(TextCodeForbidden).
	WithCode(goerrors.CodeForbidden)

// ErrIdentityNotVerified marks accounts still waiting on admin approval. The
// authenticator collapses it into ErrInvalidCredentials before it leaves the
// auth layer.
var ErrIdentityNotVerified = goerrors.New("identity not verified", goerrors.CategoryAuth).
	WithTextCode("NOT_VERIFIED").
	WithCode(goerrors.CodeUnauthorized)

// ErrTooManyLoginAttempts enforces the login cool down window.
var ErrTooManyLoginAttempts = goerrors.New("Too many login attempts", goerrors.CategoryRateLimit).
	WithTextCode("TOO_MANY_ATTEMPTS").
	WithCode(goerrors.CodeUnauthorized)
