package auth

import (
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertTextCode(t *testing.T, err error, textCode string) {
	t.Helper()

	var richErr *goerrors.Error
	require.ErrorAs(t, err, &richErr)
	assert.Equal(t, textCode, richErr.TextCode)
}

func testIdentity() Identity {
	return NewIdentity("726eb2bc-7667-4dbf-bd33-91e38a07b290", "Test User", "user@example.com", "user")
}

func newTestService(opts ...TokenServiceOption) *TokenService {
	return NewTokenService(
		[]byte("access-secret"),
		[]byte("refresh-secret"),
		15*time.Minute,
		90*24*time.Hour,
		"alumni-api",
		opts...,
	)
}

func TestTokenService_AccessRoundTrip(t *testing.T) {
	ts := newTestService()

	raw, expiresAt, err := ts.IssueAccess(testIdentity())
	require.NoError(t, err)
	require.NotEmpty(t, raw)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), expiresAt, 5*time.Second)

	claims, err := ts.VerifyAccess(raw)
	require.NoError(t, err)
	assert.Equal(t, "726eb2bc-7667-4dbf-bd33-91e38a07b290", claims.UserID())
	assert.Equal(t, "user", claims.Role())
}

func TestTokenService_RefreshRoundTrip(t *testing.T) {
	ts := newTestService()

	raw, _, err := ts.IssueRefresh(testIdentity())
	require.NoError(t, err)

	claims, err := ts.VerifyRefresh(raw)
	require.NoError(t, err)
	assert.Equal(t, "726eb2bc-7667-4dbf-bd33-91e38a07b290", claims.UserID())
}

func TestTokenService_ExpiredAccessToken(t *testing.T) {
	issuedAt := time.Now().Add(-time.Hour)

	past := newTestService(WithTokenClock(func() time.Time { return issuedAt }))
	raw, _, err := past.IssueAccess(testIdentity())
	require.NoError(t, err)

	ts := newTestService()
	_, err = ts.VerifyAccess(raw)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenService_ExpiredRefreshToken(t *testing.T) {
	issuedAt := time.Now().Add(-100 * 24 * time.Hour)

	past := newTestService(WithTokenClock(func() time.Time { return issuedAt }))
	raw, _, err := past.IssueRefresh(testIdentity())
	require.NoError(t, err)

	ts := newTestService()
	_, err = ts.VerifyRefresh(raw)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRefreshExpired)
}

func TestTokenService_KindsAreNotInterchangeable(t *testing.T) {
	ts := newTestService()

	access, _, err := ts.IssueAccess(testIdentity())
	require.NoError(t, err)

	refresh, _, err := ts.IssueRefresh(testIdentity())
	require.NoError(t, err)

	_, err = ts.VerifyRefresh(access)
	assertTextCode(t, err, TextCodeRefreshInvalid)

	_, err = ts.VerifyAccess(refresh)
	assertTextCode(t, err, TextCodeTokenMalformed)
}

func TestTokenService_RejectsGarbage(t *testing.T) {
	ts := newTestService()

	_, err := ts.VerifyAccess("not.a.token")
	require.Error(t, err)
	assertTextCode(t, err, TextCodeTokenMalformed)
}

func TestTokenService_RejectsWrongIssuer(t *testing.T) {
	other := NewTokenService(
		[]byte("access-secret"),
		[]byte("refresh-secret"),
		15*time.Minute,
		90*24*time.Hour,
		"someone-else",
	)

	raw, _, err := other.IssueAccess(testIdentity())
	require.NoError(t, err)

	ts := newTestService()
	_, err = ts.VerifyAccess(raw)
	assertTextCode(t, err, TextCodeTokenMalformed)
}

func TestTokenService_RequiresIdentity(t *testing.T) {
	ts := newTestService()

	_, _, err := ts.IssueAccess(nil)
	assert.Error(t, err)
}
