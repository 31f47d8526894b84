package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Port:          "5000",
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    90 * 24 * time.Hour,
		Transport:     TransportHeader,
	}
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestConfig_RequiresSecrets(t *testing.T) {
	cfg := validConfig()
	cfg.AccessSecret = ""
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.RefreshSecret = ""
	assert.Error(t, cfg.Validate())
}

func TestConfig_SecretsMustDiffer(t *testing.T) {
	cfg := validConfig()
	cfg.RefreshSecret = cfg.AccessSecret
	assert.Error(t, cfg.Validate())
}

func TestConfig_TransportEnum(t *testing.T) {
	cfg := validConfig()
	cfg.Transport = "carrier-pigeon"
	assert.Error(t, cfg.Validate())

	cfg.Transport = TransportCookie
	assert.NoError(t, cfg.Validate())
}

func TestConfig_TokenLookup(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, "header:Authorization", cfg.TokenLookup())

	cfg.Transport = TransportCookie
	cfg.AccessCookieName = "GCUACCTKN"
	assert.Equal(t, "header:Authorization,cookie:GCUACCTKN", cfg.TokenLookup())
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "access-secret")
	t.Setenv("JWT_REFRESH_SECRET", "refresh-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, 15*time.Minute, cfg.AccessTTL)
	assert.Equal(t, 90*24*time.Hour, cfg.RefreshTTL)
	assert.Equal(t, TransportHeader, cfg.Transport)
	assert.Equal(t, "GCUACCTKN", cfg.AccessCookieName)
	assert.Equal(t, "GCURFRSTKN", cfg.RefreshCookieName)
	assert.False(t, cfg.UseCookieTransport())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "access-secret")
	t.Setenv("JWT_REFRESH_SECRET", "refresh-secret")
	t.Setenv("ACCESS_TTL_MINUTES", "30")
	t.Setenv("TOKEN_TRANSPORT", "cookie")
	t.Setenv("RATE_LIMIT_MAX", "10")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 30*time.Minute, cfg.AccessTTL)
	assert.True(t, cfg.UseCookieTransport())
	assert.Equal(t, 10, cfg.RateLimitMax)
}
