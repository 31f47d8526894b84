package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/joho/godotenv"
)

// TokenTransport selects how the access token travels back to the client.
type TokenTransport string

const (
	// TransportHeader returns the access token in the response body only;
	// the client attaches it as a Bearer header.
	TransportHeader TokenTransport = "header"
	// TransportCookie additionally sets the access token as an HTTP-only cookie.
	TransportCookie TokenTransport = "cookie"
)

// Config holds every runtime option. It is built once in main and passed by
// reference to the components that need it; nothing reads the environment
// after startup.
type Config struct {
	Port        string
	DatabaseDSN string

	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Issuer        string

	// Transport decides whether the access token is body-only or also a cookie.
	Transport          TokenTransport
	AccessCookieName   string
	RefreshCookieName  string
	CORSAllowedOrigins string

	RateLimitWindow time.Duration
	RateLimitMax    int

	RedisAddr string

	UploadDir  string
	S3Bucket   string
	S3Region   string
	S3Endpoint string
	S3Key      string
	S3Secret   string

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	MailFrom string
}

// Load reads .env (when present) and the process environment into a Config.
func Load() (*Config, error) {
	// missing .env is fine, env vars may come from the deployment
	_ = godotenv.Load()

	cfg := &Config{
		Port:               getEnv("PORT", "5000"),
		DatabaseDSN:        getEnv("DATABASE_DSN", "file:alumni.db?cache=shared&_pragma=foreign_keys(1)"),
		AccessSecret:       os.Getenv("JWT_SECRET"),
		RefreshSecret:      os.Getenv("JWT_REFRESH_SECRET"),
		AccessTTL:          time.Duration(getEnvInt("ACCESS_TTL_MINUTES", 15)) * time.Minute,
		RefreshTTL:         time.Duration(getEnvInt("REFRESH_TTL_DAYS", 90)) * 24 * time.Hour,
		Issuer:             getEnv("JWT_ISSUER", "alumni-api"),
		Transport:          TokenTransport(getEnv("TOKEN_TRANSPORT", string(TransportHeader))),
		AccessCookieName:   getEnv("ACCESS_COOKIE_NAME", "GCUACCTKN"),
		RefreshCookieName:  getEnv("REFRESH_COOKIE_NAME", "GCURFRSTKN"),
		CORSAllowedOrigins: getEnv("CORS_ORIGIN", "*"),
		RateLimitWindow:    time.Duration(getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60)) * time.Second,
		RateLimitMax:       getEnvInt("RATE_LIMIT_MAX", 100),
		RedisAddr:          getEnv("REDIS_ADDR", ""),
		UploadDir:          getEnv("UPLOAD_DIR", "uploads"),
		S3Bucket:           os.Getenv("S3_BUCKET"),
		S3Region:           getEnv("S3_REGION", "us-east-1"),
		S3Endpoint:         os.Getenv("S3_ENDPOINT"),
		S3Key:              os.Getenv("S3_ACCESS_KEY"),
		S3Secret:           os.Getenv("S3_SECRET_KEY"),
		SMTPHost:           os.Getenv("SMTP_HOST"),
		SMTPPort:           getEnvInt("SMTP_PORT", 587),
		SMTPUser:           os.Getenv("SMTP_USER"),
		SMTPPass:           os.Getenv("SMTP_PASS"),
		MailFrom:           getEnv("MAIL_FROM", "no-reply@alumni.local"),
	}

	return cfg, cfg.Validate()
}

// Validate checks the options that have no safe default.
func (c *Config) Validate() error {
	if c.AccessSecret == "" {
		return goerrors.New("JWT_SECRET is required", goerrors.CategoryValidation)
	}
	if c.RefreshSecret == "" {
		return goerrors.New("JWT_REFRESH_SECRET is required", goerrors.CategoryValidation)
	}
	if c.AccessSecret == c.RefreshSecret {
		return goerrors.New("access and refresh secrets must differ", goerrors.CategoryValidation)
	}
	switch c.Transport {
	case TransportHeader, TransportCookie:
	default:
		return goerrors.New("TOKEN_TRANSPORT must be header or cookie", goerrors.CategoryValidation).
			WithMetadata(map[string]any{"transport": string(c.Transport)})
	}
	return nil
}

// UseCookieTransport reports whether access tokens should also be set as cookies.
func (c *Config) UseCookieTransport() bool {
	return c.Transport == TransportCookie
}

// TokenLookup builds the jwtware lookup string for the configured transport.
func (c *Config) TokenLookup() string {
	lookups := []string{"header:Authorization"}
	if c.UseCookieTransport() {
		lookups = append(lookups, "cookie:"+c.AccessCookieName)
	}
	return strings.Join(lookups, ",")
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
