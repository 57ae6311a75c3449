package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("PORT", "")
	t.Setenv("COOKIE_SECURE", "")
	t.Setenv("JWT_EXPIRES_IN", "")

	cfg := Load()
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "4000", cfg.Port)
	assert.Empty(t, cfg.JWTSecret)
	assert.Equal(t, 7*24*time.Hour, cfg.JWTExpiresIn)
	assert.Equal(t, "access_token", cfg.CookieName)
	assert.False(t, cfg.CookieSecure)
	assert.False(t, cfg.IsProduction())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_EXPIRES_IN", "2h")
	t.Setenv("DB_MAX_CONNS", "25")
	t.Setenv("RATE_LIMIT_ENABLED", "false")
	t.Setenv("COOKIE_SECURE", "")

	cfg := Load()
	assert.True(t, cfg.IsProduction())
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, 2*time.Hour, cfg.JWTExpiresIn)
	assert.Equal(t, int32(25), cfg.DBMaxConns)
	assert.False(t, cfg.RateLimitEnabled)
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("JWT_EXPIRES_IN", "a week")
	t.Setenv("REDIS_DB", "two")
	t.Setenv("COOKIE_SECURE", "maybe")

	cfg := Load()
	assert.Equal(t, 7*24*time.Hour, cfg.JWTExpiresIn)
	assert.Equal(t, 0, cfg.RedisDB)
	assert.False(t, cfg.CookieSecure)
}

func TestCookieSecureCanBeForced(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("COOKIE_SECURE", "true")
	assert.True(t, Load().CookieSecure)
}

func TestPostgresDSN(t *testing.T) {
	cfg := &Config{DBUser: "forest", DBPassword: "pw", DBHost: "db", DBPort: "5433", DBName: "sf", DBSSLMode: "require"}
	assert.Equal(t, "postgres://forest:pw@db:5433/sf?sslmode=require", cfg.PostgresDSN())
}

func TestCORSOrigins(t *testing.T) {
	cfg := &Config{CORSAllowedOrigins: " http://a.dev , ,https://b.dev,"}
	assert.Equal(t, []string{"http://a.dev", "https://b.dev"}, cfg.CORSOrigins())

	assert.Empty(t, (&Config{}).CORSOrigins())
}

func TestJWTExpiresInAcceptsDays(t *testing.T) {
	t.Setenv("JWT_EXPIRES_IN", "7d")
	assert.Equal(t, 7*24*time.Hour, Load().JWTExpiresIn)

	t.Setenv("JWT_EXPIRES_IN", "30m")
	assert.Equal(t, 30*time.Minute, Load().JWTExpiresIn)
}

func TestParseDuration(t *testing.T) {
	d, err := parseDuration("1d")
	assert.NoError(t, err)
	assert.Equal(t, 24*time.Hour, d)

	for _, bad := range []string{"d", "1.5d", "-2d", "xd", "7days"} {
		_, err := parseDuration(bad)
		assert.Error(t, err, bad)
	}
}
