package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "REVIEW_MIN_LENGTH", "REVIEW_MAX_LENGTH", "MODERATION_MODE", "ACCESS_TOKEN_TTL", "REDIS_URL", "TRUSTED_PROXIES"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, 10, cfg.ReviewMinLength)
	assert.Equal(t, 2000, cfg.ReviewMaxLength)
	assert.Equal(t, 50, cfg.AutoApproveMinLength)
	assert.Equal(t, ModerationManual, cfg.ModerationMode)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
	assert.Empty(t, cfg.RedisURL)
	assert.Nil(t, cfg.TrustedProxies)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("REVIEW_MIN_LENGTH", "20")
	t.Setenv("MODERATION_MODE", "AUTO")
	t.Setenv("ACCESS_TOKEN_TTL", "1h")
	t.Setenv("RATE_LIMIT_RPS", "not-a-number")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 192.168.1.4,")

	cfg := Load()

	assert.Equal(t, 20, cfg.ReviewMinLength)
	assert.Equal(t, ModerationAuto, cfg.ModerationMode)
	assert.Equal(t, time.Hour, cfg.AccessTokenTTL)
	assert.Equal(t, 100, cfg.RateLimitRPS)
	assert.Equal(t, []string{"10.0.0.0/8", "192.168.1.4"}, cfg.TrustedProxies)
}

func TestValidate(t *testing.T) {
	cfg := Load()
	cfg.JWTSecret = "development-jwt-secret-key"
	cfg.JWTRefreshSecret = "a-real-secret"

	warnings, err := cfg.Validate()
	require.NoError(t, err)
	assert.Len(t, warnings, 1)

	cfg.ReviewMaxLength = cfg.ReviewMinLength - 1
	_, err = cfg.Validate()
	assert.Error(t, err)

	cfg = Load()
	cfg.ModerationMode = "sometimes"
	_, err = cfg.Validate()
	assert.Error(t, err)
}
