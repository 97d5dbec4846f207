package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"SERVER_PORT", "STORE_DRIVER", "ROLE_CACHE_TTL", "OWNER_EMAIL", "CORS_ORIGINS", "SITE_DOMAIN"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "5000", cfg.ServerPort)
	assert.Equal(t, "mongo", cfg.StoreDriver)
	assert.Equal(t, 5*time.Minute, cfg.RoleCacheTTL)
	assert.Equal(t, "", cfg.OwnerEmail)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, "http://localhost:5173", cfg.SiteDomain)
	assert.Equal(t, "ZAP", cfg.TrackingPrefix)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "SQLite")
	t.Setenv("OWNER_EMAIL", "  Owner@Example.com ")
	t.Setenv("ROLE_CACHE_TTL", "60")
	t.Setenv("MONGO_TRANSACTIONS", "true")
	t.Setenv("CORS_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("SITE_DOMAIN", "https://zap.example/")
	t.Setenv("REDIS_DB", "not-a-number")

	cfg := Load()

	assert.Equal(t, "sqlite", cfg.StoreDriver)
	assert.Equal(t, "owner@example.com", cfg.OwnerEmail)
	assert.Equal(t, time.Minute, cfg.RoleCacheTTL)
	assert.True(t, cfg.MongoTransactions)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, "https://zap.example", cfg.SiteDomain)
	assert.Equal(t, 0, cfg.RedisDB)
}

func TestValidate_JWTModeNeedsPrivateSecret(t *testing.T) {
	t.Setenv("IDENTITY_PROVIDER", "jwt")
	t.Setenv("JWT_SECRET", "")

	cfg := Load()
	assert.Equal(t, DefaultJWTSecret, cfg.JWTSecret)
	assert.ErrorIs(t, cfg.Validate(), ErrDefaultJWTSecret)

	t.Setenv("JWT_SECRET", "s3cret-for-tests")
	assert.NoError(t, Load().Validate())
}

func TestValidate_FirebaseIgnoresJWTSecret(t *testing.T) {
	t.Setenv("IDENTITY_PROVIDER", "firebase")
	t.Setenv("JWT_SECRET", "")

	assert.NoError(t, Load().Validate())
}
