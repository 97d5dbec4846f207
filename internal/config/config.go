package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultJWTSecret is the placeholder used when JWT_SECRET is unset. It is
// public, so the jwt identity provider refuses to run with it.
const DefaultJWTSecret = "change-me"

// ErrDefaultJWTSecret is returned by Validate for jwt mode without a secret.
var ErrDefaultJWTSecret = errors.New("IDENTITY_PROVIDER=jwt needs JWT_SECRET set to a private value")

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort string

	StoreDriver       string
	MongoURI          string
	MongoDatabase     string
	MongoTransactions bool
	MySQLDSN          string
	SQLitePath        string

	RedisAddr    string
	RedisDB      int
	RedisPass    string
	RoleCacheTTL time.Duration

	AMQPURL string

	StripeSecretKey string
	SiteDomain      string
	Currency        string
	TrackingPrefix  string

	IdentityProvider        string
	FirebaseCredentialsFile string
	JWTSecret               string

	// OwnerEmail is the account that always holds the admin role and can
	// never be demoted or deleted.
	OwnerEmail string

	CORSOrigins []string
	SwaggerHost string
}

// Load builds Config from environment with sensible defaults.
func Load() *Config {
	return &Config{
		ServerPort:              getEnv("SERVER_PORT", "5000"),
		StoreDriver:             strings.ToLower(getEnv("STORE_DRIVER", "mongo")),
		MongoURI:                getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:           getEnv("MONGO_DATABASE", "zap_shift_db"),
		MongoTransactions:       getEnvBool("MONGO_TRANSACTIONS", false),
		MySQLDSN:                getEnv("MYSQL_DSN", "user:password@tcp(localhost:3306)/zap_shift?charset=utf8mb4&parseTime=True&loc=UTC"),
		SQLitePath:              getEnv("SQLITE_PATH", "zap_shift.db"),
		RedisAddr:               getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:                 getEnvInt("REDIS_DB", 0),
		RedisPass:               os.Getenv("REDIS_PASSWORD"),
		RoleCacheTTL:            time.Duration(getEnvInt("ROLE_CACHE_TTL", 300)) * time.Second,
		AMQPURL:                 os.Getenv("AMQP_URL"),
		StripeSecretKey:         os.Getenv("STRIPE_SECRET_KEY"),
		SiteDomain:              strings.TrimRight(getEnv("SITE_DOMAIN", "http://localhost:5173"), "/"),
		Currency:                strings.ToLower(getEnv("PAYMENT_CURRENCY", "usd")),
		TrackingPrefix:          getEnv("TRACKING_PREFIX", "ZAP"),
		IdentityProvider:        strings.ToLower(getEnv("IDENTITY_PROVIDER", "firebase")),
		FirebaseCredentialsFile: os.Getenv("FIREBASE_CREDENTIALS_FILE"),
		JWTSecret:               getEnv("JWT_SECRET", DefaultJWTSecret),
		OwnerEmail:              strings.ToLower(strings.TrimSpace(os.Getenv("OWNER_EMAIL"))),
		CORSOrigins:             getEnvList("CORS_ORIGINS", []string{"*"}),
		SwaggerHost:             os.Getenv("SWAGGER_HOST"),
	}
}

// Validate rejects settings the server must not start with.
func (c *Config) Validate() error {
	if c.IdentityProvider == "jwt" && c.JWTSecret == DefaultJWTSecret {
		return ErrDefaultJWTSecret
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
