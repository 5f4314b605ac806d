package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s
	BaseURL         string        // external URL of this instance (ex: https://marks.domain.ext)

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Auth
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string        // ex: https://marks.domain.ext/auth/google/callback
	JWTSecret          string        // HS256 signing key for session tokens
	SessionTTL         time.Duration // session cookie lifetime (default: 24h)
	SecureCookies      bool          // true => Secure flag on cookies (disable for local dev)

	// Local snapshot cache
	CacheDir    string        // directory for per-user snapshot files
	SnapshotTTL time.Duration // janitor deletes snapshots untouched longer than this
	GCInterval  time.Duration // interval between janitor runs (default: 24h)

	// Rate limiting for mutation endpoints
	MutationBurst     int  // token bucket size per identity
	MutationPerMinute int  // refill rate per identity per minute
	TrustProxy        bool // true => trust X-Forwarded-For/X-Real-IP (behind a reverse proxy only)

	// Redis
	RedisAddr           string        // ex: "localhost:6379"
	RedisUser           string        // optional
	RedisPassword       string        // optional
	RedisDB             int           // Redis DB number
	RedisDT             time.Duration // Redis dial timeout (ex: 5s)
	RedisRT             time.Duration // Redis read timeout (ex: 3s)
	RedisWT             time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait        time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout    time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize       int           // Redis connection pool size
	RedisConnectTimeout time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval  time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold  int           // warn after this many attempts
}

func Load() *Config {
	LoadDotEnv()

	cfg := &Config{
		// Server settings
		ListenPort:      getenv("SMARTMARK_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("SMARTMARK_SHUTDOWN_TIMEOUT", 5*time.Second),
		BaseURL:         getenv("SMARTMARK_BASE_URL", "http://localhost:8080"),

		// Logging
		LogLevel:  getenv("SMARTMARK_LOG_LEVEL", "info"),
		PrettyLog: mustBool("SMARTMARK_PRETTY_LOG", true),

		// Auth
		GoogleClientID:     requireEnv("SMARTMARK_GOOGLE_CLIENT_ID"),
		GoogleClientSecret: requireEnv("SMARTMARK_GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:  getenv("SMARTMARK_GOOGLE_REDIRECT_URL", ""),
		JWTSecret:          requireEnv("SMARTMARK_JWT_SECRET"),
		SessionTTL:         mustDuration("SMARTMARK_SESSION_TTL", 24*time.Hour),
		SecureCookies:      mustBool("SMARTMARK_SECURE_COOKIES", true),

		// Snapshot cache
		CacheDir:    getenv("SMARTMARK_CACHE_DIR", defaultCacheDir()),
		SnapshotTTL: mustDuration("SMARTMARK_SNAPSHOT_TTL", 30*24*time.Hour),
		GCInterval:  mustDuration("SMARTMARK_GC_INTERVAL", 24*time.Hour),

		// Rate limiting
		MutationBurst:     getenvInt("SMARTMARK_MUTATION_BURST", 20),
		MutationPerMinute: getenvInt("SMARTMARK_MUTATION_PER_MINUTE", 60),
		TrustProxy:        mustBool("SMARTMARK_TRUST_PROXY", false),

		// Redis settings
		RedisAddr:           requireEnv("SMARTMARK_REDIS_ADDR"),
		RedisUser:           getenv("SMARTMARK_REDIS_USERNAME", "default"),
		RedisPassword:       getenv("SMARTMARK_REDIS_PASSWORD", ""),
		RedisDB:             getenvInt("SMARTMARK_REDIS_DB", 0),
		RedisDT:             mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:             mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:             mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:        mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:    mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:       getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout: mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:  mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:  getenvInt("REDIS_WARN_THRESHOLD", 3),
	}

	// Callback URL defaults to BaseURL + well-known path
	if cfg.GoogleRedirectURL == "" {
		cfg.GoogleRedirectURL = cfg.BaseURL + "/auth/google/callback"
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		cfgCopy.GoogleClientSecret = "***REDACTED***"
		cfgCopy.JWTSecret = "***REDACTED***"
		cfgCopy.RedisPassword = "***REDACTED***"
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

func defaultCacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return dir + "/smartmark"
	}
	return "/tmp/smartmark"
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
