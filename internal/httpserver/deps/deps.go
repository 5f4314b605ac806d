package deps

import (
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/smartmark/internal/auth"
	"github.com/MrSnakeDoc/smartmark/internal/cache"
	"github.com/MrSnakeDoc/smartmark/internal/logger"
	redisstore "github.com/MrSnakeDoc/smartmark/internal/store/redis"
	"github.com/MrSnakeDoc/smartmark/internal/sync"
)

type Deps struct {
	Logger      logger.Logger
	StartTime   time.Time
	Version     string
	Commit      string
	BuildDate   string
	GoVersion   string
	RedisClient *redis.Client    // Redis client connection
	Store       *redisstore.Store // Authoritative bookmark store + change feed
	Snapshots   *cache.Snapshots  // Local per-user snapshot cache
	Collections *sync.Manager     // Live per-user collection state
	OAuth       *auth.OAuth       // Google sign-in round trip
	Sessions    *auth.Sessions    // JWT session cookies

	MutationBurst     int  // token bucket size per identity on mutation routes
	MutationPerMinute int  // refill rate per identity per minute
	TrustProxy        bool // trust forwarded-for headers when keying by IP
}
