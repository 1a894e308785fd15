package elevation

import (
	"context"
	"crypto/sha256"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/greenbelt/trailcore/internal/models"
)

// CacheConfig holds Redis configuration for the elevation cache.
type CacheConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	TTL      time.Duration
}

// LoadCacheConfigFromEnv loads CacheConfig from TRAILCORE_REDIS_* variables.
func LoadCacheConfigFromEnv() *CacheConfig {
	port, _ := strconv.Atoi(getEnv("TRAILCORE_REDIS_PORT", "6379"))
	db, _ := strconv.Atoi(getEnv("TRAILCORE_REDIS_DB", "0"))
	ttl, _ := time.ParseDuration(getEnv("TRAILCORE_ELEVATION_CACHE_TTL", "24h"))

	return &CacheConfig{
		Host:     getEnv("TRAILCORE_REDIS_HOST", "localhost"),
		Port:     port,
		Password: getEnv("TRAILCORE_REDIS_PASSWORD", ""),
		DB:       db,
		TTL:      ttl,
	}
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

var (
	redisClient     *redis.Client
	redisClientOnce sync.Once
	redisClientErr  error
)

// GetRedisClient returns the process-wide Redis client used by the
// elevation cache, initializing it on first use.
func GetRedisClient() (*redis.Client, error) {
	redisClientOnce.Do(func() {
		cfg := LoadCacheConfigFromEnv()
		redisClient = redis.NewClient(&redis.Options{
			Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Password:     cfg.Password,
			DB:           cfg.DB,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			redisClientErr = fmt.Errorf("elevation: failed to connect to redis: %w", err)
		}
	})
	return redisClient, redisClientErr
}

// CachedOracle wraps another Oracle with a Redis-backed cache keyed on the
// sha256 of the requested coordinates, so repeat elevation lookups for the
// same trail segment across ingests don't re-hit the network oracle.
type CachedOracle struct {
	Inner  Oracle
	Client *redis.Client
	TTL    time.Duration
}

// NewCachedOracle wraps inner with a cache backed by client.
func NewCachedOracle(inner Oracle, client *redis.Client, ttl time.Duration) *CachedOracle {
	return &CachedOracle{Inner: inner, Client: client, TTL: ttl}
}

func elevationKey(nodes []models.Node) string {
	h := sha256.New()
	for _, n := range nodes {
		fmt.Fprintf(h, "%.6f,%.6f;", n.Lat, n.Lon)
	}
	return fmt.Sprintf("elevation:%x", h.Sum(nil))
}

// Elevations implements Oracle, consulting the cache before the inner oracle.
func (c *CachedOracle) Elevations(ctx context.Context, nodes []models.Node) ([]float64, error) {
	key := elevationKey(nodes)

	if data, err := c.Client.Get(ctx, key).Bytes(); err == nil {
		var heights []float64
		if jsonErr := json.Unmarshal(data, &heights); jsonErr == nil {
			return heights, nil
		}
	}

	heights, err := c.Inner.Elevations(ctx, nodes)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(heights); err == nil {
		c.Client.Set(ctx, key, data, c.TTL)
	}
	return heights, nil
}

// ElevationGainLoss implements Oracle by summing deltas over the (cached)
// elevation samples from Elevations; the inner oracle's own gain/loss
// method is not called.
func (c *CachedOracle) ElevationGainLoss(ctx context.Context, nodes []models.Node) (float64, float64, error) {
	heights, err := c.Elevations(ctx, nodes)
	if err != nil {
		return 0, 0, err
	}
	gain, loss := gainLossFromHeights(heights)
	return gain, loss, nil
}
