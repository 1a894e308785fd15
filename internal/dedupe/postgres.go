package dedupe

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresConfig configures the optional Postgres-backed digest store.
type PostgresConfig struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
	SSLMode  string
}

// LoadPostgresConfigFromEnv loads PostgresConfig from TRAILCORE_DEDUPE_DB_*
// environment variables.
func LoadPostgresConfigFromEnv() *PostgresConfig {
	port, _ := strconv.Atoi(getEnv("TRAILCORE_DEDUPE_DB_PORT", "5432"))
	return &PostgresConfig{
		Host:     getEnv("TRAILCORE_DEDUPE_DB_HOST", "localhost"),
		Port:     port,
		Database: getEnv("TRAILCORE_DEDUPE_DB_NAME", "trailcore"),
		User:     getEnv("TRAILCORE_DEDUPE_DB_USER", "postgres"),
		Password: getEnv("TRAILCORE_DEDUPE_DB_PASSWORD", ""),
		SSLMode:  getEnv("TRAILCORE_DEDUPE_DB_SSLMODE", "disable"),
	}
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

var (
	pgPool     *pgxpool.Pool
	pgPoolOnce sync.Once
	pgPoolErr  error
)

// GetPool returns the process-wide Postgres pool backing PostgresStore,
// initializing it on first use.
func GetPool() (*pgxpool.Pool, error) {
	pgPoolOnce.Do(func() {
		cfg := LoadPostgresConfigFromEnv()
		connString := fmt.Sprintf(
			"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
			cfg.Host, cfg.Port, cfg.Database, cfg.User, cfg.Password, cfg.SSLMode,
		)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		pgPool, pgPoolErr = pgxpool.New(ctx, connString)
		if pgPoolErr != nil {
			pgPoolErr = fmt.Errorf("dedupe: unable to create connection pool: %w", pgPoolErr)
			return
		}
		if err := pgPool.Ping(ctx); err != nil {
			pgPool.Close()
			pgPoolErr = fmt.Errorf("dedupe: unable to ping database: %w", err)
		}
	})
	return pgPool, pgPoolErr
}

// PostgresStore persists processed digests in a Postgres table so dedup
// survives process restarts and is shared across concurrent ingests.
// DDL (not run by this package): CREATE TABLE processed_networks (digest
// TEXT PRIMARY KEY, processed_at TIMESTAMPTZ NOT NULL DEFAULT now()).
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore wraps pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// IsProcessed implements Store. A query failure is a soft failure: it logs
// and reports not-yet-processed rather than aborting the caller's ingest.
func (s *PostgresStore) IsProcessed(digest string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var exists bool
	err := s.pool.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM processed_networks WHERE digest = $1)", digest).Scan(&exists)
	if err != nil {
		log.Printf("dedupe: digest lookup failed, treating as not processed: %v", err)
		return false, nil
	}
	return exists, nil
}

// MarkProcessed implements Store. Failures are logged and swallowed for
// the same reason as IsProcessed: an unavailable digest store must not
// fail an otherwise-successful ingest.
func (s *PostgresStore) MarkProcessed(digest string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := s.pool.Exec(ctx, "INSERT INTO processed_networks (digest) VALUES ($1) ON CONFLICT DO NOTHING", digest)
	if err != nil {
		log.Printf("dedupe: failed to record processed digest: %v", err)
		return nil
	}
	return nil
}
