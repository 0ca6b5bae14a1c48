package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config aggregates everything main needs to wire the service.
type Config struct {
	Server    Server
	Database  DatabaseConfig
	Redis     RedisConfig
	Kafka     KafkaConfig
	Analytics AnalyticsConfig
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	ShutdownTimeout time.Duration
}

// DatabaseConfig points at the relational event store. An empty URL means the
// service runs on in-memory stores (dev mode).
type DatabaseConfig struct {
	URL string
}

// RedisConfig configures the snapshot cache backend. An empty URL disables
// Redis and falls back to the in-process cache.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig configures the delivery-event invalidation consumer. Empty
// brokers disable ingestion.
type KafkaConfig struct {
	Brokers []string
	Topic   string
	Group   string
}

// AnalyticsConfig carries the rolling-window geometry, cache TTL, and the
// tunable confirmation score parameters. The score constants are operational
// knobs, not business rules; defaults match the documented factor contract.
type AnalyticsConfig struct {
	WindowDays  int
	WindowWeeks int
	CacheTTL    time.Duration
	WorkerLimit int

	ReschedulePenalty    float64 // baseline deduction per reschedule in window
	MaxReschedulePenalty float64
	VolatilityWeight     float64 // multiplier on coefficient of variation
	MaxVolatilityPenalty float64
	TrendStep            float64 // per-event trend adjustment
	MaxTrend             float64
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() Config {
	return Config{
		Server: Server{
			Addr:            envString("PADOCA_ADDR", ":8080"),
			ShutdownTimeout: envDuration("PADOCA_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			URL: os.Getenv("PADOCA_DATABASE_URL"),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("PADOCA_REDIS_URL"),
			PoolSize:     envInt("PADOCA_REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("PADOCA_REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("PADOCA_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("PADOCA_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("PADOCA_REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers: envStrings("PADOCA_KAFKA_BROKERS"),
			Topic:   envString("PADOCA_KAFKA_TOPIC", "padoca.delivery-events"),
			Group:   envString("PADOCA_KAFKA_GROUP", "padoca-analytics"),
		},
		Analytics: AnalyticsConfig{
			WindowDays:  envInt("PADOCA_WINDOW_DAYS", 84),
			WindowWeeks: envInt("PADOCA_WINDOW_WEEKS", 12),
			CacheTTL:    envDuration("PADOCA_SNAPSHOT_CACHE_TTL", 10*time.Minute),
			WorkerLimit: envInt("PADOCA_WORKER_LIMIT", 8),

			ReschedulePenalty:    envFloat("PADOCA_SCORE_RESCHEDULE_PENALTY", 8),
			MaxReschedulePenalty: envFloat("PADOCA_SCORE_MAX_RESCHEDULE_PENALTY", 60),
			VolatilityWeight:     envFloat("PADOCA_SCORE_VOLATILITY_WEIGHT", 50),
			MaxVolatilityPenalty: envFloat("PADOCA_SCORE_MAX_VOLATILITY_PENALTY", 30),
			TrendStep:            envFloat("PADOCA_SCORE_TREND_STEP", 2.5),
			MaxTrend:             envFloat("PADOCA_SCORE_MAX_TREND", 10),
		},
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envStrings(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
