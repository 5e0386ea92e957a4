package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv       string
	LogLevel     string
	HTTPAddr     string
	MetricsAddr  string
	ItineraryURL string
	ItineraryRPS int
	RedisAddr    string
	RedisDB      int
	RedisPass    string
	DraftTTL     time.Duration
	ReqTimeout   time.Duration
	BatchWorkers int
}

// Load reads the environment, after merging a local .env file if present.
// Variables already set in the environment win over .env.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("could not read .env")
	}
	return FromEnv()
}

func FromEnv() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Warn().Str("key", k).Str("value", v).Msg("not an integer, using default")
		}
		return def
	}
	c := Config{
		AppEnv:       env("APP_ENV", "prod"),
		LogLevel:     env("LOG_LEVEL", "info"),
		HTTPAddr:     env("HTTP_ADDR", ":8080"),
		MetricsAddr:  env("METRICS_ADDR", ""),
		ItineraryURL: env("ITINERARY_API_URL", "http://localhost:5000"),
		ItineraryRPS: atoi("ITINERARY_RPS", 0),
		RedisAddr:    env("REDIS_ADDR", ""),
		RedisPass:    env("REDIS_PASSWORD", ""),
		RedisDB:      atoi("REDIS_DB", 0),
		DraftTTL:     time.Duration(atoi("DRAFT_TTL_SECONDS", 86400)) * time.Second,
		ReqTimeout:   time.Duration(atoi("REQUEST_TIMEOUT_SECONDS", 120)) * time.Second,
		BatchWorkers: atoi("BATCH_WORKERS", 4),
	}
	if c.BatchWorkers <= 0 {
		c.BatchWorkers = 1
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
