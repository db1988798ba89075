package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv          string
	HTTPAddr        string
	MetricsAddr     string
	MySQLDSN        string
	RedisAddr       string
	RedisDB         int
	RedisPass       string
	GoogleBase      string
	GoogleKey       string
	AdvisorBase     string
	AdvisorKey      string
	OpenAIKey       string
	ChatModel       string
	ReviewLimit     int
	ToolConcurrency int
	ProviderTimeout time.Duration
	CacheTTL        time.Duration
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:          env("APP_ENV", "prod"),
		HTTPAddr:        env("HTTP_ADDR", ":8080"),
		MetricsAddr:     env("METRICS_ADDR", ":9100"),
		MySQLDSN:        env("MYSQL_DSN", "root:root@tcp(localhost:3306)/tripscout?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:       env("REDIS_ADDR", "localhost:6379"),
		RedisDB:         atoi("REDIS_DB", 0),
		RedisPass:       env("REDIS_PASSWORD", ""),
		GoogleBase:      env("GOOGLE_PLACES_BASE_URL", "https://maps.googleapis.com/maps/api/place"),
		GoogleKey:       env("GOOGLE_PLACES_API_KEY", ""),
		AdvisorBase:     env("TRIPADVISOR_BASE_URL", "https://api.content.tripadvisor.com/api/v1"),
		AdvisorKey:      env("TRIPADVISOR_API_KEY", ""),
		OpenAIKey:       env("OPENAI_API_KEY", ""),
		ChatModel:       env("CHAT_MODEL", "gpt-4o-mini"),
		ReviewLimit:     atoi("REVIEW_LIMIT", 5),
		ToolConcurrency: atoi("TOOL_CONCURRENCY", 8),
		ProviderTimeout: time.Duration(atoi("PROVIDER_TIMEOUT_SECONDS", 10)) * time.Second,
		CacheTTL:        time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
	}
	if c.GoogleKey == "" {
		log.Warn().Msg("GOOGLE_PLACES_API_KEY is empty")
	}
	if c.AdvisorKey == "" {
		log.Warn().Msg("TRIPADVISOR_API_KEY is empty")
	}
	if c.OpenAIKey == "" {
		log.Warn().Msg("OPENAI_API_KEY is empty")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
