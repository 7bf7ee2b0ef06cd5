package config

import "time"

type App struct {
	Port           string        `env:"APP_PORT" default:"8080"`
	DatabaseURL    string        `env:"DATABASE_URL,required"`
	CatalogBaseURL string        `env:"CATALOG_BASE_URL,required"`
	CatalogTimeout time.Duration `env:"CATALOG_TIMEOUT" default:"5s"`
	RedisAddr      string        `env:"REDIS_ADDR"`
	BookCacheTTL   time.Duration `env:"BOOK_CACHE_TTL" default:"10m"`
	Env            string        `env:"APP_ENV" default:"dev"`
}
