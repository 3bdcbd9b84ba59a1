// Package config binds the environment-style options recognized by the
// service. A .env file in the working directory is honored when present;
// real environment variables win over it.
package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	// DatabaseURL is the primary (ideally read-only) endpoint. Prefer
	// DB_URL_APP; fall back to DB_URL.
	DatabaseURL         string
	DatabaseFallbackURL string

	PoolSize           int
	MaxOverflow        int
	PoolTimeout        time.Duration
	PoolRecycle        time.Duration
	ConnectTimeout     time.Duration
	StatementTimeoutMS int

	// DataVersionTTL bounds how often the freshness probe runs;
	// QueryTTL is the wall-clock upper bound on cached query staleness.
	DataVersionTTL time.Duration
	QueryTTL       time.Duration

	// MaxBrandFilter bounds IN-list size before KPI reads switch to the
	// precomputed rollup view.
	MaxBrandFilter int

	AppToken string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool

	Port int
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // .env is optional
	v.AutomaticEnv()

	v.SetDefault("POOL_SIZE", 15)
	v.SetDefault("MAX_OVERFLOW", 30)
	v.SetDefault("POOL_TIMEOUT", 30)
	v.SetDefault("POOL_RECYCLE", 1800)
	v.SetDefault("CONNECT_TIMEOUT", 3)
	v.SetDefault("STATEMENT_TIMEOUT_MS", 15000)
	v.SetDefault("DV_TTL", 60)
	v.SetDefault("QDF_TTL", 180)
	v.SetDefault("MAX_BRAND_FILTER", 50)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("MINIO_BUCKET", "stockzero-exports")
	v.SetDefault("PORT", 8080)

	primary := v.GetString("DB_URL_APP")
	if primary == "" {
		primary = v.GetString("DB_URL")
	}

	return &Config{
		DatabaseURL:         primary,
		DatabaseFallbackURL: v.GetString("DB_URL_FALLBACK"),
		PoolSize:            v.GetInt("POOL_SIZE"),
		MaxOverflow:         v.GetInt("MAX_OVERFLOW"),
		PoolTimeout:         time.Duration(v.GetInt("POOL_TIMEOUT")) * time.Second,
		PoolRecycle:         time.Duration(v.GetInt("POOL_RECYCLE")) * time.Second,
		ConnectTimeout:      time.Duration(v.GetInt("CONNECT_TIMEOUT")) * time.Second,
		StatementTimeoutMS:  v.GetInt("STATEMENT_TIMEOUT_MS"),
		DataVersionTTL:      time.Duration(v.GetInt("DV_TTL")) * time.Second,
		QueryTTL:            time.Duration(v.GetInt("QDF_TTL")) * time.Second,
		MaxBrandFilter:      v.GetInt("MAX_BRAND_FILTER"),
		AppToken:            v.GetString("APP_TOKEN"),
		RedisAddr:           v.GetString("REDIS_ADDR"),
		RedisPassword:       v.GetString("REDIS_PASSWORD"),
		RedisDB:             v.GetInt("REDIS_DB"),
		MinioEndpoint:       v.GetString("MINIO_ENDPOINT"),
		MinioAccessKey:      v.GetString("MINIO_ACCESS_KEY"),
		MinioSecretKey:      v.GetString("MINIO_SECRET_KEY"),
		MinioBucket:         v.GetString("MINIO_BUCKET"),
		MinioUseSSL:         v.GetBool("MINIO_USE_SSL"),
		Port:                v.GetInt("PORT"),
	}, nil
}
