package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App           AppConfig
	Database      DatabaseConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Kafka         KafkaConfig
	Stats         StatsConfig
	Scraper       ScraperConfig
	InternalToken string
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string
	LogLevel    string
	Timezone    string
}

type DatabaseConfig struct {
	URL        string
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout        time.Duration
	PoolMaxConns          int32
	PoolMinConns          int32
	PoolMaxConnLifetime   time.Duration
	PoolMaxConnIdleTime   time.Duration
	PoolHealthCheckPeriod time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

type JWTConfig struct {
	AccessSecret     string
	RefreshSecret    string
	AccessExpiresIn  time.Duration
	RefreshExpiresIn time.Duration
}

type KafkaConfig struct {
	Broker string
	Topic  string
}

type StatsConfig struct {
	CacheTTL time.Duration
	Interval time.Duration
}

type ScraperConfig struct {
	SourcesFile     string
	Workers         int
	RatePerSecond   float64
	RequestTimeout  time.Duration
	HeadlessTimeout time.Duration
	ServerBaseURL   string
	UserAgent       string
}

var errMissingRequiredEnv = errors.New("missing required environment variables")

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; real environment variables win.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_NAME", "govtjobs")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("APP_TIMEZONE", "Asia/Kolkata")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_CONNECT_TIMEOUT", "5s")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_TTL", "600s")
	v.SetDefault("JWT_ACCESS_EXPIRES_IN", "15m")
	v.SetDefault("JWT_REFRESH_EXPIRES_IN", "168h")
	v.SetDefault("KAFKA_TOPIC", "govtjobs.jobs")
	v.SetDefault("STATS_CACHE_TTL", "30s")
	v.SetDefault("STATS_INTERVAL", "30s")
	v.SetDefault("SCRAPER_SOURCES_FILE", "sources.yaml")
	v.SetDefault("SCRAPER_WORKERS", 4)
	v.SetDefault("SCRAPER_RATE_PER_SECOND", 2.0)
	v.SetDefault("SCRAPER_REQUEST_TIMEOUT", "20s")
	v.SetDefault("SCRAPER_HEADLESS_TIMEOUT", "45s")
	v.SetDefault("SCRAPER_USER_AGENT", "govtjobs-scraper/1.0")
	return v
}

// LoadScraper is Load for the scraper CLI, which needs the database and
// cache but none of the HTTP or JWT settings.
func LoadScraper() (Config, error) {
	_ = godotenv.Load()
	return ScraperFromViper(newViper())
}

// FromViper builds a Config from an already prepared viper instance.
func FromViper(v *viper.Viper) (Config, error) {
	return fromViper(v, true)
}

func ScraperFromViper(v *viper.Viper) (Config, error) {
	return fromViper(v, false)
}

func fromViper(v *viper.Viper, server bool) (Config, error) {
	cfg := Config{}

	var missing []string
	req := func(key string) string {
		s := strings.TrimSpace(v.GetString(key))
		if s == "" && server {
			missing = append(missing, key)
		}
		return s
	}
	opt := func(key string) string {
		return strings.TrimSpace(v.GetString(key))
	}
	dur := func(key string) time.Duration {
		// Bare integers are seconds, as in REDIS_TTL=600.
		raw := strings.TrimSpace(v.GetString(key))
		if n, err := strconv.Atoi(raw); err == nil {
			return time.Duration(n) * time.Second
		}
		return v.GetDuration(key)
	}

	cfg.App = AppConfig{
		AppName:     opt("APP_NAME"),
		Environment: opt("APP_ENV"),
		HTTPPort:    req("HTTP_PORT"),
		LogLevel:    opt("LOG_LEVEL"),
		Timezone:    opt("APP_TIMEZONE"),
	}

	cfg.Database = DatabaseConfig{
		URL:                   opt("DATABASE_URL"),
		DBHost:                opt("DB_HOST"),
		DBPort:                opt("DB_PORT"),
		DBName:                opt("DB_NAME"),
		DBUser:                opt("DB_USER"),
		DBPassword:            v.GetString("DB_PASSWORD"),
		DBSSLMode:             opt("DB_SSL_MODE"),
		ConnectTimeout:        dur("DB_CONNECT_TIMEOUT"),
		PoolMaxConns:          v.GetInt32("DB_POOL_MAX_CONNS"),
		PoolMinConns:          v.GetInt32("DB_POOL_MIN_CONNS"),
		PoolMaxConnLifetime:   dur("DB_POOL_MAX_CONN_LIFETIME"),
		PoolMaxConnIdleTime:   dur("DB_POOL_MAX_CONN_IDLE_TIME"),
		PoolHealthCheckPeriod: dur("DB_POOL_HEALTH_CHECK_PERIOD"),
	}
	if cfg.Database.URL == "" && cfg.Database.DBHost == "" {
		missing = append(missing, "DATABASE_URL (or DB_HOST)")
	}

	cfg.Redis = RedisConfig{
		Addr:     opt("REDIS_ADDR"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
		TTL:      dur("REDIS_TTL"),
	}

	cfg.JWT = JWTConfig{
		AccessSecret:     req("JWT_ACCESS_SECRET"),
		RefreshSecret:    req("JWT_REFRESH_SECRET"),
		AccessExpiresIn:  dur("JWT_ACCESS_EXPIRES_IN"),
		RefreshExpiresIn: dur("JWT_REFRESH_EXPIRES_IN"),
	}

	cfg.Kafka = KafkaConfig{
		Broker: opt("KAFKA_BROKER"),
		Topic:  opt("KAFKA_TOPIC"),
	}

	cfg.Stats = StatsConfig{
		CacheTTL: dur("STATS_CACHE_TTL"),
		Interval: dur("STATS_INTERVAL"),
	}

	cfg.Scraper = ScraperConfig{
		SourcesFile:     opt("SCRAPER_SOURCES_FILE"),
		Workers:         v.GetInt("SCRAPER_WORKERS"),
		RatePerSecond:   v.GetFloat64("SCRAPER_RATE_PER_SECOND"),
		RequestTimeout:  dur("SCRAPER_REQUEST_TIMEOUT"),
		HeadlessTimeout: dur("SCRAPER_HEADLESS_TIMEOUT"),
		ServerBaseURL:   opt("SERVER_BASE_URL"),
		UserAgent:       opt("SCRAPER_USER_AGENT"),
	}

	cfg.InternalToken = opt("INTERNAL_TOKEN")

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}

	if _, err := time.LoadLocation(cfg.App.Timezone); err != nil {
		return Config{}, fmt.Errorf("invalid APP_TIMEZONE %q: %w", cfg.App.Timezone, err)
	}

	return cfg, nil
}

// Location returns the configured timezone, falling back to UTC.
func (c AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil || loc == nil {
		return time.UTC
	}
	return loc
}

func (c AppConfig) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}
