package config

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func testViper(values map[string]string) *viper.Viper {
	v := newViper()
	for k, val := range values {
		v.Set(k, val)
	}
	return v
}

func TestFromViper_MissingRequired(t *testing.T) {
	_, err := FromViper(testViper(nil))
	if !errors.Is(err, errMissingRequiredEnv) {
		t.Fatalf("expected errMissingRequiredEnv, got %v", err)
	}
	for _, key := range []string{"HTTP_PORT", "JWT_ACCESS_SECRET", "JWT_REFRESH_SECRET", "DATABASE_URL"} {
		if !strings.Contains(err.Error(), key) {
			t.Fatalf("expected %s in error, got %v", key, err)
		}
	}
}

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := FromViper(testViper(map[string]string{
		"HTTP_PORT":          "8080",
		"DATABASE_URL":       "postgres://u:p@localhost:5432/govtjobs?sslmode=disable",
		"JWT_ACCESS_SECRET":  "a",
		"JWT_REFRESH_SECRET": "r",
	}))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if cfg.Stats.Interval != 30*time.Second {
		t.Fatalf("expected 30s stats interval, got %s", cfg.Stats.Interval)
	}
	if cfg.Stats.CacheTTL != 30*time.Second {
		t.Fatalf("expected 30s stats cache ttl, got %s", cfg.Stats.CacheTTL)
	}
	if cfg.JWT.AccessExpiresIn != 15*time.Minute {
		t.Fatalf("unexpected access expiry %s", cfg.JWT.AccessExpiresIn)
	}
	if cfg.App.Location().String() != "Asia/Kolkata" {
		t.Fatalf("unexpected location %s", cfg.App.Location())
	}
	if cfg.App.IsProduction() {
		t.Fatalf("expected development environment")
	}
}

func TestFromViper_InvalidTimezone(t *testing.T) {
	_, err := FromViper(testViper(map[string]string{
		"HTTP_PORT":          "8080",
		"DB_HOST":            "localhost",
		"JWT_ACCESS_SECRET":  "a",
		"JWT_REFRESH_SECRET": "r",
		"APP_TIMEZONE":       "Mars/Olympus",
	}))
	if err == nil {
		t.Fatalf("expected timezone error")
	}
}

func TestFromViper_BareIntegerDurationsAreSeconds(t *testing.T) {
	cfg, err := FromViper(testViper(map[string]string{
		"HTTP_PORT":          "8080",
		"DB_HOST":            "localhost",
		"JWT_ACCESS_SECRET":  "a",
		"JWT_REFRESH_SECRET": "r",
		"REDIS_TTL":          "600",
		"STATS_INTERVAL":     "1m",
	}))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if cfg.Redis.TTL != 600*time.Second {
		t.Fatalf("expected 600s, got %s", cfg.Redis.TTL)
	}
	if cfg.Stats.Interval != time.Minute {
		t.Fatalf("expected 1m, got %s", cfg.Stats.Interval)
	}
	if cfg.Scraper.Workers != 4 || cfg.Scraper.SourcesFile != "sources.yaml" {
		t.Fatalf("unexpected scraper defaults %+v", cfg.Scraper)
	}
}

func TestScraperFromViper_OnlyNeedsDatabase(t *testing.T) {
	_, err := ScraperFromViper(testViper(nil))
	if !errors.Is(err, errMissingRequiredEnv) || strings.Contains(err.Error(), "HTTP_PORT") {
		t.Fatalf("expected only the database to be required, got %v", err)
	}

	cfg, err := ScraperFromViper(testViper(map[string]string{
		"DATABASE_URL":    "postgres://u:p@localhost:5432/govtjobs",
		"SERVER_BASE_URL": "http://api:8080",
	}))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if cfg.Scraper.Workers != 4 || cfg.Scraper.RatePerSecond != 2 || cfg.Scraper.SourcesFile != "sources.yaml" {
		t.Fatalf("scraper defaults not applied: %+v", cfg.Scraper)
	}
	if cfg.Scraper.ServerBaseURL != "http://api:8080" {
		t.Fatalf("server base url=%q", cfg.Scraper.ServerBaseURL)
	}
}
