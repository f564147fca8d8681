package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Success(t *testing.T) {
	setMinimalEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.App.Env != "production" {
		t.Fatalf("expected App.Env to be production, got %q", cfg.App.Env)
	}
	if cfg.Sheets.URL != "https://sheets.example.com/exec" {
		t.Fatalf("unexpected sheets URL: %q", cfg.Sheets.URL)
	}
	if got := cfg.Sheets.Timeout; got != 30*time.Second {
		t.Fatalf("expected default sheets timeout 30s, got %v", got)
	}
	if cfg.Cache.Backend != CacheBackendMemory {
		t.Fatalf("expected memory cache backend by default, got %q", cfg.Cache.Backend)
	}
	if got := cfg.Cron.Interval; got != 5*time.Minute {
		t.Fatalf("expected cron interval 5m, got %v", got)
	}
	if cfg.Sheets.FallbackEndpoint() != cfg.Sheets.URL {
		t.Fatalf("fallback endpoint should default to the primary URL")
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	setMinimalEnv(t)
	if err := os.Unsetenv(EnvAppEnv); err != nil {
		t.Fatalf("failed to unset %s: %v", EnvAppEnv, err)
	}

	if _, err := Load(); err == nil {
		t.Fatal("expected missing required env to return an error")
	}
}

func TestLoad_RequiresSheetsSource(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvSheetsURL, "")

	if _, err := Load(); err == nil {
		t.Fatal("expected an error without sheets URL or workbook path")
	}

	t.Setenv(EnvSheetsWorkbook, "/tmp/export.xlsx")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("workbook-only config should load: %v", err)
	}
	if !cfg.Sheets.UsesWorkbook() {
		t.Fatal("expected workbook source to be selected")
	}
}

func TestLoad_RedisBackendRequiresAddress(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvCacheBackend, CacheBackendRedis)

	if _, err := Load(); err == nil {
		t.Fatal("expected redis backend without url to fail")
	}

	t.Setenv(EnvRedisURL, "redis://localhost:6379/0")
	if _, err := Load(); err != nil {
		t.Fatalf("unexpected error with redis url: %v", err)
	}
}

func TestLoad_RejectsUnknownBackend(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvCacheBackend, "memcached")

	if _, err := Load(); err == nil {
		t.Fatal("expected unknown cache backend to fail")
	}
}

func TestLoad_SQLBackendBuildsLegacyDSN(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvCacheBackend, CacheBackendSQL)
	t.Setenv(EnvDBHost, "db.internal")
	t.Setenv(EnvDBUser, "salespulse")
	t.Setenv(EnvDBName, "analytics")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	want := "postgres://salespulse@db.internal:5432/analytics?sslmode=disable"
	if cfg.DB.DSN != want {
		t.Fatalf("expected DSN %q, got %q", want, cfg.DB.DSN)
	}
}

func TestLoad_SQLiteSkipsDSN(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvCacheBackend, CacheBackendSQL)
	t.Setenv(EnvUseSQLite, "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("sqlite cache should not require a DSN: %v", err)
	}
	if cfg.DB.Driver != DBDriverSQLite {
		t.Fatalf("expected sqlite driver, got %q", cfg.DB.Driver)
	}
}

func TestLoadDatabaseIgnoresSheets(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvSheetsURL, "")

	if _, err := LoadDatabase(); err == nil {
		t.Fatal("postgres without a DSN should fail")
	}

	t.Setenv(EnvDBDSN, "postgres://salespulse@localhost:5432/salespulse")
	cfg, err := LoadDatabase()
	if err != nil {
		t.Fatalf("LoadDatabase() without a sheets source: %v", err)
	}
	if cfg.DB.DSN == "" {
		t.Fatal("expected DSN to be kept")
	}

	t.Setenv(EnvDBDSN, "")
	t.Setenv(EnvUseSQLite, "true")
	cfg, err = LoadDatabase()
	if err != nil {
		t.Fatalf("sqlite needs no DSN: %v", err)
	}
	if cfg.DB.Driver != DBDriverSQLite {
		t.Fatalf("expected sqlite driver, got %q", cfg.DB.Driver)
	}
}

func setMinimalEnv(t *testing.T) {
	t.Helper()

	t.Setenv(EnvAppEnv, "production")
	t.Setenv(EnvPort, "8081")
	t.Setenv(EnvSheetsURL, "https://sheets.example.com/exec")
	t.Setenv(EnvSheetsWorkbook, "")
	t.Setenv(EnvCacheBackend, "")
	t.Setenv(EnvRedisURL, "")
	t.Setenv(EnvRedisAddr, "")
	t.Setenv(EnvDBDSN, "")
	t.Setenv(EnvDBHost, "")
	t.Setenv(EnvDBUser, "")
	t.Setenv(EnvDBName, "")
	t.Setenv(EnvUseSQLite, "")
	_ = os.Unsetenv(EnvCacheBackend)
	_ = os.Unsetenv(EnvUseSQLite)
}

func TestAppConfigEnvHelpers(t *testing.T) {
	devConfig := AppConfig{Env: "DEV"}
	if !devConfig.IsDev() {
		t.Fatalf("expected IsDev true for %q", devConfig.Env)
	}
	if devConfig.IsProd() {
		t.Fatalf("expected IsProd false for %q", devConfig.Env)
	}

	prodConfig := AppConfig{Env: "prod"}
	if !prodConfig.IsProd() {
		t.Fatalf("expected IsProd true for %q", prodConfig.Env)
	}
}

func TestAllowedOrigins(t *testing.T) {
	app := AppConfig{CORSOrigins: " http://localhost:3000 , ,https://dash.example.com"}
	got := app.AllowedOrigins()
	if len(got) != 2 || got[0] != "http://localhost:3000" || got[1] != "https://dash.example.com" {
		t.Fatalf("unexpected origins %v", got)
	}
}
