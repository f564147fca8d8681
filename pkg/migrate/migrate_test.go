package migrate

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/angelmondragon/salespulse-backend/pkg/config"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestDatasetSnapshotsMigrationContainsSchema(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_dataset_snapshots.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no dataset_snapshots migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS dataset_snapshots",
		"cache_key  VARCHAR(128) PRIMARY KEY",
		"stored_at  BIGINT NOT NULL",
		"CREATE INDEX IF NOT EXISTS idx_dataset_snapshots_stored_at",
		"DROP TABLE IF EXISTS dataset_snapshots",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestValidateDirAcceptsShippedMigrations(t *testing.T) {
	if err := ValidateDir("migrations"); err != nil {
		t.Fatalf("shipped migrations should validate: %v", err)
	}
}

func TestValidateDirRejectsBadNames(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "init.sql"), []byte("-- +goose Up\n-- +goose Down\n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := ValidateDir(dir); err == nil {
		t.Fatal("expected invalid filename to fail")
	}
}

func TestCreateSQLMigrationWritesTemplate(t *testing.T) {
	dir := t.TempDir()
	path, err := CreateSQLMigration(dir, "Add Snapshot Source!")
	if err != nil {
		t.Fatalf("create migration: %v", err)
	}
	if !strings.HasSuffix(path, "_add_snapshot_source.sql") {
		t.Fatalf("unexpected filename %s", path)
	}
	if err := ValidateDir(dir); err != nil {
		t.Fatalf("created migration should validate: %v", err)
	}
	if _, err := CreateSQLMigration(dir, "!!!"); err == nil {
		t.Fatal("expected unusable name to fail")
	}
}

func TestCreateRefusesToOverwrite(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
	path, err := createAt(dir, "snapshot index", now)
	if err != nil {
		t.Fatalf("create migration: %v", err)
	}
	if filepath.Base(path) != "20260302093000_snapshot_index.sql" {
		t.Fatalf("unexpected filename %s", path)
	}
	if _, err := createAt(dir, "snapshot index", now); err == nil {
		t.Fatal("expected existing migration to be kept")
	}
}

func TestValidateDirRejectsNonPortableSQL(t *testing.T) {
	dir := t.TempDir()
	body := "-- +goose Up\nCREATE TABLE t (id SERIAL PRIMARY KEY, data JSONB);\n-- +goose Down\nDROP TABLE t;\n"
	if err := os.WriteFile(filepath.Join(dir, "20260302093000_t.sql"), []byte(body), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	err := ValidateDir(dir)
	if err == nil || !strings.Contains(err.Error(), "SERIAL") {
		t.Fatalf("expected non-portable error, got %v", err)
	}
}

func TestValidateDirRejectsDownBeforeUp(t *testing.T) {
	dir := t.TempDir()
	body := "-- +goose Down\nDROP TABLE t;\n-- +goose Up\nCREATE TABLE t (id INTEGER);\n"
	if err := os.WriteFile(filepath.Join(dir, "20260302093000_t.sql"), []byte(body), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := ValidateDir(dir); err == nil {
		t.Fatal("expected ordering error")
	}
}

func TestDialect(t *testing.T) {
	if got := Dialect(config.DBDriverSQLite); got != "sqlite3" {
		t.Fatalf("expected sqlite3, got %s", got)
	}
	if got := Dialect(""); got != "postgres" {
		t.Fatalf("expected postgres default, got %s", got)
	}
}

func TestShouldAutoRun(t *testing.T) {
	cases := []struct {
		name string
		cfg  *config.Config
		want bool
	}{
		{name: "nil config", cfg: nil, want: false},
		{name: "flag off", cfg: &config.Config{App: config.AppConfig{Env: "dev"}}, want: false},
		{name: "dev with flag", cfg: &config.Config{
			App:          config.AppConfig{Env: "dev"},
			FeatureFlags: config.FeatureFlagsConfig{AutoMigrate: true},
		}, want: true},
		{name: "prod postgres", cfg: &config.Config{
			App:          config.AppConfig{Env: "prod"},
			DB:           config.DBConfig{Driver: config.DBDriverPostgres},
			FeatureFlags: config.FeatureFlagsConfig{AutoMigrate: true},
		}, want: false},
		{name: "prod sqlite", cfg: &config.Config{
			App:          config.AppConfig{Env: "prod"},
			DB:           config.DBConfig{Driver: config.DBDriverSQLite},
			FeatureFlags: config.FeatureFlagsConfig{AutoMigrate: true},
		}, want: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := shouldAutoRun(tc.cfg); got != tc.want {
				t.Fatalf("shouldAutoRun() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestRunAppliesMigrationsOnSQLite(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open("file:migrate_run?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := Run(context.Background(), sqlDB, Dialect(config.DBDriverSQLite), "migrations", "up"); err != nil {
		t.Fatalf("goose up: %v", err)
	}
	if !conn.Migrator().HasTable("dataset_snapshots") {
		t.Fatal("expected dataset_snapshots table after migration")
	}
}

func TestMigrateToVersionRollsBackAndForward(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open("file:migrate_version?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	dialect := Dialect(config.DBDriverSQLite)
	if err := MigrateToVersion(context.Background(), sqlDB, dialect, "migrations", "20260302093000"); err != nil {
		t.Fatalf("migrate up: %v", err)
	}
	if !conn.Migrator().HasTable("dataset_snapshots") {
		t.Fatal("expected table after migrating up")
	}
	if err := MigrateToVersion(context.Background(), sqlDB, dialect, "migrations", "0"); err != nil {
		t.Fatalf("migrate down: %v", err)
	}
	if conn.Migrator().HasTable("dataset_snapshots") {
		t.Fatal("expected table to be dropped")
	}
	if err := MigrateToVersion(context.Background(), sqlDB, dialect, "migrations", "latest"); err == nil {
		t.Fatal("expected invalid version error")
	}
}
