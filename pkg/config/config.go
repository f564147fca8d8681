package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	Sheets       SheetsConfig
	Cache        CacheConfig
	DB           DBConfig
	Redis        RedisConfig
	Cron         CronConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	cfg, err := process()
	if err != nil {
		return nil, err
	}
	if err := cfg.Sheets.validate(); err != nil {
		return nil, err
	}
	if err := cfg.Cache.validate(); err != nil {
		return nil, err
	}
	if cfg.Cache.Backend == CacheBackendSQL && cfg.DB.Driver != DBDriverSQLite {
		if err := cfg.DB.ensureDSN(); err != nil {
			return nil, err
		}
	}
	if cfg.Cache.Backend == CacheBackendRedis && cfg.Redis.URL == "" && cfg.Redis.Address == "" {
		return nil, fmt.Errorf("%s or %s is required for the redis cache backend", EnvRedisURL, EnvRedisAddr)
	}
	return cfg, nil
}

// LoadDatabase reads the same environment as Load but only validates what the
// migrate binary needs, so migrations run without a spreadsheet source.
func LoadDatabase() (*Config, error) {
	cfg, err := process()
	if err != nil {
		return nil, err
	}
	if cfg.DB.Driver != DBDriverSQLite {
		if err := cfg.DB.ensureDSN(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func process() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.Cache.Backend = strings.ToLower(strings.TrimSpace(cfg.Cache.Backend))
	if cfg.FeatureFlags.UseSQLite {
		cfg.DB.Driver = DBDriverSQLite
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SALESPULSE_APP_ENV" required:"true"`
	Port         string `envconfig:"SALESPULSE_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"SALESPULSE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SALESPULSE_LOG_WARN_STACK" default:"false"`
	CORSOrigins  string `envconfig:"SALESPULSE_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// AllowedOrigins splits the comma separated CORS origin list.
func (a AppConfig) AllowedOrigins() []string {
	var out []string
	for _, origin := range strings.Split(a.CORSOrigins, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

type ServiceConfig struct {
	Kind string `envconfig:"SALESPULSE_SERVICE_KIND" default:"api"`
}

// SheetsConfig points at the spreadsheet-backed endpoint that serves raw rows.
type SheetsConfig struct {
	URL           string        `envconfig:"SALESPULSE_SHEETS_URL"`
	FallbackURL   string        `envconfig:"SALESPULSE_SHEETS_FALLBACK_URL"`
	ProductsSheet string        `envconfig:"SALESPULSE_SHEETS_PRODUCTS_SHEET" default:"Produkte"`
	CampaignSheet string        `envconfig:"SALESPULSE_SHEETS_CAMPAIGNS_SHEET" default:"Kampagnen"`
	WorkbookPath  string        `envconfig:"SALESPULSE_SHEETS_WORKBOOK_PATH"`
	Timeout       time.Duration `envconfig:"SALESPULSE_SHEETS_TIMEOUT" default:"30s"`
}

// UsesWorkbook reports whether rows come from a local .xlsx export instead of HTTP.
func (s SheetsConfig) UsesWorkbook() bool {
	return strings.TrimSpace(s.WorkbookPath) != ""
}

// FallbackEndpoint returns the secondary endpoint, defaulting to the primary URL.
func (s SheetsConfig) FallbackEndpoint() string {
	if trimmed := strings.TrimSpace(s.FallbackURL); trimmed != "" {
		return trimmed
	}
	return strings.TrimSpace(s.URL)
}

func (s SheetsConfig) validate() error {
	if s.UsesWorkbook() {
		return nil
	}
	if strings.TrimSpace(s.URL) == "" {
		return fmt.Errorf("either %s or %s is required", EnvSheetsURL, EnvSheetsWorkbook)
	}
	if _, err := url.ParseRequestURI(s.URL); err != nil {
		return fmt.Errorf("invalid %s: %w", EnvSheetsURL, err)
	}
	return nil
}

type CacheConfig struct {
	Backend   string        `envconfig:"SALESPULSE_CACHE_BACKEND" default:"memory"`
	Retention time.Duration `envconfig:"SALESPULSE_CACHE_RETENTION" default:"168h"`
}

func (c CacheConfig) validate() error {
	switch strings.ToLower(strings.TrimSpace(c.Backend)) {
	case CacheBackendMemory, CacheBackendRedis, CacheBackendSQL:
		return nil
	default:
		return fmt.Errorf("unsupported %s %q", EnvCacheBackend, c.Backend)
	}
}

type DBConfig struct {
	DSN    string `envconfig:"SALESPULSE_DB_DSN"`
	Driver string `envconfig:"SALESPULSE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SALESPULSE_DB_HOST"`
	LegacyPort     int    `envconfig:"SALESPULSE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SALESPULSE_DB_USER"`
	LegacyPassword string `envconfig:"SALESPULSE_DB_PASSWORD"`
	LegacyName     string `envconfig:"SALESPULSE_DB_NAME"`
	LegacySSLMode  string `envconfig:"SALESPULSE_DB_SSLMODE" default:"disable"`

	SQLitePath string `envconfig:"SALESPULSE_DB_SQLITE_PATH" default:"salespulse.db"`

	MaxOpenConns    int           `envconfig:"SALESPULSE_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"SALESPULSE_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"SALESPULSE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SALESPULSE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SALESPULSE_REDIS_URL"`
	Address      string        `envconfig:"SALESPULSE_REDIS_ADDR"`
	Password     string        `envconfig:"SALESPULSE_REDIS_PASSWORD"`
	DB           int           `envconfig:"SALESPULSE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SALESPULSE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SALESPULSE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SALESPULSE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SALESPULSE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SALESPULSE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"SALESPULSE_CRON_INTERVAL" default:"5m"`
	LockTTL  time.Duration `envconfig:"SALESPULSE_CRON_LOCK_TTL" default:"4m"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"SALESPULSE_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"SALESPULSE_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
