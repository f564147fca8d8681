package config

// EnvPrefix namespaces envconfig lookups; the explicit tags resolve as alternates.
const EnvPrefix = "SALESPULSE"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
	CacheBackendSQL    = "sql"
)

const (
	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"
)

const (
	EnvAppEnv         = "SALESPULSE_APP_ENV"
	EnvPort           = "SALESPULSE_APP_PORT"
	EnvSheetsURL      = "SALESPULSE_SHEETS_URL"
	EnvSheetsWorkbook = "SALESPULSE_SHEETS_WORKBOOK_PATH"
	EnvCacheBackend   = "SALESPULSE_CACHE_BACKEND"
	EnvRedisURL       = "SALESPULSE_REDIS_URL"
	EnvRedisAddr      = "SALESPULSE_REDIS_ADDR"
	EnvDBDSN          = "SALESPULSE_DB_DSN"
	EnvDBHost         = "SALESPULSE_DB_HOST"
	EnvDBUser         = "SALESPULSE_DB_USER"
	EnvDBName         = "SALESPULSE_DB_NAME"
	EnvUseSQLite      = "SALESPULSE_USE_SQLITE"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
