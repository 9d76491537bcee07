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
	DB           DBConfig
	Redis        RedisConfig
	Worklist     WorklistConfig
	Scan         ScanConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.FeatureFlags.UseSQLite {
		return &cfg, nil
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"STOCKSCAN_APP_ENV" default:"dev"`
	Port         string `envconfig:"STOCKSCAN_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"STOCKSCAN_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STOCKSCAN_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"STOCKSCAN_DB_DSN"`
	Driver string `envconfig:"STOCKSCAN_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"STOCKSCAN_DB_HOST"`
	LegacyPort     int    `envconfig:"STOCKSCAN_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"STOCKSCAN_DB_USER"`
	LegacyPassword string `envconfig:"STOCKSCAN_DB_PASSWORD"`
	LegacyName     string `envconfig:"STOCKSCAN_DB_NAME"`
	LegacySSLMode  string `envconfig:"STOCKSCAN_DB_SSLMODE" default:"disable"`

	SQLitePath string `envconfig:"STOCKSCAN_SQLITE_PATH" default:"stockscan.db"`

	MaxOpenConns    int           `envconfig:"STOCKSCAN_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"STOCKSCAN_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"STOCKSCAN_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"STOCKSCAN_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"STOCKSCAN_REDIS_URL"`
	Address      string        `envconfig:"STOCKSCAN_REDIS_ADDR"`
	Password     string        `envconfig:"STOCKSCAN_REDIS_PASSWORD"`
	DB           int           `envconfig:"STOCKSCAN_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STOCKSCAN_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STOCKSCAN_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STOCKSCAN_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOCKSCAN_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STOCKSCAN_REDIS_WRITE_TIMEOUT" default:"5s"`
	CacheTTL     time.Duration `envconfig:"STOCKSCAN_REDIS_CACHE_TTL" default:"5m"`
}

// Enabled reports whether a cache endpoint was configured at all.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type WorklistConfig struct {
	StorePath string `envconfig:"STOCKSCAN_WORKLIST_STORE_PATH" default:"worklist.db"`
}

type ScanConfig struct {
	TimeoutUnits int           `envconfig:"STOCKSCAN_SCAN_TIMEOUT_UNITS" default:"10"`
	UnitInterval time.Duration `envconfig:"STOCKSCAN_SCAN_UNIT_INTERVAL" default:"1s"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"STOCKSCAN_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"STOCKSCAN_AUTO_MIGRATE" default:"false"`
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
