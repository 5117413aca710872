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
	JWT          JWTConfig
	Password     PasswordConfig
	Business     BusinessConfig
	Cron         CronConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"COUNTERPOS_APP_ENV" required:"true"`
	Port         string `envconfig:"COUNTERPOS_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"COUNTERPOS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"COUNTERPOS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"COUNTERPOS_DB_DSN"`
	Driver string `envconfig:"COUNTERPOS_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"COUNTERPOS_DB_HOST"`
	LegacyPort     int    `envconfig:"COUNTERPOS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"COUNTERPOS_DB_USER"`
	LegacyPassword string `envconfig:"COUNTERPOS_DB_PASSWORD"`
	LegacyName     string `envconfig:"COUNTERPOS_DB_NAME"`
	LegacySSLMode  string `envconfig:"COUNTERPOS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"COUNTERPOS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"COUNTERPOS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"COUNTERPOS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"COUNTERPOS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"COUNTERPOS_REDIS_URL" required:"true"`
	Address      string        `envconfig:"COUNTERPOS_REDIS_ADDR"`
	Password     string        `envconfig:"COUNTERPOS_REDIS_PASSWORD"`
	DB           int           `envconfig:"COUNTERPOS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"COUNTERPOS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"COUNTERPOS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"COUNTERPOS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"COUNTERPOS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"COUNTERPOS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"COUNTERPOS_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"COUNTERPOS_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"COUNTERPOS_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"COUNTERPOS_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"COUNTERPOS_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"COUNTERPOS_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"COUNTERPOS_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"COUNTERPOS_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"COUNTERPOS_ARGON_KEY_LEN" default:"32"`
}

// BusinessConfig pins counter-side date handling to one timezone. Orders and
// daily stock entries are bucketed by calendar day in this zone no matter what
// the server clock runs in.
type BusinessConfig struct {
	Timezone          string `envconfig:"COUNTERPOS_BUSINESS_TIMEZONE" default:"Asia/Kolkata"`
	QRCacheTTLMinutes int    `envconfig:"COUNTERPOS_QR_CACHE_TTL_MINUTES" default:"5"`
}

// QRCacheTTL returns the latest-QR-code cache TTL.
func (b BusinessConfig) QRCacheTTL() time.Duration {
	if b.QRCacheTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(b.QRCacheTTLMinutes) * time.Minute
}

type CronConfig struct {
	Interval           time.Duration `envconfig:"COUNTERPOS_CRON_INTERVAL" default:"24h"`
	DraftRetentionDays int           `envconfig:"COUNTERPOS_CRON_DRAFT_RETENTION_DAYS" default:"14"`
	StockRetentionDays int           `envconfig:"COUNTERPOS_CRON_STOCK_RETENTION_DAYS" default:"365"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"COUNTERPOS_AUTO_MIGRATE" default:"false"`
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
