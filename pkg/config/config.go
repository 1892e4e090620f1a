package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
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
	Env          string `envconfig:"HAULDISPATCH_APP_ENV" required:"true"`
	Port         string `envconfig:"HAULDISPATCH_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"HAULDISPATCH_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"HAULDISPATCH_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"HAULDISPATCH_DB_DSN"`
	Driver string `envconfig:"HAULDISPATCH_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"HAULDISPATCH_DB_HOST"`
	LegacyPort     int    `envconfig:"HAULDISPATCH_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"HAULDISPATCH_DB_USER"`
	LegacyPassword string `envconfig:"HAULDISPATCH_DB_PASSWORD"`
	LegacyName     string `envconfig:"HAULDISPATCH_DB_NAME"`
	LegacySSLMode  string `envconfig:"HAULDISPATCH_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"HAULDISPATCH_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"HAULDISPATCH_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"HAULDISPATCH_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"HAULDISPATCH_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// ensureDSN assembles a postgres DSN from the discrete legacy variables when
// HAULDISPATCH_DB_DSN is not provided directly.
func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" {
		return nil
	}
	if d.LegacyHost == "" || d.LegacyUser == "" || d.LegacyName == "" {
		return fmt.Errorf("either HAULDISPATCH_DB_DSN or HAULDISPATCH_DB_HOST/USER/NAME must be set")
	}

	u := url.URL{
		Scheme: "postgres",
		Host:   fmt.Sprintf("%s:%d", d.LegacyHost, d.LegacyPort),
		Path:   "/" + d.LegacyName,
	}
	if d.LegacyPassword != "" {
		u.User = url.UserPassword(d.LegacyUser, d.LegacyPassword)
	} else {
		u.User = url.User(d.LegacyUser)
	}
	q := u.Query()
	q.Set("sslmode", d.LegacySSLMode)
	u.RawQuery = q.Encode()

	d.DSN = u.String()
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"HAULDISPATCH_REDIS_URL"`
	Address      string        `envconfig:"HAULDISPATCH_REDIS_ADDR"`
	Password     string        `envconfig:"HAULDISPATCH_REDIS_PASSWORD"`
	DB           int           `envconfig:"HAULDISPATCH_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"HAULDISPATCH_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"HAULDISPATCH_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"HAULDISPATCH_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"HAULDISPATCH_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"HAULDISPATCH_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a redis endpoint is configured at all. Login rate
// limiting degrades to a no-op without one.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type JWTConfig struct {
	Secret            string `envconfig:"HAULDISPATCH_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"HAULDISPATCH_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"HAULDISPATCH_JWT_EXPIRATION_MINUTES" default:"720"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"HAULDISPATCH_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"HAULDISPATCH_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"HAULDISPATCH_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"HAULDISPATCH_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"HAULDISPATCH_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"HAULDISPATCH_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"HAULDISPATCH_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"HAULDISPATCH_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate      bool `envconfig:"HAULDISPATCH_FEATURE_AUTO_MIGRATE" default:"true"`
	ReconcilePricing bool `envconfig:"HAULDISPATCH_FEATURE_RECONCILE_PRICING" default:"true"`
}
