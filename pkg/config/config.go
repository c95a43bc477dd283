package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "slobi"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "SLOBI_DB_DSN"
	EnvDBHost = "SLOBI_DB_HOST"
	EnvDBUser = "SLOBI_DB_USER"
	EnvDBName = "SLOBI_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Paystack     PaystackConfig
	Receipts     ReceiptsConfig
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
	Env          string `envconfig:"SLOBI_APP_ENV" required:"true"`
	Port         string `envconfig:"SLOBI_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SLOBI_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SLOBI_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SLOBI_DB_DSN"`
	Driver string `envconfig:"SLOBI_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SLOBI_DB_HOST"`
	LegacyPort     int    `envconfig:"SLOBI_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SLOBI_DB_USER"`
	LegacyPassword string `envconfig:"SLOBI_DB_PASSWORD"`
	LegacyName     string `envconfig:"SLOBI_DB_NAME"`
	LegacySSLMode  string `envconfig:"SLOBI_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SLOBI_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SLOBI_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SLOBI_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SLOBI_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SLOBI_REDIS_URL" required:"true"`
	PoolSize     int           `envconfig:"SLOBI_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SLOBI_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SLOBI_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SLOBI_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SLOBI_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"SLOBI_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"SLOBI_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"SLOBI_JWT_EXPIRATION_MINUTES" default:"60"`
}

// PaystackConfig carries the gateway credentials. Secret key and callback URL
// are required so a missing credential fails config load instead of surfacing
// mid-checkout.
type PaystackConfig struct {
	SecretKey         string        `envconfig:"SLOBI_PAYSTACK_SECRET_KEY" required:"true"`
	CallbackURL       string        `envconfig:"SLOBI_PAYSTACK_CALLBACK_URL" required:"true"`
	BaseURL           string        `envconfig:"SLOBI_PAYSTACK_BASE_URL" default:"https://api.paystack.co"`
	RequestTimeout    time.Duration `envconfig:"SLOBI_PAYSTACK_REQUEST_TIMEOUT" default:"15s"`
	CallbackDedupeTTL time.Duration `envconfig:"SLOBI_PAYSTACK_CALLBACK_DEDUPE_TTL" default:"24h"`
}

type ReceiptsConfig struct {
	FromAddress string `envconfig:"SLOBI_RECEIPTS_FROM" default:"Slobi <noreply@slobi.app>"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"SLOBI_AUTO_MIGRATE" default:"false"`
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
