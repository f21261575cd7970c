package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	PubSub        PubSubConfig
	Outbox        OutboxConfig
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
	Env          string `envconfig:"AXOLOTL_APP_ENV" required:"true"`
	Port         string `envconfig:"AXOLOTL_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"AXOLOTL_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"AXOLOTL_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"AXOLOTL_DB_DSN"`
	Driver string `envconfig:"AXOLOTL_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"AXOLOTL_DB_HOST"`
	LegacyPort     int    `envconfig:"AXOLOTL_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"AXOLOTL_DB_USER"`
	LegacyPassword string `envconfig:"AXOLOTL_DB_PASSWORD"`
	LegacyName     string `envconfig:"AXOLOTL_DB_NAME"`
	LegacySSLMode  string `envconfig:"AXOLOTL_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"AXOLOTL_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"AXOLOTL_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"AXOLOTL_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"AXOLOTL_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"AXOLOTL_REDIS_URL" required:"true"`
	Address      string        `envconfig:"AXOLOTL_REDIS_ADDR"`
	Password     string        `envconfig:"AXOLOTL_REDIS_PASSWORD"`
	DB           int           `envconfig:"AXOLOTL_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"AXOLOTL_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"AXOLOTL_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"AXOLOTL_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"AXOLOTL_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"AXOLOTL_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"AXOLOTL_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"AXOLOTL_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"AXOLOTL_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"AXOLOTL_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"AXOLOTL_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"AXOLOTL_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"AXOLOTL_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"AXOLOTL_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"AXOLOTL_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow             time.Duration `envconfig:"AXOLOTL_AUTH_RL_LOGIN_WINDOW" default:"5m"`
	LoginIPLimit            int           `envconfig:"AXOLOTL_AUTH_RL_LOGIN_IP_LIMIT" default:"20"`
	LoginCredentialLimit    int           `envconfig:"AXOLOTL_AUTH_RL_LOGIN_CREDENTIAL_LIMIT" default:"10"`
	RegisterWindow          time.Duration `envconfig:"AXOLOTL_AUTH_RL_REGISTER_WINDOW" default:"1h"`
	RegisterIPLimit         int           `envconfig:"AXOLOTL_AUTH_RL_REGISTER_IP_LIMIT" default:"10"`
	RegisterCredentialLimit int           `envconfig:"AXOLOTL_AUTH_RL_REGISTER_CREDENTIAL_LIMIT" default:"5"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"AXOLOTL_AUTO_MIGRATE" default:"false"`
}

type PubSubConfig struct {
	ProjectID   string `envconfig:"AXOLOTL_PUBSUB_PROJECT_ID"`
	OrdersTopic string `envconfig:"AXOLOTL_PUBSUB_ORDERS_TOPIC" default:"axolotl-order-events"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"AXOLOTL_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"AXOLOTL_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"AXOLOTL_OUTBOX_MAX_ATTEMPTS" default:"10"`
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
