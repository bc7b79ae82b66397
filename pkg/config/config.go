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
	TMDB          TMDBConfig
	Onboarding    OnboardingConfig
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
	Env          string `envconfig:"FILMATCH_APP_ENV" required:"true"`
	Port         string `envconfig:"FILMATCH_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"FILMATCH_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FILMATCH_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"FILMATCH_DB_DSN"`
	Driver string `envconfig:"FILMATCH_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"FILMATCH_DB_HOST"`
	LegacyPort     int    `envconfig:"FILMATCH_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"FILMATCH_DB_USER"`
	LegacyPassword string `envconfig:"FILMATCH_DB_PASSWORD"`
	LegacyName     string `envconfig:"FILMATCH_DB_NAME"`
	LegacySSLMode  string `envconfig:"FILMATCH_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FILMATCH_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FILMATCH_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FILMATCH_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FILMATCH_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"FILMATCH_REDIS_URL" required:"true"`
	Address      string        `envconfig:"FILMATCH_REDIS_ADDR"`
	Password     string        `envconfig:"FILMATCH_REDIS_PASSWORD"`
	DB           int           `envconfig:"FILMATCH_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FILMATCH_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FILMATCH_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FILMATCH_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FILMATCH_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FILMATCH_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"FILMATCH_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"FILMATCH_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"FILMATCH_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"FILMATCH_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"FILMATCH_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"FILMATCH_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"FILMATCH_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"FILMATCH_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"FILMATCH_ARGON_KEY_LEN" default:"32"`
}

type TMDBConfig struct {
	APIKey       string        `envconfig:"FILMATCH_TMDB_API_KEY" required:"true"`
	BaseURL      string        `envconfig:"FILMATCH_TMDB_BASE_URL" default:"https://api.themoviedb.org/3"`
	ImageBaseURL string        `envconfig:"FILMATCH_TMDB_IMAGE_BASE_URL" default:"https://image.tmdb.org/t/p/w500"`
	Timeout      time.Duration `envconfig:"FILMATCH_TMDB_TIMEOUT" default:"15s"`
	CacheTTL     time.Duration `envconfig:"FILMATCH_TMDB_CACHE_TTL" default:"10m"`
}

// OnboardingConfig holds the wizard thresholds. The recent-watch cap is shared
// by the onboarding and edit flows on purpose; the two call sites must never
// diverge again.
type OnboardingConfig struct {
	MaxFavorites     int           `envconfig:"FILMATCH_ONBOARDING_MAX_FAVORITES" default:"4"`
	MinFavorites     int           `envconfig:"FILMATCH_ONBOARDING_MIN_FAVORITES" default:"2"`
	MaxRecentWatches int           `envconfig:"FILMATCH_ONBOARDING_MAX_RECENT_WATCHES" default:"5"`
	MinRecentWatches int           `envconfig:"FILMATCH_ONBOARDING_MIN_RECENT_WATCHES" default:"3"`
	MinRatedGenres   int           `envconfig:"FILMATCH_ONBOARDING_MIN_RATED_GENRES" default:"4"`
	SearchDebounce   time.Duration `envconfig:"FILMATCH_ONBOARDING_SEARCH_DEBOUNCE" default:"500ms"`
	SnapshotCacheTTL time.Duration `envconfig:"FILMATCH_ONBOARDING_SNAPSHOT_TTL" default:"720h"`
}

// AuthRateLimitConfig throttles the credential endpoints per client IP and
// per target email. A zero limit disables that dimension.
type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"FILMATCH_LOGIN_RATE_WINDOW" default:"1m"`
	LoginIPLimit       int           `envconfig:"FILMATCH_LOGIN_RATE_IP_LIMIT" default:"20"`
	LoginEmailLimit    int           `envconfig:"FILMATCH_LOGIN_RATE_EMAIL_LIMIT" default:"5"`
	RegisterWindow     time.Duration `envconfig:"FILMATCH_REGISTER_RATE_WINDOW" default:"1h"`
	RegisterIPLimit    int           `envconfig:"FILMATCH_REGISTER_RATE_IP_LIMIT" default:"10"`
	RegisterEmailLimit int           `envconfig:"FILMATCH_REGISTER_RATE_EMAIL_LIMIT" default:"3"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"FILMATCH_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"FILMATCH_AUTO_MIGRATE" default:"false"`
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
