package config

const (
	EnvPrefix = "FILMATCH"

	AppEnvDev  = "dev"
	AppEnvProd = "production"

	EnvAppEnv                 = "FILMATCH_APP_ENV"
	EnvPort                   = "FILMATCH_APP_PORT"
	EnvDBDSN                  = "FILMATCH_DB_DSN"
	EnvDBHost                 = "FILMATCH_DB_HOST"
	EnvDBUser                 = "FILMATCH_DB_USER"
	EnvDBName                 = "FILMATCH_DB_NAME"
	EnvRedisURL               = "FILMATCH_REDIS_URL"
	EnvJWTSecret              = "FILMATCH_JWT_SECRET"
	EnvJWTIssuer              = "FILMATCH_JWT_ISSUER"
	EnvJWTExpMins             = "FILMATCH_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "FILMATCH_REFRESH_TOKEN_TTL_MINUTES"
	EnvTMDBAPIKey             = "FILMATCH_TMDB_API_KEY"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
