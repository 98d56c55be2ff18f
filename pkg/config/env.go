package config

// EnvPrefix namespaces every environment variable the service reads.
const EnvPrefix = "PHARMTRACK"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

const (
	EnvAppEnv    = "PHARMTRACK_APP_ENV"
	EnvPort      = "PHARMTRACK_APP_PORT"
	EnvDBDSN     = "PHARMTRACK_DB_DSN"
	EnvDBHost    = "PHARMTRACK_DB_HOST"
	EnvDBUser    = "PHARMTRACK_DB_USER"
	EnvDBName    = "PHARMTRACK_DB_NAME"
	EnvRedisURL  = "PHARMTRACK_REDIS_URL"
	EnvJWTSecret = "PHARMTRACK_JWT_SECRET"
	EnvJWTIssuer = "PHARMTRACK_JWT_ISSUER"
	EnvJWTExpMins = "PHARMTRACK_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "PHARMTRACK_REFRESH_TOKEN_TTL_MINUTES"
	EnvExpiryDaysDefault      = "PHARMTRACK_EXPIRY_DAYS_DEFAULT"
	EnvAdminEmail             = "PHARMTRACK_ADMIN_EMAIL"
	EnvAdminPassword          = "PHARMTRACK_ADMIN_PASSWORD"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
