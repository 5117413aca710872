package config

// EnvPrefix scopes all envconfig lookups.
const EnvPrefix = "COUNTERPOS"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

// Environment variable names referenced outside struct tags.
const (
	EnvAppEnv     = "COUNTERPOS_APP_ENV"
	EnvPort       = "COUNTERPOS_APP_PORT"
	EnvDBDSN      = "COUNTERPOS_DB_DSN"
	EnvDBHost     = "COUNTERPOS_DB_HOST"
	EnvDBUser     = "COUNTERPOS_DB_USER"
	EnvDBName     = "COUNTERPOS_DB_NAME"
	EnvRedisURL   = "COUNTERPOS_REDIS_URL"
	EnvJWTSecret  = "COUNTERPOS_JWT_SECRET"
	EnvJWTIssuer  = "COUNTERPOS_JWT_ISSUER"
	EnvJWTExpMins = "COUNTERPOS_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
