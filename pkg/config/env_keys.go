package config

// EnvPrefix namespaces every environment variable consumed by the service.
const EnvPrefix = "ORDERLINE"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv   = "ORDERLINE_APP_ENV"
	EnvPort     = "ORDERLINE_APP_PORT"
	EnvDBDSN    = "ORDERLINE_DB_DSN"
	EnvRedisURL = "ORDERLINE_REDIS_URL"
)
