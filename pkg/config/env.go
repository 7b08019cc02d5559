package config

// EnvPrefix is empty because every field carries its full variable name.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv             = "KDCAR_APP_ENV"
	EnvPort               = "KDCAR_APP_PORT"
	EnvLogLevel           = "KDCAR_LOG_LEVEL"
	EnvShutdownTimeout    = "KDCAR_SHUTDOWN_TIMEOUT"
	EnvCarmsBaseURL       = "CARMS_BASE_URL"
	EnvCarmsAPIKey        = "CARMS_API_KEY"
	EnvCatalogPath        = "KDCAR_FALLBACK_CATALOG_PATH"
	EnvRedisURL           = "KDCAR_REDIS_URL"
	EnvRateLimitWindow    = "KDCAR_RATE_LIMIT_WINDOW"
	EnvRateLimitRequests  = "KDCAR_RATE_LIMIT_REQUESTS"
	EnvTrustedProxies     = "KDCAR_TRUSTED_PROXIES"
	EnvCORSAllowedOrigins = "KDCAR_CORS_ORIGINS"
)
