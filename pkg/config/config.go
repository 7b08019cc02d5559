package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/multierr"
)

type Config struct {
	App       AppConfig
	Carms     CarmsConfig
	Catalog   CatalogConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.Carms.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var validate = validator.New()

// Validate runs struct-tag validation plus the cross-field checks and returns
// every violation at once.
func (c *Config) Validate() error {
	var errs error
	if err := validate.Struct(c); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				errs = multierr.Append(errs, fmt.Errorf("%s failed %q validation", fe.Namespace(), fe.Tag()))
			}
		} else {
			errs = multierr.Append(errs, err)
		}
	}
	if c.RateLimit.Enabled() && c.RateLimit.Window <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("%s must be positive when rate limiting is enabled", EnvRateLimitWindow))
	}
	if c.App.ShutdownTimeout < 0 {
		errs = multierr.Append(errs, fmt.Errorf("%s must not be negative", EnvShutdownTimeout))
	}
	return errs
}

type AppConfig struct {
	Env             string        `envconfig:"KDCAR_APP_ENV" default:"dev"`
	Port            string        `envconfig:"KDCAR_APP_PORT" default:"8080" validate:"required,numeric"`
	LogLevel        string        `envconfig:"KDCAR_LOG_LEVEL" default:"info"`
	LogWarnStack    bool          `envconfig:"KDCAR_LOG_WARN_STACK" default:"false"`
	ShutdownTimeout time.Duration `envconfig:"KDCAR_SHUTDOWN_TIMEOUT" default:"10s"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// CarmsConfig points at the upstream inventory API. An empty BaseURL means
// the service runs on the local fallback catalog only.
type CarmsConfig struct {
	BaseURL string `envconfig:"CARMS_BASE_URL" validate:"omitempty,http_url"`
	APIKey  string `envconfig:"CARMS_API_KEY"`
}

// Configured reports whether a base URL is present.
func (c CarmsConfig) Configured() bool {
	return c.BaseURL != ""
}

func (c *CarmsConfig) normalize() {
	c.BaseURL = strings.TrimSuffix(strings.TrimSpace(c.BaseURL), "/")
	c.APIKey = strings.TrimSpace(c.APIKey)
}

type CatalogConfig struct {
	// Path overrides the bundled fallback catalog when set.
	Path string `envconfig:"KDCAR_FALLBACK_CATALOG_PATH"`
}

type RedisConfig struct {
	URL          string        `envconfig:"KDCAR_REDIS_URL"`
	PoolSize     int           `envconfig:"KDCAR_REDIS_POOL_SIZE" default:"10" validate:"min=0"`
	MinIdleConns int           `envconfig:"KDCAR_REDIS_MIN_IDLE_CONNS" default:"2" validate:"min=0"`
	DialTimeout  time.Duration `envconfig:"KDCAR_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"KDCAR_REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"KDCAR_REDIS_WRITE_TIMEOUT" default:"3s"`
}

// Enabled reports whether a shared Redis store was configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != ""
}

type RateLimitConfig struct {
	Window   time.Duration `envconfig:"KDCAR_RATE_LIMIT_WINDOW" default:"1m"`
	Requests int           `envconfig:"KDCAR_RATE_LIMIT_REQUESTS" default:"120" validate:"min=0"`
	// TrustedProxies lists the CIDRs or addresses whose X-Forwarded-For and
	// X-Real-IP headers are believed. Empty means clients are keyed by peer.
	TrustedProxies []string `envconfig:"KDCAR_TRUSTED_PROXIES" validate:"dive,cidr|ip"`
}

func (r RateLimitConfig) Enabled() bool {
	return r.Requests > 0
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"KDCAR_CORS_ORIGINS" default:"http://localhost:3000"`
}
