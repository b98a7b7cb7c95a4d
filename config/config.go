package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	// Application
	LogLevel string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=trace debug info warn error fatal panic"`

	// Help Scout API
	BaseURL            string        `env:"BASE_URL"              envDefault:"https://api.helpscout.net/v2/"             validate:"required,url"`
	TokenURL           string        `env:"TOKEN_URL"             envDefault:"https://api.helpscout.net/v2/oauth2/token" validate:"required,url"`
	Timeout            time.Duration `env:"TIMEOUT"               envDefault:"30s"                                       validate:"gt=0"`
	RateLimitPerMinute int           `env:"RATE_LIMIT_PER_MINUTE" envDefault:"0"                                         validate:"gte=0"`

	// Credentials: either a pre-issued access token or an OAuth2 app.
	AccessToken string `env:"ACCESS_TOKEN"`
	AppID       string `env:"APP_ID"       validate:"required_without=AccessToken,required_with=AppSecret"`
	AppSecret   string `env:"APP_SECRET"   validate:"required_with=AppID"`

	// Shared token cache (optional)
	RedisAddr     string `env:"REDIS_ADDR"     validate:"omitempty,hostname_port"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB"       envDefault:"0"               validate:"gte=0"`
	RedisKey      string `env:"REDIS_KEY"      envDefault:"helpscout:token"`
}

// New reads HELPSCOUT_* environment variables.
func New() (*Config, error) {
	cfg, err := env.ParseAsWithOptions[Config](env.Options{ //nolint:exhaustruct
		Prefix: "HELPSCOUT_",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return nil
}

func (c *Config) UsesStaticToken() bool {
	return c.AccessToken != "" && c.AppID == ""
}

func (c *Config) UsesRedis() bool {
	return c.RedisAddr != ""
}
