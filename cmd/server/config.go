package main

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is read from the environment. The signing secret has no default on
// purpose, the process refuses to start without one.
type Config struct {
	Address string `env:"AUTH_HTTP_ADDR" env-default:":8080"`
	Debug   bool   `env:"AUTH_DEBUG" env-default:"false"`
	DSN     string `env:"AUTH_DB_DSN" env-default:"file:auth.db?cache=shared"`

	SigningKey string   `env:"AUTH_JWT_SECRET" env-required:"true"`
	Issuer     string   `env:"AUTH_JWT_ISSUER" env-default:"storekit"`
	Audience   []string `env:"AUTH_JWT_AUDIENCE" env-separator:"," env-default:"storekit"`

	AccessTokenTTL  time.Duration `env:"AUTH_ACCESS_TTL" env-default:"15m"`
	RefreshTokenTTL time.Duration `env:"AUTH_REFRESH_TTL" env-default:"720h"`

	RequireVerifiedEmail bool   `env:"AUTH_REQUIRE_VERIFIED_EMAIL" env-default:"true"`
	SecureCookies        bool   `env:"AUTH_SECURE_COOKIES" env-default:"true"`
	Origin               string `env:"AUTH_ORIGIN" env-default:"http://localhost:8080"`

	SMTPAddr string `env:"AUTH_SMTP_ADDR"`
	SMTPFrom string `env:"AUTH_SMTP_FROM"`
	SMTPUser string `env:"AUTH_SMTP_USER"`
	SMTPPass string `env:"AUTH_SMTP_PASS"`
}

func MustLoadConfig() *Config {
	config, err := loadConfig()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return config
}

func loadConfig() (*Config, error) {
	var config Config

	if err := cleanenv.ReadEnv(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) GetSigningKey() string { return c.SigningKey }

func (c *Config) GetIssuer() string { return c.Issuer }

func (c *Config) GetAudience() []string { return c.Audience }

func (c *Config) GetAccessTokenTTL() time.Duration { return c.AccessTokenTTL }

func (c *Config) GetRefreshTokenTTL() time.Duration { return c.RefreshTokenTTL }

func (c *Config) GetRequireVerifiedEmail() bool { return c.RequireVerifiedEmail }

func (c *Config) GetSecureCookies() bool { return c.SecureCookies }

func (c *Config) GetOrigin() string { return c.Origin }
