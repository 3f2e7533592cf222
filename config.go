package auth

import (
	"github.com/caarlos0/env/v11"
	"github.com/goliatone/go-errors"
)

// EnvConfig implements Config from environment variables. The signing secret
// and the fixed token lifetime are the only required knobs; the lifetime is
// expressed in seconds and there is deliberately a single constant for it.
type EnvConfig struct {
	SigningKey    string   `env:"AUTH_SIGNING_KEY"`
	TokenLifetime int      `env:"AUTH_TOKEN_LIFETIME" envDefault:"3600"`
	Issuer        string   `env:"AUTH_ISSUER" envDefault:"go-identity"`
	Audience      []string `env:"AUTH_AUDIENCE" envSeparator:","`
	AuthScheme    string   `env:"AUTH_SCHEME" envDefault:"Bearer"`
}

var _ Config = (*EnvConfig)(nil)

// NewEnvConfig loads and validates configuration from the environment.
func NewEnvConfig() (*EnvConfig, error) {
	cfg := &EnvConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "failed to parse auth environment")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *EnvConfig) Validate() error {
	if c.SigningKey == "" {
		return errors.New("signing key is required", errors.CategoryValidation).
			WithTextCode("auth_config_signing_key")
	}

	if c.TokenLifetime <= 0 {
		return errors.New("token lifetime must be a positive number of seconds", errors.CategoryValidation).
			WithTextCode("auth_config_token_lifetime")
	}

	return nil
}

func (c *EnvConfig) GetSigningKey() string {
	return c.SigningKey
}

func (c *EnvConfig) GetTokenLifetime() int {
	return c.TokenLifetime
}

func (c *EnvConfig) GetIssuer() string {
	return c.Issuer
}

func (c *EnvConfig) GetAudience() []string {
	return c.Audience
}

func (c *EnvConfig) GetAuthScheme() string {
	if c.AuthScheme == "" {
		return "Bearer"
	}
	return c.AuthScheme
}
