package app

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Issuer string `env:"BIZDESK_ISSUER" envDefault:"bizdesk"`
	KeyID  string `env:"BIZDESK_KEY_ID" envDefault:"bizdesk-session-001"`
	// KeyFile holds the Ed25519 session key; empty means an ephemeral key.
	KeyFile    string        `env:"BIZDESK_KEY_FILE"`
	SessionTTL time.Duration `env:"BIZDESK_SESSION_TTL" envDefault:"24h"`

	// AutoConfirm signs new accounts straight in instead of waiting for
	// email confirmation.
	AutoConfirm bool `env:"BIZDESK_AUTO_CONFIRM" envDefault:"true"`

	// Per-email sign-in throttling: SignInBurst attempts, one more every SignInEvery.
	SignInBurst int           `env:"BIZDESK_SIGNIN_BURST" envDefault:"5"`
	SignInEvery time.Duration `env:"BIZDESK_SIGNIN_EVERY" envDefault:"12s"`

	DatabaseFile string `env:"BIZDESK_DATABASE_FILE" envDefault:"bizdesk.db"`
	PepperFile   string `env:"BIZDESK_PEPPER_FILE" envDefault:"pepper"`

	// UnconfirmedRetention of 0 keeps unconfirmed accounts forever.
	UnconfirmedRetention time.Duration `env:"BIZDESK_UNCONFIRMED_RETENTION" envDefault:"168h"`
	HousekeepingInterval time.Duration `env:"HOUSEKEEPING_INTERVAL" envDefault:"1h"`

	Env                 string        `env:"ENV" envDefault:"dev"`
	LogLevel            string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat           string        `env:"LOG_FORMAT" envDefault:"json"`
	Port                int           `env:"PORT" envDefault:"8080"`
	ShutdownGracePeriod time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`
}

// LoadConfig reads Config from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Issuer == "" {
		return fmt.Errorf("BIZDESK_ISSUER must not be empty")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT %d out of range", c.Port)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("BIZDESK_SESSION_TTL must be positive")
	}
	if c.UnconfirmedRetention < 0 {
		return fmt.Errorf("BIZDESK_UNCONFIRMED_RETENTION must not be negative")
	}
	return nil
}
