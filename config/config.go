// Package config handles loading and validation of application configuration
// from environment variables.
package config

import (
	"fmt"
	"strings"

	"github.com/ReviveTech/revive-backend/logger"
	"github.com/spf13/viper"
)

// Environment represents the application's running environment (development or production).
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvProduction  Environment = "production"

	// Secrets shorter than this are rejected in production.
	minSecretLength = 32
)

// ServerConfig holds server-specific configuration.
type ServerConfig struct {
	Environment    Environment `mapstructure:"ENVIRONMENT" yaml:"environment"`
	Port           string      `mapstructure:"PORT" yaml:"port"`
	AllowedOrigins []string    `mapstructure:"ALLOWED_ORIGINS" yaml:"allowed_origins"`
	Version        string      `mapstructure:"VERSION" yaml:"version"`
	// TrustedProxies is a list of CIDR ranges or IPs of trusted reverse proxies.
	TrustedProxies []string `mapstructure:"TRUSTED_PROXIES" yaml:"trusted_proxies"`
}

// EmailConfig holds configuration for sending the contact notification email.
type EmailConfig struct {
	// Provider selects the delivery transport: "resend" or "smtp".
	Provider    string `mapstructure:"PROVIDER" yaml:"provider"`
	FromAddress string `mapstructure:"FROM_ADDRESS" yaml:"from_address"`
	FromName    string `mapstructure:"FROM_NAME" yaml:"from_name"`
	// ToAddress receives the contact notifications (the studio inbox).
	ToAddress    string `mapstructure:"TO_ADDRESS" yaml:"to_address"`
	ResendAPIKey string `mapstructure:"RESEND_API_KEY" yaml:"resend_api_key"`
	SMTPHost     string `mapstructure:"SMTP_HOST" yaml:"smtp_host"`
	SMTPPort     int    `mapstructure:"SMTP_PORT" yaml:"smtp_port"`
	SMTPUser     string `mapstructure:"SMTP_USER" yaml:"smtp_user"`
	SMTPPassword string `mapstructure:"SMTP_PASSWORD" yaml:"smtp_password"`
	SMTPUseTLS   bool   `mapstructure:"SMTP_USE_TLS" yaml:"smtp_use_tls"`
	// SendTimeoutSeconds bounds one delivery attempt.
	SendTimeoutSeconds int `mapstructure:"SEND_TIMEOUT_SECONDS" yaml:"send_timeout_seconds"`
}

// ContactConfig holds the submission pipeline knobs.
type ContactConfig struct {
	// TokenSecret signs the form timing token.
	TokenSecret string `mapstructure:"TOKEN_SECRET" yaml:"token_secret"`
	// MinFillSeconds is the fastest human-plausible form fill time.
	MinFillSeconds int `mapstructure:"MIN_FILL_SECONDS" yaml:"min_fill_seconds"`
	// MaxTokenAgeSeconds bounds the replay window of a timing token.
	MaxTokenAgeSeconds int `mapstructure:"MAX_TOKEN_AGE_SECONDS" yaml:"max_token_age_seconds"`
	// DailyLimit caps accepted submissions per UTC day across all clients.
	DailyLimit int `mapstructure:"DAILY_LIMIT" yaml:"daily_limit"`
}

// RateLimitConfig holds configuration for the per-client limiter.
type RateLimitConfig struct {
	// Burst is the token bucket capacity per client.
	Burst int `mapstructure:"BURST" yaml:"burst"`
	// RefillTokens tokens are added per RefillPeriodSeconds.
	RefillTokens        int `mapstructure:"REFILL_TOKENS" yaml:"refill_tokens"`
	RefillPeriodSeconds int `mapstructure:"REFILL_PERIOD_SECONDS" yaml:"refill_period_seconds"`
	// PruneAfterMinutes is how long an idle client bucket is kept.
	PruneAfterMinutes int `mapstructure:"PRUNE_AFTER_MINUTES" yaml:"prune_after_minutes"`
}

// Config aggregates all application configuration sections.
type Config struct {
	Server    ServerConfig    `mapstructure:"SERVER" yaml:"server"`
	Email     EmailConfig     `mapstructure:"EMAIL" yaml:"email"`
	Contact   ContactConfig   `mapstructure:"CONTACT" yaml:"contact"`
	RateLimit RateLimitConfig `mapstructure:"RATE_LIMIT" yaml:"rate_limit"`
}

// IsDevelopment returns true if the application is running in development environment.
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == EnvDevelopment
}

// IsProduction returns true if the application is running in production environment.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == EnvProduction
}

// bindEnvVars binds multiple environment variables to config keys.
// Format: []{configKey, envVar}
func bindEnvVars(v *viper.Viper, bindings [][2]string) error {
	for _, b := range bindings {
		if err := v.BindEnv(b[0], b[1]); err != nil {
			return fmt.Errorf("failed to bind %s: %w", b[0], err)
		}
	}
	return nil
}

// LoadConfig loads configuration from environment variables using Viper,
// sets default values, binds environment variables to config struct fields,
// unmarshals the configuration, and validates it.
func LoadConfig() (*Config, error) {
	v := viper.New()
	log := logger.GetLogger()

	v.SetDefault("SERVER.ENVIRONMENT", EnvDevelopment)
	v.SetDefault("SERVER.PORT", "8080")
	v.SetDefault("SERVER.ALLOWED_ORIGINS", []string{"*"})
	v.SetDefault("SERVER.TRUSTED_PROXIES", []string{}) // Empty = trust no one (safe default)
	v.SetDefault("EMAIL.PROVIDER", "resend")
	v.SetDefault("EMAIL.FROM_NAME", "ReviveTech Website")
	v.SetDefault("EMAIL.SMTP_PORT", 587)
	v.SetDefault("EMAIL.SMTP_USE_TLS", true)
	v.SetDefault("EMAIL.SEND_TIMEOUT_SECONDS", 10)
	v.SetDefault("CONTACT.MIN_FILL_SECONDS", 3)
	v.SetDefault("CONTACT.MAX_TOKEN_AGE_SECONDS", 3600)
	v.SetDefault("CONTACT.DAILY_LIMIT", 50)
	v.SetDefault("RATE_LIMIT.BURST", 5)
	v.SetDefault("RATE_LIMIT.REFILL_TOKENS", 2)
	v.SetDefault("RATE_LIMIT.REFILL_PERIOD_SECONDS", 60)
	v.SetDefault("RATE_LIMIT.PRUNE_AFTER_MINUTES", 60)
	v.SetDefault("LOG_LEVEL", "info")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	envBindings := [][2]string{
		// Server config
		{"SERVER.ENVIRONMENT", "SERVER_ENVIRONMENT"},
		{"SERVER.PORT", "PORT"},
		{"SERVER.ALLOWED_ORIGINS", "ALLOWED_ORIGINS"},
		{"SERVER.TRUSTED_PROXIES", "TRUSTED_PROXIES"},
		// Email config
		{"EMAIL.PROVIDER", "EMAIL_PROVIDER"},
		{"EMAIL.FROM_ADDRESS", "EMAIL_FROM_ADDRESS"},
		{"EMAIL.FROM_NAME", "EMAIL_FROM_NAME"},
		{"EMAIL.TO_ADDRESS", "EMAIL_TO_ADDRESS"},
		{"EMAIL.RESEND_API_KEY", "RESEND_API_KEY"},
		{"EMAIL.SMTP_HOST", "SMTP_HOST"},
		{"EMAIL.SMTP_PORT", "SMTP_PORT"},
		{"EMAIL.SMTP_USER", "SMTP_USER"},
		{"EMAIL.SMTP_PASSWORD", "SMTP_PASSWORD"},
		{"EMAIL.SMTP_USE_TLS", "SMTP_USE_TLS"},
		{"EMAIL.SEND_TIMEOUT_SECONDS", "EMAIL_SEND_TIMEOUT_SECONDS"},
		// Contact pipeline config
		{"CONTACT.TOKEN_SECRET", "CONTACT_TOKEN_SECRET"},
		{"CONTACT.MIN_FILL_SECONDS", "CONTACT_MIN_FILL_SECONDS"},
		{"CONTACT.MAX_TOKEN_AGE_SECONDS", "CONTACT_MAX_TOKEN_AGE_SECONDS"},
		{"CONTACT.DAILY_LIMIT", "CONTACT_DAILY_LIMIT"},
		// Rate limit config
		{"RATE_LIMIT.BURST", "RATE_LIMIT_BURST"},
		{"RATE_LIMIT.REFILL_TOKENS", "RATE_LIMIT_REFILL_TOKENS"},
		{"RATE_LIMIT.REFILL_PERIOD_SECONDS", "RATE_LIMIT_REFILL_PERIOD_SECONDS"},
		{"RATE_LIMIT.PRUNE_AFTER_MINUTES", "RATE_LIMIT_PRUNE_AFTER_MINUTES"},
	}
	if err := bindEnvVars(v, envBindings); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	log.Infow("Configuration loaded",
		"environment", cfg.Server.Environment,
		"port", cfg.Server.Port,
		"email_provider", cfg.Email.Provider,
		"email_from", logger.MaskEmail(cfg.Email.FromAddress),
		"email_to", logger.MaskEmail(cfg.Email.ToAddress),
		"daily_limit", cfg.Contact.DailyLimit,
		"rate_limit_burst", cfg.RateLimit.Burst,
	)

	return &cfg, nil
}

// validate checks that required settings are present and consistent. Secrets
// are only enforced in production so local development stays frictionless.
func (c *Config) validate() error {
	switch c.Email.Provider {
	case "resend", "smtp":
	default:
		return fmt.Errorf("invalid EMAIL_PROVIDER %q: must be resend or smtp", c.Email.Provider)
	}

	if c.Contact.MinFillSeconds < 0 || c.Contact.MaxTokenAgeSeconds <= c.Contact.MinFillSeconds {
		return fmt.Errorf("invalid timing token bounds: min=%d max=%d",
			c.Contact.MinFillSeconds, c.Contact.MaxTokenAgeSeconds)
	}

	if c.Contact.DailyLimit <= 0 {
		return fmt.Errorf("CONTACT_DAILY_LIMIT must be positive, got %d", c.Contact.DailyLimit)
	}

	if c.RateLimit.Burst <= 0 || c.RateLimit.RefillTokens <= 0 || c.RateLimit.RefillPeriodSeconds <= 0 {
		return fmt.Errorf("rate limit parameters must be positive")
	}

	if !c.IsProduction() {
		return nil
	}

	if len(c.Contact.TokenSecret) < minSecretLength {
		return fmt.Errorf("CONTACT_TOKEN_SECRET must be at least %d characters in production", minSecretLength)
	}
	if c.Email.FromAddress == "" || c.Email.ToAddress == "" {
		return fmt.Errorf("EMAIL_FROM_ADDRESS and EMAIL_TO_ADDRESS are required in production")
	}
	switch c.Email.Provider {
	case "resend":
		if c.Email.ResendAPIKey == "" {
			return fmt.Errorf("RESEND_API_KEY is required when EMAIL_PROVIDER=resend")
		}
	case "smtp":
		if c.Email.SMTPHost == "" {
			return fmt.Errorf("SMTP_HOST is required when EMAIL_PROVIDER=smtp")
		}
	}

	return nil
}
