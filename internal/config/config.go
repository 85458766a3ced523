package config

import (
	"errors"
	"os"
)

// DevJWTSecret is the fallback signing secret for non-production runs.
// Validate rejects it in production so it can never sign live sessions.
const DevJWTSecret = "dev-only-insecure-secret"

type Config struct {
	AppPort string
	AppEnv  string

	DatabaseDSN string

	RedisAddr     string
	RedisPassword string

	// JWTSecret signs session tokens. Required in production.
	JWTSecret string

	// AllowedEmailDomain is the institutional suffix gating logins.
	AllowedEmailDomain string

	SMTPHost string
	SMTPPort string
	SMTPUser string
	SMTPPass string
	SMTPFrom string

	UploadDir string
}

func Load() Config {

	cfg := Config{

		AppPort: os.Getenv("APP_PORT"),
		AppEnv:  os.Getenv("APP_ENV"),

		DatabaseDSN: os.Getenv("DATABASE_DSN"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		JWTSecret: os.Getenv("PORTAL_JWT_SECRET"),

		AllowedEmailDomain: os.Getenv("ALLOWED_EMAIL_DOMAIN"),

		SMTPHost: os.Getenv("SMTP_HOST"),
		SMTPPort: os.Getenv("SMTP_PORT"),
		SMTPUser: os.Getenv("SMTP_USER"),
		SMTPPass: os.Getenv("SMTP_PASS"),
		SMTPFrom: os.Getenv("SMTP_FROM"),

		UploadDir: os.Getenv("UPLOAD_DIR"),
	}

	if cfg.AppPort == "" {
		cfg.AppPort = "8080"
	}
	if cfg.AllowedEmailDomain == "" {
		cfg.AllowedEmailDomain = "@as.nfsu.edu.in"
	}
	if cfg.SMTPHost == "" {
		cfg.SMTPHost = "smtp.gmail.com"
	}
	if cfg.SMTPPort == "" {
		cfg.SMTPPort = "587"
	}
	if cfg.SMTPFrom == "" {
		cfg.SMTPFrom = "noreply@university.edu"
	}
	if cfg.UploadDir == "" {
		cfg.UploadDir = "./uploads"
	}

	return cfg

}

// Production reports whether this process serves live traffic.
func (c Config) Production() bool {
	return c.AppEnv == "production"
}

// Validate enforces settings that must not fall back silently.
func (c Config) Validate() error {
	if c.Production() && c.JWTSecret == "" {
		return errors.New("config: PORTAL_JWT_SECRET must be set in production")
	}
	if c.DatabaseDSN == "" {
		return errors.New("config: DATABASE_DSN must be set")
	}
	return nil
}

// SigningSecret returns the session signing secret, falling back to the
// dev secret outside production. Callers should log when the fallback is
// in use.
func (c Config) SigningSecret() string {
	if c.JWTSecret != "" {
		return c.JWTSecret
	}
	return DevJWTSecret
}
