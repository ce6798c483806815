// Package config loads and validates app config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// HTTPAddr is the address the HTTP server listens on (e.g. :8080).
	HTTPAddr string `mapstructure:"HTTP_ADDR"`
	// DatabaseURL is the Postgres DSN. Required by server, migrate, and seed.
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	// ITIDHashPepper is the server-only secret appended to IT identification numbers
	// before hashing. Required: a missing pepper fails startup rather than degrading
	// IT-admin login. Never exposed to clients (no client-side prefix).
	ITIDHashPepper string `mapstructure:"IT_ID_HASH_PEPPER"`
	// JWTPrivateKey is the PEM-encoded private key (RSA or ECDSA) or path to file.
	JWTPrivateKey string `mapstructure:"JWT_PRIVATE_KEY"`
	// JWTPublicKey is the PEM-encoded public key or path to file.
	JWTPublicKey string `mapstructure:"JWT_PUBLIC_KEY"`
	// JWTIssuer is the iss claim (e.g. "arc-portal").
	JWTIssuer string `mapstructure:"JWT_ISSUER"`
	// JWTAudience is the aud claim (e.g. "arc-portal-web").
	JWTAudience string `mapstructure:"JWT_AUDIENCE"`
	// SessionTTL is the session cookie lifetime (e.g. "120h" = 5 days).
	SessionTTL string `mapstructure:"SESSION_TTL"`
	// IDTokenTTL is the ID token lifetime (e.g. "1h").
	IDTokenTTL string `mapstructure:"ID_TOKEN_TTL"`
	// CustomTokenTTL is the IT-admin bootstrap token lifetime (e.g. "10m").
	CustomTokenTTL string `mapstructure:"CUSTOM_TOKEN_TTL"`
	// BcryptCost is the bcrypt cost factor (4–31); default 12.
	BcryptCost int `mapstructure:"BCRYPT_COST"`
	// Env is the application environment ("development", "production"). Session
	// cookies are marked Secure when Env is production.
	Env string `mapstructure:"APP_ENV"`
	// StaticDir is the directory the page file server serves for non-API routes.
	// Empty disables the file server (gate-protected routes return 404 after Allow).
	StaticDir string `mapstructure:"STATIC_DIR"`
	// CORSAllowedOrigins is a comma-separated list of allowed origins for the API.
	CORSAllowedOrigins string `mapstructure:"CORS_ALLOWED_ORIGINS"`
	// OTLPEndpoint is the OTLP gRPC collector endpoint (e.g. http://localhost:4317).
	// Empty disables telemetry export (no-op providers).
	OTLPEndpoint string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	// OTLPInsecure forces plaintext OTLP export even for https endpoints.
	OTLPInsecure bool `mapstructure:"OTEL_EXPORTER_OTLP_INSECURE"`
}

// Load reads .env (if present), then builds and validates Config from the environment
// via Viper. Missing .env is ignored (e.g. in CI). Env vars override .env. Returns an
// error if required fields are missing or invalid; security-critical settings fail
// loudly here instead of silently degrading at request time.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("IT_ID_HASH_PEPPER", "")
	// Every key needs a default so AutomaticEnv can see it during Unmarshal;
	// the JWT keys have no sensible default but still must be registered.
	v.SetDefault("JWT_PRIVATE_KEY", "")
	v.SetDefault("JWT_PUBLIC_KEY", "")
	v.SetDefault("JWT_ISSUER", "arc-portal")
	v.SetDefault("JWT_AUDIENCE", "arc-portal-web")
	v.SetDefault("SESSION_TTL", "120h") // 5 days
	v.SetDefault("ID_TOKEN_TTL", "1h")
	v.SetDefault("CUSTOM_TOKEN_TTL", "10m")
	v.SetDefault("BCRYPT_COST", 12)
	v.SetDefault("APP_ENV", "")
	v.SetDefault("STATIC_DIR", "")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	v.SetDefault("OTEL_EXPORTER_OTLP_INSECURE", false)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.HTTPAddr == "" {
		return nil, errors.New("config: HTTP_ADDR must be set")
	}
	if strings.TrimSpace(cfg.ITIDHashPepper) == "" {
		return nil, errors.New("config: IT_ID_HASH_PEPPER must be set")
	}
	if cfg.JWTPrivateKey == "" || cfg.JWTPublicKey == "" {
		return nil, errors.New("config: JWT_PRIVATE_KEY and JWT_PUBLIC_KEY must be set")
	}

	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = 12
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		return nil, errors.New("config: BCRYPT_COST must be between 4 and 31")
	}

	return &cfg, nil
}

// SessionTTLDuration parses SessionTTL as a time.Duration. Returns 120h if unset or invalid.
func (c *Config) SessionTTLDuration() time.Duration {
	d, err := time.ParseDuration(c.SessionTTL)
	if err != nil || d <= 0 {
		return 120 * time.Hour
	}
	return d
}

// IDTokenTTLDuration parses IDTokenTTL as a time.Duration. Returns 1h if unset or invalid.
func (c *Config) IDTokenTTLDuration() time.Duration {
	d, err := time.ParseDuration(c.IDTokenTTL)
	if err != nil || d <= 0 {
		return time.Hour
	}
	return d
}

// CustomTokenTTLDuration parses CustomTokenTTL as a time.Duration. Returns 10m if unset or invalid.
func (c *Config) CustomTokenTTLDuration() time.Duration {
	d, err := time.ParseDuration(c.CustomTokenTTL)
	if err != nil || d <= 0 {
		return 10 * time.Minute
	}
	return d
}

// IsProduction reports whether the app runs in production; session cookies are
// marked Secure only then, so local http development still works.
func (c *Config) IsProduction() bool { return c.Env == "production" }

// CORSOrigins returns allowed origins from the comma-separated config.
// Empty means same-origin only (no CORS headers).
func (c *Config) CORSOrigins() []string {
	if c == nil || c.CORSAllowedOrigins == "" {
		return nil
	}
	parts := strings.Split(c.CORSAllowedOrigins, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
