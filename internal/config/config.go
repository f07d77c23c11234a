package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
	"golang.org/x/crypto/bcrypt"
)

// Config holds runtime configuration sourced from env vars.
type Config struct {
	Port          string   `env:"PORT, default=8080"`
	Env           string   `env:"APP_ENV, default=development"`
	LogLevel      string   `env:"LOG_LEVEL, default=info"`
	DatabaseURL   string   `env:"DATABASE_URL"`
	DBMinConns    int32    `env:"DB_MIN_CONNS, default=1"`
	DBMaxConns    int32    `env:"DB_MAX_CONNS, default=10"`
	JWTSecret     string   `env:"JWT_SECRET"`
	JWTIssuer     string   `env:"JWT_ISSUER, default=veiling-backend"`
	JWTTTLMinutes int      `env:"JWT_TTL_MINUTES, default=60"`
	BcryptCost    int      `env:"BCRYPT_COST"`
	CORSOrigins   []string `env:"CORS_ALLOWED_ORIGINS, default=http://localhost:3000"`

	// Login attempts allowed per client address; a zero rate disables the limit.
	LoginRatePerMinute float64 `env:"LOGIN_RATE_PER_MINUTE, default=10"`
	LoginBurst         int     `env:"LOGIN_BURST, default=5"`
}

// Load reads configuration from the process environment and performs minimal validation.
func Load(ctx context.Context) (Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads configuration through the given lookuper.
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return Config{}, fmt.Errorf("process env: %w", err)
	}

	cfg.DatabaseURL = strings.TrimSpace(cfg.DatabaseURL)
	cfg.JWTSecret = strings.TrimSpace(cfg.JWTSecret)
	cfg.CORSOrigins = normalizeOrigins(cfg.CORSOrigins)
	if cfg.JWTTTLMinutes <= 0 {
		cfg.JWTTTLMinutes = 60
	}
	if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	if cfg.LoginBurst <= 0 {
		cfg.LoginBurst = 1
	}
	if cfg.DBMaxConns < cfg.DBMinConns {
		cfg.DBMaxConns = cfg.DBMinConns
	}

	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET is required")
	}

	return cfg, nil
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

// JWTTTL is the lifetime of issued session tokens.
func (c Config) JWTTTL() time.Duration {
	return time.Duration(c.JWTTTLMinutes) * time.Minute
}

func normalizeOrigins(in []string) []string {
	var out []string
	for _, origin := range in {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
