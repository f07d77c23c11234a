package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestLoadWithDefaults(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"DATABASE_URL": " postgres://u:p@localhost:5432/veiling ",
		"JWT_SECRET":   "secret",
	}))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, ":8080", cfg.HTTPAddress())
	assert.Equal(t, "postgres://u:p@localhost:5432/veiling", cfg.DatabaseURL)
	assert.Equal(t, "veiling-backend", cfg.JWTIssuer)
	assert.Equal(t, time.Hour, cfg.JWTTTL())
	assert.Equal(t, bcrypt.DefaultCost, cfg.BcryptCost)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, 10.0, cfg.LoginRatePerMinute)
	assert.Equal(t, 5, cfg.LoginBurst)
}

func TestLoadWithOverrides(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"DATABASE_URL":         "postgres://db",
		"JWT_SECRET":           "secret",
		"PORT":                 "9000",
		"JWT_TTL_MINUTES":      "-5",
		"BCRYPT_COST":          "4",
		"CORS_ALLOWED_ORIGINS": "http://a.test, ,http://b.test",
		"DB_MIN_CONNS":         "4",
		"DB_MAX_CONNS":         "2",
		"LOGIN_BURST":          "0",
	}))
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.HTTPAddress())
	assert.Equal(t, 60*time.Minute, cfg.JWTTTL())
	assert.Equal(t, 4, cfg.BcryptCost)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.Equal(t, int32(4), cfg.DBMaxConns)
	assert.Equal(t, 1, cfg.LoginBurst)
}

func TestLoadWithMissingRequired(t *testing.T) {
	_, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "secret",
	}))
	require.EqualError(t, err, "DATABASE_URL is required")

	_, err = LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"DATABASE_URL": "postgres://db",
	}))
	require.EqualError(t, err, "JWT_SECRET is required")
}
