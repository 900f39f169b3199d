package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseEnv() map[string]string {
	return map[string]string{
		"ACCESS_TOKEN_SECRET":   "access",
		"REFRESH_TOKEN_SECRET":  "refresh",
		"CLOUDINARY_CLOUD_NAME": "demo",
		"CLOUDINARY_API_KEY":    "key",
		"CLOUDINARY_API_SECRET": "secret",
	}
}

func load(t *testing.T, env map[string]string) (*Config, error) {
	t.Helper()
	return LoadWith(context.Background(), envconfig.MapLookuper(env))
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(t, baseEnv())
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, 15*time.Minute, cfg.Auth.AccessTTL)
	assert.Equal(t, 240*time.Hour, cfg.Auth.RefreshTTL)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.True(t, cfg.Auth.CookieSecure)
	assert.Equal(t, 7, cfg.Login.MaxAttempts)
	assert.Equal(t, 15*time.Minute, cfg.Login.Window)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Mongo.URI)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, int64(10<<20), cfg.Upload.MaxBytes)
	assert.Equal(t, "cloudinary", cfg.Media.Provider)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Overrides(t *testing.T) {
	env := baseEnv()
	env["PORT"] = "9090"
	env["ENV"] = "production"
	env["ACCESS_TOKEN_EXPIRY"] = "30m"
	env["REFRESH_TOKEN_EXPIRY"] = "72h"
	env["COOKIE_SECURE"] = "false"

	cfg, err := load(t, env)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 30*time.Minute, cfg.Auth.AccessTTL)
	assert.Equal(t, 72*time.Hour, cfg.Auth.RefreshTTL)
	assert.False(t, cfg.Auth.CookieSecure)
}

func TestLoad_MissingSecrets(t *testing.T) {
	env := baseEnv()
	delete(env, "REFRESH_TOKEN_SECRET")

	_, err := load(t, env)
	assert.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]func(map[string]string){
		"shared secret":         func(e map[string]string) { e["REFRESH_TOKEN_SECRET"] = e["ACCESS_TOKEN_SECRET"] },
		"refresh shorter":       func(e map[string]string) { e["REFRESH_TOKEN_EXPIRY"] = "5m" },
		"unparseable duration":  func(e map[string]string) { e["ACCESS_TOKEN_EXPIRY"] = "soon" },
		"unknown provider":      func(e map[string]string) { e["MEDIA_PROVIDER"] = "ftp" },
		"cloudinary incomplete": func(e map[string]string) { delete(e, "CLOUDINARY_API_SECRET") },
		"s3 incomplete":         func(e map[string]string) { e["MEDIA_PROVIDER"] = "s3"; e["S3_BUCKET"] = "media" },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			env := baseEnv()
			mutate(env)
			_, err := load(t, env)
			assert.Error(t, err)
		})
	}
}

func TestLoad_S3(t *testing.T) {
	env := map[string]string{
		"ACCESS_TOKEN_SECRET":  "access",
		"REFRESH_TOKEN_SECRET": "refresh",
		"MEDIA_PROVIDER":       "s3",
		"S3_BUCKET":            "media",
		"S3_PUBLIC_BASE_URL":   "https://cdn.example.com",
	}

	cfg, err := load(t, env)
	require.NoError(t, err)
	assert.Equal(t, "us-east-1", cfg.Media.S3Region)
}
