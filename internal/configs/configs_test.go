package configs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()

	for _, key := range []string{
		"ENVIRONMENT", "PORT", "SEED_SAMPLE_DATA", "ALLOWED_ORIGINS", "JWT_SECRET",
		"S3_BUCKET_NAME", "S3_ENDPOINT", "S3_ACCESS_KEY_ID", "S3_SECRET_ACCESS_KEY",
		"DATABASE_URL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfigDevelopmentDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.Equal(t, "development", cfg.Environment)
	require.True(t, cfg.IsDevelopment())
	require.Equal(t, 8080, cfg.Port)
	require.True(t, cfg.SeedSampleData)
	require.NotEmpty(t, cfg.JWTSecret)
	require.NotEmpty(t, cfg.DatabaseDSN)
	require.Empty(t, cfg.AllowedOrigins)
}

func TestLoadConfigProductionRequiresSecrets(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENVIRONMENT", "production")

	_, err := LoadConfig()
	require.Error(t, err)
	require.Contains(t, err.Error(), "JWT_SECRET")

	t.Setenv("JWT_SECRET", "prod-secret")
	_, err = LoadConfig()
	require.Error(t, err)
	require.Contains(t, err.Error(), "S3_BUCKET_NAME")

	t.Setenv("S3_BUCKET_NAME", "media")
	t.Setenv("S3_ENDPOINT", "https://s3.example.com")
	t.Setenv("S3_ACCESS_KEY_ID", "key")
	t.Setenv("S3_SECRET_ACCESS_KEY", "secret")
	_, err = LoadConfig()
	require.Error(t, err)
	require.Contains(t, err.Error(), "DATABASE_URL")

	t.Setenv("DATABASE_URL", "postgres://app:app@db:5432/socialhub")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.False(t, cfg.IsDevelopment())
	require.False(t, cfg.SeedSampleData)
}

func TestLoadConfigPortValidation(t *testing.T) {
	clearEnv(t)

	t.Setenv("PORT", "eighty")
	_, err := LoadConfig()
	require.Error(t, err)

	t.Setenv("PORT", "80")
	_, err = LoadConfig()
	require.Error(t, err)

	t.Setenv("PORT", "9000")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, 9000, cfg.Port)
}

func TestLoadConfigOriginsParsing(t *testing.T) {
	clearEnv(t)
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com ,")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.AllowedOrigins)
}

func TestLoadConfigSeedOverride(t *testing.T) {
	clearEnv(t)
	t.Setenv("SEED_SAMPLE_DATA", "false")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.False(t, cfg.SeedSampleData)

	t.Setenv("SEED_SAMPLE_DATA", "maybe")
	_, err = LoadConfig()
	require.Error(t, err)
}
