package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	t.Run("Success loading from env", func(t *testing.T) {
		t.Setenv("DB_HOST", "localhost")
		t.Setenv("DB_USER", "testuser")
		t.Setenv("DB_PASSWORD", "testpass")
		t.Setenv("DB_NAME", "testdb")
		t.Setenv("DB_PORT", "5432")
		t.Setenv("APP_PORT", "8080")
		t.Setenv("APP_ENV", "test")
		t.Setenv("JWT_SECRET", "secret")
		t.Setenv("UPLOAD_ROOT", "/tmp/uploads")
		t.Setenv("REDIS_ADDR", "localhost:6379")

		cfg := LoadConfig()

		assert.NotNil(t, cfg)
		assert.Equal(t, "localhost", cfg.DBHost)
		assert.Equal(t, "testuser", cfg.DBUser)
		assert.Equal(t, "testpass", cfg.DBPassword)
		assert.Equal(t, "testdb", cfg.DBName)
		assert.Equal(t, "5432", cfg.DBPort)
		assert.Equal(t, "8080", cfg.AppPort)
		assert.Equal(t, "test", cfg.AppEnv)
		assert.Equal(t, "/tmp/uploads", cfg.UploadRoot)
		assert.Equal(t, 15*time.Minute, cfg.SessionTTL)
		assert.False(t, cfg.RecomputeVolumeDiscountOnPartialCancel)
	})

	t.Run("Defaults", func(t *testing.T) {
		t.Setenv("DB_HOST", "localhost")
		t.Setenv("UPLOAD_ROOT", "")
		t.Setenv("REDIS_ADDR", "")
		t.Setenv("VERIFIER_INTERVAL", "")

		cfg := LoadConfig()

		assert.Equal(t, "./uploads", cfg.UploadRoot)
		assert.Equal(t, "localhost:6379", cfg.RedisAddr)
		assert.Equal(t, 30*time.Second, cfg.VerifierInterval)
	})

	t.Run("VerifierInterval override", func(t *testing.T) {
		t.Setenv("DB_HOST", "localhost")
		t.Setenv("VERIFIER_INTERVAL", "2s")

		cfg := LoadConfig()
		assert.Equal(t, 2*time.Second, cfg.VerifierInterval)
	})

	t.Run("Invalid duration falls back", func(t *testing.T) {
		t.Setenv("DB_HOST", "localhost")
		t.Setenv("VERIFIER_INTERVAL", "not-a-duration")

		cfg := LoadConfig()
		assert.Equal(t, 30*time.Second, cfg.VerifierInterval)
	})

	t.Run("Recompute flag", func(t *testing.T) {
		t.Setenv("DB_HOST", "localhost")
		t.Setenv("RECOMPUTE_VOLUME_DISCOUNT_ON_PARTIAL_CANCEL", "true")

		cfg := LoadConfig()
		assert.True(t, cfg.RecomputeVolumeDiscountOnPartialCancel)
	})
}
