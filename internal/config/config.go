package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	AppPort    string
	AppEnv     string
	JWTSecret  string
	RedisAddr  string
	UploadRoot string

	// Payment session lifetime. Fixed contract: 15 minutes.
	SessionTTL time.Duration

	// Background payment verifier tick interval.
	VerifierInterval time.Duration

	// When true, partial cancellation re-evaluates the volume discount tier
	// against the remaining gross. Default false: subtract the cancelled
	// subtotal only.
	RecomputeVolumeDiscountOnPartialCancel bool
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBPort:     os.Getenv("DB_PORT"),
		AppPort:    os.Getenv("APP_PORT"),
		AppEnv:     os.Getenv("APP_ENV"),
		JWTSecret:  os.Getenv("JWT_SECRET"),
		RedisAddr:  os.Getenv("REDIS_ADDR"),
		UploadRoot: os.Getenv("UPLOAD_ROOT"),

		SessionTTL:       15 * time.Minute,
		VerifierInterval: durationEnv("VERIFIER_INTERVAL", 30*time.Second),

		RecomputeVolumeDiscountOnPartialCancel: boolEnv("RECOMPUTE_VOLUME_DISCOUNT_ON_PARTIAL_CANCEL", false),
	}

	if cfg.DBHost == "" {
		log.Fatal("Environment variables not loaded properly")
	}

	if cfg.UploadRoot == "" {
		cfg.UploadRoot = "./uploads"
	}
	if cfg.RedisAddr == "" {
		cfg.RedisAddr = "localhost:6379"
	}

	return cfg
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("invalid %s=%q, using default %s", key, v, fallback)
		return fallback
	}
	return d
}

func boolEnv(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("invalid %s=%q, using default %t", key, v, fallback)
		return fallback
	}
	return b
}
