package config

import (
	"errors"
	"os"
	"strconv"
)

type Config struct {
	Port string

	MongoURI          string
	MongoDatabase     string
	MongoTransactions bool

	FirebaseServiceAccountPath string
	AuthPublicKeyPath          string

	StripeSecretKey string
	PaymentCurrency string

	RedisURL string

	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	AWSBucket          string
	UploadDir          string
	BaseURL            string
}

// Load reads the service configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{
		Port:                       getEnv("PORT", "8080"),
		MongoURI:                   os.Getenv("MONGO_URI"),
		MongoDatabase:              getEnv("MONGO_DB", "parcelDB"),
		MongoTransactions:          getBool("MONGO_TRANSACTIONS"),
		FirebaseServiceAccountPath: os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH"),
		AuthPublicKeyPath:          os.Getenv("AUTH_PUBLIC_KEY_PATH"),
		StripeSecretKey:            os.Getenv("STRIPE_SECRET_KEY"),
		PaymentCurrency:            getEnv("PAYMENT_CURRENCY", "usd"),
		RedisURL:                   os.Getenv("REDIS_URL"),
		AWSRegion:                  os.Getenv("AWS_REGION"),
		AWSAccessKeyID:             os.Getenv("AWS_ACCESS_KEY_ID"),
		AWSSecretAccessKey:         os.Getenv("AWS_SECRET_ACCESS_KEY"),
		AWSBucket:                  os.Getenv("AWS_S3_BUCKET"),
		UploadDir:                  getEnv("UPLOAD_DIR", "/app/uploads"),
		BaseURL:                    getEnv("BASE_URL", "http://localhost:8080"),
	}

	if cfg.MongoURI == "" {
		return nil, errors.New("MONGO_URI environment variable is required")
	}

	return cfg, nil
}

// S3Enabled reports whether all AWS settings needed for S3 uploads are set.
func (c *Config) S3Enabled() bool {
	return c.AWSRegion != "" && c.AWSAccessKeyID != "" && c.AWSSecretAccessKey != "" && c.AWSBucket != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBool(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && v
}
