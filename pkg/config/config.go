package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Server       ServerConfig
	Database     DatabaseConfig
	JWT          JWTConfig
	Cron         CronConfig
	LemonSqueezy LemonSqueezyConfig
	R2           R2Config
	Email        EmailConfig
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	URL string
}

type JWTConfig struct {
	Secret string
}

// CronConfig guards the HTTP sweep trigger. The secret is compared against the
// Authorization bearer token.
type CronConfig struct {
	Secret string
}

type LemonSqueezyConfig struct {
	SigningSecret   string
	BasicoVariantID string
	ProVariantID    string
}

type R2Config struct {
	AccessKey  string
	SecretKey  string
	AccountID  string
	BucketName string
	PublicURL  string
}

type EmailConfig struct {
	ResendAPIKey string
	From         string
}

func Load() *Config {
	godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "3000"),
		},
		Database: DatabaseConfig{
			URL: getEnv("DATABASE_URL", ""),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", ""),
		},
		Cron: CronConfig{
			Secret: getEnv("CRON_SECRET", ""),
		},
		LemonSqueezy: LemonSqueezyConfig{
			SigningSecret:   getEnv("LEMONSQUEEZY_SIGNING_SECRET", ""),
			BasicoVariantID: getEnv("LEMONSQUEEZY_BASICO_VARIANT_ID", ""),
			ProVariantID:    getEnv("LEMONSQUEEZY_PRO_VARIANT_ID", ""),
		},
		R2: R2Config{
			AccessKey:  getEnv("R2_ACCESS_KEY", ""),
			SecretKey:  getEnv("R2_SECRET_KEY", ""),
			AccountID:  getEnv("R2_ACCOUNT_ID", ""),
			BucketName: getEnv("R2_BUCKET_NAME", ""),
			PublicURL:  getEnv("R2_PUBLIC_URL", "https://cdn.ventapos.app"),
		},
		Email: EmailConfig{
			ResendAPIKey: getEnv("RESEND_API_KEY", ""),
			From:         getEnv("EMAIL_FROM", "VentaPOS <noreply@ventapos.app>"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
