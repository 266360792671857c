package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Uploads  UploadsConfig
	Admin    AdminConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
	Issuer        string
}

// UploadsConfig controls the web-servable uploads tree. Staged files live
// under <Root>/temp; TempMaxAge bounds the startup sweep of abandoned
// staging directories.
type UploadsConfig struct {
	Root       string
	TempMaxAge time.Duration
}

// AdminConfig seeds the initial operator account.
type AdminConfig struct {
	Email    string
	Password string
}

func Load() *Config {
	godotenv.Load()
	return &Config{
		Server: ServerConfig{
			Port:         getenv("SERVER_PORT", "8080"),
			Env:          getenv("APP_ENV", "development"),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			DSN:             getenv("DB_DSN", "medbase:medbase@tcp(localhost:3306)/medbase?charset=utf8mb4&parseTime=True&loc=Local"),
			MaxIdleConns:    getenvInt("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    getenvInt("DB_MAX_OPEN_CONNS", 100),
			ConnMaxLifetime: time.Hour,
		},
		JWT: JWTConfig{
			AccessSecret:  getenv("JWT_ACCESS_SECRET", "change-me-in-production"),
			RefreshSecret: getenv("JWT_REFRESH_SECRET", "change-me-refresh"),
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: 168 * time.Hour,
			Issuer:        "medbase",
		},
		Uploads: UploadsConfig{
			Root:       getenv("UPLOADS_ROOT", "./uploads"),
			TempMaxAge: 24 * time.Hour,
		},
		Admin: AdminConfig{
			Email:    getenv("ADMIN_EMAIL", "admin@medbase.local"),
			Password: getenv("ADMIN_PASSWORD", "admin"),
		},
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
