package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
// It is the single source of truth for runtime parameters.
type Config struct {
	Port string
	Env  string

	DB      DatabaseConfig
	Session SessionConfig
	Admin   AdminConfig
	Upload  UploadConfig
	Minio   MinioConfig
}

// DatabaseConfig contains PostgreSQL connection parameters and pool limits.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string

	// Every request leases its own connection, so MaxOpenConns also caps
	// the number of requests that can talk to the database at once.
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnectAttempts int
}

// SessionConfig controls the signed admin session cookie.
type SessionConfig struct {
	Secret string
	TTL    time.Duration
	Secure bool
}

// AdminConfig holds the single admin credential pair.
type AdminConfig struct {
	Username string
	Password string
}

// UploadConfig controls where uploaded product images go and how large a request may be.
type UploadConfig struct {
	Dir      string
	MaxBytes int64
}

// MinioConfig enables the object-store upload backend when Endpoint is set.
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Enabled reports whether uploads should go to MinIO instead of the local directory.
func (m MinioConfig) Enabled() bool {
	return m.Endpoint != ""
}

// Load reads configuration from environment variables. If a .env file exists
// in the working directory, it will be loaded first. It returns a populated
// Config or an error with a human-friendly message.
func Load() (*Config, error) {
	// Missing .env is fine; real environment variables still apply.
	_ = godotenv.Load()

	cfg := &Config{}

	// Server
	cfg.Port = getEnv("PORT", "8080")
	cfg.Env = getEnv("ENV", "development")

	// Database
	cfg.DB = DatabaseConfig{
		Host:     getEnv("DB_HOST", ""),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", ""),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", ""),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),

		MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 20),
		MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
		ConnectAttempts: getEnvInt("DB_CONNECT_ATTEMPTS", 5),
	}

	// Admin
	cfg.Admin = AdminConfig{
		Username: getEnv("ADMIN_USER", "admin"),
		Password: getEnv("ADMIN_PASS", "admin123"),
	}

	// Session
	secret := getEnv("SESSION_SECRET", "")
	if secret == "" {
		generated, err := randomSecret()
		if err != nil {
			return nil, fmt.Errorf("could not generate session secret: %w", err)
		}
		secret = generated
	}
	cfg.Session = SessionConfig{
		Secret: secret,
		Secure: getEnvBool("SESSION_SECURE", cfg.Env == "production"),
	}

	var err error
	if cfg.Session.TTL, err = parseDurationEnv("SESSION_TTL", "12h"); err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL: %w", err)
	}
	if cfg.DB.ConnMaxLifetime, err = parseDurationEnv("DB_CONN_MAX_LIFETIME", "5m"); err != nil {
		return nil, fmt.Errorf("invalid DB_CONN_MAX_LIFETIME: %w", err)
	}

	// Uploads
	cfg.Upload = UploadConfig{
		Dir:      getEnv("UPLOAD_DIR", "static/uploads"),
		MaxBytes: int64(getEnvInt("MAX_UPLOAD_BYTES", 10*1024*1024)),
	}

	// MinIO (optional)
	cfg.Minio = MinioConfig{
		Endpoint:  getEnv("MINIO_ENDPOINT", ""),
		AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
		SecretKey: getEnv("MINIO_SECRET_KEY", ""),
		Bucket:    getEnv("MINIO_BUCKET", "product-images"),
		UseSSL:    getEnvBool("MINIO_USE_SSL", false),
	}

	if cfg.DB.Host == "" || cfg.DB.User == "" || cfg.DB.Name == "" {
		return nil, errors.New("database configuration incomplete: ensure DB_HOST, DB_USER, and DB_NAME are set")
	}
	if cfg.DB.MaxOpenConns <= 0 || cfg.DB.MaxIdleConns < 0 || cfg.DB.ConnectAttempts <= 0 {
		return nil, errors.New("DB_MAX_OPEN_CONNS and DB_CONNECT_ATTEMPTS must be positive, DB_MAX_IDLE_CONNS non-negative")
	}
	if cfg.Session.TTL == 0 {
		return nil, errors.New("SESSION_TTL must be greater than zero")
	}
	if cfg.Upload.MaxBytes <= 0 {
		return nil, errors.New("MAX_UPLOAD_BYTES must be greater than zero")
	}
	if cfg.Minio.Enabled() && (cfg.Minio.AccessKey == "" || cfg.Minio.SecretKey == "") {
		return nil, errors.New("MINIO_ACCESS_KEY and MINIO_SECRET_KEY must be set when MINIO_ENDPOINT is used")
	}

	return cfg, nil
}

// getEnv returns the value of an environment variable or a default if empty.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvInt returns the value of an environment variable as an integer or a default if empty/invalid.
func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getEnvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// parseDurationEnv reads an environment variable and parses it as time.Duration.
// If the variable is empty, it falls back to the provided default value.
func parseDurationEnv(key, def string) (time.Duration, error) {
	raw := getEnv(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must be >= 0")
	}
	return d, nil
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
