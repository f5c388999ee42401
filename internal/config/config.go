package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig    `json:"server"`
	Database  DatabaseConfig  `json:"database"`
	GCS       GCSConfig       `json:"gcs"`
	Gotenberg GotenbergConfig `json:"gotenberg"`
	Auth      AuthConfig      `json:"auth"`
	Directory DirectoryConfig `json:"directory"`
	Uploads   UploadConfig    `json:"uploads"`
}

type ServerConfig struct {
	Port         string   `json:"port"`
	Environment  string   `json:"environment"`
	BaseURL      string   `json:"base_url"`
	AllowOrigins []string `json:"allow_origins"`
}

type DatabaseConfig struct {
	Host     string `json:"host"`
	Port     string `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"db_name"`
}

type GCSConfig struct {
	BucketName      string `json:"bucket_name"`
	ProjectID       string `json:"project_id"`
	CredentialsPath string `json:"credentials_path"`
}

type GotenbergConfig struct {
	URL     string `json:"url"`
	Timeout string `json:"timeout"`
}

type AuthConfig struct {
	JWTSecret string        `json:"-"`
	TokenTTL  time.Duration `json:"token_ttl"`
}

// DirectoryConfig controls the VASP directory CSV snapshot.
type DirectoryConfig struct {
	CSVPath  string        `json:"csv_path"`
	CacheTTL time.Duration `json:"cache_ttl"`
}

type UploadConfig struct {
	MaxFileSize     int64         `json:"max_file_size"`
	TempDir         string        `json:"temp_dir"`
	CleanupMaxAge   time.Duration `json:"cleanup_max_age"`
	CleanupInterval time.Duration `json:"cleanup_interval"`
}

func (d *DatabaseConfig) DSN() string {
	// Cloud SQL Unix socket support
	if len(d.Host) > 0 && d.Host[0] == '/' {
		return fmt.Sprintf("%s:%s@unix(%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			d.User, d.Password, d.Host, d.DBName)
	}
	// Standard TCP connection
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User, d.Password, d.Host, d.Port, d.DBName)
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("No .env file loaded (%v), using system environment variables\n", err)
	}

	config := &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			Environment:  getEnv("ENVIRONMENT", "development"),
			BaseURL:      getEnv("BASE_URL", ""),
			AllowOrigins: parseAllowOrigins(),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "3306"),
			User:     getEnv("DB_USER", "root"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "vasplink"),
		},
		GCS: GCSConfig{
			BucketName:      getEnv("GCS_BUCKET_NAME", ""),
			ProjectID:       getEnv("GOOGLE_CLOUD_PROJECT", ""),
			CredentialsPath: getEnv("GCS_CREDENTIALS_PATH", ""),
		},
		Gotenberg: GotenbergConfig{
			URL:     getEnv("GOTENBERG_URL", "http://localhost:3000"),
			Timeout: getEnv("GOTENBERG_TIMEOUT", "30s"),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
			TokenTTL:  getEnvDuration("JWT_TOKEN_TTL", 12*time.Hour),
		},
		Directory: DirectoryConfig{
			CSVPath:  getEnv("VASP_CSV_PATH", "data/vasps.csv"),
			CacheTTL: getEnvDuration("VASP_CACHE_TTL", 15*time.Minute),
		},
		Uploads: UploadConfig{
			MaxFileSize:     getEnvInt64("UPLOAD_MAX_FILE_SIZE", 5*1024*1024),
			TempDir:         getEnv("UPLOAD_TEMP_DIR", os.TempDir()),
			CleanupMaxAge:   getEnvDuration("CLEANUP_MAX_AGE", 24*time.Hour),
			CleanupInterval: getEnvDuration("CLEANUP_INTERVAL", time.Hour),
		},
	}

	if config.Auth.JWTSecret == "" {
		if config.Server.Environment != "development" {
			return nil, fmt.Errorf("JWT_SECRET must be set outside development")
		}
		config.Auth.JWTSecret = "dev-only-secret"
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		fmt.Printf("Invalid duration for %s: %v, using default %s\n", key, err, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvInt64(key string, defaultValue int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		fmt.Printf("Invalid integer for %s: %v, using default %d\n", key, err, defaultValue)
		return defaultValue
	}
	return parsed
}

func parseAllowOrigins() []string {
	if origins := os.Getenv("ALLOW_ORIGINS"); origins != "" {
		var allowOrigins []string
		for _, origin := range strings.Split(origins, ",") {
			if trimmed := strings.TrimSpace(origin); trimmed != "" {
				allowOrigins = append(allowOrigins, trimmed)
			}
		}
		return allowOrigins
	}

	return []string{
		"http://localhost:3000",
		"http://localhost:3001",
	}
}
