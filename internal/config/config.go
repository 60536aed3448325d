package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Logging  LoggingConfig
	CORS     CORSConfig
	Storage  StorageConfig
	Workshop WorkshopConfig
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Env  string
	Addr string
	Name string
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig holds Redis connection settings, backing the pub/sub
// invalidation bus of the map-catalogue filter cache in internal/pkg/cache.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Enabled  bool
}

// AuthConfig holds Steam OpenID and JWT settings.
type AuthConfig struct {
	// PublicURL is the API's externally reachable base URL, used to build
	// the OpenID return_to/realm parameters.
	PublicURL string
	// CookieDomain scopes the kz-auth cookie.
	CookieDomain string
	// SteamAPIKey is reserved for calls the login flow may need to Steam's
	// Web API beyond the raw OpenID round trip (profile lookups, VAC bans).
	SteamAPIKey string
	// JWTSecret is the process-wide HMAC secret, read as base64.
	JWTSecret []byte
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level                    string
	Format                   string
	SQLThresholdMilliSeconds int
	SQLParameterizedQueries  bool
}

// CORSConfig holds CORS settings for the dashboard origin.
type CORSConfig struct {
	AllowedOrigins string
	AllowedMethods string
	AllowedHeaders string
}

// StorageConfig holds the object-storage settings backing workshop/plugin
// artifact storage (internal/infra/storage).
type StorageConfig struct {
	// Provider is "minio" or "gcs".
	Provider        string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	UseSSL          bool
	PublicURL       string
}

// WorkshopConfig names two external collaborators whose interface the core
// still touches without owning them: the Workshop downloader and a
// depot-download helper invoked out of band.
type WorkshopConfig struct {
	ArtifactsPath       string
	DepotDownloaderPath string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	if os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load(); err != nil {
			fmt.Println("Warning: .env file not found, using environment variables")
		}
	}

	cfg := &Config{
		App: AppConfig{
			Env:  getEnv("APP_ENV", "development"),
			Addr: getEnv("APP_ADDR", ":8080"),
			Name: getEnv("APP_NAME", "kz-league"),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			DBName:          getEnv("DB_NAME", "kz_league"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", true),
		},
		Auth: AuthConfig{
			PublicURL:    getEnv("PUBLIC_URL", "http://localhost:8080"),
			CookieDomain: getEnv("COOKIE_DOMAIN", "localhost"),
			SteamAPIKey:  getEnv("STEAM_API_KEY", ""),
			JWTSecret:    getEnvAsBase64("JWT_SECRET_BASE64", "Y2hhbmdlLXRoaXMtc2VjcmV0LWluLXByb2R1Y3Rpb24="),
		},
		Logging: LoggingConfig{
			Level:                    getEnv("LOG_LEVEL", "debug"),
			Format:                   getEnv("LOG_FORMAT", "json"),
			SQLThresholdMilliSeconds: getEnvAsInt("LOG_SQL_THRESHOLD_MILLI_SECONDS", 200),
			SQLParameterizedQueries:  getEnvAsBool("LOG_SQL_PARAMETERIZED_QUERIES", false),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			AllowedMethods: getEnv("CORS_ALLOWED_METHODS", "GET,POST,PUT,PATCH,DELETE,OPTIONS"),
			AllowedHeaders: getEnv("CORS_ALLOWED_HEADERS", "Origin,Content-Type,Accept,Authorization"),
		},
		Storage: StorageConfig{
			Provider:        getEnv("STORAGE_PROVIDER", "minio"),
			Endpoint:        getEnv("STORAGE_ENDPOINT", "localhost:9000"),
			AccessKeyID:     getEnv("STORAGE_ACCESS_KEY", "minioadmin"),
			SecretAccessKey: getEnv("STORAGE_SECRET_KEY", "minioadmin"),
			BucketName:      getEnv("STORAGE_BUCKET", "kz-workshop-artifacts"),
			UseSSL:          getEnvAsBool("STORAGE_USE_SSL", false),
			PublicURL:       getEnv("STORAGE_PUBLIC_URL", "http://localhost:9000"),
		},
		Workshop: WorkshopConfig{
			ArtifactsPath:       getEnv("WORKSHOP_ARTIFACTS_PATH", "./workshop-artifacts"),
			DepotDownloaderPath: getEnv("DEPOT_DOWNLOADER_PATH", ""),
		},
	}

	if cfg.App.Env == "production" {
		if cfg.Database.Password == "" {
			return nil, fmt.Errorf("DB_PASSWORD must be set in production")
		}
		if len(cfg.Auth.JWTSecret) == 0 {
			return nil, fmt.Errorf("JWT_SECRET_BASE64 must be set in production")
		}
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBase64 decodes a base64-encoded environment variable, falling
// back to decoding defaultValue (also base64) when unset.
func getEnvAsBase64(key, defaultValue string) []byte {
	raw := getEnv(key, defaultValue)
	decoded, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return []byte(raw)
	}
	return decoded
}
