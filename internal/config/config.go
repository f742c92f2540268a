package config

import (
	"os"
	"strconv"
	"time"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
	ConnectTimeoutSec  int
	ApplicationName    string
	TxMaxRetries       int
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// S3Config holds settings for the native AWS S3 backend.
// Endpoint is optional and only needed for S3-compatible services.
type S3Config struct {
	Region       string
	Endpoint     string
	AccessKey    string
	SecretKey    string
	Bucket       string
	UsePathStyle bool
}

// StorageConfig selects and configures the blob store backend: "minio", "s3" or "memory".
type StorageConfig struct {
	Backend      string
	MinIO        MinIOConfig
	S3           S3Config
	MemorySecret string
	MaxRetries   int
}

// VaultConfig holds the document lifecycle policy.
type VaultConfig struct {
	DownloadURLTTL      time.Duration
	DeleteRetention     time.Duration
	DefaultStorageLimit int64
	MaxUploadBytes      int64
}

// ScheduleConfig holds cron specs for the maintenance jobs. An empty spec disables the job.
type ScheduleConfig struct {
	GrantPurge   string
	DeletedPurge string
	BlobReclaim  string
	ReclaimBatch int
	PurgeBatch   int
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost  string
	Port     string
	Timezone string
	LogLevel string
	Database DatabaseConfig
	Storage  StorageConfig
	Vault    VaultConfig
	Schedule ScheduleConfig
}

// Location resolves the configured timezone, falling back to UTC.
func (c *AppConfig) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost:  getEnv("APP_HOST", "localhost:8080"),
		Port:     getEnv("PORT", "8080"),
		Timezone: getEnv("APP_TIMEZONE", "UTC"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
			ConnectTimeoutSec:  getEnvInt("DB_CONNECT_TIMEOUT_SEC", 5),
			ApplicationName:    getEnv("DB_APPLICATION_NAME", "docvault"),
			TxMaxRetries:       getEnvInt("DB_TX_MAX_RETRIES", 5),
		},
		Storage: StorageConfig{
			Backend: getEnv("STORAGE_BACKEND", "minio"),
			MinIO: MinIOConfig{
				Endpoint:  getEnv("MINIO_ENDPOINT", ""),
				AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
				SecretKey: getEnv("MINIO_SECRET_KEY", ""),
				Bucket:    getEnv("MINIO_BUCKET", ""),
				UseSSL:    getEnvBool("MINIO_USE_SSL", false),
			},
			S3: S3Config{
				Region:       getEnv("S3_REGION", "us-east-1"),
				Endpoint:     getEnv("S3_ENDPOINT", ""),
				AccessKey:    getEnv("S3_ACCESS_KEY_ID", ""),
				SecretKey:    getEnv("S3_SECRET_ACCESS_KEY", ""),
				Bucket:       getEnv("S3_BUCKET_NAME", ""),
				UsePathStyle: getEnvBool("S3_USE_PATH_STYLE", false),
			},
			MemorySecret: getEnv("MEMORY_STORAGE_SECRET", ""),
			MaxRetries:   getEnvInt("STORAGE_MAX_RETRIES", 3),
		},
		Vault: VaultConfig{
			DownloadURLTTL:      getEnvDuration("DOWNLOAD_URL_TTL", time.Hour),
			DeleteRetention:     getEnvDuration("DELETE_RETENTION", 0),
			DefaultStorageLimit: getEnvInt64("DEFAULT_STORAGE_LIMIT", 5368709120),
			MaxUploadBytes:      getEnvInt64("MAX_FILE_SIZE", 52428800),
		},
		Schedule: ScheduleConfig{
			GrantPurge:   getEnv("SCHEDULE_GRANT_PURGE", "0 * * * *"),
			DeletedPurge: getEnv("SCHEDULE_DELETED_PURGE", "*/15 * * * *"),
			BlobReclaim:  getEnv("SCHEDULE_BLOB_RECLAIM", "*/5 * * * *"),
			ReclaimBatch: getEnvInt("RECLAIM_BATCH_SIZE", 100),
			PurgeBatch:   getEnvInt("PURGE_BATCH_SIZE", 50),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.ParseInt(v, 10, 64)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err == nil {
			return d
		}
	}
	return def
}
