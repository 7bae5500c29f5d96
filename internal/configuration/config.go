package configuration

import (
	"fmt"
	"os"
)

type Config struct {
	Server    ServerConfig
	Ledger    LedgerConfig
	Storage   StorageConfig
	MinIO     MinIOConfig
	NATSURL   string
	CLAMAVURL string
}

type ServerConfig struct {
	Port string
}

// LedgerConfig selects the protocol ledger backend. The JSON file is the
// default; Postgres is opt-in via LEDGER_BACKEND=postgres.
type LedgerConfig struct {
	Backend  string
	Path     string
	Database DatabaseConfig
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type StorageConfig struct {
	UploadDir   string
	ProtocolDir string
}

type MinIOConfig struct {
	Endpoint   string
	AccessKey  string
	SecretKey  string
	BucketName string
	UseSSL     bool
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
		},
		Ledger: LedgerConfig{
			Backend: getEnv("LEDGER_BACKEND", "json"),
			Path:    getEnv("LEDGER_PATH", "protocols_db.json"),
			Database: DatabaseConfig{
				Host:     getEnv("DB_HOST", "localhost"),
				Port:     getEnv("DB_PORT", "5432"),
				User:     getEnv("DB_USER", "protouser"),
				Password: getEnv("DB_PASSWORD", "protopassword"),
				DBName:   getEnv("DB_NAME", "protocols"),
				SSLMode:  getEnv("DB_SSL_MODE", "disable"),
			},
		},
		Storage: StorageConfig{
			UploadDir:   getEnv("UPLOAD_DIR", "uploads"),
			ProtocolDir: getEnv("PROTOCOL_DIR", "protocols"),
		},
		MinIO: MinIOConfig{
			Endpoint:   getEnv("MINIO_ENDPOINT", ""),
			AccessKey:  getEnv("MINIO_ACCESS_KEY", "minioadmin"),
			SecretKey:  getEnv("MINIO_SECRET_KEY", "minioadmin"),
			BucketName: getEnv("MINIO_BUCKET", "protocols"),
			UseSSL:     getEnv("MINIO_USE_SSL", "false") == "true",
		},
		// Empty endpoints leave the corresponding optional service disabled.
		NATSURL:   getEnv("NATS_URL", ""),
		CLAMAVURL: getEnv("CLAMAV_URL", ""),
	}
}

func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
