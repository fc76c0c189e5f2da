package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Storage backends.
const (
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Config holds the configuration for the application.
type Config struct {
	StoreBackend string
	DataDir      string
	SQLitePath   string
	DBURL        string

	ListenAddr         string
	AuthPasswordHash   string
	CORSAllowedOrigins []string

	LogLevel string
}

// LoadDotEnv loads the given .env files (default ".env") into the process
// environment. Missing files are not an error; existing variables win.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// NewFromEnv creates a new Config object from environment variables.
func NewFromEnv() (*Config, error) {
	backend := getenv("STORE_BACKEND", BackendFile)
	switch backend {
	case BackendFile, BackendSQLite, BackendPostgres:
	default:
		return nil, fmt.Errorf("STORE_BACKEND must be one of: file, sqlite, postgres")
	}

	dataDir := getenv("DATA_DIR", "data")
	dbURL := os.Getenv("DB_URL")
	if backend == BackendPostgres && dbURL == "" {
		return nil, fmt.Errorf("DB_URL environment variable not set")
	}

	var origins []string
	for _, o := range strings.Split(getenv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	return &Config{
		StoreBackend:       backend,
		DataDir:            dataDir,
		SQLitePath:         getenv("SQLITE_PATH", filepath.Join(dataDir, "weekly-tracker.db")),
		DBURL:              dbURL,
		ListenAddr:         getenv("LISTEN_ADDR", "localhost:3000"),
		AuthPasswordHash:   os.Getenv("AUTH_PASSWORD_HASH"),
		CORSAllowedOrigins: origins,
		LogLevel:           getenv("LOG_LEVEL", "info"),
	}, nil
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
