package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"STORE_BACKEND", "DATA_DIR", "SQLITE_PATH", "DB_URL", "LISTEN_ADDR",
	"AUTH_PASSWORD_HASH", "CORS_ALLOWED_ORIGINS", "LOG_LEVEL",
}

// clearEnv blanks every variable NewFromEnv reads; t.Setenv restores them.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestNewFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := NewFromEnv()
	require.NoError(t, err)
	assert.Equal(t, &Config{
		StoreBackend:       BackendFile,
		DataDir:            "data",
		SQLitePath:         filepath.Join("data", "weekly-tracker.db"),
		ListenAddr:         "localhost:3000",
		CORSAllowedOrigins: []string{"http://localhost:5173"},
		LogLevel:           "info",
	}, cfg)
}

func TestNewFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE_BACKEND", "sqlite")
	t.Setenv("DATA_DIR", "/var/lib/tracker")
	t.Setenv("LISTEN_ADDR", " :8080 ")
	t.Setenv("AUTH_PASSWORD_HASH", "$2a$10$abc")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := NewFromEnv()
	require.NoError(t, err)
	assert.Equal(t, BackendSQLite, cfg.StoreBackend)
	assert.Equal(t, "/var/lib/tracker/weekly-tracker.db", cfg.SQLitePath, "derived from DATA_DIR")
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "$2a$10$abc", cfg.AuthPasswordHash)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestNewFromEnv_Postgres(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE_BACKEND", "postgres")

	_, err := NewFromEnv()
	assert.EqualError(t, err, "DB_URL environment variable not set")

	t.Setenv("DB_URL", "postgres://localhost/tracker")
	cfg, err := NewFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/tracker", cfg.DBURL)
}

func TestNewFromEnv_UnknownBackend(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE_BACKEND", "redis")

	_, err := NewFromEnv()
	assert.EqualError(t, err, "STORE_BACKEND must be one of: file, sqlite, postgres")
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("LOG_LEVEL=warn\nLISTEN_ADDR=0.0.0.0:9000\n"), 0600))
	t.Setenv("LISTEN_ADDR", "127.0.0.1:4000")
	// godotenv only fills variables that are absent, not ones set to "".
	require.NoError(t, os.Unsetenv("LOG_LEVEL"))

	require.NoError(t, LoadDotEnv(path, filepath.Join(t.TempDir(), "missing.env")))

	cfg, err := NewFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "127.0.0.1:4000", cfg.ListenAddr, "existing variables win")
}
