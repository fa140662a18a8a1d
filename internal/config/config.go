package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const (
	defaultPort       = "8000"
	defaultSQLitePath = "./departments.db"
	defaultUploadDir  = "./uploads"
)

// Config carries everything the process needs from its environment. It is
// built once at startup and passed into constructors; nothing reads the
// environment after Load returns.
type Config struct {
	// DatabaseURL is a Postgres DSN. When empty the server falls back to an
	// embedded SQLite file at SQLitePath.
	DatabaseURL string
	SQLitePath  string

	Host      string
	Port      string
	UploadDir string
}

// Load reads an optional .env file and then the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file loaded")
	}

	cfg := &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		SQLitePath:  os.Getenv("SQLITE_DB_PATH"),
		Host:        os.Getenv("HOST"),
		Port:        os.Getenv("PORT"),
		UploadDir:   os.Getenv("UPLOAD_DIR"),
	}

	if cfg.SQLitePath == "" {
		cfg.SQLitePath = defaultSQLitePath
	}
	if cfg.Port == "" {
		cfg.Port = defaultPort
	}
	if cfg.UploadDir == "" {
		cfg.UploadDir = defaultUploadDir
	}

	return cfg
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return c.Host + ":" + c.Port
}
