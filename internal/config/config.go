// Package config resolves default paths from the environment and an
// optional .env file.
package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Environment variables read by the binaries.
const (
	EnvDBDir     = "CHESSVIDEOS_DB_DIR"
	EnvOutDir    = "CHESSVIDEOS_OUT_DIR"
	EnvOpenings  = "CHESSVIDEOS_OPENINGS"
	EnvAddr      = "CHESSVIDEOS_ADDR"
	EnvLogLevel  = "CHESSVIDEOS_LOG_LEVEL"
	EnvIngestDir = "CHESSVIDEOS_INGEST_DIR"
)

// envPaths are tried in order; the first .env found wins.
var envPaths = []string{".env", "../.env"}

// Defaults are the values flags start from.
type Defaults struct {
	DBDir     string
	OutDir    string
	Openings  string
	Addr      string
	LogLevel  string
	IngestDir string // empty disables the ingest watcher
}

// LoadDotEnv loads the first .env file found and returns its path, or ""
// when none exists. Variables already set in the environment win.
func LoadDotEnv() string {
	for _, path := range envPaths {
		if err := godotenv.Load(path); err == nil {
			return path
		}
	}
	return ""
}

// FromEnv returns the defaults, overridden by any variables that are set.
func FromEnv() Defaults {
	return Defaults{
		DBDir:     envOr(EnvDBDir, "./db"),
		OutDir:    envOr(EnvOutDir, "./generated"),
		Openings:  envOr(EnvOpenings, "./openings.json"),
		Addr:      envOr(EnvAddr, ":8008"),
		LogLevel:  envOr(EnvLogLevel, "info"),
		IngestDir: os.Getenv(EnvIngestDir),
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
