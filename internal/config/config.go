package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/vytor/wordbox/internal/logger"
)

type Config struct {
	DBPath      string
	Addr        string
	LogLevel    string
	LogColors   bool
	HistoryFile string
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the tool still starts when .env is absent.
	_ = godotenv.Load()

	dataDir := defaultDataDir()
	return Config{
		DBPath:      envOr("WORDBOX_DB", filepath.Join(dataDir, "cards.db")),
		Addr:        envOr("ADDR", ":8080"),
		LogLevel:    envOr("LOG_LEVEL", "INFO"),
		LogColors:   envBoolOr("LOG_COLORS", true),
		HistoryFile: envOr("HISTORY_FILE", filepath.Join(dataDir, "history")),
	}
}

// Validate checks every field and reports all problems at once.
func (c *Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.DBPath) == "" {
		problems = append(problems, "WORDBOX_DB cannot be empty")
	}
	if strings.TrimSpace(c.Addr) == "" {
		problems = append(problems, "ADDR cannot be empty")
	}
	if level, ok := logger.LookupLevel(c.LogLevel); ok {
		c.LogLevel = level.String()
	} else {
		problems = append(problems, fmt.Sprintf("LOG_LEVEL %q must be one of DEBUG, INFO, WARN, ERROR", c.LogLevel))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".wordbox")
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envBoolOr(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		log.Printf("invalid value for %s=%q, using default %t", key, v, def)
	}
	return def
}
