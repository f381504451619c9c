// Package config loads flashloop's process configuration from the
// environment (SPEC_FULL §6, §6.1). Grounded on the teacher's
// internal/config package (godotenv.Load + env/envInt/envBool helpers),
// retargeted from OpenAI/browser/DB-only settings to the full ambient env
// surface: the Cerebras transport, the Run Ledger's Postgres connection,
// the Logger, and the owned-mode browser launch.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Cfg is the whole process configuration, assembled once at startup.
type Cfg struct {
	Cerebras   Cerebras
	Database   Database
	Logger     Logger
	Browser    Browser
	Migrations Migrations
	CI         CI
}

// Cerebras holds the Planner transport's credentials and tuning.
type Cerebras struct {
	APIKey            string
	Model             string
	BaseURL           string
	RequestsPerMinute int
	TokensPerHour     int
}

// Database holds the Run Ledger's Postgres connection parameters. URL
// takes precedence over the discrete fields when both are set.
type Database struct {
	URL      string
	Host     string
	Port     string
	Name     string
	User     string
	Password string
}

// DSN renders a "host=... port=..." connection string for GORM's Postgres
// driver, or returns URL verbatim when it is set.
func (d Database) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf("host=%s port=%s dbname=%s user=%s password=%s sslmode=disable",
		d.Host, d.Port, d.Name, d.User, d.Password)
}

// PostgresURL renders a "postgres://..." connection string for
// golang-migrate, which speaks URL form rather than GORM's key=value form.
func (d Database) PostgresURL() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		d.User, d.Password, d.Host, d.Port, d.Name)
}

// Logger holds the ambient logging sinks.
type Logger struct {
	Level  string
	Format string
	File   string
}

// Browser holds the owned-mode browser launch parameters.
type Browser struct {
	Headless    bool
	UserDataDir string
	Display     string
}

// Migrations holds the Run Ledger schema migration source.
type Migrations struct {
	Path string
}

// CI holds the library entrypoint's CI short-circuit flags (spec §6).
type CI struct {
	IsCI        bool
	AllowAIInCI bool
}

// Load reads every setting from the environment (after loading an
// optional .env file, ignoring its absence), applying the defaults named
// throughout SPEC_FULL §6/§6.1.
func Load() (*Cfg, error) {
	_ = godotenv.Load()

	cfg := &Cfg{
		Cerebras: Cerebras{
			APIKey:            os.Getenv("CEREBRAS_API_KEY"),
			Model:             env("LLM_MODEL_NAME", "llama3.1-70b"),
			BaseURL:           env("LLM_BASE_URL", "https://api.cerebras.ai/v1"),
			RequestsPerMinute: envInt("LLM_REQUESTS_PER_MINUTE", 60),
			TokensPerHour:     envInt("LLM_TOKENS_PER_HOUR", 90000),
		},
		Database: Database{
			URL:      os.Getenv("DATABASE_URL"),
			Host:     env("DB_HOST", "localhost"),
			Port:     env("DB_PORT", "5432"),
			Name:     env("DB_NAME", "flashloop"),
			User:     env("DB_USER", "flashloop"),
			Password: os.Getenv("DB_PASS"),
		},
		Logger: Logger{
			Level:  env("LOG_LEVEL", "info"),
			Format: env("LOG_FORMAT", "console"),
			File:   os.Getenv("LOG_FILE"),
		},
		Browser: Browser{
			Headless:    envBool("PW_HEADLESS"),
			UserDataDir: os.Getenv("PW_USER_DATA_DIR"),
			Display:     env("DISPLAY", ":0"),
		},
		Migrations: Migrations{
			Path: env("MIGRATIONS_PATH", "file://internal/runledger/migrations"),
		},
		CI: CI{
			IsCI:        envBool("CI"),
			AllowAIInCI: envBool("ALLOW_AI_IN_CI"),
		},
	}

	if cfg.Cerebras.APIKey == "" && !cfg.CI.IsCI {
		return nil, fmt.Errorf("config: CEREBRAS_API_KEY is required outside CI")
	}

	return cfg, nil
}

// ShortCircuitAI reports whether the library entrypoint should skip the
// LLM-driven loop entirely and no-op (spec §6): running under CI without
// an explicit opt-in.
func (c CI) ShortCircuitAI() bool {
	return c.IsCI && !c.AllowAIInCI
}

func env(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func envInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultValue
}

func envBool(key string) bool {
	v := strings.ToLower(os.Getenv(key))
	return v == "1" || v == "true" || v == "yes"
}
