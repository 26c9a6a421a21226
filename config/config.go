/*
Package config loads runtime configuration from the environment.

PURPOSE:
  One place that knows every environment variable the server reads. A .env
  file in the working directory is merged in first, so local development
  does not need exported variables.

VARIABLES:
  PORT               HTTP listen port (default 8080)
  DB_PATH            SQLite database file (default ./data/fintrack.db)
  SMTP_HOST          SMTP server; empty disables report mail
  SMTP_PORT          SMTP port (default 587)
  SMTP_USER          SMTP username (optional)
  SMTP_PASS          SMTP password (optional)
  REPORT_FROM_EMAIL  Sender address for report mail
  CATEGORY_RULES     Optional YAML file overriding the category rule table
  LOG_LEVEL          zerolog level name (default info)
*/
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config is the resolved runtime configuration.
type Config struct {
	Port          int
	DBPath        string
	SMTPHost      string
	SMTPPort      int
	SMTPUser      string
	SMTPPass      string
	FromEmail     string
	CategoryRules string
	LogLevel      string
}

// Load reads .env (when present) and the environment.
func Load() (Config, error) {
	// Missing .env is fine; a malformed one is not
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Config{
		Port:          8080,
		DBPath:        "./data/fintrack.db",
		SMTPPort:      587,
		SMTPHost:      os.Getenv("SMTP_HOST"),
		SMTPUser:      os.Getenv("SMTP_USER"),
		SMTPPass:      os.Getenv("SMTP_PASS"),
		FromEmail:     os.Getenv("REPORT_FROM_EMAIL"),
		CategoryRules: os.Getenv("CATEGORY_RULES"),
		LogLevel:      "info",
	}

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("bad PORT %q: %w", v, err)
		}
		cfg.Port = port
	}
	if v := os.Getenv("SMTP_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("bad SMTP_PORT %q: %w", v, err)
		}
		cfg.SMTPPort = port
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	return cfg, nil
}

// MailConfigured reports whether enough SMTP settings exist to send.
func (c Config) MailConfigured() bool {
	return c.SMTPHost != "" && c.FromEmail != ""
}
