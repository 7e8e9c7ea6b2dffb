package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config holds runtime settings for the collector and the dashboard server.
type Config struct {
	APIToken    string
	DatabaseDSN string
	DataDir     string
	ConfigDir   string
	CatalogPath string
	EventsPath  string
	Port        string
	Environment string
}

// DBSettings mirrors the JSON layout of config/db.txt.
type DBSettings struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	Database string `json:"database"`
}

// Load reads settings from environment variables with sensible defaults.
// Credentials are not required at this point; the collector calls
// RequireCredentials before talking to the API or the database.
func Load() *Config {
	configDir := getEnv("CONFIG_DIR", "config")
	return &Config{
		APIToken:    getEnv("LOSTARK_API_TOKEN", ""),
		DatabaseDSN: getEnv("DATABASE_URL", ""),
		DataDir:     getEnv("DATA_DIR", "data"),
		ConfigDir:   configDir,
		CatalogPath: getEnv("CATALOG_PATH", filepath.Join(configDir, "catalog.yaml")),
		EventsPath:  getEnv("EVENTS_PATH", filepath.Join(configDir, "events.txt")),
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
	}
}

// RequireCredentials fills in the API token and database DSN from the flat
// credential files when they were not provided via environment. A missing
// token or DB settings file is a fatal configuration error for the collector;
// the dashboard never calls this.
func (c *Config) RequireCredentials() error {
	if err := c.RequireAPIToken(); err != nil {
		return err
	}
	if c.DatabaseDSN == "" {
		settings, err := LoadDBSettings(filepath.Join(c.ConfigDir, "db.txt"))
		if err != nil {
			return err
		}
		c.DatabaseDSN = settings.DSN()
	}
	return nil
}

// RequireAPIToken fills in just the API token, for CSV-only runs that skip
// the database.
func (c *Config) RequireAPIToken() error {
	if c.APIToken != "" {
		return nil
	}
	token, err := loadAPIToken(filepath.Join(c.ConfigDir, "api.txt"))
	if err != nil {
		return err
	}
	c.APIToken = token
	return nil
}

// DSN renders a gorm/mysql connection string.
func (s *DBSettings) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		s.User, s.Password, s.Host, s.Port, s.Database)
}

func loadAPIToken(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read API token %s: %w", path, err)
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", fmt.Errorf("API token file %s is empty", path)
	}
	return token, nil
}

// LoadDBSettings parses the JSON database settings file.
func LoadDBSettings(path string) (*DBSettings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read DB settings %s: %w", path, err)
	}
	var settings DBSettings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("parse DB settings %s: %w", path, err)
	}
	if settings.Host == "" || settings.Database == "" {
		return nil, fmt.Errorf("DB settings %s: host and database are required", path)
	}
	return &settings, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
