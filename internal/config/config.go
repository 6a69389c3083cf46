package config

import (
	"fmt"
	"os"
	"time"

	"coursebot/internal/domain"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	BotToken             string        `envconfig:"BOT_TOKEN" required:"true"`
	AdminID              int64         `envconfig:"ADMIN_ID" required:"true"`
	LogLevel             string        `envconfig:"LOG_LEVEL" default:"info"`
	CatalogPath          string        `envconfig:"CATALOG_PATH"`
	MigrationsURL        string        `envconfig:"MIGRATIONS_URL" default:"file://migrations"`
	ManagerContact       string        `envconfig:"MANAGER_CONTACT" default:"@manager"`
	ActiveWindow         time.Duration `envconfig:"ACTIVE_WINDOW" default:"24h"`
	BroadcastConcurrency int           `envconfig:"BROADCAST_CONCURRENCY" default:"4"`
	RequestTimeout       time.Duration `envconfig:"REQUEST_TIMEOUT" default:"10s"`
	PollTimeout          time.Duration `envconfig:"POLL_TIMEOUT" default:"10s"`
	Database             DatabaseConfig

	Catalog *domain.Catalog `ignored:"true"`
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	Name     string `envconfig:"DB_NAME" default:"coursebot"`
	User     string `envconfig:"DB_USER" default:"coursebot"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
}

// Load reads configuration from the environment (and .env if present),
// then loads the catalog.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if not exists)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if cfg.AdminID <= 0 {
		return nil, fmt.Errorf("ADMIN_ID must be a positive user id")
	}
	if cfg.ActiveWindow <= 0 {
		return nil, fmt.Errorf("ACTIVE_WINDOW must be positive")
	}
	if cfg.BroadcastConcurrency < 1 {
		return nil, fmt.Errorf("BROADCAST_CONCURRENCY must be at least 1")
	}

	catalog, err := LoadCatalog(cfg.CatalogPath)
	if err != nil {
		return nil, err
	}
	cfg.Catalog = catalog

	return &cfg, nil
}

// LoadCatalog reads a YAML catalog. An empty path yields the built-in catalog.
func LoadCatalog(path string) (*domain.Catalog, error) {
	if path == "" {
		return domain.DefaultCatalog(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	var catalog domain.Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if err := catalog.Validate(); err != nil {
		return nil, fmt.Errorf("invalid catalog %s: %w", path, err)
	}
	return &catalog, nil
}

// DSN returns PostgreSQL connection string
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
