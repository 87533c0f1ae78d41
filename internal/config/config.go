package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where the config file is looked up when no path is given
const DefaultPath = "configs/campushub.yaml"

// Config structure represents the application configuration.
// The client section drives the campushub CLI; the remaining sections drive the portal stub.
type Config struct {
	Client struct {
		BaseURL     string        `yaml:"base_url" env:"CAMPUSHUB_API_URL"`
		Timeout     time.Duration `yaml:"timeout" env:"CAMPUSHUB_TIMEOUT"`
		SessionFile string        `yaml:"session_file" env:"CAMPUSHUB_SESSION_FILE"`
		UserAgent   string        `yaml:"user_agent" env:"CAMPUSHUB_USER_AGENT"`
	} `yaml:"client"`

	Server struct {
		Port     string `yaml:"port" env:"SERVER_PORT"`
		Mode     string `yaml:"mode" env:"SERVER_MODE"`
		BasePath string `yaml:"base_path" env:"SERVER_BASE_PATH"`
	} `yaml:"server"`

	Session struct {
		Secret     string        `yaml:"secret" env:"SESSION_SECRET"`
		Lifetime   time.Duration `yaml:"lifetime" env:"SESSION_LIFETIME"`
		CookieName string        `yaml:"cookie_name" env:"SESSION_COOKIE_NAME"`
		Issuer     string        `yaml:"issuer" env:"SESSION_ISSUER"`
		Secure     bool          `yaml:"secure" env:"SESSION_COOKIE_SECURE"`
	} `yaml:"session"`

	Database struct {
		DSN             string        `yaml:"dsn" env:"DATABASE_DSN"`
		MaxOpenConns    int           `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		MaxIdleConns    int           `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
	} `yaml:"database"`

	Seed struct {
		AdminUsername string `yaml:"admin_username" env:"SEED_ADMIN_USERNAME"`
		AdminEmail    string `yaml:"admin_email" env:"SEED_ADMIN_EMAIL"`
		AdminPassword string `yaml:"admin_password" env:"SEED_ADMIN_PASSWORD"`
		Courses       bool   `yaml:"courses" env:"SEED_COURSES"`
	} `yaml:"seed"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from a file and environment variables.
// A missing file is not an error; defaults and the environment still apply.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			file, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}

			if err := yaml.Unmarshal(file, config); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	if err := loadFromEnv(config, os.LookupEnv); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	// Client defaults
	config.Client.BaseURL = "http://localhost:5000/api"
	config.Client.Timeout = 15 * time.Second
	config.Client.SessionFile = defaultSessionFile()
	config.Client.UserAgent = "campushub-cli"

	// Stub server defaults
	config.Server.Port = "5000"
	config.Server.Mode = "development"
	config.Server.BasePath = "/api"

	config.Session.Lifetime = 30 * time.Minute
	config.Session.CookieName = "campushub_session"
	config.Session.Issuer = "campushub.portal"

	config.Database.MaxOpenConns = 10
	config.Database.MaxIdleConns = 2
	config.Database.ConnMaxLifetime = time.Hour

	config.Seed.AdminUsername = "admin"
	config.Seed.AdminEmail = "admin@campus.edu"
	config.Seed.Courses = true

	// Logging defaults
	config.Logging.Level = "info"
	config.Logging.Format = "text"
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "campushub", "session.yaml")
}

// loadFromEnv overrides configuration with environment variables
func loadFromEnv(config *Config, lookup lookupFunc) error {
	return processStructFields(config, lookup)
}

// Validate checks the settings the client needs.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Client.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid client base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("client base_url must be an http(s) URL, got %q", c.Client.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("client base_url has no host: %q", c.Client.BaseURL)
	}
	if c.Client.Timeout <= 0 {
		return fmt.Errorf("client timeout must be positive")
	}
	return nil
}

// ValidateServer checks the settings the portal stub needs.
func (c *Config) ValidateServer() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}

	if c.Server.BasePath != "" && !strings.HasPrefix(c.Server.BasePath, "/") {
		return fmt.Errorf("server base_path must start with /")
	}

	if c.Session.Secret == "" {
		return fmt.Errorf("session secret is required")
	}

	if len(c.Session.Secret) < 16 {
		return fmt.Errorf("session secret must be at least 16 characters")
	}

	if c.Session.Lifetime <= 0 {
		return fmt.Errorf("session lifetime must be positive")
	}

	if c.Seed.AdminPassword != "" && len(c.Seed.AdminPassword) < 6 {
		return fmt.Errorf("seed admin password must be at least 6 characters")
	}

	return nil
}
