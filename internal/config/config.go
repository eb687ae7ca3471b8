package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Queue    QueueConfig    `mapstructure:"queue"`
	Mail     MailConfig     `mapstructure:"mail"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port        int      `mapstructure:"port"`
	Mode        string   `mapstructure:"mode"`         // "development" or "production"
	CORSOrigins []string `mapstructure:"cors_origins"` // "*" allows any origin
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`            // "sqlite" or "postgres"
	DSN             string `mapstructure:"dsn"`               // Connection string
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`    // Maximum idle connections (Postgres)
	MaxOpenConns    int    `mapstructure:"max_open_conns"`    // Maximum open connections (Postgres)
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"` // Connection max lifetime in minutes (Postgres)
	LogLevel        string `mapstructure:"log_level"`         // gorm logger level; empty follows log.level
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	JWTSecret    string        `mapstructure:"jwt_secret"`    // Secret for HS256 signing
	TokenTTL     time.Duration `mapstructure:"token_ttl"`     // Validity window of issued tokens
	Issuer       string        `mapstructure:"issuer"`        // "iss" claim
	BcryptCost   int           `mapstructure:"bcrypt_cost"`   // 0 uses bcrypt.DefaultCost
	RefreshRoles bool          `mapstructure:"refresh_roles"` // Re-read roles from the database on protected routes
}

// QueueConfig holds mail job queue configuration
type QueueConfig struct {
	Type       string `mapstructure:"type"`        // "memory" or "valkey"
	ValkeyAddr string `mapstructure:"valkey_addr"` // Valkey address (if type=valkey), e.g., "localhost:6379"
	BufferSize int    `mapstructure:"buffer_size"` // Channel size of the memory queue
}

// MailConfig holds outbound email configuration
type MailConfig struct {
	Driver        string `mapstructure:"driver"` // "smtp" or "log"
	Host          string `mapstructure:"host"`
	Port          int    `mapstructure:"port"`
	Username      string `mapstructure:"username"`
	Password      string `mapstructure:"password"`
	From          string `mapstructure:"from"`
	AllowedDomain string `mapstructure:"allowed_domain"` // Recipients must belong to this domain
	Workers       int    `mapstructure:"workers"`        // Concurrent deliveries
	MaxAttempts   int    `mapstructure:"max_attempts"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Format string `mapstructure:"format"` // "json" or "text"
	Level  string `mapstructure:"level"`  // "debug", "info", "warn", "error"
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Mode == "production"
}

// Load reads configuration from file and environment variables
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom reads configuration from the given file, or from the default
// search paths when path is empty.
func LoadFrom(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/feria/")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, using defaults
	}

	// Environment variables override
	v.SetEnvPrefix("FERIA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.mode", "development")
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "./feria.db")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.conn_max_lifetime", 60) // 60 minutes
	v.SetDefault("auth.jwt_secret", "change-me-in-production")
	v.SetDefault("auth.token_ttl", "24h")
	v.SetDefault("auth.issuer", "feria-gamer")
	v.SetDefault("auth.bcrypt_cost", 0)
	v.SetDefault("auth.refresh_roles", true)
	v.SetDefault("queue.type", "memory")
	v.SetDefault("queue.valkey_addr", "localhost:6379")
	v.SetDefault("queue.buffer_size", 100)
	v.SetDefault("mail.driver", "log")
	v.SetDefault("mail.host", "localhost")
	v.SetDefault("mail.port", 587)
	v.SetDefault("mail.username", "")
	v.SetDefault("mail.password", "")
	v.SetDefault("mail.from", "feria-gamer@uninorte.edu.co")
	v.SetDefault("mail.allowed_domain", "uninorte.edu.co")
	v.SetDefault("mail.workers", 4)
	v.SetDefault("mail.max_attempts", 3)
	v.SetDefault("log.format", "text")
	v.SetDefault("log.level", "info")
}

func (c *Config) validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret must not be empty")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be positive, got %s", c.Auth.TokenTTL)
	}
	if c.IsProduction() && c.Auth.JWTSecret == "change-me-in-production" {
		return fmt.Errorf("auth.jwt_secret must be changed in production mode")
	}
	return nil
}
