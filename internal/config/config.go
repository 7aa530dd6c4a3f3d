package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Supported values of DATABASE_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// Config is the runtime configuration of the inventory service.
type Config struct {
	Port           string
	Database       Database
	AutoMigrate    bool
	RabbitMQ       RabbitMQ
	RequestTimeout time.Duration
}

// Database selects and locates the storage backend.
type Database struct {
	Driver   string
	DSN      string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// PostgresDSN returns DSN when set and otherwise builds one from the
// individual connection settings.
func (d Database) PostgresDSN() string {
	if d.DSN != "" {
		return d.DSN
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// RabbitMQ configures event publishing. An empty URL disables it.
type RabbitMQ struct {
	URL      string
	Exchange string
}

// Enabled reports whether a broker is configured.
func (r RabbitMQ) Enabled() bool {
	return r.URL != ""
}

// LoadDotEnv loads a .env file into the process environment when it exists.
func LoadDotEnv(path string) {
	if _, err := os.Stat(path); err != nil {
		return
	}
	if err := godotenv.Load(path); err != nil {
		log.Printf("Error loading %s: %v", path, err)
		return
	}
	log.Printf("Loaded environment from %s", path)
}

// NewViper returns a viper instance with the inventory defaults that reads
// overrides from the environment.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("DATABASE_DRIVER", DriverPostgres)
	v.SetDefault("DATABASE_DSN", "")
	v.SetDefault("POSTGRES_HOST", "localhost")
	v.SetDefault("POSTGRES_PORT", 5432)
	v.SetDefault("POSTGRES_USER", "admin")
	v.SetDefault("POSTGRES_PASSWORD", "admin")
	v.SetDefault("POSTGRES_DB", "inventory")
	v.SetDefault("POSTGRES_SSLMODE", "disable")
	v.SetDefault("AUTO_MIGRATE", true)
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("RABBITMQ_EXCHANGE", "inventory")
	v.SetDefault("REQUEST_TIMEOUT", "10s")
	v.AutomaticEnv()
	return v
}

// Load reads and validates the configuration held by v.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		Port: v.GetString("APP_PORT"),
		Database: Database{
			Driver:   v.GetString("DATABASE_DRIVER"),
			DSN:      v.GetString("DATABASE_DSN"),
			Host:     v.GetString("POSTGRES_HOST"),
			Port:     v.GetInt("POSTGRES_PORT"),
			User:     v.GetString("POSTGRES_USER"),
			Password: v.GetString("POSTGRES_PASSWORD"),
			Name:     v.GetString("POSTGRES_DB"),
			SSLMode:  v.GetString("POSTGRES_SSLMODE"),
		},
		AutoMigrate: v.GetBool("AUTO_MIGRATE"),
		RabbitMQ: RabbitMQ{
			URL:      v.GetString("RABBITMQ_URL"),
			Exchange: v.GetString("RABBITMQ_EXCHANGE"),
		},
		RequestTimeout: v.GetDuration("REQUEST_TIMEOUT"),
	}

	switch cfg.Database.Driver {
	case DriverPostgres, DriverSQLite, DriverMemory:
	default:
		return cfg, fmt.Errorf("unsupported DATABASE_DRIVER %q", cfg.Database.Driver)
	}
	if cfg.Database.Driver == DriverSQLite && cfg.Database.DSN == "" {
		return cfg, fmt.Errorf("DATABASE_DSN is required for the %s driver", DriverSQLite)
	}
	if cfg.RequestTimeout <= 0 {
		return cfg, fmt.Errorf("REQUEST_TIMEOUT must be positive, got %s", v.GetString("REQUEST_TIMEOUT"))
	}
	if cfg.Port == "" {
		return cfg, fmt.Errorf("APP_PORT must not be empty")
	}
	return cfg, nil
}
