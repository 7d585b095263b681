package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/tavern/backend/internal/storage"
)

const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
)

type Config struct {
	Env             string        `mapstructure:"ENV"`
	Port            string        `mapstructure:"PORT"`
	LogLevel        string        `mapstructure:"LOG_LEVEL"`
	StorageBackend  string        `mapstructure:"STORAGE_BACKEND"`
	DataDir         string        `mapstructure:"DATA_DIR"`
	CustomersFile   string        `mapstructure:"CUSTOMERS_FILE"`
	TechniciansFile string        `mapstructure:"TECHNICIANS_FILE"`
	TicketsFile     string        `mapstructure:"TICKETS_FILE"`
	CounterFile     string        `mapstructure:"COUNTER_FILE"`
	DatabaseURL     string        `mapstructure:"DATABASE_URL"`
	AdminKey        string        `mapstructure:"ADMIN_KEY"`
	CORSAllowed     string        `mapstructure:"CORS_ALLOWED_ORIGINS"`
	RequestTimeout  time.Duration `mapstructure:"REQUEST_TIMEOUT"`
}

func Load() (Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	_ = v.ReadInConfig()
	return load(v)
}

func load(v *viper.Viper) (Config, error) {
	v.SetDefault("ENV", "dev")
	v.SetDefault("PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("STORAGE_BACKEND", BackendFile)
	v.SetDefault("DATA_DIR", "data")
	v.SetDefault("CUSTOMERS_FILE", "customers.json")
	v.SetDefault("TECHNICIANS_FILE", "technicians.json")
	v.SetDefault("TICKETS_FILE", "tickets.json")
	v.SetDefault("COUNTER_FILE", "ticket_counter.txt")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("ADMIN_KEY", "")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("REQUEST_TIMEOUT", "30s")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.StorageBackend {
	case BackendFile:
		if c.DataDir == "" {
			return fmt.Errorf("config: DATA_DIR is required for the file backend")
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("config: DATABASE_URL is required for the postgres backend")
		}
	default:
		return fmt.Errorf("config: unknown STORAGE_BACKEND %q", c.StorageBackend)
	}
	return nil
}

// FileMap resolves the collection and counter file names against DATA_DIR.
// Absolute file names are used as given.
func (c Config) FileMap() storage.FilePaths {
	resolve := func(name string) string {
		if filepath.IsAbs(name) {
			return name
		}
		return filepath.Join(c.DataDir, name)
	}
	return storage.FilePaths{
		Dir: c.DataDir,
		Collections: map[storage.Name]string{
			storage.Customers:   resolve(c.CustomersFile),
			storage.Technicians: resolve(c.TechniciansFile),
			storage.Tickets:     resolve(c.TicketsFile),
		},
		Counter: resolve(c.CounterFile),
	}
}
