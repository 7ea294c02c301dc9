package internal

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/balestra/internal/store"
)

// Config represents the application configuration.
type Config struct {
	App    ApplicationConfig `yaml:"app"`
	SQLite SQLiteConfig      `yaml:"sqlite"`
	Data   DataConfig        `yaml:"data"`
	Events EventsConfig      `yaml:"events"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.SQLite.Validate(); err != nil {
		return err
	}
	if err := c.Data.Validate(); err != nil {
		return err
	}
	return c.Events.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// SQLiteConfig holds SQLite database configuration. The default in-memory
// database keeps nothing across restarts.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// InMemory reports whether the database lives only in memory.
func (c *SQLiteConfig) InMemory() bool {
	return c.Path == store.MemoryDSN
}

// DataConfig holds the data directory used for the seed file and YAML
// exports.
//
// Seed is a path inside Dir. When the file exists it is imported at start-up
// into an empty store. With Watch set the seed file is authoritative: it
// replaces the stored data at start-up and again whenever it changes.
type DataConfig struct {
	Dir   string `yaml:"dir"`
	Seed  string `yaml:"seed"`
	Watch bool   `yaml:"watch"`
}

// Validate validates the data configuration.
func (c *DataConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Dir, validation.Required),
		validation.Field(&c.Seed,
			validation.Required.When(c.Watch).Error("is required when watch is enabled"),
			validation.By(relativePath),
		),
	)
}

func relativePath(value any) error {
	p, _ := value.(string)
	if p == "" {
		return nil
	}
	if filepath.IsAbs(p) || !filepath.IsLocal(p) {
		return fmt.Errorf("must be a path inside the data directory")
	}
	return nil
}

// EventsConfig holds live-update configuration.
type EventsConfig struct {
	// Throttle is the minimum interval between stats.updated events.
	Throttle time.Duration `yaml:"throttle"`
}

// Validate validates the events configuration.
func (c *EventsConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Throttle, validation.Required, validation.Min(time.Millisecond)),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		SQLite: SQLiteConfig{
			Path: store.MemoryDSN,
		},
		Data: DataConfig{
			Dir:  "./data",
			Seed: "seed.yaml",
		},
		Events: EventsConfig{
			Throttle: 2 * time.Second,
		},
	}
}
