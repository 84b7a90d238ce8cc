// Package config wraps viper behind a small nil-safe accessor and defines
// the rigplanner settings tree.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. RIGPLANNER_SERVER_PORT.
const EnvPrefix = "RIGPLANNER"

// Catalog sources.
const (
	SourceEmbedded = "embedded"
	SourceFile     = "file"
	SourceSQLite   = "sqlite"
)

// ViperConfig is a read-only view over a viper instance. A nil viper
// behaves as an empty configuration.
type ViperConfig struct {
	v *viper.Viper
}

// New wraps v.
func New(v *viper.Viper) *ViperConfig {
	if v == nil {
		v = viper.New()
	}
	return &ViperConfig{v: v}
}

// Load reads path (YAML) when given, applies RIGPLANNER_ environment
// overrides and fills in defaults.
func Load(path string) (*ViperConfig, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %q: %w", path, err)
		}
	}
	return New(v), nil
}

// SetDefaults registers the default value of every known key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate_limit", 20)
	v.SetDefault("server.rate_burst", 40)
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("catalog.source", SourceEmbedded)
	v.SetDefault("catalog.path", "")
	v.SetDefault("database.path", "rigplanner.db")
	v.SetDefault("compare.currency", "PHP")
	v.SetDefault("compare.max_spec_rows", 0)
	v.SetDefault("compare.workers", 4)
}

// GetString returns the value of key as a string.
func (c *ViperConfig) GetString(key string) string { return c.v.GetString(key) }

// GetInt returns the value of key as an int.
func (c *ViperConfig) GetInt(key string) int { return c.v.GetInt(key) }

// GetFloat64 returns the value of key as a float64.
func (c *ViperConfig) GetFloat64(key string) float64 { return c.v.GetFloat64(key) }

// GetBool returns the value of key as a bool.
func (c *ViperConfig) GetBool(key string) bool { return c.v.GetBool(key) }

// GetDuration returns the value of key as a time.Duration.
func (c *ViperConfig) GetDuration(key string) time.Duration { return c.v.GetDuration(key) }

// IsSet reports whether key has a value from any source.
func (c *ViperConfig) IsSet(key string) bool { return c.v.IsSet(key) }

// Sub returns the subtree at key. A missing subtree yields an empty config,
// never nil.
func (c *ViperConfig) Sub(key string) *ViperConfig {
	return New(c.v.Sub(key))
}

// Unmarshal decodes the whole tree into target using mapstructure tags.
func (c *ViperConfig) Unmarshal(target any) error {
	return c.v.Unmarshal(target)
}

// Settings is the typed form of the configuration tree.
type Settings struct {
	Server   ServerSettings   `mapstructure:"server"`
	Catalog  CatalogSettings  `mapstructure:"catalog"`
	Database DatabaseSettings `mapstructure:"database"`
	Compare  CompareSettings  `mapstructure:"compare"`
}

// ServerSettings configures the HTTP server.
type ServerSettings struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	RateLimit       float64       `mapstructure:"rate_limit"`
	RateBurst       int           `mapstructure:"rate_burst"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Addr returns host:port.
func (s ServerSettings) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// CatalogSettings selects where components come from.
type CatalogSettings struct {
	Source string `mapstructure:"source"`
	Path   string `mapstructure:"path"`
}

// DatabaseSettings locates the SQLite database.
type DatabaseSettings struct {
	Path string `mapstructure:"path"`
}

// CompareSettings tunes comparison tables and parallel scans.
type CompareSettings struct {
	Currency    string `mapstructure:"currency"`
	MaxSpecRows int    `mapstructure:"max_spec_rows"`
	Workers     int    `mapstructure:"workers"`
}

// Settings decodes and validates the typed settings.
func (c *ViperConfig) Settings() (Settings, error) {
	var s Settings
	if err := c.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("decode settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks cross-field constraints.
func (s Settings) Validate() error {
	var errs []error
	if s.Server.Port < 0 || s.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", s.Server.Port))
	}
	switch s.Catalog.Source {
	case SourceEmbedded, SourceSQLite:
	case SourceFile:
		if s.Catalog.Path == "" {
			errs = append(errs, errors.New("catalog.path is required when catalog.source is file"))
		}
	default:
		errs = append(errs, fmt.Errorf("catalog.source %q is not one of embedded, file, sqlite", s.Catalog.Source))
	}
	if s.Catalog.Source == SourceSQLite && s.Database.Path == "" {
		errs = append(errs, errors.New("database.path is required when catalog.source is sqlite"))
	}
	if s.Compare.MaxSpecRows < 0 {
		errs = append(errs, errors.New("compare.max_spec_rows must not be negative"))
	}
	return errors.Join(errs...)
}
