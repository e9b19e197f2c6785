package core

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the entire PIDWS configuration.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Bus     BusConfig     `yaml:"bus"`
	Ingest  IngestConfig  `yaml:"ingest"`
	Cache   CacheConfig   `yaml:"cache"`
	Logging LoggingConfig `yaml:"logging"`
}

// StorageConfig holds object store settings. The connection string is
// never written to the config file; it comes from the environment.
type StorageConfig struct {
	Backend          string `yaml:"backend"`   // "azure" or "memory"
	Container        string `yaml:"container"` // blob container name
	ConnectionString string `yaml:"-"`
}

// BusConfig holds NATS notification bus settings.
type BusConfig struct {
	Enabled  bool   `yaml:"enabled"`
	URL      string `yaml:"url"`
	Embedded bool   `yaml:"embedded"`
	DataDir  string `yaml:"data_dir"`
	Port     int    `yaml:"port"`
}

// IngestConfig holds ingestion pipeline settings.
type IngestConfig struct {
	// HeaderRow pins the header to a fixed 0-based row index for document
	// families with a known constant preamble. -1 means adaptive scan.
	HeaderRow int `yaml:"header_row"`
	// ScanWindow is how many leading rows the adaptive scan inspects.
	ScanWindow int `yaml:"scan_window"`
}

// CacheConfig holds corpus cache settings.
type CacheConfig struct {
	TTL string `yaml:"ttl"` // staleness window, e.g. "10m"
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfig returns a Config with sane defaults — zero-config works out of the box.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend:   "azure",
			Container: "permit-attachments",
		},
		Bus: BusConfig{
			Enabled:  false,
			URL:      "nats://127.0.0.1:4222",
			Embedded: true,
			DataDir:  "./data/nats",
			Port:     4222,
		},
		Ingest: IngestConfig{
			HeaderRow:  -1,
			ScanWindow: 10,
		},
		Cache: CacheConfig{
			TTL: "10m",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig loads configuration from a YAML file, falling back to defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("reading config file: %w", err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	// The connection string is deliberately environment-only.
	if cs := os.Getenv("PIDWS_STORAGE_CONNECTION_STRING"); cs != "" {
		cfg.Storage.ConnectionString = cs
	}
	if c := os.Getenv("PIDWS_STORAGE_CONTAINER"); c != "" {
		cfg.Storage.Container = c
	}

	return cfg, nil
}

// SaveConfig writes the configuration to a YAML file.
func SaveConfig(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// CacheTTL returns the parsed corpus cache staleness window.
func (c *Config) CacheTTL() time.Duration {
	if d, err := time.ParseDuration(c.Cache.TTL); err == nil && d > 0 {
		return d
	}
	return 10 * time.Minute
}

// LogLevel returns the parsed log level string.
func (c *Config) LogLevel() string {
	return strings.ToLower(c.Logging.Level)
}
