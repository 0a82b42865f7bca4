package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Storage backends
const (
	StorageFile     = "file"
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type Config struct {
	DataDir      string        `yaml:"data_dir"`
	Storage      string        `yaml:"storage"`
	DatabaseDSN  string        `yaml:"database_dsn"`
	TickInterval time.Duration `yaml:"tick_interval"`
	LogFile      string        `yaml:"log_file"`
	Server       ServerConfig  `yaml:"server"`
}

type ServerConfig struct {
	Port        string `yaml:"port"`
	JournalSize int    `yaml:"journal_size"`
}

// Dir returns ~/.config/petsim.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home directory: %w", err)
	}
	return filepath.Join(home, ".config", "petsim"), nil
}

// DefaultPath returns the config file location inside Dir.
func DefaultPath() string {
	dir, err := Dir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(dir, "config.yaml")
}

// Default returns the configuration used when no file exists.
func Default() Config {
	dataDir, err := Dir()
	if err != nil {
		dataDir = ".petsim"
	}
	return Config{
		DataDir:      dataDir,
		Storage:      StorageFile,
		TickInterval: time.Second,
		LogFile:      filepath.Join(dataDir, "petsim.log"),
		Server: ServerConfig{
			Port:        "8080",
			JournalSize: 500,
		},
	}
}

// ApplyDefaults fills zero fields from Default.
func (c *Config) ApplyDefaults() {
	d := Default()
	if c.DataDir == "" {
		c.DataDir = d.DataDir
	}
	if c.Storage == "" {
		c.Storage = d.Storage
	}
	if c.TickInterval == 0 {
		c.TickInterval = d.TickInterval
	}
	if c.LogFile == "" {
		c.LogFile = filepath.Join(c.DataDir, "petsim.log")
	}
	if c.Server.Port == "" {
		c.Server.Port = d.Server.Port
	}
	if c.Server.JournalSize == 0 {
		c.Server.JournalSize = d.Server.JournalSize
	}
}

// Load reads path as YAML. A missing file yields defaults.
func Load(path string) (*Config, error) {
	var c Config
	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	c.ApplyDefaults()
	return &c, nil
}

// Validate reports the first setting that cannot work.
func (c *Config) Validate() error {
	switch c.Storage {
	case StorageFile, StorageMemory:
	case StoragePostgres:
		if c.DatabaseDSN == "" {
			return errors.New("postgres storage needs a database dsn (DB_DSN)")
		}
	default:
		return fmt.Errorf("unknown storage %q", c.Storage)
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("tick interval must be positive, got %v", c.TickInterval)
	}
	if c.Server.JournalSize < 0 {
		return fmt.Errorf("journal size must not be negative, got %d", c.Server.JournalSize)
	}
	return nil
}
