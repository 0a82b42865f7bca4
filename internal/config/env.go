package config

import (
	"log"
	"os"
	"strings"
	"time"
)

// ApplyEnv overrides c from environment variables. Unset variables leave c alone.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("PETSIM_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("PETSIM_STORAGE"); v != "" {
		c.Storage = strings.ToLower(strings.TrimSpace(v))
	}
	if v := os.Getenv("DB_DSN"); v != "" {
		c.DatabaseDSN = v
	}
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv("PETSIM_LOG_FILE"); v != "" {
		c.LogFile = v
	}
	if v := os.Getenv("PETSIM_TICK"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Printf("Ignoring PETSIM_TICK=%q: %v", v, err)
		} else {
			c.TickInterval = d
		}
	}
}

// FromEnv loads the default config file and applies env overrides.
func FromEnv() (*Config, error) {
	path := DefaultPath()
	if v := os.Getenv("PETSIM_CONFIG"); v != "" {
		path = v
	}
	c, err := Load(path)
	if err != nil {
		return nil, err
	}
	c.ApplyEnv()
	return c, nil
}
