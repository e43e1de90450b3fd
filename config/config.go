package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

// DefaultPath is read when no path is given and the file exists.
const DefaultPath = "config.yaml"

type Config struct {
	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`
	Stego  StegoConfig  `yaml:"stego"`
	Batch  BatchConfig  `yaml:"batch"`
}

type ServerConfig struct {
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	MaxUploadMB    int64    `yaml:"max_upload_mb"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text or json
}

type StegoConfig struct {
	DefaultKey string `yaml:"default_key"`
	ChunkType  string `yaml:"chunk_type"`
}

type BatchConfig struct {
	Workers int `yaml:"workers"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	var c Config
	c.applyDefaults()
	return c
}

// Load reads the YAML file at path, fills in defaults and applies the PORT
// environment override. An empty path falls back to DefaultPath, and a
// missing DefaultPath is not an error.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	var c Config
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &c); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	c.applyDefaults()
	if err := c.applyEnv(); err != nil {
		return Config{}, err
	}
	return c, c.Validate()
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if len(c.Server.AllowedOrigins) == 0 {
		c.Server.AllowedOrigins = []string{"http://localhost:3000"}
	}
	if c.Server.MaxUploadMB == 0 {
		c.Server.MaxUploadMB = 32
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Stego.DefaultKey == "" {
		c.Stego.DefaultKey = "key"
	}
	if c.Stego.ChunkType == "" {
		c.Stego.ChunkType = "stEg"
	}
	if c.Batch.Workers == 0 {
		c.Batch.Workers = 4
	}
}

func (c *Config) applyEnv() error {
	if port := os.Getenv("PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", port, err)
		}
		c.Server.Port = p
	}
	return nil
}

func (c Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Server.MaxUploadMB < 0 {
		return fmt.Errorf("server.max_upload_mb cannot be negative")
	}
	if c.Batch.Workers < 1 {
		return fmt.Errorf("batch.workers must be at least 1")
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	if len(c.Stego.ChunkType) != 4 {
		return fmt.Errorf("stego.chunk_type must be 4 characters, got %q", c.Stego.ChunkType)
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + strconv.Itoa(c.Server.Port)
}

// MaxUploadBytes is the multipart memory limit.
func (c Config) MaxUploadBytes() int64 {
	return c.Server.MaxUploadMB << 20
}

// NewLogger builds a logrus logger from the log section.
func NewLogger(lc LogConfig) *logrus.Logger {
	logger := logrus.New()
	if level, err := logrus.ParseLevel(lc.Level); err == nil {
		logger.SetLevel(level)
	}
	if lc.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger
}
