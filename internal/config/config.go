// Package config handles YAML configuration with environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Source kinds.
const (
	SourceCSV   = "csv"
	SourceMySQL = "mysql"
)

// DefaultFile is the configuration file that is read when none is specified.
const DefaultFile = "greeter.yaml"

// Config holds all greeter configuration.
type Config struct {
	Source   Source   `yaml:"source"`
	Database Database `yaml:"database"`
	Log      Log      `yaml:"log"`
	HTTP     HTTP     `yaml:"http"`
}

// Source selects the backing store of the contacts.
type Source struct {
	Kind    string `yaml:"kind"`     // "csv" | "mysql"
	CSVPath string `yaml:"csv_path"` // relative paths are resolved against the executable
}

// Database holds the MySQL connection parameters.
type Database struct {
	Host     string `yaml:"host"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

// Log holds logging settings.
type Log struct {
	Level string `yaml:"level"`
}

// HTTP holds settings of the HTTP service.
type HTTP struct {
	Port int `yaml:"port"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Source: Source{
			Kind:    SourceCSV,
			CSVPath: "../friends.csv",
		},
		Database: Database{
			Host: "localhost:3306",
			Name: "test",
		},
		Log: Log{
			Level: "warn",
		},
		HTTP: HTTP{
			Port: 8080,
		},
	}
}

// Load reads the YAML config file at path. If the file does not exist, defaults are returned
// without error. If the file contains invalid YAML or unknown fields, an error is returned.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		// Empty and comment-only files produce EOF with no decoded content.
		if errors.Is(err, io.EOF) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return &cfg, nil
}

// ApplyEnv applies environment variable overrides to the config.
// Supported variables: GREETER_SOURCE, GREETER_CSV_PATH, GREETER_LOG_LEVEL, DBHOST, DBUSER, DBPWD,
// DBNAME. The HTTP settings are left to ApplyHTTPEnv.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("GREETER_SOURCE"); v != "" {
		c.Source.Kind = v
	}
	if v := os.Getenv("GREETER_CSV_PATH"); v != "" {
		c.Source.CSVPath = v
	}
	if v := os.Getenv("GREETER_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("DBHOST"); v != "" {
		c.Database.Host = v
	}
	if v := os.Getenv("DBUSER"); v != "" {
		c.Database.User = v
	}
	if v := os.Getenv("DBPWD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("DBNAME"); v != "" {
		c.Database.Name = v
	}
}

// ApplyHTTPEnv applies the PORT environment variable to the HTTP settings.
func (c *Config) ApplyHTTPEnv() error {
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: invalid PORT %q: %w", v, err)
		}
		c.HTTP.Port = port
	}
	return nil
}

// Validate checks that the source and log settings are usable. The HTTP settings are checked by
// ValidateHTTP.
func (c *Config) Validate() error {
	switch c.Source.Kind {
	case SourceCSV:
		if c.Source.CSVPath == "" {
			return errors.New("config: source.csv_path cannot be empty")
		}
	case SourceMySQL:
		if c.Database.Host == "" {
			return errors.New("config: database.host cannot be empty")
		}
	default:
		return fmt.Errorf("config: source.kind must be %q or %q, got %q", SourceCSV, SourceMySQL, c.Source.Kind)
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}

// ValidateHTTP checks that the HTTP settings are usable.
func (c *Config) ValidateHTTP() error {
	if c.HTTP.Port < 1 || c.HTTP.Port > 65535 {
		return fmt.Errorf("config: http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	return nil
}

// LogLevel returns the configured zap level.
func (c *Config) LogLevel() (zapcore.Level, error) {
	level, err := zapcore.ParseLevel(c.Log.Level)
	if err != nil {
		return level, fmt.Errorf("config: log.level: %w", err)
	}
	return level, nil
}

// ResolveCSVPath returns the location of the friends file. A relative path is taken relative to
// baseDir, the directory of the running executable.
func (c *Config) ResolveCSVPath(baseDir string) string {
	if filepath.IsAbs(c.Source.CSVPath) {
		return c.Source.CSVPath
	}
	return filepath.Join(baseDir, c.Source.CSVPath)
}

// MySQL returns the driver configuration for the database section.
func (c *Config) MySQL() *mysql.Config {
	cfg := mysql.NewConfig()
	cfg.User = c.Database.User
	cfg.Passwd = c.Database.Password
	cfg.Net = "tcp"
	cfg.Addr = c.Database.Host
	cfg.DBName = c.Database.Name
	cfg.ParseTime = true
	return cfg
}

// ExecutableDir returns the directory that contains the running program.
func ExecutableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("config: locating executable: %w", err)
	}
	return filepath.Dir(exe), nil
}
