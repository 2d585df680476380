// Package config loads the ini configuration shared by the CLI and the server.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/go-ini/ini"

	"github.com/jpfielding/dicomview.go/pkg/dicomview/module"
)

// LogConfig is the [log] section
type LogConfig struct {
	Level      string `ini:"level"`
	Format     string `ini:"format"` // text or json
	File       string `ini:"file"`   // empty logs to stdout
	MaxSizeMB  int    `ini:"max_size_mb"`
	MaxBackups int    `ini:"max_backups"`
}

// ServerConfig is the [server] section
type ServerConfig struct {
	Addr        string   `ini:"addr"`
	CORSOrigins []string `ini:"cors_origins" delim:","`
}

// ViewerConfig is the [viewer] section
type ViewerConfig struct {
	OnlyDiffs      bool   `ini:"only_diffs"`
	Hierarchical   bool   `ini:"hierarchical"`
	MaxLoadedFiles int    `ini:"max_loaded_files"`
	ModuleTable    string `ini:"module_table"` // empty uses the embedded table
}

// Config is the whole configuration file
type Config struct {
	Log    LogConfig    `ini:"log"`
	Server ServerConfig `ini:"server"`
	Viewer ViewerConfig `ini:"viewer"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:      "INFO",
			Format:     "text",
			MaxSizeMB:  100,
			MaxBackups: 3,
		},
		Server: ServerConfig{
			Addr:        ":8080",
			CORSOrigins: []string{"*"},
		},
		Viewer: ViewerConfig{
			OnlyDiffs:      true,
			MaxLoadedFiles: 10,
		},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	f, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}
	return fromFile(f)
}

// Parse reads ini text over the defaults
func Parse(data []byte) (*Config, error) {
	f, err := ini.Load(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return fromFile(f)
}

func fromFile(f *ini.File) (*Config, error) {
	cfg := Default()
	if err := f.MapTo(cfg); err != nil {
		return nil, fmt.Errorf("failed to map config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the CLI and server cannot run with
func (c *Config) Validate() error {
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format %q: want text or json", c.Log.Format)
	}
	if c.Viewer.MaxLoadedFiles <= 0 {
		return fmt.Errorf("invalid max_loaded_files %d: must be positive", c.Viewer.MaxLoadedFiles)
	}
	return nil
}

func (c *Config) encode() (*ini.File, error) {
	f := ini.Empty()
	if err := f.ReflectFrom(c); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return f, nil
}

// Save writes the configuration as ini to path
func (c *Config) Save(path string) error {
	f, err := c.encode()
	if err != nil {
		return err
	}
	if err := f.SaveTo(path); err != nil {
		return fmt.Errorf("failed to save config file: %w", err)
	}
	return nil
}

// WriteTo writes the configuration as ini to w
func (c *Config) WriteTo(w io.Writer) (int64, error) {
	f, err := c.encode()
	if err != nil {
		return 0, err
	}
	return f.WriteTo(w)
}

// Table returns the configured module table, the embedded one by default
func (v ViewerConfig) Table() (*module.Table, error) {
	if v.ModuleTable == "" {
		return module.Default(), nil
	}
	f, err := os.Open(v.ModuleTable)
	if err != nil {
		return nil, fmt.Errorf("failed to open module table: %w", err)
	}
	defer f.Close()
	tb, err := module.Load(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load module table %s: %w", v.ModuleTable, err)
	}
	return tb, nil
}
