package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/spgemm"
	"github.com/hupe1980/spgemm/merge"
	"github.com/hupe1980/spgemm/persistence"
	"github.com/hupe1980/spgemm/resource"
)

// Config holds the settings shared by all commands. Values come from the
// optional --config file and are overridden by flags.
type Config struct {
	Engine      string `yaml:"engine"`
	Merger      string `yaml:"merger"`
	Workers     int    `yaml:"workers"`
	Compression string `yaml:"compression"`

	MemoryLimitBytes   int64 `yaml:"memoryLimitBytes"`
	IOLimitBytesPerSec int64 `yaml:"ioLimitBytesPerSec"`

	LogLevel  string `yaml:"logLevel"`
	LogFormat string `yaml:"logFormat"`
}

func defaultConfig() Config {
	return Config{
		Engine:    "stack",
		Merger:    "auto",
		Workers:   1,
		LogLevel:  "info",
		LogFormat: "text",
	}
}

func loadConfig(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

func (c Config) logger() (*spgemm.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return nil, fmt.Errorf("log level %q: %w", c.LogLevel, err)
	}
	switch strings.ToLower(c.LogFormat) {
	case "json":
		return spgemm.NewJSONLogger(level), nil
	case "", "text":
		return spgemm.NewTextLogger(level), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", c.LogFormat)
	}
}

func (c Config) resources() *resource.Controller {
	workers := max(int64(c.Workers), 1)
	return resource.NewController(resource.Config{
		MemoryLimitBytes:   c.MemoryLimitBytes,
		MaxWorkers:         workers,
		IOLimitBytesPerSec: c.IOLimitBytesPerSec,
	})
}

func (c Config) compression() (persistence.Compression, error) {
	return persistence.ParseCompression(c.Compression)
}

// multiplyOptions builds options from the engine, merger and worker
// settings plus the shared logger and controller.
func (c Config) multiplyOptions(logger *spgemm.Logger, rc *resource.Controller) ([]spgemm.Option, error) {
	e, err := spgemm.ParseEngine(c.Engine)
	if err != nil {
		return nil, err
	}
	m, err := merge.ByName(c.Merger)
	if err != nil {
		return nil, err
	}
	return []spgemm.Option{
		spgemm.WithEngine(e),
		spgemm.WithMerger(m),
		spgemm.WithWorkers(c.Workers),
		spgemm.WithLogger(logger),
		spgemm.WithResourceController(rc),
	}, nil
}
