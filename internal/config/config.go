package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"

	"github.com/pelletier/go-toml/v2"

	"github.com/agenthands/ledger/internal/core/normalize"
)

type ResolutionConfig struct {
	Threshold float64  `toml:"threshold"`
	Suffixes  []string `toml:"suffixes"`
	Blocking  bool     `toml:"blocking"`
}

// InputConfig names the cleaned source files. Each may be .csv or .xlsx.
// Emails and Transcripts are optional.
type InputConfig struct {
	Developers  string `toml:"developers"`
	Investors   string `toml:"investors"`
	Emails      string `toml:"emails"`
	Transcripts string `toml:"transcripts"`
}

type OutputConfig struct {
	Dir    string `toml:"dir"`
	SQLite string `toml:"sqlite"`
}

type MemgraphConfig struct {
	URI      string `toml:"uri"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

type ServerConfig struct {
	Port string `toml:"port"`
}

type ClustersConfig struct {
	Algorithm string `toml:"algorithm"`
}

type ConcurrencyConfig struct {
	Workers int `toml:"workers"`
}

type LoggingConfig struct {
	Level      string `toml:"level"`
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	JSON       bool   `toml:"json"`
}

type Config struct {
	Resolution  ResolutionConfig  `toml:"resolution"`
	Input       InputConfig       `toml:"input"`
	Output      OutputConfig      `toml:"output"`
	Memgraph    MemgraphConfig    `toml:"memgraph"`
	Server      ServerConfig      `toml:"server"`
	Clusters    ClustersConfig    `toml:"clusters"`
	Concurrency ConcurrencyConfig `toml:"concurrency"`
	Logging     LoggingConfig     `toml:"logging"`
}

func Default() *Config {
	return &Config{
		Resolution: ResolutionConfig{
			Threshold: 85,
			Suffixes:  append([]string(nil), normalize.DefaultSuffixes...),
		},
		Input: InputConfig{
			Developers:  "data/cleaned/developers.csv",
			Investors:   "data/cleaned/investors.csv",
			Emails:      "data/cleaned/emails.csv",
			Transcripts: "data/cleaned/transcripts.csv",
		},
		Output: OutputConfig{
			Dir: "data/output",
		},
		Memgraph: MemgraphConfig{
			URI: "bolt://localhost:7687",
		},
		Server: ServerConfig{
			Port: "8080",
		},
		Clusters: ClustersConfig{
			Algorithm: "components",
		},
		Concurrency: ConcurrencyConfig{
			Workers: runtime.NumCPU(),
		},
		Logging: LoggingConfig{
			Level:      "info",
			MaxSizeMB:  50,
			MaxBackups: 3,
		},
	}
}

// Load reads a TOML file over the defaults. Keys missing from the file keep
// their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	return cfg, nil
}

// ApplyEnv overrides file values with environment variables when set.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("LEDGER_THRESHOLD"); v != "" {
		t, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("failed to parse LEDGER_THRESHOLD %q: %w", v, err)
		}
		c.Resolution.Threshold = t
	}
	if v := os.Getenv("LEDGER_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("failed to parse LEDGER_WORKERS %q: %w", v, err)
		}
		c.Concurrency.Workers = n
	}
	if v := os.Getenv("LEDGER_OUTPUT_DIR"); v != "" {
		c.Output.Dir = v
	}
	if v := os.Getenv("MEMGRAPH_URI"); v != "" {
		c.Memgraph.URI = v
	}
	if v := os.Getenv("MEMGRAPH_USER"); v != "" {
		c.Memgraph.User = v
	}
	if v := os.Getenv("MEMGRAPH_PASSWORD"); v != "" {
		c.Memgraph.Password = v
	}
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	return nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.Resolution.Threshold < 0 || c.Resolution.Threshold > 100 {
		errs = append(errs, fmt.Errorf("resolution.threshold must be within [0,100], got %v", c.Resolution.Threshold))
	}
	if c.Concurrency.Workers < 1 {
		errs = append(errs, fmt.Errorf("concurrency.workers must be at least 1, got %d", c.Concurrency.Workers))
	}
	if c.Input.Developers == "" {
		errs = append(errs, errors.New("input.developers is required"))
	}
	if c.Input.Investors == "" {
		errs = append(errs, errors.New("input.investors is required"))
	}
	switch c.Clusters.Algorithm {
	case "components", "lpa":
	default:
		errs = append(errs, fmt.Errorf("clusters.algorithm must be \"components\" or \"lpa\", got %q", c.Clusters.Algorithm))
	}
	return errors.Join(errs...)
}
