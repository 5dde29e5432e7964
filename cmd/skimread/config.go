package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/loykin/skimread"
	"github.com/loykin/skimread/cmd/skimread/metrics"
	"github.com/loykin/skimread/cmd/skimread/sink/clickhouse"
	"github.com/loykin/skimread/cmd/skimread/sink/console"
	"github.com/loykin/skimread/cmd/skimread/sink/file"
	"github.com/loykin/skimread/cmd/skimread/sink/opensearch"
	"github.com/loykin/skimread/internal/fingerprint"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// ResumeConfig controls checkpointing of read positions across runs.
type ResumeConfig struct {
	Enable              bool   `mapstructure:"enable"`
	DBPath              string `mapstructure:"db-path"`
	FingerprintStrategy string `mapstructure:"fingerprint-strategy"`
	FingerprintSize     int64  `mapstructure:"fingerprint-size"`
}

// SinkConfig selects and configures the forwarding backend.
type SinkConfig struct {
	Type          string            `mapstructure:"type"` // "" (disabled), "console", "file", "clickhouse", "opensearch"
	BatchSize     int               `mapstructure:"batch-size"`
	BatchInterval time.Duration     `mapstructure:"batch-interval"`
	Host          string            `mapstructure:"host"`   // override host; default os.Hostname()
	Labels        map[string]string `mapstructure:"labels"` // optional key-value labels

	Console    console.Config    `mapstructure:"console"`
	File       file.Config       `mapstructure:"file"`
	ClickHouse clickhouse.Config `mapstructure:"clickhouse"`
	OpenSearch opensearch.Config `mapstructure:"opensearch"`
}

// Config holds all configuration options for the skimread application.
// Filtering rules live in the nested Filter config shared with the library.
type Config struct {
	// Optional config file path (flag/env only)
	ConfigFile string
	// Input paths or glob patterns; positional arguments take precedence
	Inputs []string `mapstructure:"inputs"`
	// Number of worker goroutines draining inputs
	Workers int `mapstructure:"workers"`
	// Line filtering rules (nested)
	Filter skimread.Config `mapstructure:"filter"`
	// Offset checkpointing (nested)
	Resume ResumeConfig `mapstructure:"resume"`
	// Forwarding sink (nested)
	Sink SinkConfig `mapstructure:"sink"`
	// Metrics/Prometheus options
	Prometheus metrics.Config `mapstructure:"prometheus"`
}

// flagKeys maps flag names to the config keys they bind to. Flags are bound
// to their nested keys individually; binding them all at the top level would
// let the bool --resume flag shadow the [resume] section during Unmarshal.
var flagKeys = map[string]string{
	"inputs":               "inputs",
	"workers":              "workers",
	"trim-lines":           "filter.trim-lines",
	"skip-empty":           "filter.skip-empty",
	"skip-blank":           "filter.skip-blank",
	"min-line-length":      "filter.min-line-length",
	"max-line-length":      "filter.max-line-length",
	"skip-containing":      "filter.skip-containing",
	"skip-prefixes":        "filter.skip-prefixes",
	"skip-suffixes":        "filter.skip-suffixes",
	"resume":               "resume.enable",
	"db-path":              "resume.db-path",
	"fingerprint-strategy": "resume.fingerprint-strategy",
	"fingerprint-size":     "resume.fingerprint-size",
	"prometheus.enable":    "prometheus.enable",
	"prometheus.addr":      "prometheus.addr",
}

// LoadFromViper binds flags to viper, reads file/env, and populates the Config
// fields via mapstructure. Precedence: explicitly set flags, then environment
// variables (SKIMREAD_ prefix), then the config file, then defaults.
func (c *Config) LoadFromViper(cmd *cobra.Command) error {
	v := viper.GetViper()
	v.SetEnvPrefix("SKIMREAD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// Bind each flag to its nested config key
	for flag, key := range flagKeys {
		f := cmd.Flags().Lookup(flag)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return err
		}
	}

	// Seed defaults for keys without flags so AutomaticEnv can resolve them
	// during Unmarshal (viper only consults the environment for known keys).
	for key, val := range map[string]interface{}{
		"sink.type":                c.Sink.Type,
		"sink.batch-size":          c.Sink.BatchSize,
		"sink.batch-interval":      c.Sink.BatchInterval,
		"sink.host":                c.Sink.Host,
		"sink.console.stream":      c.Sink.Console.Stream,
		"sink.file.path":           c.Sink.File.Path,
		"sink.file.max-size-mb":    c.Sink.File.MaxSizeMB,
		"sink.file.max-backups":    c.Sink.File.MaxBackups,
		"sink.file.max-age-days":   c.Sink.File.MaxAgeDays,
		"sink.file.compress":       c.Sink.File.Compress,
		"sink.clickhouse.addr":     c.Sink.ClickHouse.Addr,
		"sink.clickhouse.database": c.Sink.ClickHouse.Database,
		"sink.clickhouse.table":    c.Sink.ClickHouse.Table,
		"sink.clickhouse.user":     c.Sink.ClickHouse.User,
		"sink.clickhouse.password": c.Sink.ClickHouse.Password,
		"sink.opensearch.url":      c.Sink.OpenSearch.URL,
		"sink.opensearch.index":    c.Sink.OpenSearch.Index,
		"sink.opensearch.user":     c.Sink.OpenSearch.User,
		"sink.opensearch.password": c.Sink.OpenSearch.Password,
	} {
		v.SetDefault(key, val)
	}

	// Determine config file path: --config flag or SKIMREAD_CONFIG env; no auto-defaults
	if c.ConfigFile == "" {
		// Viper AutomaticEnv binds SKIMREAD_CONFIG to key "config"
		c.ConfigFile = v.GetString("config")
	}
	if c.ConfigFile != "" {
		v.SetConfigFile(c.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Unmarshal into this Config using mapstructure with proper tagname and duration hooks
	if err := v.Unmarshal(c); err != nil {
		return err
	}
	return nil
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	cfg := &Config{
		Inputs:  []string{},
		Workers: 1,
		Resume: ResumeConfig{
			Enable:              false,
			DBPath:              "./skimread.db",
			FingerprintStrategy: skimread.FingerprintStrategyChecksum,
			FingerprintSize:     64,
		},
		Sink: SinkConfig{
			Type:          "console", // default console sink; configure [sink.console.stream]
			BatchSize:     200,
			BatchInterval: 2 * time.Second,
			Labels:        map[string]string{},
			Console:       console.Config{Stream: "stdout"},
		},
		Prometheus: metrics.Config{Enable: false, Addr: ":2112"},
	}
	cfg.Filter.Default()
	return cfg
}

// SetupFlags adds all command line flags to the provided cobra command.
func (c *Config) SetupFlags(cmd *cobra.Command) {
	// Config file
	cmd.Flags().StringVar(&c.ConfigFile, "config", c.ConfigFile, "Path to config file (yaml/json/toml)")

	// Inputs and concurrency
	cmd.Flags().StringSliceVarP(&c.Inputs, "inputs", "I", c.Inputs, "Input files or glob patterns (e.g., ./log/*.log); positional arguments win")
	cmd.Flags().IntVarP(&c.Workers, "workers", "w", c.Workers, "Number of worker goroutines")

	// Filter flags (write directly into nested struct)
	cmd.Flags().BoolVar(&c.Filter.TrimLines, "trim-lines", c.Filter.TrimLines, "Trim leading and trailing whitespace before applying rules")
	cmd.Flags().BoolVar(&c.Filter.SkipEmpty, "skip-empty", c.Filter.SkipEmpty, "Skip empty lines")
	cmd.Flags().BoolVar(&c.Filter.SkipBlank, "skip-blank", c.Filter.SkipBlank, "Skip lines that are empty or whitespace-only")
	cmd.Flags().IntVar(&c.Filter.MinLineLength, "min-line-length", c.Filter.MinLineLength, "Skip lines shorter than this many characters (-1 disables)")
	cmd.Flags().IntVar(&c.Filter.MaxLineLength, "max-line-length", c.Filter.MaxLineLength, "Skip lines longer than this many characters (-1 disables)")
	cmd.Flags().StringSliceVar(&c.Filter.SkipContaining, "skip-containing", c.Filter.SkipContaining, "Skip lines containing any of these substrings")
	cmd.Flags().StringSliceVar(&c.Filter.SkipPrefixes, "skip-prefixes", c.Filter.SkipPrefixes, "Skip lines starting with any of these prefixes")
	cmd.Flags().StringSliceVar(&c.Filter.SkipSuffixes, "skip-suffixes", c.Filter.SkipSuffixes, "Skip lines ending with any of these suffixes")

	// Resume flags
	cmd.Flags().BoolVar(&c.Resume.Enable, "resume", c.Resume.Enable, "Store and restore read offsets across restarts")
	cmd.Flags().StringVar(&c.Resume.DBPath, "db-path", c.Resume.DBPath, "Path to offsets SQLite DB (when --resume)")
	cmd.Flags().StringVarP(&c.Resume.FingerprintStrategy, "fingerprint-strategy", "f", c.Resume.FingerprintStrategy,
		fmt.Sprintf("Fingerprint strategy (%s or %s)",
			skimread.FingerprintStrategyChecksum,
			skimread.FingerprintStrategyDeviceAndInode))
	cmd.Flags().Int64VarP(&c.Resume.FingerprintSize, "fingerprint-size", "s", c.Resume.FingerprintSize, "Number of leading bytes hashed by the checksum strategy")

	// Sink-related options are intentionally not exposed as command-line flags.
	// Configure sink forwarding (type, batching, and backend credentials)
	// via config file (e.g., --config or SKIMREAD_CONFIG) or environment variables
	// (SKIMREAD_SINK, SKIMREAD_SINK_CLICKHOUSE_ADDR, etc.).

	// Prometheus flags
	cmd.Flags().BoolVar(&c.Prometheus.Enable, "prometheus.enable", c.Prometheus.Enable, "Enable Prometheus metrics HTTP endpoint")
	cmd.Flags().StringVar(&c.Prometheus.Addr, "prometheus.addr", c.Prometheus.Addr, "Prometheus metrics listen address (e.g., :2112)")
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be > 0")
	}

	// Length bounds accept -1 (disabled) or a non-negative limit
	if c.Filter.MinLineLength < -1 {
		return fmt.Errorf("min-line-length must be -1 or >= 0")
	}
	if c.Filter.MaxLineLength < -1 {
		return fmt.Errorf("max-line-length must be -1 or >= 0")
	}

	// Resume validation
	if c.Resume.Enable {
		if c.Resume.DBPath == "" {
			return fmt.Errorf("resume.db-path must be set when resume.enable is true")
		}
		switch c.Resume.FingerprintStrategy {
		case fingerprint.StrategyChecksum:
			if c.Resume.FingerprintSize <= 0 {
				return fmt.Errorf("resume.fingerprint-size must be > 0 for the checksum strategy")
			}
		case fingerprint.StrategyDeviceAndInode:
			// ok
		default:
			return fmt.Errorf("invalid resume.fingerprint-strategy: %s", c.Resume.FingerprintStrategy)
		}
	}

	// Sink validation
	switch c.Sink.Type {
	case "", "console", "file", "clickhouse", "opensearch":
		// ok
	default:
		return fmt.Errorf("invalid sink.type: %s", c.Sink.Type)
	}
	if c.Sink.Type != "" {
		if c.Sink.BatchSize <= 0 {
			return fmt.Errorf("sink.batch-size must be > 0")
		}
		if c.Sink.BatchInterval <= 0 {
			return fmt.Errorf("sink.batch-interval must be > 0")
		}
		switch c.Sink.Type {
		case "console":
			if err := c.Sink.Console.Validate(); err != nil {
				return err
			}
		case "file":
			if err := c.Sink.File.Validate(); err != nil {
				return err
			}
		case "clickhouse":
			if err := c.Sink.ClickHouse.Validate(); err != nil {
				return err
			}
		case "opensearch":
			if err := c.Sink.OpenSearch.Validate(); err != nil {
				return err
			}
		}
	}

	// Basic validation for prometheus addr if enabled
	if c.Prometheus.Enable && c.Prometheus.Addr == "" {
		return fmt.Errorf("prometheus.addr must be set when prometheus.enable is true")
	}

	return nil
}
