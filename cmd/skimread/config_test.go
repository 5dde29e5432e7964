package main

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/spf13/cobra"
)

func TestDefaultConfigAndValidate(t *testing.T) {
	cfg := DefaultConfig()

	// Basic defaults
	if cfg.Sink.Type != "console" {
		t.Fatalf("default sink.type = %q, want console", cfg.Sink.Type)
	}
	if cfg.Prometheus.Enable {
		t.Fatal("prometheus.enable should default to false")
	}
	if cfg.Workers != 1 {
		t.Fatalf("default workers = %d, want 1", cfg.Workers)
	}
	if cfg.Resume.Enable {
		t.Fatal("resume.enable should default to false")
	}
	if cfg.Resume.FingerprintStrategy == "" {
		t.Fatal("resume.fingerprint-strategy should be set by default")
	}

	// Filter defaults pass every line through
	if cfg.Filter.MinLineLength != -1 || cfg.Filter.MaxLineLength != -1 {
		t.Fatalf("default length bounds = %d/%d, want -1/-1",
			cfg.Filter.MinLineLength, cfg.Filter.MaxLineLength)
	}
	if cfg.Filter.SkipEmpty || cfg.Filter.SkipBlank || cfg.Filter.TrimLines {
		t.Fatal("filter toggles should default to false")
	}

	// Validate should pass for defaults
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate, got error: %v", err)
	}
}

func TestValidate_SinkTypes(t *testing.T) {
	// Invalid sink.type should error
	cfg := DefaultConfig()
	cfg.Sink.Type = "does-not-exist"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid sink.type, got nil")
	}

	// File sink requires a path
	cfg2 := DefaultConfig()
	cfg2.Sink.Type = "file"
	cfg2.Sink.File.Path = ""
	if err := cfg2.Validate(); err == nil {
		t.Fatal("expected error when sink.type=file and sink.file.path is empty")
	}
	cfg2.Sink.File.Path = filepath.Join(t.TempDir(), "out.log")
	if err := cfg2.Validate(); err != nil {
		t.Fatalf("unexpected error for valid file sink: %v", err)
	}

	// Batching is only validated when a sink is selected
	cfg3 := DefaultConfig()
	cfg3.Sink.Type = ""
	cfg3.Sink.BatchSize = 0
	if err := cfg3.Validate(); err != nil {
		t.Fatalf("disabled sink should skip batch validation, got error: %v", err)
	}

	cfg4 := DefaultConfig()
	cfg4.Sink.BatchSize = 0
	if err := cfg4.Validate(); err == nil {
		t.Fatal("expected error for sink.batch-size = 0, got nil")
	}
}

func TestValidate_WorkersAndFilterBounds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Workers = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for workers = 0, got nil")
	}

	cfg = DefaultConfig()
	cfg.Filter.MinLineLength = -2
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for min-line-length = -2, got nil")
	}

	cfg = DefaultConfig()
	cfg.Filter.MaxLineLength = -5
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for max-line-length = -5, got nil")
	}

	// Zero is a valid (if aggressive) bound
	cfg = DefaultConfig()
	cfg.Filter.MaxLineLength = 0
	if err := cfg.Validate(); err != nil {
		t.Fatalf("max-line-length = 0 should validate, got error: %v", err)
	}
}

func TestValidate_Resume(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Resume.Enable = true
	cfg.Resume.FingerprintStrategy = "unknown"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid fingerprint strategy, got nil")
	}

	cfg = DefaultConfig()
	cfg.Resume.Enable = true
	cfg.Resume.FingerprintSize = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for checksum strategy with fingerprint-size 0, got nil")
	}

	cfg = DefaultConfig()
	cfg.Resume.Enable = true
	cfg.Resume.FingerprintStrategy = "deviceAndInode"
	cfg.Resume.FingerprintSize = 0
	if err := cfg.Validate(); err != nil {
		t.Fatalf("deviceAndInode strategy should not require a size, got error: %v", err)
	}

	cfg = DefaultConfig()
	cfg.Resume.Enable = true
	cfg.Resume.DBPath = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for resume without db-path, got nil")
	}
}

func TestLoadFromViper_WithEnvConfigAndFlags(t *testing.T) {
	// Prepare a Cobra command and default config
	cfg := DefaultConfig()
	cmd := &cobra.Command{Use: "skimread-test"}
	cfg.SetupFlags(cmd)

	// Write a config file and point SKIMREAD_CONFIG at it
	configPath := filepath.Join(t.TempDir(), "skimread.toml")
	content := `workers = 4

[filter]
skip-empty = true
skip-prefixes = ["#", "//"]
max-line-length = 4096

[sink]
type = "console"
batch-size = 50
batch-interval = "1s"

[sink.console]
stream = "stderr"

[prometheus]
enable = false
addr = ":9100"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	prevConfig := os.Getenv("SKIMREAD_CONFIG")
	if err := os.Setenv("SKIMREAD_CONFIG", configPath); err != nil {
		t.Fatalf("set env: %v", err)
	}
	t.Cleanup(func() { _ = os.Setenv("SKIMREAD_CONFIG", prevConfig) })

	// Environment should override the file for keys without flags
	prevBatch := os.Getenv("SKIMREAD_SINK_BATCH_SIZE")
	if err := os.Setenv("SKIMREAD_SINK_BATCH_SIZE", "75"); err != nil {
		t.Fatalf("set env: %v", err)
	}
	t.Cleanup(func() { _ = os.Setenv("SKIMREAD_SINK_BATCH_SIZE", prevBatch) })

	// Explicitly set flags should override the file
	if err := cmd.Flags().Set("workers", "2"); err != nil {
		t.Fatalf("set flag: %v", err)
	}
	if err := cmd.Flags().Set("skip-blank", "true"); err != nil {
		t.Fatalf("set flag: %v", err)
	}

	// Load from Viper (env+file+flags)
	if err := cfg.LoadFromViper(cmd); err != nil {
		t.Fatalf("LoadFromViper failed: %v", err)
	}

	// Flags take precedence over the file
	if cfg.Workers != 2 {
		t.Fatalf("workers = %d, want 2 (flag override)", cfg.Workers)
	}
	if !cfg.Filter.SkipBlank {
		t.Fatal("filter.skip-blank should be true from flag override")
	}

	// Environment takes precedence over the file
	if cfg.Sink.BatchSize != 75 {
		t.Fatalf("sink.batch-size = %d, want 75 (env override)", cfg.Sink.BatchSize)
	}

	// Fields without flag or env overrides come from the file
	if !cfg.Filter.SkipEmpty {
		t.Fatal("filter.skip-empty should be true from config file")
	}
	if want := []string{"#", "//"}; !reflect.DeepEqual(cfg.Filter.SkipPrefixes, want) {
		t.Fatalf("filter.skip-prefixes = %#v, want %#v", cfg.Filter.SkipPrefixes, want)
	}
	if cfg.Filter.MaxLineLength != 4096 {
		t.Fatalf("filter.max-line-length = %d, want 4096", cfg.Filter.MaxLineLength)
	}
	if cfg.Sink.Console.Stream != "stderr" {
		t.Fatalf("sink.console.stream = %q, want stderr", cfg.Sink.Console.Stream)
	}
	if cfg.Prometheus.Addr != ":9100" {
		t.Fatalf("prometheus.addr = %q, want :9100", cfg.Prometheus.Addr)
	}

	// Final validation should pass after loading
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed after LoadFromViper: %v", err)
	}
}
