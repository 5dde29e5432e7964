package file

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestConfigValidate(t *testing.T) {
	var c Config
	if err := c.Validate(); err == nil {
		t.Fatal("expected error when path is empty")
	}
	c.Path = "/tmp/out.log"
	if err := c.Validate(); err != nil {
		t.Fatalf("unexpected error for valid path: %v", err)
	}
	c.MaxBackups = -1
	if err := c.Validate(); err == nil {
		t.Fatal("expected error for negative rotation limit")
	}
}

func TestFileSink_WritesAndStopFlush(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.log")

	s, err := New(Config{Path: path}, 100, time.Hour)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	s.Enqueue("f1")
	s.Enqueue("f2")
	// allow background goroutine to receive from channel
	time.Sleep(30 * time.Millisecond)
	_ = s.Stop()

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read out: %v", err)
	}
	if got := strings.TrimSpace(string(b)); got != "f1\nf2" {
		t.Fatalf("unexpected file content: %q", got)
	}
}

func TestFileSink_FlushOnBatchSize(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "batched.log")

	s, err := New(Config{Path: path}, 2, time.Hour)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer func() { _ = s.Stop() }()

	s.Enqueue("a")
	s.Enqueue("b") // reaches batch size, flushes without waiting for the ticker
	time.Sleep(50 * time.Millisecond)

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read out: %v", err)
	}
	if string(b) != "a\nb\n" {
		t.Fatalf("unexpected file content: %q", string(b))
	}
}
