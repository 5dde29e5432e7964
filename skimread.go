// Package skimread provides a simplified, stable root-level API for external users.
//
// Instead of importing internal subpackages like "github.com/loykin/skimread/internal/reader",
// consumers can just:
//
//	import "github.com/loykin/skimread"
//
// and then use skimread.Open and skimread.Config directly.
package skimread

import (
	"io"

	"github.com/loykin/skimread/internal/fingerprint"
	"github.com/loykin/skimread/internal/metrics"
	"github.com/loykin/skimread/internal/reader"
	"github.com/prometheus/client_golang/prometheus"
)

// Config re-exports reader.Config for convenient use from the module root.
// This is a type alias, so it's fully compatible with the underlying type.
type Config = reader.Config

// Reader re-exports reader.Reader so callers can keep the concrete type
// when using the root-level constructors.
type Reader = reader.Reader

// LineSource re-exports the source abstraction consumed by Reader.
type LineSource = reader.LineSource

// Source re-exports the io.Reader-backed line source.
type Source = reader.Source

// Errors re-exported for matching with errors.Is.
var (
	ErrNilSource = reader.ErrNilSource
	ErrBlankPath = reader.ErrBlankPath
	ErrClosed    = reader.ErrClosed
)

// DefaultConfig returns a configuration with every filter rule disabled.
func DefaultConfig() *Config { return reader.DefaultConfig() }

// New constructs a filtering reader over an arbitrary line source.
func New(src LineSource, cfg *Config) (*Reader, error) { return reader.New(src, cfg) }

// Open constructs a filtering reader over the file at path.
func Open(path string, cfg *Config) (*Reader, error) { return reader.Open(path, cfg) }

// NewSource wraps r in a line source that splits on newlines.
func NewSource(r io.Reader) *Source { return reader.NewSource(r) }

// NewSourceAt wraps r like NewSource with offset accounting starting at base.
func NewSourceAt(r io.Reader, base int64) *Source { return reader.NewSourceAt(r, base) }

// GetFileIDFromPath re-exports the utility to compute a file identity from a path.
func GetFileIDFromPath(path string) (string, error) { return fingerprint.FileIDFromPath(path) }

// Fingerprint strategy constants re-exported for convenient configuration.
const (
	FingerprintStrategyChecksum       = fingerprint.StrategyChecksum
	FingerprintStrategyDeviceAndInode = fingerprint.StrategyDeviceAndInode
)

// StartMetrics registers skimread metrics on the default Prometheus registry and starts an HTTP server.
// It returns a stop function to gracefully shut down the metrics server.
func StartMetrics(addr string) (func() error, error) {
	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		return nil, err
	}
	srv, err := metrics.Start(addr)
	if err != nil {
		return nil, err
	}
	return srv.Stop, nil
}
