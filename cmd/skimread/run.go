package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/loykin/skimread"
	cmdmetrics "github.com/loykin/skimread/cmd/skimread/metrics"
	"github.com/loykin/skimread/internal/checkpoint"
	"github.com/loykin/skimread/internal/fingerprint"
	"github.com/loykin/skimread/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
)

// checkpointEveryLines is how often a worker persists its offset while a
// file is still being drained.
const checkpointEveryLines = 1000

type runner struct {
	cfg   *Config
	sink  Sink
	store checkpoint.Store
	stop  atomic.Bool
	wg    sync.WaitGroup
}

// runReader drains every resolved input through the filtering reader and
// forwards surviving lines to the configured sink.
func runReader(config *Config, args []string) error {
	// Optionally start Prometheus metrics endpoint
	var metricsStop = func() error { return nil }
	if config.Prometheus.Enable {
		// Register sink metrics explicitly; StartMetrics registers the reader set
		if err := cmdmetrics.Register(prometheus.DefaultRegisterer); err != nil {
			return fmt.Errorf("failed to register sink metrics: %w", err)
		}
		stop, err := skimread.StartMetrics(config.Prometheus.Addr)
		if err != nil {
			return fmt.Errorf("failed to start prometheus endpoint: %w", err)
		}
		metricsStop = stop
	}

	sink, err := buildSink(config)
	if err != nil {
		_ = metricsStop()
		return fmt.Errorf("failed to build sink: %w", err)
	}

	r := &runner{cfg: config, sink: sink}

	if config.Resume.Enable {
		st, err := checkpoint.NewSQLiteStore(config.Resume.DBPath)
		if err != nil {
			_ = metricsStop()
			return fmt.Errorf("failed to open checkpoint store: %w", err)
		}
		r.store = st
		defer func() { _ = st.Close() }()
	}

	paths, err := resolveInputs(config, args)
	if err != nil {
		_ = metricsStop()
		return err
	}

	// Setup signal handling for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	if len(paths) == 0 {
		r.wg.Add(1)
		go func() {
			defer r.wg.Done()
			r.processStdin()
		}()
	} else {
		pathCh := make(chan string, len(paths))
		for _, p := range paths {
			pathCh <- p
		}
		close(pathCh)

		workers := config.Workers
		if workers > len(paths) {
			workers = len(paths)
		}
		for i := 0; i < workers; i++ {
			r.wg.Add(1)
			go func() {
				defer r.wg.Done()
				for p := range pathCh {
					if r.stop.Load() {
						return
					}
					r.processFile(p)
				}
			}()
		}
	}

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case sig := <-sigCh:
		slog.Info("received signal; stopping", "signal", sig.String())
		r.stop.Store(true)
		<-done
	}

	if sink != nil {
		_ = sink.Stop()
	}
	_ = metricsStop()

	return nil
}

// resolveInputs expands the configured inputs and positional arguments into
// concrete file paths. Positional arguments replace configured inputs.
func resolveInputs(cfg *Config, args []string) ([]string, error) {
	patterns := cfg.Inputs
	if len(args) > 0 {
		patterns = args
	}

	var paths []string
	seen := make(map[string]struct{})
	for _, p := range patterns {
		matches, err := filepath.Glob(p)
		if err != nil {
			return nil, fmt.Errorf("invalid input pattern %q: %w", p, err)
		}
		if len(matches) == 0 {
			if strings.ContainsAny(p, "*?[") {
				slog.Warn("input pattern matched no files", "pattern", p)
				continue
			}
			// literal path; keep it so the open error surfaces later
			matches = []string{p}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			paths = append(paths, m)
		}
	}
	return paths, nil
}

// processFile drains one input file, resuming from a stored checkpoint when
// resume is enabled.
func (r *runner) processFile(path string) {
	strategy := r.cfg.Resume.FingerprintStrategy

	var id string
	var base int64
	if r.store != nil {
		fid, err := fingerprint.FromPath(path, strategy, r.cfg.Resume.FingerprintSize)
		switch {
		case fingerprint.IsFileSizeTooSmall(err):
			slog.Debug("file below fingerprint size; reading without checkpointing", "path", path)
		case err != nil:
			slog.Warn("failed to fingerprint file", "path", path, "error", err)
		default:
			id = fid
			offset, found, err := r.store.Load(id, strategy)
			if err != nil {
				slog.Warn("failed to load checkpoint", "path", path, "error", err)
			} else if found {
				base = offset
				metrics.IncRestoredCheckpoints()
			}
		}
	}

	f, err := os.Open(path)
	if err != nil {
		slog.Error("failed to open input", "path", path, "error", err)
		metrics.IncReadErrors()
		return
	}

	if base > 0 {
		// A checkpoint past the current size means the file was truncated
		// or replaced under the same identity; start over.
		if info, err := f.Stat(); err == nil && base > info.Size() {
			base = 0
		}
	}
	if base > 0 {
		if _, err := f.Seek(base, io.SeekStart); err != nil {
			slog.Warn("failed to seek to checkpoint", "path", path, "offset", base, "error", err)
			base = 0
		}
	}

	src := skimread.NewSourceAt(f, base)
	lr, err := skimread.New(src, &r.cfg.Filter)
	if err != nil {
		slog.Error("failed to create reader", "path", path, "error", err)
		_ = f.Close()
		return
	}
	defer func() { _ = lr.Close() }()

	save := func() {
		if r.store == nil || id == "" {
			return
		}
		if err := r.store.Save(id, strategy, path, src.Offset()); err != nil {
			slog.Warn("failed to save checkpoint", "path", path, "error", err)
		}
	}

	lastOffset := base
	lineCount := 0
	for !r.stop.Load() {
		line, err := lr.ReadLine()
		if err == io.EOF {
			metrics.IncFiles()
			break
		}
		if err != nil {
			slog.Error("failed to read line", "path", path, "error", err)
			metrics.IncReadErrors()
			break
		}

		r.emit(line)
		metrics.IncLines(1)
		metrics.AddBytes(src.Offset() - lastOffset)
		lastOffset = src.Offset()

		lineCount++
		if lineCount%checkpointEveryLines == 0 {
			save()
		}
	}
	save()
}

// processStdin drains standard input. Checkpointing does not apply.
func (r *runner) processStdin() {
	src := skimread.NewSource(os.Stdin)
	lr, err := skimread.New(src, &r.cfg.Filter)
	if err != nil {
		slog.Error("failed to create reader", "error", err)
		return
	}

	var lastOffset int64
	for !r.stop.Load() {
		line, err := lr.ReadLine()
		if err == io.EOF {
			metrics.IncFiles()
			return
		}
		if err != nil {
			slog.Error("failed to read line", "error", err)
			metrics.IncReadErrors()
			return
		}

		r.emit(line)
		metrics.IncLines(1)
		metrics.AddBytes(src.Offset() - lastOffset)
		lastOffset = src.Offset()
	}
}

// emit forwards one logical line to the sink. ReadLine returns lines with
// the "\r\n" terminator attached; sinks add their own framing.
func (r *runner) emit(line string) {
	if r.sink == nil {
		return
	}
	r.sink.Enqueue(strings.TrimSuffix(line, "\r\n"))
}
