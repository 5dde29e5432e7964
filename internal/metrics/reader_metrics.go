package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	linesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "skimread",
		Name:      "lines_total",
		Help:      "Total number of lines emitted after filtering.",
	})
	bytesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "skimread",
		Name:      "bytes_total",
		Help:      "Total number of source bytes consumed, including line terminators.",
	})
	filesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "skimread",
		Name:      "files_total",
		Help:      "Total number of input files read to completion.",
	})
	readErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "skimread",
		Name:      "read_errors_total",
		Help:      "Total number of read errors encountered while draining inputs.",
	})
	restoredCheckpointsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "skimread",
		Name:      "restored_checkpoints_total",
		Help:      "Total number of inputs resumed from a stored checkpoint.",
	})
)

// Register registers all skimread metrics to the provided Prometheus registerer.
// It is safe to call multiple times; AlreadyRegisteredError will be ignored.
func Register(r prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		linesTotal, bytesTotal, filesTotal, readErrorsTotal, restoredCheckpointsTotal,
	}
	for _, c := range collectors {
		if err := r.Register(c); err != nil {
			var alreadyRegisteredError prometheus.AlreadyRegisteredError
			if errors.As(err, &alreadyRegisteredError) {
				continue
			}
			return err
		}
	}
	return nil
}

// IncLines increments the emitted lines counter by n.
func IncLines(n int) {
	if n > 0 {
		linesTotal.Add(float64(n))
	}
}

// AddBytes adds n to the consumed bytes counter.
func AddBytes(n int64) {
	if n > 0 {
		bytesTotal.Add(float64(n))
	}
}

// IncFiles increments the completed files counter by 1.
func IncFiles() { filesTotal.Inc() }

// IncReadErrors increments the read errors counter by 1.
func IncReadErrors() { readErrorsTotal.Inc() }

// IncRestoredCheckpoints increments the restored checkpoints counter by 1.
func IncRestoredCheckpoints() { restoredCheckpointsTotal.Inc() }
