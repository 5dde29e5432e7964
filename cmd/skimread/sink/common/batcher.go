package common

import (
	"log/slog"
	"sync"
	"time"

	cmdmetrics "github.com/loykin/skimread/cmd/skimread/metrics"
)

// Batcher provides buffering, timing, and stop coordination for sinks.
// Lines arriving while the buffer is full are dropped rather than blocking
// the reader.
type Batcher struct {
	Name          string
	Ch            chan string
	BatchSize     int
	BatchInterval time.Duration
	Wg            sync.WaitGroup
	StopOnce      sync.Once
	StopCh        chan struct{}
}

func NewBatcher(name string, size int, interval time.Duration) Batcher {
	return Batcher{
		Name:          name,
		Ch:            make(chan string, size*2),
		BatchSize:     size,
		BatchInterval: interval,
		StopCh:        make(chan struct{}),
	}
}

func (b *Batcher) Enqueue(line string) {
	select {
	case b.Ch <- line:
		cmdmetrics.SinkEnqueued(b.Name)
	default:
		// buffer full, drop with a warning to avoid blocking line ingestion
		cmdmetrics.SinkDropped(b.Name, "buffer_full")
		slog.Warn("sink buffer full; dropping line", "sink", b.Name)
	}
}
