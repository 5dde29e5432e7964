package file

import (
	"fmt"
	"time"

	cmdmetrics "github.com/loykin/skimread/cmd/skimread/metrics"
	"github.com/loykin/skimread/cmd/skimread/sink/common"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Sink batches lines into a rotating file.
type Sink struct {
	batcher common.Batcher
	lj      *lumberjack.Logger
}

// New creates a file sink and starts it. The target rotates by size and age
// according to cfg.
func New(cfg Config, batchSize int, batchInterval time.Duration) (common.Sink, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	lj := &lumberjack.Logger{
		Filename:   cfg.Path,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}
	s := &Sink{batcher: common.NewBatcher("file", batchSize, batchInterval), lj: lj}
	s.start()
	return s, nil
}

func (s *Sink) start() {
	s.batcher.Wg.Add(1)
	go func() {
		defer s.batcher.Wg.Done()
		buf := make([]string, 0, s.batcher.BatchSize)
		ticker := time.NewTicker(s.batcher.BatchInterval)
		defer ticker.Stop()
		flush := func() {
			if len(buf) == 0 {
				return
			}
			start := time.Now()
			for _, ln := range buf {
				_, _ = fmt.Fprintln(s.lj, ln)
			}
			cmdmetrics.SinkFlushObserve("file", len(buf), time.Since(start), true)
			buf = buf[:0]
		}
		for {
			select {
			case <-s.batcher.StopCh:
				flush()
				return
			case <-ticker.C:
				flush()
			case line := <-s.batcher.Ch:
				buf = append(buf, line)
				if len(buf) >= s.batcher.BatchSize {
					flush()
				}
			}
		}
	}()
}

func (s *Sink) Enqueue(line string) { s.batcher.Enqueue(line) }

func (s *Sink) Stop() error {
	s.batcher.StopOnce.Do(func() { close(s.batcher.StopCh) })
	s.batcher.Wg.Wait()
	return s.lj.Close()
}
