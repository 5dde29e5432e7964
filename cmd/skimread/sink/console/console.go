package console

import (
	"fmt"
	"io"
	"os"
	"time"

	cmdmetrics "github.com/loykin/skimread/cmd/skimread/metrics"
	"github.com/loykin/skimread/cmd/skimread/sink/common"
)

// consoleSink batches and writes lines to stdout (or any io.Writer).
type consoleSink struct {
	batcher common.Batcher
	w       io.Writer
}

// New returns a console sink writing to stdout or stderr depending on stream.
// stream: "stdout" (default) or "stderr".
func New(stream string, batchSize int, batchInterval time.Duration) common.Sink {
	w := os.Stdout
	if stream == "stderr" {
		w = os.Stderr
	}
	s := &consoleSink{batcher: common.NewBatcher("console", batchSize, batchInterval), w: w}
	s.start()
	return s
}

func (s *consoleSink) start() {
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
				_, _ = fmt.Fprintln(s.w, ln)
			}
			cmdmetrics.SinkFlushObserve("console", len(buf), time.Since(start), true)
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

func (s *consoleSink) Enqueue(line string) { s.batcher.Enqueue(line) }

func (s *consoleSink) Stop() error {
	s.batcher.StopOnce.Do(func() { close(s.batcher.StopCh) })
	s.batcher.Wg.Wait()
	return nil
}
