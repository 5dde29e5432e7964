package common

import (
	"time"

	"github.com/cenkalti/backoff/v4"
)

// FlushWithRetry runs flush, retrying with exponential backoff until it
// succeeds or roughly ten seconds have elapsed. Remote sinks use it so a
// brief backend hiccup does not lose a whole batch.
func FlushWithRetry(flush func() error) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 100 * time.Millisecond
	bo.MaxInterval = 2 * time.Second
	bo.MaxElapsedTime = 10 * time.Second
	return backoff.Retry(flush, bo)
}
