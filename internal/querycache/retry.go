package querycache

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// retry ejecuta fetch con hasta opts.Retry reintentos y backoff exponencial.
// Errores que ShouldRetry rechaza (4xx, cancelación) cortan de inmediato.
func (c *Cache) retry(ctx context.Context, key string, fetch func(context.Context) (any, error)) (any, error) {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = c.opts.RetryDelay
	eb.MaxInterval = 30 * time.Second
	eb.MaxElapsedTime = 0

	b := backoff.WithContext(backoff.WithMaxRetries(eb, uint64(c.opts.Retry)), ctx)

	op := func() (any, error) {
		v, err := fetch(ctx)
		if err != nil && !c.opts.ShouldRetry(err) {
			return nil, backoff.Permanent(err)
		}
		return v, err
	}
	notify := func(err error, wait time.Duration) {
		c.log.Debug("query retry scheduled", map[string]any{
			"key":     key,
			"error":   err.Error(),
			"wait_ms": wait.Milliseconds(),
		})
	}

	return backoff.RetryNotifyWithData(op, b, notify)
}
