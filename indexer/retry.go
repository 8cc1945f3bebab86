package indexer

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

const (
	defaultMaxAttempts     = 4
	defaultInitialInterval = 200 * time.Millisecond
	defaultMaxInterval     = 15 * time.Second
)

// retryer retries RPC calls with exponential backoff, giving up after
// maxAttempts or when ctx is done.
type retryer struct {
	maxAttempts     int
	initialInterval time.Duration
	logger          *zap.Logger
}

func retryWithResult[T any](ctx context.Context, r retryer, op string, fn func(ctx context.Context) (T, error)) (T, error) {
	policy := &backoff.ExponentialBackOff{
		InitialInterval:     r.initialInterval,
		RandomizationFactor: backoff.DefaultRandomizationFactor,
		Multiplier:          backoff.DefaultMultiplier,
		MaxInterval:         defaultMaxInterval,
		MaxElapsedTime:      0,
		Stop:                backoff.Stop,
		Clock:               backoff.SystemClock,
	}
	policy.Reset()

	attempts := 0
	operation := func() (T, error) {
		attempts++
		res, err := fn(ctx)
		if err != nil && ctx.Err() != nil {
			return res, backoff.Permanent(err)
		}
		return res, err
	}
	notify := func(err error, next time.Duration) {
		r.logger.Warn("rpc call failed, retrying",
			zap.String("op", op),
			zap.Int("attempts", attempts),
			zap.Duration("next", next),
			zap.Error(err),
		)
	}

	b := backoff.WithContext(backoff.WithMaxRetries(policy, uint64(r.maxAttempts-1)), ctx)
	return backoff.RetryNotifyWithData[T](operation, b, notify)
}
