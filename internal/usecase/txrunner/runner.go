package txrunner

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/simaogato/wallet-backend/internal/domain"
)

const (
	initialRetryInterval = 10 * time.Millisecond
	maxRetryInterval     = 250 * time.Millisecond
)

// Runner executes units of work atomically and retries the whole unit when it
// fails with domain.ErrTransient (lock timeout, deadlock, serialization failure).
type Runner struct {
	TM         domain.TransactionManager
	MaxRetries int
	Logger     *zap.Logger
}

// NewRunner creates a new Runner. maxRetries counts attempts after the first one.
func NewRunner(tm domain.TransactionManager, maxRetries int, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		TM:         tm,
		MaxRetries: maxRetries,
		Logger:     logger,
	}
}

// Run executes fn inside an atomic unit.
// When ctx already carries a unit, fn joins it and retrying is left to the
// outermost Run, since a nested unit cannot be replayed on its own.
func (r *Runner) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	if r.TM.InTransaction(ctx) {
		return r.TM.WithTransaction(ctx, fn)
	}

	var (
		attempt int
		lastErr error
	)
	operation := func() error {
		attempt++
		err := r.TM.WithTransaction(ctx, fn)
		if err == nil {
			return nil
		}
		lastErr = err
		if !errors.Is(err, domain.ErrTransient) {
			return backoff.Permanent(err)
		}
		r.Logger.Debug("atomic unit hit a transient conflict",
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		return err
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = initialRetryInterval
	policy.MaxInterval = maxRetryInterval
	policy.MaxElapsedTime = 0

	err := backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(policy, uint64(r.MaxRetries)), ctx))
	if err == nil {
		return nil
	}

	// Report the conflict itself, not ctx.Err() from between attempts
	if errors.Is(lastErr, domain.ErrTransient) {
		r.Logger.Warn("atomic unit gave up after transient conflicts",
			zap.Int("attempts", attempt),
			zap.Error(lastErr),
		)
		return lastErr
	}
	return err
}
