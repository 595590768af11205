package events

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/simaogato/wallet-backend/internal/domain"
)

// AsyncPublisher hands events to the wrapped publisher in the background so
// that a slow or unavailable broker never delays a committed operation.
// Failures are logged and dropped.
type AsyncPublisher struct {
	next    domain.EventPublisher
	logger  *zap.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

var _ domain.EventPublisher = (*AsyncPublisher)(nil)

// NewAsyncPublisher wraps next. Each publication is bounded by timeout.
func NewAsyncPublisher(next domain.EventPublisher, timeout time.Duration, logger *zap.Logger) *AsyncPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AsyncPublisher{
		next:    next,
		logger:  logger,
		timeout: timeout,
	}
}

func (p *AsyncPublisher) PublishAccountCreated(ctx context.Context, account *domain.Account) error {
	p.dispatch(ctx, RoutingKeyAccountCreated, func(ctx context.Context) error {
		return p.next.PublishAccountCreated(ctx, account)
	})
	return nil
}

func (p *AsyncPublisher) PublishTransferCompleted(ctx context.Context, transfer *domain.Transfer) error {
	p.dispatch(ctx, RoutingKeyTransferCompleted, func(ctx context.Context) error {
		return p.next.PublishTransferCompleted(ctx, transfer)
	})
	return nil
}

func (p *AsyncPublisher) PublishDepositCreated(ctx context.Context, deposit *domain.FixedTermDeposit) error {
	p.dispatch(ctx, RoutingKeyDepositCreated, func(ctx context.Context) error {
		return p.next.PublishDepositCreated(ctx, deposit)
	})
	return nil
}

func (p *AsyncPublisher) dispatch(ctx context.Context, eventType string, publish func(ctx context.Context) error) {
	// The request context ends with the RPC, the event must outlive it
	ctx = context.WithoutCancel(ctx)

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		ctx, cancel := context.WithTimeout(ctx, p.timeout)
		defer cancel()

		if err := publish(ctx); err != nil {
			p.logger.Warn("failed to publish event", zap.String("event_type", eventType), zap.Error(err))
		}
	}()
}

// Wait blocks until every dispatched event has been handled
func (p *AsyncPublisher) Wait() {
	p.wg.Wait()
}
