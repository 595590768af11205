package events

import (
	"context"

	"github.com/simaogato/wallet-backend/internal/domain"
)

// NoopPublisher discards every event. Used when no broker is configured.
type NoopPublisher struct{}

var _ domain.EventPublisher = NoopPublisher{}

func (NoopPublisher) PublishAccountCreated(context.Context, *domain.Account) error { return nil }

func (NoopPublisher) PublishTransferCompleted(context.Context, *domain.Transfer) error { return nil }

func (NoopPublisher) PublishDepositCreated(context.Context, *domain.FixedTermDeposit) error { return nil }
