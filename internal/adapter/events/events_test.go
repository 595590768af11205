package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/simaogato/wallet-backend/internal/domain"
)

type recordedPublishing struct {
	exchange string
	key      string
	msg      amqp.Publishing
}

type fakeChannel struct {
	mu        sync.Mutex
	published []recordedPublishing
	err       error
	closed    bool
}

func (c *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.published = append(c.published, recordedPublishing{exchange: exchange, key: key, msg: msg})
	return nil
}

func (c *fakeChannel) Close() error {
	c.closed = true
	return nil
}

func newTestPublisher(ch *fakeChannel) *RabbitMQPublisher {
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return &RabbitMQPublisher{
		channel:  ch,
		exchange: "wallet.events",
		now:      func() time.Time { return fixed },
	}
}

func decodeEnvelope(t *testing.T, body []byte) (envelope, map[string]interface{}) {
	t.Helper()
	var raw struct {
		envelope
		Data map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &raw))
	return raw.envelope, raw.Data
}

func TestRabbitMQPublisher_TransferCompleted(t *testing.T) {
	ch := &fakeChannel{}
	publisher := newTestPublisher(ch)

	from := &domain.Account{ID: uuid.New(), Currency: domain.CurrencyUSD}
	to := &domain.Account{ID: uuid.New(), Currency: domain.CurrencyUSD}
	transfer := domain.NewTransfer(from, to, decimal.RequireFromString("100.5"), "rent", time.Now())

	require.NoError(t, publisher.PublishTransferCompleted(context.Background(), transfer))
	require.Len(t, ch.published, 1)

	got := ch.published[0]
	assert.Equal(t, "wallet.events", got.exchange)
	assert.Equal(t, RoutingKeyTransferCompleted, got.key)
	assert.Equal(t, "application/json", got.msg.ContentType)
	assert.Equal(t, amqp.Persistent, got.msg.DeliveryMode)

	env, data := decodeEnvelope(t, got.msg.Body)
	assert.Equal(t, "transfer.completed", env.EventType)
	assert.Equal(t, got.msg.MessageId, env.EventID)
	assert.Equal(t, transfer.OperationID.String(), data["operationId"])
	assert.Equal(t, from.ID.String(), data["senderId"])
	assert.Equal(t, to.ID.String(), data["recipientId"])
	assert.Equal(t, "rent", data["description"])

	amt, ok := data["amount"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "100.50", amt["value"])
	assert.Equal(t, "USD", amt["currencyCode"])
}

func TestRabbitMQPublisher_AccountAndDepositEvents(t *testing.T) {
	ch := &fakeChannel{}
	publisher := newTestPublisher(ch)

	account := &domain.Account{ID: uuid.New(), OwnerID: uuid.New(), Currency: domain.CurrencyARS}
	require.NoError(t, publisher.PublishAccountCreated(context.Background(), account))

	quote, err := domain.QuoteDeposit(
		decimal.NewFromInt(1000),
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	deposit := domain.NewFixedTermDeposit(account, quote, time.Now())
	require.NoError(t, publisher.PublishDepositCreated(context.Background(), deposit))

	require.Len(t, ch.published, 2)
	assert.Equal(t, RoutingKeyAccountCreated, ch.published[0].key)
	assert.Equal(t, RoutingKeyDepositCreated, ch.published[1].key)

	_, data := decodeEnvelope(t, ch.published[0].msg.Body)
	assert.Equal(t, account.OwnerID.String(), data["ownerId"])
	assert.Equal(t, "ARS", data["currency"])

	_, data = decodeEnvelope(t, ch.published[1].msg.Body)
	assert.Equal(t, "150.00", data["interest"])
	assert.Equal(t, "1150.00", data["totalAmount"])
	assert.Equal(t, "2024-01-31", data["closingDate"])
}

func TestRabbitMQPublisher_PublishError(t *testing.T) {
	ch := &fakeChannel{err: amqp.ErrClosed}
	publisher := newTestPublisher(ch)

	err := publisher.PublishAccountCreated(context.Background(), &domain.Account{ID: uuid.New()})

	assert.ErrorIs(t, err, amqp.ErrClosed)
	assert.Contains(t, err.Error(), RoutingKeyAccountCreated)
}

func TestRabbitMQPublisher_Close(t *testing.T) {
	ch := &fakeChannel{}
	publisher := newTestPublisher(ch)

	require.NoError(t, publisher.Close())
	assert.True(t, ch.closed)
}

// MockEventPublisher is a mock implementation of domain.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishAccountCreated(ctx context.Context, account *domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockEventPublisher) PublishTransferCompleted(ctx context.Context, transfer *domain.Transfer) error {
	args := m.Called(ctx, transfer)
	return args.Error(0)
}

func (m *MockEventPublisher) PublishDepositCreated(ctx context.Context, deposit *domain.FixedTermDeposit) error {
	args := m.Called(ctx, deposit)
	return args.Error(0)
}

func TestAsyncPublisher_OutlivesRequestContext(t *testing.T) {
	next := new(MockEventPublisher)
	account := &domain.Account{ID: uuid.New()}
	next.On("PublishAccountCreated", mock.MatchedBy(func(ctx context.Context) bool {
		return ctx.Err() == nil
	}), account).Return(nil)

	publisher := NewAsyncPublisher(next, time.Second, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, publisher.PublishAccountCreated(ctx, account))
	cancel()
	publisher.Wait()

	next.AssertExpectations(t)
}

func TestAsyncPublisher_SwallowsErrors(t *testing.T) {
	next := new(MockEventPublisher)
	next.On("PublishTransferCompleted", mock.Anything, mock.Anything).Return(errors.New("broker down"))
	next.On("PublishDepositCreated", mock.Anything, mock.Anything).Return(errors.New("broker down"))

	publisher := NewAsyncPublisher(next, time.Second, nil)

	assert.NoError(t, publisher.PublishTransferCompleted(context.Background(), &domain.Transfer{}))
	assert.NoError(t, publisher.PublishDepositCreated(context.Background(), &domain.FixedTermDeposit{}))
	publisher.Wait()

	next.AssertNumberOfCalls(t, "PublishTransferCompleted", 1)
	next.AssertNumberOfCalls(t, "PublishDepositCreated", 1)
}
