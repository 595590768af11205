package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/simaogato/wallet-backend/internal/domain"
)

// Routing keys of the published events
const (
	RoutingKeyAccountCreated    = "account.created"
	RoutingKeyTransferCompleted = "transfer.completed"
	RoutingKeyDepositCreated    = "deposit.created"
)

// channel is the subset of *amqp.Channel the publisher uses
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// RabbitMQPublisher publishes domain events as JSON to a topic exchange
type RabbitMQPublisher struct {
	conn     *amqp.Connection
	channel  channel
	exchange string
	now      func() time.Time
}

var _ domain.EventPublisher = (*RabbitMQPublisher)(nil)

// NewRabbitMQPublisher connects to the broker and declares a durable topic exchange
func NewRabbitMQPublisher(url, exchange string) (*RabbitMQPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return &RabbitMQPublisher{
		conn:     conn,
		channel:  ch,
		exchange: exchange,
		now:      time.Now,
	}, nil
}

// Close closes the channel and the connection
func (p *RabbitMQPublisher) Close() error {
	if err := p.channel.Close(); err != nil {
		return fmt.Errorf("failed to close channel: %w", err)
	}
	if p.conn == nil {
		return nil
	}
	if err := p.conn.Close(); err != nil {
		return fmt.Errorf("failed to close connection: %w", err)
	}
	return nil
}

type envelope struct {
	EventID    string    `json:"eventId"`
	EventType  string    `json:"eventType"`
	OccurredAt time.Time `json:"occurredAt"`
	Data       any       `json:"data"`
}

type amount struct {
	Value        string `json:"value"`
	CurrencyCode string `json:"currencyCode"`
}

type accountCreated struct {
	AccountID string `json:"accountId"`
	OwnerID   string `json:"ownerId"`
	Currency  string `json:"currency"`
}

type transferCompleted struct {
	OperationID string `json:"operationId"`
	SenderID    string `json:"senderId"`
	RecipientID string `json:"recipientId"`
	Amount      amount `json:"amount"`
	Description string `json:"description,omitempty"`
}

type depositCreated struct {
	DepositID    string `json:"depositId"`
	AccountID    string `json:"accountId"`
	Amount       amount `json:"amount"`
	Interest     string `json:"interest"`
	TotalAmount  string `json:"totalAmount"`
	CreationDate string `json:"creationDate"`
	ClosingDate  string `json:"closingDate"`
}

func (p *RabbitMQPublisher) PublishAccountCreated(ctx context.Context, account *domain.Account) error {
	return p.publish(ctx, RoutingKeyAccountCreated, accountCreated{
		AccountID: account.ID.String(),
		OwnerID:   account.OwnerID.String(),
		Currency:  string(account.Currency),
	})
}

func (p *RabbitMQPublisher) PublishTransferCompleted(ctx context.Context, transfer *domain.Transfer) error {
	return p.publish(ctx, RoutingKeyTransferCompleted, transferCompleted{
		OperationID: transfer.OperationID.String(),
		SenderID:    transfer.Payment.AccountID.String(),
		RecipientID: transfer.Income.AccountID.String(),
		Amount: amount{
			Value:        transfer.Payment.Amount.StringFixed(domain.MoneyScale),
			CurrencyCode: string(transfer.Payment.Currency),
		},
		Description: transfer.Payment.Description,
	})
}

func (p *RabbitMQPublisher) PublishDepositCreated(ctx context.Context, deposit *domain.FixedTermDeposit) error {
	return p.publish(ctx, RoutingKeyDepositCreated, depositCreated{
		DepositID: deposit.ID.String(),
		AccountID: deposit.AccountID.String(),
		Amount: amount{
			Value:        deposit.Amount.StringFixed(domain.MoneyScale),
			CurrencyCode: string(deposit.Currency),
		},
		Interest:     deposit.Interest.StringFixed(domain.MoneyScale),
		TotalAmount:  deposit.TotalAmount.StringFixed(domain.MoneyScale),
		CreationDate: deposit.CreationDate.Format(domain.DateLayout),
		ClosingDate:  deposit.ClosingDate.Format(domain.DateLayout),
	})
}

func (p *RabbitMQPublisher) publish(ctx context.Context, routingKey string, data any) error {
	id := uuid.New()
	body, err := json.Marshal(envelope{
		EventID:    id.String(),
		EventType:  routingKey,
		OccurredAt: p.now().UTC(),
		Data:       data,
	})
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", routingKey, err)
	}

	err = p.channel.PublishWithContext(ctx,
		p.exchange, // exchange
		routingKey, // routing key
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    id.String(),
			Timestamp:    p.now(),
			Type:         routingKey,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish %s event: %w", routingKey, err)
	}
	return nil
}
