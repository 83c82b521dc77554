package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jfsanchez2k/webflow-ecommerce/internal/config"
	"github.com/jfsanchez2k/webflow-ecommerce/internal/entity"
	"github.com/jfsanchez2k/webflow-ecommerce/pkg/logger"
	"github.com/jfsanchez2k/webflow-ecommerce/pkg/metric"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
)

const (
	TypeCheckoutInitiated = "checkout.initiated"
	TypeCallbackReceived  = "checkout.callback_received"
)

// CheckoutEvent is the wire schema for checkout lifecycle events. Events are
// advisory: downstream consumers reconcile payment attempts from them, but
// the checkout flow never depends on a publish succeeding.
type CheckoutEvent struct {
	EventID       string          `json:"event_id"`
	Type          string          `json:"type"`
	OrderID       string          `json:"order_id"`
	CustomerEmail string          `json:"customer_email,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency,omitempty"`
	Status        string          `json:"status"`
	Timestamp     time.Time       `json:"timestamp"`
	RequestID     string          `json:"request_id,omitempty"`
}

type KafkaPublisher struct {
	writer  *kafka.Writer
	log     logger.Logger
	metrics metric.Events
	topic   string
}

func NewKafkaPublisher(
	cfg config.Events,
	log logger.Logger,
	metrics metric.Events,
) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: cfg.BatchTimeout,
		WriteTimeout: cfg.WriteTimeout,
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...any) {
			log.Errorw("event writer error", "error", fmt.Sprintf(msg, args...))
		}),
	}

	return &KafkaPublisher{
		writer:  writer,
		log:     log,
		metrics: metrics,
		topic:   cfg.Topic,
	}
}

func (p *KafkaPublisher) Close() error {
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("events.Close: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) CheckoutInitiated(ctx context.Context, order *entity.PaymentOrder) error {
	return p.publish(ctx, CheckoutEvent{
		EventID:       uuid.New().String(),
		Type:          TypeCheckoutInitiated,
		OrderID:       order.OrderID.String(),
		CustomerEmail: order.CustomerEmail,
		Amount:        order.Amount,
		Currency:      order.Currency,
		Status:        order.Status,
		Timestamp:     time.Now().UTC(),
		RequestID:     p.log.GetRequestID(ctx),
	})
}

func (p *KafkaPublisher) CallbackReceived(ctx context.Context, orderID string, status string) error {
	return p.publish(ctx, CheckoutEvent{
		EventID:   uuid.New().String(),
		Type:      TypeCallbackReceived,
		OrderID:   orderID,
		Status:    status,
		Timestamp: time.Now().UTC(),
		RequestID: p.log.GetRequestID(ctx),
	})
}

func (p *KafkaPublisher) publish(ctx context.Context, event CheckoutEvent) error {
	const op = "events.publish"

	value, err := json.Marshal(event)
	if err != nil {
		p.metrics.PublishFailed(p.topic, "marshal")
		return fmt.Errorf("%s: marshal event: %w", op, err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.OrderID),
		Value: value,
	})
	if err != nil {
		p.metrics.PublishFailed(p.topic, "write")
		return fmt.Errorf("%s: write message: %w", op, err)
	}

	p.metrics.Published(p.topic)
	return nil
}

// NopPublisher satisfies the service's publisher dependency when events are
// disabled in config.
type NopPublisher struct{}

func (NopPublisher) CheckoutInitiated(context.Context, *entity.PaymentOrder) error {
	return nil
}

func (NopPublisher) CallbackReceived(context.Context, string, string) error {
	return nil
}
