package helpers

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

const publishTimeout = 3 * time.Second

// EventBroker publishes study activity events to a durable topic exchange.
// Every event type is routed by its name ("study.created", "member.left", ...)
// and a durable queue bound with "#" keeps a copy for consumers that start late.
type EventBroker struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	Exchange string
	AppID    string
}

// NewEventBroker dials url and declares exchange plus the catch-all queue.
func NewEventBroker(url, exchange, queue, appID string) (*EventBroker, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	b := &EventBroker{conn: conn, ch: ch, Exchange: exchange, AppID: appID}
	if err := b.declare(queue); err != nil {
		_ = b.Close()
		return nil, err
	}
	return b, nil
}

func (b *EventBroker) declare(queue string) error {
	if err := b.ch.ExchangeDeclare(b.Exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		return err
	}
	if _, err := b.ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return err
	}
	return b.ch.QueueBind(queue, "#", b.Exchange, false, nil)
}

func (b *EventBroker) Close() error {
	if b == nil {
		return nil
	}
	var errs []error
	if b.ch != nil {
		errs = append(errs, b.ch.Close())
	}
	if b.conn != nil {
		errs = append(errs, b.conn.Close())
	}
	return errors.Join(errs...)
}

// Publish sends body as a persistent JSON message routed by eventType.
func (b *EventBroker) Publish(ctx context.Context, eventType string, body any) error {
	msg, err := eventMessage(b.AppID, eventType, body, time.Now())
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	return b.ch.PublishWithContext(ctx, b.Exchange, eventType, false, false, msg)
}

func eventMessage(appID, eventType string, body any, at time.Time) (amqp.Publishing, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return amqp.Publishing{}, err
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		AppId:        appID,
		Type:         eventType,
		Timestamp:    at.UTC(),
		Body:         raw,
	}, nil
}
