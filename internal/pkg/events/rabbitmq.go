package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
)

// amqpChannel is the subset of *amqp.Channel the publisher uses
type amqpChannel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// amqpConn is the subset of *amqp.Connection the publisher uses
type amqpConn interface {
	IsClosed() bool
	Close() error
}

// RabbitPublisher publishes persistent JSON messages to durable queues.
// A channel is not safe for concurrent publishing, so calls are serialized.
type RabbitPublisher struct {
	url  string
	mu   sync.Mutex
	conn amqpConn
	ch   amqpChannel
	dial func(url string) (amqpConn, amqpChannel, error)
}

// NewRabbitPublisher connects to the broker and declares the booking queue
func NewRabbitPublisher(url string) (*RabbitPublisher, error) {
	p := &RabbitPublisher{url: url, dial: dialChannel}
	if err := p.connect(); err != nil {
		return nil, err
	}
	log.Info().Msg("Connected to RabbitMQ")
	return p, nil
}

func dialChannel(url string) (amqpConn, amqpChannel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, err
	}
	return conn, ch, nil
}

// connect must be called with mu held (or before the publisher is shared)
func (p *RabbitPublisher) connect() error {
	p.dropConnection()

	conn, ch, err := p.dial(p.url)
	if err != nil {
		return err
	}
	if _, err := ch.QueueDeclare(QueueBookingCreated, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return err
	}
	p.conn, p.ch = conn, ch
	return nil
}

// dropConnection closes whatever is left of the previous connection
func (p *RabbitPublisher) dropConnection() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}

func (p *RabbitPublisher) PublishBookingCreated(ctx context.Context, event BookingCreated) error {
	return p.publish(ctx, QueueBookingCreated, event)
}

func (p *RabbitPublisher) publish(ctx context.Context, queue string, event interface{}) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch == nil || (p.conn != nil && p.conn.IsClosed()) {
		if err := p.connect(); err != nil {
			return err
		}
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := p.ch.PublishWithContext(ctx, "", queue, false, false, msg); err != nil {
		// the next publish re-dials on a fresh connection
		p.dropConnection()
		return err
	}
	return nil
}

func (p *RabbitPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var errs []error
	if p.ch != nil {
		errs = append(errs, p.ch.Close())
		p.ch = nil
	}
	if p.conn != nil {
		errs = append(errs, p.conn.Close())
		p.conn = nil
	}
	return errors.Join(errs...)
}
