package rabbitmq

import (
	"context"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

var ErrNack = errors.New("publish NACK from broker")

// confirmation is the broker's answer to one publish, matched by delivery tag.
type confirmation interface {
	WaitContext(ctx context.Context) (bool, error)
}

type publishFunc func(ctx context.Context, exchange, key string, msg amqp.Publishing) (confirmation, error)

// Client is a single confirm-mode channel. Every publish waits on its own
// deferred confirmation, so a confirmation that arrives after its caller gave
// up is never mistaken for the next publish's ack.
type Client struct {
	conn    *amqp.Connection
	ch      *amqp.Channel
	publish publishFunc
}

func Dial(url string) (*Client, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to enable publisher confirms: %w", err)
	}

	publish := func(ctx context.Context, exchange, key string, msg amqp.Publishing) (confirmation, error) {
		dc, err := ch.PublishWithDeferredConfirmWithContext(ctx, exchange, key, false, false, msg)
		if err != nil {
			return nil, err
		}
		return dc, nil
	}

	return &Client{conn: conn, ch: ch, publish: publish}, nil
}

// DeclareTopicExchange declares a durable topic exchange.
func (c *Client) DeclareTopicExchange(name string) error {
	return c.ch.ExchangeDeclare(name, amqp.ExchangeTopic, true, false, false, false, nil)
}

func (c *Client) Ping() error {
	if c.conn == nil || c.conn.IsClosed() {
		return errors.New("rabbitmq connection is closed")
	}
	return nil
}

// Publish sends msg and waits for the broker's ack or nack, or for ctx to end.
func (c *Client) Publish(ctx context.Context, exchange, key string, msg amqp.Publishing) error {
	conf, err := c.publish(ctx, exchange, key, msg)
	if err != nil {
		return err
	}

	acked, err := conf.WaitContext(ctx)
	if err != nil {
		return err
	}
	if !acked {
		return ErrNack
	}
	return nil
}

func (c *Client) Close() {
	if c.ch != nil {
		_ = c.ch.Close()
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
}
