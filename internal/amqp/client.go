// Package amqp publishes and consumes slot change events over RabbitMQ.
package amqp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"financetracker/internal/log"
	"financetracker/internal/storage"
)

// Circuit breaker states
const (
	StateClosed int32 = iota
	StateOpen
	StateHalfOpen
)

const (
	maxFailures    = 5
	openTimeout    = 30 * time.Second
	maxBackoff     = 30 * time.Second
	publishTimeout = 5 * time.Second
)

var errDeliveriesClosed = errors.New("message channel closed")

type Client struct {
	url          string
	exchangeName string
	queueName    string
	logger       *log.Logger

	mu      sync.Mutex
	conn    *amqp091.Connection
	channel *amqp091.Channel

	state        int32
	failureCount int64
	lastFailure  time.Time
}

// NewClient connects and declares the exchange, queue and binding.
func NewClient(url, exchangeName, queueName string) (*Client, error) {
	client := &Client{
		url:          url,
		exchangeName: exchangeName,
		queueName:    queueName,
		logger:       log.New(log.DefaultConfig()).WithComponent(log.ComponentAMQP),
	}
	if _, err := client.ensureChannel(); err != nil {
		return nil, err
	}
	return client, nil
}

// SetLogger replaces the client's logger.
func (c *Client) SetLogger(logger *log.Logger) {
	c.logger = logger.WithComponent(log.ComponentAMQP)
}

func (c *Client) ensureChannel() (*amqp091.Channel, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.channel != nil && !c.channel.IsClosed() {
		return c.channel, nil
	}
	c.closeLocked()

	conn, err := amqp091.Dial(c.url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}
	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := setup(channel, c.exchangeName, c.queueName); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("setup exchange and queue: %w", err)
	}
	c.conn, c.channel = conn, channel
	return channel, nil
}

func setup(ch *amqp091.Channel, exchange, queue string) error {
	err := ch.ExchangeDeclare(
		exchange, // name
		"direct", // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	_, err = ch.QueueDeclare(
		queue, // name
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	// routing key is the queue name on the direct exchange
	if err := ch.QueueBind(queue, queue, exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}
	return nil
}

// PublishSlotChanged publishes a change notification for one slot.
func (c *Client) PublishSlotChanged(ctx context.Context, change storage.Change) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.isCircuitOpen() {
		return fmt.Errorf("publish slot change: circuit breaker is open")
	}

	msg := NewSlotChangedMessage(change)
	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	ch, err := c.ensureChannel()
	if err != nil {
		c.recordFailure()
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = ch.PublishWithContext(
		ctx,
		c.exchangeName, // exchange
		c.queueName,    // routing key
		false,          // mandatory
		false,          // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    msg.Timestamp,
			Body:         body,
		},
	)
	if err != nil {
		c.recordFailure()
		if isConnectionError(err) {
			c.reset()
		}
		return fmt.Errorf("publish message: %w", err)
	}
	c.recordSuccess()

	c.logger.DebugContext(ctx, "Published slot change",
		log.FieldKey, msg.Key,
		"digest", msg.Digest,
		"exchange", c.exchangeName)
	return nil
}

// Handler processes one slot change. Returning an error requeues the message.
type Handler func(ctx context.Context, msg *SlotChangedMessage) error

// ConsumeSlotChanges delivers messages to handler until ctx is done,
// reconnecting with exponential backoff when the broker goes away.
func (c *Client) ConsumeSlotChanges(ctx context.Context, handler Handler) error {
	attempt := 0
	for {
		delivered, err := c.consumeOnce(ctx, handler)
		if ctx.Err() != nil {
			c.logger.InfoContext(ctx, "Stopping message consumption", "reason", ctx.Err())
			return ctx.Err()
		}
		if !errors.Is(err, errDeliveriesClosed) && !isConnectionError(err) {
			return err
		}
		if delivered > 0 {
			attempt = 0
		}

		delay := exponentialBackoff(attempt)
		attempt++
		c.logger.WarnContext(ctx, "Lost AMQP connection, reconnecting",
			log.FieldError, err,
			"attempt", attempt,
			"delay", delay)
		c.reset()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}

func (c *Client) consumeOnce(ctx context.Context, handler Handler) (int, error) {
	ch, err := c.ensureChannel()
	if err != nil {
		return 0, err
	}
	msgs, err := ch.Consume(
		c.queueName, // queue
		"",          // consumer
		false,       // auto-ack
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	if err != nil {
		return 0, fmt.Errorf("start consuming: %w", err)
	}

	c.logger.InfoContext(ctx, "Started consuming slot changes", "queue", c.queueName)

	delivered := 0
	for {
		select {
		case <-ctx.Done():
			return delivered, ctx.Err()
		case delivery, ok := <-msgs:
			if !ok {
				return delivered, errDeliveriesClosed
			}
			delivered++
			c.handle(ctx, delivery, handler)
		}
	}
}

func (c *Client) handle(ctx context.Context, delivery amqp091.Delivery, handler Handler) {
	msg, err := SlotChangedMessageFromJSON(delivery.Body)
	if err != nil {
		c.logger.ErrorContext(ctx, "Failed to unmarshal message", log.FieldError, err)
		_ = delivery.Nack(false, false)
		return
	}

	if err := handler(ctx, msg); err != nil {
		c.logger.ErrorContext(ctx, "Failed to handle message",
			log.FieldError, err,
			log.FieldKey, msg.Key)
		_ = delivery.Nack(false, true)
		return
	}

	_ = delivery.Ack(false)
	c.logger.DebugContext(ctx, "Processed slot change", log.FieldKey, msg.Key)
}

func (c *Client) isCircuitOpen() bool {
	switch atomic.LoadInt32(&c.state) {
	case StateOpen:
		c.mu.Lock()
		last := c.lastFailure
		c.mu.Unlock()
		if time.Since(last) > openTimeout {
			atomic.CompareAndSwapInt32(&c.state, StateOpen, StateHalfOpen)
			return false
		}
		return true
	default:
		return false
	}
}

func (c *Client) recordFailure() {
	c.mu.Lock()
	c.lastFailure = time.Now()
	c.mu.Unlock()

	n := atomic.AddInt64(&c.failureCount, 1)
	if n >= maxFailures || atomic.LoadInt32(&c.state) == StateHalfOpen {
		atomic.StoreInt32(&c.state, StateOpen)
	}
}

func (c *Client) recordSuccess() {
	atomic.StoreInt64(&c.failureCount, 0)
	atomic.StoreInt32(&c.state, StateClosed)
}

// exponentialBackoff returns 1s, 2s, 4s, ... capped at maxBackoff.
func exponentialBackoff(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	if attempt >= 5 {
		return maxBackoff
	}
	d := time.Second << attempt
	if d > maxBackoff {
		return maxBackoff
	}
	return d
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, amqp091.ErrClosed) {
		return true
	}
	msg := err.Error()
	for _, s := range []string{"connection refused", "connection closed", "EOF", "broken pipe", "use of closed network connection", "connection reset"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}

func (c *Client) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeLocked()
}

func (c *Client) closeLocked() {
	if c.channel != nil {
		_ = c.channel.Close()
		c.channel = nil
	}
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
}

func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var err error
	if c.channel != nil {
		_ = c.channel.Close()
		c.channel = nil
	}
	if c.conn != nil {
		err = c.conn.Close()
		c.conn = nil
	}
	return err
}
