package rabbitmq_client

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/nebula-marketing/lead-importer/domain/app"
	"github.com/nebula-marketing/lead-importer/internal/config"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rotisserie/eris"
	"github.com/sethvargo/go-retry"
)

// RabbitMQClient owns one connection and one channel. Jobs go straight to the
// job queue; completion events go to the topic exchange.
type RabbitMQClient struct {
	cfg config.RabbitMQConfig
	log *slog.Logger

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

var _ app.JobQueue = &RabbitMQClient{}

func New(cfg *config.Config, log *slog.Logger) *RabbitMQClient {
	return &RabbitMQClient{cfg: cfg.Infrastructure.RabbitMQ, log: log}
}

// Connect dials the broker and declares the exchange and the job queue.
func (this *RabbitMQClient) Connect(ctx context.Context) error {
	this.mu.Lock()
	defer this.mu.Unlock()

	return this.connectLocked(ctx)
}

func (this *RabbitMQClient) connectLocked(ctx context.Context) error {
	var conn *amqp.Connection
	backoff := retry.WithMaxRetries(5, retry.NewExponential(500*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		c, err := amqp.Dial(this.cfg.Url)
		if err != nil {
			this.log.Warn("rabbitmq dial failed, retrying", "error", err)
			return retry.RetryableError(err)
		}
		conn = c
		return nil
	})
	if err != nil {
		return eris.Wrap(err, "rabbitmq: dial")
	}

	ch, err := this.openChannel(conn)
	if err != nil {
		return err
	}

	this.conn, this.ch = conn, ch
	this.log.Info("rabbitmq connected", "exchange", this.cfg.Exchange, "queue", this.cfg.JobQueue)
	return nil
}

type amqpConnection interface {
	Channel() (*amqp.Channel, error)
	Close() error
}

// openChannel opens a channel on conn and declares the topology. conn is
// closed when any step fails.
func (this *RabbitMQClient) openChannel(conn amqpConnection) (*amqp.Channel, error) {
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, eris.Wrap(err, "rabbitmq: open channel")
	}
	if err := this.declareTopology(ch); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return ch, nil
}

func (this *RabbitMQClient) declareTopology(ch *amqp.Channel) error {
	if err := ch.ExchangeDeclare(this.cfg.Exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		return eris.Wrapf(err, "rabbitmq: declare exchange %s", this.cfg.Exchange)
	}
	if _, err := ch.QueueDeclare(this.cfg.JobQueue, true, false, false, false, nil); err != nil {
		return eris.Wrapf(err, "rabbitmq: declare queue %s", this.cfg.JobQueue)
	}
	if err := ch.Qos(max(this.cfg.PrefetchCount, 1), 0, false); err != nil {
		return eris.Wrap(err, "rabbitmq: set qos")
	}
	return nil
}

func (this *RabbitMQClient) channel(ctx context.Context) (*amqp.Channel, error) {
	this.mu.Lock()
	defer this.mu.Unlock()

	if this.ch != nil && !this.ch.IsClosed() {
		return this.ch, nil
	}
	if this.conn != nil {
		_ = this.conn.Close()
		this.conn, this.ch = nil, nil
	}
	if err := this.connectLocked(ctx); err != nil {
		return nil, err
	}
	return this.ch, nil
}

func (this *RabbitMQClient) EnqueueJob(ctx context.Context, job app.ImportJob) error {
	return this.publishJSON(ctx, "", this.cfg.JobQueue, job.ID, job)
}

func (this *RabbitMQClient) PublishCompleted(ctx context.Context, event app.ImportJobCompleted) error {
	return this.publishJSON(ctx, this.cfg.Exchange, this.cfg.CompletedKey, event.JobID, event)
}

func (this *RabbitMQClient) publishJSON(ctx context.Context, exchange, key, messageID string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return eris.Wrap(err, "rabbitmq: marshal message")
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    messageID,
		Timestamp:    time.Now(),
		Body:         body,
	}

	backoff := retry.WithMaxRetries(3, retry.NewExponential(200*time.Millisecond))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		ch, err := this.channel(ctx)
		if err != nil {
			return retry.RetryableError(err)
		}
		if err := ch.PublishWithContext(ctx, exchange, key, false, false, msg); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return eris.Wrapf(err, "rabbitmq: publish %s", key)
	}
	return nil
}

// ConsumeJobs starts delivering job messages. Deliveries must be acked by the
// caller.
func (this *RabbitMQClient) ConsumeJobs(ctx context.Context, consumer string) (<-chan amqp.Delivery, error) {
	ch, err := this.channel(ctx)
	if err != nil {
		return nil, err
	}
	deliveries, err := ch.Consume(this.cfg.JobQueue, consumer, false, false, false, false, nil)
	if err != nil {
		return nil, eris.Wrapf(err, "rabbitmq: consume %s", this.cfg.JobQueue)
	}
	return deliveries, nil
}

func (this *RabbitMQClient) Close() error {
	this.mu.Lock()
	defer this.mu.Unlock()

	if this.ch != nil {
		_ = this.ch.Close()
		this.ch = nil
	}
	if this.conn != nil {
		err := this.conn.Close()
		this.conn = nil
		if err != nil && !errors.Is(err, amqp.ErrClosed) {
			return eris.Wrap(err, "rabbitmq: close")
		}
	}
	return nil
}
