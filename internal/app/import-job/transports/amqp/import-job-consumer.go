package import_job_amqp_consumer

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/nebula-marketing/lead-importer/domain/app"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sethvargo/go-retry"
)

type JobSource interface {
	ConsumeJobs(ctx context.Context, consumer string) (<-chan amqp.Delivery, error)
}

// ImportJobConsumer feeds queued jobs to the job service one at a time. A job
// whose processing fails is requeued once, then abandoned. A closed delivery
// channel is replaced by a fresh subscription.
type ImportJobConsumer struct {
	source  JobSource
	service app.ImportJobService
	log     *slog.Logger
	name    string

	minBackoff time.Duration
	maxBackoff time.Duration

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func New(source JobSource, service app.ImportJobService, log *slog.Logger) *ImportJobConsumer {
	return &ImportJobConsumer{
		source:  source,
		service: service,
		log:     log.With("component", "import-job-consumer"),
		name:    "lead-importer",

		minBackoff: 500 * time.Millisecond,
		maxBackoff: 30 * time.Second,
	}
}

func (this *ImportJobConsumer) Start(ctx context.Context) error {
	deliveries, err := this.source.ConsumeJobs(ctx, this.name)
	if err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(context.Background())
	this.cancel = cancel

	this.wg.Add(1)
	go func() {
		defer this.wg.Done()
		this.loop(runCtx, deliveries)
	}()

	this.log.Info("consuming import jobs")
	return nil
}

func (this *ImportJobConsumer) Stop(ctx context.Context) error {
	if this.cancel != nil {
		this.cancel()
	}

	done := make(chan struct{})
	go func() {
		this.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (this *ImportJobConsumer) loop(ctx context.Context, deliveries <-chan amqp.Delivery) {
	for {
		this.drain(ctx, deliveries)
		if ctx.Err() != nil {
			return
		}

		this.log.Warn("job delivery channel closed, resubscribing")
		next, err := this.resubscribe(ctx)
		if err != nil {
			return
		}
		deliveries = next
	}
}

// drain handles deliveries until the channel closes or ctx is done.
func (this *ImportJobConsumer) drain(ctx context.Context, deliveries <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-deliveries:
			if !ok {
				return
			}
			this.Handle(ctx, d)
		}
	}
}

// resubscribe retries ConsumeJobs until it succeeds or ctx is done.
func (this *ImportJobConsumer) resubscribe(ctx context.Context) (<-chan amqp.Delivery, error) {
	var deliveries <-chan amqp.Delivery
	backoff := retry.WithCappedDuration(this.maxBackoff, retry.NewExponential(this.minBackoff))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		d, err := this.source.ConsumeJobs(ctx, this.name)
		if err != nil {
			this.log.Warn("resubscribe failed, retrying", "error", err)
			return retry.RetryableError(err)
		}
		deliveries = d
		return nil
	})
	if err != nil {
		return nil, err
	}

	this.log.Info("consuming import jobs again")
	return deliveries, nil
}

// Handle processes one delivery and settles it. The first failure requeues
// the job; a failure on redelivery abandons it.
func (this *ImportJobConsumer) Handle(ctx context.Context, d amqp.Delivery) {
	var job app.ImportJob
	if err := json.Unmarshal(d.Body, &job); err != nil || job.ID == "" || job.ObjectKey == "" {
		this.log.Error("dropping malformed job message", "message_id", d.MessageId, "error", err)
		this.settle(d.Nack(false, false))
		return
	}

	err := this.service.Process(ctx, job)
	if err == nil {
		this.settle(d.Ack(false))
		return
	}

	if !d.Redelivered {
		this.log.Warn("import job attempt failed, requeueing", "job_id", job.ID, "error", err)
		this.settle(d.Nack(false, true))
		return
	}

	this.log.Error("import job failed again, abandoning", "job_id", job.ID, "error", err)
	if aerr := this.service.Abandon(ctx, job, err); aerr != nil {
		this.log.Error("failed to abandon import job", "job_id", job.ID, "error", aerr)
	}
	this.settle(d.Nack(false, false))
}

func (this *ImportJobConsumer) settle(err error) {
	if err != nil {
		this.log.Error("failed to settle job delivery", "error", err)
	}
}
