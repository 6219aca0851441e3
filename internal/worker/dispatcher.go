package worker

import (
	"context"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	kafkax "github.com/ryokan-ops/stayboard/internal/kafka"
	workerService "github.com/ryokan-ops/stayboard/internal/service/worker"
)

// Dispatcher consumes briefing events and hands them to the delivery
// service, bounded by a worker semaphore. Failed deliveries go to the DLQ
// for manual inspection.
type Dispatcher struct {
	log        *zap.Logger
	service    *workerService.DeliverService
	c          *kafkax.Consumer
	dlq        *kafkax.Producer
	maxWorkers int
}

func NewDispatcher(log *zap.Logger, service *workerService.DeliverService, c *kafkax.Consumer, dlq *kafkax.Producer, maxWorkers int) *Dispatcher {
	return &Dispatcher{
		log:        log,
		service:    service,
		c:          c,
		dlq:        dlq,
		maxWorkers: maxWorkers,
	}
}

func (d *Dispatcher) Run(ctx context.Context) error {
	sem := make(chan struct{}, d.maxWorkers) // concurrency limit

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			m, err := d.c.Fetch(ctx)
			if err != nil {
				d.log.Error("failed to read message", zap.Error(err))
				continue
			}

			sem <- struct{}{}
			go func(m kafka.Message) {
				defer func() { <-sem }()

				if err := d.handleMessage(ctx, m); err != nil {
					d.log.Error("failed to handle message", zap.Error(err))
					_ = d.dlq.Publish(ctx, m.Key, m.Value)
				} else {
					_ = d.c.Commit(ctx, m)
				}
			}(m)
		}
	}
}

func (d *Dispatcher) handleMessage(ctx context.Context, m kafka.Message) error {
	e, err := kafkax.ParseBriefingEvent(m.Value)
	if err != nil {
		return err
	}
	return d.service.HandleBriefing(ctx, e)
}
