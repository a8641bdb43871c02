package kafka

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Handler must return nil only when the message was processed and the
// offset may be committed. Commits are cumulative per partition: a later
// commit also marks earlier offsets consumed, so a message whose handler
// errored is redelivered only until the next commit lands on its
// partition. Handlers keep their own retry or dedup for anything that
// must not be lost.
type Handler func(ctx context.Context, m kafka.Message) error

type Consumer struct {
	r       *kafka.Reader
	log     *zap.Logger
	workers int
}

func NewConsumer(brokers []string, group, topic string, workers int, log *zap.Logger) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		GroupID:        group,
		Topic:          topic,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: 0, // manual commit
	})
	if workers <= 0 {
		workers = 1
	}
	return &Consumer{r: r, log: log.With(zap.String("topic", topic), zap.String("group", group)), workers: workers}
}

func (c *Consumer) Start(ctx context.Context, h Handler) error {
	defer c.r.Close()

	// one queue per worker, routed by partition, so messages of a
	// partition are handled and committed in order
	jobs := make([]chan kafka.Message, c.workers)
	for i := range jobs {
		jobs[i] = make(chan kafka.Message, 256)
	}
	closeAll := func() {
		for _, ch := range jobs {
			close(ch)
		}
	}
	errs := make(chan error, c.workers)

	for i := 0; i < c.workers; i++ {
		go func(in <-chan kafka.Message) {
			for m := range in {
				if err := h(ctx, m); err != nil {
					errs <- err
					continue
				}
				if err := c.r.CommitMessages(ctx, m); err != nil {
					errs <- err
				}
			}
		}(jobs[i])
	}

	for {
		m, err := c.r.FetchMessage(ctx)
		if err != nil {
			closeAll()
			select {
			case <-ctx.Done():
				return nil
			default:
				return err
			}
		}
		select {
		case jobs[m.Partition%c.workers] <- m:
		case <-ctx.Done():
			closeAll()
			return nil
		}

		// drain worker errors without blocking the dispatch loop
		select {
		case e := <-errs:
			c.log.Warn("handler error", zap.Error(e))
			time.Sleep(200 * time.Millisecond)
		default:
		}
	}
}
