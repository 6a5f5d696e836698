// Package kafka broadcasts ledger changes on a Kafka topic.
package kafka

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"github.com/MrJamesThe3rd/bye2money/internal/broadcast"
	"github.com/MrJamesThe3rd/bye2money/internal/ledger"
)

type Publisher struct {
	writer *kafka.Writer
}

func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.LeastBytes{},
			AllowAutoTopicCreation: true,
		},
	}
}

// Publish implements ledger.Broadcaster. The ledger key is the message key
// so changes to one ledger stay ordered within a partition.
func (p *Publisher) Publish(ctx context.Context, change ledger.Change) error {
	data, err := broadcast.FromChange(change).Encode()
	if err != nil {
		return err
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(change.Key),
		Value: data,
	})
	if err != nil {
		return fmt.Errorf("write change: %w", err)
	}

	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// Consumer reads changes in its own consumer group so that every process
// receives every message.
type Consumer struct {
	reader *kafka.Reader
}

func NewConsumer(brokers []string, topic, origin string) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:     brokers,
			Topic:       topic,
			GroupID:     "bye2money-" + origin,
			StartOffset: kafka.LastOffset,
		}),
	}
}

func (c *Consumer) Consume(ctx context.Context, handler broadcast.Handler) error {
	for {
		m, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return ctx.Err()
			}

			return fmt.Errorf("read change: %w", err)
		}

		msg, err := broadcast.Decode(m.Value)
		if err != nil {
			slog.WarnContext(ctx, "dropping malformed ledger message", "offset", m.Offset, "error", err)
			continue
		}

		if err := broadcast.Dispatch(ctx, handler, msg); err != nil {
			slog.ErrorContext(ctx, "failed to handle ledger change", "kind", msg.Kind, "error", err)
		}
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}

var _ ledger.Broadcaster = (*Publisher)(nil)
