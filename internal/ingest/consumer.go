// Package ingest consumes delivery-event notifications from the ordering
// platform's Kafka topic. The events themselves land in the relational event
// store through the ordering workflows; this consumer only reacts to them,
// dropping the affected client's cached snapshots so the next read recomputes.
package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	id "padoca/pkg/domain"
)

// Invalidator is the slice of the analytics service the consumer needs.
type Invalidator interface {
	InvalidateClient(ctx context.Context, clientID id.ClientID)
}

// Config carries the Kafka wiring for the consumer group.
type Config struct {
	Brokers []string
	Topic   string
	Group   string
}

// Consumer is the cache-invalidation consumer. One instance per process;
// Kafka balances partitions across replicas through the consumer group.
type Consumer struct {
	client      *kgo.Client
	invalidator Invalidator
	logger      *slog.Logger
	topic       string
}

// Option configures a Consumer.
type Option func(*Consumer)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Consumer) {
		c.logger = logger
	}
}

func New(cfg Config, invalidator Invalidator, opts ...Option) (*Consumer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("at least one broker is required")
	}
	if cfg.Topic == "" || cfg.Group == "" {
		return nil, fmt.Errorf("topic and group are required")
	}
	if invalidator == nil {
		return nil, fmt.Errorf("invalidator is required")
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.ConsumeTopics(cfg.Topic),
		kgo.ConsumerGroup(cfg.Group),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtEnd()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka client: %w", err)
	}

	consumer := &Consumer{
		client:      client,
		invalidator: invalidator,
		topic:       cfg.Topic,
	}
	for _, opt := range opts {
		opt(consumer)
	}
	return consumer, nil
}

// EnsureTopic creates the topic if the cluster does not have it yet. Safe to
// call on every startup.
func (c *Consumer) EnsureTopic(ctx context.Context, partitions int32) error {
	adm := kadm.NewClient(c.client)

	resp, err := adm.CreateTopic(ctx, partitions, -1, nil, c.topic)
	if err != nil {
		return fmt.Errorf("failed to ensure topic %s: %w", c.topic, err)
	}
	if resp.Err != nil && !errors.Is(resp.Err, kerr.TopicAlreadyExists) {
		return fmt.Errorf("failed to ensure topic %s: %w", c.topic, resp.Err)
	}
	return nil
}

// Run polls until the context is cancelled. Undecodable records are logged
// and skipped; an unreadable record must never wedge the partition.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		fetches := c.client.PollFetches(ctx)
		if fetches.IsClientClosed() || ctx.Err() != nil {
			return ctx.Err()
		}

		fetches.EachError(func(topic string, partition int32, err error) {
			if c.logger != nil {
				c.logger.ErrorContext(ctx, "kafka fetch error",
					"topic", topic,
					"partition", partition,
					"error", err,
				)
			}
		})

		fetches.EachRecord(func(record *kgo.Record) {
			clientID, err := decodeNotification(record.Value)
			if err != nil {
				if c.logger != nil {
					c.logger.WarnContext(ctx, "skipping undecodable delivery notification",
						"topic", record.Topic,
						"partition", record.Partition,
						"offset", record.Offset,
						"error", err,
					)
				}
				return
			}
			c.invalidator.InvalidateClient(ctx, clientID)
		})
	}
}

// Close leaves the consumer group and releases the client.
func (c *Consumer) Close() {
	c.client.Close()
}

// notification is the wire shape of a delivery-event message. Producers may
// attach more fields; only the client matters here.
type notification struct {
	ClientID string `json:"client_id"`
}

func decodeNotification(payload []byte) (id.ClientID, error) {
	var n notification
	if err := json.Unmarshal(payload, &n); err != nil {
		return "", fmt.Errorf("invalid notification payload: %w", err)
	}
	clientID, err := id.ParseClientID(n.ClientID)
	if err != nil {
		return "", fmt.Errorf("invalid client_id in notification: %w", err)
	}
	return clientID, nil
}
