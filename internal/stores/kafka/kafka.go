// Package kafka publishes lifecycle events for other systems to consume.
// The feed is best-effort: producing happens off the request path and a
// failed produce is logged, never surfaced to the caller.
package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
)

type Conf struct {
	client *kgo.Client
}

func NewConf(brokers []string) (*Conf, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("no kafka brokers provided")
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka client: %w", err)
	}
	return &Conf{client: client}, nil
}

// ProduceMessage writes one record and waits for the broker ack.
func (c *Conf) ProduceMessage(topic string, key, value []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	record := &kgo.Record{
		Topic: topic,
		Key:   key,
		Value: value,
	}
	if err := c.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("failed to produce to %s: %w", topic, err)
	}
	return nil
}

func (c *Conf) Close() {
	c.client.Close()
}
