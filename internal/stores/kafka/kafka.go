package kafka

import (
	"context"
	"errors"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"
)

// Publisher is what the domain packages depend on.
type Publisher interface {
	ProduceMessage(ctx context.Context, topic string, key []byte, value []byte) error
}

type Conf struct {
	client *kgo.Client
}

func NewConf(brokers []string) (*Conf, error) {
	if len(brokers) == 0 {
		return nil, errors.New("no kafka brokers configured")
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.AllowAutoTopicCreation(),
		kgo.RequiredAcks(kgo.AllISRAcks()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return &Conf{client: client}, nil
}

func (k *Conf) ProduceMessage(ctx context.Context, topic string, key []byte, value []byte) error {
	record := &kgo.Record{Topic: topic, Key: key, Value: value}
	if err := k.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce to %s: %w", topic, err)
	}
	return nil
}

func (k *Conf) Close() {
	k.client.Close()
}

// Noop drops every message. Used when no brokers are configured.
type Noop struct{}

func (Noop) ProduceMessage(context.Context, string, []byte, []byte) error { return nil }
