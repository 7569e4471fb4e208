package producer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	wbfkafka "github.com/wb-go/wbf/kafka"
	"github.com/wb-go/wbf/retry"
	"gitlab.com/tozd/go/errors"

	"github.com/aliskhannn/image-augmentor/internal/config"
	"github.com/aliskhannn/image-augmentor/internal/model"
)

// client is the subset of *wbfkafka.Producer used by the producer.
type client interface {
	SendWithRetry(ctx context.Context, strategy retry.Strategy, key, value []byte) error
	Close() error
}

// Producer publishes an event for every produced output.
type Producer struct {
	client   client
	strategy retry.Strategy
	now      func() time.Time
}

// New creates a new Producer.
// - cfg: Kafka configuration struct
// - s: retry strategy
func New(cfg *config.Kafka, s retry.Strategy) *Producer {
	p := wbfkafka.NewProducer(cfg.Brokers, cfg.Topic)
	// Events of one run share a key and must stay on one partition.
	p.Writer.Balancer = &kafka.Hash{}
	p.Writer.RequiredAcks = kafka.RequireOne
	p.Writer.AllowAutoTopicCreation = true

	return newProducer(p, s)
}

func newProducer(c client, s retry.Strategy) *Producer {
	return &Producer{
		client:   c,
		strategy: s,
		now:      time.Now,
	}
}

// Produced serializes an image.augmented event to JSON and sends it to Kafka.
// The run ID is used as the message key so one run lands on one partition.
func (p *Producer) Produced(ctx context.Context, out model.Output) error {
	ev := model.Event{
		ID:        uuid.New(),
		RunID:     out.RunID,
		Type:      model.EventAugmented,
		Dir:       out.Dir,
		Source:    out.Source,
		Output:    out.Name,
		Codes:     out.Codes,
		CreatedAt: p.now().UTC(),
	}

	data, err := json.Marshal(ev)
	if err != nil {
		return errors.Errorf("failed to marshal event: %w", err)
	}

	key := []byte(out.RunID.String())

	if err = p.client.SendWithRetry(ctx, p.strategy, key, data); err != nil {
		return errors.Errorf("failed to send event: %w", err)
	}

	return nil
}

// Close flushes pending messages and closes the underlying writer.
func (p *Producer) Close() error {
	return p.client.Close()
}
