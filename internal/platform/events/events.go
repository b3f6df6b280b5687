package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const source = "employee-records"

// Envelope is the JSON value written for every event.
type Envelope struct {
	EventID    string    `json:"eventId"`
	EventType  string    `json:"eventType"`
	OccurredAt time.Time `json:"occurredAt"`
	Source     string    `json:"source"`
	Payload    any       `json:"payload"`
}

type KafkaPublisher struct {
	sp     sarama.SyncProducer
	topic  string
	logger *zap.Logger
	now    func() time.Time
}

// NewProducerConfig matches the delivery guarantees expected by downstream
// consumers: acks from all replicas and idempotent retries.
func NewProducerConfig() *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.Version = sarama.V3_3_2_0
	cfg.Producer.Return.Successes = true
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Idempotent = true
	cfg.Net.MaxOpenRequests = 1
	cfg.Producer.Retry.Max = 5
	cfg.Producer.Retry.Backoff = 200 * time.Millisecond
	return cfg
}

func NewKafkaPublisher(brokers []string, topic string, logger *zap.Logger) (*KafkaPublisher, error) {
	sp, err := sarama.NewSyncProducer(brokers, NewProducerConfig())
	if err != nil {
		return nil, fmt.Errorf("sarama.NewSyncProducer: %w", err)
	}
	return NewKafkaPublisherWithProducer(sp, topic, logger), nil
}

func NewKafkaPublisherWithProducer(sp sarama.SyncProducer, topic string, logger *zap.Logger) *KafkaPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &KafkaPublisher{
		sp:     sp,
		topic:  topic,
		logger: logger.With(zap.String("component", "KafkaPublisher")),
		now:    time.Now,
	}
}

func (p *KafkaPublisher) Publish(_ context.Context, eventType, key string, payload any) error {
	if p == nil || p.sp == nil {
		return errors.New("sync producer is not initialized")
	}

	body, err := json.Marshal(Envelope{
		EventID:    uuid.NewString(),
		EventType:  eventType,
		OccurredAt: p.now().UTC(),
		Source:     source,
		Payload:    payload,
	})
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", eventType, err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(body),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event-type"), Value: []byte(eventType)},
			{Key: []byte("source"), Value: []byte(source)},
			{Key: []byte("content-type"), Value: []byte("application/json")},
		},
	}

	part, off, err := p.sp.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("send kafka message: %w", err)
	}

	p.logger.Debug("kafka message sent",
		zap.String("topic", p.topic),
		zap.String("key", key),
		zap.Int32("partition", part),
		zap.Int64("offset", off),
	)
	return nil
}

func (p *KafkaPublisher) Close() error {
	if p == nil || p.sp == nil {
		return nil
	}
	return p.sp.Close()
}

// Nop discards events. Used when no brokers are configured.
type Nop struct{}

func (Nop) Publish(context.Context, string, string, any) error { return nil }

func (Nop) Close() error { return nil }
