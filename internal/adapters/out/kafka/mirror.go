// Package kafka mirrors committed fulfillment events to a Kafka topic so
// that downstream consumers can follow order progress without polling.
package kafka

import (
	"context"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/silver-ring/printke-web/internal/core/domain/events"
	"github.com/silver-ring/printke-web/internal/pkg/errs"
	"github.com/silver-ring/printke-web/internal/realtime"
)

// MessageWriter is the subset of *kafka.Writer the mirror uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Metrics interface {
	EventMirrored(err error)
}

type nopMetrics struct{}

func (nopMetrics) EventMirrored(error) {}

// Mirror implements ports.EventPublisher. Messages are keyed by order number
// so one order's events land on one partition in publish order.
type Mirror struct {
	writer  MessageWriter
	timeout time.Duration
	metrics Metrics
	log     *zap.Logger
}

// NewWriter builds a synchronous writer for brokers, a comma separated list.
func NewWriter(brokers, topic string) (*kafka.Writer, error) {
	var addrs []string
	for _, b := range strings.Split(brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			addrs = append(addrs, b)
		}
	}
	if len(addrs) == 0 {
		return nil, errs.NewValueIsRequiredError("kafka brokers")
	}
	if strings.TrimSpace(topic) == "" {
		return nil, errs.NewValueIsRequiredError("kafka topic")
	}
	return &kafka.Writer{
		Addr:                   kafka.TCP(addrs...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           10 * time.Millisecond,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}, nil
}

func NewMirror(writer MessageWriter, timeout time.Duration, metrics Metrics, log *zap.Logger) *Mirror {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Mirror{
		writer:  writer,
		timeout: timeout,
		metrics: metrics,
		log:     log.With(zap.String("component", "kafka_mirror")),
	}
}

func (m *Mirror) Publish(ctx context.Context, evts ...events.Event) {
	msgs := make([]kafka.Message, 0, len(evts))
	for _, e := range evts {
		if e.OrderNumber == "" {
			continue
		}
		value, err := realtime.Encode(e)
		if err != nil {
			m.log.Error("encoding event failed", zap.String("type", string(e.Type)), zap.Error(err))
			m.metrics.EventMirrored(err)
			continue
		}
		msgs = append(msgs, kafka.Message{
			Key:     []byte(e.OrderNumber),
			Value:   value,
			Headers: []kafka.Header{{Key: "type", Value: []byte(e.Type)}},
			Time:    e.Timestamp,
		})
	}
	if len(msgs) == 0 {
		return
	}

	// the request context may already be cancelled once the response is written
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.timeout)
	defer cancel()

	err := m.writer.WriteMessages(writeCtx, msgs...)
	for range msgs {
		m.metrics.EventMirrored(err)
	}
	if err != nil {
		m.log.Error("mirroring events failed", zap.Int("count", len(msgs)), zap.Error(err))
		return
	}
	m.log.Debug("events mirrored", zap.Int("count", len(msgs)))
}

func (m *Mirror) Close() error {
	return m.writer.Close()
}
