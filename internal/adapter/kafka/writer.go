package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThiagoMachado211/mapa-calor-escolas-mg/internal/config"
	"github.com/ThiagoMachado211/mapa-calor-escolas-mg/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer publishes dashboard selection events to a Kafka topic.
// It implements pipeline.EventPublisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured selections topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
		WriteTimeout: 5 * time.Second,
	}
	return &Writer{writer: w, logger: logger}
}

// Publish serializes one selection event and writes it synchronously.
func (w *Writer) Publish(ctx context.Context, event domain.SelectionEvent) error {
	msg, err := serializeToMessage(event)
	if err != nil {
		return err
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write selection event: %w", err)
	}
	w.logger.Debug("selection event published", "topic", w.writer.Topic, "indicator", event.Indicator)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a SelectionEvent into a Kafka message keyed by indicator.
func serializeToMessage(event domain.SelectionEvent) (kafkago.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize selection event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(event.Indicator),
		Value: data,
		Time:  event.OccurredAt,
		Headers: []kafkago.Header{
			{Key: "indicator", Value: []byte(event.Indicator)},
			{Key: "regional", Value: []byte(event.Regional)},
		},
	}, nil
}
