package gateways

import (
	"context"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/giovaniif/fusion-store/infra/kafka"
	"github.com/giovaniif/fusion-store/product/protocols"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// EventPublisherKafka writes product events keyed by product id.
type EventPublisherKafka struct {
	writer messageWriter
}

func NewEventPublisherKafka(writer messageWriter) *EventPublisherKafka {
	return &EventPublisherKafka{writer: writer}
}

func (p *EventPublisherKafka) Publish(ctx context.Context, event protocols.Event) error {
	return kafka.PublishJSON(ctx, p.writer, event.ProductId, event)
}

// EventPublisherLog only logs events. Used when no brokers are configured.
type EventPublisherLog struct {
	logger *zap.Logger
}

func NewEventPublisherLog(logger *zap.Logger) *EventPublisherLog {
	return &EventPublisherLog{logger: logger}
}

func (p *EventPublisherLog) Publish(_ context.Context, event protocols.Event) error {
	p.logger.Debug("product event",
		zap.String("type", event.Type),
		zap.String("product_id", event.ProductId),
	)
	return nil
}
