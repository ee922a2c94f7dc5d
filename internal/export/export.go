// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package export publishes regional snapshots to Kafka.
package export

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/wneessen/agriwatch/internal/logger"
	"github.com/wneessen/agriwatch/internal/observability"
	"github.com/wneessen/agriwatch/internal/regional"
)

const (
	headerKind        = "kind"
	headerGeneratedAt = "generated_at"
	kindRow           = "row"
	kindSummary       = "summary"
	summaryKey        = "summary"
)

// messageWriter is the part of the kafka-go writer the publisher depends on.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Publisher writes snapshots to a Kafka topic, one message per row followed by one
// summary message.
type Publisher struct {
	writer  messageWriter
	log     *logger.Logger
	metrics *observability.Metrics
}

// NewPublisher creates a Kafka producer for the given brokers and topic. metrics may be nil.
func NewPublisher(brokers []string, topic string, log *logger.Logger, metrics *observability.Metrics) (*Publisher, error) {
	if len(brokers) == 0 || topic == "" {
		return nil, errors.New("kafka brokers and topic are required")
	}
	if log == nil {
		return nil, errors.New("logger is required")
	}
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, log: log, metrics: metrics}, nil
}

// Publish serializes the snapshot and writes it in a single WriteMessages call.
func (p *Publisher) Publish(ctx context.Context, snapshot *regional.Snapshot) error {
	msgs, err := serializeSnapshot(snapshot)
	if err != nil {
		p.count("error")
		return err
	}
	if err = p.writer.WriteMessages(ctx, msgs...); err != nil {
		p.count("error")
		return fmt.Errorf("failed to publish regional snapshot: %w", err)
	}
	p.count("success")
	p.log.Debug("regional snapshot published", slog.Int("messages", len(msgs)))
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

func (p *Publisher) count(outcome string) {
	if p.metrics != nil {
		p.metrics.SnapshotExports.WithLabelValues(outcome).Inc()
	}
}

// serializeSnapshot turns each row into a message keyed by region and place, and appends
// the summary as a final message.
func serializeSnapshot(snapshot *regional.Snapshot) ([]kafkago.Message, error) {
	generatedAt := []byte(snapshot.GeneratedAt.Format(time.RFC3339))
	msgs := make([]kafkago.Message, 0, len(snapshot.Rows)+1)
	for _, row := range snapshot.Rows {
		data, err := json.Marshal(row)
		if err != nil {
			return nil, fmt.Errorf("failed to serialize regional row %s/%s: %w", row.Region, row.Place, err)
		}
		msgs = append(msgs, kafkago.Message{
			Key:   []byte(row.Region + "/" + row.Place),
			Value: data,
			Headers: []kafkago.Header{
				{Key: headerKind, Value: []byte(kindRow)},
				{Key: headerGeneratedAt, Value: generatedAt},
			},
		})
	}
	data, err := json.Marshal(snapshot.Summary)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize regional summary: %w", err)
	}
	msgs = append(msgs, kafkago.Message{
		Key:   []byte(summaryKey),
		Value: data,
		Headers: []kafkago.Header{
			{Key: headerKind, Value: []byte(kindSummary)},
			{Key: headerGeneratedAt, Value: generatedAt},
		},
	})
	return msgs, nil
}
