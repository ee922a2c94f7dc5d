// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package export

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/wneessen/agriwatch/internal/logger"
	"github.com/wneessen/agriwatch/internal/observability"
	"github.com/wneessen/agriwatch/internal/regional"
	"github.com/wneessen/agriwatch/internal/risk"
	"github.com/wneessen/agriwatch/internal/weather"
)

type recordingWriter struct {
	msgs   []kafkago.Message
	err    error
	closed bool
}

func (r *recordingWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	if r.err != nil {
		return r.err
	}
	r.msgs = append(r.msgs, msgs...)
	return nil
}

func (r *recordingWriter) Close() error {
	r.closed = true
	return nil
}

func testSnapshot() *regional.Snapshot {
	rows := []regional.Row{
		{Region: "Central Equatoria", Place: "Juba", TemperatureC: 30,
			Anomaly: risk.Anomaly{Category: risk.Normal}, DataSource: weather.SourceLive},
		{Region: "Jonglei", Place: "Bor", TemperatureC: 40,
			Anomaly: risk.Anomaly{Category: risk.Drought}, DataSource: weather.SourceMock},
	}
	return regional.NewSnapshot(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC), rows)
}

func TestSerializeSnapshot(t *testing.T) {
	msgs, err := serializeSnapshot(testSnapshot())
	if err != nil {
		t.Fatalf("failed to serialize snapshot: %s", err)
	}
	if len(msgs) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(msgs))
	}
	if string(msgs[0].Key) != "Central Equatoria/Juba" {
		t.Errorf("unexpected key %q", msgs[0].Key)
	}
	if string(msgs[0].Headers[0].Value) != kindRow {
		t.Errorf("expected row header, got %q", msgs[0].Headers[0].Value)
	}
	if string(msgs[0].Headers[1].Value) != "2025-06-01T12:00:00Z" {
		t.Errorf("unexpected generation header %q", msgs[0].Headers[1].Value)
	}
	var row regional.Row
	if err = json.Unmarshal(msgs[1].Value, &row); err != nil {
		t.Fatalf("failed to decode row: %s", err)
	}
	if row.Place != "Bor" || row.DataSource != weather.SourceMock {
		t.Errorf("unexpected row %+v", row)
	}
	last := msgs[len(msgs)-1]
	if string(last.Key) != summaryKey || string(last.Headers[0].Value) != kindSummary {
		t.Errorf("expected summary message last, got key %q", last.Key)
	}
	var summary regional.Summary
	if err = json.Unmarshal(last.Value, &summary); err != nil {
		t.Fatalf("failed to decode summary: %s", err)
	}
	if summary.HighRiskPlaces != 1 || summary.AvgTemperatureC.Value() != 35 {
		t.Errorf("unexpected summary %+v", summary)
	}
}

func TestPublisher_Publish(t *testing.T) {
	log := logger.NewLogger(slog.LevelInfo, io.Discard)
	t.Run("messages are written and counted", func(t *testing.T) {
		writer := new(recordingWriter)
		metrics := observability.NewMetricsForTesting()
		pub := &Publisher{writer: writer, log: log, metrics: metrics}
		if err := pub.Publish(t.Context(), testSnapshot()); err != nil {
			t.Fatalf("failed to publish: %s", err)
		}
		if len(writer.msgs) != 3 {
			t.Errorf("expected 3 messages, got %d", len(writer.msgs))
		}
		if got := testutil.ToFloat64(metrics.SnapshotExports.WithLabelValues("success")); got != 1 {
			t.Errorf("expected 1 successful export, got %f", got)
		}
		if err := pub.Close(); err != nil || !writer.closed {
			t.Error("expected writer to be closed")
		}
	})
	t.Run("write errors are returned and counted", func(t *testing.T) {
		writer := &recordingWriter{err: errors.New("broker unavailable")}
		metrics := observability.NewMetricsForTesting()
		pub := &Publisher{writer: writer, log: log, metrics: metrics}
		if err := pub.Publish(t.Context(), testSnapshot()); err == nil {
			t.Fatal("expected publish to fail")
		}
		if got := testutil.ToFloat64(metrics.SnapshotExports.WithLabelValues("error")); got != 1 {
			t.Errorf("expected 1 failed export, got %f", got)
		}
	})
}

func TestNewPublisher(t *testing.T) {
	log := logger.NewLogger(slog.LevelInfo, io.Discard)
	if _, err := NewPublisher(nil, "topic", log, nil); err == nil {
		t.Error("expected NewPublisher to fail without brokers")
	}
	if _, err := NewPublisher([]string{"localhost:9092"}, "", log, nil); err == nil {
		t.Error("expected NewPublisher to fail without topic")
	}
	pub, err := NewPublisher([]string{"localhost:9092"}, "agriwatch-regional", log, nil)
	if err != nil {
		t.Fatalf("failed to create publisher: %s", err)
	}
	if err = pub.Close(); err != nil {
		t.Errorf("failed to close publisher: %s", err)
	}
}
