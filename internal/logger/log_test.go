// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package logger

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	if New(slog.LevelWarn) == nil {
		t.Fatal("expected a stderr logger")
	}
}

func TestNewLogger(t *testing.T) {
	messages := []struct {
		level slog.Level
		msg   string
	}{
		{slog.LevelDebug, "regional snapshot refreshed"},
		{slog.LevelInfo, "http server starting"},
		{slog.LevelWarn, "weather provider unavailable"},
		{slog.LevelError, "failed to publish regional snapshot"},
	}
	for _, level := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError} {
		t.Run(level.String(), func(t *testing.T) {
			buf := bytes.NewBuffer(nil)
			log := NewLogger(level, buf)
			for _, m := range messages {
				log.Log(t.Context(), m.level, m.msg)
			}
			for _, m := range messages {
				logged := strings.Contains(buf.String(), m.msg)
				if want := m.level >= level; logged != want {
					t.Errorf("message %q at %s: logged=%t, want %t", m.msg, m.level, logged, want)
				}
			}
		})
	}
}

func TestErr(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	log := NewLogger(slog.LevelInfo, buf)
	log.Warn("no usable weather data for place", Err(errors.New("upstream timeout")),
		slog.String("place", "Bor"))

	for _, want := range []string{`error="upstream timeout"`, "place=Bor", "level=WARN"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("expected log line to contain %q, got: %q", want, buf.String())
		}
	}
}
