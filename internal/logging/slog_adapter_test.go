// ShopSphere - E-Commerce Recommendation Backend
// Copyright 2026 ShopSphere
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsphere/backend

package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestSlogHandlerWritesThroughZerolog(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	zl := zerolog.New(&buf).Level(zerolog.DebugLevel)
	slogger := slog.New(NewSlogHandlerWithLogger(zl))

	slogger.Info("service started", "port", int64(8080))

	out := buf.String()
	if !strings.Contains(out, "service started") {
		t.Errorf("output missing message: %s", out)
	}
	if !strings.Contains(out, `"port":8080`) {
		t.Errorf("output missing attribute: %s", out)
	}
}

func TestSlogHandlerEnabled(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		zerologLevel zerolog.Level
		slogLevel    slog.Level
		want         bool
	}{
		{"debug logger enables debug", zerolog.DebugLevel, slog.LevelDebug, true},
		{"info logger disables debug", zerolog.InfoLevel, slog.LevelDebug, false},
		{"info logger enables warn", zerolog.InfoLevel, slog.LevelWarn, true},
		{"error logger disables info", zerolog.ErrorLevel, slog.LevelInfo, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			zl := zerolog.New(nil).Level(tt.zerologLevel)
			h := NewSlogHandlerWithLogger(zl)
			if got := h.Enabled(context.Background(), tt.slogLevel); got != tt.want {
				t.Errorf("Enabled(%v) = %v, want %v", tt.slogLevel, got, tt.want)
			}
		})
	}
}

func TestSlogHandlerWithAttrsAndGroups(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	zl := zerolog.New(&buf)
	handler := NewSlogHandlerWithLogger(zl).
		WithGroup("suture").
		WithAttrs([]slog.Attr{slog.String("component", "tree")})

	slog.New(handler).Info("service failed", "name", "http-server")

	out := buf.String()
	if !strings.Contains(out, `"suture.component":"tree"`) {
		t.Errorf("output missing pre-set attr: %s", out)
	}
	if !strings.Contains(out, `"suture.name":"http-server"`) {
		t.Errorf("output missing grouped attr: %s", out)
	}
}
