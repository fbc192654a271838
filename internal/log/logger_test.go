package log

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"financetracker/internal/core"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"loud", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseLevel(%q) err=%v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Fatalf("ParseLevel(%q)=%v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestJSONLoggerCarriesComponentAndFields(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelDebug, Format: FormatJSON, Output: &buf, Component: ComponentTracker})

	fields := NewFields().
		WithOperation(OpCreate).
		WithTransaction(core.Transaction{ID: "t1", Type: core.Expense, Category: "Lazer", Amount: 10}).
		WithError(errors.New("boom"))
	logger.WithFields(fields).Info("saved")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("decode log line: %v (%s)", err, buf.String())
	}
	want := map[string]any{
		FieldComponent: ComponentTracker,
		FieldOperation: OpCreate,
		FieldTxID:      "t1",
		FieldTxType:    "expense",
		FieldCategory:  "Lazer",
		FieldError:     "boom",
		"msg":          "saved",
	}
	for k, v := range want {
		if rec[k] != v {
			t.Fatalf("field %s=%v, want %v", k, rec[k], v)
		}
	}
}

func TestWithComponentDoesNotDuplicate(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Output: &buf}).WithComponent(ComponentStorage)
	logger.Warn("slow write")

	line := buf.String()
	if strings.Count(line, "component=") != 1 {
		t.Fatalf("expected one component attr, got %q", line)
	}
	if !strings.Contains(line, "component=storage") {
		t.Fatalf("missing component in %q", line)
	}
}

func TestContextRoundTrip(t *testing.T) {
	logger := Discard().WithComponent(ComponentWorker)
	ctx := WithContext(context.Background(), logger)
	if got := FromContext(ctx); got != logger {
		t.Fatalf("FromContext returned a different logger")
	}
	if got := FromContext(context.Background()); got.Component() != "unknown" {
		t.Fatalf("fallback component = %q", got.Component())
	}
}
