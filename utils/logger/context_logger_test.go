package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
)

func TestContextLogger_WithContext_BusinessKeys(t *testing.T) {
	var buf bytes.Buffer
	cl := NewContextLogger(slog.New(slog.NewJSONHandler(&buf, nil)))

	ctx := context.Background()
	ctx = WithUserID(ctx, "user-123")
	ctx = WithTenantID(ctx, "tenant-456")
	ctx = WithSessionID(ctx, "sess-789")
	ctx = WithBridgeAttempt(ctx, 3)
	ctx = WithOnboardingStep(ctx, "subscription")

	cl.WithContext(ctx).Info("test message")

	var logEntry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("failed to parse log output: %v", err)
	}

	tests := []struct {
		key      string
		expected any
	}{
		{"user_id", "user-123"},
		{"hub.tenant.id", "tenant-456"},
		{"hub.session.id", "sess-789"},
		{"hub.bridge.attempt", float64(3)},
		{"hub.onboarding.step", "subscription"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, ok := logEntry[tt.key]
			if !ok {
				t.Errorf("expected key %q to be present in log", tt.key)
				return
			}
			if got != tt.expected {
				t.Errorf("expected %q to be %v, got %v", tt.key, tt.expected, got)
			}
		})
	}
}

func TestContextLogger_WithContext_PartialKeys(t *testing.T) {
	var buf bytes.Buffer
	cl := NewContextLogger(slog.New(slog.NewJSONHandler(&buf, nil)))

	ctx := WithUserID(context.Background(), "user-only")

	cl.WithContext(ctx).Info("test message")

	var logEntry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("failed to parse log output: %v", err)
	}

	if got, ok := logEntry["user_id"]; !ok || got != "user-only" {
		t.Errorf("expected user_id to be 'user-only', got %v", got)
	}

	for _, key := range []string{"hub.tenant.id", "hub.session.id", "hub.bridge.attempt", "hub.onboarding.step"} {
		if _, ok := logEntry[key]; ok {
			t.Errorf("expected key %q to not be present in log", key)
		}
	}
}

func TestContextLogger_LogDuration(t *testing.T) {
	var buf bytes.Buffer
	cl := NewContextLogger(slog.New(slog.NewJSONHandler(&buf, nil)))

	ctx := WithUserID(context.Background(), "user-timing")

	cl.LogDuration(ctx, "bridge_resolve", 25)

	var logEntry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("failed to parse log output: %v", err)
	}

	if got := logEntry["operation"]; got != "bridge_resolve" {
		t.Errorf("expected operation to be 'bridge_resolve', got %v", got)
	}
	if got := logEntry["duration_ms"]; got != float64(25) {
		t.Errorf("expected duration_ms to be 25, got %v", got)
	}
	if got := logEntry["user_id"]; got != "user-timing" {
		t.Errorf("expected user_id to be 'user-timing', got %v", got)
	}
}

func TestContextLogger_LogError(t *testing.T) {
	var buf bytes.Buffer
	cl := NewContextLogger(slog.New(slog.NewJSONHandler(&buf, nil)))

	ctx := WithTenantID(context.Background(), "tenant-error")

	cl.LogError(ctx, "draft_save_failed", errors.New("store closed"))

	var logEntry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("failed to parse log output: %v", err)
	}

	if got := logEntry["operation"]; got != "draft_save_failed" {
		t.Errorf("expected operation to be 'draft_save_failed', got %v", got)
	}
	if got := logEntry["hub.tenant.id"]; got != "tenant-error" {
		t.Errorf("expected hub.tenant.id to be 'tenant-error', got %v", got)
	}
}

func TestInit_ReturnsUsableLogger(t *testing.T) {
	logger := Init(false)
	if logger == nil {
		t.Fatal("expected non-nil logger")
	}
	if GlobalContext == nil {
		t.Fatal("expected GlobalContext to be set")
	}
}
