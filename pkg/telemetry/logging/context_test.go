package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestContextKeys(t *testing.T) {
	ctx := context.Background()

	// Test RequestID
	ctx = WithRequestID(ctx, "req-123")
	if got := GetRequestID(ctx); got != "req-123" {
		t.Errorf("GetRequestID() = %q, want %q", got, "req-123")
	}

	// Test TargetHost
	ctx = WithTargetHost(ctx, "origin.example.com")
	if got := GetTargetHost(ctx); got != "origin.example.com" {
		t.Errorf("GetTargetHost() = %q, want %q", got, "origin.example.com")
	}

	// Test Preset
	ctx = WithPreset(ctx, "avatar")
	if got := GetPreset(ctx); got != "avatar" {
		t.Errorf("GetPreset() = %q, want %q", got, "avatar")
	}

	// Test TraceID
	ctx = WithTraceID(ctx, "trace-abc")
	if got := GetTraceID(ctx); got != "trace-abc" {
		t.Errorf("GetTraceID() = %q, want %q", got, "trace-abc")
	}

	// Test SpanID
	ctx = WithSpanID(ctx, "span-def")
	if got := GetSpanID(ctx); got != "span-def" {
		t.Errorf("GetSpanID() = %q, want %q", got, "span-def")
	}
}

func TestContextKeys_Empty(t *testing.T) {
	ctx := context.Background()

	// Test that getters return empty strings for missing values
	tests := []struct {
		name string
		get  func(context.Context) string
	}{
		{"RequestID", GetRequestID},
		{"TargetHost", GetTargetHost},
		{"Preset", GetPreset},
		{"TraceID", GetTraceID},
		{"SpanID", GetSpanID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.get(ctx); got != "" {
				t.Errorf("Get%s() = %q, want empty string", tt.name, got)
			}
		})
	}
}

func TestExtractContextFields(t *testing.T) {
	tests := []struct {
		name       string
		setupCtx   func(context.Context) context.Context
		wantFields map[string]string
	}{
		{
			name: "empty context",
			setupCtx: func(ctx context.Context) context.Context {
				return ctx
			},
			wantFields: map[string]string{},
		},
		{
			name: "request ID only",
			setupCtx: func(ctx context.Context) context.Context {
				return WithRequestID(ctx, "req-123")
			},
			wantFields: map[string]string{
				"request_id": "req-123",
			},
		},
		{
			name: "multiple fields",
			setupCtx: func(ctx context.Context) context.Context {
				ctx = WithRequestID(ctx, "req-456")
				ctx = WithTargetHost(ctx, "origin.example.com")
				ctx = WithPreset(ctx, "preview")
				return ctx
			},
			wantFields: map[string]string{
				"request_id":  "req-456",
				"target_host": "origin.example.com",
				"preset":      "preview",
			},
		},
		{
			name: "all fields",
			setupCtx: func(ctx context.Context) context.Context {
				ctx = WithRequestID(ctx, "req-789")
				ctx = WithTargetHost(ctx, "cdn.example.net")
				ctx = WithPreset(ctx, "static")
				ctx = WithTraceID(ctx, "trace-1")
				ctx = WithSpanID(ctx, "span-1")
				return ctx
			},
			wantFields: map[string]string{
				"request_id":  "req-789",
				"target_host": "cdn.example.net",
				"preset":      "static",
				"trace_id":    "trace-1",
				"span_id":     "span-1",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := tt.setupCtx(context.Background())
			fields := extractContextFields(ctx)

			// Convert []any to map for easier checking
			fieldsMap := make(map[string]string)
			for i := 0; i < len(fields); i += 2 {
				key := fields[i].(string)
				value := fields[i+1].(string)
				fieldsMap[key] = value
			}

			// Check expected fields are present
			for key, expectedValue := range tt.wantFields {
				if gotValue, ok := fieldsMap[key]; !ok {
					t.Errorf("Expected field %q not found", key)
				} else if gotValue != expectedValue {
					t.Errorf("Field %q = %q, want %q", key, gotValue, expectedValue)
				}
			}

			// Check no extra fields
			if len(fieldsMap) != len(tt.wantFields) {
				t.Errorf("Got %d fields, want %d. Fields: %v",
					len(fieldsMap), len(tt.wantFields), fieldsMap)
			}
		})
	}
}

func TestContextLogger(t *testing.T) {
	ctx := context.Background()
	ctx = WithRequestID(ctx, "req-cl-1")
	ctx = WithTargetHost(ctx, "origin.example.com")

	buf := &bytes.Buffer{}
	logger, err := New(Config{
		Level:  "debug",
		Format: "json",
		Writer: buf,
	})
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}

	ctxLogger := NewContextLogger(logger, ctx)
	if ctxLogger == nil {
		t.Fatal("NewContextLogger returned nil")
	}

	tests := []struct {
		name   string
		method func(string, ...any)
	}{
		{"Debug", ctxLogger.Debug},
		{"Info", ctxLogger.Info},
		{"Warn", ctxLogger.Warn},
		{"Error", ctxLogger.Error},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.method("test message")

			output := buf.String()
			if !strings.Contains(output, "req-cl-1") {
				t.Errorf("%s output missing request_id: %s", tt.name, output)
			}
			if !strings.Contains(output, "origin.example.com") {
				t.Errorf("%s output missing target_host: %s", tt.name, output)
			}
		})
	}
}

func TestContextLogger_FieldsAttachedOnce(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-once")

	buf := &bytes.Buffer{}
	logger, err := New(Config{
		Level:  "info",
		Format: "json",
		Writer: buf,
	})
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}

	ctxLogger := NewContextLogger(logger, ctx)
	ctxLogger.Info("test message")

	output := buf.String()
	if got := strings.Count(output, "req-once"); got != 1 {
		t.Errorf("request_id appears %d times, want 1: %s", got, output)
	}
}

func TestContextLogger_With(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-with-1")

	buf := &bytes.Buffer{}
	logger, err := New(Config{
		Level:  "info",
		Format: "json",
		Writer: buf,
	})
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}

	ctxLogger := NewContextLogger(logger, ctx)

	// Create child logger with additional fields
	childLogger := ctxLogger.With("format", "webp", "bytes", 42)
	if childLogger == nil {
		t.Fatal("ContextLogger.With returned nil")
	}

	childLogger.Info("test message")

	output := buf.String()
	for _, want := range []string{"req-with-1", "format", "webp", "bytes", "42"} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected %q in output: %s", want, output)
		}
	}
}

func TestContextChaining(t *testing.T) {
	// Test that context values can be added incrementally
	ctx := context.Background()
	ctx = WithRequestID(ctx, "req-chain-1")
	ctx = WithTargetHost(ctx, "host1.example.com")

	// Verify all values are present
	if got := GetRequestID(ctx); got != "req-chain-1" {
		t.Errorf("After chaining, GetRequestID() = %q, want %q", got, "req-chain-1")
	}
	if got := GetTargetHost(ctx); got != "host1.example.com" {
		t.Errorf("After chaining, GetTargetHost() = %q, want %q", got, "host1.example.com")
	}

	// Add more values
	ctx = WithPreset(ctx, "emoji")

	if got := GetPreset(ctx); got != "emoji" {
		t.Errorf("After more chaining, GetPreset() = %q, want %q", got, "emoji")
	}

	// Verify original values still present
	if got := GetRequestID(ctx); got != "req-chain-1" {
		t.Errorf("Original value changed: GetRequestID() = %q, want %q", got, "req-chain-1")
	}
}

func TestContextOverwrite(t *testing.T) {
	// Test that context values can be overwritten
	ctx := context.Background()
	ctx = WithRequestID(ctx, "req-old")

	if got := GetRequestID(ctx); got != "req-old" {
		t.Errorf("Initial GetRequestID() = %q, want %q", got, "req-old")
	}

	// Overwrite with new value
	ctx = WithRequestID(ctx, "req-new")

	if got := GetRequestID(ctx); got != "req-new" {
		t.Errorf("After overwrite, GetRequestID() = %q, want %q", got, "req-new")
	}
}

func BenchmarkExtractContextFields(b *testing.B) {
	ctx := context.Background()
	ctx = WithRequestID(ctx, "req-bench")
	ctx = WithTargetHost(ctx, "origin.example.com")
	ctx = WithPreset(ctx, "avatar")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = extractContextFields(ctx)
	}
}

func BenchmarkWithRequestID(b *testing.B) {
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = WithRequestID(ctx, "req-123")
	}
}

func BenchmarkGetRequestID(b *testing.B) {
	ctx := WithRequestID(context.Background(), "req-123")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = GetRequestID(ctx)
	}
}
