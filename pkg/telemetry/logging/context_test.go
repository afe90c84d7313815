package logging

import (
	"context"
	"testing"
)

func TestContextKeys(t *testing.T) {
	ctx := context.Background()
	ctx = WithRequestID(ctx, "req-1")
	ctx = WithSource(ctx, "api")
	ctx = WithTraceID(ctx, "trace-1")

	if GetRequestID(ctx) != "req-1" {
		t.Errorf("GetRequestID() = %q", GetRequestID(ctx))
	}
	if GetSource(ctx) != "api" {
		t.Errorf("GetSource() = %q", GetSource(ctx))
	}
	if GetTraceID(ctx) != "trace-1" {
		t.Errorf("GetTraceID() = %q", GetTraceID(ctx))
	}
}

func TestContextKeys_Empty(t *testing.T) {
	ctx := context.Background()
	if GetRequestID(ctx) != "" || GetSource(ctx) != "" || GetTraceID(ctx) != "" {
		t.Error("empty context must yield empty values")
	}
	if fields := extractContextFields(ctx); len(fields) != 0 {
		t.Errorf("extractContextFields() = %v, want none", fields)
	}
}

func TestExtractContextFields(t *testing.T) {
	ctx := WithSource(WithRequestID(context.Background(), "req-9"), "a.ttl")
	fields := extractContextFields(ctx)

	want := []any{"request_id", "req-9", "source", "a.ttl"}
	if len(fields) != len(want) {
		t.Fatalf("extractContextFields() = %v, want %v", fields, want)
	}
	for i := range want {
		if fields[i] != want[i] {
			t.Errorf("field %d = %v, want %v", i, fields[i], want[i])
		}
	}
}

func TestContextOverwrite(t *testing.T) {
	ctx := WithRequestID(context.Background(), "first")
	ctx = WithRequestID(ctx, "second")
	if GetRequestID(ctx) != "second" {
		t.Errorf("GetRequestID() = %q, want second", GetRequestID(ctx))
	}
}
