package logger

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger_EnvironmentDefaults(t *testing.T) {
	prod, err := NewLogger("prod", "")
	if err != nil {
		t.Fatalf("NewLogger(prod): %v", err)
	}
	if prod.Core().Enabled(zapcore.DebugLevel) {
		t.Error("prod logger has debug enabled by default")
	}

	local, err := NewLogger("local", "")
	if err != nil {
		t.Fatalf("NewLogger(local): %v", err)
	}
	if !local.Core().Enabled(zapcore.DebugLevel) {
		t.Error("local logger has debug disabled")
	}
}

func TestNewLogger_LevelOverride(t *testing.T) {
	l, err := NewLogger("prod", "debug")
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	if !l.Core().Enabled(zapcore.DebugLevel) {
		t.Error("level override to debug not applied")
	}

	if _, err := NewLogger("prod", "verbose"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestContextCarrier(t *testing.T) {
	l := zap.NewNop()
	ctx := WithLogger(context.Background(), l)
	if got := FromContext(ctx); got != l {
		t.Error("FromContext did not return the attached logger")
	}

	if got := FromContext(context.Background()); got == nil {
		t.Error("FromContext returned nil for a bare context")
	}

	fallback := zap.NewNop()
	if got := FromContextOr(context.Background(), fallback); got != fallback {
		t.Error("FromContextOr did not use the fallback")
	}
	if got := FromContextOr(ctx, fallback); got != l {
		t.Error("FromContextOr ignored the attached logger")
	}
}
