package observability

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestNewLogger_LevelOverride(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")
	if l := NewLogger("prod"); l.GetLevel() != zerolog.WarnLevel {
		t.Fatalf("expected warn level, got %s", l.GetLevel())
	}

	t.Setenv("LOG_LEVEL", "nonsense")
	if l := NewLogger("dev"); l.GetLevel() != zerolog.InfoLevel {
		t.Fatalf("expected info default, got %s", l.GetLevel())
	}
}
