package logging

import (
	"testing"

	"go.uber.org/zap"
)

func TestInitLevelFallback(t *testing.T) {
	l, err := Init("nonsense", "dev", "portal")
	if err != nil {
		t.Fatal(err)
	}
	defer l.Closer()
	if l.Level.Level() != zap.InfoLevel {
		t.Fatalf("expected info fallback, got %s", l.Level.Level())
	}

	l, err = Init("DEBUG", "prod", "")
	if err != nil {
		t.Fatal(err)
	}
	defer l.Closer()
	if l.Level.Level() != zap.DebugLevel {
		t.Fatalf("expected debug, got %s", l.Level.Level())
	}
}

func TestOrNop(t *testing.T) {
	if OrNop(nil) == nil {
		t.Fatal("expected nop logger")
	}
	l := zap.NewExample()
	if OrNop(l) != l {
		t.Fatal("expected same logger")
	}
}
