package log

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func TestNewWithOutput(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewWithOutput(&buf, "warn")
	if err != nil {
		t.Fatal(err)
	}

	l.Infof("hidden %d", 1)
	WithComponent(l, "mmu").Warnf("write to 0x%04X", 0x1234)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("expected info to be filtered at warn level, got %q", out)
	}
	if !strings.Contains(out, "write to 0x1234") || !strings.Contains(out, "component=mmu") {
		t.Errorf("expected a scoped warning, got %q", out)
	}
}

func TestNewWithOutput_InvalidLevel(t *testing.T) {
	if _, err := NewWithOutput(&bytes.Buffer{}, "loud"); err == nil {
		t.Errorf("expected an error for an unknown level")
	}
}

func TestWithComponent_Hook(t *testing.T) {
	l, hook := test.NewNullLogger()
	WithComponent(l, "timer").Errorf("boom")

	entry := hook.LastEntry()
	if entry == nil || entry.Level != logrus.ErrorLevel {
		t.Fatalf("expected an error entry, got %v", entry)
	}
	if entry.Data["component"] != "timer" {
		t.Errorf("expected component field to be timer, got %v", entry.Data["component"])
	}
}

func TestWithComponent_NullLogger(t *testing.T) {
	l := NewNullLogger()
	if WithComponent(l, "cpu") != l {
		t.Errorf("expected the null logger to be returned unchanged")
	}
}
