package graphcalc

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/gogpu/gg"
)

func TestSetLogger(t *testing.T) {
	t.Cleanup(func() { SetLogger(nil) })

	var buf bytes.Buffer
	l := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	SetLogger(l)

	if Logger() != l {
		t.Error("Logger() did not return the configured logger")
	}
	if gg.Logger() != l {
		t.Error("logger not forwarded to gg")
	}

	g := New(nil)
	g.Add("y = x")
	g.Lines()
	if !strings.Contains(buf.String(), "graphcalc: compiled") {
		t.Errorf("no compile log in %q", buf.String())
	}

	SetLogger(nil)
	if Logger().Enabled(context.Background(), slog.LevelError) {
		t.Error("SetLogger(nil) should restore the silent logger")
	}
}
