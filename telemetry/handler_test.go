package telemetry

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/freekieb7/hello/test"
)

func TestFanoutHandlerLevel(t *testing.T) {
	var first, second bytes.Buffer
	logger := slog.New(newFanoutHandler(slog.LevelInfo,
		slog.NewTextHandler(&first, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewTextHandler(&second, &slog.HandlerOptions{Level: slog.LevelDebug}),
	))

	logger.Debug("connection accepted")
	test.AssertEqual(t, 0, first.Len())
	test.AssertEqual(t, 0, second.Len())

	logger.Info("listening", "addr", "127.0.0.1:7878")
	for _, out := range []string{first.String(), second.String()} {
		if !strings.Contains(out, "msg=listening") || !strings.Contains(out, "addr=127.0.0.1:7878") {
			t.Errorf("record missing from output: %q", out)
		}
	}
}

func TestFanoutHandlerDebug(t *testing.T) {
	var out bytes.Buffer
	logger := slog.New(newFanoutHandler(slog.LevelDebug,
		slog.NewTextHandler(&out, &slog.HandlerOptions{Level: slog.LevelDebug}),
	))

	logger.Debug("connection accepted")
	if !strings.Contains(out.String(), "connection accepted") {
		t.Errorf("debug record missing: %q", out.String())
	}
}

func TestFanoutHandlerRespectsInnerLevel(t *testing.T) {
	var verbose, quiet bytes.Buffer
	logger := slog.New(newFanoutHandler(slog.LevelDebug,
		slog.NewTextHandler(&verbose, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewTextHandler(&quiet, &slog.HandlerOptions{Level: slog.LevelWarn}),
	))

	logger.Info("request served")
	if verbose.Len() == 0 {
		t.Error("expected the debug handler to receive the record")
	}
	test.AssertEqual(t, 0, quiet.Len())
}

func TestFanoutHandlerWithAttrsAndGroup(t *testing.T) {
	var out bytes.Buffer
	logger := slog.New(newFanoutHandler(nil, slog.NewTextHandler(&out, nil))).
		With("server", "hello").
		WithGroup("conn")

	logger.Info("dropped", "id", "42")
	if !strings.Contains(out.String(), "server=hello") || !strings.Contains(out.String(), "conn.id=42") {
		t.Errorf("unexpected output: %q", out.String())
	}
}
