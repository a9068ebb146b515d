package main

import (
	"io"
	"testing"
	"time"

	"github.com/freekieb7/hello/http"
	"github.com/freekieb7/hello/site"
	"github.com/freekieb7/hello/test"
)

func env(vars map[string]string) func(string) string {
	return func(key string) string {
		return vars[key]
	}
}

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := parseConfig(nil, env(nil), io.Discard)
	if err != nil {
		t.Fatal(err)
	}

	test.AssertEqual(t, http.DefaultAddr, cfg.Addr)
	test.AssertEqual(t, "127.0.0.1:7878", cfg.Addr)
	test.AssertEqual(t, ".", cfg.Root)
	test.AssertEqual(t, site.DefaultSleepDelay, cfg.SleepDelay)
	test.AssertEqual(t, 0, cfg.MaxConcurrency)
	test.AssertEqual(t, false, cfg.Telemetry)
	test.AssertEqual(t, false, cfg.Debug)
}

func TestParseConfigEnvironment(t *testing.T) {
	cfg, err := parseConfig(nil, env(map[string]string{
		"HELLO_ADDR":                  "127.0.0.1:9000",
		"HELLO_ROOT":                  "/srv/hello",
		"HELLO_SLEEP":                 "250ms",
		"HELLO_MAX_CONCURRENCY":       "4",
		"HELLO_DEBUG":                 "true",
		"OTEL_EXPORTER_OTLP_ENDPOINT": "http://localhost:4317",
	}), io.Discard)
	if err != nil {
		t.Fatal(err)
	}

	test.AssertEqual(t, "127.0.0.1:9000", cfg.Addr)
	test.AssertEqual(t, "/srv/hello", cfg.Root)
	test.AssertEqual(t, 250*time.Millisecond, cfg.SleepDelay)
	test.AssertEqual(t, 4, cfg.MaxConcurrency)
	test.AssertEqual(t, true, cfg.Debug)
	test.AssertEqual(t, true, cfg.Telemetry)
}

func TestParseConfigFlagsOverrideEnvironment(t *testing.T) {
	cfg, err := parseConfig(
		[]string{"-addr", "127.0.0.1:0", "-sleep", "1s", "-max-concurrency", "8"},
		env(map[string]string{"HELLO_ADDR": "127.0.0.1:9000", "HELLO_SLEEP": "2s"}),
		io.Discard,
	)
	if err != nil {
		t.Fatal(err)
	}

	test.AssertEqual(t, "127.0.0.1:0", cfg.Addr)
	test.AssertEqual(t, time.Second, cfg.SleepDelay)
	test.AssertEqual(t, 8, cfg.MaxConcurrency)
}

func TestParseConfigInvalid(t *testing.T) {
	cases := []struct {
		name string
		args []string
		env  map[string]string
	}{
		{name: "bad sleep env", env: map[string]string{"HELLO_SLEEP": "soon"}},
		{name: "bad concurrency env", env: map[string]string{"HELLO_MAX_CONCURRENCY": "many"}},
		{name: "bad debug env", env: map[string]string{"HELLO_DEBUG": "sometimes"}},
		{name: "negative sleep", args: []string{"-sleep", "-1s"}},
		{name: "negative concurrency", args: []string{"-max-concurrency", "-1"}},
		{name: "concurrency above pool size", args: []string{"-max-concurrency", "100000"}},
		{name: "empty addr", args: []string{"-addr", ""}},
		{name: "unknown flag", args: []string{"-port", "80"}},
		{name: "positional argument", args: []string{"extra"}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := parseConfig(c.args, env(c.env), io.Discard); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
