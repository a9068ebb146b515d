package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/freekieb7/hello/http"
	"github.com/freekieb7/hello/site"
	"github.com/freekieb7/hello/telemetry"
)

type Config struct {
	Addr           string
	Root           string
	SleepDelay     time.Duration
	MaxConcurrency int
	Telemetry      bool
	Debug          bool
}

// parseConfig reads flags from args. Environment variables supply the
// defaults so that flags always win.
func parseConfig(args []string, getenv func(string) string, output io.Writer) (Config, error) {
	defaults, err := configFromEnv(getenv)
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	fs := flag.NewFlagSet("hello", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&cfg.Addr, "addr", defaults.Addr, "address to listen on (HELLO_ADDR)")
	fs.StringVar(&cfg.Root, "root", defaults.Root, "directory holding "+site.HomeResource+" and "+site.NotFoundResource+" (HELLO_ROOT)")
	fs.DurationVar(&cfg.SleepDelay, "sleep", defaults.SleepDelay, "delay before answering /sleep (HELLO_SLEEP)")
	fs.IntVar(&cfg.MaxConcurrency, "max-concurrency", defaults.MaxConcurrency, "maximum connections handled at once, 0 means unbounded (HELLO_MAX_CONCURRENCY)")
	fs.BoolVar(&cfg.Telemetry, "otel", defaults.Telemetry, "export traces, metrics and logs over OTLP")
	fs.BoolVar(&cfg.Debug, "debug", defaults.Debug, "log every connection (HELLO_DEBUG)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if fs.NArg() > 0 {
		return Config{}, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	return cfg, cfg.validate()
}

func configFromEnv(getenv func(string) string) (Config, error) {
	cfg := Config{
		Addr:       http.DefaultAddr,
		Root:       ".",
		SleepDelay: site.DefaultSleepDelay,
		Telemetry:  telemetry.Enabled(getenv),
	}

	if v := getenv("HELLO_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := getenv("HELLO_ROOT"); v != "" {
		cfg.Root = v
	}
	if v := getenv("HELLO_SLEEP"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("HELLO_SLEEP: %w", err)
		}
		cfg.SleepDelay = d
	}
	if v := getenv("HELLO_MAX_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("HELLO_MAX_CONCURRENCY: %w", err)
		}
		cfg.MaxConcurrency = n
	}
	if v := getenv("HELLO_DEBUG"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("HELLO_DEBUG: %w", err)
		}
		cfg.Debug = b
	}

	return cfg, nil
}

func (c Config) validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("addr must not be empty"))
	}
	if c.SleepDelay < 0 {
		errs = append(errs, fmt.Errorf("sleep must not be negative, got %v", c.SleepDelay))
	}
	if c.MaxConcurrency < 0 || c.MaxConcurrency > http.WorkerPoolSize {
		errs = append(errs, fmt.Errorf("max-concurrency must be between 0 and %d, got %d", http.WorkerPoolSize, c.MaxConcurrency))
	}
	return errors.Join(errs...)
}

func defaultConfig() (Config, error) {
	return parseConfig(os.Args[1:], os.Getenv, os.Stderr)
}
