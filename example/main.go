// Command example asks a running hello server for /sleep and / at the same
// time and prints the order in which the answers arrive. On a server that
// handles connections concurrently "/" finishes first.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	nethttp "net/http"
	"os"
	"os/signal"
	"sync"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/freekieb7/hello/http"
	"github.com/freekieb7/hello/telemetry"
)

const name = "github.com/freekieb7/hello/example"

func main() {
	if err := run(); err != nil {
		log.Fatalln(err)
	}
}

func run() (err error) {
	addr := flag.String("addr", http.DefaultAddr, "server address")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if telemetry.Enabled(os.Getenv) {
		shutdown, setupErr := telemetry.Setup(ctx, "hello-example")
		if setupErr != nil {
			return setupErr
		}
		defer func() {
			if shutdownErr := shutdown(context.Background()); shutdownErr != nil && err == nil {
				err = shutdownErr
			}
		}()
	}

	client := &nethttp.Client{
		Transport: otelhttp.NewTransport(nethttp.DefaultTransport),
		Timeout:   time.Minute,
	}

	ctx, span := otel.Tracer(name).Start(ctx, "compare")
	defer span.End()

	start := time.Now()
	results := make(chan string, 2)

	var wg sync.WaitGroup
	for _, path := range []string{"/sleep", "/"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			status, err := fetch(ctx, client, "http://"+*addr+path)
			if err != nil {
				results <- fmt.Sprintf("%-6s failed after %v: %v", path, time.Since(start).Round(time.Millisecond), err)
				return
			}
			results <- fmt.Sprintf("%-6s %s after %v", path, status, time.Since(start).Round(time.Millisecond))
		}()
		// Give /sleep a head start so the server sees it first.
		time.Sleep(10 * time.Millisecond)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	for result := range results {
		fmt.Println(result)
	}

	return nil
}

func fetch(ctx context.Context, client *nethttp.Client, url string) (string, error) {
	req, err := nethttp.NewRequestWithContext(ctx, nethttp.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	res, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	n, err := io.Copy(io.Discard, res.Body)
	if err != nil {
		return "", err
	}

	trace.SpanFromContext(ctx).AddEvent("response", trace.WithAttributes(
		attribute.String("url", url),
		attribute.Int64("body.size", n),
	))

	return res.Status, nil
}
