package http

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/freekieb7/hello/http"

type instruments struct {
	tracer   trace.Tracer
	accepted metric.Int64Counter
	active   metric.Int64UpDownCounter
	duration metric.Float64Histogram
}

func newInstruments(tp trace.TracerProvider, mp metric.MeterProvider) (instruments, error) {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	if mp == nil {
		mp = otel.GetMeterProvider()
	}

	meter := mp.Meter(instrumentationName)
	inst := instruments{tracer: tp.Tracer(instrumentationName)}

	var err error
	inst.accepted, err = meter.Int64Counter("hello.server.connections.accepted",
		metric.WithDescription("The number of accepted connections"),
		metric.WithUnit("{connection}"))
	if err != nil {
		return inst, err
	}

	inst.active, err = meter.Int64UpDownCounter("hello.server.connections.active",
		metric.WithDescription("The number of connections being handled"),
		metric.WithUnit("{connection}"))
	if err != nil {
		return inst, err
	}

	inst.duration, err = meter.Float64Histogram("hello.server.request.duration",
		metric.WithDescription("Time from accept until the response was flushed"),
		metric.WithUnit("s"))
	if err != nil {
		return inst, err
	}

	return inst, nil
}

// startExchange opens the span of one connection's exchange. The returned
// func ends it and records the outcome.
func (inst instruments) startExchange(reqCtx *RequestCtx) (context.Context, func(err error)) {
	start := time.Now()

	ctx, span := inst.tracer.Start(reqCtx.Context(), "ServeConn",
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(attribute.String("connection.id", reqCtx.ID.String())))
	inst.active.Add(ctx, 1)

	return ctx, func(err error) {
		route := reqCtx.Route
		if route == "" {
			route = "unmatched"
		}

		attrs := []attribute.KeyValue{
			attribute.String("http.route", route),
			attribute.Int("http.response.status_code", int(reqCtx.Response.Status)),
		}
		span.SetAttributes(attrs...)
		span.SetName("ServeConn " + route)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			attrs = append(attrs, attribute.Bool("error", true))
		}

		inst.active.Add(ctx, -1)
		inst.duration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(attrs...))
		span.End()
	}
}
