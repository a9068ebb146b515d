package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var ErrServerClosed = errors.New("http: server closed")

type Server struct {
	Name    string
	Handler Handler

	// MaxConcurrency caps the number of connections handled at once. Zero
	// means no limit: every accepted connection gets its goroutine right away.
	MaxConcurrency int

	Logger         *slog.Logger
	TracerProvider trace.TracerProvider
	MeterProvider  metric.MeterProvider

	RequestCtxPool sync.Pool

	initOnce sync.Once
	initErr  error
	inst     instruments
	workers  *WorkerPool

	ctx    context.Context
	cancel context.CancelFunc

	mu         sync.Mutex
	listeners  map[net.Listener]struct{}
	inShutdown atomic.Bool
	inFlight   sync.WaitGroup
	active     atomic.Int64
}

func NewServer(name string, handler Handler) *Server {
	return &Server{
		Name:    name,
		Handler: handler,
	}
}

func (s *Server) init() error {
	s.initOnce.Do(func() {
		s.ctx, s.cancel = context.WithCancel(context.Background())
		s.listeners = make(map[net.Listener]struct{})
		if s.Logger == nil {
			s.Logger = slog.Default()
		}
		if s.Handler == nil {
			s.Handler = NotFoundHandler
		}
		s.RequestCtxPool.New = func() any {
			return new(RequestCtx)
		}

		s.inst, s.initErr = newInstruments(s.TracerProvider, s.MeterProvider)
		if s.initErr != nil {
			return
		}

		if s.MaxConcurrency > 0 {
			s.workers, s.initErr = NewWorkerPool(s.MaxConcurrency)
		}
	})

	return s.initErr
}

// ListenAndServe binds addr (DefaultAddr when empty) and serves it until
// Shutdown.
func (s *Server) ListenAndServe(addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("http: bind %s: %w", addr, err)
	}

	return s.Serve(listener)
}

// Serve accepts connections on listener and handles each on its own
// goroutine without waiting for it. A failed accept is logged and retried
// after a backoff delay. Serve always returns a non-nil error; after Shutdown
// it is ErrServerClosed. The listener is closed on return.
func (s *Server) Serve(listener net.Listener) error {
	if err := s.init(); err != nil {
		listener.Close()
		return err
	}

	if !s.trackListener(listener, true) {
		listener.Close()
		return ErrServerClosed
	}
	defer s.trackListener(listener, false)

	s.Logger.Info("listening", "server", s.Name, "addr", listener.Addr().String(), "max_concurrency", s.MaxConcurrency)

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 5 * time.Millisecond
	bo.MaxInterval = time.Second
	bo.MaxElapsedTime = 0
	bo.Reset()

	for {
		reqCtx, err := s.acquire()
		if err != nil {
			if s.shuttingDown() {
				return ErrServerClosed
			}
			return err
		}

		conn, err := listener.Accept()
		if err != nil {
			s.release(reqCtx)

			if s.shuttingDown() {
				return ErrServerClosed
			}
			if errors.Is(err, net.ErrClosed) {
				return err
			}

			delay := bo.NextBackOff()
			s.Logger.Error("accept connection failed", "server", s.Name, "error", err, "retry_in", delay)

			timer := time.NewTimer(delay)
			select {
			case <-timer.C:
			case <-s.ctx.Done():
				timer.Stop()
				return ErrServerClosed
			}
			continue
		}
		bo.Reset()

		if !s.track() {
			conn.Close()
			s.release(reqCtx)
			return ErrServerClosed
		}
		s.inst.accepted.Add(s.ctx, 1)

		go func() {
			defer s.inFlight.Done()
			defer s.active.Add(-1)
			defer s.release(reqCtx)

			reqCtx.Reset(context.Background(), NewConn(conn))
			s.Logger.Debug("connection accepted", "server", s.Name,
				"connection_id", reqCtx.ID.String(), "remote_addr", conn.RemoteAddr().String())

			if err := s.serveConn(reqCtx); err != nil {
				s.Logger.Error("connection dropped", "server", s.Name,
					"connection_id", reqCtx.ID.String(), "error", err)
			}
		}()
	}
}

// ServeConn handles exactly one exchange on conn and closes it. It bypasses
// the concurrency ceiling.
func (s *Server) ServeConn(conn Conn) error {
	if err := s.init(); err != nil {
		conn.Close()
		return err
	}

	reqCtx := s.RequestCtxPool.Get().(*RequestCtx)
	defer func() {
		reqCtx.release()
		s.RequestCtxPool.Put(reqCtx)
	}()

	reqCtx.Reset(context.Background(), conn)
	return s.serveConn(reqCtx)
}

func (s *Server) serveConn(reqCtx *RequestCtx) (err error) {
	conn := reqCtx.Conn

	ctx, end := s.inst.startExchange(reqCtx)
	reqCtx.ctx = ctx

	defer func() {
		if closeErr := conn.Close(); closeErr != nil {
			s.Logger.DebugContext(ctx, "closing connection error", "connection_id", reqCtx.ID.String(), "error", closeErr)
		}
		end(err)
	}()
	defer func() {
		if r := recover(); r != nil {
			if rErr, ok := r.(error); ok {
				err = fmt.Errorf("http: handler panic: %w", rErr)
			} else {
				err = fmt.Errorf("http: handler panic: %v", r)
			}
		}
	}()

	if err := reqCtx.Request.Read(conn); err != nil {
		return err
	}

	s.Handler(reqCtx)

	if err := reqCtx.Response.Write(conn); err != nil {
		return err
	}

	s.Logger.DebugContext(ctx, "request served", "server", s.Name,
		"connection_id", reqCtx.ID.String(),
		"request_line", string(reqCtx.Request.RequestLine()),
		"status", reqCtx.Response.Status)

	return nil
}

// Shutdown stops accepting connections and waits until every connection
// being handled is done, or ctx is. Handlers are never interrupted.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.init(); err != nil {
		return err
	}

	var err error

	s.mu.Lock()
	s.inShutdown.Store(true)
	for listener := range s.listeners {
		if closeErr := listener.Close(); closeErr != nil && !errors.Is(closeErr, net.ErrClosed) {
			err = errors.Join(err, closeErr)
		}
	}
	s.mu.Unlock()
	s.cancel()

	done := make(chan struct{})
	go func() {
		s.inFlight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return err
	case <-ctx.Done():
		return errors.Join(err, ctx.Err())
	}
}

func (s *Server) shuttingDown() bool {
	return s.inShutdown.Load()
}

// track registers one more in-flight connection unless the server is shutting
// down. Registration and Shutdown are serialized so Wait never races an Add.
func (s *Server) track() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.shuttingDown() {
		return false
	}

	s.inFlight.Add(1)
	s.active.Add(1)
	return true
}

func (s *Server) trackListener(listener net.Listener, add bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if add {
		if s.shuttingDown() {
			return false
		}
		s.listeners[listener] = struct{}{}
		return true
	}

	delete(s.listeners, listener)
	listener.Close()
	return true
}

func (s *Server) acquire() (*RequestCtx, error) {
	if s.workers != nil {
		return s.workers.Acquire(s.ctx)
	}

	return s.RequestCtxPool.Get().(*RequestCtx), nil
}

func (s *Server) release(reqCtx *RequestCtx) {
	if s.workers != nil {
		s.workers.Release(reqCtx)
		return
	}

	reqCtx.release()
	s.RequestCtxPool.Put(reqCtx)
}

// InFlight is the number of accepted connections currently being handled.
func (s *Server) InFlight() int {
	return int(s.active.Load())
}
