package test

import (
	"bytes"
	"errors"
	"io"
	"sync"
	"time"
)

var ErrConnClosed = errors.New("test: connection closed")

// MockConn is an in-memory connection. The first Read hands out the
// pre-loaded request bytes, every later Read reports io.EOF. Everything written
// is captured for inspection.
type MockConn struct {
	mu        sync.Mutex
	request   []byte
	consumed  bool
	written   bytes.Buffer
	writtenAt time.Time
	flushes   int
	closed    bool

	// ReadErr and WriteErr, when set, are returned by Read and Write.
	ReadErr  error
	WriteErr error
}

func NewMockConn(request []byte) *MockConn {
	return &MockConn{request: request}
}

func (conn *MockConn) Read(p []byte) (int, error) {
	conn.mu.Lock()
	defer conn.mu.Unlock()

	if conn.ReadErr != nil {
		return 0, conn.ReadErr
	}
	if conn.closed {
		return 0, ErrConnClosed
	}
	if conn.consumed {
		return 0, io.EOF
	}

	conn.consumed = true
	n := copy(p, conn.request)
	return n, nil
}

func (conn *MockConn) Write(p []byte) (int, error) {
	conn.mu.Lock()
	defer conn.mu.Unlock()

	if conn.WriteErr != nil {
		return 0, conn.WriteErr
	}
	if conn.closed {
		return 0, ErrConnClosed
	}

	if conn.written.Len() == 0 {
		conn.writtenAt = time.Now()
	}
	return conn.written.Write(p)
}

func (conn *MockConn) Flush() error {
	conn.mu.Lock()
	defer conn.mu.Unlock()

	if conn.closed {
		return ErrConnClosed
	}

	conn.flushes++
	return nil
}

func (conn *MockConn) Close() error {
	conn.mu.Lock()
	defer conn.mu.Unlock()

	conn.closed = true
	return nil
}

// Written returns a copy of everything written so far.
func (conn *MockConn) Written() []byte {
	conn.mu.Lock()
	defer conn.mu.Unlock()

	return bytes.Clone(conn.written.Bytes())
}

// WrittenAt is the time of the first write, zero if nothing was written.
func (conn *MockConn) WrittenAt() time.Time {
	conn.mu.Lock()
	defer conn.mu.Unlock()

	return conn.writtenAt
}

func (conn *MockConn) Flushes() int {
	conn.mu.Lock()
	defer conn.mu.Unlock()

	return conn.flushes
}

func (conn *MockConn) Closed() bool {
	conn.mu.Lock()
	defer conn.mu.Unlock()

	return conn.closed
}
