package test

import (
	"errors"
	"io"
	"testing"
)

func TestMockConnReadsOnce(t *testing.T) {
	conn := NewMockConn([]byte("GET / HTTP/1.1\r\n"))

	buf := make([]byte, 4)
	n, err := conn.Read(buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	AssertEqual(t, 4, n)
	AssertBytes(t, []byte("GET "), buf)

	// The rest of the request is dropped: one read only.
	if _, err := conn.Read(buf); err != io.EOF {
		t.Errorf("expected io.EOF, got %v", err)
	}
}

func TestMockConnCapturesWrites(t *testing.T) {
	conn := NewMockConn(nil)

	if !conn.WrittenAt().IsZero() {
		t.Error("WrittenAt should be zero before the first write")
	}

	conn.Write([]byte("HTTP/1.1 200 OK\r\n\r\n"))
	conn.Write([]byte("hello"))
	if err := conn.Flush(); err != nil {
		t.Fatal(err)
	}

	AssertBytes(t, []byte("HTTP/1.1 200 OK\r\n\r\nhello"), conn.Written())
	AssertEqual(t, 1, conn.Flushes())
	if conn.WrittenAt().IsZero() {
		t.Error("WrittenAt should be set after a write")
	}
}

func TestMockConnClose(t *testing.T) {
	conn := NewMockConn([]byte("x"))
	conn.Close()

	AssertEqual(t, true, conn.Closed())
	if _, err := conn.Write([]byte("x")); !errors.Is(err, ErrConnClosed) {
		t.Errorf("expected ErrConnClosed, got %v", err)
	}
	if _, err := conn.Read(make([]byte, 1)); !errors.Is(err, ErrConnClosed) {
		t.Errorf("expected ErrConnClosed, got %v", err)
	}
}

func TestMockConnInjectedErrors(t *testing.T) {
	boom := errors.New("boom")
	conn := NewMockConn([]byte("x"))
	conn.ReadErr = boom
	conn.WriteErr = boom

	if _, err := conn.Read(make([]byte, 1)); err != boom {
		t.Errorf("expected boom, got %v", err)
	}
	if _, err := conn.Write([]byte("x")); err != boom {
		t.Errorf("expected boom, got %v", err)
	}
}
