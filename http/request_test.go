package http

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/freekieb7/hello/test"
)

func TestRequestRead(t *testing.T) {
	var req Request

	reqMsg := []byte("GET / HTTP/1.1\r\nHost: localhost\r\n\r\n")

	if err := req.Read(bytes.NewReader(reqMsg)); err != nil {
		t.Fatal(err)
	}

	test.AssertEqual(t, len(reqMsg), req.Len())
	test.AssertBytes(t, reqMsg, req.Bytes())
	test.AssertBytes(t, []byte("GET / HTTP/1.1"), req.RequestLine())

	if !req.HasPrefix([]byte("GET / HTTP/1.1\r\n")) {
		t.Error("expected request to start with the request line")
	}
}

func TestRequestReadIsCappedAtBufferSize(t *testing.T) {
	var req Request

	reqMsg := []byte("GET / HTTP/1.1\r\n" + strings.Repeat("x", 2*RequestBufferSize))

	if err := req.Read(bytes.NewReader(reqMsg)); err != nil {
		t.Fatal(err)
	}

	test.AssertEqual(t, RequestBufferSize, req.Len())
	test.AssertBytes(t, reqMsg[:RequestBufferSize], req.Bytes())
}

func TestRequestReadOnlyOnce(t *testing.T) {
	var req Request

	// Two packets: only the first one is looked at.
	r := io.MultiReader(strings.NewReader("GET /sl"), strings.NewReader("eep HTTP/1.1\r\n"))

	if err := req.Read(r); err != nil {
		t.Fatal(err)
	}

	test.AssertBytes(t, []byte("GET /sl"), req.Bytes())
	if req.HasPrefix(RequestLinePrefix(MethodGet, "/sleep")) {
		t.Error("split request must not be reassembled")
	}
}

func TestRequestReadEOF(t *testing.T) {
	var req Request

	if err := req.Read(bytes.NewReader(nil)); err != nil {
		t.Fatalf("io.EOF should not be an error, got %v", err)
	}
	test.AssertEqual(t, 0, req.Len())
	test.AssertEqual(t, 0, len(req.RequestLine()))
}

func TestRequestReadError(t *testing.T) {
	var req Request

	conn := test.NewMockConn(nil)
	conn.ReadErr = io.ErrUnexpectedEOF

	err := req.Read(conn)
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("expected wrapped io.ErrUnexpectedEOF, got %v", err)
	}
}

func TestRequestReset(t *testing.T) {
	var req Request

	req.Read(strings.NewReader("GET /sleep HTTP/1.1\r\n"))
	req.Reset()

	test.AssertEqual(t, 0, req.Len())
	if !bytes.Equal(req.Buffer[:], make([]byte, RequestBufferSize)) {
		t.Error("buffer should be zeroed after reset")
	}
}

func TestRequestLinePrefix(t *testing.T) {
	test.AssertBytes(t, []byte("GET / HTTP/1.1\r\n"), RequestLinePrefix(MethodGet, "/"))
	test.AssertBytes(t, []byte("GET /sleep HTTP/1.1\r\n"), RequestLinePrefix(MethodGet, "/sleep"))
}

func BenchmarkRequestRead(b *testing.B) {
	reqMsg := []byte("GET /sleep HTTP/1.1\r\nAccept: text/html\r\nConnection: keep-alive\r\n\r\n")
	var req Request

	reader := bytes.NewReader(reqMsg)

	for b.Loop() {
		reader.Reset(reqMsg)
		req.Reset()

		if err := req.Read(reader); err != nil {
			b.Error(err)
		}
	}
}
