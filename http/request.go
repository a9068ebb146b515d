package http

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

// Request holds the raw bytes of one inbound read. Nothing is parsed beyond
// prefix checks.
type Request struct {
	Buffer [RequestBufferSize]byte
	n      int
}

// Read fills the buffer with a single read from r. Short reads are not
// retried and io.EOF is not an error: the buffer simply stays short.
func (req *Request) Read(r io.Reader) error {
	n, err := r.Read(req.Buffer[:])
	req.n = n
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("http: read request: %w", err)
	}

	return nil
}

func (req *Request) Len() int {
	return req.n
}

func (req *Request) Bytes() []byte {
	return req.Buffer[:req.n]
}

func (req *Request) HasPrefix(prefix []byte) bool {
	return bytes.HasPrefix(req.Bytes(), prefix)
}

// RequestLine returns the first line of the request without its line ending,
// or everything read when no line ending arrived.
func (req *Request) RequestLine() []byte {
	line := req.Bytes()
	if i := bytes.Index(line, crlf); i >= 0 {
		return line[:i]
	}
	return line
}

func (req *Request) Reset() {
	clear(req.Buffer[:])
	req.n = 0
}

// RequestLinePrefix is the exact bytes a request for method and path starts
// with.
func RequestLinePrefix(method, path string) []byte {
	prefix := make([]byte, 0, len(method)+len(path)+len(protocolHttp11)+4)
	prefix = append(prefix, method...)
	prefix = append(prefix, ' ')
	prefix = append(prefix, path...)
	prefix = append(prefix, ' ')
	prefix = append(prefix, protocolHttp11...)
	prefix = append(prefix, crlf...)
	return prefix
}
