// Package http serves a minimal HTTP/1.1-shaped protocol straight off TCP.
//
// A request is a single read of at most RequestBufferSize bytes that is
// classified by its byte prefix only. A response is a bare status line
// followed by the body, without header fields. Every accepted connection is
// handled by its own goroutine and carries exactly one exchange.
package http

const (
	RequestBufferSize      = 1024
	DefaultWriteBufferSize = 4096 // 4kB
	DefaultAddr            = "127.0.0.1:7878"
)

const MethodGet = "GET"

var (
	protocolHttp11 = []byte("HTTP/1.1")
	crlf           = []byte("\r\n")
)
