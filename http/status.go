package http

import (
	"strconv"
	"strings"
)

const (
	StatusOK                  uint16 = 200 // RFC 7231, 6.3.1
	StatusBadRequest          uint16 = 400 // RFC 7231, 6.5.1
	StatusNotFound            uint16 = 404 // RFC 7231, 6.5.4
	StatusInternalServerError uint16 = 500 // RFC 7231, 6.6.1
	StatusServiceUnavailable  uint16 = 503 // RFC 7231, 6.6.4
)

var (
	unknownStatusCode = "Unknown Status Code"

	statusMessages = map[uint16]string{
		StatusOK:                  "OK",
		StatusBadRequest:          "Bad Request",
		StatusNotFound:            "Not Found",
		StatusInternalServerError: "Internal Server Error",
		StatusServiceUnavailable:  "Service Unavailable",
	}

	statusLines = map[uint16][]byte{}
)

func init() {
	for status := range statusMessages {
		statusLines[status] = buildStatusLine(status)
	}
}

func StatusText(status uint16) string {
	if message, found := statusMessages[status]; found {
		return message
	}
	return unknownStatusCode
}

// StatusLine is the complete response preamble for status: protocol, code,
// upper-cased reason and the blank line that ends the (empty) header block.
func StatusLine(status uint16) []byte {
	if line, found := statusLines[status]; found {
		return line
	}
	return buildStatusLine(status)
}

func buildStatusLine(status uint16) []byte {
	line := make([]byte, 0, 32)
	line = append(line, protocolHttp11...)
	line = append(line, ' ')
	line = strconv.AppendUint(line, uint64(status), 10)
	line = append(line, ' ')
	line = append(line, strings.ToUpper(StatusText(status))...)
	line = append(line, crlf...)
	line = append(line, crlf...)
	return line
}
