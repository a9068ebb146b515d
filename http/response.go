package http

import (
	"fmt"
)

type Response struct {
	Status uint16
	Body   []byte
}

func (res *Response) WithStatus(status uint16) *Response {
	res.Status = status
	return res
}

func (res *Response) WithBody(body []byte) *Response {
	res.Body = body
	return res
}

// Bytes is the response as it goes on the wire.
func (res *Response) Bytes() []byte {
	statusLine := StatusLine(res.Status)

	buf := make([]byte, 0, len(statusLine)+len(res.Body))
	buf = append(buf, statusLine...)
	buf = append(buf, res.Body...)
	return buf
}

// Write writes the whole response with one Write call and flushes it.
func (res *Response) Write(conn Conn) error {
	if _, err := conn.Write(res.Bytes()); err != nil {
		return fmt.Errorf("http: write response: %w", err)
	}

	if err := conn.Flush(); err != nil {
		return fmt.Errorf("http: flush response: %w", err)
	}

	return nil
}

func (res *Response) Reset() {
	res.Status = StatusOK
	res.Body = nil
}
