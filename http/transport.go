package http

import (
	"bufio"
	"io"
	"net"
)

// Conn is everything a connection handler needs from its transport.
type Conn interface {
	io.Reader
	io.Writer
	Flush() error
	Close() error
}

type netConn struct {
	conn net.Conn
	bw   *bufio.Writer
}

// NewConn wraps a network connection. Writes are buffered until Flush.
func NewConn(conn net.Conn) Conn {
	return &netConn{
		conn: conn,
		bw:   bufio.NewWriterSize(conn, DefaultWriteBufferSize),
	}
}

func (c *netConn) Read(p []byte) (int, error) {
	return c.conn.Read(p)
}

func (c *netConn) Write(p []byte) (int, error) {
	return c.bw.Write(p)
}

func (c *netConn) Flush() error {
	return c.bw.Flush()
}

func (c *netConn) Close() error {
	return c.conn.Close()
}
