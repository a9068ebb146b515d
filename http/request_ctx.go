package http

import (
	"context"

	"github.com/google/uuid"
)

// RequestCtx is the state of one connection's exchange. It is owned by a
// single goroutine from accept until the response is written.
type RequestCtx struct {
	ID   uuid.UUID
	Conn Conn

	Request  Request
	Response Response

	// Route is the path of the matched route, empty when nothing matched.
	Route string

	ctx context.Context
}

func (reqCtx *RequestCtx) Context() context.Context {
	if reqCtx.ctx == nil {
		return context.Background()
	}
	return reqCtx.ctx
}

func (reqCtx *RequestCtx) Reset(ctx context.Context, conn Conn) {
	reqCtx.ID = uuid.New()
	reqCtx.Conn = conn
	reqCtx.Request.Reset()
	reqCtx.Response.Reset()
	reqCtx.Route = ""
	reqCtx.ctx = ctx
}

func (reqCtx *RequestCtx) release() {
	reqCtx.Conn = nil
	reqCtx.Response.Body = nil
	reqCtx.ctx = nil
}
