package http

import (
	"fmt"
	"time"

	"github.com/freekieb7/hello/filesystem"
)

type Middleware func(next Handler) Handler

// DelayMiddleware parks the handling goroutine for d before calling next.
func DelayMiddleware(d time.Duration) Middleware {
	return func(next Handler) Handler {
		return func(ctx *RequestCtx) {
			if d > 0 {
				timer := time.NewTimer(d)
				<-timer.C
			}

			next(ctx)
		}
	}
}

// FileHandler responds with status and the full contents of name. A resource
// that cannot be read is a deployment error: the handler panics and the
// connection is dropped without a response.
func FileHandler(fs filesystem.Filesystem, status uint16, name string) Handler {
	return func(ctx *RequestCtx) {
		body, err := fs.ReadFile(name)
		if err != nil {
			panic(fmt.Errorf("http: load resource %s: %w", name, err))
		}

		ctx.Response.WithStatus(status).WithBody(body)
	}
}
