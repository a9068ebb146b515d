package http

type Route struct {
	Method  string
	Path    string
	Prefix  []byte
	Handler Handler
}

var NotFoundHandler Handler = func(ctx *RequestCtx) {
	ctx.Response.WithStatus(StatusNotFound)
}
