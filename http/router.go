package http

type Handler func(ctx *RequestCtx)

// Router picks a handler by comparing the raw request against the request
// line prefix of every route, in registration order.
type Router struct {
	Routes   []Route
	NotFound Handler
}

func NewRouter() *Router {
	return &Router{
		Routes:   make([]Route, 0),
		NotFound: NotFoundHandler,
	}
}

func (router *Router) GET(path string, handler Handler, middleware ...Middleware) {
	router.Any(MethodGet, path, handler, middleware...)
}

func (router *Router) Any(method string, path string, handler Handler, middleware ...Middleware) {
	for _, middleware := range middleware {
		handler = middleware(handler)
	}

	router.Routes = append(router.Routes, Route{
		Method:  method,
		Path:    path,
		Prefix:  RequestLinePrefix(method, path),
		Handler: handler,
	})
}

func (router *Router) Match(req *Request) (Route, bool) {
	for _, route := range router.Routes {
		if req.HasPrefix(route.Prefix) {
			return route, true
		}
	}

	return Route{}, false
}

func (router *Router) Handler() Handler {
	return func(ctx *RequestCtx) {
		route, found := router.Match(&ctx.Request)
		if !found {
			notFound := router.NotFound
			if notFound == nil {
				notFound = NotFoundHandler
			}

			notFound(ctx)
			return
		}

		ctx.Route = route.Path
		route.Handler(ctx)
	}
}
