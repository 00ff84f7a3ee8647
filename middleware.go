package rawhttp

import "context"

// RouteFunc produces the result for one parsed request. Implementations must not touch the connection; they
// only see the request and return what should be sent back.
type RouteFunc func(ctx context.Context, req *Request) (Result, error)

// Middleware for cross-cutting concerns around route functions.
type Middleware func(RouteFunc) RouteFunc

// Wrap takes the inner route h and wraps it with middleware. The middleware provided first is called first and is
// the "outer" most wrapping, the middleware provided last will be the "inner most" wrapping (closest to the route).
func Wrap(h RouteFunc, m ...Middleware) RouteFunc {
	if len(m) < 1 {
		return h
	}

	wrapped := h
	for i := len(m) - 1; i >= 0; i-- {
		wrapped = m[i](wrapped)
	}

	return wrapped
}
