package rawhttp

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/cockroachdb/errors"
)

const (
	// ContentTypeHTML is used for every page the router renders.
	ContentTypeHTML = "text/html; charset=utf-8"
	// ContentTypeJSON is used for every API response.
	ContentTypeJSON = "application/json; charset=utf-8"
)

type route struct {
	method  string
	handler RouteFunc
}

// Router is an exact-match route table keyed by path. Once the server starts serving, the table is only read, so it
// is shared between connections without locking.
type Router struct {
	reverser    *Reverser
	routes      map[string]route
	notFound    RouteFunc
	middlewares struct {
		captured bool
		buffered []Middleware
	}
}

// NewRouter creates an empty router whose misses render [NotFoundPage].
func NewRouter() *Router {
	return &Router{
		reverser: NewReverser(),
		routes:   make(map[string]route),
		notFound: NotFoundPage,
	}
}

// Use allows providing of middleware. It applies to every route registered afterwards and to the not-found route.
func (m *Router) Use(mw ...Middleware) {
	m.ensureNoUseAfterHandle()
	m.middlewares.buffered = append(m.middlewares.buffered, mw...)
}

// Handle registers h for the exact path. An empty method accepts any method. The optional name allows the path to
// be looked up with [Router.Reverse].
func (m *Router) Handle(method, path string, h RouteFunc, name ...string) {
	m.middlewares.captured = true

	path = normalizePath(path)
	if _, exists := m.routes[path]; exists {
		panic("rawhttp: route for path " + path + " already registered")
	}

	if len(name) > 0 {
		path = m.reverser.Named(name[0], path)
	}

	m.routes[path] = route{method: method, handler: Wrap(h, m.middlewares.buffered...)}
}

// HandleNotFound replaces the route used for paths that are not registered.
func (m *Router) HandleNotFound(h RouteFunc) {
	m.notFound = h
}

// Reverse returns the path of a named route.
func (m *Router) Reverse(name string) (string, error) {
	return m.reverser.Reverse(name)
}

// Names returns the sorted names of all named routes.
func (m *Router) Names() []string {
	return m.reverser.Names()
}

// Route produces the result for req. Misses yield the not-found route; a registered path requested with the wrong
// method yields a 405. Errors carrying a 4xx [Code] become JSON error results, any other error is returned as is
// and is a fault for the caller to handle.
func (m *Router) Route(ctx context.Context, req *Request) (Result, error) {
	h := m.lookup(req)

	res, err := h(ctx, req)
	if err == nil {
		return res, nil
	}

	if IsClientError(err) {
		return ErrorResult(err)
	}

	return Result{}, err
}

func (m *Router) lookup(req *Request) RouteFunc {
	r, ok := m.routes[normalizePath(req.Path)]
	switch {
	case !ok:
		return Wrap(m.notFound, m.middlewares.buffered...)
	case r.method != "" && r.method != req.Method:
		return Wrap(methodNotAllowed(r.method), m.middlewares.buffered...)
	default:
		return r.handler
	}
}

func (m *Router) ensureNoUseAfterHandle() {
	if m.middlewares.captured {
		panic("rawhttp: cannot call Use() after calling Handle")
	}
}

func methodNotAllowed(allowed string) RouteFunc {
	return func(_ context.Context, req *Request) (Result, error) {
		return Result{}, NewError(CodeMethodNotAllowed,
			errors.Newf("%s is not supported on %s, use %s", req.Method, req.Path, allowed))
	}
}

// normalizePath treats the empty path as the root.
func normalizePath(p string) string {
	if p == "" {
		return "/"
	}
	return p
}

// ErrorResult renders err as a JSON error body using the status carried by its [Code]. Errors without a code are
// rendered as 500.
func ErrorResult(err error) (Result, error) {
	status := int(CodeOf(err))
	if status == 0 {
		status = http.StatusInternalServerError
	}

	detail := err.Error()
	if httpErr, ok := asError(err); ok && httpErr.err != nil {
		detail = httpErr.err.Error()
	}

	return JSONResult(status, map[string]string{
		"error":  http.StatusText(status),
		"detail": detail,
	})
}

// JSONResult encodes v as the body of a JSON result.
func JSONResult(status int, v any) (Result, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return Result{}, errors.Wrap(err, "failed to encode json body")
	}

	return Result{Status: status, ContentType: ContentTypeJSON, Body: body}, nil
}
