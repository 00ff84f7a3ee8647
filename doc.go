// Package rawhttp serves a small set of HTML pages and JSON endpoints straight off TCP sockets, on several ports
// at once, without net/http.
//
// # Overview
//
// Every connection carries exactly one request. The [Handler] performs a single read of at most
// [MaxRequestBytes], interprets only the request line, routes on the exact path, writes one framed response and
// closes the connection. There is no keep-alive, no chunked encoding and no header parsing:
//
//	rtr := rawhttp.NewDefaultRouter(rawhttp.ServerInfo{Ports: []int{80, 8000}})
//	srv := rawhttp.NewServer(rawhttp.NewHandler(rtr), []int{80, 8000})
//	if err := srv.Start(ctx); err != nil {
//	    return err
//	}
//	defer srv.Close()
//
// # Listening
//
// [Server.Start] binds each port as an IPv6 wildcard socket that also accepts IPv4 peers. When that fails the
// port is bound on the IPv4 wildcard instead. Ports that cannot be bound at all are logged and skipped; start-up
// only fails with [ErrNoListeners] when none could be bound. Each [Listener] runs its own accept loop and hands
// every connection to a fresh goroutine.
//
// Bind errors are marked so callers can tell them apart:
//
//	if errors.Is(err, rawhttp.ErrPrivilegedPort) {
//	    // ports below 1024 usually need elevated privileges
//	}
//
// # Routes
//
// A [RouteFunc] turns a parsed [Request] into a [Result]; it never touches the connection. Routes are registered
// on a [Router] by exact path, optionally restricted to one method and optionally named for [Router.Reverse]:
//
//	rtr := rawhttp.NewRouter()
//	rtr.Handle("", "/", index, "index")
//	rtr.Handle(http.MethodPost, "/api/greet", greet, "greet")
//
// The empty path is the same as "/". Paths nobody registered render [NotFoundPage].
//
// # Errors
//
// Routes report client mistakes by returning an [*Error] created with [NewError]. The router turns any error with
// a 4xx [Code] into a JSON error result. Every other error, and every panic, is a fault: the [Handler] logs it and
// sends a bare 500 with an empty body.
//
// # Middleware
//
// [Middleware] wraps route functions and is registered with [Router.Use] before any route. The middleware given
// first is the outermost.
package rawhttp
