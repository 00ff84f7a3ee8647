package rawhttp

import (
	"context"
	"net"
	"time"

	"github.com/cockroachdb/errors"
)

// UnknownPeer is used when the caller's address cannot be determined.
const UnknownPeer = "unknown"

// Routes produces the result for a parsed request. [*Router] is the implementation used by the server.
type Routes interface {
	Route(ctx context.Context, req *Request) (Result, error)
}

// Handler serves exactly one request per connection: read once, parse, route, frame, write, close.
type Handler struct {
	routes     Routes
	logs       Logger
	serverName string
	now        func() time.Time
}

// HandlerOption configures a [Handler].
type HandlerOption func(*Handler)

// WithLogger sets the logger. Defaults to [NewStdLogger] on [log.Default].
func WithLogger(l Logger) HandlerOption {
	return func(h *Handler) { h.logs = l }
}

// WithServerName sets the value of the Server response header.
func WithServerName(name string) HandlerOption {
	return func(h *Handler) { h.serverName = name }
}

// WithClock replaces the clock used to stamp requests.
func WithClock(now func() time.Time) HandlerOption {
	return func(h *Handler) { h.now = now }
}

// NewHandler creates a connection handler for the given routes.
func NewHandler(routes Routes, opts ...HandlerOption) *Handler {
	h := &Handler{
		routes:     routes,
		logs:       NewStdLogger(nil),
		serverName: DefaultServerName,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}

	return h
}

// Logger returns the logger the handler reports to.
func (h *Handler) Logger() Logger { return h.logs }

// ServeConn handles one connection and always closes it before returning. Malformed requests are dropped without
// a response. Any other failure before the response is sent results in a bare 500.
func (h *Handler) ServeConn(ctx context.Context, conn net.Conn) {
	defer h.closeConn(conn)

	peer := PeerIP(conn)

	raw, err := ReadRequest(conn)
	if errors.Is(err, ErrMalformedRequest) {
		h.logs.LogParseFailure(peer, err)
		return
	} else if err != nil {
		h.fault(conn, nil, err)
		return
	}

	req, err := ParseRequest(raw)
	if err != nil {
		h.logs.LogParseFailure(peer, err)
		return
	}

	req.Peer, req.Now = peer, h.now()

	resp, status, err := h.respond(ctx, req)
	if err != nil {
		h.fault(conn, req, err)
		return
	}

	h.logs.LogAccess(req, status)

	if _, err := conn.Write(resp); err != nil {
		h.logs.LogHandlerFault(req, errors.Wrap(err, "failed to write response"))
	}
}

// respond routes and frames req. Panics in either step are turned into errors.
func (h *Handler) respond(ctx context.Context, req *Request) (resp []byte, status int, err error) {
	defer func() {
		if r := recover(); r != nil {
			resp, status, err = nil, 0, errors.Newf("panic while handling request: %v", r)
		}
	}()

	res, err := h.routes.Route(ctx, req)
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to route")
	}

	resp, err = Frame(res, h.serverName)
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to frame")
	}

	return resp, res.Status, nil
}

func (h *Handler) fault(conn net.Conn, req *Request, err error) {
	h.logs.LogHandlerFault(req, err)

	if _, werr := conn.Write(FaultResponse()); werr != nil {
		h.logs.LogFaultResponseError(werr)
	}
}

func (h *Handler) closeConn(conn net.Conn) {
	if err := conn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		h.logs.LogCloseError(err)
	}
}

// PeerIP returns the IP address of the remote end of conn. IPv4 peers reaching a dual-stack socket are reported in
// their plain IPv4 form.
func PeerIP(conn net.Conn) string {
	addr := conn.RemoteAddr()
	if addr == nil {
		return UnknownPeer
	}

	if tcp, ok := addr.(*net.TCPAddr); ok && tcp.IP != nil {
		return tcp.AddrPort().Addr().Unmap().String()
	}

	host, _, err := net.SplitHostPort(addr.String())
	if err != nil || host == "" {
		return UnknownPeer
	}

	return host
}
