package rawhttp

import (
	"context"
	"net"
	"os"
	"strconv"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"golang.org/x/net/netutil"
)

// Family is the address family a listener binds.
type Family int

const (
	FamilyIPv4 Family = iota + 1
	FamilyIPv6
)

func (f Family) String() string {
	switch f {
	case FamilyIPv4:
		return "ipv4"
	case FamilyIPv6:
		return "ipv6"
	default:
		return "family(" + strconv.Itoa(int(f)) + ")"
	}
}

const (
	WildcardIPv4 = "0.0.0.0"
	WildcardIPv6 = "::"
)

const (
	minAcceptBackoff = 5 * time.Millisecond
	maxAcceptBackoff = time.Second
)

// ListenSpec describes what a single listener binds.
type ListenSpec struct {
	Address string
	Port    int
	Family  Family
}

// DualStackSpec binds the IPv6 wildcard on port, accepting IPv4 peers as well where the platform allows it.
func DualStackSpec(port int) ListenSpec {
	return ListenSpec{Address: WildcardIPv6, Port: port, Family: FamilyIPv6}
}

// IPv4Spec binds the IPv4 wildcard on port.
func IPv4Spec(port int) ListenSpec {
	return ListenSpec{Address: WildcardIPv4, Port: port, Family: FamilyIPv4}
}

// Network returns the network name for net.Listen.
func (s ListenSpec) Network() string {
	if s.Family == FamilyIPv6 {
		return "tcp6"
	}
	return "tcp4"
}

// Addr returns the host:port the spec binds.
func (s ListenSpec) Addr() string {
	return net.JoinHostPort(s.Address, strconv.Itoa(s.Port))
}

// ListenOption configures [Listen].
type ListenOption func(*listenConfig)

type listenConfig struct {
	logs     Logger
	maxConns int
}

// WithListenLogger sets the logger for listener events.
func WithListenLogger(l Logger) ListenOption {
	return func(c *listenConfig) { c.logs = l }
}

// WithMaxConns caps the number of connections being handled at once. Zero, the default, means no cap: every
// accepted connection gets its own goroutine immediately.
func WithMaxConns(n int) ListenOption {
	return func(c *listenConfig) { c.maxConns = n }
}

// ConnHandler serves a single accepted connection and is responsible for closing it. [*Handler] implements it.
type ConnHandler interface {
	ServeConn(ctx context.Context, conn net.Conn)
}

// Listener owns one bound socket and runs its accept loop.
type Listener struct {
	spec      ListenSpec
	ln        net.Listener
	logs      Logger
	dualStack bool
}

// Listen binds spec with address reuse enabled. For IPv6 it also tries to accept IPv4-mapped peers on the same
// socket; when the platform refuses, the listener stays IPv6-only and that is logged, not returned. Bind failures
// are returned as a [*BindError].
func Listen(ctx context.Context, spec ListenSpec, opts ...ListenOption) (*Listener, error) {
	cfg := listenConfig{logs: NewStdLogger(nil)}
	for _, opt := range opts {
		opt(&cfg)
	}

	var dualStack bool
	var dualStackErr error

	lc := net.ListenConfig{
		Control: func(_, _ string, c syscall.RawConn) error {
			var optErr error
			if err := c.Control(func(fd uintptr) {
				if optErr = setReuseAddr(fd); optErr != nil {
					return
				}
				if spec.Family == FamilyIPv6 {
					dualStackErr = setDualStack(fd)
					dualStack = dualStackErr == nil
				}
			}); err != nil {
				return err
			}
			return optErr
		},
	}

	ln, err := lc.Listen(ctx, spec.Network(), spec.Addr())
	if err != nil {
		return nil, &BindError{Spec: spec, Err: err}
	}

	if dualStackErr != nil {
		cfg.logs.LogDegradedDualStack(spec, dualStackErr)
	}

	if cfg.maxConns > 0 {
		ln = netutil.LimitListener(ln, cfg.maxConns)
	}

	cfg.logs.LogListening(spec, ln.Addr().String(), dualStack)

	return &Listener{spec: spec, ln: ln, logs: cfg.logs, dualStack: dualStack}, nil
}

// BindError reports a failed attempt to bind a [ListenSpec]. It matches [ErrBind], and also [ErrPrivilegedPort]
// when the cause is missing permissions.
type BindError struct {
	Spec ListenSpec
	Err  error
}

func (e *BindError) Error() string {
	return "failed to listen on " + e.Spec.Addr() + ": " + e.Err.Error()
}

func (e *BindError) Unwrap() error { return e.Err }

func (e *BindError) Is(target error) bool {
	switch target {
	case ErrBind:
		return true
	case ErrPrivilegedPort:
		return errors.Is(e.Err, os.ErrPermission)
	default:
		return false
	}
}

// Spec returns what the listener was asked to bind.
func (l *Listener) Spec() ListenSpec { return l.spec }

// Addr returns the bound address, which carries the real port when the spec asked for port 0.
func (l *Listener) Addr() net.Addr { return l.ln.Addr() }

// Port returns the bound port.
func (l *Listener) Port() int {
	if tcp, ok := l.ln.Addr().(*net.TCPAddr); ok {
		return tcp.Port
	}
	return l.spec.Port
}

// DualStack reports whether the socket also accepts IPv4 peers.
func (l *Listener) DualStack() bool { return l.dualStack }

// Close closes the socket, which ends a running [Listener.Serve]. Connections already accepted are not waited for.
func (l *Listener) Close() error {
	if err := l.ln.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		return errors.Wrapf(err, "failed to close listener on %s", l.spec.Addr())
	}
	return nil
}

// Serve runs the accept loop until the listener is closed or ctx is done. Every accepted connection is handed to
// its own goroutine and never awaited. Accept errors other than closing are logged and retried with a backoff.
func (l *Listener) Serve(ctx context.Context, h ConnHandler) error {
	defer l.logs.LogListenerStopped(l.spec)

	stop := context.AfterFunc(ctx, func() { l.ln.Close() })
	defer stop()

	var backoff time.Duration
	for {
		conn, err := l.ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) || ctx.Err() != nil {
				return nil
			}

			l.logs.LogAcceptError(l.spec, err)

			backoff = min(max(2*backoff, minAcceptBackoff), maxAcceptBackoff)
			select {
			case <-time.After(backoff):
				continue
			case <-ctx.Done():
				return nil
			}
		}
		backoff = 0

		go h.ServeConn(ctx, conn)
	}
}
