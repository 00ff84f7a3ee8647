package rawhttp

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
)

// Server binds one listener per configured port and serves them all concurrently.
type Server struct {
	ports      []int
	handler    ConnHandler
	logs       Logger
	addrIPv6   string
	addrIPv4   string
	listenOpts []ListenOption

	mu        sync.Mutex
	listeners []*Listener
	serving   sync.WaitGroup
}

// ServerOption configures a [Server].
type ServerOption func(*Server)

// WithServerLogger sets the logger for bootstrap and listener events.
func WithServerLogger(l Logger) ServerOption {
	return func(s *Server) { s.logs = l }
}

// WithBindAddresses replaces the wildcard addresses tried for each port, first ipv6 then ipv4.
func WithBindAddresses(ipv6, ipv4 string) ServerOption {
	return func(s *Server) { s.addrIPv6, s.addrIPv4 = ipv6, ipv4 }
}

// WithListenOptions passes options to every listener the server binds.
func WithListenOptions(opts ...ListenOption) ServerOption {
	return func(s *Server) { s.listenOpts = append(s.listenOpts, opts...) }
}

// NewServer creates a server for the given ports. Nothing is bound until [Server.Start].
func NewServer(h ConnHandler, ports []int, opts ...ServerOption) *Server {
	s := &Server{
		ports:    ports,
		handler:  h,
		logs:     NewStdLogger(nil),
		addrIPv6: WildcardIPv6,
		addrIPv4: WildcardIPv4,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start binds every configured port and starts serving each in its own goroutine. A port is first bound as an
// IPv6 dual-stack socket and falls back to IPv4 on any failure. A port that fails both ways is logged and skipped;
// Start only fails, with [ErrNoListeners], when no port could be bound at all.
func (s *Server) Start(ctx context.Context) error {
	var failures []error
	for _, port := range s.ports {
		ln, err := s.listen(ctx, port)
		if err != nil {
			failures = append(failures, err)
			continue
		}

		s.mu.Lock()
		s.listeners = append(s.listeners, ln)
		s.mu.Unlock()

		s.serving.Add(1)
		go func() {
			defer s.serving.Done()
			if err := ln.Serve(ctx, s.handler); err != nil {
				s.logs.LogAcceptError(ln.Spec(), err)
			}
		}()
	}

	if len(s.Listeners()) == 0 {
		if len(failures) == 0 {
			return errors.Wrap(ErrNoListeners, "no ports configured")
		}
		return errors.Join(append([]error{ErrNoListeners}, failures...)...)
	}

	return nil
}

func (s *Server) listen(ctx context.Context, port int) (*Listener, error) {
	opts := append([]ListenOption{WithListenLogger(s.logs)}, s.listenOpts...)

	v6spec := ListenSpec{Address: s.addrIPv6, Port: port, Family: FamilyIPv6}
	ln, v6err := Listen(ctx, v6spec, opts...)
	if v6err == nil {
		return ln, nil
	}
	s.logs.LogListenFailure(v6spec, v6err)

	v4spec := ListenSpec{Address: s.addrIPv4, Port: port, Family: FamilyIPv4}
	ln, v4err := Listen(ctx, v4spec, opts...)
	if v4err == nil {
		return ln, nil
	}
	s.logs.LogListenFailure(v4spec, v4err)

	return nil, errors.Wrapf(errors.Join(v6err, v4err), "port %d", port)
}

// Listeners returns the listeners that were bound successfully.
func (s *Server) Listeners() []*Listener {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]*Listener(nil), s.listeners...)
}

// Close closes every listener. Connections in flight are not drained.
func (s *Server) Close() error {
	var errs []error
	for _, ln := range s.Listeners() {
		if err := ln.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// Wait blocks until every accept loop has returned.
func (s *Server) Wait() {
	s.serving.Wait()
}
