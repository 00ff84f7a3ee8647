package rawhttp

import (
	"log"
	"sync/atomic"
	"testing"

	"github.com/cockroachdb/errors"
)

// Logger can be implemented to get informed about important states.
type Logger interface {
	LogAccess(req *Request, status int)
	LogParseFailure(peer string, err error)
	LogHandlerFault(req *Request, err error)
	LogFaultResponseError(err error)
	LogCloseError(err error)

	LogListening(spec ListenSpec, addr string, dualStack bool)
	LogDegradedDualStack(spec ListenSpec, err error)
	LogListenFailure(spec ListenSpec, err error)
	LogAcceptError(spec ListenSpec, err error)
	LogListenerStopped(spec ListenSpec)
}

type stdLogger struct{ *log.Logger }

func (l stdLogger) LogAccess(req *Request, status int) {
	l.Printf("[%s] %s %s from %s -> %d", req.Now.Format(TimeLayout), req.Method, req.Path, req.Peer, status)
}

func (l stdLogger) LogParseFailure(string, error) {}

func (l stdLogger) LogHandlerFault(req *Request, err error) {
	if req == nil {
		l.Printf("rawhttp: error while handling request: %s", err)
		return
	}
	l.Printf("rawhttp: error while handling %s %s from %s: %s", req.Method, req.Path, req.Peer, err)
}

func (l stdLogger) LogFaultResponseError(err error) {
	l.Printf("rawhttp: error while sending fault response: %s", err)
}

func (l stdLogger) LogCloseError(err error) {
	l.Printf("rawhttp: error while closing connection: %s", err)
}

func (l stdLogger) LogListening(spec ListenSpec, addr string, dualStack bool) {
	l.Printf("[port %d] listening on %s (%s, dual-stack: %t)", spec.Port, addr, spec.Family, dualStack)
}

func (l stdLogger) LogDegradedDualStack(spec ListenSpec, err error) {
	l.Printf("[port %d] dual-stack unavailable, serving IPv6 only: %s", spec.Port, err)
}

func (l stdLogger) LogListenFailure(spec ListenSpec, err error) {
	if errors.Is(err, ErrPrivilegedPort) {
		l.Printf("[port %d] failed to listen on %s: %s (ports below 1024 usually require elevated privileges)",
			spec.Port, spec.Addr(), err)
		return
	}
	l.Printf("[port %d] failed to listen on %s: %s", spec.Port, spec.Addr(), err)
}

func (l stdLogger) LogAcceptError(spec ListenSpec, err error) {
	l.Printf("[port %d] error while accepting connection: %s", spec.Port, err)
}

func (l stdLogger) LogListenerStopped(spec ListenSpec) {
	l.Printf("[port %d] listener on %s stopped", spec.Port, spec.Addr())
}

// NewStdLogger adapts a standard library logger. A nil logger writes to [log.Default].
func NewStdLogger(l *log.Logger) Logger {
	if l == nil {
		l = log.Default()
	}
	return stdLogger{l}
}

type TestLogger struct {
	tb testing.TB

	NumLogAccess             int64
	NumLogParseFailure       int64
	NumLogHandlerFault       int64
	NumLogFaultResponseError int64
	NumLogCloseError         int64
	NumLogListening          int64
	NumLogDegradedDualStack  int64
	NumLogListenFailure      int64
	NumLogAcceptError        int64
	NumLogListenerStopped    int64
}

func NewTestLogger(tb testing.TB) *TestLogger {
	return &TestLogger{tb: tb}
}

func (l *TestLogger) LogAccess(req *Request, status int) {
	atomic.AddInt64(&l.NumLogAccess, 1)
	l.tb.Logf("rawhttp: %s %s from %s -> %d", req.Method, req.Path, req.Peer, status)
}

func (l *TestLogger) LogParseFailure(peer string, err error) {
	atomic.AddInt64(&l.NumLogParseFailure, 1)
	l.tb.Logf("rawhttp: dropped request from %s: %s", peer, err)
}

func (l *TestLogger) LogHandlerFault(_ *Request, err error) {
	atomic.AddInt64(&l.NumLogHandlerFault, 1)
	l.tb.Logf("rawhttp: error while handling request: %s", err)
}

func (l *TestLogger) LogFaultResponseError(err error) {
	atomic.AddInt64(&l.NumLogFaultResponseError, 1)
	l.tb.Logf("rawhttp: error while sending fault response: %s", err)
}

func (l *TestLogger) LogCloseError(err error) {
	atomic.AddInt64(&l.NumLogCloseError, 1)
	l.tb.Logf("rawhttp: error while closing connection: %s", err)
}

func (l *TestLogger) LogListening(spec ListenSpec, addr string, dualStack bool) {
	atomic.AddInt64(&l.NumLogListening, 1)
	l.tb.Logf("rawhttp: listening on %s (%s, dual-stack: %t)", addr, spec.Family, dualStack)
}

func (l *TestLogger) LogDegradedDualStack(spec ListenSpec, err error) {
	atomic.AddInt64(&l.NumLogDegradedDualStack, 1)
	l.tb.Logf("rawhttp: dual-stack unavailable on port %d: %s", spec.Port, err)
}

func (l *TestLogger) LogListenFailure(spec ListenSpec, err error) {
	atomic.AddInt64(&l.NumLogListenFailure, 1)
	l.tb.Logf("rawhttp: failed to listen on %s: %s", spec.Addr(), err)
}

func (l *TestLogger) LogAcceptError(spec ListenSpec, err error) {
	atomic.AddInt64(&l.NumLogAcceptError, 1)
	l.tb.Logf("rawhttp: error while accepting on port %d: %s", spec.Port, err)
}

func (l *TestLogger) LogListenerStopped(spec ListenSpec) {
	atomic.AddInt64(&l.NumLogListenerStopped, 1)
	l.tb.Logf("rawhttp: listener on %s stopped", spec.Addr())
}

var _ Logger = &TestLogger{}
