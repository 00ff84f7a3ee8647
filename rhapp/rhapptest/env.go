package rhapptest

import (
	"strconv"
	"strings"
	"testing"

	"github.com/samber/lo"
)

// Env provides a chainable builder for setting [rhapp.BaseEnvironment] env vars
// via t.Setenv. Create one with [SetBaseEnv].
type Env struct {
	t testing.TB
}

// SetBaseEnv sets all [rhapp.BaseEnvironment] env vars to sensible test defaults.
// Ports are required because each test must use unique ports to avoid collisions.
//
// Defaults:
//   - RAWHTTP_SERVER_NAME: "test"
//   - RAWHTTP_LOG_LEVEL: "debug"
//   - RAWHTTP_OTEL_EXPORTER: "none"
//   - RAWHTTP_MAX_CONNS: "0"
//
// Use the returned [Env] to override individual values:
//
//	rhapptest.SetBaseEnv(t, 18085, 18086).ServerName("edge").MaxConns(8)
func SetBaseEnv(t testing.TB, ports ...int) *Env {
	t.Helper()
	t.Setenv("RAWHTTP_PORTS", strings.Join(lo.Map(ports, func(p int, _ int) string { return strconv.Itoa(p) }), ","))
	t.Setenv("RAWHTTP_SERVER_NAME", "test")
	t.Setenv("RAWHTTP_LOG_LEVEL", "debug")
	t.Setenv("RAWHTTP_OTEL_EXPORTER", "none")
	t.Setenv("RAWHTTP_MAX_CONNS", "0")
	return &Env{t: t}
}

// ServerName overrides RAWHTTP_SERVER_NAME.
func (e *Env) ServerName(name string) *Env {
	e.t.Helper()
	e.t.Setenv("RAWHTTP_SERVER_NAME", name)
	return e
}

// LogLevel overrides RAWHTTP_LOG_LEVEL.
func (e *Env) LogLevel(level string) *Env {
	e.t.Helper()
	e.t.Setenv("RAWHTTP_LOG_LEVEL", level)
	return e
}

// OtelExporter overrides RAWHTTP_OTEL_EXPORTER.
func (e *Env) OtelExporter(exp string) *Env {
	e.t.Helper()
	e.t.Setenv("RAWHTTP_OTEL_EXPORTER", exp)
	return e
}

// MaxConns overrides RAWHTTP_MAX_CONNS.
func (e *Env) MaxConns(n int) *Env {
	e.t.Helper()
	e.t.Setenv("RAWHTTP_MAX_CONNS", strconv.Itoa(n))
	return e
}
