// Package rhapptest provides test helpers for rhapp applications.
//
// It constructs the identical DI graph as [rhapp.NewApp] but uses
// [fxtest.App] which fails the test immediately on DI errors.
//
// Example:
//
//	rhapptest.SetBaseEnv(t, rhapptest.FreePort(t))
//	app := rhapptest.New[rhapp.BaseEnvironment](t)
//	app.RequireStart()
//	t.Cleanup(app.RequireStop)
package rhapptest

import (
	"net"
	"testing"

	"github.com/advdv/rawhttp/rhapp"
	"go.uber.org/fx/fxtest"
)

// App embeds *fxtest.App for testing rhapp applications.
type App struct {
	*fxtest.App
}

// New creates a test app with the same DI graph as [rhapp.NewApp].
func New[E rhapp.Environment](t testing.TB, opts ...rhapp.Option) *App {
	return &App{App: fxtest.New(t, rhapp.FxOptions[E](opts...)...)}
}

// FreePort returns a TCP port that was free a moment ago.
func FreePort(t testing.TB) int {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("rhapptest: failed to find a free port: %v", err)
	}
	defer ln.Close()

	return ln.Addr().(*net.TCPAddr).Port
}
