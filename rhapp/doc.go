// Package rhapp runs the rawhttp server as a batteries-included application.
//
// # Overview
//
// rhapp wires the pieces of a rawhttp deployment together with go.uber.org/fx:
//
//   - environment configuration parsed with caarlos0/env ([ParseEnv])
//   - a zap JSON logger ([NewLogger]) that also receives the server's events
//   - an OpenTelemetry tracer provider ([NewTracerProvider]) and a span per route ([WithTracing])
//   - the default router, the connection handler and the multi-port server
//
// The smallest program is:
//
//	func main() {
//	    rhapp.NewApp[rhapp.BaseEnvironment]().Run()
//	}
//
// Run starts every listener and blocks until SIGINT or SIGTERM. Stopping the app closes all listeners;
// connections still in flight are not drained.
//
// # Environment
//
// Embed [BaseEnvironment] in your own struct to add variables of your own:
//
//	type Env struct {
//	    rhapp.BaseEnvironment
//	    Motd string `env:"MOTD"`
//	}
//
// The base variables are:
//
//   - RAWHTTP_PORTS: comma separated ports, default "80,8000"
//   - RAWHTTP_SERVER_NAME: value of the Server header, default "rawhttp-dual-port-server"
//   - RAWHTTP_LOG_LEVEL: zap level, default "info"
//   - RAWHTTP_OTEL_EXPORTER: "none" (default) or "stdout"
//   - RAWHTTP_MAX_CONNS: connections handled at once per port, 0 (default) for no cap
//
// Ports must be unique and within 1-65535. Binding ports below 1024 usually needs elevated privileges; a port
// that cannot be bound is logged with a hint and skipped, and start-up only fails when no port could be bound.
//
// # Testing
//
// The rhapptest package builds the same graph on fxtest:
//
//	rhapptest.SetBaseEnv(t, rhapptest.FreePort(t))
//	app := rhapptest.New[rhapp.BaseEnvironment](t)
//	app.RequireStart()
//	t.Cleanup(app.RequireStop)
package rhapp
