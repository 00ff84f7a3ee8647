package rhapp

import (
	"context"

	"github.com/advdv/rawhttp"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// App wraps an fx.App for lifecycle management.
type App struct {
	app *fx.App
}

// AppConfig holds configuration for the app.
type AppConfig struct {
	Middleware []rawhttp.Middleware
	FxOptions  []fx.Option
}

// Option configures the App.
type Option func(*AppConfig)

// WithFx adds fx options for dependency injection.
func WithFx(fxOpts ...fx.Option) Option {
	return func(c *AppConfig) {
		c.FxOptions = append(c.FxOptions, fxOpts...)
	}
}

// WithMiddleware adds route middleware. It runs inside the tracing middleware, in the order given, and can
// reach the request-scoped logger through [Log].
func WithMiddleware(mw ...rawhttp.Middleware) Option {
	return func(c *AppConfig) {
		c.Middleware = append(c.Middleware, mw...)
	}
}

// RouterParams holds the dependencies for creating the router.
type RouterParams struct {
	fx.In

	Env        Environment
	Logger     *zap.Logger
	TracerProv trace.TracerProvider
	Config     AppConfig
}

// NewRouter creates the default route table with tracing, the request logger and any configured middleware
// applied, in that order.
func NewRouter(params RouterParams) *rawhttp.Router {
	mw := append([]rawhttp.Middleware{
		WithTracing(params.TracerProv),
		withRequestLogger(params.Logger),
	}, params.Config.Middleware...)

	return rawhttp.NewDefaultRouter(rawhttp.ServerInfo{
		Name:  params.Env.serverName(),
		Ports: params.Env.ports(),
	}, mw...)
}

// NewHandler creates the connection handler that serves the router.
func NewHandler(env Environment, rtr *rawhttp.Router, logs rawhttp.Logger) *rawhttp.Handler {
	return rawhttp.NewHandler(rtr,
		rawhttp.WithLogger(logs),
		rawhttp.WithServerName(env.serverName()))
}

// NewServer creates the multi-port server. Nothing is bound until the app starts.
func NewServer(env Environment, h *rawhttp.Handler, logs rawhttp.Logger) *rawhttp.Server {
	return rawhttp.NewServer(h, env.ports(),
		rawhttp.WithServerLogger(logs),
		rawhttp.WithListenOptions(rawhttp.WithMaxConns(env.maxConns())))
}

// startServerHook registers lifecycle hooks for the server. Listeners live until the app stops, independent of
// the start context.
func startServerHook(lc fx.Lifecycle, server *rawhttp.Server, env Environment, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			logger.Info("starting server", zap.Ints("ports", env.ports()))
			return server.Start(context.Background())
		},
		OnStop: func(context.Context) error {
			logger.Info("stopping server")
			err := server.Close()
			server.Wait()
			return err
		},
	})
}

// FxOptions returns the fx options that make up the app's DI graph.
func FxOptions[E Environment](opts ...Option) []fx.Option {
	var cfg AppConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	baseOpts := make([]fx.Option, 0, 10+len(cfg.FxOptions))
	baseOpts = append(baseOpts, []fx.Option{
		fx.NopLogger,
		fx.Provide(ParseEnv[E]()),
		fx.Provide(func(e E) Environment { return e }),
		fx.Provide(func(e E) (*zap.Logger, error) { return NewLogger(e) }),
		fx.Provide(NewRawHTTPLogger),
		fx.Provide(NewTracerProvider),
		fx.Supply(cfg),
		fx.Provide(NewRouter),
		fx.Provide(NewHandler),
		fx.Provide(NewServer),
		fx.Invoke(startServerHook),
	}...)

	return append(baseOpts, cfg.FxOptions...)
}

// NewApp creates a batteries-included app that serves the default routes on every configured port.
//
// Example:
//
//	rhapp.NewApp[rhapp.BaseEnvironment](
//	    rhapp.WithMiddleware(requireAuth),
//	    rhapp.WithFx(fx.Invoke(registerMetrics)),
//	).Run()
func NewApp[E Environment](opts ...Option) *App {
	return &App{
		app: fx.New(FxOptions[E](opts...)...),
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() {
	a.app.Run()
}

// Start starts the application with the given context.
func (a *App) Start(ctx context.Context) error {
	if err := a.app.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.app.StopTimeout())
	defer cancel()

	return a.app.Stop(stopCtx)
}
