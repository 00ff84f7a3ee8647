package rhapp

import (
	"github.com/advdv/rawhttp"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger creates a zap logger configured from the environment.
// Uses JSON encoding; RAWHTTP_LOG_LEVEL controls the level (debug, info, warn, error).
func NewLogger(env Environment) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(env.logLevel())
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

type zapLogger struct{ *zap.Logger }

func (l zapLogger) LogAccess(req *rawhttp.Request, status int) {
	l.Logger.Info("request",
		zap.String("method", req.Method),
		zap.String("path", req.Path),
		zap.String("client_ip", req.Peer),
		zap.Int("status", status))
}

func (l zapLogger) LogParseFailure(peer string, err error) {
	l.Logger.Debug("dropped malformed request", zap.String("client_ip", peer), zap.Error(err))
}

func (l zapLogger) LogHandlerFault(req *rawhttp.Request, err error) {
	if req == nil {
		l.Logger.Error("error while handling request", zap.Error(err))
		return
	}
	l.Logger.Error("error while handling request",
		zap.String("method", req.Method),
		zap.String("path", req.Path),
		zap.String("client_ip", req.Peer),
		zap.Error(err))
}

func (l zapLogger) LogFaultResponseError(err error) {
	l.Logger.Error("error while sending fault response", zap.Error(err))
}

func (l zapLogger) LogCloseError(err error) {
	l.Logger.Warn("error while closing connection", zap.Error(err))
}

func (l zapLogger) LogListening(spec rawhttp.ListenSpec, addr string, dualStack bool) {
	l.Logger.Info("listening",
		zap.Int("port", spec.Port),
		zap.String("addr", addr),
		zap.Stringer("family", spec.Family),
		zap.Bool("dual_stack", dualStack))
}

func (l zapLogger) LogDegradedDualStack(spec rawhttp.ListenSpec, err error) {
	l.Logger.Warn("dual-stack unavailable, serving ipv6 only", zap.Int("port", spec.Port), zap.Error(err))
}

func (l zapLogger) LogListenFailure(spec rawhttp.ListenSpec, err error) {
	fields := []zap.Field{
		zap.Int("port", spec.Port),
		zap.String("addr", spec.Addr()),
		zap.Stringer("family", spec.Family),
		zap.Error(err),
	}
	if errors.Is(err, rawhttp.ErrPrivilegedPort) {
		fields = append(fields, zap.String("hint", "ports below 1024 usually require elevated privileges"))
	}

	l.Logger.Warn("failed to listen", fields...)
}

func (l zapLogger) LogAcceptError(spec rawhttp.ListenSpec, err error) {
	l.Logger.Error("error while accepting connection", zap.Int("port", spec.Port), zap.Error(err))
}

func (l zapLogger) LogListenerStopped(spec rawhttp.ListenSpec) {
	l.Logger.Info("listener stopped", zap.Int("port", spec.Port), zap.String("addr", spec.Addr()))
}

// NewRawHTTPLogger adapts l to the events the server reports.
func NewRawHTTPLogger(l *zap.Logger) rawhttp.Logger {
	return zapLogger{l.Named("rawhttp").Named("rhapp")}
}
