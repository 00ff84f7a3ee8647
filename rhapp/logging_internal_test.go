package rhapp

import (
	"syscall"
	"testing"

	"github.com/advdv/rawhttp"
	"github.com/cockroachdb/errors"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type testEnv struct {
	level   zapcore.Level
	otelExp string
}

func (e testEnv) ports() []int            { return []int{8000} }
func (e testEnv) serverName() string      { return "test" }
func (e testEnv) logLevel() zapcore.Level { return e.level }
func (e testEnv) otelExporter() string    { return e.otelExp }
func (e testEnv) maxConns() int           { return 0 }

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name    string
		env     testEnv
		wantErr bool
	}{
		{
			name:    "info level",
			env:     testEnv{level: zapcore.InfoLevel},
			wantErr: false,
		},
		{
			name:    "debug level",
			env:     testEnv{level: zapcore.DebugLevel},
			wantErr: false,
		},
		{
			name:    "error level",
			env:     testEnv{level: zapcore.ErrorLevel},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := NewLogger(tt.env)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewLogger() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if logger == nil {
				t.Error("NewLogger() returned nil logger")
				return
			}
			if !logger.Core().Enabled(tt.env.level) {
				t.Errorf("logger should be enabled at %s", tt.env.level)
			}
		})
	}
}

func TestZapLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := NewRawHTTPLogger(zap.New(core))

	t.Run("access", func(t *testing.T) {
		logger.LogAccess(&rawhttp.Request{Method: "GET", Path: "/api/time", Peer: "192.0.2.1"}, 200)

		entries := logs.TakeAll()
		if len(entries) != 1 {
			t.Fatalf("expected 1 log entry, got %d", len(entries))
		}
		if entries[0].Message != "request" {
			t.Errorf("unexpected message: %s", entries[0].Message)
		}
		if entries[0].LoggerName != "rawhttp.rhapp" {
			t.Errorf("unexpected logger name: %s", entries[0].LoggerName)
		}
		fields := entries[0].ContextMap()
		if fields["path"] != "/api/time" || fields["client_ip"] != "192.0.2.1" || fields["status"] != int64(200) {
			t.Errorf("unexpected fields: %v", fields)
		}
	})

	t.Run("handler fault without request", func(t *testing.T) {
		logger.LogHandlerFault(nil, errors.New("read failed"))

		entries := logs.TakeAll()
		if len(entries) != 1 {
			t.Fatalf("expected 1 log entry, got %d", len(entries))
		}
		if entries[0].Level != zapcore.ErrorLevel {
			t.Errorf("unexpected level: %s", entries[0].Level)
		}
	})

	t.Run("privileged port hint", func(t *testing.T) {
		spec := rawhttp.IPv4Spec(80)
		err := &rawhttp.BindError{Spec: spec, Err: syscall.EACCES}
		logger.LogListenFailure(spec, err)
		logger.LogListenFailure(spec, errors.New("address in use"))

		entries := logs.TakeAll()
		if len(entries) != 2 {
			t.Fatalf("expected 2 log entries, got %d", len(entries))
		}
		if _, ok := entries[0].ContextMap()["hint"]; !ok {
			t.Errorf("expected a hint on the privileged failure")
		}
		if _, ok := entries[1].ContextMap()["hint"]; ok {
			t.Errorf("unexpected hint on a plain failure")
		}
	})

	t.Run("listening", func(t *testing.T) {
		logger.LogListening(rawhttp.DualStackSpec(8000), "[::]:8000", true)

		entries := logs.TakeAll()
		if len(entries) != 1 {
			t.Fatalf("expected 1 log entry, got %d", len(entries))
		}
		if entries[0].ContextMap()["family"] != "ipv6" || entries[0].ContextMap()["dual_stack"] != true {
			t.Errorf("unexpected fields: %v", entries[0].ContextMap())
		}
	})

	t.Run("parse failures are debug", func(t *testing.T) {
		logger.LogParseFailure("192.0.2.1", rawhttp.ErrMalformedRequest)

		entries := logs.TakeAll()
		if len(entries) != 1 || entries[0].Level != zapcore.DebugLevel {
			t.Fatalf("expected 1 debug entry, got %v", entries)
		}
	})
}
