package rhapp_test

import (
	"os"
	"testing"

	"github.com/advdv/rawhttp/rhapp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"RAWHTTP_PORTS", "RAWHTTP_SERVER_NAME", "RAWHTTP_LOG_LEVEL", "RAWHTTP_OTEL_EXPORTER", "RAWHTTP_MAX_CONNS",
	} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestParseEnvDefaults(t *testing.T) {
	clearEnv(t)

	env, err := rhapp.ParseEnv[rhapp.BaseEnvironment]()()
	require.NoError(t, err)

	assert.Equal(t, []int{80, 8000}, env.Ports)
	assert.Equal(t, "rawhttp-dual-port-server", env.ServerName)
	assert.Equal(t, zapcore.InfoLevel, env.LogLevel)
	assert.Equal(t, "none", env.OtelExporter)
	assert.Equal(t, 0, env.MaxConns)
}

func TestParseEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("RAWHTTP_PORTS", "8000")
	t.Setenv("RAWHTTP_SERVER_NAME", "edge")
	t.Setenv("RAWHTTP_LOG_LEVEL", "DEBUG")
	t.Setenv("RAWHTTP_MAX_CONNS", "64")

	env, err := rhapp.ParseEnv[rhapp.BaseEnvironment]()()
	require.NoError(t, err)

	assert.Equal(t, []int{8000}, env.Ports)
	assert.Equal(t, "edge", env.ServerName)
	assert.Equal(t, zapcore.DebugLevel, env.LogLevel)
	assert.Equal(t, 64, env.MaxConns)
}

type customEnv struct {
	rhapp.BaseEnvironment
	Greeting string `env:"GREETING" envDefault:"hi"`
}

func TestParseEnvEmbedded(t *testing.T) {
	clearEnv(t)
	t.Setenv("RAWHTTP_PORTS", "9000,9001")

	env, err := rhapp.ParseEnv[customEnv]()()
	require.NoError(t, err)
	assert.Equal(t, []int{9000, 9001}, env.Ports)
	assert.Equal(t, "hi", env.Greeting)
}

func TestParseEnvInvalid(t *testing.T) {
	for _, tt := range []struct {
		name, key, value, wantErr string
	}{
		{"not a number", "RAWHTTP_PORTS", "80,http", "failed to parse environment"},
		{"out of range", "RAWHTTP_PORTS", "80,70000", "out of range"},
		{"zero port", "RAWHTTP_PORTS", "0", "out of range"},
		{"duplicate", "RAWHTTP_PORTS", "8000,8000", "duplicate ports"},
		{"negative max conns", "RAWHTTP_MAX_CONNS", "-1", "must not be negative"},
		{"bad level", "RAWHTTP_LOG_LEVEL", "loud", "failed to parse environment"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := rhapp.ParseEnv[rhapp.BaseEnvironment]()()
			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestValidatePorts(t *testing.T) {
	require.NoError(t, rhapp.ValidatePorts([]int{80, 8000}))
	require.ErrorContains(t, rhapp.ValidatePorts(nil), "no ports configured")
	require.ErrorContains(t, rhapp.ValidatePorts([]int{1, 65536}), "[65536]")
	require.ErrorContains(t, rhapp.ValidatePorts([]int{80, 81, 80}), "[80]")
}
