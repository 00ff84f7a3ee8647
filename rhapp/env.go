package rhapp

import (
	"github.com/caarlos0/env/v11"
	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
	"go.uber.org/zap/zapcore"
)

// Environment defines the interface that all environment configurations must implement.
// Embed BaseEnvironment in your struct to satisfy this interface.
type Environment interface {
	ports() []int
	serverName() string
	logLevel() zapcore.Level
	otelExporter() string
	maxConns() int
}

// BaseEnvironment contains the environment variables the server reads.
// Embed this in your custom environment struct.
type BaseEnvironment struct {
	Ports        []int         `env:"RAWHTTP_PORTS" envDefault:"80,8000" envSeparator:","`
	ServerName   string        `env:"RAWHTTP_SERVER_NAME" envDefault:"rawhttp-dual-port-server"`
	LogLevel     zapcore.Level `env:"RAWHTTP_LOG_LEVEL" envDefault:"info"`
	OtelExporter string        `env:"RAWHTTP_OTEL_EXPORTER" envDefault:"none"`
	// MaxConns caps the connections handled at once per listener. Zero means no cap.
	MaxConns int `env:"RAWHTTP_MAX_CONNS" envDefault:"0"`
}

func (e BaseEnvironment) ports() []int {
	return e.Ports
}

func (e BaseEnvironment) serverName() string {
	return e.ServerName
}

func (e BaseEnvironment) logLevel() zapcore.Level {
	return e.LogLevel
}

func (e BaseEnvironment) otelExporter() string {
	return e.OtelExporter
}

func (e BaseEnvironment) maxConns() int {
	return e.MaxConns
}

var _ Environment = BaseEnvironment{}

// ParseEnv parses environment variables into the given Environment type.
func ParseEnv[E Environment]() func() (E, error) {
	return func() (e E, err error) {
		if err := env.Parse(&e); err != nil {
			return e, errors.Wrap(err, "failed to parse environment")
		}
		if err := ValidatePorts(e.ports()); err != nil {
			return e, errors.Wrap(err, "invalid RAWHTTP_PORTS")
		}
		if e.maxConns() < 0 {
			return e, errors.Newf("invalid RAWHTTP_MAX_CONNS: %d must not be negative", e.maxConns())
		}
		return e, nil
	}
}

// ValidatePorts checks that at least one port is given, that every port is in the TCP range and that none
// repeats.
func ValidatePorts(ports []int) error {
	if len(ports) == 0 {
		return errors.New("no ports configured")
	}

	if bad := lo.Filter(ports, func(p int, _ int) bool { return p < 1 || p > 65535 }); len(bad) > 0 {
		return errors.Newf("ports out of range 1-65535: %v", bad)
	}

	if dups := lo.FindDuplicates(ports); len(dups) > 0 {
		return errors.Newf("duplicate ports: %v", dups)
	}

	return nil
}
