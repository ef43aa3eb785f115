package bapiapp

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap/zapcore"
)

// Environment defines the interface that all environment configurations must implement.
// Embed BaseEnvironment in your struct to satisfy this interface.
type Environment interface {
	port() int
	serviceName() string
	healthPath() string
	logLevel() zapcore.Level
	otelExporter() string
	readHeaderTimeout() time.Duration
	writeTimeout() time.Duration
}

// BaseEnvironment contains the environment variables every app reads.
// Embed this in your custom environment struct.
type BaseEnvironment struct {
	Port              int           `env:"BAPI_PORT,required"`
	ServiceName       string        `env:"BAPI_SERVICE_NAME" envDefault:"bapi"`
	HealthPath        string        `env:"BAPI_HEALTH_PATH" envDefault:"/health"`
	LogLevel          zapcore.Level `env:"BAPI_LOG_LEVEL" envDefault:"info"`
	OtelExporter      string        `env:"BAPI_OTEL_EXPORTER" envDefault:"none"`
	ReadHeaderTimeout time.Duration `env:"BAPI_READ_HEADER_TIMEOUT" envDefault:"5s"`
	WriteTimeout      time.Duration `env:"BAPI_WRITE_TIMEOUT" envDefault:"30s"`
}

func (e BaseEnvironment) port() int                        { return e.Port }
func (e BaseEnvironment) serviceName() string              { return e.ServiceName }
func (e BaseEnvironment) healthPath() string               { return e.HealthPath }
func (e BaseEnvironment) logLevel() zapcore.Level          { return e.LogLevel }
func (e BaseEnvironment) otelExporter() string             { return e.OtelExporter }
func (e BaseEnvironment) readHeaderTimeout() time.Duration { return e.ReadHeaderTimeout }
func (e BaseEnvironment) writeTimeout() time.Duration      { return e.WriteTimeout }

var _ Environment = BaseEnvironment{}

// ParseEnv parses environment variables into the given Environment type.
func ParseEnv[E Environment]() func() (E, error) {
	return func() (e E, err error) {
		if err := env.Parse(&e); err != nil {
			return e, errors.Wrap(err, "failed to parse environment")
		}
		return e, nil
	}
}
