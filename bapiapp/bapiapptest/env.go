package bapiapptest

import (
	"strconv"
	"testing"
)

// Env provides a chainable builder for setting [bapiapp.BaseEnvironment] env vars
// via t.Setenv. Create one with [SetBaseEnv].
type Env struct {
	t testing.TB
}

// SetBaseEnv sets all [bapiapp.BaseEnvironment] env vars to sensible test defaults.
// Port is required because each test must use a unique port to avoid collisions.
//
// Defaults:
//   - BAPI_SERVICE_NAME: "test"
//   - BAPI_HEALTH_PATH: "/health"
//   - BAPI_LOG_LEVEL: "info"
//   - BAPI_OTEL_EXPORTER: "none"
//
// Use the returned [Env] to override individual values:
//
//	bapiapptest.SetBaseEnv(t, 18085).ServiceName("books").LogLevel("debug")
func SetBaseEnv(t testing.TB, port int) *Env {
	t.Helper()
	t.Setenv("BAPI_PORT", strconv.Itoa(port))
	t.Setenv("BAPI_SERVICE_NAME", "test")
	t.Setenv("BAPI_HEALTH_PATH", "/health")
	t.Setenv("BAPI_LOG_LEVEL", "info")
	t.Setenv("BAPI_OTEL_EXPORTER", "none")
	return &Env{t: t}
}

// ServiceName overrides BAPI_SERVICE_NAME.
func (e *Env) ServiceName(name string) *Env {
	e.t.Helper()
	e.t.Setenv("BAPI_SERVICE_NAME", name)
	return e
}

// HealthPath overrides BAPI_HEALTH_PATH.
func (e *Env) HealthPath(path string) *Env {
	e.t.Helper()
	e.t.Setenv("BAPI_HEALTH_PATH", path)
	return e
}

// LogLevel overrides BAPI_LOG_LEVEL.
func (e *Env) LogLevel(level string) *Env {
	e.t.Helper()
	e.t.Setenv("BAPI_LOG_LEVEL", level)
	return e
}

// OtelExporter overrides BAPI_OTEL_EXPORTER.
func (e *Env) OtelExporter(exporter string) *Env {
	e.t.Helper()
	e.t.Setenv("BAPI_OTEL_EXPORTER", exporter)
	return e
}
