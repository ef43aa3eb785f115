package bapiapp

import (
	"context"
	"fmt"
	"net/http"

	"github.com/advdv/bapi"
	"github.com/cockroachdb/errors"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ServerConfig holds optional configuration for the HTTP server.
type ServerConfig struct {
	HealthHandler bapi.HandlerFunc
}

// ServerParams holds the dependencies for creating an HTTP server.
type ServerParams struct {
	fx.In

	Env        Environment
	Dispatcher *bapi.Dispatcher
	Logger     *zap.Logger
	TracerProv trace.TracerProvider
	Propagator propagation.TextMapPropagator
}

// HealthEndpoint is the endpoint name of the health check route.
const HealthEndpoint = "health"

// NewServer creates an HTTP server that serves the dispatcher with tracing configured.
func NewServer(params ServerParams, cfg ServerConfig) (*http.Server, error) {
	// The health check is served by the dispatcher like any other endpoint but is not traced to
	// avoid noisy traces from probes. The handler can be customized via ServerConfig.
	healthPath := params.Env.healthPath()
	healthHandler := cfg.HealthHandler
	if healthHandler == nil {
		healthHandler = defaultHealthHandler
	}
	if err := params.Dispatcher.HandleFunc(HealthEndpoint, healthPath, healthHandler); err != nil {
		return nil, errors.Wrap(err, "failed to register health check")
	}

	d := &requestDep{logger: params.Logger}

	// Add tracing with explicit provider injection (no globals).
	handler := withTracing(
		params.TracerProv,
		params.Propagator,
		params.Dispatcher.Router(),
		params.Env.serviceName(),
		healthPath,
	)(withRequestDep(d)(params.Dispatcher))

	return &http.Server{
		Addr:              fmt.Sprintf(":%d", params.Env.port()),
		Handler:           handler,
		ReadHeaderTimeout: params.Env.readHeaderTimeout(),
		WriteTimeout:      params.Env.writeTimeout(),
	}, nil
}

// startServerHook registers lifecycle hooks for the HTTP server.
func startServerHook(lc fx.Lifecycle, server *http.Server, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("starting server", zap.String("addr", server.Addr))
			go func() {
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("server error", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping server")
			return server.Shutdown(ctx)
		},
	})
}

func defaultHealthHandler(context.Context, *bapi.Request) (any, error) {
	return map[string]string{"status": "ok"}, nil
}
