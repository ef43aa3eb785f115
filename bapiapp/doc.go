// Package bapiapp provides a batteries-included application around a [bapi.Dispatcher].
//
// # Overview
//
// bapiapp handles the boilerplate of running a bapi service: environment parsing, structured
// logging, OpenTelemetry tracing and graceful shutdown of the HTTP server. A complete
// application can be created in a single call:
//
//	bapiapp.NewApp[Env](func(d *bapi.Dispatcher, h *Handlers) {
//	    d.MustHandleFunc("list_items", "/items", h.ListItems)
//	    d.MustHandleFunc("get_item", "/items/{id:int}", h.GetItem)
//	},
//	    bapiapp.WithFx(fx.Provide(NewHandlers)),
//	).Run()
//
// # Environment Configuration
//
// Define your environment by embedding [BaseEnvironment]:
//
//	type Env struct {
//	    bapiapp.BaseEnvironment
//	    DatabaseURL string `env:"DATABASE_URL,required"`
//	}
//
// BaseEnvironment provides the following environment variables:
//
//	| Variable                  | Required | Default | Description                               |
//	|---------------------------|----------|---------|-------------------------------------------|
//	| BAPI_PORT                 | Yes      | -       | Port the HTTP server listens on           |
//	| BAPI_SERVICE_NAME         | No       | bapi    | Service name for logging and tracing      |
//	| BAPI_HEALTH_PATH          | No       | /health | Path of the (untraced) health check       |
//	| BAPI_LOG_LEVEL            | No       | info    | Log level (debug, info, warn, error)      |
//	| BAPI_OTEL_EXPORTER        | No       | none    | Trace exporter: "none" or "stdout"        |
//	| BAPI_READ_HEADER_TIMEOUT  | No       | 5s      | http.Server ReadHeaderTimeout             |
//	| BAPI_WRITE_TIMEOUT        | No       | 30s     | http.Server WriteTimeout                  |
//
// # Runtime
//
// [Runtime] provides access to app-scoped dependencies and should be injected into handler
// constructors via fx:
//   - [Runtime.Env] returns the typed environment configuration
//   - [Runtime.Reverse] builds paths for named endpoints
//   - [Runtime.NewRequest] returns a [github.com/carlmjohnson/requests] builder for outbound
//     calls over the instrumented transport; [http.RoundTripper] and [*http.Client] can be
//     injected as well
//
// # Request-scoped helpers
//
// [Log] returns a zap logger that carries the trace and span ids as well as the method, path
// and endpoint of the request being dispatched. [Span] returns the current span. Spans are
// named after the pattern of the matched route, e.g. "POST /book/{id:int}".
//
// # Testing
//
// Package bapiapptest builds the same graph with fxtest.
package bapiapp
