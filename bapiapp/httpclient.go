package bapiapp

import (
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// outboundSpanName names client spans after the upstream they call, which keeps them apart from
// the server span of the request being dispatched.
func outboundSpanName(_ string, r *http.Request) string {
	return r.Method + " " + r.URL.Host
}

// NewHTTPTransport is the round tripper behind [Runtime.NewRequest]. Calls made from a handler
// become child spans of the dispatched request and carry its trace context upstream.
func NewHTTPTransport(tp trace.TracerProvider, prop propagation.TextMapPropagator) http.RoundTripper {
	return otelhttp.NewTransport(http.DefaultTransport,
		otelhttp.WithTracerProvider(tp),
		otelhttp.WithPropagators(prop),
		otelhttp.WithSpanNameFormatter(outboundSpanName),
	)
}

// NewHTTPClient wraps the transport for code that wants a plain *http.Client.
func NewHTTPClient(t http.RoundTripper) *http.Client {
	return &http.Client{Transport: t}
}
