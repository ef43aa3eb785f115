package bapiapp

import (
	"net/http"

	"github.com/advdv/bapi"
	"github.com/carlmjohnson/requests"
)

// Runtime provides access to app-scoped dependencies.
// Inject this into handler constructors via fx instead of pulling from context.
//
// Example:
//
//	type Handlers struct {
//	    rt *bapiapp.Runtime[Env]
//	}
//
//	func NewHandlers(rt *bapiapp.Runtime[Env]) *Handlers {
//	    return &Handlers{rt: rt}
//	}
//
//	func (h *Handlers) CreateItem(ctx context.Context, r *bapi.Request) (any, error) {
//	    loc, _ := h.rt.Reverse("get_item", id)
//	    err := h.rt.NewRequest().BaseURL(h.rt.Env().UpstreamURL).Fetch(ctx)
//	    // ...
//	}
type Runtime[E Environment] struct {
	env       E
	disp      *bapi.Dispatcher
	transport http.RoundTripper
}

// NewRuntime creates a new Runtime with the given dependencies.
func NewRuntime[E Environment](env E, disp *bapi.Dispatcher, transport http.RoundTripper) *Runtime[E] {
	return &Runtime[E]{env: env, disp: disp, transport: transport}
}

// Env returns the environment configuration.
func (r *Runtime[E]) Env() E {
	return r.env
}

// Reverse returns the path of the named endpoint with the given parameter values.
func (r *Runtime[E]) Reverse(endpoint string, vals ...string) (string, error) {
	return r.disp.Reverse(endpoint, vals...)
}

// NewRequest returns a fresh [requests.Builder] that sends through the instrumented transport,
// so outbound calls become child spans of the request's trace.
func (r *Runtime[E]) NewRequest() *requests.Builder {
	return requests.New().Transport(r.transport)
}
