package bapi

import (
	"context"
	"log"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/cockroachdb/errors"
)

// State is a step in the lifecycle of a dispatched request.
type State int

const (
	StateIdle State = iota
	StateBound
	StateRouted
	StateInvoking
	StateSucceeded
	StateRecovering
	StateCoerced
	StateSent
	StateUnbound
)

var stateNames = [...]string{
	"idle", "bound", "routed", "invoking", "succeeded", "recovering", "coerced", "sent", "unbound",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Observer is informed of every state a dispatched request enters.
type Observer func(ctx context.Context, s State)

// Dispatcher matches requests to handlers, invokes them with the request bound to their context,
// recovers from their errors and coerces their return values into responses.
//
// Routes, error handlers and observers are registered at setup time. The first dispatched request
// freezes the configuration.
type Dispatcher struct {
	logs      Logger
	router    *Router
	errs      *ErrorRegistry
	observers []Observer
	frozen    sync.Once
	started   atomic.Bool
}

// NewDispatcher creates a new Dispatcher with default settings.
func NewDispatcher() *Dispatcher {
	return NewDispatcherWith(NewStdLogger(log.Default()), NewRouter(), NewErrorRegistry())
}

// NewDispatcherWith creates a Dispatcher with custom settings.
func NewDispatcherWith(logger Logger, router *Router, errs *ErrorRegistry) *Dispatcher {
	return &Dispatcher{logs: logger, router: router, errs: errs}
}

// Router returns the dispatcher's router.
func (d *Dispatcher) Router() *Router { return d.router }

// Reverse returns the path of the named endpoint given its parameter values.
func (d *Dispatcher) Reverse(endpoint string, vals ...string) (string, error) {
	return d.router.Reverse(endpoint, vals...)
}

// Handle registers handler for pattern under the endpoint name.
func (d *Dispatcher) Handle(endpoint, pattern string, handler Handler, methods ...string) error {
	_, err := d.router.Register(endpoint, pattern, handler, methods...)
	return err
}

// HandleFunc registers a handler function for pattern under the endpoint name.
func (d *Dispatcher) HandleFunc(endpoint, pattern string, handler HandlerFunc, methods ...string) error {
	return d.Handle(endpoint, pattern, handler, methods...)
}

// MustHandleFunc is a convenience method that panics if registering the handler fails.
func (d *Dispatcher) MustHandleFunc(endpoint, pattern string, handler HandlerFunc, methods ...string) {
	if err := d.HandleFunc(endpoint, pattern, handler, methods...); err != nil {
		panic("bapi: " + err.Error())
	}
}

// HandleError registers fn as error handler for target: a recognized HTTP error code or a [Class].
func (d *Dispatcher) HandleError(target any, fn RecoverFunc) error {
	return d.errs.Register(target, fn)
}

// MustHandleError is a convenience method that panics if registering the error handler fails.
func (d *Dispatcher) MustHandleError(target any, fn RecoverFunc) {
	if err := d.HandleError(target, fn); err != nil {
		panic("bapi: " + err.Error())
	}
}

// Observe registers observers of the request lifecycle.
func (d *Dispatcher) Observe(obs ...Observer) {
	d.ensureNotStarted()
	d.observers = append(d.observers, obs...)
}

// Dispatch serves r and returns the response without writing it anywhere. It never fails.
func (d *Dispatcher) Dispatch(ctx context.Context, r *http.Request) *Response {
	return d.serve(ctx, r, nil)
}

// ServeHTTP makes the dispatcher implement the http.Handler interface.
func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	d.serve(r.Context(), r, func(resp *Response) {
		if err := resp.write(w, r.Method != http.MethodHead); err != nil {
			d.logs.LogWriteError(err)
		}
	})
}

func (d *Dispatcher) serve(ctx context.Context, r *http.Request, send func(*Response)) (resp *Response) {
	d.freeze()

	req := NewRequest(r)
	ctx, unbind := Bind(ctx, req)
	defer func() {
		unbind()
		d.enter(ctx, StateUnbound)
	}()

	d.enter(ctx, StateBound)

	func() {
		defer func() {
			if p := recover(); p != nil {
				err := panicError(p)
				d.logs.LogUnhandledError(err)
				resp = internalResponse(err)
			}
		}()

		resp = d.coerce(ctx, d.invoke(ctx, req))
	}()

	if send != nil {
		send(resp)
		d.enter(ctx, StateSent)
	}

	return resp
}

// invoke routes and calls the handler, recovering from its errors. The result is a value to coerce.
func (d *Dispatcher) invoke(ctx context.Context, req *Request) any {
	match, err := d.router.Match(req.Method(), req.Path())
	d.enter(ctx, StateRouted)
	if err != nil {
		return d.recoverFrom(ctx, err)
	}

	req.endpoint, req.params = match.Endpoint, match.Params
	if req.Method() == http.MethodOptions && !match.Route.explicitOptions {
		d.enter(ctx, StateSucceeded)
		return NewResponse(nil, http.StatusOK, "").WithHeader("Allow", strings.Join(d.router.Allowed(req.Path()), ", "))
	}

	d.enter(ctx, StateInvoking)
	rv, err := callHandler(ctx, match.Route.handler, req)
	if err == nil {
		d.enter(ctx, StateSucceeded)
		return rv
	}

	if derr, ok := asError(err); ok {
		return derr
	}

	return d.recoverFrom(ctx, err)
}

// recoverFrom resolves err to an error handler and returns its value. Without a usable handler,
// framework errors become domain errors with their own status and everything else a generic 500.
func (d *Dispatcher) recoverFrom(ctx context.Context, err error) any {
	d.enter(ctx, StateRecovering)

	if entry, ok := d.errs.Resolve(err); ok {
		rv, rerr := callRecover(ctx, entry.Recover, err)
		if rerr == nil {
			return rv
		}
		if derr, ok := asError(rerr); ok {
			return derr
		}
		d.logs.LogRecoveryError(errors.Wrapf(rerr, "recover from %q", err.Error()))
	}

	if herr, ok := asHTTPError(err); ok {
		return herr.toError(CodeUnknown)
	}

	d.logs.LogUnhandledError(err)
	return internalError(err)
}

// coerce turns the value into a response, degrading to a generic 500 when that fails.
func (d *Dispatcher) coerce(ctx context.Context, rv any) *Response {
	d.enter(ctx, StateCoerced)

	resp, err := MakeResponse(rv)
	if err != nil {
		d.logs.LogUnhandledError(err)
		return internalResponse(err)
	}
	return resp
}

// enter informs the observers of s. A panicking observer is logged and does not stop the others.
func (d *Dispatcher) enter(ctx context.Context, s State) {
	for _, obs := range d.observers {
		d.notify(ctx, obs, s)
	}
}

func (d *Dispatcher) notify(ctx context.Context, obs Observer, s State) {
	defer func() {
		if p := recover(); p != nil {
			d.logs.LogUnhandledError(errors.Wrapf(panicError(p), "observe %s", s))
		}
	}()
	obs(ctx, s)
}

func (d *Dispatcher) freeze() {
	d.frozen.Do(func() {
		d.started.Store(true)
		d.router.Freeze()
		d.errs.Freeze()
	})
}

func (d *Dispatcher) ensureNotStarted() {
	if d.started.Load() {
		panic("bapi: cannot call Observe() after dispatching")
	}
}

// internalError is the last line of defense: a 500 domain error with the error's text as body.
func internalError(err error) *Error {
	return NewError(CodeInternalServerError, err.Error()).WithCause(err)
}

// internalResponse renders internalError. Encoding a string cannot fail, but if it ever does the
// response is built by hand.
func internalResponse(err error) *Response {
	resp, rerr := internalError(err).Response()
	if rerr != nil {
		return NewResponse([]byte(`"Internal Error"`), http.StatusInternalServerError, MimetypeJSON)
	}
	return resp
}
