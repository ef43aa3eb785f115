package bapi

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
)

// Handler serves a request by returning a value that is coerced into the response (see
// [MakeResponse]) or an error that is recovered from.
type Handler interface {
	ServeAPI(ctx context.Context, r *Request) (any, error)
}

// HandlerFunc allow casting a function to implement [Handler].
type HandlerFunc func(ctx context.Context, r *Request) (any, error)

// ServeAPI implements the [Handler] interface.
func (f HandlerFunc) ServeAPI(ctx context.Context, r *Request) (any, error) {
	return f(ctx, r)
}

// PanicError is the error a recovered panic is turned into.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string { return fmt.Sprintf("panic: %v", e.Value) }

// callHandler invokes h, turning a panic into an error.
func callHandler(ctx context.Context, h Handler, r *Request) (rv any, err error) {
	defer func() {
		if p := recover(); p != nil {
			rv, err = nil, panicError(p)
		}
	}()

	return h.ServeAPI(ctx, r)
}

// callRecover invokes fn, turning a panic into an error.
func callRecover(ctx context.Context, fn RecoverFunc, cause error) (rv any, err error) {
	defer func() {
		if p := recover(); p != nil {
			rv, err = nil, panicError(p)
		}
	}()

	return fn(ctx, cause)
}

func panicError(p any) error {
	if err, ok := p.(error); ok {
		return errors.WithStack(&PanicError{Value: err})
	}
	return errors.WithStack(&PanicError{Value: p})
}
