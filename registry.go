package bapi

import (
	"context"
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
)

// RecoverFunc turns an error into a return value that is coerced into the response, just like a
// handler's return value. Returning an error means recovery failed, unless it is a domain [*Error]
// which is used as the response.
type RecoverFunc func(ctx context.Context, err error) (any, error)

// Entry is a registered error handler together with the key it was selected by.
type Entry struct {
	Bucket  Code
	Class   Class
	Recover RecoverFunc
}

// ErrorRegistry maps (status bucket, error class) to recovery functions. It is populated at setup
// time and read-only once frozen.
type ErrorRegistry struct {
	entries map[Code]map[Class]RecoverFunc
	frozen  atomic.Bool
}

// NewErrorRegistry inits an empty registry.
func NewErrorRegistry() *ErrorRegistry {
	return &ErrorRegistry{entries: map[Code]map[Class]RecoverFunc{}}
}

// Register registers fn for target which must be an int or [Code] (a recognized HTTP error
// status) or a [Class].
func (g *ErrorRegistry) Register(target any, fn RecoverFunc) error {
	switch t := target.(type) {
	case int:
		return g.RegisterCode(t, fn)
	case Code:
		return g.RegisterCode(int(t), fn)
	case Class:
		return g.RegisterClass(t, fn)
	default:
		return errors.Wrapf(ErrNotAnErrorClass, "%T", target)
	}
}

// RegisterCode registers fn for framework errors with the given status code. It is equivalent to
// registering fn for [StatusClass] of that code.
func (g *ErrorRegistry) RegisterCode(code int, fn RecoverFunc) error {
	if !Code(code).Recognized() {
		return errors.Wrapf(ErrUnrecognizedStatusCode, "%d", code)
	}
	return g.RegisterClass(StatusClass(Code(code)), fn)
}

// RegisterClass registers fn for errors of class c. If the class declares a status code the entry
// lives in that code's bucket, otherwise in the bucket of errors without status.
func (g *ErrorRegistry) RegisterClass(c Class, fn RecoverFunc) error {
	switch {
	case g.frozen.Load():
		return errors.Wrap(ErrFrozen, "register error handler")
	case c.IsZero():
		return errors.Wrap(ErrNotAnErrorClass, "zero class")
	case c.Code() != CodeUnknown && !c.Code().Recognized():
		return errors.Wrapf(ErrUnrecognizedStatusCode, "class %q declares %d", c, int(c.Code()))
	case fn == nil:
		return errors.Wrapf(ErrNotAnErrorClass, "nil error handler for %q", c)
	}

	bucket := g.entries[c.Code()]
	if bucket == nil {
		bucket = map[Class]RecoverFunc{}
		g.entries[c.Code()] = bucket
	}

	if _, exists := bucket[c]; exists {
		return errors.Wrapf(ErrDuplicateErrorHandler, "class %q (registered: %v)", c, lo.Keys(bucket))
	}

	bucket[c] = fn
	return nil
}

// Resolve selects the error handler for err: first by the error's most specific status bucket, then
// by its class within that bucket. Domain errors never resolve.
func (g *ErrorRegistry) Resolve(err error) (Entry, bool) {
	if err == nil {
		return Entry{}, false
	}

	cl := classify(err)
	if cl.kind == KindDomain {
		return Entry{}, false
	}

	fn, ok := g.entries[cl.bucket][cl.class]
	if !ok {
		return Entry{}, false
	}

	return Entry{Bucket: cl.bucket, Class: cl.class, Recover: fn}, true
}

// Len returns the number of registered handlers.
func (g *ErrorRegistry) Len() (n int) {
	for _, bucket := range g.entries {
		n += len(bucket)
	}
	return n
}

// Freeze makes the registry read-only.
func (g *ErrorRegistry) Freeze() { g.frozen.Store(true) }
