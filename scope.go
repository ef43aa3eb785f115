package bapi

import (
	"context"
	"sync/atomic"
)

// scopeKey scopes the request binding in a context.
type scopeKey struct{}

// scope binds a request to a context. Scopes form a chain so that releasing one restores the
// binding that was in place when it was created.
type scope struct {
	req      *Request
	parent   *scope
	released atomic.Bool
}

// UnbindFunc releases a request binding. It is safe to call more than once.
type UnbindFunc func()

// Bind returns a context in which req is the current request. Calling the returned function
// restores the previous binding (none, for a top-level request) for every context derived from
// the returned one, including contexts that outlive the request.
func Bind(ctx context.Context, req *Request) (context.Context, UnbindFunc) {
	parent, _ := ctx.Value(scopeKey{}).(*scope)
	s := &scope{req: req, parent: parent}
	return context.WithValue(ctx, scopeKey{}, s), func() { s.released.Store(true) }
}

// RequestFrom returns the request currently bound to ctx.
func RequestFrom(ctx context.Context) (*Request, bool) {
	s, _ := ctx.Value(scopeKey{}).(*scope)
	for s != nil && s.released.Load() {
		s = s.parent
	}
	if s == nil {
		return nil, false
	}
	return s.req, true
}
