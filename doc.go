// Package bapi provides request dispatching for JSON HTTP APIs with value-returning handlers.
//
// # Overview
//
// bapi matches incoming requests to registered handlers, runs each handler with the request
// bound to its context, converts whatever the handler returns into a response and recovers
// from errors through a registry of error handlers. A minimal example:
//
//	disp := bapi.NewDispatcher()
//	disp.MustHandleFunc("get_item", "/items/{id:int}", func(ctx context.Context, r *bapi.Request) (any, error) {
//	    id, _ := r.Params().Int("id")
//	    item, err := db.GetItem(id)
//	    if err != nil {
//	        return nil, bapi.NewError(bapi.CodeNotFound, map[string]string{"msg": "no such item"})
//	    }
//	    return map[string]any{"id": item.ID, "name": item.Name}, nil
//	})
//
//	http.ListenAndServe(":8080", disp)
//
// # Handler Signature
//
// Handlers receive the context and a [*Request] and return a value or an error:
//
//	func(ctx context.Context, r *bapi.Request) (any, error)
//
// The value is coerced by [MakeResponse]: strings, slices and maps are encoded as JSON, byte
// slices pass through and [WithStatus] sets an explicit status code. The request stays
// reachable from the context through [RequestFrom] until the dispatch ends.
//
// # Routing
//
// Routes are registered under a unique endpoint name. Patterns are slash separated templates
// with typed parameters:
//
//	/book/{id:int}        int, float, uuid or string (the default)
//	/static/{file...}     the non-empty rest of the path
//
// When several patterns match a path the most specific one wins: fewer wildcards, then more
// literal segments, then more typed parameters, then the earliest registration. A path that
// matches but with the wrong method yields a 405 listing the allowed methods. GET implies HEAD
// and OPTIONS is answered automatically unless it is registered explicitly.
//
// [Dispatcher.Reverse] builds paths from endpoint names:
//
//	url, err := disp.Reverse("get_item", "123") // returns "/items/123"
//
// # Error Handling
//
// Errors fall in four kinds, see [KindOf]:
//
//   - [*Error] (domain errors, created with [NewError]) are responses already and are rendered
//     as they are
//   - routing errors ([*RouteNotFoundError], [*MethodNotAllowedError]) and [*HTTPError] carry a
//     status code
//   - any other error is unanticipated
//
// All but domain errors are looked up in the [ErrorRegistry] by status code and [Class]:
//
//	disp.MustHandleError(bapi.CodeNotFound, func(ctx context.Context, err error) (any, error) {
//	    return nil, bapi.NewError(bapi.CodeNotFound, map[string]string{"msg": "source not found."})
//	})
//
// Without a handler, or when the handler fails, errors that carry a status keep it and
// everything else becomes a 500 response. Callers always receive a response.
//
// # Lifecycle
//
// Every dispatch walks the states in [State]. [Dispatcher.Observe] registers observers that
// see every transition. The first dispatch freezes the routes and error handlers.
package bapi
