package bapi

import (
	"slices"
	"strings"
	"sync/atomic"

	"github.com/advdv/bapi/internal/pathpattern"
	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
)

// Route is a registered rule. It is immutable once registered.
type Route struct {
	endpoint        string
	pattern         *pathpattern.Pattern
	methods         []string
	explicitOptions bool
	handler         Handler
	spec            pathpattern.Specificity
	seq             int
}

func (r *Route) Endpoint() string { return r.endpoint }
func (r *Route) Pattern() string  { return r.pattern.String() }

// Methods returns the allowed methods, sorted.
func (r *Route) Methods() []string { return slices.Clone(r.methods) }

func (r *Route) allows(method string) bool { return slices.Contains(r.methods, method) }

// MatchResult is the outcome of a successful match.
type MatchResult struct {
	Endpoint string
	Params   Params
	Route    *Route
}

// Router resolves (method, path) pairs to routes. More specific patterns win over less specific
// ones; equally specific patterns are tried in registration order.
type Router struct {
	routes     []*Route
	byEndpoint map[string]*Route
	seq        int
	frozen     atomic.Bool
}

// NewRouter inits an empty router.
func NewRouter() *Router {
	return &Router{byEndpoint: map[string]*Route{}}
}

// Register adds a route for pattern under the unique endpoint name. Methods default to GET; HEAD
// is implied by GET and OPTIONS is always allowed.
func (r *Router) Register(endpoint, pattern string, h Handler, methods ...string) (*Route, error) {
	switch {
	case r.frozen.Load():
		return nil, errors.Wrapf(ErrFrozen, "register endpoint %q", endpoint)
	case endpoint == "":
		return nil, errors.Wrap(ErrInvalidRoute, "empty endpoint name")
	case h == nil:
		return nil, errors.Wrapf(ErrInvalidRoute, "nil handler for endpoint %q", endpoint)
	}

	if _, exists := r.byEndpoint[endpoint]; exists {
		return nil, errors.Wrapf(ErrDuplicateEndpoint, "%q, got: %v", endpoint, lo.Keys(r.byEndpoint))
	}

	pat, err := pathpattern.Parse(pattern)
	if err != nil {
		return nil, errors.Wrapf(errors.Mark(err, ErrInvalidPattern), "endpoint %q", endpoint)
	}

	meths, err := normalizeMethods(methods)
	if err != nil {
		return nil, errors.Wrapf(err, "endpoint %q", endpoint)
	}

	route := &Route{
		endpoint:        endpoint,
		pattern:         pat,
		methods:         meths,
		explicitOptions: slices.Contains(upper(methods), "OPTIONS"),
		handler:         h,
		spec:            pat.Specificity(),
		seq:             r.seq,
	}
	r.seq++

	r.routes = append(r.routes, route)
	slices.SortStableFunc(r.routes, func(a, b *Route) int {
		if c := pathpattern.Compare(a.spec, b.spec); c != 0 {
			return c
		}
		return a.seq - b.seq
	})
	r.byEndpoint[endpoint] = route

	return route, nil
}

func upper(methods []string) []string {
	return lo.Map(methods, func(m string, _ int) string {
		return strings.ToUpper(strings.TrimSpace(m))
	})
}

func normalizeMethods(methods []string) ([]string, error) {
	meths := upper(methods)
	if len(meths) == 0 {
		meths = []string{"GET"}
	}

	if slices.Contains(meths, "") {
		return nil, errors.Wrap(ErrInvalidRoute, "empty method")
	}

	if slices.Contains(meths, "GET") {
		meths = append(meths, "HEAD")
	}
	meths = append(meths, "OPTIONS")

	meths = lo.Uniq(meths)
	slices.Sort(meths)

	return meths, nil
}

// Match resolves the method and path. It fails with a [*RouteNotFoundError] if no pattern matches
// the path, and with a [*MethodNotAllowedError] if patterns match but none allows the method.
func (r *Router) Match(method, path string) (*MatchResult, error) {
	method = strings.ToUpper(method)

	var matched bool
	for _, route := range r.routes {
		vals, ok := route.pattern.Match(path)
		if !ok {
			continue
		}

		matched = true
		if !route.allows(method) {
			continue
		}

		params := make(Params, 0, len(vals))
		for _, v := range vals {
			params = append(params, Param{Name: v.Name, Value: v.Value})
		}

		return &MatchResult{Endpoint: route.endpoint, Params: params, Route: route}, nil
	}

	if matched {
		return nil, &MethodNotAllowedError{Method: method, Path: path, Allowed: r.Allowed(path)}
	}

	return nil, &RouteNotFoundError{Method: method, Path: path}
}

// Allowed returns the sorted union of the methods of every route whose pattern matches path.
func (r *Router) Allowed(path string) []string {
	var allowed []string
	for _, route := range r.routes {
		if _, ok := route.pattern.Match(path); ok {
			allowed = append(allowed, route.methods...)
		}
	}

	allowed = lo.Uniq(allowed)
	slices.Sort(allowed)
	return allowed
}

// Route returns the route registered under endpoint.
func (r *Router) Route(endpoint string) (*Route, bool) {
	route, ok := r.byEndpoint[endpoint]
	return route, ok
}

// Routes returns the routes in matching order.
func (r *Router) Routes() []*Route { return slices.Clone(r.routes) }

// Freeze makes the router read-only.
func (r *Router) Freeze() { r.frozen.Store(true) }
