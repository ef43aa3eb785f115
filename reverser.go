package bapi

import (
	"fmt"

	"github.com/advdv/bapi/internal/pathpattern"
	"github.com/samber/lo"
)

// Reverse builds the path of the named endpoint by substituting vals for its parameters, in order.
func (r *Router) Reverse(endpoint string, vals ...string) (string, error) {
	route, ok := r.byEndpoint[endpoint]
	if !ok {
		return "", fmt.Errorf("no endpoint named: %q, got: %v", endpoint, lo.Keys(r.byEndpoint)) //nolint:goerr113
	}

	res, err := pathpattern.Build(route.pattern, vals...)
	if err != nil {
		return "", fmt.Errorf("failed to build: %w", err)
	}

	return res, nil
}
