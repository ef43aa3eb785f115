package bapi_test

import (
	"context"
	"testing"

	"github.com/advdv/bapi"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler(v any) bapi.HandlerFunc {
	return func(context.Context, *bapi.Request) (any, error) { return v, nil }
}

func TestRouterRegister(t *testing.T) {
	rtr := bapi.NewRouter()

	route, err := rtr.Register("index", "/", okHandler("x"))
	require.NoError(t, err)
	assert.Equal(t, "index", route.Endpoint())
	assert.Equal(t, "/", route.Pattern())
	assert.Equal(t, []string{"GET", "HEAD", "OPTIONS"}, route.Methods())

	t.Run("should normalize methods", func(t *testing.T) {
		route, err := rtr.Register("book", "/book/{id:int}", okHandler("x"), "post", " put ", "POST")
		require.NoError(t, err)
		assert.Equal(t, []string{"OPTIONS", "POST", "PUT"}, route.Methods())
	})

	t.Run("should reject duplicate endpoints and leave the table unchanged", func(t *testing.T) {
		before := rtr.Routes()
		_, err := rtr.Register("index", "/other", okHandler("y"))
		require.ErrorIs(t, err, bapi.ErrDuplicateEndpoint)
		assert.Equal(t, before, rtr.Routes())

		_, err = rtr.Match("GET", "/other")
		var rnf *bapi.RouteNotFoundError
		require.ErrorAs(t, err, &rnf)
	})

	t.Run("should reject invalid routes", func(t *testing.T) {
		_, err := rtr.Register("", "/x", okHandler("y"))
		require.ErrorIs(t, err, bapi.ErrInvalidRoute)

		_, err = rtr.Register("nil", "/x", nil)
		require.ErrorIs(t, err, bapi.ErrInvalidRoute)

		_, err = rtr.Register("bad", "x", okHandler("y"))
		require.ErrorIs(t, err, bapi.ErrInvalidPattern)
		assert.Contains(t, err.Error(), "must start with a slash")

		_, err = rtr.Register("nomethod", "/x", okHandler("y"), "")
		require.ErrorIs(t, err, bapi.ErrInvalidRoute)

		_, ok := rtr.Route("bad")
		assert.False(t, ok)
	})

	t.Run("should reject registration once frozen", func(t *testing.T) {
		rtr := bapi.NewRouter()
		rtr.Freeze()
		_, err := rtr.Register("index", "/", okHandler("x"))
		require.ErrorIs(t, err, bapi.ErrFrozen)
	})
}

func TestRouterMatch(t *testing.T) {
	rtr := bapi.NewRouter()
	lo.Must(rtr.Register("get_book", "/book/{id:int}", okHandler("get")))
	lo.Must(rtr.Register("post_book", "/book/{id:int}", okHandler("post"), "POST"))
	lo.Must(rtr.Register("slug", "/book/{slug}", okHandler("slug"), "PUT"))

	t.Run("should bind typed params", func(t *testing.T) {
		res, err := rtr.Match("GET", "/book/12")
		require.NoError(t, err)
		assert.Equal(t, "get_book", res.Endpoint)
		assert.Equal(t, bapi.Params{{Name: "id", Value: 12}}, res.Params)
	})

	t.Run("should route disjoint methods on the same pattern", func(t *testing.T) {
		res, err := rtr.Match("post", "/book/12")
		require.NoError(t, err)
		assert.Equal(t, "post_book", res.Endpoint)
	})

	t.Run("should match HEAD for GET routes", func(t *testing.T) {
		res, err := rtr.Match("HEAD", "/book/12")
		require.NoError(t, err)
		assert.Equal(t, "get_book", res.Endpoint)
	})

	t.Run("should fall through to less specific patterns", func(t *testing.T) {
		res, err := rtr.Match("PUT", "/book/abc")
		require.NoError(t, err)
		assert.Equal(t, "slug", res.Endpoint)
		assert.Equal(t, "abc", res.Params.String("slug"))
	})

	t.Run("should report the allowed methods", func(t *testing.T) {
		_, err := rtr.Match("DELETE", "/book/12")
		var mna *bapi.MethodNotAllowedError
		require.ErrorAs(t, err, &mna)
		assert.Equal(t, []string{"GET", "HEAD", "OPTIONS", "POST", "PUT"}, mna.Allowed)
		assert.Equal(t, bapi.CodeMethodNotAllowed, bapi.CodeOf(err))
	})

	t.Run("should list the same methods for every matching route", func(t *testing.T) {
		_, err := rtr.Match("DELETE", "/book/12")
		var mna *bapi.MethodNotAllowedError
		require.ErrorAs(t, err, &mna)
		assert.Equal(t, mna.Allowed, rtr.Allowed("/book/12"))
		assert.Equal(t, []string{"OPTIONS", "PUT"}, rtr.Allowed("/book/abc"))
		assert.Empty(t, rtr.Allowed("/nope"))
	})

	t.Run("should report not found", func(t *testing.T) {
		_, err := rtr.Match("GET", "/nope")
		var rnf *bapi.RouteNotFoundError
		require.ErrorAs(t, err, &rnf)
		assert.Equal(t, "/nope", rnf.Path)
		assert.Equal(t, bapi.CodeNotFound, bapi.CodeOf(err))
	})
}

func TestRouterPrecedence(t *testing.T) {
	patterns := map[string]string{
		"wildcard": "/files/{rest...}",
		"string":   "/files/{name}",
		"int":      "/files/{id:int}",
		"literal":  "/files/latest",
	}

	for _, order := range [][]string{
		{"wildcard", "string", "int", "literal"},
		{"literal", "int", "string", "wildcard"},
		{"string", "wildcard", "literal", "int"},
	} {
		rtr := bapi.NewRouter()
		for _, name := range order {
			lo.Must(rtr.Register(name, patterns[name], okHandler(name)))
		}

		for path, want := range map[string]string{
			"/files/latest":  "literal",
			"/files/12":      "int",
			"/files/x":       "string",
			"/files/x/y.txt": "wildcard",
		} {
			res, err := rtr.Match("GET", path)
			require.NoError(t, err)
			assert.Equal(t, want, res.Endpoint, "order %v, path %s", order, path)
		}
	}

	t.Run("should prefer the earliest registration among equals", func(t *testing.T) {
		rtr := bapi.NewRouter()
		lo.Must(rtr.Register("first", "/{a}/x", okHandler(1)))
		lo.Must(rtr.Register("second", "/y/{b}", okHandler(2)))

		res, err := rtr.Match("GET", "/y/x")
		require.NoError(t, err)
		assert.Equal(t, "first", res.Endpoint)
	})
}
