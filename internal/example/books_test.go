package example_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/advdv/bapi/bapiapp"
	"github.com/advdv/bapi/bapiapp/bapiapptest"
	"github.com/advdv/bapi/internal/example"
	"github.com/carlmjohnson/requests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
)

const baseURL = "http://localhost:18091"

func setup(t *testing.T) *bapiapp.Runtime[example.Env] {
	t.Helper()
	bapiapptest.SetBaseEnv(t, 18091).ServiceName("books")

	var rt *bapiapp.Runtime[example.Env]
	app := bapiapptest.New[example.Env](t, example.Routing,
		bapiapp.WithFx(fx.Provide(example.NewHandlers), fx.Populate(&rt)))
	app.RequireStart()
	t.Cleanup(app.RequireStop)

	require.Eventually(t, func() bool {
		return rt.NewRequest().BaseURL(baseURL).Path("/health").Fetch(context.Background()) == nil
	}, 5*time.Second, 20*time.Millisecond)

	return rt
}

func TestExampleApp(t *testing.T) {
	rt := setup(t)
	ctx := context.Background()

	t.Run("index", func(t *testing.T) {
		var s string
		require.NoError(t, rt.NewRequest().BaseURL(baseURL).ToJSON(&s).Fetch(ctx))
		assert.Equal(t, "hello world!", s)
	})

	t.Run("book", func(t *testing.T) {
		var body map[string]int
		hdr := http.Header{}
		err := rt.NewRequest().BaseURL(baseURL).Path("/book/5").Post().
			CheckStatus(http.StatusCreated).
			Handle(requests.ChainHandlers(requests.CopyHeaders(hdr), requests.ToJSON(&body))).
			Fetch(ctx)
		require.NoError(t, err)
		assert.Equal(t, map[string]int{"id": 5}, body)
		assert.Equal(t, "/book/5", hdr.Get("Location"))
	})

	t.Run("book with wrong method", func(t *testing.T) {
		hdr := http.Header{}
		err := rt.NewRequest().BaseURL(baseURL).Path("/book/5").
			CheckStatus(http.StatusMethodNotAllowed).
			Handle(requests.CopyHeaders(hdr)).
			Fetch(ctx)
		require.NoError(t, err)
		assert.Equal(t, "OPTIONS, POST", hdr.Get("Allow"))
	})

	t.Run("exception", func(t *testing.T) {
		var body map[string]string
		err := rt.NewRequest().BaseURL(baseURL).Path("/exception").
			CheckStatus(http.StatusBadRequest).
			ToJSON(&body).
			Fetch(ctx)
		require.NoError(t, err)
		assert.Equal(t, "raise custom exception", body["msg"])
	})

	t.Run("json", func(t *testing.T) {
		var body map[string]any
		err := rt.NewRequest().BaseURL(baseURL).Path("/json").
			Param("q", "find").
			BodyJSON(map[string]any{"title": "Dune"}).
			ToJSON(&body).
			Fetch(ctx)
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"title": "Dune", "q": "find"}, body)
	})

	t.Run("json without body", func(t *testing.T) {
		var body map[string]any
		err := rt.NewRequest().BaseURL(baseURL).Path("/json").Post().
			ToJSON(&body).
			Fetch(ctx)
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"q": ""}, body)
	})

	t.Run("json with invalid body", func(t *testing.T) {
		var body map[string]string
		err := rt.NewRequest().BaseURL(baseURL).Path("/json").
			BodyBytes([]byte(`{bad`)).
			CheckStatus(http.StatusBadRequest).
			ToJSON(&body).
			Fetch(ctx)
		require.NoError(t, err)
		assert.Equal(t, "invalid JSON body", body["msg"])
	})

	t.Run("custom not found", func(t *testing.T) {
		var body map[string]string
		err := rt.NewRequest().BaseURL(baseURL).Path("/nope").
			CheckStatus(http.StatusNotFound).
			ToJSON(&body).
			Fetch(ctx)
		require.NoError(t, err)
		assert.Equal(t, "source not found.", body["msg"])
	})

	t.Run("runtime", func(t *testing.T) {
		assert.Equal(t, "books", rt.Env().ServiceName)

		loc, err := rt.Reverse("book", "12")
		require.NoError(t, err)
		assert.Equal(t, "/book/12", loc)
	})
}
