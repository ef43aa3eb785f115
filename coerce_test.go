package bapi_test

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/advdv/bapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeResponse(t *testing.T) {
	t.Run("should encode a body with explicit status", func(t *testing.T) {
		resp, err := bapi.MakeResponse(bapi.WithStatus(map[string]int{"id": 5}, 201))
		require.NoError(t, err)
		assert.Equal(t, 201, resp.StatusCode())
		assert.Equal(t, bapi.MimetypeJSON, resp.Mimetype())
		assert.JSONEq(t, `{"id":5}`, string(resp.Body()))
	})

	t.Run("should default to 200", func(t *testing.T) {
		resp, err := bapi.MakeResponse("hello world!")
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode())
		assert.JSONEq(t, `"hello world!"`, string(resp.Body()))

		resp, err = bapi.MakeResponse([]string{"a", "b"})
		require.NoError(t, err)
		assert.JSONEq(t, `["a","b"]`, string(resp.Body()))
	})

	t.Run("should pass bytes through", func(t *testing.T) {
		resp, err := bapi.MakeResponse([]byte{0x00, 0xff})
		require.NoError(t, err)
		assert.Equal(t, []byte{0x00, 0xff}, resp.Body())
		assert.Equal(t, bapi.MimetypeBinary, resp.Mimetype())

		resp, err = bapi.MakeResponse(json.RawMessage(`{"a":1}`))
		require.NoError(t, err)
		assert.Equal(t, `{"a":1}`, string(resp.Body()))
		assert.Equal(t, bapi.MimetypeJSON, resp.Mimetype())
	})

	t.Run("should use responses as is and override their status", func(t *testing.T) {
		orig := bapi.NewResponse([]byte("x"), 0, "text/plain")
		resp, err := bapi.MakeResponse(orig)
		require.NoError(t, err)
		assert.Same(t, orig, resp)

		resp, err = bapi.MakeResponse(bapi.WithStatus(orig, 202))
		require.NoError(t, err)
		assert.Equal(t, 202, resp.StatusCode())
		assert.Equal(t, 200, orig.StatusCode())
	})

	t.Run("should render domain errors", func(t *testing.T) {
		resp, err := bapi.MakeResponse(bapi.NewError(400, map[string]string{"msg": "raise custom exception"}))
		require.NoError(t, err)
		assert.Equal(t, 400, resp.StatusCode())
		assert.JSONEq(t, `{"msg":"raise custom exception"}`, string(resp.Body()))
	})

	t.Run("should convert framework errors", func(t *testing.T) {
		resp, err := bapi.MakeResponse(bapi.NewHTTPError(bapi.CodeGone, "it is gone"))
		require.NoError(t, err)
		assert.Equal(t, 410, resp.StatusCode())
		assert.JSONEq(t, `"it is gone"`, string(resp.Body()))

		resp, err = bapi.MakeResponse(bapi.WithStatus(&bapi.MethodNotAllowedError{Allowed: []string{"GET", "HEAD"}}, 418))
		require.NoError(t, err)
		assert.Equal(t, 418, resp.StatusCode())
		assert.Equal(t, "GET, HEAD", resp.Header().Get("Allow"))
	})

	t.Run("should reject invalid values", func(t *testing.T) {
		for _, rv := range []any{
			nil, 42, 4.2, true, struct{}{},
			bapi.WithStatus("x", 99),
			bapi.WithStatus("x", 600),
			bapi.WithStatus(nil, 200),
			bapi.WithStatus(bapi.WithStatus("x", 200), 201),
		} {
			_, err := bapi.MakeResponse(rv)
			require.ErrorIs(t, err, bapi.ErrInvalidReturnValue, "value %#v", rv)
		}
	})

	t.Run("should fail on unencodable bodies", func(t *testing.T) {
		_, err := bapi.MakeResponse(map[string]any{"ch": make(chan int)})
		require.Error(t, err)
	})
}

func TestResponseWrite(t *testing.T) {
	resp, err := bapi.MakeResponse(bapi.NewError(429, "slow").WithHeader("Retry-After", "3"))
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	require.NoError(t, resp.Write(rec))
	assert.Equal(t, 429, rec.Code)
	assert.Equal(t, "3", rec.Header().Get("Retry-After"))
	assert.Equal(t, bapi.MimetypeJSON, rec.Header().Get("Content-Type"))
	assert.Equal(t, "6", rec.Header().Get("Content-Length"))
	assert.JSONEq(t, `"slow"`, rec.Body.String())
}
