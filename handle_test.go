package bapi_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/advdv/bapi"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

type bookHandler struct{ title string }

func (h bookHandler) ServeAPI(_ context.Context, r *bapi.Request) (any, error) {
	id, _ := r.Params().Int("id")
	return map[string]any{"id": id, "title": h.title}, nil
}

func TestHandleBasic(t *testing.T) {
	disp, _ := newDispatcher(t)
	require.NoError(t, disp.Handle("book", "/book/{id:int}", bookHandler{title: "Dune"}))

	rec := serve(disp, http.MethodGet, "/book/7", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"id":7,"title":"Dune"}`, rec.Body.String())
}

func TestHandlePanicError(t *testing.T) {
	disp, _ := newDispatcher(t)

	var recovered error
	disp.MustHandleError(bapi.ClassError, func(_ context.Context, err error) (any, error) {
		recovered = err
		return "recovered", nil
	})
	disp.MustHandleFunc("panic", "/panic", func(context.Context, *bapi.Request) (any, error) {
		panic(errors.New("inner"))
	})

	resp := disp.Dispatch(context.Background(), httptest.NewRequest(http.MethodGet, "/panic", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode())

	var perr *bapi.PanicError
	require.ErrorAs(t, recovered, &perr)
	require.Equal(t, "panic: inner", perr.Error())
}

func TestMustHandlePanics(t *testing.T) {
	disp, _ := newDispatcher(t)
	disp.MustHandleFunc("index", "/", okHandler("x"))

	require.Panics(t, func() {
		disp.MustHandleFunc("index", "/again", okHandler("y"))
	})
	require.PanicsWithValue(t, "bapi: string: not an error class", func() {
		disp.MustHandleError("nope", recoverWith("y"))
	})
}
