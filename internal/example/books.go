// Package example implements a small demo API on top of bapi and bapiapp.
package example

import (
	"context"
	"net/http"
	"strconv"

	"github.com/advdv/bapi"
	"github.com/advdv/bapi/bapiapp"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// Env is the environment of the example app.
type Env struct {
	bapiapp.BaseEnvironment
}

// Handlers serves the example endpoints.
type Handlers struct {
	rt *bapiapp.Runtime[Env]
}

// NewHandlers creates the handlers.
func NewHandlers(rt *bapiapp.Runtime[Env]) *Handlers {
	return &Handlers{rt: rt}
}

// Routing registers the example endpoints and the custom 404 handler.
func Routing(d *bapi.Dispatcher, h *Handlers) {
	d.MustHandleFunc("index", "/", h.Index)
	d.MustHandleFunc("book", "/book/{id:int}", h.Book, http.MethodPost)
	d.MustHandleFunc("exception", "/exception", h.Exception)
	d.MustHandleFunc("json", "/json", h.JSON, http.MethodPost)
	d.MustHandleError(bapi.CodeNotFound, NotFound)
}

// Index answers a plain JSON string.
func (h *Handlers) Index(context.Context, *bapi.Request) (any, error) {
	return "hello world!", nil
}

// Book echoes the typed path parameter with a 201 and points to the created resource.
func (h *Handlers) Book(_ context.Context, r *bapi.Request) (any, error) {
	id, _ := r.Params().Int("id")

	loc, err := h.rt.Reverse("book", strconv.Itoa(id))
	if err != nil {
		return nil, errors.Wrap(err, "reverse book")
	}

	resp, err := bapi.MakeResponse(bapi.WithStatus(map[string]int{"id": id}, http.StatusCreated))
	if err != nil {
		return nil, err
	}
	return resp.WithHeader("Location", loc), nil
}

// Exception fails with a domain error.
func (h *Handlers) Exception(context.Context, *bapi.Request) (any, error) {
	return nil, bapi.NewError(bapi.CodeBadRequest, map[string]string{"msg": "raise custom exception"})
}

// JSON merges the JSON request body with the "q" query parameter.
func (h *Handlers) JSON(ctx context.Context, r *bapi.Request) (any, error) {
	data := map[string]any{}
	if err := r.JSON(&data); err != nil && !errors.Is(err, bapi.ErrEmptyBody) {
		return nil, err
	}

	data["q"] = r.Query().Get("q")
	bapiapp.Log(ctx).Info("merged json body", zap.Int("num_keys", len(data)))
	return data, nil
}

// NotFound replaces the default 404 response.
func NotFound(context.Context, error) (any, error) {
	return bapi.NewError(bapi.CodeNotFound, map[string]string{"msg": "source not found."}), nil
}
