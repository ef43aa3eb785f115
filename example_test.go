package bapi_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/advdv/bapi"
	"github.com/cockroachdb/errors"
)

func Example() {
	disp := bapi.NewDispatcher()

	disp.MustHandleFunc("get_item", "/items/{id:int}", func(ctx context.Context, r *bapi.Request) (any, error) {
		id, _ := r.Params().Int("id")
		return map[string]any{"id": id, "name": "Example Item"}, nil
	})

	// Generate URL by endpoint name
	url, _ := disp.Reverse("get_item", "123")
	fmt.Println("URL:", url)

	rec := httptest.NewRecorder()
	disp.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items/42", nil))

	fmt.Println("Status:", rec.Code)
	fmt.Println("Body:", rec.Body.String())
	// Output:
	// URL: /items/123
	// Status: 200
	// Body: {"id":42,"name":"Example Item"}
}

func ExampleNewError() {
	disp := bapi.NewDispatcher()

	disp.MustHandleFunc("protected", "/protected", func(ctx context.Context, r *bapi.Request) (any, error) {
		switch r.Header().Get("Authorization") {
		case "":
			return nil, bapi.NewError(bapi.CodeUnauthorized, map[string]string{"msg": "missing token"})
		case "Bearer secret":
			return "welcome", nil
		default:
			return nil, bapi.NewError(bapi.CodeForbidden, map[string]string{"msg": "invalid token"})
		}
	})

	for _, token := range []string{"", "Bearer wrong", "Bearer secret"} {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", token)

		rec := httptest.NewRecorder()
		disp.ServeHTTP(rec, req)
		fmt.Println(rec.Code, rec.Body.String())
	}
	// Output:
	// 401 {"msg":"missing token"}
	// 403 {"msg":"invalid token"}
	// 200 "welcome"
}

func ExampleDispatcher_HandleError() {
	disp := bapi.NewDispatcher()

	disp.MustHandleError(bapi.CodeNotFound, func(ctx context.Context, err error) (any, error) {
		return nil, bapi.NewError(bapi.CodeNotFound, map[string]string{"msg": "source not found."})
	})

	disp.MustHandleError(bapi.ClassError, func(ctx context.Context, err error) (any, error) {
		r, _ := bapi.RequestFrom(ctx)
		return bapi.WithStatus(map[string]string{"failed": r.Path()}, http.StatusServiceUnavailable), nil
	})

	disp.MustHandleFunc("flaky", "/flaky", func(ctx context.Context, r *bapi.Request) (any, error) {
		return nil, errors.New("upstream unavailable")
	})

	for _, path := range []string{"/missing", "/flaky"} {
		resp := disp.Dispatch(context.Background(), httptest.NewRequest(http.MethodGet, path, nil))
		fmt.Println(resp.StatusCode(), string(resp.Body()))
	}
	// Output:
	// 404 {"msg":"source not found."}
	// 503 {"failed":"/flaky"}
}

func ExampleRequest_Lookup() {
	disp := bapi.NewDispatcher()

	disp.MustHandleFunc("json", "/json", func(ctx context.Context, r *bapi.Request) (any, error) {
		return []string{r.Lookup("user.name").String(), r.Query().Get("q")}, nil
	}, http.MethodPost)

	resp := disp.Dispatch(context.Background(), httptest.NewRequest(http.MethodPost, "/json?q=find",
		strings.NewReader(`{"user":{"name":"ada"}}`)))

	fmt.Println(resp.StatusCode(), string(resp.Body()))
	// Output:
	// 200 ["ada","find"]
}

func ExampleCodeOf() {
	err := bapi.NewError(bapi.CodeNotFound, "user not found")
	fmt.Println("Code:", int(bapi.CodeOf(err)))

	wrapped := fmt.Errorf("handler failed: %w", err)
	fmt.Println("Wrapped code:", int(bapi.CodeOf(wrapped)))

	fmt.Println("Routing code:", int(bapi.CodeOf(&bapi.RouteNotFoundError{})))

	plainErr := errors.New("something went wrong")
	fmt.Println("Plain error code:", int(bapi.CodeOf(plainErr)))
	// Output:
	// Code: 404
	// Wrapped code: 404
	// Routing code: 404
	// Plain error code: 0
}
