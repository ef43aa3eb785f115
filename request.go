package bapi

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

// ErrEmptyBody is returned when decoding a request without a body.
var ErrEmptyBody = errors.New("request has no body")

// Param is a typed path parameter.
type Param struct {
	Name  string
	Value any
}

// Params are the path parameters of a matched route, in pattern order.
type Params []Param

// Get returns the value of the named parameter.
func (p Params) Get(name string) (any, bool) {
	for _, pp := range p {
		if pp.Name == name {
			return pp.Value, true
		}
	}
	return nil, false
}

// String formats the named parameter, or returns "" if it does not exist.
func (p Params) String(name string) string {
	v, ok := p.Get(name)
	if !ok {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Int returns the named "{name:int}" parameter.
func (p Params) Int(name string) (int, bool) {
	v, _ := p.Get(name)
	i, ok := v.(int)
	return i, ok
}

// Float returns the named "{name:float}" parameter.
func (p Params) Float(name string) (float64, bool) {
	v, _ := p.Get(name)
	f, ok := v.(float64)
	return f, ok
}

// UUID returns the named "{name:uuid}" parameter.
func (p Params) UUID(name string) (uuid.UUID, bool) {
	v, _ := p.Get(name)
	id, ok := v.(uuid.UUID)
	return id, ok
}

// Map returns the parameters keyed by name.
func (p Params) Map() map[string]any {
	m := make(map[string]any, len(p))
	for _, pp := range p {
		m[pp.Name] = pp.Value
	}
	return m
}

// Request is the request handle passed to handlers. The body is read lazily, at most once.
type Request struct {
	std      *http.Request
	endpoint string
	params   Params

	bodyOnce sync.Once
	body     []byte
	bodyErr  error
}

// NewRequest wraps a standard library request.
func NewRequest(r *http.Request) *Request {
	return &Request{std: r}
}

func (r *Request) Method() string      { return r.std.Method }
func (r *Request) Path() string        { return r.std.URL.Path }
func (r *Request) Header() http.Header { return r.std.Header }
func (r *Request) Params() Params      { return r.params }

// Endpoint returns the name of the matched endpoint, or "" before routing or if nothing matched.
func (r *Request) Endpoint() string { return r.endpoint }

// Query returns the parsed query string.
func (r *Request) Query() url.Values { return r.std.URL.Query() }

// Std returns the underlying standard library request.
func (r *Request) Std() *http.Request { return r.std }

// Body reads and returns the request body.
func (r *Request) Body() ([]byte, error) {
	r.bodyOnce.Do(func() {
		if r.std.Body == nil || r.std.Body == http.NoBody {
			return
		}
		r.body, r.bodyErr = io.ReadAll(r.std.Body)
		if r.bodyErr != nil {
			r.bodyErr = errors.Wrap(r.bodyErr, "failed to read request body")
		}
	})
	return r.body, r.bodyErr
}

// JSON decodes the request body into v.
func (r *Request) JSON(v any) error {
	data, err := r.Body()
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return ErrEmptyBody
	}
	if err := jsonAPI.Unmarshal(data, v); err != nil {
		return NewError(CodeBadRequest, map[string]string{"msg": "invalid JSON body"}).WithCause(err)
	}
	return nil
}

// Lookup returns the value at the gjson path in the JSON body. The result does not exist if the
// body cannot be read.
func (r *Request) Lookup(path string) gjson.Result {
	data, err := r.Body()
	if err != nil {
		return gjson.Result{}
	}
	return gjson.GetBytes(data, path)
}
