package bapi

import (
	"net/http"
	"strconv"
)

// Mimetypes used by responses.
const (
	MimetypeJSON   = "application/json"
	MimetypeBinary = "application/octet-stream"
)

// Response is the normalized outcome of a request. It is immutable: overriding the status creates
// a copy.
type Response struct {
	status   int
	body     []byte
	mimetype string
	header   http.Header
}

// NewResponse creates a response. A zero status means 200 and an empty mimetype means JSON.
func NewResponse(body []byte, status int, mimetype string) *Response {
	if status == 0 {
		status = http.StatusOK
	}
	if mimetype == "" {
		mimetype = MimetypeJSON
	}
	return &Response{status: status, body: body, mimetype: mimetype, header: http.Header{}}
}

func (r *Response) StatusCode() int  { return r.status }
func (r *Response) Mimetype() string { return r.mimetype }

// Body returns a copy of the response body.
func (r *Response) Body() []byte { return append([]byte(nil), r.body...) }

// Header returns a copy of the extra response headers.
func (r *Response) Header() http.Header { return r.header.Clone() }

// withStatus returns a copy with the status replaced.
func (r *Response) withStatus(status int) *Response {
	r2 := *r
	r2.status = status
	r2.header = r.header.Clone()
	return &r2
}

// WithHeader returns a copy with the header added.
func (r *Response) WithHeader(key, value string) *Response {
	r2 := r.withStatus(r.status)
	r2.header.Add(key, value)
	return r2
}

// Write writes the response to w.
func (r *Response) Write(w http.ResponseWriter) error {
	return r.write(w, true)
}

func (r *Response) write(w http.ResponseWriter, withBody bool) error {
	hdr := w.Header()
	for k, vs := range r.header {
		for _, v := range vs {
			hdr.Add(k, v)
		}
	}

	hdr.Set("Content-Type", r.mimetype)
	hdr.Set("Content-Length", strconv.Itoa(len(r.body)))
	w.WriteHeader(r.status)

	if !withBody {
		return nil
	}

	_, err := w.Write(r.body)
	return err
}
