package bapi

import (
	"encoding/json"
	"reflect"

	"github.com/cockroachdb/errors"
	jsoniter "github.com/json-iterator/go"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// StatusValue pairs a handler's return value with an explicit status code.
type StatusValue struct {
	Body   any
	Status int
}

// WithStatus pairs body with an explicit status code, e.g. WithStatus(map[string]int{"id": 5}, 201).
func WithStatus(body any, status int) StatusValue {
	return StatusValue{Body: body, Status: status}
}

// MakeResponse converts the return value of a handler into a response. The following values are
// accepted, optionally wrapped in a [StatusValue]:
//
//   - [*Response], used as is
//   - [*Error], rendered as its own response
//   - [*HTTPError] (and routing errors), converted into a domain error first
//   - string, slices, arrays and maps, encoded as JSON
//   - []byte, passed through as binary and [json.RawMessage], passed through as JSON
//
// Any other value is a programming error in the handler and fails with [ErrInvalidReturnValue].
func MakeResponse(rv any) (*Response, error) {
	body, status := rv, 0
	if sv, ok := rv.(StatusValue); ok {
		body, status = sv.Body, sv.Status
		if status < 100 || status > 599 {
			return nil, errors.Wrapf(ErrInvalidReturnValue, "status %d", status)
		}
	}

	switch b := body.(type) {
	case *Response:
		if b == nil {
			break
		}
		if status != 0 {
			return b.withStatus(status), nil
		}
		return b, nil
	case *Error:
		if b == nil {
			break
		}
		resp, err := b.Response()
		if err != nil {
			return nil, err
		}
		if status != 0 {
			return resp.withStatus(status), nil
		}
		return resp, nil
	case frameworkError:
		resp, err := b.asHTTPError().toError(Code(status)).Response()
		if err != nil {
			return nil, err
		}
		return resp, nil
	}

	if !isPlainBody(body) {
		return nil, errors.Wrapf(ErrInvalidReturnValue, "%T", body)
	}

	return encodeBody(body, status)
}

// isPlainBody reports whether v can be encoded as a response body.
func isPlainBody(v any) bool {
	switch v.(type) {
	case nil, StatusValue:
		return false
	case string, []byte, json.RawMessage:
		return true
	}

	switch reflect.TypeOf(v).Kind() { //nolint:exhaustive
	case reflect.Slice, reflect.Array, reflect.Map:
		return true
	default:
		return false
	}
}

// encodeBody encodes a plain body into a response. Bytes pass through unmodified.
func encodeBody(body any, status int) (*Response, error) {
	switch b := body.(type) {
	case json.RawMessage:
		return NewResponse(append([]byte(nil), b...), status, MimetypeJSON), nil
	case []byte:
		return NewResponse(append([]byte(nil), b...), status, MimetypeBinary), nil
	}

	data, err := jsonAPI.Marshal(body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode response body")
	}

	return NewResponse(data, status, MimetypeJSON), nil
}
