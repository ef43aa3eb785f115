package bapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"
)

// Code is an error code that mirrors the http status codes. The constants below form the set of
// recognized error statuses: error handlers can only be registered for these.
type Code int

const (
	CodeUnknown                      Code = 0
	CodeBadRequest                   Code = http.StatusBadRequest                   // RFC 9110, 15.5.1
	CodeUnauthorized                 Code = http.StatusUnauthorized                 // RFC 9110, 15.5.2
	CodePaymentRequired              Code = http.StatusPaymentRequired              // RFC 9110, 15.5.3
	CodeForbidden                    Code = http.StatusForbidden                    // RFC 9110, 15.5.4
	CodeNotFound                     Code = http.StatusNotFound                     // RFC 9110, 15.5.5
	CodeMethodNotAllowed             Code = http.StatusMethodNotAllowed             // RFC 9110, 15.5.6
	CodeNotAcceptable                Code = http.StatusNotAcceptable                // RFC 9110, 15.5.7
	CodeProxyAuthRequired            Code = http.StatusProxyAuthRequired            // RFC 9110, 15.5.8
	CodeRequestTimeout               Code = http.StatusRequestTimeout               // RFC 9110, 15.5.9
	CodeConflict                     Code = http.StatusConflict                     // RFC 9110, 15.5.10
	CodeGone                         Code = http.StatusGone                         // RFC 9110, 15.5.11
	CodeLengthRequired               Code = http.StatusLengthRequired               // RFC 9110, 15.5.12
	CodePreconditionFailed           Code = http.StatusPreconditionFailed           // RFC 9110, 15.5.13
	CodeRequestEntityTooLarge        Code = http.StatusRequestEntityTooLarge        // RFC 9110, 15.5.14
	CodeRequestURITooLong            Code = http.StatusRequestURITooLong            // RFC 9110, 15.5.15
	CodeUnsupportedMediaType         Code = http.StatusUnsupportedMediaType         // RFC 9110, 15.5.16
	CodeRequestedRangeNotSatisfiable Code = http.StatusRequestedRangeNotSatisfiable // RFC 9110, 15.5.17
	CodeExpectationFailed            Code = http.StatusExpectationFailed            // RFC 9110, 15.5.18
	CodeTeapot                       Code = http.StatusTeapot                       // RFC 9110, 15.5.19 (Unused)
	CodeMisdirectedRequest           Code = http.StatusMisdirectedRequest           // RFC 9110, 15.5.20
	CodeUnprocessableEntity          Code = http.StatusUnprocessableEntity          // RFC 9110, 15.5.21
	CodeLocked                       Code = http.StatusLocked                       // RFC 4918, 11.3
	CodeFailedDependency             Code = http.StatusFailedDependency             // RFC 4918, 11.4
	CodeTooEarly                     Code = http.StatusTooEarly                     // RFC 8470, 5.2.
	CodeUpgradeRequired              Code = http.StatusUpgradeRequired              // RFC 9110, 15.5.22
	CodePreconditionRequired         Code = http.StatusPreconditionRequired         // RFC 6585, 3
	CodeTooManyRequests              Code = http.StatusTooManyRequests              // RFC 6585, 4
	CodeRequestHeaderFieldsTooLarge  Code = http.StatusRequestHeaderFieldsTooLarge  // RFC 6585, 5
	CodeUnavailableForLegalReasons   Code = http.StatusUnavailableForLegalReasons   // RFC 7725, 3

	CodeInternalServerError           Code = http.StatusInternalServerError           // RFC 9110, 15.6.1
	CodeNotImplemented                Code = http.StatusNotImplemented                // RFC 9110, 15.6.2
	CodeBadGateway                    Code = http.StatusBadGateway                    // RFC 9110, 15.6.3
	CodeServiceUnavailable            Code = http.StatusServiceUnavailable            // RFC 9110, 15.6.4
	CodeGatewayTimeout                Code = http.StatusGatewayTimeout                // RFC 9110, 15.6.5
	CodeHTTPVersionNotSupported       Code = http.StatusHTTPVersionNotSupported       // RFC 9110, 15.6.6
	CodeVariantAlsoNegotiates         Code = http.StatusVariantAlsoNegotiates         // RFC 2295, 8.1
	CodeInsufficientStorage           Code = http.StatusInsufficientStorage           // RFC 4918, 11.5
	CodeLoopDetected                  Code = http.StatusLoopDetected                  // RFC 5842, 7.2
	CodeNotExtended                   Code = http.StatusNotExtended                   // RFC 2774, 7
	CodeNetworkAuthenticationRequired Code = http.StatusNetworkAuthenticationRequired // RFC 6585, 6
)

var recognizedCodes = map[Code]struct{}{
	CodeBadRequest: {}, CodeUnauthorized: {}, CodePaymentRequired: {}, CodeForbidden: {},
	CodeNotFound: {}, CodeMethodNotAllowed: {}, CodeNotAcceptable: {}, CodeProxyAuthRequired: {},
	CodeRequestTimeout: {}, CodeConflict: {}, CodeGone: {}, CodeLengthRequired: {},
	CodePreconditionFailed: {}, CodeRequestEntityTooLarge: {}, CodeRequestURITooLong: {},
	CodeUnsupportedMediaType: {}, CodeRequestedRangeNotSatisfiable: {}, CodeExpectationFailed: {},
	CodeTeapot: {}, CodeMisdirectedRequest: {}, CodeUnprocessableEntity: {}, CodeLocked: {},
	CodeFailedDependency: {}, CodeTooEarly: {}, CodeUpgradeRequired: {}, CodePreconditionRequired: {},
	CodeTooManyRequests: {}, CodeRequestHeaderFieldsTooLarge: {}, CodeUnavailableForLegalReasons: {},
	CodeInternalServerError: {}, CodeNotImplemented: {}, CodeBadGateway: {}, CodeServiceUnavailable: {},
	CodeGatewayTimeout: {}, CodeHTTPVersionNotSupported: {}, CodeVariantAlsoNegotiates: {},
	CodeInsufficientStorage: {}, CodeLoopDetected: {}, CodeNotExtended: {},
	CodeNetworkAuthenticationRequired: {},
}

// Recognized reports whether c is one of the error codes listed above.
func (c Code) Recognized() bool {
	_, ok := recognizedCodes[c]
	return ok
}

func (c Code) String() string {
	if s := http.StatusText(int(c)); s != "" {
		return s
	}
	return "Unknown"
}

// Configuration errors. They are returned at setup time and never reach a request.
var (
	ErrDuplicateEndpoint      = errors.New("endpoint already exists")
	ErrInvalidRoute           = errors.New("invalid route")
	ErrInvalidPattern         = errors.New("invalid path pattern")
	ErrUnrecognizedStatusCode = errors.New("not a recognized HTTP error code")
	ErrNotAnErrorClass        = errors.New("not an error class")
	ErrDuplicateErrorHandler  = errors.New("error handler already registered")
	ErrFrozen                 = errors.New("registration after the first dispatch")
)

// ErrInvalidReturnValue is returned when a handler produced a value that cannot be turned into a
// response. It is a programming error in the handler.
var ErrInvalidReturnValue = errors.New("invalid type of return value from a handler")

// Kind classifies errors observed while dispatching.
type Kind int

const (
	// KindArbitrary errors are unanticipated handler errors.
	KindArbitrary Kind = iota
	// KindRouting errors are raised when no route matches a request.
	KindRouting
	// KindDomain errors are explicit (body, status) pairs that are responses already.
	KindDomain
	// KindFramework errors carry a status and description and are converted to domain errors.
	KindFramework
)

func (k Kind) String() string {
	switch k {
	case KindRouting:
		return "routing"
	case KindDomain:
		return "domain"
	case KindFramework:
		return "framework"
	default:
		return "arbitrary"
	}
}

// KindOf classifies err.
func KindOf(err error) Kind {
	if _, ok := asError(err); ok {
		return KindDomain
	}

	var rnf *RouteNotFoundError
	var mna *MethodNotAllowedError
	if errors.As(err, &rnf) || errors.As(err, &mna) {
		return KindRouting
	}

	if _, ok := asHTTPError(err); ok {
		return KindFramework
	}

	return KindArbitrary
}

// Error is a domain error: an explicit response body and status that can be returned from
// handlers (and recovery handlers) to end the request with that response.
type Error struct {
	code   Code
	body   any
	header http.Header
	cause  error
}

// NewError inits a domain error with the given code and response body. A zero code means 500 and
// a nil body means "Internal Error".
func NewError(c Code, body any) *Error {
	if c == CodeUnknown {
		c = CodeInternalServerError
	}
	if body == nil {
		body = "Internal Error"
	}
	return &Error{code: c, body: body}
}

// WithCause records the underlying error for logging. It does not change the response.
func (e *Error) WithCause(err error) *Error {
	e2 := *e
	e2.cause = err
	return &e2
}

// WithHeader returns a copy of the error whose response carries the extra header.
func (e *Error) WithHeader(key, value string) *Error {
	e2 := *e
	e2.header = e.header.Clone()
	if e2.header == nil {
		e2.header = http.Header{}
	}
	e2.header.Add(key, value)
	return &e2
}

func (e *Error) Code() Code { return e.code }
func (e *Error) Body() any  { return e.body }
func (e *Error) Unwrap() error {
	return e.cause
}

func (e *Error) Error() string {
	switch b := e.body.(type) {
	case string:
		return fmt.Sprintf("%s: %s", e.code, b)
	case []byte:
		return fmt.Sprintf("%s: %s", e.code, b)
	default:
		return fmt.Sprintf("%s: %v", e.code, b)
	}
}

// Response renders the domain error.
func (e *Error) Response() (*Response, error) {
	resp, err := encodeBody(e.body, int(e.code))
	if err != nil {
		return nil, err
	}
	for k, vs := range e.header {
		for _, v := range vs {
			resp.header.Add(k, v)
		}
	}
	return resp, nil
}

// HTTPError is a framework-level error: a status code and a human readable description. It is
// resolved through the error registry and, when no handler applies, converted into a domain
// error with the same status.
type HTTPError struct {
	code        Code
	description string
	allowed     []string
}

// NewHTTPError inits a framework-level error. An empty description falls back to the status text.
func NewHTTPError(c Code, description string) *HTTPError {
	if description == "" {
		description = c.String()
	}
	return &HTTPError{code: c, description: description}
}

func (e *HTTPError) Code() Code          { return e.code }
func (e *HTTPError) Description() string { return e.description }
func (e *HTTPError) Error() string       { return fmt.Sprintf("%s: %s", e.code, e.description) }

// Allowed returns the methods that are allowed, only set for 405 errors.
func (e *HTTPError) Allowed() []string { return append([]string(nil), e.allowed...) }

func (e *HTTPError) asHTTPError() *HTTPError { return e }

// toError converts the framework error into its domain shape. A non-zero status overrides the code.
func (e *HTTPError) toError(status Code) *Error {
	if status == CodeUnknown {
		status = e.code
	}
	derr := NewError(status, e.description)
	if len(e.allowed) > 0 {
		derr = derr.WithHeader("Allow", strings.Join(e.allowed, ", "))
	}
	return derr.WithCause(e)
}

// RouteNotFoundError is returned by the router when no pattern matches the path.
type RouteNotFoundError struct {
	Method string
	Path   string
}

func (e *RouteNotFoundError) Error() string {
	return fmt.Sprintf("no route matches %s %s", e.Method, e.Path)
}

func (e *RouteNotFoundError) asHTTPError() *HTTPError {
	return NewHTTPError(CodeNotFound, "The requested URL was not found on the server. "+
		"If you entered the URL manually please check your spelling and try again.")
}

// MethodNotAllowedError is returned by the router when the path matches but the method does not.
type MethodNotAllowedError struct {
	Method  string
	Path    string
	Allowed []string
}

func (e *MethodNotAllowedError) Error() string {
	return fmt.Sprintf("method %s not allowed for %s, allowed: %s", e.Method, e.Path, strings.Join(e.Allowed, ", "))
}

func (e *MethodNotAllowedError) asHTTPError() *HTTPError {
	herr := NewHTTPError(CodeMethodNotAllowed, "The method is not allowed for the requested URL.")
	herr.allowed = append([]string(nil), e.Allowed...)
	return herr
}

// frameworkError is implemented by errors that have a framework-level representation.
type frameworkError interface {
	error
	asHTTPError() *HTTPError
}

// CodeOf returns the error's status code if it is or wraps a domain or framework error and
// [CodeUnknown] otherwise.
func CodeOf(err error) Code {
	if derr, ok := asError(err); ok {
		return derr.Code()
	}
	if herr, ok := asHTTPError(err); ok {
		return herr.Code()
	}
	return CodeUnknown
}

// asError uses errors.As to unwrap any error and look for a domain *Error.
func asError(err error) (*Error, bool) {
	var derr *Error
	ok := errors.As(err, &derr)
	return derr, ok
}

// asHTTPError looks for an error with a framework-level representation.
func asHTTPError(err error) (*HTTPError, bool) {
	var ferr frameworkError
	if !errors.As(err, &ferr) {
		return nil, false
	}
	return ferr.asHTTPError(), true
}
