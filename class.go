package bapi

import (
	"strconv"

	"github.com/cockroachdb/errors"
)

// Class is an explicit, comparable tag that identifies a family of errors for the purpose of
// selecting an error handler. Errors opt into a class by implementing [Classifier]. Class names
// share one namespace, so packages should prefix them (e.g. "billing.card-declined").
type Class struct {
	name string
	code Code
}

// NewClass creates a class that does not declare a status code.
func NewClass(name string) Class { return Class{name: name} }

// NewStatusClass creates a class whose errors declare the given status code.
func NewStatusClass(name string, code Code) Class { return Class{name: name, code: code} }

// StatusClass returns the canonical class of framework errors with status code c.
func StatusClass(c Code) Class {
	return Class{name: "status." + strconv.Itoa(int(c)), code: c}
}

// ClassError is the class of errors that do not implement [Classifier].
var ClassError = NewClass("error")

func (c Class) Name() string   { return c.name }
func (c Class) Code() Code     { return c.code }
func (c Class) IsZero() bool   { return c == Class{} }
func (c Class) String() string { return c.name }

// Classifier is implemented by errors that belong to an explicit class.
type Classifier interface {
	error
	ErrorClass() Class
}

// StatusCoder is implemented by errors whose instances carry an explicit status code. A non-zero
// instance status takes precedence over the code declared by the error's class.
type StatusCoder interface {
	error
	StatusCode() int
}

// classification is the registry key of an error.
type classification struct {
	kind   Kind
	bucket Code
	class  Class
}

// classify tags err with its kind, the most specific status bucket and its class.
func classify(err error) classification {
	kind := KindOf(err)
	switch kind {
	case KindDomain:
		return classification{kind: kind}
	case KindRouting, KindFramework:
		herr, _ := asHTTPError(err)
		return classification{kind: kind, bucket: herr.Code(), class: StatusClass(herr.Code())}
	}

	cls := ClassError
	var cerr Classifier
	if errors.As(err, &cerr) && !cerr.ErrorClass().IsZero() {
		cls = cerr.ErrorClass()
	}

	bucket := cls.Code()
	var serr StatusCoder
	if errors.As(err, &serr) && serr.StatusCode() != 0 {
		bucket = Code(serr.StatusCode())
	}

	return classification{kind: kind, bucket: bucket, class: cls}
}
