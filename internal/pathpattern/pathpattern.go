// Package pathpattern parses path templates such as "/book/{id:int}/{rest...}" and matches
// request paths against them, producing typed parameter values.
package pathpattern

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// SegmentKind tells what a pattern segment matches.
type SegmentKind uint8

const (
	// Literal segments must match exactly.
	Literal SegmentKind = iota
	// Param segments match exactly one non-empty path segment.
	Param
	// Wildcard segments match the (non-empty) remainder of the path.
	Wildcard
)

// Segment is one slash-separated element of a pattern.
type Segment struct {
	Kind  SegmentKind
	Value string // literal text, or the parameter name
	Type  string // converter name for Param and Wildcard segments
}

// Value is a matched parameter.
type Value struct {
	Name  string
	Value any
}

// Pattern is a parsed path template.
type Pattern struct {
	str      string
	segments []Segment
}

// converter turns a raw segment into a typed value. Returning false means "no match".
type converter func(string) (any, bool)

var converters = map[string]converter{
	"string": func(s string) (any, bool) { return s, s != "" },
	"int": func(s string) (any, bool) {
		if s == "" || strings.TrimLeft(s, "0123456789") != "" {
			return nil, false
		}
		v, err := strconv.Atoi(s)
		return v, err == nil
	},
	"float": func(s string) (any, bool) {
		if s == "" || strings.ContainsAny(s, "eEnN+") {
			return nil, false
		}
		v, err := strconv.ParseFloat(s, 64)
		return v, err == nil
	},
	"uuid": func(s string) (any, bool) {
		if len(s) != 36 {
			return nil, false
		}
		v, err := uuid.Parse(s)
		return v, err == nil
	},
	"path": func(s string) (any, bool) { return s, s != "" },
}

// Parse parses the path template s.
func Parse(s string) (*Pattern, error) {
	if s == "" {
		return nil, fmt.Errorf("empty pattern") //nolint:goerr113
	}
	if s[0] != '/' {
		return nil, fmt.Errorf("pattern %q must start with a slash", s) //nolint:goerr113
	}

	pat := &Pattern{str: s}
	if s == "/" {
		return pat, nil
	}

	names := map[string]struct{}{}
	parts := strings.Split(s[1:], "/")
	for i, part := range parts {
		seg, err := parseSegment(part)
		if err != nil {
			return nil, fmt.Errorf("segment %d of %q: %w", i, s, err)
		}

		if seg.Kind != Literal {
			if _, dup := names[seg.Value]; dup {
				return nil, fmt.Errorf("duplicate parameter name %q in %q", seg.Value, s) //nolint:goerr113
			}
			names[seg.Value] = struct{}{}
		}

		if seg.Kind == Wildcard && i != len(parts)-1 {
			return nil, fmt.Errorf("wildcard %q must be the last segment of %q", seg.Value, s) //nolint:goerr113
		}

		pat.segments = append(pat.segments, seg)
	}

	return pat, nil
}

func parseSegment(part string) (Segment, error) {
	if !strings.HasPrefix(part, "{") {
		if strings.ContainsAny(part, "{}") {
			return Segment{}, fmt.Errorf("bad literal %q", part) //nolint:goerr113
		}
		return Segment{Kind: Literal, Value: part}, nil
	}

	if !strings.HasSuffix(part, "}") || strings.Count(part, "{") != 1 || strings.Count(part, "}") != 1 {
		return Segment{}, fmt.Errorf("bad parameter %q", part) //nolint:goerr113
	}

	inner := part[1 : len(part)-1]
	if name, ok := strings.CutSuffix(inner, "..."); ok {
		if !isIdent(name) {
			return Segment{}, fmt.Errorf("bad wildcard name %q", name) //nolint:goerr113
		}
		return Segment{Kind: Wildcard, Value: name, Type: "path"}, nil
	}

	name, typ, hasType := strings.Cut(inner, ":")
	if !hasType {
		typ = "string"
	}
	if !isIdent(name) {
		return Segment{}, fmt.Errorf("bad parameter name %q", name) //nolint:goerr113
	}
	if _, ok := converters[typ]; !ok || typ == "path" {
		return Segment{}, fmt.Errorf("unknown parameter type %q", typ) //nolint:goerr113
	}

	return Segment{Kind: Param, Value: name, Type: typ}, nil
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

// String returns the template the pattern was parsed from.
func (p *Pattern) String() string { return p.str }

// Segments returns a copy of the parsed segments.
func (p *Pattern) Segments() []Segment { return append([]Segment(nil), p.segments...) }

// Match reports whether path matches the pattern and returns the converted parameters in
// pattern order.
func (p *Pattern) Match(path string) ([]Value, bool) {
	if path == "" || path[0] != '/' {
		return nil, false
	}

	rest := path[1:]
	if len(p.segments) == 0 {
		return nil, rest == ""
	}

	var vals []Value
	for i, seg := range p.segments {
		if seg.Kind == Wildcard {
			v, ok := converters[seg.Type](rest)
			if !ok {
				return nil, false
			}
			return append(vals, Value{Name: seg.Value, Value: v}), true
		}

		part, tail, more := strings.Cut(rest, "/")
		last := i == len(p.segments)-1
		if last == more {
			return nil, false // segment count differs
		}

		switch seg.Kind {
		case Literal:
			if part != seg.Value {
				return nil, false
			}
		case Param:
			v, ok := converters[seg.Type](part)
			if !ok {
				return nil, false
			}
			vals = append(vals, Value{Name: seg.Value, Value: v})
		}

		rest = tail
	}

	return vals, true
}

// Specificity summarizes how specific a pattern is for precedence ordering.
type Specificity struct {
	Wildcards int
	Literals  int
	Typed     int
}

// Specificity computes the pattern's specificity.
func (p *Pattern) Specificity() (s Specificity) {
	for _, seg := range p.segments {
		switch {
		case seg.Kind == Wildcard:
			s.Wildcards++
		case seg.Kind == Literal:
			s.Literals++
		case seg.Type != "string":
			s.Typed++
		}
	}
	return s
}

// Compare orders a before b (negative result) when a is more specific: fewer wildcards,
// then more literal segments, then more typed parameters. Zero means equally specific.
func Compare(a, b Specificity) int {
	if a.Wildcards != b.Wildcards {
		return a.Wildcards - b.Wildcards
	}
	if a.Literals != b.Literals {
		return b.Literals - a.Literals
	}
	return b.Typed - a.Typed
}

// Build substitutes vals, in order, for the pattern's parameters.
func Build(p *Pattern, vals ...string) (string, error) {
	var b strings.Builder
	if len(p.segments) == 0 {
		b.WriteByte('/')
	}

	n := 0
	for _, seg := range p.segments {
		b.WriteByte('/')
		if seg.Kind == Literal {
			b.WriteString(seg.Value)
			continue
		}

		if n >= len(vals) {
			return "", fmt.Errorf("not enough values for %q, got %d", p.str, len(vals)) //nolint:goerr113
		}
		val := vals[n]
		n++

		if _, ok := converters[seg.Type](val); !ok {
			return "", fmt.Errorf("value %q is not a valid %s for parameter %q", val, seg.Type, seg.Value) //nolint:goerr113
		}

		if seg.Kind == Wildcard {
			b.WriteString(val)
		} else {
			b.WriteString(url.PathEscape(val))
		}
	}

	if n != len(vals) {
		return "", fmt.Errorf("too many values for %q, got %d", p.str, len(vals)) //nolint:goerr113
	}

	return b.String(), nil
}
