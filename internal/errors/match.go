// Copyright (c) The Apache Software Foundation
// SPDX-License-Identifier: Apache-2.0

package errors

// Template describes the fields of an Err a caller wants to assert on.  Zero
// fields are wildcards, so a template can match on a Kind alone, an Op alone,
// or any combination down to an exact Code and Msg.
type Template struct {
	Err       // the Code, Msg and Op to match against
	Kind Kind // matched against the error's Kind when set
}

// T builds a Template from its arguments: a Code, a Kind, an Op, or a string
// for the Msg.  Unrecognized arguments are ignored, and a repeated type keeps
// the last value.
func T(args ...any) *Template {
	t := &Template{}
	for _, a := range args {
		switch arg := a.(type) {
		case Code:
			t.Code = arg
		case string:
			t.Msg = arg
		case Op:
			t.Op = arg
		case Kind:
			t.Kind = arg
		default:
			// ignore it
		}
	}
	return t
}

// Info returns the code info the template would match: the Code's info when a
// Code is set, otherwise a synthetic entry carrying the template's Kind.
func (t *Template) Info() Info {
	if t == nil {
		return errorCodeInfo[Unknown]
	}
	switch {
	case t.Code != Unknown:
		return t.Code.Info()
	case t.Kind != Other:
		return Info{
			Message: "Unknown",
			Kind:    t.Kind,
		}
	default:
		return errorCodeInfo[Unknown]
	}
}

// Error implements error so a Template compiles where an error is expected,
// but it deliberately carries no message: templates are for matching, never
// for returning.
func (t *Template) Error() string {
	return "Template error"
}

// Match reports whether err is (or wraps) an *Err whose fields satisfy every
// field set on the template.
func Match(t *Template, err error) bool {
	if t == nil || err == nil {
		return false
	}
	var e *Err
	if !As(err, &e) {
		return false
	}

	if t.Code != Unknown && t.Code != e.Code {
		return false
	}
	if t.Msg != "" && t.Msg != e.Msg {
		return false
	}
	if t.Op != "" && t.Op != e.Op {
		return false
	}
	if t.Kind != Other && t.Info().Kind != e.Info().Kind {
		return false
	}
	return true
}
