// Copyright (c) The Apache Software Foundation
// SPDX-License-Identifier: Apache-2.0

package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Op represents an operation (package.function).
// For example iam.CreateScope
type Op string

// Err provides the ability to specify a Msg, Op, Code and Wrapped error.
// We've chosen Err over Error for the identifier to support the easy embedding of Errs.
// Errs can be embedded without a conflict between the embedded Err and Err.Error().
type Err struct {
	// Code is the error's code, which can be used to get the error's
	// errorCodeInfo, which contains the error's Kind and Message
	Code Code

	// Msg for the error
	Msg string

	// Op represents the operation raising/propagating an error and is optional.
	// Op should be formatted as "package.func" for functions, while methods should
	// include the receiver type in parentheses "package.(type).func"
	Op Op

	// Wrapped is the error which this Err wraps and will be nil if there's no
	// error to wrap.
	Wrapped error
}

// E creates a new Err with provided code and supports the options of:
//
// * WithOp() - allows you to specify an optional Op (operation).
//
// * WithMsg() - allows you to specify an optional error msg, if the default
// msg for the error Code is not sufficient.
//
// * WithWrap() - allows you to specify an error to wrap
func E(ctx context.Context, opt ...Option) error {
	opts := GetOpts(opt...)
	return &Err{
		Code:    opts.withCode,
		Op:      opts.withOp,
		Wrapped: opts.withErrWrapped,
		Msg:     opts.withErrMsg,
	}
}

// New creates a new Err with provided code, op and msg
// It supports the options of:
//
// * WithWrap() - allows you to specify an error to wrap
func New(ctx context.Context, c Code, op Op, msg string, opt ...Option) error {
	opt = append(opt, WithOp(op))
	opt = append(opt, WithMsg(msg))
	opt = append(opt, WithCode(c))
	return E(ctx, opt...)
}

// Wrap creates a new Err from the provided err and op,
// preserving the code from the originating error.
// It supports the options of:
//
// * WithMsg() - allows you to specify an optional error msg
//
// * WithCode() - allows you to specify an optional Code, this code will be prioritized
// over a code used from err
func Wrap(ctx context.Context, e error, op Op, opt ...Option) error {
	opt = append(opt, WithOp(op))
	opt = append(opt, WithWrap(e))
	opts := GetOpts(opt...)
	if opts.withCode == Unknown {
		// no code was passed in via options, so determine one dynamically
		// from the wrapped error when possible
		if err := Convert(e); err != nil {
			var wrappedErr *Err
			if errors.As(err, &wrappedErr) {
				opt = append(opt, WithCode(wrappedErr.Code))
			}
		}
	}
	return E(ctx, opt...)
}

// Convert will convert the error to an Err (fmt.Errorf is not helpful) and
// attempt to add a helpful error msg as well. If that's not possible, it
// will return nil
func Convert(e error) *Err {
	if e == nil {
		return nil
	}
	return convert(e)
}

func convert(e error) *Err {
	// nothing to convert.
	if e == nil {
		return nil
	}

	var alreadyConverted *Err
	if errors.As(e, &alreadyConverted) {
		return alreadyConverted
	}

	if code, ok := driverErrorCode(e); ok {
		return &Err{
			Code:    code,
			Wrapped: e,
			Msg:     e.Error(),
		}
	}
	// unfortunately, we can't help.
	return nil
}

// Info about the Err
func (e *Err) Info() Info {
	if e == nil {
		return errorCodeInfo[Unknown]
	}
	return e.Code.Info()
}

// Error satisfies the error interface and returns a string representation of
// the Err
func (e *Err) Error() string {
	if e == nil {
		return ""
	}
	var s strings.Builder
	if e.Op != "" {
		join(&s, ": ", string(e.Op))
	}
	if e.Msg != "" {
		join(&s, ": ", e.Msg)
	}

	if info, ok := errorCodeInfo[e.Code]; ok {
		if e.Msg == "" {
			join(&s, ": ", info.Message) // provide a default.
			join(&s, ", ", info.Kind.String())
		} else {
			join(&s, ": ", info.Kind.String())
		}
	}
	join(&s, ": ", fmt.Sprintf("error #%d", e.Code))

	if e.Wrapped != nil {
		join(&s, ": ", e.Wrapped.Error())
	}
	return s.String()
}

func join(str *strings.Builder, delim string, s string) {
	if str.Len() == 0 {
		_, _ = str.WriteString(s)
		return
	}
	_, _ = str.WriteString(delim + s)
}

// Unwrap implements the errors.Unwrap interface and allows callers to use the
// errors.Is() and errors.As() functions effectively for any wrapped errors.
func (e *Err) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Wrapped
}
