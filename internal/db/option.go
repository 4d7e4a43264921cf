// Copyright (c) The Apache Software Foundation
// SPDX-License-Identifier: Apache-2.0

package db

import (
	"github.com/hashicorp/go-dbw"
	"github.com/hashicorp/go-hclog"
)

// GetOpts - iterate the inbound Options and return a struct
func GetOpts(opt ...Option) Options {
	opts := getDefaultOptions()
	for _, o := range opt {
		o(&opts)
	}
	return opts
}

// Option - how Options are passed as arguments
type Option func(*Options)

// Options - how Options are represented
type Options struct {
	withLimit              int
	withOrder              string
	withDebug              bool
	withOnConflict         *OnConflict
	withVersion            *uint32
	withWhereClause        string
	withWhereClauseArgs    []any
	withRowsAffected       *int64
	withLogger             hclog.Logger
	withMaxOpenConnections int
	withMinOpenConnections int
}

func getDefaultOptions() Options {
	return Options{}
}

// WithLimit provides an option to provide a limit.  Intentionally allowing
// negative integers.   If WithLimit < 0, then unlimited results are returned.
// If WithLimit == 0, then default limits are used for results.
func WithLimit(limit int) Option {
	return func(o *Options) {
		o.withLimit = limit
	}
}

// WithOrder provides an option to provide an order when searching and looking
// up.
func WithOrder(withOrder string) Option {
	return func(o *Options) {
		o.withOrder = withOrder
	}
}

// WithDebug specifies the given operation should invoke debug output mode
func WithDebug(with bool) Option {
	return func(o *Options) {
		o.withDebug = with
	}
}

// WithOnConflict specifies an optional on conflict criteria which specify
// alternative actions to take when an insert results in a unique constraint or
// exclusion constraint error
func WithOnConflict(onConflict *OnConflict) Option {
	return func(o *Options) {
		o.withOnConflict = onConflict
	}
}

// WithVersion provides an option version number for update operations.  Using
// this option requires that your update operation include the version number
// in the update's where clause, which basically turns the update into an
// atomic check-and-set.
func WithVersion(version *uint32) Option {
	return func(o *Options) {
		o.withVersion = version
	}
}

// WithWhere provides an option to provide a where clause with arguments for an
// operation.
func WithWhere(whereClause string, args ...any) Option {
	return func(o *Options) {
		o.withWhereClause = whereClause
		o.withWhereClauseArgs = append(o.withWhereClauseArgs, args...)
	}
}

// WithReturnRowsAffected specifies an option for returning the rows affected
// by a write operation that supports an on conflict action.
func WithReturnRowsAffected(rowsAffected *int64) Option {
	return func(o *Options) {
		o.withRowsAffected = rowsAffected
	}
}

// WithLogger specifies an optional hclog to use for db operations.
func WithLogger(l hclog.Logger) Option {
	return func(o *Options) {
		o.withLogger = l
	}
}

// WithMaxOpenConnections specifies an optional max open connections for the
// database
func WithMaxOpenConnections(max int) Option {
	return func(o *Options) {
		o.withMaxOpenConnections = max
	}
}

// WithMinOpenConnections specifies an optional min open connections for the
// database
func WithMinOpenConnections(min int) Option {
	return func(o *Options) {
		o.withMinOpenConnections = min
	}
}

// dbwOpts converts this package's options into their dbw equivalents before
// delegating an operation to the dbw layer.
func dbwOpts(opt ...Option) []dbw.Option {
	opts := GetOpts(opt...)
	converted := []dbw.Option{}
	if opts.withLimit != 0 {
		converted = append(converted, dbw.WithLimit(opts.withLimit))
	}
	if opts.withOrder != "" {
		converted = append(converted, dbw.WithOrder(opts.withOrder))
	}
	if opts.withDebug {
		converted = append(converted, dbw.WithDebug(opts.withDebug))
	}
	if opts.withOnConflict != nil {
		converted = append(converted, dbw.WithOnConflict(opts.withOnConflict))
	}
	if opts.withVersion != nil {
		converted = append(converted, dbw.WithVersion(opts.withVersion))
	}
	if opts.withWhereClause != "" {
		converted = append(converted, dbw.WithWhere(opts.withWhereClause, opts.withWhereClauseArgs...))
	}
	if opts.withRowsAffected != nil {
		converted = append(converted, dbw.WithReturnRowsAffected(opts.withRowsAffected))
	}
	return converted
}
