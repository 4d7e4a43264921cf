// Copyright (c) The Apache Software Foundation
// SPDX-License-Identifier: Apache-2.0

// Package sharing implements a tenant-scoped entity-sharing and
// access-control registry: entities form a per-tenant forest, groups nest
// into an acyclic containment graph, and grants cascade down the entity tree
// as materialized rows.  Access checks and searches are pure reads against
// those rows; all of the propagation cost is paid on the write path.
package sharing

import (
	"context"

	"github.com/apache/airavata-custos-sub005/internal/db"
	"github.com/apache/airavata-custos-sub005/internal/errors"
)

// Repository is the sharing registry's database repository
type Repository struct {
	reader db.Reader
	writer db.Writer

	// defaultLimit provides a default for limiting the number of results
	// returned from list and search operations
	defaultLimit int
}

// NewRepository creates a new sharing Repository.  Supports the WithLimit
// option for overriding the repository's default limit on list and search
// results.
func NewRepository(ctx context.Context, r db.Reader, w db.Writer, opt ...Option) (*Repository, error) {
	const op = "sharing.NewRepository"
	if r == nil {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "nil reader")
	}
	if w == nil {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "nil writer")
	}
	opts := getOpts(opt...)
	if opts.withLimit <= 0 {
		opts.withLimit = db.DefaultLimit
	}
	return &Repository{
		reader:       r,
		writer:       w,
		defaultLimit: opts.withLimit,
	}, nil
}

// limitFor returns the requested limit, falling back to the repository's
// default
func (r *Repository) limitFor(requested int) int {
	if requested <= 0 {
		return r.defaultLimit
	}
	return requested
}
