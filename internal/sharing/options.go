// Copyright (c) The Apache Software Foundation
// SPDX-License-Identifier: Apache-2.0

package sharing

// getOpts - iterate the inbound Options and return a struct
func getOpts(opt ...Option) options {
	opts := getDefaultOptions()
	for _, o := range opt {
		o(&opts)
	}
	return opts
}

// Option - how Options are passed as arguments
type Option func(*options)

// options = how options are represented
type options struct {
	withDescription string
	withParentId    string
	withExternalId  string
	withFullText    string
	withOwnerId     string
	withSharedBy    string
	withCascade     bool
	withDirectOnly  bool
	withBottomUp    bool
	withLimit       int
	withOffset      int
}

func getDefaultOptions() options {
	return options{}
}

// WithDescription provides an optional description
func WithDescription(desc string) Option {
	return func(o *options) {
		o.withDescription = desc
	}
}

// WithParentId provides an optional parent entity, making the new entity a
// child instead of a root
func WithParentId(parentId string) Option {
	return func(o *options) {
		o.withParentId = parentId
	}
}

// WithExternalId provides an optional caller-supplied external id, which is
// unique within the tenant and serves as the caller's idempotency key.  When
// it's not provided a fresh one is generated, so retried creates produce
// duplicates.
func WithExternalId(externalId string) Option {
	return func(o *options) {
		o.withExternalId = externalId
	}
}

// WithFullText provides optional free text indexed for entity search
func WithFullText(fullText string) Option {
	return func(o *options) {
		o.withFullText = fullText
	}
}

// WithOwnerId provides an optional owner for a group
func WithOwnerId(ownerId string) Option {
	return func(o *options) {
		o.withOwnerId = ownerId
	}
}

// WithSharedBy records which principal created a grant
func WithSharedBy(sharedBy string) Option {
	return func(o *options) {
		o.withSharedBy = sharedBy
	}
}

// WithCascade makes a grant apply to all current and future descendants of
// the entity
func WithCascade(cascade bool) Option {
	return func(o *options) {
		o.withCascade = cascade
	}
}

// WithDirectOnly restricts a principal listing to explicitly created grants,
// excluding inherited ones.  This distinguishes "who shared this" from "who
// has access transitively".
func WithDirectOnly(directOnly bool) Option {
	return func(o *options) {
		o.withDirectOnly = directOnly
	}
}

// WithBottomUp makes entity search start from the principal's grant rows
// instead of scanning entities.  It's purely a performance hint: both modes
// return the same result set.
func WithBottomUp(bottomUp bool) Option {
	return func(o *options) {
		o.withBottomUp = bottomUp
	}
}

// WithLimit provides an option to provide a limit.  If WithLimit <= 0, then
// the repository's default limit is used.
func WithLimit(limit int) Option {
	return func(o *options) {
		o.withLimit = limit
	}
}

// WithOffset provides an option to skip results for pagination
func WithOffset(offset int) Option {
	return func(o *options) {
		o.withOffset = offset
	}
}
