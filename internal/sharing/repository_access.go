// Copyright (c) The Apache Software Foundation
// SPDX-License-Identifier: Apache-2.0

package sharing

import (
	"context"

	"github.com/apache/airavata-custos-sub005/internal/errors"
)

// SharedPrincipal is one principal holding at least one grant on an entity.
type SharedPrincipal struct {
	AssociatingId   string
	AssociatingType PrincipalType
}

// UserHasAccess reports whether the principal holds the permission on the
// entity, either directly or through any group it transitively belongs to.
// This is a pure read against the materialized grant rows: cascading was
// flattened on the write path, so no ancestor walk happens here.
func (r *Repository) UserHasAccess(ctx context.Context, tenantId, entityId, permissionTypeId, principalId string) (bool, error) {
	const op = "sharing.(Repository).UserHasAccess"
	if tenantId == "" {
		return false, errors.New(ctx, errors.InvalidParameter, op, "missing tenant id")
	}
	if entityId == "" {
		return false, errors.New(ctx, errors.InvalidParameter, op, "missing entity id")
	}
	if permissionTypeId == "" {
		return false, errors.New(ctx, errors.InvalidParameter, op, "missing permission type id")
	}
	if principalId == "" {
		return false, errors.New(ctx, errors.InvalidParameter, op, "missing principal id")
	}
	e, err := r.LookupEntity(ctx, tenantId, entityId)
	if err != nil {
		return false, errors.Wrap(ctx, err, op)
	}
	if e == nil {
		return false, errors.New(ctx, errors.RecordNotFound, op, "entity "+entityId+" not found in tenant "+tenantId)
	}
	candidates, err := newMembershipResolver(r.reader).candidateIds(ctx, tenantId, principalId)
	if err != nil {
		return false, errors.Wrap(ctx, err, op)
	}
	return r.hasGrant(ctx, tenantId, entityId, permissionTypeId, candidates)
}

// hasGrant reports whether any candidate principal holds the permission on
// the entity.
func (r *Repository) hasGrant(ctx context.Context, tenantId, entityId, permissionTypeId string, candidates []string) (bool, error) {
	const op = "sharing.(Repository).hasGrant"
	rows, err := r.reader.Query(ctx, accessCheckQuery,
		[]any{tenantId, entityId, permissionTypeId, candidates})
	if err != nil {
		return false, errors.Wrap(ctx, err, op)
	}
	defer rows.Close()
	var count int
	if rows.Next() {
		if err := rows.Scan(&count); err != nil {
			return false, errors.Wrap(ctx, err, op)
		}
	}
	if err := rows.Err(); err != nil {
		return false, errors.Wrap(ctx, err, op)
	}
	return count > 0, nil
}

// ListSharedPrincipals returns the principals holding the permission on the
// entity.  With WithDirectOnly only explicitly created grants qualify, which
// distinguishes "who shared this" from "who has access transitively".
func (r *Repository) ListSharedPrincipals(ctx context.Context, tenantId, entityId, permissionTypeId string, opt ...Option) ([]*SharedPrincipal, error) {
	const op = "sharing.(Repository).ListSharedPrincipals"
	if tenantId == "" {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing tenant id")
	}
	if entityId == "" {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing entity id")
	}
	if permissionTypeId == "" {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing permission type id")
	}
	e, err := r.LookupEntity(ctx, tenantId, entityId)
	if err != nil {
		return nil, errors.Wrap(ctx, err, op)
	}
	if e == nil {
		return nil, errors.New(ctx, errors.RecordNotFound, op, "entity "+entityId+" not found in tenant "+tenantId)
	}
	opts := getOpts(opt...)
	query := sharedPrincipalsQuery
	if opts.withDirectOnly {
		query += sharedPrincipalsDirectOnly
	}
	query += " order by associating_id asc"
	rows, err := r.reader.Query(ctx, query, []any{tenantId, entityId, permissionTypeId})
	if err != nil {
		return nil, errors.Wrap(ctx, err, op)
	}
	defer rows.Close()
	var principals []*SharedPrincipal
	for rows.Next() {
		p := &SharedPrincipal{}
		if err := rows.Scan(&p.AssociatingId, &p.AssociatingType); err != nil {
			return nil, errors.Wrap(ctx, err, op)
		}
		principals = append(principals, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(ctx, err, op)
	}
	return principals, nil
}

// ListEntitiesSharedWithPrincipal returns the entities the principal can
// reach through any grant (any permission), most recently updated first.
// Supports the WithLimit option.
func (r *Repository) ListEntitiesSharedWithPrincipal(ctx context.Context, tenantId, principalId string, opt ...Option) ([]*Entity, error) {
	const op = "sharing.(Repository).ListEntitiesSharedWithPrincipal"
	if tenantId == "" {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing tenant id")
	}
	if principalId == "" {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing principal id")
	}
	candidates, err := newMembershipResolver(r.reader).candidateIds(ctx, tenantId, principalId)
	if err != nil {
		return nil, errors.Wrap(ctx, err, op)
	}
	opts := getOpts(opt...)
	query := entitiesSharedWithPrincipalQuery + " limit ?"
	rows, err := r.reader.Query(ctx, query,
		[]any{tenantId, tenantId, candidates, r.limitFor(opts.withLimit)})
	if err != nil {
		return nil, errors.Wrap(ctx, err, op)
	}
	defer rows.Close()
	var entities []*Entity
	for rows.Next() {
		e := allocEntity()
		if err := r.reader.ScanRows(ctx, rows, e); err != nil {
			return nil, errors.Wrap(ctx, err, op)
		}
		entities = append(entities, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(ctx, err, op)
	}
	return entities, nil
}
