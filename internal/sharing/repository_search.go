// Copyright (c) The Apache Software Foundation
// SPDX-License-Identifier: Apache-2.0

package sharing

import (
	"context"
	"fmt"
	"strings"

	"github.com/apache/airavata-custos-sub005/internal/errors"
	"github.com/hashicorp/mql"
)

// SearchEntities returns the entities matching the criteria that the
// principal can reach with the given permission, most recently updated first
// with ties broken by public id.  Criteria are mql expressions over the
// entity's fields (name, description, full_text, owner_id, ...) and are
// ANDed together.
//
// WithBottomUp switches evaluation to start from the principal's grant rows
// instead of scanning the tenant's entities, which pays off when the grant
// set is much smaller than the entity count.  Both modes return the same
// result set.  Also supports WithLimit and WithOffset.
func (r *Repository) SearchEntities(ctx context.Context, tenantId, principalId, permissionTypeId string, criteria []string, opt ...Option) ([]*Entity, error) {
	const op = "sharing.(Repository).SearchEntities"
	if tenantId == "" {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing tenant id")
	}
	if principalId == "" {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing principal id")
	}
	if permissionTypeId == "" {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing permission type id")
	}
	condition, conditionArgs, err := parseCriteria(ctx, criteria)
	if err != nil {
		return nil, errors.Wrap(ctx, err, op)
	}
	candidates, err := newMembershipResolver(r.reader).candidateIds(ctx, tenantId, principalId)
	if err != nil {
		return nil, errors.Wrap(ctx, err, op)
	}

	opts := getOpts(opt...)
	limit := r.limitFor(opts.withLimit)
	var query string
	var args []any
	if opts.withBottomUp {
		query = fmt.Sprintf(searchBottomUpQueryTmpl, condition)
		args = append(args, tenantId, tenantId, permissionTypeId, candidates)
	} else {
		query = fmt.Sprintf(searchTopDownQueryTmpl, condition)
		args = append(args, tenantId, permissionTypeId, candidates)
	}
	args = append(args, conditionArgs...)
	args = append(args, limit, opts.withOffset)

	rows, err := r.reader.Query(ctx, query, args)
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

// parseCriteria turns the mql criteria into one parameterized condition.  An
// empty criteria list matches everything.
func parseCriteria(ctx context.Context, criteria []string) (string, []any, error) {
	const op = "sharing.parseCriteria"
	if len(criteria) == 0 {
		return "1 = 1", nil, nil
	}
	conditions := make([]string, 0, len(criteria))
	var args []any
	for _, c := range criteria {
		if strings.TrimSpace(c) == "" {
			return "", nil, errors.New(ctx, errors.InvalidSearchQuery, op, "empty search criteria")
		}
		where, err := mql.Parse(c, Entity{}, mql.WithIgnoredFields("TenantId", "Version"))
		if err != nil {
			return "", nil, errors.New(ctx, errors.InvalidSearchQuery, op,
				"invalid search criteria "+c, errors.WithWrap(err))
		}
		conditions = append(conditions, "("+where.Condition+")")
		args = append(args, where.Args...)
	}
	return strings.Join(conditions, " and "), args, nil
}
