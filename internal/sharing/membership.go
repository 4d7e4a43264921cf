// Copyright (c) The Apache Software Foundation
// SPDX-License-Identifier: Apache-2.0

package sharing

import (
	"context"
	"sort"

	"github.com/apache/airavata-custos-sub005/internal/db"
	"github.com/apache/airavata-custos-sub005/internal/errors"
)

// membershipResolver computes the transitive closure of groups a principal
// belongs to.  Results are memoized for the resolver's lifetime, which is one
// request: the resolver is never shared across requests, so it can't serve
// stale memberships.
type membershipResolver struct {
	reader db.Reader
	memo   map[string][]string
}

func newMembershipResolver(reader db.Reader) *membershipResolver {
	return &membershipResolver{
		reader: reader,
		memo:   map[string][]string{},
	}
}

// candidateIds returns the principal itself plus every group it transitively
// belongs to, deduplicated and sorted.  The walk is breadth-first over the
// membership edges, one query per level, and tolerates diamonds: a group
// reachable via several paths is visited once.
func (m *membershipResolver) candidateIds(ctx context.Context, tenantId, principalId string) ([]string, error) {
	const op = "sharing.(membershipResolver).candidateIds"
	if tenantId == "" {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing tenant id")
	}
	if principalId == "" {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing principal id")
	}
	memoKey := tenantId + "/" + principalId
	if cached, ok := m.memo[memoKey]; ok {
		return cached, nil
	}

	seen := map[string]struct{}{principalId: {}}
	frontier := []string{principalId}
	for len(frontier) > 0 {
		rows, err := m.reader.Query(ctx, groupMembershipQuery, []any{tenantId, frontier})
		if err != nil {
			return nil, errors.Wrap(ctx, err, op)
		}
		var next []string
		for rows.Next() {
			var groupId string
			if err := rows.Scan(&groupId); err != nil {
				rows.Close()
				return nil, errors.Wrap(ctx, err, op)
			}
			if _, ok := seen[groupId]; ok {
				continue
			}
			seen[groupId] = struct{}{}
			next = append(next, groupId)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, errors.Wrap(ctx, err, op)
		}
		rows.Close()
		frontier = next
	}

	candidates := make([]string, 0, len(seen))
	for id := range seen {
		candidates = append(candidates, id)
	}
	sort.Strings(candidates)
	m.memo[memoKey] = candidates
	return candidates, nil
}
