// Copyright (c) The Apache Software Foundation
// SPDX-License-Identifier: Apache-2.0

package sharing

import (
	"context"

	"github.com/apache/airavata-custos-sub005/internal/db"
	"github.com/apache/airavata-custos-sub005/internal/errors"
	"github.com/hashicorp/go-multierror"
)

// CreateGroup creates a new group for the tenant.  The name must be unique
// within the tenant.  Supports the WithDescription and WithOwnerId options.
func (r *Repository) CreateGroup(ctx context.Context, tenantId, name string, opt ...Option) (*Group, error) {
	const op = "sharing.(Repository).CreateGroup"
	if tenantId == "" {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing tenant id")
	}
	if name == "" {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing name")
	}
	g := NewGroup(tenantId, name, opt...)
	id, err := newGroupId(ctx)
	if err != nil {
		return nil, errors.Wrap(ctx, err, op)
	}
	g.PublicId = id
	g.Version = 1
	if err := r.writer.Create(ctx, g); err != nil {
		if errors.IsUniqueError(err) {
			return nil, errors.New(ctx, errors.NotUnique, op,
				"group name "+name+" already exists in tenant "+tenantId, errors.WithWrap(err))
		}
		return nil, errors.Wrap(ctx, err, op)
	}
	return g, nil
}

// LookupGroup returns the group for the id, or nil if it doesn't exist in
// the tenant.
func (r *Repository) LookupGroup(ctx context.Context, tenantId, groupId string) (*Group, error) {
	const op = "sharing.(Repository).LookupGroup"
	if tenantId == "" {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing tenant id")
	}
	if groupId == "" {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing group id")
	}
	g := allocGroup()
	if err := r.reader.LookupWhere(ctx, g, "tenant_id = ? and public_id = ?", []any{tenantId, groupId}); err != nil {
		if errors.IsNotFoundError(err) {
			return nil, nil
		}
		return nil, errors.Wrap(ctx, err, op)
	}
	return g, nil
}

// ListGroups lists the tenant's groups.  Supports the WithLimit option.
func (r *Repository) ListGroups(ctx context.Context, tenantId string, opt ...Option) ([]*Group, error) {
	const op = "sharing.(Repository).ListGroups"
	if tenantId == "" {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing tenant id")
	}
	opts := getOpts(opt...)
	var groups []*Group
	err := r.reader.SearchWhere(ctx, &groups, "tenant_id = ?", []any{tenantId},
		db.WithLimit(r.limitFor(opts.withLimit)), db.WithOrder("name asc"))
	if err != nil {
		return nil, errors.Wrap(ctx, err, op)
	}
	return groups, nil
}

// DeleteGroup deletes the group along with its membership edges (both the
// edges it owns and the ones naming it as a member) and every grant held by
// the group, recomputing the shared counts of the entities those grants were
// on.
func (r *Repository) DeleteGroup(ctx context.Context, tenantId, groupId string) (int, error) {
	const op = "sharing.(Repository).DeleteGroup"
	if tenantId == "" {
		return db.NoRowsAffected, errors.New(ctx, errors.InvalidParameter, op, "missing tenant id")
	}
	if groupId == "" {
		return db.NoRowsAffected, errors.New(ctx, errors.InvalidParameter, op, "missing group id")
	}
	g, err := r.LookupGroup(ctx, tenantId, groupId)
	if err != nil {
		return db.NoRowsAffected, errors.Wrap(ctx, err, op)
	}
	if g == nil {
		return db.NoRowsAffected, errors.New(ctx, errors.RecordNotFound, op, "group "+groupId+" not found in tenant "+tenantId)
	}

	var rowsDeleted int
	_, err = r.writer.DoTx(ctx, db.StdRetryCnt, db.ExpBackoff{},
		func(read db.Reader, w db.Writer) error {
			var granted []string
			rows, err := read.Query(ctx,
				"select distinct entity_id from sharing_grant where tenant_id = ? and associating_id = ?",
				[]any{tenantId, groupId})
			if err != nil {
				return errors.Wrap(ctx, err, op)
			}
			for rows.Next() {
				var entityId string
				if err := rows.Scan(&entityId); err != nil {
					rows.Close()
					return errors.Wrap(ctx, err, op)
				}
				granted = append(granted, entityId)
			}
			if err := rows.Err(); err != nil {
				rows.Close()
				return errors.Wrap(ctx, err, op)
			}
			rows.Close()

			if _, err := w.Exec(ctx,
				"delete from sharing_grant where tenant_id = ? and associating_id = ?",
				[]any{tenantId, groupId}); err != nil {
				return errors.Wrap(ctx, err, op)
			}
			if len(granted) > 0 {
				if _, err := w.Exec(ctx, sharedCountUpdateEntitiesQuery,
					[]any{tenantId, granted}); err != nil {
					return errors.Wrap(ctx, err, op)
				}
			}
			if _, err := w.Exec(ctx,
				"delete from sharing_group_member where tenant_id = ? and (group_id = ? or (member_id = ? and member_type = 'GROUP'))",
				[]any{tenantId, groupId, groupId}); err != nil {
				return errors.Wrap(ctx, err, op)
			}
			toDelete := allocGroup()
			toDelete.PublicId = groupId
			rowsDeleted, err = w.Delete(ctx, toDelete, db.WithWhere("tenant_id = ?", tenantId))
			if err != nil {
				return errors.Wrap(ctx, err, op)
			}
			if rowsDeleted != 1 {
				return errors.New(ctx, errors.MultipleRecords, op, "deleted group and expected 1 row")
			}
			return nil
		},
	)
	if err != nil {
		return db.NoRowsAffected, errors.Wrap(ctx, err, op)
	}
	return rowsDeleted, nil
}

// AddGroupMembers adds members (users or other groups) to the group.
// Group-typed members must exist and must not already contain the group,
// directly or transitively: the containment graph stays acyclic.  Adding an
// existing member is a no-op.
func (r *Repository) AddGroupMembers(ctx context.Context, tenantId, groupId string, memberIds []string, memberType PrincipalType) ([]*GroupMember, error) {
	const op = "sharing.(Repository).AddGroupMembers"
	if tenantId == "" {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing tenant id")
	}
	if groupId == "" {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing group id")
	}
	if len(memberIds) == 0 {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing member ids")
	}
	if !memberType.valid() {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "invalid member type "+string(memberType))
	}
	g, err := r.LookupGroup(ctx, tenantId, groupId)
	if err != nil {
		return nil, errors.Wrap(ctx, err, op)
	}
	if g == nil {
		return nil, errors.New(ctx, errors.RecordNotFound, op, "group "+groupId+" not found in tenant "+tenantId)
	}
	members := make([]*GroupMember, 0, len(memberIds))
	for _, memberId := range memberIds {
		if memberId == "" {
			return nil, errors.New(ctx, errors.InvalidParameter, op, "missing member id")
		}
		id, err := newGroupMemberId(ctx)
		if err != nil {
			return nil, errors.Wrap(ctx, err, op)
		}
		members = append(members, &GroupMember{
			PublicId:   id,
			TenantId:   tenantId,
			GroupId:    groupId,
			MemberId:   memberId,
			MemberType: memberType,
		})
	}
	_, err = r.writer.DoTx(ctx, db.StdRetryCnt, db.ExpBackoff{},
		func(read db.Reader, w db.Writer) error {
			if memberType == PrincipalTypeGroup {
				// every group this group transitively belongs to; a member
				// drawn from that set would close a loop.  Resolved within
				// the transaction so concurrent adds see each other's edges.
				containing, err := newMembershipResolver(read).candidateIds(ctx, tenantId, groupId)
				if err != nil {
					return errors.Wrap(ctx, err, op)
				}
				containingSet := make(map[string]struct{}, len(containing))
				for _, id := range containing {
					containingSet[id] = struct{}{}
				}
				var invalid *multierror.Error
				for _, memberId := range memberIds {
					member := allocGroup()
					err := read.LookupWhere(ctx, member, "tenant_id = ? and public_id = ?", []any{tenantId, memberId})
					switch {
					case errors.IsNotFoundError(err):
						invalid = multierror.Append(invalid, errors.New(ctx, errors.RecordNotFound, op,
							"member group "+memberId+" not found in tenant "+tenantId))
						continue
					case err != nil:
						return errors.Wrap(ctx, err, op)
					}
					if _, ok := containingSet[memberId]; ok {
						invalid = multierror.Append(invalid, errors.New(ctx, errors.Cycle, op,
							"adding group "+memberId+" to "+groupId+" would create a cycle"))
					}
				}
				if invalid != nil {
					return errors.Wrap(ctx, invalid.ErrorOrNil(), op)
				}
			}
			onConflict := &db.OnConflict{
				Target: db.Columns{"tenant_id", "group_id", "member_id"},
				Action: db.DoNothing(true),
			}
			if err := w.CreateItems(ctx, members, db.WithOnConflict(onConflict)); err != nil {
				return errors.Wrap(ctx, err, op)
			}
			return nil
		},
	)
	if err != nil {
		return nil, errors.Wrap(ctx, err, op)
	}
	return members, nil
}

// DeleteGroupMembers removes members from the group.  Removing a member
// that's not in the group isn't an error.
func (r *Repository) DeleteGroupMembers(ctx context.Context, tenantId, groupId string, memberIds []string) (int, error) {
	const op = "sharing.(Repository).DeleteGroupMembers"
	if tenantId == "" {
		return db.NoRowsAffected, errors.New(ctx, errors.InvalidParameter, op, "missing tenant id")
	}
	if groupId == "" {
		return db.NoRowsAffected, errors.New(ctx, errors.InvalidParameter, op, "missing group id")
	}
	if len(memberIds) == 0 {
		return db.NoRowsAffected, errors.New(ctx, errors.InvalidParameter, op, "missing member ids")
	}
	g, err := r.LookupGroup(ctx, tenantId, groupId)
	if err != nil {
		return db.NoRowsAffected, errors.Wrap(ctx, err, op)
	}
	if g == nil {
		return db.NoRowsAffected, errors.New(ctx, errors.RecordNotFound, op, "group "+groupId+" not found in tenant "+tenantId)
	}
	rowsDeleted, err := r.writer.Exec(ctx,
		"delete from sharing_group_member where tenant_id = ? and group_id = ? and member_id in ?",
		[]any{tenantId, groupId, memberIds})
	if err != nil {
		return db.NoRowsAffected, errors.Wrap(ctx, err, op)
	}
	return rowsDeleted, nil
}

// ListGroupMembers lists the group's direct members.  Supports the WithLimit
// option.
func (r *Repository) ListGroupMembers(ctx context.Context, tenantId, groupId string, opt ...Option) ([]*GroupMember, error) {
	const op = "sharing.(Repository).ListGroupMembers"
	if tenantId == "" {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing tenant id")
	}
	if groupId == "" {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing group id")
	}
	g, err := r.LookupGroup(ctx, tenantId, groupId)
	if err != nil {
		return nil, errors.Wrap(ctx, err, op)
	}
	if g == nil {
		return nil, errors.New(ctx, errors.RecordNotFound, op, "group "+groupId+" not found in tenant "+tenantId)
	}
	opts := getOpts(opt...)
	var members []*GroupMember
	err = r.reader.SearchWhere(ctx, &members, "tenant_id = ? and group_id = ?", []any{tenantId, groupId},
		db.WithLimit(r.limitFor(opts.withLimit)), db.WithOrder("member_id asc"))
	if err != nil {
		return nil, errors.Wrap(ctx, err, op)
	}
	return members, nil
}
