// Copyright (c) The Apache Software Foundation
// SPDX-License-Identifier: Apache-2.0

package sharing

import (
	"context"

	"github.com/apache/airavata-custos-sub005/internal/db"
	"github.com/apache/airavata-custos-sub005/internal/errors"
	"github.com/hashicorp/go-multierror"
)

// ShareEntity grants the permission on the entity to each associating
// principal.  Grants are keyed by their natural key, so re-sharing an
// existing tuple converges on the single live row instead of erroring, and
// concurrent sharers of the same tuple can't diverge.
//
// With WithCascade the grant also materializes onto every current descendant
// as an INDIRECT_CASCADING row anchored at this entity (future descendants
// pick it up at create/move time).  Also supports WithSharedBy.
//
// Group principals must exist in the tenant; user principals belong to the
// external identity directory and are recorded as given.
func (r *Repository) ShareEntity(ctx context.Context, tenantId, entityId, permissionTypeId string, associatingIds []string, associatingType PrincipalType, opt ...Option) ([]*Share, error) {
	const op = "sharing.(Repository).ShareEntity"
	if tenantId == "" {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing tenant id")
	}
	if entityId == "" {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing entity id")
	}
	if permissionTypeId == "" {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing permission type id")
	}
	if len(associatingIds) == 0 {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing associating ids")
	}
	if !associatingType.valid() {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "invalid associating type "+string(associatingType))
	}
	e, err := r.LookupEntity(ctx, tenantId, entityId)
	if err != nil {
		return nil, errors.Wrap(ctx, err, op)
	}
	if e == nil {
		return nil, errors.New(ctx, errors.RecordNotFound, op, "entity "+entityId+" not found in tenant "+tenantId)
	}
	permissionType, err := r.LookupPermissionType(ctx, tenantId, permissionTypeId)
	if err != nil {
		return nil, errors.Wrap(ctx, err, op)
	}
	if permissionType == nil {
		return nil, errors.New(ctx, errors.RecordNotFound, op, "permission type "+permissionTypeId+" not found in tenant "+tenantId)
	}
	if associatingType == PrincipalTypeGroup {
		var invalid *multierror.Error
		for _, associatingId := range associatingIds {
			g, err := r.LookupGroup(ctx, tenantId, associatingId)
			if err != nil {
				return nil, errors.Wrap(ctx, err, op)
			}
			if g == nil {
				invalid = multierror.Append(invalid, errors.New(ctx, errors.RecordNotFound, op,
					"group "+associatingId+" not found in tenant "+tenantId))
			}
		}
		if invalid != nil {
			return nil, errors.Wrap(ctx, invalid.ErrorOrNil(), op)
		}
	}

	opts := getOpts(opt...)
	shareType := ShareTypeDirectNonCascading
	if opts.withCascade {
		shareType = ShareTypeDirectCascading
	}
	direct := make([]*Share, 0, len(associatingIds))
	for _, associatingId := range associatingIds {
		if associatingId == "" {
			return nil, errors.New(ctx, errors.InvalidParameter, op, "missing associating id")
		}
		id, err := newShareId(ctx)
		if err != nil {
			return nil, errors.Wrap(ctx, err, op)
		}
		direct = append(direct, &Share{
			PublicId:          id,
			TenantId:          tenantId,
			EntityId:          entityId,
			PermissionTypeId:  permissionTypeId,
			AssociatingId:     associatingId,
			AssociatingType:   associatingType,
			SharingType:       shareType,
			InheritedParentId: entityId,
			SharedBy:          opts.withSharedBy,
		})
	}

	_, err = r.writer.DoTx(ctx, db.StdRetryCnt, db.ExpBackoff{},
		func(read db.Reader, w db.Writer) error {
			// re-sharing updates the row in place, so switching between
			// cascading and non-cascading is last-committed-wins
			onConflict := &db.OnConflict{
				Target: db.Columns{"tenant_id", "entity_id", "inherited_parent_id", "associating_id", "permission_type_id"},
				Action: db.SetColumns([]string{"sharing_type", "shared_by"}),
			}
			if err := w.CreateItems(ctx, direct, db.WithOnConflict(onConflict)); err != nil {
				return errors.Wrap(ctx, err, op)
			}
			if !opts.withCascade {
				// a prior cascading share of the same tuple may have
				// materialized rows on the descendants; a non-cascading
				// grant must not keep them alive
				rowsDowngraded, err := w.Exec(ctx, deleteInheritedForAnchorQuery,
					[]any{tenantId, entityId, permissionTypeId, associatingIds})
				if err != nil {
					return errors.Wrap(ctx, err, op)
				}
				if rowsDowngraded > 0 {
					if _, err := w.Exec(ctx, sharedCountUpdateSubtreeQuery, []any{tenantId, tenantId, entityId}); err != nil {
						return errors.Wrap(ctx, err, op)
					}
					return nil
				}
				if _, err := w.Exec(ctx, sharedCountUpdateEntityQuery, []any{tenantId, entityId}); err != nil {
					return errors.Wrap(ctx, err, op)
				}
				return nil
			}
			subtree, err := subtreeIds(ctx, read, tenantId, entityId)
			if err != nil {
				return errors.Wrap(ctx, err, op)
			}
			descendants := make([]string, 0, len(subtree))
			for _, id := range subtree {
				if id != entityId {
					descendants = append(descendants, id)
				}
			}
			if len(descendants) > 0 {
				inherited, err := buildInheritedShares(ctx, tenantId, descendants, direct)
				if err != nil {
					return errors.Wrap(ctx, err, op)
				}
				if err := createSharesIgnoreDups(ctx, w, inherited); err != nil {
					return errors.Wrap(ctx, err, op)
				}
			}
			if _, err := w.Exec(ctx, sharedCountUpdateSubtreeQuery, []any{tenantId, tenantId, entityId}); err != nil {
				return errors.Wrap(ctx, err, op)
			}
			return nil
		},
	)
	if err != nil {
		return nil, errors.Wrap(ctx, err, op)
	}
	return direct, nil
}

// RevokePermission removes the direct grant for each associating principal
// on the entity.  When the removed grant was cascading, every inherited row
// it anchored on the descendants goes with it; rows the descendants inherited
// from other ancestors are untouched.  Revoking a grant that doesn't exist
// returns success with zero rows affected.
func (r *Repository) RevokePermission(ctx context.Context, tenantId, entityId, permissionTypeId string, associatingIds []string) (int, error) {
	const op = "sharing.(Repository).RevokePermission"
	if tenantId == "" {
		return db.NoRowsAffected, errors.New(ctx, errors.InvalidParameter, op, "missing tenant id")
	}
	if entityId == "" {
		return db.NoRowsAffected, errors.New(ctx, errors.InvalidParameter, op, "missing entity id")
	}
	if permissionTypeId == "" {
		return db.NoRowsAffected, errors.New(ctx, errors.InvalidParameter, op, "missing permission type id")
	}
	if len(associatingIds) == 0 {
		return db.NoRowsAffected, errors.New(ctx, errors.InvalidParameter, op, "missing associating ids")
	}
	e, err := r.LookupEntity(ctx, tenantId, entityId)
	if err != nil {
		return db.NoRowsAffected, errors.Wrap(ctx, err, op)
	}
	if e == nil {
		return db.NoRowsAffected, errors.New(ctx, errors.RecordNotFound, op, "entity "+entityId+" not found in tenant "+tenantId)
	}

	var rowsDeleted int
	_, err = r.writer.DoTx(ctx, db.StdRetryCnt, db.ExpBackoff{},
		func(read db.Reader, w db.Writer) error {
			var err error
			rowsDeleted, err = w.Exec(ctx, revokeGrantsQuery,
				[]any{tenantId, entityId, permissionTypeId, associatingIds})
			if err != nil {
				return errors.Wrap(ctx, err, op)
			}
			if rowsDeleted == 0 {
				return nil
			}
			if _, err := w.Exec(ctx, sharedCountUpdateSubtreeQuery,
				[]any{tenantId, tenantId, entityId}); err != nil {
				return errors.Wrap(ctx, err, op)
			}
			return nil
		},
	)
	if err != nil {
		return db.NoRowsAffected, errors.Wrap(ctx, err, op)
	}
	return rowsDeleted, nil
}
