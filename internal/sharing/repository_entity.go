// Copyright (c) The Apache Software Foundation
// SPDX-License-Identifier: Apache-2.0

package sharing

import (
	"context"
	"strings"

	"github.com/apache/airavata-custos-sub005/internal/db"
	"github.com/apache/airavata-custos-sub005/internal/errors"
	"github.com/hashicorp/go-dbw"
	"github.com/hashicorp/go-uuid"
)

// CreateEntity creates a new entity in the tenant's forest.  When WithParentId
// is given the entity becomes a child and, in the same transaction, inherits
// every active cascading grant from its ancestor chain, each row keeping the
// anchor of its originating direct grant.  A child never exists without its
// inherited grants.
//
// The caller-facing idempotency key is the external id (WithExternalId);
// without one a fresh uuid is assigned, so retried creates produce duplicate
// entities.  Also supports the WithDescription and WithFullText options.
func (r *Repository) CreateEntity(ctx context.Context, tenantId, typeId, ownerId, name string, opt ...Option) (*Entity, error) {
	const op = "sharing.(Repository).CreateEntity"
	if tenantId == "" {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing tenant id")
	}
	if typeId == "" {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing entity type id")
	}
	if ownerId == "" {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing owner id")
	}
	if name == "" {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing name")
	}
	entityType, err := r.LookupEntityType(ctx, tenantId, typeId)
	if err != nil {
		return nil, errors.Wrap(ctx, err, op)
	}
	if entityType == nil {
		return nil, errors.New(ctx, errors.RecordNotFound, op, "entity type "+typeId+" not found in tenant "+tenantId)
	}
	e := NewEntity(tenantId, typeId, ownerId, name, opt...)
	if e.ParentId != "" {
		parent, err := r.LookupEntity(ctx, tenantId, e.ParentId)
		if err != nil {
			return nil, errors.Wrap(ctx, err, op)
		}
		if parent == nil {
			return nil, errors.New(ctx, errors.RecordNotFound, op, "parent entity "+e.ParentId+" not found in tenant "+tenantId)
		}
	}
	if e.ExternalId == "" {
		externalId, err := uuid.GenerateUUID()
		if err != nil {
			return nil, errors.Wrap(ctx, err, op, errors.WithCode(errors.Io))
		}
		e.ExternalId = externalId
	}
	id, err := newEntityId(ctx)
	if err != nil {
		return nil, errors.Wrap(ctx, err, op)
	}
	e.PublicId = id
	e.Version = 1

	_, err = r.writer.DoTx(ctx, db.StdRetryCnt, db.ExpBackoff{},
		func(read db.Reader, w db.Writer) error {
			if err := w.Create(ctx, e); err != nil {
				if errors.IsUniqueError(err) {
					return errors.New(ctx, errors.NotUnique, op,
						"external id "+e.ExternalId+" already exists in tenant "+tenantId, errors.WithWrap(err))
				}
				return errors.Wrap(ctx, err, op)
			}
			selfRow := &entityAncestor{
				TenantId:   tenantId,
				EntityId:   e.PublicId,
				AncestorId: e.PublicId,
				Depth:      0,
			}
			if err := w.Create(ctx, selfRow); err != nil {
				return errors.Wrap(ctx, err, op)
			}
			if e.ParentId == "" {
				return nil
			}
			if _, err := w.Exec(ctx, ancestorInsertFromParentQuery, []any{e.PublicId, tenantId, e.ParentId}); err != nil {
				return errors.Wrap(ctx, err, op)
			}
			var inheritable []*Share
			err := read.SearchWhere(ctx, &inheritable, inheritableGrantsWhere,
				[]any{tenantId, tenantId, e.ParentId}, db.WithLimit(-1))
			if err != nil {
				return errors.Wrap(ctx, err, op)
			}
			if len(inheritable) == 0 {
				return nil
			}
			inherited, err := buildInheritedShares(ctx, tenantId, []string{e.PublicId}, inheritable)
			if err != nil {
				return errors.Wrap(ctx, err, op)
			}
			if err := createSharesIgnoreDups(ctx, w, inherited); err != nil {
				return errors.Wrap(ctx, err, op)
			}
			if _, err := w.Exec(ctx, sharedCountUpdateEntityQuery, []any{tenantId, e.PublicId}); err != nil {
				return errors.Wrap(ctx, err, op)
			}
			return nil
		},
	)
	if err != nil {
		return nil, errors.Wrap(ctx, err, op)
	}
	created, err := r.LookupEntity(ctx, tenantId, e.PublicId)
	if err != nil {
		return nil, errors.Wrap(ctx, err, op)
	}
	return created, nil
}

// LookupEntity returns the entity for the id, or nil if it doesn't exist in
// the tenant.
func (r *Repository) LookupEntity(ctx context.Context, tenantId, entityId string) (*Entity, error) {
	const op = "sharing.(Repository).LookupEntity"
	if tenantId == "" {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing tenant id")
	}
	if entityId == "" {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing entity id")
	}
	e := allocEntity()
	if err := r.reader.LookupWhere(ctx, e, "tenant_id = ? and public_id = ?", []any{tenantId, entityId}); err != nil {
		if errors.IsNotFoundError(err) {
			return nil, nil
		}
		return nil, errors.Wrap(ctx, err, op)
	}
	return e, nil
}

// UpdateEntity updates an entity's mutable metadata (Name, Description,
// FullText, OwnerId) via field mask paths.  The version is an optimistic
// locking check against the stored row.  Fields named in the mask with zero
// values are set to null.
func (r *Repository) UpdateEntity(ctx context.Context, tenantId string, entity *Entity, version uint32, fieldMaskPaths []string) (*Entity, int, error) {
	const op = "sharing.(Repository).UpdateEntity"
	if tenantId == "" {
		return nil, db.NoRowsAffected, errors.New(ctx, errors.InvalidParameter, op, "missing tenant id")
	}
	if entity == nil {
		return nil, db.NoRowsAffected, errors.New(ctx, errors.InvalidParameter, op, "missing entity")
	}
	if entity.PublicId == "" {
		return nil, db.NoRowsAffected, errors.New(ctx, errors.InvalidParameter, op, "missing entity public id")
	}
	for _, f := range fieldMaskPaths {
		switch {
		case strings.EqualFold("Name", f):
		case strings.EqualFold("Description", f):
		case strings.EqualFold("FullText", f):
		case strings.EqualFold("OwnerId", f):
		default:
			return nil, db.NoRowsAffected, errors.New(ctx, errors.InvalidFieldMask, op, "invalid field mask: "+f)
		}
	}
	var dbMask, nullFields []string
	dbMask, nullFields = dbw.BuildUpdatePaths(
		map[string]any{
			"Name":        entity.Name,
			"Description": entity.Description,
			"FullText":    entity.FullText,
			"OwnerId":     entity.OwnerId,
		},
		fieldMaskPaths,
		nil,
	)
	if len(dbMask) == 0 && len(nullFields) == 0 {
		return nil, db.NoRowsAffected, errors.New(ctx, errors.EmptyFieldMask, op, "empty field mask")
	}
	existing, err := r.LookupEntity(ctx, tenantId, entity.PublicId)
	if err != nil {
		return nil, db.NoRowsAffected, errors.Wrap(ctx, err, op)
	}
	if existing == nil {
		return nil, db.NoRowsAffected, errors.New(ctx, errors.RecordNotFound, op, "entity "+entity.PublicId+" not found in tenant "+tenantId)
	}

	var rowsUpdated int
	var updated *Entity
	_, err = r.writer.DoTx(ctx, db.StdRetryCnt, db.ExpBackoff{},
		func(read db.Reader, w db.Writer) error {
			cp := entity.Clone()
			cp.TenantId = tenantId
			var err error
			rowsUpdated, err = w.Update(ctx, cp, dbMask, nullFields, db.WithVersion(&version))
			if err != nil {
				return errors.Wrap(ctx, err, op)
			}
			if rowsUpdated != 1 {
				return errors.New(ctx, errors.MultipleRecords, op, "updated entity and expected 1 row")
			}
			updated = cp
			return nil
		},
	)
	if err != nil {
		return nil, db.NoRowsAffected, errors.Wrap(ctx, err, op)
	}
	return updated, rowsUpdated, nil
}

// MoveEntity reparents the entity (and with it the whole subtree) under a
// new parent.  The subtree's inherited grants are re-evaluated in the same
// transaction: rows whose anchor is no longer an ancestor are removed, and
// cascading grants on the new ancestor chain are materialized onto every
// subtree node.  Fails when either entity is missing or when the new parent
// sits inside the moved subtree.
func (r *Repository) MoveEntity(ctx context.Context, tenantId, entityId, newParentId string) error {
	const op = "sharing.(Repository).MoveEntity"
	if tenantId == "" {
		return errors.New(ctx, errors.InvalidParameter, op, "missing tenant id")
	}
	if entityId == "" {
		return errors.New(ctx, errors.InvalidParameter, op, "missing entity id")
	}
	if newParentId == "" {
		return errors.New(ctx, errors.InvalidParameter, op, "missing new parent id")
	}
	if entityId == newParentId {
		return errors.New(ctx, errors.Cycle, op, "entity "+entityId+" cannot be its own parent")
	}
	e, err := r.LookupEntity(ctx, tenantId, entityId)
	if err != nil {
		return errors.Wrap(ctx, err, op)
	}
	if e == nil {
		return errors.New(ctx, errors.RecordNotFound, op, "entity "+entityId+" not found in tenant "+tenantId)
	}
	newParent, err := r.LookupEntity(ctx, tenantId, newParentId)
	if err != nil {
		return errors.Wrap(ctx, err, op)
	}
	if newParent == nil {
		return errors.New(ctx, errors.RecordNotFound, op, "entity "+newParentId+" not found in tenant "+tenantId)
	}
	_, err = r.writer.DoTx(ctx, db.StdRetryCnt, db.ExpBackoff{},
		func(read db.Reader, w db.Writer) error {
			// the new parent must not be inside the moved subtree; checked
			// within the transaction so a concurrent move can't slip a
			// cycle past it
			link := allocEntityAncestor()
			err := read.LookupWhere(ctx, link, "tenant_id = ? and entity_id = ? and ancestor_id = ?",
				[]any{tenantId, newParentId, entityId})
			switch {
			case err == nil:
				return errors.New(ctx, errors.Cycle, op,
					"moving entity "+entityId+" under "+newParentId+" would create a cycle")
			case !errors.IsNotFoundError(err):
				return errors.Wrap(ctx, err, op)
			}
			if _, err := w.Exec(ctx, moveDeleteClosureQuery,
				[]any{tenantId, tenantId, entityId, tenantId, entityId, entityId}); err != nil {
				return errors.Wrap(ctx, err, op)
			}
			if _, err := w.Exec(ctx, moveInsertClosureQuery,
				[]any{tenantId, entityId, tenantId, newParentId}); err != nil {
				return errors.Wrap(ctx, err, op)
			}
			cp := e.Clone()
			cp.ParentId = newParentId
			rowsUpdated, err := w.Update(ctx, cp, []string{"ParentId"}, nil)
			if err != nil {
				return errors.Wrap(ctx, err, op)
			}
			if rowsUpdated != 1 {
				return errors.New(ctx, errors.MultipleRecords, op, "moved entity and expected 1 row")
			}
			if _, err := w.Exec(ctx, moveDeleteStaleGrantsQuery,
				[]any{tenantId, tenantId, entityId}); err != nil {
				return errors.Wrap(ctx, err, op)
			}
			var inheritable []*Share
			err = read.SearchWhere(ctx, &inheritable, inheritableGrantsWhere,
				[]any{tenantId, tenantId, newParentId}, db.WithLimit(-1))
			if err != nil {
				return errors.Wrap(ctx, err, op)
			}
			if len(inheritable) > 0 {
				subtree, err := subtreeIds(ctx, read, tenantId, entityId)
				if err != nil {
					return errors.Wrap(ctx, err, op)
				}
				inherited, err := buildInheritedShares(ctx, tenantId, subtree, inheritable)
				if err != nil {
					return errors.Wrap(ctx, err, op)
				}
				if err := createSharesIgnoreDups(ctx, w, inherited); err != nil {
					return errors.Wrap(ctx, err, op)
				}
			}
			if _, err := w.Exec(ctx, sharedCountUpdateSubtreeQuery,
				[]any{tenantId, tenantId, entityId}); err != nil {
				return errors.Wrap(ctx, err, op)
			}
			return nil
		},
	)
	if err != nil {
		return errors.Wrap(ctx, err, op)
	}
	return nil
}

// DeleteEntity deletes the entity, splicing its children up to the deleted
// node's parent.  All grants on the node and every row it anchored elsewhere
// are removed in the same transaction; grants the children inherited from
// other, still-living ancestors survive.
func (r *Repository) DeleteEntity(ctx context.Context, tenantId, entityId string) (int, error) {
	const op = "sharing.(Repository).DeleteEntity"
	if tenantId == "" {
		return db.NoRowsAffected, errors.New(ctx, errors.InvalidParameter, op, "missing tenant id")
	}
	if entityId == "" {
		return db.NoRowsAffected, errors.New(ctx, errors.InvalidParameter, op, "missing entity id")
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
			if _, err := w.Exec(ctx, deleteGrantsForEntityQuery,
				[]any{tenantId, entityId, entityId}); err != nil {
				return errors.Wrap(ctx, err, op)
			}
			if _, err := w.Exec(ctx, sharedCountUpdateSubtreeQuery,
				[]any{tenantId, tenantId, entityId}); err != nil {
				return errors.Wrap(ctx, err, op)
			}
			if _, err := w.Exec(ctx, deleteSpliceDepthQuery,
				[]any{tenantId, tenantId, entityId, entityId, tenantId, entityId, entityId}); err != nil {
				return errors.Wrap(ctx, err, op)
			}
			if _, err := w.Exec(ctx, deleteClosureForEntityQuery,
				[]any{tenantId, entityId, entityId}); err != nil {
				return errors.Wrap(ctx, err, op)
			}
			if e.ParentId == "" {
				if _, err := w.Exec(ctx, spliceChildrenToRootQuery,
					[]any{tenantId, entityId}); err != nil {
					return errors.Wrap(ctx, err, op)
				}
			} else {
				if _, err := w.Exec(ctx, spliceChildrenToParentQuery,
					[]any{e.ParentId, tenantId, entityId}); err != nil {
					return errors.Wrap(ctx, err, op)
				}
			}
			toDelete := allocEntity()
			toDelete.PublicId = entityId
			var err error
			rowsDeleted, err = w.Delete(ctx, toDelete, db.WithWhere("tenant_id = ?", tenantId))
			if err != nil {
				return errors.Wrap(ctx, err, op)
			}
			if rowsDeleted != 1 {
				return errors.New(ctx, errors.MultipleRecords, op, "deleted entity and expected 1 row")
			}
			return nil
		},
	)
	if err != nil {
		return db.NoRowsAffected, errors.Wrap(ctx, err, op)
	}
	return rowsDeleted, nil
}

// ListDescendants returns every entity below the given one, nearest first.
// Supports the WithLimit option.
func (r *Repository) ListDescendants(ctx context.Context, tenantId, entityId string, opt ...Option) ([]*Entity, error) {
	const op = "sharing.(Repository).ListDescendants"
	if tenantId == "" {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing tenant id")
	}
	if entityId == "" {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing entity id")
	}
	e, err := r.LookupEntity(ctx, tenantId, entityId)
	if err != nil {
		return nil, errors.Wrap(ctx, err, op)
	}
	if e == nil {
		return nil, errors.New(ctx, errors.RecordNotFound, op, "entity "+entityId+" not found in tenant "+tenantId)
	}
	opts := getOpts(opt...)
	var descendants []*Entity
	err = r.reader.SearchWhere(ctx, &descendants,
		"tenant_id = ? and public_id != ? and public_id in (select entity_id from sharing_entity_ancestor where tenant_id = ? and ancestor_id = ?)",
		[]any{tenantId, entityId, tenantId, entityId},
		db.WithLimit(r.limitFor(opts.withLimit)), db.WithOrder("create_time asc, public_id asc"))
	if err != nil {
		return nil, errors.Wrap(ctx, err, op)
	}
	return descendants, nil
}

// ListAncestors returns the entity's ancestor chain ordered from immediate
// parent to root.
func (r *Repository) ListAncestors(ctx context.Context, tenantId, entityId string) ([]*Entity, error) {
	const op = "sharing.(Repository).ListAncestors"
	if tenantId == "" {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing tenant id")
	}
	if entityId == "" {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing entity id")
	}
	e, err := r.LookupEntity(ctx, tenantId, entityId)
	if err != nil {
		return nil, errors.Wrap(ctx, err, op)
	}
	if e == nil {
		return nil, errors.New(ctx, errors.RecordNotFound, op, "entity "+entityId+" not found in tenant "+tenantId)
	}
	rows, err := r.reader.Query(ctx, ancestorsQuery, []any{tenantId, entityId})
	if err != nil {
		return nil, errors.Wrap(ctx, err, op)
	}
	defer rows.Close()
	var ancestors []*Entity
	for rows.Next() {
		ancestor := allocEntity()
		if err := r.reader.ScanRows(ctx, rows, ancestor); err != nil {
			return nil, errors.Wrap(ctx, err, op)
		}
		ancestors = append(ancestors, ancestor)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(ctx, err, op)
	}
	return ancestors, nil
}

// subtreeIds returns the ids of every entity at or below the given one.
func subtreeIds(ctx context.Context, reader db.Reader, tenantId, entityId string) ([]string, error) {
	const op = "sharing.subtreeIds"
	rows, err := reader.Query(ctx, subtreeIdsQuery, []any{tenantId, entityId})
	if err != nil {
		return nil, errors.Wrap(ctx, err, op)
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, errors.Wrap(ctx, err, op)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(ctx, err, op)
	}
	return ids, nil
}

// buildInheritedShares materializes one INDIRECT_CASCADING row per (target
// entity, unique inheritable source) pair, preserving each source's anchor.
// Sources may repeat the same (anchor, principal, permission) tuple when
// several ancestors carry rows for it; duplicates collapse here.
func buildInheritedShares(ctx context.Context, tenantId string, targets []string, sources []*Share) ([]*Share, error) {
	const op = "sharing.buildInheritedShares"
	type anchorKey struct {
		inheritedParentId string
		associatingId     string
		permissionTypeId  string
	}
	unique := make(map[anchorKey]*Share, len(sources))
	for _, s := range sources {
		k := anchorKey{s.InheritedParentId, s.AssociatingId, s.PermissionTypeId}
		if _, ok := unique[k]; !ok {
			unique[k] = s
		}
	}
	inherited := make([]*Share, 0, len(unique)*len(targets))
	for _, target := range targets {
		for _, src := range unique {
			id, err := newShareId(ctx)
			if err != nil {
				return nil, errors.Wrap(ctx, err, op)
			}
			inherited = append(inherited, &Share{
				PublicId:          id,
				TenantId:          tenantId,
				EntityId:          target,
				PermissionTypeId:  src.PermissionTypeId,
				AssociatingId:     src.AssociatingId,
				AssociatingType:   src.AssociatingType,
				SharingType:       ShareTypeIndirectCascading,
				InheritedParentId: src.InheritedParentId,
				SharedBy:          src.SharedBy,
			})
		}
	}
	return inherited, nil
}

// createSharesIgnoreDups batch inserts grant rows, converging on the natural
// key: rows that already exist are left untouched.
func createSharesIgnoreDups(ctx context.Context, w db.Writer, shares []*Share) error {
	const op = "sharing.createSharesIgnoreDups"
	if len(shares) == 0 {
		return nil
	}
	onConflict := &db.OnConflict{
		Target: db.Columns{"tenant_id", "entity_id", "inherited_parent_id", "associating_id", "permission_type_id"},
		Action: db.DoNothing(true),
	}
	if err := w.CreateItems(ctx, shares, db.WithOnConflict(onConflict)); err != nil {
		return errors.Wrap(ctx, err, op)
	}
	return nil
}
