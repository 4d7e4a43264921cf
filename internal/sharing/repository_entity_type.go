// Copyright (c) The Apache Software Foundation
// SPDX-License-Identifier: Apache-2.0

package sharing

import (
	"context"

	"github.com/apache/airavata-custos-sub005/internal/db"
	"github.com/apache/airavata-custos-sub005/internal/errors"
)

// CreateEntityType creates a new entity type for the tenant.  The name must
// be unique within the tenant.  Supports the WithDescription option.
func (r *Repository) CreateEntityType(ctx context.Context, tenantId, name string, opt ...Option) (*EntityType, error) {
	const op = "sharing.(Repository).CreateEntityType"
	if tenantId == "" {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing tenant id")
	}
	if name == "" {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing name")
	}
	t := NewEntityType(tenantId, name, opt...)
	id, err := newEntityTypeId(ctx)
	if err != nil {
		return nil, errors.Wrap(ctx, err, op)
	}
	t.PublicId = id
	t.Version = 1
	if err := r.writer.Create(ctx, t); err != nil {
		if errors.IsUniqueError(err) {
			return nil, errors.New(ctx, errors.NotUnique, op,
				"entity type name "+name+" already exists in tenant "+tenantId, errors.WithWrap(err))
		}
		return nil, errors.Wrap(ctx, err, op)
	}
	return t, nil
}

// LookupEntityType returns the entity type for the id, or nil if it doesn't
// exist.
func (r *Repository) LookupEntityType(ctx context.Context, tenantId, typeId string) (*EntityType, error) {
	const op = "sharing.(Repository).LookupEntityType"
	if tenantId == "" {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing tenant id")
	}
	if typeId == "" {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing type id")
	}
	t := allocEntityType()
	if err := r.reader.LookupWhere(ctx, t, "tenant_id = ? and public_id = ?", []any{tenantId, typeId}); err != nil {
		if errors.IsNotFoundError(err) {
			return nil, nil
		}
		return nil, errors.Wrap(ctx, err, op)
	}
	return t, nil
}

// ListEntityTypes lists the tenant's entity types.  Supports the WithLimit
// option.
func (r *Repository) ListEntityTypes(ctx context.Context, tenantId string, opt ...Option) ([]*EntityType, error) {
	const op = "sharing.(Repository).ListEntityTypes"
	if tenantId == "" {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing tenant id")
	}
	opts := getOpts(opt...)
	var types []*EntityType
	err := r.reader.SearchWhere(ctx, &types, "tenant_id = ?", []any{tenantId},
		db.WithLimit(r.limitFor(opts.withLimit)), db.WithOrder("name asc"))
	if err != nil {
		return nil, errors.Wrap(ctx, err, op)
	}
	return types, nil
}

// DeleteEntityType deletes the entity type.  Types are immutable once
// entities reference them, so a referenced type can't be deleted.
func (r *Repository) DeleteEntityType(ctx context.Context, tenantId, typeId string) (int, error) {
	const op = "sharing.(Repository).DeleteEntityType"
	if tenantId == "" {
		return db.NoRowsAffected, errors.New(ctx, errors.InvalidParameter, op, "missing tenant id")
	}
	if typeId == "" {
		return db.NoRowsAffected, errors.New(ctx, errors.InvalidParameter, op, "missing type id")
	}
	referencing := allocEntity()
	err := r.reader.LookupWhere(ctx, referencing, "tenant_id = ? and type_id = ?", []any{tenantId, typeId})
	switch {
	case err == nil:
		return db.NoRowsAffected, errors.New(ctx, errors.InvalidParameter, op,
			"entity type "+typeId+" is referenced by entities")
	case !errors.IsNotFoundError(err):
		return db.NoRowsAffected, errors.Wrap(ctx, err, op)
	}
	t := allocEntityType()
	t.PublicId = typeId
	rowsDeleted, err := r.writer.Delete(ctx, t, db.WithWhere("tenant_id = ?", tenantId))
	if err != nil {
		return db.NoRowsAffected, errors.Wrap(ctx, err, op)
	}
	return rowsDeleted, nil
}

// CreatePermissionType creates a new permission type for the tenant.  The
// name must be unique within the tenant.  Supports the WithDescription
// option.
func (r *Repository) CreatePermissionType(ctx context.Context, tenantId, name string, opt ...Option) (*PermissionType, error) {
	const op = "sharing.(Repository).CreatePermissionType"
	if tenantId == "" {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing tenant id")
	}
	if name == "" {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing name")
	}
	t := NewPermissionType(tenantId, name, opt...)
	id, err := newPermissionTypeId(ctx)
	if err != nil {
		return nil, errors.Wrap(ctx, err, op)
	}
	t.PublicId = id
	t.Version = 1
	if err := r.writer.Create(ctx, t); err != nil {
		if errors.IsUniqueError(err) {
			return nil, errors.New(ctx, errors.NotUnique, op,
				"permission type name "+name+" already exists in tenant "+tenantId, errors.WithWrap(err))
		}
		return nil, errors.Wrap(ctx, err, op)
	}
	return t, nil
}

// LookupPermissionType returns the permission type for the id, or nil if it
// doesn't exist.
func (r *Repository) LookupPermissionType(ctx context.Context, tenantId, permissionTypeId string) (*PermissionType, error) {
	const op = "sharing.(Repository).LookupPermissionType"
	if tenantId == "" {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing tenant id")
	}
	if permissionTypeId == "" {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing permission type id")
	}
	t := allocPermissionType()
	if err := r.reader.LookupWhere(ctx, t, "tenant_id = ? and public_id = ?", []any{tenantId, permissionTypeId}); err != nil {
		if errors.IsNotFoundError(err) {
			return nil, nil
		}
		return nil, errors.Wrap(ctx, err, op)
	}
	return t, nil
}

// ListPermissionTypes lists the tenant's permission types.  Supports the
// WithLimit option.
func (r *Repository) ListPermissionTypes(ctx context.Context, tenantId string, opt ...Option) ([]*PermissionType, error) {
	const op = "sharing.(Repository).ListPermissionTypes"
	if tenantId == "" {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing tenant id")
	}
	opts := getOpts(opt...)
	var types []*PermissionType
	err := r.reader.SearchWhere(ctx, &types, "tenant_id = ?", []any{tenantId},
		db.WithLimit(r.limitFor(opts.withLimit)), db.WithOrder("name asc"))
	if err != nil {
		return nil, errors.Wrap(ctx, err, op)
	}
	return types, nil
}

// DeletePermissionType deletes the permission type unless grants reference
// it.
func (r *Repository) DeletePermissionType(ctx context.Context, tenantId, permissionTypeId string) (int, error) {
	const op = "sharing.(Repository).DeletePermissionType"
	if tenantId == "" {
		return db.NoRowsAffected, errors.New(ctx, errors.InvalidParameter, op, "missing tenant id")
	}
	if permissionTypeId == "" {
		return db.NoRowsAffected, errors.New(ctx, errors.InvalidParameter, op, "missing permission type id")
	}
	referencing := allocShare()
	err := r.reader.LookupWhere(ctx, referencing, "tenant_id = ? and permission_type_id = ?", []any{tenantId, permissionTypeId})
	switch {
	case err == nil:
		return db.NoRowsAffected, errors.New(ctx, errors.InvalidParameter, op,
			"permission type "+permissionTypeId+" is referenced by grants")
	case !errors.IsNotFoundError(err):
		return db.NoRowsAffected, errors.Wrap(ctx, err, op)
	}
	t := allocPermissionType()
	t.PublicId = permissionTypeId
	rowsDeleted, err := r.writer.Delete(ctx, t, db.WithWhere("tenant_id = ?", tenantId))
	if err != nil {
		return db.NoRowsAffected, errors.Wrap(ctx, err, op)
	}
	return rowsDeleted, nil
}
