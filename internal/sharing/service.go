// Copyright (c) The Apache Software Foundation
// SPDX-License-Identifier: Apache-2.0

package sharing

import (
	"context"

	"github.com/apache/airavata-custos-sub005/internal/errors"
	"github.com/hashicorp/go-hclog"
)

// AuthContext carries the caller's verified identity for one request.  It's
// constructed by the transport layer from resolved token claims and passed
// explicitly through every call; there is no process-wide security state.
type AuthContext struct {
	// TenantId scopes every read and write of the request.  No operation
	// crosses tenant boundaries.
	TenantId string

	// PrincipalId is the caller's resolved principal id.
	PrincipalId string
}

func (a AuthContext) validate(ctx context.Context, op errors.Op) error {
	if a.TenantId == "" {
		return errors.New(ctx, errors.InvalidParameter, op, "missing tenant id in auth context")
	}
	if a.PrincipalId == "" {
		return errors.New(ctx, errors.InvalidParameter, op, "missing principal id in auth context")
	}
	return nil
}

// Service is the engine's request-facing surface: the repository operations
// with tenant scoping taken from a per-request AuthContext, plus request
// outcome logging.  Transports (REST, gRPC) sit in front of it.
type Service struct {
	repo   *Repository
	logger hclog.Logger
}

// NewService creates a new sharing Service.  A nil logger disables logging.
func NewService(ctx context.Context, repo *Repository, logger hclog.Logger) (*Service, error) {
	const op = "sharing.NewService"
	if repo == nil {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "nil repository")
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Service{
		repo:   repo,
		logger: logger,
	}, nil
}

// CreateEntityType creates an entity type in the caller's tenant.
func (s *Service) CreateEntityType(ctx context.Context, authCtx AuthContext, name string, opt ...Option) (*EntityType, error) {
	const op = "sharing.(Service).CreateEntityType"
	if err := authCtx.validate(ctx, op); err != nil {
		return nil, err
	}
	t, err := s.repo.CreateEntityType(ctx, authCtx.TenantId, name, opt...)
	if err != nil {
		s.logger.Debug("create entity type failed", "tenant_id", authCtx.TenantId, "name", name, "error", err)
		return nil, err
	}
	s.logger.Debug("created entity type", "tenant_id", authCtx.TenantId, "type_id", t.PublicId)
	return t, nil
}

// CreatePermissionType creates a permission type in the caller's tenant.
func (s *Service) CreatePermissionType(ctx context.Context, authCtx AuthContext, name string, opt ...Option) (*PermissionType, error) {
	const op = "sharing.(Service).CreatePermissionType"
	if err := authCtx.validate(ctx, op); err != nil {
		return nil, err
	}
	t, err := s.repo.CreatePermissionType(ctx, authCtx.TenantId, name, opt...)
	if err != nil {
		s.logger.Debug("create permission type failed", "tenant_id", authCtx.TenantId, "name", name, "error", err)
		return nil, err
	}
	s.logger.Debug("created permission type", "tenant_id", authCtx.TenantId, "permission_type_id", t.PublicId)
	return t, nil
}

// CreateEntity creates an entity owned by the caller.
func (s *Service) CreateEntity(ctx context.Context, authCtx AuthContext, typeId, name string, opt ...Option) (*Entity, error) {
	const op = "sharing.(Service).CreateEntity"
	if err := authCtx.validate(ctx, op); err != nil {
		return nil, err
	}
	e, err := s.repo.CreateEntity(ctx, authCtx.TenantId, typeId, authCtx.PrincipalId, name, opt...)
	if err != nil {
		s.logger.Debug("create entity failed", "tenant_id", authCtx.TenantId, "name", name, "error", err)
		return nil, err
	}
	s.logger.Debug("created entity", "tenant_id", authCtx.TenantId, "entity_id", e.PublicId)
	return e, nil
}

// MoveEntity reparents an entity under a new parent.
func (s *Service) MoveEntity(ctx context.Context, authCtx AuthContext, entityId, newParentId string) error {
	const op = "sharing.(Service).MoveEntity"
	if err := authCtx.validate(ctx, op); err != nil {
		return err
	}
	if err := s.repo.MoveEntity(ctx, authCtx.TenantId, entityId, newParentId); err != nil {
		s.logger.Debug("move entity failed", "tenant_id", authCtx.TenantId, "entity_id", entityId, "error", err)
		return err
	}
	s.logger.Debug("moved entity", "tenant_id", authCtx.TenantId, "entity_id", entityId, "new_parent_id", newParentId)
	return nil
}

// DeleteEntity deletes an entity.
func (s *Service) DeleteEntity(ctx context.Context, authCtx AuthContext, entityId string) error {
	const op = "sharing.(Service).DeleteEntity"
	if err := authCtx.validate(ctx, op); err != nil {
		return err
	}
	if _, err := s.repo.DeleteEntity(ctx, authCtx.TenantId, entityId); err != nil {
		s.logger.Debug("delete entity failed", "tenant_id", authCtx.TenantId, "entity_id", entityId, "error", err)
		return err
	}
	s.logger.Debug("deleted entity", "tenant_id", authCtx.TenantId, "entity_id", entityId)
	return nil
}

// ShareEntity grants a permission on an entity to users or groups, recording
// the caller as the sharer.
func (s *Service) ShareEntity(ctx context.Context, authCtx AuthContext, entityId, permissionTypeId string, associatingIds []string, associatingType PrincipalType, opt ...Option) error {
	const op = "sharing.(Service).ShareEntity"
	if err := authCtx.validate(ctx, op); err != nil {
		return err
	}
	opt = append(opt, WithSharedBy(authCtx.PrincipalId))
	if _, err := s.repo.ShareEntity(ctx, authCtx.TenantId, entityId, permissionTypeId, associatingIds, associatingType, opt...); err != nil {
		s.logger.Debug("share entity failed", "tenant_id", authCtx.TenantId, "entity_id", entityId, "error", err)
		return err
	}
	s.logger.Debug("shared entity", "tenant_id", authCtx.TenantId, "entity_id", entityId,
		"permission_type_id", permissionTypeId, "principal_count", len(associatingIds))
	return nil
}

// RevokePermission removes grants on an entity.  Revoking a grant that
// doesn't exist is not an error.
func (s *Service) RevokePermission(ctx context.Context, authCtx AuthContext, entityId, permissionTypeId string, associatingIds []string) error {
	const op = "sharing.(Service).RevokePermission"
	if err := authCtx.validate(ctx, op); err != nil {
		return err
	}
	rowsDeleted, err := s.repo.RevokePermission(ctx, authCtx.TenantId, entityId, permissionTypeId, associatingIds)
	if err != nil {
		s.logger.Debug("revoke permission failed", "tenant_id", authCtx.TenantId, "entity_id", entityId, "error", err)
		return err
	}
	s.logger.Debug("revoked permission", "tenant_id", authCtx.TenantId, "entity_id", entityId,
		"permission_type_id", permissionTypeId, "rows_deleted", rowsDeleted)
	return nil
}

// UserHasAccess reports whether a principal holds a permission on an entity.
func (s *Service) UserHasAccess(ctx context.Context, authCtx AuthContext, entityId, permissionTypeId, principalId string) (bool, error) {
	const op = "sharing.(Service).UserHasAccess"
	if err := authCtx.validate(ctx, op); err != nil {
		return false, err
	}
	return s.repo.UserHasAccess(ctx, authCtx.TenantId, entityId, permissionTypeId, principalId)
}

// SearchEntities searches the caller's accessible entities.
func (s *Service) SearchEntities(ctx context.Context, authCtx AuthContext, permissionTypeId string, criteria []string, opt ...Option) ([]*Entity, error) {
	const op = "sharing.(Service).SearchEntities"
	if err := authCtx.validate(ctx, op); err != nil {
		return nil, err
	}
	return s.repo.SearchEntities(ctx, authCtx.TenantId, authCtx.PrincipalId, permissionTypeId, criteria, opt...)
}

// ListSharedPrincipals lists who holds a permission on an entity.
func (s *Service) ListSharedPrincipals(ctx context.Context, authCtx AuthContext, entityId, permissionTypeId string, opt ...Option) ([]*SharedPrincipal, error) {
	const op = "sharing.(Service).ListSharedPrincipals"
	if err := authCtx.validate(ctx, op); err != nil {
		return nil, err
	}
	return s.repo.ListSharedPrincipals(ctx, authCtx.TenantId, entityId, permissionTypeId, opt...)
}

// ListSharedWithMe lists the entities any grant makes reachable for the
// caller.
func (s *Service) ListSharedWithMe(ctx context.Context, authCtx AuthContext, opt ...Option) ([]*Entity, error) {
	const op = "sharing.(Service).ListSharedWithMe"
	if err := authCtx.validate(ctx, op); err != nil {
		return nil, err
	}
	return s.repo.ListEntitiesSharedWithPrincipal(ctx, authCtx.TenantId, authCtx.PrincipalId, opt...)
}

// CreateGroup creates a group in the caller's tenant, owned by the caller.
func (s *Service) CreateGroup(ctx context.Context, authCtx AuthContext, name string, opt ...Option) (*Group, error) {
	const op = "sharing.(Service).CreateGroup"
	if err := authCtx.validate(ctx, op); err != nil {
		return nil, err
	}
	opt = append(opt, WithOwnerId(authCtx.PrincipalId))
	return s.repo.CreateGroup(ctx, authCtx.TenantId, name, opt...)
}

// AddGroupMembers adds users or groups to a group.
func (s *Service) AddGroupMembers(ctx context.Context, authCtx AuthContext, groupId string, memberIds []string, memberType PrincipalType) ([]*GroupMember, error) {
	const op = "sharing.(Service).AddGroupMembers"
	if err := authCtx.validate(ctx, op); err != nil {
		return nil, err
	}
	return s.repo.AddGroupMembers(ctx, authCtx.TenantId, groupId, memberIds, memberType)
}

// DeleteGroupMembers removes members from a group.
func (s *Service) DeleteGroupMembers(ctx context.Context, authCtx AuthContext, groupId string, memberIds []string) (int, error) {
	const op = "sharing.(Service).DeleteGroupMembers"
	if err := authCtx.validate(ctx, op); err != nil {
		return 0, err
	}
	return s.repo.DeleteGroupMembers(ctx, authCtx.TenantId, groupId, memberIds)
}
