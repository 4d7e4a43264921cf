// Copyright (c) The Apache Software Foundation
// SPDX-License-Identifier: Apache-2.0

package sharing

import (
	"context"
	"testing"

	"github.com/apache/airavata-custos-sub005/internal/db"
	"github.com/stretchr/testify/require"
)

// TestRepo creates a repo that can be used for testing.
func TestRepo(t *testing.T, conn *db.DB, opt ...Option) *Repository {
	t.Helper()
	require := require.New(t)
	rw := db.New(conn)
	repo, err := NewRepository(context.Background(), rw, rw, opt...)
	require.NoError(err)
	return repo
}

// TestEntityType creates an entity type for testing.
func TestEntityType(t *testing.T, repo *Repository, tenantId, name string) *EntityType {
	t.Helper()
	require := require.New(t)
	entityType, err := repo.CreateEntityType(context.Background(), tenantId, name)
	require.NoError(err)
	require.NotNil(entityType)
	return entityType
}

// TestPermissionType creates a permission type for testing.
func TestPermissionType(t *testing.T, repo *Repository, tenantId, name string) *PermissionType {
	t.Helper()
	require := require.New(t)
	permissionType, err := repo.CreatePermissionType(context.Background(), tenantId, name)
	require.NoError(err)
	require.NotNil(permissionType)
	return permissionType
}

// TestEntity creates an entity for testing.
func TestEntity(t *testing.T, repo *Repository, tenantId, typeId, ownerId, name string, opt ...Option) *Entity {
	t.Helper()
	require := require.New(t)
	entity, err := repo.CreateEntity(context.Background(), tenantId, typeId, ownerId, name, opt...)
	require.NoError(err)
	require.NotNil(entity)
	return entity
}

// TestGroup creates a group for testing.
func TestGroup(t *testing.T, repo *Repository, tenantId, name string, opt ...Option) *Group {
	t.Helper()
	require := require.New(t)
	group, err := repo.CreateGroup(context.Background(), tenantId, name, opt...)
	require.NoError(err)
	require.NotNil(group)
	return group
}

// TestShare grants a permission for testing.
func TestShare(t *testing.T, repo *Repository, tenantId, entityId, permissionTypeId string, associatingIds []string, associatingType PrincipalType, opt ...Option) []*Share {
	t.Helper()
	require := require.New(t)
	shares, err := repo.ShareEntity(context.Background(), tenantId, entityId, permissionTypeId, associatingIds, associatingType, opt...)
	require.NoError(err)
	require.Len(shares, len(associatingIds))
	return shares
}
