// Copyright (c) The Apache Software Foundation
// SPDX-License-Identifier: Apache-2.0

package sharing

import (
	"context"
	"testing"

	"github.com/apache/airavata-custos-sub005/internal/db"
	"github.com/apache/airavata-custos-sub005/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_UserHasAccess(t *testing.T) {
	ctx := context.Background()
	conn := db.TestSetup(t)
	repo := TestRepo(t, conn)
	entityType := TestEntityType(t, repo, "t1", "project")
	read := TestPermissionType(t, repo, "t1", "read")
	write := TestPermissionType(t, repo, "t1", "write")
	proj := TestEntity(t, repo, "t1", entityType.PublicId, "u_owner", "proj")

	outer := TestGroup(t, repo, "t1", "outer")
	inner := TestGroup(t, repo, "t1", "inner")
	_, err := repo.AddGroupMembers(ctx, "t1", outer.PublicId, []string{inner.PublicId}, PrincipalTypeGroup)
	require.NoError(t, err)
	_, err = repo.AddGroupMembers(ctx, "t1", inner.PublicId, []string{"u_bob"}, PrincipalTypeUser)
	require.NoError(t, err)

	TestShare(t, repo, "t1", proj.PublicId, read.PublicId, []string{outer.PublicId}, PrincipalTypeGroup)

	t.Run("through-nested-group", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		hasAccess, err := repo.UserHasAccess(ctx, "t1", proj.PublicId, read.PublicId, "u_bob")
		require.NoError(err)
		assert.True(hasAccess)
	})

	t.Run("group-principal-itself", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		hasAccess, err := repo.UserHasAccess(ctx, "t1", proj.PublicId, read.PublicId, inner.PublicId)
		require.NoError(err)
		assert.True(hasAccess)
	})

	t.Run("wrong-permission", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		hasAccess, err := repo.UserHasAccess(ctx, "t1", proj.PublicId, write.PublicId, "u_bob")
		require.NoError(err)
		assert.False(hasAccess)
	})

	t.Run("unrelated-principal", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		hasAccess, err := repo.UserHasAccess(ctx, "t1", proj.PublicId, read.PublicId, "u_mallory")
		require.NoError(err)
		assert.False(hasAccess)
	})

	t.Run("missing-entity", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		_, err := repo.UserHasAccess(ctx, "t1", "ent_missing", read.PublicId, "u_bob")
		require.Error(err)
		assert.True(errors.Match(errors.T(errors.RecordNotFound), err))
	})
}

func TestRepository_ListSharedPrincipals(t *testing.T) {
	ctx := context.Background()
	conn := db.TestSetup(t)
	repo := TestRepo(t, conn)
	entityType := TestEntityType(t, repo, "t1", "project")
	read := TestPermissionType(t, repo, "t1", "read")
	proj := TestEntity(t, repo, "t1", entityType.PublicId, "u_owner", "proj")
	doc := TestEntity(t, repo, "t1", entityType.PublicId, "u_owner", "doc", WithParentId(proj.PublicId))
	team := TestGroup(t, repo, "t1", "team")

	TestShare(t, repo, "t1", proj.PublicId, read.PublicId, []string{"u_alice"}, PrincipalTypeUser, WithCascade(true))
	TestShare(t, repo, "t1", doc.PublicId, read.PublicId, []string{team.PublicId}, PrincipalTypeGroup)

	t.Run("all-grants", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		principals, err := repo.ListSharedPrincipals(ctx, "t1", doc.PublicId, read.PublicId)
		require.NoError(err)
		require.Len(principals, 2)
		ids := []string{principals[0].AssociatingId, principals[1].AssociatingId}
		assert.ElementsMatch([]string{"u_alice", team.PublicId}, ids)
	})

	t.Run("direct-only", func(t *testing.T) {
		// alice's row on doc is inherited, only the team's is direct
		assert, require := assert.New(t), require.New(t)
		principals, err := repo.ListSharedPrincipals(ctx, "t1", doc.PublicId, read.PublicId, WithDirectOnly(true))
		require.NoError(err)
		require.Len(principals, 1)
		assert.Equal(team.PublicId, principals[0].AssociatingId)
		assert.Equal(PrincipalTypeGroup, principals[0].AssociatingType)
	})

	t.Run("missing-entity", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		_, err := repo.ListSharedPrincipals(ctx, "t1", "ent_missing", read.PublicId)
		require.Error(err)
		assert.True(errors.Match(errors.T(errors.RecordNotFound), err))
	})
}

func TestRepository_ListEntitiesSharedWithPrincipal(t *testing.T) {
	ctx := context.Background()
	assert, require := assert.New(t), require.New(t)
	conn := db.TestSetup(t)
	repo := TestRepo(t, conn)
	entityType := TestEntityType(t, repo, "t1", "project")
	read := TestPermissionType(t, repo, "t1", "read")
	proj := TestEntity(t, repo, "t1", entityType.PublicId, "u_owner", "proj")
	doc := TestEntity(t, repo, "t1", entityType.PublicId, "u_owner", "doc", WithParentId(proj.PublicId))
	hidden := TestEntity(t, repo, "t1", entityType.PublicId, "u_owner", "hidden")
	team := TestGroup(t, repo, "t1", "team")
	_, err := repo.AddGroupMembers(ctx, "t1", team.PublicId, []string{"u_bob"}, PrincipalTypeUser)
	require.NoError(err)

	TestShare(t, repo, "t1", proj.PublicId, read.PublicId, []string{team.PublicId}, PrincipalTypeGroup, WithCascade(true))

	entities, err := repo.ListEntitiesSharedWithPrincipal(ctx, "t1", "u_bob")
	require.NoError(err)
	gotIds := entityIds(entities)
	assert.ElementsMatch([]string{proj.PublicId, doc.PublicId}, gotIds)
	assert.NotContains(gotIds, hidden.PublicId)
}
