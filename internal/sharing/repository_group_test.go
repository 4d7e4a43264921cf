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

func TestRepository_CreateGroup(t *testing.T) {
	ctx := context.Background()
	conn := db.TestSetup(t)
	repo := TestRepo(t, conn)

	t.Run("valid", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		g, err := repo.CreateGroup(ctx, "t1", "team1", WithDescription("the team"), WithOwnerId("u_alice"))
		require.NoError(err)
		assert.NotEmpty(g.PublicId)
		assert.Equal("team1", g.Name)
		assert.Equal("the team", g.Description)
		assert.Equal("u_alice", g.OwnerId)
	})

	t.Run("duplicate-name", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		_, err := repo.CreateGroup(ctx, "t1", "dup")
		require.NoError(err)
		_, err = repo.CreateGroup(ctx, "t1", "dup")
		require.Error(err)
		assert.True(errors.Match(errors.T(errors.NotUnique), err))
	})

	t.Run("same-name-different-tenant", func(t *testing.T) {
		require := require.New(t)
		_, err := repo.CreateGroup(ctx, "t1", "shared-name")
		require.NoError(err)
		_, err = repo.CreateGroup(ctx, "t2", "shared-name")
		require.NoError(err)
	})
}

func TestRepository_AddGroupMembers(t *testing.T) {
	ctx := context.Background()

	t.Run("users-and-groups", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		conn := db.TestSetup(t)
		repo := TestRepo(t, conn)
		team := TestGroup(t, repo, "t1", "team")
		sub := TestGroup(t, repo, "t1", "sub")

		members, err := repo.AddGroupMembers(ctx, "t1", team.PublicId, []string{"u_bob", "u_carol"}, PrincipalTypeUser)
		require.NoError(err)
		assert.Len(members, 2)

		_, err = repo.AddGroupMembers(ctx, "t1", team.PublicId, []string{sub.PublicId}, PrincipalTypeGroup)
		require.NoError(err)

		got, err := repo.ListGroupMembers(ctx, "t1", team.PublicId)
		require.NoError(err)
		assert.Len(got, 3)
	})

	t.Run("add-existing-member-is-noop", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		conn := db.TestSetup(t)
		repo := TestRepo(t, conn)
		team := TestGroup(t, repo, "t1", "team")
		_, err := repo.AddGroupMembers(ctx, "t1", team.PublicId, []string{"u_bob"}, PrincipalTypeUser)
		require.NoError(err)
		_, err = repo.AddGroupMembers(ctx, "t1", team.PublicId, []string{"u_bob"}, PrincipalTypeUser)
		require.NoError(err)
		got, err := repo.ListGroupMembers(ctx, "t1", team.PublicId)
		require.NoError(err)
		assert.Len(got, 1)
	})

	t.Run("member-group-must-exist", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		conn := db.TestSetup(t)
		repo := TestRepo(t, conn)
		team := TestGroup(t, repo, "t1", "team")
		_, err := repo.AddGroupMembers(ctx, "t1", team.PublicId, []string{"sg_missing"}, PrincipalTypeGroup)
		require.Error(err)
		assert.True(errors.Match(errors.T(errors.RecordNotFound), err))
	})

	t.Run("direct-cycle", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		conn := db.TestSetup(t)
		repo := TestRepo(t, conn)
		g := TestGroup(t, repo, "t1", "g")
		_, err := repo.AddGroupMembers(ctx, "t1", g.PublicId, []string{g.PublicId}, PrincipalTypeGroup)
		require.Error(err)
		assert.True(errors.Match(errors.T(errors.Cycle), err))
	})

	t.Run("transitive-cycle", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		conn := db.TestSetup(t)
		repo := TestRepo(t, conn)
		g1 := TestGroup(t, repo, "t1", "g1")
		g2 := TestGroup(t, repo, "t1", "g2")
		g3 := TestGroup(t, repo, "t1", "g3")
		_, err := repo.AddGroupMembers(ctx, "t1", g1.PublicId, []string{g2.PublicId}, PrincipalTypeGroup)
		require.NoError(err)
		_, err = repo.AddGroupMembers(ctx, "t1", g2.PublicId, []string{g3.PublicId}, PrincipalTypeGroup)
		require.NoError(err)

		// g3 transitively belongs to g1, so g1 can't become g3's member
		_, err = repo.AddGroupMembers(ctx, "t1", g3.PublicId, []string{g1.PublicId}, PrincipalTypeGroup)
		require.Error(err)
		assert.True(errors.Match(errors.T(errors.Cycle), err))

		// the store is unchanged
		members, err := repo.ListGroupMembers(ctx, "t1", g3.PublicId)
		require.NoError(err)
		assert.Empty(members)
	})
}

func TestRepository_DeleteGroupMembers(t *testing.T) {
	ctx := context.Background()
	assert, require := assert.New(t), require.New(t)
	conn := db.TestSetup(t)
	repo := TestRepo(t, conn)
	team := TestGroup(t, repo, "t1", "team")
	_, err := repo.AddGroupMembers(ctx, "t1", team.PublicId, []string{"u_bob", "u_carol"}, PrincipalTypeUser)
	require.NoError(err)

	rowsDeleted, err := repo.DeleteGroupMembers(ctx, "t1", team.PublicId, []string{"u_bob"})
	require.NoError(err)
	assert.Equal(1, rowsDeleted)

	// removing an absent member is not an error
	rowsDeleted, err = repo.DeleteGroupMembers(ctx, "t1", team.PublicId, []string{"u_bob"})
	require.NoError(err)
	assert.Zero(rowsDeleted)

	got, err := repo.ListGroupMembers(ctx, "t1", team.PublicId)
	require.NoError(err)
	require.Len(got, 1)
	assert.Equal("u_carol", got[0].MemberId)
}

func TestRepository_DeleteGroup(t *testing.T) {
	ctx := context.Background()
	assert, require := assert.New(t), require.New(t)
	conn := db.TestSetup(t)
	repo := TestRepo(t, conn)
	entityType := TestEntityType(t, repo, "t1", "project")
	read := TestPermissionType(t, repo, "t1", "read")
	e := TestEntity(t, repo, "t1", entityType.PublicId, "u_alice", "proj")
	team := TestGroup(t, repo, "t1", "team")
	parent := TestGroup(t, repo, "t1", "parent")
	_, err := repo.AddGroupMembers(ctx, "t1", parent.PublicId, []string{team.PublicId}, PrincipalTypeGroup)
	require.NoError(err)
	_, err = repo.AddGroupMembers(ctx, "t1", team.PublicId, []string{"u_bob"}, PrincipalTypeUser)
	require.NoError(err)
	TestShare(t, repo, "t1", e.PublicId, read.PublicId, []string{team.PublicId}, PrincipalTypeGroup)

	rowsDeleted, err := repo.DeleteGroup(ctx, "t1", team.PublicId)
	require.NoError(err)
	assert.Equal(1, rowsDeleted)

	// the group's grant and membership edges are gone
	hasAccess, err := repo.UserHasAccess(ctx, "t1", e.PublicId, read.PublicId, "u_bob")
	require.NoError(err)
	assert.False(hasAccess)
	found, err := repo.LookupEntity(ctx, "t1", e.PublicId)
	require.NoError(err)
	assert.Zero(found.SharedCount)
	members, err := repo.ListGroupMembers(ctx, "t1", parent.PublicId)
	require.NoError(err)
	assert.Empty(members)

	// deleting again reports not found
	_, err = repo.DeleteGroup(ctx, "t1", team.PublicId)
	require.Error(err)
	assert.True(errors.Match(errors.T(errors.RecordNotFound), err))
}

func TestMembershipResolver(t *testing.T) {
	ctx := context.Background()
	require := require.New(t)
	assert := assert.New(t)
	conn := db.TestSetup(t)
	repo := TestRepo(t, conn)

	// diamond: bob -> g4 -> {g2, g3} -> g1
	g1 := TestGroup(t, repo, "t1", "g1")
	g2 := TestGroup(t, repo, "t1", "g2")
	g3 := TestGroup(t, repo, "t1", "g3")
	g4 := TestGroup(t, repo, "t1", "g4")
	_, err := repo.AddGroupMembers(ctx, "t1", g1.PublicId, []string{g2.PublicId, g3.PublicId}, PrincipalTypeGroup)
	require.NoError(err)
	_, err = repo.AddGroupMembers(ctx, "t1", g2.PublicId, []string{g4.PublicId}, PrincipalTypeGroup)
	require.NoError(err)
	_, err = repo.AddGroupMembers(ctx, "t1", g3.PublicId, []string{g4.PublicId}, PrincipalTypeGroup)
	require.NoError(err)
	_, err = repo.AddGroupMembers(ctx, "t1", g4.PublicId, []string{"u_bob"}, PrincipalTypeUser)
	require.NoError(err)

	resolver := newMembershipResolver(repo.reader)
	candidates, err := resolver.candidateIds(ctx, "t1", "u_bob")
	require.NoError(err)
	assert.ElementsMatch([]string{"u_bob", g1.PublicId, g2.PublicId, g3.PublicId, g4.PublicId}, candidates)

	// a group resolves to itself plus its containing groups
	candidates, err = resolver.candidateIds(ctx, "t1", g4.PublicId)
	require.NoError(err)
	assert.ElementsMatch([]string{g1.PublicId, g2.PublicId, g3.PublicId, g4.PublicId}, candidates)

	// memberships never cross tenants
	candidates, err = resolver.candidateIds(ctx, "t2", "u_bob")
	require.NoError(err)
	assert.Equal([]string{"u_bob"}, candidates)
}
