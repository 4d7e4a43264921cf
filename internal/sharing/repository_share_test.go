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

func TestRepository_ShareEntity(t *testing.T) {
	ctx := context.Background()

	t.Run("cascading-grant-reaches-descendants", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		conn := db.TestSetup(t)
		repo := TestRepo(t, conn)
		entityType := TestEntityType(t, repo, "t1", "project")
		read := TestPermissionType(t, repo, "t1", "read")
		proj := TestEntity(t, repo, "t1", entityType.PublicId, "u_alice", "proj")
		doc := TestEntity(t, repo, "t1", entityType.PublicId, "u_alice", "doc", WithParentId(proj.PublicId))
		nested := TestEntity(t, repo, "t1", entityType.PublicId, "u_alice", "nested", WithParentId(doc.PublicId))

		shares, err := repo.ShareEntity(ctx, "t1", proj.PublicId, read.PublicId,
			[]string{"u_bob"}, PrincipalTypeUser, WithCascade(true), WithSharedBy("u_alice"))
		require.NoError(err)
		require.Len(shares, 1)
		assert.Equal(ShareTypeDirectCascading, shares[0].SharingType)
		assert.Equal(proj.PublicId, shares[0].InheritedParentId)
		assert.Equal("u_alice", shares[0].SharedBy)

		for _, entityId := range []string{proj.PublicId, doc.PublicId, nested.PublicId} {
			hasAccess, err := repo.UserHasAccess(ctx, "t1", entityId, read.PublicId, "u_bob")
			require.NoError(err)
			assert.True(hasAccess, "expected access on %s", entityId)
		}

		// every touched entity counts its one sharee
		for _, entityId := range []string{proj.PublicId, doc.PublicId, nested.PublicId} {
			e, err := repo.LookupEntity(ctx, "t1", entityId)
			require.NoError(err)
			assert.Equal(1, e.SharedCount)
		}
	})

	t.Run("non-cascading-grant-stays-put", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		conn := db.TestSetup(t)
		repo := TestRepo(t, conn)
		entityType := TestEntityType(t, repo, "t1", "project")
		write := TestPermissionType(t, repo, "t1", "write")
		proj := TestEntity(t, repo, "t1", entityType.PublicId, "u_alice", "proj")
		doc := TestEntity(t, repo, "t1", entityType.PublicId, "u_alice", "doc", WithParentId(proj.PublicId))

		TestShare(t, repo, "t1", proj.PublicId, write.PublicId, []string{"u_bob"}, PrincipalTypeUser)

		hasAccess, err := repo.UserHasAccess(ctx, "t1", proj.PublicId, write.PublicId, "u_bob")
		require.NoError(err)
		assert.True(hasAccess)
		hasAccess, err = repo.UserHasAccess(ctx, "t1", doc.PublicId, write.PublicId, "u_bob")
		require.NoError(err)
		assert.False(hasAccess)

		child, err := repo.LookupEntity(ctx, "t1", doc.PublicId)
		require.NoError(err)
		assert.Zero(child.SharedCount)
	})

	t.Run("reshare-is-idempotent", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		conn := db.TestSetup(t)
		repo := TestRepo(t, conn)
		entityType := TestEntityType(t, repo, "t1", "project")
		read := TestPermissionType(t, repo, "t1", "read")
		proj := TestEntity(t, repo, "t1", entityType.PublicId, "u_alice", "proj")

		TestShare(t, repo, "t1", proj.PublicId, read.PublicId, []string{"u_bob"}, PrincipalTypeUser, WithCascade(true))
		TestShare(t, repo, "t1", proj.PublicId, read.PublicId, []string{"u_bob"}, PrincipalTypeUser, WithCascade(true))

		e, err := repo.LookupEntity(ctx, "t1", proj.PublicId)
		require.NoError(err)
		assert.Equal(1, e.SharedCount)

		principals, err := repo.ListSharedPrincipals(ctx, "t1", proj.PublicId, read.PublicId)
		require.NoError(err)
		require.Len(principals, 1)
		assert.Equal("u_bob", principals[0].AssociatingId)
	})

	t.Run("downgrade-to-non-cascading-clears-descendants", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		conn := db.TestSetup(t)
		repo := TestRepo(t, conn)
		entityType := TestEntityType(t, repo, "t1", "project")
		read := TestPermissionType(t, repo, "t1", "read")
		proj := TestEntity(t, repo, "t1", entityType.PublicId, "u_alice", "proj")
		doc := TestEntity(t, repo, "t1", entityType.PublicId, "u_alice", "doc", WithParentId(proj.PublicId))

		TestShare(t, repo, "t1", proj.PublicId, read.PublicId, []string{"u_bob"}, PrincipalTypeUser, WithCascade(true))
		hasAccess, err := repo.UserHasAccess(ctx, "t1", doc.PublicId, read.PublicId, "u_bob")
		require.NoError(err)
		require.True(hasAccess)

		// re-sharing the same tuple without cascade narrows the grant, so
		// the rows it materialized on the descendants must go with it
		TestShare(t, repo, "t1", proj.PublicId, read.PublicId, []string{"u_bob"}, PrincipalTypeUser)

		direct := allocShare()
		err = repo.reader.LookupWhere(ctx, direct,
			"tenant_id = ? and entity_id = ? and associating_id = ?",
			[]any{"t1", proj.PublicId, "u_bob"})
		require.NoError(err)
		assert.Equal(ShareTypeDirectNonCascading, direct.SharingType)

		hasAccess, err = repo.UserHasAccess(ctx, "t1", proj.PublicId, read.PublicId, "u_bob")
		require.NoError(err)
		assert.True(hasAccess)
		hasAccess, err = repo.UserHasAccess(ctx, "t1", doc.PublicId, read.PublicId, "u_bob")
		require.NoError(err)
		assert.False(hasAccess)

		child, err := repo.LookupEntity(ctx, "t1", doc.PublicId)
		require.NoError(err)
		assert.Zero(child.SharedCount)
		parent, err := repo.LookupEntity(ctx, "t1", proj.PublicId)
		require.NoError(err)
		assert.Equal(1, parent.SharedCount)
	})

	t.Run("child-created-after-share-inherits", func(t *testing.T) {
		// share first, create the child after
		assert, require := assert.New(t), require.New(t)
		conn := db.TestSetup(t)
		repo := TestRepo(t, conn)
		entityType := TestEntityType(t, repo, "t1", "project")
		read := TestPermissionType(t, repo, "t1", "read")
		proj1 := TestEntity(t, repo, "t1", entityType.PublicId, "u_owner", "proj1")
		TestShare(t, repo, "t1", proj1.PublicId, read.PublicId, []string{"u_alice"}, PrincipalTypeUser, WithCascade(true))

		doc1 := TestEntity(t, repo, "t1", entityType.PublicId, "u_owner", "doc1", WithParentId(proj1.PublicId))
		hasAccess, err := repo.UserHasAccess(ctx, "t1", doc1.PublicId, read.PublicId, "u_alice")
		require.NoError(err)
		assert.True(hasAccess)

		created, err := repo.LookupEntity(ctx, "t1", doc1.PublicId)
		require.NoError(err)
		assert.Equal(1, created.SharedCount)
	})

	t.Run("group-share-with-nested-member", func(t *testing.T) {
		// bob is in team1, share is non-cascading
		assert, require := assert.New(t), require.New(t)
		conn := db.TestSetup(t)
		repo := TestRepo(t, conn)
		entityType := TestEntityType(t, repo, "t1", "project")
		write := TestPermissionType(t, repo, "t1", "write")
		proj1 := TestEntity(t, repo, "t1", entityType.PublicId, "u_owner", "proj1")
		doc1 := TestEntity(t, repo, "t1", entityType.PublicId, "u_owner", "doc1", WithParentId(proj1.PublicId))
		team1 := TestGroup(t, repo, "t1", "team1")
		_, err := repo.AddGroupMembers(ctx, "t1", team1.PublicId, []string{"u_bob"}, PrincipalTypeUser)
		require.NoError(err)

		TestShare(t, repo, "t1", proj1.PublicId, write.PublicId, []string{team1.PublicId}, PrincipalTypeGroup)

		hasAccess, err := repo.UserHasAccess(ctx, "t1", proj1.PublicId, write.PublicId, "u_bob")
		require.NoError(err)
		assert.True(hasAccess)
		hasAccess, err = repo.UserHasAccess(ctx, "t1", doc1.PublicId, write.PublicId, "u_bob")
		require.NoError(err)
		assert.False(hasAccess)
	})

	t.Run("missing-entity", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		conn := db.TestSetup(t)
		repo := TestRepo(t, conn)
		read := TestPermissionType(t, repo, "t1", "read")
		_, err := repo.ShareEntity(ctx, "t1", "ent_missing", read.PublicId, []string{"u_bob"}, PrincipalTypeUser)
		require.Error(err)
		assert.True(errors.Match(errors.T(errors.RecordNotFound), err))
	})

	t.Run("missing-permission-type", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		conn := db.TestSetup(t)
		repo := TestRepo(t, conn)
		entityType := TestEntityType(t, repo, "t1", "project")
		proj := TestEntity(t, repo, "t1", entityType.PublicId, "u_alice", "proj")
		_, err := repo.ShareEntity(ctx, "t1", proj.PublicId, "pmt_missing", []string{"u_bob"}, PrincipalTypeUser)
		require.Error(err)
		assert.True(errors.Match(errors.T(errors.RecordNotFound), err))
	})

	t.Run("missing-group-principal", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		conn := db.TestSetup(t)
		repo := TestRepo(t, conn)
		entityType := TestEntityType(t, repo, "t1", "project")
		read := TestPermissionType(t, repo, "t1", "read")
		proj := TestEntity(t, repo, "t1", entityType.PublicId, "u_alice", "proj")
		_, err := repo.ShareEntity(ctx, "t1", proj.PublicId, read.PublicId, []string{"sg_missing"}, PrincipalTypeGroup)
		require.Error(err)
		assert.True(errors.Match(errors.T(errors.RecordNotFound), err))
	})
}

func TestRepository_RevokePermission(t *testing.T) {
	ctx := context.Background()

	t.Run("cascading-revoke-clears-descendants", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		conn := db.TestSetup(t)
		repo := TestRepo(t, conn)
		entityType := TestEntityType(t, repo, "t1", "project")
		read := TestPermissionType(t, repo, "t1", "read")
		proj1 := TestEntity(t, repo, "t1", entityType.PublicId, "u_owner", "proj1")
		TestShare(t, repo, "t1", proj1.PublicId, read.PublicId, []string{"u_alice"}, PrincipalTypeUser, WithCascade(true))
		doc1 := TestEntity(t, repo, "t1", entityType.PublicId, "u_owner", "doc1", WithParentId(proj1.PublicId))

		rowsDeleted, err := repo.RevokePermission(ctx, "t1", proj1.PublicId, read.PublicId, []string{"u_alice"})
		require.NoError(err)
		assert.Equal(2, rowsDeleted) // the direct row plus doc1's inherited row

		for _, entityId := range []string{proj1.PublicId, doc1.PublicId} {
			hasAccess, err := repo.UserHasAccess(ctx, "t1", entityId, read.PublicId, "u_alice")
			require.NoError(err)
			assert.False(hasAccess)
			e, err := repo.LookupEntity(ctx, "t1", entityId)
			require.NoError(err)
			assert.Zero(e.SharedCount)
		}
	})

	t.Run("grants-from-other-ancestors-survive", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		conn := db.TestSetup(t)
		repo := TestRepo(t, conn)
		entityType := TestEntityType(t, repo, "t1", "project")
		read := TestPermissionType(t, repo, "t1", "read")
		a := TestEntity(t, repo, "t1", entityType.PublicId, "u_owner", "a")
		b := TestEntity(t, repo, "t1", entityType.PublicId, "u_owner", "b", WithParentId(a.PublicId))
		c := TestEntity(t, repo, "t1", entityType.PublicId, "u_owner", "c", WithParentId(b.PublicId))
		TestShare(t, repo, "t1", a.PublicId, read.PublicId, []string{"u_alice"}, PrincipalTypeUser, WithCascade(true))
		TestShare(t, repo, "t1", b.PublicId, read.PublicId, []string{"u_alice"}, PrincipalTypeUser, WithCascade(true))

		_, err := repo.RevokePermission(ctx, "t1", b.PublicId, read.PublicId, []string{"u_alice"})
		require.NoError(err)

		// c is still covered through a's cascading grant
		hasAccess, err := repo.UserHasAccess(ctx, "t1", c.PublicId, read.PublicId, "u_alice")
		require.NoError(err)
		assert.True(hasAccess)
		hasAccess, err = repo.UserHasAccess(ctx, "t1", b.PublicId, read.PublicId, "u_alice")
		require.NoError(err)
		assert.True(hasAccess)
	})

	t.Run("idempotent", func(t *testing.T) {
		// the second revoke succeeds with zero rows affected
		assert, require := assert.New(t), require.New(t)
		conn := db.TestSetup(t)
		repo := TestRepo(t, conn)
		entityType := TestEntityType(t, repo, "t1", "project")
		read := TestPermissionType(t, repo, "t1", "read")
		proj := TestEntity(t, repo, "t1", entityType.PublicId, "u_owner", "proj")
		TestShare(t, repo, "t1", proj.PublicId, read.PublicId, []string{"u_alice"}, PrincipalTypeUser)

		rowsDeleted, err := repo.RevokePermission(ctx, "t1", proj.PublicId, read.PublicId, []string{"u_alice"})
		require.NoError(err)
		assert.Equal(1, rowsDeleted)

		rowsDeleted, err = repo.RevokePermission(ctx, "t1", proj.PublicId, read.PublicId, []string{"u_alice"})
		require.NoError(err)
		assert.Zero(rowsDeleted)
	})

	t.Run("missing-entity", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		conn := db.TestSetup(t)
		repo := TestRepo(t, conn)
		read := TestPermissionType(t, repo, "t1", "read")
		_, err := repo.RevokePermission(ctx, "t1", "ent_missing", read.PublicId, []string{"u_alice"})
		require.Error(err)
		assert.True(errors.Match(errors.T(errors.RecordNotFound), err))
	})
}
