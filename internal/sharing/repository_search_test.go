// Copyright (c) The Apache Software Foundation
// SPDX-License-Identifier: Apache-2.0

package sharing

import (
	"context"
	"sort"
	"testing"

	"github.com/apache/airavata-custos-sub005/internal/db"
	"github.com/apache/airavata-custos-sub005/internal/errors"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_SearchEntities(t *testing.T) {
	ctx := context.Background()
	conn := db.TestSetup(t)
	repo := TestRepo(t, conn)
	entityType := TestEntityType(t, repo, "t1", "project")
	read := TestPermissionType(t, repo, "t1", "read")

	proj := TestEntity(t, repo, "t1", entityType.PublicId, "u_owner", "project-alpha")
	docA := TestEntity(t, repo, "t1", entityType.PublicId, "u_owner", "doc-alpha", WithParentId(proj.PublicId))
	docB := TestEntity(t, repo, "t1", entityType.PublicId, "u_owner", "doc-beta", WithParentId(proj.PublicId))
	// never shared, so it must not show up for anyone
	unshared := TestEntity(t, repo, "t1", entityType.PublicId, "u_owner", "loose-gamma")

	team := TestGroup(t, repo, "t1", "team")
	_, err := repo.AddGroupMembers(ctx, "t1", team.PublicId, []string{"u_bob"}, PrincipalTypeUser)
	require.NoError(t, err)

	TestShare(t, repo, "t1", proj.PublicId, read.PublicId, []string{team.PublicId}, PrincipalTypeGroup, WithCascade(true))

	t.Run("no-criteria-returns-accessible", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		entities, err := repo.SearchEntities(ctx, "t1", "u_bob", read.PublicId, nil)
		require.NoError(err)
		assert.ElementsMatch(
			[]string{proj.PublicId, docA.PublicId, docB.PublicId},
			entityIds(entities))
		assert.NotContains(entityIds(entities), unshared.PublicId)
	})

	t.Run("criteria-narrow-results", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		entities, err := repo.SearchEntities(ctx, "t1", "u_bob", read.PublicId, []string{`name % "doc"`})
		require.NoError(err)
		assert.ElementsMatch([]string{docA.PublicId, docB.PublicId}, entityIds(entities))

		entities, err = repo.SearchEntities(ctx, "t1", "u_bob", read.PublicId,
			[]string{`name % "doc"`, `name % "beta"`})
		require.NoError(err)
		assert.Equal([]string{docB.PublicId}, entityIds(entities))
	})

	t.Run("mode-equivalence", func(t *testing.T) {
		// both modes return the same membership for identical inputs
		assert, require := assert.New(t), require.New(t)
		for _, criteria := range [][]string{nil, {`name % "alpha"`}, {`name = "doc-beta"`}} {
			topDown, err := repo.SearchEntities(ctx, "t1", "u_bob", read.PublicId, criteria)
			require.NoError(err)
			bottomUp, err := repo.SearchEntities(ctx, "t1", "u_bob", read.PublicId, criteria,
				WithBottomUp(true))
			require.NoError(err)

			topDownIds := entityIds(topDown)
			bottomUpIds := entityIds(bottomUp)
			sort.Strings(topDownIds)
			sort.Strings(bottomUpIds)
			assert.Empty(cmp.Diff(topDownIds, bottomUpIds))
		}
	})

	t.Run("pagination", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		var paged []string
		for offset := 0; offset < 3; offset++ {
			entities, err := repo.SearchEntities(ctx, "t1", "u_bob", read.PublicId, nil,
				WithLimit(1), WithOffset(offset))
			require.NoError(err)
			require.Len(entities, 1)
			paged = append(paged, entities[0].PublicId)
		}
		assert.ElementsMatch(
			[]string{proj.PublicId, docA.PublicId, docB.PublicId},
			paged)
	})

	t.Run("no-access-no-results", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		entities, err := repo.SearchEntities(ctx, "t1", "u_mallory", read.PublicId, nil)
		require.NoError(err)
		assert.Empty(entities)
	})

	t.Run("invalid-criteria", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		_, err := repo.SearchEntities(ctx, "t1", "u_bob", read.PublicId, []string{`name ==== `})
		require.Error(err)
		assert.True(errors.Match(errors.T(errors.InvalidSearchQuery), err))
	})

	t.Run("tenant-isolation", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		entities, err := repo.SearchEntities(ctx, "t2", "u_bob", read.PublicId, nil)
		require.NoError(err)
		assert.Empty(entities)
	})
}
