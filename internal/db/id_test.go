// Copyright (c) The Apache Software Foundation
// SPDX-License-Identifier: Apache-2.0

package db

import (
	"context"
	"strings"
	"testing"

	"github.com/apache/airavata-custos-sub005/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPublicId(t *testing.T) {
	ctx := context.Background()

	t.Run("valid", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		id, err := NewPublicId(ctx, "ent")
		require.NoError(err)
		assert.True(strings.HasPrefix(id, "ent_"))
		assert.Len(id, len("ent_")+10)
	})

	t.Run("unique-across-calls", func(t *testing.T) {
		require := require.New(t)
		seen := map[string]bool{}
		for i := 0; i < 100; i++ {
			id, err := NewPublicId(ctx, "ent")
			require.NoError(err)
			require.False(seen[id])
			seen[id] = true
		}
	})

	t.Run("missing-prefix", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		_, err := NewPublicId(ctx, "")
		require.Error(err)
		assert.True(errors.Match(errors.T(errors.InvalidParameter), err))
	})
}
