// Copyright (c) The Apache Software Foundation
// SPDX-License-Identifier: Apache-2.0

package db

import (
	"context"
	"testing"

	"github.com/apache/airavata-custos-sub005/internal/db/schema"
	"github.com/stretchr/testify/require"
)

// TestSetup opens an in-memory sqlite database with the registry's schema
// applied.  The single connection keeps the in-memory store alive and shared
// for the whole test.
func TestSetup(t *testing.T) *DB {
	t.Helper()
	require := require.New(t)
	ctx := context.Background()

	conn, err := Open(Sqlite, ":memory:", WithMaxOpenConnections(1))
	require.NoError(err)
	t.Cleanup(func() {
		_ = conn.Close(ctx)
	})

	underlying, err := conn.SqlDB(ctx)
	require.NoError(err)
	require.NoError(schema.Apply(ctx, underlying))
	return conn
}
