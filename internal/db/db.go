// Copyright (c) The Apache Software Foundation
// SPDX-License-Identifier: Apache-2.0

package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hashicorp/go-dbw"
)

// DbType defines a database type.
type DbType int

const (
	UnknownDB DbType = 0
	Postgres  DbType = 1
	Sqlite    DbType = 2
)

// String provides a string rep of the DbType.
func (db DbType) String() string {
	return [...]string{
		"unknown",
		"postgres",
		"sqlite",
	}[db]
}

// StringToDbType provides a string to type conversion.  If the type is known,
// then UnknownDB with and error is returned.
func StringToDbType(dialect string) (DbType, error) {
	switch dialect {
	case "postgres":
		return Postgres, nil
	case "sqlite":
		return Sqlite, nil
	default:
		return UnknownDB, fmt.Errorf("%s is an unknown dialect", dialect)
	}
}

// DB is a wrapper around the data store's connection pool (an ORM under the
// hood, via the dbw package).
type DB struct {
	wrapped *dbw.DB
}

// SqlDB returns the underlying sql.DB
func (d *DB) SqlDB(ctx context.Context) (*sql.DB, error) {
	return d.wrapped.SqlDB(ctx)
}

// Close the underlying sql.DB
func (d *DB) Close(ctx context.Context) error {
	return d.wrapped.Close(ctx)
}

// Open a database connection which is long-lived. The options of
// WithLogger, WithMaxOpenConnections and WithMinOpenConnections are
// supported.
//
// Note: Consider if you need to call Close() on the returned DB.  Typically
// the answer is no, but there are occasions when it's necessary.  See the
// sql.DB docs for more information.
func Open(dbType DbType, connectionUrl string, opt ...Option) (*DB, error) {
	opts := GetOpts(opt...)
	var dialect dbw.DbType
	switch dbType {
	case Postgres:
		dialect = dbw.Postgres
	case Sqlite:
		dialect = dbw.Sqlite
	default:
		return nil, fmt.Errorf("unable to open %s database type", dbType)
	}
	dbwOpts := []dbw.Option{}
	if opts.withLogger != nil {
		dbwOpts = append(dbwOpts, dbw.WithLogger(opts.withLogger))
	}
	if opts.withMaxOpenConnections > 0 {
		dbwOpts = append(dbwOpts, dbw.WithMaxOpenConnections(opts.withMaxOpenConnections))
	}
	if opts.withMinOpenConnections > 0 {
		dbwOpts = append(dbwOpts, dbw.WithMinOpenConnections(opts.withMinOpenConnections))
	}
	wrapped, err := dbw.Open(dialect, connectionUrl, dbwOpts...)
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}
	return &DB{wrapped: wrapped}, nil
}
