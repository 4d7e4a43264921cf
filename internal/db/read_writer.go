// Copyright (c) The Apache Software Foundation
// SPDX-License-Identifier: Apache-2.0

package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/apache/airavata-custos-sub005/internal/errors"
	"github.com/hashicorp/go-dbw"
)

const (
	// NoRowsAffected is returned as the affected-row count when an operation
	// failed before any rows were written.
	NoRowsAffected = 0

	// StdRetryCnt is the standard number of retries for transactions that hit
	// a conflict with a concurrent writer (see DoTx)
	StdRetryCnt = 20

	// DefaultLimit is the default for results
	DefaultLimit = 10000
)

// Reader interface defines lookups/searching for resources
type Reader interface {
	// LookupByPublicId will lookup resource by its public_id which must be unique.
	LookupByPublicId(ctx context.Context, resource ResourcePublicIder, opt ...Option) error

	// LookupWhere will lookup and return the first resource using a where clause with parameters
	LookupWhere(ctx context.Context, resource any, where string, args []any, opt ...Option) error

	// SearchWhere will search for all the resources it can find using a where
	// clause with parameters. Supports the WithLimit option.  If
	// WithLimit < 0, then unlimited results are returned.  If WithLimit == 0, then
	// default limits are used for results.  Supports the WithOrder option.
	SearchWhere(ctx context.Context, resources any, where string, args []any, opt ...Option) error

	// Query will run the raw query and return the *sql.Rows results. Query will
	// operate within the context of any ongoing transaction for the db.Reader.  The
	// caller must close the returned *sql.Rows. Query can/should be used in
	// combination with ScanRows.
	Query(ctx context.Context, sql string, values []any, opt ...Option) (*sql.Rows, error)

	// ScanRows will scan sql rows into the interface provided
	ScanRows(ctx context.Context, rows *sql.Rows, result any) error
}

// Writer interface defines create, update and retryable transaction handlers
type Writer interface {
	// DoTx will wrap the TxHandler in a retryable transaction
	DoTx(ctx context.Context, retries uint, backOff Backoff, handler TxHandler) (RetryInfo, error)

	// Create a resource in the db. Supports the WithOnConflict and
	// WithReturnRowsAffected options.
	Create(ctx context.Context, i any, opt ...Option) error

	// CreateItems will create multiple items of the same type. Supports the
	// WithOnConflict and WithReturnRowsAffected options.
	CreateItems(ctx context.Context, createItems any, opt ...Option) error

	// Update a resource in the db, a fieldMask is required and provides
	// field_mask.proto paths for fields that should be updated. The i interface
	// parameter is the type the caller wants to update in the db and its fields are
	// set to the update values. setToNullPaths is optional and provides
	// field_mask.proto paths for the fields that should be set to null.
	// Supports the WithVersion option.
	Update(ctx context.Context, i any, fieldMaskPaths []string, setToNullPaths []string, opt ...Option) (int, error)

	// Delete a resource in the db. Supports the WithWhere option, which
	// deletes by an arbitrary where clause rather than by primary key.
	Delete(ctx context.Context, i any, opt ...Option) (int, error)

	// DeleteItems will delete multiple items of the same type.
	DeleteItems(ctx context.Context, deleteItems any, opt ...Option) (int, error)

	// Exec will execute the sql with the values as parameters. The int returned
	// is the number of rows affected by the sql.
	Exec(ctx context.Context, sql string, values []any, opt ...Option) (int, error)

	// IsTx returns true if there's an existing transaction in progress
	IsTx(ctx context.Context) bool
}

// TxHandler defines a handler for a func that writes a transaction for use with DoTx
type TxHandler func(Reader, Writer) error

// ResourcePublicIder defines an interface that LookupByPublicId() can use to
// get the resource's public id.
type ResourcePublicIder interface {
	GetPublicId() string
}

// RetryInfo provides information on the retries of a transaction
type RetryInfo struct {
	Retries int
	Backoff time.Duration
}

// OnConflict specifies alternative actions to take when an insert results in a
// unique constraint or exclusion constraint error (used for natural-key
// upserts).  These are direct re-exports of the dbw types.
type (
	OnConflict  = dbw.OnConflict
	Columns     = dbw.Columns
	Constraint  = dbw.Constraint
	DoNothing   = dbw.DoNothing
	UpdateAll   = dbw.UpdateAll
	ColumnValue = dbw.ColumnValue
)

// SetColumns defines a list of column (names) to update using the set columns
// when a conflict occurs during a Create
func SetColumns(names []string) []ColumnValue {
	return dbw.SetColumns(names)
}

// Db uses a dbw connection for its read/write operations
type Db struct {
	underlying *DB
}

// ensure that Db implements the interfaces of: Reader and Writer
var (
	_ Reader = (*Db)(nil)
	_ Writer = (*Db)(nil)
)

// New creates a new Db from an open DB. There can be many Dbs sharing the same
// DB, since the DB manages the connection pool.
func New(underlying *DB) *Db {
	return &Db{underlying: underlying}
}

func (d *Db) rw() *dbw.RW {
	return dbw.New(d.underlying.wrapped)
}

// LookupByPublicId will lookup resource by its public_id, which must be unique.
func (d *Db) LookupByPublicId(ctx context.Context, resource ResourcePublicIder, opt ...Option) error {
	if err := d.rw().LookupByPublicId(ctx, resource, dbwOpts(opt...)...); err != nil {
		return wrapDbError(err)
	}
	return nil
}

// LookupWhere will lookup the first resource using a where clause with
// parameters (it only returns the first one).
func (d *Db) LookupWhere(ctx context.Context, resource any, where string, args []any, opt ...Option) error {
	if err := d.rw().LookupWhere(ctx, resource, where, args, dbwOpts(opt...)...); err != nil {
		return wrapDbError(err)
	}
	return nil
}

// SearchWhere will search for all the resources it can find using a where
// clause with parameters.
func (d *Db) SearchWhere(ctx context.Context, resources any, where string, args []any, opt ...Option) error {
	if err := d.rw().SearchWhere(ctx, resources, where, args, dbwOpts(opt...)...); err != nil {
		return wrapDbError(err)
	}
	return nil
}

// Query will run the raw query and return the *sql.Rows results.  The caller
// must close the returned *sql.Rows.
func (d *Db) Query(ctx context.Context, sql string, values []any, opt ...Option) (*sql.Rows, error) {
	rows, err := d.rw().Query(ctx, sql, values, dbwOpts(opt...)...)
	if err != nil {
		return nil, wrapDbError(err)
	}
	return rows, nil
}

// ScanRows will scan the sql rows into the interface provided
func (d *Db) ScanRows(ctx context.Context, rows *sql.Rows, result any) error {
	if err := d.rw().ScanRows(rows, result); err != nil {
		return wrapDbError(err)
	}
	return nil
}

// Create a resource in the db
func (d *Db) Create(ctx context.Context, i any, opt ...Option) error {
	if err := d.rw().Create(ctx, i, dbwOpts(opt...)...); err != nil {
		return wrapDbError(err)
	}
	return nil
}

// CreateItems will create multiple items of the same type
func (d *Db) CreateItems(ctx context.Context, createItems any, opt ...Option) error {
	if err := d.rw().CreateItems(ctx, createItems, dbwOpts(opt...)...); err != nil {
		return wrapDbError(err)
	}
	return nil
}

// Update a resource in the db
func (d *Db) Update(ctx context.Context, i any, fieldMaskPaths []string, setToNullPaths []string, opt ...Option) (int, error) {
	rowsUpdated, err := d.rw().Update(ctx, i, fieldMaskPaths, setToNullPaths, dbwOpts(opt...)...)
	if err != nil {
		return NoRowsAffected, wrapDbError(err)
	}
	return rowsUpdated, nil
}

// Delete a resource in the db
func (d *Db) Delete(ctx context.Context, i any, opt ...Option) (int, error) {
	rowsDeleted, err := d.rw().Delete(ctx, i, dbwOpts(opt...)...)
	if err != nil {
		return NoRowsAffected, wrapDbError(err)
	}
	return rowsDeleted, nil
}

// DeleteItems will delete multiple items of the same type
func (d *Db) DeleteItems(ctx context.Context, deleteItems any, opt ...Option) (int, error) {
	rowsDeleted, err := d.rw().DeleteItems(ctx, deleteItems, dbwOpts(opt...)...)
	if err != nil {
		return NoRowsAffected, wrapDbError(err)
	}
	return rowsDeleted, nil
}

// Exec will execute the sql with the values as parameters
func (d *Db) Exec(ctx context.Context, sql string, values []any, opt ...Option) (int, error) {
	rowsAffected, err := d.rw().Exec(ctx, sql, values, dbwOpts(opt...)...)
	if err != nil {
		return NoRowsAffected, wrapDbError(err)
	}
	return rowsAffected, nil
}

// IsTx returns true if there's an existing transaction in progress
func (d *Db) IsTx(_ context.Context) bool {
	return d.rw().IsTx()
}

// DoTx will wrap the Handler func passed within a transaction with max
// retries. The transaction is rolled back on error, and retried (up to
// retries) when the error reports a conflict with a concurrent writer.  A
// partial application of the handler is never committed.
func (d *Db) DoTx(ctx context.Context, retries uint, backOff Backoff, handler TxHandler) (RetryInfo, error) {
	const op = "db.(Db).DoTx"
	if d.underlying == nil {
		return RetryInfo{}, errors.New(ctx, errors.InvalidParameter, op, "missing underlying db")
	}
	if backOff == nil {
		return RetryInfo{}, errors.New(ctx, errors.InvalidParameter, op, "missing backoff")
	}
	if handler == nil {
		return RetryInfo{}, errors.New(ctx, errors.InvalidParameter, op, "missing handler")
	}
	info := RetryInfo{}
	for attempts := uint(1); ; attempts++ {
		if attempts > retries+1 {
			return info, errors.New(ctx, errors.TxConflict, op, fmt.Sprintf("too many retries: %d of %d", attempts-1, retries+1), errors.WithWrap(ErrMaxRetries))
		}
		newTx, err := d.rw().Begin(ctx)
		if err != nil {
			return info, errors.Wrap(ctx, err, op)
		}
		rw := &Db{underlying: &DB{wrapped: newTx.DB()}}
		if err := handler(rw, rw); err != nil {
			if rollbackErr := newTx.Rollback(ctx); rollbackErr != nil {
				return info, errors.Wrap(ctx, rollbackErr, op)
			}
			if errors.IsConflictError(err) {
				dur := backOff.Duration(attempts)
				info.Retries++
				info.Backoff = info.Backoff + dur
				select {
				case <-ctx.Done():
					return info, errors.Wrap(ctx, ctx.Err(), op)
				case <-time.After(dur):
					continue
				}
			}
			return info, err
		}
		if err := newTx.Commit(ctx); err != nil {
			if rollbackErr := newTx.Rollback(ctx); rollbackErr != nil {
				return info, errors.Wrap(ctx, rollbackErr, op)
			}
			return info, errors.Wrap(ctx, err, op)
		}
		return info, nil // it all worked!!!
	}
}

// wrapDbError converts well-known driver/dbw errors into domain errors, so
// callers can test with errors.IsNotFoundError and friends.
func wrapDbError(err error) error {
	if err == nil {
		return nil
	}
	if converted := errors.Convert(err); converted != nil {
		return converted
	}
	return err
}
