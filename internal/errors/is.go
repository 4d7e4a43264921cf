// Copyright (c) The Apache Software Foundation
// SPDX-License-Identifier: Apache-2.0

package errors

import (
	"errors"
	"strings"

	"github.com/hashicorp/go-dbw"
	"github.com/jackc/pgx/v5/pgconn"
)

// As is the equivalent of the std errors.As, and allows devs to only import
// this package for the capability.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Is the equivalent of the std errors.Is, but allows Devs to only import
// this package for the capability.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// IsUniqueError returns a boolean indicating whether the error is known to
// report a unique constraint violation.
func IsUniqueError(err error) bool {
	if err == nil {
		return false
	}

	var domainErr *Err
	if errors.As(err, &domainErr) {
		if domainErr.Code == NotUnique {
			return true
		}
	}

	if code, ok := driverErrorCode(err); ok && code == NotUnique {
		return true
	}

	return false
}

// IsCheckConstraintError returns a boolean indicating whether the error is
// known to report a check constraint violation.
func IsCheckConstraintError(err error) bool {
	if err == nil {
		return false
	}

	var domainErr *Err
	if errors.As(err, &domainErr) {
		if domainErr.Code == CheckConstraint {
			return true
		}
	}

	if code, ok := driverErrorCode(err); ok && code == CheckConstraint {
		return true
	}

	return false
}

// IsNotNullError returns a boolean indicating whether the error is known
// to report a not-null constraint violation.
func IsNotNullError(err error) bool {
	if err == nil {
		return false
	}

	var domainErr *Err
	if errors.As(err, &domainErr) {
		if domainErr.Code == NotNull {
			return true
		}
	}

	if code, ok := driverErrorCode(err); ok && code == NotNull {
		return true
	}

	return false
}

// IsNotFoundError returns a boolean indicating whether the error is known to
// report a "record not found" condition.
func IsNotFoundError(err error) bool {
	if err == nil {
		return false
	}

	var domainErr *Err
	if errors.As(err, &domainErr) {
		if domainErr.Code == RecordNotFound {
			return true
		}
	}

	return errors.Is(err, dbw.ErrRecordNotFound)
}

// IsConflictError returns a boolean indicating whether the error is known to
// report a conflict with a concurrent transaction (safe to retry the whole
// mutation).
func IsConflictError(err error) bool {
	if err == nil {
		return false
	}

	var domainErr *Err
	if errors.As(err, &domainErr) {
		if domainErr.Code == TxConflict {
			return true
		}
	}

	if code, ok := driverErrorCode(err); ok && code == TxConflict {
		return true
	}

	return false
}

// driverErrorCode maps well known driver errors to domain Codes. Postgres
// errors are classified by SQLSTATE; dbw sentinels cover everything the
// drivers report through the dbw layer (including sqlite).
func driverErrorCode(err error) (Code, bool) {
	var pgxError *pgconn.PgError
	if errors.As(err, &pgxError) {
		switch {
		case pgxError.Code == "23505": // unique_violation
			return NotUnique, true
		case pgxError.Code == "23502": // not_null_violation
			return NotNull, true
		case pgxError.Code == "23514": // check_violation
			return CheckConstraint, true
		case pgxError.Code == "42P01": // undefined_table
			return MissingTable, true
		case pgxError.Code == "40001" || pgxError.Code == "40P01": // serialization_failure, deadlock_detected
			return TxConflict, true
		case pgxError.Code[:2] == "23": // remaining integrity_constraint_violation class
			return NotSpecificIntegrity, true
		}
	}
	switch {
	case errors.Is(err, dbw.ErrRecordNotFound):
		return RecordNotFound, true
	case errors.Is(err, dbw.ErrInvalidParameter):
		return InvalidParameter, true
	case errors.Is(err, dbw.ErrMaxRetries):
		return TxConflict, true
	}
	// sqlite reports constraint violations as flat strings, there's no
	// structured error type to assert against.
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return NotUnique, true
	case strings.Contains(msg, "NOT NULL constraint failed"):
		return NotNull, true
	case strings.Contains(msg, "CHECK constraint failed"):
		return CheckConstraint, true
	case strings.Contains(msg, "database is locked"):
		return TxConflict, true
	}
	return Unknown, false
}
