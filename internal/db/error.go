// Copyright (c) The Apache Software Foundation
// SPDX-License-Identifier: Apache-2.0

package db

import (
	"github.com/hashicorp/go-dbw"
)

// Errors returned from this package may be tested against these errors with
// errors.Is.
var (
	// ErrInvalidParameter is an invalid parameter error
	ErrInvalidParameter = dbw.ErrInvalidParameter

	// ErrRecordNotFound is a not found record error
	ErrRecordNotFound = dbw.ErrRecordNotFound

	// ErrMaxRetries is a max retries error for DoTx
	ErrMaxRetries = dbw.ErrMaxRetries

	// ErrInvalidFieldMask is an invalid field mask error
	ErrInvalidFieldMask = dbw.ErrInvalidFieldMask
)
