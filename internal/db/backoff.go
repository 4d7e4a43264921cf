// Copyright (c) The Apache Software Foundation
// SPDX-License-Identifier: Apache-2.0

package db

import (
	"math"
	"math/rand"
	"time"
)

// Backoff defines an interface for providing a back off for retrying
// transactions. See DoTx
type Backoff interface {
	Duration(attemptNumber uint) time.Duration
}

// ConstBackoff defines a constant backoff for retrying transactions. See DoTx
type ConstBackoff struct {
	DurationMs time.Duration
}

// Duration is the constant backoff duration based on the retry attempt
func (b ConstBackoff) Duration(attempt uint) time.Duration {
	return time.Millisecond * time.Duration(b.DurationMs)
}

// ExpBackoff defines an exponential backoff for retrying transactions. See DoTx
type ExpBackoff struct{}

// Duration is the exponential backoff duration based on the retry attempt
func (b ExpBackoff) Duration(attempt uint) time.Duration {
	r := rand.Float64()
	return time.Millisecond * time.Duration(math.Exp2(float64(attempt))*5*(r+0.5))
}
