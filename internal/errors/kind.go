// Copyright (c) The Apache Software Foundation
// SPDX-License-Identifier: Apache-2.0

package errors

// Kind specifies the kind of error (unknown, parameter, integrity, etc).
type Kind uint32

const (
	Other Kind = iota
	Parameter
	Integrity
	Search
	Transaction
)

// String returns the Kind as a string
func (e Kind) String() string {
	return [...]string{
		"unknown",
		"parameter violation",
		"integrity violation",
		"search issue",
		"db transaction issue",
	}[e]
}
