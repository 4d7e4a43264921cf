// Copyright (c) The Apache Software Foundation
// SPDX-License-Identifier: Apache-2.0

package errors

// Code specifies a code for the error.
type Code uint32

// String will return the Code's Info.Message
func (c Code) String() string {
	return c.Info().Message
}

// Info will look up the Code's Info.  If the Info is not found, it will return
// Info for an Unknown Code.
func (c Code) Info() Info {
	if info, ok := errorCodeInfo[c]; ok {
		return info
	}
	return errorCodeInfo[Unknown]
}

const (
	Unknown Code = 0 // Unknown will be equal to a zero value for Codes

	// General function errors are reserved Codes 100-999
	InvalidParameter   Code = 100 // InvalidParameter represents an invalid parameter for an operation.
	InvalidPublicId    Code = 102 // InvalidPublicId represents an invalid public Id for an operation
	InvalidFieldMask   Code = 103 // InvalidFieldMask represents an invalid field mask for an operation
	EmptyFieldMask     Code = 104 // EmptyFieldMask represents an empty field mask for an operation
	InvalidSearchQuery Code = 107 // InvalidSearchQuery represents an invalid entity search criteria string

	Io Code = 300 // Io represents an io error (reading random for ids, etc)

	// DB errors are reserved Codes from 1000-1999
	CheckConstraint      Code = 1000 // CheckConstraint represents a check constraint error
	NotNull              Code = 1001 // NotNull represents a value must not be null error
	NotUnique            Code = 1002 // NotUnique represents a value must be unique error
	NotSpecificIntegrity Code = 1003 // NotSpecificIntegrity represents an integrity error that has no specific domain error code
	MissingTable         Code = 1004 // MissingTable represents an undefined table error
	Cycle                Code = 1005 // Cycle represents a relationship that would make an entity or group its own ancestor
	RecordNotFound       Code = 1100 // RecordNotFound represents that a record/row was not found matching the criteria
	MultipleRecords      Code = 1101 // MultipleRecords represents that multiple records/rows were found matching the criteria
	TxConflict           Code = 1102 // TxConflict represents a transaction that was aborted because of a conflict with a concurrent writer
)
