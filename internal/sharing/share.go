// Copyright (c) The Apache Software Foundation
// SPDX-License-Identifier: Apache-2.0

package sharing

import (
	"time"
)

const shareTableName = "sharing_grant"

// ShareType discriminates how a grant row came to exist on its entity.
type ShareType string

const (
	// ShareTypeDirectCascading is an explicit grant that also applies to
	// every current and future descendant of the entity.
	ShareTypeDirectCascading ShareType = "DIRECT_CASCADING"

	// ShareTypeDirectNonCascading is an explicit grant on the entity only.
	ShareTypeDirectNonCascading ShareType = "DIRECT_NON_CASCADING"

	// ShareTypeIndirectCascading is a materialized grant on a descendant,
	// anchored back at its originating direct grant via InheritedParentId.
	ShareTypeIndirectCascading ShareType = "INDIRECT_CASCADING"
)

// Share is one grant row: AssociatingId (a user or group) holds
// PermissionTypeId on EntityId.  InheritedParentId is the entity the
// originating direct grant was made on; for DIRECT_* rows it equals
// EntityId.  At most one live row exists per (tenant, entity, anchor,
// principal, permission) tuple, so concurrent sharers converge instead of
// duplicating.
type Share struct {
	PublicId          string `gorm:"primary_key"`
	TenantId          string
	EntityId          string
	PermissionTypeId  string
	AssociatingId     string
	AssociatingType   PrincipalType
	SharingType       ShareType
	InheritedParentId string
	SharedBy          string    `gorm:"default:null"`
	CreateTime        time.Time `gorm:"autoCreateTime"`
}

func allocShare() *Share {
	return &Share{}
}

// Clone creates a clone of the Share
func (s *Share) Clone() *Share {
	cp := *s
	return &cp
}

// TableName returns the tablename
func (s *Share) TableName() string {
	return shareTableName
}

// GetPublicId returns the public id
func (s *Share) GetPublicId() string {
	return s.PublicId
}
