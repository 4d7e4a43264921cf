// Copyright (c) The Apache Software Foundation
// SPDX-License-Identifier: Apache-2.0

package sharing

import (
	"time"
)

const groupMemberTableName = "sharing_group_member"

// PrincipalType discriminates whether an id refers to a user from the
// external identity directory or one of the registry's own groups.
type PrincipalType string

const (
	PrincipalTypeUser  PrincipalType = "USER"
	PrincipalTypeGroup PrincipalType = "GROUP"
)

// valid reports whether the type is one of the known principal types.
func (t PrincipalType) valid() bool {
	return t == PrincipalTypeUser || t == PrincipalTypeGroup
}

// GroupMember is one membership edge: MemberId (a user or another group)
// belongs to GroupId.
type GroupMember struct {
	PublicId   string `gorm:"primary_key"`
	TenantId   string
	GroupId    string
	MemberId   string
	MemberType PrincipalType
	CreateTime time.Time `gorm:"autoCreateTime"`
}

func allocGroupMember() *GroupMember {
	return &GroupMember{}
}

// Clone creates a clone of the GroupMember
func (m *GroupMember) Clone() *GroupMember {
	cp := *m
	return &cp
}

// TableName returns the tablename
func (m *GroupMember) TableName() string {
	return groupMemberTableName
}

// GetPublicId returns the public id
func (m *GroupMember) GetPublicId() string {
	return m.PublicId
}
