// Copyright (c) The Apache Software Foundation
// SPDX-License-Identifier: Apache-2.0

package sharing

import (
	"time"
)

const permissionTypeTableName = "sharing_permission_type"

// PermissionType is a tenant-scoped named capability (read, write, admin,
// ...).  Its name is unique within the tenant.
type PermissionType struct {
	PublicId    string `gorm:"primary_key"`
	TenantId    string
	Name        string
	Description string `gorm:"default:null"`
	Version     uint32
	CreateTime  time.Time `gorm:"autoCreateTime"`
	UpdateTime  time.Time `gorm:"autoUpdateTime"`
}

// NewPermissionType creates a new in-memory permission type.  Supports the
// WithDescription option.
func NewPermissionType(tenantId, name string, opt ...Option) *PermissionType {
	opts := getOpts(opt...)
	return &PermissionType{
		TenantId:    tenantId,
		Name:        name,
		Description: opts.withDescription,
	}
}

func allocPermissionType() *PermissionType {
	return &PermissionType{}
}

// Clone creates a clone of the PermissionType
func (t *PermissionType) Clone() *PermissionType {
	cp := *t
	return &cp
}

// TableName returns the tablename
func (t *PermissionType) TableName() string {
	return permissionTypeTableName
}

// GetPublicId returns the public id
func (t *PermissionType) GetPublicId() string {
	return t.PublicId
}
