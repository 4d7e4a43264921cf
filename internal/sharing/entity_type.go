// Copyright (c) The Apache Software Foundation
// SPDX-License-Identifier: Apache-2.0

package sharing

import (
	"time"
)

const entityTypeTableName = "sharing_entity_type"

// EntityType is a tenant-scoped resource category (document, project, ...).
// Its name is unique within the tenant and it becomes immutable once entities
// reference it.
type EntityType struct {
	PublicId    string `gorm:"primary_key"`
	TenantId    string
	Name        string
	Description string `gorm:"default:null"`
	Version     uint32
	CreateTime  time.Time `gorm:"autoCreateTime"`
	UpdateTime  time.Time `gorm:"autoUpdateTime"`
}

// NewEntityType creates a new in-memory entity type.  Supports the
// WithDescription option.
func NewEntityType(tenantId, name string, opt ...Option) *EntityType {
	opts := getOpts(opt...)
	return &EntityType{
		TenantId:    tenantId,
		Name:        name,
		Description: opts.withDescription,
	}
}

func allocEntityType() *EntityType {
	return &EntityType{}
}

// Clone creates a clone of the EntityType
func (t *EntityType) Clone() *EntityType {
	cp := *t
	return &cp
}

// TableName returns the tablename
func (t *EntityType) TableName() string {
	return entityTypeTableName
}

// GetPublicId returns the public id
func (t *EntityType) GetPublicId() string {
	return t.PublicId
}
