// Copyright (c) The Apache Software Foundation
// SPDX-License-Identifier: Apache-2.0

package sharing

import (
	"time"
)

const entityTableName = "sharing_entity"

// Entity is a node in a tenant's resource forest.  ParentId is empty for
// roots; the parent edges stay acyclic, which is enforced whenever an entity
// is created or moved.  SharedCount is a denormalized counter of the distinct
// principals currently holding at least one grant on the entity.
type Entity struct {
	PublicId    string `gorm:"primary_key"`
	TenantId    string
	ExternalId  string
	TypeId      string
	OwnerId     string
	ParentId    string `gorm:"default:null"`
	Name        string
	Description string `gorm:"default:null"`
	FullText    string `gorm:"default:null"`
	SharedCount int
	Version     uint32
	CreateTime  time.Time `gorm:"autoCreateTime"`
	UpdateTime  time.Time `gorm:"autoUpdateTime"`
}

// NewEntity creates a new in-memory entity.  Supports the WithDescription,
// WithParentId, WithExternalId and WithFullText options.
func NewEntity(tenantId, typeId, ownerId, name string, opt ...Option) *Entity {
	opts := getOpts(opt...)
	return &Entity{
		TenantId:    tenantId,
		TypeId:      typeId,
		OwnerId:     ownerId,
		Name:        name,
		ParentId:    opts.withParentId,
		ExternalId:  opts.withExternalId,
		Description: opts.withDescription,
		FullText:    opts.withFullText,
	}
}

func allocEntity() *Entity {
	return &Entity{}
}

// Clone creates a clone of the Entity
func (e *Entity) Clone() *Entity {
	cp := *e
	return &cp
}

// TableName returns the tablename
func (e *Entity) TableName() string {
	return entityTableName
}

// GetPublicId returns the public id
func (e *Entity) GetPublicId() string {
	return e.PublicId
}
