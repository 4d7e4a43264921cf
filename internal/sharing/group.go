// Copyright (c) The Apache Software Foundation
// SPDX-License-Identifier: Apache-2.0

package sharing

import (
	"time"
)

const groupTableName = "sharing_group"

// Group is a tenant-scoped set of principals.  Groups may contain other
// groups; the containment graph is a DAG and stays acyclic.
type Group struct {
	PublicId    string `gorm:"primary_key"`
	TenantId    string
	Name        string
	Description string `gorm:"default:null"`
	OwnerId     string `gorm:"default:null"`
	Version     uint32
	CreateTime  time.Time `gorm:"autoCreateTime"`
	UpdateTime  time.Time `gorm:"autoUpdateTime"`
}

// NewGroup creates a new in-memory group.  Supports the WithDescription and
// WithOwnerId options.
func NewGroup(tenantId, name string, opt ...Option) *Group {
	opts := getOpts(opt...)
	return &Group{
		TenantId:    tenantId,
		Name:        name,
		Description: opts.withDescription,
		OwnerId:     opts.withOwnerId,
	}
}

func allocGroup() *Group {
	return &Group{}
}

// Clone creates a clone of the Group
func (g *Group) Clone() *Group {
	cp := *g
	return &cp
}

// TableName returns the tablename
func (g *Group) TableName() string {
	return groupTableName
}

// GetPublicId returns the public id
func (g *Group) GetPublicId() string {
	return g.PublicId
}
