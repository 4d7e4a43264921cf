// Copyright (c) The Apache Software Foundation
// SPDX-License-Identifier: Apache-2.0

package sharing

const entityAncestorTableName = "sharing_entity_ancestor"

// entityAncestor is one row of the entity closure table: AncestorId is an
// ancestor of EntityId at the given Depth.  Every entity carries a self row
// at depth 0, so "descendants of E" is a single indexed lookup on
// ancestor_id and never a recursive walk.
type entityAncestor struct {
	TenantId   string
	EntityId   string `gorm:"primary_key"`
	AncestorId string `gorm:"primary_key"`
	Depth      int
}

func allocEntityAncestor() *entityAncestor {
	return &entityAncestor{}
}

// TableName returns the tablename
func (a *entityAncestor) TableName() string {
	return entityAncestorTableName
}
