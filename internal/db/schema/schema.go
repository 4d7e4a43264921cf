// Copyright (c) The Apache Software Foundation
// SPDX-License-Identifier: Apache-2.0

// Package schema bootstraps the sharing registry's tables.  The DDL is kept
// portable between postgres and sqlite: explicit text keys, no server-side id
// generation, and all cascade maintenance done by the repository inside its
// own transactions rather than by foreign key actions.
package schema

import (
	"context"
	"database/sql"
	"fmt"
)

// statements are applied in order; every statement is idempotent so Apply can
// run against an existing store.
var statements = []string{
	`create table if not exists sharing_entity_type (
		public_id text primary key,
		tenant_id text not null,
		name text not null,
		description text,
		version integer not null default 1,
		create_time timestamp not null default current_timestamp,
		update_time timestamp not null default current_timestamp,
		constraint sharing_entity_type_tenant_name_uq
			unique(tenant_id, name)
	)`,

	`create table if not exists sharing_permission_type (
		public_id text primary key,
		tenant_id text not null,
		name text not null,
		description text,
		version integer not null default 1,
		create_time timestamp not null default current_timestamp,
		update_time timestamp not null default current_timestamp,
		constraint sharing_permission_type_tenant_name_uq
			unique(tenant_id, name)
	)`,

	`create table if not exists sharing_entity (
		public_id text primary key,
		tenant_id text not null,
		external_id text not null,
		type_id text not null
			references sharing_entity_type(public_id),
		owner_id text not null,
		parent_id text
			references sharing_entity(public_id),
		name text not null,
		description text,
		full_text text,
		shared_count integer not null default 0,
		version integer not null default 1,
		create_time timestamp not null default current_timestamp,
		update_time timestamp not null default current_timestamp,
		constraint sharing_entity_tenant_external_id_uq
			unique(tenant_id, external_id)
	)`,

	`create index if not exists sharing_entity_tenant_parent_ix
		on sharing_entity(tenant_id, parent_id)`,

	// closure table: one row per (entity, ancestor) pair including the
	// entity's self row at depth 0
	`create table if not exists sharing_entity_ancestor (
		tenant_id text not null,
		entity_id text not null
			references sharing_entity(public_id),
		ancestor_id text not null
			references sharing_entity(public_id),
		depth integer not null
			check(depth >= 0),
		primary key(entity_id, ancestor_id)
	)`,

	`create index if not exists sharing_entity_ancestor_tenant_ancestor_ix
		on sharing_entity_ancestor(tenant_id, ancestor_id)`,

	`create table if not exists sharing_group (
		public_id text primary key,
		tenant_id text not null,
		name text not null,
		description text,
		owner_id text,
		version integer not null default 1,
		create_time timestamp not null default current_timestamp,
		update_time timestamp not null default current_timestamp,
		constraint sharing_group_tenant_name_uq
			unique(tenant_id, name)
	)`,

	`create table if not exists sharing_group_member (
		public_id text primary key,
		tenant_id text not null,
		group_id text not null
			references sharing_group(public_id),
		member_id text not null,
		member_type text not null
			check(member_type in ('USER', 'GROUP')),
		create_time timestamp not null default current_timestamp,
		constraint sharing_group_member_group_member_uq
			unique(tenant_id, group_id, member_id)
	)`,

	`create index if not exists sharing_group_member_tenant_member_ix
		on sharing_group_member(tenant_id, member_id)`,

	// the grant rows the access checker reads; (tenant, entity, anchor,
	// principal, permission) is the natural key so concurrent sharers
	// converge on a single live row
	`create table if not exists sharing_grant (
		public_id text primary key,
		tenant_id text not null,
		entity_id text not null
			references sharing_entity(public_id),
		permission_type_id text not null
			references sharing_permission_type(public_id),
		associating_id text not null,
		associating_type text not null
			check(associating_type in ('USER', 'GROUP')),
		sharing_type text not null
			check(sharing_type in ('DIRECT_CASCADING', 'DIRECT_NON_CASCADING', 'INDIRECT_CASCADING')),
		inherited_parent_id text not null,
		shared_by text,
		create_time timestamp not null default current_timestamp,
		constraint sharing_grant_natural_key_uq
			unique(tenant_id, entity_id, inherited_parent_id, associating_id, permission_type_id)
	)`,

	`create index if not exists sharing_grant_tenant_entity_permission_ix
		on sharing_grant(tenant_id, entity_id, permission_type_id)`,

	`create index if not exists sharing_grant_tenant_inherited_parent_ix
		on sharing_grant(tenant_id, inherited_parent_id)`,

	`create index if not exists sharing_grant_tenant_associating_permission_ix
		on sharing_grant(tenant_id, associating_id, permission_type_id)`,
}

// Apply creates the registry's tables and indexes if they don't already
// exist.
func Apply(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return fmt.Errorf("schema.Apply: missing database")
	}
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema.Apply: %w", err)
		}
	}
	return nil
}
