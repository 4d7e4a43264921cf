// Copyright (c) The Apache Software Foundation
// SPDX-License-Identifier: Apache-2.0

package sharing

const (
	// closure rows for a new child: copy the parent's ancestor set one level
	// deeper (the parent's self row yields the direct edge).  The child's own
	// self row is inserted separately.
	ancestorInsertFromParentQuery = `
insert into sharing_entity_ancestor (tenant_id, entity_id, ancestor_id, depth)
select tenant_id, ?, ancestor_id, depth + 1
  from sharing_entity_ancestor
 where tenant_id = ?
   and entity_id = ?
`

	// ancestors of an entity ordered from immediate parent to root
	ancestorsQuery = `
select e.*
  from sharing_entity e
  join sharing_entity_ancestor a
    on a.ancestor_id = e.public_id
   and a.tenant_id = e.tenant_id
 where a.tenant_id = ?
   and a.entity_id = ?
   and a.depth > 0
 order by a.depth asc
`

	// cascading rows (direct or already inherited) live on any ancestor of
	// the given entity, including the entity itself via its self row
	inheritableGrantsWhere = `
tenant_id = ?
and sharing_type in ('DIRECT_CASCADING', 'INDIRECT_CASCADING')
and entity_id in (
	select ancestor_id
	  from sharing_entity_ancestor
	 where tenant_id = ?
	   and entity_id = ?)
`

	// a move detaches the subtree from every outside ancestor...
	moveDeleteClosureQuery = `
delete from sharing_entity_ancestor
 where tenant_id = ?
   and entity_id in (
	select entity_id from sharing_entity_ancestor
	 where tenant_id = ? and ancestor_id = ?)
   and ancestor_id in (
	select ancestor_id from sharing_entity_ancestor
	 where tenant_id = ? and entity_id = ? and ancestor_id != ?)
`

	// ...and reattaches it under the new parent's ancestor chain: every
	// (subtree node, new outside ancestor) pair, crossing the new edge once
	moveInsertClosureQuery = `
insert into sharing_entity_ancestor (tenant_id, entity_id, ancestor_id, depth)
select sub.tenant_id, sub.entity_id, sup.ancestor_id, sub.depth + sup.depth + 1
  from sharing_entity_ancestor sub,
       sharing_entity_ancestor sup
 where sub.tenant_id = ? and sub.ancestor_id = ?
   and sup.tenant_id = ? and sup.entity_id = ?
`

	// after a re-graft, inherited rows whose anchor is no longer an ancestor
	// of the row's entity are stale
	moveDeleteStaleGrantsQuery = `
delete from sharing_grant
 where tenant_id = ?
   and sharing_type = 'INDIRECT_CASCADING'
   and entity_id in (
	select entity_id from sharing_entity_ancestor
	 where tenant_id = ? and ancestor_id = ?)
   and not exists (
	select 1 from sharing_entity_ancestor a
	 where a.tenant_id = sharing_grant.tenant_id
	   and a.entity_id = sharing_grant.entity_id
	   and a.ancestor_id = sharing_grant.inherited_parent_id)
`

	// deleting a node splices its children to the grandparent, so every path
	// from inside the subtree to an outside ancestor shortens by one
	deleteSpliceDepthQuery = `
update sharing_entity_ancestor
   set depth = depth - 1
 where tenant_id = ?
   and entity_id in (
	select entity_id from sharing_entity_ancestor
	 where tenant_id = ? and ancestor_id = ? and entity_id != ?)
   and ancestor_id in (
	select ancestor_id from sharing_entity_ancestor
	 where tenant_id = ? and entity_id = ? and ancestor_id != ?)
`

	deleteClosureForEntityQuery = `
delete from sharing_entity_ancestor
 where tenant_id = ?
   and (entity_id = ? or ancestor_id = ?)
`

	spliceChildrenToParentQuery = `
update sharing_entity
   set parent_id = ?
 where tenant_id = ?
   and parent_id = ?
`

	spliceChildrenToRootQuery = `
update sharing_entity
   set parent_id = null
 where tenant_id = ?
   and parent_id = ?
`

	// grants on the deleted node itself plus every row it anchors elsewhere
	deleteGrantsForEntityQuery = `
delete from sharing_grant
 where tenant_id = ?
   and (entity_id = ? or inherited_parent_id = ?)
`

	// downgrading a cascading grant to non-cascading removes the rows it
	// materialized on the descendants; the direct row itself stays
	deleteInheritedForAnchorQuery = `
delete from sharing_grant
 where tenant_id = ?
   and sharing_type = 'INDIRECT_CASCADING'
   and inherited_parent_id = ?
   and permission_type_id = ?
   and associating_id in ?
`

	// a revoke removes the direct row and everything it anchored in one
	// statement: both are keyed by inherited_parent_id = the shared entity
	revokeGrantsQuery = `
delete from sharing_grant
 where tenant_id = ?
   and inherited_parent_id = ?
   and permission_type_id = ?
   and associating_id in ?
`

	// recompute the denormalized per-entity principal count over a subtree
	sharedCountUpdateSubtreeQuery = `
update sharing_entity
   set shared_count = (
	select count(distinct g.associating_id)
	  from sharing_grant g
	 where g.tenant_id = sharing_entity.tenant_id
	   and g.entity_id = sharing_entity.public_id)
 where tenant_id = ?
   and public_id in (
	select entity_id from sharing_entity_ancestor
	 where tenant_id = ? and ancestor_id = ?)
`

	sharedCountUpdateEntityQuery = `
update sharing_entity
   set shared_count = (
	select count(distinct g.associating_id)
	  from sharing_grant g
	 where g.tenant_id = sharing_entity.tenant_id
	   and g.entity_id = sharing_entity.public_id)
 where tenant_id = ?
   and public_id = ?
`

	subtreeIdsQuery = `
select entity_id
  from sharing_entity_ancestor
 where tenant_id = ?
   and ancestor_id = ?
`

	sharedCountUpdateEntitiesQuery = `
update sharing_entity
   set shared_count = (
	select count(distinct g.associating_id)
	  from sharing_grant g
	 where g.tenant_id = sharing_entity.tenant_id
	   and g.entity_id = sharing_entity.public_id)
 where tenant_id = ?
   and public_id in ?
`

	groupMembershipQuery = `
select distinct group_id
  from sharing_group_member
 where tenant_id = ?
   and member_id in ?
`

	accessCheckQuery = `
select count(*)
  from sharing_grant
 where tenant_id = ?
   and entity_id = ?
   and permission_type_id = ?
   and associating_id in ?
`

	sharedPrincipalsQuery = `
select distinct associating_id, associating_type
  from sharing_grant
 where tenant_id = ?
   and entity_id = ?
   and permission_type_id = ?
`

	sharedPrincipalsDirectOnly = `
   and sharing_type in ('DIRECT_CASCADING', 'DIRECT_NON_CASCADING')
`

	entitiesSharedWithPrincipalQuery = `
select e.*
  from sharing_entity e
 where e.tenant_id = ?
   and e.public_id in (
	select distinct g.entity_id
	  from sharing_grant g
	 where g.tenant_id = ?
	   and g.associating_id in ?)
 order by e.update_time desc, e.public_id asc
`

	// top-down search: scan entities matching the criteria, keep the ones
	// the principal can reach.  %s is the parsed criteria condition.
	searchTopDownQueryTmpl = `
select e.*
  from sharing_entity e
 where e.tenant_id = ?
   and exists (
	select 1 from sharing_grant g
	 where g.tenant_id = e.tenant_id
	   and g.entity_id = e.public_id
	   and g.permission_type_id = ?
	   and g.associating_id in ?)
   and (%s)
 order by e.update_time desc, e.public_id asc
 limit ? offset ?
`

	// bottom-up search: start from the principal's grant rows, then filter
	searchBottomUpQueryTmpl = `
select e.*
  from sharing_entity e
 where e.tenant_id = ?
   and e.public_id in (
	select distinct g.entity_id
	  from sharing_grant g
	 where g.tenant_id = ?
	   and g.permission_type_id = ?
	   and g.associating_id in ?)
   and (%s)
 order by e.update_time desc, e.public_id asc
 limit ? offset ?
`
)
