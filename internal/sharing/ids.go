// Copyright (c) The Apache Software Foundation
// SPDX-License-Identifier: Apache-2.0

package sharing

import (
	"context"

	"github.com/apache/airavata-custos-sub005/internal/db"
	"github.com/apache/airavata-custos-sub005/internal/errors"
)

// public id prefixes for the sharing registry's resources
const (
	EntityTypePrefix     = "est"
	PermissionTypePrefix = "pmt"
	EntityPrefix         = "ent"
	GroupPrefix          = "sg"
	GroupMemberPrefix    = "sgm"
	SharePrefix          = "shr"
)

func newEntityTypeId(ctx context.Context) (string, error) {
	const op = "sharing.newEntityTypeId"
	id, err := db.NewPublicId(ctx, EntityTypePrefix)
	if err != nil {
		return "", errors.Wrap(ctx, err, op)
	}
	return id, nil
}

func newPermissionTypeId(ctx context.Context) (string, error) {
	const op = "sharing.newPermissionTypeId"
	id, err := db.NewPublicId(ctx, PermissionTypePrefix)
	if err != nil {
		return "", errors.Wrap(ctx, err, op)
	}
	return id, nil
}

func newEntityId(ctx context.Context) (string, error) {
	const op = "sharing.newEntityId"
	id, err := db.NewPublicId(ctx, EntityPrefix)
	if err != nil {
		return "", errors.Wrap(ctx, err, op)
	}
	return id, nil
}

func newGroupId(ctx context.Context) (string, error) {
	const op = "sharing.newGroupId"
	id, err := db.NewPublicId(ctx, GroupPrefix)
	if err != nil {
		return "", errors.Wrap(ctx, err, op)
	}
	return id, nil
}

func newGroupMemberId(ctx context.Context) (string, error) {
	const op = "sharing.newGroupMemberId"
	id, err := db.NewPublicId(ctx, GroupMemberPrefix)
	if err != nil {
		return "", errors.Wrap(ctx, err, op)
	}
	return id, nil
}

func newShareId(ctx context.Context) (string, error) {
	const op = "sharing.newShareId"
	id, err := db.NewPublicId(ctx, SharePrefix)
	if err != nil {
		return "", errors.Wrap(ctx, err, op)
	}
	return id, nil
}
