// Copyright (c) The Apache Software Foundation
// SPDX-License-Identifier: Apache-2.0

package db

import (
	"context"
	"fmt"

	"github.com/apache/airavata-custos-sub005/internal/errors"
	"github.com/hashicorp/go-secure-stdlib/base62"
)

// NewPublicId creates a new public id with the prefix
func NewPublicId(ctx context.Context, prefix string) (string, error) {
	const op = "db.NewPublicId"
	if prefix == "" {
		return "", errors.New(ctx, errors.InvalidParameter, op, "missing prefix")
	}
	publicId, err := base62.Random(10)
	if err != nil {
		return "", errors.Wrap(ctx, err, op, errors.WithCode(errors.Io), errors.WithMsg("unable to generate id"))
	}
	return fmt.Sprintf("%s_%s", prefix, publicId), nil
}
