// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"context"

	"github.com/ava-labs/avalanchego/database"
)

// Immutable is a read-only view of the store. A missing key is reported as
// [database.ErrNotFound].
type Immutable interface {
	GetValue(ctx context.Context, key []byte) (value []byte, err error)
}

type Mutable interface {
	Immutable

	Insert(ctx context.Context, key []byte, value []byte) error
	Remove(ctx context.Context, key []byte) error
}

// Backend is the durable store supplied by the host. Changes reach it only
// through a single batch per committed command.
type Backend interface {
	database.KeyValueReader

	NewBatch() database.Batch
}
