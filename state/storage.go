// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"context"

	"github.com/ava-labs/avalanchego/database"
)

var (
	_ Mutable   = MutableStorage(nil)
	_ Immutable = ReadOnly{}
)

// ReadOnly exposes a committed [database.KeyValueReader] as [Immutable].
type ReadOnly struct {
	database.KeyValueReader
}

func (r ReadOnly) GetValue(_ context.Context, key []byte) ([]byte, error) {
	return r.Get(key)
}

// MutableStorage is an in-memory [Mutable] used by tests.
type MutableStorage map[string][]byte

func (m MutableStorage) GetValue(_ context.Context, key []byte) (value []byte, err error) {
	if v, has := m[string(key)]; has {
		return v, nil
	}
	return nil, database.ErrNotFound
}

func (m MutableStorage) Insert(_ context.Context, key []byte, value []byte) error {
	m[string(key)] = value
	return nil
}

func (m MutableStorage) Remove(_ context.Context, key []byte) error {
	delete(m, string(key))
	return nil
}
