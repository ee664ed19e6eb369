// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"context"
	"slices"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/utils/maybe"
	"golang.org/x/exp/maps"
)

var _ Mutable = (*SimpleMutable)(nil)

// SimpleMutable buffers every change made on top of a [Backend]. Nothing
// reaches the backend until [SimpleMutable.Commit], which writes all
// buffered changes in one batch.
type SimpleMutable struct {
	db Backend

	changes map[string]maybe.Maybe[[]byte]
}

func NewSimpleMutable(db Backend) *SimpleMutable {
	return &SimpleMutable{db, make(map[string]maybe.Maybe[[]byte])}
}

func (s *SimpleMutable) GetValue(_ context.Context, k []byte) ([]byte, error) {
	if v, ok := s.changes[string(k)]; ok {
		if v.IsNothing() {
			return nil, database.ErrNotFound
		}
		return v.Value(), nil
	}
	return s.db.Get(k)
}

func (s *SimpleMutable) Insert(_ context.Context, k []byte, v []byte) error {
	s.changes[string(k)] = maybe.Some(slices.Clone(v))
	return nil
}

func (s *SimpleMutable) Remove(_ context.Context, k []byte) error {
	s.changes[string(k)] = maybe.Nothing[[]byte]()
	return nil
}

// PendingChanges returns the number of keys that will be written on
// [SimpleMutable.Commit].
func (s *SimpleMutable) PendingChanges() int {
	return len(s.changes)
}

// Discard drops every buffered change.
func (s *SimpleMutable) Discard() {
	clear(s.changes)
}

// Commit writes all buffered changes to the backend atomically. The buffer
// is only cleared if the write succeeds.
func (s *SimpleMutable) Commit(context.Context) error {
	batch := s.db.NewBatch()
	keys := maps.Keys(s.changes)
	slices.Sort(keys)
	for _, k := range keys {
		v := s.changes[k]
		if v.IsNothing() {
			if err := batch.Delete([]byte(k)); err != nil {
				return err
			}
			continue
		}
		if err := batch.Put([]byte(k), v.Value()); err != nil {
			return err
		}
	}
	if err := batch.Write(); err != nil {
		return err
	}
	s.Discard()
	return nil
}
