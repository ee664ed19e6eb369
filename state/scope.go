// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"context"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"
)

var _ Mutable = (*ScopedMutable)(nil)

// ScopedMutable restricts access to [Mutable] to the keys declared up front
// and to the permissions granted for each of them.
//
// Creating a key requires [Allocate], modifying or removing an existing one
// requires [Write], and every read requires [Read].
type ScopedMutable struct {
	mu   Mutable
	keys Keys
}

func NewScopedMutable(mu Mutable, keys Keys) *ScopedMutable {
	return &ScopedMutable{mu: mu, keys: keys}
}

func (s *ScopedMutable) check(key []byte, require Permissions) error {
	perm, ok := s.keys[string(key)]
	if !ok {
		return fmt.Errorf("%w: %x", ErrKeyNotSpecified, key)
	}
	if !perm.Has(require) {
		return fmt.Errorf("%w: key=%x has=%d require=%d", ErrInsufficientPermissions, key, perm, require)
	}
	return nil
}

func (s *ScopedMutable) GetValue(ctx context.Context, key []byte) ([]byte, error) {
	if err := s.check(key, Read); err != nil {
		return nil, err
	}
	return s.mu.GetValue(ctx, key)
}

func (s *ScopedMutable) Insert(ctx context.Context, key []byte, value []byte) error {
	if err := s.check(key, Read); err != nil {
		return err
	}
	_, err := s.mu.GetValue(ctx, key)
	switch {
	case errors.Is(err, database.ErrNotFound):
		err = s.check(key, Allocate)
	case err == nil:
		err = s.check(key, Write)
	}
	if err != nil {
		return err
	}
	return s.mu.Insert(ctx, key, value)
}

func (s *ScopedMutable) Remove(ctx context.Context, key []byte) error {
	if err := s.check(key, Write); err != nil {
		return err
	}
	return s.mu.Remove(ctx, key)
}
