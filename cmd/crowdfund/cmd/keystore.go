// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"

	"github.com/ava-labs/crowdfund/auth"
	"github.com/ava-labs/crowdfund/codec"
	"github.com/ava-labs/crowdfund/consts"
	"github.com/ava-labs/crowdfund/crypto/ed25519"
	"github.com/ava-labs/crowdfund/state"
)

const (
	keyIndexPrefix = 0x0
	keyPrefix      = 0x1
)

// namedKey is a private key stored under a human readable name.
type namedKey struct {
	Name    string            `json:"name"`
	Address codec.Address     `json:"address"`
	Public  ed25519.PublicKey `json:"publicKey"`

	priv ed25519.PrivateKey
}

// keystore holds the named keys plans and commands sign with. It lives in its
// own database so that resetting campaign state keeps the keys.
type keystore struct {
	db state.Backend
}

func newKeystore(db state.Backend) *keystore {
	return &keystore{db: db}
}

func keyIndexKey() []byte {
	return []byte{keyIndexPrefix}
}

func namedKeyKey(name string) []byte {
	k := make([]byte, 1+len(name))
	k[0] = keyPrefix
	copy(k[1:], name)
	return k
}

// Create generates and stores a key under [name].
func (k *keystore) Create(ctx context.Context, name string) (*namedKey, error) {
	if len(name) == 0 {
		return nil, fmt.Errorf("%w: key name", ErrMissingParam)
	}
	mu := state.NewSimpleMutable(k.db)
	if _, err := mu.GetValue(ctx, namedKeyKey(name)); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateKeyName, name)
	} else if !errors.Is(err, database.ErrNotFound) {
		return nil, err
	}
	priv, err := ed25519.GeneratePrivateKey()
	if err != nil {
		return nil, err
	}
	names, err := k.names(ctx, mu)
	if err != nil {
		return nil, err
	}
	if err := k.setNames(ctx, mu, append(names, name)); err != nil {
		return nil, err
	}
	if err := mu.Insert(ctx, namedKeyKey(name), priv[:]); err != nil {
		return nil, err
	}
	if err := mu.Commit(ctx); err != nil {
		return nil, err
	}
	return newNamedKey(name, priv), nil
}

// Get returns the key stored under [name] or [ErrNamedKeyNotFound].
func (k *keystore) Get(ctx context.Context, name string) (*namedKey, error) {
	v, err := state.ReadOnly{KeyValueReader: k.db}.GetValue(ctx, namedKeyKey(name))
	if errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNamedKeyNotFound, name)
	}
	if err != nil {
		return nil, err
	}
	if len(v) != ed25519.PrivateKeyLen {
		return nil, fmt.Errorf("%w: key %s has %d bytes", ErrCorruptedKeystore, name, len(v))
	}
	return newNamedKey(name, ed25519.PrivateKey(v)), nil
}

// List returns every stored key in creation order.
func (k *keystore) List(ctx context.Context) ([]*namedKey, error) {
	names, err := k.names(ctx, state.ReadOnly{KeyValueReader: k.db})
	if err != nil {
		return nil, err
	}
	keys := make([]*namedKey, 0, len(names))
	for _, name := range names {
		key, err := k.Get(ctx, name)
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}

func (*keystore) names(ctx context.Context, im state.Immutable) ([]string, error) {
	v, err := im.GetValue(ctx, keyIndexKey())
	if errors.Is(err, database.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p := codec.NewReader(v, consts.NetworkSizeLimit)
	count := p.UnpackInt(false)
	if int(count) > len(v)/consts.Uint16Len {
		return nil, fmt.Errorf("%w: index declares %d names", ErrCorruptedKeystore, count)
	}
	names := make([]string, 0, count)
	for i := uint32(0); i < count; i++ {
		names = append(names, p.UnpackString(true))
	}
	p.Done()
	if err := p.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptedKeystore, err)
	}
	return names, nil
}

func (*keystore) setNames(ctx context.Context, mu state.Mutable, names []string) error {
	size := consts.IntLen
	for _, name := range names {
		size += codec.StringLen(name)
	}
	p := codec.NewWriter(size, consts.NetworkSizeLimit)
	p.PackInt(uint32(len(names)))
	for _, name := range names {
		p.PackString(name)
	}
	if err := p.Err(); err != nil {
		return err
	}
	return mu.Insert(ctx, keyIndexKey(), p.Bytes())
}

func newNamedKey(name string, priv ed25519.PrivateKey) *namedKey {
	pub := priv.PublicKey()
	return &namedKey{
		Name:    name,
		Address: auth.NewED25519Address(pub),
		Public:  pub,
		priv:    priv,
	}
}
