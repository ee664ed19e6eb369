// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"

	"github.com/ava-labs/crowdfund/codec"
	"github.com/ava-labs/crowdfund/consts"
	"github.com/ava-labs/crowdfund/state"
)

// InitRegistry writes an empty registry unless one already exists. It
// reports whether anything was written.
func InitRegistry(ctx context.Context, mu state.Mutable) (bool, error) {
	_, err := mu.GetValue(ctx, RegistryKey())
	switch {
	case err == nil:
		return false, nil
	case !errors.Is(err, database.ErrNotFound):
		return false, err
	}
	return true, setCampaignNames(ctx, mu, nil)
}

// GetCampaignNames returns every created campaign name in creation order.
func GetCampaignNames(ctx context.Context, im state.Immutable) ([]string, error) {
	v, err := im.GetValue(ctx, RegistryKey())
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrRegistryNotInitialized
	}
	if err != nil {
		return nil, err
	}
	return unpackCampaignNames(v)
}

func appendCampaignName(ctx context.Context, mu state.Mutable, name string) error {
	names, err := GetCampaignNames(ctx, mu)
	if err != nil {
		return err
	}
	return setCampaignNames(ctx, mu, append(names, name))
}

// setCampaignNames stores [names] as a single value, so the registry as a
// whole is bounded by [consts.NetworkSizeLimit].
func setCampaignNames(ctx context.Context, mu state.Mutable, names []string) error {
	size := consts.IntLen
	for _, name := range names {
		size += codec.StringLen(name)
	}
	if size > consts.NetworkSizeLimit {
		return fmt.Errorf("%w: %d names need %d bytes but the limit is %d", ErrRegistryFull, len(names), size, consts.NetworkSizeLimit)
	}
	p := codec.NewWriter(size, consts.NetworkSizeLimit)
	p.PackInt(uint32(len(names)))
	for _, name := range names {
		p.PackString(name)
	}
	if err := p.Err(); err != nil {
		return err
	}
	return mu.Insert(ctx, RegistryKey(), p.Bytes())
}

func unpackCampaignNames(v []byte) ([]string, error) {
	p := codec.NewReader(v, consts.NetworkSizeLimit)
	count := p.UnpackInt(false)
	if int(count) > len(v)/consts.Uint16Len {
		return nil, fmt.Errorf("%w: registry declares %d names in %d bytes", ErrCorruptedData, count, len(v))
	}
	names := make([]string, 0, count)
	for i := uint32(0); i < count; i++ {
		names = append(names, p.UnpackString(true))
	}
	p.Done()
	if err := p.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptedData, err)
	}
	return names, nil
}
