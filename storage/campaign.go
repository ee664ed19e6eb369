// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"

	"github.com/ava-labs/crowdfund/amount"
	"github.com/ava-labs/crowdfund/codec"
	"github.com/ava-labs/crowdfund/consts"
	"github.com/ava-labs/crowdfund/state"
)

// Campaign is the record kept for every created campaign. Amount is the sum
// of donations not yet withdrawn and always matches what the contract
// account holds on the campaign's behalf.
type Campaign struct {
	Owner       codec.Address `json:"owner"`
	Description string        `json:"description"`
	Amount      amount.Amount `json:"amount"`
}

// Credit adds [v] to the recorded amount.
func (c *Campaign) Credit(v amount.Amount) error {
	sum, err := c.Amount.Add(v)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrOverflow, err)
	}
	c.Amount = sum
	return nil
}

// Debit removes [v] from the recorded amount. The record is left unchanged
// on failure.
func (c *Campaign) Debit(v amount.Amount) error {
	diff, err := c.Amount.Sub(v)
	if err != nil {
		return fmt.Errorf("%w: campaign holds %s, requested %s", ErrInsufficientFunds, c.Amount, v)
	}
	c.Amount = diff
	return nil
}

func (c *Campaign) size() int {
	return codec.AddressLen + codec.StringLen(c.Description) + amount.Len
}

func (c *Campaign) marshal() ([]byte, error) {
	p := codec.NewWriter(c.size(), consts.NetworkSizeLimit)
	p.PackAddress(c.Owner)
	p.PackString(c.Description)
	p.PackAmount(c.Amount)
	return p.Bytes(), p.Err()
}

func unmarshalCampaign(v []byte) (*Campaign, error) {
	var c Campaign
	p := codec.NewReader(v, consts.NetworkSizeLimit)
	p.UnpackAddress(&c.Owner)
	c.Description = p.UnpackString(false)
	c.Amount = p.UnpackAmount(false)
	p.Done()
	if err := p.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptedData, err)
	}
	return &c, nil
}

func GetCampaign(ctx context.Context, im state.Immutable, name string) (*Campaign, error) {
	v, err := im.GetValue(ctx, CampaignKey(name))
	if errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("%w: %q", ErrCampaignNotFound, name)
	}
	if err != nil {
		return nil, err
	}
	return unmarshalCampaign(v)
}

func SetCampaign(ctx context.Context, mu state.Mutable, name string, c *Campaign) error {
	v, err := c.marshal()
	if err != nil {
		return err
	}
	return mu.Insert(ctx, CampaignKey(name), v)
}

// CreateCampaign registers [name] with an empty record owned by [owner].
//
// An existing name is rejected with [ErrCampaignExists] unless
// [allowDuplicates] is set, in which case the record is replaced and the
// name is appended to the registry a second time.
func CreateCampaign(
	ctx context.Context,
	mu state.Mutable,
	name string,
	description string,
	owner codec.Address,
	allowDuplicates bool,
) error {
	_, err := mu.GetValue(ctx, CampaignKey(name))
	switch {
	case err == nil:
		if !allowDuplicates {
			return fmt.Errorf("%w: %q", ErrCampaignExists, name)
		}
	case !errors.Is(err, database.ErrNotFound):
		return err
	}
	if err := appendCampaignName(ctx, mu, name); err != nil {
		return err
	}
	return SetCampaign(ctx, mu, name, &Campaign{
		Owner:       owner,
		Description: description,
		Amount:      amount.Zero,
	})
}
