// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"
	"fmt"

	"github.com/ava-labs/crowdfund/amount"
	"github.com/ava-labs/crowdfund/codec"
	"github.com/ava-labs/crowdfund/consts"
	"github.com/ava-labs/crowdfund/state"
	"github.com/ava-labs/crowdfund/storage"
)

var _ Action = (*Donate)(nil)

// Donate moves the single coin attached to the command into the contract
// account and credits it to the campaign.
type Donate struct {
	Name string `json:"name"`

	// Amount is optional. When set it must equal the attached payment.
	Amount *amount.Amount `json:"amount,omitempty"`
}

func (*Donate) GetTypeID() uint8 {
	return donateID
}

func (d *Donate) StateKeys(actor codec.Address, rules Rules) state.Keys {
	keys := state.Keys{}
	keys.Add(string(storage.CampaignKey(d.Name)), state.Write)
	keys.Add(string(storage.BalanceKey(actor)), state.Allocate|state.Write)
	keys.Add(string(storage.BalanceKey(rules.GetContractAddress())), state.Allocate|state.Write)
	return keys
}

func (d *Donate) Execute(
	ctx context.Context,
	rules Rules,
	mu state.Mutable,
	actor codec.Address,
	funds []Coin,
) (*Result, error) {
	campaign, err := storage.GetCampaign(ctx, mu, d.Name)
	if err != nil {
		return nil, err
	}
	value, err := d.payment(rules, funds)
	if err != nil {
		return nil, err
	}
	if err := campaign.Credit(value); err != nil {
		return nil, err
	}
	if _, err := storage.Deposit(ctx, mu, actor, value); err != nil {
		return nil, err
	}
	if err := storage.Transfer(ctx, mu, actor, rules.GetContractAddress(), value); err != nil {
		return nil, err
	}
	if err := storage.SetCampaign(ctx, mu, d.Name, campaign); err != nil {
		return nil, err
	}
	total := campaign.Amount
	return &Result{Status: DonatedStatus, Amount: &total}, nil
}

// payment returns the value of the one acceptable coin in [funds].
func (d *Donate) payment(rules Rules, funds []Coin) (amount.Amount, error) {
	if len(funds) != 1 {
		return amount.Zero, fmt.Errorf("%w: expected exactly one coin but got %d", ErrInvalidDonation, len(funds))
	}
	coin := funds[0]
	if coin.Denom != rules.GetDenom() {
		return amount.Zero, fmt.Errorf("%w: expected denom %q but got %q", ErrInvalidDonation, rules.GetDenom(), coin.Denom)
	}
	if minimum := rules.GetMinimumDonation(); coin.Amount.Lt(minimum) {
		return amount.Zero, fmt.Errorf("%w: %s is below the minimum of %s", ErrInvalidDonation, coin, minimum)
	}
	if d.Amount != nil && d.Amount.Cmp(coin.Amount) != 0 {
		return amount.Zero, fmt.Errorf("%w: declared %s but attached %s", ErrInvalidDonation, d.Amount, coin.Amount)
	}
	return coin.Amount, nil
}

func (d *Donate) Size() int {
	size := codec.StringLen(d.Name) + consts.BoolLen
	if d.Amount != nil {
		size += amount.Len
	}
	return size
}

func (d *Donate) Marshal(p *codec.Packer) {
	p.PackString(d.Name)
	p.PackBool(d.Amount != nil)
	if d.Amount != nil {
		p.PackAmount(*d.Amount)
	}
}

func UnmarshalDonate(p *codec.Packer) (Action, error) {
	var donate Donate
	donate.Name = p.UnpackString(true)
	if p.UnpackBool() {
		a := p.UnpackAmount(false)
		donate.Amount = &a
	}
	return &donate, p.Err()
}
