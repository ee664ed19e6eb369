// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"
	"fmt"

	"github.com/ava-labs/crowdfund/amount"
	"github.com/ava-labs/crowdfund/codec"
	"github.com/ava-labs/crowdfund/state"
	"github.com/ava-labs/crowdfund/storage"
)

var _ Action = (*Withdraw)(nil)

// Withdraw pays [Amount] of a campaign's funds out to its owner.
type Withdraw struct {
	Name   string        `json:"name"`
	Amount amount.Amount `json:"amount"`
}

func (*Withdraw) GetTypeID() uint8 {
	return withdrawID
}

func (w *Withdraw) StateKeys(actor codec.Address, rules Rules) state.Keys {
	keys := state.Keys{}
	keys.Add(string(storage.CampaignKey(w.Name)), state.Write)
	keys.Add(string(storage.BalanceKey(actor)), state.Allocate|state.Write)
	keys.Add(string(storage.BalanceKey(rules.GetContractAddress())), state.Allocate|state.Write)
	return keys
}

func (w *Withdraw) Execute(
	ctx context.Context,
	rules Rules,
	mu state.Mutable,
	actor codec.Address,
	funds []Coin,
) (*Result, error) {
	if len(funds) > 0 {
		return nil, ErrUnexpectedFunds
	}
	campaign, err := storage.GetCampaign(ctx, mu, w.Name)
	if err != nil {
		return nil, err
	}
	if campaign.Owner != actor {
		return nil, fmt.Errorf("%w: %s does not own %q", ErrUnauthorized, actor, w.Name)
	}
	if err := campaign.Debit(w.Amount); err != nil {
		return nil, err
	}
	if err := storage.Transfer(ctx, mu, rules.GetContractAddress(), actor, w.Amount); err != nil {
		return nil, err
	}
	if err := storage.SetCampaign(ctx, mu, w.Name, campaign); err != nil {
		return nil, err
	}
	remaining := campaign.Amount
	return &Result{Status: WithdrawnStatus, Amount: &remaining}, nil
}

func (w *Withdraw) Size() int {
	return codec.StringLen(w.Name) + amount.Len
}

func (w *Withdraw) Marshal(p *codec.Packer) {
	p.PackString(w.Name)
	p.PackAmount(w.Amount)
}

func UnmarshalWithdraw(p *codec.Packer) (Action, error) {
	var withdraw Withdraw
	withdraw.Name = p.UnpackString(true)
	withdraw.Amount = p.UnpackAmount(false)
	return &withdraw, p.Err()
}
