// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"

	"github.com/ava-labs/crowdfund/amount"
	"github.com/ava-labs/crowdfund/codec"
	"github.com/ava-labs/crowdfund/state"
)

// Rules are the deployment parameters every action is executed under.
type Rules interface {
	GetContractAddress() codec.Address
	GetDenom() string
	GetMinimumDonation() amount.Amount
	GetAllowDuplicateNames() bool
}

// Action is a command that mutates campaign or ledger state on behalf of an
// authenticated [actor].
type Action interface {
	GetTypeID() uint8

	// StateKeys lists every key Execute may touch. Execute is run against a
	// view that rejects anything else.
	StateKeys(actor codec.Address, rules Rules) state.Keys

	// Execute validates the command and applies it to [mu]. On error the
	// caller must discard every write made to [mu].
	Execute(
		ctx context.Context,
		rules Rules,
		mu state.Mutable,
		actor codec.Address,
		funds []Coin,
	) (*Result, error)

	Size() int
	Marshal(p *codec.Packer)
}

// Result is returned by every successful action.
type Result struct {
	Status string         `json:"status"`
	Amount *amount.Amount `json:"amount,omitempty"`
}
