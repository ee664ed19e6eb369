// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"fmt"

	"github.com/ava-labs/crowdfund/amount"
	"github.com/ava-labs/crowdfund/codec"
	"github.com/ava-labs/crowdfund/consts"
)

// Coin is a payment attached to a command by the host.
type Coin struct {
	Denom  string        `json:"denom"  yaml:"denom"`
	Amount amount.Amount `json:"amount" yaml:"amount"`
}

func (c Coin) String() string {
	return c.Amount.String() + c.Denom
}

func CoinsSize(coins []Coin) int {
	size := consts.ByteLen
	for _, c := range coins {
		size += codec.StringLen(c.Denom) + amount.Len
	}
	return size
}

func MarshalCoins(coins []Coin, p *codec.Packer) {
	p.PackByte(uint8(len(coins)))
	for _, c := range coins {
		p.PackString(c.Denom)
		p.PackAmount(c.Amount)
	}
}

func UnmarshalCoins(p *codec.Packer) ([]Coin, error) {
	count := int(p.UnpackByte())
	if count > MaxCoins {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyCoins, count, MaxCoins)
	}
	coins := make([]Coin, 0, count)
	for i := 0; i < count; i++ {
		var c Coin
		c.Denom = p.UnpackString(true)
		c.Amount = p.UnpackAmount(false)
		coins = append(coins, c)
	}
	return coins, p.Err()
}
