// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"fmt"

	"github.com/ava-labs/crowdfund/amount"
	"github.com/ava-labs/crowdfund/codec"
	"github.com/ava-labs/crowdfund/state"
)

// Transfer moves [value] from [from] to [to].
//
// Both new balances are computed before either is written, so a failed
// transfer leaves the ledger untouched. A transfer to self only checks that
// [from] holds [value].
func Transfer(
	ctx context.Context,
	mu state.Mutable,
	from codec.Address,
	to codec.Address,
	value amount.Amount,
) error {
	fromBal, err := GetBalance(ctx, mu, from)
	if err != nil {
		return err
	}
	nfromBal, err := fromBal.Sub(value)
	if err != nil {
		return fmt.Errorf(
			"%w: could not subtract balance (bal=%s, addr=%s, amount=%s)",
			ErrInsufficientFunds,
			fromBal,
			from,
			value,
		)
	}
	if from == to {
		return nil
	}

	toBal, err := GetBalance(ctx, mu, to)
	if err != nil {
		return err
	}
	ntoBal, err := toBal.Add(value)
	if err != nil {
		return fmt.Errorf(
			"%w: could not add balance (bal=%s, addr=%s, amount=%s)",
			ErrOverflow,
			toBal,
			to,
			value,
		)
	}

	if err := SetBalance(ctx, mu, from, nfromBal); err != nil {
		return err
	}
	return SetBalance(ctx, mu, to, ntoBal)
}
