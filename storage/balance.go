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
	"github.com/ava-labs/crowdfund/state"
)

// GetBalance returns the ledger balance of [addr]. An account that was
// never credited holds zero.
func GetBalance(ctx context.Context, im state.Immutable, addr codec.Address) (amount.Amount, error) {
	return innerGetBalance(im.GetValue(ctx, BalanceKey(addr)))
}

func innerGetBalance(v []byte, err error) (amount.Amount, error) {
	if errors.Is(err, database.ErrNotFound) {
		return amount.Zero, nil
	}
	if err != nil {
		return amount.Zero, err
	}
	bal, err := amount.FromBytes(v)
	if err != nil {
		return amount.Zero, fmt.Errorf("%w: %d byte balance expected: %w", ErrCorruptedData, amount.Len, err)
	}
	return bal, nil
}

// SetBalance overwrites the balance of [addr]. A zero balance is stored,
// never removed.
func SetBalance(ctx context.Context, mu state.Mutable, addr codec.Address, balance amount.Amount) error {
	return mu.Insert(ctx, BalanceKey(addr), balance.Bytes())
}

// Deposit credits [addr] with funds that entered from outside the ledger,
// such as a payment attached to a command.
func Deposit(ctx context.Context, mu state.Mutable, addr codec.Address, value amount.Amount) (amount.Amount, error) {
	bal, err := GetBalance(ctx, mu, addr)
	if err != nil {
		return amount.Zero, err
	}
	nbal, err := bal.Add(value)
	if err != nil {
		return amount.Zero, fmt.Errorf("%w: could not deposit %s to %s: %w", ErrOverflow, value, addr, err)
	}
	return nbal, SetBalance(ctx, mu, addr, nbal)
}
