// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/crowdfund/amount"
	"github.com/ava-labs/crowdfund/codec"
	"github.com/ava-labs/crowdfund/consts"
	"github.com/ava-labs/crowdfund/state"
	"github.com/ava-labs/crowdfund/storage"
)

var (
	alice    = codec.CreateAddress(0, [32]byte{1})
	bob      = codec.CreateAddress(0, [32]byte{2})
	contract = codec.CreateAddress(1, [32]byte{3})
)

type testRules struct {
	allowDuplicates bool
}

func (testRules) GetContractAddress() codec.Address { return contract }

func (testRules) GetDenom() string { return consts.Denom }

func (testRules) GetMinimumDonation() amount.Amount { return amount.New(1_000) }

func (r testRules) GetAllowDuplicateNames() bool { return r.allowDuplicates }

func coins(v uint64) []Coin {
	return []Coin{{Denom: consts.Denom, Amount: amount.New(v)}}
}

// execute runs [a] the way the controller does: scoped to its declared
// keys and with every write dropped on failure.
func execute(
	t *testing.T,
	store state.MutableStorage,
	a Action,
	actor codec.Address,
	funds []Coin,
) (*Result, error) {
	t.Helper()
	rules := testRules{}
	scratch := state.MutableStorage{}
	for k, v := range store {
		scratch[k] = v
	}
	res, err := a.Execute(context.Background(), rules, state.NewScopedMutable(scratch, a.StateKeys(actor, rules)), actor, funds)
	if err != nil {
		return nil, err
	}
	clear(store)
	for k, v := range scratch {
		store[k] = v
	}
	return res, nil
}

func newStore(t *testing.T) state.MutableStorage {
	store := state.MutableStorage{}
	_, err := storage.InitRegistry(context.Background(), store)
	require.NoError(t, err)
	return store
}

func campaignAmount(t *testing.T, store state.MutableStorage, name string) amount.Amount {
	c, err := storage.GetCampaign(context.Background(), store, name)
	require.NoError(t, err)
	return c.Amount
}

func balanceOf(t *testing.T, store state.MutableStorage, addr codec.Address) amount.Amount {
	bal, err := storage.GetBalance(context.Background(), store, addr)
	require.NoError(t, err)
	return bal
}

func TestCampaignLifecycle(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	store := newStore(t)
	const name = "alice-campaign"

	// Create by alice
	res, err := execute(t, store, &Create{Name: name, Description: "desc"}, alice, nil)
	require.NoError(err)
	require.Equal("Campaign alice-campaign created", res.Status)
	require.Nil(res.Amount)

	c, err := storage.GetCampaign(ctx, store, name)
	require.NoError(err)
	require.Equal(alice, c.Owner)
	require.Equal("desc", c.Description)
	require.True(c.Amount.IsZero())

	// Donation of 2000 by bob
	res, err = execute(t, store, &Donate{Name: name}, bob, coins(2_000))
	require.NoError(err)
	require.Equal(DonatedStatus, res.Status)
	require.Equal(amount.New(2_000), *res.Amount)
	require.Equal(amount.New(2_000), campaignAmount(t, store, name))
	require.Equal(amount.New(2_000), balanceOf(t, store, contract))
	require.True(balanceOf(t, store, bob).IsZero())

	// Below minimum and wrong denomination
	for _, funds := range [][]Coin{
		coins(999),
		{{Denom: "uatom", Amount: amount.New(2_000)}},
	} {
		_, err = execute(t, store, &Donate{Name: name}, bob, funds)
		require.ErrorIs(err, ErrInvalidDonation)
		require.Equal(amount.New(2_000), campaignAmount(t, store, name))
		require.Equal(amount.New(2_000), balanceOf(t, store, contract))
	}

	// Withdraw by bob is rejected
	before := len(store)
	_, err = execute(t, store, &Withdraw{Name: name, Amount: amount.New(2_000)}, bob, nil)
	require.ErrorIs(err, ErrUnauthorized)
	require.Equal(amount.New(2_000), campaignAmount(t, store, name))
	require.Len(store, before)

	// Withdraw by alice
	res, err = execute(t, store, &Withdraw{Name: name, Amount: amount.New(2_000)}, alice, nil)
	require.NoError(err)
	require.Equal(WithdrawnStatus, res.Status)
	require.True(res.Amount.IsZero())
	require.True(campaignAmount(t, store, name).IsZero())
	require.Equal(amount.New(2_000), balanceOf(t, store, alice))
	require.True(balanceOf(t, store, contract).IsZero())

	// Contract balance is zeroed, not removed
	_, ok := store[string(storage.BalanceKey(contract))]
	require.True(ok)

	// Nothing left to withdraw
	_, err = execute(t, store, &Withdraw{Name: name, Amount: amount.New(1)}, alice, nil)
	require.ErrorIs(err, storage.ErrInsufficientFunds)
	require.True(campaignAmount(t, store, name).IsZero())
	require.Equal(amount.New(2_000), balanceOf(t, store, alice))
}

func TestCreateValidation(t *testing.T) {
	tests := []struct {
		name    string
		action  *Create
		funds   []Coin
		wantErr error
	}{
		{
			name:    "empty name",
			action:  &Create{Name: ""},
			wantErr: ErrInvalidName,
		},
		{
			name:    "name too long",
			action:  &Create{Name: strings.Repeat("a", MaxCampaignNameSize+1)},
			wantErr: ErrInvalidName,
		},
		{
			name:    "invalid utf8 name",
			action:  &Create{Name: "\xff"},
			wantErr: ErrInvalidName,
		},
		{
			name:    "description too long",
			action:  &Create{Name: "c", Description: strings.Repeat("d", MaxDescriptionSize+1)},
			wantErr: ErrInvalidDescription,
		},
		{
			name:    "funds attached",
			action:  &Create{Name: "c"},
			funds:   coins(1_000),
			wantErr: ErrUnexpectedFunds,
		},
		{
			name:   "longest name",
			action: &Create{Name: strings.Repeat("a", MaxCampaignNameSize)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			store := newStore(t)
			_, err := execute(t, store, tt.action, alice, tt.funds)
			require.ErrorIs(err, tt.wantErr)
		})
	}
}

func TestCreateDuplicate(t *testing.T) {
	require := require.New(t)
	store := newStore(t)

	_, err := execute(t, store, &Create{Name: "c"}, alice, nil)
	require.NoError(err)
	_, err = execute(t, store, &Create{Name: "c"}, bob, nil)
	require.ErrorIs(err, storage.ErrCampaignExists)

	names, err := storage.GetCampaignNames(context.Background(), store)
	require.NoError(err)
	require.Equal([]string{"c"}, names)
}

func TestDonateValidation(t *testing.T) {
	declared := amount.New(1_500)
	tests := []struct {
		name    string
		action  *Donate
		funds   []Coin
		wantErr error
	}{
		{
			name:    "unknown campaign",
			action:  &Donate{Name: "missing"},
			funds:   coins(2_000),
			wantErr: storage.ErrCampaignNotFound,
		},
		{
			name:    "no coins",
			action:  &Donate{Name: "c"},
			wantErr: ErrInvalidDonation,
		},
		{
			name:    "two coins",
			action:  &Donate{Name: "c"},
			funds:   append(coins(1_000), coins(1_000)...),
			wantErr: ErrInvalidDonation,
		},
		{
			name:    "declared amount mismatch",
			action:  &Donate{Name: "c", Amount: &declared},
			funds:   coins(2_000),
			wantErr: ErrInvalidDonation,
		},
		{
			name:   "declared amount matches",
			action: &Donate{Name: "c", Amount: &declared},
			funds:  coins(1_500),
		},
		{
			name:   "exactly minimum",
			action: &Donate{Name: "c"},
			funds:  coins(1_000),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			store := newStore(t)
			_, err := execute(t, store, &Create{Name: "c"}, alice, nil)
			require.NoError(err)

			_, err = execute(t, store, tt.action, bob, tt.funds)
			require.ErrorIs(err, tt.wantErr)
			if tt.wantErr != nil {
				require.True(campaignAmount(t, store, "c").IsZero())
				require.True(balanceOf(t, store, contract).IsZero())
			} else {
				require.Equal(tt.funds[0].Amount, campaignAmount(t, store, "c"))
				require.Equal(tt.funds[0].Amount, balanceOf(t, store, contract))
			}
		})
	}
}

func TestDonateOverflow(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	store := newStore(t)
	_, err := execute(t, store, &Create{Name: "c"}, alice, nil)
	require.NoError(err)

	c, err := storage.GetCampaign(ctx, store, "c")
	require.NoError(err)
	c.Amount = amount.Max()
	require.NoError(storage.SetCampaign(ctx, store, "c", c))

	_, err = execute(t, store, &Donate{Name: "c"}, bob, coins(1_000))
	require.ErrorIs(err, storage.ErrOverflow)
	require.Equal(amount.Max(), campaignAmount(t, store, "c"))
	require.True(balanceOf(t, store, contract).IsZero())
}

func TestWithdrawPartial(t *testing.T) {
	require := require.New(t)
	store := newStore(t)
	_, err := execute(t, store, &Create{Name: "c"}, alice, nil)
	require.NoError(err)
	_, err = execute(t, store, &Donate{Name: "c"}, bob, coins(5_000))
	require.NoError(err)

	res, err := execute(t, store, &Withdraw{Name: "c", Amount: amount.New(1_200)}, alice, nil)
	require.NoError(err)
	require.Equal(amount.New(3_800), *res.Amount)
	require.Equal(amount.New(3_800), balanceOf(t, store, contract))
	require.Equal(amount.New(1_200), balanceOf(t, store, alice))

	_, err = execute(t, store, &Withdraw{Name: "missing", Amount: amount.New(1)}, alice, nil)
	require.ErrorIs(err, storage.ErrCampaignNotFound)

	_, err = execute(t, store, &Withdraw{Name: "c", Amount: amount.New(1)}, alice, coins(1_000))
	require.ErrorIs(err, ErrUnexpectedFunds)
}

func TestWithdrawUnbackedCampaign(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	store := newStore(t)
	_, err := execute(t, store, &Create{Name: "c"}, alice, nil)
	require.NoError(err)
	_, err = execute(t, store, &Donate{Name: "c"}, bob, coins(5_000))
	require.NoError(err)

	// The record claims more than the contract holds.
	require.NoError(storage.SetBalance(ctx, store, contract, amount.New(1_000)))

	_, err = execute(t, store, &Withdraw{Name: "c", Amount: amount.New(5_000)}, alice, nil)
	require.ErrorIs(err, storage.ErrInsufficientFunds)
	require.Equal(amount.New(5_000), campaignAmount(t, store, "c"))
	require.Equal(amount.New(1_000), balanceOf(t, store, contract))
	require.True(balanceOf(t, store, alice).IsZero())
}

func TestStateKeysCoincidingAccounts(t *testing.T) {
	tests := []struct {
		name   string
		action Action
	}{
		{
			name:   "donate",
			action: &Donate{Name: "c"},
		},
		{
			name:   "withdraw",
			action: &Withdraw{Name: "c"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			keys := tt.action.StateKeys(contract, testRules{})
			require.Len(keys, 2)
			require.True(keys[string(storage.BalanceKey(contract))].Has(state.Allocate | state.Write))
			require.True(keys[string(storage.CampaignKey("c"))].Has(state.Write))
		})
	}
}

func TestUndeclaredKeysRejected(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	store := newStore(t)

	create := &Create{Name: "c"}
	keys := create.StateKeys(alice, testRules{})
	delete(keys, string(storage.RegistryKey()))

	_, err := create.Execute(ctx, testRules{}, state.NewScopedMutable(store, keys), alice, nil)
	require.ErrorIs(err, state.ErrKeyNotSpecified)
}
