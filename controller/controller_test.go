// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package controller

import (
	"context"
	"errors"
	"testing"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/sync/errgroup"

	"github.com/ava-labs/crowdfund/actions"
	"github.com/ava-labs/crowdfund/amount"
	"github.com/ava-labs/crowdfund/auth"
	"github.com/ava-labs/crowdfund/codec"
	"github.com/ava-labs/crowdfund/config"
	"github.com/ava-labs/crowdfund/consts"
	"github.com/ava-labs/crowdfund/crypto/ed25519"
	"github.com/ava-labs/crowdfund/state"
	"github.com/ava-labs/crowdfund/storage"
	"github.com/ava-labs/crowdfund/trace"
)

var (
	alice = codec.CreateAddress(auth.ED25519ID, [32]byte{1})
	bob   = codec.CreateAddress(auth.ED25519ID, [32]byte{2})
	carol = codec.CreateAddress(auth.ED25519ID, [32]byte{3})

	errWriteFailed = errors.New("write failed")
)

func newController(t *testing.T, db state.Backend) *Controller {
	t.Helper()
	cfg, err := config.New([]byte(`{"minimumDonation": "1000"}`))
	require.NoError(t, err)
	c, err := New(cfg, db, logging.NoLog{}, trace.Noop(consts.Name), prometheus.NewRegistry())
	require.NoError(t, err)
	require.NoError(t, c.Init(context.Background()))
	return c
}

func coins(v uint64) []actions.Coin {
	return []actions.Coin{{Denom: consts.Denom, Amount: amount.New(v)}}
}

func (c *Controller) mustBalance(t *testing.T, addr codec.Address) amount.Amount {
	bal, err := c.Balance(context.Background(), addr)
	require.NoError(t, err)
	return bal
}

func (c *Controller) mustCampaign(t *testing.T, name string) *storage.Campaign {
	campaign, err := c.Campaign(context.Background(), name)
	require.NoError(t, err)
	return campaign
}

func TestScenarios(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	c := newController(t, memdb.New())
	contract := c.ContractAddress()
	const name = "alice-campaign"

	// 1. Create by alice
	res, err := c.Execute(ctx, alice, nil, &actions.Create{Name: name, Description: "desc"})
	require.NoError(err)
	require.Equal("Campaign alice-campaign created", res.Status)
	campaign := c.mustCampaign(t, name)
	require.Equal(alice, campaign.Owner)
	require.True(campaign.Amount.IsZero())

	names, err := c.Campaigns(ctx)
	require.NoError(err)
	require.Equal([]string{name}, names)

	// 2. Donation of 2000 by bob
	res, err = c.Execute(ctx, bob, coins(2_000), &actions.Donate{Name: name})
	require.NoError(err)
	require.Equal(amount.New(2_000), *res.Amount)
	require.Equal(amount.New(2_000), c.mustCampaign(t, name).Amount)
	require.Equal(amount.New(2_000), c.mustBalance(t, contract))

	// 3. Below minimum and wrong denomination
	_, err = c.Execute(ctx, bob, coins(999), &actions.Donate{Name: name})
	require.ErrorIs(err, actions.ErrInvalidDonation)
	_, err = c.Execute(ctx, bob, []actions.Coin{{Denom: "uscrt", Amount: amount.New(2_000)}}, &actions.Donate{Name: name})
	require.ErrorIs(err, actions.ErrInvalidDonation)
	require.Equal(amount.New(2_000), c.mustCampaign(t, name).Amount)
	require.Equal(amount.New(2_000), c.mustBalance(t, contract))

	// 4. Withdraw by bob
	_, err = c.Execute(ctx, bob, nil, &actions.Withdraw{Name: name, Amount: amount.New(2_000)})
	require.ErrorIs(err, actions.ErrUnauthorized)
	require.Equal(amount.New(2_000), c.mustCampaign(t, name).Amount)
	require.Equal(amount.New(2_000), c.mustBalance(t, contract))
	require.True(c.mustBalance(t, bob).IsZero())

	// 5. Withdraw by alice
	res, err = c.Execute(ctx, alice, nil, &actions.Withdraw{Name: name, Amount: amount.New(2_000)})
	require.NoError(err)
	require.Equal(actions.WithdrawnStatus, res.Status)
	require.True(res.Amount.IsZero())
	require.True(c.mustCampaign(t, name).Amount.IsZero())
	require.Equal(amount.New(2_000), c.mustBalance(t, alice))
	require.True(c.mustBalance(t, contract).IsZero())

	// 6. Nothing left
	_, err = c.Execute(ctx, alice, nil, &actions.Withdraw{Name: name, Amount: amount.New(1)})
	require.ErrorIs(err, storage.ErrInsufficientFunds)
	require.True(c.mustCampaign(t, name).Amount.IsZero())
	require.Equal(amount.New(2_000), c.mustBalance(t, alice))

	require.Equal(uint64(3), c.Executed())
	require.Equal(float64(1), testutil.ToFloat64(c.metrics.failures.WithLabelValues("withdraw", "unauthorized")))
	require.Equal(float64(2), testutil.ToFloat64(c.metrics.failures.WithLabelValues("donate", "invalid_donation")))
	require.Equal(float64(1), testutil.ToFloat64(c.metrics.campaigns))
}

func TestCampaignNotFound(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	c := newController(t, memdb.New())

	_, err := c.Campaign(ctx, "missing")
	require.ErrorIs(err, storage.ErrCampaignNotFound)
	_, err = c.Execute(ctx, bob, coins(2_000), &actions.Donate{Name: "missing"})
	require.ErrorIs(err, storage.ErrCampaignNotFound)
	_, err = c.Execute(ctx, alice, nil, &actions.Withdraw{Name: "missing", Amount: amount.New(1)})
	require.ErrorIs(err, storage.ErrCampaignNotFound)
}

func TestWithdrawUnbackedCampaign(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	db := memdb.New()
	c := newController(t, db)
	contract := c.ContractAddress()

	_, err := c.Execute(ctx, alice, nil, &actions.Create{Name: "c"})
	require.NoError(err)
	_, err = c.Execute(ctx, bob, coins(1_000), &actions.Donate{Name: "c"})
	require.NoError(err)

	// Raise the record above what the contract holds.
	mu := state.NewSimpleMutable(db)
	campaign := c.mustCampaign(t, "c")
	campaign.Amount = amount.New(3_000)
	require.NoError(storage.SetCampaign(ctx, mu, "c", campaign))
	require.NoError(mu.Commit(ctx))

	_, err = c.Execute(ctx, alice, nil, &actions.Withdraw{Name: "c", Amount: amount.New(3_000)})
	require.ErrorIs(err, storage.ErrInsufficientFunds)
	require.Equal(amount.New(3_000), c.mustCampaign(t, "c").Amount)
	require.Equal(amount.New(1_000), c.mustBalance(t, contract))
	require.True(c.mustBalance(t, alice).IsZero())
}

func TestInitIdempotent(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	db := memdb.New()

	c := newController(t, db)
	_, err := c.Execute(ctx, alice, nil, &actions.Create{Name: "c"})
	require.NoError(err)

	c = newController(t, db)
	names, err := c.Campaigns(ctx)
	require.NoError(err)
	require.Equal([]string{"c"}, names)
	require.Equal(float64(1), testutil.ToFloat64(c.metrics.campaigns))
}

func TestConservation(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	c := newController(t, memdb.New())
	contract := c.ContractAddress()

	owners := map[string]codec.Address{"a": alice, "b": bob}
	for name, owner := range owners {
		_, err := c.Execute(ctx, owner, nil, &actions.Create{Name: name})
		require.NoError(err)
	}

	type step struct {
		actor  codec.Address
		funds  []actions.Coin
		action actions.Action
	}
	steps := []step{
		{carol, coins(5_000), &actions.Donate{Name: "a"}},
		{bob, coins(1_000), &actions.Donate{Name: "a"}},
		{alice, coins(3_000), &actions.Donate{Name: "b"}},
		{bob, nil, &actions.Withdraw{Name: "a", Amount: amount.New(1)}},
		{alice, nil, &actions.Withdraw{Name: "a", Amount: amount.New(2_500)}},
		{alice, nil, &actions.Withdraw{Name: "a", Amount: amount.New(4_000)}},
		{bob, nil, &actions.Withdraw{Name: "b", Amount: amount.New(3_000)}},
		{carol, coins(10), &actions.Donate{Name: "b"}},
		{alice, nil, &actions.Withdraw{Name: "a", Amount: amount.New(3_500)}},
	}

	deposited := amount.Zero
	for _, s := range steps {
		_, err := c.Execute(ctx, s.actor, s.funds, s.action)
		if _, ok := s.action.(*actions.Donate); ok && err == nil {
			deposited, err = deposited.Add(s.funds[0].Amount)
			require.NoError(err)
		}

		// Every unit ever deposited is held by exactly one account
		total := amount.Zero
		for _, addr := range []codec.Address{alice, bob, carol, contract} {
			total, err = total.Add(c.mustBalance(t, addr))
			require.NoError(err)
		}
		require.Equal(deposited, total)

		// The contract holds exactly what the campaigns record
		recorded, err := c.mustCampaign(t, "a").Amount.Add(c.mustCampaign(t, "b").Amount)
		require.NoError(err)
		require.Equal(recorded, c.mustBalance(t, contract))
	}
	require.Equal(amount.New(9_000), deposited)
	require.True(c.mustCampaign(t, "a").Amount.IsZero())
	require.Equal(amount.New(6_000), c.mustBalance(t, alice))
}

type failingBatch struct {
	database.Batch
}

func (failingBatch) Write() error {
	return errWriteFailed
}

func TestCommitFailureLeavesNoWrites(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	ctrl := gomock.NewController(t)

	db := memdb.New()
	c := newController(t, db)
	_, err := c.Execute(ctx, alice, nil, &actions.Create{Name: "c"})
	require.NoError(err)

	backend := state.NewMockBackend(ctrl)
	backend.EXPECT().Get(gomock.Any()).DoAndReturn(db.Get).AnyTimes()
	backend.EXPECT().NewBatch().Return(failingBatch{db.NewBatch()}).Times(1)
	c.db = backend

	_, err = c.Execute(ctx, bob, coins(2_000), &actions.Donate{Name: "c"})
	require.ErrorIs(err, errWriteFailed)
	require.Equal(float64(1), testutil.ToFloat64(c.metrics.failures.WithLabelValues("donate", "other")))

	c.db = db
	require.True(c.mustCampaign(t, "c").Amount.IsZero())
	require.True(c.mustBalance(t, c.ContractAddress()).IsZero())
	require.True(c.mustBalance(t, bob).IsZero())
}

func TestSubmit(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	c := newController(t, memdb.New())

	priv, err := ed25519.GeneratePrivateKey()
	require.NoError(err)
	cmd, err := auth.Sign(&actions.Create{Name: "signed"}, nil, priv)
	require.NoError(err)

	_, err = c.Submit(ctx, cmd)
	require.NoError(err)
	require.Equal(auth.NewED25519Address(priv.PublicKey()), c.mustCampaign(t, "signed").Owner)

	cmd.Action = &actions.Create{Name: "forged"}
	_, err = c.Submit(ctx, cmd)
	require.Error(err)
	_, err = c.Campaign(ctx, "forged")
	require.ErrorIs(err, storage.ErrCampaignNotFound)
}

func TestConcurrentDonations(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	c := newController(t, memdb.New())
	const (
		name    = "busy"
		donors  = 32
		donated = 1_000
	)

	_, err := c.Execute(ctx, alice, nil, &actions.Create{Name: name})
	require.NoError(err)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < donors; i++ {
		donor := codec.CreateAddress(auth.ED25519ID, [32]byte{0xd, byte(i)})
		g.Go(func() error {
			_, err := c.Execute(gctx, donor, coins(donated), &actions.Donate{Name: name})
			return err
		})
	}
	require.NoError(g.Wait())

	total := amount.New(donors * donated)
	require.Equal(total, c.mustCampaign(t, name).Amount)
	require.Equal(total, c.mustBalance(t, c.ContractAddress()))
	require.Equal(uint64(donors+1), c.Executed())
}
