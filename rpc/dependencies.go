// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"context"

	"github.com/ava-labs/avalanchego/trace"

	"github.com/ava-labs/crowdfund/actions"
	"github.com/ava-labs/crowdfund/amount"
	"github.com/ava-labs/crowdfund/auth"
	"github.com/ava-labs/crowdfund/codec"
	"github.com/ava-labs/crowdfund/storage"
)

type Controller interface {
	Tracer() trace.Tracer
	Rules() actions.Rules

	Campaigns(ctx context.Context) ([]string, error)
	Campaign(ctx context.Context, name string) (*storage.Campaign, error)
	Balance(ctx context.Context, addr codec.Address) (amount.Amount, error)
	Submit(ctx context.Context, cmd *auth.SignedCommand) (*actions.Result, error)
}
