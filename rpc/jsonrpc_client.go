// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"context"
	"strings"

	"github.com/ava-labs/crowdfund/actions"
	"github.com/ava-labs/crowdfund/amount"
	"github.com/ava-labs/crowdfund/auth"
	"github.com/ava-labs/crowdfund/codec"
	"github.com/ava-labs/crowdfund/storage"

	arpc "github.com/ava-labs/avalanchego/utils/rpc"
)

type JSONRPCClient struct {
	requester arpc.EndpointRequester

	rules *RulesReply
}

// NewJSONRPCClient creates a client for the service served at [uri].
func NewJSONRPCClient(uri string) *JSONRPCClient {
	uri = strings.TrimSuffix(uri, "/")
	uri += JSONRPCEndpoint
	return &JSONRPCClient{requester: arpc.NewEndpointRequester(uri)}
}

func (cli *JSONRPCClient) send(ctx context.Context, method string, args interface{}, reply interface{}) error {
	return mapError(cli.requester.SendRequest(ctx, Name+"."+method, args, reply))
}

// Rules are cached after the first successful call.
func (cli *JSONRPCClient) Rules(ctx context.Context) (*RulesReply, error) {
	if cli.rules != nil {
		return cli.rules, nil
	}
	resp := new(RulesReply)
	if err := cli.send(ctx, "rules", nil, resp); err != nil {
		return nil, err
	}
	cli.rules = resp
	return resp, nil
}

func (cli *JSONRPCClient) Campaigns(ctx context.Context) ([]string, error) {
	resp := new(CampaignsReply)
	if err := cli.send(ctx, "campaigns", nil, resp); err != nil {
		return nil, err
	}
	return resp.Names, nil
}

func (cli *JSONRPCClient) Campaign(ctx context.Context, name string) (*storage.Campaign, error) {
	resp := new(CampaignReply)
	if err := cli.send(ctx, "campaign", &CampaignArgs{Name: name}, resp); err != nil {
		return nil, err
	}
	return &storage.Campaign{
		Owner:       resp.Owner,
		Description: resp.Description,
		Amount:      resp.Amount,
	}, nil
}

func (cli *JSONRPCClient) Balance(ctx context.Context, addr codec.Address) (amount.Amount, error) {
	resp := new(BalanceReply)
	if err := cli.send(ctx, "balance", &BalanceArgs{Address: addr}, resp); err != nil {
		return amount.Zero, err
	}
	return resp.Amount, nil
}

func (cli *JSONRPCClient) Submit(ctx context.Context, cmd *auth.SignedCommand) (*actions.Result, error) {
	b, err := cmd.Bytes()
	if err != nil {
		return nil, err
	}
	resp := new(SubmitReply)
	if err := cli.send(ctx, "submit", &SubmitArgs{Command: b}, resp); err != nil {
		return nil, err
	}
	return resp.Result, nil
}
