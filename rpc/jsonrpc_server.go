// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"net/http"

	"github.com/ava-labs/crowdfund/actions"
	"github.com/ava-labs/crowdfund/amount"
	"github.com/ava-labs/crowdfund/auth"
	"github.com/ava-labs/crowdfund/codec"
)

type JSONRPCServer struct {
	c Controller
}

func NewJSONRPCServer(c Controller) *JSONRPCServer {
	return &JSONRPCServer{c}
}

type RulesReply struct {
	Denom           string        `json:"denom"`
	MinimumDonation amount.Amount `json:"minimumDonation"`
	ContractAddress codec.Address `json:"contractAddress"`
}

func (j *JSONRPCServer) Rules(_ *http.Request, _ *struct{}, reply *RulesReply) error {
	rules := j.c.Rules()
	reply.Denom = rules.GetDenom()
	reply.MinimumDonation = rules.GetMinimumDonation()
	reply.ContractAddress = rules.GetContractAddress()
	return nil
}

type CampaignsReply struct {
	Names []string `json:"names"`
}

func (j *JSONRPCServer) Campaigns(req *http.Request, _ *struct{}, reply *CampaignsReply) error {
	ctx, span := j.c.Tracer().Start(req.Context(), "Server.Campaigns")
	defer span.End()

	names, err := j.c.Campaigns(ctx)
	if err != nil {
		return err
	}
	reply.Names = names
	return nil
}

type CampaignArgs struct {
	Name string `json:"name"`
}

type CampaignReply struct {
	Owner       codec.Address `json:"owner"`
	Description string        `json:"description"`
	Amount      amount.Amount `json:"amount"`
}

func (j *JSONRPCServer) Campaign(req *http.Request, args *CampaignArgs, reply *CampaignReply) error {
	ctx, span := j.c.Tracer().Start(req.Context(), "Server.Campaign")
	defer span.End()

	campaign, err := j.c.Campaign(ctx, args.Name)
	if err != nil {
		return err
	}
	reply.Owner = campaign.Owner
	reply.Description = campaign.Description
	reply.Amount = campaign.Amount
	return nil
}

type BalanceArgs struct {
	Address codec.Address `json:"address"`
}

type BalanceReply struct {
	Amount amount.Amount `json:"amount"`
}

func (j *JSONRPCServer) Balance(req *http.Request, args *BalanceArgs, reply *BalanceReply) error {
	ctx, span := j.c.Tracer().Start(req.Context(), "Server.Balance")
	defer span.End()

	balance, err := j.c.Balance(ctx, args.Address)
	if err != nil {
		return err
	}
	reply.Amount = balance
	return nil
}

type SubmitArgs struct {
	Command []byte `json:"command"`
}

type SubmitReply struct {
	Result *actions.Result `json:"result"`
}

func (j *JSONRPCServer) Submit(req *http.Request, args *SubmitArgs, reply *SubmitReply) error {
	ctx, span := j.c.Tracer().Start(req.Context(), "Server.Submit")
	defer span.End()

	if len(args.Command) == 0 {
		return ErrMissingCommand
	}
	cmd, err := auth.ParseSignedCommand(args.Command)
	if err != nil {
		return err
	}
	result, err := j.c.Submit(ctx, cmd)
	if err != nil {
		return err
	}
	reply.Result = result
	return nil
}
