// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/ava-labs/crowdfund/codec"
	"github.com/ava-labs/crowdfund/utils"
)

func newCampaignsCmd(c *crowdfund) *cobra.Command {
	return &cobra.Command{
		Use:   "campaigns",
		Short: "List campaign names in creation order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			names, err := c.controller.Campaigns(cmd.Context())
			if err != nil {
				return err
			}
			utils.Fprintf(cmd.OutOrStdout(), "{{yellow}}campaigns:{{/}} %d\n", len(names))
			for i, name := range names {
				utils.Fprintf(cmd.OutOrStdout(), "%d) %s\n", i, name)
			}
			return nil
		},
	}
}

func newCampaignCmd(c *crowdfund) *cobra.Command {
	return &cobra.Command{
		Use:   "campaign [name]",
		Short: "Show a campaign's owner, description and raised amount",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			campaign, err := c.controller.Campaign(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			utils.Fprintf(out, "{{yellow}}campaign:{{/}} %s\n", args[0])
			utils.Fprintf(out, "{{yellow}}owner:{{/}} %s\n", campaign.Owner)
			utils.Fprintf(out, "{{yellow}}description:{{/}} %s\n", campaign.Description)
			utils.Fprintf(out, "{{yellow}}amount:{{/}} %s %s\n", campaign.Amount, c.cfg.GetDenom())
			return nil
		},
	}
}

func newBalanceCmd(c *crowdfund) *cobra.Command {
	return &cobra.Command{
		Use:   "balance [key name | address | contract]",
		Short: "Show the ledger balance of an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := c.resolveAddress(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			balance, err := c.controller.Balance(cmd.Context(), addr)
			if err != nil {
				return err
			}
			utils.Fprintf(cmd.OutOrStdout(), "{{yellow}}%s:{{/}} %s %s\n", addr, balance, c.cfg.GetDenom())
			return nil
		},
	}
}

// resolveAddress accepts "contract", a hex address or the name of a stored
// key.
func (c *crowdfund) resolveAddress(ctx context.Context, s string) (codec.Address, error) {
	return resolveAddress(ctx, c.keys, c.controller.ContractAddress(), s)
}

func resolveAddress(ctx context.Context, keys *keystore, contract codec.Address, s string) (codec.Address, error) {
	if s == contractAlias {
		return contract, nil
	}
	if addr, err := codec.StringToAddress(s); err == nil {
		return addr, nil
	}
	key, err := keys.Get(ctx, s)
	if err != nil {
		return codec.EmptyAddress, err
	}
	return key.Address, nil
}
