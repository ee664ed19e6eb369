// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ava-labs/crowdfund/utils"
)

func newKeyCmd(c *crowdfund) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Manage named signing keys",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "create [name]",
			Short: "Generate a key and store it under [name]",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				key, err := c.keys.Create(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				c.log.Debug("created key",
					zap.String("name", key.Name),
					zap.Stringer("address", key.Address),
				)
				utils.Fprintf(cmd.OutOrStdout(), "{{green}}created key %s:{{/}} %s\n", key.Name, key.Address)
				return nil
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List stored keys and their addresses",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				keys, err := c.keys.List(cmd.Context())
				if err != nil {
					return err
				}
				if len(keys) == 0 {
					utils.Fprintf(cmd.OutOrStdout(), "{{yellow}}no keys stored{{/}}\n")
					return nil
				}
				for i, key := range keys {
					utils.Fprintf(cmd.OutOrStdout(), "%d) {{cyan}}%s:{{/}} %s\n", i, key.Name, key.Address)
				}
				return nil
			},
		},
	)
	return cmd
}
