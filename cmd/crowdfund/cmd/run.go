// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ava-labs/crowdfund/actions"
	"github.com/ava-labs/crowdfund/auth"
	"github.com/ava-labs/crowdfund/controller"
)

func newRunCmd(c *crowdfund) *cobra.Command {
	return &cobra.Command{
		Use:   "run [path | -]",
		Short: "Run a plan of commands and queries, printing one JSON response per step",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := readPlan(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			r := &runner{
				log:        c.log,
				controller: c.controller,
				keys:       c.keys,
				out:        cmd.OutOrStdout(),
			}
			return r.Run(cmd.Context(), plan)
		},
	}
}

// readPlan reads from [stdin] when [path] is "-".
func readPlan(stdin io.Reader, path string) (*Plan, error) {
	var (
		b   []byte
		err error
	)
	if path == "-" {
		b, err = io.ReadAll(stdin)
	} else {
		b, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}
	plan, err := unmarshalPlan(b)
	if err != nil {
		return nil, err
	}
	return plan, plan.verify()
}

type runner struct {
	log        logging.Logger
	controller *controller.Controller
	keys       *keystore
	out        io.Writer
}

// Run executes every step in order. A failed step is reported in its
// response and does not stop the plan unless it violates the step's
// assertions.
func (r *runner) Run(ctx context.Context, plan *Plan) error {
	r.log.Info("running plan",
		zap.String("name", plan.Name),
		zap.String("description", plan.Description),
		zap.Int("steps", len(plan.Steps)),
	)
	for i := range plan.Steps {
		step := &plan.Steps[i]
		r.log.Debug("running step",
			zap.Int("step", i),
			zap.String("description", step.Description),
			zap.String("method", string(step.Method)),
		)

		resp := newResponse(i)
		stepErr := r.runStep(ctx, plan, step, &resp.Result)
		if stepErr != nil {
			resp.Error = stepErr.Error()
		}
		if err := resp.Print(r.out); err != nil {
			return err
		}
		if step.Require != nil {
			if err := step.Require.check(stepErr, &resp.Result); err != nil {
				return fmt.Errorf("step %d: %w", i, err)
			}
		}
	}
	return nil
}

func (r *runner) runStep(ctx context.Context, plan *Plan, step *Step, result *Result) error {
	params := &step.Params
	switch step.Method {
	case MethodKey:
		key, err := r.keys.Create(ctx, params.Name)
		if errors.Is(err, ErrDuplicateKeyName) {
			r.log.Debug("key already exists", zap.String("name", params.Name))
			key, err = r.keys.Get(ctx, params.Name)
		}
		if err != nil {
			return err
		}
		result.Address = key.Address.String()
		return nil
	case MethodCreate:
		return r.submit(ctx, plan.caller(step), &actions.Create{
			Name:        params.Name,
			Description: params.Description,
		}, params.Funds, result)
	case MethodDonate:
		return r.submit(ctx, plan.caller(step), &actions.Donate{
			Name:   params.Name,
			Amount: params.Amount,
		}, params.Funds, result)
	case MethodWithdraw:
		return r.submit(ctx, plan.caller(step), &actions.Withdraw{
			Name:   params.Name,
			Amount: *params.Amount,
		}, params.Funds, result)
	case MethodCampaigns:
		names, err := r.controller.Campaigns(ctx)
		if err != nil {
			return err
		}
		result.Campaigns = names
		return nil
	case MethodCampaign:
		campaign, err := r.controller.Campaign(ctx, params.Name)
		if err != nil {
			return err
		}
		result.Campaign = campaign
		return nil
	case MethodBalance:
		addr, err := resolveAddress(ctx, r.keys, r.controller.ContractAddress(), params.Account)
		if err != nil {
			return err
		}
		balance, err := r.controller.Balance(ctx, addr)
		if err != nil {
			return err
		}
		result.Balance = &balance
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidMethod, step.Method)
	}
}

// submit signs [action] with the named key and executes it.
func (r *runner) submit(
	ctx context.Context,
	caller string,
	action actions.Action,
	funds []actions.Coin,
	result *Result,
) error {
	key, err := r.keys.Get(ctx, caller)
	if err != nil {
		return err
	}
	cmd, err := auth.Sign(action, funds, key.priv)
	if err != nil {
		return err
	}
	res, err := r.controller.Submit(ctx, cmd)
	if err != nil {
		return err
	}
	result.Status = res.Status
	result.Amount = res.Amount
	return nil
}
