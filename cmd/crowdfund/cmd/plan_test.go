// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/crowdfund/amount"
	"github.com/ava-labs/crowdfund/consts"
	"github.com/ava-labs/crowdfund/storage"
)

const yamlPlan = `
name: yaml
description: a plan written in yaml
caller_key: alice
steps:
  - description: key for alice
    method: key
    params:
      name: alice
  - method: donate
    caller: bob
    params:
      name: hope
      funds:
        - denom: ufund
          amount: 2000
    require:
      status: "Campaign found! Donation sent!"
      result:
        operator: ">="
        value: 2000
`

func TestUnmarshalPlan(t *testing.T) {
	require := require.New(t)

	plan, err := unmarshalPlan([]byte(yamlPlan))
	require.NoError(err)
	require.Equal("yaml", plan.Name)
	require.Equal("alice", plan.CallerKey)
	require.Len(plan.Steps, 2)
	require.Equal(MethodKey, plan.Steps[0].Method)
	require.Nil(plan.Steps[0].Require)

	donate := plan.Steps[1]
	require.Equal("bob", plan.caller(&donate))
	require.Len(donate.Params.Funds, 1)
	require.Equal(consts.Denom, donate.Params.Funds[0].Denom)
	require.Equal(amount.New(2000), donate.Params.Funds[0].Amount)
	require.Nil(donate.Params.Amount)
	require.Equal(NumericGe, donate.Require.Result.Operator)
	require.Equal(amount.New(2000), donate.Require.Result.Value)
	require.NoError(plan.verify())

	plan, err = unmarshalPlan([]byte(`{
		"name": "json",
		"callerKey": "alice",
		"steps": [
			{"method": "withdraw", "params": {"name": "hope", "amount": "5"}},
			{"method": "balance", "params": {"account": "contract"}}
		]
	}`))
	require.NoError(err)
	require.Equal("json", plan.Name)
	require.Equal("alice", plan.caller(&plan.Steps[0]))
	require.Equal(amount.New(5), *plan.Steps[0].Params.Amount)
	require.Equal(contractAlias, plan.Steps[1].Params.Account)
	require.NoError(plan.verify())

	_, err = unmarshalPlan([]byte("\t- not: [valid"))
	require.ErrorIs(err, ErrInvalidConfigFormat)
}

func TestVerifyPlan(t *testing.T) {
	amt := amount.New(1)
	tests := []struct {
		name    string
		plan    Plan
		wantErr error
	}{
		{
			name:    "no steps",
			plan:    Plan{},
			wantErr: ErrInvalidPlan,
		},
		{
			name:    "unknown method",
			plan:    Plan{Steps: []Step{{Method: "transfer"}}},
			wantErr: ErrInvalidMethod,
		},
		{
			name:    "create without caller",
			plan:    Plan{Steps: []Step{{Method: MethodCreate, Params: Params{Name: "hope"}}}},
			wantErr: ErrMissingParam,
		},
		{
			name:    "withdraw without amount",
			plan:    Plan{CallerKey: "alice", Steps: []Step{{Method: MethodWithdraw, Params: Params{Name: "hope"}}}},
			wantErr: ErrMissingParam,
		},
		{
			name:    "balance without account",
			plan:    Plan{Steps: []Step{{Method: MethodBalance}}},
			wantErr: ErrMissingParam,
		},
		{
			name: "invalid operator",
			plan: Plan{Steps: []Step{{
				Method:  MethodCampaigns,
				Require: &Require{Result: &Assertion{Operator: "~"}},
			}}},
			wantErr: ErrInvalidOperator,
		},
		{
			name: "valid",
			plan: Plan{CallerKey: "alice", Steps: []Step{
				{Method: MethodKey, Params: Params{Name: "alice"}},
				{Method: MethodCreate, Params: Params{Name: "hope"}},
				{Method: MethodWithdraw, Params: Params{Name: "hope", Amount: &amt}},
				{Method: MethodCampaigns},
			}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.plan.verify()
			require.ErrorIs(t, err, tt.wantErr)
			if tt.wantErr != nil && !errors.Is(tt.wantErr, ErrInvalidPlan) {
				require.ErrorIs(t, err, ErrInvalidStep)
			}
		})
	}
}

func TestAssertion(t *testing.T) {
	tests := []struct {
		operator Operator
		actual   uint64
		want     bool
	}{
		{NumericGt, 3, true},
		{NumericGt, 2, false},
		{NumericLt, 1, true},
		{NumericLt, 2, false},
		{NumericGe, 2, true},
		{NumericGe, 1, false},
		{NumericLe, 2, true},
		{NumericLe, 3, false},
		{NumericEq, 2, true},
		{NumericEq, 3, false},
		{NumericNe, 3, true},
		{NumericNe, 2, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.operator), func(t *testing.T) {
			a := &Assertion{Operator: tt.operator, Value: amount.New(2)}
			holds, err := a.holds(amount.New(tt.actual))
			require.NoError(t, err)
			require.Equal(t, tt.want, holds)
		})
	}
}

func TestRequireCheck(t *testing.T) {
	errStep := errors.New("only the campaign creator can withdraw")
	total := amount.New(1500)
	tests := []struct {
		name    string
		require Require
		stepErr error
		result  Result
		wantErr error
	}{
		{
			name:    "expected error",
			require: Require{Error: "campaign creator"},
			stepErr: errStep,
		},
		{
			name:    "missing expected error",
			require: Require{Error: "campaign creator"},
			wantErr: ErrAssertionFailed,
		},
		{
			name:    "different error",
			require: Require{Error: "not found"},
			stepErr: errStep,
			wantErr: ErrAssertionFailed,
		},
		{
			name:    "unexpected error",
			require: Require{Status: "ok"},
			stepErr: errStep,
			wantErr: ErrAssertionFailed,
		},
		{
			name:    "status mismatch",
			require: Require{Status: "ok"},
			result:  Result{Status: "not ok"},
			wantErr: ErrAssertionFailed,
		},
		{
			name:    "amount holds",
			require: Require{Result: &Assertion{Operator: NumericEq, Value: total}},
			result:  Result{Amount: &total},
		},
		{
			name:    "campaign amount holds",
			require: Require{Result: &Assertion{Operator: NumericEq, Value: total}},
			result:  Result{Campaign: &storage.Campaign{Amount: total}},
		},
		{
			name:    "campaign count",
			require: Require{Result: &Assertion{Operator: NumericEq, Value: amount.Zero}},
			result:  Result{Campaigns: []string{}},
		},
		{
			name:    "amount fails",
			require: Require{Result: &Assertion{Operator: NumericLt, Value: total}},
			result:  Result{Balance: &total},
			wantErr: ErrAssertionFailed,
		},
		{
			name:    "no amount reported",
			require: Require{Result: &Assertion{Operator: NumericEq, Value: total}},
			result:  Result{Address: "0x00"},
			wantErr: ErrAssertionFailed,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.require.check(tt.stepErr, &tt.result)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestResponsePrint(t *testing.T) {
	require := require.New(t)

	balance := amount.New(1500)
	resp := newResponse(3)
	resp.Result.Balance = &balance
	var b bytes.Buffer
	require.NoError(resp.Print(&b))
	require.JSONEq(`{"id":3,"result":{"balance":"1500"}}`, b.String())

	b.Reset()
	resp = newResponse(4)
	resp.Error = "campaign not found"
	require.NoError(resp.Print(&b))
	require.JSONEq(`{"id":4,"result":{},"error":"campaign not found"}`, b.String())
}
