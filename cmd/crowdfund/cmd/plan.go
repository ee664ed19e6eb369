// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/ava-labs/crowdfund/actions"
	"github.com/ava-labs/crowdfund/amount"
	"github.com/ava-labs/crowdfund/storage"
)

const contractAlias = "contract"

type Plan struct {
	// The name of the plan.
	Name string `json:"name" yaml:"name"`
	// A description of the plan.
	Description string `json:"description" yaml:"description"`
	// The key signing every step that does not name its own caller.
	CallerKey string `json:"callerKey" yaml:"caller_key"`
	// Steps to perform in order.
	Steps []Step `json:"steps" yaml:"steps"`
}

type Step struct {
	// Description of the step.
	Description string `json:"description" yaml:"description"`
	// The operation to perform. (required)
	Method Method `json:"method" yaml:"method"`
	// The named key signing the step. Defaults to the plan's caller key.
	Caller string `json:"caller,omitempty" yaml:"caller,omitempty"`
	// The arguments of the operation.
	Params Params `json:"params" yaml:"params"`
	// Assertions against the outcome of the step.
	Require *Require `json:"require,omitempty" yaml:"require,omitempty"`
}

type Method string

const (
	// Create a named key unless it already exists.
	MethodKey Method = "key"

	MethodCreate   Method = "create"
	MethodDonate   Method = "donate"
	MethodWithdraw Method = "withdraw"

	MethodCampaigns Method = "campaigns"
	MethodCampaign  Method = "campaign"
	MethodBalance   Method = "balance"
)

func (m Method) executes() bool {
	return m == MethodCreate || m == MethodDonate || m == MethodWithdraw
}

type Params struct {
	// Campaign name, or key name for [MethodKey].
	Name        string         `json:"name,omitempty" yaml:"name,omitempty"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	Amount      *amount.Amount `json:"amount,omitempty" yaml:"amount,omitempty"`
	// Coins attached to the command.
	Funds []actions.Coin `json:"funds,omitempty" yaml:"funds,omitempty"`
	// Key name, address or "contract" for [MethodBalance].
	Account string `json:"account,omitempty" yaml:"account,omitempty"`
}

type Require struct {
	// A substring the step's error must contain. Without it the step must
	// succeed.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
	// The exact status of an executed command.
	Status string `json:"status,omitempty" yaml:"status,omitempty"`
	// Compared against the amount the step reports: the campaign total for
	// donate, withdraw and campaign, the balance for balance and the number
	// of campaigns for campaigns.
	Result *Assertion `json:"result,omitempty" yaml:"result,omitempty"`
}

type Assertion struct {
	// The operator to use for the assertion.
	Operator Operator `json:"operator" yaml:"operator"`
	// The value to compare against.
	Value amount.Amount `json:"value" yaml:"value"`
}

type Operator string

const (
	NumericGt Operator = ">"
	NumericLt Operator = "<"
	NumericGe Operator = ">="
	NumericLe Operator = "<="
	NumericEq Operator = "=="
	NumericNe Operator = "!="
)

func (a *Assertion) holds(actual amount.Amount) (bool, error) {
	cmp := actual.Cmp(a.Value)
	switch a.Operator {
	case NumericGt:
		return cmp > 0, nil
	case NumericLt:
		return cmp < 0, nil
	case NumericGe:
		return cmp >= 0, nil
	case NumericLe:
		return cmp <= 0, nil
	case NumericEq:
		return cmp == 0, nil
	case NumericNe:
		return cmp != 0, nil
	default:
		return false, fmt.Errorf("%w: %q", ErrInvalidOperator, a.Operator)
	}
}

// check reports whether the outcome of a step satisfies r.
func (r *Require) check(stepErr error, result *Result) error {
	if len(r.Error) > 0 {
		if stepErr == nil {
			return fmt.Errorf("%w: expected error containing %q", ErrAssertionFailed, r.Error)
		}
		if !strings.Contains(stepErr.Error(), r.Error) {
			return fmt.Errorf("%w: expected error containing %q but got %q", ErrAssertionFailed, r.Error, stepErr)
		}
		return nil
	}
	if stepErr != nil {
		return fmt.Errorf("%w: unexpected error: %w", ErrAssertionFailed, stepErr)
	}
	if len(r.Status) > 0 && r.Status != result.Status {
		return fmt.Errorf("%w: expected status %q but got %q", ErrAssertionFailed, r.Status, result.Status)
	}
	if r.Result != nil {
		actual, ok := result.subject()
		if !ok {
			return fmt.Errorf("%w: step reports no amount", ErrAssertionFailed)
		}
		holds, err := r.Result.holds(actual)
		if err != nil {
			return err
		}
		if !holds {
			return fmt.Errorf("%w: %s %s %s", ErrAssertionFailed, actual, r.Result.Operator, r.Result.Value)
		}
	}
	return nil
}

// verify checks the shape of every step before anything runs.
func (p *Plan) verify() error {
	if len(p.Steps) == 0 {
		return fmt.Errorf("%w: no steps found", ErrInvalidPlan)
	}
	for i, step := range p.Steps {
		if err := p.verifyStep(&step); err != nil {
			return fmt.Errorf("%w %d: %w", ErrInvalidStep, i, err)
		}
	}
	return nil
}

func (p *Plan) verifyStep(step *Step) error {
	switch step.Method {
	case MethodKey, MethodCreate, MethodDonate, MethodCampaign:
		if len(step.Params.Name) == 0 {
			return fmt.Errorf("%w: name", ErrMissingParam)
		}
	case MethodWithdraw:
		if len(step.Params.Name) == 0 {
			return fmt.Errorf("%w: name", ErrMissingParam)
		}
		if step.Params.Amount == nil {
			return fmt.Errorf("%w: amount", ErrMissingParam)
		}
	case MethodBalance:
		if len(step.Params.Account) == 0 {
			return fmt.Errorf("%w: account", ErrMissingParam)
		}
	case MethodCampaigns:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidMethod, step.Method)
	}
	if step.Method.executes() && len(p.caller(step)) == 0 {
		return fmt.Errorf("%w: caller", ErrMissingParam)
	}
	if step.Require != nil && step.Require.Result != nil {
		if _, err := step.Require.Result.holds(amount.Zero); err != nil {
			return err
		}
	}
	return nil
}

func (p *Plan) caller(step *Step) string {
	if len(step.Caller) > 0 {
		return step.Caller
	}
	return p.CallerKey
}

type Response struct {
	// The index of the step that generated this response.
	ID int `json:"id"`
	// The result of the step.
	Result Result `json:"result"`
	// The error message if available.
	Error string `json:"error,omitempty"`
}

func newResponse(id int) *Response {
	return &Response{ID: id}
}

// Print writes r as a single JSON line.
func (r *Response) Print(w io.Writer) error {
	b, err := json.Marshal(r)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

type Result struct {
	// The status of an executed command.
	Status string `json:"status,omitempty"`
	// The campaign total after a donate or withdraw.
	Amount *amount.Amount `json:"amount,omitempty"`
	// The address of a created key.
	Address string `json:"address,omitempty"`
	// The campaign names in creation order.
	Campaigns []string `json:"campaigns,omitempty"`
	// The queried campaign.
	Campaign *storage.Campaign `json:"campaign,omitempty"`
	// The queried balance.
	Balance *amount.Amount `json:"balance,omitempty"`
}

func (r *Result) subject() (amount.Amount, bool) {
	switch {
	case r.Amount != nil:
		return *r.Amount, true
	case r.Campaign != nil:
		return r.Campaign.Amount, true
	case r.Balance != nil:
		return *r.Balance, true
	case r.Campaigns != nil:
		return amount.New(uint64(len(r.Campaigns))), true
	default:
		return amount.Zero, false
	}
}

func unmarshalPlan(b []byte) (*Plan, error) {
	var p Plan
	switch {
	case isJSON(b):
		if err := json.Unmarshal(b, &p); err != nil {
			return nil, err
		}
	case isYAML(b):
		if err := yaml.UnmarshalStrict(b, &p); err != nil {
			return nil, err
		}
	default:
		return nil, ErrInvalidConfigFormat
	}
	return &p, nil
}

func isJSON(b []byte) bool {
	var js map[string]interface{}
	return json.Unmarshal(b, &js) == nil
}

func isYAML(b []byte) bool {
	var y map[string]interface{}
	return yaml.Unmarshal(b, &y) == nil
}
