// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/ava-labs/crowdfund/codec"
	"github.com/ava-labs/crowdfund/state"
	"github.com/ava-labs/crowdfund/storage"
)

var _ Action = (*Create)(nil)

// Create registers a new campaign owned by the actor.
type Create struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (*Create) GetTypeID() uint8 {
	return createID
}

func (c *Create) StateKeys(codec.Address, Rules) state.Keys {
	keys := state.Keys{}
	keys.Add(string(storage.RegistryKey()), state.Write)
	keys.Add(string(storage.CampaignKey(c.Name)), state.Allocate|state.Write)
	return keys
}

func (c *Create) Execute(
	ctx context.Context,
	rules Rules,
	mu state.Mutable,
	actor codec.Address,
	funds []Coin,
) (*Result, error) {
	if len(funds) > 0 {
		return nil, ErrUnexpectedFunds
	}
	if err := validateName(c.Name); err != nil {
		return nil, err
	}
	if len(c.Description) > MaxDescriptionSize {
		return nil, fmt.Errorf("%w: %d bytes exceeds %d", ErrInvalidDescription, len(c.Description), MaxDescriptionSize)
	}
	if !utf8.ValidString(c.Description) {
		return nil, fmt.Errorf("%w: not valid UTF-8", ErrInvalidDescription)
	}
	if err := storage.CreateCampaign(ctx, mu, c.Name, c.Description, actor, rules.GetAllowDuplicateNames()); err != nil {
		return nil, err
	}
	return &Result{Status: fmt.Sprintf(CreatedStatusFmt, c.Name)}, nil
}

func (c *Create) Size() int {
	return codec.StringLen(c.Name) + codec.StringLen(c.Description)
}

func (c *Create) Marshal(p *codec.Packer) {
	p.PackString(c.Name)
	p.PackString(c.Description)
}

func UnmarshalCreate(p *codec.Packer) (Action, error) {
	var create Create
	create.Name = p.UnpackString(true)
	create.Description = p.UnpackString(false)
	return &create, p.Err()
}

func validateName(name string) error {
	switch {
	case len(name) == 0:
		return fmt.Errorf("%w: empty", ErrInvalidName)
	case len(name) > MaxCampaignNameSize:
		return fmt.Errorf("%w: %d bytes exceeds %d", ErrInvalidName, len(name), MaxCampaignNameSize)
	case !utf8.ValidString(name):
		return fmt.Errorf("%w: not valid UTF-8", ErrInvalidName)
	default:
		return nil
	}
}
