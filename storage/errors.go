// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import "errors"

var (
	ErrCampaignNotFound       = errors.New("campaign not found")
	ErrCampaignExists         = errors.New("campaign already exists")
	ErrRegistryNotInitialized = errors.New("campaign registry not initialized")
	ErrRegistryFull           = errors.New("campaign registry full")
	ErrInsufficientFunds      = errors.New("insufficient funds")
	ErrOverflow               = errors.New("balance overflow")
	ErrCorruptedData          = errors.New("corrupted data found")
)
