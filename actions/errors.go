// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import "errors"

var (
	ErrUnauthorized       = errors.New("only the campaign creator can withdraw")
	ErrInvalidDonation    = errors.New("invalid donation")
	ErrInvalidName        = errors.New("invalid campaign name")
	ErrInvalidDescription = errors.New("invalid campaign description")
	ErrUnexpectedFunds    = errors.New("action does not accept funds")
	ErrTooManyCoins       = errors.New("too many coins")
)
