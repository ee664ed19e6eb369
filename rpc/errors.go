// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"errors"
	"strings"

	"github.com/ava-labs/crowdfund/actions"
	"github.com/ava-labs/crowdfund/crypto"
	"github.com/ava-labs/crowdfund/storage"
)

var ErrMissingCommand = errors.New("missing command")

// knownErrors are recovered by message on the client, since the JSON-RPC
// transport only carries error strings.
var knownErrors = []error{
	storage.ErrCampaignNotFound,
	storage.ErrCampaignExists,
	storage.ErrInsufficientFunds,
	storage.ErrOverflow,
	storage.ErrCorruptedData,
	storage.ErrRegistryFull,
	actions.ErrUnauthorized,
	actions.ErrInvalidDonation,
	actions.ErrInvalidName,
	actions.ErrInvalidDescription,
	actions.ErrUnexpectedFunds,
	crypto.ErrInvalidSignature,
}

type remoteError struct {
	sentinel error
	msg      string
}

func (e *remoteError) Error() string { return e.msg }

func (e *remoteError) Unwrap() error { return e.sentinel }

func mapError(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	for _, sentinel := range knownErrors {
		if strings.Contains(msg, sentinel.Error()) {
			return &remoteError{sentinel: sentinel, msg: msg}
		}
	}
	return err
}
