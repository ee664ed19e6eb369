// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package auth

import (
	"github.com/ava-labs/crowdfund/codec"
	"github.com/ava-labs/crowdfund/crypto/ed25519"
	"github.com/ava-labs/crowdfund/utils"
)

func NewED25519Address(pk ed25519.PublicKey) codec.Address {
	return codec.CreateAddress(ED25519ID, utils.ToID(pk[:]))
}

// NewContractAddress derives the custodial account holding donated funds.
// No private key exists for it.
func NewContractAddress(name string) codec.Address {
	return codec.CreateAddress(ContractID, utils.ToID([]byte(name)))
}
