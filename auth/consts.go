// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package auth

// Note: the type ID is the first byte of every address. IDs are assigned
// explicitly and must never be remapped.
const (
	ED25519ID  uint8 = 0
	ContractID uint8 = 0xff
)
