// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package consts

const (
	Name = "crowdfund"

	// Denom is the default unit donations must be attached in.
	Denom = "ufund"

	// ContractName seeds the custodial address holding donated funds.
	ContractName = "crowdfund-contract"
)

const (
	ByteLen    = 1
	BoolLen    = 1
	IDLen      = 32
	IntLen     = 4
	Uint16Len  = 2
	Uint64Len  = 8
	Uint128Len = 16
	MaxUint8   = ^uint8(0)
	MaxUint16  = ^uint16(0)
	MaxUint    = ^uint(0)
	MaxInt     = int(MaxUint >> 1)
	MaxUint64  = ^uint64(0)

	// NetworkSizeLimit bounds any encoded command or record.
	NetworkSizeLimit = 2_044_723 // 1.95 MiB
)
