// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"github.com/ava-labs/crowdfund/codec"
	"github.com/ava-labs/crowdfund/consts"
)

// State
// 0x0 (registry)
//
// 0x1/ (campaigns)
//   -> [name] => owner|description|amount
//
// 0x2/ (balances)
//   -> [address] => balance

const (
	registryPrefix byte = 0x0
	campaignPrefix byte = 0x1
	balancePrefix  byte = 0x2
)

// RegistryKey is the single key holding the ordered campaign names.
func RegistryKey() []byte {
	return []byte{registryPrefix}
}

// [campaignPrefix] + [name]
func CampaignKey(name string) []byte {
	k := make([]byte, consts.ByteLen+len(name))
	k[0] = campaignPrefix
	copy(k[1:], name)
	return k
}

// [balancePrefix] + [address]
func BalanceKey(addr codec.Address) []byte {
	k := make([]byte, consts.ByteLen+codec.AddressLen)
	k[0] = balancePrefix
	copy(k[1:], addr[:])
	return k
}
