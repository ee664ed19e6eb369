// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

// Note: IDs are part of the signed encoding of a command and must never be
// reassigned.
const (
	createID   uint8 = 0
	donateID   uint8 = 1
	withdrawID uint8 = 2
)

const (
	MaxCampaignNameSize = 256
	MaxDescriptionSize  = 1024
	MaxDenomSize        = 128
	MaxCoins            = 8
)

const (
	CreatedStatusFmt = "Campaign %s created"
	DonatedStatus    = "Campaign found! Donation sent!"
	WithdrawnStatus  = "Campaign found! Withdraw permitted and executed!"
)
