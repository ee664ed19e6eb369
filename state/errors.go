// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import "errors"

var (
	ErrKeyNotSpecified         = errors.New("key not specified")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
)
