// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import "errors"

var (
	ErrInvalidPlan         = errors.New("invalid plan")
	ErrInvalidStep         = errors.New("invalid step")
	ErrInvalidMethod       = errors.New("invalid method")
	ErrInvalidOperator     = errors.New("invalid operator")
	ErrInvalidConfigFormat = errors.New("invalid config format")
	ErrMissingParam        = errors.New("missing param")
	ErrAssertionFailed     = errors.New("assertion failed")
	ErrDuplicateKeyName    = errors.New("duplicate key name")
	ErrNamedKeyNotFound    = errors.New("named key not found")
	ErrCorruptedKeystore   = errors.New("corrupted keystore")
)
