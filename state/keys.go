// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

const (
	Read     Permissions = 1
	Allocate             = 1<<1 | Read
	Write                = 1<<2 | Read
)

// Keys holds the name of the key and its permission (Read/Allocate/Write).
// Keys computed at runtime may coincide, so build them with [Keys.Add].
type Keys map[string]Permissions

// All acceptable permission options
type Permissions byte

// Add unions [permission] into whatever [name] already holds.
func (k Keys) Add(name string, permission Permissions) {
	k[name] |= permission
}

// Has returns true if [p] has all the permissions that are contained in require
func (p Permissions) Has(require Permissions) bool {
	return require&^p == 0
}
