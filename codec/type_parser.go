// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import "fmt"

// TypeParser maps a one-byte type prefix to the decoder for that type.
// IDs are assigned explicitly so that reordering registrations never
// changes the encoding.
type TypeParser[T any] struct {
	decoders map[uint8]func(*Packer) (T, error)
}

func NewTypeParser[T any]() *TypeParser[T] {
	return &TypeParser[T]{
		decoders: map[uint8]func(*Packer) (T, error){},
	}
}

func (p *TypeParser[T]) Register(id uint8, f func(*Packer) (T, error)) error {
	if _, ok := p.decoders[id]; ok {
		return fmt.Errorf("%w: type %d", ErrDuplicateItem, id)
	}
	p.decoders[id] = f
	return nil
}

func (p *TypeParser[T]) LookupIndex(id uint8) (func(*Packer) (T, error), bool) {
	f, ok := p.decoders[id]
	return f, ok
}
