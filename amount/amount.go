// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package amount implements the unsigned 128-bit quantity used for every
// balance and campaign total.
package amount

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/holiman/uint256"

	"github.com/ava-labs/crowdfund/consts"
)

// Len is the width of an encoded [Amount].
const Len = consts.Uint128Len

const maxBits = Len * 8

var (
	ErrOverflow      = errors.New("amount overflow")
	ErrUnderflow     = errors.New("amount underflow")
	ErrInvalidLength = errors.New("invalid amount length")
	ErrInvalidValue  = errors.New("invalid amount")
)

// Amount is a non-negative integer below 2^128. The zero value is 0.
//
// Arithmetic never wraps: [Amount.Add] and [Amount.Sub] report overflow
// and underflow instead.
type Amount struct {
	v uint256.Int
}

var Zero = Amount{}

// New returns an [Amount] holding [v].
func New(v uint64) Amount {
	var a Amount
	a.v.SetUint64(v)
	return a
}

// Max returns 2^128-1.
func Max() Amount {
	var a Amount
	a.v.SetAllOne()
	a.v.Rsh(&a.v, 256-maxBits)
	return a
}

// FromBytes decodes the fixed-width big-endian encoding produced by
// [Amount.Bytes].
func FromBytes(b []byte) (Amount, error) {
	if len(b) != Len {
		return Zero, fmt.Errorf("%w: expected %d bytes but got %d", ErrInvalidLength, Len, len(b))
	}
	var a Amount
	a.v.SetBytes(b)
	return a, nil
}

// Parse decodes a base-10 string.
func Parse(s string) (Amount, error) {
	if len(s) == 0 {
		return Zero, fmt.Errorf("%w: empty string", ErrInvalidValue)
	}
	var a Amount
	if err := a.v.SetFromDecimal(s); err != nil {
		return Zero, fmt.Errorf("%w: %q: %s", ErrInvalidValue, s, err)
	}
	if a.v.BitLen() > maxBits {
		return Zero, fmt.Errorf("%w: %q does not fit in %d bits", ErrOverflow, s, maxBits)
	}
	return a, nil
}

// MustParse is like [Parse] but panics on error. It is intended for
// constants and tests.
func MustParse(s string) Amount {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

// Bytes returns the [Len] byte big-endian encoding of a.
func (a Amount) Bytes() []byte {
	b := make([]byte, Len)
	a.v.WriteToSlice(b)
	return b
}

// Add returns a+b or [ErrOverflow].
func (a Amount) Add(b Amount) (Amount, error) {
	var sum Amount
	if _, overflow := sum.v.AddOverflow(&a.v, &b.v); overflow || sum.v.BitLen() > maxBits {
		return Zero, fmt.Errorf("%w: %s + %s", ErrOverflow, a, b)
	}
	return sum, nil
}

// Sub returns a-b or [ErrUnderflow].
func (a Amount) Sub(b Amount) (Amount, error) {
	var diff Amount
	if _, underflow := diff.v.SubOverflow(&a.v, &b.v); underflow {
		return Zero, fmt.Errorf("%w: %s - %s", ErrUnderflow, a, b)
	}
	return diff, nil
}

func (a Amount) IsZero() bool {
	return a.v.IsZero()
}

// Cmp returns -1, 0 or +1 depending on whether a is less than, equal to or
// greater than b.
func (a Amount) Cmp(b Amount) int {
	return a.v.Cmp(&b.v)
}

func (a Amount) Lt(b Amount) bool {
	return a.v.Lt(&b.v)
}

// Uint64 returns the low 64 bits of a and whether a fits in them.
func (a Amount) Uint64() (uint64, bool) {
	return a.v.Uint64(), a.v.IsUint64()
}

// String returns the base-10 representation of a.
func (a Amount) String() string {
	return a.v.Dec()
}

func (a Amount) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Amount) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// UnmarshalJSON accepts both a quoted decimal string and a bare JSON number.
// null leaves a unchanged.
func (a *Amount) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	return a.UnmarshalText(bytes.Trim(b, `"`))
}

// UnmarshalYAML accepts any scalar whose text is a decimal integer.
func (a *Amount) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	return a.UnmarshalText([]byte(s))
}
