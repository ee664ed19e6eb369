// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPermissionsHas(t *testing.T) {
	require := require.New(t)

	all := Allocate | Write
	require.True(all.Has(Read))
	require.True(all.Has(Allocate))
	require.True(all.Has(Write))
	require.True(Write.Has(Read))
	require.False(Read.Has(Write))
	require.False(Allocate.Has(Write))
	require.False(Write.Has(Allocate))
	require.True(Read.Has(0))
}

func TestKeysAdd(t *testing.T) {
	require := require.New(t)

	k := Keys{}
	k.Add("a", Read)
	k.Add("a", Write)
	k.Add("b", Allocate)

	require.True(k["a"].Has(Write))
	require.False(k["a"].Has(Allocate))
	require.True(k["b"].Has(Read))
	require.Len(k, 2)
}
