// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"fmt"

	"github.com/ava-labs/avalanchego/utils/wrappers"

	"github.com/ava-labs/crowdfund/codec"
	"github.com/ava-labs/crowdfund/consts"
)

var registry = codec.NewTypeParser[Action]()

func init() {
	errs := &wrappers.Errs{}
	errs.Add(
		registry.Register((&Create{}).GetTypeID(), UnmarshalCreate),
		registry.Register((&Donate{}).GetTypeID(), UnmarshalDonate),
		registry.Register((&Withdraw{}).GetTypeID(), UnmarshalWithdraw),
	)
	if errs.Errored() {
		panic(errs.Err)
	}
}

// MarshalAction packs [a] behind its type prefix.
func MarshalAction(a Action, p *codec.Packer) {
	p.PackByte(a.GetTypeID())
	a.Marshal(p)
}

func ActionSize(a Action) int {
	return consts.ByteLen + a.Size()
}

// UnmarshalAction reads an action packed by [MarshalAction].
func UnmarshalAction(p *codec.Packer) (Action, error) {
	typeID := p.UnpackByte()
	if err := p.Err(); err != nil {
		return nil, err
	}
	unmarshal, ok := registry.LookupIndex(typeID)
	if !ok {
		return nil, fmt.Errorf("%w: action %d", codec.ErrUnknownType, typeID)
	}
	return unmarshal(p)
}

var names = map[uint8]string{
	createID:   "create",
	donateID:   "donate",
	withdrawID: "withdraw",
}

// Name is the short lowercase name of [a]'s type, used in logs and metrics.
func Name(a Action) string {
	if name, ok := names[a.GetTypeID()]; ok {
		return name
	}
	return "unknown"
}
