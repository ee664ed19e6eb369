// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package auth

import (
	"errors"

	"github.com/ava-labs/crowdfund/actions"
	"github.com/ava-labs/crowdfund/codec"
	"github.com/ava-labs/crowdfund/consts"
	"github.com/ava-labs/crowdfund/crypto"
	"github.com/ava-labs/crowdfund/crypto/ed25519"
)

var ErrMissingAction = errors.New("missing action")

// SignedCommand is an action together with the funds attached to it,
// authorized by the holder of [PublicKey].
type SignedCommand struct {
	Action actions.Action
	Funds  []actions.Coin

	PublicKey ed25519.PublicKey
	Signature ed25519.Signature
}

// Sign builds a command authorized by [priv].
func Sign(action actions.Action, funds []actions.Coin, priv ed25519.PrivateKey) (*SignedCommand, error) {
	cmd := &SignedCommand{
		Action:    action,
		Funds:     funds,
		PublicKey: priv.PublicKey(),
	}
	digest, err := cmd.Digest()
	if err != nil {
		return nil, err
	}
	cmd.Signature = ed25519.Sign(digest, priv)
	return cmd, nil
}

// Digest is the byte string covered by the signature.
func (c *SignedCommand) Digest() ([]byte, error) {
	if c.Action == nil {
		return nil, ErrMissingAction
	}
	p := codec.NewWriter(actions.ActionSize(c.Action)+actions.CoinsSize(c.Funds), consts.NetworkSizeLimit)
	actions.MarshalAction(c.Action, p)
	actions.MarshalCoins(c.Funds, p)
	return p.Bytes(), p.Err()
}

// Actor verifies the signature and returns the address it authenticates.
func (c *SignedCommand) Actor() (codec.Address, error) {
	digest, err := c.Digest()
	if err != nil {
		return codec.EmptyAddress, err
	}
	if !ed25519.Verify(digest, c.PublicKey, c.Signature) {
		return codec.EmptyAddress, crypto.ErrInvalidSignature
	}
	return NewED25519Address(c.PublicKey), nil
}

func (c *SignedCommand) Size() int {
	return actions.ActionSize(c.Action) + actions.CoinsSize(c.Funds) + ed25519.PublicKeyLen + ed25519.SignatureLen
}

func (c *SignedCommand) Bytes() ([]byte, error) {
	digest, err := c.Digest()
	if err != nil {
		return nil, err
	}
	p := codec.NewWriter(c.Size(), consts.NetworkSizeLimit)
	p.PackFixedBytes(digest)
	p.PackFixedBytes(c.PublicKey[:])
	p.PackFixedBytes(c.Signature[:])
	return p.Bytes(), p.Err()
}

// ParseSignedCommand decodes the output of [SignedCommand.Bytes]. It does
// not check the signature.
func ParseSignedCommand(b []byte) (*SignedCommand, error) {
	p := codec.NewReader(b, consts.NetworkSizeLimit)
	action, err := actions.UnmarshalAction(p)
	if err != nil {
		return nil, err
	}
	funds, err := actions.UnmarshalCoins(p)
	if err != nil {
		return nil, err
	}
	cmd := &SignedCommand{Action: action, Funds: funds}
	pk := cmd.PublicKey[:]
	p.UnpackFixedBytes(ed25519.PublicKeyLen, &pk)
	sig := cmd.Signature[:]
	p.UnpackFixedBytes(ed25519.SignatureLen, &sig)
	p.Done()
	if err := p.Err(); err != nil {
		return nil, err
	}
	return cmd, nil
}
