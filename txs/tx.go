// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package txs

import (
	"errors"
	"fmt"

	"github.com/luxfi/crypto/hash"
	"github.com/luxfi/ids"
)

var (
	ErrNilTx     = errors.New("tx is nil")
	ErrNoActor   = errors.New("tx has no actor")
	ErrNoGroup   = errors.New("tx names no group")
	ErrNoSeed    = errors.New("tx has no seed")
	ErrNoTarget  = errors.New("tx names no proposal")
	errNilChange = errors.New("nil config change")
)

// UnsignedTx is a single governance command.
type UnsignedTx interface {
	// Actor is the identity issuing the command.
	Actor() ids.ShortID

	// Attempts to verify this transaction without any provided state.
	SyntacticVerify() error

	// Visit calls [visitor] with this transaction's concrete type
	Visit(visitor Visitor) error
}

// Tx wraps a command with its canonical bytes and ID.
type Tx struct {
	Unsigned UnsignedTx `serialize:"true" json:"unsignedTx"`

	id    ids.ID
	bytes []byte
}

// NewTx serializes unsigned and sets its ID.
func NewTx(unsigned UnsignedTx) (*Tx, error) {
	tx := &Tx{Unsigned: unsigned}
	bytes, err := Codec.Marshal(CodecVersion, tx)
	if err != nil {
		return nil, fmt.Errorf("couldn't marshal tx: %w", err)
	}
	tx.SetBytes(bytes)
	return tx, nil
}

// Parse decodes tx bytes.
func Parse(bytes []byte) (*Tx, error) {
	tx := &Tx{}
	if _, err := Codec.Unmarshal(bytes, tx); err != nil {
		return nil, fmt.Errorf("couldn't parse tx: %w", err)
	}
	tx.SetBytes(bytes)
	return tx, nil
}

func (tx *Tx) SetBytes(bytes []byte) {
	tx.bytes = bytes
	tx.id = hash.ComputeHash256Array(bytes)
}

func (tx *Tx) ID() ids.ID {
	return tx.id
}

func (tx *Tx) Bytes() []byte {
	return tx.bytes
}

func (tx *Tx) SyntacticVerify() error {
	if tx == nil || tx.Unsigned == nil {
		return ErrNilTx
	}
	return tx.Unsigned.SyntacticVerify()
}

// BaseTx carries the issuing actor.
type BaseTx struct {
	Issuer ids.ShortID `serialize:"true" json:"issuer"`
	Memo   []byte      `serialize:"true" json:"memo"`

	// true iff this transaction has already passed syntactic verification
	SyntacticallyVerified bool `json:"-"`
}

func (tx *BaseTx) Actor() ids.ShortID {
	return tx.Issuer
}

func (tx *BaseTx) SyntacticVerify() error {
	switch {
	case tx == nil:
		return ErrNilTx
	case tx.Issuer == ids.ShortEmpty:
		return ErrNoActor
	case len(tx.Memo) > MaxMemoSize:
		return fmt.Errorf("memo of %d bytes exceeds %d", len(tx.Memo), MaxMemoSize)
	}
	return nil
}

// MaxMemoSize bounds BaseTx.Memo.
const MaxMemoSize = 256

// ProposalRef names a proposal within a group.
type ProposalRef struct {
	Group    ids.ID `serialize:"true" json:"group"`
	Proposal ids.ID `serialize:"true" json:"proposal"`
}

func (r *ProposalRef) Verify() error {
	switch {
	case r.Group == ids.Empty:
		return ErrNoGroup
	case r.Proposal == ids.Empty:
		return ErrNoTarget
	}
	return nil
}
