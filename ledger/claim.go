// Copyright 2025 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ledger

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/blinklabs-io/gostellar/strkey"
	"github.com/blinklabs-io/gostellar/xdr"
)

type ClaimPredicateType int32

const (
	ClaimPredicateTypeUnconditional      ClaimPredicateType = 0
	ClaimPredicateTypeAnd                ClaimPredicateType = 1
	ClaimPredicateTypeOr                 ClaimPredicateType = 2
	ClaimPredicateTypeNot                ClaimPredicateType = 3
	ClaimPredicateTypeBeforeAbsoluteTime ClaimPredicateType = 4
	ClaimPredicateTypeBeforeRelativeTime ClaimPredicateType = 5
)

var (
	ErrNotOverNot               = errors.New("not predicate may not wrap another not")
	ErrInvalidClaimableBalance  = errors.New("invalid claimable balance ID")
	errInvalidPredicateChildren = errors.New("predicate requires exactly two children")
)

// ClaimPredicate is the recursive condition attached to a claimable
// balance claimant. Build instances through the Predicate* constructors so
// the composition rules hold.
type ClaimPredicate struct {
	predType  ClaimPredicateType
	children  []ClaimPredicate
	not       *ClaimPredicate
	absBefore int64
	relBefore int64
}

// PredicateUnconditional is always claimable
func PredicateUnconditional() ClaimPredicate {
	return ClaimPredicate{predType: ClaimPredicateTypeUnconditional}
}

// PredicateAnd requires both predicates to hold
func PredicateAnd(left, right ClaimPredicate) ClaimPredicate {
	return ClaimPredicate{
		predType: ClaimPredicateTypeAnd,
		children: []ClaimPredicate{left, right},
	}
}

// PredicateOr requires either predicate to hold
func PredicateOr(left, right ClaimPredicate) ClaimPredicate {
	return ClaimPredicate{
		predType: ClaimPredicateTypeOr,
		children: []ClaimPredicate{left, right},
	}
}

// PredicateNot inverts a predicate. Wrapping another Not is rejected.
func PredicateNot(inner ClaimPredicate) (ClaimPredicate, error) {
	if inner.predType == ClaimPredicateTypeNot {
		return ClaimPredicate{}, ErrNotOverNot
	}
	return ClaimPredicate{
		predType: ClaimPredicateTypeNot,
		not:      &inner,
	}, nil
}

// PredicateBeforeAbsoluteTime holds until the given ledger close time
// (Unix seconds)
func PredicateBeforeAbsoluteTime(unixSeconds int64) ClaimPredicate {
	return ClaimPredicate{
		predType:  ClaimPredicateTypeBeforeAbsoluteTime,
		absBefore: unixSeconds,
	}
}

// PredicateBeforeRelativeTime holds for the given number of seconds after
// the balance entry is created
func PredicateBeforeRelativeTime(seconds int64) ClaimPredicate {
	return ClaimPredicate{
		predType:  ClaimPredicateTypeBeforeRelativeTime,
		relBefore: seconds,
	}
}

func (p ClaimPredicate) Type() ClaimPredicateType { return p.predType }

func (p ClaimPredicate) encodeXDR(enc *xdr.Encoder) error {
	enc.EncodeInt32(int32(p.predType))
	switch p.predType {
	case ClaimPredicateTypeUnconditional:
		return nil
	case ClaimPredicateTypeAnd, ClaimPredicateTypeOr:
		if len(p.children) != 2 {
			return errInvalidPredicateChildren
		}
		if err := enc.EncodeArrayLen(2, 2); err != nil {
			return err
		}
		for _, child := range p.children {
			if err := child.encodeXDR(enc); err != nil {
				return err
			}
		}
		return nil
	case ClaimPredicateTypeNot:
		enc.EncodeOptional(p.not != nil)
		if p.not != nil {
			return p.not.encodeXDR(enc)
		}
		return nil
	case ClaimPredicateTypeBeforeAbsoluteTime:
		enc.EncodeInt64(p.absBefore)
		return nil
	case ClaimPredicateTypeBeforeRelativeTime:
		enc.EncodeInt64(p.relBefore)
		return nil
	default:
		return fmt.Errorf(
			"cannot encode claim predicate type %d",
			p.predType,
		)
	}
}

func decodeClaimPredicate(dec *xdr.Decoder) (ClaimPredicate, error) {
	predType, err := dec.DecodeInt32("claimPredicate.type")
	if err != nil {
		return ClaimPredicate{}, err
	}
	var out ClaimPredicate
	out.predType = ClaimPredicateType(predType)
	switch out.predType {
	case ClaimPredicateTypeUnconditional:
		return out, nil
	case ClaimPredicateTypeAnd, ClaimPredicateTypeOr:
		n, err := dec.DecodeArrayLen(2, "claimPredicate.children")
		if err != nil {
			return ClaimPredicate{}, err
		}
		for remaining := n; remaining > 0; remaining-- {
			child, err := decodeClaimPredicate(dec)
			if err != nil {
				return ClaimPredicate{}, err
			}
			out.children = append(out.children, child)
		}
		return out, nil
	case ClaimPredicateTypeNot:
		present, err := dec.DecodeOptional("claimPredicate.not")
		if err != nil {
			return ClaimPredicate{}, err
		}
		if present {
			inner, err := decodeClaimPredicate(dec)
			if err != nil {
				return ClaimPredicate{}, err
			}
			out.not = &inner
		}
		return out, nil
	case ClaimPredicateTypeBeforeAbsoluteTime:
		out.absBefore, err = dec.DecodeInt64(
			"claimPredicate.absBefore",
		)
		return out, err
	case ClaimPredicateTypeBeforeRelativeTime:
		out.relBefore, err = dec.DecodeInt64(
			"claimPredicate.relBefore",
		)
		return out, err
	default:
		return ClaimPredicate{}, xdr.UnknownDiscriminantError{
			Union:        "ClaimPredicate",
			Discriminant: predType,
		}
	}
}

const claimantTypeV0 int32 = 0

// Claimant names an account that may claim a claimable balance, under a
// predicate
type Claimant struct {
	Destination AccountID
	Predicate   ClaimPredicate
}

// NewClaimant builds a claimant from a G... address. A nil predicate
// means unconditional.
func NewClaimant(
	destination string,
	predicate *ClaimPredicate,
) (Claimant, error) {
	accountID, err := AccountIDFromAddress(destination)
	if err != nil {
		return Claimant{}, fmt.Errorf("claimant destination: %w", err)
	}
	pred := PredicateUnconditional()
	if predicate != nil {
		pred = *predicate
	}
	return Claimant{
		Destination: accountID,
		Predicate:   pred,
	}, nil
}

func (c Claimant) encodeXDR(enc *xdr.Encoder) error {
	enc.EncodeInt32(claimantTypeV0)
	if err := c.Destination.encodeXDR(enc); err != nil {
		return err
	}
	return c.Predicate.encodeXDR(enc)
}

func decodeClaimant(dec *xdr.Decoder) (Claimant, error) {
	claimantType, err := dec.DecodeInt32("claimant.type")
	if err != nil {
		return Claimant{}, err
	}
	if claimantType != claimantTypeV0 {
		return Claimant{}, xdr.UnknownDiscriminantError{
			Union:        "Claimant",
			Discriminant: claimantType,
		}
	}
	destination, err := decodeAccountID(dec)
	if err != nil {
		return Claimant{}, err
	}
	predicate, err := decodeClaimPredicate(dec)
	if err != nil {
		return Claimant{}, err
	}
	return Claimant{
		Destination: destination,
		Predicate:   predicate,
	}, nil
}

const claimableBalanceIDTypeV0 int32 = 0

// ClaimableBalanceID identifies a claimable balance entry. The
// conventional text form is 72 hex characters: the 4-byte union
// discriminant followed by the 32-byte hash.
type ClaimableBalanceID struct {
	V0 [32]byte
}

// ClaimableBalanceIDFromHex parses the 72-hex-character form
func ClaimableBalanceIDFromHex(
	balanceID string,
) (ClaimableBalanceID, error) {
	if len(balanceID) != 72 {
		return ClaimableBalanceID{}, fmt.Errorf(
			"%w: %d hex characters",
			ErrInvalidClaimableBalance,
			len(balanceID),
		)
	}
	raw, err := hex.DecodeString(balanceID)
	if err != nil {
		return ClaimableBalanceID{}, fmt.Errorf(
			"%w: %s",
			ErrInvalidClaimableBalance,
			err,
		)
	}
	var out ClaimableBalanceID
	if err := xdr.Unmarshal(raw, &out); err != nil {
		return ClaimableBalanceID{}, err
	}
	return out, nil
}

// String returns the 72-hex-character form
func (c ClaimableBalanceID) String() string {
	enc := xdr.NewEncoder()
	_ = c.EncodeXDR(enc)
	return hex.EncodeToString(enc.Bytes())
}

// Strkey returns the B... strkey form (type byte + hash)
func (c ClaimableBalanceID) Strkey() string {
	payload := make([]byte, 0, 33)
	payload = append(payload, byte(claimableBalanceIDTypeV0))
	payload = append(payload, c.V0[:]...)
	return strkey.MustEncode(
		strkey.VersionByteClaimableBalance,
		payload,
	)
}

func (c ClaimableBalanceID) EncodeXDR(enc *xdr.Encoder) error {
	enc.EncodeInt32(claimableBalanceIDTypeV0)
	enc.EncodeFixedOpaque(c.V0[:])
	return nil
}

func (c *ClaimableBalanceID) DecodeXDR(dec *xdr.Decoder) error {
	idType, err := dec.DecodeInt32("claimableBalanceID.type")
	if err != nil {
		return err
	}
	if idType != claimableBalanceIDTypeV0 {
		return xdr.UnknownDiscriminantError{
			Union:        "ClaimableBalanceID",
			Discriminant: idType,
		}
	}
	raw, err := dec.DecodeFixedOpaque(32, "claimableBalanceID.v0")
	if err != nil {
		return err
	}
	copy(c.V0[:], raw)
	return nil
}
