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
	"fmt"

	"github.com/blinklabs-io/gostellar/xdr"
)

// CreateClaimableBalance locks an amount of an asset into a ledger entry
// that the listed claimants can later claim
type CreateClaimableBalance struct {
	OpSource
	Asset     Asset
	Amount    int64
	Claimants []Claimant
}

func (op *CreateClaimableBalance) Type() OperationType {
	return OperationTypeCreateClaimableBalance
}

func (op *CreateClaimableBalance) Validate() error {
	if err := checkPositiveAmount(
		"claimable balance amount",
		op.Amount,
	); err != nil {
		return err
	}
	if len(op.Claimants) < 1 || len(op.Claimants) > MaxClaimants {
		return fmt.Errorf(
			"claimable balance needs 1-%d claimants, got %d",
			MaxClaimants,
			len(op.Claimants),
		)
	}
	return nil
}

func (op *CreateClaimableBalance) encodeBody(enc *xdr.Encoder) error {
	if err := op.Asset.encodeXDR(enc); err != nil {
		return err
	}
	enc.EncodeInt64(op.Amount)
	if err := enc.EncodeArrayLen(
		len(op.Claimants),
		MaxClaimants,
	); err != nil {
		return err
	}
	for _, claimant := range op.Claimants {
		if err := claimant.encodeXDR(enc); err != nil {
			return err
		}
	}
	return nil
}

func (op *CreateClaimableBalance) decodeBody(dec *xdr.Decoder) error {
	var err error
	if op.Asset, err = decodeAsset(dec); err != nil {
		return err
	}
	if op.Amount, err = dec.DecodeInt64(
		"createClaimableBalance.amount",
	); err != nil {
		return err
	}
	n, err := dec.DecodeArrayLen(
		MaxClaimants,
		"createClaimableBalance.claimants",
	)
	if err != nil {
		return err
	}
	op.Claimants = make([]Claimant, 0, n)
	for remaining := n; remaining > 0; remaining-- {
		claimant, err := decodeClaimant(dec)
		if err != nil {
			return err
		}
		op.Claimants = append(op.Claimants, claimant)
	}
	return nil
}

// ClaimClaimableBalance claims a claimable balance the source account is
// eligible for
type ClaimClaimableBalance struct {
	OpSource
	BalanceID ClaimableBalanceID
}

func (op *ClaimClaimableBalance) Type() OperationType {
	return OperationTypeClaimClaimableBalance
}

func (op *ClaimClaimableBalance) Validate() error {
	return nil
}

func (op *ClaimClaimableBalance) encodeBody(enc *xdr.Encoder) error {
	return op.BalanceID.EncodeXDR(enc)
}

func (op *ClaimClaimableBalance) decodeBody(dec *xdr.Decoder) error {
	return op.BalanceID.DecodeXDR(dec)
}
