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
	"errors"
	"fmt"
	"strings"

	"github.com/blinklabs-io/gostellar/xdr"
)

var errNativeTrustLine = errors.New(
	"trust line asset cannot be native",
)

// ChangeTrust creates, updates, or (with a zero limit) deletes a trust
// line for a credit asset or a liquidity pool share
type ChangeTrust struct {
	OpSource
	Line  ChangeTrustAsset
	Limit int64
}

func (op *ChangeTrust) Type() OperationType {
	return OperationTypeChangeTrust
}

func (op *ChangeTrust) Validate() error {
	if op.Line.Pool == nil && op.Line.Asset.IsNative() {
		return errNativeTrustLine
	}
	return checkNonNegativeAmount("trust line limit", op.Limit)
}

func (op *ChangeTrust) encodeBody(enc *xdr.Encoder) error {
	if err := op.Line.encodeXDR(enc); err != nil {
		return err
	}
	enc.EncodeInt64(op.Limit)
	return nil
}

func (op *ChangeTrust) decodeBody(dec *xdr.Decoder) error {
	line, err := decodeChangeTrustAsset(dec)
	if err != nil {
		return err
	}
	op.Line = line
	op.Limit, err = dec.DecodeInt64("changeTrust.limit")
	return err
}

// AllowTrust is the legacy authorization operation, superseded by
// SetTrustLineFlags. The issuer is the operation source, so only the bare
// asset code goes on the wire.
type AllowTrust struct {
	OpSource
	Trustor   AccountID
	AssetCode string
	Authorize uint32
}

func (op *AllowTrust) Type() OperationType {
	return OperationTypeAllowTrust
}

func (op *AllowTrust) Validate() error {
	return validateAssetCode(op.AssetCode)
}

func (op *AllowTrust) encodeBody(enc *xdr.Encoder) error {
	if err := op.Trustor.encodeXDR(enc); err != nil {
		return err
	}
	size := 4
	assetType := AssetTypeCreditAlphanum4
	if len(op.AssetCode) > 4 {
		size = 12
		assetType = AssetTypeCreditAlphanum12
	}
	enc.EncodeInt32(int32(assetType))
	code := make([]byte, size)
	copy(code, op.AssetCode)
	enc.EncodeFixedOpaque(code)
	enc.EncodeUint32(op.Authorize)
	return nil
}

func (op *AllowTrust) decodeBody(dec *xdr.Decoder) error {
	trustor, err := decodeAccountID(dec)
	if err != nil {
		return err
	}
	op.Trustor = trustor
	assetType, err := dec.DecodeInt32("allowTrust.assetType")
	if err != nil {
		return err
	}
	var size int
	switch AssetType(assetType) {
	case AssetTypeCreditAlphanum4:
		size = 4
	case AssetTypeCreditAlphanum12:
		size = 12
	default:
		return xdr.UnknownDiscriminantError{
			Union:        "AllowTrustAsset",
			Discriminant: assetType,
		}
	}
	rawCode, err := dec.DecodeFixedOpaque(size, "allowTrust.assetCode")
	if err != nil {
		return err
	}
	op.AssetCode = strings.TrimRight(string(rawCode), "\x00")
	op.Authorize, err = dec.DecodeUint32("allowTrust.authorize")
	return err
}

// SetTrustLineFlags adjusts authorization flags on a trustor's trust line
// for an asset issued by the operation source
type SetTrustLineFlags struct {
	OpSource
	Trustor    AccountID
	Asset      Asset
	ClearFlags uint32
	SetFlags   uint32
}

func (op *SetTrustLineFlags) Type() OperationType {
	return OperationTypeSetTrustLineFlags
}

func (op *SetTrustLineFlags) Validate() error {
	if op.Asset.IsNative() {
		return errNativeTrustLine
	}
	if op.ClearFlags&op.SetFlags != 0 {
		return fmt.Errorf(
			"flags 0x%x are both cleared and set",
			op.ClearFlags&op.SetFlags,
		)
	}
	return nil
}

func (op *SetTrustLineFlags) encodeBody(enc *xdr.Encoder) error {
	if err := op.Trustor.encodeXDR(enc); err != nil {
		return err
	}
	if err := op.Asset.encodeXDR(enc); err != nil {
		return err
	}
	enc.EncodeUint32(op.ClearFlags)
	enc.EncodeUint32(op.SetFlags)
	return nil
}

func (op *SetTrustLineFlags) decodeBody(dec *xdr.Decoder) error {
	trustor, err := decodeAccountID(dec)
	if err != nil {
		return err
	}
	op.Trustor = trustor
	if op.Asset, err = decodeAsset(dec); err != nil {
		return err
	}
	if op.ClearFlags, err = dec.DecodeUint32(
		"setTrustLineFlags.clearFlags",
	); err != nil {
		return err
	}
	op.SetFlags, err = dec.DecodeUint32("setTrustLineFlags.setFlags")
	return err
}

// Clawback burns an amount of a clawback-enabled asset held by another
// account
type Clawback struct {
	OpSource
	Asset  Asset
	From   MuxedAccount
	Amount int64
}

func (op *Clawback) Type() OperationType {
	return OperationTypeClawback
}

func (op *Clawback) Validate() error {
	if op.Asset.IsNative() {
		return errors.New("cannot claw back the native asset")
	}
	return checkPositiveAmount("clawback amount", op.Amount)
}

func (op *Clawback) encodeBody(enc *xdr.Encoder) error {
	if err := op.Asset.encodeXDR(enc); err != nil {
		return err
	}
	if err := op.From.encodeXDR(enc); err != nil {
		return err
	}
	enc.EncodeInt64(op.Amount)
	return nil
}

func (op *Clawback) decodeBody(dec *xdr.Decoder) error {
	var err error
	if op.Asset, err = decodeAsset(dec); err != nil {
		return err
	}
	if op.From, err = decodeMuxedAccount(dec); err != nil {
		return err
	}
	op.Amount, err = dec.DecodeInt64("clawback.amount")
	return err
}

// ClawbackClaimableBalance burns a claimable balance created with the
// clawback-enabled flag
type ClawbackClaimableBalance struct {
	OpSource
	BalanceID ClaimableBalanceID
}

func (op *ClawbackClaimableBalance) Type() OperationType {
	return OperationTypeClawbackClaimableBalance
}

func (op *ClawbackClaimableBalance) Validate() error {
	return nil
}

func (op *ClawbackClaimableBalance) encodeBody(enc *xdr.Encoder) error {
	return op.BalanceID.EncodeXDR(enc)
}

func (op *ClawbackClaimableBalance) decodeBody(dec *xdr.Decoder) error {
	return op.BalanceID.DecodeXDR(dec)
}
