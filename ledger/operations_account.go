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

// CreateAccount funds a new account with a starting balance of the native
// asset
type CreateAccount struct {
	OpSource
	Destination     AccountID
	StartingBalance int64
}

func (op *CreateAccount) Type() OperationType {
	return OperationTypeCreateAccount
}

func (op *CreateAccount) Validate() error {
	return checkNonNegativeAmount(
		"starting balance",
		op.StartingBalance,
	)
}

func (op *CreateAccount) encodeBody(enc *xdr.Encoder) error {
	if err := op.Destination.encodeXDR(enc); err != nil {
		return err
	}
	enc.EncodeInt64(op.StartingBalance)
	return nil
}

func (op *CreateAccount) decodeBody(dec *xdr.Decoder) error {
	destination, err := decodeAccountID(dec)
	if err != nil {
		return err
	}
	op.Destination = destination
	op.StartingBalance, err = dec.DecodeInt64(
		"createAccount.startingBalance",
	)
	return err
}

// Payment sends an amount of an asset to a destination account
type Payment struct {
	OpSource
	Destination MuxedAccount
	Asset       Asset
	Amount      int64
}

func (op *Payment) Type() OperationType {
	return OperationTypePayment
}

func (op *Payment) Validate() error {
	return checkPositiveAmount("payment amount", op.Amount)
}

func (op *Payment) encodeBody(enc *xdr.Encoder) error {
	if err := op.Destination.encodeXDR(enc); err != nil {
		return err
	}
	if err := op.Asset.encodeXDR(enc); err != nil {
		return err
	}
	enc.EncodeInt64(op.Amount)
	return nil
}

func (op *Payment) decodeBody(dec *xdr.Decoder) error {
	destination, err := decodeMuxedAccount(dec)
	if err != nil {
		return err
	}
	op.Destination = destination
	if op.Asset, err = decodeAsset(dec); err != nil {
		return err
	}
	op.Amount, err = dec.DecodeInt64("payment.amount")
	return err
}

// AccountMerge transfers the source account's remaining native balance to
// the destination and removes the source from the ledger
type AccountMerge struct {
	OpSource
	Destination MuxedAccount
}

func (op *AccountMerge) Type() OperationType {
	return OperationTypeAccountMerge
}

func (op *AccountMerge) Validate() error {
	return nil
}

// AccountMerge has no wrapping struct on the wire; the body is the bare
// destination account
func (op *AccountMerge) encodeBody(enc *xdr.Encoder) error {
	return op.Destination.encodeXDR(enc)
}

func (op *AccountMerge) decodeBody(dec *xdr.Decoder) error {
	destination, err := decodeMuxedAccount(dec)
	if err != nil {
		return err
	}
	op.Destination = destination
	return nil
}

// Inflation runs the retired inflation mechanism. Kept for decoding
// historical envelopes.
type Inflation struct {
	OpSource
}

func (op *Inflation) Type() OperationType {
	return OperationTypeInflation
}

func (op *Inflation) Validate() error {
	return nil
}

func (op *Inflation) encodeBody(enc *xdr.Encoder) error {
	return nil
}

func (op *Inflation) decodeBody(dec *xdr.Decoder) error {
	return nil
}

// BumpSequence raises the source account's sequence number to a chosen
// value
type BumpSequence struct {
	OpSource
	BumpTo int64
}

func (op *BumpSequence) Type() OperationType {
	return OperationTypeBumpSequence
}

func (op *BumpSequence) Validate() error {
	if op.BumpTo < 0 {
		return fmt.Errorf(
			"bump sequence target cannot be negative: %d",
			op.BumpTo,
		)
	}
	return nil
}

func (op *BumpSequence) encodeBody(enc *xdr.Encoder) error {
	enc.EncodeInt64(op.BumpTo)
	return nil
}

func (op *BumpSequence) decodeBody(dec *xdr.Decoder) error {
	var err error
	op.BumpTo, err = dec.DecodeInt64("bumpSequence.bumpTo")
	return err
}

// ManageData creates, updates, or (with a nil value) deletes a named data
// entry on the source account
type ManageData struct {
	OpSource
	Name  string
	Value []byte
}

func (op *ManageData) Type() OperationType {
	return OperationTypeManageData
}

func (op *ManageData) Validate() error {
	if len(op.Name) < 1 || len(op.Name) > ManageDataNameMaxBytes {
		return fmt.Errorf(
			"data entry name must be 1-%d bytes, got %d",
			ManageDataNameMaxBytes,
			len(op.Name),
		)
	}
	if len(op.Value) > MaxDataValueBytes {
		return fmt.Errorf(
			"data entry value exceeds %d bytes: %d",
			MaxDataValueBytes,
			len(op.Value),
		)
	}
	return nil
}

func (op *ManageData) encodeBody(enc *xdr.Encoder) error {
	if err := enc.EncodeString(
		op.Name,
		ManageDataNameMaxBytes,
	); err != nil {
		return err
	}
	enc.EncodeOptional(op.Value != nil)
	if op.Value != nil {
		return enc.EncodeOpaque(op.Value, MaxDataValueBytes)
	}
	return nil
}

func (op *ManageData) decodeBody(dec *xdr.Decoder) error {
	var err error
	op.Name, err = dec.DecodeString(
		ManageDataNameMaxBytes,
		"manageData.name",
	)
	if err != nil {
		return err
	}
	present, err := dec.DecodeOptional("manageData.value")
	if err != nil {
		return err
	}
	if present {
		op.Value, err = dec.DecodeOpaque(
			MaxDataValueBytes,
			"manageData.value",
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// SetOptions adjusts account settings. Every field is optional; nil fields
// are left untouched on the ledger.
type SetOptions struct {
	OpSource
	InflationDest *AccountID
	ClearFlags    *uint32
	SetFlags      *uint32
	MasterWeight  *uint32
	LowThreshold  *uint32
	MedThreshold  *uint32
	HighThreshold *uint32
	HomeDomain    *string
	Signer        *Signer
}

func (op *SetOptions) Type() OperationType {
	return OperationTypeSetOptions
}

func (op *SetOptions) Validate() error {
	for _, check := range []struct {
		name  string
		value *uint32
	}{
		{"master weight", op.MasterWeight},
		{"low threshold", op.LowThreshold},
		{"medium threshold", op.MedThreshold},
		{"high threshold", op.HighThreshold},
	} {
		if check.value != nil && *check.value > 255 {
			return fmt.Errorf(
				"%s exceeds 255: %d",
				check.name,
				*check.value,
			)
		}
	}
	if op.Signer != nil && op.Signer.Weight > 255 {
		return fmt.Errorf(
			"signer weight exceeds 255: %d",
			op.Signer.Weight,
		)
	}
	if op.HomeDomain != nil && len(*op.HomeDomain) > MaxHomeDomainBytes {
		return fmt.Errorf(
			"home domain exceeds %d bytes: %d",
			MaxHomeDomainBytes,
			len(*op.HomeDomain),
		)
	}
	return nil
}

func (op *SetOptions) encodeBody(enc *xdr.Encoder) error {
	enc.EncodeOptional(op.InflationDest != nil)
	if op.InflationDest != nil {
		if err := op.InflationDest.encodeXDR(enc); err != nil {
			return err
		}
	}
	for _, field := range []*uint32{
		op.ClearFlags,
		op.SetFlags,
		op.MasterWeight,
		op.LowThreshold,
		op.MedThreshold,
		op.HighThreshold,
	} {
		enc.EncodeOptional(field != nil)
		if field != nil {
			enc.EncodeUint32(*field)
		}
	}
	enc.EncodeOptional(op.HomeDomain != nil)
	if op.HomeDomain != nil {
		if err := enc.EncodeString(
			*op.HomeDomain,
			MaxHomeDomainBytes,
		); err != nil {
			return err
		}
	}
	enc.EncodeOptional(op.Signer != nil)
	if op.Signer != nil {
		return op.Signer.encodeXDR(enc)
	}
	return nil
}

func (op *SetOptions) decodeBody(dec *xdr.Decoder) error {
	present, err := dec.DecodeOptional("setOptions.inflationDest")
	if err != nil {
		return err
	}
	if present {
		inflationDest, err := decodeAccountID(dec)
		if err != nil {
			return err
		}
		op.InflationDest = &inflationDest
	}
	for _, field := range []struct {
		name string
		dest **uint32
	}{
		{"setOptions.clearFlags", &op.ClearFlags},
		{"setOptions.setFlags", &op.SetFlags},
		{"setOptions.masterWeight", &op.MasterWeight},
		{"setOptions.lowThreshold", &op.LowThreshold},
		{"setOptions.medThreshold", &op.MedThreshold},
		{"setOptions.highThreshold", &op.HighThreshold},
	} {
		present, err := dec.DecodeOptional(field.name)
		if err != nil {
			return err
		}
		if present {
			value, err := dec.DecodeUint32(field.name)
			if err != nil {
				return err
			}
			*field.dest = &value
		}
	}
	present, err = dec.DecodeOptional("setOptions.homeDomain")
	if err != nil {
		return err
	}
	if present {
		homeDomain, err := dec.DecodeString(
			MaxHomeDomainBytes,
			"setOptions.homeDomain",
		)
		if err != nil {
			return err
		}
		op.HomeDomain = &homeDomain
	}
	present, err = dec.DecodeOptional("setOptions.signer")
	if err != nil {
		return err
	}
	if present {
		signer, err := decodeSigner(dec)
		if err != nil {
			return err
		}
		op.Signer = &signer
	}
	return nil
}
