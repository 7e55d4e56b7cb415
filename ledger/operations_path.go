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

// PathPaymentStrictReceive delivers an exact destination amount, spending
// at most SendMax of the send asset across the conversion path
type PathPaymentStrictReceive struct {
	OpSource
	SendAsset   Asset
	SendMax     int64
	Destination MuxedAccount
	DestAsset   Asset
	DestAmount  int64
	Path        []Asset
}

func (op *PathPaymentStrictReceive) Type() OperationType {
	return OperationTypePathPaymentStrictReceive
}

func (op *PathPaymentStrictReceive) Validate() error {
	if err := checkPositiveAmount("send max", op.SendMax); err != nil {
		return err
	}
	if err := checkPositiveAmount(
		"destination amount",
		op.DestAmount,
	); err != nil {
		return err
	}
	return checkPathLength(op.Path)
}

func (op *PathPaymentStrictReceive) encodeBody(enc *xdr.Encoder) error {
	if err := op.SendAsset.encodeXDR(enc); err != nil {
		return err
	}
	enc.EncodeInt64(op.SendMax)
	if err := op.Destination.encodeXDR(enc); err != nil {
		return err
	}
	if err := op.DestAsset.encodeXDR(enc); err != nil {
		return err
	}
	enc.EncodeInt64(op.DestAmount)
	return encodeAssetPath(enc, op.Path)
}

func (op *PathPaymentStrictReceive) decodeBody(dec *xdr.Decoder) error {
	var err error
	if op.SendAsset, err = decodeAsset(dec); err != nil {
		return err
	}
	if op.SendMax, err = dec.DecodeInt64(
		"pathPayment.sendMax",
	); err != nil {
		return err
	}
	if op.Destination, err = decodeMuxedAccount(dec); err != nil {
		return err
	}
	if op.DestAsset, err = decodeAsset(dec); err != nil {
		return err
	}
	if op.DestAmount, err = dec.DecodeInt64(
		"pathPayment.destAmount",
	); err != nil {
		return err
	}
	op.Path, err = decodeAssetPath(dec)
	return err
}

// PathPaymentStrictSend spends an exact send amount, delivering at least
// DestMin of the destination asset across the conversion path
type PathPaymentStrictSend struct {
	OpSource
	SendAsset   Asset
	SendAmount  int64
	Destination MuxedAccount
	DestAsset   Asset
	DestMin     int64
	Path        []Asset
}

func (op *PathPaymentStrictSend) Type() OperationType {
	return OperationTypePathPaymentStrictSend
}

func (op *PathPaymentStrictSend) Validate() error {
	if err := checkPositiveAmount(
		"send amount",
		op.SendAmount,
	); err != nil {
		return err
	}
	if err := checkPositiveAmount(
		"destination minimum",
		op.DestMin,
	); err != nil {
		return err
	}
	return checkPathLength(op.Path)
}

func (op *PathPaymentStrictSend) encodeBody(enc *xdr.Encoder) error {
	if err := op.SendAsset.encodeXDR(enc); err != nil {
		return err
	}
	enc.EncodeInt64(op.SendAmount)
	if err := op.Destination.encodeXDR(enc); err != nil {
		return err
	}
	if err := op.DestAsset.encodeXDR(enc); err != nil {
		return err
	}
	enc.EncodeInt64(op.DestMin)
	return encodeAssetPath(enc, op.Path)
}

func (op *PathPaymentStrictSend) decodeBody(dec *xdr.Decoder) error {
	var err error
	if op.SendAsset, err = decodeAsset(dec); err != nil {
		return err
	}
	if op.SendAmount, err = dec.DecodeInt64(
		"pathPayment.sendAmount",
	); err != nil {
		return err
	}
	if op.Destination, err = decodeMuxedAccount(dec); err != nil {
		return err
	}
	if op.DestAsset, err = decodeAsset(dec); err != nil {
		return err
	}
	if op.DestMin, err = dec.DecodeInt64(
		"pathPayment.destMin",
	); err != nil {
		return err
	}
	op.Path, err = decodeAssetPath(dec)
	return err
}

func checkPathLength(path []Asset) error {
	if len(path) > MaxPathLength {
		return fmt.Errorf(
			"payment path exceeds %d hops: %d",
			MaxPathLength,
			len(path),
		)
	}
	return nil
}
