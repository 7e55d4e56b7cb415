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

	"github.com/blinklabs-io/gostellar/xdr"
)

var errSameAssetPair = errors.New(
	"selling and buying assets must differ",
)

// ManageSellOffer creates, updates (OfferID set), or deletes (zero amount)
// an offer selling Amount of Selling at Price
type ManageSellOffer struct {
	OpSource
	Selling Asset
	Buying  Asset
	Amount  int64
	Price   Price
	OfferID int64
}

func (op *ManageSellOffer) Type() OperationType {
	return OperationTypeManageSellOffer
}

func (op *ManageSellOffer) Validate() error {
	return validateOffer(
		op.Selling,
		op.Buying,
		op.Amount,
		op.Price,
		op.OfferID,
	)
}

func (op *ManageSellOffer) encodeBody(enc *xdr.Encoder) error {
	if err := encodeOfferFields(
		enc,
		op.Selling,
		op.Buying,
		op.Amount,
		op.Price,
	); err != nil {
		return err
	}
	enc.EncodeInt64(op.OfferID)
	return nil
}

func (op *ManageSellOffer) decodeBody(dec *xdr.Decoder) error {
	var err error
	op.Selling, op.Buying, op.Amount, op.Price, err = decodeOfferFields(
		dec,
	)
	if err != nil {
		return err
	}
	op.OfferID, err = dec.DecodeInt64("manageSellOffer.offerID")
	return err
}

// ManageBuyOffer is the buy-side counterpart of ManageSellOffer: BuyAmount
// is denominated in the buying asset and Price is buying over selling
type ManageBuyOffer struct {
	OpSource
	Selling   Asset
	Buying    Asset
	BuyAmount int64
	Price     Price
	OfferID   int64
}

func (op *ManageBuyOffer) Type() OperationType {
	return OperationTypeManageBuyOffer
}

func (op *ManageBuyOffer) Validate() error {
	return validateOffer(
		op.Selling,
		op.Buying,
		op.BuyAmount,
		op.Price,
		op.OfferID,
	)
}

func (op *ManageBuyOffer) encodeBody(enc *xdr.Encoder) error {
	if err := encodeOfferFields(
		enc,
		op.Selling,
		op.Buying,
		op.BuyAmount,
		op.Price,
	); err != nil {
		return err
	}
	enc.EncodeInt64(op.OfferID)
	return nil
}

func (op *ManageBuyOffer) decodeBody(dec *xdr.Decoder) error {
	var err error
	op.Selling, op.Buying, op.BuyAmount, op.Price, err = decodeOfferFields(
		dec,
	)
	if err != nil {
		return err
	}
	op.OfferID, err = dec.DecodeInt64("manageBuyOffer.offerID")
	return err
}

// CreatePassiveSellOffer places an offer that does not cross existing
// offers at the same price
type CreatePassiveSellOffer struct {
	OpSource
	Selling Asset
	Buying  Asset
	Amount  int64
	Price   Price
}

func (op *CreatePassiveSellOffer) Type() OperationType {
	return OperationTypeCreatePassiveSellOffer
}

func (op *CreatePassiveSellOffer) Validate() error {
	if err := checkPositiveAmount("offer amount", op.Amount); err != nil {
		return err
	}
	if op.Selling == op.Buying {
		return errSameAssetPair
	}
	return op.Price.validate()
}

func (op *CreatePassiveSellOffer) encodeBody(enc *xdr.Encoder) error {
	return encodeOfferFields(
		enc,
		op.Selling,
		op.Buying,
		op.Amount,
		op.Price,
	)
}

func (op *CreatePassiveSellOffer) decodeBody(dec *xdr.Decoder) error {
	var err error
	op.Selling, op.Buying, op.Amount, op.Price, err = decodeOfferFields(
		dec,
	)
	return err
}

// A zero amount deletes an existing offer, so amounts are only required to
// be non-negative when an offer ID is present
func validateOffer(
	selling Asset,
	buying Asset,
	amount int64,
	price Price,
	offerID int64,
) error {
	if selling == buying {
		return errSameAssetPair
	}
	if offerID < 0 {
		return fmt.Errorf("offer ID cannot be negative: %d", offerID)
	}
	if offerID != 0 {
		if err := checkNonNegativeAmount(
			"offer amount",
			amount,
		); err != nil {
			return err
		}
	} else if err := checkPositiveAmount(
		"offer amount",
		amount,
	); err != nil {
		return err
	}
	return price.validate()
}

func encodeOfferFields(
	enc *xdr.Encoder,
	selling Asset,
	buying Asset,
	amount int64,
	price Price,
) error {
	if err := selling.encodeXDR(enc); err != nil {
		return err
	}
	if err := buying.encodeXDR(enc); err != nil {
		return err
	}
	enc.EncodeInt64(amount)
	return price.encodeXDR(enc)
}

func decodeOfferFields(
	dec *xdr.Decoder,
) (selling Asset, buying Asset, amount int64, price Price, err error) {
	if selling, err = decodeAsset(dec); err != nil {
		return
	}
	if buying, err = decodeAsset(dec); err != nil {
		return
	}
	if amount, err = dec.DecodeInt64("offer.amount"); err != nil {
		return
	}
	price, err = decodePrice(dec)
	return
}
