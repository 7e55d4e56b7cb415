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

// BeginSponsoringFutureReserves makes the source account pay the base
// reserves for entries the sponsored account creates, until the sponsored
// account runs EndSponsoringFutureReserves
type BeginSponsoringFutureReserves struct {
	OpSource
	SponsoredID AccountID
}

func (op *BeginSponsoringFutureReserves) Type() OperationType {
	return OperationTypeBeginSponsoringFutureReserves
}

func (op *BeginSponsoringFutureReserves) Validate() error {
	return nil
}

func (op *BeginSponsoringFutureReserves) encodeBody(
	enc *xdr.Encoder,
) error {
	return op.SponsoredID.encodeXDR(enc)
}

func (op *BeginSponsoringFutureReserves) decodeBody(
	dec *xdr.Decoder,
) error {
	sponsoredID, err := decodeAccountID(dec)
	if err != nil {
		return err
	}
	op.SponsoredID = sponsoredID
	return nil
}

// EndSponsoringFutureReserves closes the sponsoring relationship opened by
// a matching BeginSponsoringFutureReserves in the same transaction
type EndSponsoringFutureReserves struct {
	OpSource
}

func (op *EndSponsoringFutureReserves) Type() OperationType {
	return OperationTypeEndSponsoringFutureReserves
}

func (op *EndSponsoringFutureReserves) Validate() error {
	return nil
}

func (op *EndSponsoringFutureReserves) encodeBody(
	enc *xdr.Encoder,
) error {
	return nil
}

func (op *EndSponsoringFutureReserves) decodeBody(
	dec *xdr.Decoder,
) error {
	return nil
}

type revokeSponsorshipKind int32

const (
	revokeSponsorshipLedgerEntry revokeSponsorshipKind = 0
	revokeSponsorshipSigner      revokeSponsorshipKind = 1
)

// RevokeSponsorshipSigner names a signer entry by account and key
type RevokeSponsorshipSigner struct {
	AccountID AccountID
	SignerKey SignerKey
}

// RevokeSponsorship transfers or removes sponsorship of a ledger entry or
// a signer. Exactly one of LedgerKey/Signer must be set.
type RevokeSponsorship struct {
	OpSource
	LedgerKey *LedgerKey
	Signer    *RevokeSponsorshipSigner
}

func (op *RevokeSponsorship) Type() OperationType {
	return OperationTypeRevokeSponsorship
}

func (op *RevokeSponsorship) Validate() error {
	if (op.LedgerKey == nil) == (op.Signer == nil) {
		return fmt.Errorf(
			"revoke sponsorship needs exactly one of ledger key or signer",
		)
	}
	return nil
}

func (op *RevokeSponsorship) encodeBody(enc *xdr.Encoder) error {
	switch {
	case op.LedgerKey != nil:
		enc.EncodeInt32(int32(revokeSponsorshipLedgerEntry))
		return op.LedgerKey.encodeXDR(enc)
	case op.Signer != nil:
		enc.EncodeInt32(int32(revokeSponsorshipSigner))
		if err := op.Signer.AccountID.encodeXDR(enc); err != nil {
			return err
		}
		return op.Signer.SignerKey.encodeXDR(enc)
	default:
		return missingArmError("RevokeSponsorship", "ledgerKey or signer")
	}
}

func (op *RevokeSponsorship) decodeBody(dec *xdr.Decoder) error {
	kind, err := dec.DecodeInt32("revokeSponsorship.type")
	if err != nil {
		return err
	}
	switch revokeSponsorshipKind(kind) {
	case revokeSponsorshipLedgerEntry:
		ledgerKey, err := decodeLedgerKey(dec)
		if err != nil {
			return err
		}
		op.LedgerKey = &ledgerKey
	case revokeSponsorshipSigner:
		accountID, err := decodeAccountID(dec)
		if err != nil {
			return err
		}
		signerKey, err := decodeSignerKey(dec)
		if err != nil {
			return err
		}
		op.Signer = &RevokeSponsorshipSigner{
			AccountID: accountID,
			SignerKey: signerKey,
		}
	default:
		return xdr.UnknownDiscriminantError{
			Union:        "RevokeSponsorship",
			Discriminant: kind,
		}
	}
	return nil
}
