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

// OperationType identifies the concrete operation inside the wire union
type OperationType int32

const (
	OperationTypeCreateAccount                 OperationType = 0
	OperationTypePayment                       OperationType = 1
	OperationTypePathPaymentStrictReceive      OperationType = 2
	OperationTypeManageSellOffer               OperationType = 3
	OperationTypeCreatePassiveSellOffer        OperationType = 4
	OperationTypeSetOptions                    OperationType = 5
	OperationTypeChangeTrust                   OperationType = 6
	OperationTypeAllowTrust                    OperationType = 7
	OperationTypeAccountMerge                  OperationType = 8
	OperationTypeInflation                     OperationType = 9
	OperationTypeManageData                    OperationType = 10
	OperationTypeBumpSequence                  OperationType = 11
	OperationTypeManageBuyOffer                OperationType = 12
	OperationTypePathPaymentStrictSend         OperationType = 13
	OperationTypeCreateClaimableBalance        OperationType = 14
	OperationTypeClaimClaimableBalance         OperationType = 15
	OperationTypeBeginSponsoringFutureReserves OperationType = 16
	OperationTypeEndSponsoringFutureReserves   OperationType = 17
	OperationTypeRevokeSponsorship             OperationType = 18
	OperationTypeClawback                      OperationType = 19
	OperationTypeClawbackClaimableBalance      OperationType = 20
	OperationTypeSetTrustLineFlags             OperationType = 21
	OperationTypeLiquidityPoolDeposit          OperationType = 22
	OperationTypeLiquidityPoolWithdraw         OperationType = 23
	OperationTypeInvokeHostFunction            OperationType = 24
	OperationTypeExtendFootprintTTL            OperationType = 25
	OperationTypeRestoreFootprint              OperationType = 26
)

const (
	// MaxTransactionOperations caps operations per transaction
	MaxTransactionOperations = 100
	// MaxPathLength caps intermediate assets in a path payment
	MaxPathLength = 5
	// MaxClaimants caps claimants on a claimable balance
	MaxClaimants = 10
	// MaxHomeDomainBytes caps the home domain string
	MaxHomeDomainBytes = 32
	// MaxDataValueBytes caps a data entry value
	MaxDataValueBytes = 64
)

var operationTypeNames = map[OperationType]string{
	OperationTypeCreateAccount:                 "createAccount",
	OperationTypePayment:                       "payment",
	OperationTypePathPaymentStrictReceive:      "pathPaymentStrictReceive",
	OperationTypeManageSellOffer:               "manageSellOffer",
	OperationTypeCreatePassiveSellOffer:        "createPassiveSellOffer",
	OperationTypeSetOptions:                    "setOptions",
	OperationTypeChangeTrust:                   "changeTrust",
	OperationTypeAllowTrust:                    "allowTrust",
	OperationTypeAccountMerge:                  "accountMerge",
	OperationTypeInflation:                     "inflation",
	OperationTypeManageData:                    "manageData",
	OperationTypeBumpSequence:                  "bumpSequence",
	OperationTypeManageBuyOffer:                "manageBuyOffer",
	OperationTypePathPaymentStrictSend:         "pathPaymentStrictSend",
	OperationTypeCreateClaimableBalance:        "createClaimableBalance",
	OperationTypeClaimClaimableBalance:         "claimClaimableBalance",
	OperationTypeBeginSponsoringFutureReserves: "beginSponsoringFutureReserves",
	OperationTypeEndSponsoringFutureReserves:   "endSponsoringFutureReserves",
	OperationTypeRevokeSponsorship:             "revokeSponsorship",
	OperationTypeClawback:                      "clawback",
	OperationTypeClawbackClaimableBalance:      "clawbackClaimableBalance",
	OperationTypeSetTrustLineFlags:             "setTrustLineFlags",
	OperationTypeLiquidityPoolDeposit:          "liquidityPoolDeposit",
	OperationTypeLiquidityPoolWithdraw:         "liquidityPoolWithdraw",
	OperationTypeInvokeHostFunction:            "invokeHostFunction",
	OperationTypeExtendFootprintTTL:            "extendFootprintTTL",
	OperationTypeRestoreFootprint:              "restoreFootprint",
}

func (t OperationType) String() string {
	if name, ok := operationTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("unknown (%d)", int32(t))
}

// Operation is one action inside a transaction. Concrete operation types
// live in the operations_*.go files; all of them embed OpSource for the
// optional per-operation source account.
type Operation interface {
	Type() OperationType
	// Validate checks the operation's fields against protocol rules. It
	// is called by the transaction builder before an operation is
	// accepted.
	Validate() error
	// SourceAccount returns the per-operation source override, or nil to
	// inherit the transaction source
	SourceAccount() *MuxedAccount
	setSource(*MuxedAccount)
	encodeBody(enc *xdr.Encoder) error
	decodeBody(dec *xdr.Decoder) error
}

// OpSource carries the optional per-operation source account. Embed it in
// every concrete operation.
type OpSource struct {
	Source *MuxedAccount
}

func (o *OpSource) SourceAccount() *MuxedAccount {
	return o.Source
}

func (o *OpSource) setSource(src *MuxedAccount) {
	o.Source = src
}

func encodeOperation(enc *xdr.Encoder, op Operation) error {
	src := op.SourceAccount()
	enc.EncodeOptional(src != nil)
	if src != nil {
		if err := src.encodeXDR(enc); err != nil {
			return err
		}
	}
	enc.EncodeInt32(int32(op.Type()))
	return op.encodeBody(enc)
}

// newOperation returns an empty concrete operation for a wire
// discriminant, or nil if the discriminant is unknown
func newOperation(opType OperationType) Operation {
	switch opType {
	case OperationTypeCreateAccount:
		return &CreateAccount{}
	case OperationTypePayment:
		return &Payment{}
	case OperationTypePathPaymentStrictReceive:
		return &PathPaymentStrictReceive{}
	case OperationTypeManageSellOffer:
		return &ManageSellOffer{}
	case OperationTypeCreatePassiveSellOffer:
		return &CreatePassiveSellOffer{}
	case OperationTypeSetOptions:
		return &SetOptions{}
	case OperationTypeChangeTrust:
		return &ChangeTrust{}
	case OperationTypeAllowTrust:
		return &AllowTrust{}
	case OperationTypeAccountMerge:
		return &AccountMerge{}
	case OperationTypeInflation:
		return &Inflation{}
	case OperationTypeManageData:
		return &ManageData{}
	case OperationTypeBumpSequence:
		return &BumpSequence{}
	case OperationTypeManageBuyOffer:
		return &ManageBuyOffer{}
	case OperationTypePathPaymentStrictSend:
		return &PathPaymentStrictSend{}
	case OperationTypeCreateClaimableBalance:
		return &CreateClaimableBalance{}
	case OperationTypeClaimClaimableBalance:
		return &ClaimClaimableBalance{}
	case OperationTypeBeginSponsoringFutureReserves:
		return &BeginSponsoringFutureReserves{}
	case OperationTypeEndSponsoringFutureReserves:
		return &EndSponsoringFutureReserves{}
	case OperationTypeRevokeSponsorship:
		return &RevokeSponsorship{}
	case OperationTypeClawback:
		return &Clawback{}
	case OperationTypeClawbackClaimableBalance:
		return &ClawbackClaimableBalance{}
	case OperationTypeSetTrustLineFlags:
		return &SetTrustLineFlags{}
	case OperationTypeLiquidityPoolDeposit:
		return &LiquidityPoolDeposit{}
	case OperationTypeLiquidityPoolWithdraw:
		return &LiquidityPoolWithdraw{}
	case OperationTypeInvokeHostFunction:
		return &InvokeHostFunction{}
	case OperationTypeExtendFootprintTTL:
		return &ExtendFootprintTTL{}
	case OperationTypeRestoreFootprint:
		return &RestoreFootprint{}
	default:
		return nil
	}
}

func decodeOperation(dec *xdr.Decoder) (Operation, error) {
	present, err := dec.DecodeOptional("operation.sourceAccount")
	if err != nil {
		return nil, err
	}
	var source *MuxedAccount
	if present {
		account, err := decodeMuxedAccount(dec)
		if err != nil {
			return nil, err
		}
		source = &account
	}
	opType, err := dec.DecodeInt32("operation.type")
	if err != nil {
		return nil, err
	}
	op := newOperation(OperationType(opType))
	if op == nil {
		return nil, xdr.UnknownDiscriminantError{
			Union:        "Operation",
			Discriminant: opType,
		}
	}
	if err := op.decodeBody(dec); err != nil {
		return nil, err
	}
	op.setSource(source)
	return op, nil
}

func encodeOperations(enc *xdr.Encoder, ops []Operation) error {
	if err := enc.EncodeArrayLen(
		len(ops),
		MaxTransactionOperations,
	); err != nil {
		return err
	}
	for _, op := range ops {
		if err := encodeOperation(enc, op); err != nil {
			return err
		}
	}
	return nil
}

func decodeOperations(dec *xdr.Decoder) ([]Operation, error) {
	n, err := dec.DecodeArrayLen(
		MaxTransactionOperations,
		"transaction.operations",
	)
	if err != nil {
		return nil, err
	}
	out := make([]Operation, 0, n)
	for remaining := n; remaining > 0; remaining-- {
		op, err := decodeOperation(dec)
		if err != nil {
			return nil, err
		}
		out = append(out, op)
	}
	return out, nil
}

func encodeAssetPath(enc *xdr.Encoder, path []Asset) error {
	if err := enc.EncodeArrayLen(len(path), MaxPathLength); err != nil {
		return err
	}
	for _, asset := range path {
		if err := asset.encodeXDR(enc); err != nil {
			return err
		}
	}
	return nil
}

func decodeAssetPath(dec *xdr.Decoder) ([]Asset, error) {
	n, err := dec.DecodeArrayLen(MaxPathLength, "operation.path")
	if err != nil {
		return nil, err
	}
	out := make([]Asset, 0, n)
	for remaining := n; remaining > 0; remaining-- {
		asset, err := decodeAsset(dec)
		if err != nil {
			return nil, err
		}
		out = append(out, asset)
	}
	return out, nil
}
