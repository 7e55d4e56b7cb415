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

// LedgerEntryType enumerates the ledger entry kinds a LedgerKey can name
type LedgerEntryType int32

const (
	LedgerEntryTypeAccount          LedgerEntryType = 0
	LedgerEntryTypeTrustLine        LedgerEntryType = 1
	LedgerEntryTypeOffer            LedgerEntryType = 2
	LedgerEntryTypeData             LedgerEntryType = 3
	LedgerEntryTypeClaimableBalance LedgerEntryType = 4
	LedgerEntryTypeLiquidityPool    LedgerEntryType = 5
	LedgerEntryTypeContractData     LedgerEntryType = 6
	LedgerEntryTypeContractCode     LedgerEntryType = 7
	LedgerEntryTypeConfigSetting    LedgerEntryType = 8
	LedgerEntryTypeTTL              LedgerEntryType = 9

	// ManageDataNameMaxBytes is the wire cap on data entry names
	ManageDataNameMaxBytes = 64
)

// ContractDataDurability distinguishes temporary from persistent contract
// storage
type ContractDataDurability int32

const (
	ContractDataTemporary  ContractDataDurability = 0
	ContractDataPersistent ContractDataDurability = 1
)

// LedgerKey names a single ledger entry. Type selects which pointer field
// is set; exactly one must be non-nil for the matching arm (void arms use
// the plain fields).
type LedgerKey struct {
	Type             LedgerEntryType
	Account          *LedgerKeyAccount
	TrustLine        *LedgerKeyTrustLine
	Offer            *LedgerKeyOffer
	Data             *LedgerKeyData
	ClaimableBalance *ClaimableBalanceID
	LiquidityPool    *PoolID
	ContractData     *LedgerKeyContractData
	ContractCode     *LedgerKeyContractCode
	ConfigSettingID  uint32
	TTLKeyHash       [32]byte
}

type LedgerKeyAccount struct {
	AccountID AccountID
}

type LedgerKeyTrustLine struct {
	AccountID AccountID
	Asset     TrustLineAsset
}

type LedgerKeyOffer struct {
	SellerID AccountID
	OfferID  int64
}

type LedgerKeyData struct {
	AccountID AccountID
	DataName  string
}

type LedgerKeyContractData struct {
	Contract   ScAddress
	Key        ScVal
	Durability ContractDataDurability
}

type LedgerKeyContractCode struct {
	Hash [32]byte
}

func (k LedgerKey) encodeXDR(enc *xdr.Encoder) error {
	enc.EncodeInt32(int32(k.Type))
	switch k.Type {
	case LedgerEntryTypeAccount:
		if k.Account == nil {
			return missingArmError("LedgerKey", "account")
		}
		return k.Account.AccountID.encodeXDR(enc)
	case LedgerEntryTypeTrustLine:
		if k.TrustLine == nil {
			return missingArmError("LedgerKey", "trustLine")
		}
		if err := k.TrustLine.AccountID.encodeXDR(enc); err != nil {
			return err
		}
		return k.TrustLine.Asset.encodeXDR(enc)
	case LedgerEntryTypeOffer:
		if k.Offer == nil {
			return missingArmError("LedgerKey", "offer")
		}
		if err := k.Offer.SellerID.encodeXDR(enc); err != nil {
			return err
		}
		enc.EncodeInt64(k.Offer.OfferID)
		return nil
	case LedgerEntryTypeData:
		if k.Data == nil {
			return missingArmError("LedgerKey", "data")
		}
		if err := k.Data.AccountID.encodeXDR(enc); err != nil {
			return err
		}
		return enc.EncodeString(
			k.Data.DataName,
			ManageDataNameMaxBytes,
		)
	case LedgerEntryTypeClaimableBalance:
		if k.ClaimableBalance == nil {
			return missingArmError("LedgerKey", "claimableBalance")
		}
		return k.ClaimableBalance.EncodeXDR(enc)
	case LedgerEntryTypeLiquidityPool:
		if k.LiquidityPool == nil {
			return missingArmError("LedgerKey", "liquidityPool")
		}
		enc.EncodeFixedOpaque(k.LiquidityPool[:])
		return nil
	case LedgerEntryTypeContractData:
		if k.ContractData == nil {
			return missingArmError("LedgerKey", "contractData")
		}
		if err := k.ContractData.Contract.encodeXDR(enc); err != nil {
			return err
		}
		if err := k.ContractData.Key.encodeXDR(enc); err != nil {
			return err
		}
		enc.EncodeInt32(int32(k.ContractData.Durability))
		return nil
	case LedgerEntryTypeContractCode:
		if k.ContractCode == nil {
			return missingArmError("LedgerKey", "contractCode")
		}
		enc.EncodeFixedOpaque(k.ContractCode.Hash[:])
		return nil
	case LedgerEntryTypeConfigSetting:
		enc.EncodeInt32(int32(k.ConfigSettingID))
		return nil
	case LedgerEntryTypeTTL:
		enc.EncodeFixedOpaque(k.TTLKeyHash[:])
		return nil
	default:
		return fmt.Errorf("cannot encode ledger key type %d", k.Type)
	}
}

func missingArmError(union string, arm string) error {
	return fmt.Errorf("%s %s arm is not populated", union, arm)
}

func decodeLedgerKey(dec *xdr.Decoder) (LedgerKey, error) {
	entryType, err := dec.DecodeInt32("ledgerKey.type")
	if err != nil {
		return LedgerKey{}, err
	}
	var out LedgerKey
	out.Type = LedgerEntryType(entryType)
	switch out.Type {
	case LedgerEntryTypeAccount:
		accountID, err := decodeAccountID(dec)
		if err != nil {
			return LedgerKey{}, err
		}
		out.Account = &LedgerKeyAccount{AccountID: accountID}
	case LedgerEntryTypeTrustLine:
		accountID, err := decodeAccountID(dec)
		if err != nil {
			return LedgerKey{}, err
		}
		asset, err := decodeTrustLineAsset(dec)
		if err != nil {
			return LedgerKey{}, err
		}
		out.TrustLine = &LedgerKeyTrustLine{
			AccountID: accountID,
			Asset:     asset,
		}
	case LedgerEntryTypeOffer:
		sellerID, err := decodeAccountID(dec)
		if err != nil {
			return LedgerKey{}, err
		}
		offerID, err := dec.DecodeInt64("ledgerKey.offerID")
		if err != nil {
			return LedgerKey{}, err
		}
		out.Offer = &LedgerKeyOffer{
			SellerID: sellerID,
			OfferID:  offerID,
		}
	case LedgerEntryTypeData:
		accountID, err := decodeAccountID(dec)
		if err != nil {
			return LedgerKey{}, err
		}
		dataName, err := dec.DecodeString(
			ManageDataNameMaxBytes,
			"ledgerKey.dataName",
		)
		if err != nil {
			return LedgerKey{}, err
		}
		out.Data = &LedgerKeyData{
			AccountID: accountID,
			DataName:  dataName,
		}
	case LedgerEntryTypeClaimableBalance:
		var balanceID ClaimableBalanceID
		if err := balanceID.DecodeXDR(dec); err != nil {
			return LedgerKey{}, err
		}
		out.ClaimableBalance = &balanceID
	case LedgerEntryTypeLiquidityPool:
		raw, err := dec.DecodeFixedOpaque(
			32,
			"ledgerKey.liquidityPoolID",
		)
		if err != nil {
			return LedgerKey{}, err
		}
		var poolID PoolID
		copy(poolID[:], raw)
		out.LiquidityPool = &poolID
	case LedgerEntryTypeContractData:
		contract, err := decodeScAddress(dec)
		if err != nil {
			return LedgerKey{}, err
		}
		key, err := decodeScVal(dec)
		if err != nil {
			return LedgerKey{}, err
		}
		durability, err := dec.DecodeInt32("ledgerKey.durability")
		if err != nil {
			return LedgerKey{}, err
		}
		out.ContractData = &LedgerKeyContractData{
			Contract:   contract,
			Key:        key,
			Durability: ContractDataDurability(durability),
		}
	case LedgerEntryTypeContractCode:
		raw, err := dec.DecodeFixedOpaque(
			32,
			"ledgerKey.contractCodeHash",
		)
		if err != nil {
			return LedgerKey{}, err
		}
		out.ContractCode = &LedgerKeyContractCode{}
		copy(out.ContractCode.Hash[:], raw)
	case LedgerEntryTypeConfigSetting:
		id, err := dec.DecodeInt32("ledgerKey.configSettingID")
		if err != nil {
			return LedgerKey{}, err
		}
		out.ConfigSettingID = uint32(id)
	case LedgerEntryTypeTTL:
		raw, err := dec.DecodeFixedOpaque(32, "ledgerKey.ttlKeyHash")
		if err != nil {
			return LedgerKey{}, err
		}
		copy(out.TTLKeyHash[:], raw)
	default:
		return LedgerKey{}, xdr.UnknownDiscriminantError{
			Union:        "LedgerKey",
			Discriminant: entryType,
		}
	}
	return out, nil
}
