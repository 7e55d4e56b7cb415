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
	"strings"

	"github.com/blinklabs-io/gostellar/strkey"
	"github.com/blinklabs-io/gostellar/xdr"
)

type AssetType int32

const (
	AssetTypeNative           AssetType = 0
	AssetTypeCreditAlphanum4  AssetType = 1
	AssetTypeCreditAlphanum12 AssetType = 2
	AssetTypePoolShare        AssetType = 3

	// LiquidityPoolFeeV18 is the only fee rate (in basis points) the
	// protocol accepts for constant-product pools
	LiquidityPoolFeeV18 = 30
)

var (
	ErrInvalidAssetCode = errors.New("invalid asset code")
	ErrInvalidPoolID    = errors.New("invalid liquidity pool ID")
)

// Asset identifies the native asset or an issued credit asset. The zero
// value is the native asset. Asset is comparable with ==.
type Asset struct {
	assetType AssetType
	code      string
	issuer    AccountID
}

// NativeAsset returns the network's native asset
func NativeAsset() Asset {
	return Asset{}
}

// CreditAsset builds an issued asset, selecting the alphanum-4 or
// alphanum-12 form from the code length
func CreditAsset(code string, issuer string) (Asset, error) {
	if err := validateAssetCode(code); err != nil {
		return Asset{}, err
	}
	issuerID, err := AccountIDFromAddress(issuer)
	if err != nil {
		return Asset{}, fmt.Errorf("asset issuer: %w", err)
	}
	assetType := AssetTypeCreditAlphanum4
	if len(code) > 4 {
		assetType = AssetTypeCreditAlphanum12
	}
	return Asset{
		assetType: assetType,
		code:      code,
		issuer:    issuerID,
	}, nil
}

// MustCreditAsset is like CreditAsset but panics on error, for static
// inputs known to be valid
func MustCreditAsset(code string, issuer string) Asset {
	asset, err := CreditAsset(code, issuer)
	if err != nil {
		panic(err)
	}
	return asset
}

func validateAssetCode(code string) error {
	if len(code) < 1 || len(code) > 12 {
		return fmt.Errorf(
			"%w: %d characters",
			ErrInvalidAssetCode,
			len(code),
		)
	}
	for _, c := range code {
		if !((c >= 'a' && c <= 'z') ||
			(c >= 'A' && c <= 'Z') ||
			(c >= '0' && c <= '9')) {
			return fmt.Errorf(
				"%w: character %q",
				ErrInvalidAssetCode,
				c,
			)
		}
	}
	return nil
}

func (a Asset) Type() AssetType { return a.assetType }

// IsNative reports whether this is the network's native asset
func (a Asset) IsNative() bool { return a.assetType == AssetTypeNative }

// Code returns the asset code, empty for the native asset
func (a Asset) Code() string { return a.code }

// Issuer returns the issuing account, zero for the native asset
func (a Asset) Issuer() AccountID { return a.issuer }

// String returns "native" or "CODE:ISSUER"
func (a Asset) String() string {
	if a.IsNative() {
		return "native"
	}
	return a.code + ":" + a.issuer.Address()
}

func (a Asset) encodeXDR(enc *xdr.Encoder) error {
	enc.EncodeInt32(int32(a.assetType))
	switch a.assetType {
	case AssetTypeNative:
		return nil
	case AssetTypeCreditAlphanum4:
		return a.encodeCodeAndIssuer(enc, 4)
	case AssetTypeCreditAlphanum12:
		return a.encodeCodeAndIssuer(enc, 12)
	default:
		return fmt.Errorf(
			"cannot encode asset type %d",
			a.assetType,
		)
	}
}

// Asset codes go on the wire as fixed-size buffers, right-padded with zero
// bytes
func (a Asset) encodeCodeAndIssuer(enc *xdr.Encoder, size int) error {
	code := make([]byte, size)
	copy(code, a.code)
	enc.EncodeFixedOpaque(code)
	return a.issuer.encodeXDR(enc)
}

func decodeAsset(dec *xdr.Decoder) (Asset, error) {
	assetType, err := dec.DecodeInt32("asset.type")
	if err != nil {
		return Asset{}, err
	}
	return decodeAssetBody(dec, AssetType(assetType))
}

func decodeAssetBody(
	dec *xdr.Decoder,
	assetType AssetType,
) (Asset, error) {
	switch assetType {
	case AssetTypeNative:
		return Asset{}, nil
	case AssetTypeCreditAlphanum4:
		return decodeCodeAndIssuer(dec, 4)
	case AssetTypeCreditAlphanum12:
		return decodeCodeAndIssuer(dec, 12)
	default:
		return Asset{}, xdr.UnknownDiscriminantError{
			Union:        "Asset",
			Discriminant: int32(assetType),
		}
	}
}

func decodeCodeAndIssuer(dec *xdr.Decoder, size int) (Asset, error) {
	rawCode, err := dec.DecodeFixedOpaque(size, "asset.code")
	if err != nil {
		return Asset{}, err
	}
	code := strings.TrimRight(string(rawCode), "\x00")
	issuer, err := decodeAccountID(dec)
	if err != nil {
		return Asset{}, err
	}
	assetType := AssetTypeCreditAlphanum4
	if size == 12 {
		assetType = AssetTypeCreditAlphanum12
	}
	return Asset{
		assetType: assetType,
		code:      code,
		issuer:    issuer,
	}, nil
}

// PoolID is a liquidity pool identifier, conventionally rendered as 64 hex
// characters
type PoolID [32]byte

// PoolIDFromHex parses the 64-hex-character pool ID form
func PoolIDFromHex(poolID string) (PoolID, error) {
	if len(poolID) != 64 {
		return PoolID{}, fmt.Errorf(
			"%w: %d hex characters",
			ErrInvalidPoolID,
			len(poolID),
		)
	}
	raw, err := hex.DecodeString(poolID)
	if err != nil {
		return PoolID{}, fmt.Errorf("%w: %s", ErrInvalidPoolID, err)
	}
	var out PoolID
	copy(out[:], raw)
	return out, nil
}

// String returns the 64-hex-character form
func (p PoolID) String() string {
	return hex.EncodeToString(p[:])
}

// Strkey returns the L... strkey form
func (p PoolID) Strkey() string {
	return strkey.MustEncode(strkey.VersionByteLiquidityPool, p[:])
}

// LiquidityPoolParameters describes a constant-product pool: two distinct
// assets in protocol order and the pool fee in basis points
type LiquidityPoolParameters struct {
	AssetA Asset
	AssetB Asset
	Fee    int32
}

// NewLiquidityPoolParameters validates asset ordering and the fee rate
func NewLiquidityPoolParameters(
	assetA Asset,
	assetB Asset,
	fee int32,
) (LiquidityPoolParameters, error) {
	if fee != LiquidityPoolFeeV18 {
		return LiquidityPoolParameters{}, fmt.Errorf(
			"liquidity pool fee must be %d, got %d",
			LiquidityPoolFeeV18,
			fee,
		)
	}
	if compareAssets(assetA, assetB) >= 0 {
		return LiquidityPoolParameters{}, errors.New(
			"liquidity pool assets must be distinct and in protocol order",
		)
	}
	return LiquidityPoolParameters{
		AssetA: assetA,
		AssetB: assetB,
		Fee:    fee,
	}, nil
}

// compareAssets implements the protocol asset ordering: by type, then
// code, then issuer
func compareAssets(a Asset, b Asset) int {
	if a.assetType != b.assetType {
		if a.assetType < b.assetType {
			return -1
		}
		return 1
	}
	if c := strings.Compare(a.code, b.code); c != 0 {
		return c
	}
	return strings.Compare(
		string(a.issuer[:]),
		string(b.issuer[:]),
	)
}

const liquidityPoolConstantProduct int32 = 0

func (p LiquidityPoolParameters) encodeXDR(enc *xdr.Encoder) error {
	enc.EncodeInt32(liquidityPoolConstantProduct)
	if err := p.AssetA.encodeXDR(enc); err != nil {
		return err
	}
	if err := p.AssetB.encodeXDR(enc); err != nil {
		return err
	}
	enc.EncodeInt32(p.Fee)
	return nil
}

func decodeLiquidityPoolParameters(
	dec *xdr.Decoder,
) (LiquidityPoolParameters, error) {
	poolType, err := dec.DecodeInt32("liquidityPool.type")
	if err != nil {
		return LiquidityPoolParameters{}, err
	}
	if poolType != liquidityPoolConstantProduct {
		return LiquidityPoolParameters{}, xdr.UnknownDiscriminantError{
			Union:        "LiquidityPoolParameters",
			Discriminant: poolType,
		}
	}
	assetA, err := decodeAsset(dec)
	if err != nil {
		return LiquidityPoolParameters{}, err
	}
	assetB, err := decodeAsset(dec)
	if err != nil {
		return LiquidityPoolParameters{}, err
	}
	fee, err := dec.DecodeInt32("liquidityPool.fee")
	if err != nil {
		return LiquidityPoolParameters{}, err
	}
	return LiquidityPoolParameters{
		AssetA: assetA,
		AssetB: assetB,
		Fee:    fee,
	}, nil
}

// ChangeTrustAsset extends Asset with the pool-share arm used by the
// ChangeTrust operation. Exactly one of Asset/Pool describes the variant;
// a nil Pool with a zero Asset means native.
type ChangeTrustAsset struct {
	Asset Asset
	Pool  *LiquidityPoolParameters
}

// ChangeTrustAssetFromAsset wraps a plain asset
func ChangeTrustAssetFromAsset(asset Asset) ChangeTrustAsset {
	return ChangeTrustAsset{Asset: asset}
}

// ChangeTrustAssetFromPool wraps constant-product pool parameters
func ChangeTrustAssetFromPool(
	pool LiquidityPoolParameters,
) ChangeTrustAsset {
	return ChangeTrustAsset{Pool: &pool}
}

func (c ChangeTrustAsset) encodeXDR(enc *xdr.Encoder) error {
	if c.Pool != nil {
		enc.EncodeInt32(int32(AssetTypePoolShare))
		return c.Pool.encodeXDR(enc)
	}
	return c.Asset.encodeXDR(enc)
}

func decodeChangeTrustAsset(dec *xdr.Decoder) (ChangeTrustAsset, error) {
	assetType, err := dec.DecodeInt32("changeTrustAsset.type")
	if err != nil {
		return ChangeTrustAsset{}, err
	}
	if AssetType(assetType) == AssetTypePoolShare {
		pool, err := decodeLiquidityPoolParameters(dec)
		if err != nil {
			return ChangeTrustAsset{}, err
		}
		return ChangeTrustAsset{Pool: &pool}, nil
	}
	asset, err := decodeAssetBody(dec, AssetType(assetType))
	if err != nil {
		return ChangeTrustAsset{}, err
	}
	return ChangeTrustAsset{Asset: asset}, nil
}

// TrustLineAsset extends Asset with the pool-share arm used in trust line
// ledger keys, where the pool is referenced by ID
type TrustLineAsset struct {
	Asset  Asset
	PoolID *PoolID
}

func (t TrustLineAsset) encodeXDR(enc *xdr.Encoder) error {
	if t.PoolID != nil {
		enc.EncodeInt32(int32(AssetTypePoolShare))
		enc.EncodeFixedOpaque(t.PoolID[:])
		return nil
	}
	return t.Asset.encodeXDR(enc)
}

func decodeTrustLineAsset(dec *xdr.Decoder) (TrustLineAsset, error) {
	assetType, err := dec.DecodeInt32("trustLineAsset.type")
	if err != nil {
		return TrustLineAsset{}, err
	}
	if AssetType(assetType) == AssetTypePoolShare {
		raw, err := dec.DecodeFixedOpaque(32, "trustLineAsset.poolID")
		if err != nil {
			return TrustLineAsset{}, err
		}
		var poolID PoolID
		copy(poolID[:], raw)
		return TrustLineAsset{PoolID: &poolID}, nil
	}
	asset, err := decodeAssetBody(dec, AssetType(assetType))
	if err != nil {
		return TrustLineAsset{}, err
	}
	return TrustLineAsset{Asset: asset}, nil
}
