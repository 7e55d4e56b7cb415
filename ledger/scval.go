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

	"github.com/blinklabs-io/gostellar/strkey"
	"github.com/blinklabs-io/gostellar/xdr"
)

// ScValType enumerates the smart-contract value union arms
type ScValType int32

const (
	ScValTypeBool                   ScValType = 0
	ScValTypeVoid                   ScValType = 1
	ScValTypeError                  ScValType = 2
	ScValTypeU32                    ScValType = 3
	ScValTypeI32                    ScValType = 4
	ScValTypeU64                    ScValType = 5
	ScValTypeI64                    ScValType = 6
	ScValTypeTimepoint              ScValType = 7
	ScValTypeDuration               ScValType = 8
	ScValTypeU128                   ScValType = 9
	ScValTypeI128                   ScValType = 10
	ScValTypeU256                   ScValType = 11
	ScValTypeI256                   ScValType = 12
	ScValTypeBytes                  ScValType = 13
	ScValTypeString                 ScValType = 14
	ScValTypeSymbol                 ScValType = 15
	ScValTypeVec                    ScValType = 16
	ScValTypeMap                    ScValType = 17
	ScValTypeAddress                ScValType = 18
	ScValTypeContractInstance       ScValType = 19
	ScValTypeLedgerKeyContractInst  ScValType = 20
	ScValTypeLedgerKeyNonce         ScValType = 21

	// ScSymbolMaxBytes is the wire cap on contract symbols
	ScSymbolMaxBytes = 32
)

// ScError carries a contract or host error code
type ScError struct {
	Type int32
	Code int32
}

func (e ScError) encodeXDR(enc *xdr.Encoder) error {
	enc.EncodeInt32(e.Type)
	enc.EncodeInt32(e.Code)
	return nil
}

func decodeScError(dec *xdr.Decoder) (ScError, error) {
	errType, err := dec.DecodeInt32("scError.type")
	if err != nil {
		return ScError{}, err
	}
	code, err := dec.DecodeInt32("scError.code")
	if err != nil {
		return ScError{}, err
	}
	return ScError{Type: errType, Code: code}, nil
}

type ScAddressType int32

const (
	ScAddressTypeAccount  ScAddressType = 0
	ScAddressTypeContract ScAddressType = 1
)

// ScAddress identifies an account or a deployed contract inside the
// smart-contract value model
type ScAddress struct {
	Type       ScAddressType
	AccountID  AccountID
	ContractID [32]byte
}

// ScAddressFromString parses a G... account or C... contract strkey
func ScAddressFromString(address string) (ScAddress, error) {
	version, payload, err := strkey.DecodeAny(address)
	if err != nil {
		return ScAddress{}, err
	}
	var out ScAddress
	switch version {
	case strkey.VersionByteAccountID:
		out.Type = ScAddressTypeAccount
		copy(out.AccountID[:], payload)
	case strkey.VersionByteContract:
		out.Type = ScAddressTypeContract
		copy(out.ContractID[:], payload)
	default:
		return ScAddress{}, fmt.Errorf(
			"%w: version 0x%02x is not a contract-callable address",
			strkey.ErrInvalidVersionByte,
			byte(version),
		)
	}
	return out, nil
}

// String returns the matching strkey form
func (a ScAddress) String() string {
	if a.Type == ScAddressTypeContract {
		return strkey.MustEncode(
			strkey.VersionByteContract,
			a.ContractID[:],
		)
	}
	return a.AccountID.Address()
}

func (a ScAddress) encodeXDR(enc *xdr.Encoder) error {
	enc.EncodeInt32(int32(a.Type))
	switch a.Type {
	case ScAddressTypeAccount:
		return a.AccountID.encodeXDR(enc)
	case ScAddressTypeContract:
		enc.EncodeFixedOpaque(a.ContractID[:])
		return nil
	default:
		return fmt.Errorf("cannot encode ScAddress type %d", a.Type)
	}
}

func decodeScAddress(dec *xdr.Decoder) (ScAddress, error) {
	addrType, err := dec.DecodeInt32("scAddress.type")
	if err != nil {
		return ScAddress{}, err
	}
	var out ScAddress
	out.Type = ScAddressType(addrType)
	switch out.Type {
	case ScAddressTypeAccount:
		out.AccountID, err = decodeAccountID(dec)
		if err != nil {
			return ScAddress{}, err
		}
	case ScAddressTypeContract:
		raw, err := dec.DecodeFixedOpaque(
			32,
			"scAddress.contractID",
		)
		if err != nil {
			return ScAddress{}, err
		}
		copy(out.ContractID[:], raw)
	default:
		return ScAddress{}, xdr.UnknownDiscriminantError{
			Union:        "ScAddress",
			Discriminant: addrType,
		}
	}
	return out, nil
}

// Int128Parts is a signed 128-bit integer split into wire halves
type Int128Parts struct {
	Hi int64
	Lo uint64
}

// UInt128Parts is an unsigned 128-bit integer split into wire halves
type UInt128Parts struct {
	Hi uint64
	Lo uint64
}

// Int256Parts is a signed 256-bit integer split into wire quarters
type Int256Parts struct {
	HiHi int64
	HiLo uint64
	LoHi uint64
	LoLo uint64
}

// UInt256Parts is an unsigned 256-bit integer split into wire quarters
type UInt256Parts struct {
	HiHi uint64
	HiLo uint64
	LoHi uint64
	LoLo uint64
}

// ScMapEntry is one key/value pair of an ScVal map
type ScMapEntry struct {
	Key ScVal
	Val ScVal
}

type ContractExecutableType int32

const (
	ContractExecutableWasm         ContractExecutableType = 0
	ContractExecutableStellarAsset ContractExecutableType = 1
)

// ContractExecutable selects the code a contract instance runs: an
// uploaded WASM blob by hash, or the built-in asset contract
type ContractExecutable struct {
	Type     ContractExecutableType
	WasmHash [32]byte
}

func (c ContractExecutable) encodeXDR(enc *xdr.Encoder) error {
	enc.EncodeInt32(int32(c.Type))
	switch c.Type {
	case ContractExecutableWasm:
		enc.EncodeFixedOpaque(c.WasmHash[:])
		return nil
	case ContractExecutableStellarAsset:
		return nil
	default:
		return fmt.Errorf(
			"cannot encode contract executable type %d",
			c.Type,
		)
	}
}

func decodeContractExecutable(
	dec *xdr.Decoder,
) (ContractExecutable, error) {
	execType, err := dec.DecodeInt32("contractExecutable.type")
	if err != nil {
		return ContractExecutable{}, err
	}
	var out ContractExecutable
	out.Type = ContractExecutableType(execType)
	switch out.Type {
	case ContractExecutableWasm:
		raw, err := dec.DecodeFixedOpaque(
			32,
			"contractExecutable.wasmHash",
		)
		if err != nil {
			return ContractExecutable{}, err
		}
		copy(out.WasmHash[:], raw)
	case ContractExecutableStellarAsset:
	default:
		return ContractExecutable{}, xdr.UnknownDiscriminantError{
			Union:        "ContractExecutable",
			Discriminant: execType,
		}
	}
	return out, nil
}

// ScContractInstance is the SCV_CONTRACT_INSTANCE arm: an executable plus
// optional instance storage
type ScContractInstance struct {
	Executable ContractExecutable
	Storage    []ScMapEntry
	HasStorage bool
}

// ScVal is the smart-contract value union. Type selects which of the
// other fields is meaningful; unused fields are ignored on encode.
type ScVal struct {
	Type      ScValType
	Bool      bool
	Error     ScError
	U32       uint32
	I32       int32
	U64       uint64
	I64       int64
	Timepoint uint64
	Duration  uint64
	U128      UInt128Parts
	I128      Int128Parts
	U256      UInt256Parts
	I256      Int256Parts
	Bytes     []byte
	Str       string
	Sym       string
	Vec       []ScVal
	HasVec    bool
	Map       []ScMapEntry
	HasMap    bool
	Address   ScAddress
	Instance  ScContractInstance
	NonceKey  int64
}

// Convenience constructors for the common arms

func ScValVoid() ScVal { return ScVal{Type: ScValTypeVoid} }

func ScValBool(v bool) ScVal {
	return ScVal{Type: ScValTypeBool, Bool: v}
}

func ScValU32(v uint32) ScVal {
	return ScVal{Type: ScValTypeU32, U32: v}
}

func ScValI64(v int64) ScVal {
	return ScVal{Type: ScValTypeI64, I64: v}
}

func ScValBytes(v []byte) ScVal {
	return ScVal{Type: ScValTypeBytes, Bytes: v}
}

func ScValString(v string) ScVal {
	return ScVal{Type: ScValTypeString, Str: v}
}

func ScValSymbol(v string) ScVal {
	return ScVal{Type: ScValTypeSymbol, Sym: v}
}

func ScValAddress(v ScAddress) ScVal {
	return ScVal{Type: ScValTypeAddress, Address: v}
}

func ScValVec(v []ScVal) ScVal {
	return ScVal{Type: ScValTypeVec, Vec: v, HasVec: true}
}

func (v ScVal) encodeXDR(enc *xdr.Encoder) error {
	enc.EncodeInt32(int32(v.Type))
	switch v.Type {
	case ScValTypeBool:
		enc.EncodeBool(v.Bool)
	case ScValTypeVoid, ScValTypeLedgerKeyContractInst:
	case ScValTypeError:
		return v.Error.encodeXDR(enc)
	case ScValTypeU32:
		enc.EncodeUint32(v.U32)
	case ScValTypeI32:
		enc.EncodeInt32(v.I32)
	case ScValTypeU64:
		enc.EncodeUint64(v.U64)
	case ScValTypeI64:
		enc.EncodeInt64(v.I64)
	case ScValTypeTimepoint:
		enc.EncodeUint64(v.Timepoint)
	case ScValTypeDuration:
		enc.EncodeUint64(v.Duration)
	case ScValTypeU128:
		enc.EncodeUint64(v.U128.Hi)
		enc.EncodeUint64(v.U128.Lo)
	case ScValTypeI128:
		enc.EncodeInt64(v.I128.Hi)
		enc.EncodeUint64(v.I128.Lo)
	case ScValTypeU256:
		enc.EncodeUint64(v.U256.HiHi)
		enc.EncodeUint64(v.U256.HiLo)
		enc.EncodeUint64(v.U256.LoHi)
		enc.EncodeUint64(v.U256.LoLo)
	case ScValTypeI256:
		enc.EncodeInt64(v.I256.HiHi)
		enc.EncodeUint64(v.I256.HiLo)
		enc.EncodeUint64(v.I256.LoHi)
		enc.EncodeUint64(v.I256.LoLo)
	case ScValTypeBytes:
		return enc.EncodeOpaque(v.Bytes, -1)
	case ScValTypeString:
		return enc.EncodeString(v.Str, -1)
	case ScValTypeSymbol:
		return enc.EncodeString(v.Sym, ScSymbolMaxBytes)
	case ScValTypeVec:
		enc.EncodeOptional(v.HasVec)
		if v.HasVec {
			return encodeScVec(enc, v.Vec)
		}
	case ScValTypeMap:
		enc.EncodeOptional(v.HasMap)
		if v.HasMap {
			return encodeScMap(enc, v.Map)
		}
	case ScValTypeAddress:
		return v.Address.encodeXDR(enc)
	case ScValTypeContractInstance:
		if err := v.Instance.Executable.encodeXDR(enc); err != nil {
			return err
		}
		enc.EncodeOptional(v.Instance.HasStorage)
		if v.Instance.HasStorage {
			return encodeScMap(enc, v.Instance.Storage)
		}
	case ScValTypeLedgerKeyNonce:
		enc.EncodeInt64(v.NonceKey)
	default:
		return fmt.Errorf("cannot encode ScVal type %d", v.Type)
	}
	return nil
}

func encodeScVec(enc *xdr.Encoder, vec []ScVal) error {
	if err := enc.EncodeArrayLen(len(vec), -1); err != nil {
		return err
	}
	for _, item := range vec {
		if err := item.encodeXDR(enc); err != nil {
			return err
		}
	}
	return nil
}

func encodeScMap(enc *xdr.Encoder, entries []ScMapEntry) error {
	if err := enc.EncodeArrayLen(len(entries), -1); err != nil {
		return err
	}
	for _, entry := range entries {
		if err := entry.Key.encodeXDR(enc); err != nil {
			return err
		}
		if err := entry.Val.encodeXDR(enc); err != nil {
			return err
		}
	}
	return nil
}

func decodeScVal(dec *xdr.Decoder) (ScVal, error) {
	valType, err := dec.DecodeInt32("scVal.type")
	if err != nil {
		return ScVal{}, err
	}
	var out ScVal
	out.Type = ScValType(valType)
	switch out.Type {
	case ScValTypeBool:
		out.Bool, err = dec.DecodeBool("scVal.bool")
	case ScValTypeVoid, ScValTypeLedgerKeyContractInst:
	case ScValTypeError:
		out.Error, err = decodeScError(dec)
	case ScValTypeU32:
		out.U32, err = dec.DecodeUint32("scVal.u32")
	case ScValTypeI32:
		out.I32, err = dec.DecodeInt32("scVal.i32")
	case ScValTypeU64:
		out.U64, err = dec.DecodeUint64("scVal.u64")
	case ScValTypeI64:
		out.I64, err = dec.DecodeInt64("scVal.i64")
	case ScValTypeTimepoint:
		out.Timepoint, err = dec.DecodeUint64("scVal.timepoint")
	case ScValTypeDuration:
		out.Duration, err = dec.DecodeUint64("scVal.duration")
	case ScValTypeU128:
		out.U128, err = decodeUInt128(dec)
	case ScValTypeI128:
		out.I128, err = decodeInt128(dec)
	case ScValTypeU256:
		out.U256, err = decodeUInt256(dec)
	case ScValTypeI256:
		out.I256, err = decodeInt256(dec)
	case ScValTypeBytes:
		out.Bytes, err = dec.DecodeOpaque(-1, "scVal.bytes")
	case ScValTypeString:
		out.Str, err = dec.DecodeString(-1, "scVal.string")
	case ScValTypeSymbol:
		out.Sym, err = dec.DecodeString(
			ScSymbolMaxBytes,
			"scVal.symbol",
		)
	case ScValTypeVec:
		out.HasVec, err = dec.DecodeOptional("scVal.vec")
		if err == nil && out.HasVec {
			out.Vec, err = decodeScVec(dec)
		}
	case ScValTypeMap:
		out.HasMap, err = dec.DecodeOptional("scVal.map")
		if err == nil && out.HasMap {
			out.Map, err = decodeScMap(dec)
		}
	case ScValTypeAddress:
		out.Address, err = decodeScAddress(dec)
	case ScValTypeContractInstance:
		out.Instance.Executable, err = decodeContractExecutable(dec)
		if err == nil {
			out.Instance.HasStorage, err = dec.DecodeOptional(
				"scVal.instanceStorage",
			)
		}
		if err == nil && out.Instance.HasStorage {
			out.Instance.Storage, err = decodeScMap(dec)
		}
	case ScValTypeLedgerKeyNonce:
		out.NonceKey, err = dec.DecodeInt64("scVal.nonceKey")
	default:
		return ScVal{}, xdr.UnknownDiscriminantError{
			Union:        "ScVal",
			Discriminant: valType,
		}
	}
	if err != nil {
		return ScVal{}, err
	}
	return out, nil
}

func decodeScVec(dec *xdr.Decoder) ([]ScVal, error) {
	n, err := dec.DecodeArrayLen(-1, "scVec.len")
	if err != nil {
		return nil, err
	}
	out := make([]ScVal, 0, n)
	for remaining := n; remaining > 0; remaining-- {
		item, err := decodeScVal(dec)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func decodeScMap(dec *xdr.Decoder) ([]ScMapEntry, error) {
	n, err := dec.DecodeArrayLen(-1, "scMap.len")
	if err != nil {
		return nil, err
	}
	out := make([]ScMapEntry, 0, n)
	for remaining := n; remaining > 0; remaining-- {
		key, err := decodeScVal(dec)
		if err != nil {
			return nil, err
		}
		val, err := decodeScVal(dec)
		if err != nil {
			return nil, err
		}
		out = append(out, ScMapEntry{Key: key, Val: val})
	}
	return out, nil
}

func decodeUInt128(dec *xdr.Decoder) (UInt128Parts, error) {
	hi, err := dec.DecodeUint64("u128.hi")
	if err != nil {
		return UInt128Parts{}, err
	}
	lo, err := dec.DecodeUint64("u128.lo")
	if err != nil {
		return UInt128Parts{}, err
	}
	return UInt128Parts{Hi: hi, Lo: lo}, nil
}

func decodeInt128(dec *xdr.Decoder) (Int128Parts, error) {
	hi, err := dec.DecodeInt64("i128.hi")
	if err != nil {
		return Int128Parts{}, err
	}
	lo, err := dec.DecodeUint64("i128.lo")
	if err != nil {
		return Int128Parts{}, err
	}
	return Int128Parts{Hi: hi, Lo: lo}, nil
}

func decodeUInt256(dec *xdr.Decoder) (UInt256Parts, error) {
	var out UInt256Parts
	var err error
	if out.HiHi, err = dec.DecodeUint64("u256.hihi"); err != nil {
		return UInt256Parts{}, err
	}
	if out.HiLo, err = dec.DecodeUint64("u256.hilo"); err != nil {
		return UInt256Parts{}, err
	}
	if out.LoHi, err = dec.DecodeUint64("u256.lohi"); err != nil {
		return UInt256Parts{}, err
	}
	if out.LoLo, err = dec.DecodeUint64("u256.lolo"); err != nil {
		return UInt256Parts{}, err
	}
	return out, nil
}

func decodeInt256(dec *xdr.Decoder) (Int256Parts, error) {
	var out Int256Parts
	var err error
	if out.HiHi, err = dec.DecodeInt64("i256.hihi"); err != nil {
		return Int256Parts{}, err
	}
	if out.HiLo, err = dec.DecodeUint64("i256.hilo"); err != nil {
		return Int256Parts{}, err
	}
	if out.LoHi, err = dec.DecodeUint64("i256.lohi"); err != nil {
		return Int256Parts{}, err
	}
	if out.LoLo, err = dec.DecodeUint64("i256.lolo"); err != nil {
		return Int256Parts{}, err
	}
	return out, nil
}
