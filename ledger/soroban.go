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

// InvokeContractArgs names a contract function and its arguments
type InvokeContractArgs struct {
	ContractAddress ScAddress
	FunctionName    string
	Args            []ScVal
}

func (a InvokeContractArgs) encodeXDR(enc *xdr.Encoder) error {
	if err := a.ContractAddress.encodeXDR(enc); err != nil {
		return err
	}
	if err := enc.EncodeString(
		a.FunctionName,
		ScSymbolMaxBytes,
	); err != nil {
		return err
	}
	return encodeScVec(enc, a.Args)
}

func decodeInvokeContractArgs(
	dec *xdr.Decoder,
) (InvokeContractArgs, error) {
	address, err := decodeScAddress(dec)
	if err != nil {
		return InvokeContractArgs{}, err
	}
	name, err := dec.DecodeString(
		ScSymbolMaxBytes,
		"invokeContract.functionName",
	)
	if err != nil {
		return InvokeContractArgs{}, err
	}
	args, err := decodeScVec(dec)
	if err != nil {
		return InvokeContractArgs{}, err
	}
	return InvokeContractArgs{
		ContractAddress: address,
		FunctionName:    name,
		Args:            args,
	}, nil
}

type ContractIDPreimageType int32

const (
	ContractIDPreimageFromAddress ContractIDPreimageType = 0
	ContractIDPreimageFromAsset   ContractIDPreimageType = 1
)

// ContractIDPreimage is the seed material a new contract's ID is derived
// from: a deployer address plus salt, or a classic asset
type ContractIDPreimage struct {
	Type    ContractIDPreimageType
	Address ScAddress
	Salt    [32]byte
	Asset   Asset
}

func (p ContractIDPreimage) encodeXDR(enc *xdr.Encoder) error {
	enc.EncodeInt32(int32(p.Type))
	switch p.Type {
	case ContractIDPreimageFromAddress:
		if err := p.Address.encodeXDR(enc); err != nil {
			return err
		}
		enc.EncodeFixedOpaque(p.Salt[:])
		return nil
	case ContractIDPreimageFromAsset:
		return p.Asset.encodeXDR(enc)
	default:
		return fmt.Errorf(
			"cannot encode contract ID preimage type %d",
			p.Type,
		)
	}
}

func decodeContractIDPreimage(
	dec *xdr.Decoder,
) (ContractIDPreimage, error) {
	preimageType, err := dec.DecodeInt32("contractIDPreimage.type")
	if err != nil {
		return ContractIDPreimage{}, err
	}
	var out ContractIDPreimage
	out.Type = ContractIDPreimageType(preimageType)
	switch out.Type {
	case ContractIDPreimageFromAddress:
		out.Address, err = decodeScAddress(dec)
		if err != nil {
			return ContractIDPreimage{}, err
		}
		raw, err := dec.DecodeFixedOpaque(
			32,
			"contractIDPreimage.salt",
		)
		if err != nil {
			return ContractIDPreimage{}, err
		}
		copy(out.Salt[:], raw)
	case ContractIDPreimageFromAsset:
		out.Asset, err = decodeAsset(dec)
		if err != nil {
			return ContractIDPreimage{}, err
		}
	default:
		return ContractIDPreimage{}, xdr.UnknownDiscriminantError{
			Union:        "ContractIDPreimage",
			Discriminant: preimageType,
		}
	}
	return out, nil
}

// CreateContractArgs pairs an ID preimage with the executable to deploy
type CreateContractArgs struct {
	ContractIDPreimage ContractIDPreimage
	Executable         ContractExecutable
}

func (a CreateContractArgs) encodeXDR(enc *xdr.Encoder) error {
	if err := a.ContractIDPreimage.encodeXDR(enc); err != nil {
		return err
	}
	return a.Executable.encodeXDR(enc)
}

func decodeCreateContractArgs(
	dec *xdr.Decoder,
) (CreateContractArgs, error) {
	preimage, err := decodeContractIDPreimage(dec)
	if err != nil {
		return CreateContractArgs{}, err
	}
	executable, err := decodeContractExecutable(dec)
	if err != nil {
		return CreateContractArgs{}, err
	}
	return CreateContractArgs{
		ContractIDPreimage: preimage,
		Executable:         executable,
	}, nil
}

// CreateContractV2Args additionally carries constructor arguments
type CreateContractV2Args struct {
	ContractIDPreimage ContractIDPreimage
	Executable         ContractExecutable
	ConstructorArgs    []ScVal
}

func (a CreateContractV2Args) encodeXDR(enc *xdr.Encoder) error {
	if err := a.ContractIDPreimage.encodeXDR(enc); err != nil {
		return err
	}
	if err := a.Executable.encodeXDR(enc); err != nil {
		return err
	}
	return encodeScVec(enc, a.ConstructorArgs)
}

func decodeCreateContractV2Args(
	dec *xdr.Decoder,
) (CreateContractV2Args, error) {
	preimage, err := decodeContractIDPreimage(dec)
	if err != nil {
		return CreateContractV2Args{}, err
	}
	executable, err := decodeContractExecutable(dec)
	if err != nil {
		return CreateContractV2Args{}, err
	}
	args, err := decodeScVec(dec)
	if err != nil {
		return CreateContractV2Args{}, err
	}
	return CreateContractV2Args{
		ContractIDPreimage: preimage,
		Executable:         executable,
		ConstructorArgs:    args,
	}, nil
}

type HostFunctionType int32

const (
	HostFunctionTypeInvokeContract   HostFunctionType = 0
	HostFunctionTypeCreateContract   HostFunctionType = 1
	HostFunctionTypeUploadWasm       HostFunctionType = 2
	HostFunctionTypeCreateContractV2 HostFunctionType = 3
)

// HostFunction is the action an InvokeHostFunction operation performs
type HostFunction struct {
	Type             HostFunctionType
	InvokeContract   *InvokeContractArgs
	CreateContract   *CreateContractArgs
	Wasm             []byte
	CreateContractV2 *CreateContractV2Args
}

func (h HostFunction) encodeXDR(enc *xdr.Encoder) error {
	enc.EncodeInt32(int32(h.Type))
	switch h.Type {
	case HostFunctionTypeInvokeContract:
		if h.InvokeContract == nil {
			return missingArmError("HostFunction", "invokeContract")
		}
		return h.InvokeContract.encodeXDR(enc)
	case HostFunctionTypeCreateContract:
		if h.CreateContract == nil {
			return missingArmError("HostFunction", "createContract")
		}
		return h.CreateContract.encodeXDR(enc)
	case HostFunctionTypeUploadWasm:
		return enc.EncodeOpaque(h.Wasm, -1)
	case HostFunctionTypeCreateContractV2:
		if h.CreateContractV2 == nil {
			return missingArmError(
				"HostFunction",
				"createContractV2",
			)
		}
		return h.CreateContractV2.encodeXDR(enc)
	default:
		return fmt.Errorf(
			"cannot encode host function type %d",
			h.Type,
		)
	}
}

func decodeHostFunction(dec *xdr.Decoder) (HostFunction, error) {
	funcType, err := dec.DecodeInt32("hostFunction.type")
	if err != nil {
		return HostFunction{}, err
	}
	var out HostFunction
	out.Type = HostFunctionType(funcType)
	switch out.Type {
	case HostFunctionTypeInvokeContract:
		args, err := decodeInvokeContractArgs(dec)
		if err != nil {
			return HostFunction{}, err
		}
		out.InvokeContract = &args
	case HostFunctionTypeCreateContract:
		args, err := decodeCreateContractArgs(dec)
		if err != nil {
			return HostFunction{}, err
		}
		out.CreateContract = &args
	case HostFunctionTypeUploadWasm:
		out.Wasm, err = dec.DecodeOpaque(-1, "hostFunction.wasm")
		if err != nil {
			return HostFunction{}, err
		}
	case HostFunctionTypeCreateContractV2:
		args, err := decodeCreateContractV2Args(dec)
		if err != nil {
			return HostFunction{}, err
		}
		out.CreateContractV2 = &args
	default:
		return HostFunction{}, xdr.UnknownDiscriminantError{
			Union:        "HostFunction",
			Discriminant: funcType,
		}
	}
	return out, nil
}

type SorobanCredentialsType int32

const (
	SorobanCredentialsSourceAccount SorobanCredentialsType = 0
	SorobanCredentialsAddress       SorobanCredentialsType = 1
)

// SorobanAddressCredentials authorizes an invocation tree on behalf of an
// arbitrary address, with a signature payload checked by the host
type SorobanAddressCredentials struct {
	Address                   ScAddress
	Nonce                     int64
	SignatureExpirationLedger uint32
	Signature                 ScVal
}

// SorobanCredentials selects how an authorization entry is authenticated
type SorobanCredentials struct {
	Type    SorobanCredentialsType
	Address *SorobanAddressCredentials
}

func (c SorobanCredentials) encodeXDR(enc *xdr.Encoder) error {
	enc.EncodeInt32(int32(c.Type))
	switch c.Type {
	case SorobanCredentialsSourceAccount:
		return nil
	case SorobanCredentialsAddress:
		if c.Address == nil {
			return missingArmError(
				"SorobanCredentials",
				"address",
			)
		}
		if err := c.Address.Address.encodeXDR(enc); err != nil {
			return err
		}
		enc.EncodeInt64(c.Address.Nonce)
		enc.EncodeUint32(c.Address.SignatureExpirationLedger)
		return c.Address.Signature.encodeXDR(enc)
	default:
		return fmt.Errorf(
			"cannot encode soroban credentials type %d",
			c.Type,
		)
	}
}

func decodeSorobanCredentials(
	dec *xdr.Decoder,
) (SorobanCredentials, error) {
	credType, err := dec.DecodeInt32("sorobanCredentials.type")
	if err != nil {
		return SorobanCredentials{}, err
	}
	var out SorobanCredentials
	out.Type = SorobanCredentialsType(credType)
	switch out.Type {
	case SorobanCredentialsSourceAccount:
	case SorobanCredentialsAddress:
		address, err := decodeScAddress(dec)
		if err != nil {
			return SorobanCredentials{}, err
		}
		nonce, err := dec.DecodeInt64("sorobanCredentials.nonce")
		if err != nil {
			return SorobanCredentials{}, err
		}
		expiration, err := dec.DecodeUint32(
			"sorobanCredentials.signatureExpirationLedger",
		)
		if err != nil {
			return SorobanCredentials{}, err
		}
		signature, err := decodeScVal(dec)
		if err != nil {
			return SorobanCredentials{}, err
		}
		out.Address = &SorobanAddressCredentials{
			Address:                   address,
			Nonce:                     nonce,
			SignatureExpirationLedger: expiration,
			Signature:                 signature,
		}
	default:
		return SorobanCredentials{}, xdr.UnknownDiscriminantError{
			Union:        "SorobanCredentials",
			Discriminant: credType,
		}
	}
	return out, nil
}

type SorobanAuthorizedFunctionType int32

const (
	SorobanAuthorizedFunctionContract         SorobanAuthorizedFunctionType = 0
	SorobanAuthorizedFunctionCreateContract   SorobanAuthorizedFunctionType = 1
	SorobanAuthorizedFunctionCreateContractV2 SorobanAuthorizedFunctionType = 2
)

// SorobanAuthorizedFunction is one node's action in an authorized
// invocation tree
type SorobanAuthorizedFunction struct {
	Type             SorobanAuthorizedFunctionType
	ContractFn       *InvokeContractArgs
	CreateContract   *CreateContractArgs
	CreateContractV2 *CreateContractV2Args
}

func (f SorobanAuthorizedFunction) encodeXDR(enc *xdr.Encoder) error {
	enc.EncodeInt32(int32(f.Type))
	switch f.Type {
	case SorobanAuthorizedFunctionContract:
		if f.ContractFn == nil {
			return missingArmError(
				"SorobanAuthorizedFunction",
				"contractFn",
			)
		}
		return f.ContractFn.encodeXDR(enc)
	case SorobanAuthorizedFunctionCreateContract:
		if f.CreateContract == nil {
			return missingArmError(
				"SorobanAuthorizedFunction",
				"createContract",
			)
		}
		return f.CreateContract.encodeXDR(enc)
	case SorobanAuthorizedFunctionCreateContractV2:
		if f.CreateContractV2 == nil {
			return missingArmError(
				"SorobanAuthorizedFunction",
				"createContractV2",
			)
		}
		return f.CreateContractV2.encodeXDR(enc)
	default:
		return fmt.Errorf(
			"cannot encode authorized function type %d",
			f.Type,
		)
	}
}

func decodeSorobanAuthorizedFunction(
	dec *xdr.Decoder,
) (SorobanAuthorizedFunction, error) {
	funcType, err := dec.DecodeInt32("authorizedFunction.type")
	if err != nil {
		return SorobanAuthorizedFunction{}, err
	}
	var out SorobanAuthorizedFunction
	out.Type = SorobanAuthorizedFunctionType(funcType)
	switch out.Type {
	case SorobanAuthorizedFunctionContract:
		args, err := decodeInvokeContractArgs(dec)
		if err != nil {
			return SorobanAuthorizedFunction{}, err
		}
		out.ContractFn = &args
	case SorobanAuthorizedFunctionCreateContract:
		args, err := decodeCreateContractArgs(dec)
		if err != nil {
			return SorobanAuthorizedFunction{}, err
		}
		out.CreateContract = &args
	case SorobanAuthorizedFunctionCreateContractV2:
		args, err := decodeCreateContractV2Args(dec)
		if err != nil {
			return SorobanAuthorizedFunction{}, err
		}
		out.CreateContractV2 = &args
	default:
		return SorobanAuthorizedFunction{},
			xdr.UnknownDiscriminantError{
				Union:        "SorobanAuthorizedFunction",
				Discriminant: funcType,
			}
	}
	return out, nil
}

// SorobanAuthorizedInvocation is a recursive tree of authorized calls
type SorobanAuthorizedInvocation struct {
	Function       SorobanAuthorizedFunction
	SubInvocations []SorobanAuthorizedInvocation
}

func (i SorobanAuthorizedInvocation) encodeXDR(enc *xdr.Encoder) error {
	if err := i.Function.encodeXDR(enc); err != nil {
		return err
	}
	if err := enc.EncodeArrayLen(len(i.SubInvocations), -1); err != nil {
		return err
	}
	for _, sub := range i.SubInvocations {
		if err := sub.encodeXDR(enc); err != nil {
			return err
		}
	}
	return nil
}

func decodeSorobanAuthorizedInvocation(
	dec *xdr.Decoder,
) (SorobanAuthorizedInvocation, error) {
	function, err := decodeSorobanAuthorizedFunction(dec)
	if err != nil {
		return SorobanAuthorizedInvocation{}, err
	}
	n, err := dec.DecodeArrayLen(-1, "authorizedInvocation.subs")
	if err != nil {
		return SorobanAuthorizedInvocation{}, err
	}
	subs := make([]SorobanAuthorizedInvocation, 0, n)
	for remaining := n; remaining > 0; remaining-- {
		sub, err := decodeSorobanAuthorizedInvocation(dec)
		if err != nil {
			return SorobanAuthorizedInvocation{}, err
		}
		subs = append(subs, sub)
	}
	return SorobanAuthorizedInvocation{
		Function:       function,
		SubInvocations: subs,
	}, nil
}

// SorobanAuthorizationEntry authorizes one invocation tree under one set
// of credentials
type SorobanAuthorizationEntry struct {
	Credentials    SorobanCredentials
	RootInvocation SorobanAuthorizedInvocation
}

func (e SorobanAuthorizationEntry) encodeXDR(enc *xdr.Encoder) error {
	if err := e.Credentials.encodeXDR(enc); err != nil {
		return err
	}
	return e.RootInvocation.encodeXDR(enc)
}

func decodeSorobanAuthorizationEntry(
	dec *xdr.Decoder,
) (SorobanAuthorizationEntry, error) {
	credentials, err := decodeSorobanCredentials(dec)
	if err != nil {
		return SorobanAuthorizationEntry{}, err
	}
	root, err := decodeSorobanAuthorizedInvocation(dec)
	if err != nil {
		return SorobanAuthorizationEntry{}, err
	}
	return SorobanAuthorizationEntry{
		Credentials:    credentials,
		RootInvocation: root,
	}, nil
}

// LedgerFootprint declares the ledger entries a smart-contract
// transaction may read and write
type LedgerFootprint struct {
	ReadOnly  []LedgerKey
	ReadWrite []LedgerKey
}

func (f LedgerFootprint) encodeXDR(enc *xdr.Encoder) error {
	if err := encodeLedgerKeys(enc, f.ReadOnly); err != nil {
		return err
	}
	return encodeLedgerKeys(enc, f.ReadWrite)
}

func encodeLedgerKeys(enc *xdr.Encoder, keys []LedgerKey) error {
	if err := enc.EncodeArrayLen(len(keys), -1); err != nil {
		return err
	}
	for _, key := range keys {
		if err := key.encodeXDR(enc); err != nil {
			return err
		}
	}
	return nil
}

func decodeLedgerFootprint(dec *xdr.Decoder) (LedgerFootprint, error) {
	readOnly, err := decodeLedgerKeys(dec)
	if err != nil {
		return LedgerFootprint{}, err
	}
	readWrite, err := decodeLedgerKeys(dec)
	if err != nil {
		return LedgerFootprint{}, err
	}
	return LedgerFootprint{
		ReadOnly:  readOnly,
		ReadWrite: readWrite,
	}, nil
}

func decodeLedgerKeys(dec *xdr.Decoder) ([]LedgerKey, error) {
	n, err := dec.DecodeArrayLen(-1, "footprint.keys")
	if err != nil {
		return nil, err
	}
	out := make([]LedgerKey, 0, n)
	for remaining := n; remaining > 0; remaining-- {
		key, err := decodeLedgerKey(dec)
		if err != nil {
			return nil, err
		}
		out = append(out, key)
	}
	return out, nil
}

// SorobanResources declares the compute and I/O budget a smart-contract
// transaction purchases
type SorobanResources struct {
	Footprint    LedgerFootprint
	Instructions uint32
	ReadBytes    uint32
	WriteBytes   uint32
}

func (r SorobanResources) encodeXDR(enc *xdr.Encoder) error {
	if err := r.Footprint.encodeXDR(enc); err != nil {
		return err
	}
	enc.EncodeUint32(r.Instructions)
	enc.EncodeUint32(r.ReadBytes)
	enc.EncodeUint32(r.WriteBytes)
	return nil
}

func decodeSorobanResources(dec *xdr.Decoder) (SorobanResources, error) {
	footprint, err := decodeLedgerFootprint(dec)
	if err != nil {
		return SorobanResources{}, err
	}
	var out SorobanResources
	out.Footprint = footprint
	if out.Instructions, err = dec.DecodeUint32(
		"sorobanResources.instructions",
	); err != nil {
		return SorobanResources{}, err
	}
	if out.ReadBytes, err = dec.DecodeUint32(
		"sorobanResources.readBytes",
	); err != nil {
		return SorobanResources{}, err
	}
	if out.WriteBytes, err = dec.DecodeUint32(
		"sorobanResources.writeBytes",
	); err != nil {
		return SorobanResources{}, err
	}
	return out, nil
}

// SorobanTransactionData is the optional resource extension carried by
// smart-contract transactions: the declared footprint/budget and the
// portion of the fee paying for it
type SorobanTransactionData struct {
	Resources   SorobanResources
	ResourceFee int64
	// ArchivedEntries is the v1 extension listing read-write footprint
	// indexes that are archived; nil selects the v0 wire form
	ArchivedEntries []uint32
	HasArchived     bool
}

func (d SorobanTransactionData) encodeXDR(enc *xdr.Encoder) error {
	if d.HasArchived {
		enc.EncodeInt32(1)
		if err := enc.EncodeArrayLen(
			len(d.ArchivedEntries),
			-1,
		); err != nil {
			return err
		}
		for _, entry := range d.ArchivedEntries {
			enc.EncodeUint32(entry)
		}
	} else {
		enc.EncodeInt32(0)
	}
	if err := d.Resources.encodeXDR(enc); err != nil {
		return err
	}
	enc.EncodeInt64(d.ResourceFee)
	return nil
}

func decodeSorobanTransactionData(
	dec *xdr.Decoder,
) (SorobanTransactionData, error) {
	extVersion, err := dec.DecodeInt32("sorobanData.ext")
	if err != nil {
		return SorobanTransactionData{}, err
	}
	var out SorobanTransactionData
	switch extVersion {
	case 0:
	case 1:
		out.HasArchived = true
		n, err := dec.DecodeArrayLen(
			-1,
			"sorobanData.archivedEntries",
		)
		if err != nil {
			return SorobanTransactionData{}, err
		}
		out.ArchivedEntries = make([]uint32, 0, n)
		for remaining := n; remaining > 0; remaining-- {
			entry, err := dec.DecodeUint32(
				"sorobanData.archivedEntry",
			)
			if err != nil {
				return SorobanTransactionData{}, err
			}
			out.ArchivedEntries = append(
				out.ArchivedEntries,
				entry,
			)
		}
	default:
		return SorobanTransactionData{}, xdr.UnknownDiscriminantError{
			Union:        "SorobanTransactionData",
			Discriminant: extVersion,
		}
	}
	out.Resources, err = decodeSorobanResources(dec)
	if err != nil {
		return SorobanTransactionData{}, err
	}
	out.ResourceFee, err = dec.DecodeInt64("sorobanData.resourceFee")
	if err != nil {
		return SorobanTransactionData{}, err
	}
	return out, nil
}
