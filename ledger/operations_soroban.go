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

// InvokeHostFunction runs a smart-contract host function with its
// authorization entries
type InvokeHostFunction struct {
	OpSource
	HostFunction HostFunction
	Auth         []SorobanAuthorizationEntry
}

func (op *InvokeHostFunction) Type() OperationType {
	return OperationTypeInvokeHostFunction
}

func (op *InvokeHostFunction) Validate() error {
	switch op.HostFunction.Type {
	case HostFunctionTypeInvokeContract,
		HostFunctionTypeCreateContract,
		HostFunctionTypeUploadWasm,
		HostFunctionTypeCreateContractV2:
		return nil
	default:
		return fmt.Errorf(
			"unknown host function type %d",
			op.HostFunction.Type,
		)
	}
}

func (op *InvokeHostFunction) encodeBody(enc *xdr.Encoder) error {
	if err := op.HostFunction.encodeXDR(enc); err != nil {
		return err
	}
	if err := enc.EncodeArrayLen(len(op.Auth), -1); err != nil {
		return err
	}
	for _, entry := range op.Auth {
		if err := entry.encodeXDR(enc); err != nil {
			return err
		}
	}
	return nil
}

func (op *InvokeHostFunction) decodeBody(dec *xdr.Decoder) error {
	hostFunction, err := decodeHostFunction(dec)
	if err != nil {
		return err
	}
	op.HostFunction = hostFunction
	n, err := dec.DecodeArrayLen(-1, "invokeHostFunction.auth")
	if err != nil {
		return err
	}
	op.Auth = make([]SorobanAuthorizationEntry, 0, n)
	for remaining := n; remaining > 0; remaining-- {
		entry, err := decodeSorobanAuthorizationEntry(dec)
		if err != nil {
			return err
		}
		op.Auth = append(op.Auth, entry)
	}
	return nil
}

// ExtendFootprintTTL extends the time-to-live of the ledger entries in the
// transaction's footprint
type ExtendFootprintTTL struct {
	OpSource
	ExtendTo uint32
}

func (op *ExtendFootprintTTL) Type() OperationType {
	return OperationTypeExtendFootprintTTL
}

func (op *ExtendFootprintTTL) Validate() error {
	return nil
}

func (op *ExtendFootprintTTL) encodeBody(enc *xdr.Encoder) error {
	// reserved extension point
	enc.EncodeInt32(0)
	enc.EncodeUint32(op.ExtendTo)
	return nil
}

func (op *ExtendFootprintTTL) decodeBody(dec *xdr.Decoder) error {
	if err := decodeReservedExt(
		dec,
		"extendFootprintTTL.ext",
	); err != nil {
		return err
	}
	var err error
	op.ExtendTo, err = dec.DecodeUint32("extendFootprintTTL.extendTo")
	return err
}

// RestoreFootprint restores archived ledger entries listed in the
// transaction's read-write footprint
type RestoreFootprint struct {
	OpSource
}

func (op *RestoreFootprint) Type() OperationType {
	return OperationTypeRestoreFootprint
}

func (op *RestoreFootprint) Validate() error {
	return nil
}

func (op *RestoreFootprint) encodeBody(enc *xdr.Encoder) error {
	// reserved extension point
	enc.EncodeInt32(0)
	return nil
}

func (op *RestoreFootprint) decodeBody(dec *xdr.Decoder) error {
	return decodeReservedExt(dec, "restoreFootprint.ext")
}

// decodeReservedExt consumes a void extension discriminant, which only
// ever carries version zero
func decodeReservedExt(dec *xdr.Decoder, field string) error {
	version, err := dec.DecodeInt32(field)
	if err != nil {
		return err
	}
	if version != 0 {
		return xdr.UnknownDiscriminantError{
			Union:        field,
			Discriminant: version,
		}
	}
	return nil
}
