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

// Package xdr implements the subset of XDR (RFC 4506) used by the Stellar
// wire protocol: big-endian 32/64-bit integers, booleans as 32-bit
// integers, fixed and variable length opaque data padded to a 4-byte
// boundary, strings under the same length+padding rule, optional values as
// a presence flag, counted arrays, and discriminated unions as a 4-byte
// discriminant followed by the selected arm.
//
// The package provides low-level Encoder/Decoder primitives plus Marshal
// helpers for types implementing the Encodable/Decodable interfaces.
// Everything above this package (strkey excepted) encodes itself through
// these primitives, so byte-exactness here is what makes signatures valid.
package xdr
