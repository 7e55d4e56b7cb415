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

package xdr

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"math"
)

// Encodable is implemented by types that know how to write themselves to an
// Encoder
type Encodable interface {
	EncodeXDR(*Encoder) error
}

// Encoder accumulates XDR primitives into a contiguous buffer. The zero
// value is ready to use.
type Encoder struct {
	buf bytes.Buffer
}

func NewEncoder() *Encoder {
	return &Encoder{}
}

// Bytes returns the encoded buffer contents
func (e *Encoder) Bytes() []byte {
	return e.buf.Bytes()
}

func (e *Encoder) EncodeUint32(v uint32) {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], v)
	e.buf.Write(tmp[:])
}

func (e *Encoder) EncodeInt32(v int32) {
	e.EncodeUint32(uint32(v))
}

func (e *Encoder) EncodeUint64(v uint64) {
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], v)
	e.buf.Write(tmp[:])
}

func (e *Encoder) EncodeInt64(v int64) {
	e.EncodeUint64(uint64(v))
}

// EncodeBool writes an XDR boolean (a 4-byte integer restricted to 0 or 1)
func (e *Encoder) EncodeBool(v bool) {
	if v {
		e.EncodeUint32(1)
	} else {
		e.EncodeUint32(0)
	}
}

// EncodeFixedOpaque writes bytes with no length prefix, padded with zero
// bytes to a 4-byte boundary
func (e *Encoder) EncodeFixedOpaque(data []byte) {
	e.buf.Write(data)
	e.pad(len(data))
}

// EncodeOpaque writes a 4-byte length prefix followed by the data, padded
// to a 4-byte boundary. A negative maxLen means unbounded.
func (e *Encoder) EncodeOpaque(data []byte, maxLen int) error {
	if maxLen >= 0 && len(data) > maxLen {
		return fmt.Errorf(
			"%w: opaque length %d > %d",
			ErrLengthExceeded,
			len(data),
			maxLen,
		)
	}
	if len(data) > math.MaxInt32 {
		return fmt.Errorf(
			"%w: opaque length %d",
			ErrLengthExceeded,
			len(data),
		)
	}
	e.EncodeUint32(uint32(len(data)))
	e.EncodeFixedOpaque(data)
	return nil
}

// EncodeString writes a string under the variable-length opaque rules
func (e *Encoder) EncodeString(s string, maxLen int) error {
	return e.EncodeOpaque([]byte(s), maxLen)
}

// EncodeOptional writes the presence flag for an optional value. The caller
// encodes the value itself when present is true.
func (e *Encoder) EncodeOptional(present bool) {
	e.EncodeBool(present)
}

// EncodeArrayLen writes the element count for a counted array. A negative
// maxLen means unbounded.
func (e *Encoder) EncodeArrayLen(n int, maxLen int) error {
	if n < 0 || (maxLen >= 0 && n > maxLen) {
		return fmt.Errorf(
			"%w: array length %d > %d",
			ErrLengthExceeded,
			n,
			maxLen,
		)
	}
	e.EncodeUint32(uint32(n))
	return nil
}

func (e *Encoder) pad(n int) {
	if rem := n % 4; rem != 0 {
		e.buf.Write(make([]byte, 4-rem))
	}
}

// Marshal encodes a single Encodable to bytes
func Marshal(v Encodable) ([]byte, error) {
	enc := NewEncoder()
	if err := v.EncodeXDR(enc); err != nil {
		return nil, err
	}
	return enc.Bytes(), nil
}

// MarshalBase64 encodes a single Encodable to standard base64, the form
// used for transaction envelopes in transport APIs
func MarshalBase64(v Encodable) (string, error) {
	data, err := Marshal(v)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}
