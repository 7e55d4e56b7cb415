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
	"encoding/base64"
	"encoding/binary"
	"fmt"
)

// Decodable is implemented by types that know how to read themselves from a
// Decoder
type Decodable interface {
	DecodeXDR(*Decoder) error
}

// Decoder reads XDR primitives from a byte buffer, advancing a cursor.
// Every read is bounds-checked against the remaining buffer; failures carry
// the field name supplied by the caller so corrupt data can be diagnosed
// remotely.
type Decoder struct {
	data []byte
	pos  int
}

func NewDecoder(data []byte) *Decoder {
	return &Decoder{data: data}
}

// Remaining returns the number of unread bytes
func (d *Decoder) Remaining() int {
	return len(d.data) - d.pos
}

// Done returns an error if unread bytes remain, for callers that require a
// fully-consumed buffer
func (d *Decoder) Done() error {
	if d.Remaining() != 0 {
		return DecodeError{
			Field:  "buffer",
			Offset: d.pos,
			Err: fmt.Errorf(
				"%w: %d bytes",
				ErrTrailingData,
				d.Remaining(),
			),
		}
	}
	return nil
}

func (d *Decoder) take(n int, field string) ([]byte, error) {
	if n < 0 || d.Remaining() < n {
		return nil, DecodeError{
			Field:  field,
			Offset: d.pos,
			Err: fmt.Errorf(
				"%w: need %d bytes, have %d",
				ErrUnexpectedEOF,
				n,
				d.Remaining(),
			),
		}
	}
	out := d.data[d.pos : d.pos+n]
	d.pos += n
	return out, nil
}

func (d *Decoder) DecodeUint32(field string) (uint32, error) {
	raw, err := d.take(4, field)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(raw), nil
}

func (d *Decoder) DecodeInt32(field string) (int32, error) {
	v, err := d.DecodeUint32(field)
	return int32(v), err
}

func (d *Decoder) DecodeUint64(field string) (uint64, error) {
	raw, err := d.take(8, field)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(raw), nil
}

func (d *Decoder) DecodeInt64(field string) (int64, error) {
	v, err := d.DecodeUint64(field)
	return int64(v), err
}

// DecodeBool reads an XDR boolean, rejecting any value other than 0 or 1
func (d *Decoder) DecodeBool(field string) (bool, error) {
	v, err := d.DecodeUint32(field)
	if err != nil {
		return false, err
	}
	switch v {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, DecodeError{
			Field:  field,
			Offset: d.pos - 4,
			Err:    fmt.Errorf("invalid boolean value: %d", v),
		}
	}
}

// DecodeFixedOpaque reads exactly n data bytes plus padding to a 4-byte
// boundary, verifying the padding bytes are zero. The returned slice is a
// copy.
func (d *Decoder) DecodeFixedOpaque(n int, field string) ([]byte, error) {
	raw, err := d.take(n, field)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, raw)
	if rem := n % 4; rem != 0 {
		pad, err := d.take(4-rem, field)
		if err != nil {
			return nil, err
		}
		for _, b := range pad {
			if b != 0 {
				return nil, DecodeError{
					Field:  field,
					Offset: d.pos,
					Err:    ErrBadPadding,
				}
			}
		}
	}
	return out, nil
}

// DecodeOpaque reads a length prefix and that many data bytes plus padding.
// A negative maxLen means unbounded (still bounded by the buffer).
func (d *Decoder) DecodeOpaque(maxLen int, field string) ([]byte, error) {
	n, err := d.decodeLen(maxLen, field)
	if err != nil {
		return nil, err
	}
	return d.DecodeFixedOpaque(n, field)
}

// DecodeString reads a variable-length string under the opaque rules
func (d *Decoder) DecodeString(maxLen int, field string) (string, error) {
	raw, err := d.DecodeOpaque(maxLen, field)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// DecodeOptional reads the presence flag for an optional value
func (d *Decoder) DecodeOptional(field string) (bool, error) {
	return d.DecodeBool(field)
}

// DecodeArrayLen reads a counted-array element count, bounding it by
// maxLen (negative means unbounded) and by the remaining buffer so corrupt
// counts cannot trigger huge allocations
func (d *Decoder) DecodeArrayLen(maxLen int, field string) (int, error) {
	return d.decodeLen(maxLen, field)
}

func (d *Decoder) decodeLen(maxLen int, field string) (int, error) {
	start := d.pos
	v, err := d.DecodeUint32(field)
	if err != nil {
		return 0, err
	}
	n := int(v)
	if maxLen >= 0 && n > maxLen {
		return 0, DecodeError{
			Field:  field,
			Offset: start,
			Err: fmt.Errorf(
				"%w: length %d > %d",
				ErrLengthExceeded,
				n,
				maxLen,
			),
		}
	}
	// Every remaining element needs at least one byte on the wire
	if n > d.Remaining() {
		return 0, DecodeError{
			Field:  field,
			Offset: start,
			Err: fmt.Errorf(
				"%w: length %d with %d bytes remaining",
				ErrUnexpectedEOF,
				n,
				d.Remaining(),
			),
		}
	}
	return n, nil
}

// Unmarshal decodes a single Decodable from bytes, requiring the full
// buffer to be consumed
func Unmarshal(data []byte, v Decodable) error {
	dec := NewDecoder(data)
	if err := v.DecodeXDR(dec); err != nil {
		return err
	}
	return dec.Done()
}

// UnmarshalBase64 decodes a single Decodable from standard base64
func UnmarshalBase64(encoded string, v Decodable) error {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return DecodeError{
			Field: "base64",
			Err:   err,
		}
	}
	return Unmarshal(data, v)
}
