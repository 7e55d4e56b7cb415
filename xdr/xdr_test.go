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
	"encoding/hex"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodePrimitives(t *testing.T) {
	testDefs := []struct {
		name        string
		encode      func(*Encoder)
		expectedHex string
	}{
		{
			name:        "uint32",
			encode:      func(e *Encoder) { e.EncodeUint32(42) },
			expectedHex: "0000002a",
		},
		{
			name:        "int32 negative",
			encode:      func(e *Encoder) { e.EncodeInt32(-1) },
			expectedHex: "ffffffff",
		},
		{
			name:        "uint64",
			encode:      func(e *Encoder) { e.EncodeUint64(1 << 40) },
			expectedHex: "0000010000000000",
		},
		{
			name:        "int64",
			encode:      func(e *Encoder) { e.EncodeInt64(123) },
			expectedHex: "000000000000007b",
		},
		{
			name:        "bool true",
			encode:      func(e *Encoder) { e.EncodeBool(true) },
			expectedHex: "00000001",
		},
		{
			name:        "bool false",
			encode:      func(e *Encoder) { e.EncodeBool(false) },
			expectedHex: "00000000",
		},
		{
			name: "fixed opaque padded",
			encode: func(e *Encoder) {
				e.EncodeFixedOpaque([]byte{0xde, 0xad, 0xbe})
			},
			expectedHex: "deadbe00",
		},
		{
			name: "var opaque padded",
			encode: func(e *Encoder) {
				_ = e.EncodeOpaque([]byte{1, 2, 3}, -1)
			},
			expectedHex: "0000000301020300",
		},
		{
			name: "string padded",
			encode: func(e *Encoder) {
				_ = e.EncodeString("hello", -1)
			},
			expectedHex: "0000000568656c6c6f000000",
		},
		{
			name: "string aligned",
			encode: func(e *Encoder) {
				_ = e.EncodeString("frog", -1)
			},
			expectedHex: "0000000466726f67",
		},
	}
	for _, testDef := range testDefs {
		enc := NewEncoder()
		testDef.encode(enc)
		expected, err := hex.DecodeString(testDef.expectedHex)
		if err != nil {
			t.Fatalf("bad test definition: %s", err)
		}
		if !bytes.Equal(enc.Bytes(), expected) {
			t.Fatalf(
				"%s did not match expected value, got: %x, wanted: %x",
				testDef.name,
				enc.Bytes(),
				expected,
			)
		}
	}
}

func TestEncodeOpaqueMaxLen(t *testing.T) {
	enc := NewEncoder()
	err := enc.EncodeOpaque(make([]byte, 5), 4)
	assert.ErrorIs(t, err, ErrLengthExceeded)
}

func TestDecodePrimitiveRoundTrip(t *testing.T) {
	enc := NewEncoder()
	enc.EncodeUint32(7)
	enc.EncodeInt64(-9)
	enc.EncodeBool(true)
	if err := enc.EncodeOpaque([]byte{9, 8, 7, 6, 5}, -1); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if err := enc.EncodeString("stellar", 32); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	dec := NewDecoder(enc.Bytes())
	u, err := dec.DecodeUint32("u")
	assert.NoError(t, err)
	assert.Equal(t, uint32(7), u)
	i, err := dec.DecodeInt64("i")
	assert.NoError(t, err)
	assert.Equal(t, int64(-9), i)
	b, err := dec.DecodeBool("b")
	assert.NoError(t, err)
	assert.True(t, b)
	o, err := dec.DecodeOpaque(-1, "o")
	assert.NoError(t, err)
	assert.Equal(t, []byte{9, 8, 7, 6, 5}, o)
	s, err := dec.DecodeString(32, "s")
	assert.NoError(t, err)
	assert.Equal(t, "stellar", s)
	assert.NoError(t, dec.Done())
}

func TestDecodeTruncated(t *testing.T) {
	testDefs := []struct {
		name   string
		data   []byte
		decode func(*Decoder) error
	}{
		{
			name: "uint32 short",
			data: []byte{0, 0},
			decode: func(d *Decoder) error {
				_, err := d.DecodeUint32("field")
				return err
			},
		},
		{
			name: "uint64 short",
			data: []byte{0, 0, 0, 0},
			decode: func(d *Decoder) error {
				_, err := d.DecodeUint64("field")
				return err
			},
		},
		{
			name: "opaque length past end",
			data: []byte{0, 0, 0, 9, 1, 2},
			decode: func(d *Decoder) error {
				_, err := d.DecodeOpaque(-1, "field")
				return err
			},
		},
		{
			name: "fixed opaque short",
			data: []byte{1, 2},
			decode: func(d *Decoder) error {
				_, err := d.DecodeFixedOpaque(4, "field")
				return err
			},
		},
	}
	for _, testDef := range testDefs {
		err := testDef.decode(NewDecoder(testDef.data))
		if err == nil {
			t.Fatalf("%s: expected error, got none", testDef.name)
		}
		if !errors.Is(err, ErrUnexpectedEOF) {
			t.Fatalf(
				"%s: expected EOF error, got: %s",
				testDef.name,
				err,
			)
		}
		var decodeErr DecodeError
		if !errors.As(err, &decodeErr) {
			t.Fatalf("%s: expected DecodeError, got: %T", testDef.name, err)
		}
		if decodeErr.Field != "field" {
			t.Fatalf(
				"%s: unexpected field in error: %s",
				testDef.name,
				decodeErr.Field,
			)
		}
	}
}

func TestDecodeBadPadding(t *testing.T) {
	// 3 data bytes followed by a non-zero pad byte
	dec := NewDecoder([]byte{0, 0, 0, 3, 1, 2, 3, 0xff})
	_, err := dec.DecodeOpaque(-1, "field")
	assert.ErrorIs(t, err, ErrBadPadding)
}

func TestDecodeBadBool(t *testing.T) {
	dec := NewDecoder([]byte{0, 0, 0, 2})
	_, err := dec.DecodeBool("flag")
	assert.Error(t, err)
}

func TestDecodeOpaqueMaxLen(t *testing.T) {
	dec := NewDecoder([]byte{0, 0, 0, 8, 1, 2, 3, 4, 5, 6, 7, 8})
	_, err := dec.DecodeOpaque(4, "field")
	assert.ErrorIs(t, err, ErrLengthExceeded)
}

func TestDecodeTrailingData(t *testing.T) {
	dec := NewDecoder([]byte{0, 0, 0, 1, 0xaa})
	if _, err := dec.DecodeUint32("field"); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	assert.ErrorIs(t, dec.Done(), ErrTrailingData)
}

func TestDecodeFixedOpaqueIsCopy(t *testing.T) {
	data := []byte{1, 2, 3, 4}
	dec := NewDecoder(data)
	out, err := dec.DecodeFixedOpaque(4, "field")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	out[0] = 0xff
	assert.Equal(t, byte(1), data[0])
}
