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

package strkey

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/blinklabs-io/gostellar/internal/test"
	"github.com/stretchr/testify/assert"
)

func TestEncodeAccountID(t *testing.T) {
	// Known-good address/key pair
	payload := test.DecodeHexString(
		"3f0c34bf93ad0d9971d04ccc90f705511c838aad9734a4a2fb0d7a03fc7fe89a",
	)
	encoded, err := Encode(VersionByteAccountID, payload)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	expected := "GA7QYNF7SOWQ3GLR2BGMZEHXAVIRZA4KVWLTJJFC7MGXUA74P7UJVSGZ"
	if encoded != expected {
		t.Fatalf(
			"encoding did not match expected value, got: %s, wanted: %s",
			encoded,
			expected,
		)
	}
	decoded, err := Decode(VersionByteAccountID, encoded)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if !bytes.Equal(decoded, payload) {
		t.Fatalf(
			"decoding did not match expected value, got: %x, wanted: %x",
			decoded,
			payload,
		)
	}
}

func TestRoundTripAllVersions(t *testing.T) {
	testDefs := []struct {
		version        VersionByte
		payloadLen     int
		expectedPrefix byte
	}{
		{VersionByteAccountID, 32, 'G'},
		{VersionByteSeed, 32, 'S'},
		{VersionByteMuxedAccount, 40, 'M'},
		{VersionBytePreAuthTx, 32, 'T'},
		{VersionByteHashX, 32, 'X'},
		{VersionByteContract, 32, 'C'},
		{VersionByteLiquidityPool, 32, 'L'},
		{VersionByteClaimableBalance, 33, 'B'},
	}
	for _, testDef := range testDefs {
		payload := make([]byte, testDef.payloadLen)
		for i := range payload {
			payload[i] = byte(i * 7)
		}
		encoded, err := Encode(testDef.version, payload)
		if err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		if encoded[0] != testDef.expectedPrefix {
			t.Fatalf(
				"unexpected prefix for version 0x%02x, got: %c, wanted: %c",
				byte(testDef.version),
				encoded[0],
				testDef.expectedPrefix,
			)
		}
		decoded, err := Decode(testDef.version, encoded)
		if err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		if !bytes.Equal(decoded, payload) {
			t.Fatalf(
				"round trip failed for version 0x%02x",
				byte(testDef.version),
			)
		}
	}
}

func TestRoundTripSignedPayload(t *testing.T) {
	// 32-byte key + length 5 payload padded to 8
	payload := make([]byte, 0, 44)
	payload = append(payload, bytes.Repeat([]byte{0x11}, 32)...)
	payload = append(payload, 0, 0, 0, 5)
	payload = append(payload, 1, 2, 3, 4, 5, 0, 0, 0)
	encoded, err := Encode(VersionByteSignedPayload, payload)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	assert.Equal(t, byte('P'), encoded[0])
	decoded, err := Decode(VersionByteSignedPayload, encoded)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	assert.Equal(t, payload, decoded)
}

func TestDecodeRejectsCorruption(t *testing.T) {
	payload := make([]byte, 32)
	encoded := MustEncode(VersionByteAccountID, payload)

	// Flip a single character (choose a replacement from the alphabet)
	flipped := []byte(encoded)
	if flipped[10] == 'A' {
		flipped[10] = 'B'
	} else {
		flipped[10] = 'A'
	}
	_, err := Decode(VersionByteAccountID, string(flipped))
	assert.Error(t, err)

	// Truncation
	_, err = Decode(VersionByteAccountID, encoded[:len(encoded)-1])
	assert.Error(t, err)

	// Invalid alphabet character
	bad := "0" + encoded[1:]
	_, err = Decode(VersionByteAccountID, bad)
	assert.ErrorIs(t, err, ErrInvalidEncoding)

	// Lowercase is outside the alphabet
	_, err = Decode(
		VersionByteAccountID,
		"g"+encoded[1:],
	)
	assert.ErrorIs(t, err, ErrInvalidEncoding)
}

func TestDecodeVersionMismatch(t *testing.T) {
	encoded := MustEncode(VersionByteAccountID, make([]byte, 32))
	_, err := Decode(VersionByteSeed, encoded)
	assert.ErrorIs(t, err, ErrInvalidVersionByte)
}

func TestDecodeAny(t *testing.T) {
	encoded := MustEncode(VersionByteSeed, make([]byte, 32))
	version, payload, err := DecodeAny(encoded)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	assert.Equal(t, VersionByteSeed, version)
	assert.Len(t, payload, 32)
}

func TestEncodeRejectsBadLength(t *testing.T) {
	_, err := Encode(VersionByteAccountID, make([]byte, 31))
	assert.ErrorIs(t, err, ErrInvalidLength)
	_, err = Encode(VersionByteMuxedAccount, make([]byte, 32))
	assert.ErrorIs(t, err, ErrInvalidLength)
	_, err = Encode(VersionByte(0x05), make([]byte, 32))
	assert.ErrorIs(t, err, ErrInvalidVersionByte)
}

func TestSignedPayloadStructure(t *testing.T) {
	// Inner length of 0 is illegal
	payload := make([]byte, 0, 40)
	payload = append(payload, make([]byte, 32)...)
	payload = append(payload, 0, 0, 0, 0)
	payload = append(payload, 0, 0, 0, 0)
	_, err := Encode(VersionByteSignedPayload, payload)
	if err == nil {
		t.Fatal("expected error, got none")
	}
}

func TestClaimableBalanceTypePinned(t *testing.T) {
	// Only balance ID type 0 (V0) exists
	payload := make([]byte, 33)
	payload[0] = 1
	_, err := Encode(VersionByteClaimableBalance, payload)
	assert.ErrorIs(t, err, ErrInvalidEncoding)

	// A well-checksummed strkey carrying an unknown type must not decode
	raw := append(
		[]byte{byte(VersionByteClaimableBalance)},
		payload...,
	)
	raw = binary.LittleEndian.AppendUint16(raw, checksum(raw))
	_, err = Decode(
		VersionByteClaimableBalance,
		encoding.EncodeToString(raw),
	)
	assert.ErrorIs(t, err, ErrInvalidEncoding)

	payload[0] = 0
	encoded, err := Encode(VersionByteClaimableBalance, payload)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	decoded, err := Decode(VersionByteClaimableBalance, encoded)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if !bytes.Equal(decoded, payload) {
		t.Fatalf(
			"decoding did not match expected value, got: %x, wanted: %x",
			decoded,
			payload,
		)
	}
}

func TestIsValid(t *testing.T) {
	encoded := MustEncode(VersionByteAccountID, make([]byte, 32))
	assert.True(t, IsValid(VersionByteAccountID, encoded))
	assert.False(t, IsValid(VersionByteSeed, encoded))
	assert.False(t, IsValid(VersionByteAccountID, "garbage"))
}
