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

// Package strkey implements the checksummed base-32 text encoding used for
// Stellar keys and identifiers. A strkey is the RFC 4648 base-32 encoding
// (without padding characters) of: a single version byte identifying the
// purpose, the payload, and a little-endian CRC-16/XMODEM checksum over
// version byte + payload. The version byte determines the leading letter of
// the encoded form (G for account IDs, S for seeds, and so on).
package strkey

import (
	"bytes"
	"encoding/base32"
	"encoding/binary"
	"errors"
	"fmt"
)

// VersionByte identifies the purpose of an encoded payload. The values are
// chosen so the first base-32 character of the encoding is a fixed letter
// per purpose.
type VersionByte byte

const (
	VersionByteAccountID        VersionByte = 6 << 3  // 'G'
	VersionByteSeed             VersionByte = 18 << 3 // 'S'
	VersionByteMuxedAccount     VersionByte = 12 << 3 // 'M'
	VersionBytePreAuthTx        VersionByte = 19 << 3 // 'T'
	VersionByteHashX            VersionByte = 23 << 3 // 'X'
	VersionByteSignedPayload    VersionByte = 15 << 3 // 'P'
	VersionByteContract         VersionByte = 2 << 3  // 'C'
	VersionByteLiquidityPool    VersionByte = 11 << 3 // 'L'
	VersionByteClaimableBalance VersionByte = 1 << 3  // 'B'
)

const checksumLength = 2

var (
	ErrInvalidVersionByte = errors.New("invalid strkey version byte")
	ErrChecksumMismatch   = errors.New("strkey checksum mismatch")
	ErrInvalidLength      = errors.New("invalid strkey payload length")
	ErrInvalidEncoding    = errors.New("invalid strkey encoding")
)

var encoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// payloadLength returns the allowed payload size range for a version byte
func payloadLength(version VersionByte) (minLen int, maxLen int, err error) {
	switch version {
	case VersionByteAccountID,
		VersionByteSeed,
		VersionBytePreAuthTx,
		VersionByteHashX,
		VersionByteContract,
		VersionByteLiquidityPool:
		return 32, 32, nil
	case VersionByteMuxedAccount:
		// 32-byte key + 8-byte multiplexing ID
		return 40, 40, nil
	case VersionByteClaimableBalance:
		// 1-byte balance ID type + 32-byte hash
		return 33, 33, nil
	case VersionByteSignedPayload:
		// 32-byte key + 4-byte length + 4..64 byte payload padded to 4
		return 40, 100, nil
	default:
		return 0, 0, fmt.Errorf("%w: 0x%02x", ErrInvalidVersionByte, byte(version))
	}
}

// checksum computes CRC-16/XMODEM (poly 0x1021, init 0) over data
func checksum(data []byte) uint16 {
	var crc uint16
	for _, b := range data {
		crc ^= uint16(b) << 8
		for remaining := 8; remaining > 0; remaining-- {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}

// Encode returns the strkey form of payload under the given version byte
func Encode(version VersionByte, payload []byte) (string, error) {
	minLen, maxLen, err := payloadLength(version)
	if err != nil {
		return "", err
	}
	if len(payload) < minLen || len(payload) > maxLen {
		return "", fmt.Errorf(
			"%w: %d bytes for version 0x%02x",
			ErrInvalidLength,
			len(payload),
			byte(version),
		)
	}
	if err := validatePayload(version, payload); err != nil {
		return "", err
	}
	raw := make([]byte, 0, 1+len(payload)+checksumLength)
	raw = append(raw, byte(version))
	raw = append(raw, payload...)
	raw = binary.LittleEndian.AppendUint16(raw, checksum(raw))
	return encoding.EncodeToString(raw), nil
}

// MustEncode is like Encode but panics on error, for static inputs known to
// be valid
func MustEncode(version VersionByte, payload []byte) string {
	encoded, err := Encode(version, payload)
	if err != nil {
		panic(err)
	}
	return encoded
}

// Decode parses a strkey, verifying the base-32 encoding is canonical, the
// checksum matches, the version byte equals the expected one, and the
// payload length is legal for that version. The returned payload is a fresh
// slice.
func Decode(expected VersionByte, encoded string) ([]byte, error) {
	version, payload, err := DecodeAny(encoded)
	if err != nil {
		return nil, err
	}
	if version != expected {
		return nil, fmt.Errorf(
			"%w: got 0x%02x, want 0x%02x",
			ErrInvalidVersionByte,
			byte(version),
			byte(expected),
		)
	}
	return payload, nil
}

// DecodeAny is like Decode but accepts any supported version byte,
// returning it alongside the payload
func DecodeAny(encoded string) (VersionByte, []byte, error) {
	raw, err := encoding.DecodeString(encoded)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %s", ErrInvalidEncoding, err)
	}
	// Reject non-canonical encodings (leftover bits in the final base-32
	// character must be zero)
	if encoding.EncodeToString(raw) != encoded {
		return 0, nil, fmt.Errorf(
			"%w: non-canonical base-32",
			ErrInvalidEncoding,
		)
	}
	if len(raw) < 1+checksumLength {
		return 0, nil, fmt.Errorf(
			"%w: %d bytes decoded",
			ErrInvalidLength,
			len(raw),
		)
	}
	checksumStart := len(raw) - checksumLength
	expectedSum := binary.LittleEndian.Uint16(raw[checksumStart:])
	if checksum(raw[:checksumStart]) != expectedSum {
		return 0, nil, ErrChecksumMismatch
	}
	version := VersionByte(raw[0])
	payload := raw[1:checksumStart]
	minLen, maxLen, err := payloadLength(version)
	if err != nil {
		return 0, nil, err
	}
	if len(payload) < minLen || len(payload) > maxLen {
		return 0, nil, fmt.Errorf(
			"%w: %d bytes for version 0x%02x",
			ErrInvalidLength,
			len(payload),
			raw[0],
		)
	}
	if err := validatePayload(version, payload); err != nil {
		return 0, nil, err
	}
	out := make([]byte, len(payload))
	copy(out, payload)
	return version, out, nil
}

// validatePayload checks version-specific internal payload structure beyond
// the length table
func validatePayload(version VersionByte, payload []byte) error {
	switch version {
	case VersionByteSignedPayload:
		return validateSignedPayload(payload)
	case VersionByteClaimableBalance:
		// The leading byte is the balance ID type; only V0 exists
		if payload[0] != 0 {
			return fmt.Errorf(
				"%w: claimable balance ID type 0x%02x",
				ErrInvalidEncoding,
				payload[0],
			)
		}
	}
	return nil
}

// validateSignedPayload checks the internal structure of a signed-payload
// strkey: 32-byte key, 4-byte big-endian payload length of 1..64, payload
// bytes zero-padded to a 4-byte boundary with nothing after
func validateSignedPayload(payload []byte) error {
	inner := payload[32:]
	innerLen := int(binary.BigEndian.Uint32(inner[:4]))
	if innerLen < 1 || innerLen > 64 {
		return fmt.Errorf(
			"%w: signed payload length %d",
			ErrInvalidLength,
			innerLen,
		)
	}
	padded := innerLen
	if rem := innerLen % 4; rem != 0 {
		padded += 4 - rem
	}
	if len(inner) != 4+padded {
		return fmt.Errorf(
			"%w: signed payload padding",
			ErrInvalidLength,
		)
	}
	if !bytes.Equal(
		inner[4+innerLen:],
		make([]byte, padded-innerLen),
	) {
		return fmt.Errorf(
			"%w: non-zero signed payload padding",
			ErrInvalidEncoding,
		)
	}
	return nil
}

// IsValid reports whether encoded parses cleanly under the given version
// byte
func IsValid(version VersionByte, encoded string) bool {
	_, err := Decode(version, encoded)
	return err == nil
}

// Version returns the version byte of a valid strkey without returning the
// payload
func Version(encoded string) (VersionByte, error) {
	version, _, err := DecodeAny(encoded)
	return version, err
}
