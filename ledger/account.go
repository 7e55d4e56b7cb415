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
	"encoding/binary"
	"fmt"

	"github.com/blinklabs-io/gostellar/strkey"
	"github.com/blinklabs-io/gostellar/xdr"
)

// Crypto key type discriminants shared by account and signer encodings
const (
	keyTypeEd25519              int32 = 0
	keyTypePreAuthTx            int32 = 1
	keyTypeHashX                int32 = 2
	keyTypeEd25519SignedPayload int32 = 3
	keyTypeMuxedEd25519         int32 = 0x100
)

// AccountID is a plain (non-multiplexed) Ed25519 account identifier, the
// raw form of a G... address
type AccountID [32]byte

// AccountIDFromAddress parses a G... strkey address
func AccountIDFromAddress(address string) (AccountID, error) {
	raw, err := strkey.Decode(strkey.VersionByteAccountID, address)
	if err != nil {
		return AccountID{}, fmt.Errorf("decode account ID: %w", err)
	}
	var out AccountID
	copy(out[:], raw)
	return out, nil
}

// MustAccountIDFromAddress is like AccountIDFromAddress but panics on
// error, for static inputs known to be valid
func MustAccountIDFromAddress(address string) AccountID {
	accountID, err := AccountIDFromAddress(address)
	if err != nil {
		panic(err)
	}
	return accountID
}

// Address returns the G... strkey form
func (a AccountID) Address() string {
	return strkey.MustEncode(strkey.VersionByteAccountID, a[:])
}

// AccountID is encoded as the PublicKey union, which has a single Ed25519
// arm
func (a AccountID) encodeXDR(enc *xdr.Encoder) error {
	enc.EncodeInt32(keyTypeEd25519)
	enc.EncodeFixedOpaque(a[:])
	return nil
}

func decodeAccountID(dec *xdr.Decoder) (AccountID, error) {
	keyType, err := dec.DecodeInt32("accountID.type")
	if err != nil {
		return AccountID{}, err
	}
	if keyType != keyTypeEd25519 {
		return AccountID{}, xdr.UnknownDiscriminantError{
			Union:        "PublicKey",
			Discriminant: keyType,
		}
	}
	raw, err := dec.DecodeFixedOpaque(32, "accountID.ed25519")
	if err != nil {
		return AccountID{}, err
	}
	var out AccountID
	copy(out[:], raw)
	return out, nil
}

// MuxedAccount is an account identifier that may carry a 64-bit
// multiplexing ID alongside the Ed25519 key. The text form is a G...
// address when plain and an M... address when multiplexed.
type MuxedAccount struct {
	ed25519 [32]byte
	id      *uint64
}

// MuxedAccountFromAddress parses either a G... or an M... strkey address
func MuxedAccountFromAddress(address string) (MuxedAccount, error) {
	version, payload, err := strkey.DecodeAny(address)
	if err != nil {
		return MuxedAccount{}, fmt.Errorf("decode account: %w", err)
	}
	var out MuxedAccount
	switch version {
	case strkey.VersionByteAccountID:
		copy(out.ed25519[:], payload)
	case strkey.VersionByteMuxedAccount:
		// 32-byte key followed by the big-endian multiplexing ID
		copy(out.ed25519[:], payload[:32])
		id := binary.BigEndian.Uint64(payload[32:])
		out.id = &id
	default:
		return MuxedAccount{}, fmt.Errorf(
			"%w: version 0x%02x is not an account address",
			strkey.ErrInvalidVersionByte,
			byte(version),
		)
	}
	return out, nil
}

// MustMuxedAccountFromAddress is like MuxedAccountFromAddress but panics
// on error, for static inputs known to be valid
func MustMuxedAccountFromAddress(address string) MuxedAccount {
	account, err := MuxedAccountFromAddress(address)
	if err != nil {
		panic(err)
	}
	return account
}

// NewMuxedAccount attaches a multiplexing ID to a plain account ID
func NewMuxedAccount(accountID AccountID, id uint64) MuxedAccount {
	return MuxedAccount{
		ed25519: accountID,
		id:      &id,
	}
}

// MuxedAccountFromAccountID wraps a plain account ID with no multiplexing
// ID
func MuxedAccountFromAccountID(accountID AccountID) MuxedAccount {
	return MuxedAccount{ed25519: accountID}
}

// IsMuxed reports whether a multiplexing ID is present
func (m MuxedAccount) IsMuxed() bool {
	return m.id != nil
}

// MuxID returns the multiplexing ID and whether one is present
func (m MuxedAccount) MuxID() (uint64, bool) {
	if m.id == nil {
		return 0, false
	}
	return *m.id, true
}

// AccountID returns the underlying plain account identifier
func (m MuxedAccount) AccountID() AccountID {
	return AccountID(m.ed25519)
}

// Address returns the M... form when multiplexed, otherwise the G... form
func (m MuxedAccount) Address() string {
	if m.id == nil {
		return strkey.MustEncode(
			strkey.VersionByteAccountID,
			m.ed25519[:],
		)
	}
	payload := make([]byte, 0, 40)
	payload = append(payload, m.ed25519[:]...)
	payload = binary.BigEndian.AppendUint64(payload, *m.id)
	return strkey.MustEncode(strkey.VersionByteMuxedAccount, payload)
}

// Equal reports whether two muxed accounts have the same key and the same
// (possibly absent) multiplexing ID
func (m MuxedAccount) Equal(other MuxedAccount) bool {
	if m.ed25519 != other.ed25519 {
		return false
	}
	if (m.id == nil) != (other.id == nil) {
		return false
	}
	return m.id == nil || *m.id == *other.id
}

func (m MuxedAccount) encodeXDR(enc *xdr.Encoder) error {
	if m.id == nil {
		enc.EncodeInt32(keyTypeEd25519)
		enc.EncodeFixedOpaque(m.ed25519[:])
		return nil
	}
	enc.EncodeInt32(keyTypeMuxedEd25519)
	enc.EncodeUint64(*m.id)
	enc.EncodeFixedOpaque(m.ed25519[:])
	return nil
}

func decodeMuxedAccount(dec *xdr.Decoder) (MuxedAccount, error) {
	keyType, err := dec.DecodeInt32("muxedAccount.type")
	if err != nil {
		return MuxedAccount{}, err
	}
	var out MuxedAccount
	switch keyType {
	case keyTypeEd25519:
		raw, err := dec.DecodeFixedOpaque(32, "muxedAccount.ed25519")
		if err != nil {
			return MuxedAccount{}, err
		}
		copy(out.ed25519[:], raw)
	case keyTypeMuxedEd25519:
		id, err := dec.DecodeUint64("muxedAccount.id")
		if err != nil {
			return MuxedAccount{}, err
		}
		raw, err := dec.DecodeFixedOpaque(32, "muxedAccount.ed25519")
		if err != nil {
			return MuxedAccount{}, err
		}
		out.id = &id
		copy(out.ed25519[:], raw)
	default:
		return MuxedAccount{}, xdr.UnknownDiscriminantError{
			Union:        "MuxedAccount",
			Discriminant: keyType,
		}
	}
	return out, nil
}
