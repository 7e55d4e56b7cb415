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
	"errors"
	"fmt"

	"github.com/blinklabs-io/gostellar/strkey"
	"github.com/blinklabs-io/gostellar/xdr"
)

type SignerKeyType int32

const (
	SignerKeyTypeEd25519       = SignerKeyType(keyTypeEd25519)
	SignerKeyTypePreAuthTx     = SignerKeyType(keyTypePreAuthTx)
	SignerKeyTypeHashX         = SignerKeyType(keyTypeHashX)
	SignerKeyTypeSignedPayload = SignerKeyType(keyTypeEd25519SignedPayload)

	// SignedPayloadMaxBytes is the limit on a signed-payload signer's
	// payload
	SignedPayloadMaxBytes = 64
)

var ErrInvalidSignerKey = errors.New("invalid signer key")

// SignerKey is the closed union of keys that can authorize an account:
// an Ed25519 public key, a pre-authorized transaction hash, the SHA-256
// hash of a preimage, or an Ed25519 key bound to a specific payload
type SignerKey struct {
	keyType SignerKeyType
	key     [32]byte
	payload []byte
}

// SignerKeyEd25519 builds a signer key from a G... address
func SignerKeyEd25519(address string) (SignerKey, error) {
	accountID, err := AccountIDFromAddress(address)
	if err != nil {
		return SignerKey{}, err
	}
	return SignerKey{
		keyType: SignerKeyTypeEd25519,
		key:     accountID,
	}, nil
}

// SignerKeyPreAuthTx builds a signer key from a 32-byte transaction hash
func SignerKeyPreAuthTx(txHash [32]byte) SignerKey {
	return SignerKey{
		keyType: SignerKeyTypePreAuthTx,
		key:     txHash,
	}
}

// SignerKeyHashX builds a signer key from the SHA-256 hash of a secret
// preimage
func SignerKeyHashX(hash [32]byte) SignerKey {
	return SignerKey{
		keyType: SignerKeyTypeHashX,
		key:     hash,
	}
}

// SignerKeySignedPayload builds a signer key binding an Ed25519 key to a
// payload of 1-64 bytes
func SignerKeySignedPayload(
	address string,
	payload []byte,
) (SignerKey, error) {
	accountID, err := AccountIDFromAddress(address)
	if err != nil {
		return SignerKey{}, err
	}
	if len(payload) < 1 || len(payload) > SignedPayloadMaxBytes {
		return SignerKey{}, fmt.Errorf(
			"%w: payload of %d bytes",
			ErrInvalidSignerKey,
			len(payload),
		)
	}
	payloadCopy := make([]byte, len(payload))
	copy(payloadCopy, payload)
	return SignerKey{
		keyType: SignerKeyTypeSignedPayload,
		key:     accountID,
		payload: payloadCopy,
	}, nil
}

// SignerKeyFromAddress parses any of the G.../T.../X.../P... strkey signer
// forms
func SignerKeyFromAddress(address string) (SignerKey, error) {
	version, payload, err := strkey.DecodeAny(address)
	if err != nil {
		return SignerKey{}, err
	}
	var out SignerKey
	switch version {
	case strkey.VersionByteAccountID:
		out.keyType = SignerKeyTypeEd25519
		copy(out.key[:], payload)
	case strkey.VersionBytePreAuthTx:
		out.keyType = SignerKeyTypePreAuthTx
		copy(out.key[:], payload)
	case strkey.VersionByteHashX:
		out.keyType = SignerKeyTypeHashX
		copy(out.key[:], payload)
	case strkey.VersionByteSignedPayload:
		out.keyType = SignerKeyTypeSignedPayload
		copy(out.key[:], payload[:32])
		innerLen := binary.BigEndian.Uint32(payload[32:36])
		out.payload = make([]byte, innerLen)
		copy(out.payload, payload[36:36+innerLen])
	default:
		return SignerKey{}, fmt.Errorf(
			"%w: strkey version 0x%02x",
			ErrInvalidSignerKey,
			byte(version),
		)
	}
	return out, nil
}

func (s SignerKey) Type() SignerKeyType { return s.keyType }

// Key returns the 32-byte key or hash
func (s SignerKey) Key() [32]byte { return s.key }

// Payload returns a copy of the signed payload, nil for other variants
func (s SignerKey) Payload() []byte {
	if s.payload == nil {
		return nil
	}
	out := make([]byte, len(s.payload))
	copy(out, s.payload)
	return out
}

// Address returns the strkey form matching the variant
func (s SignerKey) Address() string {
	switch s.keyType {
	case SignerKeyTypeEd25519:
		return strkey.MustEncode(
			strkey.VersionByteAccountID,
			s.key[:],
		)
	case SignerKeyTypePreAuthTx:
		return strkey.MustEncode(
			strkey.VersionBytePreAuthTx,
			s.key[:],
		)
	case SignerKeyTypeHashX:
		return strkey.MustEncode(strkey.VersionByteHashX, s.key[:])
	case SignerKeyTypeSignedPayload:
		padded := len(s.payload)
		if rem := padded % 4; rem != 0 {
			padded += 4 - rem
		}
		payload := make([]byte, 0, 36+padded)
		payload = append(payload, s.key[:]...)
		payload = binary.BigEndian.AppendUint32(
			payload,
			uint32(len(s.payload)),
		)
		payload = append(payload, s.payload...)
		payload = append(
			payload,
			make([]byte, padded-len(s.payload))...,
		)
		return strkey.MustEncode(
			strkey.VersionByteSignedPayload,
			payload,
		)
	default:
		return ""
	}
}

// Equal reports whether two signer keys are identical
func (s SignerKey) Equal(other SignerKey) bool {
	if s.keyType != other.keyType || s.key != other.key {
		return false
	}
	if len(s.payload) != len(other.payload) {
		return false
	}
	for i := range s.payload {
		if s.payload[i] != other.payload[i] {
			return false
		}
	}
	return true
}

func (s SignerKey) encodeXDR(enc *xdr.Encoder) error {
	enc.EncodeInt32(int32(s.keyType))
	switch s.keyType {
	case SignerKeyTypeEd25519,
		SignerKeyTypePreAuthTx,
		SignerKeyTypeHashX:
		enc.EncodeFixedOpaque(s.key[:])
		return nil
	case SignerKeyTypeSignedPayload:
		enc.EncodeFixedOpaque(s.key[:])
		return enc.EncodeOpaque(s.payload, SignedPayloadMaxBytes)
	default:
		return fmt.Errorf(
			"cannot encode signer key type %d",
			s.keyType,
		)
	}
}

func decodeSignerKey(dec *xdr.Decoder) (SignerKey, error) {
	keyType, err := dec.DecodeInt32("signerKey.type")
	if err != nil {
		return SignerKey{}, err
	}
	var out SignerKey
	out.keyType = SignerKeyType(keyType)
	switch out.keyType {
	case SignerKeyTypeEd25519,
		SignerKeyTypePreAuthTx,
		SignerKeyTypeHashX:
		raw, err := dec.DecodeFixedOpaque(32, "signerKey.key")
		if err != nil {
			return SignerKey{}, err
		}
		copy(out.key[:], raw)
	case SignerKeyTypeSignedPayload:
		raw, err := dec.DecodeFixedOpaque(32, "signerKey.ed25519")
		if err != nil {
			return SignerKey{}, err
		}
		copy(out.key[:], raw)
		payload, err := dec.DecodeOpaque(
			SignedPayloadMaxBytes,
			"signerKey.payload",
		)
		if err != nil {
			return SignerKey{}, err
		}
		out.payload = payload
	default:
		return SignerKey{}, xdr.UnknownDiscriminantError{
			Union:        "SignerKey",
			Discriminant: keyType,
		}
	}
	return out, nil
}

// Signer pairs a signer key with its weight on an account
type Signer struct {
	Key    SignerKey
	Weight uint32
}

func (s Signer) encodeXDR(enc *xdr.Encoder) error {
	if err := s.Key.encodeXDR(enc); err != nil {
		return err
	}
	enc.EncodeUint32(s.Weight)
	return nil
}

func decodeSigner(dec *xdr.Decoder) (Signer, error) {
	key, err := decodeSignerKey(dec)
	if err != nil {
		return Signer{}, err
	}
	weight, err := dec.DecodeUint32("signer.weight")
	if err != nil {
		return Signer{}, err
	}
	return Signer{Key: key, Weight: weight}, nil
}
