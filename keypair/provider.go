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

package keypair

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha512"
	"fmt"

	"filippo.io/edwards25519"
)

// Provider abstracts the raw Ed25519 primitives so the same keypair logic
// can run against different cryptography backends (or a deterministic fake
// in tests). Implementations receive and return raw byte slices; all
// length validation and strkey handling stays in KeyPair.
type Provider interface {
	// GenerateSeed returns a fresh cryptographically random 32-byte seed
	GenerateSeed() ([]byte, error)
	// DerivePublicKey returns the 32-byte public key for a 32-byte seed
	DerivePublicKey(seed []byte) ([]byte, error)
	// Sign returns the 64-byte signature of message under the seed's key
	Sign(seed []byte, message []byte) ([]byte, error)
	// Verify reports whether signature is valid for message under
	// publicKey. It must not panic on malformed input.
	Verify(publicKey []byte, message []byte, signature []byte) bool
}

// Ed25519Provider is the default Provider, backed by crypto/ed25519 for
// signing and verification and by filippo.io/edwards25519 for public-key
// derivation (RFC 8032 section 5.1.5: hash the seed, clamp, scalar-multiply
// the base point).
type Ed25519Provider struct{}

func (Ed25519Provider) GenerateSeed() ([]byte, error) {
	seed := make([]byte, SeedSize)
	if _, err := rand.Read(seed); err != nil {
		return nil, fmt.Errorf("generate seed: %w", err)
	}
	return seed, nil
}

func (Ed25519Provider) DerivePublicKey(seed []byte) ([]byte, error) {
	if len(seed) != SeedSize {
		return nil, fmt.Errorf(
			"seed must be %d bytes, got %d",
			SeedSize,
			len(seed),
		)
	}
	digest := sha512.Sum512(seed)
	scalar, err := edwards25519.NewScalar().
		SetBytesWithClamping(digest[:32])
	if err != nil {
		return nil, fmt.Errorf("derive public key: %w", err)
	}
	point := (&edwards25519.Point{}).ScalarBaseMult(scalar)
	return point.Bytes(), nil
}

func (Ed25519Provider) Sign(seed []byte, message []byte) ([]byte, error) {
	if len(seed) != SeedSize {
		return nil, fmt.Errorf(
			"seed must be %d bytes, got %d",
			SeedSize,
			len(seed),
		)
	}
	return ed25519.Sign(ed25519.NewKeyFromSeed(seed), message), nil
}

func (Ed25519Provider) Verify(
	publicKey []byte,
	message []byte,
	signature []byte,
) bool {
	if len(publicKey) != PublicKeySize ||
		len(signature) != SignatureSize {
		return false
	}
	return ed25519.Verify(
		ed25519.PublicKey(publicKey),
		message,
		signature,
	)
}
