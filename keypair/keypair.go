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

// Package keypair provides Stellar Ed25519 key material: random
// generation, seed import, verify-only public keys, signing, verification,
// and the strkey text forms (G... addresses, S... seeds). The underlying
// curve arithmetic is delegated to a pluggable Provider.
package keypair

import (
	"errors"
	"fmt"

	"github.com/blinklabs-io/gostellar/strkey"
)

const (
	SeedSize      = 32
	PublicKeySize = 32
	SignatureSize = 64
	HintSize      = 4
)

var (
	// ErrNoPrivateKey indicates a sign attempt on a verify-only keypair
	ErrNoPrivateKey = errors.New("keypair has no private key")
	// ErrWiped indicates use of a keypair after Wipe
	ErrWiped = errors.New("keypair secret material has been wiped")
)

// KeyPair holds a 32-byte Ed25519 public key and, optionally, the 32-byte
// seed it was derived from. A KeyPair without a seed can only verify.
// Instances are immutable after construction; all getters return copies so
// callers cannot mutate internal key state.
type KeyPair struct {
	publicKey []byte
	seed      []byte
	wiped     bool
	provider  Provider
}

// Factory creates keypairs against a specific Provider. The package-level
// constructors use a Factory backed by Ed25519Provider.
type Factory struct {
	provider Provider
}

func NewFactory(provider Provider) *Factory {
	return &Factory{provider: provider}
}

var defaultFactory = NewFactory(Ed25519Provider{})

// Random generates a keypair from a fresh random seed
func (f *Factory) Random() (*KeyPair, error) {
	seed, err := f.provider.GenerateSeed()
	if err != nil {
		return nil, err
	}
	return f.FromRawSeed(seed)
}

// FromRawSeed builds a signing keypair from a 32-byte seed
func (f *Factory) FromRawSeed(seed []byte) (*KeyPair, error) {
	if len(seed) != SeedSize {
		return nil, fmt.Errorf(
			"seed must be %d bytes, got %d",
			SeedSize,
			len(seed),
		)
	}
	publicKey, err := f.provider.DerivePublicKey(seed)
	if err != nil {
		return nil, err
	}
	if len(publicKey) != PublicKeySize {
		return nil, fmt.Errorf(
			"provider returned %d-byte public key",
			len(publicKey),
		)
	}
	seedCopy := make([]byte, SeedSize)
	copy(seedCopy, seed)
	return &KeyPair{
		publicKey: publicKey,
		seed:      seedCopy,
		provider:  f.provider,
	}, nil
}

// FromSecretSeed builds a signing keypair from an S... strkey seed
func (f *Factory) FromSecretSeed(seed string) (*KeyPair, error) {
	raw, err := strkey.Decode(strkey.VersionByteSeed, seed)
	if err != nil {
		return nil, fmt.Errorf("decode secret seed: %w", err)
	}
	return f.FromRawSeed(raw)
}

// FromPublicKey builds a verify-only keypair from 32 raw public key bytes
func (f *Factory) FromPublicKey(publicKey []byte) (*KeyPair, error) {
	if len(publicKey) != PublicKeySize {
		return nil, fmt.Errorf(
			"public key must be %d bytes, got %d",
			PublicKeySize,
			len(publicKey),
		)
	}
	keyCopy := make([]byte, PublicKeySize)
	copy(keyCopy, publicKey)
	return &KeyPair{
		publicKey: keyCopy,
		provider:  f.provider,
	}, nil
}

// FromAddress builds a verify-only keypair from a G... strkey account ID
func (f *Factory) FromAddress(address string) (*KeyPair, error) {
	raw, err := strkey.Decode(strkey.VersionByteAccountID, address)
	if err != nil {
		return nil, fmt.Errorf("decode address: %w", err)
	}
	return f.FromPublicKey(raw)
}

// Package-level constructors using the default Ed25519 provider

func Random() (*KeyPair, error) { return defaultFactory.Random() }

func FromRawSeed(seed []byte) (*KeyPair, error) {
	return defaultFactory.FromRawSeed(seed)
}

func FromSecretSeed(seed string) (*KeyPair, error) {
	return defaultFactory.FromSecretSeed(seed)
}

func FromPublicKey(publicKey []byte) (*KeyPair, error) {
	return defaultFactory.FromPublicKey(publicKey)
}

func FromAddress(address string) (*KeyPair, error) {
	return defaultFactory.FromAddress(address)
}

// Address returns the G... strkey form of the public key
func (k *KeyPair) Address() string {
	return strkey.MustEncode(strkey.VersionByteAccountID, k.publicKey)
}

// Seed returns the S... strkey form of the secret seed, or an error for a
// verify-only keypair
func (k *KeyPair) Seed() (string, error) {
	if err := k.checkCanSign(); err != nil {
		return "", err
	}
	return strkey.MustEncode(strkey.VersionByteSeed, k.seed), nil
}

// PublicKey returns a copy of the 32 raw public key bytes
func (k *KeyPair) PublicKey() []byte {
	out := make([]byte, PublicKeySize)
	copy(out, k.publicKey)
	return out
}

// RawSeed returns a copy of the 32 raw seed bytes, or an error for a
// verify-only keypair
func (k *KeyPair) RawSeed() ([]byte, error) {
	if err := k.checkCanSign(); err != nil {
		return nil, err
	}
	out := make([]byte, SeedSize)
	copy(out, k.seed)
	return out, nil
}

// CanSign reports whether the keypair holds usable secret material
func (k *KeyPair) CanSign() bool {
	return k.seed != nil && !k.wiped
}

// Hint returns the last 4 bytes of the public key, used as the signature
// hint in decorated signatures
func (k *KeyPair) Hint() [HintSize]byte {
	var hint [HintSize]byte
	copy(hint[:], k.publicKey[PublicKeySize-HintSize:])
	return hint
}

// Sign returns the 64-byte Ed25519 signature of data
func (k *KeyPair) Sign(data []byte) ([]byte, error) {
	if err := k.checkCanSign(); err != nil {
		return nil, err
	}
	return k.provider.Sign(k.seed, data)
}

// Verify reports whether signature is a valid signature of data by this
// keypair. It never panics, regardless of input sizes.
func (k *KeyPair) Verify(data []byte, signature []byte) bool {
	return k.provider.Verify(k.publicKey, data, signature)
}

// Wipe zeroes the secret seed in place. The keypair remains usable for
// verification only. Go offers no stronger purge mechanism for heap
// memory.
func (k *KeyPair) Wipe() {
	if k.seed != nil {
		for i := range k.seed {
			k.seed[i] = 0
		}
		k.seed = nil
		k.wiped = true
	}
}

func (k *KeyPair) checkCanSign() error {
	if k.wiped {
		return ErrWiped
	}
	if k.seed == nil {
		return ErrNoPrivateKey
	}
	return nil
}
