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

// Package wallet derives deterministic account keypairs from BIP-39
// mnemonic phrases using SLIP-0010 Ed25519 derivation on the m/44'/148'
// path.
package wallet

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/blinklabs-io/gostellar/keypair"
	"github.com/tyler-smith/go-bip39"
	"golang.org/x/crypto/pbkdf2"
)

const (
	// MnemonicEntropyBits is the default entropy for new mnemonics,
	// yielding a 24-word phrase
	MnemonicEntropyBits = 256

	seedIterations = 2048
	seedBytes      = 64

	hardenedOffset = 0x80000000
	purposeIndex   = 44
	coinTypeIndex  = 148
)

var (
	ErrInvalidMnemonic = errors.New("invalid mnemonic phrase")

	masterKeySalt = []byte("ed25519 seed")
)

// NewMnemonic generates a fresh 24-word mnemonic phrase
func NewMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(MnemonicEntropyBits)
	if err != nil {
		return "", fmt.Errorf("generate entropy: %w", err)
	}
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("generate mnemonic: %w", err)
	}
	return mnemonic, nil
}

// Wallet holds the binary seed stretched from a mnemonic phrase and
// derives account keypairs from it
type Wallet struct {
	seed []byte
}

// NewWallet builds a wallet from a mnemonic phrase and an optional
// passphrase (the BIP-39 "25th word"; pass the empty string for none)
func NewWallet(mnemonic string, passphrase string) (*Wallet, error) {
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, ErrInvalidMnemonic
	}
	seed := pbkdf2.Key(
		[]byte(mnemonic),
		[]byte("mnemonic"+passphrase),
		seedIterations,
		seedBytes,
		sha512.New,
	)
	return &Wallet{seed: seed}, nil
}

// NewWalletFromSeed builds a wallet directly from a 64-byte binary seed
func NewWalletFromSeed(seed []byte) (*Wallet, error) {
	if len(seed) != seedBytes {
		return nil, fmt.Errorf(
			"seed must be %d bytes, got %d",
			seedBytes,
			len(seed),
		)
	}
	seedCopy := make([]byte, seedBytes)
	copy(seedCopy, seed)
	return &Wallet{seed: seedCopy}, nil
}

// KeyPair derives the signing keypair for the given account index, on the
// path m/44'/148'/index'
func (w *Wallet) KeyPair(index uint32) (*keypair.KeyPair, error) {
	if index >= hardenedOffset {
		return nil, fmt.Errorf("account index %d out of range", index)
	}
	key, chainCode := deriveMasterKey(w.seed)
	for _, childIndex := range []uint32{
		purposeIndex,
		coinTypeIndex,
		index,
	} {
		key, chainCode = deriveChildKey(
			key,
			chainCode,
			childIndex|hardenedOffset,
		)
	}
	return keypair.FromRawSeed(key)
}

// Wipe zeroes the wallet seed in place. Keypairs already derived remain
// usable.
func (w *Wallet) Wipe() {
	for i := range w.seed {
		w.seed[i] = 0
	}
	w.seed = nil
}

func deriveMasterKey(seed []byte) ([]byte, []byte) {
	mac := hmac.New(sha512.New, masterKeySalt)
	mac.Write(seed)
	sum := mac.Sum(nil)
	return sum[:32], sum[32:]
}

// deriveChildKey performs one hardened SLIP-0010 Ed25519 derivation step.
// Ed25519 only supports hardened derivation, so index must carry the
// hardened bit.
func deriveChildKey(key []byte, chainCode []byte, index uint32) ([]byte, []byte) {
	data := make([]byte, 0, 1+32+4)
	data = append(data, 0)
	data = append(data, key...)
	data = binary.BigEndian.AppendUint32(data, index)
	mac := hmac.New(sha512.New, chainCode)
	mac.Write(data)
	sum := mac.Sum(nil)
	return sum[:32], sum[32:]
}
