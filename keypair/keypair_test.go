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
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeProvider is a deterministic Provider for exercising KeyPair logic
// without real curve math
type fakeProvider struct{}

func (fakeProvider) GenerateSeed() ([]byte, error) {
	seed := make([]byte, SeedSize)
	for i := range seed {
		seed[i] = byte(i)
	}
	return seed, nil
}

func (fakeProvider) DerivePublicKey(seed []byte) ([]byte, error) {
	out := make([]byte, PublicKeySize)
	for i, b := range seed {
		out[i] = b ^ 0xff
	}
	return out, nil
}

func (p fakeProvider) Sign(seed []byte, message []byte) ([]byte, error) {
	publicKey, err := p.DerivePublicKey(seed)
	if err != nil {
		return nil, err
	}
	return fakeSignature(publicKey, message), nil
}

func (fakeProvider) Verify(
	publicKey []byte,
	message []byte,
	signature []byte,
) bool {
	if len(publicKey) != PublicKeySize ||
		len(signature) != SignatureSize {
		return false
	}
	expected := fakeSignature(publicKey, message)
	for i := range expected {
		if expected[i] != signature[i] {
			return false
		}
	}
	return true
}

func fakeSignature(publicKey []byte, message []byte) []byte {
	first := sha256.Sum256(append(append([]byte{}, publicKey...), message...))
	second := sha256.Sum256(append(append([]byte{}, message...), publicKey...))
	return append(first[:], second[:]...)
}

func TestRandomSignVerify(t *testing.T) {
	kp, err := Random()
	require.NoError(t, err)
	assert.True(t, kp.CanSign())

	message := []byte("hello stellar")
	sig1, err := kp.Sign(message)
	require.NoError(t, err)
	sig2, err := kp.Sign(message)
	require.NoError(t, err)
	// Ed25519 signatures need not be bit-identical across backends, but
	// both must verify
	assert.True(t, kp.Verify(message, sig1))
	assert.True(t, kp.Verify(message, sig2))
	assert.False(t, kp.Verify([]byte("other message"), sig1))
}

func TestDerivedPublicKeyMatchesStdlib(t *testing.T) {
	seed := make([]byte, SeedSize)
	for i := range seed {
		seed[i] = byte(i * 3)
	}
	derived, err := Ed25519Provider{}.DerivePublicKey(seed)
	require.NoError(t, err)
	expected := ed25519.NewKeyFromSeed(seed).
		Public().(ed25519.PublicKey)
	assert.Equal(t, []byte(expected), derived)
}

func TestSeedStrkeyRoundTrip(t *testing.T) {
	kp, err := Random()
	require.NoError(t, err)
	seed, err := kp.Seed()
	require.NoError(t, err)
	assert.Equal(t, byte('S'), seed[0])
	assert.Equal(t, byte('G'), kp.Address()[0])

	restored, err := FromSecretSeed(seed)
	require.NoError(t, err)
	assert.Equal(t, kp.Address(), restored.Address())
}

func TestVerifyOnly(t *testing.T) {
	kp, err := Random()
	require.NoError(t, err)
	message := []byte("payload")
	sig, err := kp.Sign(message)
	require.NoError(t, err)

	verifier, err := FromAddress(kp.Address())
	require.NoError(t, err)
	assert.False(t, verifier.CanSign())
	assert.True(t, verifier.Verify(message, sig))

	_, err = verifier.Sign(message)
	assert.ErrorIs(t, err, ErrNoPrivateKey)
	_, err = verifier.Seed()
	assert.ErrorIs(t, err, ErrNoPrivateKey)
}

func TestVerifyNeverPanics(t *testing.T) {
	kp, err := Random()
	require.NoError(t, err)
	assert.False(t, kp.Verify([]byte("data"), nil))
	assert.False(t, kp.Verify([]byte("data"), []byte("short")))
	assert.False(t, kp.Verify(nil, make([]byte, SignatureSize)))
}

func TestInvalidInputs(t *testing.T) {
	_, err := FromRawSeed(make([]byte, 31))
	assert.Error(t, err)
	_, err = FromPublicKey(make([]byte, 33))
	assert.Error(t, err)
	_, err = FromSecretSeed("not a seed")
	assert.Error(t, err)
	_, err = FromAddress("not an address")
	assert.Error(t, err)
	// A valid G... strkey is not a seed
	kp, err := Random()
	require.NoError(t, err)
	_, err = FromSecretSeed(kp.Address())
	assert.Error(t, err)
}

func TestDefensiveCopies(t *testing.T) {
	kp, err := Random()
	require.NoError(t, err)
	address := kp.Address()

	publicKey := kp.PublicKey()
	publicKey[0] ^= 0xff
	assert.Equal(t, address, kp.Address())

	rawSeed, err := kp.RawSeed()
	require.NoError(t, err)
	rawSeed[0] ^= 0xff
	seed, err := kp.Seed()
	require.NoError(t, err)
	restored, err := FromSecretSeed(seed)
	require.NoError(t, err)
	assert.Equal(t, address, restored.Address())
}

func TestHint(t *testing.T) {
	kp, err := Random()
	require.NoError(t, err)
	hint := kp.Hint()
	assert.Equal(
		t,
		kp.PublicKey()[PublicKeySize-HintSize:],
		hint[:],
	)
}

func TestWipe(t *testing.T) {
	kp, err := Random()
	require.NoError(t, err)
	kp.Wipe()
	assert.False(t, kp.CanSign())
	_, err = kp.Sign([]byte("data"))
	assert.ErrorIs(t, err, ErrWiped)
	// Public half still works
	assert.Equal(t, byte('G'), kp.Address()[0])
}

func TestFactoryWithFakeProvider(t *testing.T) {
	factory := NewFactory(fakeProvider{})
	kp, err := factory.Random()
	require.NoError(t, err)
	message := []byte("deterministic")
	sig, err := kp.Sign(message)
	require.NoError(t, err)
	assert.True(t, kp.Verify(message, sig))
	assert.False(t, kp.Verify(message, make([]byte, SignatureSize)))

	// Same seed, same keys
	seed, err := kp.RawSeed()
	require.NoError(t, err)
	again, err := factory.FromRawSeed(seed)
	require.NoError(t, err)
	assert.Equal(t, kp.PublicKey(), again.PublicKey())
}
