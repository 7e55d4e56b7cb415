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
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/blinklabs-io/gostellar/keypair"
	"github.com/blinklabs-io/gostellar/xdr"
)

const testPassphrase = "Test SDF Network ; September 2015"

func testTransaction(t *testing.T) *Transaction {
	t.Helper()
	account := MustMuxedAccountFromAddress(testAccountAddress)
	return &Transaction{
		SourceAccount: account,
		Fee:           100,
		SeqNum:        1,
		Memo:          MemoID(7),
		Operations: []Operation{
			&Payment{
				Destination: account,
				Asset:       NativeAsset(),
				Amount:      MustParseAmount("10"),
			},
		},
		Version: EnvelopeV1,
	}
}

func TestTransactionEnvelopeKnownAnswer(t *testing.T) {
	// Envelope and hash computed independently from the wire format
	// definition; any encoding change that alters the bytes fails here
	// even if encode and decode agree with each other
	account := MustMuxedAccountFromAddress(testAccountAddress)
	tx := &Transaction{
		SourceAccount: account,
		Fee:           100,
		SeqNum:        1,
		Operations: []Operation{
			&Payment{
				Destination: account,
				Asset:       NativeAsset(),
				Amount:      MustParseAmount("10"),
			},
		},
		Version: EnvelopeV1,
	}
	expectedEnvelope := "AAAAAgAAAAA/DDS/k60NmXHQTMyQ9wVRHIOKrZc0" +
		"pKL7DXoD/H/omgAAAGQAAAAAAAAAAQAAAAAAAAAAAAAAAQAAAAAAAAAB" +
		"AAAAAD8MNL+TrQ2ZcdBMzJD3BVEcg4qtlzSkovsNegP8f+iaAAAAAAAA" +
		"AAAF9eEAAAAAAAAAAAA="
	encoded, err := xdr.MarshalBase64(tx)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if encoded != expectedEnvelope {
		t.Fatalf(
			"envelope did not match expected value, got: %s, wanted: %s",
			encoded,
			expectedEnvelope,
		)
	}
	expectedHash := "e96d05061c338e70c5724bb395ff69bf47368d92b69fc378f537062b822dc0aa"
	hash, err := tx.Hash(testPassphrase)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if hex.EncodeToString(hash[:]) != expectedHash {
		t.Fatalf(
			"hash did not match expected value, got: %x, wanted: %s",
			hash,
			expectedHash,
		)
	}
	// The pinned envelope parses back to the same transaction
	decoded, err := DecodeEnvelopeBase64(expectedEnvelope)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	decodedTx, ok := decoded.(*Transaction)
	if !ok {
		t.Fatalf("did not get expected envelope type: %T", decoded)
	}
	if !decodedTx.Equal(tx) {
		t.Fatalf("pinned envelope did not decode to the same transaction")
	}
	// And a signature over the pinned hash verifies
	signer, err := keypair.Random()
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if err := tx.Sign(testPassphrase, signer); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if !signer.Verify(hash[:], tx.Signatures()[0].Signature) {
		t.Fatalf("signature does not verify against the pinned hash")
	}
}

func TestTransactionHashMatchesSignatureBase(t *testing.T) {
	tx := testTransaction(t)
	base, err := tx.SignatureBase(testPassphrase)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	expectedPrefix := sha256.Sum256([]byte(testPassphrase))
	if !bytes.HasPrefix(base, expectedPrefix[:]) {
		t.Fatalf("signature base does not start with the network ID")
	}
	// The envelope type tag follows the network ID
	if !bytes.Equal(base[32:36], []byte{0, 0, 0, 2}) {
		t.Fatalf(
			"did not get expected envelope tag: %x",
			base[32:36],
		)
	}
	hash, err := tx.Hash(testPassphrase)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	expected := sha256.Sum256(base)
	if hash != expected {
		t.Fatalf("hash does not match sha256 of the signature base")
	}
}

func TestTransactionHashDependsOnNetwork(t *testing.T) {
	tx := testTransaction(t)
	testHash, err := tx.Hash(testPassphrase)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	publicHash, err := tx.Hash(
		"Public Global Stellar Network ; September 2015",
	)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if testHash == publicHash {
		t.Fatalf("hashes on different networks should differ")
	}
}

func TestTransactionSignAndVerify(t *testing.T) {
	tx := testTransaction(t)
	signer, err := keypair.Random()
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if err := tx.Sign(testPassphrase, signer); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	signatures := tx.Signatures()
	if len(signatures) != 1 {
		t.Fatalf(
			"did not get expected signature count: %d",
			len(signatures),
		)
	}
	if signatures[0].Hint != signer.Hint() {
		t.Fatalf("signature hint does not match the signer")
	}
	hash, err := tx.Hash(testPassphrase)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if !signer.Verify(hash[:], signatures[0].Signature) {
		t.Fatalf("signature does not verify against the hash")
	}
}

func TestTransactionSignHashX(t *testing.T) {
	tx := testTransaction(t)
	preimage := []byte("the quick brown fox")
	if err := tx.SignHashX(preimage); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	signatures := tx.Signatures()
	if len(signatures) != 1 {
		t.Fatalf("did not get expected signature count")
	}
	if !bytes.Equal(signatures[0].Signature, preimage) {
		t.Fatalf("hash(x) signature is not the preimage")
	}
	hash := sha256.Sum256(preimage)
	var expectedHint [SignatureHintSize]byte
	copy(expectedHint[:], hash[28:])
	if signatures[0].Hint != expectedHint {
		t.Fatalf("hash(x) hint is not the hash tail")
	}
}

func TestTransactionSignatureLimit(t *testing.T) {
	tx := testTransaction(t)
	sig := DecoratedSignature{Signature: []byte{1}}
	for remaining := MaxEnvelopeSignatures; remaining > 0; remaining-- {
		if err := tx.AddSignature(sig); err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
	}
	if err := tx.AddSignature(sig); !errors.Is(
		err,
		ErrTooManySignatures,
	) {
		t.Fatalf("did not get expected error, got: %v", err)
	}
}

func TestTransactionEnvelopeRoundTrip(t *testing.T) {
	tx := testTransaction(t)
	signer, err := keypair.Random()
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if err := tx.Sign(testPassphrase, signer); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	encoded, err := xdr.MarshalBase64(tx)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	decoded, err := DecodeEnvelopeBase64(encoded)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	decodedTx, ok := decoded.(*Transaction)
	if !ok {
		t.Fatalf("did not get expected envelope type: %T", decoded)
	}
	if !decodedTx.Equal(tx) {
		t.Fatalf("transaction body did not round-trip")
	}
	if len(decodedTx.Signatures()) != 1 {
		t.Fatalf("signatures did not round-trip")
	}
	reencoded, err := xdr.MarshalBase64(decodedTx)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if reencoded != encoded {
		t.Fatalf(
			"envelope did not round-trip: got %s, wanted %s",
			reencoded,
			encoded,
		)
	}
}

func TestTransactionV0EnvelopeRoundTrip(t *testing.T) {
	tx := testTransaction(t)
	tx.Version = EnvelopeV0
	tx.Preconditions.TimeBounds = &TimeBounds{MinTime: 0, MaxTime: 100}
	data, err := xdr.Marshal(tx)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	decoded, err := DecodeEnvelope(data)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	decodedTx, ok := decoded.(*Transaction)
	if !ok {
		t.Fatalf("did not get expected envelope type: %T", decoded)
	}
	// Decoded envelopes keep their version
	if decodedTx.Version != EnvelopeV0 {
		t.Fatalf(
			"did not get expected envelope version: %d",
			decodedTx.Version,
		)
	}
	reencoded, err := xdr.Marshal(decodedTx)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if !bytes.Equal(data, reencoded) {
		t.Fatalf("V0 envelope is not byte-identical after round trip")
	}
}

func TestTransactionV0SignatureMatchesV1(t *testing.T) {
	// The same transaction signs identical bytes in either envelope
	// version
	v0 := testTransaction(t)
	v0.Version = EnvelopeV0
	v1 := testTransaction(t)
	v0Hash, err := v0.Hash(testPassphrase)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	v1Hash, err := v1.Hash(testPassphrase)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if v0Hash != v1Hash {
		t.Fatalf("V0 and V1 hashes differ")
	}
}

func TestTransactionV0Unrepresentable(t *testing.T) {
	accountID := MustAccountIDFromAddress(testAccountAddress)
	tx := testTransaction(t)
	tx.Version = EnvelopeV0
	tx.SourceAccount = NewMuxedAccount(accountID, 5)
	if _, err := xdr.Marshal(tx); !errors.Is(
		err,
		ErrNotV0Representable,
	) {
		t.Fatalf("did not get expected error, got: %v", err)
	}
	tx = testTransaction(t)
	tx.Version = EnvelopeV0
	tx.Preconditions.MinSeqAge = 1
	if _, err := xdr.Marshal(tx); !errors.Is(
		err,
		ErrNotV0Representable,
	) {
		t.Fatalf("did not get expected error, got: %v", err)
	}
}

func TestTransactionEqual(t *testing.T) {
	a := testTransaction(t)
	b := testTransaction(t)
	if !a.Equal(b) {
		t.Fatalf("identical transactions compared unequal")
	}
	// Signatures do not participate in equality
	signer, err := keypair.Random()
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if err := a.Sign(testPassphrase, signer); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if !a.Equal(b) {
		t.Fatalf("signatures changed transaction equality")
	}
	// Envelope version does not participate either
	b.Version = EnvelopeV0
	if !a.Equal(b) {
		t.Fatalf("envelope version changed transaction equality")
	}
	b.Fee = 200
	if a.Equal(b) {
		t.Fatalf("different fees compared equal")
	}
}

func TestTransactionSorobanDataRoundTrip(t *testing.T) {
	tx := testTransaction(t)
	var hash [32]byte
	for i := range hash {
		hash[i] = byte(i)
	}
	tx.SorobanData = &SorobanTransactionData{
		Resources: SorobanResources{
			Footprint: LedgerFootprint{
				ReadOnly: []LedgerKey{
					{
						Type: LedgerEntryTypeContractCode,
						ContractCode: &LedgerKeyContractCode{
							Hash: hash,
						},
					},
				},
			},
			Instructions: 1000000,
			ReadBytes:    2000,
			WriteBytes:   500,
		},
		ResourceFee: 12345,
	}
	data, err := xdr.Marshal(tx)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	decoded, err := DecodeEnvelope(data)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	decodedTx, ok := decoded.(*Transaction)
	if !ok {
		t.Fatalf("did not get expected envelope type: %T", decoded)
	}
	if decodedTx.SorobanData == nil {
		t.Fatalf("resource data missing after round trip")
	}
	if decodedTx.SorobanData.ResourceFee != 12345 {
		t.Fatalf("resource fee did not round-trip")
	}
	reencoded, err := xdr.Marshal(decodedTx)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if !bytes.Equal(data, reencoded) {
		t.Fatalf("envelope is not byte-identical after round trip")
	}
}

func TestFeeBumpRoundTrip(t *testing.T) {
	inner := testTransaction(t)
	innerSigner, err := keypair.Random()
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if err := inner.Sign(testPassphrase, innerSigner); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	feeBump := &FeeBumpTransaction{
		FeeSource: MustMuxedAccountFromAddress(testAccountAddress),
		Fee:       400,
		Inner:     inner,
	}
	outerSigner, err := keypair.Random()
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if err := feeBump.Sign(testPassphrase, outerSigner); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	encoded, err := xdr.MarshalBase64(feeBump)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	decoded, err := DecodeEnvelopeBase64(encoded)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	decodedBump, ok := decoded.(*FeeBumpTransaction)
	if !ok {
		t.Fatalf("did not get expected envelope type: %T", decoded)
	}
	if decodedBump.Fee != 400 {
		t.Fatalf("fee did not round-trip")
	}
	if !decodedBump.Inner.Equal(inner) {
		t.Fatalf("inner transaction did not round-trip")
	}
	if len(decodedBump.Inner.Signatures()) != 1 {
		t.Fatalf("inner signatures did not round-trip")
	}
	reencoded, err := xdr.MarshalBase64(decodedBump)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if reencoded != encoded {
		t.Fatalf("fee bump envelope did not round-trip")
	}
	// Outer and inner hashes differ
	outerHash, err := decodedBump.Hash(testPassphrase)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	innerHash, err := inner.Hash(testPassphrase)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if outerHash == innerHash {
		t.Fatalf("fee bump hash should differ from inner hash")
	}
	if !outerSigner.Verify(
		outerHash[:],
		decodedBump.Signatures()[0].Signature,
	) {
		t.Fatalf("outer signature does not verify")
	}
}

func TestFeeBumpRequiresInner(t *testing.T) {
	feeBump := &FeeBumpTransaction{
		FeeSource: MustMuxedAccountFromAddress(testAccountAddress),
		Fee:       400,
	}
	if _, err := xdr.Marshal(feeBump); !errors.Is(
		err,
		ErrNoInnerTransaction,
	) {
		t.Fatalf("did not get expected error, got: %v", err)
	}
}

func TestDecodeEnvelopeRejectsTrailingData(t *testing.T) {
	tx := testTransaction(t)
	data, err := xdr.Marshal(tx)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if _, err := DecodeEnvelope(
		append(data, 0),
	); !errors.Is(err, xdr.ErrTrailingData) {
		t.Fatalf("did not get expected error, got: %v", err)
	}
}

func TestDecodeEnvelopeUnknownType(t *testing.T) {
	enc := xdr.NewEncoder()
	enc.EncodeInt32(9)
	var unknownErr xdr.UnknownDiscriminantError
	if _, err := DecodeEnvelope(
		enc.Bytes(),
	); !errors.As(err, &unknownErr) {
		t.Fatalf("did not get expected error, got: %v", err)
	}
}
