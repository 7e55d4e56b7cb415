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
	"testing"

	"github.com/blinklabs-io/gostellar/internal/test"
	"github.com/blinklabs-io/gostellar/xdr"
)

const testAccountAddress = "GA7QYNF7SOWQ3GLR2BGMZEHXAVIRZA4KVWLTJJFC7MGXUA74P7UJVSGZ"

const testAccountKeyHex = "3f0c34bf93ad0d9971d04ccc90f705511c838aad9734a4a2fb0d7a03fc7fe89a"

func TestAccountIDFromAddress(t *testing.T) {
	accountID, err := AccountIDFromAddress(testAccountAddress)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	expected := test.DecodeHexString(testAccountKeyHex)
	if !bytes.Equal(accountID[:], expected) {
		t.Fatalf(
			"did not get expected key: got %x, wanted %x",
			accountID[:],
			expected,
		)
	}
	if address := accountID.Address(); address != testAccountAddress {
		t.Fatalf(
			"did not get expected address: got %s, wanted %s",
			address,
			testAccountAddress,
		)
	}
}

func TestAccountIDEncode(t *testing.T) {
	accountID := MustAccountIDFromAddress(testAccountAddress)
	enc := xdr.NewEncoder()
	if err := accountID.encodeXDR(enc); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	// PublicKey union: ed25519 discriminant then the raw key
	expected := test.DecodeHexString("00000000" + testAccountKeyHex)
	if !bytes.Equal(enc.Bytes(), expected) {
		t.Fatalf(
			"did not get expected bytes: got %x, wanted %x",
			enc.Bytes(),
			expected,
		)
	}
	dec := xdr.NewDecoder(enc.Bytes())
	decoded, err := decodeAccountID(dec)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if decoded != accountID {
		t.Fatalf("account ID did not round-trip")
	}
}

func TestMuxedAccountPlain(t *testing.T) {
	account := MustMuxedAccountFromAddress(testAccountAddress)
	if account.IsMuxed() {
		t.Fatalf("plain account reported as muxed")
	}
	if _, ok := account.MuxID(); ok {
		t.Fatalf("plain account returned a mux ID")
	}
	if address := account.Address(); address != testAccountAddress {
		t.Fatalf(
			"did not get expected address: got %s, wanted %s",
			address,
			testAccountAddress,
		)
	}
	enc := xdr.NewEncoder()
	if err := account.encodeXDR(enc); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	expected := test.DecodeHexString("00000000" + testAccountKeyHex)
	if !bytes.Equal(enc.Bytes(), expected) {
		t.Fatalf(
			"did not get expected bytes: got %x, wanted %x",
			enc.Bytes(),
			expected,
		)
	}
}

func TestMuxedAccountWithID(t *testing.T) {
	accountID := MustAccountIDFromAddress(testAccountAddress)
	account := NewMuxedAccount(accountID, 123)
	if !account.IsMuxed() {
		t.Fatalf("muxed account not reported as muxed")
	}
	id, ok := account.MuxID()
	if !ok || id != 123 {
		t.Fatalf("did not get expected mux ID: got %d", id)
	}
	if account.AccountID() != accountID {
		t.Fatalf("did not get expected underlying account ID")
	}
	// The muxed XDR form carries the ID before the key
	enc := xdr.NewEncoder()
	if err := account.encodeXDR(enc); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	expected := test.DecodeHexString(
		"00000100" + "000000000000007b" + testAccountKeyHex,
	)
	if !bytes.Equal(enc.Bytes(), expected) {
		t.Fatalf(
			"did not get expected bytes: got %x, wanted %x",
			enc.Bytes(),
			expected,
		)
	}
	dec := xdr.NewDecoder(enc.Bytes())
	decoded, err := decodeMuxedAccount(dec)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if !decoded.Equal(account) {
		t.Fatalf("muxed account did not round-trip")
	}
}

func TestMuxedAccountAddressRoundTrip(t *testing.T) {
	accountID := MustAccountIDFromAddress(testAccountAddress)
	account := NewMuxedAccount(accountID, 9223372036854775808)
	address := account.Address()
	if address[0] != 'M' {
		t.Fatalf(
			"muxed address does not start with M: %s",
			address,
		)
	}
	parsed, err := MuxedAccountFromAddress(address)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if !parsed.Equal(account) {
		t.Fatalf("muxed address did not round-trip")
	}
}

func TestMuxedAccountEqual(t *testing.T) {
	accountID := MustAccountIDFromAddress(testAccountAddress)
	plain := MuxedAccountFromAccountID(accountID)
	muxed := NewMuxedAccount(accountID, 0)
	if plain.Equal(muxed) {
		t.Fatalf("plain and muxed accounts compared equal")
	}
	if !muxed.Equal(NewMuxedAccount(accountID, 0)) {
		t.Fatalf("identical muxed accounts compared unequal")
	}
}
