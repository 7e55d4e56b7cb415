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
	"errors"
	"reflect"
	"testing"

	"github.com/blinklabs-io/gostellar/xdr"
)

func TestClaimPredicateRoundTrip(t *testing.T) {
	notBefore, err := PredicateNot(PredicateBeforeAbsoluteTime(1700000000))
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	predicates := []ClaimPredicate{
		PredicateUnconditional(),
		PredicateBeforeAbsoluteTime(1700000000),
		PredicateBeforeRelativeTime(3600),
		PredicateAnd(
			PredicateBeforeAbsoluteTime(1700000000),
			PredicateBeforeRelativeTime(3600),
		),
		PredicateOr(
			PredicateUnconditional(),
			PredicateBeforeRelativeTime(60),
		),
		notBefore,
		PredicateAnd(
			PredicateOr(
				PredicateBeforeAbsoluteTime(1),
				PredicateBeforeRelativeTime(2),
			),
			notBefore,
		),
	}
	for _, predicate := range predicates {
		enc := xdr.NewEncoder()
		if err := predicate.encodeXDR(enc); err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		dec := xdr.NewDecoder(enc.Bytes())
		decoded, err := decodeClaimPredicate(dec)
		if err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		if err := dec.Done(); err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		if !reflect.DeepEqual(decoded, predicate) {
			t.Fatalf(
				"predicate did not round-trip: got %#v, wanted %#v",
				decoded,
				predicate,
			)
		}
	}
}

func TestPredicateNotOverNot(t *testing.T) {
	inner, err := PredicateNot(PredicateUnconditional())
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if _, err := PredicateNot(inner); !errors.Is(err, ErrNotOverNot) {
		t.Fatalf("did not get expected error, got: %v", err)
	}
}

func TestClaimantRoundTrip(t *testing.T) {
	predicate := PredicateBeforeRelativeTime(86400)
	claimant, err := NewClaimant(testAccountAddress, &predicate)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	enc := xdr.NewEncoder()
	if err := claimant.encodeXDR(enc); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	dec := xdr.NewDecoder(enc.Bytes())
	decoded, err := decodeClaimant(dec)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if !reflect.DeepEqual(decoded, claimant) {
		t.Fatalf("claimant did not round-trip")
	}
}

func TestClaimantDefaultPredicate(t *testing.T) {
	claimant, err := NewClaimant(testAccountAddress, nil)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if claimant.Predicate.Type() != ClaimPredicateTypeUnconditional {
		t.Fatalf("nil predicate did not default to unconditional")
	}
}

func TestClaimableBalanceIDHex(t *testing.T) {
	balanceHex := "00000000" +
		"0102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f20"
	balanceID, err := ClaimableBalanceIDFromHex(balanceHex)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if balanceID.String() != balanceHex {
		t.Fatalf(
			"did not get expected hex: got %s, wanted %s",
			balanceID.String(),
			balanceHex,
		)
	}
	if strkeyForm := balanceID.Strkey(); strkeyForm[0] != 'B' {
		t.Fatalf(
			"balance ID strkey does not start with B: %s",
			strkeyForm,
		)
	}
	enc := xdr.NewEncoder()
	if err := balanceID.EncodeXDR(enc); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	var decoded ClaimableBalanceID
	if err := xdr.Unmarshal(enc.Bytes(), &decoded); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if !bytes.Equal(decoded.V0[:], balanceID.V0[:]) {
		t.Fatalf("balance ID did not round-trip")
	}
}

func TestClaimableBalanceIDInvalid(t *testing.T) {
	for _, balanceID := range []string{
		"",
		"0000",
		// Unknown discriminant
		"00000001" +
			"0102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f20",
	} {
		if _, err := ClaimableBalanceIDFromHex(balanceID); err == nil {
			t.Fatalf(
				"did not get expected error for %q",
				balanceID,
			)
		}
	}
}
