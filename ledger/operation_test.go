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
	"testing"

	"github.com/blinklabs-io/gostellar/xdr"
)

// sampleOperations returns one valid instance of every operation variant
func sampleOperations(t *testing.T) []Operation {
	t.Helper()
	accountID := MustAccountIDFromAddress(testAccountAddress)
	account := MustMuxedAccountFromAddress(testAccountAddress)
	usd := MustCreditAsset("USD", testAccountAddress)
	var hash [32]byte
	for i := range hash {
		hash[i] = byte(i)
	}
	signerKey, err := SignerKeyEd25519(testAccountAddress)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	claimant, err := NewClaimant(testAccountAddress, nil)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	address, err := ScAddressFromString(testAccountAddress)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	pool, err := NewLiquidityPoolParameters(
		NativeAsset(),
		usd,
		LiquidityPoolFeeV18,
	)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	homeDomain := "example.com"
	masterWeight := uint32(1)
	return []Operation{
		&CreateAccount{
			Destination:     accountID,
			StartingBalance: MustParseAmount("100"),
		},
		&Payment{
			Destination: account,
			Asset:       usd,
			Amount:      MustParseAmount("12.5"),
		},
		&PathPaymentStrictReceive{
			SendAsset:   NativeAsset(),
			SendMax:     MustParseAmount("10"),
			Destination: account,
			DestAsset:   usd,
			DestAmount:  MustParseAmount("9.5"),
			Path:        []Asset{usd},
		},
		&ManageSellOffer{
			Selling: NativeAsset(),
			Buying:  usd,
			Amount:  MustParseAmount("100"),
			Price:   Price{N: 1, D: 2},
			OfferID: 0,
		},
		&CreatePassiveSellOffer{
			Selling: usd,
			Buying:  NativeAsset(),
			Amount:  MustParseAmount("5"),
			Price:   Price{N: 3, D: 1},
		},
		&SetOptions{
			HomeDomain:   &homeDomain,
			MasterWeight: &masterWeight,
			Signer:       &Signer{Key: signerKey, Weight: 5},
		},
		&ChangeTrust{
			Line:  ChangeTrustAssetFromPool(pool),
			Limit: MustParseAmount("1000"),
		},
		&AllowTrust{
			Trustor:   accountID,
			AssetCode: "USD",
			Authorize: 1,
		},
		&AccountMerge{Destination: account},
		&Inflation{},
		&ManageData{Name: "config", Value: []byte{1, 2, 3}},
		&BumpSequence{BumpTo: 123456789},
		&ManageBuyOffer{
			Selling:   usd,
			Buying:    NativeAsset(),
			BuyAmount: MustParseAmount("7"),
			Price:     Price{N: 7, D: 5},
			OfferID:   42,
		},
		&PathPaymentStrictSend{
			SendAsset:   usd,
			SendAmount:  MustParseAmount("3"),
			Destination: account,
			DestAsset:   NativeAsset(),
			DestMin:     MustParseAmount("2.9"),
			Path:        []Asset{NativeAsset(), usd},
		},
		&CreateClaimableBalance{
			Asset:     usd,
			Amount:    MustParseAmount("50"),
			Claimants: []Claimant{claimant},
		},
		&ClaimClaimableBalance{
			BalanceID: ClaimableBalanceID{V0: hash},
		},
		&BeginSponsoringFutureReserves{SponsoredID: accountID},
		&EndSponsoringFutureReserves{},
		&RevokeSponsorship{
			Signer: &RevokeSponsorshipSigner{
				AccountID: accountID,
				SignerKey: signerKey,
			},
		},
		&Clawback{
			Asset:  usd,
			From:   account,
			Amount: MustParseAmount("1"),
		},
		&ClawbackClaimableBalance{
			BalanceID: ClaimableBalanceID{V0: hash},
		},
		&SetTrustLineFlags{
			Trustor:    accountID,
			Asset:      usd,
			ClearFlags: 2,
			SetFlags:   1,
		},
		&LiquidityPoolDeposit{
			PoolID:     PoolID(hash),
			MaxAmountA: MustParseAmount("10"),
			MaxAmountB: MustParseAmount("20"),
			MinPrice:   Price{N: 1, D: 2},
			MaxPrice:   Price{N: 2, D: 1},
		},
		&LiquidityPoolWithdraw{
			PoolID:     PoolID(hash),
			Amount:     MustParseAmount("5"),
			MinAmountA: MustParseAmount("1"),
			MinAmountB: MustParseAmount("2"),
		},
		&InvokeHostFunction{
			HostFunction: HostFunction{
				Type: HostFunctionTypeInvokeContract,
				InvokeContract: &InvokeContractArgs{
					ContractAddress: address,
					FunctionName:    "transfer",
					Args: []ScVal{
						ScValAddress(address),
						ScValI64(100),
					},
				},
			},
			Auth: []SorobanAuthorizationEntry{
				{
					Credentials: SorobanCredentials{
						Type: SorobanCredentialsSourceAccount,
					},
					RootInvocation: SorobanAuthorizedInvocation{
						Function: SorobanAuthorizedFunction{
							Type: SorobanAuthorizedFunctionContract,
							ContractFn: &InvokeContractArgs{
								ContractAddress: address,
								FunctionName:    "transfer",
							},
						},
					},
				},
			},
		},
		&ExtendFootprintTTL{ExtendTo: 10000},
		&RestoreFootprint{},
	}
}

func TestOperationCoverage(t *testing.T) {
	ops := sampleOperations(t)
	seen := map[OperationType]bool{}
	for _, op := range ops {
		if seen[op.Type()] {
			t.Fatalf("duplicate operation type %s", op.Type())
		}
		seen[op.Type()] = true
	}
	for opType := OperationTypeCreateAccount; opType <= OperationTypeRestoreFootprint; opType++ {
		if !seen[opType] {
			t.Fatalf("missing sample for operation type %s", opType)
		}
	}
}

func TestOperationValidate(t *testing.T) {
	for _, op := range sampleOperations(t) {
		if err := op.Validate(); err != nil {
			t.Fatalf(
				"%s operation failed validation: %s",
				op.Type(),
				err,
			)
		}
	}
}

func TestOperationRoundTrip(t *testing.T) {
	source := MustMuxedAccountFromAddress(testAccountAddress)
	for _, op := range sampleOperations(t) {
		for _, withSource := range []bool{false, true} {
			if withSource {
				op.setSource(&source)
			} else {
				op.setSource(nil)
			}
			enc := xdr.NewEncoder()
			if err := encodeOperation(enc, op); err != nil {
				t.Fatalf(
					"unexpected error encoding %s: %s",
					op.Type(),
					err,
				)
			}
			dec := xdr.NewDecoder(enc.Bytes())
			decoded, err := decodeOperation(dec)
			if err != nil {
				t.Fatalf(
					"unexpected error decoding %s: %s",
					op.Type(),
					err,
				)
			}
			if err := dec.Done(); err != nil {
				t.Fatalf("unexpected error: %s", err)
			}
			if decoded.Type() != op.Type() {
				t.Fatalf(
					"did not get expected type: got %s, wanted %s",
					decoded.Type(),
					op.Type(),
				)
			}
			if (decoded.SourceAccount() != nil) != withSource {
				t.Fatalf(
					"%s source account presence did not round-trip",
					op.Type(),
				)
			}
			reenc := xdr.NewEncoder()
			if err := encodeOperation(reenc, decoded); err != nil {
				t.Fatalf("unexpected error: %s", err)
			}
			if !bytes.Equal(enc.Bytes(), reenc.Bytes()) {
				t.Fatalf(
					"%s operation did not round-trip: got %x, wanted %x",
					op.Type(),
					reenc.Bytes(),
					enc.Bytes(),
				)
			}
		}
	}
}

func TestDecodeOperationUnknownType(t *testing.T) {
	enc := xdr.NewEncoder()
	enc.EncodeOptional(false)
	enc.EncodeInt32(27)
	dec := xdr.NewDecoder(enc.Bytes())
	var unknownErr xdr.UnknownDiscriminantError
	if _, err := decodeOperation(dec); !errors.As(err, &unknownErr) {
		t.Fatalf("did not get expected error, got: %v", err)
	}
}

func TestOperationValidateRejects(t *testing.T) {
	accountID := MustAccountIDFromAddress(testAccountAddress)
	account := MustMuxedAccountFromAddress(testAccountAddress)
	usd := MustCreditAsset("USD", testAccountAddress)
	testDefs := []struct {
		description string
		op          Operation
	}{
		{
			"negative starting balance",
			&CreateAccount{
				Destination:     accountID,
				StartingBalance: -1,
			},
		},
		{
			"zero payment",
			&Payment{Destination: account, Asset: usd},
		},
		{
			"same asset pair",
			&ManageSellOffer{
				Selling: usd,
				Buying:  usd,
				Amount:  1,
				Price:   Price{N: 1, D: 1},
			},
		},
		{
			"native trust line",
			&ChangeTrust{
				Line: ChangeTrustAssetFromAsset(NativeAsset()),
			},
		},
		{
			"overlapping trust line flags",
			&SetTrustLineFlags{
				Trustor:    accountID,
				Asset:      usd,
				ClearFlags: 1,
				SetFlags:   1,
			},
		},
		{
			"empty data name",
			&ManageData{Name: ""},
		},
		{
			"both revoke sponsorship arms",
			&RevokeSponsorship{},
		},
		{
			"no claimants",
			&CreateClaimableBalance{Asset: usd, Amount: 1},
		},
	}
	for _, testDef := range testDefs {
		if err := testDef.op.Validate(); err == nil {
			t.Fatalf(
				"did not get expected error for %s",
				testDef.description,
			)
		}
	}
}
