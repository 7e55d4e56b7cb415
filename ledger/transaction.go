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
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/blinklabs-io/gostellar/keypair"
	"github.com/blinklabs-io/gostellar/xdr"
)

// EnvelopeVersion selects the wire form a transaction envelope encodes as.
// Decoded envelopes keep their original version so a decode/encode round
// trip is byte-identical; newly built transactions always use V1.
type EnvelopeVersion int32

const (
	// EnvelopeV0 is the legacy form with a raw Ed25519 source key and
	// time bounds as the only precondition
	EnvelopeV0 EnvelopeVersion = 0
	// EnvelopeV1 is the current form with a muxed source account and full
	// preconditions
	EnvelopeV1 EnvelopeVersion = 1
)

// Envelope type discriminants, also used as signature-base tags
const (
	envelopeTypeTxV0      int32 = 0
	envelopeTypeTx        int32 = 2
	envelopeTypeTxFeeBump int32 = 5
)

var (
	ErrTooManySignatures = errors.New(
		"signature limit reached",
	)
	ErrNotV0Representable = errors.New(
		"transaction cannot be represented as a V0 envelope",
	)
	ErrNoInnerTransaction = errors.New(
		"fee bump has no inner transaction",
	)
)

// Envelope is a signable transaction envelope: either a Transaction or a
// FeeBumpTransaction
type Envelope interface {
	xdr.Encodable
	// SignatureBase returns the bytes that are hashed and signed for the
	// given network passphrase
	SignatureBase(networkPassphrase string) ([]byte, error)
	// Hash returns the network-specific transaction hash
	Hash(networkPassphrase string) ([32]byte, error)
	// Signatures returns a copy of the attached signatures
	Signatures() []DecoratedSignature
}

// Transaction is a sequenced bundle of operations from a source account.
// The body fields are fixed once the transaction is built; signatures may
// be appended afterwards.
type Transaction struct {
	SourceAccount MuxedAccount
	Fee           uint32
	SeqNum        int64
	Preconditions Preconditions
	Memo          Memo
	Operations    []Operation
	SorobanData   *SorobanTransactionData
	Version       EnvelopeVersion

	signatures []DecoratedSignature
}

func (t *Transaction) memo() Memo {
	if t.Memo == nil {
		return MemoNone{}
	}
	return t.Memo
}

// encodeBodyV1 writes the current-form transaction body, which is also
// what gets signed regardless of envelope version
func (t *Transaction) encodeBodyV1(enc *xdr.Encoder) error {
	if err := t.SourceAccount.encodeXDR(enc); err != nil {
		return err
	}
	enc.EncodeUint32(t.Fee)
	enc.EncodeInt64(t.SeqNum)
	if err := t.Preconditions.encodeXDR(enc); err != nil {
		return err
	}
	if err := t.memo().encodeXDR(enc); err != nil {
		return err
	}
	if err := encodeOperations(enc, t.Operations); err != nil {
		return err
	}
	if t.SorobanData != nil {
		enc.EncodeInt32(1)
		return t.SorobanData.encodeXDR(enc)
	}
	enc.EncodeInt32(0)
	return nil
}

// encodeBodyV0 writes the legacy body, which carries a bare Ed25519
// source key and can express at most time-bounds preconditions
func (t *Transaction) encodeBodyV0(enc *xdr.Encoder) error {
	if t.SourceAccount.IsMuxed() {
		return fmt.Errorf(
			"%w: muxed source account",
			ErrNotV0Representable,
		)
	}
	if !t.Preconditions.isTimeBoundsOnly() {
		return fmt.Errorf(
			"%w: preconditions beyond time bounds",
			ErrNotV0Representable,
		)
	}
	if t.SorobanData != nil {
		return fmt.Errorf(
			"%w: soroban transaction data",
			ErrNotV0Representable,
		)
	}
	sourceKey := t.SourceAccount.AccountID()
	enc.EncodeFixedOpaque(sourceKey[:])
	enc.EncodeUint32(t.Fee)
	enc.EncodeInt64(t.SeqNum)
	enc.EncodeOptional(t.Preconditions.TimeBounds != nil)
	if t.Preconditions.TimeBounds != nil {
		if err := t.Preconditions.TimeBounds.encodeXDR(enc); err != nil {
			return err
		}
	}
	if err := t.memo().encodeXDR(enc); err != nil {
		return err
	}
	if err := encodeOperations(enc, t.Operations); err != nil {
		return err
	}
	enc.EncodeInt32(0)
	return nil
}

// SignatureBase returns sha256(networkPassphrase) followed by the
// ENVELOPE_TYPE_TX tag and the V1 transaction body. V0 and V1 envelopes of
// the same transaction sign identical bytes.
func (t *Transaction) SignatureBase(
	networkPassphrase string,
) ([]byte, error) {
	networkID := sha256.Sum256([]byte(networkPassphrase))
	enc := xdr.NewEncoder()
	enc.EncodeFixedOpaque(networkID[:])
	enc.EncodeInt32(envelopeTypeTx)
	if err := t.encodeBodyV1(enc); err != nil {
		return nil, err
	}
	return enc.Bytes(), nil
}

// Hash returns the transaction hash signers sign and networks use as the
// transaction identifier
func (t *Transaction) Hash(
	networkPassphrase string,
) ([32]byte, error) {
	base, err := t.SignatureBase(networkPassphrase)
	if err != nil {
		return [32]byte{}, err
	}
	return sha256.Sum256(base), nil
}

// Sign hashes the transaction for the given network and appends one
// decorated signature per key pair
func (t *Transaction) Sign(
	networkPassphrase string,
	signers ...*keypair.KeyPair,
) error {
	hash, err := t.Hash(networkPassphrase)
	if err != nil {
		return err
	}
	for _, signer := range signers {
		signature, err := signer.Sign(hash[:])
		if err != nil {
			return err
		}
		if err := t.addSignature(DecoratedSignature{
			Hint:      signer.Hint(),
			Signature: signature,
		}); err != nil {
			return err
		}
	}
	return nil
}

// SignHashX attaches a hash(x) preimage as a signature. The hint is the
// last four bytes of the preimage's SHA-256 hash, matching the HashX
// signer key it satisfies.
func (t *Transaction) SignHashX(preimage []byte) error {
	return signHashX(preimage, t.addSignature)
}

// AddSignature appends an externally produced decorated signature
func (t *Transaction) AddSignature(sig DecoratedSignature) error {
	return t.addSignature(sig)
}

func (t *Transaction) addSignature(sig DecoratedSignature) error {
	if len(t.signatures) >= MaxEnvelopeSignatures {
		return ErrTooManySignatures
	}
	t.signatures = append(t.signatures, sig)
	return nil
}

// Signatures returns a copy of the attached signatures
func (t *Transaction) Signatures() []DecoratedSignature {
	out := make([]DecoratedSignature, len(t.signatures))
	copy(out, t.signatures)
	return out
}

// Equal reports whether two transactions have the same signed payload:
// identical body bytes, independent of envelope version, signatures, and
// network. Comparing body bytes is equivalent to comparing signature bases
// on any one network, since the base only adds the constant network-ID and
// envelope-tag prefix; keeping the comparison network-free is deliberate,
// so equality needs no passphrase argument.
func (t *Transaction) Equal(other *Transaction) bool {
	if t == nil || other == nil {
		return t == other
	}
	a := xdr.NewEncoder()
	if err := t.encodeBodyV1(a); err != nil {
		return false
	}
	b := xdr.NewEncoder()
	if err := other.encodeBodyV1(b); err != nil {
		return false
	}
	return bytes.Equal(a.Bytes(), b.Bytes())
}

// EncodeXDR writes the full envelope: discriminant, body in the
// transaction's envelope version, and signatures
func (t *Transaction) EncodeXDR(enc *xdr.Encoder) error {
	switch t.Version {
	case EnvelopeV0:
		enc.EncodeInt32(envelopeTypeTxV0)
		if err := t.encodeBodyV0(enc); err != nil {
			return err
		}
	case EnvelopeV1:
		enc.EncodeInt32(envelopeTypeTx)
		if err := t.encodeBodyV1(enc); err != nil {
			return err
		}
	default:
		return fmt.Errorf(
			"cannot encode envelope version %d",
			t.Version,
		)
	}
	return encodeSignatures(enc, t.signatures)
}

// FeeBumpTransaction wraps an existing transaction, replacing its fee with
// one paid by the fee source account
type FeeBumpTransaction struct {
	FeeSource MuxedAccount
	// Fee is the total fee for the whole envelope, covering the inner
	// operations plus the fee bump itself
	Fee   int64
	Inner *Transaction

	signatures []DecoratedSignature
}

// The inner transaction always rides as a V1 envelope, whatever version it
// was decoded from
func (f *FeeBumpTransaction) encodeBody(enc *xdr.Encoder) error {
	if f.Inner == nil {
		return ErrNoInnerTransaction
	}
	if err := f.FeeSource.encodeXDR(enc); err != nil {
		return err
	}
	enc.EncodeInt64(f.Fee)
	enc.EncodeInt32(envelopeTypeTx)
	if err := f.Inner.encodeBodyV1(enc); err != nil {
		return err
	}
	if err := encodeSignatures(enc, f.Inner.signatures); err != nil {
		return err
	}
	enc.EncodeInt32(0)
	return nil
}

// SignatureBase returns sha256(networkPassphrase) followed by the
// ENVELOPE_TYPE_TX_FEE_BUMP tag and the fee bump body
func (f *FeeBumpTransaction) SignatureBase(
	networkPassphrase string,
) ([]byte, error) {
	networkID := sha256.Sum256([]byte(networkPassphrase))
	enc := xdr.NewEncoder()
	enc.EncodeFixedOpaque(networkID[:])
	enc.EncodeInt32(envelopeTypeTxFeeBump)
	if err := f.encodeBody(enc); err != nil {
		return nil, err
	}
	return enc.Bytes(), nil
}

// Hash returns the fee bump transaction hash
func (f *FeeBumpTransaction) Hash(
	networkPassphrase string,
) ([32]byte, error) {
	base, err := f.SignatureBase(networkPassphrase)
	if err != nil {
		return [32]byte{}, err
	}
	return sha256.Sum256(base), nil
}

// Sign hashes the fee bump for the given network and appends one
// decorated signature per key pair
func (f *FeeBumpTransaction) Sign(
	networkPassphrase string,
	signers ...*keypair.KeyPair,
) error {
	hash, err := f.Hash(networkPassphrase)
	if err != nil {
		return err
	}
	for _, signer := range signers {
		signature, err := signer.Sign(hash[:])
		if err != nil {
			return err
		}
		if err := f.addSignature(DecoratedSignature{
			Hint:      signer.Hint(),
			Signature: signature,
		}); err != nil {
			return err
		}
	}
	return nil
}

// SignHashX attaches a hash(x) preimage as a signature on the fee bump
func (f *FeeBumpTransaction) SignHashX(preimage []byte) error {
	return signHashX(preimage, f.addSignature)
}

// AddSignature appends an externally produced decorated signature
func (f *FeeBumpTransaction) AddSignature(sig DecoratedSignature) error {
	return f.addSignature(sig)
}

func (f *FeeBumpTransaction) addSignature(sig DecoratedSignature) error {
	if len(f.signatures) >= MaxEnvelopeSignatures {
		return ErrTooManySignatures
	}
	f.signatures = append(f.signatures, sig)
	return nil
}

// Signatures returns a copy of the outer signatures
func (f *FeeBumpTransaction) Signatures() []DecoratedSignature {
	out := make([]DecoratedSignature, len(f.signatures))
	copy(out, f.signatures)
	return out
}

// EncodeXDR writes the full fee bump envelope
func (f *FeeBumpTransaction) EncodeXDR(enc *xdr.Encoder) error {
	enc.EncodeInt32(envelopeTypeTxFeeBump)
	if err := f.encodeBody(enc); err != nil {
		return err
	}
	return encodeSignatures(enc, f.signatures)
}

func signHashX(
	preimage []byte,
	add func(DecoratedSignature) error,
) error {
	if len(preimage) > MaxSignatureSize {
		return fmt.Errorf(
			"hash(x) preimage exceeds %d bytes: %d",
			MaxSignatureSize,
			len(preimage),
		)
	}
	hash := sha256.Sum256(preimage)
	var hint [SignatureHintSize]byte
	copy(hint[:], hash[len(hash)-SignatureHintSize:])
	signature := make([]byte, len(preimage))
	copy(signature, preimage)
	return add(DecoratedSignature{Hint: hint, Signature: signature})
}

// DecodeEnvelope parses a transaction envelope from its XDR bytes,
// returning a *Transaction or a *FeeBumpTransaction
func DecodeEnvelope(data []byte) (Envelope, error) {
	dec := xdr.NewDecoder(data)
	envelope, err := decodeEnvelope(dec)
	if err != nil {
		return nil, err
	}
	if err := dec.Done(); err != nil {
		return nil, err
	}
	return envelope, nil
}

// DecodeEnvelopeBase64 parses a transaction envelope from the base64 form
// used by transport APIs
func DecodeEnvelopeBase64(encoded string) (Envelope, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, xdr.DecodeError{Field: "base64", Err: err}
	}
	return DecodeEnvelope(data)
}

func decodeEnvelope(dec *xdr.Decoder) (Envelope, error) {
	envType, err := dec.DecodeInt32("envelope.type")
	if err != nil {
		return nil, err
	}
	switch envType {
	case envelopeTypeTxV0:
		return decodeTransactionV0(dec)
	case envelopeTypeTx:
		return decodeTransactionV1(dec)
	case envelopeTypeTxFeeBump:
		return decodeFeeBump(dec)
	default:
		return nil, xdr.UnknownDiscriminantError{
			Union:        "TransactionEnvelope",
			Discriminant: envType,
		}
	}
}

func decodeTransactionV0(dec *xdr.Decoder) (*Transaction, error) {
	tx := &Transaction{Version: EnvelopeV0}
	rawKey, err := dec.DecodeFixedOpaque(
		32,
		"transaction.sourceAccountEd25519",
	)
	if err != nil {
		return nil, err
	}
	var sourceKey AccountID
	copy(sourceKey[:], rawKey)
	tx.SourceAccount = MuxedAccountFromAccountID(sourceKey)
	if tx.Fee, err = dec.DecodeUint32("transaction.fee"); err != nil {
		return nil, err
	}
	if tx.SeqNum, err = dec.DecodeInt64(
		"transaction.seqNum",
	); err != nil {
		return nil, err
	}
	present, err := dec.DecodeOptional("transaction.timeBounds")
	if err != nil {
		return nil, err
	}
	if present {
		timeBounds, err := decodeTimeBounds(dec)
		if err != nil {
			return nil, err
		}
		tx.Preconditions.TimeBounds = &timeBounds
	}
	if err := decodeTransactionTail(dec, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

func decodeTransactionV1(dec *xdr.Decoder) (*Transaction, error) {
	tx := &Transaction{Version: EnvelopeV1}
	source, err := decodeMuxedAccount(dec)
	if err != nil {
		return nil, err
	}
	tx.SourceAccount = source
	if tx.Fee, err = dec.DecodeUint32("transaction.fee"); err != nil {
		return nil, err
	}
	if tx.SeqNum, err = dec.DecodeInt64(
		"transaction.seqNum",
	); err != nil {
		return nil, err
	}
	if tx.Preconditions, err = decodePreconditions(dec); err != nil {
		return nil, err
	}
	if err := decodeTransactionTail(dec, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// decodeTransactionTail reads the memo, operations, extension, and
// signatures shared by the V0 and V1 forms
func decodeTransactionTail(dec *xdr.Decoder, tx *Transaction) error {
	var err error
	if tx.Memo, err = decodeMemo(dec); err != nil {
		return err
	}
	if tx.Operations, err = decodeOperations(dec); err != nil {
		return err
	}
	extVersion, err := dec.DecodeInt32("transaction.ext")
	if err != nil {
		return err
	}
	switch extVersion {
	case 0:
	case 1:
		if tx.Version == EnvelopeV0 {
			return xdr.UnknownDiscriminantError{
				Union:        "TransactionV0Ext",
				Discriminant: extVersion,
			}
		}
		sorobanData, err := decodeSorobanTransactionData(dec)
		if err != nil {
			return err
		}
		tx.SorobanData = &sorobanData
	default:
		return xdr.UnknownDiscriminantError{
			Union:        "TransactionExt",
			Discriminant: extVersion,
		}
	}
	tx.signatures, err = decodeSignatures(dec)
	return err
}

func decodeFeeBump(dec *xdr.Decoder) (*FeeBumpTransaction, error) {
	out := &FeeBumpTransaction{}
	feeSource, err := decodeMuxedAccount(dec)
	if err != nil {
		return nil, err
	}
	out.FeeSource = feeSource
	if out.Fee, err = dec.DecodeInt64("feeBump.fee"); err != nil {
		return nil, err
	}
	innerType, err := dec.DecodeInt32("feeBump.innerTx.type")
	if err != nil {
		return nil, err
	}
	if innerType != envelopeTypeTx {
		return nil, xdr.UnknownDiscriminantError{
			Union:        "FeeBumpInnerTx",
			Discriminant: innerType,
		}
	}
	if out.Inner, err = decodeTransactionV1(dec); err != nil {
		return nil, err
	}
	extVersion, err := dec.DecodeInt32("feeBump.ext")
	if err != nil {
		return nil, err
	}
	if extVersion != 0 {
		return nil, xdr.UnknownDiscriminantError{
			Union:        "FeeBumpExt",
			Discriminant: extVersion,
		}
	}
	out.signatures, err = decodeSignatures(dec)
	if err != nil {
		return nil, err
	}
	return out, nil
}
