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
	"github.com/blinklabs-io/gostellar/xdr"
)

const (
	// SignatureHintSize is the trailing public-key bytes carried with
	// each signature
	SignatureHintSize = 4
	// MaxSignatureSize is the wire cap on a raw signature
	MaxSignatureSize = 64
	// MaxEnvelopeSignatures is the cap on signatures per envelope
	MaxEnvelopeSignatures = 20
)

// DecoratedSignature pairs a raw signature with the last 4 bytes of the
// signing public key, so verifiers can locate the candidate key without
// trying every signer
type DecoratedSignature struct {
	Hint      [SignatureHintSize]byte
	Signature []byte
}

func (s DecoratedSignature) encodeXDR(enc *xdr.Encoder) error {
	enc.EncodeFixedOpaque(s.Hint[:])
	return enc.EncodeOpaque(s.Signature, MaxSignatureSize)
}

func decodeDecoratedSignature(
	dec *xdr.Decoder,
) (DecoratedSignature, error) {
	var out DecoratedSignature
	raw, err := dec.DecodeFixedOpaque(
		SignatureHintSize,
		"signature.hint",
	)
	if err != nil {
		return DecoratedSignature{}, err
	}
	copy(out.Hint[:], raw)
	out.Signature, err = dec.DecodeOpaque(
		MaxSignatureSize,
		"signature.signature",
	)
	if err != nil {
		return DecoratedSignature{}, err
	}
	return out, nil
}

func encodeSignatures(
	enc *xdr.Encoder,
	signatures []DecoratedSignature,
) error {
	if err := enc.EncodeArrayLen(
		len(signatures),
		MaxEnvelopeSignatures,
	); err != nil {
		return err
	}
	for _, sig := range signatures {
		if err := sig.encodeXDR(enc); err != nil {
			return err
		}
	}
	return nil
}

func decodeSignatures(dec *xdr.Decoder) ([]DecoratedSignature, error) {
	n, err := dec.DecodeArrayLen(
		MaxEnvelopeSignatures,
		"envelope.signatures",
	)
	if err != nil {
		return nil, err
	}
	out := make([]DecoratedSignature, 0, n)
	for remaining := n; remaining > 0; remaining-- {
		sig, err := decodeDecoratedSignature(dec)
		if err != nil {
			return nil, err
		}
		out = append(out, sig)
	}
	return out, nil
}
