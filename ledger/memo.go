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
	"errors"
	"fmt"

	"github.com/blinklabs-io/gostellar/xdr"
)

type MemoType int32

const (
	MemoTypeNone   MemoType = 0
	MemoTypeText   MemoType = 1
	MemoTypeID     MemoType = 2
	MemoTypeHash   MemoType = 3
	MemoTypeReturn MemoType = 4

	// MemoTextMaxBytes is the limit on the UTF-8 byte length of a text
	// memo
	MemoTextMaxBytes = 28
)

var ErrMemoTextTooLong = errors.New("memo text exceeds 28 bytes")

// Memo is the closed union of transaction memo variants
type Memo interface {
	Type() MemoType
	encodeXDR(*xdr.Encoder) error
}

// MemoNone is the absent memo
type MemoNone struct{}

func (MemoNone) Type() MemoType { return MemoTypeNone }

func (MemoNone) encodeXDR(enc *xdr.Encoder) error {
	enc.EncodeInt32(int32(MemoTypeNone))
	return nil
}

// MemoText carries up to 28 bytes of UTF-8 text
type MemoText struct {
	text string
}

// NewMemoText validates the byte-length limit
func NewMemoText(text string) (MemoText, error) {
	if len(text) > MemoTextMaxBytes {
		return MemoText{}, fmt.Errorf(
			"%w: %d bytes",
			ErrMemoTextTooLong,
			len(text),
		)
	}
	return MemoText{text: text}, nil
}

func (m MemoText) Text() string { return m.text }

func (m MemoText) Type() MemoType { return MemoTypeText }

func (m MemoText) encodeXDR(enc *xdr.Encoder) error {
	enc.EncodeInt32(int32(MemoTypeText))
	return enc.EncodeString(m.text, MemoTextMaxBytes)
}

// MemoID carries an unsigned 64-bit identifier
type MemoID uint64

func (MemoID) Type() MemoType { return MemoTypeID }

func (m MemoID) encodeXDR(enc *xdr.Encoder) error {
	enc.EncodeInt32(int32(MemoTypeID))
	enc.EncodeUint64(uint64(m))
	return nil
}

// MemoHash carries a 32-byte hash
type MemoHash [32]byte

func (MemoHash) Type() MemoType { return MemoTypeHash }

func (m MemoHash) encodeXDR(enc *xdr.Encoder) error {
	enc.EncodeInt32(int32(MemoTypeHash))
	enc.EncodeFixedOpaque(m[:])
	return nil
}

// MemoReturn carries the 32-byte hash of a transaction being refunded
type MemoReturn [32]byte

func (MemoReturn) Type() MemoType { return MemoTypeReturn }

func (m MemoReturn) encodeXDR(enc *xdr.Encoder) error {
	enc.EncodeInt32(int32(MemoTypeReturn))
	enc.EncodeFixedOpaque(m[:])
	return nil
}

func decodeMemo(dec *xdr.Decoder) (Memo, error) {
	memoType, err := dec.DecodeInt32("memo.type")
	if err != nil {
		return nil, err
	}
	switch MemoType(memoType) {
	case MemoTypeNone:
		return MemoNone{}, nil
	case MemoTypeText:
		text, err := dec.DecodeString(MemoTextMaxBytes, "memo.text")
		if err != nil {
			return nil, err
		}
		return MemoText{text: text}, nil
	case MemoTypeID:
		id, err := dec.DecodeUint64("memo.id")
		if err != nil {
			return nil, err
		}
		return MemoID(id), nil
	case MemoTypeHash:
		raw, err := dec.DecodeFixedOpaque(32, "memo.hash")
		if err != nil {
			return nil, err
		}
		var out MemoHash
		copy(out[:], raw)
		return out, nil
	case MemoTypeReturn:
		raw, err := dec.DecodeFixedOpaque(32, "memo.retHash")
		if err != nil {
			return nil, err
		}
		var out MemoReturn
		copy(out[:], raw)
		return out, nil
	default:
		return nil, xdr.UnknownDiscriminantError{
			Union:        "Memo",
			Discriminant: memoType,
		}
	}
}
