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

const (
	precondNone int32 = 0
	precondTime int32 = 1
	precondV2   int32 = 2

	// MaxExtraSigners is the protocol cap on extra signer preconditions
	MaxExtraSigners = 2
)

var ErrInvalidTimeBounds = errors.New("invalid time bounds")

// TimeBounds restricts the transaction's validity window in Unix seconds.
// A MaxTime of zero means no upper bound.
type TimeBounds struct {
	MinTime uint64
	MaxTime uint64
}

// NewTimeBounds validates that the window is not inverted
func NewTimeBounds(minTime, maxTime uint64) (TimeBounds, error) {
	if maxTime != 0 && maxTime < minTime {
		return TimeBounds{}, fmt.Errorf(
			"%w: max %d before min %d",
			ErrInvalidTimeBounds,
			maxTime,
			minTime,
		)
	}
	return TimeBounds{MinTime: minTime, MaxTime: maxTime}, nil
}

func (t TimeBounds) encodeXDR(enc *xdr.Encoder) error {
	enc.EncodeUint64(t.MinTime)
	enc.EncodeUint64(t.MaxTime)
	return nil
}

func decodeTimeBounds(dec *xdr.Decoder) (TimeBounds, error) {
	minTime, err := dec.DecodeUint64("timeBounds.minTime")
	if err != nil {
		return TimeBounds{}, err
	}
	maxTime, err := dec.DecodeUint64("timeBounds.maxTime")
	if err != nil {
		return TimeBounds{}, err
	}
	return TimeBounds{MinTime: minTime, MaxTime: maxTime}, nil
}

// LedgerBounds restricts validity to a ledger sequence window. A
// MaxLedger of zero means no upper bound.
type LedgerBounds struct {
	MinLedger uint32
	MaxLedger uint32
}

func (l LedgerBounds) encodeXDR(enc *xdr.Encoder) error {
	enc.EncodeUint32(l.MinLedger)
	enc.EncodeUint32(l.MaxLedger)
	return nil
}

func decodeLedgerBounds(dec *xdr.Decoder) (LedgerBounds, error) {
	minLedger, err := dec.DecodeUint32("ledgerBounds.minLedger")
	if err != nil {
		return LedgerBounds{}, err
	}
	maxLedger, err := dec.DecodeUint32("ledgerBounds.maxLedger")
	if err != nil {
		return LedgerBounds{}, err
	}
	return LedgerBounds{
		MinLedger: minLedger,
		MaxLedger: maxLedger,
	}, nil
}

// Preconditions collects every condition that must hold for a transaction
// to be valid. The zero value means no preconditions. Only the time-bounds
// field is expressible in the legacy V0 envelope; anything else forces the
// V2 wire form.
type Preconditions struct {
	TimeBounds      *TimeBounds
	LedgerBounds    *LedgerBounds
	MinSeqNum       *int64
	MinSeqAge       uint64
	MinSeqLedgerGap uint32
	ExtraSigners    []SignerKey
}

// isEmpty reports whether the zero wire form (PRECOND_NONE) applies
func (p Preconditions) isEmpty() bool {
	return p.TimeBounds == nil && p.isTimeBoundsOnly()
}

// isTimeBoundsOnly reports whether the PRECOND_TIME wire form suffices
func (p Preconditions) isTimeBoundsOnly() bool {
	return p.LedgerBounds == nil &&
		p.MinSeqNum == nil &&
		p.MinSeqAge == 0 &&
		p.MinSeqLedgerGap == 0 &&
		len(p.ExtraSigners) == 0
}

func (p Preconditions) validate() error {
	if len(p.ExtraSigners) > MaxExtraSigners {
		return fmt.Errorf(
			"too many extra signers: %d > %d",
			len(p.ExtraSigners),
			MaxExtraSigners,
		)
	}
	if p.TimeBounds != nil {
		if _, err := NewTimeBounds(
			p.TimeBounds.MinTime,
			p.TimeBounds.MaxTime,
		); err != nil {
			return err
		}
	}
	return nil
}

// clone returns a copy sharing no pointers with the original
func (p Preconditions) clone() Preconditions {
	out := p
	if p.TimeBounds != nil {
		timeBounds := *p.TimeBounds
		out.TimeBounds = &timeBounds
	}
	if p.LedgerBounds != nil {
		ledgerBounds := *p.LedgerBounds
		out.LedgerBounds = &ledgerBounds
	}
	if p.MinSeqNum != nil {
		minSeqNum := *p.MinSeqNum
		out.MinSeqNum = &minSeqNum
	}
	out.ExtraSigners = append([]SignerKey(nil), p.ExtraSigners...)
	return out
}

// Preconditions encode as the smallest union arm that can represent them
func (p Preconditions) encodeXDR(enc *xdr.Encoder) error {
	switch {
	case p.isEmpty():
		enc.EncodeInt32(precondNone)
		return nil
	case p.isTimeBoundsOnly():
		enc.EncodeInt32(precondTime)
		return p.TimeBounds.encodeXDR(enc)
	default:
		enc.EncodeInt32(precondV2)
		enc.EncodeOptional(p.TimeBounds != nil)
		if p.TimeBounds != nil {
			if err := p.TimeBounds.encodeXDR(enc); err != nil {
				return err
			}
		}
		enc.EncodeOptional(p.LedgerBounds != nil)
		if p.LedgerBounds != nil {
			if err := p.LedgerBounds.encodeXDR(enc); err != nil {
				return err
			}
		}
		enc.EncodeOptional(p.MinSeqNum != nil)
		if p.MinSeqNum != nil {
			enc.EncodeInt64(*p.MinSeqNum)
		}
		enc.EncodeUint64(p.MinSeqAge)
		enc.EncodeUint32(p.MinSeqLedgerGap)
		if err := enc.EncodeArrayLen(
			len(p.ExtraSigners),
			MaxExtraSigners,
		); err != nil {
			return err
		}
		for _, signer := range p.ExtraSigners {
			if err := signer.encodeXDR(enc); err != nil {
				return err
			}
		}
		return nil
	}
}

func decodePreconditions(dec *xdr.Decoder) (Preconditions, error) {
	condType, err := dec.DecodeInt32("preconditions.type")
	if err != nil {
		return Preconditions{}, err
	}
	var out Preconditions
	switch condType {
	case precondNone:
		return out, nil
	case precondTime:
		timeBounds, err := decodeTimeBounds(dec)
		if err != nil {
			return Preconditions{}, err
		}
		out.TimeBounds = &timeBounds
		return out, nil
	case precondV2:
		present, err := dec.DecodeOptional(
			"preconditions.timeBounds",
		)
		if err != nil {
			return Preconditions{}, err
		}
		if present {
			timeBounds, err := decodeTimeBounds(dec)
			if err != nil {
				return Preconditions{}, err
			}
			out.TimeBounds = &timeBounds
		}
		present, err = dec.DecodeOptional(
			"preconditions.ledgerBounds",
		)
		if err != nil {
			return Preconditions{}, err
		}
		if present {
			ledgerBounds, err := decodeLedgerBounds(dec)
			if err != nil {
				return Preconditions{}, err
			}
			out.LedgerBounds = &ledgerBounds
		}
		present, err = dec.DecodeOptional("preconditions.minSeqNum")
		if err != nil {
			return Preconditions{}, err
		}
		if present {
			minSeqNum, err := dec.DecodeInt64(
				"preconditions.minSeqNum",
			)
			if err != nil {
				return Preconditions{}, err
			}
			out.MinSeqNum = &minSeqNum
		}
		out.MinSeqAge, err = dec.DecodeUint64(
			"preconditions.minSeqAge",
		)
		if err != nil {
			return Preconditions{}, err
		}
		out.MinSeqLedgerGap, err = dec.DecodeUint32(
			"preconditions.minSeqLedgerGap",
		)
		if err != nil {
			return Preconditions{}, err
		}
		n, err := dec.DecodeArrayLen(
			MaxExtraSigners,
			"preconditions.extraSigners",
		)
		if err != nil {
			return Preconditions{}, err
		}
		for remaining := n; remaining > 0; remaining-- {
			signer, err := decodeSignerKey(dec)
			if err != nil {
				return Preconditions{}, err
			}
			out.ExtraSigners = append(out.ExtraSigners, signer)
		}
		return out, nil
	default:
		return Preconditions{}, xdr.UnknownDiscriminantError{
			Union:        "Preconditions",
			Discriminant: condType,
		}
	}
}
