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
	"math"
	"time"

	"github.com/jinzhu/copier"
)

const (
	// MinBaseFee is the network minimum per-operation fee in stroops
	MinBaseFee = 100
)

var (
	ErrNoBaseFee = errors.New(
		"base fee not set",
	)
	ErrNoOperations = errors.New(
		"transaction needs at least one operation",
	)
	ErrNoTimeout = errors.New(
		"no validity window: set time bounds, a timeout, or expressly no timeout",
	)
	ErrFeeOverflow = errors.New(
		"fee overflows",
	)
)

// TransactionBuilder accumulates a transaction through chained calls and
// produces it with Build. The first error sticks: once a call fails, later
// calls are no-ops and Build reports the failure.
type TransactionBuilder struct {
	tx         Transaction
	baseFee    uint32
	timeout    time.Duration
	hasTimeout bool
	noTimeout  bool
	err        error
}

// NewTransactionBuilder starts a transaction from its source account and
// the sequence number it will consume
func NewTransactionBuilder(
	sourceAccount MuxedAccount,
	seqNum int64,
) *TransactionBuilder {
	return &TransactionBuilder{
		tx: Transaction{
			SourceAccount: sourceAccount,
			SeqNum:        seqNum,
			Version:       EnvelopeV1,
		},
	}
}

func (b *TransactionBuilder) fail(err error) *TransactionBuilder {
	if b.err == nil {
		b.err = err
	}
	return b
}

// SetBaseFee sets the per-operation fee in stroops. The transaction fee is
// the base fee times the operation count.
func (b *TransactionBuilder) SetBaseFee(baseFee uint32) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	if baseFee < MinBaseFee {
		return b.fail(fmt.Errorf(
			"base fee %d below minimum %d",
			baseFee,
			MinBaseFee,
		))
	}
	b.baseFee = baseFee
	return b
}

// AddOperation validates and appends one operation
func (b *TransactionBuilder) AddOperation(op Operation) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	if len(b.tx.Operations) >= MaxTransactionOperations {
		return b.fail(fmt.Errorf(
			"operation count exceeds %d",
			MaxTransactionOperations,
		))
	}
	if err := op.Validate(); err != nil {
		return b.fail(fmt.Errorf("%s operation: %w", op.Type(), err))
	}
	b.tx.Operations = append(b.tx.Operations, op)
	return b
}

// SetMemo attaches a memo; the default is no memo
func (b *TransactionBuilder) SetMemo(memo Memo) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	b.tx.Memo = memo
	return b
}

// SetTimeBounds sets an explicit validity window
func (b *TransactionBuilder) SetTimeBounds(
	timeBounds TimeBounds,
) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	if _, err := NewTimeBounds(
		timeBounds.MinTime,
		timeBounds.MaxTime,
	); err != nil {
		return b.fail(err)
	}
	b.tx.Preconditions.TimeBounds = &timeBounds
	return b
}

// SetTimeout bounds validity to the given duration from Build time
func (b *TransactionBuilder) SetTimeout(
	timeout time.Duration,
) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	if timeout <= 0 {
		return b.fail(fmt.Errorf("invalid timeout %s", timeout))
	}
	b.timeout = timeout
	b.hasTimeout = true
	return b
}

// SetNoTimeout declares the transaction valid indefinitely. Requiring this
// call, rather than defaulting to it, keeps an unbounded transaction from
// being built by accident.
func (b *TransactionBuilder) SetNoTimeout() *TransactionBuilder {
	if b.err != nil {
		return b
	}
	b.noTimeout = true
	return b
}

// SetPreconditions replaces the full precondition set
func (b *TransactionBuilder) SetPreconditions(
	cond Preconditions,
) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	if err := cond.validate(); err != nil {
		return b.fail(err)
	}
	b.tx.Preconditions = cond
	return b
}

// SetSorobanData attaches smart-contract resource data
func (b *TransactionBuilder) SetSorobanData(
	data SorobanTransactionData,
) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	b.tx.SorobanData = &data
	return b
}

// Build assembles the transaction. The builder keeps its state, so Build
// can be called again after further changes; the returned transaction is a
// deep copy and shares nothing with the builder.
func (b *TransactionBuilder) Build() (*Transaction, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.baseFee == 0 {
		return nil, ErrNoBaseFee
	}
	if len(b.tx.Operations) == 0 {
		return nil, ErrNoOperations
	}
	if b.tx.Preconditions.TimeBounds == nil && !b.hasTimeout &&
		!b.noTimeout {
		return nil, ErrNoTimeout
	}
	fee := uint64(b.baseFee) * uint64(len(b.tx.Operations))
	if fee > math.MaxUint32 {
		return nil, ErrFeeOverflow
	}
	// Detach the built transaction from the builder so further builder
	// calls cannot mutate it
	tx := b.tx
	tx.Operations = append([]Operation(nil), b.tx.Operations...)
	tx.Preconditions = b.tx.Preconditions.clone()
	if b.tx.SorobanData != nil {
		var sorobanData SorobanTransactionData
		if err := copier.CopyWithOption(
			&sorobanData,
			b.tx.SorobanData,
			copier.Option{DeepCopy: true},
		); err != nil {
			return nil, fmt.Errorf("copy resource data: %w", err)
		}
		tx.SorobanData = &sorobanData
	}
	tx.Fee = uint32(fee)
	if tx.Preconditions.TimeBounds == nil && b.hasTimeout {
		maxTime := time.Now().Add(b.timeout).Unix()
		tx.Preconditions.TimeBounds = &TimeBounds{
			MaxTime: uint64(maxTime),
		}
	}
	return &tx, nil
}

// FeeBumpTransactionBuilder wraps an existing transaction in a fee bump
// envelope
type FeeBumpTransactionBuilder struct {
	feeSource MuxedAccount
	inner     *Transaction
	baseFee   int64
	totalFee  int64
	err       error
}

// NewFeeBumpTransactionBuilder starts a fee bump paying for inner from the
// fee source account
func NewFeeBumpTransactionBuilder(
	feeSource MuxedAccount,
	inner *Transaction,
) *FeeBumpTransactionBuilder {
	b := &FeeBumpTransactionBuilder{
		feeSource: feeSource,
		inner:     inner,
	}
	if inner == nil {
		b.err = ErrNoInnerTransaction
	}
	return b
}

// SetBaseFee sets the per-operation fee; the total is the base fee times
// the inner operation count plus one for the fee bump itself. Mutually
// exclusive with SetTotalFee.
func (b *FeeBumpTransactionBuilder) SetBaseFee(
	baseFee int64,
) *FeeBumpTransactionBuilder {
	if b.err != nil {
		return b
	}
	if b.totalFee != 0 {
		b.err = errors.New("base fee and total fee are mutually exclusive")
		return b
	}
	if baseFee < MinBaseFee {
		b.err = fmt.Errorf(
			"base fee %d below minimum %d",
			baseFee,
			MinBaseFee,
		)
		return b
	}
	b.baseFee = baseFee
	return b
}

// SetTotalFee sets the full envelope fee directly. Mutually exclusive with
// SetBaseFee.
func (b *FeeBumpTransactionBuilder) SetTotalFee(
	totalFee int64,
) *FeeBumpTransactionBuilder {
	if b.err != nil {
		return b
	}
	if b.baseFee != 0 {
		b.err = errors.New("base fee and total fee are mutually exclusive")
		return b
	}
	if totalFee <= 0 {
		b.err = fmt.Errorf("invalid total fee %d", totalFee)
		return b
	}
	b.totalFee = totalFee
	return b
}

// Build assembles the fee bump transaction
func (b *FeeBumpTransactionBuilder) Build() (*FeeBumpTransaction, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.baseFee == 0 && b.totalFee == 0 {
		return nil, ErrNoBaseFee
	}
	// The fee bump itself counts as one operation
	chargedOps := int64(len(b.inner.Operations)) + 1
	fee := b.totalFee
	if b.baseFee != 0 {
		if b.baseFee > math.MaxInt64/chargedOps {
			return nil, ErrFeeOverflow
		}
		fee = b.baseFee * chargedOps
	}
	if fee < int64(b.inner.Fee) {
		return nil, fmt.Errorf(
			"fee %d below inner transaction fee %d",
			fee,
			b.inner.Fee,
		)
	}
	inner := *b.inner
	inner.Operations = append([]Operation(nil), b.inner.Operations...)
	inner.Preconditions = b.inner.Preconditions.clone()
	if b.inner.SorobanData != nil {
		var sorobanData SorobanTransactionData
		if err := copier.CopyWithOption(
			&sorobanData,
			b.inner.SorobanData,
			copier.Option{DeepCopy: true},
		); err != nil {
			return nil, fmt.Errorf("copy resource data: %w", err)
		}
		inner.SorobanData = &sorobanData
	}
	inner.signatures = b.inner.Signatures()
	return &FeeBumpTransaction{
		FeeSource: b.feeSource,
		Fee:       fee,
		Inner:     &inner,
	}, nil
}
