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

// LiquidityPoolDeposit deposits into a constant-product pool, bounded by
// maximum amounts of each asset and a price range
type LiquidityPoolDeposit struct {
	OpSource
	PoolID     PoolID
	MaxAmountA int64
	MaxAmountB int64
	MinPrice   Price
	MaxPrice   Price
}

func (op *LiquidityPoolDeposit) Type() OperationType {
	return OperationTypeLiquidityPoolDeposit
}

func (op *LiquidityPoolDeposit) Validate() error {
	if err := checkPositiveAmount(
		"deposit maximum for asset A",
		op.MaxAmountA,
	); err != nil {
		return err
	}
	if err := checkPositiveAmount(
		"deposit maximum for asset B",
		op.MaxAmountB,
	); err != nil {
		return err
	}
	if err := op.MinPrice.validate(); err != nil {
		return err
	}
	return op.MaxPrice.validate()
}

func (op *LiquidityPoolDeposit) encodeBody(enc *xdr.Encoder) error {
	enc.EncodeFixedOpaque(op.PoolID[:])
	enc.EncodeInt64(op.MaxAmountA)
	enc.EncodeInt64(op.MaxAmountB)
	if err := op.MinPrice.encodeXDR(enc); err != nil {
		return err
	}
	return op.MaxPrice.encodeXDR(enc)
}

func (op *LiquidityPoolDeposit) decodeBody(dec *xdr.Decoder) error {
	raw, err := dec.DecodeFixedOpaque(
		32,
		"liquidityPoolDeposit.poolID",
	)
	if err != nil {
		return err
	}
	copy(op.PoolID[:], raw)
	if op.MaxAmountA, err = dec.DecodeInt64(
		"liquidityPoolDeposit.maxAmountA",
	); err != nil {
		return err
	}
	if op.MaxAmountB, err = dec.DecodeInt64(
		"liquidityPoolDeposit.maxAmountB",
	); err != nil {
		return err
	}
	if op.MinPrice, err = decodePrice(dec); err != nil {
		return err
	}
	op.MaxPrice, err = decodePrice(dec)
	return err
}

// LiquidityPoolWithdraw redeems pool shares for the underlying assets,
// bounded by minimum amounts of each
type LiquidityPoolWithdraw struct {
	OpSource
	PoolID     PoolID
	Amount     int64
	MinAmountA int64
	MinAmountB int64
}

func (op *LiquidityPoolWithdraw) Type() OperationType {
	return OperationTypeLiquidityPoolWithdraw
}

func (op *LiquidityPoolWithdraw) Validate() error {
	if err := checkPositiveAmount(
		"withdraw amount",
		op.Amount,
	); err != nil {
		return err
	}
	if err := checkNonNegativeAmount(
		"withdraw minimum for asset A",
		op.MinAmountA,
	); err != nil {
		return err
	}
	return checkNonNegativeAmount(
		"withdraw minimum for asset B",
		op.MinAmountB,
	)
}

func (op *LiquidityPoolWithdraw) encodeBody(enc *xdr.Encoder) error {
	enc.EncodeFixedOpaque(op.PoolID[:])
	enc.EncodeInt64(op.Amount)
	enc.EncodeInt64(op.MinAmountA)
	enc.EncodeInt64(op.MinAmountB)
	return nil
}

func (op *LiquidityPoolWithdraw) decodeBody(dec *xdr.Decoder) error {
	raw, err := dec.DecodeFixedOpaque(
		32,
		"liquidityPoolWithdraw.poolID",
	)
	if err != nil {
		return err
	}
	copy(op.PoolID[:], raw)
	if op.Amount, err = dec.DecodeInt64(
		"liquidityPoolWithdraw.amount",
	); err != nil {
		return err
	}
	if op.MinAmountA, err = dec.DecodeInt64(
		"liquidityPoolWithdraw.minAmountA",
	); err != nil {
		return err
	}
	op.MinAmountB, err = dec.DecodeInt64(
		"liquidityPoolWithdraw.minAmountB",
	)
	return err
}
