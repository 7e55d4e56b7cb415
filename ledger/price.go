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
	"math/big"

	"github.com/blinklabs-io/gostellar/xdr"
)

var ErrInvalidPrice = errors.New("invalid price")

// Price is an exchange rate expressed as the ratio N/D, as used by the
// offer operations
type Price struct {
	N int32
	D int32
}

// NewPrice validates a ratio with positive numerator and denominator
func NewPrice(n int32, d int32) (Price, error) {
	if n <= 0 || d <= 0 {
		return Price{}, fmt.Errorf(
			"%w: %d/%d",
			ErrInvalidPrice,
			n,
			d,
		)
	}
	return Price{N: n, D: d}, nil
}

// PriceFromString converts a positive decimal price string to the best
// rational approximation whose numerator and denominator both fit in a
// signed 32-bit integer, using continued fractions
func PriceFromString(price string) (Price, error) {
	rat, ok := new(big.Rat).SetString(price)
	if !ok || rat.Sign() <= 0 {
		return Price{}, fmt.Errorf("%w: %q", ErrInvalidPrice, price)
	}
	limit := big.NewInt(math.MaxInt32)

	// Continued-fraction expansion: track the two most recent convergents
	// until a term would overflow int32
	num := new(big.Int).Set(rat.Num())
	den := new(big.Int).Set(rat.Denom())
	n0, n1 := big.NewInt(0), big.NewInt(1)
	d0, d1 := big.NewInt(1), big.NewInt(0)
	for den.Sign() != 0 {
		whole, rem := new(big.Int).QuoRem(
			num,
			den,
			new(big.Int),
		)
		n2 := new(big.Int).Add(
			new(big.Int).Mul(whole, n1),
			n0,
		)
		d2 := new(big.Int).Add(
			new(big.Int).Mul(whole, d1),
			d0,
		)
		if n2.Cmp(limit) > 0 || d2.Cmp(limit) > 0 {
			break
		}
		n0, n1 = n1, n2
		d0, d1 = d1, d2
		num, den = den, rem
	}
	if n1.Sign() == 0 || d1.Sign() == 0 {
		return Price{}, fmt.Errorf(
			"%w: %q cannot be approximated",
			ErrInvalidPrice,
			price,
		)
	}
	return Price{
		N: int32(n1.Int64()),
		D: int32(d1.Int64()),
	}, nil
}

// String returns the decimal form of the ratio
func (p Price) String() string {
	return new(big.Rat).SetFrac64(
		int64(p.N),
		int64(p.D),
	).FloatString(AmountDecimals)
}

func (p Price) encodeXDR(enc *xdr.Encoder) error {
	enc.EncodeInt32(p.N)
	enc.EncodeInt32(p.D)
	return nil
}

func decodePrice(dec *xdr.Decoder) (Price, error) {
	n, err := dec.DecodeInt32("price.n")
	if err != nil {
		return Price{}, err
	}
	d, err := dec.DecodeInt32("price.d")
	if err != nil {
		return Price{}, err
	}
	return Price{N: n, D: d}, nil
}

func (p Price) validate() error {
	_, err := NewPrice(p.N, p.D)
	return err
}
