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
	"strconv"
	"strings"
)

// Amounts are carried on the wire as signed 64-bit integers counting
// stroops, where one unit of an asset is 10^7 stroops. The decimal string
// forms accepted here allow at most 7 fractional digits so every value
// round-trips exactly.

const (
	// StroopsPerUnit is the number of stroops in one displayed asset unit
	StroopsPerUnit = 10_000_000
	// AmountDecimals is the maximum number of fractional decimal digits
	AmountDecimals = 7

	maxWholeUnits = 922_337_203_685 // floor(MaxInt64 / StroopsPerUnit)
)

var ErrInvalidAmount = errors.New("invalid amount")

// ParseAmount converts a non-negative decimal amount string to stroops
func ParseAmount(amount string) (int64, error) {
	if amount == "" {
		return 0, fmt.Errorf("%w: empty string", ErrInvalidAmount)
	}
	wholePart, fracPart, hasFrac := strings.Cut(amount, ".")
	if wholePart == "" {
		return 0, fmt.Errorf(
			"%w: missing whole part in %q",
			ErrInvalidAmount,
			amount,
		)
	}
	if hasFrac && fracPart == "" {
		return 0, fmt.Errorf(
			"%w: trailing decimal point in %q",
			ErrInvalidAmount,
			amount,
		)
	}
	if len(fracPart) > AmountDecimals {
		return 0, fmt.Errorf(
			"%w: more than %d decimal digits in %q",
			ErrInvalidAmount,
			AmountDecimals,
			amount,
		)
	}
	whole, err := strconv.ParseUint(wholePart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf(
			"%w: %q",
			ErrInvalidAmount,
			amount,
		)
	}
	// Right-pad the fractional digits out to stroop precision
	fracPadded := fracPart + strings.Repeat(
		"0",
		AmountDecimals-len(fracPart),
	)
	var frac uint64
	if fracPadded != "" {
		frac, err = strconv.ParseUint(fracPadded, 10, 64)
		if err != nil {
			return 0, fmt.Errorf(
				"%w: %q",
				ErrInvalidAmount,
				amount,
			)
		}
	}
	if whole > maxWholeUnits ||
		(whole == maxWholeUnits && frac > 4_775_807) {
		return 0, fmt.Errorf(
			"%w: %q exceeds the representable range",
			ErrInvalidAmount,
			amount,
		)
	}
	return int64(whole*StroopsPerUnit + frac), nil
}

// MustParseAmount is like ParseAmount but panics on error, for static
// inputs known to be valid
func MustParseAmount(amount string) int64 {
	stroops, err := ParseAmount(amount)
	if err != nil {
		panic(err)
	}
	return stroops
}

// FormatAmount converts stroops to the decimal string form with the full 7
// fractional digits
func FormatAmount(stroops int64) string {
	sign := ""
	if stroops < 0 {
		sign = "-"
		stroops = -stroops
	}
	return fmt.Sprintf(
		"%s%d.%07d",
		sign,
		stroops/StroopsPerUnit,
		stroops%StroopsPerUnit,
	)
}

// checkPositiveAmount is the shared validation for operation amount fields
func checkPositiveAmount(field string, stroops int64) error {
	if stroops <= 0 {
		return fmt.Errorf(
			"%w: %s must be positive, got %d stroops",
			ErrInvalidAmount,
			field,
			stroops,
		)
	}
	return nil
}

// checkNonNegativeAmount is the shared validation for limit-style fields
// where zero is meaningful
func checkNonNegativeAmount(field string, stroops int64) error {
	if stroops < 0 {
		return fmt.Errorf(
			"%w: %s must not be negative, got %d stroops",
			ErrInvalidAmount,
			field,
			stroops,
		)
	}
	return nil
}
