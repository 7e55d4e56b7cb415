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

package xdr

import (
	"errors"
	"fmt"
)

// Sentinel errors for classifying decode failures with errors.Is
var (
	ErrUnexpectedEOF  = errors.New("unexpected end of XDR data")
	ErrLengthExceeded = errors.New("length exceeds maximum")
	ErrBadPadding     = errors.New("non-zero padding bytes")
	ErrTrailingData   = errors.New("trailing bytes after decode")
)

// DecodeError wraps a lower-level failure with the field being decoded and
// the buffer offset where decoding stopped
type DecodeError struct {
	Field  string
	Offset int
	Err    error
}

func (e DecodeError) Error() string {
	return fmt.Sprintf(
		"decode %s at offset %d: %v",
		e.Field,
		e.Offset,
		e.Err,
	)
}

func (e DecodeError) Unwrap() error { return e.Err }

// UnknownDiscriminantError indicates a union discriminant that no known arm
// matches
type UnknownDiscriminantError struct {
	Union        string
	Discriminant int32
}

func (e UnknownDiscriminantError) Error() string {
	return fmt.Sprintf(
		"unknown %s discriminant: %d",
		e.Union,
		e.Discriminant,
	)
}
