// Copyright 2026 Blink Labs Software
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

package cbor

import (
	"errors"
	"fmt"
)

var (
	// ErrEOF is returned when the input ends before an item is complete
	ErrEOF = errors.New("unexpected end of CBOR data")
	// ErrNotWellFormed is returned for reserved additional info values and other malformations
	ErrNotWellFormed = errors.New("CBOR data is not well-formed")
	// ErrUnsupportedEncoding is returned for indefinite-length items and anything else this codec does not handle
	ErrUnsupportedEncoding = errors.New("unsupported CBOR encoding")
	// ErrInvalidText is returned when a text string is not valid UTF-8
	ErrInvalidText = errors.New("invalid UTF-8 in CBOR text string")
	// ErrOutOfRange is returned when a value does not fit the requested type
	ErrOutOfRange = errors.New("value out of range")
	// ErrWrongType is returned when an item is not of the requested kind
	ErrWrongType = errors.New("wrong CBOR item type")
	// ErrBufferFull is returned when the encode buffer has no room for the next item
	ErrBufferFull = errors.New("encode buffer full")
	// ErrUnterminatedStructure is returned when encoded bytes are requested with an array or map still open
	ErrUnterminatedStructure = errors.New("unterminated array or map")
)

// DecodeError records the position in the input where decoding failed
type DecodeError struct {
	Offset int
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("cbor: %s at offset %d", e.Err, e.Offset)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func decodeError(offset int, err error) error {
	return &DecodeError{Offset: offset, Err: err}
}

func decodeErrorf(offset int, err error, format string, args ...any) error {
	return &DecodeError{
		Offset: offset,
		Err:    fmt.Errorf("%w: "+format, append([]any{err}, args...)...),
	}
}
