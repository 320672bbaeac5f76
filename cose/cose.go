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

// Package cose implements the COSE_Sign1 single signer structure of RFC 9052
// on top of the fixed buffer CBOR codec.
package cose

import (
	"errors"
	"fmt"
)

// TagSign1 is the CBOR tag for a COSE_Sign1 structure
const TagSign1 uint64 = 18

// Header labels
const (
	HeaderAlg int64 = 1
	HeaderKid int64 = 4
)

// Algorithm is a COSE algorithm identifier
type Algorithm int64

const (
	AlgES256 Algorithm = -7
	AlgEdDSA Algorithm = -8
)

func (a Algorithm) String() string {
	switch a {
	case AlgES256:
		return "ES256"
	case AlgEdDSA:
		return "EdDSA"
	default:
		return fmt.Sprintf("Algorithm(%d)", int64(a))
	}
}

var (
	ErrUnsupportedAlgorithm = errors.New("unsupported algorithm")
	ErrInvalidKey           = errors.New("invalid key")
	ErrInvalidSignature     = errors.New("invalid signature")
	ErrMalformed            = errors.New("malformed COSE_Sign1")
)
