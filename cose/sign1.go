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

package cose

import (
	"fmt"

	"github.com/blinklabs-io/minicbor/cbor"
)

const sigContextSign1 = "Signature1"

// Sign1 is a COSE_Sign1 message. Slices returned by ParseSign1 point into the
// parsed buffer.
type Sign1 struct {
	// Protected holds the encoded protected header map. Sign fills it in.
	Protected []byte
	Alg       Algorithm
	Kid       []byte
	Payload   []byte
	Signature []byte
	// ExternalAAD is authenticated by the signature but never transmitted
	ExternalAAD []byte
}

// encodedSize is an upper bound for the encoded structure, including the
// header reservations of the encoder
func (s *Sign1) encodedSize() int {
	return 64 + len(s.Protected) + len(s.Kid) + len(s.Payload) + len(s.Signature)
}

// encodeProtected builds the protected header map {1: alg}
func encodeProtected(alg Algorithm) ([]byte, error) {
	enc := cbor.NewEncoder(make([]byte, 16))
	if err := enc.Map(func(enc *cbor.Encoder) error {
		if err := enc.InsertInt(HeaderAlg); err != nil {
			return err
		}
		return enc.InsertInt(int64(alg))
	}); err != nil {
		return nil, err
	}
	return enc.Encoded()
}

// SigStructure builds the Sig_structure that is signed and verified:
// ["Signature1", protected, external_aad, payload]
func (s *Sign1) SigStructure() ([]byte, error) {
	size := 64 + len(s.Protected) + len(s.ExternalAAD) + len(s.Payload)
	enc := cbor.NewEncoder(make([]byte, size))
	err := enc.Array(func(enc *cbor.Encoder) error {
		if err := enc.InsertText(sigContextSign1); err != nil {
			return err
		}
		for _, b := range [][]byte{s.Protected, s.ExternalAAD} {
			if err := enc.InsertBytes(b); err != nil {
				return err
			}
		}
		return enc.InsertBytes(s.Payload)
	})
	if err != nil {
		return nil, err
	}
	return enc.Encoded()
}

// Sign fills in the protected header and signature using signer
func (s *Sign1) Sign(signer Signer) error {
	protected, err := encodeProtected(signer.Algorithm())
	if err != nil {
		return err
	}
	s.Alg = signer.Algorithm()
	s.Protected = protected
	tbs, err := s.SigStructure()
	if err != nil {
		return err
	}
	sig, err := signer.Sign(tbs)
	if err != nil {
		return fmt.Errorf("sign: %w", err)
	}
	s.Signature = sig
	return nil
}

// Verify checks the signature with v
func (s *Sign1) Verify(v *Verifier) error {
	tbs, err := s.SigStructure()
	if err != nil {
		return err
	}
	return v.verify(s.Alg, s.Kid, tbs, s.Signature)
}

// EncodeCBOR writes the tagged COSE_Sign1 structure
func (s *Sign1) EncodeCBOR(enc *cbor.Encoder) error {
	return enc.Tag(TagSign1, func(enc *cbor.Encoder) error {
		return enc.Array(func(enc *cbor.Encoder) error {
			if err := enc.InsertBytes(s.Protected); err != nil {
				return err
			}
			if err := enc.Map(func(enc *cbor.Encoder) error {
				if s.Kid == nil {
					return nil
				}
				if err := enc.InsertInt(HeaderKid); err != nil {
					return err
				}
				return enc.InsertBytes(s.Kid)
			}); err != nil {
				return err
			}
			if err := enc.InsertBytes(s.Payload); err != nil {
				return err
			}
			return enc.InsertBytes(s.Signature)
		})
	})
}

// MarshalCBOR returns the encoded tagged COSE_Sign1 structure
func (s *Sign1) MarshalCBOR() ([]byte, error) {
	enc := cbor.NewEncoder(make([]byte, s.encodedSize()))
	if err := s.EncodeCBOR(enc); err != nil {
		return nil, err
	}
	return enc.Encoded()
}

// ParseSign1 decodes a COSE_Sign1 structure, either tagged with 18 or bare
func ParseSign1(data []byte) (*Sign1, error) {
	it, err := cbor.Parse(data)
	if err != nil {
		return nil, err
	}
	if it.Kind() == cbor.KindTag {
		tag, err := it.Tag()
		if err != nil {
			return nil, err
		}
		if tag.Number != TagSign1 {
			return nil, fmt.Errorf("%w: unexpected tag %d", ErrMalformed, tag.Number)
		}
		it = tag.Content
	}
	arr, err := it.Array()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if arr.Len() != 4 {
		return nil, fmt.Errorf("%w: expected 4 members, got %d", ErrMalformed, arr.Len())
	}
	s := &Sign1{}
	var unprotected cbor.Map
	d := arr.Decoder()
	if err := d.DecodeWith(cbor.IsBytes, func(it cbor.Item) error {
		s.Protected, _ = it.Bytes()
		return nil
	}); err != nil {
		return nil, fmt.Errorf("%w: protected header: %w", ErrMalformed, err)
	}
	if err := d.DecodeWith(cbor.IsMap, func(it cbor.Item) error {
		unprotected, _ = it.Map()
		return nil
	}); err != nil {
		return nil, fmt.Errorf("%w: unprotected header: %w", ErrMalformed, err)
	}
	if err := d.DecodeWith(cbor.IsBytes, func(it cbor.Item) error {
		s.Payload, _ = it.Bytes()
		return nil
	}); err != nil {
		return nil, fmt.Errorf("%w: payload: %w", ErrMalformed, err)
	}
	if err := d.DecodeWith(cbor.IsBytes, func(it cbor.Item) error {
		s.Signature, _ = it.Bytes()
		return nil
	}); err != nil {
		return nil, fmt.Errorf("%w: signature: %w", ErrMalformed, err)
	}
	if err := s.readHeaders(unprotected); err != nil {
		return nil, err
	}
	return s, nil
}

// readHeaders takes the algorithm from the protected header, falling back to
// the unprotected one, and the key ID from either
func (s *Sign1) readHeaders(unprotected cbor.Map) error {
	var protected cbor.Map
	if len(s.Protected) > 0 {
		it, err := cbor.Parse(s.Protected)
		if err != nil {
			return fmt.Errorf("%w: protected header: %w", ErrMalformed, err)
		}
		if protected, err = it.Map(); err != nil {
			return fmt.Errorf("%w: protected header: %w", ErrMalformed, err)
		}
	}
	for _, m := range []cbor.Map{protected, unprotected} {
		if it, ok := m.GetInt(HeaderAlg); ok && s.Alg == 0 {
			alg, err := it.Int()
			if err != nil {
				return fmt.Errorf("%w: algorithm: %w", ErrMalformed, err)
			}
			s.Alg = Algorithm(alg)
		}
		if it, ok := m.GetInt(HeaderKid); ok && s.Kid == nil {
			kid, err := it.Bytes()
			if err != nil {
				return fmt.Errorf("%w: key ID: %w", ErrMalformed, err)
			}
			s.Kid = kid
		}
	}
	return nil
}
