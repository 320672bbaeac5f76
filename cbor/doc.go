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

// Package cbor implements a CBOR (RFC 8949) encoder and decoder that work on
// caller-owned byte slices without copying.
//
// # Decoding
//
// A Decoder reads items from a borrowed slice. Strings are returned as
// sub-slices of the input and arrays and maps as lazy views:
//
//	d := cbor.NewDecoder(data)
//	item, err := d.Next()
//	if err != nil {
//	    return err
//	}
//	m, err := item.Map()
//	if err != nil {
//	    return err
//	}
//	if v, ok := m.GetInt(258); ok {
//	    n, err := v.Uint()
//	    ...
//	}
//
// Every item returned by Next has been checked all the way down, so views over
// it do not fail later. Items reference the input and must not outlive it.
//
// # Encoding
//
// An Encoder writes into a fixed buffer. Nested arrays and maps are written with
// callbacks and their counts are filled in when the callback returns:
//
//	buf := make([]byte, 256)
//	enc := cbor.NewEncoder(buf)
//	_ = enc.Map(func(enc *cbor.Encoder) error {
//	    _ = enc.InsertKeyValue(1, "Hello")
//	    return enc.InsertKeyValue(2, "World")
//	})
//	out, err := enc.Encoded()
//
// Integers and floats always use the shortest encoding that preserves the value.
//
// # Limitations
//
//  1. Indefinite-length items are rejected with ErrUnsupportedEncoding
//  2. Map keys are neither sorted nor checked for duplicates; lookups return the first match
//  3. Only tags 0 and 1 are interpreted, by the timetag package
package cbor
