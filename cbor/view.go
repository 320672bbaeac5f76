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

import "iter"

// Array is a lazy view over the members of a CBOR array. Members are decoded
// on access by walking from the first one, so Get is linear in the index.
type Array struct {
	src   []byte
	body  int
	count uint64
}

// Len returns the declared number of members
func (a Array) Len() int {
	return int(a.count)
}

// Get returns the member at index. The second return value is false if the
// index is out of range or the member cannot be decoded.
func (a Array) Get(index int) (Item, bool) {
	if index < 0 || uint64(index) >= a.count {
		return Item{}, false
	}
	pos, err := skipItems(a.src, a.body, uint64(index), &walkOptions, 0)
	if err != nil {
		return Item{}, false
	}
	it, err := parseItem(a.src, pos, &walkOptions, 0)
	if err != nil {
		return Item{}, false
	}
	return it, true
}

// All iterates over the members in order, stopping early at a member that
// cannot be decoded
func (a Array) All() iter.Seq2[int, Item] {
	return func(yield func(int, Item) bool) {
		d := a.Decoder()
		for i := 0; !d.Done(); i++ {
			it, err := d.Next()
			if err != nil || !yield(i, it) {
				return
			}
		}
	}
}

// Decoder returns a Decoder that yields the members in order
func (a Array) Decoder() *Decoder {
	return newScopedDecoder(a.src, a.body, a.count)
}

// EncodeCBOR writes the array with its members as they were encoded
func (a Array) EncodeCBOR(enc *Encoder) error {
	return enc.insertContainer(CborTypeArray, a.count, a.src[a.body:])
}

// Map is a lazy view over the key/value pairs of a CBOR map. Lookups walk the
// pairs in encoded order and the first matching key wins.
type Map struct {
	src   []byte
	body  int
	count uint64
}

// Len returns the declared number of pairs
func (m Map) Len() int {
	return int(m.count)
}

// find walks the pairs and returns the value of the first key accepted by match
func (m Map) find(match func(Item) bool) (Item, bool) {
	pos := m.body
	for i := uint64(0); i < m.count; i++ {
		key, err := parseItem(m.src, pos, &walkOptions, 0)
		if err != nil {
			return Item{}, false
		}
		val, err := parseItem(m.src, key.end, &walkOptions, 0)
		if err != nil {
			return Item{}, false
		}
		if match(key) {
			return val, true
		}
		pos = val.end
	}
	return Item{}, false
}

// Get returns the value for a key that equals the specified item. Only
// integer and text keys can match.
func (m Map) Get(key Item) (Item, bool) {
	switch key.kind {
	case KindUint, KindNint, KindText:
	default:
		return Item{}, false
	}
	return m.find(key.Equal)
}

// GetInt returns the value for an integer key
func (m Map) GetInt(key int64) (Item, bool) {
	return m.find(func(it Item) bool {
		return it.equalInt(key)
	})
}

// GetText returns the value for a text string key
func (m Map) GetText(key string) (Item, bool) {
	return m.find(func(it Item) bool {
		return it.equalText(key)
	})
}

// GetIntOrText returns the value of the first pair whose key is either the
// integer intKey or the text textKey. Labels in some protocols can take either form.
func (m Map) GetIntOrText(intKey int64, textKey string) (Item, bool) {
	return m.find(func(it Item) bool {
		return it.equalInt(intKey) || it.equalText(textKey)
	})
}

// All iterates over the pairs in encoded order, stopping early at a pair that
// cannot be decoded
func (m Map) All() iter.Seq2[Item, Item] {
	return func(yield func(Item, Item) bool) {
		d := m.Decoder()
		for !d.Done() {
			key, err := d.Next()
			if err != nil {
				return
			}
			val, err := d.Next()
			if err != nil || !yield(key, val) {
				return
			}
		}
	}
}

// Decoder returns a Decoder that yields keys and values alternately
func (m Map) Decoder() *Decoder {
	return newScopedDecoder(m.src, m.body, m.count*2)
}

// EncodeCBOR writes the map with its pairs as they were encoded
func (m Map) EncodeCBOR(enc *Encoder) error {
	return enc.insertContainer(CborTypeMap, m.count, m.src[m.body:])
}

// Decoder returns a Decoder that yields the tagged item
func (t Tag) Decoder() *Decoder {
	c := t.Content
	return newScopedDecoder(c.src, c.start, 1)
}

// EncodeCBOR writes the tag number followed by the tagged item
func (t Tag) EncodeCBOR(enc *Encoder) error {
	return enc.Tag(t.Number, func(enc *Encoder) error {
		return enc.InsertItem(t.Content)
	})
}
