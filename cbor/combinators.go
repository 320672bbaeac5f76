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
	"strings"
)

// KindSet is a set of item kinds used to filter what a decoder accepts
type KindSet uint32

// KindsOf returns a set containing the specified kinds
func KindsOf(kinds ...Kind) KindSet {
	var s KindSet
	for _, k := range kinds {
		s |= 1 << k
	}
	return s
}

// Contains reports whether k is in the set
func (s KindSet) Contains(k Kind) bool {
	return s&(1<<k) != 0
}

// Check is a Predicate accepting items whose kind is in the set
func (s KindSet) Check(it Item) error {
	if s.Contains(it.kind) {
		return nil
	}
	return it.wrongType(s.String())
}

func (s KindSet) String() string {
	var names []string
	for k := KindUint; k <= KindSimple; k++ {
		if s.Contains(k) {
			names = append(names, k.String())
		}
	}
	return strings.Join(names, " or ")
}

// Predicate decides whether an item is acceptable, returning an error
// describing the mismatch if not
type Predicate func(Item) error

var (
	IsAny       Predicate = func(Item) error { return nil }
	IsUint      Predicate = KindsOf(KindUint).Check
	IsInt       Predicate = KindsOf(KindUint, KindNint).Check
	IsBytes     Predicate = KindsOf(KindBytes).Check
	IsText      Predicate = KindsOf(KindText).Check
	IsArray     Predicate = KindsOf(KindArray).Check
	IsMap       Predicate = KindsOf(KindMap).Check
	IsBool      Predicate = KindsOf(KindBool).Check
	IsNull      Predicate = KindsOf(KindNull).Check
	IsUndefined Predicate = KindsOf(KindUndefined).Check
	IsFloat     Predicate = KindsOf(KindFloat16, KindFloat32, KindFloat64).Check
	IsSimple    Predicate = KindsOf(KindSimple).Check
)

// IsTag accepts tag items with the specified number
func IsTag(number uint64) Predicate {
	return func(it Item) error {
		n, err := it.TagNumber()
		if err != nil {
			return err
		}
		if n != number {
			return decodeErrorf(it.start, ErrWrongType, "expected tag %d, got tag %d", number, n)
		}
		return nil
	}
}

// OneOf accepts items accepted by any of the predicates. The error from the
// first predicate is returned when none match.
func OneOf(preds ...Predicate) Predicate {
	return func(it Item) error {
		var firstErr error
		for _, pred := range preds {
			err := pred(it)
			if err == nil {
				return nil
			}
			if firstErr == nil {
				firstErr = err
			}
		}
		if firstErr == nil {
			return it.wrongType("nothing")
		}
		return firstErr
	}
}

// DecodeWith decodes the next item, checks it with pred and passes it to fn.
// A nil fn just consumes the item. If the item is rejected the decoder does not move.
func (d *Decoder) DecodeWith(pred Predicate, fn func(Item) error) error {
	it, err := d.Peek()
	if err != nil {
		return err
	}
	if err := pred(it); err != nil {
		return err
	}
	d.advance(it)
	if fn == nil {
		return nil
	}
	return fn(it)
}

// Optional behaves like DecodeWith when the next item is accepted by pred.
// When there are no more items or pred rejects the next item, it returns false
// without moving. Malformed input is still reported as an error.
func (d *Decoder) Optional(pred Predicate, fn func(Item) error) (bool, error) {
	if d.Done() {
		return false, nil
	}
	it, err := d.Peek()
	if err != nil {
		return false, err
	}
	if pred(it) != nil {
		return false, nil
	}
	d.advance(it)
	if fn == nil {
		return true, nil
	}
	return true, fn(it)
}

// Ignore consumes the next item if pred accepts it
func (d *Decoder) Ignore(pred Predicate) error {
	return d.DecodeWith(pred, nil)
}

// Cond runs DecodeWith only when cond is true
func (d *Decoder) Cond(cond bool, pred Predicate, fn func(Item) error) error {
	if !cond {
		return nil
	}
	return d.DecodeWith(pred, fn)
}

// Many decodes consecutive items accepted by pred, passing each to fn along with
// its position in the run. It stops at the first rejected item, at the end of
// input or after maxCount items when maxCount is not negative. Fewer than minCount accepted
// items is an error.
func (d *Decoder) Many(
	minCount int,
	maxCount int,
	pred Predicate,
	fn func(int, Item) error,
) (int, error) {
	count := 0
	for maxCount < 0 || count < maxCount {
		idx := count
		ok, err := d.Optional(pred, func(it Item) error {
			if fn == nil {
				return nil
			}
			return fn(idx, it)
		})
		if err != nil {
			return count, err
		}
		if !ok {
			break
		}
		count++
	}
	if count < minCount {
		return count, decodeErrorf(
			d.pos,
			ErrWrongType,
			"expected at least %d matching items, found %d",
			minCount,
			count,
		)
	}
	return count, nil
}

// DecodeArray decodes the next item as an array and passes fn a decoder over
// its members. Members fn leaves unread are skipped.
func (d *Decoder) DecodeArray(fn func(*Decoder) error) error {
	return d.DecodeWith(IsArray, func(it Item) error {
		arr, err := it.Array()
		if err != nil {
			return err
		}
		return fn(arr.Decoder())
	})
}

// DecodeMap decodes the next item as a map and passes fn a decoder that yields
// keys and values alternately. Pairs fn leaves unread are skipped.
func (d *Decoder) DecodeMap(fn func(*Decoder) error) error {
	return d.DecodeWith(IsMap, func(it Item) error {
		m, err := it.Map()
		if err != nil {
			return err
		}
		return fn(m.Decoder())
	})
}
