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
	"bytes"
	"fmt"
	"math"
)

// Kind identifies the variant held by an Item
type Kind uint8

const (
	KindInvalid Kind = iota
	KindUint
	KindNint
	KindBytes
	KindText
	KindArray
	KindMap
	KindTag
	KindBool
	KindNull
	KindUndefined
	KindFloat16
	KindFloat32
	KindFloat64
	KindSimple
)

var kindNames = [...]string{
	KindInvalid:   "invalid",
	KindUint:      "unsigned integer",
	KindNint:      "negative integer",
	KindBytes:     "byte string",
	KindText:      "text string",
	KindArray:     "array",
	KindMap:       "map",
	KindTag:       "tag",
	KindBool:      "bool",
	KindNull:      "null",
	KindUndefined: "undefined",
	KindFloat16:   "float16",
	KindFloat32:   "float32",
	KindFloat64:   "float64",
	KindSimple:    "simple value",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// IsFloat reports whether the kind is one of the floating point widths
func (k Kind) IsFloat() bool {
	return k == KindFloat16 || k == KindFloat32 || k == KindFloat64
}

// Item is a single decoded CBOR data item. It refers to the bytes it was decoded
// from and must not be used after that buffer is modified.
//
// The meaning of arg depends on the kind: the integer value, the negative integer
// argument, the string length, the array/map count, the tag number, the simple value
// or the float64 bits of a float.
type Item struct {
	src   []byte
	start int
	body  int
	end   int
	arg   uint64
	kind  Kind
}

// Kind returns the variant of the item
func (it Item) Kind() Kind {
	return it.kind
}

// Raw returns the encoded bytes of the whole item, header included.
// The returned slice aliases the source buffer.
func (it Item) Raw() []byte {
	if it.kind == KindInvalid {
		return nil
	}
	return it.src[it.start:it.end:it.end]
}

// Offset returns the position of the item in the source buffer
func (it Item) Offset() int {
	return it.start
}

// Len returns the encoded size of the item
func (it Item) Len() int {
	return it.end - it.start
}

func (it Item) wrongType(want string) error {
	return decodeErrorf(
		it.start,
		ErrWrongType,
		"expected %s, got %s",
		want,
		it.kind,
	)
}

// Uint returns the value of an unsigned integer item
func (it Item) Uint() (uint64, error) {
	if it.kind != KindUint {
		return 0, it.wrongType(KindUint.String())
	}
	return it.arg, nil
}

// Int returns the value of an unsigned or negative integer item as an int64
func (it Item) Int() (int64, error) {
	switch it.kind {
	case KindUint:
		if it.arg > math.MaxInt64 {
			return 0, decodeErrorf(it.start, ErrOutOfRange, "%d does not fit in int64", it.arg)
		}
		return int64(it.arg), nil
	case KindNint:
		if it.arg > math.MaxInt64 {
			return 0, decodeErrorf(it.start, ErrOutOfRange, "-1-%d does not fit in int64", it.arg)
		}
		return -1 - int64(it.arg), nil
	default:
		return 0, it.wrongType("integer")
	}
}

// NegativeArg returns the raw argument of a negative integer item. The value of
// the item is -1 minus the argument, which covers the range down to -2^64.
func (it Item) NegativeArg() (uint64, error) {
	if it.kind != KindNint {
		return 0, it.wrongType(KindNint.String())
	}
	return it.arg, nil
}

// Uint8 and the other fixed-width accessors convert an integer item like
// IntegerAs, failing with ErrOutOfRange when the value does not fit
func (it Item) Uint8() (uint8, error)   { return IntegerAs[uint8](it) }
func (it Item) Uint16() (uint16, error) { return IntegerAs[uint16](it) }
func (it Item) Uint32() (uint32, error) { return IntegerAs[uint32](it) }
func (it Item) Int8() (int8, error)     { return IntegerAs[int8](it) }
func (it Item) Int16() (int16, error)   { return IntegerAs[int16](it) }
func (it Item) Int32() (int32, error)   { return IntegerAs[int32](it) }

// Integer is the set of Go integer types an item can be converted to
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// IntegerAs converts an integer item to T, failing with ErrOutOfRange when the
// value is not representable in T
func IntegerAs[T Integer](it Item) (T, error) {
	var zero T
	switch it.kind {
	case KindUint:
		ret := T(it.arg)
		if ret < 0 || uint64(ret) != it.arg {
			return zero, decodeErrorf(it.start, ErrOutOfRange, "%d does not fit in %T", it.arg, zero)
		}
		return ret, nil
	case KindNint:
		// Unsigned targets have a zero minimum
		if zero-1 > 0 || it.arg > math.MaxInt64 {
			return zero, decodeErrorf(it.start, ErrOutOfRange, "-1-%d does not fit in %T", it.arg, zero)
		}
		val := -1 - int64(it.arg)
		ret := T(val)
		if int64(ret) != val {
			return zero, decodeErrorf(it.start, ErrOutOfRange, "%d does not fit in %T", val, zero)
		}
		return ret, nil
	default:
		return zero, it.wrongType("integer")
	}
}

// Bytes returns the content of a byte string item without copying
func (it Item) Bytes() ([]byte, error) {
	if it.kind != KindBytes {
		return nil, it.wrongType(KindBytes.String())
	}
	return it.src[it.body:it.end:it.end], nil
}

// TextBytes returns the UTF-8 content of a text string item without copying
func (it Item) TextBytes() ([]byte, error) {
	if it.kind != KindText {
		return nil, it.wrongType(KindText.String())
	}
	return it.src[it.body:it.end:it.end], nil
}

// Text returns the content of a text string item as a Go string
func (it Item) Text() (string, error) {
	b, err := it.TextBytes()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Bool returns the value of a true/false item
func (it Item) Bool() (bool, error) {
	if it.kind != KindBool {
		return false, it.wrongType(KindBool.String())
	}
	return it.arg == 1, nil
}

func (it Item) IsNull() bool {
	return it.kind == KindNull
}

func (it Item) IsUndefined() bool {
	return it.kind == KindUndefined
}

// Float returns the value of a floating point item of any width
func (it Item) Float() (float64, error) {
	if !it.kind.IsFloat() {
		return 0, it.wrongType("float")
	}
	return math.Float64frombits(it.arg), nil
}

// Simple returns the value of an unassigned simple value item
func (it Item) Simple() (uint8, error) {
	if it.kind != KindSimple {
		return 0, it.wrongType(KindSimple.String())
	}
	return uint8(it.arg), nil
}

// Array returns a view over the members of an array item
func (it Item) Array() (Array, error) {
	if it.kind != KindArray {
		return Array{}, it.wrongType(KindArray.String())
	}
	return Array{
		src:   it.src[:it.end],
		body:  it.body,
		count: it.arg,
	}, nil
}

// Map returns a view over the pairs of a map item
func (it Item) Map() (Map, error) {
	if it.kind != KindMap {
		return Map{}, it.wrongType(KindMap.String())
	}
	return Map{
		src:   it.src[:it.end],
		body:  it.body,
		count: it.arg,
	}, nil
}

// Tag returns the tag number and tagged item of a tag item
func (it Item) Tag() (Tag, error) {
	if it.kind != KindTag {
		return Tag{}, it.wrongType(KindTag.String())
	}
	content, err := parseItem(it.src[:it.end], it.body, &walkOptions, 0)
	if err != nil {
		return Tag{}, err
	}
	return Tag{Number: it.arg, Content: content}, nil
}

// TagNumber returns the number of a tag item
func (it Item) TagNumber() (uint64, error) {
	if it.kind != KindTag {
		return 0, it.wrongType(KindTag.String())
	}
	return it.arg, nil
}

// Equal reports whether two items hold the same value. Integers, strings,
// simple values and floats compare by value; arrays, maps and tags compare
// by their encoded bytes.
func (it Item) Equal(other Item) bool {
	if it.kind != other.kind {
		return false
	}
	switch it.kind {
	case KindInvalid:
		return true
	case KindBytes, KindText, KindArray, KindMap, KindTag:
		if it.arg != other.arg {
			return false
		}
		return bytes.Equal(it.src[it.body:it.end], other.src[other.body:other.end])
	default:
		return it.arg == other.arg
	}
}

// equalInt reports whether the item is an integer with the specified value
func (it Item) equalInt(val int64) bool {
	switch it.kind {
	case KindUint:
		return val >= 0 && it.arg == uint64(val)
	case KindNint:
		return val < 0 && it.arg == uint64(-1-val)
	default:
		return false
	}
}

// equalText reports whether the item is a text string with the specified value
func (it Item) equalText(val string) bool {
	return it.kind == KindText && string(it.src[it.body:it.end]) == val
}

func (it Item) String() string {
	switch it.kind {
	case KindUint:
		return fmt.Sprintf("%d", it.arg)
	case KindNint:
		if it.arg == math.MaxUint64 {
			return "-18446744073709551616"
		}
		return fmt.Sprintf("-%d", it.arg+1)
	case KindBytes:
		return fmt.Sprintf("h'%x'", it.src[it.body:it.end])
	case KindText:
		return fmt.Sprintf("%q", it.src[it.body:it.end])
	case KindArray:
		return fmt.Sprintf("array(%d)", it.arg)
	case KindMap:
		return fmt.Sprintf("map(%d)", it.arg)
	case KindTag:
		return fmt.Sprintf("tag(%d)", it.arg)
	case KindBool:
		return fmt.Sprintf("%t", it.arg == 1)
	case KindNull:
		return "null"
	case KindUndefined:
		return "undefined"
	case KindFloat16, KindFloat32, KindFloat64:
		return fmt.Sprintf("%v", math.Float64frombits(it.arg))
	case KindSimple:
		return fmt.Sprintf("simple(%d)", it.arg)
	default:
		return "invalid"
	}
}

// Tag is a decoded semantic tag and the item it wraps
type Tag struct {
	Number  uint64
	Content Item
}
