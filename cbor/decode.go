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
	"math"
	"unicode/utf8"
)

// Decoder reads consecutive CBOR items from a borrowed byte slice. It never copies
// the input, so items it returns are only valid while the slice is unchanged.
type Decoder struct {
	data      []byte
	pos       int
	bounded   bool
	remaining uint64
	opts      decodeOptions
}

// NewDecoder returns a Decoder positioned at the start of data. Nothing is
// validated until items are requested.
func NewDecoder(data []byte, opts ...DecoderOptionFunc) *Decoder {
	d := &Decoder{
		data: data,
		opts: defaultDecodeOptions(),
	}
	for _, opt := range opts {
		opt(&d.opts)
	}
	return d
}

// newScopedDecoder returns a Decoder over a known number of already checked items
func newScopedDecoder(src []byte, pos int, count uint64) *Decoder {
	return &Decoder{
		data:      src,
		pos:       pos,
		bounded:   true,
		remaining: count,
		opts:      walkOptions,
	}
}

// Parse decodes data as exactly one CBOR item with nothing following it
func Parse(data []byte, opts ...DecoderOptionFunc) (Item, error) {
	d := NewDecoder(data, opts...)
	it, err := d.Next()
	if err != nil {
		return Item{}, err
	}
	if err := d.Finish(); err != nil {
		return Item{}, err
	}
	return it, nil
}

// Position returns the offset of the next unread byte
func (d *Decoder) Position() int {
	return d.pos
}

// Remaining returns the number of unread bytes
func (d *Decoder) Remaining() int {
	return len(d.data) - d.pos
}

// Done reports whether every item has been read
func (d *Decoder) Done() bool {
	if d.bounded {
		return d.remaining == 0
	}
	return d.pos >= len(d.data)
}

// Finish returns an error if any input is left unread
func (d *Decoder) Finish() error {
	if !d.Done() {
		return decodeErrorf(d.pos, ErrNotWellFormed, "trailing data after last item")
	}
	return nil
}

// Peek decodes the next item without moving past it
func (d *Decoder) Peek() (Item, error) {
	if d.bounded && d.remaining == 0 {
		return Item{}, decodeErrorf(d.pos, ErrEOF, "no items left in container")
	}
	return parseItem(d.data, d.pos, &d.opts, 0)
}

// Next decodes the next item and moves past it, including all nested content.
// On error the position is left unchanged.
func (d *Decoder) Next() (Item, error) {
	it, err := d.Peek()
	if err != nil {
		return Item{}, err
	}
	d.advance(it)
	return it, nil
}

// Skip moves past the next item
func (d *Decoder) Skip() error {
	_, err := d.Next()
	return err
}

func (d *Decoder) advance(it Item) {
	d.pos = it.end
	if d.bounded {
		d.remaining--
	}
}

// parseItem decodes the item at pos. Arrays, maps and tags are checked
// all the way down so that the returned item covers its exact byte range.
func parseItem(
	data []byte,
	pos int,
	opts *decodeOptions,
	depth int,
) (Item, error) {
	major, info, arg, body, err := readHeader(data, pos)
	if err != nil {
		return Item{}, err
	}
	it := Item{
		src:   data,
		start: pos,
		body:  body,
		end:   body,
		arg:   arg,
	}
	switch major {
	case CborTypeUint:
		it.kind = KindUint
	case CborTypeNint:
		it.kind = KindNint
	case CborTypeByteString, CborTypeTextString:
		if arg > uint64(len(data)-body) {
			return Item{}, decodeErrorf(
				body,
				ErrEOF,
				"string of length %d exceeds remaining %d bytes",
				arg,
				len(data)-body,
			)
		}
		it.end = body + int(arg)
		it.kind = KindBytes
		if major == CborTypeTextString {
			if !utf8.Valid(data[body:it.end]) {
				return Item{}, decodeError(pos, ErrInvalidText)
			}
			it.kind = KindText
		}
	case CborTypeArray:
		// Every member takes at least one byte
		if arg > uint64(len(data)-body) {
			return Item{}, decodeErrorf(
				body,
				ErrEOF,
				"array of %d items exceeds remaining %d bytes",
				arg,
				len(data)-body,
			)
		}
		if arg > opts.maxArrayElements {
			return Item{}, decodeErrorf(
				pos,
				ErrUnsupportedEncoding,
				"array count %d exceeds limit %d",
				arg,
				opts.maxArrayElements,
			)
		}
		if err := checkDepth(pos, depth, opts); err != nil {
			return Item{}, err
		}
		end, err := skipItems(data, body, arg, opts, depth+1)
		if err != nil {
			return Item{}, err
		}
		it.end = end
		it.kind = KindArray
	case CborTypeMap:
		// Every key and value takes at least one byte
		if arg > uint64(len(data)-body)/2 {
			return Item{}, decodeErrorf(
				body,
				ErrEOF,
				"map of %d pairs exceeds remaining %d bytes",
				arg,
				len(data)-body,
			)
		}
		if arg > opts.maxMapPairs {
			return Item{}, decodeErrorf(
				pos,
				ErrUnsupportedEncoding,
				"map count %d exceeds limit %d",
				arg,
				opts.maxMapPairs,
			)
		}
		if err := checkDepth(pos, depth, opts); err != nil {
			return Item{}, err
		}
		end, err := skipItems(data, body, arg*2, opts, depth+1)
		if err != nil {
			return Item{}, err
		}
		it.end = end
		it.kind = KindMap
	case CborTypeTag:
		if err := checkDepth(pos, depth, opts); err != nil {
			return Item{}, err
		}
		end, err := skipItems(data, body, 1, opts, depth+1)
		if err != nil {
			return Item{}, err
		}
		it.end = end
		it.kind = KindTag
	default:
		switch {
		case info < simpleFalse:
			it.kind = KindSimple
		case info == simpleFalse, info == simpleTrue:
			it.kind = KindBool
			it.arg = uint64(info - simpleFalse)
		case info == simpleNull:
			it.kind = KindNull
		case info == simpleUndefined:
			it.kind = KindUndefined
		case info == additionalInfoUint8:
			if arg < uint64(simpleMinExtended) {
				return Item{}, decodeErrorf(
					pos,
					ErrNotWellFormed,
					"simple value %d in two byte form",
					arg,
				)
			}
			it.kind = KindSimple
		case info == simpleFloat16:
			it.kind = KindFloat16
		case info == simpleFloat32:
			it.kind = KindFloat32
		default:
			it.kind = KindFloat64
		}
		if it.kind.IsFloat() {
			it.arg = math.Float64bits(decodeFloat(info, arg))
		}
	}
	return it, nil
}

func checkDepth(pos int, depth int, opts *decodeOptions) error {
	if depth >= opts.maxNestedLevels {
		return decodeErrorf(
			pos,
			ErrUnsupportedEncoding,
			"exceeded max nested level %d",
			opts.maxNestedLevels,
		)
	}
	return nil
}

// skipItems moves past count consecutive items starting at pos and returns the
// offset just after the last one
func skipItems(
	data []byte,
	pos int,
	count uint64,
	opts *decodeOptions,
	depth int,
) (int, error) {
	// Every item takes at least one byte, which bounds the loop below by the input size
	if count > uint64(len(data)-pos) {
		return pos, decodeErrorf(
			pos,
			ErrEOF,
			"%d items exceed remaining %d bytes",
			count,
			len(data)-pos,
		)
	}
	for ; count > 0; count-- {
		it, err := parseItem(data, pos, opts, depth)
		if err != nil {
			return pos, err
		}
		pos = it.end
	}
	return pos, nil
}
