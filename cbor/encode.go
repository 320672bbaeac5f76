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
	"fmt"
	"sync"

	_cbor "github.com/fxamacker/cbor/v2"
)

// pendingHeader tracks an array, map or tag whose contents are still being written
type pendingHeader struct {
	offset   int
	reserved int
	major    uint8
	count    uint64
}

// Encoder writes CBOR items into a fixed buffer supplied by the caller. Arrays and
// maps get a placeholder header when opened that is rewritten with the final item
// count when they are closed.
//
// The first error is remembered and returned by every later call, so a sequence of
// inserts may be checked once through Encoded.
type Encoder struct {
	buf      []byte
	pos      int
	stack    []pendingHeader
	stackBuf [8]pendingHeader
	err      error
}

// Encodable is implemented by types that write themselves as a single item
type Encodable interface {
	EncodeCBOR(*Encoder) error
}

// NewEncoder returns an Encoder writing into the full capacity of buf
func NewEncoder(buf []byte) *Encoder {
	e := &Encoder{
		buf: buf[:cap(buf)],
	}
	e.stack = e.stackBuf[:0]
	return e
}

// Reset discards everything written so far
func (e *Encoder) Reset() {
	e.pos = 0
	e.stack = e.stack[:0]
	e.err = nil
}

// Len returns the number of bytes written
func (e *Encoder) Len() int {
	return e.pos
}

// Available returns the number of unused bytes in the buffer
func (e *Encoder) Available() int {
	return len(e.buf) - e.pos
}

// Err returns the first error encountered
func (e *Encoder) Err() error {
	return e.err
}

// Encoded returns the bytes written. It fails if an earlier insert failed or if an
// array or map is still open.
func (e *Encoder) Encoded() ([]byte, error) {
	if e.err != nil {
		return nil, e.err
	}
	if len(e.stack) > 0 {
		return nil, fmt.Errorf(
			"%w: %d still open",
			ErrUnterminatedStructure,
			len(e.stack),
		)
	}
	return e.buf[:e.pos], nil
}

func (e *Encoder) fail(err error) error {
	if e.err == nil {
		e.err = err
	}
	return e.err
}

func (e *Encoder) reserve(size int) error {
	if e.err != nil {
		return e.err
	}
	if len(e.buf)-e.pos < size {
		e.reclaim(size)
	}
	if len(e.buf)-e.pos < size {
		return e.fail(
			fmt.Errorf(
				"%w: need %d bytes, have %d",
				ErrBufferFull,
				size,
				len(e.buf)-e.pos,
			),
		)
	}
	return nil
}

// reclaim shrinks the placeholders of open structures to a single byte,
// innermost first, until size bytes are free. A count that outgrows the byte
// is handled by close moving the contents back up.
func (e *Encoder) reclaim(size int) {
	for i := len(e.stack) - 1; i >= 0 && len(e.buf)-e.pos < size; i-- {
		h := &e.stack[i]
		if h.reserved <= 1 {
			continue
		}
		shift := h.reserved - 1
		copy(e.buf[h.offset+1:], e.buf[h.offset+h.reserved:e.pos])
		e.pos -= shift
		h.reserved = 1
		for j := i + 1; j < len(e.stack); j++ {
			e.stack[j].offset -= shift
		}
	}
}

// itemAdded counts a completed item against the innermost open structure
func (e *Encoder) itemAdded() {
	if len(e.stack) > 0 {
		e.stack[len(e.stack)-1].count++
	}
}

func (e *Encoder) writeHead(major uint8, arg uint64) error {
	if err := e.reserve(HeaderSize(arg)); err != nil {
		return err
	}
	e.pos += putHeader(e.buf[e.pos:], major, arg)
	e.itemAdded()
	return nil
}

// InsertUint writes an unsigned integer in its shortest form
func (e *Encoder) InsertUint(v uint64) error {
	return e.writeHead(CborTypeUint, v)
}

// InsertInt writes a signed integer, using the negative major type below zero
func (e *Encoder) InsertInt(v int64) error {
	if v >= 0 {
		return e.writeHead(CborTypeUint, uint64(v))
	}
	// -1-v for negative v
	return e.writeHead(CborTypeNint, uint64(^v))
}

// InsertNegative writes the negative integer -1-arg, which reaches below the int64 range
func (e *Encoder) InsertNegative(arg uint64) error {
	return e.writeHead(CborTypeNint, arg)
}

func (e *Encoder) insertString(major uint8, s []byte) error {
	size := HeaderSize(uint64(len(s))) + len(s)
	if err := e.reserve(size); err != nil {
		return err
	}
	e.pos += putHeader(e.buf[e.pos:], major, uint64(len(s)))
	e.pos += copy(e.buf[e.pos:], s)
	e.itemAdded()
	return nil
}

// InsertBytes writes a byte string
func (e *Encoder) InsertBytes(b []byte) error {
	return e.insertString(CborTypeByteString, b)
}

// InsertText writes a text string. The caller is responsible for s being valid UTF-8.
func (e *Encoder) InsertText(s string) error {
	size := HeaderSize(uint64(len(s))) + len(s)
	if err := e.reserve(size); err != nil {
		return err
	}
	e.pos += putHeader(e.buf[e.pos:], CborTypeTextString, uint64(len(s)))
	e.pos += copy(e.buf[e.pos:], s)
	e.itemAdded()
	return nil
}

// InsertTextBytes writes a text string from its UTF-8 bytes
func (e *Encoder) InsertTextBytes(b []byte) error {
	return e.insertString(CborTypeTextString, b)
}

// InsertBool writes true or false
func (e *Encoder) InsertBool(v bool) error {
	if v {
		return e.writeHead(CborTypeSimple, uint64(simpleTrue))
	}
	return e.writeHead(CborTypeSimple, uint64(simpleFalse))
}

// InsertNull writes null
func (e *Encoder) InsertNull() error {
	return e.writeHead(CborTypeSimple, uint64(simpleNull))
}

// InsertUndefined writes undefined
func (e *Encoder) InsertUndefined() error {
	return e.writeHead(CborTypeSimple, uint64(simpleUndefined))
}

// InsertSimple writes an unassigned simple value. Values 24 through 31 have no
// valid encoding.
func (e *Encoder) InsertSimple(v uint8) error {
	if v >= additionalInfoUint8 && v < simpleMinExtended {
		return e.fail(
			fmt.Errorf("%w: simple value %d cannot be encoded", ErrNotWellFormed, v),
		)
	}
	return e.writeHead(CborTypeSimple, uint64(v))
}

// InsertFloat64 writes f using the narrowest width that preserves its value
func (e *Encoder) InsertFloat64(f float64) error {
	info, bits := PreferredFloat(f)
	size := FloatSize(f)
	if err := e.reserve(size); err != nil {
		return err
	}
	e.buf[e.pos] = CborTypeSimple | info
	for i := 1; i < size; i++ {
		e.buf[e.pos+i] = byte(bits >> (8 * (size - 1 - i)))
	}
	e.pos += size
	e.itemAdded()
	return nil
}

// InsertFloat32 writes f using the narrowest width that preserves its value
func (e *Encoder) InsertFloat32(f float32) error {
	return e.InsertFloat64(float64(f))
}

// InsertRaw copies a single pre-encoded item into the buffer. The bytes must be
// exactly one well-formed item.
func (e *Encoder) InsertRaw(raw []byte) error {
	if e.err != nil {
		return e.err
	}
	if _, err := Parse(raw); err != nil {
		return e.fail(fmt.Errorf("raw item: %w", err))
	}
	return e.insertRaw(raw)
}

func (e *Encoder) insertRaw(raw []byte) error {
	if err := e.reserve(len(raw)); err != nil {
		return err
	}
	e.pos += copy(e.buf[e.pos:], raw)
	e.itemAdded()
	return nil
}

// insertContainer writes an array or map header followed by already encoded members
func (e *Encoder) insertContainer(major uint8, count uint64, members []byte) error {
	if err := e.reserve(HeaderSize(count) + len(members)); err != nil {
		return err
	}
	e.pos += putHeader(e.buf[e.pos:], major, count)
	e.pos += copy(e.buf[e.pos:], members)
	e.itemAdded()
	return nil
}

// InsertItem copies a decoded item into the buffer as it was encoded
func (e *Encoder) InsertItem(it Item) error {
	if it.kind == KindInvalid {
		return e.fail(fmt.Errorf("%w: cannot insert invalid item", ErrWrongType))
	}
	return e.insertRaw(it.Raw())
}

// WriteTag writes a tag header. The next item inserted becomes the tagged item.
func (e *Encoder) WriteTag(number uint64) error {
	if err := e.reserve(HeaderSize(number)); err != nil {
		return err
	}
	e.pos += putHeader(e.buf[e.pos:], CborTypeTag, number)
	return nil
}

// Insert writes v with the encoding that matches its Go type. Decoded items and
// the Array, Map and Tag views are copied as they were encoded. Other types
// without a direct encoding are marshaled using core deterministic encoding and
// copied in.
func (e *Encoder) Insert(v any) error {
	switch val := v.(type) {
	case nil:
		return e.InsertNull()
	case bool:
		return e.InsertBool(val)
	case int:
		return e.InsertInt(int64(val))
	case int8:
		return e.InsertInt(int64(val))
	case int16:
		return e.InsertInt(int64(val))
	case int32:
		return e.InsertInt(int64(val))
	case int64:
		return e.InsertInt(val)
	case uint:
		return e.InsertUint(uint64(val))
	case uint8:
		return e.InsertUint(uint64(val))
	case uint16:
		return e.InsertUint(uint64(val))
	case uint32:
		return e.InsertUint(uint64(val))
	case uint64:
		return e.InsertUint(val)
	case float32:
		return e.InsertFloat32(val)
	case float64:
		return e.InsertFloat64(val)
	case string:
		return e.InsertText(val)
	case []byte:
		return e.InsertBytes(val)
	case Item:
		return e.InsertItem(val)
	case *Item:
		if val == nil {
			return e.InsertNull()
		}
		return e.InsertItem(*val)
	case *Decoder, *Encoder:
		return e.fail(fmt.Errorf("%w: %T", ErrUnsupportedEncoding, v))
	case Encodable:
		return val.EncodeCBOR(e)
	default:
		return e.insertMarshaled(v)
	}
}

// InsertKeyValue writes a map key followed by its value
func (e *Encoder) InsertKeyValue(key any, value any) error {
	if err := e.Insert(key); err != nil {
		return err
	}
	return e.Insert(value)
}

var (
	fallbackEncMode     _cbor.EncMode
	fallbackEncModeErr  error
	fallbackEncModeOnce sync.Once
)

func getEncMode() (_cbor.EncMode, error) {
	fallbackEncModeOnce.Do(func() {
		fallbackEncMode, fallbackEncModeErr = _cbor.CoreDetEncOptions().EncMode()
	})
	return fallbackEncMode, fallbackEncModeErr
}

func (e *Encoder) insertMarshaled(v any) error {
	if e.err != nil {
		return e.err
	}
	em, err := getEncMode()
	if err != nil {
		return e.fail(err)
	}
	data, err := em.Marshal(v)
	if err != nil {
		return e.fail(fmt.Errorf("%w: %w", ErrUnsupportedEncoding, err))
	}
	return e.insertRaw(data)
}

// open writes a placeholder header for a structure and makes it the innermost one.
// The placeholder is sized for the largest count unless the buffer is nearly full,
// and may later be shrunk by reclaim.
func (e *Encoder) open(major uint8) error {
	if e.err != nil {
		return e.err
	}
	if err := e.reserve(1); err != nil {
		return err
	}
	size := min(maxHeaderSize, len(e.buf)-e.pos)
	e.itemAdded()
	e.stack = append(e.stack, pendingHeader{
		offset:   e.pos,
		reserved: size,
		major:    major,
	})
	e.pos += size
	return nil
}

// close writes the final header of the innermost structure, moving its contents
// so that they directly follow the header
func (e *Encoder) close(major uint8) error {
	if e.err != nil {
		return e.err
	}
	if len(e.stack) == 0 {
		panic("cbor: close without matching open")
	}
	top := e.stack[len(e.stack)-1]
	if top.major != major {
		panic(
			fmt.Sprintf(
				"cbor: close of major type %d does not match open major type %d",
				major>>5,
				top.major>>5,
			),
		)
	}
	count := top.count
	if major == CborTypeMap {
		if count%2 != 0 {
			return e.fail(
				fmt.Errorf("%w: map has a key without a value", ErrNotWellFormed),
			)
		}
		count /= 2
	}
	size := HeaderSize(count)
	// Reserving can shrink this placeholder too, so check again until it holds
	for size > top.reserved && len(e.buf)-e.pos < size-top.reserved {
		if err := e.reserve(size - top.reserved); err != nil {
			return err
		}
		top = e.stack[len(e.stack)-1]
	}
	start := top.offset + top.reserved
	copy(e.buf[top.offset+size:], e.buf[start:e.pos])
	e.pos += size - top.reserved
	putHeader(e.buf[top.offset:], major, count)
	e.stack = e.stack[:len(e.stack)-1]
	return nil
}

// OpenArray starts an array. Items inserted until the matching CloseArray become its members.
func (e *Encoder) OpenArray() error {
	return e.open(CborTypeArray)
}

// CloseArray finishes the innermost structure, which must be an array
func (e *Encoder) CloseArray() error {
	return e.close(CborTypeArray)
}

// OpenMap starts a map. Items inserted until the matching CloseMap are taken as
// alternating keys and values.
func (e *Encoder) OpenMap() error {
	return e.open(CborTypeMap)
}

// CloseMap finishes the innermost structure, which must be a map
func (e *Encoder) CloseMap() error {
	return e.close(CborTypeMap)
}

// Array writes an array whose members are the items fn inserts
func (e *Encoder) Array(fn func(*Encoder) error) error {
	if err := e.OpenArray(); err != nil {
		return err
	}
	if err := fn(e); err != nil {
		return e.fail(err)
	}
	return e.CloseArray()
}

// Map writes a map whose keys and values are the items fn inserts, in order
func (e *Encoder) Map(fn func(*Encoder) error) error {
	if err := e.OpenMap(); err != nil {
		return err
	}
	if err := fn(e); err != nil {
		return e.fail(err)
	}
	return e.CloseMap()
}

// Tag writes a tag whose content is the single item fn inserts
func (e *Encoder) Tag(number uint64, fn func(*Encoder) error) error {
	if err := e.WriteTag(number); err != nil {
		return err
	}
	// The tag header is final, so only the item count needs tracking
	e.stack = append(e.stack, pendingHeader{
		offset: e.pos,
		major:  CborTypeTag,
	})
	if err := fn(e); err != nil {
		return e.fail(err)
	}
	top := e.stack[len(e.stack)-1]
	if top.major != CborTypeTag {
		panic("cbor: tag content left a structure open")
	}
	e.stack = e.stack[:len(e.stack)-1]
	if top.count != 1 {
		return e.fail(
			fmt.Errorf(
				"%w: tag %d wraps %d items",
				ErrNotWellFormed,
				number,
				top.count,
			),
		)
	}
	e.itemAdded()
	return nil
}
