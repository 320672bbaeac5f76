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
	"encoding/binary"
)

const (
	CborTypeUint       uint8 = 0x00
	CborTypeNint       uint8 = 0x20
	CborTypeByteString uint8 = 0x40
	CborTypeTextString uint8 = 0x60
	CborTypeArray      uint8 = 0x80
	CborTypeMap        uint8 = 0xa0
	CborTypeTag        uint8 = 0xc0
	CborTypeSimple     uint8 = 0xe0

	// Only the top 3 bits are used to specify the type
	CborTypeMask uint8 = 0xe0
	// The low 5 bits hold the additional info
	CborAdditionalInfoMask uint8 = 0x1f

	// Max value able to be stored in the initial byte without a following argument
	CborMaxUintSimple uint8 = 0x17
)

// Additional info values with special meaning
const (
	additionalInfoUint8      uint8 = 24
	additionalInfoUint16     uint8 = 25
	additionalInfoUint32     uint8 = 26
	additionalInfoUint64     uint8 = 27
	additionalInfoIndefinite uint8 = 31
)

// Simple values (major type 7)
const (
	simpleFalse     uint8 = 20
	simpleTrue      uint8 = 21
	simpleNull      uint8 = 22
	simpleUndefined uint8 = 23
	simpleFloat16   uint8 = 25
	simpleFloat32   uint8 = 26
	simpleFloat64   uint8 = 27

	// Values below this are not valid in the one byte extended form
	simpleMinExtended uint8 = 32
)

// Largest possible header: initial byte plus an 8-byte argument
const maxHeaderSize = 9

// readHeader parses the initial byte of the item at pos along with any argument bytes.
// It returns the major type (still in the top 3 bits), the additional info, the argument
// and the offset just past the header
func readHeader(data []byte, pos int) (uint8, uint8, uint64, int, error) {
	if pos >= len(data) {
		return 0, 0, 0, pos, decodeError(pos, ErrEOF)
	}
	initial := data[pos]
	major := initial & CborTypeMask
	info := initial & CborAdditionalInfoMask
	switch {
	case info < additionalInfoUint8:
		return major, info, uint64(info), pos + 1, nil
	case info <= additionalInfoUint64:
		size := 1 << (info - additionalInfoUint8)
		if len(data)-pos-1 < size {
			return 0, 0, 0, pos, decodeErrorf(
				pos,
				ErrEOF,
				"header needs %d argument bytes",
				size,
			)
		}
		arg := data[pos+1 : pos+1+size]
		var val uint64
		switch size {
		case 1:
			val = uint64(arg[0])
		case 2:
			val = uint64(binary.BigEndian.Uint16(arg))
		case 4:
			val = uint64(binary.BigEndian.Uint32(arg))
		default:
			val = binary.BigEndian.Uint64(arg)
		}
		return major, info, val, pos + 1 + size, nil
	case info == additionalInfoIndefinite:
		return 0, 0, 0, pos, decodeErrorf(
			pos,
			ErrUnsupportedEncoding,
			"indefinite length or break (major type %d)",
			major>>5,
		)
	default:
		return 0, 0, 0, pos, decodeErrorf(
			pos,
			ErrNotWellFormed,
			"reserved additional info %d",
			info,
		)
	}
}
