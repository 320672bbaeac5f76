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
	"math"

	"github.com/x448/float16"
)

// Preferred serialization of half-precision special values
const (
	float16NaN    uint16 = 0x7e00
	float16PosInf uint16 = 0x7c00
	float16NegInf uint16 = 0xfc00
)

// HeaderSize returns the number of bytes needed for a header carrying the
// specified argument using the shortest form
func HeaderSize(arg uint64) int {
	switch {
	case arg <= uint64(CborMaxUintSimple):
		return 1
	case arg <= math.MaxUint8:
		return 2
	case arg <= math.MaxUint16:
		return 3
	case arg <= math.MaxUint32:
		return 5
	default:
		return 9
	}
}

// putHeader writes the shortest header for the major type and argument into dst,
// which must have room for HeaderSize(arg) bytes, and returns the bytes written
func putHeader(dst []byte, major uint8, arg uint64) int {
	size := HeaderSize(arg)
	switch size {
	case 1:
		dst[0] = major | uint8(arg)
	case 2:
		dst[0] = major | additionalInfoUint8
		dst[1] = uint8(arg)
	case 3:
		dst[0] = major | additionalInfoUint16
		binary.BigEndian.PutUint16(dst[1:], uint16(arg))
	case 5:
		dst[0] = major | additionalInfoUint32
		binary.BigEndian.PutUint32(dst[1:], uint32(arg))
	default:
		dst[0] = major | additionalInfoUint64
		binary.BigEndian.PutUint64(dst[1:], arg)
	}
	return size
}

// PreferredFloat picks the narrowest IEEE 754 width that represents f exactly.
// It returns the additional info for that width (25, 26 or 27) and the bits to
// write. NaN and both infinities always use half precision.
func PreferredFloat(f float64) (uint8, uint64) {
	switch {
	case math.IsNaN(f):
		return simpleFloat16, uint64(float16NaN)
	case math.IsInf(f, 1):
		return simpleFloat16, uint64(float16PosInf)
	case math.IsInf(f, -1):
		return simpleFloat16, uint64(float16NegInf)
	}
	f32 := float32(f)
	if float64(f32) != f {
		return simpleFloat64, math.Float64bits(f)
	}
	switch float16.PrecisionFromfloat32(f32) {
	case float16.PrecisionExact:
		return simpleFloat16, uint64(float16.Fromfloat32(f32).Bits())
	case float16.PrecisionUnknown:
		// Subnormal half values need an explicit round trip check
		if h := float16.Fromfloat32(f32); h.Float32() == f32 {
			return simpleFloat16, uint64(h.Bits())
		}
	}
	return simpleFloat32, uint64(math.Float32bits(f32))
}

// FloatSize returns the encoded size of f under preferred serialization
func FloatSize(f float64) int {
	switch info, _ := PreferredFloat(f); info {
	case simpleFloat16:
		return 3
	case simpleFloat32:
		return 5
	default:
		return 9
	}
}

// decodeFloat widens the float stored in a major type 7 argument to a float64.
// NaN payloads keep their bits, including a clear quiet bit.
func decodeFloat(info uint8, arg uint64) float64 {
	switch info {
	case simpleFloat16:
		h := uint16(arg)
		if h&0x7c00 == 0x7c00 && h&0x03ff != 0 {
			return widenNaN(uint64(h>>15), uint64(h&0x03ff), 10)
		}
		return float64(float16.Frombits(h).Float32())
	case simpleFloat32:
		f := uint32(arg)
		if f&0x7f800000 == 0x7f800000 && f&0x007fffff != 0 {
			return widenNaN(uint64(f>>31), uint64(f&0x007fffff), 23)
		}
		return float64(math.Float32frombits(f))
	default:
		return math.Float64frombits(arg)
	}
}

// widenNaN builds a float64 NaN from the sign and mantissa of a narrower one,
// aligning the mantissa to the top of the 52-bit field
func widenNaN(sign uint64, mantissa uint64, width uint) float64 {
	return math.Float64frombits(sign<<63 | 0x7ff<<52 | mantissa<<(52-width))
}
