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

package cbor_test

import (
	"encoding/hex"
	"fmt"
	"math"
	"strings"
	"testing"

	_cbor "github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blinklabs-io/minicbor/cbor"
	"github.com/blinklabs-io/minicbor/internal/test"
)

type encodeTestDefinition struct {
	CborHex string
	Object  any
}

// Test vectors from RFC 8949 Appendix A
var encodeTests = []encodeTestDefinition{
	{CborHex: "00", Object: 0},
	{CborHex: "01", Object: uint8(1)},
	{CborHex: "0a", Object: int16(10)},
	{CborHex: "17", Object: uint32(23)},
	{CborHex: "1818", Object: 24},
	{CborHex: "1819", Object: int64(25)},
	{CborHex: "1864", Object: 100},
	{CborHex: "1903e8", Object: uint64(1000)},
	{CborHex: "1a000f4240", Object: 1000000},
	{CborHex: "1b000000e8d4a51000", Object: int64(1000000000000)},
	{CborHex: "1bffffffffffffffff", Object: uint64(math.MaxUint64)},
	{CborHex: "20", Object: -1},
	{CborHex: "29", Object: int8(-10)},
	{CborHex: "3863", Object: -100},
	{CborHex: "3903e7", Object: int32(-1000)},
	{CborHex: "3b7fffffffffffffff", Object: int64(math.MinInt64)},
	{CborHex: "f90000", Object: 0.0},
	{CborHex: "f98000", Object: math.Copysign(0, -1)},
	{CborHex: "f93c00", Object: 1.0},
	{CborHex: "fb3ff199999999999a", Object: 1.1},
	{CborHex: "f93e00", Object: float32(1.5)},
	{CborHex: "f97bff", Object: 65504.0},
	{CborHex: "fa47c35000", Object: 100000.0},
	{CborHex: "fa7f7fffff", Object: 3.4028234663852886e+38},
	{CborHex: "fb7e37e43c8800759c", Object: 1.0e+300},
	{CborHex: "f90001", Object: 5.960464477539063e-8},
	{CborHex: "f90400", Object: 0.00006103515625},
	{CborHex: "f9c400", Object: -4.0},
	{CborHex: "fbc010666666666666", Object: -4.1},
	{CborHex: "f97c00", Object: math.Inf(1)},
	{CborHex: "f97e00", Object: math.NaN()},
	{CborHex: "f9fc00", Object: math.Inf(-1)},
	{CborHex: "f97c00", Object: float32(math.Inf(1))},
	{CborHex: "f4", Object: false},
	{CborHex: "f5", Object: true},
	{CborHex: "f6", Object: nil},
	{CborHex: "40", Object: []byte{}},
	{CborHex: "4401020304", Object: []byte{1, 2, 3, 4}},
	{CborHex: "60", Object: ""},
	{CborHex: "6161", Object: "a"},
	{CborHex: "6449455446", Object: "IETF"},
	{CborHex: "62225c", Object: "\"\\"},
	{CborHex: "62c3bc", Object: "ü"},
	{CborHex: "63e6b0b4", Object: "水"},
	{CborHex: "64f0908591", Object: "\U00010151"},
}

func encodeHex(t *testing.T, fn func(*cbor.Encoder) error) string {
	t.Helper()
	enc := cbor.NewEncoder(make([]byte, 1024))
	require.NoError(t, fn(enc))
	out, err := enc.Encoded()
	require.NoError(t, err)
	return hex.EncodeToString(out)
}

func TestEncode(t *testing.T) {
	for _, testDef := range encodeTests {
		t.Run(fmt.Sprintf("%T/%s", testDef.Object, testDef.CborHex), func(t *testing.T) {
			cborHex := encodeHex(t, func(enc *cbor.Encoder) error {
				return enc.Insert(testDef.Object)
			})
			assert.Equal(t, testDef.CborHex, cborHex)
		})
	}
}

// Scenario A
func TestEncodeUint1000(t *testing.T) {
	enc := cbor.NewEncoder(make([]byte, 3))
	require.NoError(t, enc.InsertUint(1000))
	out, err := enc.Encoded()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x19, 0x03, 0xe8}, out)
	assert.Equal(t, 0, enc.Available())
}

func TestEncodeMinimalWidth(t *testing.T) {
	testDefs := []struct {
		value uint64
		size  int
	}{
		{0, 1},
		{23, 1},
		{24, 2},
		{255, 2},
		{256, 3},
		{65535, 3},
		{65536, 5},
		{math.MaxUint32, 5},
		{math.MaxUint32 + 1, 9},
		{math.MaxUint64, 9},
	}
	for _, testDef := range testDefs {
		assert.Equal(t, testDef.size, cbor.HeaderSize(testDef.value), "value %d", testDef.value)
		cborHex := encodeHex(t, func(enc *cbor.Encoder) error {
			return enc.InsertUint(testDef.value)
		})
		assert.Len(t, cborHex, testDef.size*2, "value %d", testDef.value)
		// The same widths apply to negative integers and string lengths
		cborHex = encodeHex(t, func(enc *cbor.Encoder) error {
			return enc.InsertNegative(testDef.value)
		})
		assert.Len(t, cborHex, testDef.size*2, "value -1-%d", testDef.value)
	}
}

func TestEncodeNegativeMinimum(t *testing.T) {
	cborHex := encodeHex(t, func(enc *cbor.Encoder) error {
		return enc.InsertNegative(math.MaxUint64)
	})
	assert.Equal(t, "3bffffffffffffffff", cborHex)
}

func TestEncodeSimple(t *testing.T) {
	assert.Equal(t, "f0", encodeHex(t, func(enc *cbor.Encoder) error {
		return enc.InsertSimple(16)
	}))
	assert.Equal(t, "f8ff", encodeHex(t, func(enc *cbor.Encoder) error {
		return enc.InsertSimple(255)
	}))
	assert.Equal(t, "f7", encodeHex(t, func(enc *cbor.Encoder) error {
		return enc.InsertUndefined()
	}))
	enc := cbor.NewEncoder(make([]byte, 8))
	require.ErrorIs(t, enc.InsertSimple(24), cbor.ErrNotWellFormed)
	assert.Equal(t, 0, enc.Len())
}

func TestEncodeNested(t *testing.T) {
	testDefs := []struct {
		name    string
		cborHex string
		fn      func(*cbor.Encoder) error
	}{
		{
			name:    "empty array",
			cborHex: "80",
			fn: func(enc *cbor.Encoder) error {
				return enc.Array(func(*cbor.Encoder) error { return nil })
			},
		},
		{
			name:    "empty map",
			cborHex: "a0",
			fn: func(enc *cbor.Encoder) error {
				return enc.Map(func(*cbor.Encoder) error { return nil })
			},
		},
		{
			name:    "nested arrays",
			cborHex: "8301820203820405",
			fn: func(enc *cbor.Encoder) error {
				return enc.Array(func(enc *cbor.Encoder) error {
					_ = enc.Insert(1)
					_ = enc.Array(func(enc *cbor.Encoder) error {
						_ = enc.Insert(2)
						return enc.Insert(3)
					})
					return enc.Array(func(enc *cbor.Encoder) error {
						_ = enc.Insert(4)
						return enc.Insert(5)
					})
				})
			},
		},
		{
			name:    "map with array value",
			cborHex: "a26161016162820203",
			fn: func(enc *cbor.Encoder) error {
				return enc.Map(func(enc *cbor.Encoder) error {
					_ = enc.InsertKeyValue("a", 1)
					_ = enc.Insert("b")
					return enc.Array(func(enc *cbor.Encoder) error {
						_ = enc.Insert(2)
						return enc.Insert(3)
					})
				})
			},
		},
		{
			name:    "array with map",
			cborHex: "826161a161626163",
			fn: func(enc *cbor.Encoder) error {
				return enc.Array(func(enc *cbor.Encoder) error {
					_ = enc.Insert("a")
					return enc.Map(func(enc *cbor.Encoder) error {
						return enc.InsertKeyValue("b", "c")
					})
				})
			},
		},
		{
			name:    "five pair map",
			cborHex: "a56161614161626142616361436164614461656145",
			fn: func(enc *cbor.Encoder) error {
				return enc.Map(func(enc *cbor.Encoder) error {
					for _, k := range []string{"a", "b", "c", "d", "e"} {
						_ = enc.InsertKeyValue(k, strings.ToUpper(k))
					}
					return nil
				})
			},
		},
		{
			name:    "25 members",
			cborHex: "98190102030405060708090a0b0c0d0e0f101112131415161718181819",
			fn: func(enc *cbor.Encoder) error {
				return enc.Array(func(enc *cbor.Encoder) error {
					for i := 1; i <= 25; i++ {
						_ = enc.Insert(i)
					}
					return nil
				})
			},
		},
		{
			name:    "low level open and close",
			cborHex: "a2018202030280",
			fn: func(enc *cbor.Encoder) error {
				_ = enc.OpenMap()
				_ = enc.Insert(1)
				_ = enc.OpenArray()
				_ = enc.Insert(2)
				_ = enc.Insert(3)
				_ = enc.CloseArray()
				_ = enc.Insert(2)
				_ = enc.OpenArray()
				_ = enc.CloseArray()
				return enc.CloseMap()
			},
		},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			assert.Equal(t, testDef.cborHex, encodeHex(t, testDef.fn))
		})
	}
}

// Structures whose count needs more than the inline form, nested inside each
// other, so that several compactions happen at different depths
func TestEncodeCompaction(t *testing.T) {
	enc := cbor.NewEncoder(make([]byte, 1<<16))
	err := enc.Map(func(enc *cbor.Encoder) error {
		for k := range 30 {
			_ = enc.Insert(k)
			_ = enc.Array(func(enc *cbor.Encoder) error {
				for i := range k * 10 {
					_ = enc.Insert(uint64(i))
				}
				return nil
			})
		}
		return nil
	})
	require.NoError(t, err)
	out, err := enc.Encoded()
	require.NoError(t, err)
	// 30 pairs need a 1-byte count argument
	assert.Equal(t, []byte{0xb8, 30}, out[:2])

	it, err := cbor.Parse(out)
	require.NoError(t, err)
	m, err := it.Map()
	require.NoError(t, err)
	require.Equal(t, 30, m.Len())
	for k := range 30 {
		v, ok := m.GetInt(int64(k))
		require.True(t, ok, "key %d", k)
		arr, err := v.Array()
		require.NoError(t, err)
		require.Equal(t, k*10, arr.Len())
		for i, elem := range arr.All() {
			u, err := elem.Uint()
			require.NoError(t, err)
			require.Equal(t, uint64(i), u)
		}
	}

	// fxamacker decodes the same structure
	var decoded map[uint64][]uint64
	require.NoError(t, _cbor.Unmarshal(out, &decoded))
	assert.Len(t, decoded, 30)
	assert.Len(t, decoded[29], 290)
}

func TestEncodeLongString(t *testing.T) {
	s := strings.Repeat("x", 300)
	cborHex := encodeHex(t, func(enc *cbor.Encoder) error {
		return enc.Array(func(enc *cbor.Encoder) error {
			return enc.Insert(s)
		})
	})
	assert.Equal(t, "81"+"79012c"+hex.EncodeToString([]byte(s)), cborHex)
}

func TestEncodeTag(t *testing.T) {
	assert.Equal(t, "c11a514b67b0", encodeHex(t, func(enc *cbor.Encoder) error {
		return enc.Tag(1, func(enc *cbor.Encoder) error {
			return enc.InsertUint(1363896240)
		})
	}))
	assert.Equal(t, "d74401020304", encodeHex(t, func(enc *cbor.Encoder) error {
		_ = enc.WriteTag(23)
		return enc.InsertBytes([]byte{1, 2, 3, 4})
	}))
	// A tagged array counts as one member of its parent
	assert.Equal(t, "82d8188101f6", encodeHex(t, func(enc *cbor.Encoder) error {
		return enc.Array(func(enc *cbor.Encoder) error {
			_ = enc.Tag(24, func(enc *cbor.Encoder) error {
				return enc.Array(func(enc *cbor.Encoder) error {
					return enc.Insert(1)
				})
			})
			return enc.InsertNull()
		})
	}))

	enc := cbor.NewEncoder(make([]byte, 16))
	err := enc.Tag(1, func(enc *cbor.Encoder) error {
		_ = enc.Insert(1)
		return enc.Insert(2)
	})
	require.ErrorIs(t, err, cbor.ErrNotWellFormed)
}

func TestEncodeBufferFull(t *testing.T) {
	enc := cbor.NewEncoder(make([]byte, 2))
	require.ErrorIs(t, enc.InsertUint(1000), cbor.ErrBufferFull)
	assert.Equal(t, 0, enc.Len(), "nothing should be written")
	// The error sticks
	require.ErrorIs(t, enc.InsertUint(1), cbor.ErrBufferFull)
	_, err := enc.Encoded()
	require.ErrorIs(t, err, cbor.ErrBufferFull)

	enc.Reset()
	require.NoError(t, enc.InsertUint(1))
	out, err := enc.Encoded()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01}, out)

	enc = cbor.NewEncoder(make([]byte, 4))
	require.ErrorIs(t, enc.InsertText("hello"), cbor.ErrBufferFull)

	enc = cbor.NewEncoder(make([]byte, 10))
	err = enc.Array(func(enc *cbor.Encoder) error {
		for i := range 10 {
			if err := enc.Insert(i); err != nil {
				return err
			}
		}
		return nil
	})
	require.ErrorIs(t, err, cbor.ErrBufferFull)
}

func TestEncodeUsesCapacity(t *testing.T) {
	buf := make([]byte, 0, 4)
	enc := cbor.NewEncoder(buf)
	require.NoError(t, enc.InsertText("abc"))
	out, err := enc.Encoded()
	require.NoError(t, err)
	assert.Equal(t, test.DecodeHexString("63616263"), out)
}

func TestEncodeUnterminated(t *testing.T) {
	enc := cbor.NewEncoder(make([]byte, 16))
	require.NoError(t, enc.OpenArray())
	require.NoError(t, enc.Insert(1))
	_, err := enc.Encoded()
	require.ErrorIs(t, err, cbor.ErrUnterminatedStructure)
	require.NoError(t, enc.CloseArray())
	out, err := enc.Encoded()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x81, 0x01}, out)
}

func TestEncodeMismatchedClose(t *testing.T) {
	enc := cbor.NewEncoder(make([]byte, 16))
	assert.Panics(t, func() { _ = enc.CloseArray() })
	require.NoError(t, enc.OpenArray())
	assert.Panics(t, func() { _ = enc.CloseMap() })
}

func TestEncodeOddMap(t *testing.T) {
	enc := cbor.NewEncoder(make([]byte, 16))
	err := enc.Map(func(enc *cbor.Encoder) error {
		_ = enc.InsertKeyValue(1, 2)
		return enc.Insert(3)
	})
	require.ErrorIs(t, err, cbor.ErrNotWellFormed)
	_, err = enc.Encoded()
	require.ErrorIs(t, err, cbor.ErrNotWellFormed)
}

func TestEncodeCallbackError(t *testing.T) {
	errCallback := fmt.Errorf("callback failed")
	enc := cbor.NewEncoder(make([]byte, 16))
	err := enc.Array(func(enc *cbor.Encoder) error {
		_ = enc.Insert(1)
		return errCallback
	})
	require.ErrorIs(t, err, errCallback)
	_, err = enc.Encoded()
	require.ErrorIs(t, err, errCallback)
}

func TestEncodeRaw(t *testing.T) {
	data := test.DecodeHexString(test.SevenPairMapHex)
	cborHex := encodeHex(t, func(enc *cbor.Encoder) error {
		return enc.Array(func(enc *cbor.Encoder) error {
			_ = enc.Insert(1)
			return enc.InsertRaw(data)
		})
	})
	assert.Equal(t, "8201"+test.SevenPairMapHex, cborHex)

	enc := cbor.NewEncoder(make([]byte, 16))
	require.ErrorIs(t, enc.InsertRaw([]byte{0x82, 0x01}), cbor.ErrEOF)
	enc = cbor.NewEncoder(make([]byte, 16))
	require.ErrorIs(t, enc.InsertRaw([]byte{0x01, 0x02}), cbor.ErrNotWellFormed)
}

func TestEncodeItem(t *testing.T) {
	it, err := cbor.Parse(test.DecodeHexString(test.SevenPairMapHex))
	require.NoError(t, err)
	m, err := it.Map()
	require.NoError(t, err)
	v, ok := m.GetInt(260)
	require.True(t, ok)
	cborHex := encodeHex(t, func(enc *cbor.Encoder) error {
		return enc.Map(func(enc *cbor.Encoder) error {
			return enc.InsertKeyValue("v", v)
		})
	})
	assert.Equal(t, "a161768263332e3101", cborHex)

	enc := cbor.NewEncoder(make([]byte, 16))
	require.ErrorIs(t, enc.InsertItem(cbor.Item{}), cbor.ErrWrongType)
}

// Array, Map and Tag views are written back as the items they came from
func TestEncodeViews(t *testing.T) {
	testDefs := []struct {
		cborHex string
		view    func(cbor.Item) (any, error)
	}{
		{"820102", func(it cbor.Item) (any, error) { return it.Array() }},
		{"80", func(it cbor.Item) (any, error) { return it.Array() }},
		{"98190102030405060708090a0b0c0d0e0f101112131415161718181819", func(it cbor.Item) (any, error) { return it.Array() }},
		{"a201820203616163616263", func(it cbor.Item) (any, error) { return it.Map() }},
		{"c101", func(it cbor.Item) (any, error) { return it.Tag() }},
		{"d818a1616101", func(it cbor.Item) (any, error) { return it.Tag() }},
	}
	for _, testDef := range testDefs {
		it, err := cbor.Parse(test.DecodeHexString(testDef.cborHex))
		require.NoError(t, err, testDef.cborHex)
		view, err := testDef.view(it)
		require.NoError(t, err, testDef.cborHex)
		cborHex := encodeHex(t, func(enc *cbor.Encoder) error {
			return enc.Insert(view)
		})
		assert.Equal(t, testDef.cborHex, cborHex)
		// Nested inside a structure the view counts as one member
		cborHex = encodeHex(t, func(enc *cbor.Encoder) error {
			return enc.Array(func(enc *cbor.Encoder) error {
				return enc.Insert(view)
			})
		})
		assert.Equal(t, "81"+testDef.cborHex, cborHex)
	}

	it, err := cbor.Parse(test.DecodeHexString("820102"))
	require.NoError(t, err)
	assert.Equal(t, "820102", encodeHex(t, func(enc *cbor.Encoder) error {
		return enc.Insert(&it)
	}))

	enc := cbor.NewEncoder(make([]byte, 16))
	require.ErrorIs(t, enc.Insert(cbor.Tag{Number: 1}), cbor.ErrWrongType)
	enc = cbor.NewEncoder(make([]byte, 16))
	require.ErrorIs(t, enc.Insert(cbor.NewDecoder(nil)), cbor.ErrUnsupportedEncoding)
	enc = cbor.NewEncoder(make([]byte, 2))
	arr, err := it.Array()
	require.NoError(t, err)
	require.ErrorIs(t, enc.Insert(arr), cbor.ErrBufferFull)
	assert.Equal(t, 0, enc.Len())
}

// Structures that exactly fill the buffer fit even though their placeholder
// header starts out wider than needed
func TestEncodeExactFit(t *testing.T) {
	testDefs := []struct {
		cborHex string
		fn      func(*cbor.Encoder) error
	}{
		{
			"820102",
			func(enc *cbor.Encoder) error {
				return enc.Array(func(enc *cbor.Encoder) error {
					_ = enc.Insert(1)
					return enc.Insert(2)
				})
			},
		},
		{
			"818101",
			func(enc *cbor.Encoder) error {
				return enc.Array(func(enc *cbor.Encoder) error {
					return enc.Array(func(enc *cbor.Encoder) error {
						return enc.Insert(1)
					})
				})
			},
		},
		{
			"a1616181f6",
			func(enc *cbor.Encoder) error {
				return enc.Map(func(enc *cbor.Encoder) error {
					_ = enc.Insert("a")
					return enc.Array(func(enc *cbor.Encoder) error {
						return enc.InsertNull()
					})
				})
			},
		},
		{
			"981e" + strings.Repeat("f6", 30),
			func(enc *cbor.Encoder) error {
				return enc.Array(func(enc *cbor.Encoder) error {
					for range 30 {
						_ = enc.InsertNull()
					}
					return nil
				})
			},
		},
		{
			"8198" + "18" + strings.Repeat("f6", 24),
			func(enc *cbor.Encoder) error {
				return enc.Array(func(enc *cbor.Encoder) error {
					return enc.Array(func(enc *cbor.Encoder) error {
						for range 24 {
							_ = enc.InsertNull()
						}
						return nil
					})
				})
			},
		},
	}
	for _, testDef := range testDefs {
		expected := test.DecodeHexString(testDef.cborHex)
		enc := cbor.NewEncoder(make([]byte, len(expected)))
		require.NoError(t, testDef.fn(enc), testDef.cborHex)
		out, err := enc.Encoded()
		require.NoError(t, err, testDef.cborHex)
		assert.Equal(t, expected, out)

		// One byte less does not fit
		enc = cbor.NewEncoder(make([]byte, len(expected)-1))
		_ = testDef.fn(enc)
		_, err = enc.Encoded()
		require.ErrorIs(t, err, cbor.ErrBufferFull, testDef.cborHex)
	}
}

type point struct {
	X int64
	Y int64
}

func (p point) EncodeCBOR(enc *cbor.Encoder) error {
	return enc.Array(func(enc *cbor.Encoder) error {
		_ = enc.InsertInt(p.X)
		return enc.InsertInt(p.Y)
	})
}

func TestEncodeEncodable(t *testing.T) {
	assert.Equal(t, "820a29", encodeHex(t, func(enc *cbor.Encoder) error {
		return enc.Insert(point{X: 10, Y: -10})
	}))
}

func TestEncodeFallback(t *testing.T) {
	type record struct {
		Name string `cbor:"name"`
		Size uint   `cbor:"size"`
	}
	assert.Equal(
		t,
		"a2646e616d656461626364"+"6473697a6518ff",
		encodeHex(t, func(enc *cbor.Encoder) error {
			return enc.Insert(record{Name: "abcd", Size: 255})
		}),
	)
	// Go maps are written with sorted keys
	assert.Equal(t, "a2616101616202", encodeHex(t, func(enc *cbor.Encoder) error {
		return enc.Insert(map[string]int{"b": 2, "a": 1})
	}))

	enc := cbor.NewEncoder(make([]byte, 16))
	require.ErrorIs(t, enc.Insert(make(chan int)), cbor.ErrUnsupportedEncoding)
}

// Values written by the Encoder match core deterministic encoding
func TestEncodeMatchesCoreDeterministic(t *testing.T) {
	em, err := _cbor.CoreDetEncOptions().EncMode()
	require.NoError(t, err)
	values := []any{
		uint64(0), uint64(23), uint64(24), uint64(255), uint64(256),
		uint64(65535), uint64(65536), uint64(math.MaxUint32),
		uint64(math.MaxUint32) + 1, uint64(math.MaxUint64),
		int64(-1), int64(-24), int64(-25), int64(-256), int64(-257),
		int64(-65537), int64(math.MinInt64),
		"", "hello", strings.Repeat("y", 24), strings.Repeat("z", 256),
		[]byte{}, []byte{0xde, 0xad, 0xbe, 0xef},
		0.0, 1.0, 1.5, 1.1, 65504.0, 65505.0, 100000.0, -4.1,
		math.Inf(1), math.Inf(-1), math.NaN(), 3.4028234663852886e+38,
		true, false,
	}
	for _, v := range values {
		expected, err := em.Marshal(v)
		require.NoError(t, err)
		cborHex := encodeHex(t, func(enc *cbor.Encoder) error {
			return enc.Insert(v)
		})
		assert.Equal(t, hex.EncodeToString(expected), cborHex, "value %v", v)
	}
}

func TestRoundTrip(t *testing.T) {
	buf := make([]byte, 512)
	enc := cbor.NewEncoder(buf)
	err := enc.Map(func(enc *cbor.Encoder) error {
		_ = enc.InsertKeyValue(1, "one")
		_ = enc.InsertKeyValue(-2, []byte{2})
		_ = enc.InsertKeyValue("three", 3.5)
		_ = enc.Insert(4)
		_ = enc.Array(func(enc *cbor.Encoder) error {
			_ = enc.InsertBool(true)
			_ = enc.InsertNull()
			return enc.InsertUint(math.MaxUint64)
		})
		return enc.InsertKeyValue(5, int64(math.MinInt64))
	})
	require.NoError(t, err)
	out, err := enc.Encoded()
	require.NoError(t, err)

	it, err := cbor.Parse(out)
	require.NoError(t, err)
	m, err := it.Map()
	require.NoError(t, err)
	assert.Equal(t, 5, m.Len())

	v, ok := m.GetInt(1)
	require.True(t, ok)
	s, err := v.Text()
	require.NoError(t, err)
	assert.Equal(t, "one", s)

	v, ok = m.GetInt(-2)
	require.True(t, ok)
	b, err := v.Bytes()
	require.NoError(t, err)
	assert.Equal(t, []byte{2}, b)

	v, ok = m.GetText("three")
	require.True(t, ok)
	f, err := v.Float()
	require.NoError(t, err)
	assert.Equal(t, 3.5, f)
	assert.Equal(t, cbor.KindFloat16, v.Kind())

	v, ok = m.GetInt(4)
	require.True(t, ok)
	arr, err := v.Array()
	require.NoError(t, err)
	last, ok := arr.Get(2)
	require.True(t, ok)
	u, err := last.Uint()
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), u)
	mid, ok := arr.Get(1)
	require.True(t, ok)
	assert.True(t, mid.IsNull())

	v, ok = m.GetInt(5)
	require.True(t, ok)
	i, err := v.Int()
	require.NoError(t, err)
	assert.Equal(t, int64(math.MinInt64), i)
}

func ExampleEncoder() {
	buf := make([]byte, 64)
	enc := cbor.NewEncoder(buf)
	_ = enc.Map(func(enc *cbor.Encoder) error {
		_ = enc.InsertKeyValue(1, "Hello")
		return enc.InsertKeyValue(2, "World")
	})
	out, err := enc.Encoded()
	if err != nil {
		panic(err)
	}
	fmt.Printf("%x\n", out)
	// Output: a2016548656c6c6f0265576f726c64
}
