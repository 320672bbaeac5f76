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

// Package bench provides benchmark utilities and test fixtures for the codec.
package bench

import (
	"fmt"
	"slices"
	"strings"

	"github.com/blinklabs-io/minicbor/cbor"
	"github.com/blinklabs-io/minicbor/internal/test"
)

// Fixture contains a pre-encoded CBOR item for benchmarking.
type Fixture struct {
	Name string
	Cbor []byte
}

var fixtureBuilders = map[string]func() ([]byte, error){
	"seven-pair-map": func() ([]byte, error) {
		return test.DecodeHexString(test.SevenPairMapHex), nil
	},
	"nested-arrays": func() ([]byte, error) {
		return build(1<<20, func(enc *cbor.Encoder) error {
			return nestedArrays(enc, 5, 8)
		})
	},
	"large-map": func() ([]byte, error) {
		return build(1<<16, func(enc *cbor.Encoder) error {
			return enc.Map(func(enc *cbor.Encoder) error {
				for i := range 1000 {
					_ = enc.InsertUint(uint64(i))
					_ = enc.InsertText(fmt.Sprintf("value-%d", i))
				}
				return nil
			})
		})
	},
	"byte-strings": func() ([]byte, error) {
		chunk := make([]byte, 1024)
		for i := range chunk {
			chunk[i] = byte(i)
		}
		return build(1<<17, func(enc *cbor.Encoder) error {
			return enc.Array(func(enc *cbor.Encoder) error {
				for range 64 {
					_ = enc.InsertBytes(chunk)
				}
				return nil
			})
		})
	},
	"mixed-scalars": func() ([]byte, error) {
		return build(1<<16, func(enc *cbor.Encoder) error {
			return enc.Array(func(enc *cbor.Encoder) error {
				for i := range 500 {
					_ = enc.InsertInt(int64(-i * 1000))
					_ = enc.InsertFloat64(float64(i) / 4)
					_ = enc.InsertBool(i%2 == 0)
				}
				return nil
			})
		})
	},
}

func build(size int, fn func(*cbor.Encoder) error) ([]byte, error) {
	enc := cbor.NewEncoder(make([]byte, size))
	if err := fn(enc); err != nil {
		return nil, err
	}
	return enc.Encoded()
}

func nestedArrays(enc *cbor.Encoder, depth int, width int) error {
	return enc.Array(func(enc *cbor.Encoder) error {
		for i := range width {
			if depth == 0 {
				if err := enc.InsertUint(uint64(i)); err != nil {
					return err
				}
				continue
			}
			if err := nestedArrays(enc, depth-1, width); err != nil {
				return err
			}
		}
		return nil
	})
}

// LoadFixture builds the named fixture.
func LoadFixture(name string) (*Fixture, error) {
	builder, ok := fixtureBuilders[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown fixture: %s", name)
	}
	data, err := builder()
	if err != nil {
		return nil, fmt.Errorf("failed to build %s fixture: %w", name, err)
	}
	return &Fixture{
		Name: name,
		Cbor: data,
	}, nil
}

// MustLoadFixture loads a fixture and panics on error.
// Use this in benchmark init() or setup code.
func MustLoadFixture(name string) *Fixture {
	fixture, err := LoadFixture(name)
	if err != nil {
		panic(fmt.Sprintf("failed to load %s fixture: %v", name, err))
	}
	return fixture
}

// FixtureNames returns the names of all fixtures in sorted order.
func FixtureNames() []string {
	ret := make([]string, 0, len(fixtureBuilders))
	for name := range fixtureBuilders {
		ret = append(ret, name)
	}
	slices.Sort(ret)
	return ret
}
