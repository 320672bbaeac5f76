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

import "math"

const (
	DefaultMaxNestedLevels  = 256
	DefaultMaxArrayElements = math.MaxInt32
	DefaultMaxMapPairs      = math.MaxInt32
)

type decodeOptions struct {
	maxNestedLevels  int
	maxArrayElements uint64
	maxMapPairs      uint64
}

func defaultDecodeOptions() decodeOptions {
	return decodeOptions{
		maxNestedLevels:  DefaultMaxNestedLevels,
		maxArrayElements: DefaultMaxArrayElements,
		maxMapPairs:      DefaultMaxMapPairs,
	}
}

// Limits used when revisiting items that were already checked by a decoder
var walkOptions = decodeOptions{
	maxNestedLevels:  math.MaxInt,
	maxArrayElements: math.MaxUint64,
	maxMapPairs:      math.MaxUint64,
}

// DecoderOptionFunc is a type that represents functions that modify the Decoder config
type DecoderOptionFunc func(*decodeOptions)

// WithMaxNestedLevels specifies how deeply arrays, maps and tags may be nested
func WithMaxNestedLevels(levels int) DecoderOptionFunc {
	return func(o *decodeOptions) {
		o.maxNestedLevels = levels
	}
}

// WithMaxArrayElements specifies the largest array count that will be accepted
func WithMaxArrayElements(count uint64) DecoderOptionFunc {
	return func(o *decodeOptions) {
		o.maxArrayElements = count
	}
}

// WithMaxMapPairs specifies the largest map count that will be accepted
func WithMaxMapPairs(count uint64) DecoderOptionFunc {
	return func(o *decodeOptions) {
		o.maxMapPairs = count
	}
}
