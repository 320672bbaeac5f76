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

// Package timetag interprets and writes the standard date/time tags (RFC 8949
// section 3.4.1 and 3.4.2) on top of the cbor package.
package timetag

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/blinklabs-io/minicbor/cbor"
)

const (
	TagDateTime uint64 = 0
	TagEpoch    uint64 = 1
)

var (
	ErrBadDateTime = errors.New("bad date/time")
	ErrBadEpoch    = errors.New("bad epoch time")
)

// Kind identifies how Interpret understood an item
type Kind uint8

const (
	// KindOther is any item that is not a recognized time tag
	KindOther Kind = iota
	KindDateTime
	KindEpoch
)

func (k Kind) String() string {
	switch k {
	case KindDateTime:
		return "date/time"
	case KindEpoch:
		return "epoch"
	default:
		return "other"
	}
}

// Value is the result of Interpret. Time is set for the recognized tags and
// Item always holds the original item.
type Value struct {
	Kind Kind
	Time time.Time
	Item cbor.Item
}

// Interpret recognizes tag 0 (RFC 3339 text) and tag 1 (numeric seconds since
// the epoch). Other items pass through unchanged with KindOther.
func Interpret(it cbor.Item) (Value, error) {
	ret := Value{Kind: KindOther, Item: it}
	if it.Kind() != cbor.KindTag {
		return ret, nil
	}
	tag, err := it.Tag()
	if err != nil {
		return ret, err
	}
	switch tag.Number {
	case TagDateTime:
		t, err := dateTime(tag.Content)
		if err != nil {
			return ret, err
		}
		ret.Kind = KindDateTime
		ret.Time = t
	case TagEpoch:
		t, err := epoch(tag.Content)
		if err != nil {
			return ret, err
		}
		ret.Kind = KindEpoch
		ret.Time = t
	}
	return ret, nil
}

func dateTime(content cbor.Item) (time.Time, error) {
	s, err := content.Text()
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %w", ErrBadDateTime, err)
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: %w", ErrBadDateTime, s, err)
	}
	return t, nil
}

func epoch(content cbor.Item) (time.Time, error) {
	switch k := content.Kind(); {
	case k == cbor.KindUint || k == cbor.KindNint:
		secs, err := content.Int()
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %w", ErrBadEpoch, err)
		}
		return time.Unix(secs, 0).UTC(), nil
	case k.IsFloat():
		f, _ := content.Float()
		// Beyond this range the seconds do not fit an int64
		if math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) >= 1<<63 {
			return time.Time{}, fmt.Errorf("%w: %v", ErrBadEpoch, f)
		}
		secs, frac := math.Modf(f)
		return time.Unix(int64(secs), int64(math.Round(frac*1e9))).UTC(), nil
	default:
		return time.Time{}, fmt.Errorf(
			"%w: %w: got %s",
			ErrBadEpoch,
			cbor.ErrWrongType,
			content.Kind(),
		)
	}
}

// InsertDateTime writes t as tag 0 wrapping its RFC 3339 text form
func InsertDateTime(enc *cbor.Encoder, t time.Time) error {
	return enc.Tag(TagDateTime, func(enc *cbor.Encoder) error {
		return enc.InsertText(t.Format(time.RFC3339Nano))
	})
}

// InsertEpoch writes t as tag 1 wrapping the seconds since 1970-01-01T00:00Z.
// Whole seconds are written as an integer, anything finer as a float.
func InsertEpoch(enc *cbor.Encoder, t time.Time) error {
	return enc.Tag(TagEpoch, func(enc *cbor.Encoder) error {
		if t.Nanosecond() == 0 {
			return enc.InsertInt(t.Unix())
		}
		return enc.InsertFloat64(float64(t.Unix()) + float64(t.Nanosecond())/1e9)
	})
}
