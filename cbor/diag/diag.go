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

// Package diag renders decoded CBOR in the diagnostic notation of RFC 8949
// section 8.
package diag

import (
	"encoding/hex"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/blinklabs-io/minicbor/cbor"
)

type options struct {
	indent     string
	decodeOpts []cbor.DecoderOptionFunc
}

// Option configures the output
type Option func(*options)

// WithIndent spreads arrays and maps over multiple lines, using indent for
// each nesting level
func WithIndent(indent string) Option {
	return func(o *options) {
		o.indent = indent
	}
}

// WithDecoderOptions passes decoder limits through to Write
func WithDecoderOptions(opts ...cbor.DecoderOptionFunc) Option {
	return func(o *options) {
		o.decodeOpts = append(o.decodeOpts, opts...)
	}
}

type printer struct {
	w    io.Writer
	opts options
	err  error
}

func newPrinter(w io.Writer, opts []Option) *printer {
	p := &printer{w: w}
	for _, opt := range opts {
		opt(&p.opts)
	}
	return p
}

func (p *printer) print(s string) {
	if p.err != nil {
		return
	}
	_, p.err = io.WriteString(p.w, s)
}

func (p *printer) newline(depth int) {
	if p.opts.indent == "" {
		return
	}
	p.print("\n")
	p.print(strings.Repeat(p.opts.indent, depth))
}

func (p *printer) separator(depth int) {
	if p.opts.indent == "" {
		p.print(", ")
		return
	}
	p.print(",")
	p.newline(depth)
}

func (p *printer) item(it cbor.Item, depth int) {
	if p.err != nil {
		return
	}
	switch it.Kind() {
	case cbor.KindUint, cbor.KindNint:
		p.print(it.String())
	case cbor.KindBytes:
		b, _ := it.Bytes()
		p.print("h'")
		p.print(hex.EncodeToString(b))
		p.print("'")
	case cbor.KindText:
		s, _ := it.Text()
		p.print(quote(s))
	case cbor.KindArray:
		arr, _ := it.Array()
		if arr.Len() == 0 {
			p.print("[]")
			return
		}
		p.print("[")
		p.newline(depth + 1)
		for i, elem := range arr.All() {
			if i > 0 {
				p.separator(depth + 1)
			}
			p.item(elem, depth+1)
		}
		p.newline(depth)
		p.print("]")
	case cbor.KindMap:
		m, _ := it.Map()
		if m.Len() == 0 {
			p.print("{}")
			return
		}
		p.print("{")
		p.newline(depth + 1)
		first := true
		for k, v := range m.All() {
			if !first {
				p.separator(depth + 1)
			}
			first = false
			p.item(k, depth+1)
			p.print(": ")
			p.item(v, depth+1)
		}
		p.newline(depth)
		p.print("}")
	case cbor.KindTag:
		tag, err := it.Tag()
		if err != nil {
			p.err = err
			return
		}
		p.print(strconv.FormatUint(tag.Number, 10))
		p.print("(")
		p.item(tag.Content, depth)
		p.print(")")
	case cbor.KindBool:
		v, _ := it.Bool()
		p.print(strconv.FormatBool(v))
	case cbor.KindNull:
		p.print("null")
	case cbor.KindUndefined:
		p.print("undefined")
	case cbor.KindFloat16, cbor.KindFloat32, cbor.KindFloat64:
		f, _ := it.Float()
		p.print(formatFloat(f))
	case cbor.KindSimple:
		v, _ := it.Simple()
		p.print(fmt.Sprintf("simple(%d)", v))
	default:
		p.err = fmt.Errorf("%w: cannot format %s item", cbor.ErrWrongType, it.Kind())
	}
}

// formatFloat writes floats the way RFC 8949 Appendix A shows them: always
// with a fractional part or an exponent, and with a minimal exponent
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	mant, exp, hasExp := strings.Cut(s, "e")
	if !strings.Contains(mant, ".") {
		mant += ".0"
	}
	if !hasExp {
		return mant
	}
	sign := exp[:1]
	exp = strings.TrimLeft(exp[1:], "0")
	return mant + "e" + sign + exp
}

// quote produces a JSON style string literal. Non-ASCII characters are kept as is.
func quote(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\b':
			sb.WriteString(`\b`)
		case '\f':
			sb.WriteString(`\f`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&sb, `\u%04x`, r)
				continue
			}
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

// Format returns the diagnostic notation for an item
func Format(it cbor.Item, opts ...Option) string {
	var sb strings.Builder
	p := newPrinter(&sb, opts)
	p.item(it, 0)
	return sb.String()
}

// WriteItem writes the diagnostic notation for an item to w
func WriteItem(w io.Writer, it cbor.Item, opts ...Option) error {
	p := newPrinter(w, opts)
	p.item(it, 0)
	return p.err
}

// Write decodes the CBOR sequence in data and writes one line of diagnostic
// notation per top-level item. Output stops at the first malformed item and
// the decoder error is returned.
func Write(w io.Writer, data []byte, opts ...Option) error {
	p := newPrinter(w, opts)
	d := cbor.NewDecoder(data, p.opts.decodeOpts...)
	for !d.Done() {
		it, err := d.Next()
		if err != nil {
			return err
		}
		p.item(it, 0)
		p.print("\n")
		if p.err != nil {
			return p.err
		}
	}
	return nil
}
