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

package main

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/blinklabs-io/minicbor/cbor"
	"github.com/blinklabs-io/minicbor/cbor/diag"
	"github.com/blinklabs-io/minicbor/cbor/timetag"
)

type itemPrinter interface {
	// Print writes one top-level item. digest is empty unless hashing was requested.
	Print(it cbor.Item, digest string) error
	Close() error
}

type diagPrinter struct {
	w    io.Writer
	opts []diag.Option
}

func newDiagPrinter(w io.Writer, pretty bool) *diagPrinter {
	p := &diagPrinter{w: w}
	if pretty {
		p.opts = append(p.opts, diag.WithIndent("  "))
	}
	return p
}

func (p *diagPrinter) Print(it cbor.Item, digest string) error {
	if digest != "" {
		// Diagnostic notation comments are delimited by slashes
		if _, err := fmt.Fprintf(p.w, "/ %s / ", digest); err != nil {
			return err
		}
	}
	if err := diag.WriteItem(p.w, it, p.opts...); err != nil {
		return err
	}
	_, err := io.WriteString(p.w, "\n")
	return err
}

func (p *diagPrinter) Close() error {
	return nil
}

// jsonPrinter follows the CBOR to JSON conversion advice of RFC 8949
// section 6.1. Byte strings become base64url text, non-finite floats and
// other simple values become null, and map keys that are not text use their
// diagnostic notation.
type jsonPrinter struct {
	w      io.Writer
	pretty bool
	buf    bytes.Buffer
}

func newJSONPrinter(w io.Writer, pretty bool) *jsonPrinter {
	return &jsonPrinter{w: w, pretty: pretty}
}

func (p *jsonPrinter) Print(it cbor.Item, digest string) error {
	p.buf.Reset()
	if digest != "" {
		p.buf.WriteString(`{"digest":`)
		p.writeString(digest)
		p.buf.WriteString(`,"item":`)
	}
	if err := p.value(it); err != nil {
		return err
	}
	if digest != "" {
		p.buf.WriteByte('}')
	}
	out := p.buf.Bytes()
	if p.pretty {
		var indented bytes.Buffer
		if err := json.Indent(&indented, out, "", "  "); err != nil {
			return err
		}
		out = indented.Bytes()
	}
	if _, err := p.w.Write(out); err != nil {
		return err
	}
	_, err := io.WriteString(p.w, "\n")
	return err
}

func (p *jsonPrinter) Close() error {
	return nil
}

func (p *jsonPrinter) writeString(s string) {
	// Marshaling a string cannot fail
	out, _ := json.Marshal(s)
	p.buf.Write(out)
}

func (p *jsonPrinter) value(it cbor.Item) error {
	switch it.Kind() {
	case cbor.KindUint, cbor.KindNint:
		p.buf.WriteString(it.String())
	case cbor.KindBytes:
		b, _ := it.Bytes()
		p.writeString(base64.RawURLEncoding.EncodeToString(b))
	case cbor.KindText:
		s, _ := it.Text()
		p.writeString(s)
	case cbor.KindArray:
		arr, _ := it.Array()
		p.buf.WriteByte('[')
		for i, elem := range arr.All() {
			if i > 0 {
				p.buf.WriteByte(',')
			}
			if err := p.value(elem); err != nil {
				return err
			}
		}
		p.buf.WriteByte(']')
	case cbor.KindMap:
		m, _ := it.Map()
		p.buf.WriteByte('{')
		first := true
		for k, v := range m.All() {
			if !first {
				p.buf.WriteByte(',')
			}
			first = false
			if k.Kind() == cbor.KindText {
				s, _ := k.Text()
				p.writeString(s)
			} else {
				p.writeString(diag.Format(k))
			}
			p.buf.WriteByte(':')
			if err := p.value(v); err != nil {
				return err
			}
		}
		p.buf.WriteByte('}')
	case cbor.KindTag:
		// Date/time tags with content that is not a valid time are
		// written like any other tag
		if tv, err := timetag.Interpret(it); err == nil && tv.Kind != timetag.KindOther {
			p.writeString(tv.Time.Format(time.RFC3339Nano))
			return nil
		}
		tag, err := it.Tag()
		if err != nil {
			return err
		}
		return p.value(tag.Content)
	case cbor.KindBool:
		v, _ := it.Bool()
		p.buf.WriteString(strconv.FormatBool(v))
	case cbor.KindFloat16, cbor.KindFloat32, cbor.KindFloat64:
		f, _ := it.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			p.buf.WriteString("null")
			return nil
		}
		out, err := json.Marshal(f)
		if err != nil {
			return err
		}
		p.buf.Write(out)
	default:
		p.buf.WriteString("null")
	}
	return nil
}

// yamlPrinter writes one YAML document per item. Map keys of any type and
// binary data have native YAML forms, so the conversion keeps more than JSON.
type yamlPrinter struct {
	enc *yaml.Encoder
}

func newYAMLPrinter(w io.Writer) *yamlPrinter {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	return &yamlPrinter{enc: enc}
}

func (p *yamlPrinter) Print(it cbor.Item, digest string) error {
	node, err := yamlNode(it)
	if err != nil {
		return err
	}
	if digest != "" {
		node.HeadComment = digest
	}
	return p.enc.Encode(node)
}

func (p *yamlPrinter) Close() error {
	return p.enc.Close()
}

func scalarNode(tag string, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

func yamlNode(it cbor.Item) (*yaml.Node, error) {
	switch it.Kind() {
	case cbor.KindUint, cbor.KindNint:
		return scalarNode("!!int", it.String()), nil
	case cbor.KindBytes:
		b, _ := it.Bytes()
		return scalarNode("!!binary", base64.StdEncoding.EncodeToString(b)), nil
	case cbor.KindText:
		s, _ := it.Text()
		return scalarNode("!!str", s), nil
	case cbor.KindArray:
		arr, _ := it.Array()
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, elem := range arr.All() {
			child, err := yamlNode(elem)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, child)
		}
		return node, nil
	case cbor.KindMap:
		m, _ := it.Map()
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for k, v := range m.All() {
			keyNode, err := yamlNode(k)
			if err != nil {
				return nil, err
			}
			valueNode, err := yamlNode(v)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, keyNode, valueNode)
		}
		return node, nil
	case cbor.KindTag:
		if tv, err := timetag.Interpret(it); err == nil && tv.Kind != timetag.KindOther {
			return scalarNode("!!timestamp", tv.Time.Format(time.RFC3339Nano)), nil
		}
		tag, err := it.Tag()
		if err != nil {
			return nil, err
		}
		node, err := yamlNode(tag.Content)
		if err != nil {
			return nil, err
		}
		// Other tags are kept as local YAML tags
		node.Tag = "!" + strconv.FormatUint(tag.Number, 10)
		return node, nil
	case cbor.KindBool:
		v, _ := it.Bool()
		return scalarNode("!!bool", strconv.FormatBool(v)), nil
	case cbor.KindNull, cbor.KindUndefined:
		return scalarNode("!!null", "null"), nil
	case cbor.KindFloat16, cbor.KindFloat32, cbor.KindFloat64:
		f, _ := it.Float()
		var s string
		switch {
		case math.IsNaN(f):
			s = ".nan"
		case math.IsInf(f, 1):
			s = ".inf"
		case math.IsInf(f, -1):
			s = "-.inf"
		default:
			s = strconv.FormatFloat(f, 'g', -1, 64)
		}
		return scalarNode("!!float", s), nil
	case cbor.KindSimple:
		v, _ := it.Simple()
		return scalarNode("!simple", strconv.FormatUint(uint64(v), 10)), nil
	default:
		return nil, fmt.Errorf("%w: cannot convert %s item", cbor.ErrWrongType, it.Kind())
	}
}
