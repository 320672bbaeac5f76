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

package common

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// ReadInput reads the file named by the first argument, or stdin when there
// is none or it is "-", and undoes the selected text encoding and compression
func (f *GlobalFlags) ReadInput(args []string, stdin io.Reader) ([]byte, error) {
	var data []byte
	var err error
	switch {
	case len(args) > 1:
		return nil, fmt.Errorf("expected at most one input file, got %d", len(args))
	case len(args) == 1 && args[0] != "-":
		data, err = os.ReadFile(args[0])
	default:
		data, err = io.ReadAll(stdin)
	}
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	if data, err = decodeText(data, f.InputFormat); err != nil {
		return nil, err
	}
	return decompress(data, f.Decompress)
}

func stripSpace(data []byte) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, string(data))
}

func decodeText(data []byte, format string) ([]byte, error) {
	switch format {
	case "hex":
		ret, err := hex.DecodeString(stripSpace(data))
		if err != nil {
			return nil, fmt.Errorf("decode hex input: %w", err)
		}
		return ret, nil
	case "base64":
		s := stripSpace(data)
		var err error
		// Padding and alphabet vary between producers
		for _, enc := range []*base64.Encoding{
			base64.StdEncoding,
			base64.RawStdEncoding,
			base64.URLEncoding,
			base64.RawURLEncoding,
		} {
			var ret []byte
			if ret, err = enc.DecodeString(s); err == nil {
				return ret, nil
			}
		}
		return nil, fmt.Errorf("decode base64 input: %w", err)
	default:
		return data, nil
	}
}

func decompress(data []byte, method string) ([]byte, error) {
	switch method {
	case "zstd":
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		ret, err := dec.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("zstd decompress: %w", err)
		}
		return ret, nil
	case "lz4":
		ret, err := io.ReadAll(lz4.NewReader(bytes.NewReader(data)))
		if err != nil {
			return nil, fmt.Errorf("lz4 decompress: %w", err)
		}
		return ret, nil
	default:
		return data, nil
	}
}
