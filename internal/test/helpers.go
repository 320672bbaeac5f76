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

package test

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// DecodeHexString is a helper function for tests that decodes hex strings. It doesn't return
// an error value, which makes it usable inline. Whitespace anywhere in the input is ignored
// so that long values can be split to show their structure.
func DecodeHexString(hexData string) []byte {
	hexData = strings.Join(strings.Fields(hexData), "")
	decoded, err := hex.DecodeString(hexData)
	if err != nil {
		panic(fmt.Sprintf("error decoding hex: %s", err))
	}
	return decoded
}

// Truncations returns every proper prefix of data, shortest first
func Truncations(data []byte) [][]byte {
	ret := make([][]byte, 0, len(data))
	for i := range len(data) {
		ret = append(ret, data[:i:i])
	}
	return ret
}

// Fixture data shared by tests and benchmarks
const (
	// A 58-byte map of 7 pairs with integer keys
	SevenPairMapHex = "a7" +
		"0a" + "48948f8860d13a463e" + // 10: h'948f8860d13a463e'
		"190100" + "500198f50a4ff6c05861c8860d13a638ea" + // 256: 16 byte string
		"190102" + "19faf2" + // 258: 64242
		"190105" + "03" + // 261: 3
		"190106" + "f5" + // 262: true
		"190107" + "03" + // 263: 3
		"190104" + "8263332e3101" // 260: ["3.1", 1]
)
