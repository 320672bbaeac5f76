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
	// Registers the algorithm behind digest.Canonical
	_ "crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/opencontainers/go-digest"
	"github.com/zeebo/blake3"
	"golang.org/x/crypto/blake2b"
)

type hashFunc func([]byte) string

// newHasher returns nil for "none"
func newHasher(name string) (hashFunc, error) {
	switch name {
	case "none", "":
		return nil, nil
	case "blake2b-256":
		return func(data []byte) string {
			sum := blake2b.Sum256(data)
			return "blake2b-256:" + hex.EncodeToString(sum[:])
		}, nil
	case "blake3":
		return func(data []byte) string {
			sum := blake3.Sum256(data)
			return "blake3:" + hex.EncodeToString(sum[:])
		}, nil
	case "sha256":
		return func(data []byte) string {
			return digest.FromBytes(data).String()
		}, nil
	default:
		return nil, fmt.Errorf("invalid hash: %s", name)
	}
}
