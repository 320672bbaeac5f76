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
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/pflag"

	"github.com/blinklabs-io/minicbor/cbor"
)

var (
	inputFormats   = []string{"raw", "hex", "base64"}
	decompressions = []string{"none", "zstd", "lz4"}
)

type GlobalFlags struct {
	Flagset     *pflag.FlagSet
	InputFormat string
	Decompress  string
	MaxDepth    int
	Debug       bool
}

func NewGlobalFlags(name string) *GlobalFlags {
	f := &GlobalFlags{
		Flagset: pflag.NewFlagSet(name, pflag.ContinueOnError),
	}
	f.Flagset.StringVarP(
		&f.InputFormat,
		"input-format",
		"f",
		"raw",
		"input encoding: raw, hex or base64",
	)
	f.Flagset.StringVar(
		&f.Decompress,
		"decompress",
		"none",
		"decompress input before decoding: none, zstd or lz4",
	)
	f.Flagset.IntVar(
		&f.MaxDepth,
		"max-depth",
		cbor.DefaultMaxNestedLevels,
		"maximum nesting depth of arrays, maps and tags",
	)
	f.Flagset.BoolVar(&f.Debug, "debug", false, "enable debug logging")
	return f
}

// Parse parses the command line and validates the common options
func (f *GlobalFlags) Parse(args []string) error {
	if err := f.Flagset.Parse(args); err != nil {
		return err
	}
	if !slices.Contains(inputFormats, f.InputFormat) {
		return fmt.Errorf("invalid input format: %s", f.InputFormat)
	}
	if !slices.Contains(decompressions, f.Decompress) {
		return fmt.Errorf("invalid decompression: %s", f.Decompress)
	}
	if f.MaxDepth < 1 {
		return errors.New("max depth must be at least 1")
	}
	return nil
}

// Logger returns a text logger on w at the level selected by --debug
func (f *GlobalFlags) Logger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if f.Debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// DecoderOptions returns the decoder limits selected on the command line
func (f *GlobalFlags) DecoderOptions() []cbor.DecoderOptionFunc {
	return []cbor.DecoderOptionFunc{
		cbor.WithMaxNestedLevels(f.MaxDepth),
	}
}
