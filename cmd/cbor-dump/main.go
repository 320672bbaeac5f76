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

// cbor-dump decodes CBOR input and prints each top-level item of the sequence
// in diagnostic notation, JSON or YAML
package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/spf13/pflag"

	"github.com/blinklabs-io/minicbor/cbor"
	"github.com/blinklabs-io/minicbor/cmd/common"
)

var outputFormats = []string{"diag", "json", "yaml"}

type dumpFlags struct {
	*common.GlobalFlags
	Output string
	Pretty bool
	Hash   string
}

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer, stderr io.Writer) error {
	f := dumpFlags{
		GlobalFlags: common.NewGlobalFlags("cbor-dump"),
	}
	f.Flagset.SetOutput(stderr)
	f.Flagset.StringVarP(
		&f.Output,
		"output",
		"o",
		"diag",
		"output format: diag, json or yaml",
	)
	f.Flagset.BoolVarP(&f.Pretty, "pretty", "p", false, "indent nested structures")
	f.Flagset.StringVar(
		&f.Hash,
		"hash",
		"none",
		"digest of each item's encoded bytes: none, blake2b-256, blake3 or sha256",
	)
	if err := f.Parse(args); err != nil {
		return err
	}
	if !slices.Contains(outputFormats, f.Output) {
		return fmt.Errorf("invalid output format: %s", f.Output)
	}
	hasher, err := newHasher(f.Hash)
	if err != nil {
		return err
	}
	logger := f.Logger(stderr)

	data, err := f.ReadInput(f.Flagset.Args(), stdin)
	if err != nil {
		return err
	}
	logger.Debug("read input", "bytes", len(data), "format", f.InputFormat)

	out := bufio.NewWriter(stdout)
	var printer itemPrinter
	switch f.Output {
	case "json":
		printer = newJSONPrinter(out, f.Pretty)
	case "yaml":
		printer = newYAMLPrinter(out)
	default:
		printer = newDiagPrinter(out, f.Pretty)
	}

	d := cbor.NewDecoder(data, f.DecoderOptions()...)
	count := 0
	for !d.Done() {
		it, err := d.Next()
		if err != nil {
			// Keep whatever was decoded before the bad item
			_ = out.Flush()
			return fmt.Errorf("item %d: %w", count, err)
		}
		var digest string
		if hasher != nil {
			digest = hasher(it.Raw())
		}
		if err := printer.Print(it, digest); err != nil {
			_ = out.Flush()
			return fmt.Errorf("item %d: %w", count, err)
		}
		logger.Debug(
			"decoded item",
			"index",
			count,
			"offset",
			it.Offset(),
			"size",
			it.Len(),
			"kind",
			it.Kind().String(),
		)
		count++
	}
	if err := printer.Close(); err != nil {
		return err
	}
	return out.Flush()
}
