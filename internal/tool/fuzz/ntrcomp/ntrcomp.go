// Copyright 2016, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

//go:build gofuzz
// +build gofuzz

package ntrcomp

import (
	"bytes"

	"github.com/nitrotools/compress"
	"github.com/nitrotools/compress/internal/errors"
)

// Inputs larger than this are only decoded, since the optimal parsers take
// too long to keep the fuzzer productive.
const maxEncodeSize = 1 << 14

func Fuzz(data []byte) int {
	ok := testDecoders(data)
	if len(data) <= maxEncodeSize {
		testEncoders(data)
	}
	if ok {
		return 1 // Favor valid inputs
	}
	return 0
}

// testDecoders checks that every validator agrees with its decoder and that
// detection only reports formats whose validator accepts the input.
func testDecoders(data []byte) bool {
	var valid bool
	for _, t := range compress.Types() {
		isComp := compress.IsCompressed(data, t)
		output, err := compress.Decompress(data, t)
		switch {
		case isComp && err != nil:
			panic(err)
		case err != nil && !errors.IsCorrupted(err):
			panic(err)
		case isComp:
			valid = true
			if len(output) <= maxEncodeSize {
				testRoundTrip(output, t)
			}
		}
	}
	if t := compress.Identify(data); t != compress.TypeNone && !compress.IsCompressed(data, t) {
		panic("detected format rejects the input")
	}
	return valid
}

// testEncoders checks that the input survives a round-trip through every
// format.
func testEncoders(data []byte) {
	for _, t := range compress.Types() {
		testRoundTrip(data, t)
	}
}

func testRoundTrip(data []byte, t compress.Type) {
	comp, err := compress.Compress(data, t)
	if err != nil {
		panic(err)
	}
	if !compress.IsCompressed(comp, t) {
		panic("compressed output not recognized")
	}
	output, err := compress.Decompress(comp, t)
	if err != nil {
		panic(err)
	}
	if !bytes.Equal(output, data) {
		panic("mismatching bytes")
	}
}
