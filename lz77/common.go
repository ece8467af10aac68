// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package lz77 implements the LZ77 (type 0x10) compressed data format used by
// the GBA and DS BIOS decompression routines, along with the variant that is
// prefixed by an "LZ77" magic string.
//
// The stream consists of a 4-byte header (the tag byte followed by the
// little-endian 24-bit uncompressed size) and a sequence of token groups.
// Each group starts with a flag byte whose bits, read from the most
// significant bit, mark each of the following 8 tokens as either a literal
// byte (0) or a 2-byte back-reference (1).
package lz77

import (
	"fmt"

	"github.com/nitrotools/compress/internal/errors"
	"github.com/nitrotools/compress/internal/lz"
)

const (
	Tag   = 0x10
	Magic = "LZ77"

	minLength   = 3
	maxLength   = 18
	minDistance = 2 // Distance 1 is valid but avoided for old decoders
	maxDistance = 4096

	// maxTrailing is the number of unconsumed bytes that a validator permits
	// after the end of the token stream.
	maxTrailing = 7
)

var matchConfig = lz.Config{
	MinLength:   minLength,
	MaxLength:   maxLength,
	MinDistance: minDistance,
	MaxDistance: maxDistance,
}

func errorf(c int, f string, a ...interface{}) error {
	return errors.Error{Code: c, Pkg: "lz77", Msg: fmt.Sprintf(f, a...)}
}

func panicf(c int, f string, a ...interface{}) {
	errors.Panic(errorf(c, f, a...))
}

// tokenCost is the number of bits each token occupies, including its bit
// within the flag byte.
func tokenCost(_, length, distance int) (int, bool) {
	switch {
	case distance == 0:
		return 1 + 8, true
	case length >= minLength && length <= maxLength:
		return 1 + 16, true
	}
	return 0, false
}
