// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package lz11 implements the LZ11 (type 0x11) compressed data format used by
// the DS BIOS decompression routines and the segmented "COMP" container built
// on top of it.
//
// LZ11 shares the framing of LZ77: a tag byte, a 24-bit uncompressed size,
// and groups of 8 tokens each preceded by a flag byte. Back-references are
// encoded in one of three brackets selected by the high nibble of the first
// token byte:
//
//	0x2..0xF  length 3..16      2 bytes
//	0x0       length 17..272    3 bytes
//	0x1       length 273..65808 4 bytes
//
// In every bracket, the final 12 bits store the distance minus one.
package lz11

import (
	"fmt"

	"github.com/nitrotools/compress/internal/errors"
	"github.com/nitrotools/compress/internal/lz"
)

const (
	Tag = 0x11

	minLength   = 3
	maxLength   = 65808
	minDistance = 1
	maxDistance = 4096

	bracket1 = 16  // Longest length with a 2-byte token
	bracket2 = 272 // Longest length with a 3-byte token

	maxTrailing = 7
)

var matchConfig = lz.Config{
	MinLength:   minLength,
	MaxLength:   maxLength,
	MinDistance: minDistance,
	MaxDistance: maxDistance,
}

func errorf(c int, f string, a ...interface{}) error {
	return errors.Error{Code: c, Pkg: "lz11", Msg: fmt.Sprintf(f, a...)}
}

func panicf(c int, f string, a ...interface{}) {
	errors.Panic(errorf(c, f, a...))
}

func tokenCost(_, length, distance int) (int, bool) {
	switch {
	case distance == 0:
		return 1 + 8, true
	case length < minLength || length > maxLength:
		return 0, false
	case length <= bracket1:
		return 1 + 16, true
	case length <= bracket2:
		return 1 + 24, true
	default:
		return 1 + 32, true
	}
}
