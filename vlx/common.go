// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package vlx implements the VLX compressed data format.
//
// A VLX stream starts with a variable width size field:
//
//	byte 0     size field width W (1, 2, or 4)
//	1..W       uncompressed size, little-endian
//	W+1        low nibble: number of length classes (1..12)
//	           high nibble: number of distance classes (0..12)
//
// The remainder is a bit-stream packed MSB first into big-endian 32-bit words.
// It begins with a 4-bit code length for every length class, followed by
// one for every distance class, and then the tokens.
//
// Values are bucketed by their power of two. Length class 0 is a literal and
// is followed by 8 raw bits. Length class k (1..11) covers the lengths
// 2+2^(k-1) up to 2+2^k-1 and is followed by k-1 extra bits. Distance class j
// (0..11) covers 2^j up to 2^(j+1)-1 and is followed by j extra bits.
package vlx

import (
	"fmt"

	"github.com/nitrotools/compress/internal/errors"
	"github.com/nitrotools/compress/internal/lz"
	"github.com/nitrotools/compress/internal/prefix"
)

const (
	numLenClasses  = 12
	numDistClasses = 12
	maxCodeBits    = 15

	minLength   = 3
	maxLength   = 2049
	maxDistance = 4095

	maxSize      = 1<<32 - 1
	maxExpansion = 1400 // 2049 bytes per 12 bits
	maxTrailing  = 7
)

var (
	lenRanges  = prefix.MakeRangeCodes(minLength, []uint{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10})
	distRanges = prefix.MakeRangeCodes(1, []uint{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11})
)

func init() {
	if !lenRanges.Valid() || !distRanges.Valid() {
		panic("vlx: invalid range codes")
	}
}

var matchConfig = lz.Config{
	MinLength:   minLength,
	MaxLength:   maxLength,
	MinDistance: 1,
	MaxDistance: maxDistance,
}

func errorf(c int, f string, a ...interface{}) error {
	return errors.Error{Code: c, Pkg: "vlx", Msg: fmt.Sprintf(f, a...)}
}

func panicf(c int, f string, a ...interface{}) {
	errors.Panic(errorf(c, f, a...))
}

// sizeWidth returns the narrowest size field able to hold n.
func sizeWidth(n int) int {
	switch {
	case n <= 0xff:
		return 1
	case n <= 0xffff:
		return 2
	default:
		return 4
	}
}
