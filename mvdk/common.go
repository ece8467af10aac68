// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package mvdk implements the MvDK container format, which selects the best
// of four encodings for an entire buffer.
//
// The stream begins with a little-endian 32-bit word holding the
// uncompressed size shifted left by 2, with the encoding mode in the lower
// 2 bits. The modes are:
//
//	0  stored as is
//	1  LZ77 token stream (as in the 0x10 format, without its header)
//	2  RLE run stream (as in the 0x30 format, without its header)
//	3  LZ77 with two canonical Huffman codes, one for literals and lengths
//	   and one for distances, using the DEFLATE length and distance brackets
package mvdk

import (
	"fmt"

	"github.com/nitrotools/compress/internal/errors"
	"github.com/nitrotools/compress/internal/prefix"
)

const (
	ModeStored = iota
	ModeLZ77
	ModeRLE
	ModeHuffman
)

const (
	maxSize = 1<<30 - 1

	// DefaultPasses is the number of refinement passes used by the Huffman
	// mode when Config.Passes is zero.
	DefaultPasses = 2

	maxTrailing = 7
)

// Largest possible number of output bytes produced per input byte of each
// mode, used to reject declared sizes that cannot possibly be reached.
var maxExpansion = [...]int{
	ModeStored:  1,
	ModeLZ77:    9,   // 18 bytes per 2-byte reference
	ModeRLE:     65,  // 130 bytes per 2-byte run
	ModeHuffman: 296, // 258 bytes per 7 bits
}

const (
	numLitSyms  = 256
	numLenSyms  = 28
	numDistSyms = 30
	maxLitLen   = numLitSyms + numLenSyms

	minMatch    = 3
	maxMatch    = 258
	maxDistance = 32768

	maxCodeBits = 15
	absentBits  = 16 // Price of a symbol that has no code yet
)

var (
	lenRanges  prefix.RangeCodes
	distRanges prefix.RangeCodes
)

func init() {
	// Identical to DEFLATE, except that the final length code spans
	// 227..258 instead of having a dedicated code for 258.
	lenRanges = prefix.MakeRangeCodes(minMatch, []uint{
		0, 0, 0, 0, 0, 0, 0, 0, 1, 1, 1, 1, 2, 2, 2, 2,
		3, 3, 3, 3, 4, 4, 4, 4, 5, 5, 5, 5,
	})
	distRanges = prefix.MakeRangeCodes(1, []uint{
		0, 0, 0, 0, 1, 1, 2, 2, 3, 3, 4, 4, 5, 5, 6, 6,
		7, 7, 8, 8, 9, 9, 10, 10, 11, 11, 12, 12, 13, 13,
	})
	if !lenRanges.Valid() || !distRanges.Valid() {
		panic("mvdk: invalid range codes")
	}
}

// Config configures the encoder.
type Config struct {
	// Passes is the number of times the Huffman mode re-tokenizes the input
	// using the code lengths of the previous pass. If zero, DefaultPasses is
	// used. If negative, only the initial tokenization is performed.
	Passes int
}

func errorf(c int, f string, a ...interface{}) error {
	return errors.Error{Code: c, Pkg: "mvdk", Msg: fmt.Sprintf(f, a...)}
}

func panicf(c int, f string, a ...interface{}) {
	errors.Panic(errorf(c, f, a...))
}
