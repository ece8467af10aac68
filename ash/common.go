// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package ash implements the ASH0 compressed data format.
//
// An ASH0 stream has a 12-byte header followed by two bit-streams:
//
//	0x00  "ASH0"
//	0x04  uncompressed size (big-endian, at most 0xffffff)
//	0x08  offset of the distance stream (big-endian)
//	0x0c  literal/length stream
//	      distance stream
//
// Both streams are packed MSB first into big-endian 32-bit words and each
// begins with its Huffman tree in pre-order, where a 1 bit is a branch and a
// 0 bit is a leaf followed by its symbol. Literal/length symbols are 9 bits:
// values below 256 are literals and the rest are lengths offset by 253.
// Distance symbols are 11 bits and store the distance minus one.
package ash

import (
	"fmt"

	"github.com/nitrotools/compress/internal/errors"
	"github.com/nitrotools/compress/internal/lz"
)

const Magic = "ASH0"

const (
	headerSize = 12

	litBits     = 9
	distBits    = 11
	numLitSyms  = 1 << litBits
	numDistSyms = 1 << distBits

	minLength   = 3
	maxLength   = numLitSyms - 256 + minLength - 1
	maxDistance = numDistSyms

	maxCodeBits  = 24
	maxExpansion = 1032 // 258 bytes per 2 bits
	maxTrailing  = 7
)

var matchConfig = lz.Config{
	MinLength:   minLength,
	MaxLength:   maxLength,
	MinDistance: 1,
	MaxDistance: maxDistance,
}

func errorf(c int, f string, a ...interface{}) error {
	return errors.Error{Code: c, Pkg: "ash", Msg: fmt.Sprintf(f, a...)}
}

func panicf(c int, f string, a ...interface{}) {
	errors.Panic(errorf(c, f, a...))
}
