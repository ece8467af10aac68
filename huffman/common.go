// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package huffman implements the Huffman (type 0x24 and 0x28) compressed data
// format used by the GBA and DS BIOS decompression routines.
//
// The stream consists of a 4-byte header (0x20 plus the symbol width, then
// the 24-bit uncompressed size), the serialized tree, and the bit-stream.
// The tree table starts with a size byte T and occupies (T+1)*2 bytes.
// Each internal node stores a 6-bit offset to the pair of its children and
// two flags marking whether the left (bit 7) or right (bit 6) child is a leaf.
// The children of the node at table index i are at (i &^ 1) + 2*offset + 2.
// The bit-stream is a sequence of 32-bit little-endian words read starting
// from the most-significant bit.
package huffman

import (
	"fmt"

	"github.com/nitrotools/compress/internal/errors"
)

const (
	tagBase = 0x20

	maxOffset = 0x3f
	leftLeaf  = 0x80
	rightLeaf = 0x40

	// maxCodeBits is the deepest permitted tree, which is only approached
	// for very large inputs with Fibonacci-like frequencies.
	maxCodeBits = 32

	maxTrailing = 7
)

func errorf(c int, f string, a ...interface{}) error {
	return errors.Error{Code: c, Pkg: "huffman", Msg: fmt.Sprintf(f, a...)}
}

func panicf(c int, f string, a ...interface{}) {
	errors.Panic(errorf(c, f, a...))
}

func checkWidth(width int) error {
	if width != 4 && width != 8 {
		return errorf(errors.Invalid, "invalid symbol width: %d", width)
	}
	return nil
}
