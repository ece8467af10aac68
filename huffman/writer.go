// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package huffman

import (
	"encoding/binary"

	"github.com/nitrotools/compress/internal"
	"github.com/nitrotools/compress/internal/errors"
	"github.com/nitrotools/compress/internal/prefix"
)

// symbols splits src into symbols of the given width. In 4-bit mode, the low
// nibble of each byte comes first.
func symbols(src []byte, width int) []byte {
	if width == 8 {
		return src
	}
	syms := make([]byte, 0, 2*len(src))
	for _, b := range src {
		syms = append(syms, b&0x0f, b>>4)
	}
	return syms
}

// Compress encodes src as a Huffman stream using symbols of width 4 or 8.
func Compress(src []byte, width int) ([]byte, error) {
	if err := checkWidth(width); err != nil {
		return nil, err
	}
	if len(src) > internal.MaxUint24 {
		return nil, errorf(errors.Invalid, "input too large: %d bytes", len(src))
	}

	syms := symbols(src, width)
	freqs := make([]uint32, 1<<uint(width))
	for _, s := range syms {
		freqs[s]++
	}
	tree := prefix.BuildTreeLimited(freqs, maxCodeBits)
	table, err := serializeTree(&tree)
	if err != nil {
		return nil, err
	}
	codes := tree.Codes(len(freqs))

	dst := internal.AppendHeader(nil, byte(tagBase|width), len(src))
	dst = append(dst, table...)
	pw := prefix.NewWriter(prefix.MSBFirst, binary.LittleEndian)
	for _, s := range syms {
		pw.WriteCode(codes[s])
	}
	return pw.AppendBytes(dst), nil
}
