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

// decode decodes the stream in src. If dry is set, no output is produced.
// It returns the output and the number of bytes consumed.
func decode(src []byte, dry bool) ([]byte, int) {
	if len(src) < 5 {
		panicf(errors.Corrupted, "truncated header")
	}
	width := int(src[0]) - tagBase
	if src[0]&0xf0 != tagBase || checkWidth(width) != nil {
		panicf(errors.Corrupted, "invalid tag: 0x%02x", src[0])
	}
	size := internal.GetUint24(src[1:])
	tableEnd := 4 + (int(src[4])+1)*2
	if tableEnd > len(src) {
		panicf(errors.Corrupted, "truncated tree table")
	}
	table := src[4:tableEnd]

	var dst []byte
	if !dry {
		dst = make([]byte, 0, size)
	}
	if size == 0 {
		return dst, tableEnd
	}

	var pr prefix.Reader
	pr.Init(src[tableEnd:], prefix.MSBFirst, binary.LittleEndian)
	readSymbol := func() byte {
		i := 1
		for {
			b := table[i]
			c := (i &^ 1) + 2*int(b&maxOffset) + 2
			if c+1 >= len(table) {
				panicf(errors.Corrupted, "tree node offset out of range")
			}
			if pr.ReadBit() {
				if b&rightLeaf != 0 {
					return table[c+1]
				}
				i = c + 1
			} else {
				if b&leftLeaf != 0 {
					return table[c]
				}
				i = c
			}
		}
	}

	for n := 0; n < size; n++ {
		var v byte
		if width == 8 {
			v = readSymbol()
		} else {
			lo, hi := readSymbol(), readSymbol()
			if lo > 0x0f || hi > 0x0f {
				panicf(errors.Corrupted, "invalid 4-bit symbol")
			}
			v = hi<<4 | lo
		}
		if !dry {
			dst = append(dst, v)
		}
	}
	return dst, tableEnd + pr.Offset()
}

// Decompress decodes a Huffman stream of either symbol width.
func Decompress(src []byte) (dst []byte, err error) {
	defer errors.Recover(&err)
	dst, _ = decode(src, false)
	return dst, nil
}

// IsCompressed reports whether src is a well-formed Huffman stream.
func IsCompressed(src []byte) (ok bool) {
	var err error
	defer func() { ok = err == nil }()
	defer errors.Recover(&err)
	if _, n := decode(src, true); len(src)-n > maxTrailing {
		panicf(errors.Corrupted, "too many trailing bytes")
	}
	return
}

// Width reports the symbol width declared by the header of src, or zero if
// src does not start with a Huffman header.
func Width(src []byte) int {
	if len(src) < 1 || src[0]&0xf0 != tagBase {
		return 0
	}
	if w := int(src[0]) - tagBase; checkWidth(w) == nil {
		return w
	}
	return 0
}
