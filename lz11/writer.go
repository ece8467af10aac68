// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package lz11

import (
	"github.com/nitrotools/compress/internal"
	"github.com/nitrotools/compress/internal/bytebuf"
	"github.com/nitrotools/compress/internal/errors"
	"github.com/nitrotools/compress/internal/lz"
)

// Tokenize returns the optimal sequence of tokens for src.
func Tokenize(src []byte) []lz.Token {
	return lz.Tokenize(src, matchConfig, tokenCost)
}

func appendToken(b *bytebuf.Builder, length, dist int) {
	d := dist - 1
	switch {
	case length <= bracket1:
		b.WriteByte(byte((length-1)<<4 | d>>8))
		b.WriteByte(byte(d))
	case length <= bracket2:
		l := length - bracket1 - 1
		b.WriteByte(byte(l >> 4))
		b.WriteByte(byte(l<<4 | d>>8))
		b.WriteByte(byte(d))
	default:
		l := length - bracket2 - 1
		b.WriteByte(byte(0x10 | l>>12))
		b.WriteByte(byte(l >> 4))
		b.WriteByte(byte(l<<4 | d>>8))
		b.WriteByte(byte(d))
	}
}

// Compress encodes src as an LZ11 stream. The output is padded with zeros to
// a multiple of 4 bytes.
func Compress(src []byte) ([]byte, error) {
	if len(src) > internal.MaxUint24 {
		return nil, errorf(errors.Invalid, "input too large: %d bytes", len(src))
	}
	b := bytebuf.NewBuilder(internal.AppendHeader(nil, Tag, len(src)))
	var flags bytebuf.Slot
	var pos int
	for i, tok := range Tokenize(src) {
		if i%8 == 0 {
			flags = b.Reserve(1)
		}
		if tok.IsLiteral() {
			b.WriteByte(src[pos])
		} else {
			b.Slice(flags)[0] |= 0x80 >> uint(i%8)
			appendToken(b, tok.Length, tok.Distance)
		}
		pos += tok.Length
	}
	b.Pad(4)
	return b.Bytes(), nil
}
