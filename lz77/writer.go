// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package lz77

import (
	"github.com/nitrotools/compress/internal"
	"github.com/nitrotools/compress/internal/bytebuf"
	"github.com/nitrotools/compress/internal/errors"
	"github.com/nitrotools/compress/internal/lz"
)

// Tokenize returns the optimal sequence of tokens for src under the length
// and distance limits of this format.
func Tokenize(src []byte) []lz.Token {
	return lz.Tokenize(src, matchConfig, tokenCost)
}

// AppendBody appends the headerless token stream for src to dst.
func AppendBody(dst, src []byte) []byte {
	b := bytebuf.NewBuilder(dst)
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
			l, d := tok.Length-minLength, tok.Distance-1
			b.WriteByte(byte(l<<4 | d>>8))
			b.WriteByte(byte(d))
		}
		pos += tok.Length
	}
	return b.Bytes()
}

// Compress encodes src as an LZ77 stream with a tag header. The output is
// padded with zeros to a multiple of 4 bytes.
func Compress(src []byte) ([]byte, error) {
	if len(src) > internal.MaxUint24 {
		return nil, errorf(errors.Invalid, "input too large: %d bytes", len(src))
	}
	dst := internal.AppendHeader(nil, Tag, len(src))
	dst = AppendBody(dst, src)
	return append(dst, make([]byte, internal.PadLen(len(dst), 4))...), nil
}

// CompressMagic encodes src as an LZ77 stream prefixed by the "LZ77" magic.
func CompressMagic(src []byte) ([]byte, error) {
	dst, err := Compress(src)
	if err != nil {
		return nil, err
	}
	return append([]byte(Magic), dst...), nil
}
