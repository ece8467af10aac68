// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package compress identifies buffers compressed with any of the formats
// implemented by this module and routes them to the matching codec.
//
// Detection tries every format validator in a fixed order and reports the
// first one that accepts the buffer. Formats with a magic string or a tag
// byte are tried before those with looser headers. Compress and Decompress
// never detect anything themselves, so untrusted input should be passed
// through Identify or IsCompressed first.
package compress

import (
	"fmt"
	"strings"

	"github.com/nitrotools/compress/ash"
	"github.com/nitrotools/compress/diff"
	"github.com/nitrotools/compress/huffman"
	"github.com/nitrotools/compress/internal/errors"
	"github.com/nitrotools/compress/lz11"
	"github.com/nitrotools/compress/lz77"
	"github.com/nitrotools/compress/mvdk"
	"github.com/nitrotools/compress/rle"
	"github.com/nitrotools/compress/vlx"
)

// Type identifies a compressed data format.
type Type int

const (
	TypeNone       Type = iota
	TypeLZ77            // LZ77 (tag 0x10)
	TypeLZ11            // LZ11 (tag 0x11)
	TypeLZ11COMP        // Segmented LZ11 ("COMP" or "PMOC")
	TypeLZ77Header      // LZ77 behind a "LZ77" magic
	TypeHuffman4        // Huffman with 4-bit symbols (tag 0x24)
	TypeHuffman8        // Huffman with 8-bit symbols (tag 0x28)
	TypeRLE             // Run-length encoding (tag 0x30)
	TypeDiff8           // 8-bit difference filter (tag 0x80)
	TypeDiff16          // 16-bit difference filter (tag 0x81)
	TypeMvDK
	TypeVLX
	TypeASH
)

type codec struct {
	typ        Type
	name       string
	validate   func([]byte) bool
	compress   func([]byte) ([]byte, error)
	decompress func([]byte) ([]byte, error)
}

// formats lists every codec in detection order.
var formats = []codec{
	{TypeASH, "ash", ash.IsCompressed, ash.Compress, ash.Decompress},
	{TypeLZ11COMP, "lz11-comp", lz11.IsSegmented, lz11.CompressSegmented, lz11.DecompressSegmented},
	{TypeLZ77Header, "lz77-header", lz77.IsCompressedMagic, lz77.CompressMagic, lz77.DecompressMagic},
	{TypeLZ11, "lz11", lz11.IsCompressed, lz11.Compress, lz11.Decompress},
	{TypeLZ77, "lz77", lz77.IsCompressed, lz77.Compress, lz77.Decompress},
	{TypeHuffman8, "huffman8", hasWidth(huffman.IsCompressed, huffman.Width, 8), withWidth(huffman.Compress, 8), huffman.Decompress},
	{TypeHuffman4, "huffman4", hasWidth(huffman.IsCompressed, huffman.Width, 4), withWidth(huffman.Compress, 4), huffman.Decompress},
	{TypeRLE, "rle", rle.IsCompressed, rle.Compress, rle.Decompress},
	{TypeDiff16, "diff16", hasWidth(diff.IsCompressed, diff.Width, 16), withWidth(diff.Compress, 16), diff.Decompress},
	{TypeDiff8, "diff8", hasWidth(diff.IsCompressed, diff.Width, 8), withWidth(diff.Compress, 8), diff.Decompress},
	{TypeVLX, "vlx", vlx.IsCompressed, vlx.Compress, vlx.Decompress},
	{TypeMvDK, "mvdk", mvdk.IsCompressed, mvdk.Compress, mvdk.Decompress},
}

func hasWidth(valid func([]byte) bool, width func([]byte) int, w int) func([]byte) bool {
	return func(b []byte) bool { return width(b) == w && valid(b) }
}

func withWidth(comp func([]byte, int) ([]byte, error), w int) func([]byte) ([]byte, error) {
	return func(b []byte) ([]byte, error) { return comp(b, w) }
}

func errorf(c int, f string, a ...interface{}) error {
	return errors.Error{Code: c, Pkg: "compress", Msg: fmt.Sprintf(f, a...)}
}

func lookup(t Type) (*codec, error) {
	for i := range formats {
		if formats[i].typ == t {
			return &formats[i], nil
		}
	}
	return nil, errorf(errors.Invalid, "unknown type: %d", int(t))
}

// Types returns every supported format in detection order.
func Types() []Type {
	ts := make([]Type, len(formats))
	for i, f := range formats {
		ts[i] = f.typ
	}
	return ts
}

func (t Type) String() string {
	if t == TypeNone {
		return "none"
	}
	for _, f := range formats {
		if f.typ == t {
			return f.name
		}
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// ParseType returns the format with the given name, ignoring case.
func ParseType(name string) (Type, error) {
	for _, f := range formats {
		if strings.EqualFold(f.name, name) {
			return f.typ, nil
		}
	}
	return TypeNone, errorf(errors.Invalid, "unknown type name: %q", name)
}

// Identify returns the first format in detection order that accepts src,
// or TypeNone if none do.
func Identify(src []byte) Type {
	for _, f := range formats {
		if f.validate(src) {
			return f.typ
		}
	}
	return TypeNone
}

// IsCompressed reports whether src is a well-formed stream of format t.
func IsCompressed(src []byte, t Type) bool {
	f, err := lookup(t)
	return err == nil && f.validate(src)
}

// Compress encodes src using format t.
func Compress(src []byte, t Type) ([]byte, error) {
	f, err := lookup(t)
	if err != nil {
		return nil, err
	}
	return f.compress(src)
}

// Decompress decodes src, which must be a stream of format t.
func Decompress(src []byte, t Type) ([]byte, error) {
	f, err := lookup(t)
	if err != nil {
		return nil, err
	}
	return f.decompress(src)
}
