// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package lz77

import (
	"github.com/nitrotools/compress/internal"
	"github.com/nitrotools/compress/internal/errors"
)

// decodeBody decodes a token stream until size bytes have been produced.
// If dry is set, no output is produced and only the structure is verified.
// It returns the output and the number of bytes of src consumed.
func decodeBody(src []byte, size int, dry bool) ([]byte, int) {
	var dst []byte
	if !dry {
		dst = make([]byte, 0, size)
	}

	var rd, pos int
	var flags byte
	var nflags int
	for pos < size {
		if nflags == 0 {
			if rd >= len(src) {
				panicf(errors.Corrupted, "missing flag byte")
			}
			flags, nflags = src[rd], 8
			rd++
		}

		if flags&0x80 == 0 {
			if rd >= len(src) {
				panicf(errors.Corrupted, "missing literal")
			}
			if !dry {
				dst = append(dst, src[rd])
			}
			rd++
			pos++
		} else {
			if rd+2 > len(src) {
				panicf(errors.Corrupted, "truncated back-reference")
			}
			b0, b1 := int(src[rd]), int(src[rd+1])
			rd += 2
			length := b0>>4 + minLength
			dist := (b0&0x0f)<<8 | b1 + 1
			if dist > pos {
				panicf(errors.Corrupted, "distance %d before start of output", dist)
			}
			if pos+length > size {
				panicf(errors.Corrupted, "back-reference overruns declared size")
			}
			if !dry {
				for i := 0; i < length; i++ {
					dst = append(dst, dst[len(dst)-dist])
				}
			}
			pos += length
		}
		flags <<= 1
		nflags--
	}
	return dst, rd
}

// DecodeBody decodes a headerless token stream of size bytes.
// It returns the output and the number of input bytes consumed.
func DecodeBody(src []byte, size int) (dst []byte, n int, err error) {
	defer errors.Recover(&err)
	dst, n = decodeBody(src, size, false)
	return dst, n, nil
}

// ScanBody verifies a headerless token stream of size bytes without producing
// any output and reports the number of input bytes consumed.
func ScanBody(src []byte, size int) (n int, err error) {
	defer errors.Recover(&err)
	_, n = decodeBody(src, size, true)
	return n, nil
}

func readHeader(src []byte) int {
	if len(src) < 4 {
		panicf(errors.Corrupted, "truncated header")
	}
	if src[0] != Tag {
		panicf(errors.Corrupted, "invalid tag: 0x%02x", src[0])
	}
	return internal.GetUint24(src[1:])
}

// Decompress decodes an LZ77 stream with a tag header.
func Decompress(src []byte) (dst []byte, err error) {
	defer errors.Recover(&err)
	size := readHeader(src)
	dst, _ = decodeBody(src[4:], size, false)
	return dst, nil
}

// IsCompressed reports whether src is a well-formed LZ77 stream.
// The entire stream is decoded without producing output, and at most a few
// bytes of padding may follow the last token.
func IsCompressed(src []byte) (ok bool) {
	var err error
	defer func() { ok = err == nil }()
	defer errors.Recover(&err)
	size := readHeader(src)
	_, n := decodeBody(src[4:], size, true)
	if len(src)-4-n > maxTrailing {
		panicf(errors.Corrupted, "too many trailing bytes")
	}
	return
}

func stripMagic(src []byte) []byte {
	if len(src) < len(Magic) || string(src[:len(Magic)]) != Magic {
		panicf(errors.Corrupted, "missing %q magic", Magic)
	}
	return src[len(Magic):]
}

// DecompressMagic decodes an LZ77 stream prefixed by the "LZ77" magic.
func DecompressMagic(src []byte) (dst []byte, err error) {
	defer errors.Recover(&err)
	src = stripMagic(src)
	size := readHeader(src)
	dst, _ = decodeBody(src[4:], size, false)
	return dst, nil
}

// IsCompressedMagic reports whether src is a well-formed LZ77 stream
// prefixed by the "LZ77" magic.
func IsCompressedMagic(src []byte) bool {
	return len(src) >= len(Magic) && string(src[:len(Magic)]) == Magic &&
		IsCompressed(src[len(Magic):])
}
