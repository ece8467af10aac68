// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package lz11

import (
	"github.com/nitrotools/compress/internal"
	"github.com/nitrotools/compress/internal/errors"
)

func readHeader(src []byte) int {
	if len(src) < 4 {
		panicf(errors.Corrupted, "truncated header")
	}
	if src[0] != Tag {
		panicf(errors.Corrupted, "invalid tag: 0x%02x", src[0])
	}
	return internal.GetUint24(src[1:])
}

// decode decodes the stream in src, including its header. If dry is set, no
// output is produced. It returns the output and the number of bytes consumed.
func decode(src []byte, dry bool) ([]byte, int) {
	size := readHeader(src)
	var dst []byte
	if !dry {
		dst = make([]byte, 0, size)
	}

	rd, pos := 4, 0
	var flags byte
	var nflags int
	need := func(n int) {
		if rd+n > len(src) {
			panicf(errors.Corrupted, "unexpected end of stream")
		}
	}
	for pos < size {
		if nflags == 0 {
			need(1)
			flags, nflags = src[rd], 8
			rd++
		}

		if flags&0x80 == 0 {
			need(1)
			if !dry {
				dst = append(dst, src[rd])
			}
			rd++
			pos++
		} else {
			need(2)
			b0 := int(src[rd])
			var length, dist int
			switch b0 >> 4 {
			case 0:
				need(3)
				b1, b2 := int(src[rd+1]), int(src[rd+2])
				length = ((b0&0x0f)<<4 | b1>>4) + bracket1 + 1
				dist = (b1&0x0f)<<8 | b2
				rd += 3
			case 1:
				need(4)
				b1, b2, b3 := int(src[rd+1]), int(src[rd+2]), int(src[rd+3])
				length = ((b0&0x0f)<<12 | b1<<4 | b2>>4) + bracket2 + 1
				dist = (b2&0x0f)<<8 | b3
				rd += 4
			default:
				b1 := int(src[rd+1])
				length = b0>>4 + 1
				dist = (b0&0x0f)<<8 | b1
				rd += 2
			}
			dist++
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

// Decompress decodes an LZ11 stream.
func Decompress(src []byte) (dst []byte, err error) {
	defer errors.Recover(&err)
	dst, _ = decode(src, false)
	return dst, nil
}

// Advance performs a dry-run decode of the LZ11 stream at the start of src
// and reports the number of bytes the stream occupies, excluding padding.
func Advance(src []byte) (n int, err error) {
	defer errors.Recover(&err)
	_, n = decode(src, true)
	return n, nil
}

// IsCompressed reports whether src is a well-formed LZ11 stream.
func IsCompressed(src []byte) bool {
	n, err := Advance(src)
	return err == nil && len(src)-n <= maxTrailing
}
