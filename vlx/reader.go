// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package vlx

import (
	"encoding/binary"

	"github.com/nitrotools/compress/internal/errors"
	"github.com/nitrotools/compress/internal/prefix"
)

// readHeader returns the uncompressed size and the offset of the class
// count byte.
func readHeader(src []byte) (size, off int) {
	if len(src) < 1 {
		panicf(errors.Corrupted, "truncated header")
	}
	w := int(src[0])
	if w != 1 && w != 2 && w != 4 {
		panicf(errors.Corrupted, "invalid size width: %d", w)
	}
	if len(src) < w+2 {
		panicf(errors.Corrupted, "truncated header")
	}
	var n uint64
	for i := w; i > 0; i-- {
		n = n<<8 | uint64(src[i])
	}
	if n > maxExpansion*uint64(len(src)) {
		panicf(errors.Corrupted, "declared size %d is unreachable", n)
	}
	return int(n), w + 1
}

func readLengths(pr *prefix.Reader, n int) []uint8 {
	lens := make([]uint8, n)
	for i := range lens {
		lens[i] = uint8(pr.ReadBits(4))
	}
	return lens
}

// decode decodes the stream in src. If dry is set, no output is produced.
// It returns the output and the number of bytes consumed.
func decode(src []byte, dry bool) ([]byte, int) {
	size, off := readHeader(src)
	nlen, ndist := int(src[off]&0x0f), int(src[off]>>4)
	if nlen == 0 || nlen > numLenClasses || ndist > numDistClasses {
		panicf(errors.Corrupted, "invalid class counts: 0x%02x", src[off])
	}
	off++

	var dst []byte
	if !dry {
		dst = make([]byte, 0, size)
	}

	var pr prefix.Reader
	pr.Init(src[off:], prefix.MSBFirst, binary.BigEndian)
	var lenDec, distDec prefix.Decoder
	lenDec.InitLengths(readLengths(&pr, nlen), maxCodeBits)
	if ndist > 0 {
		distDec.InitLengths(readLengths(&pr, ndist), maxCodeBits)
	}

	var pos int
	for pos < size {
		lc := int(pr.ReadSymbol(&lenDec))
		if lc == 0 {
			b := byte(pr.ReadBits(8))
			if !dry {
				dst = append(dst, b)
			}
			pos++
			continue
		}
		if ndist == 0 {
			panicf(errors.Corrupted, "length class without distance code")
		}
		lr := lenRanges[lc-1]
		length := int(lr.Base + pr.ReadBits(uint(lr.Len)))
		dr := distRanges[pr.ReadSymbol(&distDec)]
		dist := int(dr.Base + pr.ReadBits(uint(dr.Len)))
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
	return dst, off + pr.Offset()
}

// Decompress decodes a VLX stream.
func Decompress(src []byte) (dst []byte, err error) {
	defer errors.Recover(&err)
	dst, _ = decode(src, false)
	return dst, nil
}

// IsCompressed reports whether src is a well-formed VLX stream.
func IsCompressed(src []byte) (ok bool) {
	var err error
	defer func() { ok = err == nil }()
	defer errors.Recover(&err)
	if _, n := decode(src, true); len(src)-n > maxTrailing {
		panicf(errors.Corrupted, "too many trailing bytes")
	}
	return
}
