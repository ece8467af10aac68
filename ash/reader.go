// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package ash

import (
	"encoding/binary"

	"github.com/nitrotools/compress/internal"
	"github.com/nitrotools/compress/internal/errors"
	"github.com/nitrotools/compress/internal/prefix"
)

// readHeader returns the uncompressed size and the offset of the distance
// stream.
func readHeader(src []byte) (size, distOff int) {
	if len(src) < headerSize {
		panicf(errors.Corrupted, "truncated header")
	}
	if string(src[:4]) != Magic {
		panicf(errors.Corrupted, "invalid magic: %q", src[:4])
	}
	n := binary.BigEndian.Uint32(src[4:])
	off := binary.BigEndian.Uint32(src[8:])
	if n > internal.MaxUint24 {
		panicf(errors.Corrupted, "invalid size: %d", n)
	}
	if off < headerSize || uint64(off) > uint64(len(src)) {
		panicf(errors.Corrupted, "distance stream offset out of range: %d", off)
	}
	if int(n) > maxExpansion*(len(src)-headerSize) {
		panicf(errors.Corrupted, "declared size %d is unreachable", n)
	}
	return int(n), int(off)
}

// decode decodes the stream in src. If dry is set, no output is produced.
// It returns the output and the number of bytes consumed.
func decode(src []byte, dry bool) ([]byte, int) {
	size, distOff := readHeader(src)
	var dst []byte
	if !dry {
		dst = make([]byte, 0, size)
	}

	var lr, dr prefix.Reader
	lr.Init(src[headerSize:distOff], prefix.MSBFirst, binary.BigEndian)
	dr.Init(src[distOff:], prefix.MSBFirst, binary.BigEndian)
	litTree := readTree(&lr, litBits)
	distTree := readTree(&dr, distBits)

	var pos int
	for pos < size {
		sym := int(lr.ReadTreeSymbol(&litTree))
		if sym < 256 {
			if !dry {
				dst = append(dst, byte(sym))
			}
			pos++
			continue
		}
		length := sym - 256 + minLength
		dist := int(dr.ReadTreeSymbol(&distTree)) + 1
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
	return dst, distOff + dr.Offset()
}

// Decompress decodes an ASH0 stream.
func Decompress(src []byte) (dst []byte, err error) {
	defer errors.Recover(&err)
	dst, _ = decode(src, false)
	return dst, nil
}

// IsCompressed reports whether src is a well-formed ASH0 stream.
func IsCompressed(src []byte) (ok bool) {
	var err error
	defer func() { ok = err == nil }()
	defer errors.Recover(&err)
	if _, n := decode(src, true); len(src)-n > maxTrailing {
		panicf(errors.Corrupted, "too many trailing bytes")
	}
	return
}
