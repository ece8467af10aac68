// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package rle implements the run-length (type 0x30) compressed data format
// used by the GBA and DS BIOS decompression routines.
//
// After the 4-byte header, the stream is a sequence of runs, each starting
// with a flag byte. If the high bit is set, the lower 7 bits hold the run
// length minus 3 and a single byte to repeat follows. Otherwise, the lower
// 7 bits hold the run length minus 1 and that many literal bytes follow.
package rle

import (
	"fmt"
	"math"

	"github.com/nitrotools/compress/internal"
	"github.com/nitrotools/compress/internal/errors"
)

const (
	Tag = 0x30

	minRepeat  = 3
	maxRepeat  = 0x7f + minRepeat
	maxLiteral = 0x7f + 1

	maxTrailing = 7
)

func errorf(c int, f string, a ...interface{}) error {
	return errors.Error{Code: c, Pkg: "rle", Msg: fmt.Sprintf(f, a...)}
}

func panicf(c int, f string, a ...interface{}) {
	errors.Panic(errorf(c, f, a...))
}

type run struct {
	length int
	repeat bool
	weight int // Bytes needed to encode everything from here to the end
}

// segment chooses the sequence of runs that minimizes the encoded size.
// Every repeated run costs 2 bytes, while a literal run of n bytes costs n+1.
// Repeated runs are tried first and only a strictly smaller size replaces an
// earlier choice.
func segment(src []byte) []run {
	n := len(src)
	runs := make([]run, n+1)
	var same int // Number of bytes equal to src[i] starting at i
	for i := n - 1; i >= 0; i-- {
		if i+1 < n && src[i] == src[i+1] {
			same++
		} else {
			same = 1
		}

		best := run{weight: math.MaxInt32}
		for l := minInt(same, maxRepeat); l >= minRepeat; l-- {
			if w := 2 + runs[i+l].weight; w < best.weight {
				best = run{length: l, repeat: true, weight: w}
			}
		}
		for l := minInt(n-i, maxLiteral); l >= 1; l-- {
			if w := l + 1 + runs[i+l].weight; w < best.weight {
				best = run{length: l, weight: w}
			}
		}
		runs[i] = best
	}

	var out []run
	for i := 0; i < n; i += runs[i].length {
		out = append(out, runs[i])
	}
	return out
}

// AppendBody appends the headerless run stream for src to dst.
func AppendBody(dst, src []byte) []byte {
	var pos int
	for _, r := range segment(src) {
		if r.repeat {
			dst = append(dst, 0x80|byte(r.length-minRepeat), src[pos])
		} else {
			dst = append(dst, byte(r.length-1))
			dst = append(dst, src[pos:pos+r.length]...)
		}
		pos += r.length
	}
	return dst
}

// Compress encodes src as an RLE stream.
func Compress(src []byte) ([]byte, error) {
	if len(src) > internal.MaxUint24 {
		return nil, errorf(errors.Invalid, "input too large: %d bytes", len(src))
	}
	return AppendBody(internal.AppendHeader(nil, Tag, len(src)), src), nil
}

func decodeBody(src []byte, size int, dry bool) ([]byte, int) {
	var dst []byte
	if !dry {
		dst = make([]byte, 0, size)
	}
	var rd, pos int
	for pos < size {
		if rd >= len(src) {
			panicf(errors.Corrupted, "missing run header")
		}
		b := src[rd]
		rd++
		var n int
		if b&0x80 != 0 {
			n = int(b&0x7f) + minRepeat
			if rd >= len(src) {
				panicf(errors.Corrupted, "missing repeated byte")
			}
			if pos+n > size {
				panicf(errors.Corrupted, "run overruns declared size")
			}
			if !dry {
				for i := 0; i < n; i++ {
					dst = append(dst, src[rd])
				}
			}
			rd++
		} else {
			n = int(b&0x7f) + 1
			if rd+n > len(src) {
				panicf(errors.Corrupted, "truncated literal run")
			}
			if pos+n > size {
				panicf(errors.Corrupted, "run overruns declared size")
			}
			if !dry {
				dst = append(dst, src[rd:rd+n]...)
			}
			rd += n
		}
		pos += n
	}
	return dst, rd
}

// DecodeBody decodes a headerless run stream of size bytes.
// It returns the output and the number of input bytes consumed.
func DecodeBody(src []byte, size int) (dst []byte, n int, err error) {
	defer errors.Recover(&err)
	dst, n = decodeBody(src, size, false)
	return dst, n, nil
}

// ScanBody verifies a headerless run stream of size bytes without producing
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

// Decompress decodes an RLE stream.
func Decompress(src []byte) (dst []byte, err error) {
	defer errors.Recover(&err)
	size := readHeader(src)
	dst, _ = decodeBody(src[4:], size, false)
	return dst, nil
}

// IsCompressed reports whether src is a well-formed RLE stream.
func IsCompressed(src []byte) (ok bool) {
	var err error
	defer func() { ok = err == nil }()
	defer errors.Recover(&err)
	size := readHeader(src)
	if _, n := decodeBody(src[4:], size, true); len(src)-4-n > maxTrailing {
		panicf(errors.Corrupted, "too many trailing bytes")
	}
	return
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
