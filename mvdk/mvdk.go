// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package mvdk

import (
	"encoding/binary"

	"github.com/nitrotools/compress/internal"
	"github.com/nitrotools/compress/internal/errors"
	"github.com/nitrotools/compress/lz77"
	"github.com/nitrotools/compress/rle"
)

// Compress encodes src using the default configuration.
func Compress(src []byte) ([]byte, error) {
	return CompressConfig(src, nil)
}

// CompressConfig encodes src with every mode and returns the smallest
// output. When two modes produce the same size, the lower mode is used.
// A nil Config uses the default options.
func CompressConfig(src []byte, conf *Config) ([]byte, error) {
	if len(src) > maxSize {
		return nil, errorf(errors.Invalid, "input too large: %d bytes", len(src))
	}
	passes := DefaultPasses
	if conf != nil && conf.Passes != 0 {
		passes = conf.Passes
	}
	if internal.GoFuzz {
		passes = -1 // Refinement only affects the output size
	}

	bodies := [...][]byte{
		ModeStored:  src,
		ModeLZ77:    lz77.AppendBody(nil, src),
		ModeRLE:     rle.AppendBody(nil, src),
		ModeHuffman: compressHuffman(src, passes),
	}
	mode := ModeStored
	for m, body := range bodies {
		if len(body) < len(bodies[mode]) {
			mode = m
		}
	}

	dst := make([]byte, 4, 4+len(bodies[mode]))
	binary.LittleEndian.PutUint32(dst, uint32(len(src))<<2|uint32(mode))
	return append(dst, bodies[mode]...), nil
}

func readHeader(src []byte) (mode, size int) {
	if len(src) < 4 {
		panicf(errors.Corrupted, "truncated header")
	}
	hdr := binary.LittleEndian.Uint32(src)
	mode, size = int(hdr&3), int(hdr>>2)
	if size > maxExpansion[mode]*(len(src)-4) {
		panicf(errors.Corrupted, "declared size %d is unreachable", size)
	}
	return mode, size
}

// decode decodes src. If dry is set, no output is produced.
// It returns the output and the number of bytes consumed.
func decode(src []byte, dry bool) ([]byte, int) {
	mode, size := readHeader(src)
	body := src[4:]
	var dst []byte
	var n int
	var err error
	switch mode {
	case ModeStored:
		if !dry {
			dst = append(make([]byte, 0, size), body[:size]...)
		}
		n = size
	case ModeLZ77:
		if dry {
			n, err = lz77.ScanBody(body, size)
		} else {
			dst, n, err = lz77.DecodeBody(body, size)
		}
	case ModeRLE:
		if dry {
			n, err = rle.ScanBody(body, size)
		} else {
			dst, n, err = rle.DecodeBody(body, size)
		}
	case ModeHuffman:
		dst, n = decodeHuffman(body, size, dry)
	}
	if err != nil {
		panicf(errors.Corrupted, "invalid body: %v", err)
	}
	return dst, 4 + n
}

// Decompress decodes an MvDK stream.
func Decompress(src []byte) (dst []byte, err error) {
	defer errors.Recover(&err)
	dst, _ = decode(src, false)
	return dst, nil
}

// IsCompressed reports whether src is a well-formed MvDK stream.
func IsCompressed(src []byte) (ok bool) {
	var err error
	defer func() { ok = err == nil }()
	defer errors.Recover(&err)
	if _, n := decode(src, true); len(src)-n > maxTrailing {
		panicf(errors.Corrupted, "too many trailing bytes")
	}
	return
}

// Mode reports the encoding mode declared by the header of src.
func Mode(src []byte) int {
	if len(src) < 4 {
		return -1
	}
	return int(src[0] & 3)
}
