// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package diff implements the differential filters (types 0x80 and 0x81),
// which store each 8-bit or 16-bit unit as the difference from the previous
// unit. The filters do not reduce the size by themselves, but often make the
// data more amenable to other compression.
//
// The 16-bit filter operates on little-endian halfwords. An input of odd
// length is padded with a zero byte within the final halfword, while the
// header records the unpadded size.
package diff

import (
	"encoding/binary"
	"fmt"

	"github.com/nitrotools/compress/internal"
	"github.com/nitrotools/compress/internal/errors"
)

const (
	Tag8  = 0x80
	Tag16 = 0x81

	maxTrailing = 3
)

func errorf(c int, f string, a ...interface{}) error {
	return errors.Error{Code: c, Pkg: "diff", Msg: fmt.Sprintf(f, a...)}
}

// Compress applies the differential filter of the given width (8 or 16).
func Compress(src []byte, width int) ([]byte, error) {
	if width != 8 && width != 16 {
		return nil, errorf(errors.Invalid, "invalid unit width: %d", width)
	}
	if len(src) > internal.MaxUint24 {
		return nil, errorf(errors.Invalid, "input too large: %d bytes", len(src))
	}

	if width == 8 {
		dst := internal.AppendHeader(make([]byte, 0, 4+len(src)), Tag8, len(src))
		var prev byte
		for _, b := range src {
			dst = append(dst, b-prev)
			prev = b
		}
		return dst, nil
	}

	body := make([]byte, len(src)+len(src)%2)
	copy(body, src)
	var prev uint16
	for i := 0; i < len(body); i += 2 {
		v := binary.LittleEndian.Uint16(body[i:])
		binary.LittleEndian.PutUint16(body[i:], v-prev)
		prev = v
	}
	return append(internal.AppendHeader(nil, Tag16, len(src)), body...), nil
}

// readHeader returns the unit width, the declared size, and the body.
func readHeader(src []byte) (int, int, []byte, error) {
	if len(src) < 4 {
		return 0, 0, nil, errorf(errors.Corrupted, "truncated header")
	}
	var width int
	switch src[0] {
	case Tag8:
		width = 8
	case Tag16:
		width = 16
	default:
		return 0, 0, nil, errorf(errors.Corrupted, "invalid tag: 0x%02x", src[0])
	}
	size := internal.GetUint24(src[1:])
	n := size
	if width == 16 {
		n += size % 2
	}
	if len(src)-4 < n {
		return 0, 0, nil, errorf(errors.Corrupted, "truncated body")
	}
	return width, size, src[4:], nil
}

// Decompress reverses either differential filter.
func Decompress(src []byte) ([]byte, error) {
	width, size, body, err := readHeader(src)
	if err != nil {
		return nil, err
	}

	if width == 8 {
		dst := make([]byte, size)
		var acc byte
		for i := range dst {
			acc += body[i]
			dst[i] = acc
		}
		return dst, nil
	}
	dst := make([]byte, size+size%2)
	var acc uint16
	for i := 0; i < len(dst); i += 2 {
		acc += binary.LittleEndian.Uint16(body[i:])
		binary.LittleEndian.PutUint16(dst[i:], acc)
	}
	return dst[:size], nil
}

// IsCompressed reports whether src is a differential stream whose body
// exactly fills the declared size, allowing for up to 3 bytes of padding.
func IsCompressed(src []byte) bool {
	width, size, body, err := readHeader(src)
	if err != nil {
		return false
	}
	n := size
	if width == 16 {
		n += size % 2
	}
	return len(body)-n <= maxTrailing
}

// Width reports the unit width declared by the header of src, or zero if
// src does not start with a differential filter header.
func Width(src []byte) int {
	if len(src) > 0 {
		switch src[0] {
		case Tag8:
			return 8
		case Tag16:
			return 16
		}
	}
	return 0
}
