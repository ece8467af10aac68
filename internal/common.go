// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package internal is a collection of common compression algorithms.
//
// For performance reasons, these packages lack strong error checking and
// require that the caller to ensure that strict invariants are kept.
package internal

var (
	// ReverseLUT returns the input key with its bits reversed.
	ReverseLUT [256]byte
)

func init() {
	for i := range ReverseLUT {
		b := uint8(i)
		b = (b&0xaa)>>1 | (b&0x55)<<1
		b = (b&0xcc)>>2 | (b&0x33)<<2
		b = (b&0xf0)>>4 | (b&0x0f)<<4
		ReverseLUT[i] = b
	}
}

// ReverseUint32 reverses all bits of v.
func ReverseUint32(v uint32) (x uint32) {
	x |= uint32(ReverseLUT[byte(v>>0)]) << 24
	x |= uint32(ReverseLUT[byte(v>>8)]) << 16
	x |= uint32(ReverseLUT[byte(v>>16)]) << 8
	x |= uint32(ReverseLUT[byte(v>>24)]) << 0
	return x
}

// ReverseUint32N reverses the lower n bits of v.
func ReverseUint32N(v uint32, n uint) (x uint32) {
	if n == 0 {
		return 0
	}
	return uint32(ReverseUint32(uint32(v << (32 - n))))
}

// ReverseUint64 reverses all bits of v.
func ReverseUint64(v uint64) (x uint64) {
	x |= uint64(ReverseUint32(uint32(v>>0))) << 32
	x |= uint64(ReverseUint32(uint32(v>>32))) << 0
	return x
}

// ReverseUint64N reverses the lower n bits of v.
func ReverseUint64N(v uint64, n uint) (x uint64) {
	if n == 0 {
		return 0
	}
	return uint64(ReverseUint64(uint64(v << (64 - n))))
}

// GetUint24 reads a little-endian 24-bit integer, which is the size field
// that follows the tag byte in most of the BIOS-style headers.
func GetUint24(b []byte) int {
	return int(b[0]) | int(b[1])<<8 | int(b[2])<<16
}

// AppendHeader appends a BIOS-style header consisting of a tag byte and a
// little-endian 24-bit size. The size must be less than 1<<24.
func AppendHeader(b []byte, tag byte, size int) []byte {
	return append(b, tag, byte(size), byte(size>>8), byte(size>>16))
}

// MaxUint24 is the largest size representable in a BIOS-style header.
const MaxUint24 = 1<<24 - 1

// PadLen returns the number of bytes needed to align n to a multiple of m.
func PadLen(n, m int) int {
	return (m - n%m) % m
}
