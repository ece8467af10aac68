// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package prefix

import (
	"encoding/binary"

	"github.com/nitrotools/compress/internal"
)

// BitOrder determines which end of a value is emitted into the bit-stream
// first by WriteBits and consumed first by ReadBits.
type BitOrder int

const (
	// LSBFirst packs bits starting at the least-significant bit of each word.
	// Formats like DEFLATE use this order.
	LSBFirst BitOrder = iota

	// MSBFirst packs bits starting at the most-significant bit of each word.
	MSBFirst
)

// Writer implements a prefix encoder that packs bits into 32-bit words.
// The word stream is serialized with the byte order given to Init, which
// allows a single Writer to model both the byte-oriented formats and the
// formats that operate on byte-swapped 32-bit words.
type Writer struct {
	order BitOrder
	bo    binary.ByteOrder

	words []uint32
	acc   uint64 // Pending bits that have not yet formed a complete word
	nbits uint   // Number of valid bits in acc (always < 32 between calls)
}

func NewWriter(order BitOrder, bo binary.ByteOrder) *Writer {
	pw := new(Writer)
	pw.Init(order, bo)
	return pw
}

// Init discards any written bits and configures the writer.
func (pw *Writer) Init(order BitOrder, bo binary.ByteOrder) {
	*pw = Writer{order: order, bo: bo, words: pw.words[:0]}
}

// BitsWritten reports the total number of bits written.
func (pw *Writer) BitsWritten() int64 {
	return int64(len(pw.words))*32 + int64(pw.nbits)
}

// WriteBits writes the lower n bits of v, where n is at most 32.
// In LSBFirst order, the least-significant bit of v is written first;
// in MSBFirst order, bit n-1 of v is written first.
func (pw *Writer) WriteBits(v uint32, n uint) {
	if n == 0 {
		return
	}
	vv := uint64(v) & (1<<n - 1)
	if pw.order == LSBFirst {
		pw.acc |= vv << pw.nbits
	} else {
		pw.acc |= vv << (64 - pw.nbits - n)
	}
	pw.nbits += n
	if pw.nbits >= 32 {
		if pw.order == LSBFirst {
			pw.words = append(pw.words, uint32(pw.acc))
			pw.acc >>= 32
		} else {
			pw.words = append(pw.words, uint32(pw.acc>>32))
			pw.acc <<= 32
		}
		pw.nbits -= 32
	}
}

// WriteBit writes a single bit.
func (pw *Writer) WriteBit(b bool) {
	if b {
		pw.WriteBits(1, 1)
	} else {
		pw.WriteBits(0, 1)
	}
}

// WriteCode writes a prefix code such that the most-significant bit of the
// code value is the first bit in the stream regardless of the bit order.
func (pw *Writer) WriteCode(pc PrefixCode) {
	if pw.order == LSBFirst {
		pw.WriteBits(internal.ReverseUint32N(pc.Val, uint(pc.Len)), uint(pc.Len))
	} else {
		pw.WriteBits(pc.Val, uint(pc.Len))
	}
}

// Len reports the number of bytes that Bytes would return.
func (pw *Writer) Len() int {
	n := len(pw.words)
	if pw.nbits > 0 {
		n++
	}
	return 4 * n
}

// AppendBytes appends the written word stream to b. The final partial word,
// if any, is padded with zero bits.
func (pw *Writer) AppendBytes(b []byte) []byte {
	var buf [4]byte
	for _, w := range pw.words {
		pw.bo.PutUint32(buf[:], w)
		b = append(b, buf[:]...)
	}
	if pw.nbits > 0 {
		w := uint32(pw.acc)
		if pw.order == MSBFirst {
			w = uint32(pw.acc >> 32)
		}
		pw.bo.PutUint32(buf[:], w)
		b = append(b, buf[:]...)
	}
	return b
}

// Bytes returns the written word stream padded to a multiple of 4 bytes.
func (pw *Writer) Bytes() []byte {
	return pw.AppendBytes(make([]byte, 0, pw.Len()))
}
