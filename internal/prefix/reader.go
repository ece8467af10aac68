// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package prefix

import (
	"encoding/binary"

	"github.com/nitrotools/compress/internal/errors"
)

// Reader implements a prefix decoder over a byte slice that is consumed one
// 32-bit word at a time. It is the mirror image of Writer.
//
// Reading past the end of the input panics with a corrupted-input error that
// the caller is expected to convert using errors.Recover.
type Reader struct {
	order BitOrder
	bo    binary.ByteOrder

	src   []byte
	pos   int    // Offset of the next unread word in src
	acc   uint64 // Buffer of unread bits
	nbits uint   // Number of valid bits in acc
}

func NewReader(src []byte, order BitOrder, bo binary.ByteOrder) *Reader {
	pr := new(Reader)
	pr.Init(src, order, bo)
	return pr
}

func (pr *Reader) Init(src []byte, order BitOrder, bo binary.ByteOrder) {
	*pr = Reader{order: order, bo: bo, src: src}
}

// Offset reports the number of bytes of src consumed so far. Since the input
// is consumed one word at a time, this is always a multiple of 4.
func (pr *Reader) Offset() int {
	return pr.pos
}

// BitsRead reports the number of bits returned to the caller so far.
func (pr *Reader) BitsRead() int64 {
	return int64(pr.pos)*8 - int64(pr.nbits)
}

func (pr *Reader) pullWord() {
	if len(pr.src)-pr.pos < 4 {
		errors.Panic(errorf(errors.Corrupted, "unexpected end of bit-stream"))
	}
	w := uint64(pr.bo.Uint32(pr.src[pr.pos:]))
	pr.pos += 4
	if pr.order == LSBFirst {
		pr.acc |= w << pr.nbits
	} else {
		pr.acc |= w << (32 - pr.nbits)
	}
	pr.nbits += 32
}

// ReadBits reads n bits, where n is at most 32, using the same convention
// as Writer.WriteBits.
func (pr *Reader) ReadBits(n uint) uint32 {
	if n == 0 {
		return 0
	}
	for pr.nbits < n {
		pr.pullWord()
	}
	var v uint32
	if pr.order == LSBFirst {
		v = uint32(pr.acc & (1<<n - 1))
		pr.acc >>= n
	} else {
		v = uint32(pr.acc >> (64 - n))
		pr.acc <<= n
	}
	pr.nbits -= n
	return v
}

// ReadBit reads a single bit.
func (pr *Reader) ReadBit() bool {
	return pr.ReadBits(1) == 1
}

// ReadSymbol reads the next symbol using the provided prefix Decoder.
func (pr *Reader) ReadSymbol(pd *Decoder) uint32 {
	return pd.readSymbol(pr)
}

// ReadTreeSymbol walks t from its root one bit at a time, where a zero bit
// selects the left child. Unlike ReadSymbol, the depth of t is not limited.
func (pr *Reader) ReadTreeSymbol(t *Tree) uint32 {
	n := &t.Nodes[t.Root]
	for !n.IsLeaf() {
		if pr.ReadBit() {
			n = &t.Nodes[n.Right]
		} else {
			n = &t.Nodes[n.Left]
		}
	}
	return n.Sym
}
