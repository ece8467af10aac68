// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package bytebuf implements an append-only byte builder whose earlier
// bytes can be patched through reserved slots.
//
// Encoders frequently need to emit a field before its value is known,
// such as a flag byte that describes the tokens following it or a table of
// segment lengths that precedes the segments themselves.
package bytebuf

import "encoding/binary"

// Slot identifies a reserved region within a Builder.
type Slot struct {
	off, n int
}

// Len reports the size of the slot in bytes.
func (s Slot) Len() int { return s.n }

// Builder is an append-only byte buffer.
// The zero value is an empty builder ready to use.
type Builder struct {
	buf []byte
}

// NewBuilder returns a Builder that appends to buf.
func NewBuilder(buf []byte) *Builder {
	return &Builder{buf: buf}
}

func (b *Builder) Len() int      { return len(b.buf) }
func (b *Builder) Bytes() []byte { return b.buf }

func (b *Builder) WriteByte(c byte) error {
	b.buf = append(b.buf, c)
	return nil
}

func (b *Builder) Write(p []byte) (int, error) {
	b.buf = append(b.buf, p...)
	return len(p), nil
}

// WriteUint32 appends v using the given byte order.
func (b *Builder) WriteUint32(bo binary.ByteOrder, v uint32) {
	var tmp [4]byte
	bo.PutUint32(tmp[:], v)
	b.buf = append(b.buf, tmp[:]...)
}

// Pad appends zero bytes until the length is a multiple of m.
func (b *Builder) Pad(m int) {
	for len(b.buf)%m != 0 {
		b.buf = append(b.buf, 0)
	}
}

// Reserve appends n zero bytes and returns a slot referring to them.
func (b *Builder) Reserve(n int) Slot {
	s := Slot{off: len(b.buf), n: n}
	b.buf = append(b.buf, make([]byte, n)...)
	return s
}

// Slice returns the reserved bytes of s for direct modification.
// The slice is only valid until the next append.
func (b *Builder) Slice(s Slot) []byte {
	return b.buf[s.off : s.off+s.n]
}

// Put copies p into the start of slot s.
func (b *Builder) Put(s Slot, p ...byte) {
	if len(p) > s.n {
		panic("bytebuf: write overflows slot")
	}
	copy(b.buf[s.off:], p)
}

// PutUint32 stores v at byte offset i within slot s.
func (b *Builder) PutUint32(s Slot, i int, bo binary.ByteOrder, v uint32) {
	if i < 0 || i+4 > s.n {
		panic("bytebuf: write overflows slot")
	}
	bo.PutUint32(b.buf[s.off+i:], v)
}
