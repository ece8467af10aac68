// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package testutil

import (
	"bytes"
	"strings"
)

// Repeats generates n bytes that heavily favor LZ based compression since
// a large bulk of the data is a copy from some distance ago. Since the source
// data is mostly random, prefix encoding does not benefit as much.
func Repeats(seed, n int) []byte {
	var b []byte
	r := NewRand(seed)

	randLen := func() int {
		switch p := r.Intn(100); {
		case p < 15:
			return 4 + r.Intn(4)
		case p < 30:
			return 8 + r.Intn(8)
		case p < 45:
			return 16 + r.Intn(16)
		case p < 60:
			return 32 + r.Intn(32)
		case p < 75:
			return 64 + r.Intn(64)
		case p < 90:
			return 128 + r.Intn(128)
		default:
			return 256 + r.Intn(256)
		}
	}

	// Distances are drawn from power-of-two buckets up to 32KiB.
	randDist := func() int {
		for {
			lo := 1 << uint(r.Intn(15))
			if d := lo + r.Intn(lo); d <= len(b) {
				return d
			}
		}
	}

	writeRand := func(l int) {
		b = append(b, r.Bytes(l)...)
	}
	writeCopy := func(d, l int) {
		for i := 0; i < l; i++ {
			b = append(b, b[len(b)-d])
		}
	}

	writeRand(randLen())
	for len(b) < n {
		switch p := r.Intn(10); {
		case p < 1:
			writeRand(randLen())
		default:
			writeCopy(randDist(), randLen())
		}
	}
	return b[:n]
}

// Text generates n bytes of English-like text drawn from a small vocabulary,
// which favors both LZ matching and prefix encoding.
func Text(seed, n int) []byte {
	words := strings.Fields(`
		the quick brown fox jumps over a lazy dog while sphinx of black quartz
		judge my vow and pack my box with five dozen liquor jugs how vexingly
		daft zebras jump tile map palette screen cell animation font texture
	`)
	r := NewRand(seed)
	var bb bytes.Buffer
	for bb.Len() < n {
		bb.WriteString(words[r.Intn(len(words))])
		if r.Intn(12) == 0 {
			bb.WriteString(".\n")
		} else {
			bb.WriteByte(' ')
		}
	}
	return bb.Bytes()[:n]
}

// Sample is a named test input.
type Sample struct {
	Name string
	Data []byte
}

// Samples returns a set of inputs covering the degenerate cases that every
// codec must handle, along with a few larger inputs of varying entropy.
func Samples() []Sample {
	r := NewRand(0)
	seq := make([]byte, 1024)
	for i := range seq {
		seq[i] = byte(i)
	}
	return []Sample{
		{"Empty", []byte{}},
		{"Byte", []byte{0x42}},
		{"Pair", []byte{0x00, 0xff}},
		{"Three", []byte("aaa")},
		{"Zeros", make([]byte, 1000)},
		{"Run130", bytes.Repeat([]byte{0xaa}, 130)},
		{"Run131", bytes.Repeat([]byte{0xaa}, 131)},
		{"Sequence", seq},
		{"Periodic", ResizeData([]byte{0x01, 0x23, 0x0f, 0x0f, 0x00}, 777)},
		{"Random", r.Bytes(2000)},
		{"Text", Text(1, 5000)},
		{"Repeats", Repeats(2, 20000)},
	}
}

// MatchError reports whether err satisfies the predicate from the errors
// package with the given name (e.g., "IsCorrupted").
// An empty name only matches a nil error.
func MatchError(err error, name string) bool {
	if name == "" {
		return err == nil
	}
	fn, ok := errFuncs[name]
	if !ok {
		panic("unknown error predicate: " + name)
	}
	return fn(err)
}
