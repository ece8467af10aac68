// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package prefix implements bit readers and writers that use prefix encoding,
// along with the Huffman tree construction shared by every entropy coded
// format in this repository.
package prefix

import (
	"fmt"
	"sort"

	"github.com/nitrotools/compress/internal/errors"
)

func errorf(c int, f string, a ...interface{}) error {
	return errors.Error{Code: c, Pkg: "prefix", Msg: fmt.Sprintf(f, a...)}
}

func panicf(c int, f string, a ...interface{}) {
	errors.Panic(errorf(c, f, a...))
}

// PrefixCode is a representation of a prefix code, which is conceptually a
// mapping from some arbitrary symbol to some bit-string.
//
// The Sym and Cnt fields are typically provided by the user,
// while the Len and Val fields are generated by this package.
type PrefixCode struct {
	Sym uint32 // The symbol being mapped
	Cnt uint32 // The number times this symbol is used
	Len uint32 // Bit-length of the prefix code
	Val uint32 // Value of the prefix code (must be in 0..(1<<Len)-1)
}
type PrefixCodes []PrefixCode

type prefixCodesByLength []PrefixCode

func (c prefixCodesByLength) Len() int { return len(c) }
func (c prefixCodesByLength) Less(i, j int) bool {
	if c[i].Len == c[j].Len {
		return c[i].Sym < c[j].Sym
	}
	return c[i].Len < c[j].Len
}
func (c prefixCodesByLength) Swap(i, j int) { c[i], c[j] = c[j], c[i] }

func (pc PrefixCodes) SortByLength() { sort.Sort(prefixCodesByLength(pc)) }

// Table returns a slice of n codes indexed by symbol. Symbols that do not
// appear in pc have a zero Len.
func (pc PrefixCodes) Table(n int) []PrefixCode {
	t := make([]PrefixCode, n)
	for i := range t {
		t[i].Sym = uint32(i)
	}
	for _, c := range pc {
		if int(c.Sym) < n {
			t[c.Sym] = c
		}
	}
	return t
}

// GenerateCodes assigns canonical prefix codes from the per-symbol bit
// lengths in lens, where a length of zero means that the symbol is unused.
//
// Codes are assigned in order of non-decreasing length with ties broken by
// ascending symbol value, such that the whole table can be reconstructed from
// the lengths alone. The returned codes are sorted in that same order.
func GenerateCodes(lens []uint8) PrefixCodes {
	var codes PrefixCodes
	for sym, n := range lens {
		if n > 0 {
			codes = append(codes, PrefixCode{Sym: uint32(sym), Len: uint32(n)})
		}
	}
	codes.SortByLength()

	var code, prev uint32
	for i := range codes {
		if i > 0 {
			code++
		}
		code <<= codes[i].Len - prev
		prev = codes[i].Len
		codes[i].Val = code
	}
	return codes
}

// checkLengths reports whether lens describes a prefix code that is not
// over-subscribed. Incomplete codes are permitted.
func checkLengths(lens []uint8, maxBits uint) bool {
	var sum uint64
	for _, n := range lens {
		if uint(n) > maxBits {
			return false
		}
		if n > 0 {
			sum += 1 << (maxBits - uint(n))
		}
	}
	return sum <= 1<<maxBits
}

// ValidLengths reports whether the bit lengths describe a usable prefix code
// with every length at most maxBits and at least one symbol present.
func ValidLengths(lens []uint8, maxBits uint) bool {
	var cnt int
	for _, n := range lens {
		if n > 0 {
			cnt++
		}
	}
	return cnt > 0 && checkLengths(lens, maxBits)
}
