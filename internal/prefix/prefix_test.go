// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package prefix

import (
	"encoding/binary"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/nitrotools/compress/internal/errors"
	"github.com/nitrotools/compress/internal/testutil"
)

func TestWriter(t *testing.T) {
	dh := testutil.MustDecodeHex

	vectors := []struct {
		desc  string
		order BitOrder
		bo    binary.ByteOrder
		write func(pw *Writer)
		want  []byte
	}{{
		desc:  "empty",
		order: LSBFirst,
		bo:    binary.LittleEndian,
		write: func(pw *Writer) {},
		want:  dh(""),
	}, {
		desc:  "LSB-first, little-endian words",
		order: LSBFirst,
		bo:    binary.LittleEndian,
		write: func(pw *Writer) {
			pw.WriteBits(0x5, 3)  // 101
			pw.WriteBits(0x1f, 5) // 11111
			pw.WriteBits(0xab, 8)
		},
		want: dh("fdab0000"),
	}, {
		desc:  "MSB-first, big-endian words",
		order: MSBFirst,
		bo:    binary.BigEndian,
		write: func(pw *Writer) {
			pw.WriteBits(0x5, 3)
			pw.WriteBits(0x1f, 5)
			pw.WriteBits(0xab, 8)
		},
		want: dh("bfab0000"),
	}, {
		desc:  "MSB-first, little-endian words",
		order: MSBFirst,
		bo:    binary.LittleEndian,
		write: func(pw *Writer) {
			pw.WriteBits(0x12345678, 32)
			pw.WriteBits(1, 1)
		},
		want: dh("7856341200000080"),
	}, {
		desc:  "codes are written first bit first",
		order: LSBFirst,
		bo:    binary.LittleEndian,
		write: func(pw *Writer) {
			pw.WriteCode(PrefixCode{Val: 0x6, Len: 3}) // 110
		},
		want: dh("03000000"),
	}}

	for _, v := range vectors {
		pw := NewWriter(v.order, v.bo)
		v.write(pw)
		got := pw.Bytes()
		if diff := cmp.Diff(v.want, got); diff != "" {
			t.Errorf("%s: output mismatch (-want +got):\n%s", v.desc, diff)
		}
		if pw.Len() != len(got) {
			t.Errorf("%s: Len() = %d, want %d", v.desc, pw.Len(), len(got))
		}
	}
}

func TestReaderWriter(t *testing.T) {
	type config struct {
		order BitOrder
		bo    binary.ByteOrder
	}
	configs := []config{
		{LSBFirst, binary.LittleEndian},
		{LSBFirst, binary.BigEndian},
		{MSBFirst, binary.LittleEndian},
		{MSBFirst, binary.BigEndian},
	}

	r := testutil.NewRand(0)
	type item struct {
		v uint32
		n uint
	}
	var items []item
	for i := 0; i < 2000; i++ {
		n := uint(r.Intn(33))
		v := uint32(r.Int())
		if n < 32 {
			v &= 1<<n - 1
		}
		items = append(items, item{v, n})
	}

	for _, c := range configs {
		pw := NewWriter(c.order, c.bo)
		var total int64
		for _, it := range items {
			pw.WriteBits(it.v, it.n)
			total += int64(it.n)
		}
		if pw.BitsWritten() != total {
			t.Fatalf("BitsWritten() = %d, want %d", pw.BitsWritten(), total)
		}
		buf := pw.Bytes()

		pr := NewReader(buf, c.order, c.bo)
		for i, it := range items {
			if got := pr.ReadBits(it.n); got != it.v {
				t.Fatalf("config %v, item %d: ReadBits(%d) = %#x, want %#x", c, i, it.n, got, it.v)
			}
		}
		if pr.BitsRead() != total {
			t.Errorf("BitsRead() = %d, want %d", pr.BitsRead(), total)
		}
		if pr.Offset() != len(buf) {
			t.Errorf("Offset() = %d, want %d", pr.Offset(), len(buf))
		}
	}
}

func TestReaderEOF(t *testing.T) {
	pr := NewReader(testutil.MustDecodeHex("ffffff"), MSBFirst, binary.BigEndian)
	err := func() (err error) {
		defer errors.Recover(&err)
		pr.ReadBits(1)
		return nil
	}()
	if !errors.IsCorrupted(err) {
		t.Errorf("ReadBits on short input: got %v, want corrupted error", err)
	}
}

func TestGenerateCodes(t *testing.T) {
	// Example from RFC 1951, section 3.2.2.
	lens := []uint8{3, 3, 3, 3, 3, 2, 4, 4}
	want := PrefixCodes{
		{Sym: 5, Len: 2, Val: 0x0},
		{Sym: 0, Len: 3, Val: 0x2},
		{Sym: 1, Len: 3, Val: 0x3},
		{Sym: 2, Len: 3, Val: 0x4},
		{Sym: 3, Len: 3, Val: 0x5},
		{Sym: 4, Len: 3, Val: 0x6},
		{Sym: 6, Len: 4, Val: 0xe},
		{Sym: 7, Len: 4, Val: 0xf},
	}
	if diff := cmp.Diff(want, GenerateCodes(lens)); diff != "" {
		t.Errorf("GenerateCodes mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildTree(t *testing.T) {
	vectors := []struct {
		desc  string
		freqs []uint32
		lens  []uint8
	}{{
		desc:  "empty histogram",
		freqs: make([]uint32, 4),
		lens:  []uint8{1, 1, 0, 0},
	}, {
		desc:  "single symbol",
		freqs: []uint32{0, 0, 7, 0},
		lens:  []uint8{1, 0, 1, 0},
	}, {
		desc:  "two symbols",
		freqs: []uint32{3, 9},
		lens:  []uint8{1, 1},
	}, {
		desc:  "skewed",
		freqs: []uint32{1, 1, 2, 4, 8},
		lens:  []uint8{4, 4, 3, 2, 1},
	}, {
		desc:  "uniform",
		freqs: []uint32{5, 5, 5, 5, 5, 5, 5, 5},
		lens:  []uint8{3, 3, 3, 3, 3, 3, 3, 3},
	}}

	for _, v := range vectors {
		tree := BuildTree(v.freqs)
		if diff := cmp.Diff(v.lens, tree.Lengths(len(v.lens))); diff != "" {
			t.Errorf("%s: lengths mismatch (-want +got):\n%s", v.desc, diff)
		}
		checkTree(t, v.desc, &tree)
	}
}

// checkTree verifies the bookkeeping invariants of every node.
func checkTree(t *testing.T, desc string, tree *Tree) {
	t.Helper()
	var visit func(idx int32) (min, max, cnt uint32)
	visit = func(idx int32) (min, max, cnt uint32) {
		n := &tree.Nodes[idx]
		if n.IsLeaf() {
			if n.Count != 1 || n.SymMin != n.Sym || n.SymMax != n.Sym {
				t.Errorf("%s: leaf %d has bad bookkeeping: %+v", desc, idx, *n)
			}
			return n.Sym, n.Sym, 1
		}
		lmin, lmax, lcnt := visit(n.Left)
		rmin, rmax, rcnt := visit(n.Right)
		min, max, cnt = minUint32(lmin, rmin), maxUint32(lmax, rmax), lcnt+rcnt
		if n.SymMin != min || n.SymMax != max || n.Count != cnt {
			t.Errorf("%s: node %d has bad bookkeeping: %+v", desc, idx, *n)
		}
		if lcnt > rcnt {
			t.Errorf("%s: node %d has larger left subtree", desc, idx)
		}
		return min, max, cnt
	}
	visit(tree.Root)
}

func TestBuildTreeLimited(t *testing.T) {
	// Fibonacci frequencies produce the deepest possible tree.
	freqs := []uint32{1, 1}
	for len(freqs) < 30 {
		freqs = append(freqs, freqs[len(freqs)-1]+freqs[len(freqs)-2])
	}
	unlimited := BuildTree(freqs)
	if d := unlimited.MaxDepth(); d <= 15 {
		t.Fatalf("unlimited depth = %d, want > 15", d)
	}
	for _, maxBits := range []uint{5, 8, 15} {
		tree := BuildTreeLimited(freqs, maxBits)
		if d := tree.MaxDepth(); d > maxBits {
			t.Errorf("BuildTreeLimited(%d): depth = %d", maxBits, d)
		}
		lens := BuildLengths(freqs, maxBits)
		if !ValidLengths(lens, maxBits) {
			t.Errorf("BuildLengths(%d): invalid lengths %v", maxBits, lens)
		}
	}
}

func TestDecoder(t *testing.T) {
	r := testutil.NewRand(1)
	freqs := make([]uint32, 300)
	for i := range freqs {
		freqs[i] = uint32(r.Intn(1000))
	}
	lens := BuildLengths(freqs, 15)

	var syms []uint32
	for i := 0; i < 5000; i++ {
		if s := uint32(r.Intn(len(lens))); lens[s] > 0 {
			syms = append(syms, s)
		}
	}

	for _, order := range []BitOrder{LSBFirst, MSBFirst} {
		table := GenerateCodes(lens).Table(len(lens))
		pw := NewWriter(order, binary.LittleEndian)
		for _, s := range syms {
			pw.WriteCode(table[s])
		}
		var pd Decoder
		pd.InitLengths(lens, 15)
		pr := NewReader(pw.Bytes(), order, binary.LittleEndian)
		for i, s := range syms {
			if got := pr.ReadSymbol(&pd); got != s {
				t.Fatalf("order %d, symbol %d: got %d, want %d", order, i, got, s)
			}
		}
	}

	// Structural tree codes must decode through Init as well.
	tree := BuildTree(freqs)
	var codes PrefixCodes
	for _, c := range tree.Codes(len(freqs)) {
		if c.Len > 0 {
			codes = append(codes, c)
		}
	}
	var pd Decoder
	pd.Init(codes)
	if pd.NumSyms != len(codes) {
		t.Errorf("NumSyms = %d, want %d", pd.NumSyms, len(codes))
	}
}

func TestReadTreeSymbol(t *testing.T) {
	freqs := []uint32{1, 1}
	for len(freqs) < 30 {
		freqs = append(freqs, freqs[len(freqs)-1]+freqs[len(freqs)-2])
	}
	tree := BuildTree(freqs)
	codes := tree.Codes(len(freqs))

	pw := NewWriter(MSBFirst, binary.BigEndian)
	for s := range freqs {
		pw.WriteCode(codes[s])
	}
	pr := NewReader(pw.Bytes(), MSBFirst, binary.BigEndian)
	for s := range freqs {
		if got := pr.ReadTreeSymbol(&tree); got != uint32(s) {
			t.Fatalf("symbol %d: got %d", s, got)
		}
	}
}

func TestDecoderInvalid(t *testing.T) {
	vectors := []struct {
		desc string
		lens []uint8
	}{
		{"no symbols", []uint8{0, 0, 0}},
		{"over-subscribed", []uint8{1, 1, 1}},
		{"too long", []uint8{16, 1}},
	}
	for _, v := range vectors {
		err := func() (err error) {
			defer errors.Recover(&err)
			var pd Decoder
			pd.InitLengths(v.lens, 15)
			return nil
		}()
		if !errors.IsCorrupted(err) {
			t.Errorf("%s: got %v, want corrupted error", v.desc, err)
		}
	}

	// An incomplete code is accepted, but reading an unassigned code fails.
	var pd Decoder
	pd.InitLengths([]uint8{1, 0, 2}, 15) // Codes 0 and 10; 11 is unassigned
	pr := NewReader(testutil.MustDecodeHex("ffffffff"), MSBFirst, binary.BigEndian)
	err := func() (err error) {
		defer errors.Recover(&err)
		pr.ReadSymbol(&pd)
		return nil
	}()
	if !errors.IsCorrupted(err) {
		t.Errorf("unassigned code: got %v, want corrupted error", err)
	}
}

func TestRange(t *testing.T) {
	var vectors = []struct {
		input RangeCodes
		valid bool
	}{{
		input: RangeCodes{},
		valid: false,
	}, {
		input: RangeCodes{{5, 2}, {10, 5}}, // Gap in-between
		valid: false,
	}, {
		input: RangeCodes{{5, 20}, {7, 5}}, // All-encompassing overlap
		valid: false,
	}, {
		input: RangeCodes{{7, 5}, {5, 2}}, // Out-of-order
		valid: false,
	}, {
		input: MakeRangeCodes(3, []uint{
			0, 0, 0, 0, 0, 0, 0, 0, 1, 1, 1, 1, 2, 2, 2, 2, 3, 3, 3, 3, 4, 4, 4, 4, 5, 5, 5, 5,
		}),
		valid: true,
	}, {
		input: MakeRangeCodes(1, []uint{
			0, 0, 0, 0, 1, 1, 2, 2, 3, 3, 4, 4, 5, 5, 6, 6, 7, 7, 8, 8, 9, 9, 10, 10, 11, 11, 12, 12, 13, 13,
		}),
		valid: true,
	}, {
		input: MakeRangeCodes(1, []uint{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}),
		valid: true,
	}}

	r := testutil.NewRand(2)
	for i, v := range vectors {
		if valid := v.input.Valid(); valid != v.valid {
			t.Errorf("test %d, validity mismatch: got %v, want %v", i, valid, v.valid)
		}
		if !v.valid {
			continue // No point further testing invalid ranges
		}

		for _, rc := range v.input {
			offset := rc.Base + uint32(r.Intn(int(rc.End()-rc.Base)))
			sym, extra := v.input.Encode(offset)
			if sym < 0 || sym >= len(v.input) {
				t.Fatalf("test %d, invalid symbol: Encode(%d) = %d", i, offset, sym)
			}
			rc := v.input[sym]
			if offset < rc.Base || offset >= rc.End() || rc.Base+extra != offset {
				t.Errorf("test %d, symbol not in range: %d not in %d..%d", i, offset, rc.Base, rc.End()-1)
			}
		}
	}
}
