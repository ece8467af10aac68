// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package ash

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/nitrotools/compress/internal/prefix"
	"github.com/nitrotools/compress/internal/testutil"
)

// pack builds a bit-stream from (value, bit-count) pairs.
func pack(fields ...uint32) []byte {
	pw := prefix.NewWriter(prefix.MSBFirst, binary.BigEndian)
	for i := 0; i < len(fields); i += 2 {
		pw.WriteBits(fields[i], uint(fields[i+1]))
	}
	return pw.Bytes()
}

// build assembles a stream from its header fields and the two bit-streams.
func build(size, distOff int, lit, dist []byte) []byte {
	b := []byte(Magic)
	b = binary.BigEndian.AppendUint32(b, uint32(size))
	b = binary.BigEndian.AppendUint32(b, uint32(distOff))
	b = append(b, lit...)
	return append(b, dist...)
}

func stream(size int, lit, dist []byte) []byte {
	return build(size, headerSize+len(lit), lit, dist)
}

// fullTree returns the fields of a balanced tree in which the leaf reached by
// the path p holds the symbol p.
func fullTree(bits uint) (fields []uint32) {
	var walk func(depth uint, p uint32)
	walk = func(depth uint, p uint32) {
		if depth == bits {
			fields = append(fields, 0, 1, p, uint32(bits))
			return
		}
		fields = append(fields, 1, 1)
		walk(depth+1, p<<1)
		walk(depth+1, p<<1|1)
	}
	walk(0, 0)
	return fields
}

func concat(fs ...[]uint32) (out []uint32) {
	for _, f := range fs {
		out = append(out, f...)
	}
	return out
}

func TestCompress(t *testing.T) {
	dh := testutil.MustDecodeHex
	output, err := Compress(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := dh("41534830" + "00000000" + "00000010" + "80200000" + "80080000")
	if diff := cmp.Diff(want, output); diff != "" {
		t.Errorf("Compress mismatch (-want +got):\n%s", diff)
	}
}

func TestDecompress(t *testing.T) {
	dh := testutil.MustDecodeHex

	// Literal tree with 'a' on the left and a length of 3 on the right.
	litA3 := []uint32{1, 1, 0, 1, 'a', litBits, 0, 1, 256, litBits}
	// Distance tree with distance 1 on the left and distance 2 on the right.
	dist12 := []uint32{1, 1, 0, 1, 0, distBits, 0, 1, 1, distBits}

	vectors := []struct {
		desc   string
		input  []byte
		output []byte
		errf   string
	}{{
		desc:   "empty",
		input:  dh("41534830" + "00000000" + "00000010" + "80200000" + "80080000"),
		output: []byte{},
	}, {
		desc:   "literal and back-reference",
		input:  stream(4, pack(concat(litA3, []uint32{0, 1, 1, 1})...), pack(concat(dist12, []uint32{0, 1})...)),
		output: []byte("aaaa"),
	}, {
		desc: "longest length",
		input: stream(259,
			pack(1, 1, 0, 1, 'a', litBits, 0, 1, 511, litBits, 0, 1, 1, 1),
			pack(concat(dist12, []uint32{0, 1})...)),
		output: bytes.Repeat([]byte("a"), 259),
	}, {
		desc:   "distance two",
		input:  stream(5, pack(concat(litA3, []uint32{0, 1, 0, 1, 1, 1})...), pack(concat(dist12, []uint32{1, 1})...)),
		output: []byte("aaaaa"),
	}, {
		desc:   "every literal symbol",
		input:  stream(1, pack(concat(fullTree(litBits), []uint32{'z', litBits})...), pack(dist12...)),
		output: []byte("z"),
	}, {
		desc:  "truncated header",
		input: dh("41534830" + "00000000"),
		errf:  "IsCorrupted",
	}, {
		desc:  "invalid magic",
		input: append(dh("41534831"), build(0, 16, dh("80200000"), dh("80080000"))[4:]...),
		errf:  "IsCorrupted",
	}, {
		desc:  "size too large",
		input: build(1<<24, 16, dh("80200000"), dh("80080000")),
		errf:  "IsCorrupted",
	}, {
		desc:  "distance offset inside header",
		input: build(0, 8, dh("80200000"), dh("80080000")),
		errf:  "IsCorrupted",
	}, {
		desc:  "distance offset past end",
		input: build(0, 21, dh("80200000"), dh("80080000")),
		errf:  "IsCorrupted",
	}, {
		desc:  "leaf at root",
		input: stream(0, pack(0, 1, 'a', litBits), pack(dist12...)),
		errf:  "IsCorrupted",
	}, {
		desc:  "too many tree nodes",
		input: stream(0, bytes.Repeat([]byte{0xff}, 1024), pack(dist12...)),
		errf:  "IsCorrupted",
	}, {
		desc:  "missing distance stream",
		input: stream(0, pack(litA3...), nil),
		errf:  "IsCorrupted",
	}, {
		desc:  "distance before start",
		input: stream(3, pack(concat(litA3, []uint32{1, 1})...), pack(concat(dist12, []uint32{0, 1})...)),
		errf:  "IsCorrupted",
	}, {
		desc:  "back-reference overruns size",
		input: stream(3, pack(concat(litA3, []uint32{0, 1, 1, 1})...), pack(concat(dist12, []uint32{0, 1})...)),
		errf:  "IsCorrupted",
	}, {
		desc:  "literal stream exhausted",
		input: stream(40, pack(concat(litA3, []uint32{0, 1})...), pack(dist12...)),
		errf:  "IsCorrupted",
	}}

	for _, v := range vectors {
		output, err := Decompress(v.input)
		if !testutil.MatchError(err, v.errf) {
			t.Errorf("%s: error mismatch: got %v, want %s", v.desc, err, v.errf)
			continue
		}
		if err == nil {
			if diff := cmp.Diff(v.output, output); diff != "" {
				t.Errorf("%s: Decompress mismatch (-want +got):\n%s", v.desc, diff)
			}
		}
		if got, want := IsCompressed(v.input), err == nil; got != want {
			t.Errorf("%s: IsCompressed() = %v, want %v", v.desc, got, want)
		}
	}
}

func TestIsCompressedTrailing(t *testing.T) {
	comp, err := Compress([]byte("hello, hello, hello"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !IsCompressed(append(comp, make([]byte, 7)...)) {
		t.Errorf("IsCompressed() = false with 7 trailing bytes")
	}
	if IsCompressed(append(comp, make([]byte, 8)...)) {
		t.Errorf("IsCompressed() = true with 8 trailing bytes")
	}
}

func TestRoundTrip(t *testing.T) {
	for _, s := range testutil.Samples() {
		comp, err := Compress(s.Data)
		if err != nil {
			t.Errorf("%s: Compress error: %v", s.Name, err)
			continue
		}
		if !IsCompressed(comp) {
			t.Errorf("%s: compressed output not recognized", s.Name)
		}
		got, err := Decompress(comp)
		if err != nil {
			t.Errorf("%s: Decompress error: %v", s.Name, err)
			continue
		}
		if !bytes.Equal(got, s.Data) {
			t.Errorf("%s: round-trip mismatch", s.Name)
		}
	}
}

func TestTree(t *testing.T) {
	r := testutil.NewRand(3)
	for _, n := range []int{2, 3, 100, numLitSyms} {
		freqs := make([]uint32, numLitSyms)
		for _, s := range r.Perm(numLitSyms)[:n] {
			freqs[s] = uint32(1 + r.Intn(500))
		}
		want := prefix.BuildTree(freqs)
		pw := prefix.NewWriter(prefix.MSBFirst, binary.BigEndian)
		writeTree(pw, &want, litBits)
		pr := prefix.NewReader(pw.Bytes(), prefix.MSBFirst, binary.BigEndian)
		got := readTree(pr, litBits)
		wantCodes := want.Codes(numLitSyms)
		for i := range wantCodes {
			wantCodes[i].Cnt = 0 // Frequencies are not serialized
		}
		if diff := cmp.Diff(wantCodes, got.Codes(numLitSyms)); diff != "" {
			t.Errorf("%d leaves: tree mismatch (-want +got):\n%s", n, diff)
		}
	}
}
