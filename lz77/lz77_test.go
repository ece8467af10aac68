// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package lz77

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/nitrotools/compress/internal/lz"
	"github.com/nitrotools/compress/internal/testutil"
)

func TestCompress(t *testing.T) {
	dh := testutil.MustDecodeHex

	vectors := []struct {
		desc   string
		input  []byte
		output []byte
	}{{
		desc:   "empty",
		input:  []byte{},
		output: dh("10000000"),
	}, {
		desc:   "literals only",
		input:  []byte("abc"),
		output: dh("10030000" + "00616263"),
	}, {
		desc:   "distance one is avoided",
		input:  []byte("aaaaaaa"),
		output: dh("10070000" + "20616120" + "01000000"),
	}, {
		desc:   "two flag groups",
		input:  []byte("abcdefghij"),
		output: dh("100a0000" + "00616263" + "64656667" + "6800696a"),
	}}

	for _, v := range vectors {
		output, err := Compress(v.input)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", v.desc, err)
			continue
		}
		if diff := cmp.Diff(v.output, output); diff != "" {
			t.Errorf("%s: Compress mismatch (-want +got):\n%s", v.desc, diff)
		}
	}
}

func TestDecompress(t *testing.T) {
	dh := testutil.MustDecodeHex

	vectors := []struct {
		desc   string
		input  []byte
		output []byte
		errf   string
	}{{
		desc:   "empty",
		input:  dh("10000000"),
		output: []byte{},
	}, {
		desc:   "distance one",
		input:  dh("10040000" + "40610000"),
		output: []byte("aaaa"),
	}, {
		desc:   "longest reference",
		input:  dh("10130000" + "4061f000"),
		output: bytes.Repeat([]byte("a"), 19),
	}, {
		desc:   "overlapping copy",
		input:  dh("10080000" + "20616230" + "01"),
		output: []byte("abababab"),
	}, {
		desc:  "truncated header",
		input: dh("1000"),
		errf:  "IsCorrupted",
	}, {
		desc:  "wrong tag",
		input: dh("11000000"),
		errf:  "IsCorrupted",
	}, {
		desc:  "reference before start",
		input: dh("10030000" + "800000"),
		errf:  "IsCorrupted",
	}, {
		desc:  "reference overruns size",
		input: dh("10020000" + "40610000"),
		errf:  "IsCorrupted",
	}, {
		desc:  "missing literal",
		input: dh("10050000" + "006162"),
		errf:  "IsCorrupted",
	}, {
		desc:  "missing flag byte",
		input: dh("10090000" + "00616263" + "64656667" + "68"),
		errf:  "IsCorrupted",
	}, {
		desc:  "truncated reference",
		input: dh("10050000" + "4061" + "00"),
		errf:  "IsCorrupted",
	}}

	for _, v := range vectors {
		output, err := Decompress(v.input)
		if !testutil.MatchError(err, v.errf) {
			t.Errorf("%s: error mismatch: got %v, want %s", v.desc, err, v.errf)
			continue
		}
		if err != nil {
			continue
		}
		if diff := cmp.Diff(v.output, output); diff != "" {
			t.Errorf("%s: Decompress mismatch (-want +got):\n%s", v.desc, diff)
		}
	}
}

func TestIsCompressed(t *testing.T) {
	dh := testutil.MustDecodeHex
	valid := dh("10030000" + "00616263")

	vectors := []struct {
		desc  string
		input []byte
		want  bool
	}{
		{"nil", nil, false},
		{"exact", valid, true},
		{"seven trailing bytes", append(valid, make([]byte, 7)...), true},
		{"eight trailing bytes", append(valid, make([]byte, 8)...), false},
		{"truncated", valid[:7], false},
		{"wrong tag", dh("11030000" + "00616263"), false},
		{"bad reference", dh("10030000" + "800000"), false},
	}
	for _, v := range vectors {
		if got := IsCompressed(v.input); got != v.want {
			t.Errorf("%s: IsCompressed() = %v, want %v", v.desc, got, v.want)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	for _, s := range testutil.Samples() {
		for _, magic := range []bool{false, true} {
			compress, decompress, valid := Compress, Decompress, IsCompressed
			if magic {
				compress, decompress, valid = CompressMagic, DecompressMagic, IsCompressedMagic
			}
			comp, err := compress(s.Data)
			if err != nil {
				t.Errorf("%s: compress error: %v", s.Name, err)
				continue
			}
			if !valid(comp) {
				t.Errorf("%s: compressed output not recognized", s.Name)
			}
			if !magic && len(comp)%4 != 0 {
				t.Errorf("%s: output length %d not padded", s.Name, len(comp))
			}
			got, err := decompress(comp)
			if err != nil {
				t.Errorf("%s: decompress error: %v", s.Name, err)
				continue
			}
			if !bytes.Equal(got, s.Data) {
				t.Errorf("%s: round-trip mismatch", s.Name)
			}
		}
	}
}

func TestTokenize(t *testing.T) {
	src := testutil.Repeats(0, 4096)
	for _, tok := range Tokenize(src) {
		if tok.IsLiteral() {
			continue
		}
		if tok.Length < minLength || tok.Length > maxLength {
			t.Fatalf("invalid length: %d", tok.Length)
		}
		if tok.Distance < minDistance || tok.Distance > maxDistance {
			t.Fatalf("invalid distance: %d", tok.Distance)
		}
	}

	// An all-literal parse is never cheaper than the chosen parse.
	toks := Tokenize(src)
	if got, max := lz.TotalCost(toks, tokenCost), int64(9*len(src)); got > max {
		t.Errorf("TotalCost() = %d, want <= %d", got, max)
	}
}

func TestBody(t *testing.T) {
	src := testutil.Text(0, 3000)
	body := AppendBody([]byte{0xff}, src)
	if body[0] != 0xff {
		t.Fatalf("AppendBody clobbered prefix")
	}
	n, err := ScanBody(body[1:], len(src))
	if err != nil || n != len(body)-1 {
		t.Fatalf("ScanBody() = (%d, %v), want (%d, nil)", n, err, len(body)-1)
	}
	got, n, err := DecodeBody(append(body[1:], 0, 0), len(src))
	if err != nil || n != len(body)-1 {
		t.Fatalf("DecodeBody() = (%d, %v), want (%d, nil)", n, err, len(body)-1)
	}
	if !bytes.Equal(got, src) {
		t.Errorf("DecodeBody mismatch")
	}
	if _, err := ScanBody(body[1:len(body)-1], len(src)); err == nil {
		t.Errorf("ScanBody of truncated body: got nil error")
	}
}
