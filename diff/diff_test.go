// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package diff

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/nitrotools/compress/internal/testutil"
)

func TestCodec(t *testing.T) {
	dh := testutil.MustDecodeHex

	vectors := []struct {
		desc  string
		raw   []byte
		width int
		comp  []byte
	}{{
		desc:  "empty 8-bit",
		raw:   []byte{},
		width: 8,
		comp:  dh("80000000"),
	}, {
		desc:  "8-bit wraps around",
		raw:   dh("010305ff00"),
		width: 8,
		comp:  dh("80050000" + "010202fa" + "01"),
	}, {
		desc:  "16-bit",
		raw:   dh("0100" + "0300" + "0000"),
		width: 16,
		comp:  dh("81060000" + "0100" + "0200" + "fdff"),
	}, {
		desc:  "16-bit odd length",
		raw:   dh("0100" + "05"),
		width: 16,
		comp:  dh("81030000" + "0100" + "0400"),
	}}

	for _, v := range vectors {
		comp, err := Compress(v.raw, v.width)
		if err != nil {
			t.Errorf("%s: Compress error: %v", v.desc, err)
			continue
		}
		if diff := cmp.Diff(v.comp, comp); diff != "" {
			t.Errorf("%s: Compress mismatch (-want +got):\n%s", v.desc, diff)
		}
		if Width(comp) != v.width {
			t.Errorf("%s: Width() = %d, want %d", v.desc, Width(comp), v.width)
		}
		raw, err := Decompress(v.comp)
		if err != nil {
			t.Errorf("%s: Decompress error: %v", v.desc, err)
			continue
		}
		if diff := cmp.Diff(v.raw, raw); diff != "" {
			t.Errorf("%s: Decompress mismatch (-want +got):\n%s", v.desc, diff)
		}
	}
}

func TestInvalid(t *testing.T) {
	if _, err := Compress(nil, 4); !testutil.MatchError(err, "IsInvalid") {
		t.Errorf("Compress with width 4: got %v, want invalid", err)
	}

	dh := testutil.MustDecodeHex
	vectors := []struct {
		desc  string
		input []byte
		valid bool
	}{
		{"truncated header", dh("8000"), false},
		{"wrong tag", dh("82010000" + "00"), false},
		{"truncated 8-bit body", dh("80030000" + "0102"), false},
		{"truncated 16-bit body", dh("81030000" + "010203"), false},
		{"exact body", dh("80030000" + "010203"), true},
		{"three trailing bytes", dh("80030000" + "010203" + "000000"), true},
		{"four trailing bytes", dh("80030000" + "010203" + "00000000"), false},
	}
	for _, v := range vectors {
		if got := IsCompressed(v.input); got != v.valid {
			t.Errorf("%s: IsCompressed() = %v, want %v", v.desc, got, v.valid)
		}
		_, err := Decompress(v.input)
		if v.valid || v.desc == "four trailing bytes" {
			if err != nil {
				t.Errorf("%s: Decompress error: %v", v.desc, err)
			}
		} else if !testutil.MatchError(err, "IsCorrupted") {
			t.Errorf("%s: Decompress error = %v, want corrupted", v.desc, err)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	for _, s := range testutil.Samples() {
		for _, width := range []int{8, 16} {
			comp, err := Compress(s.Data, width)
			if err != nil {
				t.Errorf("%s/%d: Compress error: %v", s.Name, width, err)
				continue
			}
			if !IsCompressed(comp) {
				t.Errorf("%s/%d: compressed output not recognized", s.Name, width)
			}
			got, err := Decompress(comp)
			if err != nil {
				t.Errorf("%s/%d: Decompress error: %v", s.Name, width, err)
				continue
			}
			if !bytes.Equal(got, s.Data) {
				t.Errorf("%s/%d: round-trip mismatch", s.Name, width)
			}
		}
	}
}
