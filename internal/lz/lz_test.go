// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package lz

import (
	"bytes"
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/nitrotools/compress/internal/testutil"
)

var (
	cfgLZ77 = Config{MinLength: 3, MaxLength: 18, MinDistance: 2, MaxDistance: 4096}
	cfgLZ11 = Config{MinLength: 3, MaxLength: 65808, MinDistance: 1, MaxDistance: 4096}
)

func costLZ77(_, length, distance int) (int, bool) {
	switch {
	case distance == 0:
		return 9, true
	case length >= 3 && length <= 18:
		return 17, true
	}
	return 0, false
}

func costLZ11(_, length, distance int) (int, bool) {
	switch {
	case distance == 0:
		return 9, true
	case length < 3:
		return 0, false
	case length <= 16:
		return 17, true
	case length <= 272:
		return 25, true
	}
	return 33, true
}

// replay reconstructs the input from tokens, failing the test if any token
// refers outside of the data decoded so far.
func replay(t *testing.T, src []byte, toks []Token) []byte {
	t.Helper()
	var out []byte
	for _, tok := range toks {
		if tok.IsLiteral() {
			out = append(out, src[len(out)])
			continue
		}
		if tok.Distance > len(out) {
			t.Fatalf("token %+v refers before start of output (%d)", tok, len(out))
		}
		for i := 0; i < tok.Length; i++ {
			out = append(out, out[len(out)-tok.Distance])
		}
	}
	return out
}

func TestFindMatch(t *testing.T) {
	vectors := []struct {
		desc  string
		input string
		cfg   Config
		pos   int
		want  Match
	}{{
		desc:  "no history",
		input: "abcabc",
		cfg:   cfgLZ11,
		pos:   0,
		want:  Match{Length: 1},
	}, {
		desc:  "simple repeat",
		input: "abcabc",
		cfg:   cfgLZ11,
		pos:   3,
		want:  Match{Length: 3, Distance: 3},
	}, {
		desc:  "overlapping run",
		input: "aaaaaaaa",
		cfg:   cfgLZ11,
		pos:   1,
		want:  Match{Length: 7, Distance: 1},
	}, {
		desc:  "distance one is skipped",
		input: "aaaaaaaa",
		cfg:   cfgLZ77,
		pos:   2,
		want:  Match{Length: 6, Distance: 2},
	}, {
		desc:  "clamped to maximum length",
		input: "abcdefghijklmnopqrstabcdefghijklmnopqrst",
		cfg:   cfgLZ77,
		pos:   20,
		want:  Match{Length: 18, Distance: 20},
	}, {
		desc:  "clamped to end of buffer",
		input: "xyzqxyz",
		cfg:   cfgLZ77,
		pos:   4,
		want:  Match{Length: 3, Distance: 4},
	}, {
		desc:  "longer match farther away wins",
		input: "abcdXabcYabcZabcd",
		cfg:   cfgLZ77,
		pos:   13,
		want:  Match{Length: 4, Distance: 13},
	}, {
		desc:  "beyond maximum distance",
		input: "abc" + string(make([]byte, 10)) + "abc",
		cfg:   Config{MinLength: 3, MaxLength: 18, MinDistance: 1, MaxDistance: 12},
		pos:   13,
		want:  Match{Length: 1},
	}}

	for _, v := range vectors {
		src := []byte(v.input)
		m := NewMatcher(src, v.cfg)
		for i := 0; i < v.pos; i++ {
			m.Insert(i)
		}
		if got := m.FindMatch(v.pos); got != v.want {
			t.Errorf("%s: FindMatch(%d) = %+v, want %+v", v.desc, v.pos, got, v.want)
		}
	}
}

func TestFindMatches(t *testing.T) {
	r := testutil.NewRand(0)
	var inputs [][]byte
	for i := 0; i < 50; i++ {
		b := make([]byte, 1+r.Intn(300))
		alpha := 1 + r.Intn(3)
		for j := range b {
			b[j] = 'a' + byte(r.Intn(alpha))
		}
		inputs = append(inputs, b)
	}
	inputs = append(inputs, make([]byte, 100), []byte("abcabcabcabcXabcabcabc"))

	for _, cfg := range []Config{cfgLZ77, cfgLZ11} {
		for _, src := range inputs {
			got := FindMatches(src, cfg)
			for pos := range src {
				// A fresh matcher compares every byte of every candidate.
				m := NewMatcher(src, cfg)
				for i := 0; i < pos; i++ {
					m.Insert(i)
				}
				if want := m.FindMatch(pos); got[pos] != want {
					t.Errorf("FindMatches(%q)[%d] = %+v, want %+v", src, pos, got[pos], want)
				}
			}
		}
	}
}

func TestTokenizeRun(t *testing.T) {
	const n = 1 << 16
	src := make([]byte, n)

	start := time.Now()
	matches := FindMatches(src, cfgLZ11)
	for i := 1; i < n; i++ {
		if want := (Match{Length: n - i, Distance: 1}); matches[i] != want {
			t.Fatalf("matches[%d] = %+v, want %+v", i, matches[i], want)
		}
	}
	toks := Parse(matches, costLZ11)
	if d := time.Since(start); d > 5*time.Second {
		t.Errorf("tokenizing %d zero bytes took %v", n, d)
	}
	want := []Token{{Length: 1}, {Length: n - 1, Distance: 1}}
	if diff := cmp.Diff(want, toks); diff != "" {
		t.Errorf("Parse mismatch (-want +got):\n%s", diff)
	}
}

// bruteForceCost computes the true minimum cost of encoding src by trying
// every legal (length, distance) pair at every position.
func bruteForceCost(src []byte, cfg Config, cost CostFunc) int64 {
	n := len(src)
	best := make([]int64, n+1)
	for i := n - 1; i >= 0; i-- {
		lit, _ := cost(i, 1, 0)
		best[i] = int64(lit) + best[i+1]
		for d := cfg.MinDistance; d <= cfg.MaxDistance && d <= i; d++ {
			for l := 2; l <= cfg.MaxLength && i+l <= n; l++ {
				if src[i+l-1] != src[i+l-1-d] {
					break
				}
				bits, ok := cost(i, l, d)
				if !ok {
					continue
				}
				if w := int64(bits) + best[i+l]; w < best[i] {
					best[i] = w
				}
			}
		}
	}
	return best[0]
}

func TestParseOptimal(t *testing.T) {
	formats := []struct {
		name string
		cfg  Config
		cost CostFunc
	}{
		{"LZ77", cfgLZ77, costLZ77},
		{"LZ11", cfgLZ11, costLZ11},
	}

	r := testutil.NewRand(0)
	var inputs [][]byte
	for i := 0; i < 400; i++ {
		b := make([]byte, 1+r.Intn(32))
		alpha := 1 + r.Intn(3)
		for j := range b {
			b[j] = 'a' + byte(r.Intn(alpha))
		}
		inputs = append(inputs, b)
	}
	inputs = append(inputs, []byte("aaa"), []byte("abababab"), bytes.Repeat([]byte("x"), 32))

	for _, f := range formats {
		for _, src := range inputs {
			toks := Tokenize(src, f.cfg, f.cost)
			if out := replay(t, src, toks); !bytes.Equal(out, src) {
				t.Fatalf("%s: replay mismatch for %q: got %q", f.name, src, out)
			}
			got := TotalCost(toks, f.cost)
			want := bruteForceCost(src, f.cfg, f.cost)
			if got != want {
				t.Errorf("%s: cost for %q = %d, want %d", f.name, src, got, want)
			}
		}
	}
}

func TestParseSkipsUnencodable(t *testing.T) {
	// Only lengths 4 and 6 can be encoded.
	cost := func(_, length, distance int) (int, bool) {
		switch {
		case distance == 0:
			return 9, true
		case length == 4 || length == 6:
			return 10, true
		}
		return 0, false
	}
	src := []byte("abcdeabcde")
	toks := Tokenize(src, Config{MinLength: 3, MaxLength: 10, MinDistance: 1, MaxDistance: 100}, cost)
	for _, tok := range toks {
		if !tok.IsLiteral() && tok.Length != 4 && tok.Length != 6 {
			t.Errorf("unencodable token selected: %+v", tok)
		}
	}
	if out := replay(t, src, toks); !bytes.Equal(out, src) {
		t.Errorf("replay mismatch: got %q", out)
	}
}

func TestParseTieBreak(t *testing.T) {
	// A flat cost makes every match length equally priced, so the longest
	// match must be chosen.
	cost := func(_, length, distance int) (int, bool) {
		if distance == 0 {
			return math.MaxInt32 / 4, true
		}
		return 1, true
	}
	toks := Parse([]Match{
		{Length: 1}, {Length: 1}, {Length: 1},
		{Length: 6, Distance: 3},
		{Length: 5, Distance: 3}, {Length: 4, Distance: 3},
		{Length: 3, Distance: 3}, {Length: 2, Distance: 3}, {Length: 1},
	}, cost)
	want := []Token{{1, 0}, {1, 0}, {1, 0}, {6, 3}}
	if diff := cmp.Diff(want, toks); diff != "" {
		t.Errorf("Parse mismatch (-want +got):\n%s", diff)
	}
}
