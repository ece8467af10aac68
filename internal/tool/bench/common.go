// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package bench compares the performance of the codecs in this module, and of
// a few general purpose reference codecs, with respect to encode speed,
// decode speed, and ratio.
package bench

import (
	"fmt"
	"os"
	"path"
	"regexp"
	"runtime"
	"sort"
	"strings"
	"testing"

	"github.com/cespare/xxhash/v2"
	strconv "github.com/dsnet/golib/unitconv"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/nitrotools/compress/internal/testutil"
)

const (
	TestEncodeRate = iota
	TestDecodeRate
	TestCompressRatio
)

// SamplePrefix marks an input name that refers to one of the generated
// testutil samples rather than to a file.
const SamplePrefix = "sample:"

// Codec is a whole-buffer compressor paired with its decompressor.
type Codec struct {
	Encode func([]byte) ([]byte, error)
	Decode func([]byte) ([]byte, error)
}

var (
	Codecs map[string]Codec

	// List of search paths for test files.
	Paths []string
)

func RegisterCodec(name string, c Codec) {
	if Codecs == nil {
		Codecs = make(map[string]Codec)
	}
	Codecs[name] = c
}

// Names returns the names of all registered codecs in sorted order.
func Names() []string {
	var s []string
	for k := range Codecs {
		s = append(s, k)
	}
	sort.Strings(s)
	return s
}

type inputKey struct {
	file string
	size int
}

// Every suite visits each input once per codec, so loaded inputs are kept
// around until enough other inputs have been loaded.
var inputs = mustCache(64)

func mustCache(n int) *lru.Cache[inputKey, []byte] {
	c, err := lru.New[inputKey, []byte](n)
	if err != nil {
		panic(err)
	}
	return c
}

// LoadInput returns the first n bytes of the named input, replicating it as
// needed. Names starting with SamplePrefix refer to testutil samples.
func LoadInput(file string, n int) ([]byte, error) {
	k := inputKey{file, n}
	if b, ok := inputs.Get(k); ok {
		return b, nil
	}

	var b []byte
	if name := strings.TrimPrefix(file, SamplePrefix); name != file {
		for _, s := range testutil.Samples() {
			if s.Name == name && (len(s.Data) > 0 || n <= 0) {
				b = testutil.ResizeData(s.Data, n)
			}
		}
		if b == nil {
			return nil, fmt.Errorf("unknown sample: %q", name)
		}
	} else {
		var err error
		if b, err = testutil.LoadFile(getPath(file), n); err != nil {
			return nil, err
		}
	}
	inputs.Add(k, b)
	return b, nil
}

// BenchmarkEncoder benchmarks a single encoder on the given input data and
// reports the result.
func BenchmarkEncoder(input []byte, c Codec) testing.BenchmarkResult {
	return testing.Benchmark(func(b *testing.B) {
		b.StopTimer()
		if c.Encode == nil {
			b.Fatalf("unexpected error: nil Encode")
		}
		runtime.GC()
		b.StartTimer()
		for i := 0; i < b.N; i++ {
			if _, err := c.Encode(input); err != nil {
				b.Fatalf("unexpected error: %v", err)
			}
			b.SetBytes(int64(len(input)))
		}
	})
}

type Result struct {
	R float64 // Rate (MB/s) or ratio (rawSize/compSize)
	D float64 // Delta ratio relative to primary benchmark
}

// BenchmarkEncoderSuite runs multiple benchmarks across all codecs, files,
// and sizes.
//
// The values returned have the following structure:
//	results: [len(files)*len(sizes)][len(codecs)]Result
//	names:   [len(files)*len(sizes)]string
func BenchmarkEncoderSuite(codecs, files []string, sizes []int, tick func()) (results [][]Result, names []string) {
	return benchmarkSuite(codecs, files, sizes, tick,
		func(input []byte, codec string) Result {
			result := BenchmarkEncoder(input, Codecs[codec])
			if result.N == 0 {
				return Result{}
			}
			us := (float64(result.T.Nanoseconds()) / 1e3) / float64(result.N)
			rate := float64(result.Bytes) / us
			return Result{R: rate}
		})
}

// BenchmarkDecoder benchmarks a single decoder on the given pre-compressed
// input data and reports the result. The output of the first decode must
// hash to sum.
func BenchmarkDecoder(input []byte, c Codec, sum uint64) testing.BenchmarkResult {
	return testing.Benchmark(func(b *testing.B) {
		b.StopTimer()
		if c.Decode == nil {
			b.Fatalf("unexpected error: nil Decode")
		}
		output, err := c.Decode(input)
		if err != nil {
			b.Fatalf("unexpected error: %v", err)
		}
		if got := xxhash.Sum64(output); got != sum {
			b.Fatalf("mismatching checksum: got 0x%016x, want 0x%016x", got, sum)
		}
		runtime.GC()
		b.StartTimer()
		for i := 0; i < b.N; i++ {
			if _, err := c.Decode(input); err != nil {
				b.Fatalf("unexpected error: %v", err)
			}
			b.SetBytes(int64(len(output)))
		}
	})
}

// BenchmarkDecoderSuite runs multiple benchmarks across all codecs, files,
// and sizes. Every codec decodes its own output.
//
// The values returned have the following structure:
//	results: [len(files)*len(sizes)][len(codecs)]Result
//	names:   [len(files)*len(sizes)]string
func BenchmarkDecoderSuite(codecs, files []string, sizes []int, tick func()) (results [][]Result, names []string) {
	return benchmarkSuite(codecs, files, sizes, tick,
		func(input []byte, codec string) Result {
			c := Codecs[codec]
			output, err := c.Encode(input)
			if err != nil {
				return Result{}
			}
			result := BenchmarkDecoder(output, c, xxhash.Sum64(input))
			if result.N == 0 {
				return Result{}
			}
			us := (float64(result.T.Nanoseconds()) / 1e3) / float64(result.N)
			rate := float64(result.Bytes) / us
			return Result{R: rate}
		})
}

// BenchmarkRatioSuite runs multiple benchmarks across all codecs, files, and
// sizes.
//
// The values returned have the following structure:
//	results: [len(files)*len(sizes)][len(codecs)]Result
//	names:   [len(files)*len(sizes)]string
func BenchmarkRatioSuite(codecs, files []string, sizes []int, tick func()) (results [][]Result, names []string) {
	return benchmarkSuite(codecs, files, sizes, tick,
		func(input []byte, codec string) Result {
			output, err := Codecs[codec].Encode(input)
			if err != nil || len(output) == 0 {
				return Result{}
			}
			ratio := float64(len(input)) / float64(len(output))
			return Result{R: ratio}
		})
}

type benchFunc func(input []byte, codec string) Result

func benchmarkSuite(codecs, files []string, sizes []int, tick func(), run benchFunc) ([][]Result, []string) {
	// Allocate buffers for the result.
	d0 := len(files) * len(sizes)
	d1 := len(codecs)
	results := make([][]Result, d0)
	for i := range results {
		results[i] = make([]Result, d1)
	}
	names := make([]string, d0)

	// Run the benchmark for every codec, file, and size.
	var i int
	for _, f := range files {
		for _, n := range sizes {
			b, err := LoadInput(f, n)
			name := getName(f, len(b))
			for j, c := range codecs {
				if tick != nil {
					tick()
				}
				names[i] = name
				if _, ok := Codecs[c]; err == nil && ok {
					results[i][j] = run(b, c)
				}
				results[i][j].D = results[i][j].R / results[i][0].R
			}
			i++
		}
	}
	return results, names
}

func getPath(file string) string {
	if path.IsAbs(file) {
		return file
	}
	for _, p := range Paths {
		p = path.Join(p, file)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return file
}

func getName(f string, n int) string {
	var sn string
	switch n {
	case 1e3, 1e4, 1e5, 1e6, 1e7, 1e8, 1e9:
		s := fmt.Sprintf("%e", float64(n))
		re := regexp.MustCompile("\\.0*e\\+0*")
		sn = re.ReplaceAllString(s, "e")
	default:
		s := strconv.FormatPrefix(float64(n), strconv.Base1024, 2)
		sn = strings.Replace(s, ".00", "", -1)
	}
	return fmt.Sprintf("%s:%s", path.Base(strings.TrimPrefix(f, SamplePrefix)), sn)
}
