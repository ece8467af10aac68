// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Command ntrcomp compresses, decompresses, and identifies buffers in any of
// the formats of this module, and benchmarks the codecs against each other.
//
// Example usage:
//	$ ntrcomp compress -type lz11 -o file.lz file.bin
//	$ ntrcomp identify file.lz
//	file.lz: lz11 (2.41Ki -> 6.00Ki) 3c5b7a9e1f2d4c80
//	$ ntrcomp decompress -o file.out file.lz
//	$ ntrcomp bench -tests ratio -codecs lz77,lz11,flate-std -files sample:Text -sizes 1e4,64Ki
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	strconv "github.com/dsnet/golib/unitconv"
	"github.com/nitrotools/compress"
	"github.com/nitrotools/compress/internal/tool/bench"
)

const usage = `usage: ntrcomp <command> [flags] [files]

commands:
	compress    compress a file with the format given by -type
	decompress  decompress a file, detecting its format unless -type is set
	identify    report the detected format of each file
	bench       benchmark the registered codecs
`

func main() {
	log.SetFlags(0)
	log.SetPrefix("ntrcomp: ")
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(args []string, stdout io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("missing command\n%s", usage)
	}
	cmd, args := args[0], args[1:]
	switch cmd {
	case "compress":
		return runCodec(args, stdout, true)
	case "decompress":
		return runCodec(args, stdout, false)
	case "identify":
		return runIdentify(args, stdout)
	case "bench":
		return runBench(args, stdout)
	default:
		return fmt.Errorf("unknown command %q\n%s", cmd, usage)
	}
}

func runCodec(args []string, stdout io.Writer, encode bool) error {
	fs := flag.NewFlagSet("ntrcomp", flag.ContinueOnError)
	f0 := fs.String("type", "", "Name of the format to use")
	f1 := fs.String("o", "", "Output file (default stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("expected exactly one input file")
	}
	input, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return err
	}

	typ := compress.TypeNone
	if *f0 != "" {
		if typ, err = compress.ParseType(*f0); err != nil {
			return err
		}
	}
	var output []byte
	switch {
	case encode && typ == compress.TypeNone:
		return fmt.Errorf("compress requires -type")
	case encode:
		output, err = compress.Compress(input, typ)
	default:
		if typ == compress.TypeNone {
			if typ = compress.Identify(input); typ == compress.TypeNone {
				return fmt.Errorf("%s: unknown format", fs.Arg(0))
			}
		}
		output, err = compress.Decompress(input, typ)
	}
	if err != nil {
		return err
	}

	if *f1 == "" {
		_, err = stdout.Write(output)
		return err
	}
	log.Printf("%s: %v, %s -> %s", fs.Arg(0), typ, formatSize(len(input)), formatSize(len(output)))
	return os.WriteFile(*f1, output, 0644)
}

func runIdentify(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("ntrcomp", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	for _, name := range fs.Args() {
		input, err := os.ReadFile(name)
		if err != nil {
			return err
		}
		typ := compress.Identify(input)
		if typ == compress.TypeNone {
			fmt.Fprintf(stdout, "%s: none\n", name)
			continue
		}
		output, err := compress.Decompress(input, typ)
		if err != nil {
			return fmt.Errorf("%s: %v", name, err)
		}
		fmt.Fprintf(stdout, "%s: %v (%s -> %s) %016x\n", name, typ,
			formatSize(len(input)), formatSize(len(output)), xxhash.Sum64(output))
	}
	return nil
}

func formatSize(n int) string {
	s := strconv.FormatPrefix(float64(n), strconv.Base1024, 2)
	return strings.Replace(s, ".00", "", -1)
}

var (
	testToEnum = map[string]int{
		"encRate": bench.TestEncodeRate,
		"decRate": bench.TestDecodeRate,
		"ratio":   bench.TestCompressRatio,
	}
	enumToTest = map[int]string{
		bench.TestEncodeRate:    "encRate",
		bench.TestDecodeRate:    "decRate",
		bench.TestCompressRatio: "ratio",
	}
)

func defaultFiles() string {
	var s []string
	for _, name := range []string{"Text", "Repeats", "Random", "Sequence"} {
		s = append(s, bench.SamplePrefix+name)
	}
	return strings.Join(s, ",")
}

func runBench(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("ntrcomp", flag.ContinueOnError)
	f0 := fs.String("tests", "encRate,decRate,ratio", "List of different benchmark tests")
	f1 := fs.String("codecs", strings.Join(bench.Names(), ","), "List of codecs to benchmark")
	f2 := fs.String("paths", ".", "List of paths to search for test files")
	f3 := fs.String("files", defaultFiles(), "List of input files to benchmark")
	f4 := fs.String("sizes", "1e4,1e5", "List of input sizes to benchmark")
	f5 := fs.String("chart", "", "Write an SVG chart of each test to this path prefix")
	if err := fs.Parse(args); err != nil {
		return err
	}

	// Parse the flag arguments.
	var sep = regexp.MustCompile("[,:]")
	var tests, sizes []int
	codecs := strings.Split(*f1, ",")
	files := strings.Split(*f3, ",")
	for _, s := range sep.Split(*f0, -1) {
		t, ok := testToEnum[s]
		if !ok {
			return fmt.Errorf("invalid test: %q", s)
		}
		tests = append(tests, t)
	}
	for _, s := range sep.Split(*f4, -1) {
		nf, err := strconv.ParsePrefix(s, strconv.AutoParse)
		if err != nil {
			return fmt.Errorf("invalid size: %q", s)
		}
		sizes = append(sizes, int(nf))
	}
	for _, c := range codecs {
		if _, ok := bench.Codecs[c]; !ok {
			return fmt.Errorf("unknown codec: %q", c)
		}
	}
	bench.Paths = sep.Split(*f2, -1)

	ts := time.Now()
	for _, t := range tests {
		fmt.Fprintf(stdout, "BENCHMARK: %s\n", enumToTest[t])

		var cnt int
		total := len(codecs) * len(files) * len(sizes)
		tick := func() {
			pct := 100.0 * float64(cnt) / float64(total)
			fmt.Fprintf(os.Stderr, "\t[%6.2f%%] %d of %d\r", pct, cnt, total)
			cnt++
		}

		var results [][]bench.Result
		var names []string
		var title, suffix string
		switch t {
		case bench.TestEncodeRate:
			title = "MB/s"
			results, names = bench.BenchmarkEncoderSuite(codecs, files, sizes, tick)
		case bench.TestDecodeRate:
			title = "MB/s"
			results, names = bench.BenchmarkDecoderSuite(codecs, files, sizes, tick)
		case bench.TestCompressRatio:
			title, suffix = "ratio", "x"
			results, names = bench.BenchmarkRatioSuite(codecs, files, sizes, tick)
		}
		bench.PrintResults(stdout, results, names, codecs, title, suffix)
		fmt.Fprintln(stdout)

		if *f5 != "" {
			if err := writeChart(*f5+enumToTest[t]+".svg", enumToTest[t], results, codecs); err != nil {
				log.Printf("chart %s: %v", enumToTest[t], err)
			}
		}
	}
	fmt.Fprintf(stdout, "RUNTIME: %v\n", time.Since(ts))
	return nil
}

func writeChart(path, title string, results [][]bench.Result, codecs []string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := bench.RenderChart(f, title, results, codecs); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
