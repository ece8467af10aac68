// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package bench

import (
	"io"
	"math"

	"github.com/wcharczuk/go-chart/v2"
)

// RenderChart draws one line per codec through its results, in the order the
// benchmarks were run, and writes the chart as SVG. Missing results are
// plotted as zero.
func RenderChart(w io.Writer, title string, results [][]Result, codecs []string) error {
	graph := chart.Chart{
		Title: title,
		XAxis: chart.XAxis{Name: "benchmark"},
		YAxis: chart.YAxis{Name: title},
	}
	for i, c := range codecs {
		xvals := make([]float64, len(results))
		yvals := make([]float64, len(results))
		for j, row := range results {
			xvals[j] = float64(j)
			if r := row[i].R; !math.IsNaN(r) && !math.IsInf(r, 0) {
				yvals[j] = r
			}
		}
		graph.Series = append(graph.Series, chart.ContinuousSeries{
			Name:    c,
			Style:   chart.Style{DotWidth: 3},
			XValues: xvals,
			YValues: yvals,
		})
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	return graph.Render(chart.SVG, w)
}
