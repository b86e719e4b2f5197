/*
NAME
  plot.go

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2026 the cimbar contributors. All rights reserved.
*/

package grade

import (
	"fmt"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// SaveSymbolErrorChart renders a bar chart of bit-error rate by expected
// symbol value to path, so a run's worst-performing symbols are visible
// at a glance instead of read off a sorted text dump.
func SaveSymbolErrorChart(r Report, path string) error {
	return saveBarChart(r.ErrorsBySymbol, "Bit-error rate by symbol", path)
}

// SaveColorErrorChart renders the colour-value equivalent of
// SaveSymbolErrorChart.
func SaveColorErrorChart(r Report, path string) error {
	return saveBarChart(r.ErrorsByColor, "Bit-error rate by colour", path)
}

func saveBarChart(buckets []Bucket, title, path string) error {
	if len(buckets) == 0 {
		return errors.New("grade: no buckets to plot")
	}

	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = "error rate"
	p.X.Label.Text = "value"

	values := make(plotter.Values, len(buckets))
	labels := make([]string, len(buckets))
	for i, b := range buckets {
		values[i] = b.Tracker.Rate()
		labels[i] = fmt.Sprintf("%02x", b.Key)
	}

	bars, err := plotter.NewBarChart(values, vg.Points(12))
	if err != nil {
		return errors.Wrap(err, "grade: building bar chart")
	}
	p.Add(bars)
	p.NominalX(labels...)

	width := vg.Length(len(buckets)) * vg.Points(16)
	if width < 4*vg.Inch {
		width = 4 * vg.Inch
	}
	if err := p.Save(width, 4*vg.Inch, path); err != nil {
		return errors.Wrap(err, "grade: saving chart")
	}
	return nil
}
