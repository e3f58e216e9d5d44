// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

// Package plot renders fluxgate sample sequences as line charts.
package plot

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/OpenPSG/fluxgate"
	"golang.org/x/image/colornames"
	gonumplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

var ErrNoSamples = fluxgate.ErrNoSamples

// Options controls the appearance of a chart.
type Options struct {
	Title  string
	XLabel string
	YLabel string
	Width  vg.Length // Width of the saved image
	Height vg.Length // Height of the saved image
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{
		Title:  "Fluxgate",
		XLabel: "Sample",
		YLabel: "Field",
		Width:  1024,
		Height: 480,
	}
}

// Render builds a line chart of samples, using the sample index as the x axis.
func Render(samples []float64, opts Options) (*gonumplot.Plot, error) {
	if len(samples) == 0 {
		return nil, ErrNoSamples
	}

	p := gonumplot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = opts.XLabel
	p.Y.Label.Text = opts.YLabel
	p.BackgroundColor = colornames.White
	p.Add(plotter.NewGrid())

	xys := make(plotter.XYs, len(samples))
	for i, v := range samples {
		xys[i].X = float64(i)
		xys[i].Y = v
	}

	line, err := plotter.NewLine(xys)
	if err != nil {
		return nil, fmt.Errorf("error creating line: %w", err)
	}
	line.Color = colornames.Darkmagenta
	p.Add(line)

	return p, nil
}

// Save renders a chart of samples and writes it to path. The image format
// is taken from the file extension.
func Save(samples []float64, opts Options, path string) error {
	p, err := Render(samples, opts)
	if err != nil {
		return err
	}

	width, height := size(opts)
	if err := p.Save(width, height, path); err != nil {
		return fmt.Errorf("error saving chart: %w", err)
	}

	return nil
}

// Write renders a chart of samples and writes it to w in the given format
// (png, svg, pdf, ...).
func Write(w io.Writer, samples []float64, opts Options, format string) error {
	p, err := Render(samples, opts)
	if err != nil {
		return err
	}

	width, height := size(opts)
	wt, err := p.WriterTo(width, height, strings.TrimPrefix(format, "."))
	if err != nil {
		return fmt.Errorf("error rendering chart: %w", err)
	}

	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("error writing chart: %w", err)
	}

	return nil
}

// Format returns the image format implied by path.
func Format(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

func size(opts Options) (vg.Length, vg.Length) {
	def := DefaultOptions()
	width, height := opts.Width, opts.Height
	if width <= 0 {
		width = def.Width
	}
	if height <= 0 {
		height = def.Height
	}
	return width, height
}
