// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package fluxgate

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"
)

// Classify decides whether a line of the log holds a sample.
func Classify(line string) Record {
	line = strings.TrimRightFunc(line, unicode.IsSpace)
	if line == "" {
		return Record{Reason: ErrEmptyLine}
	}

	fields := strings.Split(line, ",")

	// Field 0 is only checked, it is a sequence counter.
	if _, err := parseInt(fields[0]); err != nil {
		return Record{Reason: fmt.Errorf("field 0: %w", err)}
	}

	if len(fields) < 2 {
		return Record{Reason: fmt.Errorf("field 1: %w", ErrMissingField)}
	}

	raw, err := parseInt(fields[1])
	if err != nil {
		return Record{Reason: fmt.Errorf("field 1: %w", err)}
	}

	return Record{Raw: raw}
}

// SkipHandler is called for every line that does not hold a sample.
// Line numbers start at 1.
type SkipHandler func(line int, text string, reason error)

// Option configures a SampleReader.
type Option func(*SampleReader)

// WithScale divides every sample by scale. A scale of zero disables scaling.
func WithScale(scale float64) Option {
	return func(sr *SampleReader) {
		sr.scale = scale
	}
}

// WithSkipHandler registers a handler for skipped lines.
func WithSkipHandler(fn SkipHandler) Option {
	return func(sr *SampleReader) {
		sr.onSkip = fn
	}
}

// SampleReader reads samples from a fluxgate CSV log, one per valid line.
type SampleReader struct {
	r       *bufio.Reader
	scale   float64
	onSkip  SkipHandler
	line    int // Number of lines consumed so far
	skipped int // Number of lines skipped so far
}

// NewSampleReader creates a SampleReader reading from r.
func NewSampleReader(r io.Reader, opts ...Option) *SampleReader {
	sr := &SampleReader{
		r: bufio.NewReader(r),
	}
	for _, opt := range opts {
		opt(sr)
	}
	return sr
}

// Read fills the provided float64 slice with the next samples of the log.
func (sr *SampleReader) Read(data []float64) (int, error) {
	n := 0
	for n < len(data) {
		text, err := sr.readLine()
		if err == io.EOF {
			return n, io.EOF
		} else if err != nil {
			return n, fmt.Errorf("error reading line %d: %w", sr.line+1, err)
		}
		sr.line++

		rec := Classify(text)
		if !rec.Valid() {
			sr.skipped++
			if sr.onSkip != nil {
				sr.onSkip(sr.line, text, rec.Reason)
			}
			continue
		}

		data[n] = sr.convert(rec.Raw)
		n++
	}

	return n, nil
}

// ReadAll reads every remaining sample of the log.
func (sr *SampleReader) ReadAll() ([]float64, error) {
	var samples []float64

	buf := make([]float64, 512)
	for {
		n, err := sr.Read(buf)
		samples = append(samples, buf[:n]...)
		if err == io.EOF {
			return samples, nil
		} else if err != nil {
			return samples, err
		}
	}
}

// Skipped returns the number of lines skipped so far.
func (sr *SampleReader) Skipped() int {
	return sr.skipped
}

// readLine returns the next line without its terminator. Lines are not
// limited in length.
func (sr *SampleReader) readLine() (string, error) {
	line, err := sr.r.ReadString('\n')
	if err == io.EOF && line != "" {
		// Last line without a trailing newline.
		err = nil
	}
	if err != nil {
		return "", err
	}

	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r"), nil
}

func (sr *SampleReader) convert(raw int64) float64 {
	if sr.scale == 0 {
		return float64(raw)
	}
	return float64(raw) / sr.scale
}

// ReadFile reads every sample of the log at path.
func ReadFile(path string, opts ...Option) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening log: %w", err)
	}
	defer f.Close()

	return NewSampleReader(f, opts...).ReadAll()
}

// DecodeConfig decodes a device configuration, the layout is inferred from
// the size of b.
func DecodeConfig(b []byte) (Config, error) {
	var layout Layout
	switch len(b) {
	case LayoutTwoField.Size():
		layout = LayoutTwoField
	case LayoutThreeField.Size():
		layout = LayoutThreeField
	default:
		return nil, fmt.Errorf("%w: %d bytes", ErrUnknownLayout, len(b))
	}

	values := make([]int32, len(b)/4)
	if err := binary.Read(bytes.NewReader(b), binary.LittleEndian, values); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}

	if layout == LayoutTwoField {
		return TwoField{
			LogInterval: int64(values[0]),
			OSR:         int64(values[1]),
		}, nil
	}

	return ThreeField{
		LogInterval: int64(values[0]),
		OSR:         int64(values[1]),
		Burst:       int64(values[2]),
	}, nil
}

// LoadConfig reads the device configuration at path.
func LoadConfig(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config: %w", err)
	}

	return DecodeConfig(b)
}

func parseInt(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrMissingField
	}

	i, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNotInteger, s)
	}
	return i, nil
}
