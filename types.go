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
	"errors"
	"fmt"
)

const (
	// DefaultLogPath is the CSV log written by the device.
	DefaultLogPath = "fluxgate.csv"
	// DefaultConfigPath is the configuration file read by the firmware.
	DefaultConfigPath = "FLUXGATE.CFG"
	// ScaleNone leaves raw device counts untouched.
	ScaleNone = 0
	// ScaleCounts converts raw device counts into physical units (48 * 5).
	ScaleCounts = 48 * 5
)

// Factory defaults for the device configuration.
const (
	DefaultLogIntervalMs = 250
	DefaultOSR           = 47
	DefaultBurst         = 1
)

var (
	ErrEmptyLine     = errors.New("empty line")
	ErrMissingField  = errors.New("missing field")
	ErrNotInteger    = errors.New("not an integer")
	ErrOutOfRange    = errors.New("value out of int32 range")
	ErrUnknownLayout = errors.New("unknown config layout")
	ErrNoSamples     = errors.New("no samples")
)

// Record is the result of classifying a single line of the log.
type Record struct {
	Raw    int64 // Sample value from field 1, valid only if Reason is nil
	Reason error // Why the line was skipped, nil for a valid record
}

// Valid reports whether the record holds a sample.
func (r Record) Valid() bool {
	return r.Reason == nil
}

// Layout identifies the binary layout of a device configuration.
type Layout int

const (
	LayoutTwoField Layout = iota
	LayoutThreeField
)

func (l Layout) String() string {
	switch l {
	case LayoutTwoField:
		return "two-field"
	case LayoutThreeField:
		return "three-field"
	default:
		return fmt.Sprintf("layout(%d)", int(l))
	}
}

// ParseLayout parses the name returned by Layout.String. The field counts
// "2" and "3" are accepted as shorthands.
func ParseLayout(s string) (Layout, error) {
	switch s {
	case "two-field", "2":
		return LayoutTwoField, nil
	case "three-field", "3":
		return LayoutThreeField, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownLayout, s)
	}
}

// Size is the encoded size of the layout in bytes.
func (l Layout) Size() int {
	switch l {
	case LayoutTwoField:
		return 8
	case LayoutThreeField:
		return 12
	default:
		return 0
	}
}

// Field is a single named value of a device configuration.
type Field struct {
	Label string // Human readable label (e.g. Log interval)
	Unit  string // Unit of the value, empty if dimensionless
	Value int64  // Value, must fit in an int32 to be encoded
}

// Config is a device configuration, either TwoField or ThreeField.
type Config interface {
	// Layout returns the tag of the configuration.
	Layout() Layout
	// Fields returns the fields in their on-disk order.
	Fields() []Field
}

// TwoField is the configuration layout without burst support.
type TwoField struct {
	LogInterval int64 // Interval between log entries in milliseconds
	OSR         int64 // Oversampling ratio
}

func (TwoField) Layout() Layout { return LayoutTwoField }

func (c TwoField) Fields() []Field {
	return []Field{
		{Label: "Log interval", Unit: "ms", Value: c.LogInterval},
		{Label: "OSR", Value: c.OSR},
	}
}

// ThreeField is the configuration layout with a burst count.
type ThreeField struct {
	LogInterval int64 // Interval between log entries in milliseconds
	OSR         int64 // Oversampling ratio
	Burst       int64 // Number of measurements taken per log interval
}

func (ThreeField) Layout() Layout { return LayoutThreeField }

func (c ThreeField) Fields() []Field {
	return []Field{
		{Label: "Log interval", Unit: "ms", Value: c.LogInterval},
		{Label: "OSR", Value: c.OSR},
		{Label: "Burst", Value: c.Burst},
	}
}
