// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

// Package settings loads the fluxgate tool settings from YAML.
package settings

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/OpenPSG/fluxgate"
	"gopkg.in/yaml.v3"
)

type LogSettings struct {
	Path  string  `yaml:"path"`
	Scale float64 `yaml:"scale"` // 0 disables scaling
}

type ChartSettings struct {
	Path   string  `yaml:"path"`
	Title  string  `yaml:"title"`
	Width  float64 `yaml:"width"`  // points
	Height float64 `yaml:"height"` // points
}

type DeviceSettings struct {
	Path          string `yaml:"path"`
	Layout        string `yaml:"layout"` // "two-field" or "three-field"
	LogIntervalMs int64  `yaml:"log_interval_ms"`
	OSR           int64  `yaml:"osr"`
	Burst         int64  `yaml:"burst"`
}

// Settings is the top-level structure of the settings file.
type Settings struct {
	Log    LogSettings    `yaml:"log"`
	Chart  ChartSettings  `yaml:"chart"`
	Device DeviceSettings `yaml:"device"`
}

// Default returns the settings used when no file is given.
func Default() *Settings {
	return &Settings{
		Log: LogSettings{
			Path:  fluxgate.DefaultLogPath,
			Scale: fluxgate.ScaleCounts,
		},
		Chart: ChartSettings{
			Path:   "fluxgate.png",
			Title:  "Fluxgate",
			Width:  1024,
			Height: 480,
		},
		Device: DeviceSettings{
			Path:          fluxgate.DefaultConfigPath,
			Layout:        fluxgate.LayoutThreeField.String(),
			LogIntervalMs: fluxgate.DefaultLogIntervalMs,
			OSR:           fluxgate.DefaultOSR,
			Burst:         fluxgate.DefaultBurst,
		},
	}
}

// Load reads and parses a settings file. Keys missing from the file keep
// their default values.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	s := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(s); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse settings: %w", err)
	}
	return s, nil
}

// DeviceConfig builds the device configuration described by the settings.
func (s *Settings) DeviceConfig() (fluxgate.Config, error) {
	layout, err := fluxgate.ParseLayout(s.Device.Layout)
	if err != nil {
		return nil, err
	}

	if layout == fluxgate.LayoutTwoField {
		return fluxgate.TwoField{
			LogInterval: s.Device.LogIntervalMs,
			OSR:         s.Device.OSR,
		}, nil
	}

	return fluxgate.ThreeField{
		LogInterval: s.Device.LogIntervalMs,
		OSR:         s.Device.OSR,
		Burst:       s.Device.Burst,
	}, nil
}
