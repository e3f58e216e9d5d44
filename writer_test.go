// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package fluxgate_test

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/OpenPSG/fluxgate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	b, err := fluxgate.Encode(fluxgate.ThreeField{LogInterval: 250, OSR: 47, Burst: 1})
	require.NoError(t, err)
	require.Len(t, b, 12)

	values := make([]int32, 3)
	require.NoError(t, binary.Read(bytes.NewReader(b), binary.LittleEndian, values))
	assert.Equal(t, []int32{250, 47, 1}, values)

	b, err = fluxgate.Encode(fluxgate.TwoField{LogInterval: 250, OSR: 47})
	require.NoError(t, err)
	assert.Equal(t, []byte{0xfa, 0, 0, 0, 0x2f, 0, 0, 0}, b)

	b, err = fluxgate.Encode(fluxgate.TwoField{LogInterval: math.MinInt32, OSR: math.MaxInt32})
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 0, 0x80, 0xff, 0xff, 0xff, 0x7f}, b)
}

func TestEncodeOutOfRange(t *testing.T) {
	_, err := fluxgate.Encode(fluxgate.ThreeField{LogInterval: 250, OSR: 1 << 31, Burst: 1})
	require.ErrorIs(t, err, fluxgate.ErrOutOfRange)
	assert.ErrorContains(t, err, "OSR")

	_, err = fluxgate.Encode(fluxgate.TwoField{LogInterval: math.MinInt32 - 1})
	require.ErrorIs(t, err, fluxgate.ErrOutOfRange)

	var buf bytes.Buffer
	err = fluxgate.WriteConfig(&buf, fluxgate.ThreeField{LogInterval: 250, OSR: 47, Burst: 1 << 31})
	require.ErrorIs(t, err, fluxgate.ErrOutOfRange)
	assert.Zero(t, buf.Len())
}

func TestSaveConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), fluxgate.DefaultConfigPath)

	// Pre-existing content must be discarded.
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte{0xaa}, 64), 0o644))

	cfg := fluxgate.ThreeField{
		LogInterval: fluxgate.DefaultLogIntervalMs,
		OSR:         fluxgate.DefaultOSR,
		Burst:       fluxgate.DefaultBurst,
	}
	require.NoError(t, fluxgate.SaveConfig(path, cfg))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(12), info.Size())

	loaded, err := fluxgate.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)

	require.NoError(t, fluxgate.SaveConfig(path, fluxgate.TwoField{LogInterval: 1000, OSR: 8}))

	info, err = os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(8), info.Size())

	loaded, err = fluxgate.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, fluxgate.TwoField{LogInterval: 1000, OSR: 8}, loaded)
}

func TestSaveConfigFailures(t *testing.T) {
	dir := t.TempDir()

	// A bad value must not clobber the existing file.
	path := filepath.Join(dir, fluxgate.DefaultConfigPath)
	require.NoError(t, fluxgate.SaveConfig(path, fluxgate.TwoField{LogInterval: 250, OSR: 47}))
	err := fluxgate.SaveConfig(path, fluxgate.TwoField{LogInterval: 1 << 31, OSR: 47})
	require.ErrorIs(t, err, fluxgate.ErrOutOfRange)

	loaded, err := fluxgate.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, fluxgate.TwoField{LogInterval: 250, OSR: 47}, loaded)

	err = fluxgate.SaveConfig(filepath.Join(dir, "missing", "FLUXGATE.CFG"), fluxgate.TwoField{})
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestSummary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, fluxgate.Summary(&buf, fluxgate.ThreeField{LogInterval: 250, OSR: 47, Burst: 1}))
	assert.Equal(t, "Log interval: 250 ms\nOSR: 47\nBurst: 1\n", buf.String())

	buf.Reset()
	require.NoError(t, fluxgate.Summary(&buf, fluxgate.TwoField{LogInterval: 100, OSR: 16}))
	assert.Equal(t, "Log interval: 100 ms\nOSR: 16\n", buf.String())
}

func TestParseLayout(t *testing.T) {
	for _, layout := range []fluxgate.Layout{fluxgate.LayoutTwoField, fluxgate.LayoutThreeField} {
		parsed, err := fluxgate.ParseLayout(layout.String())
		require.NoError(t, err)
		assert.Equal(t, layout, parsed)
	}

	layout, err := fluxgate.ParseLayout("2")
	require.NoError(t, err)
	assert.Equal(t, fluxgate.LayoutTwoField, layout)

	layout, err = fluxgate.ParseLayout("3")
	require.NoError(t, err)
	assert.Equal(t, fluxgate.LayoutThreeField, layout)

	_, err = fluxgate.ParseLayout("four-field")
	require.ErrorIs(t, err, fluxgate.ErrUnknownLayout)
}
