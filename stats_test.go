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
	"math"
	"testing"

	"github.com/OpenPSG/fluxgate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	s, err := fluxgate.Summarize([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	require.NoError(t, err)
	assert.Equal(t, 8, s.Count)
	assert.Equal(t, 2.0, s.Min)
	assert.Equal(t, 9.0, s.Max)
	assert.InDelta(t, 5.0, s.Mean, 1e-12)
	assert.InDelta(t, math.Sqrt(32.0/7.0), s.StdDev, 1e-12)

	s, err = fluxgate.Summarize([]float64{-3})
	require.NoError(t, err)
	assert.Equal(t, -3.0, s.Min)
	assert.True(t, math.IsNaN(s.StdDev))

	_, err = fluxgate.Summarize(nil)
	require.ErrorIs(t, err, fluxgate.ErrNoSamples)
}
