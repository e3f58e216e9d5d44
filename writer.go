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
	"math"
	"os"
)

// Encode packs a device configuration into its on-disk form.
func Encode(cfg Config) ([]byte, error) {
	fields := cfg.Fields()
	if len(fields)*4 != cfg.Layout().Size() {
		return nil, fmt.Errorf("%w: %s with %d fields", ErrUnknownLayout, cfg.Layout(), len(fields))
	}

	var buf bytes.Buffer
	for _, field := range fields {
		if field.Value < math.MinInt32 || field.Value > math.MaxInt32 {
			return nil, fmt.Errorf("%s: %w: %d", field.Label, ErrOutOfRange, field.Value)
		}

		if err := binary.Write(&buf, binary.LittleEndian, int32(field.Value)); err != nil {
			return nil, fmt.Errorf("error encoding %s: %w", field.Label, err)
		}
	}

	return buf.Bytes(), nil
}

// WriteConfig writes a device configuration to w. Nothing is written if the
// configuration cannot be encoded.
func WriteConfig(w io.Writer, cfg Config) error {
	b, err := Encode(cfg)
	if err != nil {
		return err
	}

	if _, err := w.Write(b); err != nil {
		return fmt.Errorf("error writing config: %w", err)
	}

	return nil
}

// SaveConfig writes a device configuration to path, replacing any existing
// contents.
func SaveConfig(path string, cfg Config) error {
	// Encode before touching the file so a bad value leaves it intact.
	b, err := Encode(cfg)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("error opening config: %w", err)
	}

	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return fmt.Errorf("error writing config: %w", err)
	}

	return f.Close()
}

// Summary writes a human readable line for each field of the configuration.
func Summary(w io.Writer, cfg Config) error {
	writer := bufio.NewWriter(w)

	for _, field := range cfg.Fields() {
		line := fmt.Sprintf("%s: %d", field.Label, field.Value)
		if field.Unit != "" {
			line += " " + field.Unit
		}

		if _, err := writer.WriteString(line + "\n"); err != nil {
			return err
		}
	}

	// Ensure all data is flushed to the underlying writer
	return writer.Flush()
}
