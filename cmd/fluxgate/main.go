// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

// Command fluxgate plots fluxgate magnetometer logs and writes the device
// configuration file.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/OpenPSG/fluxgate"
	"github.com/OpenPSG/fluxgate/plot"
	"github.com/OpenPSG/fluxgate/settings"
	"github.com/urfave/cli/v2"
	"gonum.org/v1/plot/vg"
)

func newApp(stdout, stderr io.Writer, logger *slog.Logger, level *slog.LevelVar) *cli.App {
	var s *settings.Settings

	return &cli.App{
		Name:      "fluxgate",
		Usage:     "fluxgate magnetometer log and configuration tool",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "settings",
				Aliases: []string{"s"},
				Usage:   "path to a YAML settings file",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "log skipped lines and other details",
			},
		},
		Before: func(c *cli.Context) error {
			if c.Bool("verbose") {
				level.Set(slog.LevelDebug)
			}

			s = settings.Default()
			if path := c.String("settings"); path != "" {
				var err error
				if s, err = settings.Load(path); err != nil {
					return err
				}
				logger.Debug("loaded settings", "path", path)
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:      "plot",
				Usage:     "plot the samples of a CSV log",
				ArgsUsage: "[log.csv]",
				Flags: []cli.Flag{
					&cli.Float64Flag{
						Name:  "scale",
						Usage: "divide samples by this value, 0 to disable",
					},
					&cli.StringFlag{
						Name:    "out",
						Aliases: []string{"o"},
						Usage:   "chart image path (.png, .svg, .pdf)",
					},
				},
				Action: func(c *cli.Context) error {
					if c.Args().Present() {
						s.Log.Path = c.Args().First()
					}
					if c.IsSet("scale") {
						s.Log.Scale = c.Float64("scale")
					}
					if c.IsSet("out") {
						s.Chart.Path = c.String("out")
					}
					return plotLog(logger, s)
				},
			},
			{
				Name:  "write-config",
				Usage: "write the device configuration file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "layout",
						Usage: "config layout, two-field (2) or three-field (3)",
					},
					&cli.Int64Flag{
						Name:  "interval",
						Usage: "log interval in milliseconds",
					},
					&cli.Int64Flag{
						Name:  "osr",
						Usage: "oversampling ratio",
					},
					&cli.Int64Flag{
						Name:  "burst",
						Usage: "measurements per log interval (three-field only)",
					},
					&cli.StringFlag{
						Name:    "out",
						Aliases: []string{"o"},
						Usage:   "config file path",
					},
				},
				Action: func(c *cli.Context) error {
					if c.IsSet("layout") {
						s.Device.Layout = c.String("layout")
					}
					if c.IsSet("interval") {
						s.Device.LogIntervalMs = c.Int64("interval")
					}
					if c.IsSet("osr") {
						s.Device.OSR = c.Int64("osr")
					}
					if c.IsSet("burst") {
						s.Device.Burst = c.Int64("burst")
					}
					if c.IsSet("out") {
						s.Device.Path = c.String("out")
					}
					return writeConfig(logger, c.App.Writer, s)
				},
			},
			{
				Name:      "read-config",
				Usage:     "print the contents of a device configuration file",
				ArgsUsage: "[FLUXGATE.CFG]",
				Action: func(c *cli.Context) error {
					path := s.Device.Path
					if c.Args().Present() {
						path = c.Args().First()
					}

					cfg, err := fluxgate.LoadConfig(path)
					if err != nil {
						return err
					}
					logger.Debug("read config", "path", path, "layout", cfg.Layout())

					return fluxgate.Summary(c.App.Writer, cfg)
				},
			},
		},
	}
}

func plotLog(logger *slog.Logger, s *settings.Settings) error {
	samples, err := fluxgate.ReadFile(s.Log.Path,
		fluxgate.WithScale(s.Log.Scale),
		fluxgate.WithSkipHandler(func(line int, text string, reason error) {
			logger.Debug("skipped line", "line", line, "text", text, "reason", reason)
		}))
	if err != nil {
		return err
	}

	summary, err := fluxgate.Summarize(samples)
	if err != nil {
		return fmt.Errorf("%s: %w", s.Log.Path, err)
	}
	logger.Info("read samples", "path", s.Log.Path, "count", summary.Count,
		"min", summary.Min, "max", summary.Max, "mean", summary.Mean, "stddev", summary.StdDev)

	opts := plot.DefaultOptions()
	opts.Title = s.Chart.Title
	opts.Width = vg.Points(s.Chart.Width)
	opts.Height = vg.Points(s.Chart.Height)
	if s.Log.Scale == fluxgate.ScaleNone {
		opts.YLabel = "Counts"
	}

	if err := plot.Save(samples, opts, s.Chart.Path); err != nil {
		return err
	}
	logger.Info("saved chart", "path", s.Chart.Path)

	return nil
}

func writeConfig(logger *slog.Logger, stdout io.Writer, s *settings.Settings) error {
	cfg, err := s.DeviceConfig()
	if err != nil {
		return err
	}

	if err := fluxgate.Summary(stdout, cfg); err != nil {
		return err
	}

	if err := fluxgate.SaveConfig(s.Device.Path, cfg); err != nil {
		return err
	}
	logger.Info("wrote config", "path", s.Device.Path, "layout", cfg.Layout())

	return nil
}

// run executes the tool and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	level := new(slog.LevelVar)
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	if err := newApp(stdout, stderr, logger, level).Run(args); err != nil {
		logger.Error("fluxgate", "err", err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}
