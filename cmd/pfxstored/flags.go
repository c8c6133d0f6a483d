// Copyright (c) 2026 The pfxstore Authors
// SPDX-License-Identifier: MIT

package main

import (
	"github.com/inconshreveable/log15"
	cli "gopkg.in/urfave/cli.v1"
)

var (
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Value: int(log15.LvlInfo),
		Usage: "log verbosity (0-5)",
	}
	roaFileFlag = cli.StringFlag{
		Name:  "roa-file",
		Usage: "path to a Routinator-style ROA JSON file, loaded as one static source",
	}
	pollIntervalFlag = cli.DurationFlag{
		Name:  "roa-poll",
		Value: 0,
		Usage: "re-read --roa-file on this interval; 0 loads it once and exits polling",
	}
	metricsAddrFlag = cli.StringFlag{
		Name:  "metrics-addr",
		Value: "",
		Usage: "address to serve Prometheus metrics on, e.g. :9590; empty disables metrics",
	}
)
