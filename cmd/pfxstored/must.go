// Copyright (c) 2026 The pfxstore Authors
// SPDX-License-Identifier: MIT

package main

import (
	"os"

	"github.com/inconshreveable/log15"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"
)

var log = log15.New()

func initLogger(ctx *cli.Context) {
	lvl := ctx.GlobalInt(verbosityFlag.Name)
	log15.Root().SetHandler(log15.LvlFilterHandler(log15.Lvl(lvl), log15.StderrHandler))
}

func fatal(err error) {
	log.Crit(errors.Cause(err).Error())
	os.Exit(1)
}
