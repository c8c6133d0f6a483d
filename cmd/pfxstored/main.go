// Copyright (c) 2026 The pfxstore Authors
// SPDX-License-Identifier: MIT

// Command pfxstored is a small demonstration harness for the pfxstore
// library: it loads one ROA file into a Store as a single source and either serves
// ad-hoc validations from the command line or keeps running with a
// Prometheus metrics endpoint while watching a ROA file for changes.
package main

import (
	"context"
	"fmt"
	"net/http"
	"net/netip"
	"os"
	"os/signal"
	"strconv"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/go-rov/pfxstore"
)

var (
	version   string
	gitCommit string
)

func main() {
	app := cli.App{
		Version: fmt.Sprintf("%s-%s", orDev(version), orDev(gitCommit)),
		Name:    "pfxstored",
		Usage:   "BGP Route Origin Validation prefix store",
		Flags: []cli.Flag{
			verbosityFlag,
		},
		Commands: []cli.Command{
			{
				Name:  "serve",
				Usage: "load ROAs and keep running, serving metrics",
				Flags: []cli.Flag{
					roaFileFlag,
					pollIntervalFlag,
					metricsAddrFlag,
				},
				Action: serveAction,
			},
			{
				Name:      "validate",
				Usage:     "load --roa-file then validate one announcement and exit",
				ArgsUsage: "<asn> <prefix> <prefix-len>",
				Flags: []cli.Flag{
					roaFileFlag,
				},
				Action: validateAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fatal(err)
	}
}

func orDev(s string) string {
	if s == "" {
		return "dev"
	}
	return s
}

func buildStore(ctx *cli.Context, reg prometheus.Registerer) *pfxstore.Store {
	opts := []pfxstore.Option{pfxstore.WithLogger(log)}
	if reg != nil {
		opts = append(opts, pfxstore.WithMetrics(pfxstore.NewMetrics(reg)))
	}
	return pfxstore.NewStore(opts...)
}

func loadStaticSource(ctx context.Context, store *pfxstore.Store, path string) (*pfxstore.Source, error) {
	src := pfxstore.NewSource(store, 1, log)
	fetcher := pfxstore.NewStaticFetcher(path)
	batch, err := fetcher.Fetch(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "load ROA file %s", path)
	}
	if err := src.Sync(ctx, batch); err != nil {
		return nil, errors.Wrapf(err, "sync ROA file %s", path)
	}
	log.Info("loaded ROA file", "path", path, "records", len(batch))
	return src, nil
}

func serveAction(ctx *cli.Context) error {
	initLogger(ctx)

	path := ctx.String(roaFileFlag.Name)
	if path == "" {
		return errors.New("serve requires --roa-file")
	}

	reg := prometheus.NewRegistry()
	store := buildStore(ctx, reg)
	defer store.Close()

	bgCtx := context.Background()
	src, err := loadStaticSource(bgCtx, store, path)
	if err != nil {
		return err
	}

	if interval := ctx.Duration(pollIntervalFlag.Name); interval > 0 {
		poller := pfxstore.NewPollingSource(src, pfxstore.NewStaticFetcher(path), interval, log)
		go func() {
			if err := poller.Run(bgCtx); err != nil {
				log.Error("poller stopped", "err", err)
			}
		}()
	}

	if addr := ctx.String(metricsAddrFlag.Name); addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		go func() {
			log.Info("serving metrics", "addr", addr)
			if err := http.ListenAndServe(addr, mux); err != nil {
				log.Error("metrics server stopped", "err", err)
			}
		}()
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	<-sig
	log.Info("shutting down")
	return nil
}

func validateAction(ctx *cli.Context) error {
	initLogger(ctx)

	if ctx.NArg() != 3 {
		return errors.New("usage: pfxstored validate <asn> <prefix> <prefix-len>")
	}
	asn, err := strconv.ParseUint(ctx.Args().Get(0), 10, 32)
	if err != nil {
		return errors.Wrap(err, "invalid asn")
	}
	addr, err := netipParse(ctx.Args().Get(1))
	if err != nil {
		return errors.Wrap(err, "invalid prefix")
	}
	length, err := strconv.ParseUint(ctx.Args().Get(2), 10, 8)
	if err != nil {
		return errors.Wrap(err, "invalid prefix-len")
	}

	store := pfxstore.NewStore(pfxstore.WithLogger(log))
	defer store.Close()

	path := ctx.String(roaFileFlag.Name)
	if path != "" {
		if _, err := loadStaticSource(context.Background(), store, path); err != nil {
			return err
		}
	}

	state, err := store.Validate(uint32(asn), addr, uint8(length))
	if err != nil {
		return err
	}
	fmt.Println(state)
	return nil
}

func netipParse(s string) (pfxstore.IpAddress, error) {
	a, err := netip.ParseAddr(s)
	if err != nil {
		return pfxstore.IpAddress{}, err
	}
	return pfxstore.AddrFromNetip(a)
}
