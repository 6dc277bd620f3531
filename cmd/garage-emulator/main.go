// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jessevdk/go-flags"
	"golang.org/x/sync/errgroup"

	"github.com/sorrir/demonstrator/garage"
	"github.com/sorrir/demonstrator/garage/components/directory"
	"github.com/sorrir/demonstrator/garage/logging"
	"github.com/sorrir/demonstrator/garage/model"

	log "github.com/sirupsen/logrus"
)

type options struct {
	LogLevel string `long:"log-level" default:"info" description:"log level"`
	BindAddr string `long:"bind-addr" default:"0.0.0.0:8080" description:"HTTP bind address"`

	Rows    int `long:"rows" default:"3" description:"parking grid rows"`
	Columns int `long:"columns" default:"3" description:"parking grid columns"`
	Levels  int `long:"levels" default:"1" description:"parking grid levels"`

	AccessibilitySpaces int `long:"accessibility-spaces" default:"1" description:"accessibility-only spaces"`
	EChargingSpaces     int `long:"e-charging-spaces" default:"1" description:"e-charging-only spaces"`
	CombinedSpaces      int `long:"combined-spaces" default:"0" description:"accessibility plus e-charging spaces"`

	Accounts int `long:"accounts" default:"5" description:"number of seeded demo accounts"`
}

func main() {
	opts := getCLIArgs()
	logging.SetLogLevel(opts.LogLevel)

	g, err := garage.Build(garage.Config{
		GridSize: model.GridSize{
			Rows:    opts.Rows,
			Columns: opts.Columns,
			Levels:  opts.Levels,
		},
		AccessibilitySpaces: opts.AccessibilitySpaces,
		EChargingSpaces:     opts.EChargingSpaces,
		CombinedSpaces:      opts.CombinedSpaces,
		Accounts:            directory.SeedAccounts(opts.Accounts),
	})
	if err != nil {
		log.WithError(err).Fatal("Failed to assemble the garage network")
	}
	// Run the startup transitions so every component reaches its idle state.
	g.Net.Drain()

	httpServer := &http.Server{Addr: opts.BindAddr, Handler: newServer(g).router()}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.Infof("garage emulator listening on %s", opts.BindAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		return httpServer.Shutdown(context.Background())
	})
	if err := group.Wait(); err != nil {
		log.WithError(err).Fatal("Garage emulator failed")
	}
}

func getCLIArgs() options {
	var opts options
	parser := flags.NewParser(&opts, flags.IgnoreUnknown)
	if _, err := parser.ParseArgs(os.Args); err != nil {
		log.WithError(err).Fatal("Failed to parse command line arguments:", os.Args)
	}
	return opts
}
