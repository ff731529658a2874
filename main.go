// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 Deedledger Authors
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/logger"
	"github.com/urfave/cli"

	"github.com/deedledger/deedled/audit"
	"github.com/deedledger/deedled/configuration"
	"github.com/deedledger/deedled/ledger"
	"github.com/deedledger/deedled/metadata"
	"github.com/deedledger/deedled/meter"
	"github.com/deedledger/deedled/notify"
	"github.com/deedledger/deedled/storage"
)

// main program
func main() {
	// ensure exit handler is first
	defer exitwithstatus.Handler()

	app := cli.NewApp()
	app.Name = "deedled"
	app.Usage = "ownership ledger daemon"
	app.Version = Version()
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config-file, c",
			Value: "",
			Usage: "*configuration file",
		},
	}
	app.Action = func(c *cli.Context) error {
		run(c)
		return nil
	}

	_ = app.Run(os.Args)
}

func run(c *cli.Context) {

	configurationFile := c.String("config-file")
	if "" == configurationFile {
		exitwithstatus.Message("%s: configuration file is required", c.App.Name)
	}

	options, err := configuration.Parse(configurationFile)
	if nil != err {
		exitwithstatus.Message("%s: failed to read configuration from: %q  error: %s", c.App.Name, configurationFile, err)
	}

	// start logging
	if err = logger.Initialise(options.Logging); nil != err {
		exitwithstatus.Message("%s: logger setup failed with error: %s", c.App.Name, err)
	}
	defer logger.Finalise()

	log := logger.New("main")
	defer log.Info("finished")
	log.Info("starting…")
	log.Infof("version: %s", Version())

	// optional PID file
	// use if not running under a supervisor program like daemon(8)
	if "" != options.PidFile {
		lockFile, err := os.OpenFile(options.PidFile, os.O_WRONLY|os.O_EXCL|os.O_CREATE, os.ModeExclusive|0600)
		if err != nil {
			if os.IsExist(err) {
				exitwithstatus.Message("%s: another instance is already running", c.App.Name)
			}
			exitwithstatus.Message("%s: PID file: %q creation failed, error: %s", c.App.Name, options.PidFile, err)
		}
		fmt.Fprintf(lockFile, "%d\n", os.Getpid())
		lockFile.Close()
		defer os.Remove(options.PidFile)
	}

	log.Infof("database: %q", options.Database.Name)
	log.Infof("storage price: %d per byte", options.StoragePrice)

	// start the data storage
	log.Info("initialise storage")
	store, err := storage.Open(options.Database.Name)
	if nil != err {
		log.Criticalf("storage initialise error: %s", err)
		exitwithstatus.Message("storage initialise error: %s", err)
	}
	defer store.Close()

	// receiver handlers are registered by embedding applications at run
	// time; the daemon starts with an empty registry
	registry := notify.NewRegistry()

	ld := ledger.New(
		store,
		meter.New(options.StoragePrice, store.Pool.Funds),
		metadata.NewPoolStore(store.Pool.Metadata),
		registry,
		audit.NewLogSink(),
	)
	log.Infof("ledger ready: %d assets", ld.TotalAssets())

	// wait for CTRL-C or terminate signal
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	sig := <-ch
	log.Infof("received signal: %v", sig)
	log.Info("shutting down…")
}
