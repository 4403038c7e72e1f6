package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/kaspanet/ghostdagd/infrastructure/logger"
	"github.com/kaspanet/ghostdagd/infrastructure/metrics"
	"github.com/kaspanet/ghostdagd/infrastructure/os/execenv"
	"github.com/kaspanet/ghostdagd/infrastructure/os/signal"
	"github.com/kaspanet/ghostdagd/util/panics"
	"github.com/pkg/errors"
)

func main() {
	defer panics.HandlePanic(log, "main", nil)
	execenv.Initialize()
	interrupt := signal.InterruptListener()

	cfg, err := parseConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing command-line arguments: %s\n", err)
		os.Exit(1)
	}
	logFile, errLogFile := cfg.logFiles()
	initLog(logFile, errLogFile, cfg.LogLevel)
	defer logger.BackendLog.Close()

	if cfg.Profile != "" {
		server := metrics.NewServer(cfg.Profile)
		spawn("metrics.ListenAndServe", func() {
			log.Infof("Serving metrics on %s", cfg.Profile)
			err := server.ListenAndServe()
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				panic(errors.Wrapf(err, "error serving metrics on %s", cfg.Profile))
			}
		})
		defer server.Close()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	spawn("interruptListener", func() {
		select {
		case <-interrupt:
			cancel()
		case <-ctx.Done():
		}
	})

	summary, err := simulate(ctx, cfg)
	if err != nil {
		log.Criticalf("Simulation failed: %+v", err)
		logger.BackendLog.Close()
		os.Exit(1)
	}
	log.Infof("%s", summary)
}
