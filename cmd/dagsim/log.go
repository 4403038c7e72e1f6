package main

import (
	"fmt"
	"os"

	"github.com/kaspanet/ghostdagd/infrastructure/logger"
	"github.com/kaspanet/ghostdagd/util/panics"
)

var (
	log   = logger.RegisterSubSystem("SIMU")
	spawn = panics.GoroutineWrapperFunc(log)
)

func initLog(logFile, errLogFile, logLevel string) {
	logger.InitLog(logFile, errLogFile)

	err := logger.ParseAndSetLogLevels(logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error setting the log level: %s\n", err)
		os.Exit(1)
	}
}
