package main

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/jessevdk/go-flags"
	"github.com/kaspanet/ghostdagd/infrastructure/config"
	"github.com/pkg/errors"
)

const (
	defaultAppDirName     = ".dagsim"
	defaultLogDirname     = "logs"
	defaultLogFilename    = "dagsim.log"
	defaultErrLogFilename = "dagsim_err.log"
	defaultLogLevel       = "info"
	defaultBlocks         = 1000
	defaultMaxParents     = 3
	defaultDBCacheMiB     = 16
	defaultReorderWindow  = 8
)

type configFlags struct {
	AppDir        string `short:"b" long:"appdir" description:"Directory to store the simulation databases and logs"`
	LogLevel      string `short:"d" long:"loglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical} -- You may also specify <subsystem>=<level>,<subsystem2>=<level>,... to set the log level for individual subsystems"`
	Blocks        int    `short:"n" long:"blocks" description:"Number of blocks to mine"`
	MaxParents    int    `long:"maxparents" description:"Maximum number of blocks mined over the same virtual, which bounds the number of parents of the following block"`
	Txs           int    `long:"txs" description:"Number of transactions in each block, spending outputs of earlier blocks"`
	DBCache       int    `long:"dbcache" description:"LevelDB cache size of each database in MiB"`
	ReorderWindow int    `long:"reorder" description:"Number of consecutive blocks whose arrival order at the node is shuffled"`
	Workers       int    `long:"workers" description:"Number of goroutines running the context-free block checks"`
	Seed          int64  `long:"seed" description:"Seed of the random DAG shape"`
	Profile       string `long:"profile" description:"Serve prometheus metrics on the given address, e.g. localhost:9090"`
	config.NetworkFlags
}

func defaultAppDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return defaultAppDirName
	}
	return filepath.Join(homeDir, defaultAppDirName)
}

func parseConfig(args []string) (*configFlags, error) {
	cfg := &configFlags{
		AppDir:        defaultAppDir(),
		LogLevel:      defaultLogLevel,
		Blocks:        defaultBlocks,
		MaxParents:    defaultMaxParents,
		DBCache:       defaultDBCacheMiB,
		ReorderWindow: defaultReorderWindow,
		Workers:       runtime.NumCPU(),
		Seed:          1,
	}
	parser := flags.NewParser(cfg, flags.PrintErrors|flags.HelpFlag)
	_, err := parser.ParseArgs(args)
	if err != nil {
		return nil, err
	}

	err = cfg.ResolveNetwork(parser)
	if err != nil {
		return nil, err
	}

	if cfg.Blocks < 1 {
		return nil, errors.Errorf("--blocks must be positive, got %d", cfg.Blocks)
	}
	if cfg.MaxParents < 1 || cfg.MaxParents > cfg.NetParams().MaxBlockParents {
		return nil, errors.Errorf("--maxparents must be between 1 and %d, got %d",
			cfg.NetParams().MaxBlockParents, cfg.MaxParents)
	}
	if cfg.Txs < 0 {
		return nil, errors.Errorf("--txs cannot be negative, got %d", cfg.Txs)
	}
	if cfg.DBCache < 1 {
		return nil, errors.Errorf("--dbcache must be positive, got %d", cfg.DBCache)
	}
	if cfg.ReorderWindow < 1 || cfg.ReorderWindow > cfg.NetParams().MaxOrphans {
		return nil, errors.Errorf("--reorder must be between 1 and the max orphans of %d, got %d",
			cfg.NetParams().MaxOrphans, cfg.ReorderWindow)
	}
	if cfg.Workers < 1 {
		return nil, errors.Errorf("--workers must be positive, got %d", cfg.Workers)
	}

	cfg.AppDir = filepath.Join(cfg.AppDir, cfg.NetParams().Name)
	return cfg, nil
}

func (cfg *configFlags) logFiles() (logFile, errLogFile string) {
	logDir := filepath.Join(cfg.AppDir, defaultLogDirname)
	return filepath.Join(logDir, defaultLogFilename), filepath.Join(logDir, defaultErrLogFilename)
}
