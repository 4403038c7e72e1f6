package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"
	"github.com/kaspanet/ghostdagd/domain/dagconfig"
	"github.com/pkg/errors"
)

// NetworkFlags holds the network configuration, that is which network is selected.
type NetworkFlags struct {
	Testnet               bool   `long:"testnet" description:"Use the test network"`
	Simnet                bool   `long:"simnet" description:"Use the simulation test network"`
	Devnet                bool   `long:"devnet" description:"Use the development test network"`
	OverrideDAGParamsFile string `long:"override-dag-params-file" description:"Overrides DAG params (allowed only on devnet)"`

	ActiveNetParams *dagconfig.Params
}

type overrideDAGParamsConfig struct {
	K                                *externalapi.KType `json:"k"`
	MaxBlockParents                  *int               `json:"maxBlockParents"`
	MaxBlockMass                     *uint64            `json:"maxBlockMass"`
	TargetTimePerBlockInMilliSeconds *int64             `json:"targetTimePerBlockInMilliSeconds"`
	TimestampDeviationTolerance      *int               `json:"timestampDeviationTolerance"`
	DifficultyAdjustmentWindowSize   *int               `json:"difficultyAdjustmentWindowSize"`
	MaxOrphans                       *int               `json:"maxOrphans"`
	DisableDifficultyAdjustment      *bool              `json:"disableDifficultyAdjustment"`
	SkipProofOfWork                  *bool              `json:"skipProofOfWork"`
}

// ResolveNetwork parses the network command line argument and sets
// ActiveNetParams accordingly. Mainnet is selected when no network flag is
// given. It returns an error if more than one network was selected.
func (networkFlags *NetworkFlags) ResolveNetwork(parser *flags.Parser) error {
	// The selected params are copied so that overrides never leak into the
	// package level defaults
	params := dagconfig.MainnetParams
	numNets := 0
	if networkFlags.Testnet {
		numNets++
		params = dagconfig.TestnetParams
	}
	if networkFlags.Simnet {
		numNets++
		params = dagconfig.SimnetParams
	}
	if networkFlags.Devnet {
		numNets++
		params = dagconfig.DevnetParams
	}
	if numNets > 1 {
		message := "Multiple networks parameters (testnet, simnet, devnet, etc.) cannot be used " +
			"together. Please choose only one network"
		err := errors.Errorf(message)
		fmt.Fprintln(os.Stderr, err)
		if parser != nil {
			parser.WriteHelp(os.Stderr)
		}
		return err
	}
	networkFlags.ActiveNetParams = &params

	return networkFlags.overrideDAGParams()
}

// NetParams returns the ActiveNetParams
func (networkFlags *NetworkFlags) NetParams() *dagconfig.Params {
	return networkFlags.ActiveNetParams
}

func (networkFlags *NetworkFlags) overrideDAGParams() error {
	if networkFlags.OverrideDAGParamsFile == "" {
		return nil
	}

	if !networkFlags.Devnet {
		return errors.Errorf("override-dag-params-file is allowed only when using devnet")
	}

	overrideDAGParamsFile, err := os.Open(networkFlags.OverrideDAGParamsFile)
	if err != nil {
		return errors.WithStack(err)
	}
	defer overrideDAGParamsFile.Close()

	decoder := json.NewDecoder(overrideDAGParamsFile)
	decoder.DisallowUnknownFields()
	config := &overrideDAGParamsConfig{}
	err = decoder.Decode(config)
	if err != nil {
		return errors.Wrapf(err, "couldn't parse %s", networkFlags.OverrideDAGParamsFile)
	}

	params := networkFlags.ActiveNetParams
	if config.K != nil {
		params.K = *config.K
	}
	if config.MaxBlockParents != nil {
		params.MaxBlockParents = *config.MaxBlockParents
	}
	if config.MaxBlockMass != nil {
		params.MaxBlockMass = *config.MaxBlockMass
	}
	if config.TargetTimePerBlockInMilliSeconds != nil {
		params.TargetTimePerBlock = time.Duration(*config.TargetTimePerBlockInMilliSeconds) * time.Millisecond
	}
	if config.TimestampDeviationTolerance != nil {
		params.TimestampDeviationTolerance = *config.TimestampDeviationTolerance
	}
	if config.DifficultyAdjustmentWindowSize != nil {
		params.DifficultyAdjustmentWindowSize = *config.DifficultyAdjustmentWindowSize
	}
	if config.MaxOrphans != nil {
		params.MaxOrphans = *config.MaxOrphans
	}
	if config.DisableDifficultyAdjustment != nil {
		params.DisableDifficultyAdjustment = *config.DisableDifficultyAdjustment
	}
	if config.SkipProofOfWork != nil {
		params.SkipProofOfWork = *config.SkipProofOfWork
	}

	if params.MaxBlockParents < 1 {
		return errors.Errorf("maxBlockParents must be at least 1, got %d", params.MaxBlockParents)
	}
	if params.TimestampDeviationTolerance < 1 {
		return errors.Errorf("timestampDeviationTolerance must be at least 1, got %d",
			params.TimestampDeviationTolerance)
	}
	return nil
}
