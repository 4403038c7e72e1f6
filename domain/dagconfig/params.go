// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package dagconfig

import (
	"math/big"
	"time"

	"github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"
	"github.com/kaspanet/ghostdagd/domain/consensus/utils/constants"
	"github.com/pkg/errors"
)

// These variables are the DAG proof-of-work limit parameters for each default
// network.
var (
	// bigOne is 1 represented as a big.Int. It is defined here to avoid
	// the overhead of creating it multiple times.
	bigOne = big.NewInt(1)

	// mainPowMax is the highest proof of work value a Kaspa block can
	// have for the main network. It is the value 2^255 - 1.
	mainPowMax = new(big.Int).Sub(new(big.Int).Lsh(bigOne, 255), bigOne)

	// testnetPowMax is the highest proof of work value a Kaspa block
	// can have for the test network. It is the value 2^239 - 1.
	testnetPowMax = new(big.Int).Sub(new(big.Int).Lsh(bigOne, 239), bigOne)

	// simnetPowMax is the highest proof of work value a Kaspa block
	// can have for the simulation test network. It is the value 2^255 - 1.
	simnetPowMax = new(big.Int).Sub(new(big.Int).Lsh(bigOne, 255), bigOne)

	// devnetPowMax is the highest proof of work value a Kaspa block
	// can have for the development network. It is the value
	// 2^239 - 1.
	devnetPowMax = new(big.Int).Sub(new(big.Int).Lsh(bigOne, 239), bigOne)
)

const (
	defaultGHOSTDAGK                      = 18
	defaultDifficultyAdjustmentWindowSize = 2640
	defaultMaxDifficultyAdjustmentFactor  = 4
	defaultTimestampDeviationTolerance    = 132
	defaultTargetTimePerBlock             = 1 * time.Second
	defaultMaxBlockParents                = 10
	defaultMaxBlockMass                   = 500_000
	defaultBaseSubsidy                    = 50 * constants.SompiPerKaspa
	defaultMaxOrphans                     = 600
)

// Params defines a Kaspa network by its parameters. These parameters may be
// used by Kaspa applications to differentiate networks as well as addresses
// and keys for one network from those intended for use on another network.
type Params struct {
	// K defines the K parameter for GHOSTDAG consensus algorithm.
	// See ghostdag.go for further details.
	K externalapi.KType

	// Name defines a human-readable identifier for the network.
	Name string

	// GenesisBlock defines the first block of the DAG.
	GenesisBlock *externalapi.DomainBlock

	// GenesisHash is the starting block hash.
	GenesisHash *externalapi.DomainHash

	// PowMax defines the highest allowed proof of work value for a block
	// as a uint256.
	PowMax *big.Int

	// TargetTimePerBlock is the desired amount of time to generate each
	// block.
	TargetTimePerBlock time.Duration

	// DifficultyAdjustmentWindowSize is the size of window that is inspected
	// to calculate the required difficulty of each block.
	DifficultyAdjustmentWindowSize int

	// MaxDifficultyAdjustmentFactor bounds how much a single recalculation
	// may multiply or divide the average target of the window.
	MaxDifficultyAdjustmentFactor int64

	// TimestampDeviationTolerance is the maximum offset a block timestamp
	// is allowed to be in the future before it gets delayed
	TimestampDeviationTolerance int

	// MaxBlockParents is the maximum number of blocks a block is allowed to point to
	MaxBlockParents int

	// MaxBlockMass is the maximum mass a block is allowed
	MaxBlockMass uint64

	// BaseSubsidy is the maximum amount a coinbase transaction may pay out.
	BaseSubsidy uint64

	// MaxOrphans is the maximum number of blocks that are kept waiting for
	// their missing parents.
	MaxOrphans int

	// SkipProofOfWork indicates whether proof of work should be checked.
	SkipProofOfWork bool

	// DisableDifficultyAdjustment determines whether the difficulty should
	// be adjusted or stay at the genesis difficulty forever.
	DisableDifficultyAdjustment bool
}

// MainnetParams defines the network parameters for the main Kaspa network.
var MainnetParams = Params{
	K:                              defaultGHOSTDAGK,
	Name:                           "kaspa-mainnet",
	GenesisBlock:                   genesisBlock,
	GenesisHash:                    genesisHash,
	PowMax:                         mainPowMax,
	TargetTimePerBlock:             defaultTargetTimePerBlock,
	DifficultyAdjustmentWindowSize: defaultDifficultyAdjustmentWindowSize,
	MaxDifficultyAdjustmentFactor:  defaultMaxDifficultyAdjustmentFactor,
	TimestampDeviationTolerance:    defaultTimestampDeviationTolerance,
	MaxBlockParents:                defaultMaxBlockParents,
	MaxBlockMass:                   defaultMaxBlockMass,
	BaseSubsidy:                    defaultBaseSubsidy,
	MaxOrphans:                     defaultMaxOrphans,
	SkipProofOfWork:                false,
	DisableDifficultyAdjustment:    false,
}

// TestnetParams defines the network parameters for the test Kaspa network.
var TestnetParams = Params{
	K:                              defaultGHOSTDAGK,
	Name:                           "kaspa-testnet",
	GenesisBlock:                   testnetGenesisBlock,
	GenesisHash:                    testnetGenesisHash,
	PowMax:                         testnetPowMax,
	TargetTimePerBlock:             defaultTargetTimePerBlock,
	DifficultyAdjustmentWindowSize: defaultDifficultyAdjustmentWindowSize,
	MaxDifficultyAdjustmentFactor:  defaultMaxDifficultyAdjustmentFactor,
	TimestampDeviationTolerance:    defaultTimestampDeviationTolerance,
	MaxBlockParents:                defaultMaxBlockParents,
	MaxBlockMass:                   defaultMaxBlockMass,
	BaseSubsidy:                    defaultBaseSubsidy,
	MaxOrphans:                     defaultMaxOrphans,
	SkipProofOfWork:                false,
	DisableDifficultyAdjustment:    false,
}

// SimnetParams defines the network parameters for the simulation test Kaspa
// network. This network is similar to the normal test network except it is
// intended for private use within a group of individuals doing simulation
// testing. The functionality is intended to differ in that the only nodes
// which are specifically specified are used to create the network rather than
// following normal discovery rules. This is important as otherwise it would
// just turn into another public testnet.
var SimnetParams = Params{
	K:                              defaultGHOSTDAGK,
	Name:                           "kaspa-simnet",
	GenesisBlock:                   simnetGenesisBlock,
	GenesisHash:                    simnetGenesisHash,
	PowMax:                         simnetPowMax,
	TargetTimePerBlock:             defaultTargetTimePerBlock,
	DifficultyAdjustmentWindowSize: defaultDifficultyAdjustmentWindowSize,
	MaxDifficultyAdjustmentFactor:  defaultMaxDifficultyAdjustmentFactor,
	TimestampDeviationTolerance:    defaultTimestampDeviationTolerance,
	MaxBlockParents:                defaultMaxBlockParents,
	MaxBlockMass:                   defaultMaxBlockMass,
	BaseSubsidy:                    defaultBaseSubsidy,
	MaxOrphans:                     defaultMaxOrphans,
	SkipProofOfWork:                false,
	DisableDifficultyAdjustment:    true,
}

// DevnetParams defines the network parameters for the development Kaspa network.
var DevnetParams = Params{
	K:                              defaultGHOSTDAGK,
	Name:                           "kaspa-devnet",
	GenesisBlock:                   devnetGenesisBlock,
	GenesisHash:                    devnetGenesisHash,
	PowMax:                         devnetPowMax,
	TargetTimePerBlock:             defaultTargetTimePerBlock,
	DifficultyAdjustmentWindowSize: defaultDifficultyAdjustmentWindowSize,
	MaxDifficultyAdjustmentFactor:  defaultMaxDifficultyAdjustmentFactor,
	TimestampDeviationTolerance:    defaultTimestampDeviationTolerance,
	MaxBlockParents:                defaultMaxBlockParents,
	MaxBlockMass:                   defaultMaxBlockMass,
	BaseSubsidy:                    defaultBaseSubsidy,
	MaxOrphans:                     defaultMaxOrphans,
	SkipProofOfWork:                false,
	DisableDifficultyAdjustment:    false,
}

// ErrUnknownNetwork describes an error where the requested network name is
// not one of the default networks.
var ErrUnknownNetwork = errors.New("unknown network")

// ParamsByName returns the parameters of the default network with the given name
func ParamsByName(name string) (*Params, error) {
	for _, params := range []*Params{&MainnetParams, &TestnetParams, &SimnetParams, &DevnetParams} {
		if params.Name == name {
			return params, nil
		}
	}
	return nil, errors.Wrapf(ErrUnknownNetwork, "network %s", name)
}
