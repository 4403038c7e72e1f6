package consensus

import (
	"io/ioutil"
	"os"
	"sync"

	consensusdatabase "github.com/kaspanet/ghostdagd/domain/consensus/database"
	"github.com/kaspanet/ghostdagd/domain/consensus/datastructures/blockheaderstore"
	"github.com/kaspanet/ghostdagd/domain/consensus/datastructures/blockrelationstore"
	"github.com/kaspanet/ghostdagd/domain/consensus/datastructures/blockstatusstore"
	"github.com/kaspanet/ghostdagd/domain/consensus/datastructures/blockstore"
	"github.com/kaspanet/ghostdagd/domain/consensus/datastructures/consensusstatestore"
	"github.com/kaspanet/ghostdagd/domain/consensus/datastructures/ghostdagdatastore"
	"github.com/kaspanet/ghostdagd/domain/consensus/datastructures/multisetstore"
	"github.com/kaspanet/ghostdagd/domain/consensus/datastructures/reachabilitydatastore"
	"github.com/kaspanet/ghostdagd/domain/consensus/datastructures/utxodiffstore"
	"github.com/kaspanet/ghostdagd/domain/consensus/model"
	"github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"
	"github.com/kaspanet/ghostdagd/domain/consensus/model/testapi"
	"github.com/kaspanet/ghostdagd/domain/consensus/processes/blockbuilder"
	"github.com/kaspanet/ghostdagd/domain/consensus/processes/blockprocessor"
	"github.com/kaspanet/ghostdagd/domain/consensus/processes/blockvalidator"
	"github.com/kaspanet/ghostdagd/domain/consensus/processes/coinbasemanager"
	"github.com/kaspanet/ghostdagd/domain/consensus/processes/consensusstatemanager"
	"github.com/kaspanet/ghostdagd/domain/consensus/processes/dagtopologymanager"
	"github.com/kaspanet/ghostdagd/domain/consensus/processes/dagtraversalmanager"
	"github.com/kaspanet/ghostdagd/domain/consensus/processes/difficultymanager"
	"github.com/kaspanet/ghostdagd/domain/consensus/processes/ghostdagmanager"
	"github.com/kaspanet/ghostdagd/domain/consensus/processes/pastmediantimemanager"
	"github.com/kaspanet/ghostdagd/domain/consensus/processes/reachabilitymanager"
	"github.com/kaspanet/ghostdagd/domain/dagconfig"
	"github.com/kaspanet/ghostdagd/infrastructure/db/database"
	"github.com/kaspanet/ghostdagd/infrastructure/db/database/ldb"
	"github.com/pkg/errors"
)

const (
	defaultStoreCacheSize = 200
	blockStoreCacheSize   = 100

	// maxAnticoneTraversal bounds the number of blocks visited while
	// computing a single anticone
	maxAnticoneTraversal = 100000

	coinbasePayloadScriptPublicKeyMaxLength = 150

	defaultTestLeveldbCacheSizeMiB = 8
)

// Factory instantiates new Consensuses
type Factory interface {
	NewConsensus(dagParams *dagconfig.Params, db database.Database) (externalapi.Consensus, error)
	NewTestConsensus(dagParams *dagconfig.Params, testName string) (
		tc testapi.TestConsensus, teardown func(keepDataDir bool), err error)
}

type factory struct{}

// NewFactory creates a new Consensus factory
func NewFactory() Factory {
	return &factory{}
}

// NewConsensus instantiates a new Consensus over the given database. The
// genesis block is inserted if the database does not hold it yet.
func (f *factory) NewConsensus(dagParams *dagconfig.Params, db database.Database) (externalapi.Consensus, error) {
	return f.newConsensus(dagParams, db)
}

func (f *factory) newConsensus(dagParams *dagconfig.Params, db database.Database) (*consensus, error) {
	dbManager := consensusdatabase.New(db)

	// Data Structures
	blockRelationStore := blockrelationstore.New(defaultStoreCacheSize)
	blockStatusStore := blockstatusstore.New(defaultStoreCacheSize)
	multisetStore := multisetstore.New(defaultStoreCacheSize)
	reachabilityDataStore := reachabilitydatastore.New(defaultStoreCacheSize)
	utxoDiffStore := utxodiffstore.New(defaultStoreCacheSize)
	consensusStateStore := consensusstatestore.New()
	ghostdagDataStore := ghostdagdatastore.New(defaultStoreCacheSize)
	blockStore, err := blockstore.New(dbManager, blockStoreCacheSize)
	if err != nil {
		return nil, err
	}
	blockHeaderStore, err := blockheaderstore.New(dbManager, defaultStoreCacheSize)
	if err != nil {
		return nil, err
	}

	// Processes
	genesisHash := dagParams.GenesisHash
	reachabilityManager := reachabilitymanager.New(
		dbManager,
		ghostdagDataStore,
		reachabilityDataStore,
		genesisHash)
	dagTopologyManager := dagtopologymanager.New(
		dbManager,
		reachabilityManager,
		blockRelationStore,
		consensusStateStore)
	ghostdagManager := ghostdagmanager.New(
		dbManager,
		dagTopologyManager,
		ghostdagDataStore,
		blockHeaderStore,
		dagParams.K,
		genesisHash)
	dagTraversalManager := dagtraversalmanager.New(
		dbManager,
		dagTopologyManager,
		ghostdagDataStore,
		reachabilityDataStore,
		consensusStateStore,
		genesisHash,
		maxAnticoneTraversal)
	pastMedianTimeManager := pastmediantimemanager.New(
		dagParams.TimestampDeviationTolerance,
		dbManager,
		dagTraversalManager,
		blockHeaderStore,
		genesisHash)
	difficultyManager := difficultymanager.New(
		dbManager,
		dagTraversalManager,
		blockHeaderStore,
		dagParams.PowMax,
		dagParams.GenesisBlock.Header.Bits,
		dagParams.DifficultyAdjustmentWindowSize,
		dagParams.MaxDifficultyAdjustmentFactor,
		dagParams.DisableDifficultyAdjustment,
		dagParams.TargetTimePerBlock)
	coinbaseManager := coinbasemanager.New(
		dbManager,
		ghostdagDataStore,
		dagParams.BaseSubsidy,
		coinbasePayloadScriptPublicKeyMaxLength)
	consensusStateManager := consensusstatemanager.New(
		dbManager,
		dagParams.MaxBlockParents,
		genesisHash,
		ghostdagManager,
		dagTopologyManager,
		dagTraversalManager,
		blockRelationStore,
		blockStatusStore,
		ghostdagDataStore,
		consensusStateStore,
		multisetStore,
		blockStore,
		utxoDiffStore,
		blockHeaderStore)
	blockValidator := blockvalidator.New(
		dagParams.PowMax,
		dagParams.SkipProofOfWork,
		genesisHash,
		dagParams.MaxBlockMass,
		dagParams.MaxBlockParents,
		dagParams.BaseSubsidy,
		dagParams.TimestampDeviationTolerance,
		dagParams.TargetTimePerBlock,

		dbManager,

		difficultyManager,
		pastMedianTimeManager,
		dagTopologyManager,
		coinbaseManager,

		blockStore,
		blockHeaderStore)
	blockBuilder := blockbuilder.New(
		dbManager,

		difficultyManager,
		pastMedianTimeManager,
		coinbaseManager,
		consensusStateManager,
		ghostdagManager,

		blockRelationStore,
		ghostdagDataStore)
	blockProcessor := blockprocessor.New(
		genesisHash,
		dbManager,

		consensusStateManager,
		blockValidator,
		dagTopologyManager,
		reachabilityManager,
		ghostdagManager,

		blockStore,
		blockHeaderStore,
		blockStatusStore,
		blockRelationStore,
		ghostdagDataStore)

	c := &consensus{
		lock:            &sync.RWMutex{},
		databaseContext: dbManager,
		genesisHash:     genesisHash,

		blockProcessor:        blockProcessor,
		blockBuilder:          blockBuilder,
		blockValidator:        blockValidator,
		coinbaseManager:       coinbaseManager,
		consensusStateManager: consensusStateManager,
		difficultyManager:     difficultyManager,
		pastMedianTimeManager: pastMedianTimeManager,
		ghostdagManager:       ghostdagManager,
		dagTopologyManager:    dagTopologyManager,
		dagTraversalManager:   dagTraversalManager,
		reachabilityManager:   reachabilityManager,

		blockStore:            blockStore,
		blockHeaderStore:      blockHeaderStore,
		blockStatusStore:      blockStatusStore,
		blockRelationStore:    blockRelationStore,
		consensusStateStore:   consensusStateStore,
		ghostdagDataStore:     ghostdagDataStore,
		multisetStore:         multisetStore,
		reachabilityDataStore: reachabilityDataStore,
		utxoDiffStore:         utxoDiffStore,
	}

	err = c.initializeGenesis(dagParams.GenesisBlock)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *consensus) initializeGenesis(genesisBlock *externalapi.DomainBlock) error {
	hasGenesis, err := s.blockStatusStore.Exists(s.databaseContext, model.NewStagingArea(), s.genesisHash)
	if err != nil {
		return err
	}
	if hasGenesis {
		log.Debugf("Genesis %s is already in the database", s.genesisHash)
		return nil
	}

	log.Infof("Inserting the genesis block %s", s.genesisHash)
	_, err = s.blockProcessor.ValidateAndInsertBlock(genesisBlock)
	if err != nil {
		return errors.Wrapf(err, "failed to insert the genesis block")
	}
	return nil
}

func (f *factory) NewTestConsensus(dagParams *dagconfig.Params, testName string) (
	tc testapi.TestConsensus, teardown func(keepDataDir bool), err error) {

	dataDir, err := ioutil.TempDir("", testName)
	if err != nil {
		return nil, nil, errors.WithStack(err)
	}
	db, err := ldb.NewLevelDB(dataDir, defaultTestLeveldbCacheSizeMiB)
	if err != nil {
		return nil, nil, err
	}

	consensusAsImplementation, err := f.newConsensus(dagParams, db)
	if err != nil {
		return nil, nil, err
	}

	testConsensus := &testConsensus{
		consensus:           consensusAsImplementation,
		dagParams:           dagParams,
		testBlockBuilder:    blockbuilder.NewTestBlockBuilder(consensusAsImplementation.blockBuilder),
		testReachabilityMgr: reachabilitymanager.NewTestReachabilityManager(consensusAsImplementation.reachabilityManager),
	}

	teardown = func(keepDataDir bool) {
		db.Close()
		if !keepDataDir {
			err := os.RemoveAll(dataDir)
			if err != nil {
				log.Errorf("Error removing data directory for test consensus: %s", err)
			}
		}
	}
	return testConsensus, teardown, nil
}
