package blockprocessor

import (
	"github.com/kaspanet/ghostdagd/domain/consensus/model"
	"github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"
	"github.com/kaspanet/ghostdagd/infrastructure/logger"
)

// blockProcessor is responsible for processing incoming blocks
// and creating blocks from the current state
type blockProcessor struct {
	genesisHash     *externalapi.DomainHash
	databaseContext model.DBManager

	consensusStateManager model.ConsensusStateManager
	blockValidator        model.BlockValidator
	dagTopologyManager    model.DAGTopologyManager
	reachabilityManager   model.ReachabilityManager
	ghostdagManager       model.GHOSTDAGManager

	blockStore         model.BlockStore
	blockHeaderStore   model.BlockHeaderStore
	blockStatusStore   model.BlockStatusStore
	blockRelationStore model.BlockRelationStore
	ghostdagDataStore  model.GHOSTDAGDataStore
}

// New instantiates a new BlockProcessor
func New(
	genesisHash *externalapi.DomainHash,
	databaseContext model.DBManager,

	consensusStateManager model.ConsensusStateManager,
	blockValidator model.BlockValidator,
	dagTopologyManager model.DAGTopologyManager,
	reachabilityManager model.ReachabilityManager,
	ghostdagManager model.GHOSTDAGManager,

	blockStore model.BlockStore,
	blockHeaderStore model.BlockHeaderStore,
	blockStatusStore model.BlockStatusStore,
	blockRelationStore model.BlockRelationStore,
	ghostdagDataStore model.GHOSTDAGDataStore,
) model.BlockProcessor {

	return &blockProcessor{
		genesisHash:     genesisHash,
		databaseContext: databaseContext,

		consensusStateManager: consensusStateManager,
		blockValidator:        blockValidator,
		dagTopologyManager:    dagTopologyManager,
		reachabilityManager:   reachabilityManager,
		ghostdagManager:       ghostdagManager,

		blockStore:         blockStore,
		blockHeaderStore:   blockHeaderStore,
		blockStatusStore:   blockStatusStore,
		blockRelationStore: blockRelationStore,
		ghostdagDataStore:  ghostdagDataStore,
	}
}

// ValidateAndInsertBlock validates the given block and, if valid, applies it
// to the current state
func (bp *blockProcessor) ValidateAndInsertBlock(block *externalapi.DomainBlock) (*externalapi.BlockInsertionResult, error) {
	onEnd := logger.LogAndMeasureExecutionTime(log, "ValidateAndInsertBlock")
	defer onEnd()

	stagingArea := model.NewStagingArea()
	return bp.validateAndInsertBlock(stagingArea, block)
}

func (bp *blockProcessor) commit(stagingArea *model.StagingArea) error {
	dbTx, err := bp.databaseContext.Begin()
	if err != nil {
		return err
	}
	defer dbTx.RollbackUnlessClosed()

	err = stagingArea.Commit(dbTx)
	if err != nil {
		return err
	}
	return dbTx.Commit()
}
