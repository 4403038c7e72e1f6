package blockprocessor

import (
	"fmt"

	"github.com/kaspanet/ghostdagd/domain/consensus/model"
	"github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"
	"github.com/kaspanet/ghostdagd/domain/consensus/ruleerrors"
	"github.com/kaspanet/ghostdagd/domain/consensus/utils/consensushashing"
	"github.com/kaspanet/ghostdagd/infrastructure/logger"
	"github.com/pkg/errors"
)

func (bp *blockProcessor) validateAndInsertBlock(stagingArea *model.StagingArea, block *externalapi.DomainBlock) (
	*externalapi.BlockInsertionResult, error) {

	blockHash := consensushashing.BlockHash(block)
	log.Debugf("Validating block %s", blockHash)

	err := bp.validateBlock(stagingArea, block)
	if err != nil {
		return nil, err
	}

	isHeaderOnlyBlock := block.IsHeaderOnly()
	if isHeaderOnlyBlock {
		bp.blockStatusStore.Stage(stagingArea, blockHash, externalapi.StatusHeaderOnly)
	} else {
		bp.blockStatusStore.Stage(stagingArea, blockHash, externalapi.StatusUTXOPendingVerification)
	}

	selectedChainPath, err := bp.consensusStateManager.AddBlock(stagingArea, blockHash)
	if err != nil {
		return nil, err
	}

	if len(selectedChainPath.Added) > 0 {
		newVirtualSelectedParent := selectedChainPath.Added[len(selectedChainPath.Added)-1]
		err = bp.reachabilityManager.UpdateReindexRoot(stagingArea, newVirtualSelectedParent)
		if err != nil {
			return nil, err
		}
	}

	err = bp.commit(stagingArea)
	if err != nil {
		return nil, err
	}

	if isHeaderOnlyBlock {
		log.Debugf("Block header %s validated and inserted", blockHash)
	} else {
		log.Debugf("Block %s validated and inserted", blockHash)
	}

	var logClosureErr error
	log.Debugf("%s", logger.NewLogClosure(func() string {
		readStagingArea := model.NewStagingArea()
		virtualGHOSTDAGData, err := bp.ghostdagDataStore.Get(bp.databaseContext, readStagingArea, model.VirtualBlockHash)
		if err != nil {
			logClosureErr = err
			return fmt.Sprintf("Failed to get virtual GHOSTDAG data: %s", err)
		}
		headerCount := bp.blockHeaderStore.Count(readStagingArea)
		blockCount := bp.blockStore.Count(readStagingArea)
		return fmt.Sprintf("New virtual's blue score: %d. Block count: %d. Header count: %d",
			virtualGHOSTDAGData.BlueScore(), blockCount, headerCount)
	}))
	if logClosureErr != nil {
		return nil, logClosureErr
	}

	return &externalapi.BlockInsertionResult{VirtualSelectedParentChainChanges: selectedChainPath}, nil
}

// checkBlockStatus rejects blocks that are already known. The only block
// that may arrive twice is one whose header is known and whose body is not.
func (bp *blockProcessor) checkBlockStatus(stagingArea *model.StagingArea, block *externalapi.DomainBlock) error {
	blockHash := consensushashing.BlockHash(block)
	exists, err := bp.blockStatusStore.Exists(bp.databaseContext, stagingArea, blockHash)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}

	if blockHash.Equal(bp.genesisHash) {
		return errors.Wrapf(ruleerrors.ErrGenesisOnInitializedConsensus,
			"the genesis %s is already in the DAG", blockHash)
	}

	status, err := bp.blockStatusStore.Get(bp.databaseContext, stagingArea, blockHash)
	if err != nil {
		return err
	}
	if status == externalapi.StatusInvalid {
		return errors.Wrapf(ruleerrors.ErrKnownInvalid, "block %s is a known invalid block", blockHash)
	}
	if status == externalapi.StatusHeaderOnly && !block.IsHeaderOnly() {
		return nil
	}
	return errors.Wrapf(ruleerrors.ErrDuplicateBlock, "block %s already exists", blockHash)
}

// isHeaderKnown returns whether the header of the given block was already
// validated and inserted.
func (bp *blockProcessor) isHeaderKnown(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash) (bool, error) {
	exists, err := bp.blockStatusStore.Exists(bp.databaseContext, stagingArea, blockHash)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, nil
	}
	status, err := bp.blockStatusStore.Get(bp.databaseContext, stagingArea, blockHash)
	if err != nil {
		return false, err
	}
	return status == externalapi.StatusHeaderOnly, nil
}
