package blockprocessor

import (
	"github.com/kaspanet/ghostdagd/domain/consensus/model"
	"github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"
	"github.com/kaspanet/ghostdagd/domain/consensus/ruleerrors"
	"github.com/kaspanet/ghostdagd/domain/consensus/utils/consensushashing"
	"github.com/pkg/errors"
)

func (bp *blockProcessor) validateBlock(stagingArea *model.StagingArea, block *externalapi.DomainBlock) error {
	blockHash := consensushashing.BlockHash(block)
	err := bp.checkBlockStatus(stagingArea, block)
	if err != nil {
		return err
	}

	isHeaderKnown, err := bp.isHeaderKnown(stagingArea, blockHash)
	if err != nil {
		return err
	}

	err = bp.validateBlockContents(stagingArea, block, blockHash, isHeaderKnown)
	if err != nil {
		if ruleerrors.IsRuleError(err) && !isRecoverableRuleError(err) {
			log.Warnf("Block %s is invalid: %s", blockHash, err)
			markErr := bp.markInvalid(blockHash)
			if markErr != nil {
				return markErr
			}
		}
		return err
	}
	return nil
}

// isRecoverableRuleError returns whether the given rule error might not
// hold the next time the same block hash arrives: its parents may show up,
// its body may be replaced, or the clock may move forward.
func isRecoverableRuleError(err error) bool {
	return errors.As(err, &ruleerrors.ErrMissingParents{}) ||
		errors.Is(err, ruleerrors.ErrBadMerkleRoot) ||
		errors.Is(err, ruleerrors.ErrTimeTooMuchInTheFuture)
}

// markInvalid commits StatusInvalid for the given block and nothing else.
// Everything staged while validating the block is dropped.
func (bp *blockProcessor) markInvalid(blockHash *externalapi.DomainHash) error {
	stagingArea := model.NewStagingArea()
	bp.blockStatusStore.Stage(stagingArea, blockHash, externalapi.StatusInvalid)
	return bp.commit(stagingArea)
}

func (bp *blockProcessor) validateBlockContents(stagingArea *model.StagingArea, block *externalapi.DomainBlock,
	blockHash *externalapi.DomainHash, isHeaderKnown bool) error {

	if !isHeaderKnown {
		bp.blockHeaderStore.Stage(stagingArea, blockHash, block.Header)

		err := bp.blockValidator.ValidateHeaderInIsolation(stagingArea, blockHash)
		if err != nil {
			return err
		}
	}

	err := bp.checkParents(stagingArea, block, blockHash)
	if err != nil {
		return err
	}

	if !isHeaderKnown {
		err = bp.insertHeader(stagingArea, block, blockHash)
		if err != nil {
			return err
		}
	}

	if block.IsHeaderOnly() {
		return nil
	}

	bp.blockStore.Stage(stagingArea, blockHash, block)

	err = bp.blockValidator.ValidateBodyInIsolation(stagingArea, blockHash)
	if err != nil {
		return err
	}

	return bp.blockValidator.ValidateBodyInContext(stagingArea, blockHash)
}

// insertHeader links the block into the DAG topology, the GHOSTDAG data and
// the reachability tree, and validates its header against them.
func (bp *blockProcessor) insertHeader(stagingArea *model.StagingArea, block *externalapi.DomainBlock,
	blockHash *externalapi.DomainHash) error {

	err := bp.dagTopologyManager.SetParents(stagingArea, blockHash, block.Header.ParentHashes)
	if err != nil {
		return err
	}

	err = bp.ghostdagManager.GHOSTDAG(stagingArea, blockHash)
	if err != nil {
		return err
	}

	err = bp.reachabilityManager.AddBlock(stagingArea, blockHash)
	if err != nil {
		return err
	}

	return bp.blockValidator.ValidateHeaderInContext(stagingArea, blockHash)
}

// checkParents makes sure every parent of the block is known and none is
// invalid. A block with a body further requires the bodies of all of its
// parents.
func (bp *blockProcessor) checkParents(stagingArea *model.StagingArea, block *externalapi.DomainBlock,
	blockHash *externalapi.DomainHash) error {

	if blockHash.Equal(bp.genesisHash) {
		return nil
	}

	missingParentHashes := []*externalapi.DomainHash{}
	for _, parentHash := range block.Header.ParentHashes {
		exists, err := bp.blockStatusStore.Exists(bp.databaseContext, stagingArea, parentHash)
		if err != nil {
			return err
		}
		if !exists {
			missingParentHashes = append(missingParentHashes, parentHash)
			continue
		}

		parentStatus, err := bp.blockStatusStore.Get(bp.databaseContext, stagingArea, parentHash)
		if err != nil {
			return err
		}
		if parentStatus == externalapi.StatusInvalid {
			return errors.Wrapf(ruleerrors.ErrInvalidAncestorBlock,
				"parent %s of block %s is invalid", parentHash, blockHash)
		}
		if parentStatus == externalapi.StatusHeaderOnly && !block.IsHeaderOnly() {
			missingParentHashes = append(missingParentHashes, parentHash)
		}
	}

	if len(missingParentHashes) > 0 {
		return ruleerrors.NewErrMissingParents(missingParentHashes)
	}
	return nil
}
