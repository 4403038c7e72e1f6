package blockvalidator

import (
	"github.com/kaspanet/ghostdagd/domain/consensus/model"
	"github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"
	"github.com/kaspanet/ghostdagd/domain/consensus/ruleerrors"
	"github.com/kaspanet/ghostdagd/infrastructure/logger"
	"github.com/pkg/errors"
)

// ValidateHeaderInContext validates block headers in the context of the current
// consensus state. The block's relations and GHOSTDAG data must already be
// staged.
func (v *blockValidator) ValidateHeaderInContext(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash) error {
	onEnd := logger.LogAndMeasureExecutionTime(log, "ValidateHeaderInContext")
	defer onEnd()

	if blockHash.Equal(v.genesisHash) {
		return nil
	}

	header, err := v.blockHeaderStore.BlockHeader(v.databaseContext, stagingArea, blockHash)
	if err != nil {
		return err
	}

	err = v.checkParentsIncest(stagingArea, header)
	if err != nil {
		return err
	}

	err = v.validateDifficulty(stagingArea, blockHash, header)
	if err != nil {
		return err
	}

	err = v.validateMedianTime(stagingArea, blockHash, header)
	if err != nil {
		return err
	}

	return nil
}

// checkParentsIncest validates that no parent is an ancestor of another parent
func (v *blockValidator) checkParentsIncest(stagingArea *model.StagingArea, header *externalapi.DomainBlockHeader) error {
	for _, parentA := range header.ParentHashes {
		for _, parentB := range header.ParentHashes {
			if parentA.Equal(parentB) {
				continue
			}

			isAncestorOf, err := v.dagTopologyManager.IsAncestorOf(stagingArea, parentA, parentB)
			if err != nil {
				return err
			}
			if isAncestorOf {
				return errors.Wrapf(ruleerrors.ErrInvalidParentsRelation, "parent %s is an "+
					"ancestor of another parent %s", parentA, parentB)
			}
		}
	}
	return nil
}

// validateDifficulty ensures the difficulty specified in the block header
// matches the difficulty calculated from the block's blue window
func (v *blockValidator) validateDifficulty(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash,
	header *externalapi.DomainBlockHeader) error {

	expectedBits, err := v.difficultyManager.RequiredDifficulty(stagingArea, blockHash)
	if err != nil {
		return err
	}

	if header.Bits != expectedBits {
		return errors.Wrapf(ruleerrors.ErrUnexpectedDifficulty, "block difficulty of %d is not the expected value of %d",
			header.Bits, expectedBits)
	}
	return nil
}

// validateMedianTime ensures the timestamp is after the median time of the
// blocks preceding it
func (v *blockValidator) validateMedianTime(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash,
	header *externalapi.DomainBlockHeader) error {

	pastMedianTime, err := v.pastMedianTimeManager.PastMedianTime(stagingArea, blockHash)
	if err != nil {
		return err
	}

	if header.TimeInMilliseconds <= pastMedianTime {
		return errors.Wrapf(ruleerrors.ErrTimeTooOld, "block timestamp of %d is not after expected %d",
			header.TimeInMilliseconds, pastMedianTime)
	}
	return nil
}
