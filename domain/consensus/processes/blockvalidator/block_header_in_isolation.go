package blockvalidator

import (
	"github.com/kaspanet/ghostdagd/domain/consensus/model"
	"github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"
	"github.com/kaspanet/ghostdagd/domain/consensus/ruleerrors"
	"github.com/kaspanet/ghostdagd/domain/consensus/utils/constants"
	"github.com/kaspanet/ghostdagd/domain/consensus/utils/pow"
	"github.com/kaspanet/ghostdagd/infrastructure/logger"
	"github.com/kaspanet/ghostdagd/util/difficulty"
	"github.com/kaspanet/ghostdagd/util/mstime"
	"github.com/pkg/errors"
)

// ValidateHeaderInIsolation validates block headers in isolation from the current
// consensus state
func (v *blockValidator) ValidateHeaderInIsolation(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash) error {
	onEnd := logger.LogAndMeasureExecutionTime(log, "ValidateHeaderInIsolation")
	defer onEnd()

	header, err := v.blockHeaderStore.BlockHeader(v.databaseContext, stagingArea, blockHash)
	if err != nil {
		return err
	}

	if blockHash.Equal(v.genesisHash) {
		return nil
	}

	err = checkBlockVersion(header)
	if err != nil {
		return err
	}

	err = v.checkParentsLimit(header)
	if err != nil {
		return err
	}

	err = checkNoDuplicateParents(header)
	if err != nil {
		return err
	}

	err = v.checkBlockTimestampInIsolation(header)
	if err != nil {
		return err
	}

	err = v.checkProofOfWork(header)
	if err != nil {
		return err
	}

	return nil
}

func checkBlockVersion(header *externalapi.DomainBlockHeader) error {
	if header.Version > constants.MaxBlockVersion {
		return errors.Wrapf(
			ruleerrors.ErrBlockVersionIsUnknown, "The block version is unknown.")
	}
	return nil
}

func (v *blockValidator) checkParentsLimit(header *externalapi.DomainBlockHeader) error {
	if len(header.ParentHashes) == 0 {
		return errors.Wrapf(ruleerrors.ErrNoParents, "block has no parents")
	}

	if len(header.ParentHashes) > v.maxBlockParents {
		return errors.Wrapf(ruleerrors.ErrTooManyParents, "block header has %d parents, but the maximum allowed amount "+
			"is %d", len(header.ParentHashes), v.maxBlockParents)
	}
	return nil
}

func checkNoDuplicateParents(header *externalapi.DomainBlockHeader) error {
	seen := make(map[externalapi.DomainHash]struct{}, len(header.ParentHashes))
	for _, parentHash := range header.ParentHashes {
		if _, ok := seen[*parentHash]; ok {
			return errors.Wrapf(ruleerrors.ErrInvalidParentsRelation, "parent %s appears more than once", parentHash)
		}
		seen[*parentHash] = struct{}{}
	}
	return nil
}

// checkBlockTimestampInIsolation rejects blocks that are too far ahead of
// the local clock
func (v *blockValidator) checkBlockTimestampInIsolation(header *externalapi.DomainBlockHeader) error {
	blockTimestamp := header.TimeInMilliseconds
	now := mstime.NowUnixMilliseconds()
	maxCurrentTime := now + int64(v.timestampDeviationTolerance)*v.targetTimePerBlock.Milliseconds()
	if blockTimestamp > maxCurrentTime {
		return errors.Wrapf(
			ruleerrors.ErrTimeTooMuchInTheFuture, "The block timestamp is in the future.")
	}
	return nil
}

// checkProofOfWork ensures the block header bits which indicate the target
// difficulty is in min/max range and that the block hash is less than the
// target difficulty as claimed.
func (v *blockValidator) checkProofOfWork(header *externalapi.DomainBlockHeader) error {
	// The target difficulty must be larger than zero.
	target := difficulty.CompactToBig(header.Bits)
	if target.Sign() <= 0 {
		return errors.Wrapf(ruleerrors.ErrNegativeTarget, "block target difficulty of %064x is too low",
			target)
	}

	// The target difficulty must be less than the maximum allowed.
	if target.Cmp(v.powMax) > 0 {
		return errors.Wrapf(ruleerrors.ErrTargetTooHigh, "block target difficulty of %064x is "+
			"higher than max of %064x", target, v.powMax)
	}

	if !v.skipPoW && !pow.CheckProofOfWorkWithTarget(header, target) {
		return errors.Wrap(ruleerrors.ErrInvalidPoW, "block has invalid proof of work")
	}
	return nil
}
