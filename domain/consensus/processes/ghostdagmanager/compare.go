package ghostdagmanager

import (
	"github.com/kaspanet/ghostdagd/domain/consensus/model"
	"github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"
	"github.com/kaspanet/ghostdagd/domain/consensus/ruleerrors"
	"github.com/kaspanet/ghostdagd/domain/consensus/utils/hashes"
	"github.com/pkg/errors"
)

func (gm *ghostdagManager) ghostdagData(stagingArea *model.StagingArea,
	blockHash *externalapi.DomainHash) (*externalapi.BlockGHOSTDAGData, error) {

	hasData, err := gm.ghostdagDataStore.Has(gm.databaseContext, stagingArea, blockHash)
	if err != nil {
		return nil, err
	}
	if !hasData {
		return nil, errors.Wrapf(ruleerrors.ErrInvalidDAGStructure,
			"block %s has no GHOSTDAG data", blockHash)
	}
	return gm.ghostdagDataStore.Get(gm.databaseContext, stagingArea, blockHash)
}

// ChooseSelectedParent returns the block that is the greatest under the
// GHOSTDAG order among the given blocks
func (gm *ghostdagManager) ChooseSelectedParent(stagingArea *model.StagingArea,
	blockHashes ...*externalapi.DomainHash) (*externalapi.DomainHash, error) {

	if len(blockHashes) == 0 {
		return nil, errors.Wrapf(ruleerrors.ErrNoParents, "cannot choose a selected parent out of no blocks")
	}

	selectedParent := blockHashes[0]
	selectedParentGHOSTDAGData, err := gm.ghostdagData(stagingArea, selectedParent)
	if err != nil {
		return nil, err
	}
	for _, blockHash := range blockHashes[1:] {
		blockGHOSTDAGData, err := gm.ghostdagData(stagingArea, blockHash)
		if err != nil {
			return nil, err
		}

		if gm.Less(selectedParent, selectedParentGHOSTDAGData, blockHash, blockGHOSTDAGData) {
			selectedParent = blockHash
			selectedParentGHOSTDAGData = blockGHOSTDAGData
		}
	}

	return selectedParent, nil
}

// Less returns true if blockA is smaller than blockB under the GHOSTDAG
// order: by blue score, then by blue work, then by hash
func (gm *ghostdagManager) Less(blockHashA *externalapi.DomainHash, ghostdagDataA *externalapi.BlockGHOSTDAGData,
	blockHashB *externalapi.DomainHash, ghostdagDataB *externalapi.BlockGHOSTDAGData) bool {

	if ghostdagDataA.BlueScore() != ghostdagDataB.BlueScore() {
		return ghostdagDataA.BlueScore() < ghostdagDataB.BlueScore()
	}

	switch ghostdagDataA.BlueWork().Cmp(ghostdagDataB.BlueWork()) {
	case -1:
		return true
	case 1:
		return false
	default:
		return hashes.Less(blockHashA, blockHashB)
	}
}

func (gm *ghostdagManager) less(stagingArea *model.StagingArea,
	blockHashA *externalapi.DomainHash, blockHashB *externalapi.DomainHash) (bool, error) {

	ghostdagDataA, err := gm.ghostdagData(stagingArea, blockHashA)
	if err != nil {
		return false, err
	}
	ghostdagDataB, err := gm.ghostdagData(stagingArea, blockHashB)
	if err != nil {
		return false, err
	}
	return gm.Less(blockHashA, ghostdagDataA, blockHashB, ghostdagDataB), nil
}
