package ghostdagmanager

import (
	"math/big"

	"github.com/kaspanet/ghostdagd/domain/consensus/model"
	"github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"
	"github.com/kaspanet/ghostdagd/domain/consensus/ruleerrors"
	"github.com/kaspanet/ghostdagd/infrastructure/logger"
	"github.com/kaspanet/ghostdagd/util/difficulty"
	"github.com/pkg/errors"
)

// ErrGHOSTDAGDataMismatch is returned when GHOSTDAG is asked to stage data
// for a block that already has different data
var ErrGHOSTDAGDataMismatch = errors.New("block already has different GHOSTDAG data")

// GHOSTDAG runs the GHOSTDAG protocol and calculates the block BlockGHOSTDAGData by the given parents.
// The function calculates MergeSetBlues by iterating over the blocks in
// the anticone of the new block selected parent (which is the parent with the
// highest blue score) and adds any block to newNode.blues if by adding
// it to MergeSetBlues these conditions will not be violated:
//
// 1) |anticone-of-candidate-block ∩ blue-set-of-newBlock| ≤ K
//
// 2) For every blue block in blue-set-of-newBlock:
//    |(anticone-of-blue-block ∩ blue-set-newBlock) ∪ {candidate-block}| ≤ K.
//    We validate this condition by maintaining a map BluesAnticoneSizes for
//    each block which holds all the blue anticone sizes that were affected by
//    the new added blue blocks.
//    So to find out what is |anticone-of-blue ∩ blue-set-of-newBlock| we just iterate in
//    the selected parent chain of the new block until we find an existing entry in
//    BluesAnticoneSizes.
//
// For further details see the article https://eprint.iacr.org/2018/104.pdf
func (gm *ghostdagManager) GHOSTDAG(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash) error {
	onEnd := logger.LogAndMeasureExecutionTime(log, "ghostdagManager.GHOSTDAG")
	defer onEnd()

	var newBlockData *externalapi.BlockGHOSTDAGData
	if blockHash.Equal(gm.genesisHash) {
		newBlockData = gm.genesisGHOSTDAGData()
	} else {
		header, err := gm.headerStore.BlockHeader(gm.databaseContext, stagingArea, blockHash)
		if err != nil {
			return err
		}
		blockParents, err := gm.dagTopologyManager.Parents(stagingArea, blockHash)
		if err != nil {
			return err
		}
		newBlockData, err = gm.calculateGHOSTDAGData(stagingArea, blockParents, difficulty.CalcWork(header.Bits))
		if err != nil {
			return err
		}
	}

	hasData, err := gm.ghostdagDataStore.Has(gm.databaseContext, stagingArea, blockHash)
	if err != nil {
		return err
	}
	if hasData {
		existingData, err := gm.ghostdagDataStore.Get(gm.databaseContext, stagingArea, blockHash)
		if err != nil {
			return err
		}
		if !existingData.Equal(newBlockData) {
			return errors.Wrapf(ErrGHOSTDAGDataMismatch, "block %s", blockHash)
		}
		return nil
	}

	log.Tracef("Block %s has blue score %d and selected parent %s",
		blockHash, newBlockData.BlueScore(), newBlockData.SelectedParent())
	gm.ghostdagDataStore.Stage(stagingArea, blockHash, newBlockData)
	return nil
}

// VirtualGHOSTDAGData calculates the GHOSTDAG data of a block that would
// have the given parents, without staging it anywhere
func (gm *ghostdagManager) VirtualGHOSTDAGData(stagingArea *model.StagingArea,
	parentHashes []*externalapi.DomainHash) (*externalapi.BlockGHOSTDAGData, error) {

	return gm.calculateGHOSTDAGData(stagingArea, parentHashes, big.NewInt(0))
}

func (gm *ghostdagManager) genesisGHOSTDAGData() *externalapi.BlockGHOSTDAGData {
	return externalapi.NewBlockGHOSTDAGData(0, big.NewInt(0), gm.genesisHash,
		[]*externalapi.DomainHash{}, []*externalapi.DomainHash{},
		map[externalapi.DomainHash]externalapi.KType{}, 0)
}

func (gm *ghostdagManager) calculateGHOSTDAGData(stagingArea *model.StagingArea,
	blockParents []*externalapi.DomainHash, ownWork *big.Int) (*externalapi.BlockGHOSTDAGData, error) {

	if len(blockParents) == 0 {
		return nil, errors.Wrapf(ruleerrors.ErrNoParents, "cannot run GHOSTDAG without parents")
	}

	selectedParent, err := gm.ChooseSelectedParent(stagingArea, blockParents...)
	if err != nil {
		return nil, err
	}

	newBlockData := newBlockGHOSTDAGData(selectedParent, gm.k)
	newBlockData.mergeSetBlues = append(newBlockData.mergeSetBlues, selectedParent)
	newBlockData.bluesAnticoneSizes[*selectedParent] = 0

	mergeSetWithoutSelectedParent, err := gm.mergeSetWithoutSelectedParent(stagingArea, selectedParent, blockParents)
	if err != nil {
		return nil, err
	}

	for _, blueCandidate := range mergeSetWithoutSelectedParent {
		isBlue, candidateAnticoneSize, candidateBluesAnticoneSizes, err :=
			gm.checkBlueCandidate(stagingArea, newBlockData, blueCandidate)
		if err != nil {
			return nil, err
		}

		if isBlue {
			// No k-cluster violation found, we can now set the candidate block as blue
			newBlockData.mergeSetBlues = append(newBlockData.mergeSetBlues, blueCandidate)
			newBlockData.bluesAnticoneSizes[*blueCandidate] = candidateAnticoneSize
			for blue, blueAnticoneSize := range candidateBluesAnticoneSizes {
				newBlockData.bluesAnticoneSizes[blue] = blueAnticoneSize + 1
			}
		} else {
			newBlockData.mergeSetReds = append(newBlockData.mergeSetReds, blueCandidate)
		}
	}

	selectedParentGHOSTDAGData, err := gm.ghostdagDataStore.Get(gm.databaseContext, stagingArea, selectedParent)
	if err != nil {
		return nil, err
	}
	newBlockData.blueScore = selectedParentGHOSTDAGData.BlueScore() + uint64(len(newBlockData.mergeSetBlues))
	newBlockData.height = selectedParentGHOSTDAGData.Height() + 1

	blueWork := new(big.Int).Set(selectedParentGHOSTDAGData.BlueWork())
	for _, blue := range newBlockData.mergeSetBlues[1:] {
		blueHeader, err := gm.headerStore.BlockHeader(gm.databaseContext, stagingArea, blue)
		if err != nil {
			return nil, err
		}
		blueWork.Add(blueWork, difficulty.CalcWork(blueHeader.Bits))
	}
	blueWork.Add(blueWork, ownWork)
	newBlockData.blueWork = blueWork

	return newBlockData.toExternal(), nil
}

type chainBlock struct {
	hash      *externalapi.DomainHash
	blockData ghostdagContext
}

func (gm *ghostdagManager) checkBlueCandidate(stagingArea *model.StagingArea, newBlockData *blockGHOSTDAGData,
	blueCandidate *externalapi.DomainHash) (isBlue bool, candidateAnticoneSize externalapi.KType,
	candidateBluesAnticoneSizes map[externalapi.DomainHash]externalapi.KType, err error) {

	// The maximum length of node.blues can be K+1 because
	// it contains the selected parent.
	if externalapi.KType(len(newBlockData.mergeSetBlues)) == gm.k+1 {
		return false, 0, nil, nil
	}

	candidateBluesAnticoneSizes = make(map[externalapi.DomainHash]externalapi.KType, gm.k)

	// Iterate over all blocks in the blue set of newNode that are not in the past
	// of blueCandidate, and check for each one of them if blueCandidate potentially
	// enlarges their blue anticone to be over K, or that they enlarge the blue anticone
	// of blueCandidate to be over K.
	current := chainBlock{blockData: newBlockData}
	for {
		isBlue, isRed, err := gm.checkBlueCandidateWithChainBlock(stagingArea, newBlockData, current, blueCandidate,
			candidateBluesAnticoneSizes, &candidateAnticoneSize)
		if err != nil {
			return false, 0, nil, err
		}

		if isBlue {
			break
		}

		if isRed {
			return false, 0, nil, nil
		}

		selectedParentGHOSTDAGData, err := gm.ghostdagDataStore.Get(gm.databaseContext, stagingArea,
			current.blockData.SelectedParent())
		if err != nil {
			return false, 0, nil, err
		}

		current = chainBlock{hash: current.blockData.SelectedParent(),
			blockData: selectedParentGHOSTDAGData,
		}
	}

	return true, candidateAnticoneSize, candidateBluesAnticoneSizes, nil
}

func (gm *ghostdagManager) checkBlueCandidateWithChainBlock(stagingArea *model.StagingArea,
	newBlockData *blockGHOSTDAGData, chain chainBlock, blueCandidate *externalapi.DomainHash,
	candidateBluesAnticoneSizes map[externalapi.DomainHash]externalapi.KType,
	candidateAnticoneSize *externalapi.KType) (isBlue, isRed bool, err error) {

	// If blueCandidate is in the future of chainBlock, it means
	// that all remaining blues are in the past of chainBlock and thus
	// in the past of blueCandidate. In this case we know for sure that
	// the anticone of blueCandidate will not exceed K, and we can mark
	// it as blue.
	//
	// The new block is always in the future of blueCandidate, so there's
	// no point in checking it.

	// We check if chainBlock is not the new block by checking if it has a hash.
	if chain.hash != nil {
		isAncestorOfBlueCandidate, err := gm.dagTopologyManager.IsAncestorOf(stagingArea, chain.hash, blueCandidate)
		if err != nil {
			return false, false, err
		}
		if isAncestorOfBlueCandidate {
			return true, false, nil
		}
	}

	for _, block := range chain.blockData.MergeSetBlues() {
		// Skip blocks that exist in the past of blueCandidate.
		isAncestorOfBlueCandidate, err := gm.dagTopologyManager.IsAncestorOf(stagingArea, block, blueCandidate)
		if err != nil {
			return false, false, err
		}

		if isAncestorOfBlueCandidate {
			continue
		}

		blueAnticoneSize, err := gm.blueAnticoneSize(stagingArea, block, newBlockData)
		if err != nil {
			return false, false, err
		}
		candidateBluesAnticoneSizes[*block] = blueAnticoneSize

		*candidateAnticoneSize++
		if *candidateAnticoneSize > gm.k {
			// k-cluster violation: The candidate's blue anticone exceeded k
			return false, true, nil
		}

		if blueAnticoneSize == gm.k {
			// k-cluster violation: A block in candidate's blue anticone already
			// has k blue blocks in its own anticone
			return false, true, nil
		}

		// This is a sanity check that validates that a blue
		// block's blue anticone is not already larger than K.
		if blueAnticoneSize > gm.k {
			return false, false, errors.Errorf("found blue anticone size larger than k")
		}
	}

	return false, false, nil
}

// blueAnticoneSize returns the blue anticone size of 'block' from the worldview of 'context'.
// Expects 'block' to be in the blue set of 'context'
func (gm *ghostdagManager) blueAnticoneSize(stagingArea *model.StagingArea,
	block *externalapi.DomainHash, context ghostdagContext) (externalapi.KType, error) {

	current := context
	var currentHash *externalapi.DomainHash
	for {
		if blueAnticoneSize, ok := current.BluesAnticoneSizes()[*block]; ok {
			return blueAnticoneSize, nil
		}
		if currentHash != nil && currentHash.Equal(gm.genesisHash) {
			break
		}

		currentHash = current.SelectedParent()
		currentGHOSTDAGData, err := gm.ghostdagDataStore.Get(gm.databaseContext, stagingArea, currentHash)
		if err != nil {
			return 0, err
		}
		current = currentGHOSTDAGData
	}
	return 0, errors.Errorf("block %s is not in blue set of the given context", block)
}
