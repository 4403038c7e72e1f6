package externalapi

import (
	"math/big"
)

// KType defines the size of GHOSTDAG consensus algorithm K parameter.
type KType uint8

// BlockGHOSTDAGData represents GHOSTDAG data for some block
type BlockGHOSTDAGData struct {
	blueScore          uint64
	blueWork           *big.Int
	selectedParent     *DomainHash
	mergeSetBlues      []*DomainHash
	mergeSetReds       []*DomainHash
	bluesAnticoneSizes map[DomainHash]KType
	height             uint64
}

// NewBlockGHOSTDAGData creates a new instance of BlockGHOSTDAGData
func NewBlockGHOSTDAGData(
	blueScore uint64,
	blueWork *big.Int,
	selectedParent *DomainHash,
	mergeSetBlues []*DomainHash,
	mergeSetReds []*DomainHash,
	bluesAnticoneSizes map[DomainHash]KType,
	height uint64) *BlockGHOSTDAGData {

	return &BlockGHOSTDAGData{
		blueScore:          blueScore,
		blueWork:           blueWork,
		selectedParent:     selectedParent,
		mergeSetBlues:      mergeSetBlues,
		mergeSetReds:       mergeSetReds,
		bluesAnticoneSizes: bluesAnticoneSizes,
		height:             height,
	}
}

// BlueScore returns the BlueScore of the block
func (bgd *BlockGHOSTDAGData) BlueScore() uint64 {
	return bgd.blueScore
}

// BlueWork returns the BlueWork of the block
func (bgd *BlockGHOSTDAGData) BlueWork() *big.Int {
	return bgd.blueWork
}

// SelectedParent returns the SelectedParent of the block
func (bgd *BlockGHOSTDAGData) SelectedParent() *DomainHash {
	return bgd.selectedParent
}

// MergeSetBlues returns the MergeSetBlues of the block (not a copy)
func (bgd *BlockGHOSTDAGData) MergeSetBlues() []*DomainHash {
	return bgd.mergeSetBlues
}

// MergeSetReds returns the MergeSetReds of the block (not a copy)
func (bgd *BlockGHOSTDAGData) MergeSetReds() []*DomainHash {
	return bgd.mergeSetReds
}

// BluesAnticoneSizes returns a map between the blocks in its MergeSetBlues and the size of their anticone
func (bgd *BlockGHOSTDAGData) BluesAnticoneSizes() map[DomainHash]KType {
	return bgd.bluesAnticoneSizes
}

// Height returns the length of the selected parent chain below the block
func (bgd *BlockGHOSTDAGData) Height() uint64 {
	return bgd.height
}

// MergeSetSize returns the number of blocks in the merge set, blues and reds together
func (bgd *BlockGHOSTDAGData) MergeSetSize() int {
	return len(bgd.mergeSetBlues) + len(bgd.mergeSetReds)
}

// MergeSet returns the whole MergeSet of the block, blues first
func (bgd *BlockGHOSTDAGData) MergeSet() []*DomainHash {
	mergeSet := make([]*DomainHash, 0, bgd.MergeSetSize())
	mergeSet = append(mergeSet, bgd.mergeSetBlues...)
	mergeSet = append(mergeSet, bgd.mergeSetReds...)
	return mergeSet
}

// Equal returns whether bgd equals to other
func (bgd *BlockGHOSTDAGData) Equal(other *BlockGHOSTDAGData) bool {
	if bgd == nil || other == nil {
		return bgd == other
	}

	if bgd.blueScore != other.blueScore || bgd.height != other.height {
		return false
	}

	if bgd.blueWork.Cmp(other.blueWork) != 0 {
		return false
	}

	if !bgd.selectedParent.Equal(other.selectedParent) {
		return false
	}

	if !HashesEqual(bgd.mergeSetBlues, other.mergeSetBlues) {
		return false
	}

	if !HashesEqual(bgd.mergeSetReds, other.mergeSetReds) {
		return false
	}

	if len(bgd.bluesAnticoneSizes) != len(other.bluesAnticoneSizes) {
		return false
	}
	for hash, size := range bgd.bluesAnticoneSizes {
		otherSize, ok := other.bluesAnticoneSizes[hash]
		if !ok || otherSize != size {
			return false
		}
	}

	return true
}
