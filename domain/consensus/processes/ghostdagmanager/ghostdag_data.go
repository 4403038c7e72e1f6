package ghostdagmanager

import (
	"math/big"

	"github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"
)

// blockGHOSTDAGData is the mutable form of externalapi.BlockGHOSTDAGData
// used while a block's colouring is being computed
type blockGHOSTDAGData struct {
	blueScore          uint64
	blueWork           *big.Int
	selectedParent     *externalapi.DomainHash
	mergeSetBlues      []*externalapi.DomainHash
	mergeSetReds       []*externalapi.DomainHash
	bluesAnticoneSizes map[externalapi.DomainHash]externalapi.KType
	height             uint64
}

// ghostdagContext is satisfied by both the mutable and the stored form
// of GHOSTDAG data
type ghostdagContext interface {
	SelectedParent() *externalapi.DomainHash
	MergeSetBlues() []*externalapi.DomainHash
	BluesAnticoneSizes() map[externalapi.DomainHash]externalapi.KType
}

func newBlockGHOSTDAGData(selectedParent *externalapi.DomainHash, k externalapi.KType) *blockGHOSTDAGData {
	return &blockGHOSTDAGData{
		selectedParent:     selectedParent,
		mergeSetBlues:      make([]*externalapi.DomainHash, 0, k+1),
		mergeSetReds:       make([]*externalapi.DomainHash, 0),
		bluesAnticoneSizes: make(map[externalapi.DomainHash]externalapi.KType, k+1),
	}
}

func (bgd *blockGHOSTDAGData) SelectedParent() *externalapi.DomainHash {
	return bgd.selectedParent
}

func (bgd *blockGHOSTDAGData) MergeSetBlues() []*externalapi.DomainHash {
	return bgd.mergeSetBlues
}

func (bgd *blockGHOSTDAGData) BluesAnticoneSizes() map[externalapi.DomainHash]externalapi.KType {
	return bgd.bluesAnticoneSizes
}

func (bgd *blockGHOSTDAGData) toExternal() *externalapi.BlockGHOSTDAGData {
	return externalapi.NewBlockGHOSTDAGData(bgd.blueScore, bgd.blueWork, bgd.selectedParent,
		bgd.mergeSetBlues, bgd.mergeSetReds, bgd.bluesAnticoneSizes, bgd.height)
}
