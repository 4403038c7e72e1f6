package consensusstatemanager

import (
	"github.com/kaspanet/ghostdagd/domain/consensus/model"
	"github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"
	"github.com/kaspanet/ghostdagd/infrastructure/logger"
)

// AddBlock updates the virtual state with the given block: it recalculates
// the DAG tips, resolves a new virtual selected parent and moves the virtual
// UTXO set over to the resulting selected chain. It returns the changes made
// to the virtual selected parent chain.
func (csm *consensusStateManager) AddBlock(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash) (
	*externalapi.SelectedChainPath, error) {

	onEnd := logger.LogAndMeasureExecutionTime(log, "csm.AddBlock")
	defer onEnd()

	log.Debugf("AddBlock start for block %s", blockHash)
	defer log.Debugf("AddBlock end for block %s", blockHash)

	committedVirtual, err := csm.committedVirtualState(stagingArea)
	if err != nil {
		return nil, err
	}

	log.Debugf("Updating the DAG tips with block %s", blockHash)
	tips, err := csm.addTip(stagingArea, committedVirtual, blockHash)
	if err != nil {
		return nil, err
	}
	log.Debugf("After adding %s, the amount of new tips are %d", blockHash, len(tips))

	virtualParents, virtualGHOSTDAGData, err := csm.resolveVirtual(stagingArea, committedVirtual, tips)
	if err != nil {
		return nil, err
	}

	err = csm.updateVirtual(stagingArea, committedVirtual, virtualParents, virtualGHOSTDAGData)
	if err != nil {
		return nil, err
	}

	newVirtualSelectedParent := virtualGHOSTDAGData.SelectedParent()
	if committedVirtual == nil {
		return &externalapi.SelectedChainPath{
			Added:   []*externalapi.DomainHash{newVirtualSelectedParent},
			Removed: []*externalapi.DomainHash{},
		}, nil
	}
	if !newVirtualSelectedParent.Equal(committedVirtual.selectedParent) {
		log.Debugf("The virtual selected parent moved from %s to %s",
			committedVirtual.selectedParent, newVirtualSelectedParent)
	}
	return csm.dagTraversalManager.CalculateChainPath(stagingArea,
		committedVirtual.selectedParent, newVirtualSelectedParent)
}

// addTip stages and returns the DAG tips after the addition of the given
// block: the parents of the block stop being tips, and the block becomes a
// tip unless it already has children.
func (csm *consensusStateManager) addTip(stagingArea *model.StagingArea, committedVirtual *virtualState,
	blockHash *externalapi.DomainHash) ([]*externalapi.DomainHash, error) {

	var tips []*externalapi.DomainHash
	if committedVirtual != nil {
		var err error
		tips, err = csm.consensusStateStore.Tips(stagingArea, csm.databaseContext)
		if err != nil {
			return nil, err
		}
	}

	parents, err := csm.dagTopologyManager.Parents(stagingArea, blockHash)
	if err != nil {
		return nil, err
	}

	newTips := make([]*externalapi.DomainHash, 0, len(tips)+1)
	for _, tip := range tips {
		if tip.Equal(blockHash) || isHashInSlice(tip, parents) {
			continue
		}
		newTips = append(newTips, tip)
	}

	isTip, err := csm.dagTopologyManager.IsTip(stagingArea, blockHash)
	if err != nil {
		return nil, err
	}
	if isTip {
		newTips = append(newTips, blockHash)
	}

	csm.consensusStateStore.StageTips(stagingArea, newTips)
	return newTips, nil
}

func isHashInSlice(hash *externalapi.DomainHash, hashes []*externalapi.DomainHash) bool {
	for _, h := range hashes {
		if h.Equal(hash) {
			return true
		}
	}
	return false
}
