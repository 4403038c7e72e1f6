package consensusstatemanager

import (
	"github.com/kaspanet/ghostdagd/domain/consensus/model"
	"github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"
)

// virtualState is the virtual as it was before the current staging area
// started changing it
type virtualState struct {
	selectedParent *externalapi.DomainHash

	// acceptanceDiff transforms the past UTXO set of selectedParent into
	// the virtual UTXO set
	acceptanceDiff externalapi.UTXODiff
}

// committedVirtualState returns nil if no block was added yet
func (csm *consensusStateManager) committedVirtualState(stagingArea *model.StagingArea) (*virtualState, error) {
	hasVirtual, err := csm.ghostdagDataStore.Has(csm.databaseContext, stagingArea, model.VirtualBlockHash)
	if err != nil {
		return nil, err
	}
	if !hasVirtual {
		return nil, nil
	}

	virtualGHOSTDAGData, err := csm.ghostdagDataStore.Get(csm.databaseContext, stagingArea, model.VirtualBlockHash)
	if err != nil {
		return nil, err
	}
	acceptanceDiff, err := csm.utxoDiffStore.UTXODiff(csm.databaseContext, stagingArea, model.VirtualBlockHash)
	if err != nil {
		return nil, err
	}
	return &virtualState{
		selectedParent: virtualGHOSTDAGData.SelectedParent(),
		acceptanceDiff: acceptanceDiff,
	}, nil
}

// resolveVirtual picks virtual parents until the selected one is found
// UTXO-valid. Every failed round disqualifies its candidate, and genesis
// is always valid, so this terminates.
func (csm *consensusStateManager) resolveVirtual(stagingArea *model.StagingArea, committedVirtual *virtualState,
	tips []*externalapi.DomainHash) ([]*externalapi.DomainHash, *externalapi.BlockGHOSTDAGData, error) {

	for {
		virtualParents, err := csm.pickVirtualParents(stagingArea, tips)
		if err != nil {
			return nil, nil, err
		}

		virtualGHOSTDAGData, err := csm.ghostdagManager.VirtualGHOSTDAGData(stagingArea, virtualParents)
		if err != nil {
			return nil, nil, err
		}

		selectedParent := virtualGHOSTDAGData.SelectedParent()
		status, err := csm.resolveBlockStatus(stagingArea, committedVirtual, selectedParent)
		if err != nil {
			return nil, nil, err
		}
		if status == externalapi.StatusUTXOValid {
			return virtualParents, virtualGHOSTDAGData, nil
		}
		log.Debugf("Virtual selected parent candidate %s resolved as %s, picking again", selectedParent, status)
	}
}

// updateVirtual stages the new virtual parents and GHOSTDAG data together
// with the diff that moves the stored virtual UTXO set to the new one
func (csm *consensusStateManager) updateVirtual(stagingArea *model.StagingArea, committedVirtual *virtualState,
	virtualParents []*externalapi.DomainHash, virtualGHOSTDAGData *externalapi.BlockGHOSTDAGData) error {

	log.Debugf("updateVirtual start with selected parent %s", virtualGHOSTDAGData.SelectedParent())
	defer log.Debugf("updateVirtual end")

	csm.blockRelationStore.StageBlockRelation(stagingArea, model.VirtualBlockHash, &model.BlockRelations{
		Parents:  externalapi.CloneHashes(virtualParents),
		Children: []*externalapi.DomainHash{},
	})
	csm.ghostdagDataStore.Stage(stagingArea, model.VirtualBlockHash, virtualGHOSTDAGData)

	selectedParentPastUTXO, err := csm.restorePastUTXO(stagingArea, committedVirtual,
		virtualGHOSTDAGData.SelectedParent())
	if err != nil {
		return err
	}

	virtualAcceptanceDiff, _, err := csm.calculateAcceptance(stagingArea, model.VirtualBlockHash,
		selectedParentPastUTXO)
	if err != nil {
		return err
	}

	virtualUTXODiff, err := selectedParentPastUTXO.WithDiff(virtualAcceptanceDiff)
	if err != nil {
		return err
	}
	log.Debugf("The virtual UTXO set changes by %d additions and %d removals",
		virtualUTXODiff.ToAdd().Len(), virtualUTXODiff.ToRemove().Len())

	csm.consensusStateStore.StageVirtualUTXODiff(stagingArea, virtualUTXODiff)
	csm.utxoDiffStore.Stage(stagingArea, model.VirtualBlockHash, virtualAcceptanceDiff)
	return nil
}
