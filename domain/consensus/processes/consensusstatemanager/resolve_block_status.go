package consensusstatemanager

import (
	"github.com/kaspanet/ghostdagd/domain/consensus/model"
	"github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"
	"github.com/kaspanet/ghostdagd/domain/consensus/ruleerrors"
)

// resolveBlockStatus verifies the UTXO state of every unverified block in
// the selected chain of blockHash, oldest first, and returns the resolved
// status of blockHash itself
func (csm *consensusStateManager) resolveBlockStatus(stagingArea *model.StagingArea, committedVirtual *virtualState,
	blockHash *externalapi.DomainHash) (externalapi.BlockStatus, error) {

	log.Debugf("resolveBlockStatus start for block %s", blockHash)
	defer log.Debugf("resolveBlockStatus end for block %s", blockHash)

	unverifiedBlocks, selectedParentStatus, err := csm.getUnverifiedChainBlocks(stagingArea, blockHash)
	if err != nil {
		return 0, err
	}
	if len(unverifiedBlocks) == 0 {
		log.Debugf("Block %s is already resolved as %s", blockHash, selectedParentStatus)
		return selectedParentStatus, nil
	}
	log.Debugf("Found %d unverified blocks in the selected chain of %s", len(unverifiedBlocks), blockHash)

	oldestUnverifiedBlock := unverifiedBlocks[len(unverifiedBlocks)-1]
	var pastUTXO externalapi.UTXODiff
	status := selectedParentStatus
	if status == externalapi.StatusUTXOValid {
		selectedParent, err := csm.selectedParent(stagingArea, oldestUnverifiedBlock)
		if err != nil {
			return 0, err
		}
		pastUTXO, err = csm.restorePastUTXO(stagingArea, committedVirtual, selectedParent)
		if err != nil {
			return 0, err
		}
	}

	for i := len(unverifiedBlocks) - 1; i >= 0; i-- {
		unverifiedBlockHash := unverifiedBlocks[i]
		if status == externalapi.StatusUTXOValid {
			status, pastUTXO, err = csm.resolveSingleBlockStatus(stagingArea, unverifiedBlockHash, pastUTXO)
			if err != nil {
				return 0, err
			}
		} else {
			status = externalapi.StatusDisqualifiedFromChain
		}
		log.Debugf("Block %s resolved as %s", unverifiedBlockHash, status)
		csm.blockStatusStore.Stage(stagingArea, unverifiedBlockHash, status)
	}

	return status, nil
}

// getUnverifiedChainBlocks returns the pending blocks of the selected chain
// of blockHash from the newest downwards, together with the status of the
// first verified block below them. Genesis counts as having a valid selected
// parent.
func (csm *consensusStateManager) getUnverifiedChainBlocks(stagingArea *model.StagingArea,
	blockHash *externalapi.DomainHash) ([]*externalapi.DomainHash, externalapi.BlockStatus, error) {

	var unverifiedBlocks []*externalapi.DomainHash
	current := blockHash
	for {
		status, err := csm.blockStatusStore.Get(csm.databaseContext, stagingArea, current)
		if err != nil {
			return nil, 0, err
		}
		if status != externalapi.StatusUTXOPendingVerification {
			return unverifiedBlocks, status, nil
		}
		unverifiedBlocks = append(unverifiedBlocks, current)
		if current.Equal(csm.genesisHash) {
			return unverifiedBlocks, externalapi.StatusUTXOValid, nil
		}

		current, err = csm.selectedParent(stagingArea, current)
		if err != nil {
			return nil, 0, err
		}
	}
}

// resolveSingleBlockStatus verifies a block whose selected parent is known
// to be valid. On success the block's UTXO diff and multiset are staged and
// its past UTXO set is returned as a diff from the stored virtual UTXO set.
func (csm *consensusStateManager) resolveSingleBlockStatus(stagingArea *model.StagingArea,
	blockHash *externalapi.DomainHash, selectedParentPastUTXO externalapi.UTXODiff) (
	externalapi.BlockStatus, externalapi.UTXODiff, error) {

	acceptanceDiff, multiset, err := csm.calculateAcceptance(stagingArea, blockHash, selectedParentPastUTXO)
	if err != nil {
		return 0, nil, err
	}

	pastUTXO, err := selectedParentPastUTXO.WithDiff(acceptanceDiff)
	if err != nil {
		return 0, nil, err
	}

	err = csm.verifyUTXO(stagingArea, blockHash, pastUTXO, multiset)
	if err != nil {
		if ruleerrors.IsRuleError(err) {
			log.Warnf("Block %s is disqualified from the selected chain: %s", blockHash, err)
			return externalapi.StatusDisqualifiedFromChain, nil, nil
		}
		return 0, nil, err
	}

	csm.multisetStore.Stage(stagingArea, blockHash, multiset)
	csm.utxoDiffStore.Stage(stagingArea, blockHash, acceptanceDiff)
	return externalapi.StatusUTXOValid, pastUTXO, nil
}

func (csm *consensusStateManager) selectedParent(stagingArea *model.StagingArea,
	blockHash *externalapi.DomainHash) (*externalapi.DomainHash, error) {

	ghostdagData, err := csm.ghostdagDataStore.Get(csm.databaseContext, stagingArea, blockHash)
	if err != nil {
		return nil, err
	}
	return ghostdagData.SelectedParent(), nil
}
