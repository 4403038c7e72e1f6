package consensusstatemanager

import (
	"github.com/kaspanet/ghostdagd/domain/consensus/model"
	"github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"
	"github.com/kaspanet/ghostdagd/domain/consensus/utils/consensushashing"
	"github.com/kaspanet/ghostdagd/domain/consensus/utils/multiset"
	"github.com/kaspanet/ghostdagd/domain/consensus/utils/transactionhelper"
	"github.com/kaspanet/ghostdagd/domain/consensus/utils/utxo"
	"github.com/kaspanet/ghostdagd/infrastructure/logger"
	"github.com/pkg/errors"
)

// CalculatePastUTXOAndMultiset returns the UTXO set in the past of the given
// block, expressed as a diff from the stored virtual UTXO set, together
// with the multiset that commits to it. The block's GHOSTDAG data must be
// available, the block itself does not have to be stored. A selected parent
// that is still pending verification gets resolved in stagingArea.
func (csm *consensusStateManager) CalculatePastUTXOAndMultiset(stagingArea *model.StagingArea,
	blockHash *externalapi.DomainHash) (externalapi.UTXODiff, model.Multiset, error) {

	onEnd := logger.LogAndMeasureExecutionTime(log, "CalculatePastUTXOAndMultiset")
	defer onEnd()

	committedVirtual, err := csm.committedVirtualState(stagingArea)
	if err != nil {
		return nil, nil, err
	}

	selectedParent, err := csm.selectedParent(stagingArea, blockHash)
	if err != nil {
		return nil, nil, err
	}
	// A side branch that never became the selected chain has no UTXO
	// diffs yet. Resolving it here only stages them.
	selectedParentStatus, err := csm.resolveBlockStatus(stagingArea, committedVirtual, selectedParent)
	if err != nil {
		return nil, nil, err
	}
	if selectedParentStatus != externalapi.StatusUTXOValid {
		return nil, nil, errors.Errorf("cannot calculate the past UTXO of %s: its selected parent %s is %s",
			blockHash, selectedParent, selectedParentStatus)
	}
	selectedParentPastUTXO, err := csm.restorePastUTXO(stagingArea, committedVirtual, selectedParent)
	if err != nil {
		return nil, nil, err
	}

	acceptanceDiff, blockMultiset, err := csm.calculateAcceptance(stagingArea, blockHash, selectedParentPastUTXO)
	if err != nil {
		return nil, nil, err
	}
	pastUTXO, err := selectedParentPastUTXO.WithDiff(acceptanceDiff)
	if err != nil {
		return nil, nil, err
	}
	return pastUTXO, blockMultiset, nil
}

// restorePastUTXO returns the past UTXO set of a UTXO-valid block as a diff
// from the stored virtual UTXO set. It undoes the diffs of the stored
// selected chain down to the common ancestor with blockHash, newest first,
// and then applies the diffs of the selected chain of blockHash, oldest
// first.
func (csm *consensusStateManager) restorePastUTXO(stagingArea *model.StagingArea, committedVirtual *virtualState,
	blockHash *externalapi.DomainHash) (externalapi.UTXODiff, error) {

	onEnd := logger.LogAndMeasureExecutionTime(log, "restorePastUTXO")
	defer onEnd()

	if committedVirtual == nil {
		if !blockHash.Equal(csm.genesisHash) {
			return nil, errors.Errorf("cannot restore the past UTXO of %s before genesis was added", blockHash)
		}
		return utxo.NewUTXODiff(), nil
	}

	var branch []*externalapi.DomainHash
	commonAncestor := blockHash
	for {
		isInStoredChain, err := csm.dagTopologyManager.IsInSelectedParentChainOf(stagingArea,
			commonAncestor, committedVirtual.selectedParent)
		if err != nil {
			return nil, err
		}
		if isInStoredChain {
			break
		}
		branch = append(branch, commonAncestor)
		commonAncestor, err = csm.selectedParent(stagingArea, commonAncestor)
		if err != nil {
			return nil, err
		}
	}

	accumulatedDiff := committedVirtual.acceptanceDiff.Reversed().CloneMutable()
	for current := committedVirtual.selectedParent; !current.Equal(commonAncestor); {
		currentDiff, err := csm.utxoDiffStore.UTXODiff(csm.databaseContext, stagingArea, current)
		if err != nil {
			return nil, err
		}
		err = accumulatedDiff.WithDiffInPlace(currentDiff.Reversed())
		if err != nil {
			return nil, err
		}
		current, err = csm.selectedParent(stagingArea, current)
		if err != nil {
			return nil, err
		}
	}

	for i := len(branch) - 1; i >= 0; i-- {
		branchBlockDiff, err := csm.utxoDiffStore.UTXODiff(csm.databaseContext, stagingArea, branch[i])
		if err != nil {
			return nil, err
		}
		err = accumulatedDiff.WithDiffInPlace(branchBlockDiff)
		if err != nil {
			return nil, err
		}
	}
	log.Tracef("Restored the past UTXO of %s through common ancestor %s and %d branch blocks",
		blockHash, commonAncestor, len(branch))

	return accumulatedDiff.ToImmutable(), nil
}

// calculateAcceptance accepts the transactions of the merge set of blockHash
// in GHOSTDAG order on top of the past UTXO set of its selected parent. It
// returns the resulting diff from the selected parent's past UTXO set and
// the updated multiset. Coinbase transactions of red blocks are not
// accepted, and transactions that spend missing outputs are skipped.
func (csm *consensusStateManager) calculateAcceptance(stagingArea *model.StagingArea,
	blockHash *externalapi.DomainHash, selectedParentPastUTXO externalapi.UTXODiff) (
	externalapi.UTXODiff, model.Multiset, error) {

	if blockHash.Equal(csm.genesisHash) {
		return utxo.NewUTXODiff(), multiset.New(), nil
	}

	ghostdagData, err := csm.ghostdagDataStore.Get(csm.databaseContext, stagingArea, blockHash)
	if err != nil {
		return nil, nil, err
	}
	selectedParentMultiset, err := csm.multisetStore.Get(csm.databaseContext, stagingArea, ghostdagData.SelectedParent())
	if err != nil {
		return nil, nil, err
	}
	blockMultiset := selectedParentMultiset.Clone()

	sortedMergeSet, err := csm.ghostdagManager.GetSortedMergeSet(stagingArea, blockHash)
	if err != nil {
		return nil, nil, err
	}

	acceptanceDiff := utxo.NewMutableUTXODiff()
	for _, mergeSetBlockHash := range sortedMergeSet {
		mergeSetBlock, err := csm.blockStore.Block(csm.databaseContext, stagingArea, mergeSetBlockHash)
		if err != nil {
			return nil, nil, err
		}
		isBlue := isHashInSlice(mergeSetBlockHash, ghostdagData.MergeSetBlues())

		acceptedCount := 0
		for _, transaction := range mergeSetBlock.Transactions {
			if !isBlue && transactionhelper.IsCoinBase(transaction) {
				continue
			}
			isAccepted, err := csm.maybeAcceptTransaction(stagingArea, transaction, ghostdagData.BlueScore(),
				selectedParentPastUTXO, acceptanceDiff, blockMultiset)
			if err != nil {
				return nil, nil, err
			}
			if isAccepted {
				acceptedCount++
			}
		}
		log.Tracef("Block %s accepts %d of the %d transactions of merge set block %s",
			blockHash, acceptedCount, len(mergeSetBlock.Transactions), mergeSetBlockHash)
	}

	return acceptanceDiff.ToImmutable(), blockMultiset, nil
}

// maybeAcceptTransaction adds the transaction to acceptanceDiff and to the
// multiset if all of its inputs are unspent and none of its outputs exist yet
func (csm *consensusStateManager) maybeAcceptTransaction(stagingArea *model.StagingArea,
	transaction *externalapi.DomainTransaction, blueScore uint64, selectedParentPastUTXO externalapi.UTXODiff,
	acceptanceDiff externalapi.MutableUTXODiff, blockMultiset model.Multiset) (bool, error) {

	transactionID := consensushashing.TransactionID(transaction)

	spentEntries := make([]externalapi.UTXOEntry, len(transaction.Inputs))
	spentOutpoints := make(map[externalapi.DomainOutpoint]struct{}, len(transaction.Inputs))
	var totalIn uint64
	for i, input := range transaction.Inputs {
		if _, ok := spentOutpoints[input.PreviousOutpoint]; ok {
			return false, nil
		}
		spentOutpoints[input.PreviousOutpoint] = struct{}{}

		entry, found, err := csm.utxoEntry(stagingArea, &input.PreviousOutpoint, selectedParentPastUTXO, acceptanceDiff)
		if err != nil {
			return false, err
		}
		if !found {
			log.Tracef("Transaction %s spends a missing outpoint %s", transactionID, input.PreviousOutpoint)
			return false, nil
		}
		spentEntries[i] = entry
		totalIn += entry.Amount()
	}

	var totalOut uint64
	for i, output := range transaction.Outputs {
		outpoint := externalapi.NewDomainOutpoint(transactionID, uint32(i))
		_, exists, err := csm.utxoEntry(stagingArea, outpoint, selectedParentPastUTXO, acceptanceDiff)
		if err != nil {
			return false, err
		}
		if exists {
			log.Tracef("Transaction %s was already accepted", transactionID)
			return false, nil
		}
		totalOut += output.Value
	}
	if !transactionhelper.IsCoinBase(transaction) && totalIn < totalOut {
		return false, nil
	}

	for i, input := range transaction.Inputs {
		err := acceptanceDiff.RemoveEntry(&input.PreviousOutpoint, spentEntries[i])
		if err != nil {
			return false, err
		}
		blockMultiset.Remove(utxo.SerializeUTXO(spentEntries[i], &input.PreviousOutpoint))
	}

	isCoinbase := transactionhelper.IsCoinBase(transaction)
	for i, output := range transaction.Outputs {
		outpoint := externalapi.NewDomainOutpoint(transactionID, uint32(i))
		entry := utxo.NewUTXOEntry(output.Value, output.ScriptPublicKey, isCoinbase, blueScore)
		err := acceptanceDiff.AddEntry(outpoint, entry)
		if err != nil {
			return false, err
		}
		blockMultiset.Add(utxo.SerializeUTXO(entry, outpoint))
	}
	return true, nil
}

// utxoEntry looks an outpoint up in the view made of the stored virtual UTXO
// set, then selectedParentPastUTXO on top of it, then acceptanceDiff
func (csm *consensusStateManager) utxoEntry(stagingArea *model.StagingArea, outpoint *externalapi.DomainOutpoint,
	selectedParentPastUTXO externalapi.UTXODiff, acceptanceDiff externalapi.MutableUTXODiff) (
	externalapi.UTXOEntry, bool, error) {

	if entry, ok := acceptanceDiff.ToAdd().Get(outpoint); ok {
		return entry, true, nil
	}
	if acceptanceDiff.ToRemove().Contains(outpoint) {
		return nil, false, nil
	}
	if entry, ok := selectedParentPastUTXO.ToAdd().Get(outpoint); ok {
		return entry, true, nil
	}
	if selectedParentPastUTXO.ToRemove().Contains(outpoint) {
		return nil, false, nil
	}

	hasEntry, err := csm.consensusStateStore.HasUTXOByOutpoint(csm.databaseContext, stagingArea, outpoint)
	if err != nil {
		return nil, false, err
	}
	if !hasEntry {
		return nil, false, nil
	}
	entry, err := csm.consensusStateStore.UTXOByOutpoint(csm.databaseContext, stagingArea, outpoint)
	if err != nil {
		return nil, false, err
	}
	return entry, true, nil
}
