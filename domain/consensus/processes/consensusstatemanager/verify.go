package consensusstatemanager

import (
	"github.com/kaspanet/ghostdagd/domain/consensus/model"
	"github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"
	"github.com/kaspanet/ghostdagd/domain/consensus/ruleerrors"
	"github.com/kaspanet/ghostdagd/domain/consensus/utils/consensushashing"
	"github.com/kaspanet/ghostdagd/domain/consensus/utils/transactionhelper"
	"github.com/kaspanet/ghostdagd/domain/consensus/utils/utxo"
	"github.com/pkg/errors"
)

// verifyUTXO checks the block's UTXO commitment against the multiset of its
// past UTXO set, and every one of its transactions against that set
func (csm *consensusStateManager) verifyUTXO(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash,
	pastUTXO externalapi.UTXODiff, blockMultiset model.Multiset) error {

	log.Tracef("verifyUTXO start for block %s", blockHash)
	defer log.Tracef("verifyUTXO end for block %s", blockHash)

	header, err := csm.blockHeaderStore.BlockHeader(csm.databaseContext, stagingArea, blockHash)
	if err != nil {
		return err
	}
	calculatedCommitment := blockMultiset.Hash()
	if !header.UTXOCommitment.Equal(calculatedCommitment) {
		return errors.Wrapf(ruleerrors.ErrBadUTXOCommitment, "block %s UTXO commitment is invalid - block "+
			"header indicates %s, but calculated value is %s", blockHash, &header.UTXOCommitment, calculatedCommitment)
	}

	if blockHash.Equal(csm.genesisHash) {
		return nil
	}

	block, err := csm.blockStore.Block(csm.databaseContext, stagingArea, blockHash)
	if err != nil {
		return err
	}
	for _, transaction := range block.Transactions {
		if transactionhelper.IsCoinBase(transaction) {
			continue
		}
		err = csm.validateTransactionInContext(stagingArea, transaction, pastUTXO)
		if err != nil {
			return err
		}
	}
	return nil
}

func (csm *consensusStateManager) validateTransactionInContext(stagingArea *model.StagingArea,
	transaction *externalapi.DomainTransaction, pastUTXO externalapi.UTXODiff) error {

	emptyDiff := utxo.NewMutableUTXODiff()
	var missingOutpoints []*externalapi.DomainOutpoint
	var totalIn uint64
	for _, input := range transaction.Inputs {
		entry, found, err := csm.utxoEntry(stagingArea, &input.PreviousOutpoint, pastUTXO, emptyDiff)
		if err != nil {
			return err
		}
		if !found {
			outpoint := input.PreviousOutpoint
			missingOutpoints = append(missingOutpoints, &outpoint)
			continue
		}
		totalIn += entry.Amount()
	}
	if len(missingOutpoints) > 0 {
		return ruleerrors.NewErrMissingTxOut(missingOutpoints)
	}

	var totalOut uint64
	for _, output := range transaction.Outputs {
		totalOut += output.Value
	}
	if totalIn < totalOut {
		return errors.Wrapf(ruleerrors.ErrBadTxOutValue, "transaction %s spends %d while its inputs "+
			"hold only %d", consensushashing.TransactionID(transaction), totalOut, totalIn)
	}
	return nil
}
