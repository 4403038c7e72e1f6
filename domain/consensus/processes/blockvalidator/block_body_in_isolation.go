package blockvalidator

import (
	"github.com/kaspanet/ghostdagd/domain/consensus/model"
	"github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"
	"github.com/kaspanet/ghostdagd/domain/consensus/ruleerrors"
	"github.com/kaspanet/ghostdagd/domain/consensus/utils/consensushashing"
	"github.com/kaspanet/ghostdagd/domain/consensus/utils/constants"
	"github.com/kaspanet/ghostdagd/domain/consensus/utils/merkle"
	"github.com/kaspanet/ghostdagd/domain/consensus/utils/transactionhelper"
	"github.com/kaspanet/ghostdagd/infrastructure/logger"
	"github.com/pkg/errors"
)

// ValidateBodyInIsolation validates block bodies in isolation from the current
// consensus state
func (v *blockValidator) ValidateBodyInIsolation(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash) error {
	onEnd := logger.LogAndMeasureExecutionTime(log, "ValidateBodyInIsolation")
	defer onEnd()

	block, err := v.blockStore.Block(v.databaseContext, stagingArea, blockHash)
	if err != nil {
		return err
	}

	err = v.checkBlockContainsAtLeastOneTransaction(block)
	if err != nil {
		return err
	}

	err = v.checkFirstBlockTransactionIsCoinbase(block)
	if err != nil {
		return err
	}

	err = v.checkBlockContainsOnlyOneCoinbase(block)
	if err != nil {
		return err
	}

	err = v.checkBlockHashMerkleRoot(block)
	if err != nil {
		return err
	}

	if blockHash.Equal(v.genesisHash) {
		return nil
	}

	err = v.checkCoinbaseInIsolation(block)
	if err != nil {
		return err
	}

	err = v.checkTransactionsInIsolation(block)
	if err != nil {
		return err
	}

	err = v.checkBlockMass(block)
	if err != nil {
		return err
	}

	err = v.checkBlockDuplicateTransactions(block)
	if err != nil {
		return err
	}

	err = v.checkBlockDoubleSpends(block)
	if err != nil {
		return err
	}

	return nil
}

func (v *blockValidator) checkBlockContainsAtLeastOneTransaction(block *externalapi.DomainBlock) error {
	if len(block.Transactions) == 0 {
		return errors.Wrapf(ruleerrors.ErrNoTransactions, "block does not contain "+
			"any transactions")
	}
	return nil
}

func (v *blockValidator) checkFirstBlockTransactionIsCoinbase(block *externalapi.DomainBlock) error {
	if !transactionhelper.IsCoinBase(block.Transactions[transactionhelper.CoinbaseTransactionIndex]) {
		return errors.Wrapf(ruleerrors.ErrFirstTxNotCoinbase, "first transaction in "+
			"block is not a coinbase")
	}
	return nil
}

func (v *blockValidator) checkBlockContainsOnlyOneCoinbase(block *externalapi.DomainBlock) error {
	for i, tx := range block.Transactions[transactionhelper.CoinbaseTransactionIndex+1:] {
		if transactionhelper.IsCoinBase(tx) {
			return errors.Wrapf(ruleerrors.ErrMultipleCoinbases, "block contains second coinbase at "+
				"index %d", i+transactionhelper.CoinbaseTransactionIndex+1)
		}
	}
	return nil
}

func (v *blockValidator) checkBlockHashMerkleRoot(block *externalapi.DomainBlock) error {
	calculatedHashMerkleRoot := merkle.CalculateHashMerkleRoot(block.Transactions)
	if !block.Header.HashMerkleRoot.Equal(calculatedHashMerkleRoot) {
		return errors.Wrapf(ruleerrors.ErrBadMerkleRoot, "block hash merkle root is invalid - block "+
			"header indicates %s, but calculated value is %s",
			&block.Header.HashMerkleRoot, calculatedHashMerkleRoot)
	}
	return nil
}

// checkCoinbaseInIsolation checks everything about the coinbase that does not
// depend on the block's GHOSTDAG data
func (v *blockValidator) checkCoinbaseInIsolation(block *externalapi.DomainBlock) error {
	coinbaseTx := block.Transactions[transactionhelper.CoinbaseTransactionIndex]
	if len(coinbaseTx.Inputs) != 0 {
		return errors.Wrapf(ruleerrors.ErrBadCoinbaseTransaction, "coinbase has %d inputs", len(coinbaseTx.Inputs))
	}

	_, _, err := v.coinbaseManager.ExtractCoinbaseDataAndBlueScore(coinbaseTx)
	if err != nil {
		return err
	}

	var totalOut uint64
	for _, output := range coinbaseTx.Outputs {
		totalOut += output.Value
		if totalOut > v.baseSubsidy || totalOut < output.Value {
			return errors.Wrapf(ruleerrors.ErrBadCoinbaseValue, "coinbase pays more than the "+
				"base subsidy of %d", v.baseSubsidy)
		}
	}
	return nil
}

func (v *blockValidator) checkTransactionsInIsolation(block *externalapi.DomainBlock) error {
	for _, tx := range block.Transactions {
		err := checkTransactionInIsolation(tx)
		if err != nil {
			return errors.Wrapf(err, "transaction %s failed isolation "+
				"check", consensushashing.TransactionID(tx))
		}
	}

	return nil
}

func checkTransactionInIsolation(tx *externalapi.DomainTransaction) error {
	if tx.Version > constants.MaxTransactionVersion {
		return errors.Wrapf(ruleerrors.ErrTransactionVersionIsUnknown, "validation rules for transaction version %d "+
			"are undefined", tx.Version)
	}

	if !transactionhelper.IsCoinBase(tx) && len(tx.Inputs) == 0 {
		return errors.Wrapf(ruleerrors.ErrNoTxInputs, "transaction has no inputs")
	}

	// Every output, and their sum, must not exceed the maximum amount of sompi
	var totalSompi uint64
	for i, output := range tx.Outputs {
		if output.Value > constants.MaxSompi {
			return errors.Wrapf(ruleerrors.ErrBadTxOutValue, "transaction output %d value of %d is "+
				"higher than max allowed value of %d", i, output.Value, uint64(constants.MaxSompi))
		}
		newTotalSompi := totalSompi + output.Value
		if newTotalSompi < totalSompi || newTotalSompi > constants.MaxSompi {
			return errors.Wrapf(ruleerrors.ErrBadTxOutValue, "total value of all transaction "+
				"outputs exceeds max allowed value of %d", uint64(constants.MaxSompi))
		}
		totalSompi = newTotalSompi
	}
	return nil
}

func (v *blockValidator) checkBlockMass(block *externalapi.DomainBlock) error {
	mass := uint64(0)
	for _, tx := range block.Transactions {
		massBefore := mass
		mass += transactionMass(tx)
		if mass > v.maxBlockMass || mass < massBefore {
			return errors.Wrapf(ruleerrors.ErrBlockMassTooHigh, "block exceeded the mass limit of %d",
				v.maxBlockMass)
		}
	}
	return nil
}

func (v *blockValidator) checkBlockDuplicateTransactions(block *externalapi.DomainBlock) error {
	existingTxIDs := make(map[externalapi.DomainTransactionID]struct{})
	for _, tx := range block.Transactions {
		id := consensushashing.TransactionID(tx)
		if _, exists := existingTxIDs[*id]; exists {
			return errors.Wrapf(ruleerrors.ErrDuplicateTx, "block contains duplicate "+
				"transaction %s", id)
		}
		existingTxIDs[*id] = struct{}{}
	}
	return nil
}

func (v *blockValidator) checkBlockDoubleSpends(block *externalapi.DomainBlock) error {
	usedOutpoints := make(map[externalapi.DomainOutpoint]*externalapi.DomainTransactionID)
	for _, tx := range block.Transactions {
		txID := consensushashing.TransactionID(tx)
		for _, input := range tx.Inputs {
			if spendingTxID, exists := usedOutpoints[input.PreviousOutpoint]; exists {
				return errors.Wrapf(ruleerrors.ErrDoubleSpendInSameBlock, "transaction %s spends "+
					"outpoint %s that was already spent by "+
					"transaction %s in this block", txID,
					input.PreviousOutpoint, spendingTxID)
			}
			usedOutpoints[input.PreviousOutpoint] = txID
		}
	}
	return nil
}
