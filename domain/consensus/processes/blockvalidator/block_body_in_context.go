package blockvalidator

import (
	"github.com/kaspanet/ghostdagd/domain/consensus/model"
	"github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"
	"github.com/kaspanet/ghostdagd/domain/consensus/ruleerrors"
	"github.com/kaspanet/ghostdagd/domain/consensus/utils/consensushashing"
	"github.com/kaspanet/ghostdagd/domain/consensus/utils/transactionhelper"
	"github.com/kaspanet/ghostdagd/infrastructure/logger"
	"github.com/pkg/errors"
)

// ValidateBodyInContext validates block bodies in the context of the current
// consensus state. Validation against the block's past UTXO set happens
// later, when the block is resolved as part of a selected chain.
func (v *blockValidator) ValidateBodyInContext(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash) error {
	onEnd := logger.LogAndMeasureExecutionTime(log, "ValidateBodyInContext")
	defer onEnd()

	if blockHash.Equal(v.genesisHash) {
		return nil
	}

	block, err := v.blockStore.Block(v.databaseContext, stagingArea, blockHash)
	if err != nil {
		return err
	}

	return v.checkCoinbaseMatchesExpected(stagingArea, blockHash, block)
}

// checkCoinbaseMatchesExpected rebuilds the coinbase from the data it
// carries and the block's blue score, and requires the block's coinbase to
// be identical to it
func (v *blockValidator) checkCoinbaseMatchesExpected(stagingArea *model.StagingArea,
	blockHash *externalapi.DomainHash, block *externalapi.DomainBlock) error {

	coinbaseTx := block.Transactions[transactionhelper.CoinbaseTransactionIndex]
	blueScore, coinbaseData, err := v.coinbaseManager.ExtractCoinbaseDataAndBlueScore(coinbaseTx)
	if err != nil {
		return err
	}

	expectedCoinbaseTx, err := v.coinbaseManager.ExpectedCoinbaseTransaction(stagingArea, blockHash, coinbaseData)
	if err != nil {
		return err
	}

	if !coinbaseTx.Equal(expectedCoinbaseTx) {
		return errors.Wrapf(ruleerrors.ErrBadCoinbaseTransaction, "coinbase transaction %s of block %s "+
			"committed to blue score %d is not the expected %s", consensushashing.TransactionID(coinbaseTx),
			blockHash, blueScore, consensushashing.TransactionID(expectedCoinbaseTx))
	}
	return nil
}
