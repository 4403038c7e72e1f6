package coinbasemanager

import (
	"github.com/kaspanet/ghostdagd/domain/consensus/model"
	"github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"
	"github.com/kaspanet/ghostdagd/domain/consensus/utils/constants"
	"github.com/kaspanet/ghostdagd/domain/consensus/utils/subnetworks"
	"github.com/kaspanet/ghostdagd/domain/consensus/utils/transactionhelper"
)

type coinbaseManager struct {
	databaseContext   model.DBReader
	ghostdagDataStore model.GHOSTDAGDataStore

	baseSubsidy                             uint64
	coinbasePayloadScriptPublicKeyMaxLength uint8
}

// New instantiates a new CoinbaseManager
func New(
	databaseContext model.DBReader,
	ghostdagDataStore model.GHOSTDAGDataStore,
	baseSubsidy uint64,
	coinbasePayloadScriptPublicKeyMaxLength uint8) model.CoinbaseManager {

	return &coinbaseManager{
		databaseContext:                         databaseContext,
		ghostdagDataStore:                       ghostdagDataStore,
		baseSubsidy:                             baseSubsidy,
		coinbasePayloadScriptPublicKeyMaxLength: coinbasePayloadScriptPublicKeyMaxLength,
	}
}

// ExpectedCoinbaseTransaction returns the coinbase transaction the given block
// must carry: a single output paying the base subsidy to the miner's script
// public key, with the block's blue score committed to in the payload
func (c *coinbaseManager) ExpectedCoinbaseTransaction(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash,
	coinbaseData *externalapi.DomainCoinbaseData) (*externalapi.DomainTransaction, error) {

	ghostdagData, err := c.ghostdagDataStore.Get(c.databaseContext, stagingArea, blockHash)
	if err != nil {
		return nil, err
	}

	payload, err := c.serializeCoinbasePayload(ghostdagData.BlueScore(), coinbaseData)
	if err != nil {
		return nil, err
	}

	scriptPublicKey := coinbaseData.ScriptPublicKey
	if scriptPublicKey == nil {
		scriptPublicKey = &externalapi.ScriptPublicKey{Script: []byte{}, Version: 0}
	}
	txOuts := []*externalapi.DomainTransactionOutput{
		{
			Value:           c.baseSubsidy,
			ScriptPublicKey: scriptPublicKey.Clone(),
		},
	}

	return transactionhelper.NewSubnetworkTransaction(constants.MaxTransactionVersion,
		[]*externalapi.DomainTransactionInput{}, txOuts, &subnetworks.SubnetworkIDCoinbase, 0, payload), nil
}
