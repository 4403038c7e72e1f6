package blockbuilder

import (
	"github.com/kaspanet/ghostdagd/domain/consensus/model"
	"github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"
	"github.com/kaspanet/ghostdagd/domain/consensus/utils/constants"
	"github.com/kaspanet/ghostdagd/domain/consensus/utils/merkle"
	"github.com/kaspanet/ghostdagd/infrastructure/logger"
	"github.com/kaspanet/ghostdagd/util/mstime"
)

// tempBlockHash is where the GHOSTDAG data of a block under construction is
// staged. It is never committed.
var tempBlockHash = externalapi.NewDomainHashFromByteArray(&[externalapi.DomainHashSize]byte{
	1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1})

type blockBuilder struct {
	databaseContext model.DBReader

	difficultyManager     model.DifficultyManager
	pastMedianTimeManager model.PastMedianTimeManager
	coinbaseManager       model.CoinbaseManager
	consensusStateManager model.ConsensusStateManager
	ghostdagManager       model.GHOSTDAGManager

	blockRelationStore model.BlockRelationStore
	ghostdagDataStore  model.GHOSTDAGDataStore
}

// New creates a new instance of a BlockBuilder
func New(
	databaseContext model.DBReader,

	difficultyManager model.DifficultyManager,
	pastMedianTimeManager model.PastMedianTimeManager,
	coinbaseManager model.CoinbaseManager,
	consensusStateManager model.ConsensusStateManager,
	ghostdagManager model.GHOSTDAGManager,

	blockRelationStore model.BlockRelationStore,
	ghostdagDataStore model.GHOSTDAGDataStore,
) model.BlockBuilder {

	return &blockBuilder{
		databaseContext: databaseContext,

		difficultyManager:     difficultyManager,
		pastMedianTimeManager: pastMedianTimeManager,
		coinbaseManager:       coinbaseManager,
		consensusStateManager: consensusStateManager,
		ghostdagManager:       ghostdagManager,

		blockRelationStore: blockRelationStore,
		ghostdagDataStore:  ghostdagDataStore,
	}
}

// BuildBlock builds a block over the current virtual parents, paying the
// coinbase to coinbaseData and carrying the given transactions
func (bb *blockBuilder) BuildBlock(coinbaseData *externalapi.DomainCoinbaseData,
	transactions []*externalapi.DomainTransaction) (*externalapi.DomainBlock, error) {

	onEnd := logger.LogAndMeasureExecutionTime(log, "BuildBlock")
	defer onEnd()

	stagingArea := model.NewStagingArea()
	virtualRelations, err := bb.blockRelationStore.BlockRelation(bb.databaseContext, stagingArea, model.VirtualBlockHash)
	if err != nil {
		return nil, err
	}
	return bb.buildBlock(stagingArea, virtualRelations.Parents, coinbaseData, transactions)
}

// buildBlock stages the would-be GHOSTDAG data of the block under
// tempBlockHash and derives the coinbase, UTXO commitment, timestamp and
// difficulty from it. The staging area must be discarded afterwards.
func (bb *blockBuilder) buildBlock(stagingArea *model.StagingArea, parentHashes []*externalapi.DomainHash,
	coinbaseData *externalapi.DomainCoinbaseData, transactions []*externalapi.DomainTransaction) (
	*externalapi.DomainBlock, error) {

	ghostdagData, err := bb.ghostdagManager.VirtualGHOSTDAGData(stagingArea, parentHashes)
	if err != nil {
		return nil, err
	}
	bb.ghostdagDataStore.Stage(stagingArea, tempBlockHash, ghostdagData)

	_, multiset, err := bb.consensusStateManager.CalculatePastUTXOAndMultiset(stagingArea, tempBlockHash)
	if err != nil {
		return nil, err
	}

	if coinbaseData == nil {
		coinbaseData = &externalapi.DomainCoinbaseData{
			ScriptPublicKey: &externalapi.ScriptPublicKey{Script: []byte{}, Version: 0},
			ExtraData:       []byte{},
		}
	}
	coinbase, err := bb.coinbaseManager.ExpectedCoinbaseTransaction(stagingArea, tempBlockHash, coinbaseData)
	if err != nil {
		return nil, err
	}
	transactionsWithCoinbase := append([]*externalapi.DomainTransaction{coinbase}, transactions...)

	timeInMilliseconds, err := bb.newBlockTime(stagingArea)
	if err != nil {
		return nil, err
	}
	bits, err := bb.difficultyManager.RequiredDifficulty(stagingArea, tempBlockHash)
	if err != nil {
		return nil, err
	}

	header := &externalapi.DomainBlockHeader{
		Version:            constants.MaxBlockVersion,
		ParentHashes:       externalapi.CloneHashes(parentHashes),
		HashMerkleRoot:     *merkle.CalculateHashMerkleRoot(transactionsWithCoinbase),
		UTXOCommitment:     *multiset.Hash(),
		TimeInMilliseconds: timeInMilliseconds,
		Bits:               bits,
	}
	return &externalapi.DomainBlock{
		Header:       header,
		Transactions: transactionsWithCoinbase,
	}, nil
}

// newBlockTime returns the current time, or one millisecond after the past
// median time if the clock is behind it
func (bb *blockBuilder) newBlockTime(stagingArea *model.StagingArea) (int64, error) {
	pastMedianTime, err := bb.pastMedianTimeManager.PastMedianTime(stagingArea, tempBlockHash)
	if err != nil {
		return 0, err
	}
	now := mstime.NowUnixMilliseconds()
	if now <= pastMedianTime {
		return pastMedianTime + 1, nil
	}
	return now, nil
}
