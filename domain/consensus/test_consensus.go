package consensus

import (
	"github.com/kaspanet/ghostdagd/domain/consensus/model"
	"github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"
	"github.com/kaspanet/ghostdagd/domain/consensus/model/testapi"
	"github.com/kaspanet/ghostdagd/domain/consensus/utils/consensushashing"
	"github.com/kaspanet/ghostdagd/domain/consensus/utils/pow"
	"github.com/kaspanet/ghostdagd/domain/dagconfig"
)

type testConsensus struct {
	*consensus
	dagParams *dagconfig.Params

	testBlockBuilder    testapi.TestBlockBuilder
	testReachabilityMgr testapi.TestReachabilityManager
}

func (tc *testConsensus) DAGParams() *dagconfig.Params {
	return tc.dagParams
}

func (tc *testConsensus) BuildBlockWithParents(parentHashes []*externalapi.DomainHash,
	coinbaseData *externalapi.DomainCoinbaseData, transactions []*externalapi.DomainTransaction) (
	*externalapi.DomainBlock, error) {

	// Require write lock because BuildBlockWithParents stages temporary data
	tc.lock.Lock()
	defer tc.lock.Unlock()

	return tc.testBlockBuilder.BuildBlockWithParents(parentHashes, coinbaseData, transactions)
}

func (tc *testConsensus) AddBlock(parentHashes []*externalapi.DomainHash, coinbaseData *externalapi.DomainCoinbaseData,
	transactions []*externalapi.DomainTransaction) (*externalapi.DomainHash, *externalapi.BlockInsertionResult, error) {

	block, err := tc.BuildBlockWithParents(parentHashes, coinbaseData, transactions)
	if err != nil {
		return nil, nil, err
	}
	return tc.SolveAndAddBlock(block)
}

func (tc *testConsensus) SolveAndAddBlock(block *externalapi.DomainBlock) (
	*externalapi.DomainHash, *externalapi.BlockInsertionResult, error) {

	if !tc.dagParams.SkipProofOfWork {
		pow.SolveBlock(block.Header)
	}

	blockInsertionResult, err := tc.ValidateAndInsertBlock(block)
	if err != nil {
		return nil, nil, err
	}
	return consensushashing.BlockHash(block), blockInsertionResult, nil
}

func (tc *testConsensus) AddUTXOInvalidBlock(parentHashes []*externalapi.DomainHash) (*externalapi.DomainHash,
	*externalapi.BlockInsertionResult, error) {

	block, err := tc.BuildBlockWithParents(parentHashes, nil, nil)
	if err != nil {
		return nil, nil, err
	}
	block.Header.UTXOCommitment = externalapi.DomainHash{}

	return tc.SolveAndAddBlock(block)
}

func (tc *testConsensus) DatabaseContext() model.DBManager {
	return tc.databaseContext
}
