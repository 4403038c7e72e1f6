package consensus

import (
	"sync"

	"github.com/kaspanet/ghostdagd/domain/consensus/model"
	"github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"
	"github.com/pkg/errors"
)

type consensus struct {
	lock            *sync.RWMutex
	databaseContext model.DBManager
	genesisHash     *externalapi.DomainHash

	blockProcessor        model.BlockProcessor
	blockBuilder          model.BlockBuilder
	blockValidator        model.BlockValidator
	coinbaseManager       model.CoinbaseManager
	consensusStateManager model.ConsensusStateManager
	difficultyManager     model.DifficultyManager
	pastMedianTimeManager model.PastMedianTimeManager
	ghostdagManager       model.GHOSTDAGManager
	dagTopologyManager    model.DAGTopologyManager
	dagTraversalManager   model.DAGTraversalManager
	reachabilityManager   model.ReachabilityManager

	blockStore            model.BlockStore
	blockHeaderStore      model.BlockHeaderStore
	blockStatusStore      model.BlockStatusStore
	blockRelationStore    model.BlockRelationStore
	consensusStateStore   model.ConsensusStateStore
	ghostdagDataStore     model.GHOSTDAGDataStore
	multisetStore         model.MultisetStore
	reachabilityDataStore model.ReachabilityDataStore
	utxoDiffStore         model.UTXODiffStore
}

// BuildBlock builds a block over the current virtual parents, paying the
// coinbase to coinbaseData and carrying the given transactions
func (s *consensus) BuildBlock(coinbaseData *externalapi.DomainCoinbaseData,
	transactions []*externalapi.DomainTransaction) (*externalapi.DomainBlock, error) {

	s.lock.Lock()
	defer s.lock.Unlock()

	return s.blockBuilder.BuildBlock(coinbaseData, transactions)
}

// ValidateAndInsertBlock validates the given block and, if valid, applies it
// to the current state
func (s *consensus) ValidateAndInsertBlock(block *externalapi.DomainBlock) (*externalapi.BlockInsertionResult, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.blockProcessor.ValidateAndInsertBlock(block)
}

func (s *consensus) GetBlock(blockHash *externalapi.DomainHash) (*externalapi.DomainBlock, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.blockStore.Block(s.databaseContext, model.NewStagingArea(), blockHash)
}

func (s *consensus) GetBlockHeader(blockHash *externalapi.DomainHash) (*externalapi.DomainBlockHeader, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.blockHeaderStore.BlockHeader(s.databaseContext, model.NewStagingArea(), blockHash)
}

func (s *consensus) GetBlockInfo(blockHash *externalapi.DomainHash) (*externalapi.BlockInfo, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	stagingArea := model.NewStagingArea()
	blockInfo := &externalapi.BlockInfo{}

	exists, err := s.blockStatusStore.Exists(s.databaseContext, stagingArea, blockHash)
	if err != nil {
		return nil, err
	}
	blockInfo.Exists = exists
	if !exists {
		return blockInfo, nil
	}

	blockStatus, err := s.blockStatusStore.Get(s.databaseContext, stagingArea, blockHash)
	if err != nil {
		return nil, err
	}
	blockInfo.BlockStatus = blockStatus

	// An invalid block has no GHOSTDAG data
	if blockStatus == externalapi.StatusInvalid {
		return blockInfo, nil
	}

	ghostdagData, err := s.ghostdagDataStore.Get(s.databaseContext, stagingArea, blockHash)
	if err != nil {
		return nil, err
	}
	blockInfo.BlueScore = ghostdagData.BlueScore()
	blockInfo.BlueWork = ghostdagData.BlueWork()
	blockInfo.SelectedParent = ghostdagData.SelectedParent()

	return blockInfo, nil
}

func (s *consensus) GetBlockGHOSTDAGData(blockHash *externalapi.DomainHash) (*externalapi.BlockGHOSTDAGData, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.ghostdagDataStore.Get(s.databaseContext, model.NewStagingArea(), blockHash)
}

func (s *consensus) GetVirtualInfo() (*externalapi.VirtualInfo, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	stagingArea := model.NewStagingArea()

	virtualRelations, err := s.blockRelationStore.BlockRelation(s.databaseContext, stagingArea, model.VirtualBlockHash)
	if err != nil {
		return nil, err
	}
	virtualGHOSTDAGData, err := s.ghostdagDataStore.Get(s.databaseContext, stagingArea, model.VirtualBlockHash)
	if err != nil {
		return nil, err
	}
	bits, err := s.difficultyManager.RequiredDifficulty(stagingArea, model.VirtualBlockHash)
	if err != nil {
		return nil, err
	}
	pastMedianTime, err := s.pastMedianTimeManager.PastMedianTime(stagingArea, model.VirtualBlockHash)
	if err != nil {
		return nil, err
	}

	return &externalapi.VirtualInfo{
		ParentHashes:   externalapi.CloneHashes(virtualRelations.Parents),
		SelectedParent: virtualGHOSTDAGData.SelectedParent(),
		Bits:           bits,
		PastMedianTime: pastMedianTime,
		BlueScore:      virtualGHOSTDAGData.BlueScore(),
		BlueWork:       virtualGHOSTDAGData.BlueWork(),
	}, nil
}

func (s *consensus) GetVirtualSelectedParent() (*externalapi.DomainHash, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.consensusStateManager.VirtualSelectedParent(model.NewStagingArea())
}

func (s *consensus) Tips() ([]*externalapi.DomainHash, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.consensusStateStore.Tips(model.NewStagingArea(), s.databaseContext)
}

func (s *consensus) GetSelectedChain(blockHash *externalapi.DomainHash) ([]*externalapi.DomainHash, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	stagingArea := model.NewStagingArea()
	err := s.validateBlockHashExists(stagingArea, blockHash)
	if err != nil {
		return nil, err
	}
	return s.dagTraversalManager.SelectedChain(stagingArea, blockHash)
}

func (s *consensus) GetAnticone(blockHash *externalapi.DomainHash) ([]*externalapi.DomainHash, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	stagingArea := model.NewStagingArea()
	err := s.validateBlockHashExists(stagingArea, blockHash)
	if err != nil {
		return nil, err
	}
	return s.dagTraversalManager.Anticone(stagingArea, blockHash)
}

func (s *consensus) IsDAGAncestorOf(blockHashA, blockHashB *externalapi.DomainHash) (bool, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	stagingArea := model.NewStagingArea()
	for _, blockHash := range []*externalapi.DomainHash{blockHashA, blockHashB} {
		err := s.validateBlockHashExists(stagingArea, blockHash)
		if err != nil {
			return false, err
		}
	}
	return s.dagTopologyManager.IsAncestorOf(stagingArea, blockHashA, blockHashB)
}

func (s *consensus) GetVirtualUTXOs() ([]*externalapi.OutpointAndUTXOEntryPair, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	iterator, err := s.consensusStateStore.VirtualUTXOSetIterator(s.databaseContext, model.NewStagingArea())
	if err != nil {
		return nil, err
	}
	defer iterator.Close()

	var pairs []*externalapi.OutpointAndUTXOEntryPair
	for iterator.Next() {
		outpoint, utxoEntry, err := iterator.Get()
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, &externalapi.OutpointAndUTXOEntryPair{
			Outpoint:  outpoint,
			UTXOEntry: utxoEntry,
		})
	}
	return pairs, nil
}

func (s *consensus) GetUTXOEntry(outpoint *externalapi.DomainOutpoint) (externalapi.UTXOEntry, bool, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	stagingArea := model.NewStagingArea()
	exists, err := s.consensusStateStore.HasUTXOByOutpoint(s.databaseContext, stagingArea, outpoint)
	if err != nil {
		return nil, false, err
	}
	if !exists {
		return nil, false, nil
	}

	utxoEntry, err := s.consensusStateStore.UTXOByOutpoint(s.databaseContext, stagingArea, outpoint)
	if err != nil {
		return nil, false, err
	}
	return utxoEntry, true, nil
}

func (s *consensus) validateBlockHashExists(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash) error {
	exists, err := s.blockStatusStore.Exists(s.databaseContext, stagingArea, blockHash)
	if err != nil {
		return err
	}
	if !exists {
		return errors.Errorf("block %s does not exist", blockHash)
	}
	return nil
}
