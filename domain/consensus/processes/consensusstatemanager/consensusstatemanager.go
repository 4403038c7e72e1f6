package consensusstatemanager

import (
	"github.com/kaspanet/ghostdagd/domain/consensus/model"
	"github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"
)

// consensusStateManager manages the node's consensus state
type consensusStateManager struct {
	maxBlockParents int
	genesisHash     *externalapi.DomainHash
	databaseContext model.DBReader

	ghostdagManager     model.GHOSTDAGManager
	dagTopologyManager  model.DAGTopologyManager
	dagTraversalManager model.DAGTraversalManager

	blockRelationStore  model.BlockRelationStore
	blockStatusStore    model.BlockStatusStore
	ghostdagDataStore   model.GHOSTDAGDataStore
	consensusStateStore model.ConsensusStateStore
	multisetStore       model.MultisetStore
	blockStore          model.BlockStore
	utxoDiffStore       model.UTXODiffStore
	blockHeaderStore    model.BlockHeaderStore
}

// New instantiates a new ConsensusStateManager
func New(
	databaseContext model.DBReader,
	maxBlockParents int,
	genesisHash *externalapi.DomainHash,
	ghostdagManager model.GHOSTDAGManager,
	dagTopologyManager model.DAGTopologyManager,
	dagTraversalManager model.DAGTraversalManager,
	blockRelationStore model.BlockRelationStore,
	blockStatusStore model.BlockStatusStore,
	ghostdagDataStore model.GHOSTDAGDataStore,
	consensusStateStore model.ConsensusStateStore,
	multisetStore model.MultisetStore,
	blockStore model.BlockStore,
	utxoDiffStore model.UTXODiffStore,
	blockHeaderStore model.BlockHeaderStore) model.ConsensusStateManager {

	return &consensusStateManager{
		maxBlockParents: maxBlockParents,
		genesisHash:     genesisHash,
		databaseContext: databaseContext,

		ghostdagManager:     ghostdagManager,
		dagTopologyManager:  dagTopologyManager,
		dagTraversalManager: dagTraversalManager,

		blockRelationStore:  blockRelationStore,
		blockStatusStore:    blockStatusStore,
		ghostdagDataStore:   ghostdagDataStore,
		consensusStateStore: consensusStateStore,
		multisetStore:       multisetStore,
		blockStore:          blockStore,
		utxoDiffStore:       utxoDiffStore,
		blockHeaderStore:    blockHeaderStore,
	}
}

// VirtualSelectedParent returns the selected parent of the virtual block
func (csm *consensusStateManager) VirtualSelectedParent(stagingArea *model.StagingArea) (*externalapi.DomainHash, error) {
	virtualGHOSTDAGData, err := csm.ghostdagDataStore.Get(csm.databaseContext, stagingArea, model.VirtualBlockHash)
	if err != nil {
		return nil, err
	}
	return virtualGHOSTDAGData.SelectedParent(), nil
}
