package reachabilitymanager

import (
	"github.com/kaspanet/ghostdagd/domain/consensus/model"
	"github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"
	"github.com/kaspanet/ghostdagd/infrastructure/logger"
)

// reachabilityManager maintains a structure that allows to answer
// reachability queries in sub-linear time
type reachabilityManager struct {
	databaseContext       model.DBReader
	reachabilityDataStore model.ReachabilityDataStore
	ghostdagDataStore     model.GHOSTDAGDataStore
	genesisHash           *externalapi.DomainHash
	reindexSlack          uint64
	reindexWindow         uint64
}

// New instantiates a new reachabilityManager
func New(
	databaseContext model.DBReader,
	ghostdagDataStore model.GHOSTDAGDataStore,
	reachabilityDataStore model.ReachabilityDataStore,
	genesisHash *externalapi.DomainHash,
) model.ReachabilityManager {
	return &reachabilityManager{
		databaseContext:       databaseContext,
		ghostdagDataStore:     ghostdagDataStore,
		reachabilityDataStore: reachabilityDataStore,
		genesisHash:           genesisHash,
		reindexSlack:          defaultReindexSlack,
		reindexWindow:         defaultReindexWindow,
	}
}

// Init registers the genesis block as the root of the reachability tree,
// unless it is registered already
func (rt *reachabilityManager) Init(stagingArea *model.StagingArea) error {
	hasGenesisData, err := rt.reachabilityDataStore.HasReachabilityData(rt.databaseContext, stagingArea, rt.genesisHash)
	if err != nil {
		return err
	}
	if hasGenesisData {
		return nil
	}

	rt.stageData(stagingArea, rt.genesisHash, newReachabilityTreeData())
	rt.stageReindexRoot(stagingArea, rt.genesisHash)
	return nil
}

// AddBlock adds the block with the given blockHash into the reachability tree.
func (rt *reachabilityManager) AddBlock(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash) error {
	onEnd := logger.LogAndMeasureExecutionTime(log, "reachabilityManager.AddBlock")
	defer onEnd()

	if blockHash.Equal(rt.genesisHash) {
		return rt.Init(stagingArea)
	}

	ghostdagData, err := rt.ghostdagDataStore.Get(rt.databaseContext, stagingArea, blockHash)
	if err != nil {
		return err
	}

	// Allocate a new reachability tree node
	rt.stageData(stagingArea, blockHash, newReachabilityLeafData())

	reindexRoot, err := rt.reindexRoot(stagingArea)
	if err != nil {
		return err
	}

	// Insert the node into the selected parent's reachability tree
	err = rt.addChild(stagingArea, ghostdagData.SelectedParent(), blockHash, reindexRoot)
	if err != nil {
		return err
	}

	// Add the block to the future covering sets of all the blocks
	// in the merge set, except for the selected parent which is
	// its reachability tree parent
	for _, current := range ghostdagData.MergeSet() {
		if current.Equal(ghostdagData.SelectedParent()) {
			continue
		}
		err = rt.insertToFutureCoveringSet(stagingArea, current, blockHash)
		if err != nil {
			return err
		}
	}

	return nil
}

// UpdateReindexRoot moves the reindex root towards the given selected tip,
// concentrating the interval space around the selected chain
func (rt *reachabilityManager) UpdateReindexRoot(stagingArea *model.StagingArea, selectedTip *externalapi.DomainHash) error {
	onEnd := logger.LogAndMeasureExecutionTime(log, "reachabilityManager.UpdateReindexRoot")
	defer onEnd()

	return rt.updateReindexRoot(stagingArea, selectedTip)
}
