package pastmediantimemanager

import (
	"sort"

	"github.com/kaspanet/ghostdagd/domain/consensus/model"
	"github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"
)

// pastMedianTimeManager provides a method to resolve the
// past median time of a block
type pastMedianTimeManager struct {
	timestampDeviationTolerance int

	databaseContext model.DBReader

	dagTraversalManager model.DAGTraversalManager

	blockHeaderStore model.BlockHeaderStore
	genesisHash      *externalapi.DomainHash
}

// New instantiates a new PastMedianTimeManager
func New(timestampDeviationTolerance int,
	databaseContext model.DBReader,
	dagTraversalManager model.DAGTraversalManager,
	blockHeaderStore model.BlockHeaderStore,
	genesisHash *externalapi.DomainHash) model.PastMedianTimeManager {

	return &pastMedianTimeManager{
		timestampDeviationTolerance: timestampDeviationTolerance,
		databaseContext:             databaseContext,
		dagTraversalManager:         dagTraversalManager,
		blockHeaderStore:            blockHeaderStore,
		genesisHash:                 genesisHash,
	}
}

// PastMedianTime returns the median timestamp of the blue window preceding
// the given block. Genesis has its own timestamp as its past median time
func (pmtm *pastMedianTimeManager) PastMedianTime(stagingArea *model.StagingArea,
	blockHash *externalapi.DomainHash) (int64, error) {

	if blockHash.Equal(pmtm.genesisHash) {
		header, err := pmtm.blockHeaderStore.BlockHeader(pmtm.databaseContext, stagingArea, blockHash)
		if err != nil {
			return 0, err
		}
		return header.TimeInMilliseconds, nil
	}

	window, err := pmtm.dagTraversalManager.BlueWindow(stagingArea, blockHash, 2*pmtm.timestampDeviationTolerance-1)
	if err != nil {
		return 0, err
	}

	return pmtm.windowMedianTimestamp(stagingArea, window)
}

func (pmtm *pastMedianTimeManager) windowMedianTimestamp(stagingArea *model.StagingArea,
	window []*externalapi.DomainHash) (int64, error) {

	timestamps := make([]int64, len(window))
	for i, blockHash := range window {
		blockHeader, err := pmtm.blockHeaderStore.BlockHeader(pmtm.databaseContext, stagingArea, blockHash)
		if err != nil {
			return 0, err
		}
		timestamps[i] = blockHeader.TimeInMilliseconds
	}

	sort.Slice(timestamps, func(i, j int) bool {
		return timestamps[i] < timestamps[j]
	})

	return timestamps[len(timestamps)/2], nil
}
