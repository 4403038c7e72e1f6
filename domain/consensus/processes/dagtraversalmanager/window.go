package dagtraversalmanager

import (
	"github.com/kaspanet/ghostdagd/domain/consensus/model"
	"github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"
)

// BlueWindow returns a blockWindow of the given size that contains the
// blues in the past of highHash, walking down the selected parent chain
// and taking each chain block's merge set blues. The window is shorter than
// windowSize if the walk reaches genesis first.
func (dtm *dagTraversalManager) BlueWindow(stagingArea *model.StagingArea, highHash *externalapi.DomainHash,
	windowSize int) ([]*externalapi.DomainHash, error) {

	window := make([]*externalapi.DomainHash, 0, windowSize)
	if windowSize == 0 {
		return window, nil
	}

	current := highHash
	for !current.Equal(dtm.genesisHash) {
		currentGHOSTDAGData, err := dtm.ghostdagDataStore.Get(dtm.databaseContext, stagingArea, current)
		if err != nil {
			return nil, err
		}

		for _, blue := range currentGHOSTDAGData.MergeSetBlues() {
			window = append(window, blue)
			if len(window) == windowSize {
				return window, nil
			}
		}

		current = currentGHOSTDAGData.SelectedParent()
	}

	return window, nil
}
