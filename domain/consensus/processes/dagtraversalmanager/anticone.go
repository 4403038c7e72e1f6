package dagtraversalmanager

import (
	"github.com/kaspanet/ghostdagd/domain/consensus/model"
	"github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"
	"github.com/pkg/errors"
)

// ErrAnticoneTraversalLimit is returned when computing an anticone requires
// visiting more blocks than the configured limit
var ErrAnticoneTraversalLimit = errors.New("anticone traversal limit exceeded")

// Anticone returns the blocks that are neither in the past nor in the
// future of the given block, as seen from the current virtual tips
func (dtm *dagTraversalManager) Anticone(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash) (
	[]*externalapi.DomainHash, error) {

	tips, err := dtm.consensusStateStore.Tips(stagingArea, dtm.databaseContext)
	if err != nil {
		return nil, err
	}
	return dtm.anticoneFromBlocks(stagingArea, tips, blockHash)
}

func (dtm *dagTraversalManager) anticoneFromBlocks(stagingArea *model.StagingArea, tips []*externalapi.DomainHash,
	blockHash *externalapi.DomainHash) ([]*externalapi.DomainHash, error) {

	anticone := []*externalapi.DomainHash{}
	queue := externalapi.CloneHashes(tips)
	visited := make(map[externalapi.DomainHash]struct{})

	traversalCounter := uint64(0)
	for len(queue) > 0 {
		var current *externalapi.DomainHash
		current, queue = queue[0], queue[1:]

		if _, ok := visited[*current]; ok {
			continue
		}
		visited[*current] = struct{}{}

		currentIsAncestorOfBlock, err := dtm.dagTopologyManager.IsAncestorOf(stagingArea, current, blockHash)
		if err != nil {
			return nil, err
		}
		if currentIsAncestorOfBlock {
			continue
		}

		traversalCounter++
		if dtm.maxAnticoneTraversal > 0 && traversalCounter > dtm.maxAnticoneTraversal {
			return nil, errors.Wrapf(ErrAnticoneTraversalLimit, "passed max allowed traversal "+
				"(%d > %d) while computing the anticone of %s", traversalCounter, dtm.maxAnticoneTraversal, blockHash)
		}

		blockIsAncestorOfCurrent, err := dtm.dagTopologyManager.IsAncestorOf(stagingArea, blockHash, current)
		if err != nil {
			return nil, err
		}
		if !blockIsAncestorOfCurrent {
			anticone = append(anticone, current)
		}

		currentParents, err := dtm.dagTopologyManager.Parents(stagingArea, current)
		if err != nil {
			return nil, err
		}
		queue = append(queue, currentParents...)
	}

	return anticone, nil
}
