package reachabilitymanager

import (
	"github.com/kaspanet/ghostdagd/domain/consensus/model"
	"github.com/kaspanet/ghostdagd/domain/consensus/model/externalapi"
	"github.com/pkg/errors"
)

// IsReachabilityTreeAncestorOf checks if blockHashA is a reachability tree ancestor
// of blockHashB. Note that we use the graph theory convention
// here which defines that a block is also an ancestor of itself.
func (rt *reachabilityManager) IsReachabilityTreeAncestorOf(stagingArea *model.StagingArea,
	blockHashA, blockHashB *externalapi.DomainHash) (bool, error) {

	intervalA, err := rt.interval(stagingArea, blockHashA)
	if err != nil {
		return false, err
	}

	intervalB, err := rt.interval(stagingArea, blockHashB)
	if err != nil {
		return false, err
	}

	return intervalContains(intervalA, intervalB), nil
}

// IsDAGAncestorOf returns true if blockHashA is an ancestor of
// blockHashB in the DAG. A block is an ancestor of itself.
//
// Note: this method will return true if blockHashA == blockHashB
// The complexity of this method is O(log(|futureCoveringSet(blockHashA)|))
func (rt *reachabilityManager) IsDAGAncestorOf(stagingArea *model.StagingArea,
	blockHashA, blockHashB *externalapi.DomainHash) (bool, error) {

	// Check if this node is a reachability tree ancestor of the
	// other node
	isReachabilityTreeAncestor, err := rt.IsReachabilityTreeAncestorOf(stagingArea, blockHashA, blockHashB)
	if err != nil {
		return false, err
	}
	if isReachabilityTreeAncestor {
		return true, nil
	}

	// Otherwise, use previously registered future blocks to complete the
	// reachability test
	return rt.futureCoveringSetHasAncestorOf(stagingArea, blockHashA, blockHashB)
}

// FindNextAncestor finds the reachability tree child of ancestor
// that is also a reachability tree ancestor of descendant
func (rt *reachabilityManager) FindNextAncestor(stagingArea *model.StagingArea,
	descendant, ancestor *externalapi.DomainHash) (*externalapi.DomainHash, error) {

	if descendant.Equal(ancestor) {
		return nil, errors.Errorf("cannot find the next ancestor of %s below itself", ancestor)
	}

	ancestorChildren, err := rt.children(stagingArea, ancestor)
	if err != nil {
		return nil, err
	}

	nextAncestor, ok, err := rt.findAncestorOfNode(stagingArea, ancestorChildren, descendant)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.Errorf("%s is not a reachability tree ancestor of %s", ancestor, descendant)
	}

	return nextAncestor, nil
}

// findAncestorOfNode finds the member of the ordered tree nodes that is a
// reachability tree ancestor of node. Ordered tree nodes are pairwise
// disjoint and sorted by interval, so a binary search suffices.
func (rt *reachabilityManager) findAncestorOfNode(stagingArea *model.StagingArea,
	orderedTreeNodes []*externalapi.DomainHash, node *externalapi.DomainHash) (*externalapi.DomainHash, bool, error) {

	nodeInterval, err := rt.interval(stagingArea, node)
	if err != nil {
		return nil, false, err
	}

	index, err := rt.searchByIntervalStart(stagingArea, orderedTreeNodes, nodeInterval.Start)
	if err != nil {
		return nil, false, err
	}
	if index == 0 {
		return nil, false, nil
	}

	candidate := orderedTreeNodes[index-1]
	candidateInterval, err := rt.interval(stagingArea, candidate)
	if err != nil {
		return nil, false, err
	}
	if !intervalContains(candidateInterval, nodeInterval) {
		return nil, false, nil
	}
	return candidate, true, nil
}

// searchByIntervalStart returns the index of the first member of
// orderedTreeNodes whose interval starts after the given position
func (rt *reachabilityManager) searchByIntervalStart(stagingArea *model.StagingArea,
	orderedTreeNodes []*externalapi.DomainHash, position uint64) (int, error) {

	low := 0
	high := len(orderedTreeNodes)
	for low < high {
		middle := (low + high) / 2
		middleInterval, err := rt.interval(stagingArea, orderedTreeNodes[middle])
		if err != nil {
			return 0, err
		}
		if position < middleInterval.Start {
			high = middle
		} else {
			low = middle + 1
		}
	}
	return low, nil
}

// findCommonAncestorWithReindexRoot finds the most recent reachability
// tree ancestor common to both node and the given reindex root. Note
// that we assume that almost always the chain between the reindex root
// and the common ancestor is longer than the chain between node and the
// common ancestor.
func (rt *reachabilityManager) findCommonAncestorWithReindexRoot(stagingArea *model.StagingArea,
	node, reindexRoot *externalapi.DomainHash) (*externalapi.DomainHash, error) {

	current := node
	for {
		isAncestorOf, err := rt.IsReachabilityTreeAncestorOf(stagingArea, current, reindexRoot)
		if err != nil {
			return nil, err
		}

		if isAncestorOf {
			return current, nil
		}

		current, err = rt.parent(stagingArea, current)
		if err != nil {
			return nil, err
		}
		if current == nil {
			return nil, errors.Errorf("%s and the reindex root %s have no common tree ancestor",
				node, reindexRoot)
		}
	}
}
